package app

import (
	"log"
	"strings"

	"doctor-manager-backend/internal/account"
	"doctor-manager-backend/internal/auth"
	"doctor-manager-backend/internal/config"
	"doctor-manager-backend/internal/dashboard"
	"doctor-manager-backend/internal/models"
	"doctor-manager-backend/internal/shift"
	"doctor-manager-backend/internal/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// ErrorResponse is the body every failed request gets, no internal detail
// (SQL text, stack traces) ever reaches the client.
type ErrorResponse struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func errorCode(status int) string {
	switch status {
	case fiber.StatusBadRequest:
		return "bad_request"
	case fiber.StatusUnauthorized:
		return "unauthorized"
	case fiber.StatusForbidden:
		return "forbidden"
	case fiber.StatusNotFound:
		return "not_found"
	case fiber.StatusConflict:
		return "conflict"
	default:
		return "internal_error"
	}
}

func New(cfg *config.Config, store *storage.Store) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(ErrorResponse{
					Status:  e.Code,
					Code:    errorCode(e.Code),
					Message: e.Message,
				})
			}
			log.Println("Unexpected error:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
				Status:  fiber.StatusInternalServerError,
				Code:    "internal_error",
				Message: "Unexpected server error",
			})
		},
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public
	api.Post("/login", auth.LoginHandler(cfg, store))

	// Authenticated (any role)
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Patch("/account", account.UpdateAccountHandler(store))
	protected.Get("/dashboards", dashboard.ListDashboardsHandler(store))
	protected.Get("/dashboards/:id/totals", dashboard.DashboardTotalsHandler(store))
	protected.Get("/dashboards/:dashboardId/shifts", shift.ListShiftsHandler(store))

	// Editors only: every mutating endpoint. Viewers can read but the server
	// no longer trusts the client to hide write controls.
	editor := protected.Group("")
	editor.Use(auth.RequireRole(models.RoleEditor))

	editor.Post("/dashboards", dashboard.CreateDashboardHandler(store))
	editor.Delete("/dashboards/:id", dashboard.DeleteDashboardHandler(store))
	editor.Post("/shifts", shift.CreateShiftHandler(store))
	editor.Delete("/shifts/:id", shift.DeleteShiftHandler(store))
	editor.Put("/shifts/:shiftId/counts", shift.UpdateShiftCountsHandler(store))

	return app
}
