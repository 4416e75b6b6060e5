package dashboard

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"doctor-manager-backend/internal/models"
	"doctor-manager-backend/internal/storage"

	"github.com/gofiber/fiber/v2"
)

type DashboardResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	ShareData bool      `json:"shareData"`
	CreatedAt time.Time `json:"createdAt"`
}

type CreateDashboardRequest struct {
	Name      string `json:"name"`
	Color     string `json:"color"`
	ShareData bool   `json:"shareData"`
}

// TotalsResponse sums each counter across every shift of the dashboard.
// The grand total is the sum of the four aggregates.
type TotalsResponse struct {
	DashboardID  uint `json:"dashboardId"`
	Member1      int  `json:"member1"`
	Member2      int  `json:"member2"`
	Member3      int  `json:"member3"`
	PrivateCount int  `json:"privateCount"`
	GrandTotal   int  `json:"grandTotal"`
}

func newDashboardResponse(d *models.Dashboard) DashboardResponse {
	return DashboardResponse{
		ID:        d.ID,
		Name:      d.Name,
		Color:     d.Color,
		ShareData: d.ShareData,
		CreatedAt: d.CreatedAt,
	}
}

func parseIDParam(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, name+": must be a positive number")
	}
	return uint(id), nil
}

// GET /api/dashboards (any authenticated user)
func ListDashboardsHandler(store *storage.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		dashboards, err := store.Dashboards()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list dashboards")
		}

		res := make([]DashboardResponse, 0, len(dashboards))
		for i := range dashboards {
			res = append(res, newDashboardResponse(&dashboards[i]))
		}
		return c.JSON(res)
	}
}

// POST /api/dashboards (editor)
func CreateDashboardHandler(store *storage.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateDashboardRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Name = strings.TrimSpace(body.Name)
		body.Color = strings.TrimSpace(body.Color)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "name: must not be empty")
		}
		if body.Color == "" {
			return fiber.NewError(fiber.StatusBadRequest, "color: must not be empty")
		}

		dashboard := models.Dashboard{
			Name:      body.Name,
			Color:     body.Color,
			ShareData: body.ShareData,
		}
		if err := store.CreateDashboard(&dashboard); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create dashboard")
		}

		return c.Status(fiber.StatusCreated).JSON(newDashboardResponse(&dashboard))
	}
}

// DELETE /api/dashboards/:id (editor)
func DeleteDashboardHandler(store *storage.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseIDParam(c, "id")
		if err != nil {
			return err
		}

		if err := store.DeleteDashboard(id); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Dashboard not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete dashboard")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}

// GET /api/dashboards/:id/totals (any authenticated user)
func DashboardTotalsHandler(store *storage.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseIDParam(c, "id")
		if err != nil {
			return err
		}

		totals, err := store.DashboardTotals(id)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Dashboard not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Could not compute totals")
		}

		return c.JSON(TotalsResponse{
			DashboardID:  id,
			Member1:      totals.Member1,
			Member2:      totals.Member2,
			Member3:      totals.Member3,
			PrivateCount: totals.PrivateCount,
			GrandTotal:   totals.GrandTotal,
		})
	}
}
