package shift

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"doctor-manager-backend/internal/models"
	"doctor-manager-backend/internal/storage"

	"github.com/gofiber/fiber/v2"
)

type CountsResponse struct {
	ID           uint `json:"id"`
	ShiftID      uint `json:"shiftId"`
	Member1      int  `json:"member1"`
	Member2      int  `json:"member2"`
	Member3      int  `json:"member3"`
	PrivateCount int  `json:"privateCount"`
}

type ShiftResponse struct {
	ID          uint            `json:"id"`
	DashboardID uint            `json:"dashboardId"`
	DoctorName  string          `json:"doctorName"`
	ShiftTime   string          `json:"shiftTime"`
	CreatedAt   time.Time       `json:"createdAt"`
	Counts      *CountsResponse `json:"counts"`
}

type CreateShiftRequest struct {
	DashboardID uint   `json:"dashboardId"`
	DoctorName  string `json:"doctorName"`
	ShiftTime   string `json:"shiftTime"`
}

// UpdateCountsRequest carries absolute values, not deltas. The client
// computes increments against its cached state before calling.
type UpdateCountsRequest struct {
	Member1      *int `json:"member1"`
	Member2      *int `json:"member2"`
	Member3      *int `json:"member3"`
	PrivateCount *int `json:"privateCount"`
}

func newCountsResponse(counts *models.ShiftCount) *CountsResponse {
	if counts == nil {
		return nil
	}
	return &CountsResponse{
		ID:           counts.ID,
		ShiftID:      counts.ShiftID,
		Member1:      counts.Member1,
		Member2:      counts.Member2,
		Member3:      counts.Member3,
		PrivateCount: counts.PrivateCount,
	}
}

func newShiftResponse(s *models.Shift) ShiftResponse {
	return ShiftResponse{
		ID:          s.ID,
		DashboardID: s.DashboardID,
		DoctorName:  s.DoctorName,
		ShiftTime:   s.ShiftTime,
		CreatedAt:   s.CreatedAt,
		Counts:      newCountsResponse(s.Counts),
	}
}

func parseIDParam(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, name+": must be a positive number")
	}
	return uint(id), nil
}

// GET /api/dashboards/:dashboardId/shifts (any authenticated user)
func ListShiftsHandler(store *storage.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		dashboardID, err := parseIDParam(c, "dashboardId")
		if err != nil {
			return err
		}

		shifts, err := store.ShiftsByDashboardID(dashboardID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list shifts")
		}

		res := make([]ShiftResponse, 0, len(shifts))
		for i := range shifts {
			res = append(res, newShiftResponse(&shifts[i]))
		}
		return c.JSON(res)
	}
}

// POST /api/shifts (editor)
func CreateShiftHandler(store *storage.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateShiftRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.DoctorName = strings.TrimSpace(body.DoctorName)
		body.ShiftTime = strings.TrimSpace(body.ShiftTime)
		if body.DashboardID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "dashboardId: must be a positive number")
		}
		if body.DoctorName == "" {
			return fiber.NewError(fiber.StatusBadRequest, "doctorName: must not be empty")
		}
		if body.ShiftTime == "" {
			return fiber.NewError(fiber.StatusBadRequest, "shiftTime: must not be empty")
		}

		shift := models.Shift{
			DashboardID: body.DashboardID,
			DoctorName:  body.DoctorName,
			ShiftTime:   body.ShiftTime,
		}
		if err := store.CreateShift(&shift); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Dashboard not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create shift")
		}

		return c.Status(fiber.StatusCreated).JSON(newShiftResponse(&shift))
	}
}

// DELETE /api/shifts/:id (editor)
func DeleteShiftHandler(store *storage.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseIDParam(c, "id")
		if err != nil {
			return err
		}

		if err := store.DeleteShift(id); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Shift not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete shift")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}

// PUT /api/shifts/:shiftId/counts (editor)
func UpdateShiftCountsHandler(store *storage.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		shiftID, err := parseIDParam(c, "shiftId")
		if err != nil {
			return err
		}

		var body UpdateCountsRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		for name, v := range map[string]*int{
			"member1":      body.Member1,
			"member2":      body.Member2,
			"member3":      body.Member3,
			"privateCount": body.PrivateCount,
		} {
			if v != nil && *v < 0 {
				return fiber.NewError(fiber.StatusBadRequest, name+": must not be negative")
			}
		}

		counts, err := store.UpdateShiftCounts(shiftID, storage.CountUpdates{
			Member1:      body.Member1,
			Member2:      body.Member2,
			Member3:      body.Member3,
			PrivateCount: body.PrivateCount,
		})
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Shift counts not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update counts")
		}

		return c.JSON(*newCountsResponse(counts))
	}
}
