package handler

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/vmartins/escala-service/internal/model"
	"github.com/vmartins/escala-service/internal/queue"
	"github.com/vmartins/escala-service/internal/repository"
	"github.com/vmartins/escala-service/internal/scheduler"
	queue_publisher "github.com/vmartins/escala-service/internal/service"
)

// ShiftHandler bundles the scheduler and read-side repositories for
// duty shift endpoints.
type ShiftHandler struct {
	Sched  *scheduler.Scheduler
	Shifts *repository.ShiftRepo
	Crew   *repository.CrewRepo
}

// NewShiftHandler constructs a ShiftHandler and panics if any dependency is nil.
func NewShiftHandler(sched *scheduler.Scheduler, shifts *repository.ShiftRepo, crew *repository.CrewRepo) *ShiftHandler {
	if sched == nil || shifts == nil || crew == nil {
		panic("nil dependency passed to NewShiftHandler")
	}
	return &ShiftHandler{Sched: sched, Shifts: shifts, Crew: crew}
}

type crewMemberReq struct {
	PersonnelID uint64  `json:"personnel_id"`
	Role        *string `json:"role"`
}

func toCrew(in []crewMemberReq) []model.CrewMember {
	out := make([]model.CrewMember, 0, len(in))
	for _, m := range in {
		out = append(out, model.CrewMember{PersonnelID: m.PersonnelID, Role: m.Role})
	}
	return out
}

// CreateShift handles POST /v1/shifts.
func (h *ShiftHandler) CreateShift(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	var body struct {
		Date      string          `json:"date"`
		VehicleID uint64          `json:"vehicle_id"`
		UnitID    *uint64         `json:"unit_id"`
		ShiftType string          `json:"shift_type"`
		Notes     *string         `json:"notes"`
		StartsAt  string          `json:"starts_at"`
		EndsAt    string          `json:"ends_at"`
		Crew      []crewMemberReq `json:"crew"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request body"})
	}

	shift, err := h.Sched.Create(c.Request().Context(), scheduler.CreateInput{
		Date:      strings.TrimSpace(body.Date),
		VehicleID: body.VehicleID,
		UnitID:    body.UnitID,
		ShiftType: body.ShiftType,
		Notes:     body.Notes,
		StartsAt:  body.StartsAt,
		EndsAt:    body.EndsAt,
		Crew:      toCrew(body.Crew),
	})
	if err != nil {
		return respondOpError(c, err)
	}

	// The event reports the stored crew, which may be smaller than the
	// request's list after deduplication.
	crewSize := len(body.Crew)
	if stored, cerr := h.Crew.GetByShift(c.Request().Context(), shift.ID); cerr == nil {
		crewSize = len(stored)
	}

	// Notify downstream consumers; a broker outage must not fail the request.
	go func(ev queue.ShiftScheduledEvent) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := queue_publisher.PublishShiftScheduled(ctx, ev); err != nil {
			log.Printf("shift.scheduled publish skipped: %v", err)
		}
	}(queue.ShiftScheduledEvent{
		ShiftID:     shift.ID,
		Name:        shift.Name,
		ShiftType:   shift.ShiftType,
		Date:        shift.Date,
		UnitID:      shift.UnitID,
		VehicleID:   shift.VehicleID,
		CrewSize:    crewSize,
		ScheduledBy: userID,
		ScheduledAt: time.Now().UTC().Format("2006-01-02 15:04:05"),
	})

	detail, derr := h.Shifts.GetDetailByID(c.Request().Context(), shift.ID)
	if derr != nil {
		// fallback: return the bare row even if the joined read fails
		return c.JSON(http.StatusCreated, echo.Map{
			"id":         shift.ID,
			"name":       shift.Name,
			"shift_type": shift.ShiftType,
			"date":       shift.Date,
			"starts_at":  shift.StartsAt,
			"ends_at":    shift.EndsAt,
			"unit_id":    shift.UnitID,
			"vehicle_id": shift.VehicleID,
			"is_active":  shift.IsActive,
			"notes":      shift.Notes,
		})
	}
	return c.JSON(http.StatusCreated, detail)
}

// GetShift handles GET /v1/shifts/:id and returns the shift with its
// unit, vehicle prefix and crew.
func (h *ShiftHandler) GetShift(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid shift id"})
	}
	detail, err := h.Shifts.GetDetailByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrShiftNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "shift not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to load shift"})
	}
	return c.JSON(http.StatusOK, detail)
}

// ListShifts handles GET /v1/shifts with optional date range, unit and
// vehicle prefix filters plus page/limit pagination.
func (h *ShiftHandler) ListShifts(c echo.Context) error {
	var f repository.ShiftFilter
	f.DateFrom = strings.TrimSpace(c.QueryParam("date_from"))
	f.DateTo = strings.TrimSpace(c.QueryParam("date_to"))
	f.VehiclePrefix = strings.TrimSpace(c.QueryParam("vehicle_prefix"))
	if v := c.QueryParam("unit_id"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid unit_id"})
		}
		f.UnitID = n
	}
	if v := c.QueryParam("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid page"})
		}
		f.Page = n
	}
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 100 {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "limit must be between 1 and 100"})
		}
		f.Limit = n
	}

	shifts, total, err := h.Shifts.List(c.Request().Context(), f)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to list shifts"})
	}
	page := f.Page
	if page < 1 {
		page = 1
	}
	limit := f.Limit
	if limit < 1 {
		limit = 20
	}
	return c.JSON(http.StatusOK, echo.Map{
		"shifts": shifts,
		"total":  total,
		"page":   page,
		"limit":  limit,
	})
}

// UpdateShift handles PATCH /v1/shifts/:id.  Absent fields keep their
// values except notes and times of day, which clear when omitted; a
// crew list, even empty, replaces the whole crew.
func (h *ShiftHandler) UpdateShift(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid shift id"})
	}
	var body struct {
		Date      *string          `json:"date"`
		VehicleID *uint64          `json:"vehicle_id"`
		UnitID    *uint64          `json:"unit_id"`
		Notes     *string          `json:"notes"`
		StartsAt  *string          `json:"starts_at"`
		EndsAt    *string          `json:"ends_at"`
		Crew      *[]crewMemberReq `json:"crew"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request body"})
	}

	in := scheduler.UpdateInput{
		Date:      body.Date,
		VehicleID: body.VehicleID,
		UnitID:    body.UnitID,
		Notes:     body.Notes,
		StartsAt:  body.StartsAt,
		EndsAt:    body.EndsAt,
	}
	if body.Crew != nil {
		crew := toCrew(*body.Crew)
		in.Crew = &crew
	}
	if _, err := h.Sched.Update(c.Request().Context(), id, in); err != nil {
		return respondOpError(c, err)
	}
	detail, err := h.Shifts.GetDetailByID(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to reload shift"})
	}
	return c.JSON(http.StatusOK, detail)
}

// DeleteShift handles DELETE /v1/shifts/:id.
func (h *ShiftHandler) DeleteShift(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid shift id"})
	}
	if err := h.Sched.Delete(c.Request().Context(), id); err != nil {
		return respondOpError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
