package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/vmartins/escala-service/internal/model"
	"github.com/vmartins/escala-service/internal/scheduler"
)

// DailyServiceHandler serves the "service of the day" roster.
type DailyServiceHandler struct {
	Daily *scheduler.DailyService
}

// NewDailyServiceHandler constructs a DailyServiceHandler and panics
// if the service is nil.
func NewDailyServiceHandler(daily *scheduler.DailyService) *DailyServiceHandler {
	if daily == nil {
		panic("nil service passed to NewDailyServiceHandler")
	}
	return &DailyServiceHandler{Daily: daily}
}

// GetRoster handles GET /v1/daily-service?date=YYYY-MM-DD.  The date
// defaults to today; a day with no roster returns an empty list.
func (h *DailyServiceHandler) GetRoster(c echo.Context) error {
	date := strings.TrimSpace(c.QueryParam("date"))
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	roster, err := h.Daily.Roster(c.Request().Context(), date)
	if err != nil {
		return respondOpError(c, err)
	}
	return c.JSON(http.StatusOK, roster)
}

// SaveRoster handles PUT /v1/daily-service and replaces a roster
// batch wholesale.
func (h *DailyServiceHandler) SaveRoster(c echo.Context) error {
	var body struct {
		OriginalStartsAt string `json:"original_starts_at"`
		StartsAt         string `json:"starts_at"`
		EndsAt           string `json:"ends_at"`
		Entries          []struct {
			Role       string           `json:"role"`
			PersonKind model.PersonKind `json:"person_kind"`
			PersonID   uint64           `json:"person_id"`
		} `json:"entries"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request body"})
	}
	in := scheduler.BatchInput{
		OriginalStartsAt: body.OriginalStartsAt,
		StartsAt:         body.StartsAt,
		EndsAt:           body.EndsAt,
		Entries:          make([]scheduler.BatchEntry, 0, len(body.Entries)),
	}
	for _, e := range body.Entries {
		in.Entries = append(in.Entries, scheduler.BatchEntry{
			Role:   e.Role,
			Person: model.PersonRef{Kind: e.PersonKind, ID: e.PersonID},
		})
	}
	if err := h.Daily.SaveBatch(c.Request().Context(), in); err != nil {
		return respondOpError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ClearRoster handles DELETE /v1/daily-service?date=YYYY-MM-DD and
// removes the batch active on that day; a day with no batch clears
// successfully.
func (h *DailyServiceHandler) ClearRoster(c echo.Context) error {
	date := strings.TrimSpace(c.QueryParam("date"))
	if date == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "date is required"})
	}
	if err := h.Daily.ClearDay(c.Request().Context(), date); err != nil {
		return respondOpError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
