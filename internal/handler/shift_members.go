package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// AttachVehicle handles POST /v1/shifts/:id/vehicles and links an
// additional vehicle to the shift.  Attaching the same vehicle twice
// succeeds without effect.
func (h *ShiftHandler) AttachVehicle(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid shift id"})
	}
	var body struct {
		VehicleID uint64 `json:"vehicle_id"`
	}
	if err := c.Bind(&body); err != nil || body.VehicleID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "vehicle_id is required"})
	}
	if err := h.Sched.AttachVehicle(c.Request().Context(), id, body.VehicleID); err != nil {
		return respondOpError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// DetachVehicle handles DELETE /v1/shifts/:id/vehicles/:vehicleID.
func (h *ShiftHandler) DetachVehicle(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid shift id"})
	}
	vehicleID, ok := pathID(c, "vehicleID")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid vehicle id"})
	}
	if err := h.Sched.DetachVehicle(c.Request().Context(), id, vehicleID); err != nil {
		return respondOpError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// AddCrewMember handles POST /v1/shifts/:id/personnel and assigns one
// person to the shift without touching the rest of the crew.
func (h *ShiftHandler) AddCrewMember(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid shift id"})
	}
	var body crewMemberReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request body"})
	}
	if err := h.Sched.AddCrewMember(c.Request().Context(), id, body.PersonnelID, body.Role); err != nil {
		return respondOpError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// RemoveCrewMember handles DELETE /v1/shifts/:id/personnel/:personnelID.
func (h *ShiftHandler) RemoveCrewMember(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid shift id"})
	}
	personnelID, ok := pathID(c, "personnelID")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid personnel id"})
	}
	if err := h.Sched.RemoveCrewMember(c.Request().Context(), id, personnelID); err != nil {
		return respondOpError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
