package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vmartins/escala-service/internal/repository"
)

// ReferenceHandler serves the unit, vehicle and people catalogs used
// to fill out scheduling forms.
type ReferenceHandler struct {
	Units    *repository.UnitRepo
	Vehicles *repository.VehicleRepo
	People   *repository.PersonnelRepo
}

// NewReferenceHandler constructs a ReferenceHandler and panics if any
// repository is nil.
func NewReferenceHandler(units *repository.UnitRepo, vehicles *repository.VehicleRepo, people *repository.PersonnelRepo) *ReferenceHandler {
	if units == nil || vehicles == nil || people == nil {
		panic("nil repository passed to NewReferenceHandler")
	}
	return &ReferenceHandler{Units: units, Vehicles: vehicles, People: people}
}

type unitPart struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

type vehiclePart struct {
	ID       uint64  `json:"id"`
	Prefix   string  `json:"prefix"`
	UnitID   *uint64 `json:"unit_id"`
	UnitName *string `json:"unit_name,omitempty"`
	IsActive bool    `json:"is_active"`
}

type personnelPart struct {
	ID       uint64  `json:"id"`
	FullName string  `json:"full_name"`
	WarName  *string `json:"war_name,omitempty"`
	Rank     string  `json:"rank"`
}

type civilianPart struct {
	ID       uint64 `json:"id"`
	FullName string `json:"full_name"`
}

// ListUnits handles GET /v1/units.
func (h *ReferenceHandler) ListUnits(c echo.Context) error {
	units, err := h.Units.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to list units"})
	}
	out := make([]unitPart, 0, len(units))
	for _, u := range units {
		out = append(out, unitPart{ID: u.ID, Name: u.Name})
	}
	return c.JSON(http.StatusOK, echo.Map{"units": out})
}

// ListVehicles handles GET /v1/vehicles.  Pass active=true to hide
// decommissioned vehicles.
func (h *ReferenceHandler) ListVehicles(c echo.Context) error {
	activeOnly := c.QueryParam("active") == "true"
	vehicles, err := h.Vehicles.List(c.Request().Context(), activeOnly)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to list vehicles"})
	}
	out := make([]vehiclePart, 0, len(vehicles))
	for _, v := range vehicles {
		out = append(out, vehiclePart{ID: v.ID, Prefix: v.Prefix, UnitID: v.UnitID, UnitName: v.UnitName, IsActive: v.IsActive})
	}
	return c.JSON(http.StatusOK, echo.Map{"vehicles": out})
}

// ListPersonnel handles GET /v1/personnel and returns active military
// members only.
func (h *ReferenceHandler) ListPersonnel(c echo.Context) error {
	people, err := h.People.ListMilitary(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to list personnel"})
	}
	out := make([]personnelPart, 0, len(people))
	for _, p := range people {
		out = append(out, personnelPart{ID: p.ID, FullName: p.FullName, WarName: p.WarName, Rank: p.Rank})
	}
	return c.JSON(http.StatusOK, echo.Map{"personnel": out})
}

// ListCivilians handles GET /v1/civilians.
func (h *ReferenceHandler) ListCivilians(c echo.Context) error {
	civilians, err := h.People.ListCivilians(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to list civilians"})
	}
	out := make([]civilianPart, 0, len(civilians))
	for _, cv := range civilians {
		out = append(out, civilianPart{ID: cv.ID, FullName: cv.FullName})
	}
	return c.JSON(http.StatusOK, echo.Map{"civilians": out})
}
