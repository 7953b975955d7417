package router

import (
	"github.com/labstack/echo/v4"

	"github.com/vmartins/escala-service/internal/handler"
	"github.com/vmartins/escala-service/internal/middleware"
)

// RegisterShifts registers duty shift endpoints under /v1.  All routes
// require a valid JWT; mutations accept both scheduling roles since
// operators build the daily roster themselves.
func RegisterShifts(e *echo.Echo, h *handler.ShiftHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN", "OPERATOR"),
	)

	// ---- Shifts ----
	g.POST("/shifts", h.CreateShift)
	g.GET("/shifts", h.ListShifts)
	g.GET("/shifts/:id", h.GetShift)
	g.PUT("/shifts/:id", h.UpdateShift)
	g.PATCH("/shifts/:id", h.UpdateShift) // alias for clients that use PATCH
	g.DELETE("/shifts/:id", h.DeleteShift)

	// ---- Extra vehicles ----
	g.POST("/shifts/:id/vehicles", h.AttachVehicle)
	g.DELETE("/shifts/:id/vehicles/:vehicleID", h.DetachVehicle)

	// ---- Crew ----
	g.POST("/shifts/:id/personnel", h.AddCrewMember)
	g.DELETE("/shifts/:id/personnel/:personnelID", h.RemoveCrewMember)
}
