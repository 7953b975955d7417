package router

import (
	"github.com/labstack/echo/v4"

	"github.com/vmartins/escala-service/internal/handler"
	"github.com/vmartins/escala-service/internal/middleware"
)

// RegisterReference registers the unit, vehicle and people catalog
// endpoints under /v1.  The lists change rarely, so reads go through
// the optional response cache.
func RegisterReference(e *echo.Echo, h *handler.ReferenceHandler, jwtSecret string, cache echo.MiddlewareFunc) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN", "OPERATOR"),
	)

	if cache != nil {
		g.GET("/units", h.ListUnits, cache)
		g.GET("/vehicles", h.ListVehicles, cache)
		g.GET("/personnel", h.ListPersonnel, cache)
		g.GET("/civilians", h.ListCivilians, cache)
		return
	}
	g.GET("/units", h.ListUnits)
	g.GET("/vehicles", h.ListVehicles)
	g.GET("/personnel", h.ListPersonnel)
	g.GET("/civilians", h.ListCivilians)
}
