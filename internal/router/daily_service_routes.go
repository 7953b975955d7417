package router

import (
	"github.com/labstack/echo/v4"

	"github.com/vmartins/escala-service/internal/handler"
	"github.com/vmartins/escala-service/internal/middleware"
)

// RegisterDailyService registers the service-of-the-day roster
// endpoints under /v1.  Reads go through the optional response cache;
// clearing a whole day is reserved for admins.
func RegisterDailyService(e *echo.Echo, h *handler.DailyServiceHandler, jwtSecret string, cache echo.MiddlewareFunc) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN", "OPERATOR"),
	)

	if cache != nil {
		g.GET("/daily-service", h.GetRoster, cache)
	} else {
		g.GET("/daily-service", h.GetRoster)
	}
	g.PUT("/daily-service", h.SaveRoster)
	g.DELETE("/daily-service", h.ClearRoster, middleware.RequireRole("ADMIN"))
}
