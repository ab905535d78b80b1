package httpcontroller

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// initRoutes registers the page, form, API and operational routes.
func (s *Server) initRoutes() {
	// Dashboard page and its form posts
	s.Echo.GET("/", s.dashboardHandler)
	s.Echo.POST("/cities", s.addCityFormHandler)
	s.Echo.POST("/cities/:id/delete", s.removeCityFormHandler)

	// JSON API
	api := s.Echo.Group("/api/v1")
	api.GET("/cities", s.listCitiesHandler)
	api.POST("/cities", s.addCityHandler)
	api.DELETE("/cities/:id", s.removeCityHandler)
	api.GET("/dashboard", s.dashboardJSONHandler)

	s.Echo.GET("/healthz", s.healthHandler)
	if s.Settings.WebServer.Metrics && s.metrics != nil {
		s.Echo.GET("/metrics", echo.WrapHandler(s.metrics.Handler()))
	}
}

// healthHandler reports liveness and the dashboard startup phase.
func (s *Server) healthHandler(c echo.Context) error {
	state := s.Dashboard.Snapshot()
	return c.JSON(http.StatusOK, map[string]any{
		"status": "ok",
		"phase":  state.Phase,
		"cities": len(state.Records),
	})
}
