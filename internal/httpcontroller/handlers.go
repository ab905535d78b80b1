package httpcontroller

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/tphakala/weatherboard/internal/logger"
	"github.com/tphakala/weatherboard/internal/view"
)

const defaultPageTitle = "Weather Dashboard"

// pageTitle is the instance name, or the default title when unset.
func (s *Server) pageTitle() string {
	if s.Settings != nil && s.Settings.Main.Name != "" {
		return s.Settings.Main.Name
	}
	return defaultPageTitle
}

// dashboardHandler renders the dashboard page.
func (s *Server) dashboardHandler(c echo.Context) error {
	data := PageData{
		Title:         s.pageTitle(),
		Page:          view.BuildPage(s.Dashboard.Snapshot()),
		ForecastTitle: view.ForecastTitle,
		RequestID:     c.Response().Header().Get(echo.HeaderXRequestID),
	}
	return c.Render(http.StatusOK, "index.html", data)
}

// addCityFormHandler handles the search form. Outcomes are reported through
// the dashboard banner, so every submission redirects back to the page.
func (s *Server) addCityFormHandler(c echo.Context) error {
	ctx := c.Request().Context()
	city := c.FormValue("city")
	country := c.FormValue("country")

	if _, err := s.Dashboard.AddCity(ctx, city, country); err != nil {
		s.logger.WithContext(ctx).Debug("Add city form rejected",
			logger.String("city", city), logger.Error(err))
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

// removeCityFormHandler handles a card's remove button.
func (s *Server) removeCityFormHandler(c echo.Context) error {
	id, err := parseCityID(c)
	if err != nil {
		return err
	}
	s.Dashboard.RemoveCity(c.Request().Context(), id)
	return c.Redirect(http.StatusSeeOther, "/")
}

// parseCityID reads the :id path parameter.
func parseCityID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid city id")
	}
	return id, nil
}
