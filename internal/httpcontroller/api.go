package httpcontroller

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tphakala/weatherboard/internal/dashboard"
	"github.com/tphakala/weatherboard/internal/errors"
	"github.com/tphakala/weatherboard/internal/logger"
	"github.com/tphakala/weatherboard/internal/view"
	"github.com/tphakala/weatherboard/internal/weather"
)

// AddCityRequest is the body of POST /api/v1/cities.
type AddCityRequest struct {
	City    string `json:"city"`
	Country string `json:"country"`
}

// CitiesResponse is the body of GET /api/v1/cities.
type CitiesResponse struct {
	Cities []weather.Record `json:"cities"`
	Banner string           `json:"banner,omitempty"`
	Phase  dashboard.Phase  `json:"phase"`
}

// ErrorResponse is the body of a failed API call.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// listCitiesHandler returns the tracked cities in dashboard order.
func (s *Server) listCitiesHandler(c echo.Context) error {
	state := s.Dashboard.Snapshot()
	return c.JSON(http.StatusOK, CitiesResponse{
		Cities: state.Records,
		Banner: state.Banner,
		Phase:  state.Phase,
	})
}

// dashboardJSONHandler returns the page view model.
func (s *Server) dashboardJSONHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, view.BuildPage(s.Dashboard.Snapshot()))
}

// addCityHandler adds a city and returns its record.
func (s *Server) addCityHandler(c echo.Context) error {
	var req AddCityRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid_request", Message: "request body must be JSON"})
	}

	ctx := c.Request().Context()
	record, err := s.Dashboard.AddCity(ctx, req.City, req.Country)
	if err != nil {
		status, code := addCityStatus(err)
		if status >= http.StatusInternalServerError {
			s.logger.WithContext(ctx).Error("Add city failed", logger.String("city", req.City), logger.Error(err))
		}
		return c.JSON(status, ErrorResponse{Error: code, Message: addCityMessage(err)})
	}
	return c.JSON(http.StatusCreated, record)
}

// removeCityHandler removes a city. Unknown ids succeed as well.
func (s *Server) removeCityHandler(c echo.Context) error {
	id, err := parseCityID(c)
	if err != nil {
		return err
	}
	s.Dashboard.RemoveCity(c.Request().Context(), id)
	return c.NoContent(http.StatusNoContent)
}

// addCityStatus maps dashboard errors to an HTTP status and error code.
func addCityStatus(err error) (status int, code string) {
	switch {
	case errors.Is(err, dashboard.ErrEmptyQuery):
		return http.StatusBadRequest, "empty_query"
	case errors.Is(err, dashboard.ErrDuplicateCity):
		return http.StatusConflict, "duplicate_city"
	case errors.Is(err, dashboard.ErrCityNotFound):
		return http.StatusNotFound, "city_not_found"
	case errors.Is(err, dashboard.ErrBusy):
		return http.StatusTooManyRequests, "busy"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

func addCityMessage(err error) string {
	switch {
	case errors.Is(err, dashboard.ErrEmptyQuery):
		return "city is required"
	case errors.Is(err, dashboard.ErrDuplicateCity):
		return dashboard.MsgDuplicateCity
	case errors.Is(err, dashboard.ErrCityNotFound):
		return dashboard.MsgCityNotFound
	case errors.Is(err, dashboard.ErrBusy):
		return dashboard.MsgBusy
	default:
		return "unable to add city"
	}
}
