package httpcontroller

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/tphakala/weatherboard/internal/logger"
)

// configureMiddleware sets up middleware for the server.
func (s *Server) configureMiddleware() {
	s.Echo.Use(middleware.Recover())
	s.Echo.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	s.Echo.Use(s.TraceMiddleware)
	s.Echo.Use(s.RequestLoggerMiddleware)
}

// TraceMiddleware copies the request id into the request context so that
// log lines written while serving it carry the same trace id.
func (s *Server) TraceMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if id := c.Response().Header().Get(echo.HeaderXRequestID); id != "" {
			req := c.Request()
			c.SetRequest(req.WithContext(logger.WithTraceID(req.Context(), id)))
		}
		return next(c)
	}
}

// RequestLoggerMiddleware logs each request and records HTTP metrics by
// route pattern.
func (s *Server) RequestLoggerMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		if err != nil {
			// Write the error response now so the logged status is final.
			c.Error(err)
		}
		elapsed := time.Since(start)

		req := c.Request()
		status := c.Response().Status
		route := c.Path()
		if route == "" {
			route = "unmatched"
		}

		fields := []logger.Field{
			logger.String("method", req.Method),
			logger.String("path", req.URL.Path),
			logger.Int("status", status),
			logger.Duration("duration", elapsed),
			logger.String("client_ip", c.RealIP()),
		}
		log := s.logger.WithContext(req.Context())
		switch {
		case status >= 500:
			log.Error("HTTP request failed", append(fields, logger.Error(err))...)
		case status >= 400:
			log.Warn("HTTP request rejected", fields...)
		default:
			log.Debug("HTTP request", fields...)
		}

		if s.metrics != nil {
			s.metrics.HTTP.RecordHTTPRequest(req.Method, route, status, elapsed.Seconds())
		}
		return nil
	}
}
