// Package httpcontroller serves the dashboard web page and its JSON API.
package httpcontroller

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tphakala/weatherboard/internal/conf"
	"github.com/tphakala/weatherboard/internal/dashboard"
	"github.com/tphakala/weatherboard/internal/errors"
	"github.com/tphakala/weatherboard/internal/logger"
	"github.com/tphakala/weatherboard/internal/observability"
	"github.com/tphakala/weatherboard/internal/weather"
)

const shutdownTimeout = 10 * time.Second

// Dashboard is the part of the dashboard controller the web surface uses.
type Dashboard interface {
	Snapshot() dashboard.State
	AddCity(ctx context.Context, city, country string) (*weather.Record, error)
	RemoveCity(ctx context.Context, id int64) bool
}

// Server encapsulates the Echo server and its collaborators.
type Server struct {
	Echo      *echo.Echo
	Settings  *conf.Settings
	Dashboard Dashboard

	metrics *observability.Metrics
	logger  logger.Logger
}

// New creates a server with middleware, templates and routes configured.
// metrics may be nil.
func New(settings *conf.Settings, dash Dashboard, metrics *observability.Metrics, log logger.Logger) (*Server, error) {
	if log == nil {
		log = logger.Global()
	}
	s := &Server{
		Echo:      echo.New(),
		Settings:  settings,
		Dashboard: dash,
		metrics:   metrics,
		logger:    log.Module("http"),
	}
	if err := s.initializeServer(); err != nil {
		return nil, err
	}
	return s, nil
}

// initializeServer configures and initializes the server.
func (s *Server) initializeServer() error {
	s.Echo.HideBanner = true
	s.Echo.HidePort = true
	s.initLogger()
	if err := s.setupTemplateRenderer(); err != nil {
		return err
	}
	s.configureMiddleware()
	s.initRoutes()
	return nil
}

// Start serves HTTP on the configured listen address until ctx is done, then
// shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	addr := s.Settings.WebServer.Listen
	errChan := make(chan error, 1)

	go func() {
		errChan <- s.Echo.Start(addr)
	}()
	s.logger.Info("HTTP server started", logger.String("listen", addr))

	select {
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.New(err).
			Component("http").
			Category(errors.CategoryNetwork).
			Context("listen", addr).
			Build()
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.Echo.Shutdown(shutdownCtx); err != nil {
		return errors.New(err).
			Component("http").
			Category(errors.CategoryTimeout).
			Build()
	}
	if err := <-errChan; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.logger.Info("HTTP server stopped")
	return nil
}
