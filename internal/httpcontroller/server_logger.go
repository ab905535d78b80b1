package httpcontroller

import (
	"strings"

	"github.com/labstack/gommon/log"

	"github.com/tphakala/weatherboard/internal/logger"
)

// echoLogAdapter adapts our Logger to implement io.Writer for Echo
type echoLogAdapter struct {
	logger logger.Logger
}

// Write implements io.Writer for echoLogAdapter
func (a *echoLogAdapter) Write(p []byte) (n int, err error) {
	msg := strings.TrimSpace(string(p))
	if msg != "" {
		a.logger.Info(msg)
	}
	return len(p), nil
}

// initLogger routes echo's internal output to the structured logger. Echo's
// own level logging is switched off; requests are logged by
// RequestLoggerMiddleware.
func (s *Server) initLogger() {
	s.Echo.Logger.SetOutput(&echoLogAdapter{logger: s.logger})
	s.Echo.Logger.SetLevel(log.OFF)
}
