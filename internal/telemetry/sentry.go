// Package telemetry provides opt-in, privacy filtered error reporting to
// Sentry.
package telemetry

import (
	"runtime"
	"sync"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/tphakala/weatherboard/internal/conf"
	"github.com/tphakala/weatherboard/internal/errors"
	"github.com/tphakala/weatherboard/internal/logger"
)

const flushTimeout = 2 * time.Second

var (
	initMu      sync.Mutex
	initialized bool
)

// Options adjust Sentry initialisation. Zero values use the defaults.
type Options struct {
	Release   string
	Transport sentry.Transport // tests inject a capturing transport
}

// InitSentry initialises Sentry when enabled in settings and installs the
// error reporter used by the errors package. It is a no-op when disabled.
func InitSentry(settings *conf.Settings, opts Options, log logger.Logger) error {
	if log == nil {
		log = logger.Global()
	}
	log = log.Module("telemetry")

	if !settings.Sentry.Enabled {
		log.Info("Sentry telemetry is disabled (opt-in required)")
		errors.SetTelemetryReporter(nil)
		return nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              settings.Sentry.DSN,
		SampleRate:       1.0,
		AttachStacktrace: false,
		Environment:      "production",
		ServerName:       "",
		Release:          opts.Release,
		Transport:        opts.Transport,
		BeforeSend:       applyPrivacyFilters,
	})
	if err != nil {
		return errors.New(err).
			Component("telemetry").
			Category(errors.CategoryConfiguration).
			Build()
	}

	sentry.ConfigureScope(func(scope *sentry.Scope) {
		scope.SetTag("os", runtime.GOOS)
		scope.SetTag("arch", runtime.GOARCH)
		scope.SetTag("go_version", runtime.Version())
	})

	errors.SetTelemetryReporter(errors.NewSentryReporter(true))

	initMu.Lock()
	initialized = true
	initMu.Unlock()

	log.Info("Sentry telemetry initialized", logger.String("release", opts.Release))
	return nil
}

// Flush waits for buffered events to be sent and detaches the reporter.
func Flush() {
	initMu.Lock()
	defer initMu.Unlock()
	if !initialized {
		return
	}
	sentry.Flush(flushTimeout)
	errors.SetTelemetryReporter(nil)
	initialized = false
}

// applyPrivacyFilters strips data that could identify the host or user.
func applyPrivacyFilters(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
	event.User = sentry.User{}
	event.ServerName = ""

	if event.Contexts != nil {
		delete(event.Contexts, "device")
		delete(event.Contexts, "os")
		delete(event.Contexts, "runtime")
	}

	for k := range event.Extra {
		if k != "error_type" && k != "component" {
			delete(event.Extra, k)
		}
	}

	if event.Tags != nil {
		delete(event.Tags, "server_name")
		delete(event.Tags, "hostname")
	}
	return event
}
