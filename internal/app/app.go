// Package app assembles the weatherboard services from settings.
package app

import (
	"net/http"
	"time"

	"github.com/tphakala/weatherboard/internal/buildinfo"
	"github.com/tphakala/weatherboard/internal/conf"
	"github.com/tphakala/weatherboard/internal/dashboard"
	"github.com/tphakala/weatherboard/internal/errors"
	"github.com/tphakala/weatherboard/internal/geolocation"
	"github.com/tphakala/weatherboard/internal/httpclient"
	"github.com/tphakala/weatherboard/internal/logger"
	"github.com/tphakala/weatherboard/internal/mqtt"
	"github.com/tphakala/weatherboard/internal/observability"
	"github.com/tphakala/weatherboard/internal/store"
	"github.com/tphakala/weatherboard/internal/telemetry"
	"github.com/tphakala/weatherboard/internal/weather"
)

// App holds the long-lived services of one process.
type App struct {
	Settings  *conf.Settings
	Logger    logger.Logger
	Metrics   *observability.Metrics
	Client    *httpclient.Client
	Store     store.Store
	Weather   *weather.Service
	Dashboard *dashboard.Controller

	publisher *mqtt.Publisher
	closers   []func() error
}

type options struct {
	transport http.RoundTripper
	logger    logger.Logger
	mqtt      mqtt.Client
}

// Option customises New.
type Option func(*options)

// WithTransport sets the HTTP transport used for provider and location calls.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *options) { o.transport = rt }
}

// WithLogger uses l instead of a logger built from the logging settings.
func WithLogger(l logger.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithMQTTClient uses c instead of a paho client for publishing.
func WithMQTTClient(c mqtt.Client) Option {
	return func(o *options) { o.mqtt = c }
}

// New builds all services from settings. Close releases them. Services
// opened before a failing step are closed before the error is returned.
func New(settings *conf.Settings, opts ...Option) (*App, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	a := &App{Settings: settings}
	if err := a.init(&o); err != nil {
		_ = a.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) init(o *options) error {
	settings := a.Settings
	if err := a.initLogger(o.logger); err != nil {
		return err
	}
	log := a.Logger

	if err := telemetry.InitSentry(settings, telemetry.Options{Release: buildinfo.Get().Release()}, log); err != nil {
		log.Warn("Sentry initialization failed", logger.Error(err))
	} else {
		a.closers = append(a.closers, func() error { telemetry.Flush(); return nil })
	}

	var err error
	if a.Metrics, err = observability.NewMetrics(); err != nil {
		return errors.New(err).
			Component("app").
			Category(errors.CategoryGeneric).
			Build()
	}

	a.Client = httpclient.New(&httpclient.Config{
		DefaultTimeout: settings.Weather.Timeout,
		Transport:      o.transport,
	})
	a.closers = append(a.closers, func() error { a.Client.Close(); return nil })
	a.Client.SetAfterResponseHook(func(req *http.Request, resp *http.Response, d time.Duration, _ error) {
		status := 0
		if resp != nil {
			status = resp.StatusCode
		}
		a.Metrics.HTTP.RecordOutboundRequest(req.URL.Host, status, d.Seconds())
	})

	if a.Weather, err = weather.NewServiceFromSettings(settings, a.Client, a.Metrics.Weather, log.Module("weather")); err != nil {
		return err
	}

	if a.Store, err = store.Open(settings, a.Metrics.Dashboard, log); err != nil {
		return err
	}
	a.closers = append(a.closers, a.Store.Close)

	var notifier dashboard.Notifier
	if settings.MQTT.Enabled {
		client := o.mqtt
		if client == nil {
			client = mqtt.NewClient(mqtt.ConfigFromSettings(settings), log)
		}
		a.publisher = mqtt.NewPublisher(client, settings.MQTT.Topic, log)
		a.closers = append(a.closers, func() error { a.publisher.Close(); return nil })
		notifier = a.publisher
	}

	a.Dashboard = dashboard.New(dashboard.Config{
		Fetcher:    a.Weather,
		Store:      a.Store,
		StorageKey: settings.Storage.Key,
		Locator:    geolocation.FromSettings(settings, a.Client, log.Module("geolocation")),
		Notifier:   notifier,
		Metrics:    a.Metrics.Dashboard,
		Logger:     log.Module("dashboard"),
	})
	return nil
}

// initLogger builds the process logger from the logging settings and makes
// it the global logger.
func (a *App) initLogger(override logger.Logger) error {
	if override != nil {
		a.Logger = override
		return nil
	}

	level := a.Settings.Logging.Level
	if a.Settings.Debug {
		level = string(logger.LogLevelDebug)
	}
	l, closer, err := logger.New(logger.LoggingConfig{
		DefaultLevel: level,
		Timezone:     a.Settings.Main.TimeZone,
		Console:      logger.ConsoleOutput{Enabled: a.Settings.Logging.Console},
		FileOutput: logger.FileOutput{
			Enabled: a.Settings.Logging.File != "",
			Path:    a.Settings.Logging.File,
		},
	})
	if err != nil {
		return errors.New(err).
			Component("app").
			Category(errors.CategoryConfiguration).
			Build()
	}
	logger.SetGlobal(l)
	a.Logger = l
	a.closers = append(a.closers, closer)
	return nil
}

// Close releases services in reverse order of creation.
func (a *App) Close() error {
	if a == nil {
		return nil
	}
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
