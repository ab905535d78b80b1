// Package weather fetches current conditions and short forecasts for a city
// and reduces them to dashboard records.
package weather

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/tphakala/weatherboard/internal/conf"
	"github.com/tphakala/weatherboard/internal/errors"
	"github.com/tphakala/weatherboard/internal/httpclient"
	"github.com/tphakala/weatherboard/internal/logger"
	"github.com/tphakala/weatherboard/internal/observability/metrics"
)

// Fetcher turns a query into a record. Implemented by Service.
type Fetcher interface {
	Fetch(ctx context.Context, q Query) (*Record, error)
}

// Service handles weather data operations
type Service struct {
	provider Provider
	limiter  *rate.Limiter
	cache    *cache.Cache
	metrics  *metrics.WeatherMetrics
	location *time.Location
	log      logger.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithRateLimit limits provider calls to r requests per second with the
// given burst. r <= 0 disables limiting.
func WithRateLimit(r float64, burst int) Option {
	return func(s *Service) {
		if r <= 0 {
			s.limiter = nil
			return
		}
		s.limiter = rate.NewLimiter(rate.Limit(r), max(burst, 1))
	}
}

// WithCache reuses fetched records for ttl. ttl <= 0 disables caching.
func WithCache(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl <= 0 {
			s.cache = nil
			return
		}
		// no janitor goroutine, expired entries are purged on insert
		s.cache = cache.New(ttl, 0)
	}
}

// WithMetrics records fetch metrics.
func WithMetrics(m *metrics.WeatherMetrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithLocation sets the time zone used for forecast day labels.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.location = loc
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// NewService creates a new weather service backed by provider
func NewService(provider Provider, opts ...Option) *Service {
	s := &Service{
		provider: provider,
		location: time.Local,
		log:      logger.Global().Module("weather"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewServiceFromSettings builds the provider selected in settings and wraps
// it in a Service configured from the weather settings.
func NewServiceFromSettings(settings *conf.Settings, client *httpclient.Client, m *metrics.WeatherMetrics, log logger.Logger) (*Service, error) {
	if log == nil {
		log = logger.Global().Module("weather")
	}

	var provider Provider
	switch settings.Weather.Provider {
	case providerOpenWeather:
		if err := settings.RequireAPIKey(); err != nil {
			return nil, errors.New(err).
				Component("weather").
				Category(errors.CategoryConfiguration).
				Build()
		}
		provider = NewOpenWeatherProvider(client, OpenWeatherConfig{
			APIKey:   settings.Weather.APIKey,
			Endpoint: settings.Weather.Endpoint,
			Language: settings.Weather.Language,
		}, m, log)
	default:
		return nil, errors.New(fmt.Errorf("invalid weather provider: %s", settings.Weather.Provider)).
			Component("weather").
			Category(errors.CategoryConfiguration).
			Context("provider", settings.Weather.Provider).
			Build()
	}

	loc, err := settings.TimeLocation()
	if err != nil {
		return nil, errors.New(err).
			Component("weather").
			Category(errors.CategoryConfiguration).
			Context("timezone", settings.Main.TimeZone).
			Build()
	}

	return NewService(provider,
		WithRateLimit(settings.Weather.RateLimit, settings.Weather.Burst),
		WithCache(settings.Weather.CacheTTL),
		WithMetrics(m),
		WithLocation(loc),
		WithLogger(log),
	), nil
}

// Fetch retrieves current conditions and then the forecast for q and
// combines them into a record. The forecast is only requested after the
// current conditions call succeeded; if either call fails no record is
// returned.
func (s *Service) Fetch(ctx context.Context, q Query) (*Record, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	providerName := s.provider.Name()
	key := q.cacheKey()
	if s.cache != nil {
		if cached, ok := s.cache.Get(key); ok {
			s.recordCacheLookup(true)
			s.log.Debug("Weather record served from cache", logger.String("query", q.String()))
			return cached.(*Record).Clone(), nil
		}
		s.recordCacheLookup(false)
	}

	start := time.Now()
	record, err := s.fetch(ctx, q)
	elapsed := time.Since(start)

	if s.metrics != nil {
		s.metrics.RecordWeatherFetchDuration(providerName, elapsed.Seconds())
	}
	if err != nil {
		category := categoryOf(err, errors.CategoryGeneric)
		if s.metrics != nil {
			s.metrics.RecordWeatherFetch(providerName, metrics.StatusError)
			s.metrics.RecordWeatherFetchError(providerName, string(category))
		}
		s.log.WithContext(ctx).Warn("Weather fetch failed",
			logger.String("query", q.String()),
			logger.String("provider", providerName),
			logger.Duration("duration", elapsed),
			logger.Error(err))
		return nil, errors.New(err).
			Component("weather").
			Category(category).
			Context("provider", providerName).
			Context("query", q.String()).
			Timing("weather_fetch", elapsed).
			Build()
	}

	if s.metrics != nil {
		s.metrics.RecordWeatherFetch(providerName, metrics.StatusSuccess)
	}
	s.log.WithContext(ctx).Info("Fetched weather",
		logger.String("query", q.String()),
		logger.Int64("city_id", record.ID),
		logger.String("city", record.Name),
		logger.Float64("temp_c", record.Current.Temp),
		logger.Int("forecast_days", len(record.Forecast)),
		logger.Duration("duration", elapsed))

	if s.cache != nil {
		s.cache.DeleteExpired()
		s.cache.SetDefault(key, record.Clone())
	}
	return record, nil
}

func (s *Service) fetch(ctx context.Context, q Query) (*Record, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	obs, err := s.provider.CurrentConditions(ctx, q)
	if err != nil {
		return nil, err
	}

	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	entries, err := s.provider.Forecast(ctx, q)
	if err != nil {
		return nil, err
	}

	return &Record{
		ID:      obs.CityID,
		Name:    obs.City,
		Country: obs.Country,
		Current: Current{
			Temp:       obs.Temperature,
			FeelsLike:  obs.FeelsLike,
			Humidity:   obs.Humidity,
			WindSpeed:  obs.WindSpeed,
			Visibility: obs.Visibility,
			Weather:    obs.Summary,
		},
		Forecast: ReduceForecast(entries, s.location, MaxForecastDays),
	}, nil
}

// wait blocks until the rate limiter allows another provider call.
func (s *Service) wait(ctx context.Context) error {
	if s.limiter == nil {
		return nil
	}
	start := time.Now()
	if err := s.limiter.Wait(ctx); err != nil {
		return errors.New(err).
			Component("weather").
			Category(errors.CategoryLimit).
			Context("operation", "rate_limit_wait").
			Build()
	}
	if s.metrics != nil {
		s.metrics.RecordRateLimitWait(time.Since(start).Seconds())
	}
	return nil
}

func (s *Service) recordCacheLookup(hit bool) {
	if s.metrics != nil {
		s.metrics.RecordCacheLookup(hit)
	}
}
