// Package metrics provides weather service metrics for observability
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// WeatherMetrics contains Prometheus metrics for weather service operations
type WeatherMetrics struct {
	registry *prometheus.Registry

	// Weather data fetch metrics
	weatherFetchesTotal     *prometheus.CounterVec
	weatherFetchErrorsTotal *prometheus.CounterVec
	weatherFetchDuration    *prometheus.HistogramVec

	// Weather provider metrics
	weatherProviderRequestsTotal *prometheus.CounterVec
	weatherProviderDuration      *prometheus.HistogramVec

	// Record cache metrics
	weatherCacheTotal *prometheus.CounterVec

	// Rate limiter wait time
	weatherRateLimitWait prometheus.Histogram
}

// NewWeatherMetrics creates and registers new weather metrics
func NewWeatherMetrics(registry *prometheus.Registry) (*WeatherMetrics, error) {
	m := &WeatherMetrics{registry: registry}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

// initMetrics initializes all Prometheus metrics
func (m *WeatherMetrics) initMetrics() {
	m.weatherFetchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weather_fetches_total",
			Help: "Total number of city weather fetch operations",
		},
		[]string{"provider", "status"}, // status: success, error
	)

	m.weatherFetchErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weather_fetch_errors_total",
			Help: "Total number of weather fetch errors",
		},
		[]string{"provider", "error_type"},
	)

	m.weatherFetchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "weather_fetch_duration_seconds",
			Help: "Time taken to fetch current conditions and forecast for a city",
			// 10ms to ~20s
			Buckets: prometheus.ExponentialBuckets(BucketStart10ms, BucketFactor2, BucketCount12),
		},
		[]string{"provider"},
	)

	m.weatherProviderRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weather_provider_requests_total",
			Help: "Total number of requests to weather providers",
		},
		[]string{"provider", "endpoint", "status_code"},
	)

	m.weatherProviderDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "weather_provider_request_duration_seconds",
			Help:    "Duration of single weather provider requests",
			Buckets: prometheus.ExponentialBuckets(BucketStart10ms, BucketFactor2, BucketCount12),
		},
		[]string{"provider", "endpoint"},
	)

	m.weatherCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weather_cache_lookups_total",
			Help: "Total number of weather record cache lookups",
		},
		[]string{"result"}, // result: hit, miss
	)

	m.weatherRateLimitWait = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "weather_rate_limit_wait_seconds",
		Help:    "Time spent waiting for the provider rate limiter",
		Buckets: prometheus.ExponentialBuckets(BucketStart1ms, BucketFactor2, BucketCount12),
	})
}

// Describe implements the Collector interface
func (m *WeatherMetrics) Describe(ch chan<- *prometheus.Desc) {
	m.weatherFetchesTotal.Describe(ch)
	m.weatherFetchErrorsTotal.Describe(ch)
	m.weatherFetchDuration.Describe(ch)
	m.weatherProviderRequestsTotal.Describe(ch)
	m.weatherProviderDuration.Describe(ch)
	m.weatherCacheTotal.Describe(ch)
	m.weatherRateLimitWait.Describe(ch)
}

// Collect implements the Collector interface
func (m *WeatherMetrics) Collect(ch chan<- prometheus.Metric) {
	m.weatherFetchesTotal.Collect(ch)
	m.weatherFetchErrorsTotal.Collect(ch)
	m.weatherFetchDuration.Collect(ch)
	m.weatherProviderRequestsTotal.Collect(ch)
	m.weatherProviderDuration.Collect(ch)
	m.weatherCacheTotal.Collect(ch)
	m.weatherRateLimitWait.Collect(ch)
}

// RecordWeatherFetch records a weather fetch operation
func (m *WeatherMetrics) RecordWeatherFetch(provider, status string) {
	m.weatherFetchesTotal.WithLabelValues(provider, status).Inc()
}

// RecordWeatherFetchError records a weather fetch error
func (m *WeatherMetrics) RecordWeatherFetchError(provider, errorType string) {
	m.weatherFetchErrorsTotal.WithLabelValues(provider, errorType).Inc()
}

// RecordWeatherFetchDuration records the duration of a weather fetch operation
func (m *WeatherMetrics) RecordWeatherFetchDuration(provider string, seconds float64) {
	m.weatherFetchDuration.WithLabelValues(provider).Observe(seconds)
}

// RecordWeatherProviderRequest records a single provider request. A status
// code of 0 means the request failed before a response was received.
func (m *WeatherMetrics) RecordWeatherProviderRequest(provider, endpoint string, statusCode int, seconds float64) {
	code := "none"
	if statusCode > 0 {
		code = strconv.Itoa(statusCode)
	}
	m.weatherProviderRequestsTotal.WithLabelValues(provider, endpoint, code).Inc()
	m.weatherProviderDuration.WithLabelValues(provider, endpoint).Observe(seconds)
}

// RecordCacheLookup records a record cache hit or miss
func (m *WeatherMetrics) RecordCacheLookup(hit bool) {
	if hit {
		m.weatherCacheTotal.WithLabelValues(StatusHit).Inc()
		return
	}
	m.weatherCacheTotal.WithLabelValues(StatusMiss).Inc()
}

// RecordRateLimitWait records time spent blocked on the rate limiter
func (m *WeatherMetrics) RecordRateLimitWait(seconds float64) {
	m.weatherRateLimitWait.Observe(seconds)
}
