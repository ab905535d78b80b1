package app

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/weatherboard/internal/conf"
	"github.com/tphakala/weatherboard/internal/dashboard"
	"github.com/tphakala/weatherboard/internal/logger"
)

const (
	testWeatherURL = "https://weather.test/data/2.5"
	testIPURL      = "http://ip.test/json"
)

func testSettings() *conf.Settings {
	return &conf.Settings{
		Main: conf.MainSettings{Name: "weatherboard-test", TimeZone: "UTC"},
		Weather: conf.WeatherSettings{
			Provider: "openweather",
			APIKey:   "test-key",
			Endpoint: testWeatherURL,
			Language: "en",
			Timeout:  time.Second,
		},
		Location: conf.LocationSettings{Provider: "ip", Endpoint: testIPURL},
		Storage:  conf.StorageSettings{Type: "memory", Key: conf.DefaultStorageKey},
		MQTT:     conf.MQTTSettings{Enabled: true, Topic: "weatherboard/cities"},
	}
}

func testLogger() logger.Logger {
	return logger.NewSlogLogger(io.Discard, logger.LogLevelError, time.UTC)
}

type capturingMQTT struct {
	mu        sync.Mutex
	connected bool
	topics    []string
}

func (c *capturingMQTT) Connect(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.connected = true
	return nil
}

func (c *capturingMQTT) Publish(_ context.Context, topic string, _ []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.topics = append(c.topics, topic)
	return nil
}

func (c *capturingMQTT) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

func (c *capturingMQTT) Disconnect() {}

func registerProvider(transport *httpmock.MockTransport) {
	transport.RegisterResponder(http.MethodGet, testIPURL,
		httpmock.NewStringResponder(http.StatusOK, `{"status":"success","lat":59.91,"lon":10.75}`))
	transport.RegisterResponder(http.MethodGet, testWeatherURL+"/weather",
		httpmock.NewStringResponder(http.StatusOK, `{
			"weather": [{"main": "Clear", "description": "clear sky", "icon": "01d"}],
			"main": {"temp": 18.2, "feels_like": 17.6, "humidity": 55},
			"visibility": 10000, "wind": {"speed": 2.1},
			"dt": 1717416000, "sys": {"country": "NO"}, "id": 3143244, "name": "Oslo"
		}`))
	transport.RegisterResponder(http.MethodGet, testWeatherURL+"/forecast",
		httpmock.NewStringResponder(http.StatusOK, `{"list": [
			{"dt": 1717416000, "main": {"temp_min": 10, "temp_max": 19}, "weather": [{"main": "Clear", "description": "clear sky", "icon": "01d"}]}
		]}`))
}

func TestNewWiresDashboard(t *testing.T) {
	transport := httpmock.NewMockTransport()
	registerProvider(transport)
	broker := &capturingMQTT{}

	a, err := New(testSettings(), WithTransport(transport), WithLogger(testLogger()), WithMQTTClient(broker))
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, a.Close()) })

	res := a.Dashboard.Bootstrap(t.Context())
	require.Equal(t, dashboard.PhaseLocated, res.Outcome, "bootstrap error: %v", res.Err)
	require.NotNil(t, res.Added)
	assert.Equal(t, "Oslo", res.Added.Name)
	require.Len(t, res.Added.Forecast, 1)

	raw, ok, err := a.Store.Get(t.Context(), conf.DefaultStorageKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, raw, `"name":"Oslo"`)

	assert.Equal(t, []string{"weatherboard/cities"}, broker.topics)
	assert.Equal(t, 1, transport.GetCallCountInfo()["GET "+testIPURL])

	rec := httptest.NewRecorder()
	a.Metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), `http_outbound_requests_total{host="ip.test",status="200"} 1`)
	assert.Contains(t, rec.Body.String(), `http_outbound_requests_total{host="weather.test",status="200"} 2`)
}

func TestNewRejectsBadSettings(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*conf.Settings)
	}{
		{"missing api key", func(s *conf.Settings) { s.Weather.APIKey = "" }},
		{"unknown storage", func(s *conf.Settings) { s.Storage.Type = "redis" }},
		{"bad timezone", func(s *conf.Settings) { s.Main.TimeZone = "Mars/Olympus" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testSettings()
			tt.mutate(s)
			a, err := New(s, WithLogger(testLogger()), WithTransport(httpmock.NewMockTransport()))
			require.Error(t, err)
			assert.Nil(t, a)
		})
	}
}

func TestNewClosesServicesOpenedBeforeFailure(t *testing.T) {
	s := testSettings()
	s.Storage.Type = "redis"
	o := &options{logger: testLogger(), transport: httpmock.NewMockTransport(), mqtt: &capturingMQTT{}}

	a := &App{Settings: s}
	require.Error(t, a.init(o))
	require.NotEmpty(t, a.closers, "http client should be registered before the store fails")
	require.NotNil(t, a.Client)

	require.NoError(t, a.Close())
	assert.Empty(t, a.closers)
}

func TestCloseNilApp(t *testing.T) {
	var a *App
	assert.NotPanics(t, func() { assert.NoError(t, a.Close()) })
}
