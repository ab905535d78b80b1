package weather

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/weatherboard/internal/httpclient"
	"github.com/tphakala/weatherboard/internal/logger"
)

const testEndpoint = "https://api.openweathermap.org/data/2.5"

func testLogger() logger.Logger {
	return logger.NewSlogLogger(io.Discard, logger.LogLevelError, time.UTC)
}

// setupHTTPMock returns a provider whose client uses a mock transport.
func setupHTTPMock(t *testing.T) (*OpenWeatherProvider, *httpmock.MockTransport) {
	t.Helper()
	transport := httpmock.NewMockTransport()
	client := httpclient.New(&httpclient.Config{Transport: transport, DefaultTimeout: time.Second})
	t.Cleanup(client.Close)

	provider := NewOpenWeatherProvider(client, OpenWeatherConfig{
		APIKey:   "test-api-key",
		Endpoint: testEndpoint,
		Language: "en",
	}, nil, testLogger())
	return provider, transport
}

func openWeatherCurrentResponse() string {
	return `{
		"coord": {"lon": -0.1257, "lat": 51.5085},
		"weather": [{"id": 803, "main": "Clouds", "description": "broken clouds", "icon": "04d"}],
		"main": {"temp": 14.55, "feels_like": 13.88, "temp_min": 13.33, "temp_max": 15.65, "pressure": 1014, "humidity": 72},
		"visibility": 10000,
		"wind": {"speed": 4.12, "deg": 240},
		"dt": 1717243200,
		"sys": {"country": "GB"},
		"id": 2643743,
		"name": "London"
	}`
}

// openWeatherForecastResponse builds a forecast list with one entry per
// timestamp.
func openWeatherForecastResponse(times ...time.Time) string {
	items := ""
	for i, ts := range times {
		if i > 0 {
			items += ","
		}
		items += fmt.Sprintf(`{"dt": %d, "main": {"temp_min": %d, "temp_max": %d},
			"weather": [{"main": "Rain", "description": "light rain", "icon": "10d"}]}`,
			ts.Unix(), i, i+10)
	}
	return `{"cod": "200", "list": [` + items + `]}`
}

func registerCurrent(transport *httpmock.MockTransport, status int, body string) {
	transport.RegisterResponder(http.MethodGet, testEndpoint+"/weather",
		httpmock.NewStringResponder(status, body))
}

func registerForecast(transport *httpmock.MockTransport, status int, body string) {
	transport.RegisterResponder(http.MethodGet, testEndpoint+"/forecast",
		httpmock.NewStringResponder(status, body))
}

// utcDay returns noon UTC of the given June 2024 day. 2024-06-03 is a Monday.
func utcDay(day, hour int) time.Time {
	return time.Date(2024, time.June, day, hour, 0, 0, 0, time.UTC)
}

// fakeProvider records the order of calls and returns canned results.
type fakeProvider struct {
	mu          sync.Mutex
	calls       []string
	current     *Observation
	currentErr  error
	forecast    []ForecastEntry
	forecastErr error
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) CurrentConditions(_ context.Context, q Query) (*Observation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "current:"+q.String())
	if f.currentErr != nil {
		return nil, f.currentErr
	}
	obs := *f.current
	return &obs, nil
}

func (f *fakeProvider) Forecast(_ context.Context, q Query) ([]ForecastEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "forecast:"+q.String())
	if f.forecastErr != nil {
		return nil, f.forecastErr
	}
	return f.forecast, nil
}

func (f *fakeProvider) callLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func newFakeProvider(t *testing.T) *fakeProvider {
	t.Helper()
	p := &fakeProvider{
		current: &Observation{
			CityID:      2643743,
			City:        "London",
			Country:     "GB",
			Temperature: 14.55,
			FeelsLike:   13.88,
			Humidity:    72,
			WindSpeed:   4.12,
			Visibility:  10000,
			Summary:     Summary{Main: "Clouds", Description: "broken clouds", Icon: "04d"},
		},
		forecast: []ForecastEntry{
			{Time: utcDay(3, 12), TempMax: 18, TempMin: 11, Summary: Summary{Icon: "10d"}},
			{Time: utcDay(4, 12), TempMax: 19, TempMin: 12, Summary: Summary{Icon: "01d"}},
		},
	}
	require.NotNil(t, p.current)
	return p
}
