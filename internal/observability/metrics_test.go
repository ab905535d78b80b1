package observability

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsHandler(t *testing.T) {
	m, err := NewMetrics()
	require.NoError(t, err)

	m.Weather.RecordWeatherFetch("openweather", "success")
	m.Dashboard.SetTrackedCities(2)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `weather_fetches_total{provider="openweather",status="success"} 1`)
	assert.Contains(t, string(body), "dashboard_tracked_cities 2")
	assert.Contains(t, string(body), "go_goroutines")
}

func TestNewMetricsIndependentRegistries(t *testing.T) {
	first, err := NewMetrics()
	require.NoError(t, err)
	second, err := NewMetrics()
	require.NoError(t, err)

	assert.NotSame(t, first.Registry(), second.Registry())
}
