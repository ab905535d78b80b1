package weather

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entriesAt(times ...time.Time) []ForecastEntry {
	entries := make([]ForecastEntry, len(times))
	for i, ts := range times {
		entries[i] = ForecastEntry{Time: ts, TempMax: float64(20 + i), TempMin: float64(10 + i)}
	}
	return entries
}

func labels(days []DayForecast) []string {
	out := make([]string, len(days))
	for i, d := range days {
		out[i] = d.Date
	}
	return out
}

func TestReduceForecast_FirstEntryPerDay(t *testing.T) {
	// Mon, Mon, Tue, Wed, Wed, Thu
	entries := entriesAt(utcDay(3, 9), utcDay(3, 12), utcDay(4, 9), utcDay(5, 9), utcDay(5, 12), utcDay(6, 9))

	days := ReduceForecast(entries, time.UTC, MaxForecastDays)

	require.Equal(t, []string{"Mon", "Tue", "Wed"}, labels(days))
	// the first Monday entry is kept, no aggregation
	assert.InDelta(t, 20, days[0].TempMax, 0)
	assert.InDelta(t, 10, days[0].TempMin, 0)
	assert.InDelta(t, 22, days[1].TempMax, 0)
	assert.InDelta(t, 23, days[2].TempMax, 0)
}

func TestReduceForecast_FewerDays(t *testing.T) {
	days := ReduceForecast(entriesAt(utcDay(3, 9), utcDay(3, 21)), time.UTC, MaxForecastDays)
	assert.Equal(t, []string{"Mon"}, labels(days))

	assert.Empty(t, ReduceForecast(nil, time.UTC, MaxForecastDays))
	assert.Empty(t, ReduceForecast(entriesAt(utcDay(3, 9)), time.UTC, 0))
}

func TestReduceForecast_TimeZoneShiftsLabels(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	// 2024-06-03 20:00 UTC is already Tuesday in Tokyo
	entries := entriesAt(utcDay(3, 9), utcDay(3, 20))

	assert.Equal(t, []string{"Mon"}, labels(ReduceForecast(entries, time.UTC, MaxForecastDays)))
	assert.Equal(t, []string{"Mon", "Tue"}, labels(ReduceForecast(entries, tokyo, MaxForecastDays)))
}

func TestReduceForecast_RepeatedLabelAfterWeek(t *testing.T) {
	// Mon, Tue, next Mon: the label repeats and is skipped
	entries := entriesAt(utcDay(3, 9), utcDay(4, 9), utcDay(10, 9), utcDay(11, 9))
	assert.Equal(t, []string{"Mon", "Tue"}, labels(ReduceForecast(entries, time.UTC, MaxForecastDays)))
}
