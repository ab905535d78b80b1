package dashboard

import (
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tphakala/weatherboard/internal/errors"
	"github.com/tphakala/weatherboard/internal/geolocation"
	"github.com/tphakala/weatherboard/internal/logger"
	"github.com/tphakala/weatherboard/internal/store"
	"github.com/tphakala/weatherboard/internal/weather"
)

const testKey = "weatherDashboardCities"

func testLogger() logger.Logger {
	return logger.NewSlogLogger(io.Discard, logger.LogLevelError, time.UTC)
}

func record(id int64, name, country string) weather.Record {
	return weather.Record{
		ID:      id,
		Name:    name,
		Country: country,
		Current: weather.Current{
			Temp: 14.5, FeelsLike: 13.9, Humidity: 72, WindSpeed: 4.1, Visibility: 10000,
			Weather: weather.Summary{Main: "Clouds", Description: "broken clouds", Icon: "04d"},
		},
		Forecast: []weather.DayForecast{
			{Date: "Mon", TempMax: 16, TempMin: 9, Weather: weather.Summary{Main: "Rain", Description: "light rain", Icon: "10d"}},
		},
	}
}

// fakeFetcher serves records by lowercase city name or by coordinates.
type fakeFetcher struct {
	mu       sync.Mutex
	byCity   map[string]weather.Record
	byCoords *weather.Record
	coordErr error
	queries  []weather.Query
	gate     chan struct{} // when set, Fetch blocks until it is closed
	started  chan struct{} // when set, signalled as Fetch starts
}

func newFakeFetcher(records ...weather.Record) *fakeFetcher {
	f := &fakeFetcher{byCity: map[string]weather.Record{}}
	for _, r := range records {
		f.byCity[strings.ToLower(r.Name)] = r
	}
	return f
}

func (f *fakeFetcher) Fetch(ctx context.Context, q weather.Query) (*weather.Record, error) {
	f.mu.Lock()
	f.queries = append(f.queries, q)
	gate, started := f.gate, f.started
	f.mu.Unlock()

	if started != nil {
		started <- struct{}{}
	}
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if q.Coordinates != nil {
		if f.coordErr != nil {
			return nil, f.coordErr
		}
		if f.byCoords == nil {
			return nil, errors.NewStd("no weather at coordinates")
		}
		return f.byCoords.Clone(), nil
	}
	r, ok := f.byCity[strings.ToLower(q.City)]
	if !ok {
		return nil, errors.New(errors.NewStd("404 Not Found")).
			Category(errors.CategoryNotFound).
			Build()
	}
	return r.Clone(), nil
}

func (f *fakeFetcher) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queries)
}

// failingStore accepts reads but fails every write.
type failingStore struct {
	*store.MemoryStore
}

func (failingStore) Set(context.Context, string, string) error {
	return errors.NewStd("disk full")
}

func (failingStore) Remove(context.Context, string) error {
	return errors.NewStd("disk full")
}

// unreadableStore fails every read and records writes.
type unreadableStore struct {
	*store.MemoryStore
	mu     sync.Mutex
	writes int
}

func (u *unreadableStore) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.NewStd("database is locked")
}

func (u *unreadableStore) Set(ctx context.Context, key, value string) error {
	u.mu.Lock()
	u.writes++
	u.mu.Unlock()
	return u.MemoryStore.Set(ctx, key, value)
}

func (u *unreadableStore) Remove(ctx context.Context, key string) error {
	u.mu.Lock()
	u.writes++
	u.mu.Unlock()
	return u.MemoryStore.Remove(ctx, key)
}

func (u *unreadableStore) writeCount() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.writes
}

// recordingNotifier captures the lists it was notified with.
type recordingNotifier struct {
	mu    sync.Mutex
	lists [][]weather.Record
	err   error
}

func (n *recordingNotifier) Notify(_ context.Context, records []weather.Record) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.lists = append(n.lists, records)
	return n.err
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.lists)
}

type locatorFunc func(ctx context.Context) geolocation.Result

func (f locatorFunc) Locate(ctx context.Context) geolocation.Result { return f(ctx) }

// newController returns a controller that has already read the persisted
// list, so mutations are accepted.
func newController(t *testing.T, f weather.Fetcher, s store.Store, loc geolocation.Locator) *Controller {
	t.Helper()
	c := newStartingController(t, f, s, loc)
	_, err := c.Restore(t.Context())
	require.NoError(t, err)
	return c
}

// newStartingController returns a controller that has not read the
// persisted list yet.
func newStartingController(t *testing.T, f weather.Fetcher, s store.Store, loc geolocation.Locator) *Controller {
	t.Helper()
	if s == nil {
		s = store.NewMemoryStore()
	}
	t.Cleanup(func() { require.NoError(t, s.Close()) })
	return New(Config{
		Fetcher:    f,
		Store:      s,
		StorageKey: testKey,
		Locator:    loc,
		Logger:     testLogger(),
	})
}
