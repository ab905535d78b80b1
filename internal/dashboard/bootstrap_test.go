package dashboard

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/weatherboard/internal/errors"
	"github.com/tphakala/weatherboard/internal/geolocation"
	"github.com/tphakala/weatherboard/internal/store"
	"github.com/tphakala/weatherboard/internal/testutil"
	"github.com/tphakala/weatherboard/internal/weather"
)

// phaseRecorder collects bootstrap phase transitions.
type phaseRecorder struct {
	mu     sync.Mutex
	phases []Phase
}

func (p *phaseRecorder) record(phase Phase) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.phases = append(p.phases, phase)
}

func (p *phaseRecorder) get() []Phase {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Phase(nil), p.phases...)
}

func newBootstrapController(t *testing.T, f *fakeFetcher, s store.Store, loc geolocation.Locator) (*Controller, *phaseRecorder) {
	t.Helper()
	if s == nil {
		s = store.NewMemoryStore()
	}
	t.Cleanup(func() { _ = s.Close() })
	rec := &phaseRecorder{}
	c := New(Config{
		Fetcher:    f,
		Store:      s,
		StorageKey: testKey,
		Locator:    loc,
		Logger:     testLogger(),
		OnPhase:    rec.record,
	})
	return c, rec
}

func TestBootstrapRestored(t *testing.T) {
	t.Parallel()

	s := store.NewMemoryStore()
	require.NoError(t, s.Set(t.Context(), testKey, mustJSON(t, []weather.Record{record(1, "Oslo", "NO")})))
	located := false
	loc := locatorFunc(func(context.Context) geolocation.Result {
		located = true
		return geolocation.Located(59.9, 10.7)
	})
	f := newFakeFetcher()
	c, phases := newBootstrapController(t, f, s, loc)

	res := c.Bootstrap(t.Context())
	assert.Equal(t, PhaseRestored, res.Outcome)
	assert.False(t, located, "restored data skips location lookup")
	assert.Zero(t, f.calls())
	assert.Equal(t, []Phase{PhaseRestored, PhaseReady}, phases.get())

	snap := c.Snapshot()
	assert.Equal(t, PhaseReady, snap.Phase)
	assert.False(t, snap.InitialLoad)
	assert.False(t, snap.Locating)
	require.Len(t, snap.Records, 1)
}

func TestBootstrapUnsupported(t *testing.T) {
	t.Parallel()

	f := newFakeFetcher()
	c, phases := newBootstrapController(t, f, nil, geolocation.Unsupported)

	res := c.Bootstrap(t.Context())
	assert.Equal(t, PhaseLocationUnsupported, res.Outcome)
	assert.Zero(t, f.calls(), "no weather request without a location")
	assert.Equal(t, []Phase{PhaseLocating, PhaseLocationUnsupported, PhaseReady}, phases.get())

	snap := c.Snapshot()
	assert.Equal(t, MsgLocationUnsupported, snap.Banner)
	assert.True(t, snap.ShowEmpty())
}

func TestBootstrapLocationFailed(t *testing.T) {
	t.Parallel()

	denied := errors.NewStd("permission denied")
	loc := locatorFunc(func(context.Context) geolocation.Result { return geolocation.Failed(denied) })
	f := newFakeFetcher()
	c, phases := newBootstrapController(t, f, nil, loc)

	res := c.Bootstrap(t.Context())
	assert.Equal(t, PhaseLocationFailed, res.Outcome)
	require.ErrorIs(t, res.Err, denied)
	assert.Zero(t, f.calls())
	assert.Equal(t, []Phase{PhaseLocating, PhaseLocationFailed, PhaseReady}, phases.get())
	assert.Equal(t, MsgLocationFailed, c.Snapshot().Banner)
}

func TestBootstrapLocated(t *testing.T) {
	t.Parallel()

	s := store.NewMemoryStore()
	f := newFakeFetcher()
	oslo := record(3143244, "Oslo", "NO")
	f.byCoords = &oslo
	c, phases := newBootstrapController(t, f, s, geolocation.StaticLocator{Latitude: 59.91, Longitude: 10.75})

	res := c.Bootstrap(t.Context())
	assert.Equal(t, PhaseLocated, res.Outcome)
	require.NotNil(t, res.Added)
	assert.Equal(t, "Oslo", res.Added.Name)
	assert.Equal(t, []Phase{PhaseLocating, PhaseLocated, PhaseReady}, phases.get())

	require.Len(t, f.queries, 1)
	require.NotNil(t, f.queries[0].Coordinates)
	assert.InDelta(t, 59.91, f.queries[0].Coordinates.Latitude, 1e-9)

	snap := c.Snapshot()
	require.Len(t, snap.Records, 1)
	assert.Empty(t, snap.Banner)
	assert.False(t, snap.Locating)
	assert.False(t, snap.InitialLoad)

	stored, ok := persisted(t, s)
	require.True(t, ok)
	assert.Equal(t, snap.Records, stored)
}

func TestBootstrapLocatedFetchFails(t *testing.T) {
	t.Parallel()

	f := newFakeFetcher()
	f.coordErr = errors.NewStd("provider unavailable")
	c, _ := newBootstrapController(t, f, nil, geolocation.StaticLocator{Latitude: 1, Longitude: 2})

	res := c.Bootstrap(t.Context())
	assert.Equal(t, PhaseLocated, res.Outcome)
	require.Error(t, res.Err)
	assert.True(t, res.Failed(), "a located position whose weather failed is a failed bootstrap")
	assert.Nil(t, res.Added)

	snap := c.Snapshot()
	assert.Equal(t, MsgLocationFetchFailed, snap.Banner)
	assert.Empty(t, snap.Records)
	assert.Equal(t, PhaseReady, snap.Phase)
}

func TestBootstrapReadErrorSkipsLocation(t *testing.T) {
	t.Parallel()

	s := &unreadableStore{MemoryStore: store.NewMemoryStore()}
	saved := mustJSON(t, []weather.Record{record(1, "Oslo", "NO")})
	require.NoError(t, s.MemoryStore.Set(t.Context(), testKey, saved))
	located := false
	loc := locatorFunc(func(context.Context) geolocation.Result {
		located = true
		return geolocation.Located(51.5, -0.12)
	})
	london := record(2643743, "London", "GB")
	f := newFakeFetcher()
	f.byCoords = &london
	c, phases := newBootstrapController(t, f, s, loc)

	res := c.Bootstrap(t.Context())
	assert.Equal(t, PhaseRestoreFailed, res.Outcome)
	require.Error(t, res.Err)
	assert.True(t, res.Failed())
	assert.False(t, located, "locator must not run when the saved list is unreadable")
	assert.Zero(t, f.calls())
	assert.Equal(t, []Phase{PhaseRestoreFailed, PhaseReady}, phases.get())

	snap := c.Snapshot()
	assert.Equal(t, MsgLoadFailed, snap.Banner)
	assert.Empty(t, snap.Records)
	assert.Zero(t, s.writeCount())
	raw, ok, err := s.MemoryStore.Get(t.Context(), testKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, saved, raw)
}

func TestBootstrapLocatedCityAlreadyTracked(t *testing.T) {
	t.Parallel()

	oslo := record(3143244, "Oslo", "NO")
	f := newFakeFetcher(oslo)
	f.byCoords = &oslo
	f.gate = make(chan struct{})
	f.started = make(chan struct{}, 2)
	c, _ := newBootstrapController(t, f, nil, geolocation.StaticLocator{Latitude: 59.91, Longitude: 10.75})

	// The user adds Oslo while the located fetch is still running.
	done := make(chan BootstrapResult, 1)
	go func() { done <- c.Bootstrap(context.Background()) }()
	testutil.WaitForChannel(t, f.started, testutil.DefaultTestTimeout, "fetch did not start")
	added := make(chan error, 1)
	go func() {
		_, err := c.AddCity(context.Background(), "Oslo", "")
		added <- err
	}()
	testutil.WaitForChannel(t, f.started, testutil.DefaultTestTimeout, "fetch did not start")
	close(f.gate)

	// Whichever fetch finishes last sees the id already tracked.
	if err := testutil.Receive(t, added, testutil.DefaultTestTimeout, "add did not finish"); err != nil {
		require.ErrorIs(t, err, ErrDuplicateCity)
	}
	res := testutil.Receive(t, done, testutil.DefaultTestTimeout, "bootstrap did not finish")
	assert.Equal(t, PhaseLocated, res.Outcome)
	assert.Len(t, c.Snapshot().Records, 1, "located city is not appended twice")
}

func TestBootstrapRunsOnce(t *testing.T) {
	t.Parallel()

	calls := 0
	var mu sync.Mutex
	loc := locatorFunc(func(context.Context) geolocation.Result {
		mu.Lock()
		calls++
		mu.Unlock()
		return geolocation.Failed(errors.NewStd("denied"))
	})
	c, _ := newBootstrapController(t, newFakeFetcher(), nil, loc)

	first := c.Bootstrap(t.Context())
	second := c.Bootstrap(t.Context())
	assert.Equal(t, first, second)
	mu.Lock()
	assert.Equal(t, 1, calls)
	mu.Unlock()
}

func TestBootstrapContextCancelled(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	loc := locatorFunc(func(ctx context.Context) geolocation.Result {
		<-release
		return geolocation.Located(1, 2)
	})
	c, _ := newBootstrapController(t, newFakeFetcher(), nil, loc)
	t.Cleanup(func() { close(release) })

	ctx, cancel := context.WithTimeout(t.Context(), 20*time.Millisecond)
	defer cancel()

	res := c.Bootstrap(ctx)
	assert.Equal(t, PhaseLocationFailed, res.Outcome)
	require.ErrorIs(t, res.Err, context.DeadlineExceeded)
	assert.Equal(t, MsgLocationFailed, c.Snapshot().Banner)
}
