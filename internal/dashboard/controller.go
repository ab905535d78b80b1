// Package dashboard owns the list of tracked cities. It mediates every
// mutation of the list, keeps it persisted in the key-value store and runs
// the one-time startup bootstrap.
package dashboard

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/tphakala/weatherboard/internal/errors"
	"github.com/tphakala/weatherboard/internal/geolocation"
	"github.com/tphakala/weatherboard/internal/logger"
	"github.com/tphakala/weatherboard/internal/observability/metrics"
	"github.com/tphakala/weatherboard/internal/store"
	"github.com/tphakala/weatherboard/internal/weather"
)

// Errors returned by AddCity.
var (
	ErrEmptyQuery    = errors.NewStd("city name is empty")
	ErrDuplicateCity = errors.NewStd("city already added to dashboard")
	ErrCityNotFound  = errors.NewStd("city not found")
	ErrBusy          = errors.NewStd("dashboard is busy")
)

// Notifier is told about the city list after every successful mutation.
type Notifier interface {
	Notify(ctx context.Context, records []weather.Record) error
}

// Config holds the collaborators of a Controller.
type Config struct {
	Fetcher    weather.Fetcher
	Store      store.Store
	StorageKey string
	Locator    geolocation.Locator
	Notifier   Notifier // optional
	Metrics    *metrics.DashboardMetrics
	Logger     logger.Logger
	// OnPhase is called with the state lock held on every bootstrap phase
	// transition. It must not call back into the Controller.
	OnPhase func(Phase)
}

// Controller mediates all mutations of the dashboard state. It is safe for
// concurrent use; provider calls are made without holding the state lock.
type Controller struct {
	fetcher  weather.Fetcher
	store    store.Store
	key      string
	locator  geolocation.Locator
	notifier Notifier
	metrics  *metrics.DashboardMetrics
	log      logger.Logger
	onPhase  func(Phase)

	mu    sync.Mutex
	state State
	// restoreDone is set once the persisted list has been read. Additions
	// before that would overwrite the saved cities.
	restoreDone bool
	// readFailed is set when the persisted list could not be read. The
	// store is not written for the rest of the process lifetime.
	readFailed bool

	bootstrapOnce   sync.Once
	bootstrapResult BootstrapResult
}

// New creates a controller with an empty initial state.
func New(cfg Config) *Controller {
	log := cfg.Logger
	if log == nil {
		log = logger.Global().Module("dashboard")
	}
	locator := cfg.Locator
	if locator == nil {
		locator = geolocation.Unsupported
	}
	return &Controller{
		fetcher:  cfg.Fetcher,
		store:    cfg.Store,
		key:      cfg.StorageKey,
		locator:  locator,
		notifier: cfg.Notifier,
		metrics:  cfg.Metrics,
		log:      log,
		onPhase:  cfg.OnPhase,
		state:    NewState(),
	}
}

// Snapshot returns a deep copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Clone()
}

// AddCity fetches weather for city (with optional country code) and appends
// it. Duplicate names are rejected before any provider call.
func (c *Controller) AddCity(ctx context.Context, city, country string) (*weather.Record, error) {
	ctx = withTrace(ctx)
	log := c.log.WithContext(ctx)

	city = strings.TrimSpace(city)
	country = strings.TrimSpace(country)
	if city == "" {
		return nil, errors.New(ErrEmptyQuery).
			Component("dashboard").
			Category(errors.CategoryValidation).
			Build()
	}

	c.mu.Lock()
	if c.state.Loading || !c.restoreDone {
		c.state = c.state.withBanner(MsgBusy)
		c.mu.Unlock()
		c.recordOperation(metrics.OpAddCity, "busy")
		return nil, errors.New(ErrBusy).
			Component("dashboard").
			Category(errors.CategoryState).
			Context("city", city).
			Build()
	}
	if c.state.HasName(city) {
		c.state = c.state.withBanner(MsgDuplicateCity)
		c.mu.Unlock()
		log.Info("Rejected duplicate city", logger.String("city", city))
		c.recordOperation(metrics.OpAddCity, "duplicate")
		return nil, duplicateError(city)
	}
	c.state = c.state.setLoading(true).withBanner("")
	c.mu.Unlock()

	record, fetchErr := c.fetcher.Fetch(ctx, weather.CityQuery(city, country))

	c.mu.Lock()
	c.state = c.state.setLoading(false)
	if c.state.Banner == MsgBusy {
		c.state = c.state.withBanner("")
	}
	if fetchErr != nil {
		c.state = c.state.withBanner(MsgCityNotFound)
		c.mu.Unlock()
		log.Info("City lookup failed", logger.String("city", city), logger.String("country", country), logger.Error(fetchErr))
		c.recordOperation(metrics.OpAddCity, "not_found")
		return nil, errors.New(errors.Join(ErrCityNotFound, fetchErr)).
			Component("dashboard").
			Category(errors.CategoryNotFound).
			Context("city", city).
			Build()
	}
	if c.state.HasID(record.ID) {
		c.state = c.state.withBanner(MsgDuplicateCity)
		c.mu.Unlock()
		log.Info("Rejected city already tracked under another name",
			logger.String("city", city), logger.Int64("city_id", record.ID), logger.String("name", record.Name))
		c.recordOperation(metrics.OpAddCity, "duplicate")
		return nil, duplicateError(city)
	}
	c.state = c.state.withRecord(*record)
	c.persistLocked(ctx)
	records := c.state.Clone().Records
	c.mu.Unlock()

	log.Info("City added", logger.String("city", record.Name), logger.Int64("city_id", record.ID))
	c.recordOperation(metrics.OpAddCity, "added")
	c.notify(ctx, records)
	return record.Clone(), nil
}

// RemoveCity removes the record with id and persists the list. Removing an
// absent id, or removing before the persisted list was read, is a silent
// no-op; the return value reports whether a record was removed.
func (c *Controller) RemoveCity(ctx context.Context, id int64) bool {
	ctx = withTrace(ctx)

	c.mu.Lock()
	if !c.restoreDone {
		c.mu.Unlock()
		c.recordOperation(metrics.OpRemoveCity, "busy")
		return false
	}
	next, ok := c.state.withoutRecord(id)
	if !ok {
		c.mu.Unlock()
		c.recordOperation(metrics.OpRemoveCity, "noop")
		return false
	}
	c.state = next
	c.persistLocked(ctx)
	records := c.state.Clone().Records
	c.mu.Unlock()

	c.log.WithContext(ctx).Info("City removed", logger.Int64("city_id", id))
	c.recordOperation(metrics.OpRemoveCity, "removed")
	c.notify(ctx, records)
	return true
}

// Restore loads the persisted city list. It reports whether persisted data
// was found and applied. Malformed data is removed from the store and the
// list starts empty. A read error is returned and the saved list is left
// untouched and the controller stops writing to the store.
func (c *Controller) Restore(ctx context.Context) (bool, error) {
	ctx = withTrace(ctx)
	log := c.log.WithContext(ctx)

	raw, ok, err := c.store.Get(ctx, c.key)
	if err != nil {
		log.Error("Failed to read persisted cities", logger.String("key", c.key), logger.Error(err))
		c.recordOperation(metrics.OpRestore, "error")
		c.mu.Lock()
		c.readFailed = true
		c.restoreDone = true
		c.mu.Unlock()
		return false, errors.New(err).
			Component("dashboard").
			Category(errors.CategoryDatabase).
			Context("key", c.key).
			Build()
	}
	if !ok {
		c.markRestored()
		c.recordOperation(metrics.OpRestore, "empty")
		return false, nil
	}

	records, err := decodeRecords(raw)
	if err != nil {
		log.Warn("Discarding malformed persisted cities", logger.String("key", c.key), logger.Error(err))
		if err := c.store.Remove(ctx, c.key); err != nil {
			log.Error("Failed to remove malformed persisted cities", logger.Error(err))
		}
		c.markRestored()
		c.recordOperation(metrics.OpRestore, "malformed")
		return false, nil
	}

	c.mu.Lock()
	c.state = c.state.restored(records)
	c.restoreDone = true
	count := len(c.state.Records)
	c.mu.Unlock()

	c.setTracked(count)
	log.Info("Restored persisted cities", logger.Int("count", count))
	c.recordOperation(metrics.OpRestore, "restored")
	return true, nil
}

func (c *Controller) markRestored() {
	c.mu.Lock()
	c.restoreDone = true
	c.mu.Unlock()
}

// persistLocked writes the list to the store, or removes the key when the
// list is empty. Store failures are logged and shown in the banner; the
// in-memory state is kept. Nothing is written after a failed read.
// c.mu must be held.
func (c *Controller) persistLocked(ctx context.Context) {
	c.setTracked(len(c.state.Records))
	if c.readFailed {
		c.log.WithContext(ctx).Warn("Not persisting cities, saved list could not be read", logger.String("key", c.key))
		c.recordOperation(metrics.OpPersistList, "skipped")
		c.state = c.state.withBanner(MsgLoadFailed)
		return
	}

	var err error
	if len(c.state.Records) == 0 {
		err = c.store.Remove(ctx, c.key)
	} else {
		var data []byte
		data, err = json.Marshal(c.state.Records)
		if err == nil {
			err = c.store.Set(ctx, c.key, string(data))
		}
	}
	if err != nil {
		c.log.WithContext(ctx).Error("Failed to persist cities", logger.String("key", c.key), logger.Error(err))
		c.recordOperation(metrics.OpPersistList, "error")
		c.state = c.state.withBanner(MsgSaveFailed)
	}
}

func (c *Controller) notify(ctx context.Context, records []weather.Record) {
	if c.notifier == nil {
		return
	}
	status := metrics.StatusSuccess
	if err := c.notifier.Notify(ctx, records); err != nil {
		status = metrics.StatusError
		c.log.WithContext(ctx).Warn("City list notification failed", logger.Error(err))
	}
	if c.metrics != nil {
		c.metrics.RecordNotification(status)
	}
}

func (c *Controller) recordOperation(op, outcome string) {
	if c.metrics != nil {
		c.metrics.RecordOperation(op, outcome)
	}
}

func (c *Controller) setTracked(n int) {
	if c.metrics != nil {
		c.metrics.SetTrackedCities(n)
	}
}

// decodeRecords parses the persisted list. Anything but a JSON array of
// records is malformed.
func decodeRecords(raw string) ([]weather.Record, error) {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "[") {
		return nil, errors.Newf("persisted value is not a JSON array").
			Component("dashboard").
			Category(errors.CategoryFileParsing).
			Build()
	}
	var records []weather.Record
	if err := json.Unmarshal([]byte(trimmed), &records); err != nil {
		return nil, errors.New(err).
			Component("dashboard").
			Category(errors.CategoryFileParsing).
			Build()
	}
	return records, nil
}

func duplicateError(city string) error {
	return errors.New(ErrDuplicateCity).
		Component("dashboard").
		Category(errors.CategoryConflict).
		Context("city", city).
		Build()
}

// withTrace attaches a trace id to ctx unless one is already set.
func withTrace(ctx context.Context) context.Context {
	if logger.TraceID(ctx) != "" {
		return ctx
	}
	return logger.WithTraceID(ctx, uuid.NewString())
}
