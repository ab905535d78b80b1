// Package store provides the key-value store holding the serialized city
// list. Backends are SQLite or MySQL through gorm, or process memory.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/tphakala/weatherboard/internal/conf"
	"github.com/tphakala/weatherboard/internal/errors"
	"github.com/tphakala/weatherboard/internal/logger"
	"github.com/tphakala/weatherboard/internal/observability/metrics"
)

// Store is a string key-value store. Get reports whether the key exists;
// Remove of a missing key is not an error.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	Close() error
}

// Lister is implemented by stores that can enumerate their keys.
type Lister interface {
	Keys(ctx context.Context) ([]string, error)
}

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.NewStd("store is closed")

// Open creates the store selected by storage.type.
func Open(settings *conf.Settings, m *metrics.DashboardMetrics, log logger.Logger) (Store, error) {
	log = moduleLogger(log)

	var (
		s   Store
		err error
	)
	switch settings.Storage.Type {
	case "sqlite":
		s, err = OpenSQLite(settings.Storage.SQLite.Path, log)
	case "mysql":
		s, err = OpenMySQL(settings.Storage.MySQL, log)
	case "memory":
		s = NewMemoryStore()
	default:
		return nil, errors.New(fmt.Errorf("unsupported storage type: %s", settings.Storage.Type)).
			Component("store").
			Category(errors.CategoryConfiguration).
			Build()
	}
	if err != nil {
		return nil, err
	}

	log.Info("Store opened", logger.String("type", settings.Storage.Type))
	if m != nil {
		return WithMetrics(s, m), nil
	}
	return s, nil
}

// instrumented records operation counts and durations for a Store.
type instrumented struct {
	Store
	metrics *metrics.DashboardMetrics
}

// WithMetrics wraps s so every operation is recorded in m.
func WithMetrics(s Store, m *metrics.DashboardMetrics) Store {
	return &instrumented{Store: s, metrics: m}
}

func (i *instrumented) Get(ctx context.Context, key string) (string, bool, error) {
	start := time.Now()
	value, ok, err := i.Store.Get(ctx, key)
	i.record(metrics.OpStoreGet, start, err)
	return value, ok, err
}

func (i *instrumented) Set(ctx context.Context, key, value string) error {
	start := time.Now()
	err := i.Store.Set(ctx, key, value)
	i.record(metrics.OpStoreSet, start, err)
	return err
}

func (i *instrumented) Remove(ctx context.Context, key string) error {
	start := time.Now()
	err := i.Store.Remove(ctx, key)
	i.record(metrics.OpStoreRemove, start, err)
	return err
}

func (i *instrumented) record(op string, start time.Time, err error) {
	status := metrics.StatusSuccess
	if err != nil {
		status = metrics.StatusError
	}
	i.metrics.RecordStoreOperation(op, status, time.Since(start).Seconds())
}
