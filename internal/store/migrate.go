package store

import (
	"context"
	"fmt"
	"time"

	"github.com/tphakala/weatherboard/internal/errors"
	"github.com/tphakala/weatherboard/internal/logger"
)

// MigrateOptions controls Migrate.
type MigrateOptions struct {
	// Keys to copy. Empty copies every key of a source implementing Lister.
	Keys []string
	// DryRun reads the source without writing the target.
	DryRun bool
	// SkipVerify disables reading back each copied value.
	SkipVerify bool
}

// MigrationStats summarises a Migrate run.
type MigrationStats struct {
	Copied   int
	Missing  int // requested keys absent from the source
	Verified int
	Duration time.Duration
}

func (s *MigrationStats) String() string {
	return fmt.Sprintf("copied %d, missing %d, verified %d in %s",
		s.Copied, s.Missing, s.Verified, s.Duration.Round(time.Millisecond))
}

// Migrate copies entries from src to dst. Existing target values for the
// copied keys are overwritten.
func Migrate(ctx context.Context, src, dst Store, opts MigrateOptions, log logger.Logger) (*MigrationStats, error) {
	log = moduleLogger(log)
	start := time.Now()
	stats := &MigrationStats{}

	keys := opts.Keys
	if len(keys) == 0 {
		lister, ok := src.(Lister)
		if !ok {
			return nil, migrateError(errors.NewStd("source store cannot list keys, name them explicitly"),
				errors.CategoryValidation, "list").Build()
		}
		var err error
		if keys, err = lister.Keys(ctx); err != nil {
			return nil, migrateError(err, errors.CategoryDatabase, "list").Build()
		}
	}

	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		value, ok, err := src.Get(ctx, key)
		if err != nil {
			return stats, migrateError(err, errors.CategoryDatabase, "read").Context("key", key).Build()
		}
		if !ok {
			stats.Missing++
			log.Warn("Key not found in source store", logger.String("key", key))
			continue
		}

		if opts.DryRun {
			stats.Copied++
			log.Info("Would copy entry", logger.String("key", key), logger.Int("bytes", len(value)))
			continue
		}

		if err := dst.Set(ctx, key, value); err != nil {
			return stats, migrateError(err, errors.CategoryDatabase, "write").Context("key", key).Build()
		}
		stats.Copied++

		if opts.SkipVerify {
			continue
		}
		got, ok, err := dst.Get(ctx, key)
		if err != nil {
			return stats, migrateError(err, errors.CategoryDatabase, "verify").Context("key", key).Build()
		}
		if !ok || got != value {
			return stats, migrateError(errors.NewStd("target value differs from source"),
				errors.CategoryState, "verify").Context("key", key).Build()
		}
		stats.Verified++
	}

	stats.Duration = time.Since(start)
	log.Info("Store migration finished",
		logger.Int("copied", stats.Copied),
		logger.Int("missing", stats.Missing),
		logger.Int("verified", stats.Verified),
		logger.Bool("dry_run", opts.DryRun),
		logger.Duration("duration", stats.Duration))
	return stats, nil
}

func migrateError(err error, category errors.ErrorCategory, operation string) *errors.ErrorBuilder {
	return errors.New(err).
		Component("store").
		Category(category).
		Context("operation", "migrate_"+operation)
}
