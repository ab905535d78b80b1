// Package migrate provides the command copying persisted entries from a
// SQLite file into the configured store.
package migrate

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tphakala/weatherboard/internal/conf"
	"github.com/tphakala/weatherboard/internal/logger"
	"github.com/tphakala/weatherboard/internal/store"
)

// Config holds the migrate command flags.
type Config struct {
	SQLitePath string
	Keys       []string
	DryRun     bool
	SkipVerify bool
}

// Command creates the migrate command.
func Command(settings *conf.Settings) *cobra.Command {
	var cfg Config

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Copy stored cities from a SQLite file into the configured store",
		Long: `Copies key-value entries from a SQLite database file into the store
selected by storage.type, typically when moving from SQLite to MySQL.
Entries with the same key in the target are overwritten and every copied
value is read back for verification.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := Run(cmd, settings, cfg)
			if stats != nil {
				cmd.Println(stats.String())
			}
			return err
		},
	}

	cmd.Flags().StringVar(&cfg.SQLitePath, "from-sqlite", "", "Path to the source SQLite database file")
	cmd.Flags().StringSliceVar(&cfg.Keys, "key", nil, "Key to copy, repeatable (default: all keys)")
	cmd.Flags().BoolVar(&cfg.DryRun, "dry-run", false, "Report what would be copied without writing")
	cmd.Flags().BoolVar(&cfg.SkipVerify, "skip-verify", false, "Skip reading back copied values")
	_ = cmd.MarkFlagRequired("from-sqlite")
	return cmd
}

// Run opens both stores and migrates the entries.
func Run(cmd *cobra.Command, settings *conf.Settings, cfg Config) (*store.MigrationStats, error) {
	log := logger.Global().Module("migrate")

	if settings.Storage.Type == "sqlite" && samePath(settings.Storage.SQLite.Path, cfg.SQLitePath) {
		return nil, fmt.Errorf("source and target are the same SQLite file: %s", cfg.SQLitePath)
	}

	// Opening a missing file would create an empty database.
	info, err := os.Stat(cfg.SQLitePath)
	if err != nil {
		return nil, fmt.Errorf("source SQLite file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("source SQLite path is a directory: %s", cfg.SQLitePath)
	}

	src, err := store.OpenSQLite(cfg.SQLitePath, log)
	if err != nil {
		return nil, err
	}
	defer func() { _ = src.Close() }()

	dst, err := store.Open(settings, nil, log)
	if err != nil {
		return nil, err
	}
	defer func() { _ = dst.Close() }()

	return store.Migrate(cmd.Context(), src, dst, store.MigrateOptions{
		Keys:       cfg.Keys,
		DryRun:     cfg.DryRun,
		SkipVerify: cfg.SkipVerify,
	}, log)
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}
