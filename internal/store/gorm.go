package store

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tphakala/weatherboard/internal/conf"
	"github.com/tphakala/weatherboard/internal/errors"
	"github.com/tphakala/weatherboard/internal/logger"
)

// Entry is one stored key-value pair.
type Entry struct {
	Key       string `gorm:"column:entry_key;primaryKey;size:191"`
	Value     string `gorm:"column:entry_value;type:text;not null"`
	UpdatedAt time.Time
}

// TableName implements gorm's tabler interface
func (Entry) TableName() string { return "kv_entries" }

// GormStore implements Store on a gorm database.
type GormStore struct {
	db      *gorm.DB
	dialect string
	log     logger.Logger
}

// OpenSQLite opens or creates the SQLite database at path.
func OpenSQLite(path string, log logger.Logger) (*GormStore, error) {
	log = moduleLogger(log)
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, dbError(err, "sqlite", "create_directory")
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: newGormLogger(log)})
	if err != nil {
		return nil, dbError(fmt.Errorf("failed to open SQLite database: %w", err), "sqlite", "open")
	}
	return newGormStore(db, "sqlite", log)
}

// OpenMySQL connects to the MySQL database described by cfg.
func OpenMySQL(cfg conf.MySQLSettings, log logger.Logger) (*GormStore, error) {
	log = moduleLogger(log)
	db, err := gorm.Open(mysql.Open(MySQLDSN(cfg)), &gorm.Config{Logger: newGormLogger(log)})
	if err != nil {
		log.Error("Failed to open MySQL database",
			logger.String("host", cfg.Host),
			logger.Int("port", cfg.Port),
			logger.String("database", cfg.Database),
			logger.Error(err))
		return nil, dbError(fmt.Errorf("failed to open MySQL database: %w", err), "mysql", "open")
	}
	return newGormStore(db, "mysql", log)
}

// MySQLDSN builds the driver DSN for cfg.
func MySQLDSN(cfg conf.MySQLSettings) string {
	c := mysqldriver.NewConfig()
	c.User = cfg.Username
	c.Passwd = cfg.Password
	c.Net = "tcp"
	c.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	c.DBName = cfg.Database
	c.ParseTime = true
	c.Params = map[string]string{"charset": "utf8mb4"}
	return c.FormatDSN()
}

func newGormStore(db *gorm.DB, dialect string, log logger.Logger) (*GormStore, error) {
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, dbError(fmt.Errorf("failed to migrate schema: %w", err), dialect, "migrate")
	}
	return &GormStore{db: db, dialect: dialect, log: log}, nil
}

// Get implements Store
func (s *GormStore) Get(ctx context.Context, key string) (string, bool, error) {
	var entry Entry
	result := s.db.WithContext(ctx).Where("entry_key = ?", key).Limit(1).Find(&entry)
	if result.Error != nil {
		return "", false, dbError(result.Error, s.dialect, "get")
	}
	if result.RowsAffected == 0 {
		return "", false, nil
	}
	return entry.Value, true, nil
}

// Set implements Store, inserting or replacing the value.
func (s *GormStore) Set(ctx context.Context, key, value string) error {
	entry := Entry{Key: key, Value: value, UpdatedAt: time.Now()}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "entry_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"entry_value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return dbError(err, s.dialect, "set")
	}
	return nil
}

// Remove implements Store
func (s *GormStore) Remove(ctx context.Context, key string) error {
	if err := s.db.WithContext(ctx).Where("entry_key = ?", key).Delete(&Entry{}).Error; err != nil {
		return dbError(err, s.dialect, "remove")
	}
	return nil
}

// Keys implements Lister
func (s *GormStore) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	if err := s.db.WithContext(ctx).Model(&Entry{}).Order("entry_key").Pluck("entry_key", &keys).Error; err != nil {
		return nil, dbError(err, s.dialect, "keys")
	}
	return keys, nil
}

// Close closes the underlying connection pool.
func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return dbError(err, s.dialect, "close")
	}
	return sqlDB.Close()
}

func moduleLogger(log logger.Logger) logger.Logger {
	if log == nil {
		return logger.Global().Module("store")
	}
	return log
}

func dbError(err error, dialect, operation string) error {
	return errors.New(err).
		Component("store").
		Category(errors.CategoryDatabase).
		Context("dialect", dialect).
		Context("operation", operation).
		Build()
}
