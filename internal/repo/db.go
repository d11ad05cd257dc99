// Package repo is the GORM persistence layer: periods, records, the trash
// (soft-delete flags plus deleted_at stamps) and idempotency keys, all in one
// SQLite file.
package repo

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/opentelemetry/tracing"

	"github.com/clinica/susceptibles/internal/domain"
)

// Option tweaks how OpenSQLite builds the GORM handle.
type Option func(*openConfig)

type openConfig struct {
	tracing  bool
	logLevel logger.LogLevel
}

// WithTracing installs the OpenTelemetry GORM plugin so every statement is
// recorded as a child span of the request or CLI span.
func WithTracing() Option {
	return func(c *openConfig) { c.tracing = true }
}

// WithLogLevel sets the GORM logger level (Silent by default).
func WithLogLevel(l logger.LogLevel) Option {
	return func(c *openConfig) { c.logLevel = l }
}

// The API and a papelera sweep may write concurrently; WAL plus a busy
// timeout lets one wait for the other instead of failing with SQLITE_BUSY.
var sqlitePragmas = []string{
	"PRAGMA journal_mode=WAL;",
	"PRAGMA synchronous=NORMAL;",
	"PRAGMA foreign_keys=ON;",
	"PRAGMA busy_timeout=5000;",
}

// OpenSQLite opens (or creates) the database at path, which may also be a
// "file:" URI. A plain path whose directory is missing fails up front rather
// than with SQLite's opaque "out of memory (14)".
func OpenSQLite(path string, opts ...Option) (*gorm.DB, error) {
	cfg := openConfig{logLevel: logger.Silent}
	for _, o := range opts {
		o(&cfg)
	}

	if !strings.HasPrefix(path, "file:") && path != ":memory:" {
		if _, err := os.Stat(filepath.Dir(path)); err != nil {
			return nil, err
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(cfg.logLevel),
	})
	if err != nil {
		return nil, err
	}
	for _, p := range sqlitePragmas {
		if err := db.Exec(p).Error; err != nil {
			return nil, fmt.Errorf("%s: %w", strings.TrimSuffix(p, ";"), err)
		}
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if cfg.tracing {
		if err := db.Use(tracing.NewPlugin(tracing.WithoutQueryVariables())); err != nil {
			return nil, err
		}
	}
	return db, nil
}

// AutoMigrate creates or updates the periods, records and idempotency tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Period{},
		&domain.Record{},
		&domain.Idempotency{},
	)
}
