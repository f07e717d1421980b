package datastore

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aleister1102/tosmonitor/internal/datastore/migrations"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

const sqlitePragmas = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"

// DB owns the SQLite connection pool and hands out repositories bound to it
// or to a transaction.
type DB struct {
	db     *sql.DB
	logger zerolog.Logger
}

// Open creates the database directory if needed, opens the SQLite file and
// applies pending migrations.
func Open(ctx context.Context, path string, logger zerolog.Logger) (*DB, error) {
	moduleLogger := logger.With().Str("component", "Datastore").Logger()
	moduleLogger.Info().Str("db_path", path).Msg("Initializing database connection")

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory %s: %w", dir, err)
		}
	}

	sqlDB, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("sql.Open failed for %s: %w", path, err)
	}

	d := &DB{db: sqlDB, logger: moduleLogger}
	if err := d.RunMigrations(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	moduleLogger.Info().Str("path", path).Msg("Database initialized and schema verified")
	return d, nil
}

func dsn(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + sqlitePragmas
}

// RunMigrations applies the embedded goose migrations. It is idempotent.
func (d *DB) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(gooseLogger{logger: d.logger})
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	return goose.UpContext(ctx, d.db, ".")
}

// Conn exposes the underlying pool.
func (d *DB) Conn() *sql.DB {
	return d.db
}

// Repos returns repositories that run outside any transaction.
func (d *DB) Repos() *Repositories {
	return NewRepositories(d.db)
}

// InTx runs fn with repositories bound to a single transaction.
func (d *DB) InTx(ctx context.Context, fn func(ctx context.Context, repos *Repositories) error) error {
	return WithTx(ctx, d.db, nil, func(ctx context.Context, tx DBTX) error {
		return fn(ctx, NewRepositories(tx))
	})
}

// Close closes the connection pool.
func (d *DB) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}

// gooseLogger routes migration output into zerolog.
type gooseLogger struct {
	logger zerolog.Logger
}

func (l gooseLogger) Printf(format string, v ...interface{}) {
	l.logger.Debug().Msgf(strings.TrimSpace(format), v...)
}

func (l gooseLogger) Fatalf(format string, v ...interface{}) {
	l.logger.Fatal().Msgf(strings.TrimSpace(format), v...)
}
