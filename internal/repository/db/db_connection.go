package db

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"time"

	"phoneauth/internal/config"
	"phoneauth/internal/repository/db/migrations"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

const (
	sqliteDriverName   = "sqlite"
	postgresDriverName = "pgx"

	postgresMaxOpenConns    = 10
	postgresMaxIdleConns    = 5
	postgresConnMaxLifetime = 30 * time.Minute
)

// Open connects to the configured relational backend and applies pending
// migrations. It must not be called for the memory driver.
func Open(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	var (
		db  *sql.DB
		err error
	)
	switch driver {
	case config.DriverSQLite:
		db, err = openSQLite(ctx, dsn)
	case config.DriverPostgres:
		db, err = openPostgres(ctx, dsn)
	default:
		return nil, fmt.Errorf("driver %q has no database", driver)
	}
	if err != nil {
		return nil, err
	}

	if err := Migrate(ctx, db, driver); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// openSQLite opens/creates a SQLite DB file.
func openSQLite(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open(sqliteDriverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite at %q: %w", path, err)
	}

	// One connection: SQLite serializes writers anyway, and the pragmas
	// below are per connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA foreign_keys = ON;",
		"PRAGMA busy_timeout = 5000;",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	return db, nil
}

func openPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open(postgresDriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(postgresMaxOpenConns)
	db.SetMaxIdleConns(postgresMaxIdleConns)
	db.SetConnMaxLifetime(postgresConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// Migrate applies the embedded goose migrations for the driver's dialect.
func Migrate(ctx context.Context, db *sql.DB, driver string) error {
	var dialect goose.Dialect
	switch driver {
	case config.DriverSQLite:
		dialect = goose.DialectSQLite3
	case config.DriverPostgres:
		dialect = goose.DialectPostgres
	default:
		return fmt.Errorf("no migrations for driver %q", driver)
	}

	fsys, err := fs.Sub(migrations.FS, driver)
	if err != nil {
		return fmt.Errorf("migrations for %s: %w", driver, err)
	}
	provider, err := goose.NewProvider(dialect, db, fsys)
	if err != nil {
		return fmt.Errorf("init goose provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}
