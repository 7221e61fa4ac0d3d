// Package database opens the Ember databases and applies the embedded goose
// migrations for each dialect.
//
// The client-local SQLite database always holds the metadata (key material)
// and users tables, and holds journal_entries too unless the journal lives
// in PostgreSQL.
package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrations embed.FS

// Driver names accepted in configuration.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// gooseUp is a seam for testing the migration runner.
var gooseUp = func(ctx context.Context, p *goose.Provider) error {
	_, err := p.Up(ctx)
	return err
}

// RunMigrations applies all pending migrations for the given driver.
func RunMigrations(ctx context.Context, db *sql.DB, driver string) error {
	var (
		dialect goose.Dialect
		dir     string
	)
	switch driver {
	case DriverSQLite:
		dialect, dir = goose.DialectSQLite3, "migrations/sqlite"
	case DriverPostgres:
		dialect, dir = goose.DialectPostgres, "migrations/postgres"
	default:
		return fmt.Errorf("unsupported driver %q", driver)
	}

	fsys, err := fs.Sub(migrations, dir)
	if err != nil {
		return err
	}
	p, err := goose.NewProvider(dialect, db, fsys)
	if err != nil {
		return fmt.Errorf("init migrations: %w", err)
	}
	if err := gooseUp(ctx, p); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

// OpenSQLite opens (creating if needed) a SQLite database and migrates it.
// SQLite allows one writer at a time, so the pool is limited to a single
// connection; this also keeps ":memory:" databases shared.
func OpenSQLite(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", sqliteDSN(dsn))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db, DriverSQLite); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// OpenPostgres connects to PostgreSQL through the pgx stdlib driver, checks
// the connection and migrates the journal schema.
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := RunMigrations(ctx, db, DriverPostgres); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// sqliteDSN adds a busy timeout and WAL journaling to file databases.
func sqliteDSN(dsn string) string {
	if dsn == ":memory:" || strings.Contains(dsn, "_pragma=") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}
