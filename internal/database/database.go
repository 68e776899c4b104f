package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite" // SQLite driver
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrations embed.FS

// Open creates a new database connection pool for the given dialect and
// verifies it is reachable.
func Open(ctx context.Context, dialect Dialect, dsn string) (*sql.DB, error) {
	driver, err := dialect.driverName()
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}

	if dialect == SQLite {
		// A single connection serialises writers and keeps :memory: databases alive.
		db.SetMaxOpenConns(1)
		for _, pragma := range []string{"PRAGMA foreign_keys = ON", "PRAGMA busy_timeout = 5000"} {
			if _, err := db.ExecContext(ctx, pragma); err != nil {
				db.Close()
				return nil, fmt.Errorf("%s: %w", pragma, err)
			}
		}
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Migrate applies all pending schema migrations for the dialect.
func Migrate(ctx context.Context, db *sql.DB, dialect Dialect) error {
	gooseDialect, dir := goose.DialectSQLite3, "migrations/sqlite"
	if dialect == Postgres {
		gooseDialect, dir = goose.DialectPostgres, "migrations/postgres"
	}

	fsys, err := fs.Sub(migrations, dir)
	if err != nil {
		return err
	}

	provider, err := goose.NewProvider(gooseDialect, db, fsys)
	if err != nil {
		return fmt.Errorf("goose provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	for _, r := range results {
		log.Info().Str("migration", r.Source.Path).Dur("took", r.Duration).Msg("Applied migration")
	}
	return nil
}

// Maintenance refreshes planner statistics for the store.
type Maintenance struct {
	db      *sql.DB
	dialect Dialect
}

// NewMaintenance creates a Maintenance task bound to db.
func NewMaintenance(db *sql.DB, dialect Dialect) *Maintenance {
	return &Maintenance{db: db, dialect: dialect}
}

// Run executes the dialect's optimize statement.
func (m *Maintenance) Run(ctx context.Context) error {
	stmt := "PRAGMA optimize"
	if m.dialect == Postgres {
		stmt = "ANALYZE users, notes"
	}
	_, err := m.db.ExecContext(ctx, stmt)
	return err
}
