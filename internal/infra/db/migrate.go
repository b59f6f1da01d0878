package db

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationsFS embed.FS

//go:embed seeds/users.sql
var seedUsersSQL string

// Migrator applies the embedded schema migrations for one dialect.
type Migrator struct {
	provider *goose.Provider
	log      *slog.Logger
}

// NewMigrator returns a goose-backed migrator for db.
func NewMigrator(db *sql.DB, dialect Dialect, log *slog.Logger) (*Migrator, error) {
	if db == nil {
		return nil, errors.New("db: nil database provided")
	}
	if log == nil {
		log = slog.Default()
	}

	gooseDialect, dir, err := gooseDialectFor(dialect)
	if err != nil {
		return nil, err
	}
	fsys, err := fs.Sub(migrationsFS, dir)
	if err != nil {
		return nil, fmt.Errorf("db: locate migrations: %w", err)
	}

	provider, err := goose.NewProvider(gooseDialect, db, fsys)
	if err != nil {
		return nil, fmt.Errorf("db: configure goose: %w", err)
	}
	return &Migrator{provider: provider, log: log}, nil
}

func gooseDialectFor(dialect Dialect) (goose.Dialect, string, error) {
	switch dialect {
	case DialectPostgres:
		return goose.DialectPostgres, "migrations/postgres", nil
	case DialectSQLite:
		return goose.DialectSQLite3, "migrations/sqlite", nil
	default:
		return "", "", fmt.Errorf("db: unsupported dialect %q", dialect)
	}
}

// Up applies all pending migrations.
func (m *Migrator) Up(ctx context.Context) error {
	runCtx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	m.log.Info("applying migrations")
	results, err := m.provider.Up(runCtx)
	if err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	for _, r := range results {
		m.log.Info("migration applied",
			slog.Int64("version", r.Source.Version),
			slog.String("path", r.Source.Path),
			slog.Duration("duration", r.Duration))
	}
	m.log.Info("migrations applied", slog.Int("count", len(results)))
	return nil
}

// Down rolls back the latest migration, or every migration above targetVersion when it is >= 0.
func (m *Migrator) Down(ctx context.Context, targetVersion int64) error {
	runCtx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	if targetVersion >= 0 {
		m.log.Info("rolling back migrations", slog.Int64("target", targetVersion))
		if _, err := m.provider.DownTo(runCtx, targetVersion); err != nil {
			return fmt.Errorf("rollback to version %d: %w", targetVersion, err)
		}
	} else {
		m.log.Info("rolling back latest migration")
		if _, err := m.provider.Down(runCtx); err != nil {
			return fmt.Errorf("rollback latest migration: %w", err)
		}
	}

	m.log.Info("rollback complete")
	return nil
}

// MigrationStatus is one line of `migrate status` output.
type MigrationStatus struct {
	Version   int64
	Path      string
	Applied   bool
	AppliedAt time.Time
}

// Status reports applied and pending migrations.
func (m *Migrator) Status(ctx context.Context) ([]MigrationStatus, error) {
	statuses, err := m.provider.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("migration status: %w", err)
	}
	out := make([]MigrationStatus, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, MigrationStatus{
			Version:   s.Source.Version,
			Path:      s.Source.Path,
			Applied:   s.State == goose.StateApplied,
			AppliedAt: s.AppliedAt,
		})
	}
	return out, nil
}

// SeedUsers inserts the fixed set of demo users. Running it twice is a no-op.
func SeedUsers(ctx context.Context, db *sql.DB) (int64, error) {
	res, err := db.ExecContext(ctx, seedUsersSQL)
	if err != nil {
		return 0, fmt.Errorf("seed users: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("seed users: %w", err)
	}
	return n, nil
}
