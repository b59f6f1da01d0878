package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"articles-api/internal/observability/logging"
	"articles-api/internal/repository"
)

// Executor is the query surface shared by *sql.DB and *sql.Tx.
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type txKey struct{}

// Conn returns the transaction bound to ctx, or db when there is none.
func Conn(ctx context.Context, db *sql.DB) Executor {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx
	}
	return db
}

// InTx reports whether ctx carries an open transaction.
func InTx(ctx context.Context) bool {
	_, ok := ctx.Value(txKey{}).(*sql.Tx)
	return ok
}

// Transactor runs units of work inside a single database transaction.
type Transactor struct {
	db   *sql.DB
	opts *sql.TxOptions
}

// NewTransactor builds a Transactor. Postgres runs at READ COMMITTED and relies on
// SELECT ... FOR UPDATE for the rows it mutates; SQLite serialises writers on its own.
func NewTransactor(db *sql.DB, dialect Dialect) *Transactor {
	var opts *sql.TxOptions
	if dialect == DialectPostgres {
		opts = &sql.TxOptions{Isolation: sql.LevelReadCommitted}
	}
	return &Transactor{db: db, opts: opts}
}

// WithinTransaction commits when fn returns nil and rolls back on any error or panic.
// The error from fn is returned unchanged so callers can match sentinels such as
// repository.ErrNotFound. Nested calls join the outer transaction.
func (t *Transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if InTx(ctx) {
		return fn(ctx)
	}

	tx, err := t.db.BeginTx(ctx, t.opts)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		logger := logging.FromContext(ctx)
		if errors.Is(err, repository.ErrNotFound) {
			logger.Debug("transaction aborted: record not found")
		} else {
			logger.Warn("transaction rolled back", slog.Any("error", err))
		}
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
