package store

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"
)

// QueryInterceptor is the subset of *sql.DB used by the stores.
type QueryInterceptor interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type loggingInterceptor struct {
	db  *sql.DB
	log *zap.SugaredLogger
}

func newLoggingInterceptor(db *sql.DB) *loggingInterceptor {
	return &loggingInterceptor{db: db, log: zap.S().Named("store")}
}

func (l *loggingInterceptor) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	start := time.Now()
	rows, err := l.db.QueryContext(ctx, query, args...)
	l.log.Debugw("query", "sql", query, "args", args, "duration", time.Since(start), "error", err)
	return rows, err
}

func (l *loggingInterceptor) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	start := time.Now()
	row := l.db.QueryRowContext(ctx, query, args...)
	l.log.Debugw("query row", "sql", query, "args", args, "duration", time.Since(start))
	return row
}

func (l *loggingInterceptor) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	start := time.Now()
	res, err := l.db.ExecContext(ctx, query, args...)
	l.log.Debugw("exec", "sql", query, "args", args, "duration", time.Since(start), "error", err)
	return res, err
}
