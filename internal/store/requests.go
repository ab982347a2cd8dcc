package store

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/shirry/webserver/internal/models"
)

// RequestStore is the append-only log of handled connections.
type RequestStore struct {
	db QueryInterceptor
}

func NewRequestStore(db QueryInterceptor) *RequestStore {
	return &RequestStore{db: db}
}

func (s *RequestStore) Save(ctx context.Context, r models.RequestRecord) error {
	createdAt := r.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	query, args, err := sq.Insert(requestsTable).
		Columns(requestColumns...).
		Values(
			r.ID,
			r.RemoteAddr,
			r.RequestLine,
			r.Method,
			r.Path,
			r.Status,
			r.Bytes,
			r.Duration.Microseconds(),
			string(r.Mode),
			createdAt.UTC(),
		).
		ToSql()
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, query, args...)
	return err
}

// List returns records in insertion order.
func (s *RequestStore) List(ctx context.Context, opts ...ListOption) ([]models.RequestRecord, error) {
	builder := sq.Select(requestColumns...).
		From(requestsTable).
		OrderBy(colSeq)

	for _, opt := range opts {
		builder = opt(builder)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.RequestRecord
	for rows.Next() {
		var (
			r          models.RequestRecord
			durationUs int64
			mode       string
		)
		err := rows.Scan(
			&r.ID,
			&r.RemoteAddr,
			&r.RequestLine,
			&r.Method,
			&r.Path,
			&r.Status,
			&r.Bytes,
			&durationUs,
			&mode,
			&r.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		r.Duration = time.Duration(durationUs) * time.Microsecond
		r.Mode = models.DispatchMode(mode)
		records = append(records, r)
	}

	return records, rows.Err()
}

func (s *RequestStore) Count(ctx context.Context, opts ...ListOption) (int, error) {
	builder := sq.Select("COUNT(*)").From(requestsTable)

	for _, opt := range opts {
		builder = opt(builder)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return 0, err
	}

	var count int
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&count)
	return count, err
}

type ListOption func(sq.SelectBuilder) sq.SelectBuilder

func ByStatus(statuses ...int) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		if len(statuses) == 0 {
			return b
		}
		return b.Where(sq.Eq{colStatus: statuses})
	}
}

func ByPath(paths ...string) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		if len(paths) == 0 {
			return b
		}
		return b.Where(sq.Eq{colPath: paths})
	}
}

func ByMode(modes ...models.DispatchMode) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		if len(modes) == 0 {
			return b
		}
		values := make([]string, 0, len(modes))
		for _, m := range modes {
			values = append(values, string(m))
		}
		return b.Where(sq.Eq{colMode: values})
	}
}

func WithLimit(limit uint64) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		return b.Limit(limit)
	}
}

func WithOffset(offset uint64) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		return b.Offset(offset)
	}
}
