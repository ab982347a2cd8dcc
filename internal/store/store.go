package store

import (
	"context"
	"database/sql"

	"github.com/shirry/webserver/internal/store/migrations"
)

// Store provides access to all storage repositories.
type Store struct {
	db       *sql.DB
	requests *RequestStore
}

func NewStore(db *sql.DB) *Store {
	qi := newLoggingInterceptor(db)
	return &Store{
		db:       db,
		requests: NewRequestStore(qi),
	}
}

// Migrate creates or upgrades the schema.
func (s *Store) Migrate(ctx context.Context) error {
	return migrations.Run(ctx, s.db)
}

func (s *Store) Requests() *RequestStore {
	return s.requests
}

func (s *Store) Close() error {
	return s.db.Close()
}
