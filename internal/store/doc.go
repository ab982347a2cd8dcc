// Package store implements the request log for the web server.
//
// Every connection handled by the dispatcher is recorded as one row in a
// DuckDB table. The admin API reads it back with filters and pagination.
//
// # Architecture Overview
//
//	┌─────────────────────────────────────────────────────────────────┐
//	│                         Store (facade)                          │
//	├─────────────────────────────────────────────────────────────────┤
//	│                         RequestStore                            │
//	│                              ▼                                  │
//	│                          requests                               │
//	├─────────────────────────────────────────────────────────────────┤
//	│           QueryInterceptor (debug logging of every query)       │
//	└─────────────────────────────────────────────────────────────────┘
//
// # Tables
//
// Tables created by migrations (internal/store/migrations/sql/):
//
//	┌────────────────────┬─────────────────────────────────────────────┐
//	│  Table             │  Purpose                                    │
//	├────────────────────┼─────────────────────────────────────────────┤
//	│  requests          │  One row per handled connection             │
//	│  schema_migrations │  Migration version tracking                 │
//	└────────────────────┴─────────────────────────────────────────────┘
//
// Rows are ordered by the seq column, filled from the requests_seq
// sequence, so List returns records in the order they were saved.
// Durations are stored as microseconds in duration_us.
//
// # Initialization Flow
//
//	db, _ := store.NewDB(cfg.Store.Path)   // ":memory:" for in-process
//	s := store.NewStore(db)
//	s.Migrate(ctx)                         // creates requests, indexes
//
// # Query Building
//
// Queries are built with squirrel. List and Count accept ListOption values
// that refine the select builder:
//
//	records, err := s.Requests().List(ctx,
//	    store.ByStatus(404),
//	    store.ByPath("/missing"),
//	    store.WithLimit(20),
//	    store.WithOffset(40),
//	)
//
//	┌────────────────────┬────────────────────────────────────────────┐
//	│  Option            │  Effect                                    │
//	├────────────────────┼────────────────────────────────────────────┤
//	│  ByStatus(s...)    │  WHERE status IN (...)                     │
//	│  ByPath(p...)      │  WHERE path IN (...)                       │
//	│  ByMode(m...)      │  WHERE mode IN (...)                       │
//	│  WithLimit(n)      │  LIMIT n                                   │
//	│  WithOffset(n)     │  OFFSET n                                  │
//	└────────────────────┴────────────────────────────────────────────┘
//
// Options with no arguments leave the builder untouched.
//
// # Concurrency
//
// Saves arrive from many worker goroutines at once. The *sql.DB pool
// serializes access to DuckDB; RequestStore holds no state of its own.
package store
