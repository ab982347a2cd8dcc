// Package config defines the configuration structure for the web server.
//
// Configuration is organized into logical sections and uses struct tags
// (github.com/creasty/defaults) to supply defaults. The serve command
// populates it from flags, WEBSERVER_* environment variables and an
// optional --config file, in that order of precedence.
//
// # Configuration Structure
//
//	Configuration
//	├── Server         - TCP listener and connection handling
//	├── Dispatcher     - Execution model and its limits
//	├── Admin          - Admin HTTP API (status, request log, metrics)
//	├── Store          - Request log database
//	├── Auth           - Admin API authentication
//	├── LogFormat      - Logging format
//	└── LogLevel       - Logging verbosity
//
// # Server Configuration
//
//	┌──────────────────┬─────────────┬────────────────────────────────────────┐
//	│ Field            │ Default     │ Description                            │
//	├──────────────────┼─────────────┼────────────────────────────────────────┤
//	│ Address          │ "127.0.0.1" │ Listen address                         │
//	│ Port             │ 7878        │ Listen port (falls back to 0 on error) │
//	│ PagesFolder      │ "pages"     │ Folder holding index/sleep/404 pages   │
//	│ SleepDelay       │ 5s          │ Delay applied by GET /sleep            │
//	│ MaxConnections   │ 0           │ Stop after N connections (0 = never)   │
//	│ BindAttempts     │ 3           │ Bind retries before port fallback      │
//	└──────────────────┴─────────────┴────────────────────────────────────────┘
//
// # Dispatcher Configuration
//
//	┌──────────────────┬─────────┬────────────────────────────────────────────┐
//	│ Field            │ Default │ Description                                │
//	├──────────────────┼─────────┼────────────────────────────────────────────┤
//	│ Mode             │ "pool"  │ "pool" (thread pool) or "async" (tasks)    │
//	│ Workers          │ 3       │ Pool size, pool mode only                  │
//	│ QueueCapacity    │ 0       │ Pool channel bound (0 = unbounded)         │
//	│ MaxInFlight      │ 0       │ Async admission ceiling (0 = unbounded)    │
//	└──────────────────┴─────────┴────────────────────────────────────────────┘
//
// # Admin, Store and Authentication
//
//	┌──────────────────┬─────────────┬────────────────────────────────────────┐
//	│ Field            │ Default     │ Description                            │
//	├──────────────────┼─────────────┼────────────────────────────────────────┤
//	│ Admin.Enabled    │ true        │ Serve the admin API                    │
//	│ Admin.Port       │ 8000        │ Admin API port                         │
//	│ Admin.ServerMode │ "dev"       │ gin mode: "dev" or "prod"              │
//	│ Store.Enabled    │ true        │ Record handled requests                │
//	│ Store.Path       │ ":memory:"  │ DuckDB database path                   │
//	│ Auth.Enabled     │ false       │ Require a bearer JWT on /api/v1        │
//	│ Auth.Secret      │ ""          │ HS256 signing secret (hidden in logs)  │
//	└──────────────────┴─────────────┴────────────────────────────────────────┘
//
// # Debug Logging
//
// DebugMap returns a map suitable for structured logging with the secret
// masked:
//
//	zap.S().Infow("configuration loaded", "config", cfg.DebugMap())
package config
