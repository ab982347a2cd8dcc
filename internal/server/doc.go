// Package server provides the TCP front end of the web server.
//
// It binds the listening socket, accepts connections and submits one job
// per connection to a scheduler.Dispatcher. The server does not parse
// requests; that is the job's business.
//
// # Architecture Overview
//
//	┌───────────────────────────────────────────────────────────────┐
//	│                          TCP Server                           │
//	├───────────────────────────────────────────────────────────────┤
//	│                                                               │
//	│   Listen(ctx, addr, port, attempts)                           │
//	│   ┌─────────────────────┐   fail   ┌─────────────────────┐    │
//	│   │ bind addr:port      │ ───────► │ bind addr:0         │    │
//	│   │ exponential backoff │          │ OS-assigned port    │    │
//	│   └─────────────────────┘          └─────────────────────┘    │
//	│                                                               │
//	├───────────────────────────────────────────────────────────────┤
//	│   Accept loop                                                 │
//	│     conn ──► JobFactory.Job(conn) ──► Dispatcher.Submit       │
//	│                                        │                      │
//	│                                        └─ error: close conn   │
//	├───────────────────────────────────────────────────────────────┤
//	│   Dispatcher (one of)                                         │
//	│     ThreadPool                 N workers, shared FIFO         │
//	│     TaskSupervisor             one goroutine per job          │
//	│     AdmissionLimiter(...)      ceiling on jobs in flight      │
//	└───────────────────────────────────────────────────────────────┘
//
// # Server Lifecycle
//
// Creation:
//
//	ln, err := server.Listen(ctx, "127.0.0.1", 7878, 3)
//	srv := server.NewServer(ln, dispatcher, handler,
//	    server.WithMaxConnections(10),
//	)
//
// The server owns both the listener and the dispatcher from here on.
//
// Running:
//
//	// Blocks until ctx is cancelled, the connection limit is hit,
//	// or Accept fails.
//	err := srv.Run(ctx)
//
// Stopping:
//
// Run closes the listener and calls Dispatcher.Shutdown before returning,
// so every connection that was accepted is answered before Run returns.
// A connection whose submission is rejected is closed immediately.
//
// # Admin Server
//
// AdminServer is the gin engine serving the admin API next to the TCP
// server:
//
//	┌───────────────────────────────────────────────────────────────┐
//	│                       Middleware Stack                        │
//	│  ┌─────────────────────────────────────────────────────────┐  │
//	│  │  Logger (request/response logging)                      │  │
//	│  │  Recovery (panic recovery with zap logging)             │  │
//	│  └─────────────────────────────────────────────────────────┘  │
//	├───────────────────────────────────────────────────────────────┤
//	│  /metrics          promhttp over the given gatherer           │
//	├───────────────────────────────────────────────────────────────┤
//	│                       Router (/api/v1)                        │
//	│  ┌─────────────────────────────────────────────────────────┐  │
//	│  │  Authenticator (bearer JWT, HS256), when Auth.Enabled   │  │
//	│  │  Handlers (registered via callback)                     │  │
//	│  └─────────────────────────────────────────────────────────┘  │
//	└───────────────────────────────────────────────────────────────┘
//
//	admin := server.NewAdminServer(cfg, registry, func(router *gin.RouterGroup) {
//	    v1.RegisterHandlers(router, handler)
//	})
//	go admin.Start(ctx)
//	...
//	admin.Stop(stopCtx)
//
// Logger Middleware (middlewares.Logger):
//   - Logs request start at debug: method, path, query, IP, user-agent, timestamp
//   - Logs request end: all above + status code, latency
//   - Errors logged separately if present
//   - Uses the "http" logger name
//
// Recovery Middleware (ginzap.RecoveryWithZap):
//   - Recovers from panics in handlers
//   - Logs panic details with stack trace
//   - Returns 500 Internal Server Error
//
// ServerMode "prod" runs gin in release mode, "dev" in debug mode. Unknown
// routes answer a JSON 404.
//
// # Backpressure
//
// Submit may block: a ThreadPool with a bounded queue blocks while the
// queue is full and an AdmissionLimiter blocks while the ceiling is reached.
// The accept loop stalls with it and new connections wait in the kernel
// backlog.
package server
