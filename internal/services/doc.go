// Package services implements the business logic behind the admin API.
//
// Services sit between the HTTP handlers and the store or the running
// dispatcher. They hold no HTTP types.
//
// # Service Dependency Graph
//
//	Handlers (HTTP endpoints)
//	    │
//	    ▼
//	Services Layer
//	    ├── DispatcherService ──► scheduler.Observable (pool or supervisor)
//	    └── RequestService ─────► Store
//
// # DispatcherService
//
// DispatcherService combines the configured shape of the dispatcher (mode,
// pool size, admission ceiling) with the live counters returned by Stats:
//
//	┌─────────────┬───────────────────────────────────────────────────┐
//	│  Field      │  Meaning                                          │
//	├─────────────┼───────────────────────────────────────────────────┤
//	│  Submitted  │  Jobs accepted by Submit                          │
//	│  Completed  │  Jobs that returned, including panicked ones      │
//	│  Panicked   │  Jobs that panicked                               │
//	│  Rejected   │  Submissions refused after shutdown began         │
//	│  Dropped    │  Queued jobs discarded by ShutdownNow             │
//	│  Queued     │  Jobs waiting in the pool channel (pool only)     │
//	│  Active     │  Jobs running right now                           │
//	└─────────────┴───────────────────────────────────────────────────┘
//
// Workers is reported as zero in async mode.
//
// # RequestService
//
// RequestService is a stateless facade over the request log. List applies
// the filters, then pagination, and returns the total count of matching
// records without pagination so the caller can compute page counts.
//
// Usage:
//
//	svc := services.NewRequestService(store)
//	result, err := svc.List(ctx, services.RequestListParams{
//	    Statuses: []int{404},
//	    Limit:    20,
//	    Offset:   40,
//	})
//	// result.Requests holds at most 20 records, result.Total all 404s
package services
