// Package handlers implements the admin HTTP API.
//
// Handlers delegate to the services layer and only deal with parameter
// parsing, status codes and the conversion to API types.
//
// # Architecture Overview
//
//	┌─────────────────────────────────────────────────────────────────┐
//	│                     HTTP Request (Gin)                          │
//	└─────────────────────────────────────────────────────────────────┘
//	                              │
//	                              ▼
//	┌─────────────────────────────────────────────────────────────────┐
//	│                      Handler (this package)                     │
//	│  - Parameter parsing                                            │
//	│  - Error mapping to HTTP status codes                           │
//	│  - Model-to-API conversion                                      │
//	└─────────────────────────────────────────────────────────────────┘
//	                              │
//	                              ▼
//	┌─────────────────────────────────────────────────────────────────┐
//	│                      Services Layer                             │
//	│            DispatcherService │ RequestService                   │
//	└─────────────────────────────────────────────────────────────────┘
//
// Handler implements v1.ServerInterface and is mounted with:
//
//	v1.RegisterHandlers(router, handler)
//
// # API Endpoints
//
//	┌────────┬─────────────┬──────────────────────────────────────────┐
//	│ Method │ Endpoint    │ Description                              │
//	├────────┼─────────────┼──────────────────────────────────────────┤
//	│ GET    │ /dispatcher │ Dispatcher mode, size and counters       │
//	│ GET    │ /requests   │ Request log, filtered and paginated      │
//	└────────┴─────────────┴──────────────────────────────────────────┘
//
// # Pagination
//
// GET /requests accepts page (1-based, default 1) and pageSize (default 20,
// capped at 100). Filters: status, path and mode, each repeatable:
//
//	GET /api/v1/requests?status=404&status=200&page=2&pageSize=10
//
// Response:
//
//	{
//	    "page": 2,
//	    "pageCount": 3,
//	    "total": 27,
//	    "requests": [ { "id": "...", "path": "/sleep", "status": 200, ... } ]
//	}
//
// Unknown mode values are ignored. When the request log is disabled the
// endpoint answers 503.
package handlers
