/*
Package e2e holds the end-to-end tests of the web server.

The suite runs the real "serve" command in-process, with free ports picked
at startup, and talks to it over TCP and through the admin API client in
pkg/client. Nothing outside the test process is needed.

# Package Structure

	test/e2e/
	├── doc.go             This file
	├── e2e_suite_test.go  Ginkgo runner
	└── e2e_test.go        Specs: both dispatch modes, auth, connection limit

# Scenario

	┌──────────┐  GET / , GET /nope   ┌────────────────────┐
	│  specs   │ ───────────────────► │  TCP server        │
	│          │                      │  (pool | async)    │
	│          │                      └─────────┬──────────┘
	│          │                                │ record
	│          │                                ▼
	│          │  pkg/client (JWT)    ┌────────────────────┐
	│          │ ───────────────────► │  admin API         │
	│          │  GET /metrics        │  + request log     │
	└──────────┘                      └────────────────────┘

Each test starts the server with its own context and cancels it at the
end; the command must then return without error.

# Running

	go test ./test/e2e/...
*/
package e2e
