// Package connection turns one accepted TCP connection into a dispatcher job.
//
// The handler reads the request line, drains the remaining header lines,
// picks a page and writes a minimal HTTP/1.1 response before closing the
// connection. It does not implement HTTP beyond that.
//
// # Routing
//
//	┌──────────────────────────┬─────────────────┬──────────────┐
//	│ Request line             │ Status line     │ Page         │
//	├──────────────────────────┼─────────────────┼──────────────┤
//	│ GET / HTTP/1.1           │ 200 OK          │ index.html   │
//	│ GET /sleep HTTP/1.1      │ 200 OK          │ sleep.html   │
//	│ anything else            │ 404 NOT FOUND   │ 404.html     │
//	│ (empty / EOF)            │ no response     │              │
//	└──────────────────────────┴─────────────────┴──────────────┘
//
// GET /sleep waits for the configured delay before answering. The wait ends
// early when the job context is cancelled, in which case the connection is
// closed without a response.
//
// # Response Format
//
//	HTTP/1.1 200 OK\r\n
//	Content-Length: <len(body)>\r\n
//	\r\n
//	<body>
//
// # Recording
//
// Every answered request is passed to a Recorder with a fresh request id,
// the status, the body size and the handling time. StoreRecorder writes to
// the request log; NopRecorder discards.
//
// # Errors
//
// Read, page and write failures are logged and end the job. They never stop
// the server or the dispatcher.
package connection
