package connection

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"io/fs"
	"net"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shirry/webserver/internal/models"
	"github.com/shirry/webserver/pkg/scheduler"
)

const (
	statusOK       = "HTTP/1.1 200 OK"
	statusNotFound = "HTTP/1.1 404 NOT FOUND"

	indexPage    = "index.html"
	sleepPage    = "sleep.html"
	notFoundPage = "404.html"

	defaultReadTimeout = 10 * time.Second

	// maxRequestBytes caps the request line plus headers.
	maxRequestBytes = 8 << 10
)

type route struct {
	statusLine string
	status     int
	page       string
	sleep      bool
}

var routes = map[string]route{
	"GET / HTTP/1.1":      {statusLine: statusOK, status: 200, page: indexPage},
	"GET /sleep HTTP/1.1": {statusLine: statusOK, status: 200, page: sleepPage, sleep: true},
}

var notFound = route{statusLine: statusNotFound, status: 404, page: notFoundPage}

type Handler struct {
	pages       fs.FS
	sleepDelay  time.Duration
	readTimeout time.Duration
	mode        models.DispatchMode
	recorder    Recorder
	log         *zap.SugaredLogger
}

type HandlerOption func(*Handler)

func WithRecorder(r Recorder) HandlerOption {
	return func(h *Handler) {
		if r != nil {
			h.recorder = r
		}
	}
}

func WithSleepDelay(d time.Duration) HandlerOption {
	return func(h *Handler) {
		h.sleepDelay = d
	}
}

func WithReadTimeout(d time.Duration) HandlerOption {
	return func(h *Handler) {
		h.readTimeout = d
	}
}

// NewHandler serves pages from the given file system. mode is only used to
// label recorded requests.
func NewHandler(pages fs.FS, mode models.DispatchMode, opts ...HandlerOption) *Handler {
	h := &Handler{
		pages:       pages,
		sleepDelay:  5 * time.Second,
		readTimeout: defaultReadTimeout,
		mode:        mode,
		recorder:    NopRecorder{},
		log:         zap.S().Named("connection"),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Job wraps conn into a job. The job owns conn and closes it.
func (h *Handler) Job(conn net.Conn) scheduler.Job {
	return scheduler.JobFunc(func(ctx context.Context) {
		h.Serve(ctx, conn)
	})
}

func (h *Handler) Serve(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	start := time.Now()
	log := h.log.With("remote", conn.RemoteAddr().String())

	if h.readTimeout > 0 {
		_ = conn.SetReadDeadline(time.Now().Add(h.readTimeout))
	}

	requestLine := readRequest(bufio.NewReader(io.LimitReader(conn, maxRequestBytes)))
	if requestLine == "" {
		log.Debug("empty request; closing connection")
		return
	}

	r, ok := routes[requestLine]
	if !ok {
		r = notFound
	}

	if r.sleep {
		select {
		case <-time.After(h.sleepDelay):
		case <-ctx.Done():
			log.Debugw("request cancelled while sleeping", "request", requestLine)
			return
		}
	}

	body, err := fs.ReadFile(h.pages, r.page)
	if err != nil {
		log.Errorw("failed to read page", "page", r.page, "error", err)
		return
	}

	response := fmt.Sprintf("%s\r\nContent-Length: %d\r\n\r\n%s", r.statusLine, len(body), body)
	if _, err := conn.Write([]byte(response)); err != nil {
		log.Errorw("failed to write response", "error", err)
		return
	}

	method, path := splitRequestLine(requestLine)
	record := models.RequestRecord{
		ID:          uuid.NewString(),
		RemoteAddr:  conn.RemoteAddr().String(),
		RequestLine: requestLine,
		Method:      method,
		Path:        path,
		Status:      r.status,
		Bytes:       len(body),
		Duration:    time.Since(start),
		Mode:        h.mode,
	}
	h.recorder.Record(ctx, record)

	log.Debugw("request handled", "id", record.ID, "request", requestLine, "status", r.status, "duration", record.Duration)
}

// readRequest returns the request line and consumes the header lines up to
// the blank line or the read limit. An empty string means the client sent nothing before EOF
// or the read deadline.
func readRequest(r *bufio.Reader) string {
	line, err := r.ReadString('\n')
	requestLine := strings.TrimRight(line, "\r\n")
	if err != nil {
		return requestLine
	}

	for {
		header, err := r.ReadString('\n')
		if err != nil || strings.TrimRight(header, "\r\n") == "" {
			break
		}
	}
	return requestLine
}

func splitRequestLine(line string) (method, path string) {
	parts := strings.Fields(line)
	if len(parts) > 0 {
		method = parts[0]
	}
	if len(parts) > 1 {
		path = parts[1]
	}
	return method, path
}
