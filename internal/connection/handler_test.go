package connection_test

import (
	"context"
	"io"
	"net"
	"strings"
	"sync"
	"testing/fstest"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/shirry/webserver/internal/connection"
	"github.com/shirry/webserver/internal/models"
)

type fakeRecorder struct {
	mu      sync.Mutex
	records []models.RequestRecord
}

func (f *fakeRecorder) Record(_ context.Context, r models.RequestRecord) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, r)
}

func (f *fakeRecorder) all() []models.RequestRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.RequestRecord(nil), f.records...)
}

var pages = fstest.MapFS{
	"index.html": {Data: []byte("<h1>Hello!</h1>")},
	"sleep.html": {Data: []byte("<h1>Slept</h1>")},
	"404.html":   {Data: []byte("<h1>Oops!</h1>")},
}

// exchange sends request over an in-memory connection and returns whatever
// the handler wrote before closing it.
func exchange(ctx context.Context, h *connection.Handler, request string) string {
	server, client := net.Pipe()

	done := make(chan struct{})
	go func() {
		defer close(done)
		h.Serve(ctx, server)
	}()
	if request != "" {
		go func() {
			_, _ = client.Write([]byte(request))
		}()
	}

	resp, _ := io.ReadAll(client)
	Eventually(done, 2*time.Second).Should(BeClosed())
	_ = client.Close()
	return string(resp)
}

var _ = Describe("Handler", func() {
	var (
		ctx      context.Context
		recorder *fakeRecorder
		handler  *connection.Handler
	)

	BeforeEach(func() {
		ctx = context.Background()
		recorder = &fakeRecorder{}
		handler = connection.NewHandler(pages, models.DispatchModePool,
			connection.WithRecorder(recorder),
			connection.WithSleepDelay(50*time.Millisecond),
		)
	})

	// Given a request for the root path
	// When the handler serves it
	// Then it answers 200 with the index page and records the request
	It("should serve the index page", func() {
		resp := exchange(ctx, handler, "GET / HTTP/1.1\r\nHost: localhost\r\n\r\n")

		Expect(resp).To(Equal("HTTP/1.1 200 OK\r\nContent-Length: 15\r\n\r\n<h1>Hello!</h1>"))

		records := recorder.all()
		Expect(records).To(HaveLen(1))
		Expect(records[0].ID).NotTo(BeEmpty())
		Expect(records[0].Method).To(Equal("GET"))
		Expect(records[0].Path).To(Equal("/"))
		Expect(records[0].RequestLine).To(Equal("GET / HTTP/1.1"))
		Expect(records[0].Status).To(Equal(200))
		Expect(records[0].Bytes).To(Equal(15))
		Expect(records[0].Mode).To(Equal(models.DispatchModePool))
	})

	It("should answer unknown paths with 404", func() {
		resp := exchange(ctx, handler, "GET /nope HTTP/1.1\r\n\r\n")

		Expect(resp).To(HavePrefix("HTTP/1.1 404 NOT FOUND\r\n"))
		Expect(resp).To(HaveSuffix("<h1>Oops!</h1>"))
		Expect(recorder.all()).To(ConsistOf(HaveField("Status", 404)))
	})

	It("should answer other methods with 404", func() {
		resp := exchange(ctx, handler, "POST / HTTP/1.1\r\n\r\n")
		Expect(resp).To(HavePrefix("HTTP/1.1 404 NOT FOUND\r\n"))
	})

	// Given a request for /sleep
	// When the handler serves it
	// Then the response arrives only after the configured delay
	It("should delay the sleep page", func() {
		start := time.Now()
		resp := exchange(ctx, handler, "GET /sleep HTTP/1.1\r\n\r\n")

		Expect(time.Since(start)).To(BeNumerically(">=", 50*time.Millisecond))
		Expect(resp).To(HaveSuffix("<h1>Slept</h1>"))
		Expect(recorder.all()[0].Duration).To(BeNumerically(">=", 50*time.Millisecond))
	})

	It("should stop sleeping when the context is cancelled", func() {
		handler = connection.NewHandler(pages, models.DispatchModeAsync,
			connection.WithRecorder(recorder),
			connection.WithSleepDelay(time.Hour),
		)
		cctx, cancel := context.WithCancel(ctx)
		time.AfterFunc(50*time.Millisecond, cancel)

		resp := exchange(cctx, handler, "GET /sleep HTTP/1.1\r\n\r\n")

		Expect(resp).To(BeEmpty())
		Expect(recorder.all()).To(BeEmpty())
	})

	It("should not answer an empty request", func() {
		server, client := net.Pipe()
		done := make(chan struct{})
		go func() {
			defer close(done)
			handler.Serve(ctx, server)
		}()

		Expect(client.Close()).To(Succeed())

		Eventually(done, 2*time.Second).Should(BeClosed())
		Expect(recorder.all()).To(BeEmpty())
	})

	It("should give up on a silent client after the read timeout", func() {
		handler = connection.NewHandler(pages, models.DispatchModePool,
			connection.WithRecorder(recorder),
			connection.WithReadTimeout(50*time.Millisecond),
		)

		resp := exchange(ctx, handler, "")

		Expect(resp).To(BeEmpty())
		Expect(recorder.all()).To(BeEmpty())
	})

	// Given a client streaming a request line with no newline
	// When the handler has read the request size limit
	// Then it stops reading and answers with the truncated line
	It("should bound the bytes read for a request", func() {
		handler = connection.NewHandler(pages, models.DispatchModePool,
			connection.WithRecorder(recorder),
			connection.WithReadTimeout(time.Hour),
		)

		resp := exchange(ctx, handler, strings.Repeat("A", 64<<10))

		Expect(resp).To(HavePrefix("HTTP/1.1 404 NOT FOUND\r\n"))
		records := recorder.all()
		Expect(records).To(HaveLen(1))
		Expect(records[0].RequestLine).To(HaveLen(8 << 10))
	})

	It("should close the connection without a response when the page is missing", func() {
		handler = connection.NewHandler(fstest.MapFS{}, models.DispatchModePool, connection.WithRecorder(recorder))

		resp := exchange(ctx, handler, "GET / HTTP/1.1\r\n\r\n")

		Expect(resp).To(BeEmpty())
		Expect(recorder.all()).To(BeEmpty())
	})

	It("should run as a dispatcher job", func() {
		server, client := net.Pipe()
		job := handler.Job(server)

		go func() {
			_, _ = client.Write([]byte("GET / HTTP/1.1\r\n\r\n"))
		}()
		go job.Run(ctx)

		resp, _ := io.ReadAll(client)
		Expect(string(resp)).To(HavePrefix("HTTP/1.1 200 OK"))
	})
})
