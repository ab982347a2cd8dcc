package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/shirry/webserver/pkg/scheduler"
)

// JobFactory turns an accepted connection into a job that owns it.
type JobFactory interface {
	Job(conn net.Conn) scheduler.Job
}

// Server accepts connections and hands each one to the dispatcher.
type Server struct {
	listener       net.Listener
	dispatcher     scheduler.Dispatcher
	jobs           JobFactory
	maxConnections int
	log            *zap.SugaredLogger

	accepted atomic.Uint64
	rejected atomic.Uint64
	once     sync.Once
}

type Option func(*Server)

// WithMaxConnections makes Run return after n accepted connections. Zero
// means no limit.
func WithMaxConnections(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxConnections = n
		}
	}
}

// NewServer takes ownership of the listener and the dispatcher: both are
// closed when Run returns.
func NewServer(ln net.Listener, d scheduler.Dispatcher, jobs JobFactory, opts ...Option) *Server {
	s := &Server{
		listener:   ln,
		dispatcher: d,
		jobs:       jobs,
		log:        zap.S().Named("server"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// Run accepts connections until ctx is cancelled, the connection limit is
// reached or the listener fails. Before returning it stops the listener and
// drains the dispatcher.
func (s *Server) Run(ctx context.Context) error {
	defer s.shutdown()

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			_ = s.listener.Close()
		case <-stop:
		}
	}()

	s.log.Infow("accepting connections", "address", s.listener.Addr().String(), "max_connections", s.maxConnections)

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("accept failed: %w", err)
		}

		n := s.accepted.Add(1)
		if err := s.dispatcher.Submit(s.jobs.Job(conn)); err != nil {
			s.rejected.Add(1)
			s.log.Warnw("connection rejected", "remote", conn.RemoteAddr().String(), "error", err)
			_ = conn.Close()
		}

		if s.maxConnections > 0 && n >= uint64(s.maxConnections) {
			s.log.Infow("connection limit reached", "accepted", n)
			return nil
		}
	}
}

func (s *Server) shutdown() {
	s.once.Do(func() {
		s.log.Info("shutting down")
		_ = s.listener.Close()
		s.dispatcher.Shutdown()
		s.log.Infow("server stopped", "accepted", s.accepted.Load(), "rejected", s.rejected.Load())
	})
}

func (s *Server) Accepted() uint64 {
	return s.accepted.Load()
}

func (s *Server) Rejected() uint64 {
	return s.rejected.Load()
}
