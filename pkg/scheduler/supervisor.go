package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	srvErrors "github.com/shirry/webserver/pkg/errors"
)

// supervisedExecutor is the executor id reported for task panics.
const supervisedExecutor = -1

// maxRetainedFailures bounds the failures kept for the next Wait. Older
// failures are dropped first.
const maxRetainedFailures = 64

// TaskSupervisor spawns one goroutine per submitted job and keeps the set of
// outstanding handles so they can be awaited. Concurrency is unbounded; put
// an AdmissionLimiter in front of it to cap in-flight jobs.
type TaskSupervisor struct {
	name     string
	observer Observer
	log      *zap.SugaredLogger

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	closed   bool
	pending  map[uint64]*Handle
	failures []error
	dropped  uint64

	wg   sync.WaitGroup
	once sync.Once

	nextID    atomic.Uint64
	submitted atomic.Uint64
	completed atomic.Uint64
	panicked  atomic.Uint64
	rejected  atomic.Uint64
}

func NewTaskSupervisor(opts ...Option) *TaskSupervisor {
	o := newOptions("task_supervisor", opts...)
	ctx, cancel := context.WithCancel(context.Background())

	s := &TaskSupervisor{
		name:     o.name,
		observer: o.observer,
		log:      zap.S().Named("task_supervisor").With("supervisor", o.name),
		ctx:      ctx,
		cancel:   cancel,
		pending:  make(map[uint64]*Handle),
	}
	s.log.Info("task supervisor started")
	return s
}

// Submit spawns a task running job and returns its handle. It never blocks.
func (s *TaskSupervisor) Submit(job Job) (*Handle, error) {
	if job == nil {
		return nil, srvErrors.NewInvalidJobError()
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		s.rejected.Add(1)
		s.observer.JobRejected(s.name)
		return nil, srvErrors.NewSupervisorShutDownError()
	}

	env := envelope{id: s.nextID.Add(1), job: job}
	ctx, cancel := context.WithCancel(s.ctx)
	h := newHandle(env.id, cancel)
	s.pending[env.id] = h
	s.wg.Add(1)
	s.mu.Unlock()

	s.submitted.Add(1)
	s.observer.JobSubmitted(s.name)

	go s.run(ctx, env, h)
	return h, nil
}

func (s *TaskSupervisor) run(ctx context.Context, env envelope, h *Handle) {
	defer s.wg.Done()

	s.observer.JobStarted(s.name)
	start := time.Now()
	err := invoke(ctx, env, supervisedExecutor)
	elapsed := time.Since(start)
	h.cancel()

	s.completed.Add(1)
	if err != nil {
		s.panicked.Add(1)
		logPanic(s.log, err)
	}

	s.mu.Lock()
	delete(s.pending, h.id)
	if err != nil {
		s.retainFailure(err)
	}
	s.mu.Unlock()

	h.complete(err)
	s.observer.JobFinished(s.name, elapsed, err)
}

// retainFailure must be called with s.mu held.
func (s *TaskSupervisor) retainFailure(err error) {
	if len(s.failures) == maxRetainedFailures {
		copy(s.failures, s.failures[1:])
		s.failures = s.failures[:len(s.failures)-1]
		s.dropped++
	}
	s.failures = append(s.failures, err)
}

// Wait is a fan-in barrier over every task outstanding at the time of the
// call. It returns, joined, the failures of tasks that finished since the
// previous Wait. At most maxRetainedFailures are kept between calls, the
// newest ones; the rest are only logged and counted in Stats. Callers that
// never Wait, such as users of AsDispatcher, hold at most that many until
// Shutdown discards them.
func (s *TaskSupervisor) Wait(ctx context.Context) error {
	s.mu.Lock()
	handles := make([]*Handle, 0, len(s.pending))
	for _, h := range s.pending {
		handles = append(handles, h)
	}
	s.mu.Unlock()

	for _, h := range handles {
		select {
		case <-h.Done():
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	s.mu.Lock()
	failures, dropped := s.failures, s.dropped
	s.failures, s.dropped = nil, 0
	s.mu.Unlock()

	if dropped > 0 {
		failures = append(failures, fmt.Errorf("%d earlier task failures dropped", dropped))
	}
	return errors.Join(failures...)
}

// Shutdown stops accepting jobs and blocks until every task has finished.
// Running tasks are not cancelled. Failures not yet collected by Wait are
// discarded.
func (s *TaskSupervisor) Shutdown() {
	s.once.Do(func() {
		s.mu.Lock()
		s.closed = true
		inFlight := len(s.pending)
		s.mu.Unlock()

		s.log.Infow("draining tasks", "in_flight", inFlight)
		s.wg.Wait()
		s.cancel()

		s.mu.Lock()
		s.failures, s.dropped = nil, 0
		s.mu.Unlock()

		s.log.Infow("task supervisor stopped",
			"completed", s.completed.Load(),
			"panicked", s.panicked.Load(),
		)
	})
}

// ShutdownNow cancels the context of every running task before waiting.
func (s *TaskSupervisor) ShutdownNow() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	s.cancel()
	s.Shutdown()
}

func (s *TaskSupervisor) Name() string {
	return s.name
}

func (s *TaskSupervisor) Stats() Stats {
	s.mu.Lock()
	active := len(s.pending)
	s.mu.Unlock()

	return Stats{
		Submitted: s.submitted.Load(),
		Completed: s.completed.Load(),
		Panicked:  s.panicked.Load(),
		Rejected:  s.rejected.Load(),
		Active:    active,
	}
}

var _ Observable = (*TaskSupervisor)(nil)
