package scheduler

import (
	"context"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	srvErrors "github.com/shirry/webserver/pkg/errors"
)

// ThreadPool runs jobs on a fixed set of long-lived workers that share a
// single FIFO channel.
type ThreadPool struct {
	name     string
	workers  []*worker
	ch       *channel[envelope]
	observer Observer
	log      *zap.SugaredLogger

	ctx    context.Context
	cancel context.CancelFunc

	wg           sync.WaitGroup
	once         sync.Once
	shuttingDown atomic.Bool

	nextID    atomic.Uint64
	submitted atomic.Uint64
	completed atomic.Uint64
	panicked  atomic.Uint64
	rejected  atomic.Uint64
	dropped   atomic.Uint64
	active    atomic.Int64
}

// NewThreadPool starts size workers and returns once all of them are waiting
// on the channel.
func NewThreadPool(size int, opts ...Option) (*ThreadPool, error) {
	if size <= 0 {
		return nil, srvErrors.NewInvalidPoolSizeError(size)
	}

	o := newOptions("thread_pool", opts...)
	ctx, cancel := context.WithCancel(context.Background())

	p := &ThreadPool{
		name:     o.name,
		workers:  make([]*worker, 0, size),
		ch:       newChannel[envelope](o.queueCapacity),
		observer: o.observer,
		log:      zap.S().Named("thread_pool").With("pool", o.name),
		ctx:      ctx,
		cancel:   cancel,
	}

	var ready sync.WaitGroup
	for id := range size {
		w := newWorker(id, p)
		p.workers = append(p.workers, w)
		p.wg.Add(1)
		ready.Add(1)
		go w.run(&ready)
	}
	ready.Wait()

	p.log.Infow("thread pool started", "size", size, "queue_capacity", o.queueCapacity)
	return p, nil
}

// Submit enqueues job. With a bounded channel it blocks while the channel is
// full. It fails with PoolShutDownError once shutdown has begun.
func (p *ThreadPool) Submit(job Job) error {
	if job == nil {
		return srvErrors.NewInvalidJobError()
	}
	if p.shuttingDown.Load() {
		return p.reject()
	}

	env := envelope{id: p.nextID.Add(1), job: job}
	if err := p.ch.send(env); err != nil {
		return p.reject()
	}

	p.submitted.Add(1)
	p.observer.JobSubmitted(p.name)
	return nil
}

func (p *ThreadPool) reject() error {
	p.rejected.Add(1)
	p.observer.JobRejected(p.name)
	return srvErrors.NewPoolShutDownError()
}

// Shutdown stops accepting jobs, lets the workers drain the channel and
// blocks until every worker has exited. Calling it again is a no-op that
// still waits for the first call to finish.
func (p *ThreadPool) Shutdown() {
	p.once.Do(func() {
		p.shuttingDown.Store(true)
		p.ch.close()

		for _, w := range p.workers {
			p.log.Debugw("shutting down worker", "worker", w.id)
		}
		p.wg.Wait()
		p.cancel()

		p.log.Infow("thread pool stopped",
			"completed", p.completed.Load(),
			"panicked", p.panicked.Load(),
			"dropped", p.dropped.Load(),
		)
	})
}

// ShutdownNow is the immediate-abort variant: jobs still buffered are
// discarded and running jobs see their context cancelled. It returns the
// number of discarded jobs.
func (p *ThreadPool) ShutdownNow() int {
	p.shuttingDown.Store(true)
	p.ch.close()
	n := p.ch.discard()
	p.dropped.Add(uint64(n))
	p.cancel()

	if n > 0 {
		p.log.Warnw("discarded queued jobs", "count", n)
	}

	p.Shutdown()
	return n
}

func (p *ThreadPool) Name() string {
	return p.name
}

func (p *ThreadPool) Size() int {
	return len(p.workers)
}

func (p *ThreadPool) WorkerStates() []WorkerState {
	states := make([]WorkerState, 0, len(p.workers))
	for _, w := range p.workers {
		states = append(states, w.State())
	}
	return states
}

func (p *ThreadPool) Stats() Stats {
	return Stats{
		Submitted: p.submitted.Load(),
		Completed: p.completed.Load(),
		Panicked:  p.panicked.Load(),
		Rejected:  p.rejected.Load(),
		Dropped:   p.dropped.Load(),
		Queued:    p.ch.len(),
		Active:    int(p.active.Load()),
	}
}

var (
	_ Dispatcher = (*ThreadPool)(nil)
	_ Observable = (*ThreadPool)(nil)
)
