package scheduler

import (
	"context"
	"time"
)

// Job is a single-invocation unit of work. It owns whatever state it captured
// and is run exactly once by exactly one executor.
type Job interface {
	Run(ctx context.Context)
}

// JobFunc adapts an ordinary function to the Job interface.
type JobFunc func(ctx context.Context)

func (f JobFunc) Run(ctx context.Context) {
	f(ctx)
}

// Dispatcher is the contract shared by both execution models.
type Dispatcher interface {
	Submit(job Job) error
	Shutdown()
}

// Observable is implemented by dispatchers that expose runtime counters.
type Observable interface {
	Name() string
	Stats() Stats
}

type Stats struct {
	Submitted uint64
	Completed uint64
	Panicked  uint64
	Rejected  uint64
	Dropped   uint64
	Queued    int
	Active    int
}

type WorkerState int32

const (
	WorkerStateWaiting WorkerState = iota
	WorkerStateExecuting
	WorkerStateTerminated
)

func (s WorkerState) String() string {
	switch s {
	case WorkerStateWaiting:
		return "waiting"
	case WorkerStateExecuting:
		return "executing"
	case WorkerStateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// Observer receives job lifecycle events. Implementations must be safe for
// concurrent use and must not block.
type Observer interface {
	JobSubmitted(dispatcher string)
	JobRejected(dispatcher string)
	JobStarted(dispatcher string)
	JobFinished(dispatcher string, elapsed time.Duration, err error)
}

type noopObserver struct{}

func (noopObserver) JobSubmitted(string)                      {}
func (noopObserver) JobRejected(string)                       {}
func (noopObserver) JobStarted(string)                        {}
func (noopObserver) JobFinished(string, time.Duration, error) {}

// envelope is what travels through the channel: the job plus the id used in
// diagnostics.
type envelope struct {
	id  uint64
	job Job
}
