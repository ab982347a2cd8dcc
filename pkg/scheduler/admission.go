package scheduler

import (
	"context"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// AdmissionLimiter caps the number of jobs in flight on the wrapped
// dispatcher. Submit blocks while the ceiling is reached.
type AdmissionLimiter struct {
	inner    Dispatcher
	sem      *semaphore.Weighted
	limit    int64
	inFlight atomic.Int64
}

func NewAdmissionLimiter(inner Dispatcher, maxInFlight int64) (*AdmissionLimiter, error) {
	if maxInFlight <= 0 {
		return nil, fmt.Errorf("max in-flight jobs must be positive, got %d", maxInFlight)
	}
	return &AdmissionLimiter{
		inner: inner,
		sem:   semaphore.NewWeighted(maxInFlight),
		limit: maxInFlight,
	}, nil
}

func (a *AdmissionLimiter) Submit(job Job) error {
	return a.SubmitContext(context.Background(), job)
}

// SubmitContext waits for a free slot until ctx is done. The slot is released
// when the job returns, including by panic.
func (a *AdmissionLimiter) SubmitContext(ctx context.Context, job Job) error {
	if job == nil {
		return a.inner.Submit(nil)
	}
	if err := a.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	a.inFlight.Add(1)

	wrapped := JobFunc(func(ctx context.Context) {
		defer a.release()
		job.Run(ctx)
	})

	if err := a.inner.Submit(wrapped); err != nil {
		a.release()
		return err
	}
	return nil
}

func (a *AdmissionLimiter) release() {
	a.inFlight.Add(-1)
	a.sem.Release(1)
}

func (a *AdmissionLimiter) Shutdown() {
	a.inner.Shutdown()
}

func (a *AdmissionLimiter) Limit() int64 {
	return a.limit
}

func (a *AdmissionLimiter) InFlight() int64 {
	return a.inFlight.Load()
}

func (a *AdmissionLimiter) Name() string {
	if o, ok := a.inner.(Observable); ok {
		return o.Name()
	}
	return "admission_limiter"
}

func (a *AdmissionLimiter) Stats() Stats {
	if o, ok := a.inner.(Observable); ok {
		return o.Stats()
	}
	return Stats{Active: int(a.inFlight.Load())}
}

var (
	_ Dispatcher = (*AdmissionLimiter)(nil)
	_ Observable = (*AdmissionLimiter)(nil)
)
