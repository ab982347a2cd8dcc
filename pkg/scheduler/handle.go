package scheduler

import (
	"context"
)

// Handle is the completion handle of a supervised task. Dropping it does not
// cancel the task.
type Handle struct {
	id     uint64
	done   chan struct{}
	err    error
	cancel context.CancelFunc
}

func newHandle(id uint64, cancel context.CancelFunc) *Handle {
	return &Handle{
		id:     id,
		done:   make(chan struct{}),
		cancel: cancel,
	}
}

func (h *Handle) ID() uint64 {
	return h.id
}

// Done is closed when the task has finished, normally or by panicking.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Err returns the task failure once Done is closed, nil before.
func (h *Handle) Err() error {
	select {
	case <-h.done:
		return h.err
	default:
		return nil
	}
}

// Wait blocks until the task finishes or ctx is done.
func (h *Handle) Wait(ctx context.Context) error {
	select {
	case <-h.done:
		return h.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop cancels the context handed to the job. The job only notices if it
// checks its context.
func (h *Handle) Stop() {
	h.cancel()
}

func (h *Handle) complete(err error) {
	h.err = err
	close(h.done)
}
