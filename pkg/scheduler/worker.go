package scheduler

import (
	"context"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	srvErrors "github.com/shirry/webserver/pkg/errors"
)

// invoke runs the job behind a recover boundary so a panicking job turns into
// an error instead of unwinding the executor.
func invoke(ctx context.Context, env envelope, executor int) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = srvErrors.NewJobPanickedError(env.id, executor, rec, debug.Stack())
		}
	}()

	env.job.Run(ctx)
	return nil
}

type worker struct {
	id    int
	state atomic.Int32
	pool  *ThreadPool
}

func newWorker(id int, pool *ThreadPool) *worker {
	w := &worker{id: id, pool: pool}
	w.state.Store(int32(WorkerStateWaiting))
	return w
}

func (w *worker) State() WorkerState {
	return WorkerState(w.state.Load())
}

func (w *worker) run(ready *sync.WaitGroup) {
	defer w.pool.wg.Done()

	log := w.pool.log.With("worker", w.id)
	log.Debug("worker waiting for jobs")
	ready.Done()

	for {
		env, ok := w.pool.ch.receive()
		if !ok {
			if !w.pool.shuttingDown.Load() {
				// the channel is only ever closed by Shutdown
				panic("scheduler: job channel closed outside of shutdown")
			}
			w.state.Store(int32(WorkerStateTerminated))
			log.Debug("channel closed and drained; worker terminated")
			return
		}

		w.state.Store(int32(WorkerStateExecuting))
		w.execute(log, env)
		w.state.Store(int32(WorkerStateWaiting))
	}
}

func (w *worker) execute(log *zap.SugaredLogger, env envelope) {
	p := w.pool

	p.active.Add(1)
	p.observer.JobStarted(p.name)
	log.Debugw("worker got a job; executing", "job", env.id)

	start := time.Now()
	err := invoke(p.ctx, env, w.id)
	elapsed := time.Since(start)

	p.active.Add(-1)
	p.completed.Add(1)
	if err != nil {
		p.panicked.Add(1)
		logPanic(log, err)
	}
	p.observer.JobFinished(p.name, elapsed, err)
}

func logPanic(log *zap.SugaredLogger, err error) {
	fields := []any{"error", err}
	if pe, ok := err.(*srvErrors.JobPanickedError); ok {
		fields = append(fields, "job", pe.JobID, "stack", string(pe.Stack))
	}
	log.Errorw("job panicked", fields...)
}
