// Package scheduler implements the job-dispatch engine of the web server.
//
// Two interchangeable execution models satisfy the same Dispatcher contract
// (Submit a job, Shutdown and wait for the drain):
//
//   - ThreadPool: a fixed set of N long-lived workers pulling from one shared
//     FIFO channel. N is a hard concurrency ceiling.
//   - TaskSupervisor: one goroutine per job, tracked through a Handle.
//     Concurrency is unbounded unless an AdmissionLimiter is layered on top.
//
// # Architecture Overview
//
//	┌─────────────────────────────────────────────────────────────────────┐
//	│                           ThreadPool                                │
//	│                                                                     │
//	│                        Submit(job)                                  │
//	│                               │                                     │
//	│                               ▼                                     │
//	│  ┌─────────────────────────────────────────────────────────┐        │
//	│  │                  Channel (FIFO, mutex + cond)           │        │
//	│  │  [job1] [job2] [job3] ...                               │        │
//	│  └────────────────────────────┬────────────────────────────┘        │
//	│                               │  receive()                          │
//	│         ┌─────────────────────┼─────────────────────┐               │
//	│         ▼                     ▼                     ▼               │
//	│  ┌──────────────┐      ┌──────────────┐      ┌──────────────┐       │
//	│  │   Worker 0   │      │   Worker 1   │      │  Worker N-1  │       │
//	│  └──────────────┘      └──────────────┘      └──────────────┘       │
//	└─────────────────────────────────────────────────────────────────────┘
//
//	┌─────────────────────────────────────────────────────────────────────┐
//	│                         TaskSupervisor                              │
//	│                                                                     │
//	│     Submit(job) ──► go run(job) ──► Handle{Done, Wait, Err, Stop}   │
//	│                                                                     │
//	│     pending: map[id]*Handle      Wait(ctx): fan-in over pending     │
//	└─────────────────────────────────────────────────────────────────────┘
//
// # Channel
//
// The channel is the only structure shared between producers and workers:
//
//   - FIFO for jobs submitted by the same producer; no ordering between
//     concurrent producers.
//   - Unbounded by default. WithQueueCapacity bounds it, in which case Submit
//     blocks while it is full (backpressure).
//   - Closing is one-way. After close, Submit fails with PoolShutDownError,
//     but every job buffered before the close is still delivered.
//
// # Worker Lifecycle
//
//	┌───────────┐   job received    ┌───────────┐
//	│  Waiting  │ ────────────────► │ Executing │
//	│           │ ◄──────────────── │           │
//	└─────┬─────┘  job done/panic   └───────────┘
//	      │
//	      │ channel closed and empty
//	      ▼
//	┌────────────┐
//	│ Terminated │
//	└────────────┘
//
// Workers are assigned from whichever idle worker wins the receive. There
// are no per-worker queues.
//
// # Panic Recovery
//
// Both models run a job behind the same recover boundary:
//
//	defer func() {
//	    if rec := recover(); rec != nil {
//	        err = errors.NewJobPanickedError(id, executor, rec, debug.Stack())
//	    }
//	}()
//
// In the pool the error is logged and the worker returns to Waiting. In the
// supervisor it is also stored on the Handle and collected by Wait. A panic
// never reaches the dispatcher or sibling jobs.
//
// # Cancellation
//
// There is no per-job timeout. Each job receives a context:
//
//   - ThreadPool: cancelled by ShutdownNow.
//   - TaskSupervisor: cancelled by Handle.Stop or ShutdownNow.
//
// Cancellation is cooperative. A job that never checks its context keeps
// running.
//
// # Graceful Shutdown
//
// Shutdown performs a graceful drain in both models:
//
//  1. Stop accepting jobs (Submit now fails deterministically)
//  2. Let every accepted job run to completion
//  3. Wait for all workers or tasks to exit
//
// Shutdown is idempotent (sync.Once). ShutdownNow is the explicit abort:
// buffered jobs are discarded and running jobs see their context cancelled.
//
// # Usage Example
//
//	pool, err := scheduler.NewThreadPool(4)
//	if err != nil {
//	    return err
//	}
//	defer pool.Shutdown()
//
//	if err := pool.Submit(scheduler.JobFunc(func(ctx context.Context) {
//	    handleConnection(ctx, conn)
//	})); err != nil {
//	    conn.Close()
//	}
//
// Async model with an admission ceiling:
//
//	sup := scheduler.NewTaskSupervisor()
//	limited, _ := scheduler.NewAdmissionLimiter(scheduler.AsDispatcher(sup), 64)
//	_ = limited.Submit(job)
//	limited.Shutdown()
package scheduler
