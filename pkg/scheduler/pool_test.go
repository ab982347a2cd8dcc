package scheduler_test

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	srvErrors "github.com/shirry/webserver/pkg/errors"
	"github.com/shirry/webserver/pkg/scheduler"
)

var _ = Describe("ThreadPool", func() {
	var pool *scheduler.ThreadPool

	AfterEach(func() {
		if pool != nil {
			pool.Shutdown()
			pool = nil
		}
	})

	Describe("NewThreadPool", func() {
		// Given a positive pool size
		// When the pool is constructed
		// Then exactly that many workers exist and all of them are waiting
		DescribeTable("should start every worker in waiting state",
			func(size int) {
				var err error
				pool, err = scheduler.NewThreadPool(size)
				Expect(err).NotTo(HaveOccurred())

				Expect(pool.Size()).To(Equal(size))
				states := pool.WorkerStates()
				Expect(states).To(HaveLen(size))
				for _, s := range states {
					Expect(s).To(Equal(scheduler.WorkerStateWaiting))
				}
			},
			Entry("one worker", 1),
			Entry("two workers", 2),
			Entry("four workers", 4),
			Entry("sixteen workers", 16),
		)

		// Given a zero or negative pool size
		// When the pool is constructed
		// Then it should fail with InvalidPoolSizeError
		DescribeTable("should reject non-positive sizes",
			func(size int) {
				p, err := scheduler.NewThreadPool(size)
				Expect(p).To(BeNil())
				Expect(srvErrors.IsInvalidPoolSizeError(err)).To(BeTrue())
			},
			Entry("zero", 0),
			Entry("minus one", -1),
			Entry("large negative", -1024),
		)
	})

	Describe("Submit", func() {
		// Given K jobs incrementing a shared counter
		// When all of them are submitted and the pool is shut down
		// Then the counter equals K, whatever K is relative to the pool size
		DescribeTable("should run every submitted job before Shutdown returns",
			func(size, jobs int) {
				var err error
				pool, err = scheduler.NewThreadPool(size)
				Expect(err).NotTo(HaveOccurred())

				var counter atomic.Int64
				for range jobs {
					Expect(pool.Submit(scheduler.JobFunc(func(ctx context.Context) {
						counter.Add(1)
					}))).To(Succeed())
				}

				pool.Shutdown()
				Expect(counter.Load()).To(Equal(int64(jobs)))
			},
			Entry("fewer jobs than workers", 8, 3),
			Entry("as many jobs as workers", 4, 4),
			Entry("many more jobs than workers", 4, 1000),
			Entry("single worker", 1, 250),
		)

		It("should reject a nil job", func() {
			var err error
			pool, err = scheduler.NewThreadPool(1)
			Expect(err).NotTo(HaveOccurred())

			err = pool.Submit(nil)
			Expect(srvErrors.IsInvalidJobError(err)).To(BeTrue())
		})

		// Given two jobs submitted in sequence by the same caller
		// When both append to a shared log
		// Then the log preserves the submission order
		It("should preserve same-producer submission order", func() {
			var err error
			pool, err = scheduler.NewThreadPool(1)
			Expect(err).NotTo(HaveOccurred())

			var mu sync.Mutex
			var log []string
			appendTo := func(entry string) scheduler.Job {
				return scheduler.JobFunc(func(ctx context.Context) {
					mu.Lock()
					defer mu.Unlock()
					log = append(log, entry)
				})
			}

			Expect(pool.Submit(appendTo("first"))).To(Succeed())
			Expect(pool.Submit(appendTo("second"))).To(Succeed())
			pool.Shutdown()

			Expect(log).To(Equal([]string{"first", "second"}))
		})

		It("should keep per-producer order with concurrent producers", func() {
			var err error
			pool, err = scheduler.NewThreadPool(1)
			Expect(err).NotTo(HaveOccurred())

			const producers = 4
			const perProducer = 50

			var mu sync.Mutex
			seen := make(map[int][]int)

			var wg sync.WaitGroup
			for p := range producers {
				wg.Add(1)
				go func() {
					defer GinkgoRecover()
					defer wg.Done()
					for i := range perProducer {
						Expect(pool.Submit(scheduler.JobFunc(func(ctx context.Context) {
							mu.Lock()
							defer mu.Unlock()
							seen[p] = append(seen[p], i)
						}))).To(Succeed())
					}
				}()
			}
			wg.Wait()
			pool.Shutdown()

			for p := range producers {
				Expect(seen[p]).To(HaveLen(perProducer))
				for i, v := range seen[p] {
					Expect(v).To(Equal(i))
				}
			}
		})
	})

	Describe("Panic isolation", func() {
		// Given three jobs where the second one panics
		// When they run on the pool
		// Then the first and third jobs still run and the pool stays alive
		It("should keep running jobs after one panics", func() {
			var err error
			pool, err = scheduler.NewThreadPool(1)
			Expect(err).NotTo(HaveOccurred())

			var first, third atomic.Bool
			Expect(pool.Submit(scheduler.JobFunc(func(ctx context.Context) { first.Store(true) }))).To(Succeed())
			Expect(pool.Submit(scheduler.JobFunc(func(ctx context.Context) { panic("boom") }))).To(Succeed())
			Expect(pool.Submit(scheduler.JobFunc(func(ctx context.Context) { third.Store(true) }))).To(Succeed())

			pool.Shutdown()

			Expect(first.Load()).To(BeTrue())
			Expect(third.Load()).To(BeTrue())
			stats := pool.Stats()
			Expect(stats.Completed).To(Equal(uint64(3)))
			Expect(stats.Panicked).To(Equal(uint64(1)))
		})

		It("should report the panic to the observer", func() {
			obs := newRecordingObserver()
			var err error
			pool, err = scheduler.NewThreadPool(2, scheduler.WithObserver(obs), scheduler.WithName("web"))
			Expect(err).NotTo(HaveOccurred())

			Expect(pool.Submit(scheduler.JobFunc(func(ctx context.Context) { panic("boom") }))).To(Succeed())
			pool.Shutdown()

			Expect(obs.finishedErrs()).To(HaveLen(1))
			Expect(srvErrors.IsJobPanickedError(obs.finishedErrs()[0])).To(BeTrue())
			Expect(obs.names()).To(ConsistOf("web"))
		})
	})

	Describe("Shutdown", func() {
		// Given a pool that was shut down
		// When a job is submitted
		// Then Submit fails with PoolShutDownError and the job never runs
		It("should reject jobs submitted after shutdown", func() {
			var err error
			pool, err = scheduler.NewThreadPool(2)
			Expect(err).NotTo(HaveOccurred())
			pool.Shutdown()

			var ran atomic.Bool
			for range 5 {
				err = pool.Submit(scheduler.JobFunc(func(ctx context.Context) { ran.Store(true) }))
				Expect(srvErrors.IsPoolShutDownError(err)).To(BeTrue())
			}

			Consistently(ran.Load, 100*time.Millisecond).Should(BeFalse())
			Expect(pool.Stats().Rejected).To(Equal(uint64(5)))
		})

		It("should be idempotent", func() {
			var err error
			pool, err = scheduler.NewThreadPool(2)
			Expect(err).NotTo(HaveOccurred())

			pool.Shutdown()
			Expect(pool.Shutdown).NotTo(Panic())
		})

		It("should wait for in-flight work to finish", func() {
			var err error
			pool, err = scheduler.NewThreadPool(1)
			Expect(err).NotTo(HaveOccurred())

			started := make(chan struct{})
			unblock := make(chan struct{})
			Expect(pool.Submit(scheduler.JobFunc(func(ctx context.Context) {
				close(started)
				<-unblock
			}))).To(Succeed())
			Eventually(started, 1*time.Second).Should(BeClosed())

			closeDone := make(chan struct{})
			go func() {
				pool.Shutdown()
				close(closeDone)
			}()

			Consistently(closeDone, 200*time.Millisecond).ShouldNot(BeClosed())
			close(unblock)
			Eventually(closeDone, 1*time.Second).Should(BeClosed())
		})

		// Given a pool of 4 workers and 100 counting jobs
		// When the pool is shut down
		// Then every job ran exactly once and every worker terminated
		It("should drain 100 jobs exactly once and terminate all workers", func() {
			var err error
			pool, err = scheduler.NewThreadPool(4)
			Expect(err).NotTo(HaveOccurred())

			var runs [100]atomic.Int32
			for i := range runs {
				Expect(pool.Submit(scheduler.JobFunc(func(ctx context.Context) {
					runs[i].Add(1)
				}))).To(Succeed())
			}

			pool.Shutdown()

			for i := range runs {
				Expect(runs[i].Load()).To(Equal(int32(1)), "job %d", i)
			}
			for _, s := range pool.WorkerStates() {
				Expect(s).To(Equal(scheduler.WorkerStateTerminated))
			}
			Expect(pool.Stats().Submitted).To(Equal(uint64(100)))
			Expect(pool.Stats().Completed).To(Equal(uint64(100)))
		})

		It("should not leak goroutines after Shutdown under load", func() {
			base := runtime.NumGoroutine()

			var err error
			pool, err = scheduler.NewThreadPool(8)
			Expect(err).NotTo(HaveOccurred())

			for range 200 {
				Expect(pool.Submit(scheduler.JobFunc(func(ctx context.Context) {
					time.Sleep(time.Millisecond)
				}))).To(Succeed())
			}
			pool.Shutdown()

			Eventually(runtime.NumGoroutine, 5*time.Second, 100*time.Millisecond).Should(BeNumerically("<=", base+10))
		})
	})

	Describe("ShutdownNow", func() {
		It("should discard queued jobs and cancel running ones", func() {
			var err error
			pool, err = scheduler.NewThreadPool(1)
			Expect(err).NotTo(HaveOccurred())

			started := make(chan struct{})
			cancelled := make(chan struct{})
			Expect(pool.Submit(scheduler.JobFunc(func(ctx context.Context) {
				close(started)
				<-ctx.Done()
				close(cancelled)
			}))).To(Succeed())
			Eventually(started, 1*time.Second).Should(BeClosed())

			var queuedRan atomic.Int32
			for range 3 {
				Expect(pool.Submit(scheduler.JobFunc(func(ctx context.Context) {
					queuedRan.Add(1)
				}))).To(Succeed())
			}

			Expect(pool.ShutdownNow()).To(Equal(3))
			Expect(cancelled).To(BeClosed())
			Expect(queuedRan.Load()).To(BeZero())
			Expect(pool.Stats().Dropped).To(Equal(uint64(3)))
		})
	})

	Describe("Bounded channel", func() {
		// Given a pool with one busy worker and a full channel of capacity one
		// When another job is submitted
		// Then Submit blocks until the worker frees a slot
		It("should block Submit while the channel is full", func() {
			var err error
			pool, err = scheduler.NewThreadPool(1, scheduler.WithQueueCapacity(1))
			Expect(err).NotTo(HaveOccurred())

			started := make(chan struct{})
			unblock := make(chan struct{})
			Expect(pool.Submit(scheduler.JobFunc(func(ctx context.Context) {
				close(started)
				<-unblock
			}))).To(Succeed())
			Eventually(started, 1*time.Second).Should(BeClosed())

			noop := scheduler.JobFunc(func(ctx context.Context) {})
			Expect(pool.Submit(noop)).To(Succeed())

			submitted := make(chan error, 1)
			go func() {
				submitted <- pool.Submit(noop)
			}()

			Consistently(submitted, 200*time.Millisecond).ShouldNot(Receive())
			close(unblock)
			Eventually(submitted, 1*time.Second).Should(Receive(BeNil()))
		})

		It("should release a blocked Submit with PoolShutDownError on shutdown", func() {
			var err error
			pool, err = scheduler.NewThreadPool(1, scheduler.WithQueueCapacity(1))
			Expect(err).NotTo(HaveOccurred())

			started := make(chan struct{})
			unblock := make(chan struct{})
			Expect(pool.Submit(scheduler.JobFunc(func(ctx context.Context) {
				close(started)
				<-unblock
			}))).To(Succeed())
			Eventually(started, 1*time.Second).Should(BeClosed())
			Expect(pool.Submit(scheduler.JobFunc(func(ctx context.Context) {}))).To(Succeed())

			submitted := make(chan error, 1)
			go func() {
				submitted <- pool.Submit(scheduler.JobFunc(func(ctx context.Context) {}))
			}()
			Consistently(submitted, 100*time.Millisecond).ShouldNot(Receive())

			go pool.Shutdown()

			var submitErr error
			Eventually(submitted, 1*time.Second).Should(Receive(&submitErr))
			Expect(srvErrors.IsPoolShutDownError(submitErr)).To(BeTrue())
			close(unblock)
		})
	})
})
