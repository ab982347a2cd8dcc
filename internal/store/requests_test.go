package store_test

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/shirry/webserver/internal/models"
	"github.com/shirry/webserver/internal/store"
)

func newRecord(id, path string, status int) models.RequestRecord {
	return models.RequestRecord{
		ID:          id,
		RemoteAddr:  "127.0.0.1:40000",
		RequestLine: fmt.Sprintf("GET %s HTTP/1.1", path),
		Method:      "GET",
		Path:        path,
		Status:      status,
		Bytes:       128,
		Duration:    1500 * time.Microsecond,
		Mode:        models.DispatchModePool,
	}
}

var _ = Describe("RequestStore", func() {
	var (
		ctx context.Context
		s   *store.Store
		db  *sql.DB
	)

	BeforeEach(func() {
		ctx = context.Background()

		var err error
		db, err = store.NewDB(":memory:")
		Expect(err).NotTo(HaveOccurred())

		s = store.NewStore(db)
		Expect(s.Migrate(ctx)).To(Succeed())
	})

	AfterEach(func() {
		if s != nil {
			s.Close()
		}
	})

	Context("List", func() {
		// Given an empty request log
		// When we list requests
		// Then it should return no records
		It("should return nothing for an empty log", func() {
			records, err := s.Requests().List(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(BeEmpty())
		})

		// Given records saved one after another
		// When we list them
		// Then they come back in insertion order with every field preserved
		It("should return records in insertion order", func() {
			// Arrange
			Expect(s.Requests().Save(ctx, newRecord("r1", "/", 200))).To(Succeed())
			Expect(s.Requests().Save(ctx, newRecord("r2", "/sleep", 200))).To(Succeed())
			Expect(s.Requests().Save(ctx, newRecord("r3", "/missing", 404))).To(Succeed())

			// Act
			records, err := s.Requests().List(ctx)

			// Assert
			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(HaveLen(3))
			Expect(records[0].ID).To(Equal("r1"))
			Expect(records[1].ID).To(Equal("r2"))
			Expect(records[2].ID).To(Equal("r3"))
			Expect(records[2].Status).To(Equal(404))
			Expect(records[0].Duration).To(Equal(1500 * time.Microsecond))
			Expect(records[0].Mode).To(Equal(models.DispatchModePool))
			Expect(records[0].CreatedAt).NotTo(BeZero())
		})

		It("should filter by status and path", func() {
			Expect(s.Requests().Save(ctx, newRecord("r1", "/", 200))).To(Succeed())
			Expect(s.Requests().Save(ctx, newRecord("r2", "/sleep", 200))).To(Succeed())
			Expect(s.Requests().Save(ctx, newRecord("r3", "/missing", 404))).To(Succeed())

			notFound, err := s.Requests().List(ctx, store.ByStatus(404))
			Expect(err).NotTo(HaveOccurred())
			Expect(notFound).To(HaveLen(1))
			Expect(notFound[0].ID).To(Equal("r3"))

			sleep, err := s.Requests().List(ctx, store.ByPath("/sleep"), store.ByStatus(200))
			Expect(err).NotTo(HaveOccurred())
			Expect(sleep).To(HaveLen(1))
			Expect(sleep[0].ID).To(Equal("r2"))
		})

		It("should filter by dispatch mode", func() {
			rec := newRecord("r1", "/", 200)
			rec.Mode = models.DispatchModeAsync
			Expect(s.Requests().Save(ctx, rec)).To(Succeed())
			Expect(s.Requests().Save(ctx, newRecord("r2", "/", 200))).To(Succeed())

			records, err := s.Requests().List(ctx, store.ByMode(models.DispatchModeAsync))
			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(HaveLen(1))
			Expect(records[0].ID).To(Equal("r1"))
		})

		It("should paginate", func() {
			for i := range 5 {
				Expect(s.Requests().Save(ctx, newRecord(fmt.Sprintf("r%d", i), "/", 200))).To(Succeed())
			}

			page, err := s.Requests().List(ctx, store.WithLimit(2), store.WithOffset(2))
			Expect(err).NotTo(HaveOccurred())
			Expect(page).To(HaveLen(2))
			Expect(page[0].ID).To(Equal("r2"))
			Expect(page[1].ID).To(Equal("r3"))
		})
	})

	Context("Count", func() {
		It("should count with and without filters", func() {
			Expect(s.Requests().Save(ctx, newRecord("r1", "/", 200))).To(Succeed())
			Expect(s.Requests().Save(ctx, newRecord("r2", "/nope", 404))).To(Succeed())

			total, err := s.Requests().Count(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(2))

			notFound, err := s.Requests().Count(ctx, store.ByStatus(404))
			Expect(err).NotTo(HaveOccurred())
			Expect(notFound).To(Equal(1))
		})
	})

	Context("Concurrent writes", func() {
		// Given multiple goroutines appending to the request log
		// When all goroutines save records simultaneously
		// Then every write succeeds and every record is present
		It("should handle concurrent writes from multiple goroutines", func() {
			const numGoroutines = 50
			var wg sync.WaitGroup
			errors := make(chan error, numGoroutines)

			for i := 0; i < numGoroutines; i++ {
				wg.Add(1)
				go func(idx int) {
					defer wg.Done()
					if err := s.Requests().Save(ctx, newRecord(fmt.Sprintf("r%d", idx), "/", 200)); err != nil {
						errors <- fmt.Errorf("goroutine %d: %w", idx, err)
					}
				}(i)
			}

			wg.Wait()
			close(errors)

			var errs []error
			for err := range errors {
				errs = append(errs, err)
			}
			Expect(errs).To(BeEmpty(), "Expected no errors from concurrent writes, got: %v", errs)

			total, err := s.Requests().Count(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(numGoroutines))
		})
	})
})
