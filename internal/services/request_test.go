package services_test

import (
	"context"
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/shirry/webserver/internal/models"
	"github.com/shirry/webserver/internal/services"
	"github.com/shirry/webserver/internal/store"
)

var _ = Describe("RequestService", func() {
	var (
		ctx context.Context
		st  *store.Store
		svc *services.RequestService
	)

	BeforeEach(func() {
		ctx = context.Background()

		db, err := store.NewDB(":memory:")
		Expect(err).NotTo(HaveOccurred())
		st = store.NewStore(db)
		Expect(st.Migrate(ctx)).To(Succeed())

		for i := range 5 {
			status := 200
			if i%2 == 1 {
				status = 404
			}
			Expect(st.Requests().Save(ctx, models.RequestRecord{
				ID:     fmt.Sprintf("r%d", i),
				Path:   fmt.Sprintf("/p%d", i),
				Status: status,
				Mode:   models.DispatchModePool,
			})).To(Succeed())
		}

		svc = services.NewRequestService(st)
	})

	AfterEach(func() {
		st.Close()
	})

	It("should list every request when no filter is given", func() {
		result, err := svc.List(ctx, services.RequestListParams{})
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Requests).To(HaveLen(5))
		Expect(result.Total).To(Equal(5))
	})

	// Given five records, two of them 404s
	// When we ask for the second page of 404s with a page size of one
	// Then we get the later 404 and a total of two
	It("should filter and paginate while counting all matches", func() {
		result, err := svc.List(ctx, services.RequestListParams{
			Statuses: []int{404},
			Limit:    1,
			Offset:   1,
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Requests).To(HaveLen(1))
		Expect(result.Requests[0].ID).To(Equal("r3"))
		Expect(result.Total).To(Equal(2))
	})

	It("should filter by path and mode", func() {
		result, err := svc.List(ctx, services.RequestListParams{
			Paths: []string{"/p0", "/p4"},
			Modes: []models.DispatchMode{models.DispatchModePool},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Total).To(Equal(2))

		result, err = svc.List(ctx, services.RequestListParams{
			Modes: []models.DispatchMode{models.DispatchModeAsync},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Requests).To(BeEmpty())
		Expect(result.Total).To(BeZero())
	})
})
