package connection

import (
	"context"

	"go.uber.org/zap"

	"github.com/shirry/webserver/internal/models"
	"github.com/shirry/webserver/internal/store"
)

// Recorder receives one record per answered request.
type Recorder interface {
	Record(ctx context.Context, r models.RequestRecord)
}

type NopRecorder struct{}

func (NopRecorder) Record(context.Context, models.RequestRecord) {}

// StoreRecorder appends records to the request log. Failures are logged.
type StoreRecorder struct {
	requests *store.RequestStore
	log      *zap.SugaredLogger
}

func NewStoreRecorder(requests *store.RequestStore) *StoreRecorder {
	return &StoreRecorder{
		requests: requests,
		log:      zap.S().Named("recorder"),
	}
}

func (s *StoreRecorder) Record(ctx context.Context, r models.RequestRecord) {
	// the job context may already be cancelled by an immediate shutdown
	if err := s.requests.Save(context.WithoutCancel(ctx), r); err != nil {
		s.log.Errorw("failed to record request", "id", r.ID, "error", err)
	}
}
