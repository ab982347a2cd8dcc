package services

import (
	"github.com/shirry/webserver/internal/models"
	"github.com/shirry/webserver/pkg/scheduler"
)

// DispatcherService reports on the dispatcher serving TCP connections.
type DispatcherService struct {
	mode        models.DispatchMode
	workers     int
	maxInFlight int
	source      scheduler.Observable
}

// NewDispatcherService takes the configured shape of the dispatcher and the
// running instance to read counters from.
func NewDispatcherService(mode models.DispatchMode, workers, maxInFlight int, source scheduler.Observable) *DispatcherService {
	if mode == models.DispatchModeAsync {
		workers = 0
	}
	return &DispatcherService{
		mode:        mode,
		workers:     workers,
		maxInFlight: maxInFlight,
		source:      source,
	}
}

func (s *DispatcherService) Status() models.DispatcherStatus {
	stats := s.source.Stats()
	return models.DispatcherStatus{
		Mode:        s.mode,
		Name:        s.source.Name(),
		Workers:     s.workers,
		MaxInFlight: s.maxInFlight,
		Submitted:   stats.Submitted,
		Completed:   stats.Completed,
		Panicked:    stats.Panicked,
		Rejected:    stats.Rejected,
		Dropped:     stats.Dropped,
		Queued:      stats.Queued,
		Active:      stats.Active,
	}
}
