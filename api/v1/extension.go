package v1

import (
	"github.com/shirry/webserver/internal/models"
)

func NewDispatcherStatusFromModel(m models.DispatcherStatus) DispatcherStatus {
	return DispatcherStatus{
		Mode:        string(m.Mode),
		Name:        m.Name,
		Workers:     m.Workers,
		MaxInFlight: m.MaxInFlight,
		Submitted:   m.Submitted,
		Completed:   m.Completed,
		Panicked:    m.Panicked,
		Rejected:    m.Rejected,
		Dropped:     m.Dropped,
		Queued:      m.Queued,
		Active:      m.Active,
	}
}

// NewRequestFromModel converts a models.RequestRecord to an API Request.
func NewRequestFromModel(r models.RequestRecord) Request {
	return Request{
		Id:          r.ID,
		RemoteAddr:  r.RemoteAddr,
		RequestLine: r.RequestLine,
		Method:      r.Method,
		Path:        r.Path,
		Status:      r.Status,
		Bytes:       r.Bytes,
		DurationMs:  float64(r.Duration.Microseconds()) / 1000,
		Mode:        string(r.Mode),
		CreatedAt:   r.CreatedAt,
	}
}

// ParseModes drops values that are not a known dispatch mode.
func ParseModes(values []string) []models.DispatchMode {
	var modes []models.DispatchMode
	for _, v := range values {
		if m, err := models.ParseDispatchMode(v); err == nil {
			modes = append(modes, m)
		}
	}
	return modes
}
