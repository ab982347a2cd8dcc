package models

import (
	"time"
)

// RequestRecord is one handled connection as stored in the request log.
type RequestRecord struct {
	ID          string
	RemoteAddr  string
	RequestLine string
	Method      string
	Path        string
	Status      int
	Bytes       int
	Duration    time.Duration
	Mode        DispatchMode
	CreatedAt   time.Time
}
