package v1

import "time"

// DispatcherStatus is the body of GET /dispatcher.
type DispatcherStatus struct {
	Mode        string `json:"mode"`
	Name        string `json:"name"`
	Workers     int    `json:"workers,omitempty"`
	MaxInFlight int    `json:"maxInFlight,omitempty"`
	Submitted   uint64 `json:"submitted"`
	Completed   uint64 `json:"completed"`
	Panicked    uint64 `json:"panicked"`
	Rejected    uint64 `json:"rejected"`
	Dropped     uint64 `json:"dropped"`
	Queued      int    `json:"queued"`
	Active      int    `json:"active"`
}

// Request is one entry of the request log.
type Request struct {
	Id          string    `json:"id"`
	RemoteAddr  string    `json:"remoteAddr"`
	RequestLine string    `json:"requestLine"`
	Method      string    `json:"method"`
	Path        string    `json:"path"`
	Status      int       `json:"status"`
	Bytes       int       `json:"bytes"`
	DurationMs  float64   `json:"durationMs"`
	Mode        string    `json:"mode"`
	CreatedAt   time.Time `json:"createdAt"`
}

// RequestListResponse is the body of GET /requests.
type RequestListResponse struct {
	Page      int       `json:"page"`
	PageCount int       `json:"pageCount"`
	Total     int       `json:"total"`
	Requests  []Request `json:"requests"`
}

// ListRequestsParams are the query parameters of GET /requests.
type ListRequestsParams struct {
	Status   []int    `form:"status" json:"status,omitempty"`
	Path     []string `form:"path" json:"path,omitempty"`
	Mode     []string `form:"mode" json:"mode,omitempty"`
	Page     *int     `form:"page" json:"page,omitempty"`
	PageSize *int     `form:"pageSize" json:"pageSize,omitempty"`
}

type Error struct {
	Error string `json:"error"`
}
