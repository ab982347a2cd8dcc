package store

const (
	requestsTable = "requests"

	colSeq         = "seq"
	colID          = "id"
	colRemoteAddr  = "remote_addr"
	colRequestLine = "request_line"
	colMethod      = "method"
	colPath        = "path"
	colStatus      = "status"
	colBytes       = "bytes"
	colDurationUs  = "duration_us"
	colMode        = "mode"
	colCreatedAt   = "created_at"
)

var requestColumns = []string{
	colID,
	colRemoteAddr,
	colRequestLine,
	colMethod,
	colPath,
	colStatus,
	colBytes,
	colDurationUs,
	colMode,
	colCreatedAt,
}
