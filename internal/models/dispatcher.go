package models

import "fmt"

type DispatchMode string

const (
	DispatchModePool  DispatchMode = "pool"
	DispatchModeAsync DispatchMode = "async"
)

func ParseDispatchMode(s string) (DispatchMode, error) {
	switch s {
	case "pool":
		return DispatchModePool, nil
	case "async":
		return DispatchModeAsync, nil
	default:
		return "", fmt.Errorf("invalid dispatch mode: %s", s)
	}
}

// DispatcherStatus is a point-in-time view of the running dispatcher.
type DispatcherStatus struct {
	Mode        DispatchMode
	Name        string
	Workers     int // 0 in async mode
	MaxInFlight int // 0 means unbounded
	Submitted   uint64
	Completed   uint64
	Panicked    uint64
	Rejected    uint64
	Dropped     uint64
	Queued      int
	Active      int
}
