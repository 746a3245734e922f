package pipeline

// Status tracks a task through the per-package state machine:
//
//	PENDING → FETCHING → {FETCH_FAILED | FETCHED} → {STATS_FAILED | REPORTED}
//
// All failure states are terminal; there are no retries.
type Status int

const (
	StatusPending Status = iota
	StatusFetching
	StatusFetchFailed
	StatusFetched
	StatusStatsFailed
	StatusReported
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "PENDING"
	case StatusFetching:
		return "FETCHING"
	case StatusFetchFailed:
		return "FETCH_FAILED"
	case StatusFetched:
		return "FETCHED"
	case StatusStatsFailed:
		return "STATS_FAILED"
	case StatusReported:
		return "REPORTED"
	default:
		return "UNKNOWN"
	}
}

// Terminal reports whether the task is finished.
func (s Status) Terminal() bool {
	return s == StatusFetchFailed || s == StatusStatsFailed || s == StatusReported
}

// Failed reports whether the task ended in a failure state.
func (s Status) Failed() bool {
	return s == StatusFetchFailed || s == StatusStatsFailed
}
