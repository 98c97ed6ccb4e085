package index

// State is the lifecycle state of a find session.
type State int

const (
	// Idle means no search has run since the session opened or was reset.
	Idle State = iota

	// SearchActive means the results reflect the current search criteria.
	SearchActive

	// Dirty means the criteria changed after the last search; results and
	// offsets are stale until the search runs again.
	Dirty
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case SearchActive:
		return "active"
	case Dirty:
		return "dirty"
	default:
		return "unknown"
	}
}

// Transition records a state change.
type Transition struct {
	From State
	To   State
}

// Recorder receives state transitions, e.g. for metrics.
type Recorder interface {
	RecordTransition(from, to State)
}
