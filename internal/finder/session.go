package finder

import (
	"slices"
	"time"

	"github.com/dsg/pharmacy-finder/library/pharmacy"
)

// Status is the lifecycle state of a search session.
type Status int

const (
	// StatusIdle is the initial state, before any submission.
	StatusIdle Status = iota
	// StatusSearching means a request is in flight for the current session.
	StatusSearching
	// StatusSucceeded means the backend returned a list, possibly empty.
	StatusSucceeded
	// StatusFailed means the request failed; results are empty.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusSearching:
		return "searching"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Session is the state produced by one submitted address.
type Session struct {
	ID      string
	Seq     uint64
	Query   string
	Status  Status
	Results []pharmacy.Result
	// Err keeps the diagnostic detail of a failed session. It is logged,
	// never rendered.
	Err        error
	StartedAt  time.Time
	FinishedAt time.Time
}

// Snapshot is a read-only copy of the controller state.
type Snapshot struct {
	Session
	// HasSearched is set by the first submission and never cleared.
	HasSearched bool
	// InFlight counts requests issued but not yet completed.
	InFlight int
}

func (s Session) clone() Session {
	s.Results = slices.Clone(s.Results)
	if s.Results == nil {
		s.Results = []pharmacy.Result{}
	}
	return s
}

// View renders the snapshot through the results rendering contract.
func (s Snapshot) View() ResultsView {
	return Render(s.HasSearched, s.Status, s.Query, s.Results)
}
