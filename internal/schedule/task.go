package schedule

import "time"

// DepType discriminates the four precedence semantics between two tasks.
type DepType string

const (
	// FinishToStart: the successor may not start before the predecessor finishes.
	FinishToStart DepType = "FS"
	// StartToStart: the successor may not start before the predecessor starts.
	StartToStart DepType = "SS"
	// FinishToFinish: the successor may not finish before the predecessor finishes.
	FinishToFinish DepType = "FF"
	// StartToFinish: the successor may not finish before the predecessor starts.
	StartToFinish DepType = "SF"
)

// ParseDepType validates external input against the closed type set.
// Anything else is rejected rather than silently defaulted.
func ParseDepType(s string) (DepType, error) {
	switch DepType(s) {
	case FinishToStart, StartToStart, FinishToFinish, StartToFinish:
		return DepType(s), nil
	}
	return "", &InvalidDependencyTypeError{Value: s}
}

// Status is a task's completion state. It feeds the derived blocking
// relationship, never the scheduling math.
type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
)

// GraphVersion is the optimistic-concurrency token carried by every snapshot.
// The engine only compares versions; allocating them is the store's job.
type GraphVersion int64

// CheckVersion is the pure stale-snapshot comparison. It fails with
// ConcurrencyError when the submitted version lags the current one.
func CheckVersion(submitted, current GraphVersion) error {
	if submitted != current {
		return &ConcurrencyError{SubmittedVersion: submitted, CurrentVersion: current}
	}
	return nil
}

// Task is a schedulable node. RecordedStart is the date the user or system has
// committed to; its zero value means no date has been recorded. A pinned task's
// recorded date must never be silently moved by automatic propagation.
type Task struct {
	ID            string
	ProjectID     string
	Name          string
	DurationUnits int
	RecordedStart time.Time
	Pinned        bool
	Status        Status
}

// Dependency is a typed, lagged precedence edge. LagUnits may be negative to
// express lead time.
type Dependency struct {
	ID            string
	PredecessorID string
	SuccessorID   string
	Type          DepType
	LagUnits      int
}
