package schedule

import (
	"fmt"
	"strings"
	"time"
)

// CycleError reports a dependency cycle. Cycle holds the task ids along the
// cycle in edge order; the first id is repeated at the end to close the loop.
type CycleError struct {
	Cycle []string
}

func (e *CycleError) Error() string {
	if len(e.Cycle) == 0 {
		return "dependency cycle detected"
	}
	return "dependency cycle detected: " + strings.Join(e.Cycle, " -> ")
}

// SelfDependencyError reports an edge whose predecessor and successor are the
// same task.
type SelfDependencyError struct {
	TaskID string
}

func (e *SelfDependencyError) Error() string {
	return fmt.Sprintf("task %s cannot depend on itself", e.TaskID)
}

// CrossProjectDependencyError reports a dependency whose endpoints resolve to
// different projects.
type CrossProjectDependencyError struct {
	PredecessorID      string
	SuccessorID        string
	PredecessorProject string
	SuccessorProject   string
}

func (e *CrossProjectDependencyError) Error() string {
	return fmt.Sprintf("dependency %s -> %s crosses projects (%s vs %s)",
		e.PredecessorID, e.SuccessorID, e.PredecessorProject, e.SuccessorProject)
}

// InvalidReferenceError reports a dependency or operation that names a task or
// dependency id not present in the graph.
type InvalidReferenceError struct {
	Kind string // "task" or "dependency"
	ID   string
}

func (e *InvalidReferenceError) Error() string {
	return fmt.Sprintf("unknown %s id %q", e.Kind, e.ID)
}

// InvalidDependencyTypeError reports a dependency type outside the closed
// FS/SS/FF/SF set.
type InvalidDependencyTypeError struct {
	Value string
}

func (e *InvalidDependencyTypeError) Error() string {
	return fmt.Sprintf("invalid dependency type %q (want FS, SS, FF or SF)", e.Value)
}

// ConstraintViolationError reports a proposed start date that falls before the
// floor imposed by a direct predecessor. PredecessorID and Type identify the
// binding constraint; EarliestAllowed is the computed floor.
type ConstraintViolationError struct {
	TaskID          string
	PredecessorID   string
	Type            DepType
	EarliestAllowed time.Time
}

func (e *ConstraintViolationError) Error() string {
	return fmt.Sprintf("task %s cannot start before %s: %s constraint from predecessor %s",
		e.TaskID, e.EarliestAllowed.Format("2006-01-02"), e.Type, e.PredecessorID)
}

// ConcurrencyError reports an edit submitted against a stale graph version.
// The caller is expected to reload the graph and retry.
type ConcurrencyError struct {
	SubmittedVersion GraphVersion
	CurrentVersion   GraphVersion
}

func (e *ConcurrencyError) Error() string {
	return fmt.Sprintf("stale graph version %d (current is %d)", e.SubmittedVersion, e.CurrentVersion)
}

// CapacityError reports a graph exceeding the configured task bound. The
// operation is rejected outright; splitting the project is the caller's call.
type CapacityError struct {
	TaskCount int
	Limit     int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("project has %d tasks, exceeding the limit of %d", e.TaskCount, e.Limit)
}
