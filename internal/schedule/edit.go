package schedule

import (
	"time"
)

// DateChange is a proposed interactive edit: move one task to a new start
// date. BaseVersion is the graph version the proposal was computed against.
type DateChange struct {
	TaskID      string
	NewStart    time.Time
	BaseVersion GraphVersion
}

// ProposeDateChange validates and applies a single date edit.
//
// The proposal is rejected with ConcurrencyError when BaseVersion lags
// current, and with ConstraintViolationError (naming the binding predecessor
// and dependency type) when NewStart falls before the floor the task's direct
// predecessors impose. Errors leave the input graph completely untouched.
//
// On success the task's recorded start is committed (pinning it) and the full
// forward+backward pass reruns over the whole project graph — simpler and
// more robust than incremental subgraph recomputation at these task counts.
// The returned result carries the diff against prior. Pinned dependents whose
// recorded date now falls before their computed floor are flagged with
// PinnedConflict rather than silently moved.
func (s *Scheduler) ProposeDateChange(g *ProjectGraph, change DateChange, current GraphVersion, projectStart time.Time, prior *ScheduleResult) (*ProjectGraph, *ScheduleResult, error) {
	if err := CheckVersion(change.BaseVersion, current); err != nil {
		return nil, nil, err
	}
	task, ok := g.Task(change.TaskID)
	if !ok {
		return nil, nil, &InvalidReferenceError{Kind: "task", ID: change.TaskID}
	}

	// Current schedule supplies the predecessors' earliest dates for the
	// floor check (and surfaces capacity/cycle problems before any mutation).
	base, err := s.ComputeSchedule(g, projectStart)
	if err != nil {
		return nil, nil, err
	}

	projectStart = midnightUTC(projectStart)
	newDay := daysBetween(projectStart, change.NewStart)
	if err := g.checkStartFloor(task, newDay, base, projectStart); err != nil {
		return nil, nil, err
	}

	next, err := g.WithRecordedStart(change.TaskID, midnightUTC(change.NewStart))
	if err != nil {
		return nil, nil, err
	}
	result, err := s.ComputeSchedule(next, projectStart)
	if err != nil {
		return nil, nil, err
	}
	result.DiffAgainst(prior)
	return next, result, nil
}

// checkStartFloor recomputes the earliest start the task's direct
// predecessors allow, using the same per-type formulas as the forward pass,
// and rejects a proposed day below it.
func (g *ProjectGraph) checkStartFloor(task Task, newDay int, base *ScheduleResult, projectStart time.Time) error {
	floor := -1 << 31
	var binding Dependency
	for _, d := range g.preds[task.ID] {
		p := base.Tasks[d.PredecessorID]
		pes := daysBetween(projectStart, p.EarliestStart)
		pef := daysBetween(projectStart, p.EarliestFinish)

		var cand int
		switch d.Type {
		case FinishToStart:
			cand = pef + d.LagUnits
		case StartToStart:
			cand = pes + d.LagUnits
		case FinishToFinish:
			cand = pef + d.LagUnits - task.DurationUnits
		case StartToFinish:
			cand = pes + d.LagUnits - task.DurationUnits
		}
		if cand > floor {
			floor = cand
			binding = d
		}
	}
	if binding.PredecessorID != "" && newDay < floor {
		return &ConstraintViolationError{
			TaskID:          task.ID,
			PredecessorID:   binding.PredecessorID,
			Type:            binding.Type,
			EarliestAllowed: projectStart.AddDate(0, 0, floor),
		}
	}
	return nil
}
