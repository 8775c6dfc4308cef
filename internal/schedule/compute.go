package schedule

import (
	"time"
)

// DefaultMaxTasks bounds how large a project graph any single computation
// will accept. Pathologically large graphs are rejected with CapacityError
// instead of degrading silently.
const DefaultMaxTasks = 5000

// Scheduler runs the CPM passes. It is a pure, stateless computation: every
// method takes an explicit graph snapshot and returns a fresh result, so any
// number of goroutines may share one Scheduler.
type Scheduler struct {
	// MaxTasks caps the per-project task count; zero means DefaultMaxTasks.
	MaxTasks int
}

func (s *Scheduler) maxTasks() int {
	if s.MaxTasks > 0 {
		return s.MaxTasks
	}
	return DefaultMaxTasks
}

// ComputeSchedule runs the forward and backward passes over the graph and
// returns per-task earliest/latest dates, slack, the critical path and the
// derived blocking status. The graph is re-validated for cycles first; stored
// data is never trusted to satisfy the acyclicity invariant.
func (s *Scheduler) ComputeSchedule(g *ProjectGraph, projectStart time.Time) (*ScheduleResult, error) {
	if n := g.TaskCount(); n > s.maxTasks() {
		return nil, &CapacityError{TaskCount: n, Limit: s.maxTasks()}
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}

	projectStart = midnightUTC(projectStart)
	order, ok := g.topoOrder()
	if !ok {
		// Validate above catches cycles; this is a pure safety net.
		return nil, &CycleError{}
	}

	times := g.forward(order, func(t Task) (int, bool) {
		if t.RecordedStart.IsZero() {
			return 0, false
		}
		return daysBetween(projectStart, t.RecordedStart), true
	})
	end := g.projectEndDay(times)
	g.backward(order, times, end)

	result := &ScheduleResult{
		ProjectID:    g.ProjectID(),
		Tasks:        make(map[string]TaskSchedule, g.TaskCount()),
		ProjectEnd:   projectStart.AddDate(0, 0, end),
		CriticalPath: g.criticalPath(times),
	}
	for i, id := range g.TaskIDs() {
		tt := times[i]
		result.Tasks[id] = TaskSchedule{
			TaskID:         id,
			EarliestStart:  projectStart.AddDate(0, 0, tt.es),
			EarliestFinish: projectStart.AddDate(0, 0, tt.ef),
			LatestStart:    projectStart.AddDate(0, 0, tt.ls),
			LatestFinish:   projectStart.AddDate(0, 0, tt.lf),
			SlackUnits:     tt.slack,
			Critical:       tt.slack == 0,
			Blocked:        g.blockedStatus(id),
			PinnedConflict: tt.pinnedConflict,
		}
	}
	return result, nil
}

// blockedStatus derives the blocking relationship for a not-yet-started task:
// blocked while any finish-to-start predecessor is unfinished, ready
// otherwise. Started and done tasks carry no status.
func (g *ProjectGraph) blockedStatus(taskID string) BlockedStatus {
	t := g.tasks[taskID]
	if t.Status != StatusNotStarted {
		return BlockedStatusNone
	}
	for _, d := range g.preds[taskID] {
		if d.Type != FinishToStart {
			continue
		}
		if p := g.tasks[d.PredecessorID]; p.Status != StatusDone {
			return Blocked
		}
	}
	return Ready
}

// midnightUTC truncates a date to UTC midnight; one schedule unit is one
// calendar day.
func midnightUTC(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// daysBetween returns the whole days from a to b, both at UTC midnight.
func daysBetween(a, b time.Time) int {
	return int(midnightUTC(b).Sub(midnightUTC(a)) / (24 * time.Hour))
}
