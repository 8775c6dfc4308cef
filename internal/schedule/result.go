package schedule

import (
	"sort"
	"time"
)

// BlockedStatus is the derived blocking relationship for a not-yet-started
// task. It is informational output, recomputed on every call and never stored.
type BlockedStatus string

const (
	// BlockedStatusNone applies to tasks already in progress or done.
	BlockedStatusNone BlockedStatus = ""
	// Blocked: at least one finish-to-start predecessor is not done.
	Blocked BlockedStatus = "blocked"
	// Ready: all finish-to-start predecessors are done.
	Ready BlockedStatus = "ready"
)

// TaskSchedule is the computed CPM output for a single task.
type TaskSchedule struct {
	TaskID         string        `json:"task_id"`
	EarliestStart  time.Time     `json:"earliest_start"`
	EarliestFinish time.Time     `json:"earliest_finish"`
	LatestStart    time.Time     `json:"latest_start"`
	LatestFinish   time.Time     `json:"latest_finish"`
	SlackUnits     int           `json:"slack_units"`
	Critical       bool          `json:"critical"`
	Blocked        BlockedStatus `json:"blocked_status,omitempty"`
	PinnedConflict bool          `json:"pinned_conflict,omitempty"`
}

// ScheduleResult is the full output of one computation over a project graph.
// Changed lists the tasks whose computed dates moved relative to the prior
// snapshot; the notification collaborator uses it to broadcast minimal diffs.
type ScheduleResult struct {
	ProjectID    string                  `json:"project_id"`
	GraphVersion GraphVersion            `json:"graph_version"`
	Tasks        map[string]TaskSchedule `json:"tasks"`
	ProjectEnd   time.Time               `json:"project_end"`
	CriticalPath []string                `json:"critical_path"`
	Changed      []string                `json:"changed,omitempty"`
}

// DiffAgainst records which tasks' computed dates differ from prior, in sorted
// order. A nil prior marks every task as changed (first computation).
func (r *ScheduleResult) DiffAgainst(prior *ScheduleResult) {
	changed := make([]string, 0, len(r.Tasks))
	for id, ts := range r.Tasks {
		if prior == nil {
			changed = append(changed, id)
			continue
		}
		old, ok := prior.Tasks[id]
		if !ok ||
			!old.EarliestStart.Equal(ts.EarliestStart) ||
			!old.EarliestFinish.Equal(ts.EarliestFinish) ||
			!old.LatestStart.Equal(ts.LatestStart) ||
			!old.LatestFinish.Equal(ts.LatestFinish) {
			changed = append(changed, id)
		}
	}
	sort.Strings(changed)
	r.Changed = changed
}
