package schedule

import (
	"fmt"
	"sort"
	"time"
)

// ProjectGraph is one project's tasks and dependencies materialized as
// adjacency lists. It is built fresh from flat persisted rows for every
// computation and never mutated in place: every edit produces a new graph,
// so a validation failure leaves the original untouched.
type ProjectGraph struct {
	projectID string
	tasks     map[string]Task
	ids       []string       // canonical order: sorted ascending
	index     map[string]int // id -> canonical index
	deps      []Dependency
	preds     map[string][]Dependency // successor id -> incoming edges
	succs     map[string][]Dependency // predecessor id -> outgoing edges
}

// NewProjectGraph builds adjacency structures from flat task and dependency
// lists. It rejects dependencies that reference unknown tasks, tasks from a
// different project, unknown dependency types and self-edges. Acyclicity is
// NOT checked here; callers run Validate before trusting a loaded graph.
func NewProjectGraph(tasks []Task, deps []Dependency) (*ProjectGraph, error) {
	g := &ProjectGraph{
		tasks: make(map[string]Task, len(tasks)),
		index: make(map[string]int, len(tasks)),
		preds: make(map[string][]Dependency),
		succs: make(map[string][]Dependency),
	}
	for _, t := range tasks {
		if t.ID == "" {
			return nil, fmt.Errorf("task with empty id")
		}
		if _, dup := g.tasks[t.ID]; dup {
			return nil, fmt.Errorf("duplicate task id %q", t.ID)
		}
		if t.DurationUnits < 0 {
			return nil, fmt.Errorf("task %s: negative duration %d", t.ID, t.DurationUnits)
		}
		if g.projectID == "" {
			g.projectID = t.ProjectID
		}
		g.tasks[t.ID] = t
		g.ids = append(g.ids, t.ID)
	}
	sort.Strings(g.ids)
	for i, id := range g.ids {
		g.index[id] = i
	}
	for _, d := range deps {
		if err := g.checkDependency(d); err != nil {
			return nil, err
		}
		g.addEdge(d)
	}
	return g, nil
}

func (g *ProjectGraph) checkDependency(d Dependency) error {
	if _, err := ParseDepType(string(d.Type)); err != nil {
		return err
	}
	if d.PredecessorID == d.SuccessorID {
		return &SelfDependencyError{TaskID: d.PredecessorID}
	}
	pred, ok := g.tasks[d.PredecessorID]
	if !ok {
		return &InvalidReferenceError{Kind: "task", ID: d.PredecessorID}
	}
	succ, ok := g.tasks[d.SuccessorID]
	if !ok {
		return &InvalidReferenceError{Kind: "task", ID: d.SuccessorID}
	}
	if pred.ProjectID != succ.ProjectID {
		return &CrossProjectDependencyError{
			PredecessorID:      d.PredecessorID,
			SuccessorID:        d.SuccessorID,
			PredecessorProject: pred.ProjectID,
			SuccessorProject:   succ.ProjectID,
		}
	}
	return nil
}

func (g *ProjectGraph) addEdge(d Dependency) {
	g.deps = append(g.deps, d)
	g.preds[d.SuccessorID] = append(g.preds[d.SuccessorID], d)
	g.succs[d.PredecessorID] = append(g.succs[d.PredecessorID], d)
}

// ProjectID returns the project the graph belongs to.
func (g *ProjectGraph) ProjectID() string { return g.projectID }

// TaskCount returns the number of tasks in the graph.
func (g *ProjectGraph) TaskCount() int { return len(g.ids) }

// Task returns a task by id.
func (g *ProjectGraph) Task(id string) (Task, bool) {
	t, ok := g.tasks[id]
	return t, ok
}

// TaskIDs returns all task ids in canonical (sorted) order.
func (g *ProjectGraph) TaskIDs() []string {
	out := make([]string, len(g.ids))
	copy(out, g.ids)
	return out
}

// Dependencies returns all edges in insertion order.
func (g *ProjectGraph) Dependencies() []Dependency {
	out := make([]Dependency, len(g.deps))
	copy(out, g.deps)
	return out
}

// Predecessors returns the incoming edges of a task.
func (g *ProjectGraph) Predecessors(taskID string) []Dependency {
	return g.preds[taskID]
}

// Successors returns the outgoing edges of a task.
func (g *ProjectGraph) Successors(taskID string) []Dependency {
	return g.succs[taskID]
}

// WithDependency returns a new graph containing d. The edge is validated
// structurally and then checked for cycle closure before anything is copied,
// so a rejected edge has no effect whatsoever on the receiver.
func (g *ProjectGraph) WithDependency(d Dependency) (*ProjectGraph, error) {
	if err := g.checkDependency(d); err != nil {
		return nil, err
	}
	if err := g.ValidateNewEdge(d.PredecessorID, d.SuccessorID); err != nil {
		return nil, err
	}
	next := g.clone()
	next.addEdge(d)
	return next, nil
}

// WithoutDependency returns a new graph with the identified edge removed.
// Removing an edge can never introduce a cycle, so no re-validation is needed.
func (g *ProjectGraph) WithoutDependency(dependencyID string) (*ProjectGraph, error) {
	found := false
	for _, d := range g.deps {
		if d.ID == dependencyID {
			found = true
			break
		}
	}
	if !found {
		return nil, &InvalidReferenceError{Kind: "dependency", ID: dependencyID}
	}
	next := &ProjectGraph{
		projectID: g.projectID,
		tasks:     g.tasks,
		ids:       g.ids,
		index:     g.index,
		preds:     make(map[string][]Dependency),
		succs:     make(map[string][]Dependency),
	}
	for _, d := range g.deps {
		if d.ID != dependencyID {
			next.addEdge(d)
		}
	}
	return next, nil
}

// WithRecordedStart returns a new graph where the task's recorded start is set
// and the task is pinned. A user-committed date is a pinned date.
func (g *ProjectGraph) WithRecordedStart(taskID string, start time.Time) (*ProjectGraph, error) {
	t, ok := g.tasks[taskID]
	if !ok {
		return nil, &InvalidReferenceError{Kind: "task", ID: taskID}
	}
	next := g.clone()
	t.RecordedStart = start
	t.Pinned = true
	next.tasks[taskID] = t
	return next, nil
}

// clone copies the task map and re-derives adjacency. Edits go through clones
// so that concurrent readers of the original graph are never affected.
func (g *ProjectGraph) clone() *ProjectGraph {
	next := &ProjectGraph{
		projectID: g.projectID,
		tasks:     make(map[string]Task, len(g.tasks)),
		ids:       g.ids,
		index:     g.index,
		preds:     make(map[string][]Dependency, len(g.preds)),
		succs:     make(map[string][]Dependency, len(g.succs)),
	}
	for id, t := range g.tasks {
		next.tasks[id] = t
	}
	for _, d := range g.deps {
		next.addEdge(d)
	}
	return next
}
