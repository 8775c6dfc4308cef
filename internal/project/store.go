// Package project holds the in-memory snapshot of every loaded project,
// standing in for the persistence collaborator. The scheduling core never
// sees this package: it receives explicit graph snapshots and hands back new
// ones, while the store owns the shared state and the per-project
// graphVersion counters that make optimistic concurrency work.
package project

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mcgetts/ganttcore/internal/config"
	"github.com/mcgetts/ganttcore/internal/schedule"
)

// Snapshot is an immutable view of one project at a specific graph version.
type Snapshot struct {
	ProjectID  string
	Name       string
	Graph      *schedule.ProjectGraph
	StartDate  time.Time
	Version    schedule.GraphVersion
	LastResult *schedule.ScheduleResult
}

type state struct {
	name    string
	graph   *schedule.ProjectGraph
	start   time.Time
	version schedule.GraphVersion
	last    *schedule.ScheduleResult
}

// Store maps project ids to their current snapshot. All methods are safe for
// concurrent use.
type Store struct {
	mu       sync.RWMutex
	projects map[string]*state
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{projects: make(map[string]*state)}
}

// ReplaceAll converts and installs every project from cfg. Each graph is
// re-validated for cycles before it is accepted — persisted data is never
// trusted to satisfy the acyclicity invariant. Invalid projects are skipped
// and reported; valid ones load regardless. Projects that already exist keep
// their version counter advancing so in-flight edits fail with a stale
// version instead of committing against swapped data.
func (s *Store) ReplaceAll(cfg *config.Config) []error {
	var errs []error
	next := make(map[string]*state, len(cfg.Projects))

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range cfg.Projects {
		g, err := buildGraph(p)
		if err != nil {
			errs = append(errs, fmt.Errorf("project %s: %w", p.ID, err))
			continue
		}
		if err := g.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("project %s: %w", p.ID, err))
			continue
		}
		version := schedule.GraphVersion(1)
		if prev, ok := s.projects[p.ID]; ok {
			version = prev.version + 1
		}
		next[p.ID] = &state{
			name:    p.Name,
			graph:   g,
			start:   p.StartDate,
			version: version,
		}
	}
	s.projects = next
	return errs
}

// Snapshot returns the current view of one project.
func (s *Store) Snapshot(projectID string) (Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.projects[projectID]
	if !ok {
		return Snapshot{}, false
	}
	return snapshotOf(projectID, st), true
}

// List returns all project snapshots ordered by id.
func (s *Store) List() []Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Snapshot, 0, len(s.projects))
	for id, st := range s.projects {
		out = append(out, snapshotOf(id, st))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProjectID < out[j].ProjectID })
	return out
}

// Commit installs an edited graph, advancing the version. The base version
// must match the current one; otherwise another session committed first and
// the caller gets ConcurrencyError to reload and retry.
func (s *Store) Commit(projectID string, base schedule.GraphVersion, g *schedule.ProjectGraph, result *schedule.ScheduleResult) (schedule.GraphVersion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.projects[projectID]
	if !ok {
		return 0, &schedule.InvalidReferenceError{Kind: "project", ID: projectID}
	}
	if err := schedule.CheckVersion(base, st.version); err != nil {
		return 0, err
	}
	st.graph = g
	st.version++
	st.last = result
	if result != nil {
		result.GraphVersion = st.version
	}
	return st.version, nil
}

// SetResult caches the latest computed schedule for diffing without bumping
// the version (pure reads do not advance the graph).
func (s *Store) SetResult(projectID string, result *schedule.ScheduleResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.projects[projectID]; ok {
		st.last = result
	}
}

func snapshotOf(id string, st *state) Snapshot {
	return Snapshot{
		ProjectID:  id,
		Name:       st.name,
		Graph:      st.graph,
		StartDate:  st.start,
		Version:    st.version,
		LastResult: st.last,
	}
}

// buildGraph materializes a project definition into the engine's adjacency
// form. Dependencies without an id get one assigned here, so API deletes can
// address them.
func buildGraph(p config.ProjectDef) (*schedule.ProjectGraph, error) {
	tasks := make([]schedule.Task, 0, len(p.Tasks))
	for _, t := range p.Tasks {
		status := schedule.Status(t.Status)
		if t.Status == "" {
			status = schedule.StatusNotStarted
		}
		tasks = append(tasks, schedule.Task{
			ID:            t.ID,
			ProjectID:     p.ID,
			Name:          t.Name,
			DurationUnits: t.Duration,
			RecordedStart: t.Start,
			Pinned:        t.Pinned,
			Status:        status,
		})
	}
	deps := make([]schedule.Dependency, 0, len(p.Dependencies))
	for _, d := range p.Dependencies {
		id := d.ID
		if id == "" {
			id = uuid.New().String()
		}
		typ, err := schedule.ParseDepType(d.Type)
		if err != nil {
			return nil, err
		}
		deps = append(deps, schedule.Dependency{
			ID:            id,
			PredecessorID: d.Predecessor,
			SuccessorID:   d.Successor,
			Type:          typ,
			LagUnits:      d.Lag,
		})
	}
	return schedule.NewProjectGraph(tasks, deps)
}
