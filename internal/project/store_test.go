package project_test

import (
	"testing"
	"time"

	"github.com/mcgetts/ganttcore/internal/config"
	"github.com/mcgetts/ganttcore/internal/project"
	"github.com/mcgetts/ganttcore/internal/schedule"
)

var start = time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

func fixtureConfig() *config.Config {
	return &config.Config{
		Version: "v1",
		Projects: []config.ProjectDef{
			{
				ID:        "p1",
				Name:      "One",
				StartDate: start,
				Tasks: []config.TaskDef{
					{ID: "a", Duration: 5},
					{ID: "b", Duration: 3},
				},
				Dependencies: []config.DependencyDef{
					{ID: "d1", Predecessor: "a", Successor: "b", Type: "FS"},
				},
			},
		},
	}
}

func loadStore(t *testing.T, cfg *config.Config) *project.Store {
	t.Helper()
	s := project.NewStore()
	if errs := s.ReplaceAll(cfg); len(errs) != 0 {
		t.Fatalf("ReplaceAll errors: %v", errs)
	}
	return s
}

func TestStore_SnapshotAndVersion(t *testing.T) {
	s := loadStore(t, fixtureConfig())
	snap, ok := s.Snapshot("p1")
	if !ok {
		t.Fatal("p1 missing")
	}
	if snap.Version != 1 {
		t.Errorf("fresh project version: got %d, want 1", snap.Version)
	}
	if snap.Graph.TaskCount() != 2 {
		t.Errorf("task count: got %d", snap.Graph.TaskCount())
	}
	if _, ok := s.Snapshot("nope"); ok {
		t.Error("unknown project returned a snapshot")
	}
}

func TestStore_CommitAdvancesVersion(t *testing.T) {
	s := loadStore(t, fixtureConfig())
	snap, _ := s.Snapshot("p1")

	next, err := snap.Graph.WithoutDependency("d1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, err := s.Commit("p1", snap.Version, next, nil)
	if err != nil {
		t.Fatalf("commit failed: %v", err)
	}
	if v != 2 {
		t.Errorf("version after commit: got %d, want 2", v)
	}

	// A second session still holding version 1 must be rejected.
	_, err = s.Commit("p1", snap.Version, next, nil)
	if _, ok := err.(*schedule.ConcurrencyError); !ok {
		t.Fatalf("expected ConcurrencyError, got %v", err)
	}
	if after, _ := s.Snapshot("p1"); after.Version != 2 {
		t.Errorf("failed commit changed version to %d", after.Version)
	}
}

// A reload carrying a cyclic project skips it but keeps loading the rest;
// the surviving project's version keeps advancing.
func TestStore_ReplaceAllSkipsCyclicProject(t *testing.T) {
	s := loadStore(t, fixtureConfig())

	cfg := fixtureConfig()
	cfg.Projects = append(cfg.Projects, config.ProjectDef{
		ID:        "broken",
		StartDate: start,
		Tasks: []config.TaskDef{
			{ID: "x", Duration: 1},
			{ID: "y", Duration: 1},
		},
		Dependencies: []config.DependencyDef{
			{Predecessor: "x", Successor: "y", Type: "FS"},
			{Predecessor: "y", Successor: "x", Type: "FS"},
		},
	})

	errs := s.ReplaceAll(cfg)
	if len(errs) != 1 {
		t.Fatalf("expected one skip error, got %v", errs)
	}
	if _, ok := s.Snapshot("broken"); ok {
		t.Error("cyclic project loaded")
	}
	snap, ok := s.Snapshot("p1")
	if !ok {
		t.Fatal("p1 lost on reload")
	}
	if snap.Version != 2 {
		t.Errorf("reloaded project version: got %d, want 2", snap.Version)
	}
}

func TestStore_TaskDefaults(t *testing.T) {
	s := loadStore(t, fixtureConfig())
	snap, _ := s.Snapshot("p1")
	task, ok := snap.Graph.Task("a")
	if !ok {
		t.Fatal("task a missing")
	}
	if task.Status != schedule.StatusNotStarted {
		t.Errorf("default status: got %q", task.Status)
	}
	if task.ProjectID != "p1" {
		t.Errorf("project id: got %q", task.ProjectID)
	}
}
