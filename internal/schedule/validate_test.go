package schedule_test

import (
	"errors"
	"testing"

	"github.com/mcgetts/ganttcore/internal/schedule"
)

func TestNewProjectGraph_RejectsBadInput(t *testing.T) {
	tasks := []schedule.Task{task("A", 1), task("B", 1)}

	t.Run("unknown reference", func(t *testing.T) {
		_, err := schedule.NewProjectGraph(tasks, []schedule.Dependency{
			dep("A", "nope", schedule.FinishToStart, 0),
		})
		var refErr *schedule.InvalidReferenceError
		if !errors.As(err, &refErr) {
			t.Fatalf("expected InvalidReferenceError, got %v", err)
		}
		if refErr.ID != "nope" {
			t.Errorf("got id %q", refErr.ID)
		}
	})

	t.Run("self dependency", func(t *testing.T) {
		_, err := schedule.NewProjectGraph(tasks, []schedule.Dependency{
			dep("A", "A", schedule.FinishToStart, 0),
		})
		var selfErr *schedule.SelfDependencyError
		if !errors.As(err, &selfErr) {
			t.Fatalf("expected SelfDependencyError, got %v", err)
		}
	})

	t.Run("cross project", func(t *testing.T) {
		other := task("X", 1)
		other.ProjectID = "p2"
		_, err := schedule.NewProjectGraph(append(tasks, other), []schedule.Dependency{
			dep("A", "X", schedule.FinishToStart, 0),
		})
		var xpErr *schedule.CrossProjectDependencyError
		if !errors.As(err, &xpErr) {
			t.Fatalf("expected CrossProjectDependencyError, got %v", err)
		}
	})

	t.Run("invalid dependency type", func(t *testing.T) {
		_, err := schedule.NewProjectGraph(tasks, []schedule.Dependency{
			dep("A", "B", "SOMEDAY", 0),
		})
		var typErr *schedule.InvalidDependencyTypeError
		if !errors.As(err, &typErr) {
			t.Fatalf("expected InvalidDependencyTypeError, got %v", err)
		}
	})
}

func TestParseDepType(t *testing.T) {
	for _, ok := range []string{"FS", "SS", "FF", "SF"} {
		if _, err := schedule.ParseDepType(ok); err != nil {
			t.Errorf("ParseDepType(%q): %v", ok, err)
		}
	}
	for _, bad := range []string{"", "fs", "FSS", "finish-to-start"} {
		if _, err := schedule.ParseDepType(bad); err == nil {
			t.Errorf("ParseDepType(%q): expected error", bad)
		}
	}
}

// Adding an edge that closes a loop must fail and leave the graph unchanged.
func TestWithDependency_RejectsCycle(t *testing.T) {
	g := mustGraph(t,
		[]schedule.Task{task("A", 1), task("B", 1)},
		[]schedule.Dependency{dep("A", "B", schedule.FinishToStart, 0)},
	)

	_, err := g.WithDependency(dep("B", "A", schedule.FinishToStart, 0))
	var cycErr *schedule.CycleError
	if !errors.As(err, &cycErr) {
		t.Fatalf("expected CycleError, got %v", err)
	}
	if len(cycErr.Cycle) == 0 {
		t.Error("cycle error should name the cycle")
	}
	if got := len(g.Dependencies()); got != 1 {
		t.Errorf("graph mutated: %d edges, want 1", got)
	}
}

func TestWithDependency_RejectsIndirectCycle(t *testing.T) {
	g := mustGraph(t,
		[]schedule.Task{task("A", 1), task("B", 1), task("C", 1)},
		[]schedule.Dependency{
			dep("A", "B", schedule.FinishToStart, 0),
			dep("B", "C", schedule.FinishToStart, 0),
		},
	)
	_, err := g.WithDependency(dep("C", "A", schedule.FinishToStart, 0))
	var cycErr *schedule.CycleError
	if !errors.As(err, &cycErr) {
		t.Fatalf("expected CycleError, got %v", err)
	}
	// The witness walks the new edge and back around: C -> A -> B -> C.
	want := []string{"C", "A", "B", "C"}
	if len(cycErr.Cycle) != len(want) {
		t.Fatalf("cycle %v, want %v", cycErr.Cycle, want)
	}
	for i := range want {
		if cycErr.Cycle[i] != want[i] {
			t.Fatalf("cycle %v, want %v", cycErr.Cycle, want)
		}
	}
}

func TestWithDependency_AllowsDiamond(t *testing.T) {
	g := mustGraph(t,
		[]schedule.Task{task("A", 1), task("B", 1), task("C", 1), task("D", 1)},
		[]schedule.Dependency{
			dep("A", "B", schedule.FinishToStart, 0),
			dep("A", "C", schedule.FinishToStart, 0),
			dep("B", "D", schedule.FinishToStart, 0),
		},
	)
	// C -> D reconverges without closing a loop.
	next, err := g.WithDependency(dep("C", "D", schedule.FinishToStart, 0))
	if err != nil {
		t.Fatalf("diamond rejected: %v", err)
	}
	if got := len(next.Dependencies()); got != 4 {
		t.Errorf("got %d edges, want 4", got)
	}
}

// Validate defends against cycles already present in persisted rows, which
// NewProjectGraph deliberately does not reject.
func TestValidate_DetectsStoredCycle(t *testing.T) {
	g := mustGraph(t,
		[]schedule.Task{task("A", 1), task("B", 1), task("C", 1)},
		[]schedule.Dependency{
			dep("A", "B", schedule.FinishToStart, 0),
			dep("B", "C", schedule.FinishToStart, 0),
			dep("C", "A", schedule.FinishToStart, 0),
		},
	)
	err := g.Validate()
	var cycErr *schedule.CycleError
	if !errors.As(err, &cycErr) {
		t.Fatalf("expected CycleError, got %v", err)
	}
	if first, last := cycErr.Cycle[0], cycErr.Cycle[len(cycErr.Cycle)-1]; first != last {
		t.Errorf("cycle witness not closed: %v", cycErr.Cycle)
	}
}

func TestValidate_CleanGraph(t *testing.T) {
	g := mustGraph(t,
		[]schedule.Task{task("A", 1), task("B", 1), task("C", 1)},
		[]schedule.Dependency{
			dep("A", "B", schedule.FinishToStart, 0),
			dep("A", "C", schedule.StartToStart, 2),
		},
	)
	if err := g.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestWithoutDependency(t *testing.T) {
	g := mustGraph(t,
		[]schedule.Task{task("A", 1), task("B", 1)},
		[]schedule.Dependency{dep("A", "B", schedule.FinishToStart, 0)},
	)
	next, err := g.WithoutDependency("A->B")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(next.Dependencies()) != 0 {
		t.Error("edge not removed")
	}
	if len(g.Dependencies()) != 1 {
		t.Error("original graph mutated")
	}

	_, err = g.WithoutDependency("missing")
	var refErr *schedule.InvalidReferenceError
	if !errors.As(err, &refErr) {
		t.Fatalf("expected InvalidReferenceError for unknown id, got %v", err)
	}
}
