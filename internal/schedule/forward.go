package schedule

import (
	"container/heap"
)

// Forward pass: earliest start/finish per task via constraint propagation in
// topological order. All arithmetic happens on integer day offsets relative to
// the project start; conversion to dates happens at the result boundary.

type intMinHeap []int

func (h intMinHeap) Len() int           { return len(h) }
func (h intMinHeap) Less(i, j int) bool { return h[i] < h[j] }
func (h intMinHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *intMinHeap) Push(x any)        { *h = append(*h, x.(int)) }
func (h *intMinHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// topoOrder returns a deterministic topological ordering of canonical indices
// (Kahn's algorithm, ready set drained smallest-index first so equal graphs
// always schedule in the same order). Returns false if a cycle prevented a
// complete ordering.
func (g *ProjectGraph) topoOrder() ([]int, bool) {
	indeg := make([]int, len(g.ids))
	for _, id := range g.ids {
		indeg[g.index[id]] = len(g.preds[id])
	}

	ready := &intMinHeap{}
	heap.Init(ready)
	for i, d := range indeg {
		if d == 0 {
			heap.Push(ready, i)
		}
	}

	order := make([]int, 0, len(indeg))
	for ready.Len() > 0 {
		u := heap.Pop(ready).(int)
		order = append(order, u)
		for _, d := range g.succs[g.ids[u]] {
			v := g.index[d.SuccessorID]
			indeg[v]--
			if indeg[v] == 0 {
				heap.Push(ready, v)
			}
		}
	}
	return order, len(order) == len(g.ids)
}

// taskTimes holds one task's computed offsets, in days from project start.
type taskTimes struct {
	es, ef int // earliest start/finish
	ls, lf int // latest start/finish
	slack  int
	// pinnedConflict is set when a pinned task's recorded date falls before
	// the floor its predecessors impose. The engine reports the feasible date
	// and flags the conflict; it never moves the recorded date itself.
	pinnedConflict bool
}

// forward computes earliest start/finish for every task, processing each task
// only after all of its predecessors. For every incoming edge the most
// restrictive constraint wins (max aggregation).
func (g *ProjectGraph) forward(order []int, dayOf func(Task) (int, bool)) []taskTimes {
	times := make([]taskTimes, len(g.ids))
	for _, u := range order {
		id := g.ids[u]
		t := g.tasks[id]

		es := 0       // floor: the project start
		efFloor := -1 << 31
		for _, d := range g.preds[id] {
			p := times[g.index[d.PredecessorID]]
			switch d.Type {
			case FinishToStart:
				es = max(es, p.ef+d.LagUnits)
			case StartToStart:
				es = max(es, p.es+d.LagUnits)
			case FinishToFinish:
				efFloor = max(efFloor, p.ef+d.LagUnits)
			case StartToFinish:
				efFloor = max(efFloor, p.es+d.LagUnits)
			}
		}

		if t.Pinned {
			if rec, ok := dayOf(t); ok {
				if rec < es {
					times[u].pinnedConflict = true
				}
				es = max(es, rec)
			}
		}

		ef := max(es+t.DurationUnits, efFloor)
		times[u].es = ef - t.DurationUnits
		times[u].ef = ef
	}
	return times
}

// projectEndDay is the maximum earliest finish over tasks with no successors.
func (g *ProjectGraph) projectEndDay(times []taskTimes) int {
	end := 0
	for i, id := range g.ids {
		if len(g.succs[id]) == 0 && times[i].ef > end {
			end = times[i].ef
		}
	}
	return end
}
