package schedule

// Backward pass: latest start/finish from the project end, walking the
// topological order in reverse. Each outgoing edge caps how late the
// predecessor may start or finish; the most restrictive successor wins
// (min aggregation). Slack and the critical path fall out of the two passes.

const unbounded = 1 << 31

// backward fills ls, lf and slack for every task. order must be the same
// topological order used by the forward pass.
func (g *ProjectGraph) backward(order []int, times []taskTimes, projectEnd int) {
	for i := len(order) - 1; i >= 0; i-- {
		u := order[i]
		id := g.ids[u]
		t := g.tasks[id]

		lsCap, lfCap := unbounded, unbounded
		if len(g.succs[id]) == 0 {
			lfCap = projectEnd
		}
		for _, d := range g.succs[id] {
			s := times[g.index[d.SuccessorID]]
			switch d.Type {
			case FinishToStart:
				lfCap = min(lfCap, s.ls-d.LagUnits)
			case StartToStart:
				lsCap = min(lsCap, s.ls-d.LagUnits)
			case FinishToFinish:
				lfCap = min(lfCap, s.lf-d.LagUnits)
			case StartToFinish:
				lsCap = min(lsCap, s.lf-d.LagUnits)
			}
		}

		lf := min(lfCap, lsCap+t.DurationUnits)
		times[u].lf = lf
		times[u].ls = lf - t.DurationUnits
		times[u].slack = times[u].ls - times[u].es
	}
}

// criticalPath extracts one root-to-end chain of zero-slack tasks. The chain
// ends at the zero-slack task with no critical successor and the latest
// earliest finish (ties broken by task id), then walks critical predecessors
// back to a root, matching conventional CPM presentation.
func (g *ProjectGraph) criticalPath(times []taskTimes) []string {
	critical := func(u int) bool { return times[u].slack == 0 }

	// Pick the chain end: critical, no critical successor, latest ef.
	end := -1
	for u := range g.ids {
		if !critical(u) {
			continue
		}
		hasCriticalSucc := false
		for _, d := range g.succs[g.ids[u]] {
			if critical(g.index[d.SuccessorID]) {
				hasCriticalSucc = true
				break
			}
		}
		if hasCriticalSucc {
			continue
		}
		if end == -1 || times[u].ef > times[end].ef {
			end = u
		}
		// Equal finishes resolve to the smaller id; canonical iteration order
		// already visits ids ascending, so the first seen wins.
	}
	if end == -1 {
		return nil
	}

	// Walk back through critical predecessors, preferring the latest-finishing
	// one (ties again resolved by canonical order).
	var rev []string
	for u := end; u != -1; {
		rev = append(rev, g.ids[u])
		next := -1
		for _, d := range g.preds[g.ids[u]] {
			p := g.index[d.PredecessorID]
			if !critical(p) {
				continue
			}
			if next == -1 || times[p].ef > times[next].ef || (times[p].ef == times[next].ef && p < next) {
				next = p
			}
		}
		u = next
	}

	path := make([]string, 0, len(rev))
	for i := len(rev) - 1; i >= 0; i-- {
		path = append(path, rev[i])
	}
	return path
}
