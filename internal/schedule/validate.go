package schedule

// Acyclicity enforcement. ValidateNewEdge guards every insertion before it
// happens; Validate re-checks a whole graph whenever one is loaded from
// persistence, because stored rows may carry a cycle introduced by a bug or
// race outside this engine's control.

const (
	white = 0 // unvisited
	gray  = 1 // on the current DFS stack
	black = 2 // fully explored, known cycle-free
)

// ValidateNewEdge decides whether adding predecessorID -> successorID would
// close a cycle, without modifying the graph. It fails with
// SelfDependencyError for a self-edge, or CycleError (naming the would-be
// cycle) if predecessorID is reachable from successorID along successor
// edges. O(V+E).
func (g *ProjectGraph) ValidateNewEdge(predecessorID, successorID string) error {
	if predecessorID == successorID {
		return &SelfDependencyError{TaskID: predecessorID}
	}
	// DFS from the successor; reaching the predecessor means the new edge
	// would complete a loop back to its own tail.
	parent := make(map[string]string)
	var dfs func(id string) bool
	dfs = func(id string) bool {
		if id == predecessorID {
			return true
		}
		for _, d := range g.succs[id] {
			next := d.SuccessorID
			if _, seen := parent[next]; seen {
				continue
			}
			parent[next] = id
			if dfs(next) {
				return true
			}
		}
		return false
	}
	parent[successorID] = ""
	if !dfs(successorID) {
		return nil
	}
	// Reconstruct the cycle the edge would create: pred -> succ -> ... -> pred.
	var path []string
	for cur := predecessorID; cur != ""; cur = parent[cur] {
		path = append(path, cur)
		if cur == successorID {
			break
		}
	}
	cycle := make([]string, 0, len(path)+1)
	cycle = append(cycle, predecessorID)
	for i := len(path) - 1; i >= 0; i-- {
		cycle = append(cycle, path[i])
	}
	return &CycleError{Cycle: cycle}
}

// Validate runs a full-graph cycle check using three-color DFS. Traversal
// follows canonical task order, so the reported cycle witness is stable for
// a given graph.
func (g *ProjectGraph) Validate() error {
	color := make([]int, len(g.ids))
	parent := make([]int, len(g.ids))
	for i := range parent {
		parent[i] = -1
	}

	var cycle []int
	var dfs func(u int) bool
	dfs = func(u int) bool {
		color[u] = gray
		for _, d := range g.succs[g.ids[u]] {
			v := g.index[d.SuccessorID]
			switch color[v] {
			case white:
				parent[v] = u
				if dfs(v) {
					return true
				}
			case gray:
				// Back edge u -> v closes a cycle; walk parents back to v.
				for cur := u; cur != -1 && cur != v; cur = parent[cur] {
					cycle = append(cycle, cur)
				}
				cycle = append(cycle, v)
				return true
			}
		}
		color[u] = black
		return false
	}

	for u := range g.ids {
		if color[u] == white && dfs(u) {
			break
		}
	}
	if len(cycle) == 0 {
		return nil
	}
	// cycle was collected walking parents backwards; reverse into edge order
	// and close the loop.
	out := make([]string, 0, len(cycle)+1)
	for i := len(cycle) - 1; i >= 0; i-- {
		out = append(out, g.ids[cycle[i]])
	}
	out = append(out, out[0])
	return &CycleError{Cycle: out}
}
