package routing

import (
	"sort"

	"github.com/dd0wney/linkscope/pkg/topology"
)

// wavefront derives the animation ordering for a shortest-path subgraph:
// breadth-first layers from src over the forward adjacency, each layer sorted
// by node ID. The sequence depends only on the subgraph, never on wall-clock
// timing, so a consumer can replay it step by step.
func wavefront(src topology.NodeID, forward map[topology.NodeID][]topology.NodeID) [][]topology.NodeID {
	steps := [][]topology.NodeID{{src}}
	visited := map[topology.NodeID]struct{}{src: {}}

	frontier := []topology.NodeID{src}
	for len(frontier) > 0 {
		var next []topology.NodeID
		for _, n := range frontier {
			for _, to := range forward[n] {
				if _, seen := visited[to]; seen {
					continue
				}
				visited[to] = struct{}{}
				next = append(next, to)
			}
		}
		if len(next) == 0 {
			break
		}
		sort.Slice(next, func(i, j int) bool { return next[i] < next[j] })
		steps = append(steps, next)
		frontier = next
	}
	return steps
}
