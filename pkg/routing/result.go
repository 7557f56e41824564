package routing

import (
	"sort"

	"github.com/dd0wney/linkscope/pkg/topology"
)

// PathResult describes every minimum-cost path between one ordered pair.
// A nil *PathResult means no path exists; callers branch on that rather than
// on an error.
type PathResult struct {
	// Cost is the minimum total cost from src to dest.
	Cost float64
	// CanonicalPath is one deterministic representative path, used for
	// display labeling. It is not "the" path when ECMP is true.
	CanonicalPath []topology.NodeID
	// EdgeIDs is the union of edges on every minimum-cost path.
	EdgeIDs map[topology.EdgeID]struct{}
	// NodeIDs is the union of nodes on every minimum-cost path.
	NodeIDs map[topology.NodeID]struct{}
	// ECMP is true iff more than one minimum-cost path exists.
	ECMP bool
	// Wavefront holds breadth-first layers of the shortest-path subgraph
	// from src: step k contains the nodes first reached at k subgraph-edges.
	// The ordering is deterministic and replayable.
	Wavefront [][]topology.NodeID
}

// Hops returns the number of edges on the canonical path.
func (r *PathResult) Hops() int {
	if r == nil {
		return -1
	}
	return len(r.CanonicalPath) - 1
}

// SortedEdgeIDs returns the involved edge IDs in ascending order.
func (r *PathResult) SortedEdgeIDs() []topology.EdgeID {
	ids := make([]topology.EdgeID, 0, len(r.EdgeIDs))
	for id := range r.EdgeIDs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// SortedNodeIDs returns the involved node IDs in ascending order.
func (r *PathResult) SortedNodeIDs() []topology.NodeID {
	ids := make([]topology.NodeID, 0, len(r.NodeIDs))
	for id := range r.NodeIDs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// SameEdgeSet reports whether two results involve exactly the same edges.
func SameEdgeSet(a, b *PathResult) bool {
	if a == nil || b == nil {
		return a == b
	}
	if len(a.EdgeIDs) != len(b.EdgeIDs) {
		return false
	}
	for id := range a.EdgeIDs {
		if _, ok := b.EdgeIDs[id]; !ok {
			return false
		}
	}
	return true
}
