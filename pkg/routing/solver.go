package routing

import (
	"container/heap"

	"github.com/dd0wney/linkscope/pkg/topology"
)

// predEdge tracks one predecessor node and the edge used to reach the
// current node at its best-known distance. Keeping a set of these per node,
// rather than a single parent, is what makes the solver ECMP-aware.
type predEdge struct {
	node topology.NodeID
	edge topology.EdgeID
}

// queueItem is a priority queue entry. Ties on distance break on node ID so
// that identical inputs always settle nodes in the same order.
type queueItem struct {
	id   topology.NodeID
	dist float64
}

type costQueue []queueItem

func (q costQueue) Len() int { return len(q) }
func (q costQueue) Less(i, j int) bool {
	if q[i].dist != q[j].dist {
		return q[i].dist < q[j].dist
	}
	return q[i].id < q[j].id
}
func (q costQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *costQueue) Push(x any) {
	*q = append(*q, x.(queueItem))
}

func (q *costQueue) Pop() any {
	old := *q
	n := len(old)
	x := old[n-1]
	*q = old[0 : n-1]
	return x
}

// FindPath computes the minimum-cost route from src to dest over the
// snapshot's directed, non-negative-weight adjacency and returns every
// equal-cost path, not just one. A nil result means no path exists; a
// missing or filtered-out endpoint degrades to the same nil result rather
// than an error, so one bad pair never aborts a batch.
func FindPath(snap *topology.Snapshot, src, dest topology.NodeID) *PathResult {
	if !snap.Visible(src) || !snap.Visible(dest) {
		return nil
	}
	if src == dest {
		return &PathResult{
			Cost:          0,
			CanonicalPath: []topology.NodeID{src},
			EdgeIDs:       make(map[topology.EdgeID]struct{}),
			NodeIDs:       map[topology.NodeID]struct{}{src: {}},
			Wavefront:     [][]topology.NodeID{{src}},
		}
	}

	dist := map[topology.NodeID]float64{src: 0}
	preds := make(map[topology.NodeID][]predEdge)
	settled := make(map[topology.NodeID]bool)

	pq := &costQueue{{id: src, dist: 0}}
	heap.Init(pq)

	destSettled := false
	destDist := 0.0

	for pq.Len() > 0 {
		cur := heap.Pop(pq).(queueItem)
		if settled[cur.id] {
			continue
		}
		// Once dest is settled, nodes at the same distance can still feed it
		// equal-cost predecessors over zero-cost edges; anything strictly
		// farther cannot improve or tie, so the loop stops there.
		if destSettled && cur.dist > destDist {
			break
		}
		settled[cur.id] = true
		if cur.id == dest {
			destSettled = true
			destDist = cur.dist
		}

		for _, nb := range snap.Neighbors(cur.id) {
			nd := cur.dist + nb.Cost
			old, seen := dist[nb.To]
			switch {
			case !seen || nd < old:
				// Strict improvement resets the predecessor set.
				dist[nb.To] = nd
				preds[nb.To] = []predEdge{{node: cur.id, edge: nb.EdgeID}}
				heap.Push(pq, queueItem{id: nb.To, dist: nd})
			case nd == old:
				// Equal-cost arrival joins the set instead of being dropped.
				preds[nb.To] = append(preds[nb.To], predEdge{node: cur.id, edge: nb.EdgeID})
			}
		}
	}

	if !destSettled {
		return nil
	}

	nodeSet, edgeSet, forward, multi := collectSubgraph(src, dest, preds)
	return &PathResult{
		Cost:          destDist,
		CanonicalPath: canonicalPath(src, dest, preds),
		EdgeIDs:       edgeSet,
		NodeIDs:       nodeSet,
		ECMP:          multi,
		Wavefront:     wavefront(src, forward),
	}
}

// collectSubgraph walks the predecessor sets back from dest and gathers every
// node and edge touched by any minimum-cost path, plus a forward adjacency of
// that subgraph for wavefront layering. multi is true iff the subgraph holds
// more than one path, i.e. some node has two or more qualifying predecessors.
//
// Zero-cost edges can tie a cycle of nodes at the same distance, which makes
// the raw predecessor sets loop: an edge closing such a cycle satisfies the
// distance equation but lies on no simple minimum-cost path. Those edges are
// pruned here: a predecessor counts only if it reaches src through the
// predecessor graph without passing back through the node it feeds.
func collectSubgraph(src, dest topology.NodeID, preds map[topology.NodeID][]predEdge) (
	nodeSet map[topology.NodeID]struct{},
	edgeSet map[topology.EdgeID]struct{},
	forward map[topology.NodeID][]topology.NodeID,
	multi bool,
) {
	nodeSet = map[topology.NodeID]struct{}{dest: {}}
	edgeSet = make(map[topology.EdgeID]struct{})
	forward = make(map[topology.NodeID][]topology.NodeID)

	stack := []topology.NodeID{dest}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		valid := 0
		for _, p := range preds[n] {
			if !reachesWithout(p.node, n, src, preds) {
				continue
			}
			valid++
			edgeSet[p.edge] = struct{}{}
			forward[p.node] = append(forward[p.node], n)
			if _, seen := nodeSet[p.node]; !seen {
				nodeSet[p.node] = struct{}{}
				stack = append(stack, p.node)
			}
		}
		if valid > 1 {
			multi = true
		}
	}
	return nodeSet, edgeSet, forward, multi
}

// reachesWithout reports whether from can reach src through the predecessor
// graph without visiting skip. Predecessor chains may loop over zero-cost
// cycles, so the walk carries a visited set.
func reachesWithout(from, skip, src topology.NodeID, preds map[topology.NodeID][]predEdge) bool {
	if from == src {
		return true
	}
	if from == skip {
		return false
	}

	visited := map[topology.NodeID]struct{}{from: {}, skip: {}}
	stack := []topology.NodeID{from}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for _, p := range preds[n] {
			if p.node == src {
				return true
			}
			if _, seen := visited[p.node]; seen {
				continue
			}
			visited[p.node] = struct{}{}
			stack = append(stack, p.node)
		}
	}
	return false
}

// canonicalPath follows each node's first-discovered predecessor from dest
// back to src. Discovery order is deterministic, so the representative path
// is reproducible across runs.
func canonicalPath(src, dest topology.NodeID, preds map[topology.NodeID][]predEdge) []topology.NodeID {
	path := []topology.NodeID{dest}
	for n := dest; n != src; {
		n = preds[n][0].node
		path = append(path, n)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
