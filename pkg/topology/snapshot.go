package topology

import (
	"fmt"
	"sort"

	"github.com/go-playground/validator/v10"
)

// validate is a singleton validator for boundary checks on nodes and edges.
var validate = validator.New()

// Snapshot is an immutable view of the topology prepared for pathfinding.
// The adjacency list contains only edges whose both endpoints are visible:
// filtering nodes without filtering their edges silently permits paths
// through hidden routers, so both are filtered together here.
type Snapshot struct {
	nodes     map[NodeID]Node
	adjacency map[NodeID][]Neighbor
	visible   []NodeID
	visSet    map[NodeID]struct{}
}

// NewSnapshot validates the node/edge universe and builds the adjacency
// structure the solver consumes. Structural problems (duplicate IDs, unknown
// endpoints, negative costs) are caller bugs and are rejected here so the
// solver stays free of defensive branching. The filter, if non-nil, is
// applied on top of each node's Visible flag.
func NewSnapshot(nodes []Node, edges []DirectedEdge, filter VisibilityFilter) (*Snapshot, error) {
	s := &Snapshot{
		nodes:     make(map[NodeID]Node, len(nodes)),
		adjacency: make(map[NodeID][]Neighbor, len(nodes)),
		visSet:    make(map[NodeID]struct{}, len(nodes)),
	}

	for _, node := range nodes {
		if err := validate.Struct(node); err != nil {
			return nil, fmt.Errorf("node %q: %w", node.ID, err)
		}
		if _, exists := s.nodes[node.ID]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateNode, node.ID)
		}
		s.nodes[node.ID] = node
	}

	seenEdges := make(map[EdgeID]struct{}, len(edges))
	for _, edge := range edges {
		if err := validate.Struct(edge); err != nil {
			if edge.Cost < 0 {
				return nil, fmt.Errorf("%w: edge %q has cost %v", ErrInvalidCost, edge.ID, edge.Cost)
			}
			return nil, fmt.Errorf("edge %q: %w", edge.ID, err)
		}
		if _, dup := seenEdges[edge.ID]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateEdge, edge.ID)
		}
		seenEdges[edge.ID] = struct{}{}

		if _, ok := s.nodes[edge.From]; !ok {
			return nil, fmt.Errorf("%w: edge %q from %q", ErrUnknownEndpoint, edge.ID, edge.From)
		}
		if _, ok := s.nodes[edge.To]; !ok {
			return nil, fmt.Errorf("%w: edge %q to %q", ErrUnknownEndpoint, edge.ID, edge.To)
		}

		// Both endpoints must be visible for the edge to exist at all.
		if !s.nodeVisible(edge.From, filter) || !s.nodeVisible(edge.To, filter) {
			continue
		}
		s.adjacency[edge.From] = append(s.adjacency[edge.From], Neighbor{
			To:     edge.To,
			Cost:   edge.Cost,
			EdgeID: edge.ID,
		})
	}

	for _, node := range nodes {
		if s.nodeVisible(node.ID, filter) {
			s.visible = append(s.visible, node.ID)
			s.visSet[node.ID] = struct{}{}
		}
	}
	sort.Slice(s.visible, func(i, j int) bool { return s.visible[i] < s.visible[j] })

	return s, nil
}

func (s *Snapshot) nodeVisible(id NodeID, filter VisibilityFilter) bool {
	node, ok := s.nodes[id]
	if !ok || !node.Visible {
		return false
	}
	return filter == nil || filter(id)
}

// Visible reports whether the node participates in pathfinding.
func (s *Snapshot) Visible(id NodeID) bool {
	_, ok := s.visSet[id]
	return ok
}

// Node returns the node record, if present in the universe.
func (s *Snapshot) Node(id NodeID) (Node, bool) {
	node, ok := s.nodes[id]
	return node, ok
}

// Neighbors returns the outgoing adjacency of a node, in the order the edges
// were supplied. The returned slice must not be modified.
func (s *Snapshot) Neighbors(id NodeID) []Neighbor {
	return s.adjacency[id]
}

// VisibleNodes returns the visible node IDs in ascending order. The returned
// slice must not be modified.
func (s *Snapshot) VisibleNodes() []NodeID {
	return s.visible
}
