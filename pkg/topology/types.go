package topology

// NodeID identifies a router in the topology.
type NodeID string

// EdgeID identifies a single directed edge.
type EdgeID string

// Node is a router in the topology. Visibility is a display-driven filter
// condition: an invisible node is excluded from pathfinding entirely, along
// with every edge touching it.
type Node struct {
	ID      NodeID `json:"id" yaml:"id" validate:"required"`
	Region  string `json:"region,omitempty" yaml:"region,omitempty"`
	Visible bool   `json:"visible" yaml:"visible"`
}

// DirectedEdge is one direction of a physical link. An undirected link is
// modeled as two DirectedEdges sharing a LinkID, and the two directions may
// carry different costs (asymmetric routing is intentional, not a defect).
type DirectedEdge struct {
	ID     EdgeID  `json:"id" yaml:"id" validate:"required"`
	LinkID string  `json:"link_id,omitempty" yaml:"link_id,omitempty"`
	From   NodeID  `json:"from" yaml:"from" validate:"required"`
	To     NodeID  `json:"to" yaml:"to" validate:"required"`
	Cost   float64 `json:"cost" yaml:"cost" validate:"gte=0"`
}

// Neighbor is one adjacency entry: a reachable node, the cost to get there,
// and the edge that carries the traffic.
type Neighbor struct {
	To     NodeID
	Cost   float64
	EdgeID EdgeID
}

// VisibilityFilter decides whether a node participates in pathfinding.
// A nil filter admits every node whose Visible flag is set.
type VisibilityFilter func(NodeID) bool
