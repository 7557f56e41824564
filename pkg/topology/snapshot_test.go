package topology

import (
	"errors"
	"testing"
)

func testNodes(ids ...NodeID) []Node {
	nodes := make([]Node, 0, len(ids))
	for _, id := range ids {
		nodes = append(nodes, Node{ID: id, Visible: true})
	}
	return nodes
}

func TestNewSnapshot_Adjacency(t *testing.T) {
	nodes := testNodes("A", "B", "C")
	edges := []DirectedEdge{
		{ID: "e1", From: "A", To: "B", Cost: 5},
		{ID: "e2", From: "B", To: "C", Cost: 3},
		{ID: "e3", From: "A", To: "C", Cost: 10},
	}

	snap, err := NewSnapshot(nodes, edges, nil)
	if err != nil {
		t.Fatalf("NewSnapshot failed: %v", err)
	}

	neighbors := snap.Neighbors("A")
	if len(neighbors) != 2 {
		t.Fatalf("Expected 2 neighbors of A, got %d", len(neighbors))
	}
	if neighbors[0].To != "B" || neighbors[0].Cost != 5 || neighbors[0].EdgeID != "e1" {
		t.Errorf("Unexpected first neighbor: %+v", neighbors[0])
	}
	if neighbors[1].To != "C" {
		t.Errorf("Expected second neighbor C, got %s", neighbors[1].To)
	}
}

func TestNewSnapshot_HiddenNodeRemovesEdges(t *testing.T) {
	// Hiding a node must atomically remove every edge touching it: filtering
	// nodes without filtering edges would silently permit paths through
	// hidden routers.
	nodes := []Node{
		{ID: "A", Visible: true},
		{ID: "B", Visible: false},
		{ID: "C", Visible: true},
	}
	edges := []DirectedEdge{
		{ID: "e1", From: "A", To: "B", Cost: 1},
		{ID: "e2", From: "B", To: "C", Cost: 1},
		{ID: "e3", From: "A", To: "C", Cost: 100},
	}

	snap, err := NewSnapshot(nodes, edges, nil)
	if err != nil {
		t.Fatalf("NewSnapshot failed: %v", err)
	}

	if snap.Visible("B") {
		t.Error("B should not be visible")
	}
	neighbors := snap.Neighbors("A")
	if len(neighbors) != 1 || neighbors[0].To != "C" {
		t.Errorf("Expected A's only neighbor to be C, got %+v", neighbors)
	}
	if len(snap.Neighbors("B")) != 0 {
		t.Errorf("Hidden node B must have no adjacency, got %+v", snap.Neighbors("B"))
	}
}

func TestNewSnapshot_FilterAppliesOnTopOfVisibleFlag(t *testing.T) {
	nodes := testNodes("A", "B", "C")
	edges := []DirectedEdge{
		{ID: "e1", From: "A", To: "B", Cost: 1},
		{ID: "e2", From: "A", To: "C", Cost: 1},
	}

	snap, err := NewSnapshot(nodes, edges, func(id NodeID) bool { return id != "C" })
	if err != nil {
		t.Fatalf("NewSnapshot failed: %v", err)
	}

	if snap.Visible("C") {
		t.Error("C should be filtered out")
	}
	visible := snap.VisibleNodes()
	if len(visible) != 2 || visible[0] != "A" || visible[1] != "B" {
		t.Errorf("Expected visible nodes [A B], got %v", visible)
	}
	neighbors := snap.Neighbors("A")
	if len(neighbors) != 1 || neighbors[0].To != "B" {
		t.Errorf("Expected edge to C filtered, got %+v", neighbors)
	}
}

func TestNewSnapshot_DuplicateNode(t *testing.T) {
	nodes := []Node{{ID: "A", Visible: true}, {ID: "A", Visible: true}}

	_, err := NewSnapshot(nodes, nil, nil)
	if !errors.Is(err, ErrDuplicateNode) {
		t.Errorf("Expected ErrDuplicateNode, got %v", err)
	}
}

func TestNewSnapshot_DuplicateEdge(t *testing.T) {
	nodes := testNodes("A", "B")
	edges := []DirectedEdge{
		{ID: "e1", From: "A", To: "B", Cost: 1},
		{ID: "e1", From: "B", To: "A", Cost: 1},
	}

	_, err := NewSnapshot(nodes, edges, nil)
	if !errors.Is(err, ErrDuplicateEdge) {
		t.Errorf("Expected ErrDuplicateEdge, got %v", err)
	}
}

func TestNewSnapshot_NegativeCost(t *testing.T) {
	nodes := testNodes("A", "B")
	edges := []DirectedEdge{{ID: "e1", From: "A", To: "B", Cost: -1}}

	_, err := NewSnapshot(nodes, edges, nil)
	if !errors.Is(err, ErrInvalidCost) {
		t.Errorf("Expected ErrInvalidCost, got %v", err)
	}
}

func TestNewSnapshot_UnknownEndpoint(t *testing.T) {
	nodes := testNodes("A")
	edges := []DirectedEdge{{ID: "e1", From: "A", To: "Z", Cost: 1}}

	_, err := NewSnapshot(nodes, edges, nil)
	if !errors.Is(err, ErrUnknownEndpoint) {
		t.Errorf("Expected ErrUnknownEndpoint, got %v", err)
	}
}

func TestNewSnapshot_ZeroCostAllowed(t *testing.T) {
	nodes := testNodes("A", "B")
	edges := []DirectedEdge{{ID: "e1", From: "A", To: "B", Cost: 0}}

	if _, err := NewSnapshot(nodes, edges, nil); err != nil {
		t.Errorf("Zero cost should be valid, got %v", err)
	}
}
