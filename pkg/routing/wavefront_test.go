package routing

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/dd0wney/linkscope/pkg/topology"
)

func TestWavefront_DiamondLayers(t *testing.T) {
	snap := buildSnapshot(t, []topology.NodeID{"A", "B", "C", "D", "E"}, []topology.DirectedEdge{
		{ID: "ab", From: "A", To: "B", Cost: 2},
		{ID: "ac", From: "A", To: "C", Cost: 2},
		{ID: "bd", From: "B", To: "D", Cost: 2},
		{ID: "cd", From: "C", To: "D", Cost: 2},
		{ID: "de", From: "D", To: "E", Cost: 1},
	})

	result := FindPath(snap, "A", "E")
	if result == nil {
		t.Fatal("Expected a result")
	}

	want := [][]topology.NodeID{{"A"}, {"B", "C"}, {"D"}, {"E"}}
	if !reflect.DeepEqual(result.Wavefront, want) {
		t.Errorf("Expected wavefront %v, got %v", want, result.Wavefront)
	}
}

func TestWavefront_SingleNode(t *testing.T) {
	snap := buildSnapshot(t, []topology.NodeID{"A"}, nil)

	result := FindPath(snap, "A", "A")
	if result == nil {
		t.Fatal("Expected a result")
	}
	want := [][]topology.NodeID{{"A"}}
	if !reflect.DeepEqual(result.Wavefront, want) {
		t.Errorf("Expected wavefront %v, got %v", want, result.Wavefront)
	}
}

// TestWavefront_Golden pins the serialized animation sequence so accidental
// ordering changes show up as a readable diff.
func TestWavefront_Golden(t *testing.T) {
	snap := buildSnapshot(t, []topology.NodeID{"A", "B", "C", "D", "E"}, []topology.DirectedEdge{
		{ID: "ab", From: "A", To: "B", Cost: 2},
		{ID: "ac", From: "A", To: "C", Cost: 2},
		{ID: "bd", From: "B", To: "D", Cost: 2},
		{ID: "cd", From: "C", To: "D", Cost: 2},
		{ID: "de", From: "D", To: "E", Cost: 1},
	})

	result := FindPath(snap, "A", "E")
	if result == nil {
		t.Fatal("Expected a result")
	}

	data, err := json.MarshalIndent(result.Wavefront, "", "  ")
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	g := goldie.New(t)
	g.Assert(t, "wavefront_diamond", data)
}
