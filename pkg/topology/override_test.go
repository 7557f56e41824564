package topology

import (
	"errors"
	"reflect"
	"testing"
)

func linkEdges() []DirectedEdge {
	return []DirectedEdge{
		{ID: "e1", LinkID: "l1", From: "A", To: "B", Cost: 10},
		{ID: "e2", LinkID: "l1", From: "B", To: "A", Cost: 10},
		{ID: "e3", LinkID: "l2", From: "B", To: "C", Cost: 5},
	}
}

func TestApplyOverride_ForwardOnly(t *testing.T) {
	cost := 25.0
	out, err := ApplyOverride(linkEdges(), CostOverride{LinkID: "l1", ForwardCost: &cost})
	if err != nil {
		t.Fatalf("ApplyOverride failed: %v", err)
	}

	if out[0].Cost != 25 {
		t.Errorf("Expected forward cost 25, got %f", out[0].Cost)
	}
	if out[1].Cost != 10 {
		t.Errorf("Reverse cost should be untouched, got %f", out[1].Cost)
	}
	if out[2].Cost != 5 {
		t.Errorf("Unrelated edge should be untouched, got %f", out[2].Cost)
	}
}

func TestApplyOverride_BothDirections(t *testing.T) {
	fwd, rev := 1.0, 2.0
	out, err := ApplyOverride(linkEdges(), CostOverride{LinkID: "l1", ForwardCost: &fwd, ReverseCost: &rev})
	if err != nil {
		t.Fatalf("ApplyOverride failed: %v", err)
	}

	if out[0].Cost != 1 || out[1].Cost != 2 {
		t.Errorf("Expected costs (1, 2), got (%f, %f)", out[0].Cost, out[1].Cost)
	}
}

func TestApplyOverride_NeverMutatesInput(t *testing.T) {
	baseline := linkEdges()
	snapshot := make([]DirectedEdge, len(baseline))
	copy(snapshot, baseline)

	cost := 99.0
	if _, err := ApplyOverride(baseline, CostOverride{LinkID: "l1", ForwardCost: &cost, ReverseCost: &cost}); err != nil {
		t.Fatalf("ApplyOverride failed: %v", err)
	}

	if !reflect.DeepEqual(baseline, snapshot) {
		t.Errorf("Input slice was mutated: %+v", baseline)
	}
}

func TestApplyOverride_UnknownLink(t *testing.T) {
	cost := 1.0
	_, err := ApplyOverride(linkEdges(), CostOverride{LinkID: "nope", ForwardCost: &cost})
	if !errors.Is(err, ErrUnknownLink) {
		t.Errorf("Expected ErrUnknownLink, got %v", err)
	}
}

func TestWithLink(t *testing.T) {
	baseline := linkEdges()
	out := WithLink(baseline, Link{ID: "l3", A: "A", B: "C", CostAB: 7, CostBA: 9})

	if len(baseline) != 3 {
		t.Fatalf("Input slice grew to %d entries", len(baseline))
	}
	if len(out) != 5 {
		t.Fatalf("Expected 5 edges, got %d", len(out))
	}

	fwd, rev := out[3], out[4]
	if fwd.ID != "l3.fwd" || fwd.From != "A" || fwd.To != "C" || fwd.Cost != 7 {
		t.Errorf("Unexpected forward edge: %+v", fwd)
	}
	if rev.ID != "l3.rev" || rev.From != "C" || rev.To != "A" || rev.Cost != 9 {
		t.Errorf("Unexpected reverse edge: %+v", rev)
	}
	if fwd.LinkID != "l3" || rev.LinkID != "l3" {
		t.Error("Both edges should carry the link ID")
	}
}
