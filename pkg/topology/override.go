package topology

import "fmt"

// CostOverride describes a proposed cost change to one logical link. The
// forward direction is the first edge carrying the LinkID in slice order,
// the reverse direction the second; a nil cost leaves that direction alone.
type CostOverride struct {
	LinkID      string
	ForwardCost *float64
	ReverseCost *float64
}

// Link is a candidate bidirectional link to insert: two directed edges with
// independent costs.
type Link struct {
	ID     string
	A, B   NodeID
	CostAB float64
	CostBA float64
}

// ApplyOverride returns a new edge slice with the override applied. The
// input slice is never mutated: solvers must only ever observe fully-built
// snapshots, so a proposed change is always expressed as a fresh edge list.
func ApplyOverride(edges []DirectedEdge, ov CostOverride) ([]DirectedEdge, error) {
	out := make([]DirectedEdge, len(edges))
	copy(out, edges)

	matched := 0
	for i := range out {
		if out[i].LinkID != ov.LinkID {
			continue
		}
		switch matched {
		case 0:
			if ov.ForwardCost != nil {
				out[i].Cost = *ov.ForwardCost
			}
		case 1:
			if ov.ReverseCost != nil {
				out[i].Cost = *ov.ReverseCost
			}
		}
		matched++
	}
	if matched == 0 {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLink, ov.LinkID)
	}
	return out, nil
}

// WithLink returns a new edge slice extended with the two directed edges of
// a candidate link. Edge IDs are derived from the link ID.
func WithLink(edges []DirectedEdge, link Link) []DirectedEdge {
	out := make([]DirectedEdge, len(edges), len(edges)+2)
	copy(out, edges)

	out = append(out,
		DirectedEdge{
			ID:     EdgeID(link.ID + ".fwd"),
			LinkID: link.ID,
			From:   link.A,
			To:     link.B,
			Cost:   link.CostAB,
		},
		DirectedEdge{
			ID:     EdgeID(link.ID + ".rev"),
			LinkID: link.ID,
			From:   link.B,
			To:     link.A,
			Cost:   link.CostBA,
		},
	)
	return out
}
