package impact

import (
	"math"

	"github.com/dd0wney/linkscope/pkg/routing"
	"github.com/dd0wney/linkscope/pkg/topology"
)

// Classify diffs one pair's two path results. The priority order matters:
// reachability transitions dominate, then an identical edge set with a moved
// cost, then ECMP migration, then any other edge-set change. A flow whose
// cost and path both change classifies as Rerouted.
func Classify(baseline, modified *routing.PathResult) Classification {
	switch {
	case baseline == nil && modified == nil:
		return Unchanged
	case baseline != nil && modified == nil:
		return LostConnectivity
	case baseline == nil:
		return GainedConnectivity
	}

	sameEdges := routing.SameEdgeSet(baseline, modified)
	switch {
	case sameEdges && baseline.Cost != modified.Cost:
		return CostChanged
	case !sameEdges && modified.ECMP && !baseline.ECMP:
		return MigratedToECMP
	case !sameEdges:
		return Rerouted
	default:
		return Unchanged
	}
}

// newRecord builds the per-pair diff record.
func newRecord(src, dest topology.NodeID, baseline, modified *routing.PathResult) Record {
	rec := Record{
		Src:            src,
		Dest:           dest,
		BaselineCost:   math.Inf(1),
		ModifiedCost:   math.Inf(1),
		BaselineHops:   -1,
		ModifiedHops:   -1,
		Classification: Classify(baseline, modified),
	}
	if baseline != nil {
		rec.BaselineCost = baseline.Cost
		rec.BaselineHops = baseline.Hops()
	}
	if modified != nil {
		rec.ModifiedCost = modified.Cost
		rec.ModifiedHops = modified.Hops()
	}
	return rec
}
