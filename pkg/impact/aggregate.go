package impact

import (
	"math"
	"sort"

	"github.com/dd0wney/linkscope/pkg/topology"
)

// GroupKey is the coarser grouping applied to per-pair records, typically
// origin region to destination region.
type GroupKey struct {
	Src  string
	Dest string
}

// KeyFunc maps a record onto its group.
type KeyFunc func(Record) GroupKey

// GroupSummary is the rolled-up view of one group of flows.
type GroupSummary struct {
	Key   GroupKey
	Flows int
	// Counts holds the number of flows per classification.
	Counts map[Classification]int
	// WorstCostDelta is the signed cost delta of the most affected flow
	// (largest absolute change among flows reachable in both snapshots).
	WorstCostDelta float64
}

// RegionKey groups records by the origin and destination node regions. Nodes
// without a region fall into the empty group.
func RegionKey(nodes []topology.Node) KeyFunc {
	regions := make(map[topology.NodeID]string, len(nodes))
	for _, n := range nodes {
		regions[n.ID] = n.Region
	}
	return func(r Record) GroupKey {
		return GroupKey{Src: regions[r.Src], Dest: regions[r.Dest]}
	}
}

// Aggregate folds records into per-group summaries, ordered by group key.
// It is a pure reduction: the record slice is left untouched.
func Aggregate(records []Record, key KeyFunc) []GroupSummary {
	groups := make(map[GroupKey]*GroupSummary)
	for _, rec := range records {
		k := key(rec)
		g, ok := groups[k]
		if !ok {
			g = &GroupSummary{Key: k, Counts: make(map[Classification]int)}
			groups[k] = g
		}
		g.Flows++
		g.Counts[rec.Classification]++

		if rec.BaselineReachable() && rec.ModifiedReachable() {
			delta := rec.ModifiedCost - rec.BaselineCost
			if math.Abs(delta) > math.Abs(g.WorstCostDelta) {
				g.WorstCostDelta = delta
			}
		}
	}

	out := make([]GroupSummary, 0, len(groups))
	for _, g := range groups {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Key.Src != out[j].Key.Src {
			return out[i].Key.Src < out[j].Key.Src
		}
		return out[i].Key.Dest < out[j].Key.Dest
	})
	return out
}
