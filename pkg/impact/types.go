package impact

import (
	"encoding/json"
	"math"
	"time"

	"github.com/dd0wney/linkscope/pkg/topology"
)

// Classification describes how a proposed change affects one flow.
type Classification string

const (
	// Unchanged means cost and path are identical (or no flow exists in
	// either snapshot).
	Unchanged Classification = "UNCHANGED"
	// CostChanged means the path kept its exact edge set but total cost moved.
	CostChanged Classification = "COST_CHANGED"
	// Rerouted means the flow now takes a different edge set.
	Rerouted Classification = "REROUTED"
	// MigratedToECMP means the flow changed edge set and became multi-path.
	MigratedToECMP Classification = "MIGRATED_TO_ECMP"
	// LostConnectivity means the flow existed in the baseline only.
	LostConnectivity Classification = "LOST_CONNECTIVITY"
	// GainedConnectivity means the flow exists in the modified snapshot only.
	GainedConnectivity Classification = "GAINED_CONNECTIVITY"
)

// Record is the diff of one ordered pair's baseline and modified path
// results. Costs are math.Inf(1) and hops -1 when the pair is unreachable.
type Record struct {
	Src            topology.NodeID
	Dest           topology.NodeID
	BaselineCost   float64
	ModifiedCost   float64
	BaselineHops   int
	ModifiedHops   int
	Classification Classification
}

// BaselineReachable reports whether the flow existed before the change.
func (r Record) BaselineReachable() bool {
	return !math.IsInf(r.BaselineCost, 1)
}

// ModifiedReachable reports whether the flow exists after the change.
func (r Record) ModifiedReachable() bool {
	return !math.IsInf(r.ModifiedCost, 1)
}

// recordJSON is the wire shape of a Record. Infinite costs are not valid
// JSON, so unreachable pairs render null costs instead.
type recordJSON struct {
	Src            topology.NodeID `json:"src"`
	Dest           topology.NodeID `json:"dest"`
	BaselineCost   *float64        `json:"baseline_cost"`
	ModifiedCost   *float64        `json:"modified_cost"`
	BaselineHops   int             `json:"baseline_hops"`
	ModifiedHops   int             `json:"modified_hops"`
	Classification Classification  `json:"classification"`
}

// MarshalJSON implements json.Marshaler.
func (r Record) MarshalJSON() ([]byte, error) {
	out := recordJSON{
		Src:            r.Src,
		Dest:           r.Dest,
		BaselineHops:   r.BaselineHops,
		ModifiedHops:   r.ModifiedHops,
		Classification: r.Classification,
	}
	if r.BaselineReachable() {
		cost := r.BaselineCost
		out.BaselineCost = &cost
	}
	if r.ModifiedReachable() {
		cost := r.ModifiedCost
		out.ModifiedCost = &cost
	}
	return json.Marshal(out)
}

// Report is the outcome of one full impact analysis run.
type Report struct {
	RunID      string
	Records    []Record
	TotalPairs int
	Duration   time.Duration
}

// MarshalJSON implements json.Marshaler. The wire shape matches the HTTP
// API's casing, with the duration rendered human-readable.
func (r Report) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		RunID      string   `json:"run_id"`
		TotalPairs int      `json:"total_pairs"`
		Duration   string   `json:"duration"`
		Records    []Record `json:"records"`
	}{
		RunID:      r.RunID,
		TotalPairs: r.TotalPairs,
		Duration:   r.Duration.String(),
		Records:    r.Records,
	})
}
