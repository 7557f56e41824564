package api

import (
	"time"

	"github.com/dd0wney/linkscope/pkg/impact"
	"github.com/dd0wney/linkscope/pkg/routing"
	"github.com/dd0wney/linkscope/pkg/topology"
)

// NodeDTO is the wire form of a topology node. Visible defaults to true when
// omitted.
type NodeDTO struct {
	ID      string `json:"id" validate:"required"`
	Region  string `json:"region,omitempty"`
	Visible *bool  `json:"visible,omitempty"`
}

// EdgeDTO is the wire form of a directed edge.
type EdgeDTO struct {
	ID     string  `json:"id" validate:"required"`
	LinkID string  `json:"link_id,omitempty"`
	From   string  `json:"from" validate:"required"`
	To     string  `json:"to" validate:"required"`
	Cost   float64 `json:"cost" validate:"gte=0"`
}

// PathRequest asks for the shortest path(s) of one ordered pair.
type PathRequest struct {
	Src   string    `json:"src" validate:"required"`
	Dest  string    `json:"dest" validate:"required"`
	Nodes []NodeDTO `json:"nodes" validate:"required,min=1,dive"`
	Edges []EdgeDTO `json:"edges" validate:"dive"`
}

// PathResponse carries one pair's result. Found=false means no path, which
// is a normal outcome rather than an error.
type PathResponse struct {
	Found         bool       `json:"found"`
	Cost          *float64   `json:"cost,omitempty"`
	CanonicalPath []string   `json:"canonical_path,omitempty"`
	EdgeIDs       []string   `json:"edge_ids,omitempty"`
	NodeIDs       []string   `json:"node_ids,omitempty"`
	ECMP          bool       `json:"ecmp"`
	Wavefront     [][]string `json:"wavefront,omitempty"`
}

// ImpactRequest asks for a blast-radius analysis of a proposed change.
type ImpactRequest struct {
	Nodes         []NodeDTO `json:"nodes" validate:"required,min=1,dive"`
	BaselineEdges []EdgeDTO `json:"baseline_edges" validate:"dive"`
	ModifiedEdges []EdgeDTO `json:"modified_edges" validate:"dive"`
	// HiddenRegions is applied as a visibility filter on top of each node's
	// visible flag, mirroring the display-side region toggles.
	HiddenRegions []string `json:"hidden_regions,omitempty"`
}

// RecordDTO is the wire form of one impact record. Nil costs mean the pair
// is unreachable in that snapshot.
type RecordDTO struct {
	Src            string   `json:"src"`
	Dest           string   `json:"dest"`
	BaselineCost   *float64 `json:"baseline_cost"`
	ModifiedCost   *float64 `json:"modified_cost"`
	BaselineHops   int      `json:"baseline_hops"`
	ModifiedHops   int      `json:"modified_hops"`
	Classification string   `json:"classification"`
}

// SummaryDTO is the wire form of one aggregated group.
type SummaryDTO struct {
	SrcRegion      string         `json:"src_region"`
	DestRegion     string         `json:"dest_region"`
	Flows          int            `json:"flows"`
	Counts         map[string]int `json:"counts"`
	WorstCostDelta float64        `json:"worst_cost_delta"`
}

// ImpactResponse carries the full analysis outcome.
type ImpactResponse struct {
	RunID      string       `json:"run_id"`
	TotalPairs int          `json:"total_pairs"`
	Duration   string       `json:"duration"`
	Records    []RecordDTO  `json:"records"`
	Summary    []SummaryDTO `json:"summary"`
}

// HealthResponse reports service liveness.
type HealthResponse struct {
	Status    string    `json:"status"`
	Version   string    `json:"version"`
	Uptime    string    `json:"uptime"`
	Timestamp time.Time `json:"timestamp"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// Wire conversions

func toNodes(dtos []NodeDTO) []topology.Node {
	nodes := make([]topology.Node, 0, len(dtos))
	for _, dto := range dtos {
		visible := true
		if dto.Visible != nil {
			visible = *dto.Visible
		}
		nodes = append(nodes, topology.Node{
			ID:      topology.NodeID(dto.ID),
			Region:  dto.Region,
			Visible: visible,
		})
	}
	return nodes
}

func toEdges(dtos []EdgeDTO) []topology.DirectedEdge {
	edges := make([]topology.DirectedEdge, 0, len(dtos))
	for _, dto := range dtos {
		edges = append(edges, topology.DirectedEdge{
			ID:     topology.EdgeID(dto.ID),
			LinkID: dto.LinkID,
			From:   topology.NodeID(dto.From),
			To:     topology.NodeID(dto.To),
			Cost:   dto.Cost,
		})
	}
	return edges
}

func regionFilter(nodes []topology.Node, hidden []string) topology.VisibilityFilter {
	if len(hidden) == 0 {
		return nil
	}
	hiddenSet := make(map[string]struct{}, len(hidden))
	for _, region := range hidden {
		hiddenSet[region] = struct{}{}
	}
	regions := make(map[topology.NodeID]string, len(nodes))
	for _, n := range nodes {
		regions[n.ID] = n.Region
	}
	return func(id topology.NodeID) bool {
		_, isHidden := hiddenSet[regions[id]]
		return !isHidden
	}
}

func pathToResponse(result *routing.PathResult) PathResponse {
	if result == nil {
		return PathResponse{Found: false}
	}

	cost := result.Cost
	resp := PathResponse{
		Found:         true,
		Cost:          &cost,
		CanonicalPath: make([]string, 0, len(result.CanonicalPath)),
		EdgeIDs:       make([]string, 0, len(result.EdgeIDs)),
		NodeIDs:       make([]string, 0, len(result.NodeIDs)),
		ECMP:          result.ECMP,
		Wavefront:     make([][]string, 0, len(result.Wavefront)),
	}
	for _, id := range result.CanonicalPath {
		resp.CanonicalPath = append(resp.CanonicalPath, string(id))
	}
	for _, id := range result.SortedEdgeIDs() {
		resp.EdgeIDs = append(resp.EdgeIDs, string(id))
	}
	for _, id := range result.SortedNodeIDs() {
		resp.NodeIDs = append(resp.NodeIDs, string(id))
	}
	for _, step := range result.Wavefront {
		layer := make([]string, 0, len(step))
		for _, id := range step {
			layer = append(layer, string(id))
		}
		resp.Wavefront = append(resp.Wavefront, layer)
	}
	return resp
}

func recordToDTO(rec impact.Record) RecordDTO {
	dto := RecordDTO{
		Src:            string(rec.Src),
		Dest:           string(rec.Dest),
		BaselineHops:   rec.BaselineHops,
		ModifiedHops:   rec.ModifiedHops,
		Classification: string(rec.Classification),
	}
	if rec.BaselineReachable() {
		cost := rec.BaselineCost
		dto.BaselineCost = &cost
	}
	if rec.ModifiedReachable() {
		cost := rec.ModifiedCost
		dto.ModifiedCost = &cost
	}
	return dto
}

func summaryToDTO(sum impact.GroupSummary) SummaryDTO {
	counts := make(map[string]int, len(sum.Counts))
	for c, n := range sum.Counts {
		counts[string(c)] = n
	}
	return SummaryDTO{
		SrcRegion:      sum.Key.Src,
		DestRegion:     sum.Key.Dest,
		Flows:          sum.Flows,
		Counts:         counts,
		WorstCostDelta: sum.WorstCostDelta,
	}
}
