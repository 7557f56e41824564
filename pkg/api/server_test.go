package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dd0wney/linkscope/pkg/config"
	"github.com/dd0wney/linkscope/pkg/logging"
)

func setupTestServer(t *testing.T) *Server {
	t.Helper()
	return NewServer(config.Default(), logging.NewNopLogger())
}

func postJSON(t *testing.T, handler http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("Failed to marshal request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func diamondRequest() PathRequest {
	return PathRequest{
		Src:  "A",
		Dest: "D",
		Nodes: []NodeDTO{
			{ID: "A"}, {ID: "B"}, {ID: "C"}, {ID: "D"},
		},
		Edges: []EdgeDTO{
			{ID: "ab", From: "A", To: "B", Cost: 5},
			{ID: "bd", From: "B", To: "D", Cost: 5},
			{ID: "ac", From: "A", To: "C", Cost: 5},
			{ID: "cd", From: "C", To: "D", Cost: 5},
		},
	}
}

// TestHealthEndpoint tests GET /health
func TestHealthEndpoint(t *testing.T) {
	server := setupTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	server.Routes().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d. Body: %s", rr.Code, rr.Body.String())
	}

	var health HealthResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &health); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if health.Status != "healthy" {
		t.Errorf("Status = %s, want healthy", health.Status)
	}
	if health.Version != Version {
		t.Errorf("Version = %s, want %s", health.Version, Version)
	}
}

// TestPathsEndpoint tests POST /paths with an equal-cost diamond
func TestPathsEndpoint(t *testing.T) {
	server := setupTestServer(t)

	rr := postJSON(t, server.Routes(), "/paths", diamondRequest())
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d. Body: %s", rr.Code, rr.Body.String())
	}

	var resp PathResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}

	if !resp.Found {
		t.Fatal("Expected found=true")
	}
	if resp.Cost == nil || *resp.Cost != 10 {
		t.Errorf("Expected cost 10, got %v", resp.Cost)
	}
	if !resp.ECMP {
		t.Error("Expected ecmp=true")
	}
	if len(resp.EdgeIDs) != 4 {
		t.Errorf("Expected 4 edges in union, got %v", resp.EdgeIDs)
	}
	if len(resp.Wavefront) != 3 {
		t.Errorf("Expected 3 wavefront steps, got %v", resp.Wavefront)
	}
}

// TestPathsEndpoint_NoPath tests that an unreachable pair is a 200, not an
// error.
func TestPathsEndpoint_NoPath(t *testing.T) {
	server := setupTestServer(t)

	req := diamondRequest()
	req.Src, req.Dest = "D", "A" // edges only point toward D

	rr := postJSON(t, server.Routes(), "/paths", req)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d. Body: %s", rr.Code, rr.Body.String())
	}

	var resp PathResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if resp.Found {
		t.Error("Expected found=false")
	}
	if resp.Cost != nil {
		t.Errorf("Expected nil cost, got %v", *resp.Cost)
	}
}

func TestPathsEndpoint_Validation(t *testing.T) {
	server := setupTestServer(t)

	tests := []struct {
		name    string
		mutate  func(*PathRequest)
		rawBody string
	}{
		{name: "missing src", mutate: func(r *PathRequest) { r.Src = "" }},
		{name: "no nodes", mutate: func(r *PathRequest) { r.Nodes = nil }},
		{name: "negative cost", mutate: func(r *PathRequest) { r.Edges[0].Cost = -2 }},
		{name: "malformed body", rawBody: "{not json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rr *httptest.ResponseRecorder
			if tt.rawBody != "" {
				req := httptest.NewRequest(http.MethodPost, "/paths", bytes.NewBufferString(tt.rawBody))
				rr = httptest.NewRecorder()
				server.Routes().ServeHTTP(rr, req)
			} else {
				body := diamondRequest()
				tt.mutate(&body)
				rr = postJSON(t, server.Routes(), "/paths", body)
			}

			if rr.Code != http.StatusBadRequest {
				t.Errorf("Expected status 400, got %d. Body: %s", rr.Code, rr.Body.String())
			}
			var errResp ErrorResponse
			if err := json.Unmarshal(rr.Body.Bytes(), &errResp); err != nil {
				t.Fatalf("Failed to parse error body: %v", err)
			}
			if errResp.Code != http.StatusBadRequest {
				t.Errorf("Error code = %d, want 400", errResp.Code)
			}
		})
	}
}

func TestPathsEndpoint_MethodNotAllowed(t *testing.T) {
	server := setupTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/paths", nil)
	rr := httptest.NewRecorder()
	server.Routes().ServeHTTP(rr, req)

	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected status 405, got %d", rr.Code)
	}
}

// TestImpactEndpoint tests POST /impact end to end over a link re-cost.
func TestImpactEndpoint(t *testing.T) {
	server := setupTestServer(t)

	baseline := []EdgeDTO{
		{ID: "ab", LinkID: "l-ab", From: "A", To: "B", Cost: 5},
		{ID: "ba", LinkID: "l-ab", From: "B", To: "A", Cost: 5},
		{ID: "ac", LinkID: "l-ac", From: "A", To: "C", Cost: 4},
		{ID: "ca", LinkID: "l-ac", From: "C", To: "A", Cost: 4},
		{ID: "cb", LinkID: "l-cb", From: "C", To: "B", Cost: 8},
		{ID: "bc", LinkID: "l-cb", From: "B", To: "C", Cost: 8},
	}
	modified := make([]EdgeDTO, len(baseline))
	copy(modified, baseline)
	modified[0].Cost = 50 // price A->B off the direct link

	body := ImpactRequest{
		Nodes: []NodeDTO{
			{ID: "A", Region: "east"},
			{ID: "B", Region: "west"},
			{ID: "C", Region: "west"},
		},
		BaselineEdges: baseline,
		ModifiedEdges: modified,
	}

	rr := postJSON(t, server.Routes(), "/impact", body)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d. Body: %s", rr.Code, rr.Body.String())
	}

	var resp ImpactResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}

	if resp.TotalPairs != 6 {
		t.Errorf("Expected 6 pairs, got %d", resp.TotalPairs)
	}
	if resp.RunID == "" {
		t.Error("Expected a run ID")
	}
	if len(resp.Records) != 6 {
		t.Fatalf("Expected 6 records, got %d", len(resp.Records))
	}

	var rerouted *RecordDTO
	for i := range resp.Records {
		if resp.Records[i].Src == "A" && resp.Records[i].Dest == "B" {
			rerouted = &resp.Records[i]
		}
	}
	if rerouted == nil {
		t.Fatal("Missing A->B record")
	}
	if rerouted.Classification != "REROUTED" {
		t.Errorf("A->B classification = %s, want REROUTED", rerouted.Classification)
	}
	if rerouted.ModifiedCost == nil || *rerouted.ModifiedCost != 12 {
		t.Errorf("A->B modified cost = %v, want 12", rerouted.ModifiedCost)
	}
	if len(resp.Summary) == 0 {
		t.Error("Expected region summaries")
	}
}

func TestImpactEndpoint_HiddenRegions(t *testing.T) {
	server := setupTestServer(t)

	body := ImpactRequest{
		Nodes: []NodeDTO{
			{ID: "A", Region: "east"},
			{ID: "B", Region: "east"},
			{ID: "C", Region: "west"},
		},
		BaselineEdges: []EdgeDTO{
			{ID: "ab", From: "A", To: "B", Cost: 1},
			{ID: "ba", From: "B", To: "A", Cost: 1},
		},
		ModifiedEdges: []EdgeDTO{
			{ID: "ab", From: "A", To: "B", Cost: 2},
			{ID: "ba", From: "B", To: "A", Cost: 2},
		},
		HiddenRegions: []string{"west"},
	}

	rr := postJSON(t, server.Routes(), "/impact", body)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d. Body: %s", rr.Code, rr.Body.String())
	}

	var resp ImpactResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if resp.TotalPairs != 2 {
		t.Errorf("Expected 2 pairs with west hidden, got %d", resp.TotalPairs)
	}
	for _, rec := range resp.Records {
		if rec.Src == "C" || rec.Dest == "C" {
			t.Errorf("Hidden node C leaked into pair %s->%s", rec.Src, rec.Dest)
		}
	}
}

func TestImpactEndpoint_MaxNodes(t *testing.T) {
	cfg := config.Default()
	cfg.Analysis.MaxNodes = 2
	server := NewServer(cfg, logging.NewNopLogger())

	body := ImpactRequest{
		Nodes: []NodeDTO{{ID: "A"}, {ID: "B"}, {ID: "C"}},
	}

	rr := postJSON(t, server.Routes(), "/impact", body)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d. Body: %s", rr.Code, rr.Body.String())
	}
}

// TestMetricsEndpoint tests that /metrics exposes the engine collectors after
// traffic has flowed.
func TestMetricsEndpoint(t *testing.T) {
	server := setupTestServer(t)
	handler := server.Routes()

	postJSON(t, handler, "/paths", diamondRequest())

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}
	if !bytes.Contains(rr.Body.Bytes(), []byte("linkscope_path_computations_total")) {
		t.Error("Expected path computation metrics in exposition")
	}
}

func TestCORSPreflight(t *testing.T) {
	server := setupTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/paths", nil)
	rr := httptest.NewRecorder()
	server.Routes().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("Expected status 200 for preflight, got %d", rr.Code)
	}
	if rr.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("Expected CORS headers on preflight response")
	}
}
