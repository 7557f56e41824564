package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dd0wney/linkscope/pkg/impact"
	"github.com/dd0wney/linkscope/pkg/logging"
	"github.com/dd0wney/linkscope/pkg/routing"
	"github.com/dd0wney/linkscope/pkg/topology"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Version:   Version,
		Uptime:    time.Since(s.startTime).String(),
		Timestamp: time.Now(),
	})
}

func (s *Server) handlePaths(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req PathRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	snap, err := topology.NewSnapshot(toNodes(req.Nodes), toEdges(req.Edges), nil)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid topology: %v", err))
		return
	}

	start := time.Now()
	result := routing.FindPath(snap, topology.NodeID(req.Src), topology.NodeID(req.Dest))
	s.metrics.RecordPathComputation(result != nil, result != nil && result.ECMP, time.Since(start))

	s.respondJSON(w, http.StatusOK, pathToResponse(result))
}

func (s *Server) handleImpact(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req ImpactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.Nodes) > s.cfg.Analysis.MaxNodes {
		s.respondError(w, http.StatusBadRequest,
			fmt.Sprintf("topology exceeds %d nodes", s.cfg.Analysis.MaxNodes))
		return
	}

	nodes := toNodes(req.Nodes)
	report, err := s.analyzer.Analyze(
		r.Context(),
		nodes,
		toEdges(req.BaselineEdges),
		toEdges(req.ModifiedEdges),
		regionFilter(nodes, req.HiddenRegions),
		nil,
	)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			// Client went away; nothing useful to write.
			s.logger.Warn("impact analysis abandoned", logging.Error(err))
			return
		}
		s.respondError(w, http.StatusBadRequest, fmt.Sprintf("analysis failed: %v", err))
		return
	}

	resp := ImpactResponse{
		RunID:      report.RunID,
		TotalPairs: report.TotalPairs,
		Duration:   report.Duration.String(),
		Records:    make([]RecordDTO, 0, len(report.Records)),
		Summary:    make([]SummaryDTO, 0),
	}
	for _, rec := range report.Records {
		resp.Records = append(resp.Records, recordToDTO(rec))
	}
	for _, sum := range impact.Aggregate(report.Records, impact.RegionKey(nodes)) {
		resp.Summary = append(resp.Summary, summaryToDTO(sum))
	}
	s.respondJSON(w, http.StatusOK, resp)
}

// Helpers

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("encoding response", logging.Error(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	})
}
