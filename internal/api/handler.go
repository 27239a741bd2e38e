package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/kalambet/wingru/internal/compat"
)

const (
	maxRequestBodySize = 1 << 20 // 1MB
	maxBatchCandidates = 100
)

// Analyzer is the part of compat.Scorer the API needs.
type Analyzer interface {
	Score(ctx context.Context, a, b compat.Profile) compat.Result
	ScoreAll(ctx context.Context, self compat.Profile, candidates []compat.Profile) ([]compat.Result, error)
}

// PairRequest is the body of the single-pair endpoints.
type PairRequest struct {
	UserA compat.Profile `json:"userA"`
	UserB compat.Profile `json:"userB"`
}

// BatchRequest is the body of the batch and rank endpoints.
type BatchRequest struct {
	Self       compat.Profile   `json:"self"`
	Candidates []compat.Profile `json:"candidates"`
}

// AnalysisResponse is a Result tagged with a fresh analysis ID and its radar
// breakdown.
type AnalysisResponse struct {
	compat.Result `yaml:",inline"`

	AnalysisID string             `json:"analysis_id" yaml:"analysis_id"`
	Dimensions []compat.Dimension `json:"dimensions" yaml:"dimensions"`
}

// QuickResponse carries only the overall score.
type QuickResponse struct {
	Overall int `json:"overall" yaml:"overall"`
}

// BatchResponse holds results index-aligned with the request candidates.
type BatchResponse struct {
	Results []AnalysisResponse `json:"results" yaml:"results"`
}

// RankResponse holds candidates ordered by quick score, highest first.
type RankResponse struct {
	Ranked []compat.Ranked `json:"ranked" yaml:"ranked"`
}

// NewHandler returns an http.Handler serving the compatibility REST API.
func NewHandler(a Analyzer) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", handleHealth)
	r.Post("/v1/compatibility", handleAnalyze(a))
	r.Post("/v1/compatibility/quick", handleQuick)
	r.Post("/v1/compatibility/batch", handleBatch(a))
	r.Post("/v1/compatibility/rank", handleRank)

	return r
}

// NewAnalysis wraps r with a fresh analysis ID and its radar breakdown.
func NewAnalysis(r compat.Result) AnalysisResponse {
	return AnalysisResponse{
		AnalysisID: uuid.New().String(),
		Result:     r,
		Dimensions: r.Dimensions(),
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func handleAnalyze(a Analyzer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PairRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if err := validatePair(req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "%v", err)
			return
		}

		resp := NewAnalysis(a.Score(r.Context(), req.UserA, req.UserB))
		slog.Debug("compatibility analysis served",
			"analysis_id", resp.AnalysisID,
			"source", resp.Source,
			"overall", resp.Overall,
		)
		writeJSON(w, resp)
	}
}

func handleQuick(w http.ResponseWriter, r *http.Request) {
	var req PairRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := validatePair(req); err != nil {
		httpError(w, http.StatusBadRequest, "invalid_request_error", "%v", err)
		return
	}
	writeJSON(w, QuickResponse{Overall: compat.QuickScore(req.UserA, req.UserB)})
}

func handleBatch(a Analyzer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req BatchRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if err := validateBatch(req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "%v", err)
			return
		}

		results, err := a.ScoreAll(r.Context(), req.Self, req.Candidates)
		if err != nil {
			httpError(w, http.StatusServiceUnavailable, "api_error", "batch aborted: %v", err)
			return
		}

		resp := BatchResponse{Results: make([]AnalysisResponse, len(results))}
		for i, res := range results {
			resp.Results[i] = NewAnalysis(res)
		}
		writeJSON(w, resp)
	}
}

func handleRank(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := validateBatch(req); err != nil {
		httpError(w, http.StatusBadRequest, "invalid_request_error", "%v", err)
		return
	}
	writeJSON(w, RankResponse{Ranked: compat.Rank(req.Self, req.Candidates)})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
		return false
	}
	return true
}

func validatePair(req PairRequest) error {
	if strings.TrimSpace(req.UserA.Name) == "" {
		return fmt.Errorf("userA.name is required")
	}
	if strings.TrimSpace(req.UserB.Name) == "" {
		return fmt.Errorf("userB.name is required")
	}
	return nil
}

func validateBatch(req BatchRequest) error {
	if strings.TrimSpace(req.Self.Name) == "" {
		return fmt.Errorf("self.name is required")
	}
	if len(req.Candidates) == 0 {
		return fmt.Errorf("candidates is required and must not be empty")
	}
	if len(req.Candidates) > maxBatchCandidates {
		return fmt.Errorf("at most %d candidates per request, got %d", maxBatchCandidates, len(req.Candidates))
	}
	for i, c := range req.Candidates {
		if strings.TrimSpace(c.Name) == "" {
			return fmt.Errorf("candidates[%d].name is required", i)
		}
	}
	return nil
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("writing response", "error", err)
	}
}

func httpError(w http.ResponseWriter, code int, errType string, format string, args ...any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	msg := fmt.Sprintf(format, args...)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"message": msg,
			"type":    errType,
		},
	})
}
