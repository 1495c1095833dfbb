// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/DistributedSystemsSocialNetworkAnalysis/Decentralized-Rating-Platform/internal/domain/registry"
)

// ScoringDependencies defines the interface for score queries.
type ScoringDependencies interface {
	ComputeScore(ctx context.Context, id uuid.UUID, fnIndex int) (uint64, error)
	Functions(ctx context.Context) []registry.Entry
}

// ScoringHandler handles score computation and registry listing.
type ScoringHandler struct {
	deps ScoringDependencies
}

// NewScoringHandler creates a new scoring handler.
func NewScoringHandler(deps ScoringDependencies) *ScoringHandler {
	return &ScoringHandler{deps: deps}
}

type scoreResponse struct {
	Item     string `json:"item"`
	Function int    `json:"function"`
	Score    uint64 `json:"score"`
}

type functionResponse struct {
	Index int    `json:"index"`
	Label string `json:"label"`
}

// HandleScore handles GET /items/{id}/score?fn=N.
func (h *ScoringHandler) HandleScore(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}
	fn, err := strconv.Atoi(r.URL.Query().Get("fn"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadFunction)
		return
	}
	score, err := h.deps.ComputeScore(r.Context(), id, fn)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, scoreResponse{Item: id.String(), Function: fn, Score: score})
}

// HandleFunctions handles GET /functions.
func (h *ScoringHandler) HandleFunctions(w http.ResponseWriter, r *http.Request) {
	entries := h.deps.Functions(r.Context())
	out := make([]functionResponse, len(entries))
	for i, e := range entries {
		out[i] = functionResponse{Index: i, Label: e.Label}
	}
	writeJSON(w, http.StatusOK, out)
}
