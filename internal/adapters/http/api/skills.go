// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
)

// SkillDependencies defines the interface for skill catalog and level
// queries.
type SkillDependencies interface {
	AddSkill(ctx context.Context, caller, name string) error
	SkillNames(ctx context.Context) []string
	AccountSkills(ctx context.Context, address string) ([]string, []uint64)
}

// SkillsHandler handles skill catalog requests.
type SkillsHandler struct {
	deps SkillDependencies
}

// NewSkillsHandler creates a new skills handler.
func NewSkillsHandler(deps SkillDependencies) *SkillsHandler {
	return &SkillsHandler{deps: deps}
}

type addSkillRequest struct {
	Name string `json:"name"`
}

type accountSkillsResponse struct {
	Address string   `json:"address"`
	Names   []string `json:"names"`
	Levels  []uint64 `json:"levels"`
}

// HandleList handles GET /skills.
func (h *SkillsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.SkillNames(r.Context()))
}

// HandleAdd handles POST /skills; platform-owner only.
func (h *SkillsHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	var req addSkillRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.deps.AddSkill(r.Context(), callerAddress(r.Context()), req.Name); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

// HandleAccountSkills handles GET /accounts/{address}/skills.
func (h *SkillsHandler) HandleAccountSkills(w http.ResponseWriter, r *http.Request) {
	address := r.PathValue("address")
	names, levels := h.deps.AccountSkills(r.Context(), address)
	writeJSON(w, http.StatusOK, accountSkillsResponse{
		Address: address,
		Names:   names,
		Levels:  levels,
	})
}
