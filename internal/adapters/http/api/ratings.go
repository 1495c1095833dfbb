// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/DistributedSystemsSocialNetworkAnalysis/Decentralized-Rating-Platform/internal/app"
	"github.com/DistributedSystemsSocialNetworkAnalysis/Decentralized-Rating-Platform/internal/domain/model"
)

// RatingDependencies defines the interface for permission and rating
// operations.
type RatingDependencies interface {
	Grant(ctx context.Context, caller string, id uuid.UUID, rater string) error
	Revoke(ctx context.Context, caller string, id uuid.UUID, rater string) error
	CommitPermission(ctx context.Context, caller string, id uuid.UUID, rater string, amount uint64) error
	Permission(ctx context.Context, id uuid.UUID, rater string) (model.Status, error)
	PayItem(ctx context.Context, payer string, id uuid.UUID, amount uint64) error
	SubmitRating(ctx context.Context, caller string, id uuid.UUID, score uint64) (model.RatingRecord, error)
	Ratings(ctx context.Context, id uuid.UUID) (app.RatingsView, error)
}

// RatingsHandler handles the permission and rating routes.
type RatingsHandler struct {
	deps RatingDependencies
}

// NewRatingsHandler creates a new ratings handler.
func NewRatingsHandler(deps RatingDependencies) *RatingsHandler {
	return &RatingsHandler{deps: deps}
}

type raterRequest struct {
	Rater string `json:"rater"`
}

type commitRequest struct {
	Rater  string `json:"rater"`
	Amount uint64 `json:"amount"`
}

type payRequest struct {
	Amount uint64 `json:"amount"`
}

type submitRequest struct {
	Score uint64 `json:"score"`
}

type ratingResponse struct {
	Score    uint64 `json:"score"`
	OrderKey uint64 `json:"order_key"`
	Rater    string `json:"rater"`
}

type ratingsResponse struct {
	Scores    []uint64 `json:"scores"`
	OrderKeys []uint64 `json:"order_keys"`
	Raters    []string `json:"raters"`
	Skills    []uint64 `json:"skills"`
}

type permissionResponse struct {
	Rater  string `json:"rater"`
	Status string `json:"status"`
}

// HandleGrant handles POST /items/{id}/grant.
func (h *RatingsHandler) HandleGrant(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}
	var req raterRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.deps.Grant(r.Context(), callerAddress(r.Context()), id, req.Rater); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleRevoke handles POST /items/{id}/revoke.
func (h *RatingsHandler) HandleRevoke(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}
	var req raterRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.deps.Revoke(r.Context(), callerAddress(r.Context()), id, req.Rater); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleCommit handles POST /items/{id}/commit.
func (h *RatingsHandler) HandleCommit(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}
	var req commitRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.deps.CommitPermission(r.Context(), callerAddress(r.Context()), id, req.Rater, req.Amount); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandlePay handles POST /items/{id}/pay. The caller is the payer; whether
// the payment consumed a commitment is never disclosed.
func (h *RatingsHandler) HandlePay(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}
	var req payRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.deps.PayItem(r.Context(), callerAddress(r.Context()), id, req.Amount); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandlePermission handles GET /items/{id}/permissions/{rater}.
func (h *RatingsHandler) HandlePermission(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}
	rater := r.PathValue("rater")
	status, err := h.deps.Permission(r.Context(), id, rater)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, permissionResponse{Rater: rater, Status: status.String()})
}

// HandleSubmit handles POST /items/{id}/ratings.
func (h *RatingsHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}
	var req submitRequest
	if !decodeBody(w, r, &req) {
		return
	}
	rec, err := h.deps.SubmitRating(r.Context(), callerAddress(r.Context()), id, req.Score)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ratingResponse{
		Score:    rec.Score,
		OrderKey: rec.OrderKey,
		Rater:    rec.Rater,
	})
}

// HandleList handles GET /items/{id}/ratings.
func (h *RatingsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}
	view, err := h.deps.Ratings(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ratingsResponse{
		Scores:    view.Scores,
		OrderKeys: view.OrderKeys,
		Raters:    view.Raters,
		Skills:    view.Skills,
	})
}
