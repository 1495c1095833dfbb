// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/DistributedSystemsSocialNetworkAnalysis/Decentralized-Rating-Platform/internal/app"
)

// ItemDependencies defines the interface for item operations.
type ItemDependencies interface {
	CreateItem(ctx context.Context, caller, name, skillTag, tokenName, tokenSymbol string, tokenSupply uint64) (app.ItemView, error)
	RemoveItem(ctx context.Context, caller string, id uuid.UUID) error
	Items(ctx context.Context) []app.ItemView
	ItemsByOwner(ctx context.Context, owner string) []app.ItemView
	Item(ctx context.Context, id uuid.UUID) (app.ItemView, error)
	TokenBalance(ctx context.Context, id uuid.UUID, account string) (uint64, error)
}

// ItemsHandler handles item lifecycle requests.
type ItemsHandler struct {
	deps ItemDependencies
}

// NewItemsHandler creates a new items handler.
func NewItemsHandler(deps ItemDependencies) *ItemsHandler {
	return &ItemsHandler{deps: deps}
}

type createItemRequest struct {
	Name        string `json:"name"`
	Skill       string `json:"skill"`
	TokenName   string `json:"token_name"`
	TokenSymbol string `json:"token_symbol"`
	TokenSupply uint64 `json:"token_supply"`
}

type itemResponse struct {
	ID          string `json:"id"`
	Owner       string `json:"owner"`
	Name        string `json:"name"`
	Skill       string `json:"skill"`
	RatingCount int    `json:"rating_count"`
	TokenName   string `json:"token_name"`
	TokenSymbol string `json:"token_symbol"`
	Treasury    uint64 `json:"treasury"`
}

func itemResponseOf(v app.ItemView) itemResponse {
	return itemResponse{
		ID:          v.ID.String(),
		Owner:       v.Owner,
		Name:        v.Name,
		Skill:       v.SkillTag,
		RatingCount: v.RatingCount,
		TokenName:   v.TokenName,
		TokenSymbol: v.TokenSymbol,
		Treasury:    v.Treasury,
	}
}

// HandleCreate handles POST /items.
func (h *ItemsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createItemRequest
	if !decodeBody(w, r, &req) {
		return
	}
	view, err := h.deps.CreateItem(r.Context(), callerAddress(r.Context()),
		req.Name, req.Skill, req.TokenName, req.TokenSymbol, req.TokenSupply)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, itemResponseOf(view))
}

// HandleList handles GET /items, optionally filtered by ?owner=.
func (h *ItemsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	var views []app.ItemView
	if owner := r.URL.Query().Get("owner"); owner != "" {
		views = h.deps.ItemsByOwner(r.Context(), owner)
	} else {
		views = h.deps.Items(r.Context())
	}
	out := make([]itemResponse, len(views))
	for i, v := range views {
		out[i] = itemResponseOf(v)
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleGet handles GET /items/{id}.
func (h *ItemsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}
	view, err := h.deps.Item(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, itemResponseOf(view))
}

// HandleRemove handles DELETE /items/{id}.
func (h *ItemsHandler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}
	if err := h.deps.RemoveItem(r.Context(), callerAddress(r.Context()), id); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type balanceResponse struct {
	Account string `json:"account"`
	Symbol  string `json:"symbol"`
	Balance uint64 `json:"balance"`
}

// HandleBalance handles GET /items/{id}/balance for the caller's reward
// balance in the item's token.
func (h *ItemsHandler) HandleBalance(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}
	caller := callerAddress(r.Context())
	balance, err := h.deps.TokenBalance(r.Context(), id, caller)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	view, err := h.deps.Item(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, balanceResponse{
		Account: caller,
		Symbol:  view.TokenSymbol,
		Balance: balance,
	})
}
