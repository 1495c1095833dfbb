// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/DistributedSystemsSocialNetworkAnalysis/Decentralized-Rating-Platform/internal/domain/model"
	"github.com/DistributedSystemsSocialNetworkAnalysis/Decentralized-Rating-Platform/pkg/auth"
)

// AccountDependencies defines the interface for account operations.
type AccountDependencies interface {
	RegisterAccount(ctx context.Context, address, name string) (model.Account, error)
	RemoveAccount(ctx context.Context, caller, address string) error
	Accounts(ctx context.Context) []model.Account
}

// AccountsHandler handles account registration and lookup.
type AccountsHandler struct {
	deps   AccountDependencies
	tokens auth.Service
}

// NewAccountsHandler creates a new accounts handler.
func NewAccountsHandler(deps AccountDependencies, tokens auth.Service) *AccountsHandler {
	return &AccountsHandler{deps: deps, tokens: tokens}
}

type registerRequest struct {
	Address string `json:"address"`
	Name    string `json:"name"`
}

type registerResponse struct {
	Address string `json:"address"`
	Name    string `json:"name"`
	Token   string `json:"token"`
}

// HandleRegister handles POST /accounts. Registration hands back the bearer
// token the address authenticates with from then on.
func (h *AccountsHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeBody(w, r, &req) {
		return
	}
	req.Address = strings.TrimSpace(req.Address)
	req.Name = strings.TrimSpace(req.Name)

	account, err := h.deps.RegisterAccount(r.Context(), req.Address, req.Name)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	token, err := h.tokens.IssueToken(account.Address)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusCreated, registerResponse{
		Address: account.Address,
		Name:    account.Name,
		Token:   token,
	})
}

// HandleList handles GET /accounts.
func (h *AccountsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	accounts := h.deps.Accounts(r.Context())
	out := make([]registerRequest, len(accounts))
	for i, a := range accounts {
		out[i] = registerRequest{Address: a.Address, Name: a.Name}
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleRemove handles DELETE /accounts/{address}. Only the account holder
// may remove it.
func (h *AccountsHandler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	address := r.PathValue("address")
	if err := h.deps.RemoveAccount(r.Context(), callerAddress(r.Context()), address); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
