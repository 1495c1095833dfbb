// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/DistributedSystemsSocialNetworkAnalysis/Decentralized-Rating-Platform/internal/adapters/repository"
	"github.com/DistributedSystemsSocialNetworkAnalysis/Decentralized-Rating-Platform/internal/app"
	"github.com/DistributedSystemsSocialNetworkAnalysis/Decentralized-Rating-Platform/internal/domain/model"
	"github.com/DistributedSystemsSocialNetworkAnalysis/Decentralized-Rating-Platform/internal/domain/rating"
	"github.com/DistributedSystemsSocialNetworkAnalysis/Decentralized-Rating-Platform/internal/domain/registry"
	"github.com/DistributedSystemsSocialNetworkAnalysis/Decentralized-Rating-Platform/internal/domain/scorefn"
	"github.com/DistributedSystemsSocialNetworkAnalysis/Decentralized-Rating-Platform/internal/domain/skills"
	"github.com/DistributedSystemsSocialNetworkAnalysis/Decentralized-Rating-Platform/pkg/auth"
)

// Dependencies bundles the platform operations the HTTP handlers call.
// Using an interface bundle keeps the handler layer loosely coupled to the
// service implementation.
type Dependencies interface {
	Owner() string

	RegisterAccount(ctx context.Context, address, name string) (model.Account, error)
	RemoveAccount(ctx context.Context, caller, address string) error
	Accounts(ctx context.Context) []model.Account
	IsRegistered(ctx context.Context, address string) bool

	CreateItem(ctx context.Context, caller, name, skillTag, tokenName, tokenSymbol string, tokenSupply uint64) (app.ItemView, error)
	RemoveItem(ctx context.Context, caller string, id uuid.UUID) error
	Items(ctx context.Context) []app.ItemView
	ItemsByOwner(ctx context.Context, owner string) []app.ItemView
	Item(ctx context.Context, id uuid.UUID) (app.ItemView, error)
	TokenBalance(ctx context.Context, id uuid.UUID, account string) (uint64, error)

	Grant(ctx context.Context, caller string, id uuid.UUID, rater string) error
	Revoke(ctx context.Context, caller string, id uuid.UUID, rater string) error
	CommitPermission(ctx context.Context, caller string, id uuid.UUID, rater string, amount uint64) error
	Permission(ctx context.Context, id uuid.UUID, rater string) (model.Status, error)
	PayItem(ctx context.Context, payer string, id uuid.UUID, amount uint64) error

	SubmitRating(ctx context.Context, caller string, id uuid.UUID, score uint64) (model.RatingRecord, error)
	Ratings(ctx context.Context, id uuid.UUID) (app.RatingsView, error)

	ComputeScore(ctx context.Context, id uuid.UUID, fnIndex int) (uint64, error)
	Functions(ctx context.Context) []registry.Entry

	AddSkill(ctx context.Context, caller, name string) error
	SkillNames(ctx context.Context) []string
	AccountSkills(ctx context.Context, address string) ([]string, []uint64)

	Stats(ctx context.Context) map[string]any
}

// Server wires HTTP routes for the platform API.
type Server struct {
	accountsHandler *AccountsHandler
	itemsHandler    *ItemsHandler
	ratingsHandler  *RatingsHandler
	scoringHandler  *ScoringHandler
	skillsHandler   *SkillsHandler
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler

	tokens auth.Service
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, tokens auth.Service) *Server {
	return &Server{
		accountsHandler: NewAccountsHandler(deps, tokens),
		itemsHandler:    NewItemsHandler(deps),
		ratingsHandler:  NewRatingsHandler(deps),
		scoringHandler:  NewScoringHandler(deps),
		skillsHandler:   NewSkillsHandler(deps),
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(deps),
		tokens:          tokens,
	}
}

// Register attaches all HTTP routes to mux. Mutating routes resolve the
// caller's account from its bearer token first.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	authed := func(h http.HandlerFunc, endpoint string) http.HandlerFunc {
		return MetricsMiddleware(AuthMiddleware(h, s.tokens), endpoint)
	}
	open := MetricsMiddleware

	mux.HandleFunc("GET /healthz", open(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /stats", open(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("POST /accounts", open(s.accountsHandler.HandleRegister, "accounts"))
	mux.HandleFunc("GET /accounts", open(s.accountsHandler.HandleList, "accounts"))
	mux.HandleFunc("DELETE /accounts/{address}", authed(s.accountsHandler.HandleRemove, "accounts"))
	mux.HandleFunc("GET /accounts/{address}/skills", open(s.skillsHandler.HandleAccountSkills, "account_skills"))

	mux.HandleFunc("POST /items", authed(s.itemsHandler.HandleCreate, "items"))
	mux.HandleFunc("GET /items", open(s.itemsHandler.HandleList, "items"))
	mux.HandleFunc("GET /items/{id}", open(s.itemsHandler.HandleGet, "items"))
	mux.HandleFunc("DELETE /items/{id}", authed(s.itemsHandler.HandleRemove, "items"))
	mux.HandleFunc("GET /items/{id}/balance", authed(s.itemsHandler.HandleBalance, "balance"))

	mux.HandleFunc("POST /items/{id}/grant", authed(s.ratingsHandler.HandleGrant, "grant"))
	mux.HandleFunc("POST /items/{id}/revoke", authed(s.ratingsHandler.HandleRevoke, "revoke"))
	mux.HandleFunc("POST /items/{id}/commit", authed(s.ratingsHandler.HandleCommit, "commit"))
	mux.HandleFunc("POST /items/{id}/pay", authed(s.ratingsHandler.HandlePay, "pay"))
	mux.HandleFunc("GET /items/{id}/permissions/{rater}", open(s.ratingsHandler.HandlePermission, "permissions"))

	mux.HandleFunc("POST /items/{id}/ratings", authed(s.ratingsHandler.HandleSubmit, "ratings"))
	mux.HandleFunc("GET /items/{id}/ratings", open(s.ratingsHandler.HandleList, "ratings"))
	mux.HandleFunc("GET /items/{id}/score", open(s.scoringHandler.HandleScore, "score"))

	mux.HandleFunc("GET /functions", open(s.scoringHandler.HandleFunctions, "functions"))
	mux.HandleFunc("GET /skills", open(s.skillsHandler.HandleList, "skills"))
	mux.HandleFunc("POST /skills", authed(s.skillsHandler.HandleAdd, "skills"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeDomainError translates platform sentinels to HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, app.ErrEmptyField),
		errors.Is(err, rating.ErrScoreOutOfRange),
		errors.Is(err, rating.ErrRaterNotRegistered),
		errors.Is(err, rating.ErrSelfGrant),
		errors.Is(err, skills.ErrEmptySkillName),
		errors.Is(err, scorefn.ErrUnknownKind):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, app.ErrNotRegistered),
		errors.Is(err, app.ErrNotAccountOwner),
		errors.Is(err, rating.ErrNotOwner),
		errors.Is(err, skills.ErrNotOwner),
		errors.Is(err, registry.ErrNotOwner):
		writeError(w, http.StatusForbidden, "forbidden", err)
	case errors.Is(err, repository.ErrAccountNotFound),
		errors.Is(err, repository.ErrItemNotFound),
		errors.Is(err, registry.ErrNotFound),
		errors.Is(err, skills.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, repository.ErrDuplicateAccount),
		errors.Is(err, repository.ErrDuplicateItem),
		errors.Is(err, skills.ErrDuplicateSkill),
		errors.Is(err, rating.ErrNotPermitted),
		errors.Is(err, rating.ErrAlreadyRated):
		writeError(w, http.StatusConflict, "conflict", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadBody)
		return false
	}
	return true
}

func itemID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadItemID)
		return uuid.Nil, false
	}
	return id, true
}
