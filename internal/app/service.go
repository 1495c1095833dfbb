// Package app provides the platform service composing the directories, the
// skill catalog and ledger, the function registry, and the rating engine.
//
// Every mutating operation runs under one lock, which realizes the
// serialized, all-or-nothing execution model the rating engine assumes:
// each call runs to completion before the next begins, and a failed call
// leaves no partial state behind.
package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/DistributedSystemsSocialNetworkAnalysis/Decentralized-Rating-Platform/internal/adapters/repository"
	"github.com/DistributedSystemsSocialNetworkAnalysis/Decentralized-Rating-Platform/internal/domain/model"
	"github.com/DistributedSystemsSocialNetworkAnalysis/Decentralized-Rating-Platform/internal/domain/rating"
	"github.com/DistributedSystemsSocialNetworkAnalysis/Decentralized-Rating-Platform/internal/domain/registry"
	"github.com/DistributedSystemsSocialNetworkAnalysis/Decentralized-Rating-Platform/internal/domain/scorefn"
	"github.com/DistributedSystemsSocialNetworkAnalysis/Decentralized-Rating-Platform/internal/domain/skills"
	"github.com/DistributedSystemsSocialNetworkAnalysis/Decentralized-Rating-Platform/internal/domain/token"
	"github.com/DistributedSystemsSocialNetworkAnalysis/Decentralized-Rating-Platform/pkg/logger"
	"github.com/DistributedSystemsSocialNetworkAnalysis/Decentralized-Rating-Platform/pkg/metrics"
)

// Service is the rating platform.
type Service struct {
	mu sync.RWMutex

	owner      string
	accounts   repository.AccountStore
	items      repository.ItemStore
	catalog    *skills.Catalog
	skillbook  *skills.Ledger
	functions  *registry.Registry
	seq        *rating.Sequence
	skillSeeds []string

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithOwner sets the platform operator address.
func WithOwner(address string) Option {
	return func(s *Service) {
		if address != "" {
			s.owner = address
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSkillSeeds sets the skill names seeded into the catalog on Start.
func WithSkillSeeds(names []string) Option {
	return func(s *Service) {
		s.skillSeeds = names
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		owner:    "0xalice",
		accounts: repository.NewAccountStore(),
		items:    repository.NewItemStore(),
		seq:      rating.NewSequence(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.catalog = skills.NewCatalog(s.owner)
	s.skillbook = skills.NewLedger()
	s.functions = registry.New(s.owner)
	return s
}

// Start seeds the function registry with the four known scoring functions
// and the skill catalog with the configured names, mirroring the platform's
// deployment step.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, k := range scorefn.Kinds() {
		if err := s.functions.Push(s.owner, k, k.String()); err != nil {
			return fmt.Errorf("seed function registry: %w", err)
		}
	}
	for _, name := range s.skillSeeds {
		if err := s.catalog.Add(s.owner, name); err != nil {
			return fmt.Errorf("seed skill catalog: %w", err)
		}
	}
	if s.logger != nil {
		s.logger.Info(ctx, "platform started",
			logger.String("owner", s.owner),
			logger.Int("functions", s.functions.Count()),
			logger.Int("skills", s.catalog.Count()),
		)
	}
	return nil
}

// Owner returns the platform operator address.
func (s *Service) Owner() string { return s.owner }

// --- accounts ---

// RegisterAccount binds an address to a new account. One account per
// address.
func (s *Service) RegisterAccount(ctx context.Context, address, name string) (model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if address == "" || name == "" {
		return model.Account{}, ErrEmptyField
	}
	account := model.Account{Address: address, Name: name}
	if err := s.accounts.Add(account); err != nil {
		return model.Account{}, err
	}
	metrics.SetRegisteredAccounts(s.accounts.Count())
	if s.logger != nil {
		s.logger.Info(ctx, "account registered", logger.String("address", address))
	}
	return account, nil
}

// RemoveAccount forgets the caller's account and every item it owns.
func (s *Service) RemoveAccount(ctx context.Context, caller, address string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if caller != address {
		return ErrNotAccountOwner
	}
	if err := s.accounts.Remove(address); err != nil {
		return err
	}
	for _, rec := range s.items.ListByOwner(address) {
		_ = s.items.Remove(rec.Item.ID())
	}
	metrics.SetRegisteredAccounts(s.accounts.Count())
	metrics.SetTrackedItems(s.items.Count())
	if s.logger != nil {
		s.logger.Info(ctx, "account removed", logger.String("address", address))
	}
	return nil
}

// Accounts lists every registered account.
func (s *Service) Accounts(_ context.Context) []model.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accounts.List()
}

// IsRegistered reports whether address has an account.
func (s *Service) IsRegistered(_ context.Context, address string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accounts.IsRegistered(address)
}

// --- items ---

// ItemView is the read shape of an item.
type ItemView struct {
	ID          uuid.UUID
	Owner       string
	Name        string
	SkillTag    string
	RatingCount int
	TokenName   string
	TokenSymbol string
	Treasury    uint64
}

func viewOf(rec repository.ItemRecord) ItemView {
	return ItemView{
		ID:          rec.Item.ID(),
		Owner:       rec.Item.Owner(),
		Name:        rec.Item.Name(),
		SkillTag:    rec.Item.SkillTag(),
		RatingCount: rec.Item.RatingCount(),
		TokenName:   rec.Bank.Name(),
		TokenSymbol: rec.Bank.Symbol(),
		Treasury:    rec.Bank.Treasury(),
	}
}

// CreateItem creates an item owned by the caller, tagged with a recognized
// skill, carrying a fresh token bank as its reward sink.
func (s *Service) CreateItem(ctx context.Context, caller, name, skillTag, tokenName, tokenSymbol string, tokenSupply uint64) (ItemView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.accounts.IsRegistered(caller) {
		return ItemView{}, ErrNotRegistered
	}
	if name == "" {
		return ItemView{}, ErrEmptyField
	}
	if !s.catalog.Exists(skillTag) {
		return ItemView{}, ErrUnknownSkill
	}

	bank := token.NewBank(tokenName, tokenSymbol, tokenSupply)
	item := rating.NewItem(uuid.New(), caller, name, skillTag, rating.Deps{
		Orders:    s.seq,
		Rewards:   bank,
		Skills:    s.skillbook,
		Directory: s.accounts,
	})
	rec := repository.ItemRecord{Item: item, Bank: bank}
	if err := s.items.Add(rec); err != nil {
		return ItemView{}, err
	}
	metrics.SetTrackedItems(s.items.Count())
	if s.logger != nil {
		s.logger.Info(ctx, "item created",
			logger.String("item", item.ID().String()),
			logger.String("owner", caller),
			logger.String("skill", skillTag),
		)
	}
	return viewOf(rec), nil
}

// RemoveItem deletes an item together with its ledger and permission state.
func (s *Service) RemoveItem(ctx context.Context, caller string, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.items.Get(id)
	if err != nil {
		return err
	}
	if rec.Item.Owner() != caller {
		return rating.ErrNotOwner
	}
	if err := s.items.Remove(id); err != nil {
		return err
	}
	metrics.SetTrackedItems(s.items.Count())
	if s.logger != nil {
		s.logger.Info(ctx, "item removed", logger.String("item", id.String()))
	}
	return nil
}

// Items lists every tracked item.
func (s *Service) Items(_ context.Context) []ItemView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	recs := s.items.List()
	out := make([]ItemView, len(recs))
	for i, rec := range recs {
		out[i] = viewOf(rec)
	}
	return out
}

// ItemsByOwner lists the items one account owns.
func (s *Service) ItemsByOwner(_ context.Context, owner string) []ItemView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	recs := s.items.ListByOwner(owner)
	out := make([]ItemView, len(recs))
	for i, rec := range recs {
		out[i] = viewOf(rec)
	}
	return out
}

// Item returns one item's view.
func (s *Service) Item(_ context.Context, id uuid.UUID) (ItemView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, err := s.items.Get(id)
	if err != nil {
		return ItemView{}, err
	}
	return viewOf(rec), nil
}

// TokenBalance returns the caller's balance in an item's token.
func (s *Service) TokenBalance(_ context.Context, id uuid.UUID, account string) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, err := s.items.Get(id)
	if err != nil {
		return 0, err
	}
	return rec.Bank.BalanceOf(account), nil
}

// --- permissions ---

// Grant authorizes rater for a single rating of the item.
func (s *Service) Grant(ctx context.Context, caller string, id uuid.UUID, rater string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.items.Get(id)
	if err != nil {
		return err
	}
	if err := rec.Item.Grant(caller, rater); err != nil {
		return err
	}
	metrics.RecordPermissionGrant()
	return nil
}

// Revoke withdraws a rater's grant on the item.
func (s *Service) Revoke(_ context.Context, caller string, id uuid.UUID, rater string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.items.Get(id)
	if err != nil {
		return err
	}
	if err := rec.Item.Revoke(caller, rater); err != nil {
		return err
	}
	metrics.RecordPermissionRevoke()
	return nil
}

// CommitPermission stores a payment-conditioned auto-grant for rater.
func (s *Service) CommitPermission(_ context.Context, caller string, id uuid.UUID, rater string, amount uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.items.Get(id)
	if err != nil {
		return err
	}
	return rec.Item.Commit(caller, rater, amount)
}

// IsCommitted reports whether rater holds a commitment for exactly amount.
func (s *Service) IsCommitted(_ context.Context, id uuid.UUID, rater string, amount uint64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, err := s.items.Get(id)
	if err != nil {
		return false, err
	}
	return rec.Item.IsCommitted(rater, amount), nil
}

// Permission returns rater's status on the item.
func (s *Service) Permission(_ context.Context, id uuid.UUID, rater string) (model.Status, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, err := s.items.Get(id)
	if err != nil {
		return model.StatusNone, err
	}
	return rec.Item.Permission(rater), nil
}

// PayItem is the payment acceptance path. The exact transfer of amount from
// payer to the item's owner is confirmed by the caller; here the payment is
// only bridged to the permission table. A mismatched amount deliberately
// reports success without any state change.
func (s *Service) PayItem(ctx context.Context, payer string, id uuid.UUID, amount uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.accounts.IsRegistered(payer) {
		return ErrNotRegistered
	}
	rec, err := s.items.Get(id)
	if err != nil {
		return err
	}
	if rec.Item.ConsumePayment(payer, amount) {
		metrics.RecordCommitmentConsumed()
		if s.logger != nil {
			s.logger.Info(ctx, "commitment consumed",
				logger.String("item", id.String()),
				logger.String("payer", payer),
			)
		}
	}
	return nil
}

// --- ratings ---

// SubmitRating appends a rating to the item on behalf of the caller's
// account.
func (s *Service) SubmitRating(ctx context.Context, caller string, id uuid.UUID, score uint64) (model.RatingRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.accounts.IsRegistered(caller) {
		metrics.RecordRatingRejected("unregistered")
		return model.RatingRecord{}, ErrNotRegistered
	}
	rec, err := s.items.Get(id)
	if err != nil {
		metrics.RecordRatingRejected("item_not_found")
		return model.RatingRecord{}, err
	}
	record, err := rec.Item.SubmitRating(caller, score)
	if err != nil {
		metrics.RecordRatingRejected(rejectReason(err))
		return model.RatingRecord{}, err
	}
	metrics.RecordRatingAccepted()
	metrics.RecordRewardIssued(s.skillbook.Value(caller, rec.Item.SkillTag()))
	if s.logger != nil {
		s.logger.Info(ctx, "rating accepted",
			logger.String("item", id.String()),
			logger.String("rater", caller),
			logger.Uint64("score", score),
			logger.Uint64("order_key", record.OrderKey),
		)
	}
	return record, nil
}

// RatingsView is the parallel-array projection of an item's ledger, plus
// each rater's skill level at query time.
type RatingsView struct {
	Scores    []uint64
	OrderKeys []uint64
	Raters    []string
	Skills    []uint64
}

// Ratings projects the item's ledger in insertion order.
func (s *Service) Ratings(_ context.Context, id uuid.UUID) (RatingsView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ratingsLocked(id)
}

func (s *Service) ratingsLocked(id uuid.UUID) (RatingsView, error) {
	rec, err := s.items.Get(id)
	if err != nil {
		return RatingsView{}, err
	}
	scores, orderKeys, raters := rec.Item.Ratings()
	skillValues := make([]uint64, len(raters))
	for i, r := range raters {
		skillValues[i] = s.skillbook.Value(r, rec.Item.SkillTag())
	}
	return RatingsView{Scores: scores, OrderKeys: orderKeys, Raters: raters, Skills: skillValues}, nil
}

// RatingCount returns the item's ledger length.
func (s *Service) RatingCount(_ context.Context, id uuid.UUID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, err := s.items.Get(id)
	if err != nil {
		return 0, err
	}
	return rec.Item.RatingCount(), nil
}

// --- scoring ---

// ComputeScore runs the registry function at fnIndex over the item's
// ledger snapshot.
func (s *Service) ComputeScore(_ context.Context, id uuid.UUID, fnIndex int) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, err := s.functions.Get(fnIndex)
	if err != nil {
		return 0, err
	}
	f, err := scorefn.New(entry.Kind)
	if err != nil {
		return 0, err
	}
	view, err := s.ratingsLocked(id)
	if err != nil {
		return 0, err
	}
	metrics.RecordScoreQuery(entry.Label)
	return f.Compute(view.Scores, view.OrderKeys, view.Skills), nil
}

// Functions lists the registry in push order.
func (s *Service) Functions(_ context.Context) []registry.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.functions.List()
}

// --- skills ---

// AddSkill extends the skill catalog; platform-owner only.
func (s *Service) AddSkill(_ context.Context, caller, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog.Add(caller, name)
}

// SkillNames lists the catalog in insertion order.
func (s *Service) SkillNames(_ context.Context) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog.Names()
}

// SkillExists reports whether name is a recognized skill.
func (s *Service) SkillExists(_ context.Context, name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog.Exists(name)
}

// AccountSkills returns the account's touched skills and levels in
// first-touch order.
func (s *Service) AccountSkills(_ context.Context, address string) ([]string, []uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.skillbook.Snapshot(address)
}

// SkillLevel returns the account's level for one skill.
func (s *Service) SkillLevel(_ context.Context, address, skill string) uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.skillbook.Value(address, skill)
}

// --- stats ---

// Stats reports platform-wide counters for the stats endpoint.
func (s *Service) Stats(_ context.Context) map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := 0
	for _, rec := range s.items.List() {
		total += rec.Item.RatingCount()
	}
	return map[string]any{
		"accounts":  s.accounts.Count(),
		"items":     s.items.Count(),
		"functions": s.functions.Count(),
		"skills":    s.catalog.Count(),
		"ratings":   total,
		"order_key": s.seq.Current(),
	}
}

func rejectReason(err error) string {
	switch {
	case err == nil:
		return "none"
	case err == rating.ErrScoreOutOfRange:
		return "out_of_range"
	case err == rating.ErrNotPermitted:
		return "permission"
	default:
		return "reward"
	}
}
