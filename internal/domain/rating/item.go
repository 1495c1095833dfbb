// Package rating implements the rating engine: the Item abstraction that
// composes a per-rater permission/commitment table, an append-only rating
// ledger, and the skill and reward side effects of an accepted rating.
package rating

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/DistributedSystemsSocialNetworkAnalysis/Decentralized-Rating-Platform/internal/domain/model"
)

// OrderSource supplies the environment's global ordering counter. Values
// are strictly increasing across the whole platform, which gives ledger
// records a total order and anchors the recency-weighted scoring functions.
type OrderSource interface {
	Next() uint64
}

// RewardSink is the token-credit capability the engine rewards raters
// through. The engine does not verify the sink's own accounting.
type RewardSink interface {
	Credit(account string, units uint64) error
}

// SkillLedger is the per-account reputation table mutated by the engine.
type SkillLedger interface {
	Increment(account, skill string) uint64
	Value(account, skill string) uint64
}

// Directory answers whether an address is a registered account. Granting
// permission to an unregistered address is rejected.
type Directory interface {
	IsRegistered(address string) bool
}

// Deps bundles the collaborators every item needs.
type Deps struct {
	Orders    OrderSource
	Rewards   RewardSink
	Skills    SkillLedger
	Directory Directory
}

// permissionEntry is one row of the item's permission/commitment table.
// Status and commitment are independent: the commitment is a pending
// auto-grant instruction consumed by an exact-amount payment.
type permissionEntry struct {
	status     model.Status
	commitment *uint64
}

// Item is a rated entity. It exclusively owns its ledger and permission
// table; no two items share state. Callers must serialize mutating calls
// (the app service runs every operation under a single lock).
type Item struct {
	id       uuid.UUID
	owner    string
	name     string
	skillTag string

	ledger []model.RatingRecord
	perms  map[string]*permissionEntry

	deps Deps
}

// NewItem creates an item with an empty ledger and permission table.
func NewItem(id uuid.UUID, owner, name, skillTag string, deps Deps) *Item {
	return &Item{
		id:       id,
		owner:    owner,
		name:     name,
		skillTag: skillTag,
		perms:    make(map[string]*permissionEntry),
		deps:     deps,
	}
}

// ID returns the item identifier.
func (it *Item) ID() uuid.UUID { return it.id }

// Owner returns the owning account address.
func (it *Item) Owner() string { return it.owner }

// Name returns the display name.
func (it *Item) Name() string { return it.name }

// SkillTag returns the skill the item was tagged with at creation.
func (it *Item) SkillTag() string { return it.skillTag }

func (it *Item) entry(rater string) *permissionEntry {
	e, ok := it.perms[rater]
	if !ok {
		e = &permissionEntry{}
		it.perms[rater] = e
	}
	return e
}

// Grant authorizes rater for a single rating. Only the item owner may
// grant; self-authorization and unregistered raters are rejected. Granting
// an already granted rater is a no-op; a rater that already spent its grant
// stays spent.
func (it *Item) Grant(caller, rater string) error {
	if caller != it.owner {
		return ErrNotOwner
	}
	if rater == it.owner {
		return ErrSelfGrant
	}
	if !it.deps.Directory.IsRegistered(rater) {
		return ErrRaterNotRegistered
	}
	e := it.entry(rater)
	if e.status == model.StatusUsed {
		return ErrAlreadyRated
	}
	e.status = model.StatusGranted
	return nil
}

// Revoke forces a granted rater back to none. Safe to call when the rater
// was never granted; a spent grant stays spent.
func (it *Item) Revoke(caller, rater string) error {
	if caller != it.owner {
		return ErrNotOwner
	}
	e, ok := it.perms[rater]
	if !ok || e.status != model.StatusGranted {
		return nil
	}
	e.status = model.StatusNone
	return nil
}

// Commit stores a pending auto-grant for rater, bound to an exact payment
// amount. A prior commitment for the same rater is overwritten. The
// permission status itself is untouched.
func (it *Item) Commit(caller, rater string, amount uint64) error {
	if caller != it.owner {
		return ErrNotOwner
	}
	if rater == it.owner {
		return ErrSelfGrant
	}
	a := amount
	it.entry(rater).commitment = &a
	return nil
}

// IsCommitted reports whether rater holds a commitment for exactly amount.
func (it *Item) IsCommitted(rater string, amount uint64) bool {
	e, ok := it.perms[rater]
	return ok && e.commitment != nil && *e.commitment == amount
}

// ConsumePayment is the sole bridge between payment and authorization. When
// rater holds a commitment matching paidAmount exactly, the commitment is
// cleared and the rater granted (unless the grant was already spent). Any
// mismatch leaves all state unchanged and reports false; the silence is
// deliberate so callers cannot probe which raters hold commitments.
func (it *Item) ConsumePayment(rater string, paidAmount uint64) bool {
	e, ok := it.perms[rater]
	if !ok || e.commitment == nil || *e.commitment != paidAmount {
		return false
	}
	e.commitment = nil
	if e.status != model.StatusUsed {
		e.status = model.StatusGranted
	}
	return true
}

// Permission returns the rater's current status.
func (it *Item) Permission(rater string) model.Status {
	e, ok := it.perms[rater]
	if !ok {
		return model.StatusNone
	}
	return e.status
}

// Policy returns the rater's status together with its pending commitment,
// if any.
func (it *Item) Policy(rater string) (model.Status, uint64, bool) {
	e, ok := it.perms[rater]
	if !ok {
		return model.StatusNone, 0, false
	}
	if e.commitment == nil {
		return e.status, 0, false
	}
	return e.status, *e.commitment, true
}

// Score bounds for a rating.
const (
	MinScore = 1
	MaxScore = 10
)

// SubmitRating appends a rating from rater. The caller must have resolved
// rater through the directory's identity binding already.
//
// Validation happens strictly before any mutation, and the reward credit is
// the only fallible side effect, so a failed call leaves the ledger, the
// permission table, the skill ledger, and the token bank exactly as they
// were.
func (it *Item) SubmitRating(rater string, score uint64) (model.RatingRecord, error) {
	if score < MinScore || score > MaxScore {
		return model.RatingRecord{}, ErrScoreOutOfRange
	}
	if it.Permission(rater) != model.StatusGranted {
		return model.RatingRecord{}, ErrNotPermitted
	}

	// Reward equals the skill level after this rating's increment.
	units := it.deps.Skills.Value(rater, it.skillTag) + 1
	if err := it.deps.Rewards.Credit(rater, units); err != nil {
		return model.RatingRecord{}, fmt.Errorf("credit reward: %w", err)
	}

	rec := model.RatingRecord{
		Score:    score,
		OrderKey: it.deps.Orders.Next(),
		Rater:    rater,
	}
	it.ledger = append(it.ledger, rec)
	it.perms[rater].status = model.StatusUsed
	it.deps.Skills.Increment(rater, it.skillTag)
	return rec, nil
}

// RatingCount returns the ledger length.
func (it *Item) RatingCount() int { return len(it.ledger) }

// Ratings projects the ledger into parallel arrays in insertion order.
func (it *Item) Ratings() (scores, orderKeys []uint64, raters []string) {
	scores = make([]uint64, len(it.ledger))
	orderKeys = make([]uint64, len(it.ledger))
	raters = make([]string, len(it.ledger))
	for i, rec := range it.ledger {
		scores[i] = rec.Score
		orderKeys[i] = rec.OrderKey
		raters[i] = rec.Rater
	}
	return scores, orderKeys, raters
}

// RewardUnits reports what the next accepted rating from rater would pay
// out, given the rater's current skill level.
func (it *Item) RewardUnits(rater string) uint64 {
	return it.deps.Skills.Value(rater, it.skillTag) + 1
}
