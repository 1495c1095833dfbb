// Package repository provides the user and item directories backing the
// rating platform. Both are set-semantics stores: an index-addressable
// array plus a reverse map, with O(1) swap-remove.
package repository

import (
	"github.com/google/uuid"

	"github.com/DistributedSystemsSocialNetworkAnalysis/Decentralized-Rating-Platform/internal/domain/model"
	"github.com/DistributedSystemsSocialNetworkAnalysis/Decentralized-Rating-Platform/internal/domain/rating"
	"github.com/DistributedSystemsSocialNetworkAnalysis/Decentralized-Rating-Platform/internal/domain/token"
)

// AccountStore is the platform-wide user directory. It doubles as the
// identity source the rating engine queries before granting permission.
type AccountStore interface {
	// Add registers an account; one account per address.
	Add(account model.Account) error
	// Remove forgets an account.
	Remove(address string) error
	// Get returns the account registered for address.
	Get(address string) (model.Account, error)
	// IsRegistered reports membership; it satisfies rating.Directory.
	IsRegistered(address string) bool
	// Count returns the number of registered accounts.
	Count() int
	// List returns all accounts; order is stable between mutations but
	// interior removals swap the last element into the vacated slot.
	List() []model.Account
}

// ItemRecord pairs an item with its token bank.
type ItemRecord struct {
	Item *rating.Item
	Bank *token.Bank
}

// ItemStore is the item directory, addressable globally by id and per
// owner.
type ItemStore interface {
	Add(rec ItemRecord) error
	Remove(id uuid.UUID) error
	Get(id uuid.UUID) (ItemRecord, error)
	Contains(id uuid.UUID) bool
	Count() int
	List() []ItemRecord
	ListByOwner(owner string) []ItemRecord
	CountByOwner(owner string) int
}

// Compile-time check: the account store feeds the rating engine's
// registration checks.
var _ rating.Directory = (AccountStore)(nil)
