// Package registry holds the append-only catalog of approved scoring
// functions. Slots are addressed by index; an index handed out once stays
// valid forever because entries are never removed or reordered.
package registry

import (
	"sync"

	"github.com/DistributedSystemsSocialNetworkAnalysis/Decentralized-Rating-Platform/internal/domain/scorefn"
)

// Entry is one approved scoring function reference.
type Entry struct {
	Kind  scorefn.Kind
	Label string
}

// Registry is the owner-gated, append-only function list.
type Registry struct {
	mu      sync.RWMutex
	owner   string
	entries []Entry
}

// New creates an empty registry owned by the given address.
func New(owner string) *Registry {
	return &Registry{owner: owner}
}

// Push appends an approved function. Only the registry owner may push, and
// the kind must belong to the closed scoring set.
func (r *Registry) Push(caller string, kind scorefn.Kind, label string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if caller != r.owner {
		return ErrNotOwner
	}
	if _, err := scorefn.New(kind); err != nil {
		return err
	}
	if label == "" {
		label = kind.String()
	}
	r.entries = append(r.entries, Entry{Kind: kind, Label: label})
	return nil
}

// Get returns the entry at index i.
func (r *Registry) Get(i int) (Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if i < 0 || i >= len(r.entries) {
		return Entry{}, ErrNotFound
	}
	return r.entries[i], nil
}

// Count returns the number of registered functions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// List returns a copy of all entries in push order.
func (r *Registry) List() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}
