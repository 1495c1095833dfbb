package repository

import (
	"sync"

	"github.com/google/uuid"

	"github.com/DistributedSystemsSocialNetworkAnalysis/Decentralized-Rating-Platform/internal/domain/model"
)

// indexedSet is the shared set structure: values live in a dense slice and
// a reverse map resolves keys to slots. Removal swaps the last value into
// the vacated slot and truncates, so no linked structures are needed.
type indexedSet[K comparable, V any] struct {
	keys  []K
	vals  []V
	index map[K]int
}

func newIndexedSet[K comparable, V any]() *indexedSet[K, V] {
	return &indexedSet[K, V]{index: make(map[K]int)}
}

func (s *indexedSet[K, V]) add(k K, v V) bool {
	if _, ok := s.index[k]; ok {
		return false
	}
	s.index[k] = len(s.keys)
	s.keys = append(s.keys, k)
	s.vals = append(s.vals, v)
	return true
}

func (s *indexedSet[K, V]) remove(k K) bool {
	i, ok := s.index[k]
	if !ok {
		return false
	}
	last := len(s.keys) - 1
	if i != last {
		s.keys[i] = s.keys[last]
		s.vals[i] = s.vals[last]
		s.index[s.keys[i]] = i
	}
	s.keys = s.keys[:last]
	s.vals = s.vals[:last]
	delete(s.index, k)
	return true
}

func (s *indexedSet[K, V]) get(k K) (V, bool) {
	i, ok := s.index[k]
	if !ok {
		var zero V
		return zero, false
	}
	return s.vals[i], true
}

func (s *indexedSet[K, V]) contains(k K) bool {
	_, ok := s.index[k]
	return ok
}

func (s *indexedSet[K, V]) len() int { return len(s.keys) }

func (s *indexedSet[K, V]) values() []V {
	out := make([]V, len(s.vals))
	copy(out, s.vals)
	return out
}

// memoryAccounts implements AccountStore in memory.
type memoryAccounts struct {
	mu  sync.RWMutex
	set *indexedSet[string, model.Account]
}

// NewAccountStore creates an empty in-memory account directory.
func NewAccountStore() AccountStore {
	return &memoryAccounts{set: newIndexedSet[string, model.Account]()}
}

func (m *memoryAccounts) Add(account model.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.set.add(account.Address, account) {
		return ErrDuplicateAccount
	}
	return nil
}

func (m *memoryAccounts) Remove(address string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.set.remove(address) {
		return ErrAccountNotFound
	}
	return nil
}

func (m *memoryAccounts) Get(address string) (model.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.set.get(address)
	if !ok {
		return model.Account{}, ErrAccountNotFound
	}
	return a, nil
}

func (m *memoryAccounts) IsRegistered(address string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.set.contains(address)
}

func (m *memoryAccounts) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.set.len()
}

func (m *memoryAccounts) List() []model.Account {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.set.values()
}

// memoryItems implements ItemStore in memory, with a per-owner view kept
// in lockstep with the global set.
type memoryItems struct {
	mu      sync.RWMutex
	set     *indexedSet[uuid.UUID, ItemRecord]
	byOwner map[string]*indexedSet[uuid.UUID, ItemRecord]
}

// NewItemStore creates an empty in-memory item directory.
func NewItemStore() ItemStore {
	return &memoryItems{
		set:     newIndexedSet[uuid.UUID, ItemRecord](),
		byOwner: make(map[string]*indexedSet[uuid.UUID, ItemRecord]),
	}
}

func (m *memoryItems) Add(rec ItemRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := rec.Item.ID()
	if !m.set.add(id, rec) {
		return ErrDuplicateItem
	}
	owner := rec.Item.Owner()
	owned, ok := m.byOwner[owner]
	if !ok {
		owned = newIndexedSet[uuid.UUID, ItemRecord]()
		m.byOwner[owner] = owned
	}
	owned.add(id, rec)
	return nil
}

func (m *memoryItems) Remove(id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.set.get(id)
	if !ok {
		return ErrItemNotFound
	}
	m.set.remove(id)
	if owned, ok := m.byOwner[rec.Item.Owner()]; ok {
		owned.remove(id)
		if owned.len() == 0 {
			delete(m.byOwner, rec.Item.Owner())
		}
	}
	return nil
}

func (m *memoryItems) Get(id uuid.UUID) (ItemRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.set.get(id)
	if !ok {
		return ItemRecord{}, ErrItemNotFound
	}
	return rec, nil
}

func (m *memoryItems) Contains(id uuid.UUID) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.set.contains(id)
}

func (m *memoryItems) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.set.len()
}

func (m *memoryItems) List() []ItemRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.set.values()
}

func (m *memoryItems) ListByOwner(owner string) []ItemRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()
	owned, ok := m.byOwner[owner]
	if !ok {
		return nil
	}
	return owned.values()
}

func (m *memoryItems) CountByOwner(owner string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	owned, ok := m.byOwner[owner]
	if !ok {
		return 0
	}
	return owned.len()
}
