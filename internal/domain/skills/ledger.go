package skills

import "sync"

// Ledger maps (account, skill) to an integer reputation level. Levels are
// monotonically non-decreasing: the only mutation is a +1 increment issued
// by the rating engine on an accepted rating.
type Ledger struct {
	mu     sync.RWMutex
	levels map[string]map[string]uint64
	// touch keeps each account's skills in first-touch order for the
	// Count/NameAt enumeration.
	touch map[string][]string
}

// NewLedger creates an empty skill ledger.
func NewLedger() *Ledger {
	return &Ledger{
		levels: make(map[string]map[string]uint64),
		touch:  make(map[string][]string),
	}
}

// Increment adds one to the account's level for skill and returns the
// post-increment value.
func (l *Ledger) Increment(account, skill string) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	byAccount, ok := l.levels[account]
	if !ok {
		byAccount = make(map[string]uint64)
		l.levels[account] = byAccount
	}
	if _, seen := byAccount[skill]; !seen {
		l.touch[account] = append(l.touch[account], skill)
	}
	byAccount[skill]++
	return byAccount[skill]
}

// Value returns the account's level for skill, defaulting to zero for
// unseen pairs.
func (l *Ledger) Value(account, skill string) uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.levels[account][skill]
}

// Count returns how many distinct skills the account has touched.
func (l *Ledger) Count(account string) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.touch[account])
}

// NameAt returns the account's i-th touched skill in first-touch order.
func (l *Ledger) NameAt(account string, i int) (string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	names := l.touch[account]
	if i < 0 || i >= len(names) {
		return "", ErrNotFound
	}
	return names[i], nil
}

// Snapshot returns the account's touched skills and levels in first-touch
// order.
func (l *Ledger) Snapshot(account string) ([]string, []uint64) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	names := make([]string, len(l.touch[account]))
	copy(names, l.touch[account])
	values := make([]uint64, len(names))
	for i, name := range names {
		values[i] = l.levels[account][name]
	}
	return names, values
}
