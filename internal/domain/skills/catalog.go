// Package skills holds the skill-name catalog and the per-account skill
// ledger that backs rater reputation levels.
package skills

import "sync"

// Catalog is the owner-curated set of recognized skill names. Items are
// tagged with exactly one catalog entry at creation; afterwards the tag is
// stored opaquely by the item.
type Catalog struct {
	mu    sync.RWMutex
	owner string
	names []string
	index map[string]int
}

// NewCatalog creates an empty catalog owned by the given address.
func NewCatalog(owner string) *Catalog {
	return &Catalog{
		owner: owner,
		index: make(map[string]int),
	}
}

// Add registers a new skill name. Only the catalog owner may extend it and
// duplicates are rejected.
func (c *Catalog) Add(caller, name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if caller != c.owner {
		return ErrNotOwner
	}
	if name == "" {
		return ErrEmptySkillName
	}
	if _, ok := c.index[name]; ok {
		return ErrDuplicateSkill
	}
	c.index[name] = len(c.names)
	c.names = append(c.names, name)
	return nil
}

// Exists reports whether name is a recognized skill.
func (c *Catalog) Exists(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.index[name]
	return ok
}

// Count returns the number of recognized skills.
func (c *Catalog) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.names)
}

// NameAt returns the i-th skill in insertion order.
func (c *Catalog) NameAt(i int) (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i < 0 || i >= len(c.names) {
		return "", ErrNotFound
	}
	return c.names[i], nil
}

// Names returns a copy of the catalog in insertion order.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}
