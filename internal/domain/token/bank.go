// Package token implements the per-item incentive token bank used as the
// rating engine's reward sink. Each item carries its own bank: a fixed
// treasury minted at item creation and a balance per rewarded account.
package token

import "sync"

// Bank is a minimal credit-only token ledger. The rating engine credits
// raters from the treasury; transfers between accounts are out of scope.
type Bank struct {
	mu       sync.RWMutex
	name     string
	symbol   string
	treasury uint64
	supply   uint64
	balances map[string]uint64
}

// NewBank creates a bank holding the whole supply in its treasury.
func NewBank(name, symbol string, supply uint64) *Bank {
	return &Bank{
		name:     name,
		symbol:   symbol,
		treasury: supply,
		supply:   supply,
		balances: make(map[string]uint64),
	}
}

// Name returns the token name.
func (b *Bank) Name() string { return b.name }

// Symbol returns the token symbol.
func (b *Bank) Symbol() string { return b.symbol }

// TotalSupply returns the supply minted at creation.
func (b *Bank) TotalSupply() uint64 { return b.supply }

// Treasury returns the units still available for rewards.
func (b *Bank) Treasury() uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.treasury
}

// Credit moves units from the treasury to the account. It fails without any
// state change when the treasury cannot cover the amount.
func (b *Bank) Credit(account string, units uint64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if units > b.treasury {
		return ErrInsufficientTreasury
	}
	b.treasury -= units
	b.balances[account] += units
	return nil
}

// BalanceOf returns the units credited to the account so far.
func (b *Bank) BalanceOf(account string) uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.balances[account]
}
