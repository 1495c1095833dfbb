package rating

import "sync/atomic"

// Sequence is the process-wide OrderSource. A single instance is shared by
// every item so order keys form one total order across the platform.
type Sequence struct {
	n atomic.Uint64
}

// NewSequence creates a sequence starting at 1.
func NewSequence() *Sequence {
	return &Sequence{}
}

// Next returns the next order key. The first value handed out is 1, never
// 0, so the recency-weighted functions always see a nonzero newest key once
// a ledger is non-empty.
func (s *Sequence) Next() uint64 {
	return s.n.Add(1)
}

// Current returns the last order key handed out.
func (s *Sequence) Current() uint64 {
	return s.n.Load()
}
