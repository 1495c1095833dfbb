// Package model contains domain records passed between layers.
package model

// Status is the permission state a rater holds on an item.
//
// The machine only moves forward: None -> Granted -> Used. The single
// backward edge is an explicit revoke, which forces Granted back to None.
// Used is terminal for the (item, rater) pair.
type Status uint8

const (
	// StatusNone means the rater was never granted, or was revoked.
	StatusNone Status = iota
	// StatusGranted means the rater may submit exactly one rating.
	StatusGranted
	// StatusUsed means the rater already spent its grant.
	StatusUsed
)

// String returns the lowercase name of the status.
func (s Status) String() string {
	switch s {
	case StatusGranted:
		return "granted"
	case StatusUsed:
		return "used"
	default:
		return "none"
	}
}

// RatingRecord is one immutable entry of an item's append-only ledger.
// Its identity is its position in the ledger; records are never deleted.
type RatingRecord struct {
	// Score in [1,10].
	Score uint64
	// OrderKey is the environment-supplied global ordering counter value
	// at submission time; strictly increasing across the whole platform.
	OrderKey uint64
	// Rater is the address of the account that submitted the rating.
	Rater string
}

// Account is a registered platform user.
type Account struct {
	// Address is the external identity the account is bound to; it is the
	// account's key everywhere in the platform.
	Address string
	// Name is the display name chosen at registration.
	Name string
}
