package rating

import "errors"

// Sentinel kinds for rating engine errors.
var (
	ErrNotOwner           = errors.New("caller does not own the item")
	ErrSelfGrant          = errors.New("owner cannot authorize itself")
	ErrRaterNotRegistered = errors.New("rater is not a registered account")
	ErrAlreadyRated       = errors.New("rater already rated the item")
	ErrScoreOutOfRange    = errors.New("score outside [1,10]")
	ErrNotPermitted       = errors.New("rater has no permission to rate")
)
