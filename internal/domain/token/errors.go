package token

import "errors"

// Sentinel kinds for token bank errors.
var (
	ErrInsufficientTreasury = errors.New("treasury cannot cover the reward")
)
