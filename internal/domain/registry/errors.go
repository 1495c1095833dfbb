package registry

import "errors"

// Sentinel kinds for registry errors.
var (
	ErrNotOwner = errors.New("caller does not own the function registry")
	ErrNotFound = errors.New("scoring function not found")
)
