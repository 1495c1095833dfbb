package config

import "errors"

// Sentinel kinds for configuration errors.
var (
	ErrEmptyAddr   = errors.New("addr must not be empty")
	ErrEmptyOwner  = errors.New("owner_address must not be empty")
	ErrEmptySecret = errors.New("jwt_secret must not be empty")
	ErrBadTokenTTL = errors.New("token_ttl_minutes must be positive")
)
