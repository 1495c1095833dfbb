package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrBadBody      = errors.New("malformed request body")
	ErrBadItemID    = errors.New("item id must be a uuid")
	ErrMissingToken = errors.New("missing bearer token")
	ErrBadFunction  = errors.New("fn must be a function index")
)
