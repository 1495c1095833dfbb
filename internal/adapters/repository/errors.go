package repository

import "errors"

// Sentinel kinds for directory errors.
var (
	ErrDuplicateAccount = errors.New("address already registered")
	ErrAccountNotFound  = errors.New("account not found")
	ErrDuplicateItem    = errors.New("item already tracked")
	ErrItemNotFound     = errors.New("item not found")
)
