package app

import "errors"

// Sentinel kinds for platform service errors.
var (
	ErrNotRegistered   = errors.New("caller is not a registered account")
	ErrNotAccountOwner = errors.New("caller does not own the account")
	ErrUnknownSkill    = errors.New("skill tag not in catalog")
	ErrEmptyField      = errors.New("required field is empty")
)
