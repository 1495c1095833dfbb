package scorefn

import "errors"

// Sentinel kinds for scoring-function errors.
var (
	ErrUnknownKind = errors.New("unknown scoring function kind")
)
