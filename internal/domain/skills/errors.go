package skills

import "errors"

// Sentinel kinds for catalog and ledger errors.
var (
	ErrNotOwner       = errors.New("caller does not own the skill catalog")
	ErrEmptySkillName = errors.New("skill name must not be empty")
	ErrDuplicateSkill = errors.New("skill already in catalog")
	ErrNotFound       = errors.New("skill not found")
)
