// Package scorefn implements the deterministic integer scoring functions.
//
// Every function operates on three equal-length parallel slices taken from a
// ledger snapshot: scores, order keys (ascending, last element most recent)
// and the raters' skill levels at query time. All arithmetic is unsigned
// integer arithmetic with floor division, so any two callers computing over
// the same snapshot obtain bit-identical results.
package scorefn

// Kind enumerates the known scoring algorithms. The set is closed: new
// algorithms require a new enum value, which keeps dispatch total and
// auditable.
type Kind uint8

const (
	// SimpleAverage weighs every record equally.
	SimpleAverage Kind = iota
	// RecencyWeighted weighs records by orderKey relative to the newest.
	RecencyWeighted
	// SkillWeighted weighs records by the rater's skill level.
	SkillWeighted
	// RecencySkillWeighted combines recency and skill weights.
	RecencySkillWeighted

	kindCount
)

// String returns the registry label for the kind.
func (k Kind) String() string {
	switch k {
	case SimpleAverage:
		return "Simple Average"
	case RecencyWeighted:
		return "Weighted Average"
	case SkillWeighted:
		return "Weighted Skill Average"
	case RecencySkillWeighted:
		return "Weighted Skill Recency Average"
	default:
		return "Unknown"
	}
}

// Func computes a single floor-truncated integer score from parallel slices.
// Implementations are pure and side-effect free.
type Func interface {
	Compute(scores, orderKeys, skills []uint64) uint64
}

// New returns the Func for a kind, or ErrUnknownKind for values outside the
// closed set.
func New(k Kind) (Func, error) {
	switch k {
	case SimpleAverage:
		return simpleAverage{}, nil
	case RecencyWeighted:
		return recencyWeighted{}, nil
	case SkillWeighted:
		return skillWeighted{}, nil
	case RecencySkillWeighted:
		return recencySkillWeighted{}, nil
	default:
		return nil, ErrUnknownKind
	}
}

// Kinds returns every known kind in enum order.
func Kinds() []Kind {
	ks := make([]Kind, 0, int(kindCount))
	for k := Kind(0); k < kindCount; k++ {
		ks = append(ks, k)
	}
	return ks
}

// aligned reports whether the three slices form a usable snapshot.
func aligned(scores, orderKeys, skills []uint64) bool {
	return len(scores) > 0 && len(orderKeys) == len(scores) && len(skills) == len(scores)
}

type simpleAverage struct{}

func (simpleAverage) Compute(scores, orderKeys, skills []uint64) uint64 {
	if !aligned(scores, orderKeys, skills) {
		return 0
	}
	var total uint64
	for _, s := range scores {
		total += s
	}
	if total == 0 {
		return 0
	}
	return total / uint64(len(scores))
}

type recencyWeighted struct{}

func (recencyWeighted) Compute(scores, orderKeys, skills []uint64) uint64 {
	if !aligned(scores, orderKeys, skills) {
		return 0
	}
	last := orderKeys[len(orderKeys)-1]
	if last == 0 {
		return 0
	}
	var weighted, weightSum uint64
	for i, s := range scores {
		w := orderKeys[i] * 100 / last
		weighted += s * w
		weightSum += w
	}
	if weightSum == 0 || weighted == 0 {
		return 0
	}
	return weighted / weightSum
}

type skillWeighted struct{}

func (skillWeighted) Compute(scores, orderKeys, skills []uint64) uint64 {
	if !aligned(scores, orderKeys, skills) {
		return 0
	}
	var weighted, weightSum uint64
	for i, s := range scores {
		weighted += s * skills[i]
		weightSum += skills[i]
	}
	if weightSum == 0 || weighted == 0 {
		return 0
	}
	return weighted / weightSum
}

type recencySkillWeighted struct{}

func (recencySkillWeighted) Compute(scores, orderKeys, skills []uint64) uint64 {
	if !aligned(scores, orderKeys, skills) {
		return 0
	}
	last := orderKeys[len(orderKeys)-1]
	if last == 0 {
		return 0
	}
	var weighted, weightSum uint64
	for i, s := range scores {
		w := orderKeys[i] * skills[i] * 100 / last
		weighted += s * w
		weightSum += w
	}
	if weightSum == 0 || weighted == 0 {
		return 0
	}
	return weighted / weightSum
}
