// Package bounds translates predicate nodes into index-seekable interval
// bounds and assembles per-field bounds into whole-index bounds.
package bounds

// Tightness classifies how precisely generated bounds match a predicate.
// The values are ordered: lower is more precise, and combining bounds
// widens toward the loosest operand.
type Tightness int

const (
	// TightnessExact bounds need no rechecking.
	TightnessExact Tightness = iota
	// TightnessInexactCovered bounds need rechecking against the index key
	// only; no document fetch.
	TightnessInexactCovered
	// TightnessInexactFetch bounds require fetching the full document to
	// verify each match.
	TightnessInexactFetch
)

func (t Tightness) String() string {
	switch t {
	case TightnessExact:
		return "EXACT"
	case TightnessInexactCovered:
		return "INEXACT_COVERED"
	case TightnessInexactFetch:
		return "INEXACT_FETCH"
	}
	return "UNKNOWN"
}

// Widen returns the looser of two tightness values.
func Widen(a, b Tightness) Tightness {
	if a > b {
		return a
	}
	return b
}
