// Package interval implements the ordered-interval algebra the bounds
// builder is built on: single intervals over the BSON value domain, sorted
// non-overlapping interval lists with union/intersect/complement/reverse,
// and whole-index bounds.
package interval

import (
	"strings"

	"github.com/birchdb/birch/internal/bsonx"
	"github.com/birchdb/birch/pkg/util/berr"
)

// Interval is one contiguous range over the BSON value domain.
type Interval struct {
	Start          bsonx.Value
	StartInclusive bool
	End            bsonx.Value
	EndInclusive   bool
}

// Comparison is the 8-way relation between two intervals.
type Comparison int

const (
	// ComparisonEquals: both intervals are the same range.
	ComparisonEquals Comparison = iota
	// ComparisonContains: this interval is a superset of the other.
	ComparisonContains
	// ComparisonWithin: this interval is a subset of the other.
	ComparisonWithin
	// ComparisonOverlapsBefore: this starts first, overlap is a strict
	// partial intersection.
	ComparisonOverlapsBefore
	// ComparisonOverlapsAfter: the other starts first, overlap is a strict
	// partial intersection.
	ComparisonOverlapsAfter
	// ComparisonPrecedes: this ends before the other starts, with a gap.
	ComparisonPrecedes
	// ComparisonPrecedesCouldUnion: this ends exactly where the other
	// starts and exactly one of the touching bounds is inclusive, so the
	// union is one interval.
	ComparisonPrecedesCouldUnion
	// ComparisonSucceeds: this starts after the other ends.
	ComparisonSucceeds
)

func (c Comparison) String() string {
	switch c {
	case ComparisonEquals:
		return "EQUALS"
	case ComparisonContains:
		return "CONTAINS"
	case ComparisonWithin:
		return "WITHIN"
	case ComparisonOverlapsBefore:
		return "OVERLAPS_BEFORE"
	case ComparisonOverlapsAfter:
		return "OVERLAPS_AFTER"
	case ComparisonPrecedes:
		return "PRECEDES"
	case ComparisonPrecedesCouldUnion:
		return "PRECEDES_COULD_UNION"
	case ComparisonSucceeds:
		return "SUCCEEDS"
	}
	return "UNKNOWN"
}

// MakePoint returns the single-value interval [v, v].
func MakePoint(v bsonx.Value) Interval {
	return Interval{Start: v, StartInclusive: true, End: v, EndInclusive: true}
}

// MakeRange returns the interval from start to end with the given
// inclusivity.
func MakeRange(start, end bsonx.Value, startInclusive, endInclusive bool) Interval {
	return Interval{Start: start, StartInclusive: startInclusive, End: end, EndInclusive: endInclusive}
}

// AllValues returns the full-domain interval [MinKey, MaxKey].
func AllValues() Interval {
	return MakeRange(bsonx.MinKey{}, bsonx.MaxKey{}, true, true)
}

// AllValuesRespectingInclusion returns the full-domain interval with the
// given bound inclusivity.
func AllValuesRespectingInclusion(startInclusive, endInclusive bool) Interval {
	return MakeRange(bsonx.MinKey{}, bsonx.MaxKey{}, startInclusive, endInclusive)
}

// IsEmpty reports whether the interval contains no values: start after end,
// or start equal to end without both bounds inclusive.
func (iv Interval) IsEmpty() bool {
	c := bsonx.Compare(iv.Start, iv.End)
	if c > 0 {
		return true
	}
	return c == 0 && !(iv.StartInclusive && iv.EndInclusive)
}

// IsPoint reports whether the interval holds exactly one value.
func (iv Interval) IsPoint() bool {
	return iv.StartInclusive && iv.EndInclusive && bsonx.Compare(iv.Start, iv.End) == 0
}

// IsMinToMax reports whether the interval spans the whole domain ascending.
func (iv Interval) IsMinToMax() bool {
	return iv.Start.Type() == bsonx.TypeMinKey && iv.End.Type() == bsonx.TypeMaxKey
}

// IsMaxToMin reports whether the interval spans the whole domain descending.
func (iv Interval) IsMaxToMin() bool {
	return iv.Start.Type() == bsonx.TypeMaxKey && iv.End.Type() == bsonx.TypeMinKey
}

// Equals reports whether both intervals are the same range with the same
// inclusivity.
func (iv Interval) Equals(other Interval) bool {
	return iv.StartInclusive == other.StartInclusive &&
		iv.EndInclusive == other.EndInclusive &&
		bsonx.Compare(iv.Start, other.Start) == 0 &&
		bsonx.Compare(iv.End, other.End) == 0
}

// compareStarts orders interval start bounds: by value, then inclusive
// before exclusive. Returns <0 when iv's start bound comes first.
func compareStarts(a, b Interval) int {
	if c := bsonx.Compare(a.Start, b.Start); c != 0 {
		return c
	}
	if a.StartInclusive == b.StartInclusive {
		return 0
	}
	if a.StartInclusive {
		return -1
	}
	return 1
}

// compareEnds orders interval end bounds: by value, then exclusive before
// inclusive. Returns >0 when iv's end bound extends further.
func compareEnds(a, b Interval) int {
	if c := bsonx.Compare(a.End, b.End); c != 0 {
		return c
	}
	if a.EndInclusive == b.EndInclusive {
		return 0
	}
	if a.EndInclusive {
		return 1
	}
	return -1
}

// Compare classifies the relation between iv and other. Both intervals
// must be non-empty; the value domain is totally ordered so the result is
// always one of the eight relations.
func (iv Interval) Compare(other Interval) Comparison {
	ss := compareStarts(iv, other)
	ee := compareEnds(iv, other)

	if ss == 0 && ee == 0 {
		return ComparisonEquals
	}

	// Disjoint: iv entirely before other.
	if v := bsonx.Compare(iv.End, other.Start); v < 0 ||
		(v == 0 && !(iv.EndInclusive && other.StartInclusive)) {
		if v == 0 && (iv.EndInclusive || other.StartInclusive) {
			return ComparisonPrecedesCouldUnion
		}
		return ComparisonPrecedes
	}

	// Disjoint: iv entirely after other.
	if v := bsonx.Compare(other.End, iv.Start); v < 0 ||
		(v == 0 && !(other.EndInclusive && iv.StartInclusive)) {
		return ComparisonSucceeds
	}

	// The intervals intersect.
	if ss >= 0 && ee <= 0 {
		return ComparisonWithin
	}
	if ss <= 0 && ee >= 0 {
		return ComparisonContains
	}
	if ss < 0 {
		return ComparisonOverlapsBefore
	}
	return ComparisonOverlapsAfter
}

// Intersect narrows iv to its overlap with other. cmp must be the result
// of iv.Compare(other) and must denote a non-empty overlap.
func (iv *Interval) Intersect(other Interval, cmp Comparison) {
	switch cmp {
	case ComparisonEquals, ComparisonWithin:
		// iv is already the overlap.
	case ComparisonContains:
		*iv = other
	case ComparisonOverlapsBefore:
		iv.Start = other.Start
		iv.StartInclusive = other.StartInclusive
	case ComparisonOverlapsAfter:
		iv.End = other.End
		iv.EndInclusive = other.EndInclusive
	default:
		berr.Unreachable("cannot intersect intervals related by %v", cmp)
	}
}

// Reverse swaps the interval's bounds, for descending-field alignment.
func (iv *Interval) Reverse() {
	iv.Start, iv.End = iv.End, iv.Start
	iv.StartInclusive, iv.EndInclusive = iv.EndInclusive, iv.StartInclusive
}

func (iv Interval) String() string {
	var sb strings.Builder
	if iv.StartInclusive {
		sb.WriteByte('[')
	} else {
		sb.WriteByte('(')
	}
	sb.WriteString(bsonx.Format(iv.Start))
	sb.WriteString(", ")
	sb.WriteString(bsonx.Format(iv.End))
	if iv.EndInclusive {
		sb.WriteByte(']')
	} else {
		sb.WriteByte(')')
	}
	return sb.String()
}
