package interval

import (
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/birchdb/birch/internal/bsonx"
	"github.com/birchdb/birch/pkg/util/berr"
)

// OrderedIntervalList is the sorted, non-overlapping set of intervals a
// single indexed field may scan.
type OrderedIntervalList struct {
	Name      string
	Intervals []Interval
}

// lessByStart is the sort order used before merging: ascending start value,
// with an inclusive start sorting before an exclusive one at equal values.
// Equivalent bounds compare false both ways, keeping the ordering a strict
// weak ordering.
func lessByStart(a, b Interval) bool {
	c := bsonx.Compare(a.Start, b.Start)
	if c != 0 {
		return c < 0
	}
	if a.StartInclusive == b.StartInclusive {
		return false
	}
	return a.StartInclusive
}

// Unionize sorts the list and merges every overlapping, contained or
// touching pair, leaving consecutive intervals related strictly by
// PRECEDES.
func (oil *OrderedIntervalList) Unionize() {
	iv := oil.Intervals
	if len(iv) == 0 {
		return
	}

	sort.Slice(iv, func(i, j int) bool { return lessByStart(iv[i], iv[j]) })

	i := 0
	for i < len(iv)-1 {
		cmp := iv[i].Compare(iv[i+1])
		berr.Invariant(cmp != ComparisonSucceeds, "interval %v sorted after %v", iv[i], iv[i+1])

		switch cmp {
		case ComparisonPrecedes:
			i++
		case ComparisonEquals, ComparisonWithin:
			// iv[i] is dominated by iv[i+1]; drop it and stay put.
			iv = append(iv[:i], iv[i+1:]...)
		case ComparisonContains:
			iv = append(iv[:i+1], iv[i+2:]...)
		case ComparisonOverlapsBefore, ComparisonPrecedesCouldUnion:
			merged := MakeRange(iv[i].Start, iv[i+1].End, iv[i].StartInclusive, iv[i+1].EndInclusive)
			iv[i+1] = merged
			iv = append(iv[:i], iv[i+1:]...)
		default:
			berr.Unreachable("unexpected interval relation %v during union", cmp)
		}
	}
	oil.Intervals = iv
}

// Intersectize narrows out to its overlap with arg. Both lists must
// already be sorted and non-overlapping (i.e. unionized).
func Intersectize(arg OrderedIntervalList, out *OrderedIntervalList) {
	berr.Invariant(out != nil, "intersect target must not be nil")
	berr.Invariant(arg.Name == out.Name, "field name mismatch: %q vs %q", arg.Name, out.Name)

	a := arg.Intervals
	b := out.Intervals
	var result []Interval

	ai, bi := 0, 0
	for ai < len(a) && bi < len(b) {
		assertAscendingAt(a, ai)
		assertAscendingAt(b, bi)

		cmp := a[ai].Compare(b[bi])
		switch cmp {
		case ComparisonPrecedes, ComparisonPrecedesCouldUnion:
			ai++
		case ComparisonSucceeds:
			bi++
		default:
			overlap := a[ai]
			overlap.Intersect(b[bi], cmp)
			result = append(result, overlap)

			switch cmp {
			case ComparisonEquals:
				ai++
				bi++
			case ComparisonWithin, ComparisonOverlapsBefore:
				ai++
			case ComparisonContains, ComparisonOverlapsAfter:
				bi++
			default:
				berr.Unreachable("unexpected interval relation %v during intersect", cmp)
			}
		}
	}

	out.Intervals = result
}

// assertAscendingAt checks that the interval at idx is ascending (or a
// point) and does not precede its left neighbor.
func assertAscendingAt(iv []Interval, idx int) {
	cur := iv[idx]
	berr.Invariant(bsonx.Compare(cur.Start, cur.End) <= 0,
		"descending interval %v fed to intersect", cur)
	if idx > 0 {
		berr.Invariant(bsonx.Compare(iv[idx-1].End, cur.Start) <= 0,
			"unsorted interval list: %v before %v", iv[idx-1], cur)
	}
}

// Complement replaces the list with the gaps between its intervals plus the
// two open runs out to MinKey and MaxKey. The list must already be
// unionized.
func (oil *OrderedIntervalList) Complement() {
	var out []Interval
	var lower bsonx.Value = bsonx.MinKey{}
	lowerInclusive := true

	for _, cur := range oil.Intervals {
		gap := MakeRange(lower, cur.Start, lowerInclusive, !cur.StartInclusive)
		if !gap.IsEmpty() {
			out = append(out, gap)
		}
		lower = cur.End
		lowerInclusive = !cur.EndInclusive
	}

	tail := MakeRange(lower, bsonx.MaxKey{}, lowerInclusive, true)
	if !tail.IsEmpty() {
		out = append(out, tail)
	}
	oil.Intervals = out
}

// Reverse flips the list for a descending scan: every interval's bounds are
// swapped and the sequence order is reversed.
func (oil *OrderedIntervalList) Reverse() {
	for i := range oil.Intervals {
		oil.Intervals[i].Reverse()
	}
	lo.Reverse(oil.Intervals)
}

// Equals reports whether both lists hold the same intervals for the same
// field.
func (oil OrderedIntervalList) Equals(other OrderedIntervalList) bool {
	if oil.Name != other.Name || len(oil.Intervals) != len(other.Intervals) {
		return false
	}
	for i := range oil.Intervals {
		if !oil.Intervals[i].Equals(other.Intervals[i]) {
			return false
		}
	}
	return true
}

// Clone returns a deep-enough copy: the interval slice is copied, the
// values inside are shared (they are immutable once built).
func (oil OrderedIntervalList) Clone() OrderedIntervalList {
	out := OrderedIntervalList{Name: oil.Name}
	out.Intervals = append(out.Intervals, oil.Intervals...)
	return out
}

func (oil OrderedIntervalList) String() string {
	parts := lo.Map(oil.Intervals, func(iv Interval, _ int) string { return iv.String() })
	return "'" + oil.Name + "': " + strings.Join(parts, " ∪ ")
}
