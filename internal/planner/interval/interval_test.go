package interval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/birchdb/birch/internal/bsonx"
)

func pt(v int32) Interval {
	return MakePoint(bsonx.Int32(v))
}

func rng(start, end int32, si, ei bool) Interval {
	return MakeRange(bsonx.Int32(start), bsonx.Int32(end), si, ei)
}

func TestIntervalEmptiness(t *testing.T) {
	assert.False(t, pt(5).IsEmpty())
	assert.False(t, rng(1, 2, true, false).IsEmpty())

	// Start after end.
	assert.True(t, rng(3, 1, true, true).IsEmpty())

	// Degenerate single-value intervals are empty unless both bounds are
	// inclusive.
	assert.True(t, rng(2, 2, true, false).IsEmpty())
	assert.True(t, rng(2, 2, false, true).IsEmpty())
	assert.True(t, rng(2, 2, false, false).IsEmpty())
	assert.False(t, rng(2, 2, true, true).IsEmpty())
}

func TestIntervalPointAndDomain(t *testing.T) {
	assert.True(t, pt(7).IsPoint())
	assert.False(t, rng(1, 2, true, true).IsPoint())

	assert.True(t, AllValues().IsMinToMax())
	reversed := AllValues()
	reversed.Reverse()
	assert.True(t, reversed.IsMaxToMin())
}

func TestIntervalCompare(t *testing.T) {
	cases := []struct {
		name string
		a, b Interval
		want Comparison
	}{
		{"equal points", pt(4), pt(4), ComparisonEquals},
		{"equal ranges", rng(1, 5, true, false), rng(1, 5, true, false), ComparisonEquals},
		{"disjoint with gap", rng(1, 2, true, true), rng(4, 5, true, true), ComparisonPrecedes},
		{"after with gap", rng(4, 5, true, true), rng(1, 2, true, true), ComparisonSucceeds},
		{"touching one inclusive", rng(1, 2, true, false), rng(2, 3, true, true), ComparisonPrecedesCouldUnion},
		{"touching other inclusive", rng(1, 2, true, true), rng(2, 3, false, true), ComparisonPrecedesCouldUnion},
		{"touching neither inclusive", rng(1, 2, true, false), rng(2, 3, false, true), ComparisonPrecedes},
		{"touching both inclusive", rng(1, 2, true, true), rng(2, 3, true, true), ComparisonOverlapsBefore},
		{"strict subset", rng(2, 3, true, true), rng(1, 5, true, true), ComparisonWithin},
		{"strict superset", rng(1, 5, true, true), rng(2, 3, true, true), ComparisonContains},
		{"same start shorter", rng(1, 3, true, true), rng(1, 5, true, true), ComparisonWithin},
		{"partial overlap before", rng(1, 4, true, true), rng(3, 6, true, true), ComparisonOverlapsBefore},
		{"partial overlap after", rng(3, 6, true, true), rng(1, 4, true, true), ComparisonOverlapsAfter},
		{"inclusivity decides containment", rng(1, 5, true, true), rng(1, 5, false, false), ComparisonContains},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.a.Compare(tc.b), "%v vs %v", tc.a, tc.b)
		})
	}
}

func TestIntervalIntersect(t *testing.T) {
	a := rng(1, 4, true, true)
	b := rng(3, 6, false, true)
	cmp := a.Compare(b)
	require.Equal(t, ComparisonOverlapsBefore, cmp)
	a.Intersect(b, cmp)
	assert.True(t, a.Equals(rng(3, 4, false, true)))

	c := rng(1, 10, true, true)
	d := rng(4, 5, false, false)
	cmp = c.Compare(d)
	require.Equal(t, ComparisonContains, cmp)
	c.Intersect(d, cmp)
	assert.True(t, c.Equals(d))
}

func TestIntervalReverse(t *testing.T) {
	iv := rng(1, 5, true, false)
	iv.Reverse()
	assert.True(t, iv.Equals(MakeRange(bsonx.Int32(5), bsonx.Int32(1), false, true)))
}

func TestIntervalString(t *testing.T) {
	assert.Equal(t, "[1, 5)", rng(1, 5, true, false).String())
	assert.Equal(t, "(1, 5]", rng(1, 5, false, true).String())
}
