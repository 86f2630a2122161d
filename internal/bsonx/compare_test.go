package bsonx

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompareCrossTypeOrder(t *testing.T) {
	// One representative per rank, in canonical order.
	ordered := []Value{
		MinKey{},
		Undefined{},
		Null{},
		Int32(7),
		String("abc"),
		Document{{Key: "a", Value: Int32(1)}},
		Array{Int32(1)},
		Binary{Subtype: 0, Data: []byte{1}},
		ObjectID{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12},
		Boolean(true),
		DateTime(1000),
		Timestamp{T: 1, I: 1},
		Regex{Pattern: "a"},
		MaxKey{},
	}
	for i := range ordered {
		for j := range ordered {
			got := Compare(ordered[i], ordered[j])
			switch {
			case i < j:
				assert.Equal(t, -1, got, "%s vs %s", Format(ordered[i]), Format(ordered[j]))
			case i > j:
				assert.Equal(t, 1, got, "%s vs %s", Format(ordered[i]), Format(ordered[j]))
			default:
				assert.Equal(t, 0, got, "%s vs itself", Format(ordered[i]))
			}
		}
	}
}

func TestCompareNumericWidths(t *testing.T) {
	assert.Equal(t, 0, Compare(Int32(5), Int64(5)))
	assert.Equal(t, 0, Compare(Int64(5), Double(5)))
	assert.Equal(t, 0, Compare(Int32(5), MustDecimal("5.00")))
	assert.Equal(t, -1, Compare(Int32(5), Double(5.5)))
	assert.Equal(t, 1, Compare(MustDecimal("5.1"), Int64(5)))
	assert.Equal(t, -1, Compare(Double(math.Inf(-1)), Int64(math.MinInt64)))
	assert.Equal(t, 1, Compare(Double(math.Inf(1)), MustDecimal("1E+6000")))
}

func TestCompareExtremeOperands(t *testing.T) {
	// Mixed-width comparisons must not wrap around at the int64 limits.
	assert.Equal(t, 1, Compare(Int64(math.MaxInt64), Int32(-1)))
	assert.Equal(t, -1, Compare(Int64(math.MinInt64), Int32(1)))
	assert.Equal(t, -1, Compare(Int32(-1), Int64(math.MaxInt64)))
	assert.Equal(t, 1, Compare(Int32(1), Int64(math.MinInt64)))

	assert.Equal(t, 1, Compare(DateTime(math.MaxInt64), DateTime(-1)))
	assert.Equal(t, -1, Compare(DateTime(math.MinInt64), DateTime(1)))
}

func TestCompareInt64DoublePrecision(t *testing.T) {
	// 2^53 is exactly representable; 2^53+1 is not. The comparison must
	// not round the long through float64.
	big := int64(1) << 53
	assert.Equal(t, 0, Compare(Int64(big), Double(float64(big))))
	assert.Equal(t, 1, Compare(Int64(big+1), Double(float64(big))))
	assert.Equal(t, -1, Compare(Int64(big-1), Double(float64(big))))

	// Doubles beyond int64 range sort past every long.
	assert.Equal(t, -1, Compare(Int64(math.MaxInt64), Double(1e19)))
	assert.Equal(t, 1, Compare(Int64(math.MinInt64), Double(-1e19)))
}

func TestCompareNaN(t *testing.T) {
	nan := Double(math.NaN())
	assert.True(t, IsNaN(nan))
	assert.True(t, IsNaN(MustDecimal("NaN")))
	assert.False(t, IsNaN(Double(0)))
	assert.False(t, IsNaN(String("NaN")))

	assert.Equal(t, 0, Compare(nan, nan))
	assert.Equal(t, 0, Compare(nan, MustDecimal("NaN")))
	assert.Equal(t, -1, Compare(nan, Double(math.Inf(-1))))
	assert.Equal(t, 1, Compare(Int32(0), nan))
	// NaN still sorts inside the numeric bracket, above null.
	assert.Equal(t, 1, Compare(nan, Null{}))
}

func TestCompareStringBracket(t *testing.T) {
	assert.Equal(t, 0, Compare(String("ab"), Symbol("ab")))
	assert.Equal(t, -1, Compare(String("ab"), String("b")))
	assert.Equal(t, 1, Compare(Symbol("b"), String("ab")))
}

func TestCompareDocuments(t *testing.T) {
	ab := Document{{Key: "a", Value: Int32(1)}, {Key: "b", Value: Int32(2)}}
	assert.Equal(t, 0, Compare(ab, Document{{Key: "a", Value: Int32(1)}, {Key: "b", Value: Int32(2)}}))
	// Field names compare before values.
	assert.Equal(t, -1, Compare(
		Document{{Key: "a", Value: Int32(9)}},
		Document{{Key: "b", Value: Int32(1)}},
	))
	// A proper prefix sorts first.
	assert.Equal(t, -1, Compare(Document{{Key: "a", Value: Int32(1)}}, ab))
	// Value order decides when names match.
	assert.Equal(t, 1, Compare(
		Document{{Key: "a", Value: Int32(2)}},
		Document{{Key: "a", Value: Int32(1)}},
	))
}

func TestCompareArrays(t *testing.T) {
	assert.Equal(t, 0, Compare(Array{Int32(1), Int32(2)}, Array{Int64(1), Double(2)}))
	assert.Equal(t, -1, Compare(Array{}, Array{Int32(1)}))
	assert.Equal(t, -1, Compare(Array{Int32(1)}, Array{Int32(1), Int32(0)}))
	assert.Equal(t, 1, Compare(Array{Int32(2)}, Array{Int32(1), Int32(9)}))
}

func TestCompareBinary(t *testing.T) {
	// Length first, then subtype, then bytes.
	assert.Equal(t, -1, Compare(
		Binary{Subtype: 5, Data: []byte{0xff}},
		Binary{Subtype: 0, Data: []byte{0, 0}},
	))
	assert.Equal(t, -1, Compare(
		Binary{Subtype: 0, Data: []byte{0xff}},
		Binary{Subtype: 1, Data: []byte{0}},
	))
	assert.Equal(t, 1, Compare(
		Binary{Subtype: 0, Data: []byte{2}},
		Binary{Subtype: 0, Data: []byte{1}},
	))
}

func TestCompareRegex(t *testing.T) {
	assert.Equal(t, -1, Compare(Regex{Pattern: "a"}, Regex{Pattern: "b"}))
	assert.Equal(t, -1, Compare(Regex{Pattern: "a", Options: "i"}, Regex{Pattern: "a", Options: "m"}))
	assert.Equal(t, 0, Compare(Regex{Pattern: "a", Options: "i"}, Regex{Pattern: "a", Options: "i"}))
}

func TestEqualRequiresSameType(t *testing.T) {
	assert.True(t, Equal(Int32(5), Int32(5)))
	assert.False(t, Equal(Int32(5), Int64(5)))
	assert.False(t, Equal(String("a"), Symbol("a")))
	assert.True(t, Equal(Null{}, Null{}))
	assert.False(t, Equal(Null{}, Undefined{}))
}
