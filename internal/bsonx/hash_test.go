package bsonx

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashFoldsNumericWidths(t *testing.T) {
	h := Hash(Int32(5))
	assert.Equal(t, h, Hash(Int64(5)))
	assert.Equal(t, h, Hash(Double(5)))
	assert.NotEqual(t, h, Hash(Double(5.5)))
	assert.NotEqual(t, h, Hash(Int32(6)))
}

func TestHashDistinguishesBrackets(t *testing.T) {
	assert.NotEqual(t, Hash(Int32(5)), Hash(String("5")))
	assert.NotEqual(t, Hash(Null{}), Hash(Undefined{}))
	assert.NotEqual(t, Hash(Boolean(true)), Hash(Int32(1)))
	assert.NotEqual(t, Hash(DateTime(0)), Hash(Timestamp{}))
}

func TestHashStringAndSymbolShareRepresentation(t *testing.T) {
	assert.Equal(t, Hash(String("abc")), Hash(Symbol("abc")))
	assert.NotEqual(t, Hash(String("abc")), Hash(String("abd")))
}

func TestHashDecimalIgnoresTrailingZeros(t *testing.T) {
	assert.Equal(t, Hash(MustDecimal("5")), Hash(MustDecimal("5.00")))
	assert.Equal(t, Hash(MustDecimal("1.5")), Hash(MustDecimal("1.50")))
	assert.NotEqual(t, Hash(MustDecimal("1.5")), Hash(MustDecimal("1.51")))
}

func TestHashDecimalFoldsIntoNumericForms(t *testing.T) {
	assert.Equal(t, Hash(Int64(5)), Hash(MustDecimal("5")))
	assert.Equal(t, Hash(Int32(5)), Hash(MustDecimal("5.00")))
	assert.Equal(t, Hash(Double(5.5)), Hash(MustDecimal("5.5")))

	// Integral decimals past 2^53 fold exactly, not through float64.
	big := int64(1)<<53 + 1
	assert.Equal(t, Hash(Int64(big)), Hash(MustDecimal("9007199254740993")))
	assert.NotEqual(t, Hash(Int64(big-1)), Hash(MustDecimal("9007199254740993")))

	assert.Equal(t, Hash(Double(math.Inf(1))), Hash(MustDecimal("Infinity")))
	assert.Equal(t, Hash(Double(math.NaN())), Hash(MustDecimal("NaN")))
}

func TestHashIntegerWindowBounds(t *testing.T) {
	// -2^63 is exactly representable as a double and must fold with the
	// equal Int64; 2^63 is out of int64 range and stays a double.
	minAsDouble := Double(-9.223372036854776e18)
	assert.Equal(t, Hash(Int64(math.MinInt64)), Hash(minAsDouble))
	assert.Equal(t, Hash(Int64(math.MinInt64)), Hash(MustDecimal("-9223372036854775808")))

	maxAsDouble := Double(9.223372036854776e18)
	assert.Equal(t, Hash(maxAsDouble), Hash(MustDecimal("9223372036854775808")))
	assert.NotEqual(t, Hash(Int64(math.MaxInt64)), Hash(maxAsDouble))
}

func TestHashNonIntegralDouble(t *testing.T) {
	assert.NotEqual(t, Hash(Double(math.Inf(1))), Hash(Double(math.MaxFloat64)))
	assert.Equal(t, Hash(Double(0.5)), Hash(Double(0.5)))
}

func TestHashCompositeValues(t *testing.T) {
	doc := Document{{Key: "a", Value: Int32(1)}, {Key: "b", Value: String("x")}}
	same := Document{{Key: "a", Value: Double(1)}, {Key: "b", Value: String("x")}}
	assert.Equal(t, Hash(doc), Hash(same))
	assert.NotEqual(t, Hash(doc), Hash(Document{{Key: "a", Value: Int32(1)}}))
	assert.NotEqual(t, Hash(Array{Int32(1), Int32(2)}), Hash(Array{Int32(2), Int32(1)}))
}
