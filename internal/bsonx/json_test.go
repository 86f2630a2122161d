package bsonx

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromJSONScalars(t *testing.T) {
	cases := []struct {
		raw  string
		want Value
	}{
		{`null`, Null{}},
		{`true`, Boolean(true)},
		{`false`, Boolean(false)},
		{`"hello"`, String("hello")},
		{`5`, Int32(5)},
		{`-2147483648`, Int32(math.MinInt32)},
		{`2147483648`, Int64(math.MaxInt32 + 1)},
		{`5.5`, Double(5.5)},
		{`1e3`, Double(1000)},
	}
	for _, c := range cases {
		got, err := FromJSON(c.raw)
		require.NoError(t, err, c.raw)
		assert.True(t, Equal(c.want, got), "%s: got %s", c.raw, Format(got))
	}
}

func TestFromJSONComposites(t *testing.T) {
	got, err := FromJSON(`{"a": [1, "x", {"b": null}], "c": 2.5}`)
	require.NoError(t, err)
	want := Document{
		{Key: "a", Value: Array{Int32(1), String("x"), Document{{Key: "b", Value: Null{}}}}},
		{Key: "c", Value: Double(2.5)},
	}
	assert.True(t, Equal(want, got), "got %s", Format(got))
}

func TestFromJSONExtendedTypes(t *testing.T) {
	cases := []struct {
		raw  string
		want Value
	}{
		{`{"$minKey": 1}`, MinKey{}},
		{`{"$maxKey": 1}`, MaxKey{}},
		{`{"$undefined": true}`, Undefined{}},
		{`{"$symbol": "s"}`, Symbol("s")},
		{`{"$numberInt": "42"}`, Int32(42)},
		{`{"$numberLong": "9007199254740993"}`, Int64(9007199254740993)},
		{`{"$numberDouble": "2.5"}`, Double(2.5)},
		{`{"$numberDouble": "Infinity"}`, Double(math.Inf(1))},
		{`{"$numberDouble": "-Infinity"}`, Double(math.Inf(-1))},
		{`{"$date": 1700000000000}`, DateTime(1700000000000)},
		{`{"$timestamp": {"t": 7, "i": 3}}`, Timestamp{T: 7, I: 3}},
		{`{"$regularExpression": {"pattern": "^a", "options": "i"}}`, Regex{Pattern: "^a", Options: "i"}},
		{`{"$binary": {"base64": "AQID", "subType": "00"}}`, Binary{Subtype: 0, Data: []byte{1, 2, 3}}},
	}
	for _, c := range cases {
		got, err := FromJSON(c.raw)
		require.NoError(t, err, c.raw)
		assert.True(t, Equal(c.want, got), "%s: got %s", c.raw, Format(got))
	}
}

func TestFromJSONNaN(t *testing.T) {
	got, err := FromJSON(`{"$numberDouble": "NaN"}`)
	require.NoError(t, err)
	assert.True(t, IsNaN(got))
}

func TestFromJSONDecimal(t *testing.T) {
	got, err := FromJSON(`{"$numberDecimal": "10.99"}`)
	require.NoError(t, err)
	assert.Equal(t, TypeDecimal, got.Type())
	assert.Equal(t, 0, Compare(got, MustDecimal("10.99")))
}

func TestFromJSONObjectID(t *testing.T) {
	got, err := FromJSON(`{"$oid": "507f1f77bcf86cd799439011"}`)
	require.NoError(t, err)
	oid, ok := got.(ObjectID)
	require.True(t, ok)
	assert.Equal(t, byte(0x50), oid[0])
	assert.Equal(t, byte(0x11), oid[11])
}

func TestFromJSONErrors(t *testing.T) {
	for _, raw := range []string{
		`{"a": `,
		`{"$oid": "zz"}`,
		`{"$oid": "507f1f77"}`,
		`{"$binary": {"base64": "!!!", "subType": "00"}}`,
		`{"$binary": {"base64": "AQID", "subType": "xyz"}}`,
		`{"$numberDecimal": "not-a-number"}`,
	} {
		_, err := FromJSON(raw)
		assert.Error(t, err, raw)
	}
}

// Dollar-prefixed keys that are not a recognized extended form parse as
// plain documents.
func TestFromJSONUnknownDollarKey(t *testing.T) {
	got, err := FromJSON(`{"$custom": 1}`)
	require.NoError(t, err)
	assert.True(t, Equal(Document{{Key: "$custom", Value: Int32(1)}}, got))
}
