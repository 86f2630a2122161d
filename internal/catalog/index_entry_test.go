package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/birchdb/birch/internal/bsonx"
)

func TestInferIndexType(t *testing.T) {
	cases := []struct {
		name string
		key  bsonx.Document
		want IndexType
	}{
		{"simple ascending", bsonx.Document{{Key: "a", Value: bsonx.Int32(1)}}, IndexBtree},
		{"compound mixed order", bsonx.Document{
			{Key: "a", Value: bsonx.Int32(1)},
			{Key: "b", Value: bsonx.Int32(-1)},
		}, IndexBtree},
		{"hashed", bsonx.Document{{Key: "a", Value: bsonx.String("hashed")}}, IndexHashed},
		{"2d", bsonx.Document{{Key: "loc", Value: bsonx.String("2d")}}, Index2D},
		{"2dsphere trailing field", bsonx.Document{
			{Key: "loc", Value: bsonx.String("2dsphere")},
			{Key: "a", Value: bsonx.Int32(1)},
		}, Index2DSphere},
		{"2dsphere bucket", bsonx.Document{{Key: "loc", Value: bsonx.String("2dsphere_bucket")}}, Index2DSphereBucket},
		{"wildcard", bsonx.Document{{Key: "$**", Value: bsonx.Int32(1)}}, IndexWildcard},
		{"scoped wildcard", bsonx.Document{{Key: "a.$**", Value: bsonx.Int32(1)}}, IndexWildcard},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, InferIndexType(c.key))
		})
	}
}

func TestKeyPatternElementSpecialKind(t *testing.T) {
	assert.Equal(t, "", KeyPatternElement{Field: "a", Value: bsonx.Int32(1)}.SpecialKind())
	assert.Equal(t, "hashed", KeyPatternElement{Field: "a", Value: bsonx.String("hashed")}.SpecialKind())
	assert.Equal(t, "2dsphere", KeyPatternElement{Field: "loc", Value: bsonx.String("2dsphere")}.SpecialKind())
}

func TestKeyPatternElementIsDescending(t *testing.T) {
	asc := []bsonx.Value{bsonx.Int32(1), bsonx.Int64(1), bsonx.Double(1), bsonx.String("hashed")}
	for _, v := range asc {
		assert.False(t, KeyPatternElement{Field: "a", Value: v}.IsDescending(), "%s", bsonx.Format(v))
	}
	desc := []bsonx.Value{bsonx.Int32(-1), bsonx.Int64(-1), bsonx.Double(-1.5)}
	for _, v := range desc {
		assert.True(t, KeyPatternElement{Field: "a", Value: v}.IsDescending(), "%s", bsonx.Format(v))
	}
}

func TestElementsPreserveDeclarationOrder(t *testing.T) {
	ie := &IndexEntry{KeyPattern: bsonx.Document{
		{Key: "b", Value: bsonx.Int32(1)},
		{Key: "a", Value: bsonx.Int32(-1)},
	}}
	elts := ie.Elements()
	assert.Equal(t, "b", elts[0].Field)
	assert.Equal(t, "a", elts[1].Field)
	assert.True(t, elts[1].IsDescending())
}

func TestPathHasMultikeyComponent(t *testing.T) {
	// Without path metadata, the index-wide flag decides.
	coarse := &IndexEntry{Multikey: true}
	assert.True(t, coarse.PathHasMultikeyComponent("a"))
	assert.True(t, coarse.PathHasMultikeyComponent("b.c"))

	plain := &IndexEntry{}
	assert.False(t, plain.PathHasMultikeyComponent("a"))

	// Path metadata narrows the flag to specific paths.
	narrow := &IndexEntry{
		Multikey:      true,
		MultikeyPaths: map[string]bool{"a": true},
	}
	assert.True(t, narrow.PathHasMultikeyComponent("a"))
	assert.False(t, narrow.PathHasMultikeyComponent("b"))
}
