package bounds

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/birchdb/birch/internal/bsonx"
	"github.com/birchdb/birch/internal/catalog"
	"github.com/birchdb/birch/internal/matcher"
	"github.com/birchdb/birch/internal/planner/interval"
)

func btreeIndex(field string) *catalog.IndexEntry {
	return &catalog.IndexEntry{
		Name:       field + "_1",
		KeyPattern: bsonx.Document{{Key: field, Value: bsonx.Int32(1)}},
		Type:       catalog.IndexBtree,
	}
}

func TestSimpleRegexPrefixes(t *testing.T) {
	index := btreeIndex("a")

	cases := []struct {
		pattern    string
		flags      string
		wantPrefix string
		want       Tightness
	}{
		{"^foo", "", "foo", TightnessInexactCovered},
		{`\Afoo`, "", "foo", TightnessInexactCovered},
		{`\Afoo`, "m", "foo", TightnessInexactCovered},
		{"^foo", "m", "", TightnessInexactCovered},
		{"foo", "", "", TightnessInexactCovered},
		{"^foo.*", "", "foo", TightnessExact},
		{"^foo.*bar", "", "foo", TightnessInexactCovered},
		{"^foo.bar", "", "foo", TightnessInexactCovered},
		{"^f?oo", "", "", TightnessInexactCovered},
		{"^fz*oo", "", "f", TightnessInexactCovered},
		{`^\Qmeta.chars*\E`, "", "meta.chars*", TightnessInexactCovered},
		{`^foo\.bar`, "", "foo.bar", TightnessInexactCovered},
		{`^foo\dbar`, "", "foo", TightnessInexactCovered},
		{"^foo|bar", "", "", TightnessInexactCovered},
		{`^foo\|bar`, "", "foo|bar", TightnessInexactCovered},
		{"^foo", "i", "", TightnessInexactCovered},
		{"^foo", "s", "foo", TightnessInexactCovered},
		{"^f o o", "x", "foo", TightnessInexactCovered},
		{"^foo#comment", "x", "foo", TightnessInexactCovered},
		{"^(foo)", "", "", TightnessInexactCovered},
		{"^", "", "", TightnessInexactCovered},
	}

	for _, tc := range cases {
		t.Run(tc.pattern+"/"+tc.flags, func(t *testing.T) {
			prefix, tightness := SimpleRegex(tc.pattern, tc.flags, index)
			assert.Equal(t, tc.wantPrefix, prefix)
			assert.Equal(t, tc.want, tightness)
		})
	}
}

func TestSimpleRegexUnderCollation(t *testing.T) {
	coll, err := bsonx.NewCollation("fr")
	require.NoError(t, err)
	index := btreeIndex("a")
	index.Collation = coll

	prefix, tightness := SimpleRegex("^foo", "", index)
	assert.Equal(t, "", prefix)
	assert.Equal(t, TightnessInexactFetch, tightness)
}

func TestTranslateRegexPrefixBounds(t *testing.T) {
	index := btreeIndex("a")
	elt := catalog.KeyPatternElement{Field: "a", Value: bsonx.Int32(1)}

	oil, tightness := Translate(&matcher.RegexExpr{Pattern: "^abc"}, elt, index, &TranslateParams{})
	assert.Equal(t, TightnessInexactCovered, tightness)

	require.Len(t, oil.Intervals, 2)
	assert.True(t, oil.Intervals[0].Equals(
		interval.MakeRange(bsonx.String("abc"), bsonx.String("abd"), true, false)))
	assert.True(t, oil.Intervals[1].Equals(
		interval.MakePoint(bsonx.Regex{Pattern: "^abc"})))
}

func TestTranslateRegexNonSimpleScansStringBracket(t *testing.T) {
	index := btreeIndex("a")
	elt := catalog.KeyPatternElement{Field: "a", Value: bsonx.Int32(1)}

	oil, tightness := Translate(&matcher.RegexExpr{Pattern: "abc"}, elt, index, &TranslateParams{})
	assert.Equal(t, TightnessInexactCovered, tightness)

	require.Len(t, oil.Intervals, 2)
	assert.True(t, oil.Intervals[0].Equals(interval.MakeRange(
		bsonx.MinForType(bsonx.TypeString), bsonx.MaxForType(bsonx.TypeString), true, false)))
	assert.True(t, oil.Intervals[1].IsPoint())
}

func TestStringMayHaveUnescapedPipe(t *testing.T) {
	assert.True(t, stringMayHaveUnescapedPipe("|ab"))
	assert.True(t, stringMayHaveUnescapedPipe("a|b"))
	assert.True(t, stringMayHaveUnescapedPipe(`a\\|b`))
	assert.False(t, stringMayHaveUnescapedPipe(`a\|b`))
	assert.False(t, stringMayHaveUnescapedPipe("ab"))
}
