package interval

import (
	"strings"

	"github.com/birchdb/birch/internal/bsonx"
	"github.com/birchdb/birch/internal/catalog"
)

// IndexBounds is the full set of per-field interval lists for one index,
// in key-pattern order.
type IndexBounds struct {
	Fields []OrderedIntervalList
}

// IsValidFor checks the bounds against a key pattern and scan direction:
// one list per field, matching names, and every list sorted and
// non-overlapping in the field's effective direction. Assembled bounds
// failing this check indicate a translator bug.
func (b *IndexBounds) IsValidFor(keyPattern bsonx.Document, scanDirection int) bool {
	if len(b.Fields) != len(keyPattern) {
		return false
	}
	for i, elt := range keyPattern {
		oil := b.Fields[i]
		if oil.Name != elt.Key {
			return false
		}

		direction := 1
		if (catalog.KeyPatternElement{Field: elt.Key, Value: elt.Value}).IsDescending() {
			direction = -1
		}
		direction *= scanDirection

		for j, iv := range oil.Intervals {
			if c := bsonx.Compare(iv.Start, iv.End); c*direction > 0 {
				return false
			} else if c == 0 && !(iv.StartInclusive && iv.EndInclusive) {
				return false
			}
			if j > 0 {
				prev := oil.Intervals[j-1]
				c := bsonx.Compare(prev.End, iv.Start)
				if c*direction > 0 {
					return false
				}
				if c == 0 && prev.EndInclusive && iv.StartInclusive {
					return false
				}
			}
		}
	}
	return true
}

func (b *IndexBounds) String() string {
	parts := make([]string, 0, len(b.Fields))
	for _, f := range b.Fields {
		parts = append(parts, f.String())
	}
	return strings.Join(parts, ", ")
}
