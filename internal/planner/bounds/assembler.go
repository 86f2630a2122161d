package bounds

import (
	"go.uber.org/zap"

	"github.com/birchdb/birch/internal/bsonx"
	"github.com/birchdb/birch/internal/catalog"
	"github.com/birchdb/birch/internal/planner/interval"
	"github.com/birchdb/birch/pkg/log"
	"github.com/birchdb/birch/pkg/util/berr"
)

// AllValuesForField returns the full-domain OIL for one key pattern field.
func AllValuesForField(elt catalog.KeyPatternElement) interval.OrderedIntervalList {
	return interval.OrderedIntervalList{
		Name:      elt.Field,
		Intervals: []interval.Interval{interval.AllValues()},
	}
}

// AllValuesBounds returns bounds scanning the entire index described by
// keyPattern, aligned for a forward scan.
func AllValuesBounds(keyPattern bsonx.Document) *interval.IndexBounds {
	bounds := &interval.IndexBounds{Fields: make([]interval.OrderedIntervalList, 0, len(keyPattern))}
	for _, e := range keyPattern {
		bounds.Fields = append(bounds.Fields,
			AllValuesForField(catalog.KeyPatternElement{Field: e.Key, Value: e.Value}))
	}
	AlignBounds(bounds, keyPattern, 1)
	return bounds
}

// AlignBounds reverses the OILs of descending key pattern fields so every
// field's intervals run in physical scan order, then validates the result.
// Bounds that fail validation indicate a translation bug.
func AlignBounds(bounds *interval.IndexBounds, keyPattern bsonx.Document, scanDirection int) {
	for i, e := range keyPattern {
		direction := scanDirection
		if (catalog.KeyPatternElement{Field: e.Key, Value: e.Value}).IsDescending() {
			direction = -direction
		}
		if direction == -1 {
			bounds.Fields[i].Reverse()
		}
	}

	if !bounds.IsValidFor(keyPattern, scanDirection) {
		log.Error("invalid index bounds after alignment",
			zap.String("bounds", bounds.String()),
			zap.String("keyPattern", bsonx.Format(keyPattern)),
			zap.Int("scanDirection", scanDirection))
		berr.Unreachable("aligned bounds are not valid for key pattern %s", bsonx.Format(keyPattern))
	}
}

// appendTrailingAllValuesInterval extends single-interval start/end keys
// across a trailing full-domain field.
func appendTrailingAllValuesInterval(iv interval.Interval, startInclusive, endInclusive bool, name string, startKey, endKey *bsonx.Document) {
	if iv.IsMinToMax() {
		// Consider the index {a:1, b:1} and bounds from {a: {$gt: 2}}: the
		// start key so far is {"": 2} and is exclusive, so seeking past
		// {"": 2, "": MaxKey} lands on the first a greater than 2. For an
		// inclusive start ({$gte: 2}) every b under a=2 counts, so the
		// start key extends with MinKey instead.
		if !startInclusive {
			*startKey = append(*startKey, bsonx.Element{Key: name, Value: bsonx.MaxKey{}})
		} else {
			*startKey = append(*startKey, bsonx.Element{Key: name, Value: bsonx.MinKey{}})
		}

		// Symmetrically for the end: with {a: {$lt: 2}} nothing under a=2
		// qualifies, so the scan must stop at {"": 2, "": MinKey}.
		if !endInclusive {
			*endKey = append(*endKey, bsonx.Element{Key: name, Value: bsonx.MinKey{}})
		} else {
			*endKey = append(*endKey, bsonx.Element{Key: name, Value: bsonx.MaxKey{}})
		}
	} else if iv.IsMaxToMin() {
		// The same reasoning with the directions reversed.
		if !startInclusive {
			*startKey = append(*startKey, bsonx.Element{Key: name, Value: bsonx.MinKey{}})
		} else {
			*startKey = append(*startKey, bsonx.Element{Key: name, Value: bsonx.MaxKey{}})
		}

		if !endInclusive {
			*endKey = append(*endKey, bsonx.Element{Key: name, Value: bsonx.MaxKey{}})
		} else {
			*endKey = append(*endKey, bsonx.Element{Key: name, Value: bsonx.MinKey{}})
		}
	}
}

// IsSingleInterval reports whether the bounds can be scanned as one
// contiguous key range: a run of point intervals, then at most one arbitrary
// interval, then only full-domain fields. When it can, the start and end
// keys with their inclusivity are returned.
func IsSingleInterval(bounds *interval.IndexBounds) (startKey bsonx.Document, startInclusive bool, endKey bsonx.Document, endInclusive bool, ok bool) {
	startInclusive = true
	endInclusive = true

	fieldNo := 0

	// Leading point intervals become fixed key components.
	for ; fieldNo < len(bounds.Fields); fieldNo++ {
		oil := bounds.Fields[fieldNo]
		if len(oil.Intervals) != 1 || !oil.Intervals[0].IsPoint() {
			break
		}
		startKey = append(startKey, bsonx.Element{Key: oil.Name, Value: oil.Intervals[0].Start})
		endKey = append(endKey, bsonx.Element{Key: oil.Name, Value: oil.Intervals[0].End})
	}

	if fieldNo >= len(bounds.Fields) {
		// Every field is a point.
		return startKey, startInclusive, endKey, endInclusive, true
	}

	// After the points, exactly one non-point interval is allowed. It
	// determines the inclusivity of the whole range.
	nonPoint := bounds.Fields[fieldNo]
	if len(nonPoint.Intervals) != 1 {
		return nil, false, nil, false, false
	}
	startKey = append(startKey, bsonx.Element{Key: nonPoint.Name, Value: nonPoint.Intervals[0].Start})
	startInclusive = nonPoint.Intervals[0].StartInclusive
	endKey = append(endKey, bsonx.Element{Key: nonPoint.Name, Value: nonPoint.Intervals[0].End})
	endInclusive = nonPoint.Intervals[0].EndInclusive

	fieldNo++

	// Any number of trailing full-domain fields can be folded into the
	// start and end keys.
	for ; fieldNo < len(bounds.Fields); fieldNo++ {
		oil := bounds.Fields[fieldNo]
		if len(oil.Intervals) != 1 {
			break
		}
		iv := oil.Intervals[0]
		if !iv.IsMinToMax() && !iv.IsMaxToMin() {
			break
		}
		appendTrailingAllValuesInterval(iv, startInclusive, endInclusive, oil.Name, &startKey, &endKey)
	}

	if fieldNo >= len(bounds.Fields) {
		return startKey, startInclusive, endKey, endInclusive, true
	}
	return nil, false, nil, false, false
}

// IsNullInterval recognizes the two-point OIL produced by an equality to
// null: [undefined, undefined] then [null, null], always in that order.
func IsNullInterval(oil interval.OrderedIntervalList) bool {
	return len(oil.Intervals) == 2 &&
		oil.Intervals[0].Equals(interval.MakePoint(bsonx.Undefined{})) &&
		oil.Intervals[1].Equals(interval.MakePoint(bsonx.Null{}))
}

// IsNullAndEmptyArrayInterval recognizes the three-point OIL produced for
// {$in: [null, []]}: undefined, null, then the empty array.
func IsNullAndEmptyArrayInterval(oil interval.OrderedIntervalList) bool {
	return len(oil.Intervals) == 3 &&
		oil.Intervals[0].Equals(interval.MakePoint(bsonx.Undefined{})) &&
		oil.Intervals[1].Equals(interval.MakePoint(bsonx.Null{})) &&
		oil.Intervals[2].Equals(interval.MakePoint(bsonx.Array{}))
}
