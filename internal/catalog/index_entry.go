// Package catalog holds the index metadata the planner consumes: the index
// descriptor handed to the bounds builder, and clustered-index spec
// parsing.
package catalog

import (
	"strings"

	"github.com/birchdb/birch/internal/bsonx"
)

// IndexType discriminates the index families the bounds builder knows.
type IndexType int

const (
	IndexBtree IndexType = iota
	IndexHashed
	IndexWildcard
	Index2D
	Index2DSphere
	Index2DSphereBucket
)

// Key-pattern plugin names. A key-pattern value is either a number (+1/-1
// sort order) or one of these strings.
const (
	KeyPatternHashed         = "hashed"
	KeyPattern2D             = "2d"
	KeyPattern2DSphere       = "2dsphere"
	KeyPattern2DSphereBucket = "2dsphere_bucket"
)

// IndexEntry describes one index to the planner.
type IndexEntry struct {
	Name string

	// KeyPattern maps field paths to sort order or plugin name, e.g.
	// {a: 1, b: -1} or {loc: "2dsphere", a: 1}.
	KeyPattern bsonx.Document

	// Collation is non-nil when the index was built with a non-simple
	// collation.
	Collation *bsonx.Collation

	Type   IndexType
	Sparse bool

	// Multikey is set when any indexed path has array values in some
	// document. MultikeyPaths, when populated, narrows that to specific
	// paths.
	Multikey      bool
	MultikeyPaths map[string]bool
}

// KeyPatternElement is one field of the key pattern.
type KeyPatternElement struct {
	Field string
	Value bsonx.Value
}

// Elements returns the key pattern in declaration order.
func (ie *IndexEntry) Elements() []KeyPatternElement {
	out := make([]KeyPatternElement, 0, len(ie.KeyPattern))
	for _, e := range ie.KeyPattern {
		out = append(out, KeyPatternElement{Field: e.Key, Value: e.Value})
	}
	return out
}

// SpecialKind returns the plugin name of a key pattern value, or "" for a
// plain ordered field.
func (e KeyPatternElement) SpecialKind() string {
	if s, ok := e.Value.(bsonx.String); ok {
		return string(s)
	}
	return ""
}

// IsDescending reports whether the field sorts descending. The canonical
// check is value < 0; any non-negative number and every plugin string count
// as ascending.
func (e KeyPatternElement) IsDescending() bool {
	switch v := e.Value.(type) {
	case bsonx.Int32:
		return v < 0
	case bsonx.Int64:
		return v < 0
	case bsonx.Double:
		return v < 0
	}
	return false
}

// PathHasMultikeyComponent reports whether any component of the indexed
// path is array-valued. Falls back to the index-wide flag when path-level
// metadata is absent.
func (ie *IndexEntry) PathHasMultikeyComponent(path string) bool {
	if len(ie.MultikeyPaths) == 0 {
		return ie.Multikey
	}
	return ie.MultikeyPaths[path]
}

// InferIndexType derives the index family from a key pattern.
func InferIndexType(keyPattern bsonx.Document) IndexType {
	for _, e := range keyPattern {
		if strings.Contains(e.Key, "$**") {
			return IndexWildcard
		}
		if s, ok := e.Value.(bsonx.String); ok {
			switch string(s) {
			case KeyPatternHashed:
				return IndexHashed
			case KeyPattern2D:
				return Index2D
			case KeyPattern2DSphere:
				return Index2DSphere
			case KeyPattern2DSphereBucket:
				return Index2DSphereBucket
			}
		}
	}
	return IndexBtree
}
