package catalog

import (
	"github.com/birchdb/birch/internal/bsonx"
	"github.com/birchdb/birch/pkg/util/berr"
)

const defaultClusteredIndexName = "_id_"

// ClusteredIndexSpec is the user-supplied description of a clustered
// collection's key.
type ClusteredIndexSpec struct {
	Key    bsonx.Document
	Unique bool
	Name   string
}

// ClusteredCollectionInfo is the canonical form of a clustered-index spec.
type ClusteredCollectionInfo struct {
	Spec ClusteredIndexSpec

	// Legacy records that the collection was created with the boolean
	// {clusteredIndex: true} form.
	Legacy bool
}

func makeCanonicalClusteredInfoForLegacyFormat() *ClusteredCollectionInfo {
	return &ClusteredCollectionInfo{
		Spec: ClusteredIndexSpec{
			Key:    bsonx.Document{{Key: "_id", Value: bsonx.Int32(1)}},
			Unique: true,
			Name:   defaultClusteredIndexName,
		},
		Legacy: true,
	}
}

// ParseClusteredInfo parses a 'clusteredIndex' option value. A boolean is
// the legacy format; false means no clustered index and returns nil. Any
// other value type is a typed invalid-argument error, never a panic: this
// is user input, not a planner invariant.
func ParseClusteredInfo(v bsonx.Value) (*ClusteredCollectionInfo, error) {
	switch spec := v.(type) {
	case bsonx.Boolean:
		if !spec {
			return nil, nil
		}
		return makeCanonicalClusteredInfoForLegacyFormat(), nil
	case bsonx.Document:
		return parseClusteredSpec(spec)
	default:
		return nil, berr.WrapErrInvalidClusteredSpec("'clusteredIndex' has to be a boolean or object, got %v", v.Type())
	}
}

func parseClusteredSpec(doc bsonx.Document) (*ClusteredCollectionInfo, error) {
	info := &ClusteredCollectionInfo{
		Spec: ClusteredIndexSpec{Name: defaultClusteredIndexName},
	}
	seenKey := false
	for _, e := range doc {
		switch e.Key {
		case "key":
			key, ok := e.Value.(bsonx.Document)
			if !ok {
				return nil, berr.WrapErrInvalidClusteredSpec("'key' has to be an object, got %v", e.Value.Type())
			}
			if len(key) != 1 || key[0].Key != "_id" {
				return nil, berr.WrapErrInvalidClusteredSpec("clustered key must be {_id: 1}")
			}
			info.Spec.Key = key
			seenKey = true
		case "unique":
			u, ok := e.Value.(bsonx.Boolean)
			if !ok {
				return nil, berr.WrapErrInvalidClusteredSpec("'unique' has to be a boolean, got %v", e.Value.Type())
			}
			if !u {
				return nil, berr.WrapErrInvalidClusteredSpec("clustered index must be unique")
			}
			info.Spec.Unique = true
		case "name":
			n, ok := e.Value.(bsonx.String)
			if !ok {
				return nil, berr.WrapErrInvalidClusteredSpec("'name' has to be a string, got %v", e.Value.Type())
			}
			info.Spec.Name = string(n)
		default:
			return nil, berr.WrapErrInvalidClusteredSpec("unknown field %q", e.Key)
		}
	}
	if !seenKey {
		return nil, berr.WrapErrInvalidClusteredSpec("missing required field 'key'")
	}
	if !info.Spec.Unique {
		return nil, berr.WrapErrInvalidClusteredSpec("missing required field 'unique'")
	}
	return info, nil
}

// FormatClusterKeyForListIndexes renders the clustered key spec the way
// listIndexes reports it.
func FormatClusterKeyForListIndexes(info *ClusteredCollectionInfo) bsonx.Document {
	return bsonx.Document{
		{Key: "key", Value: info.Spec.Key},
		{Key: "unique", Value: bsonx.Boolean(info.Spec.Unique)},
		{Key: "name", Value: bsonx.String(info.Spec.Name)},
		{Key: "clustered", Value: bsonx.Boolean(true)},
	}
}
