package bsonx

import (
	"math"

	"github.com/birchdb/birch/pkg/util/berr"
)

// MinForType returns the smallest value of the type's canonical bracket.
func MinForType(t Type) Value {
	switch t {
	case TypeMinKey:
		return MinKey{}
	case TypeMaxKey:
		return MaxKey{}
	case TypeUndefined:
		return Undefined{}
	case TypeNull:
		return Null{}
	case TypeInt32, TypeInt64, TypeDouble, TypeDecimal:
		return Double(math.Inf(-1))
	case TypeString, TypeSymbol:
		return String("")
	case TypeDocument:
		return Document{}
	case TypeArray:
		return Array{}
	case TypeBinary:
		return Binary{}
	case TypeObjectID:
		return ObjectID{}
	case TypeBoolean:
		return Boolean(false)
	case TypeDateTime:
		return DateTime(math.MinInt64)
	case TypeTimestamp:
		return Timestamp{}
	case TypeRegex:
		return Regex{}
	}
	berr.Unreachable("no minimum for type %v", t)
	return nil
}

// MaxForType returns the largest value of the type's canonical bracket.
// For variable-width types this is the smallest value of the next bracket,
// so ranges built from it must exclude the upper bound.
func MaxForType(t Type) Value {
	switch t {
	case TypeMinKey:
		return MinKey{}
	case TypeMaxKey:
		return MaxKey{}
	case TypeUndefined:
		return Undefined{}
	case TypeNull:
		return Null{}
	case TypeInt32, TypeInt64, TypeDouble, TypeDecimal:
		return Double(math.Inf(1))
	case TypeString, TypeSymbol:
		return Document{}
	case TypeDocument:
		return Array{}
	case TypeArray:
		return Binary{}
	case TypeBinary:
		return ObjectID{}
	case TypeBoolean:
		return Boolean(true)
	case TypeDateTime:
		return DateTime(math.MaxInt64)
	case TypeTimestamp:
		return Timestamp{T: math.MaxUint32, I: math.MaxUint32}
	case TypeRegex:
		return MaxKey{}
	}
	berr.Unreachable("no maximum for type %v", t)
	return nil
}

// IsVariableWidth reports whether values of t have no largest member of
// their own bracket, so MaxForType spills to the next bracket's minimum.
func IsVariableWidth(t Type) bool {
	switch t {
	case TypeString, TypeSymbol, TypeDocument, TypeArray, TypeBinary, TypeRegex:
		return true
	}
	return false
}
