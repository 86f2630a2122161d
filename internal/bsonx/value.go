// Package bsonx implements the ordered BSON value domain the query planner
// operates on. Values form a single total order: first by canonical type
// rank, then by value within a type. MinKey and MaxKey bound the domain
// globally.
package bsonx

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/cockroachdb/apd/v3"
)

// Type tags every value in the domain.
type Type int8

const (
	TypeMinKey Type = iota
	TypeUndefined
	TypeNull
	TypeInt32
	TypeInt64
	TypeDouble
	TypeDecimal
	TypeString
	TypeSymbol
	TypeDocument
	TypeArray
	TypeBinary
	TypeObjectID
	TypeBoolean
	TypeDateTime
	TypeTimestamp
	TypeRegex
	TypeMaxKey
)

// CanonicalRank maps a type to its position in the cross-type sort order.
// All numeric types share one rank, as do String and Symbol.
func CanonicalRank(t Type) int {
	switch t {
	case TypeMinKey:
		return -1
	case TypeUndefined:
		return 0
	case TypeNull:
		return 5
	case TypeInt32, TypeInt64, TypeDouble, TypeDecimal:
		return 10
	case TypeString, TypeSymbol:
		return 15
	case TypeDocument:
		return 20
	case TypeArray:
		return 25
	case TypeBinary:
		return 30
	case TypeObjectID:
		return 35
	case TypeBoolean:
		return 40
	case TypeDateTime:
		return 45
	case TypeTimestamp:
		return 47
	case TypeRegex:
		return 50
	case TypeMaxKey:
		return 127
	}
	return 0
}

// IsNumeric reports whether t belongs to the numeric bracket.
func IsNumeric(t Type) bool {
	switch t {
	case TypeInt32, TypeInt64, TypeDouble, TypeDecimal:
		return true
	}
	return false
}

func (t Type) String() string {
	switch t {
	case TypeMinKey:
		return "minKey"
	case TypeUndefined:
		return "undefined"
	case TypeNull:
		return "null"
	case TypeInt32:
		return "int"
	case TypeInt64:
		return "long"
	case TypeDouble:
		return "double"
	case TypeDecimal:
		return "decimal"
	case TypeString:
		return "string"
	case TypeSymbol:
		return "symbol"
	case TypeDocument:
		return "object"
	case TypeArray:
		return "array"
	case TypeBinary:
		return "binData"
	case TypeObjectID:
		return "objectId"
	case TypeBoolean:
		return "bool"
	case TypeDateTime:
		return "date"
	case TypeTimestamp:
		return "timestamp"
	case TypeRegex:
		return "regex"
	case TypeMaxKey:
		return "maxKey"
	}
	return "unknown"
}

// TypeByAlias resolves a $type operand alias ("int", "long", "string", ...)
// to a Type. The "number" alias is handled by the caller since it expands
// to the whole numeric bracket.
func TypeByAlias(alias string) (Type, bool) {
	for t := TypeMinKey; t <= TypeMaxKey; t++ {
		if t.String() == alias {
			return t, true
		}
	}
	return 0, false
}

// Value is the closed variant set over the BSON value domain. Exactly the
// types declared in this file implement it.
type Value interface {
	Type() Type
	isValue()
}

type (
	// MinKey sorts before every other value.
	MinKey struct{}
	// MaxKey sorts after every other value.
	MaxKey struct{}
	// Undefined is the index representation of a missing field.
	Undefined struct{}
	// Null is the literal null value.
	Null struct{}
	// Int32 is a 32-bit integer.
	Int32 int32
	// Int64 is a 64-bit integer.
	Int64 int64
	// Double is an IEEE 754 double.
	Double float64
	// String is a UTF-8 string, compared bytewise. Collation-aware
	// comparison is applied by transforming values with Collation.IndexKey
	// before they enter the ordered domain.
	String string
	// Symbol is the deprecated symbol type; it shares the string bracket.
	Symbol string
	// Array is an ordered sequence of values.
	Array []Value
	// Boolean is true or false, with false < true.
	Boolean bool
	// DateTime is a UTC datetime in milliseconds since the epoch.
	DateTime int64
	// ObjectID is a 12-byte object id, compared bytewise.
	ObjectID [12]byte
)

// Decimal is a 128-bit decimal value.
type Decimal struct {
	Dec *apd.Decimal
}

// Element is one key/value pair of a Document.
type Element struct {
	Key   string
	Value Value
}

// Document is an ordered sequence of elements.
type Document []Element

// Binary is a binary blob with a subtype tag.
type Binary struct {
	Subtype byte
	Data    []byte
}

// Timestamp is an internal replication timestamp (seconds, increment).
type Timestamp struct {
	T uint32
	I uint32
}

// Regex is a regular expression literal. Regex literals are stored in
// indexes as their own value type, sorted after strings.
type Regex struct {
	Pattern string
	Options string
}

func (MinKey) Type() Type    { return TypeMinKey }
func (MaxKey) Type() Type    { return TypeMaxKey }
func (Undefined) Type() Type { return TypeUndefined }
func (Null) Type() Type      { return TypeNull }
func (Int32) Type() Type     { return TypeInt32 }
func (Int64) Type() Type     { return TypeInt64 }
func (Double) Type() Type    { return TypeDouble }
func (Decimal) Type() Type   { return TypeDecimal }
func (String) Type() Type    { return TypeString }
func (Symbol) Type() Type    { return TypeSymbol }
func (Document) Type() Type  { return TypeDocument }
func (Array) Type() Type     { return TypeArray }
func (Binary) Type() Type    { return TypeBinary }
func (ObjectID) Type() Type  { return TypeObjectID }
func (Boolean) Type() Type   { return TypeBoolean }
func (DateTime) Type() Type  { return TypeDateTime }
func (Timestamp) Type() Type { return TypeTimestamp }
func (Regex) Type() Type     { return TypeRegex }

func (MinKey) isValue()    {}
func (MaxKey) isValue()    {}
func (Undefined) isValue() {}
func (Null) isValue()      {}
func (Int32) isValue()     {}
func (Int64) isValue()     {}
func (Double) isValue()    {}
func (Decimal) isValue()   {}
func (String) isValue()    {}
func (Symbol) isValue()    {}
func (Document) isValue()  {}
func (Array) isValue()     {}
func (Binary) isValue()    {}
func (ObjectID) isValue()  {}
func (Boolean) isValue()   {}
func (DateTime) isValue()  {}
func (Timestamp) isValue() {}
func (Regex) isValue()     {}

// MustDecimal parses a decimal literal, panicking on malformed input.
// Intended for constants and tests.
func MustDecimal(s string) Decimal {
	d, _, err := apd.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return Decimal{Dec: d}
}

// Format renders a value for logs and test failure messages.
func Format(v Value) string {
	switch x := v.(type) {
	case MinKey:
		return "MinKey"
	case MaxKey:
		return "MaxKey"
	case Undefined:
		return "undefined"
	case Null:
		return "null"
	case Int32:
		return strconv.FormatInt(int64(x), 10)
	case Int64:
		return strconv.FormatInt(int64(x), 10) + "L"
	case Double:
		return strconv.FormatFloat(float64(x), 'g', -1, 64)
	case Decimal:
		return x.Dec.String() + "m"
	case String:
		return strconv.Quote(string(x))
	case Symbol:
		return "Symbol(" + strconv.Quote(string(x)) + ")"
	case Document:
		var sb strings.Builder
		sb.WriteByte('{')
		for i, e := range x {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(e.Key)
			sb.WriteString(": ")
			sb.WriteString(Format(e.Value))
		}
		sb.WriteByte('}')
		return sb.String()
	case Array:
		var sb strings.Builder
		sb.WriteByte('[')
		for i, e := range x {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(Format(e))
		}
		sb.WriteByte(']')
		return sb.String()
	case Binary:
		return fmt.Sprintf("BinData(%d, %s)", x.Subtype, hex.EncodeToString(x.Data))
	case ObjectID:
		return "ObjectId(" + hex.EncodeToString(x[:]) + ")"
	case Boolean:
		return strconv.FormatBool(bool(x))
	case DateTime:
		return fmt.Sprintf("Date(%d)", int64(x))
	case Timestamp:
		return fmt.Sprintf("Timestamp(%d, %d)", x.T, x.I)
	case Regex:
		return "/" + x.Pattern + "/" + x.Options
	}
	return "?"
}
