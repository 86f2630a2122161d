// Package matcher declares the predicate tree consumed by the index-bounds
// translator. The tree is produced by the query parser, which lives outside
// this module; translation only needs the node kinds, operands and children
// declared here.
package matcher

import (
	"github.com/birchdb/birch/internal/bsonx"
	"github.com/birchdb/birch/internal/geocover"
)

// MatchType tags every node kind the translator dispatches on. The set is
// closed: adding a kind requires a new handler in the bounds builder.
type MatchType int

const (
	MatchEqual MatchType = iota
	MatchLT
	MatchLTE
	MatchGT
	MatchGTE

	// The internal expr-comparison variants skip type bracketing and are
	// forbidden on multikey paths. They originate from expression-language
	// comparisons, not user match predicates.
	MatchInternalExprEqual
	MatchInternalExprLT
	MatchInternalExprLTE
	MatchInternalExprGT
	MatchInternalExprGTE

	MatchNot
	MatchExists
	MatchIn
	MatchRegex
	MatchMod
	MatchTypeOperator
	MatchElemMatchValue
	MatchGeoWithin
	MatchBucketGeoWithin
)

func (mt MatchType) String() string {
	switch mt {
	case MatchEqual:
		return "$eq"
	case MatchLT:
		return "$lt"
	case MatchLTE:
		return "$lte"
	case MatchGT:
		return "$gt"
	case MatchGTE:
		return "$gte"
	case MatchInternalExprEqual:
		return "$_internalExprEq"
	case MatchInternalExprLT:
		return "$_internalExprLt"
	case MatchInternalExprLTE:
		return "$_internalExprLte"
	case MatchInternalExprGT:
		return "$_internalExprGt"
	case MatchInternalExprGTE:
		return "$_internalExprGte"
	case MatchNot:
		return "$not"
	case MatchExists:
		return "$exists"
	case MatchIn:
		return "$in"
	case MatchRegex:
		return "$regex"
	case MatchMod:
		return "$mod"
	case MatchTypeOperator:
		return "$type"
	case MatchElemMatchValue:
		return "$elemMatch"
	case MatchGeoWithin:
		return "$geoWithin"
	case MatchBucketGeoWithin:
		return "$_internalBucketGeoWithin"
	}
	return "unknown"
}

// Expression is one node of the predicate tree. Implementations are exactly
// the node structs in this package.
type Expression interface {
	MatchType() MatchType
	isExpression()
}

// ComparisonExpr covers equality and the four inequalities, in both
// type-bracketing and internal expr-comparison flavors.
type ComparisonExpr struct {
	Op    MatchType
	Value bsonx.Value
}

func (e *ComparisonExpr) MatchType() MatchType { return e.Op }

// IsInternalExpr reports whether the node is one of the non-type-bracketing
// expression-comparison variants.
func (e *ComparisonExpr) IsInternalExpr() bool {
	switch e.Op {
	case MatchInternalExprEqual, MatchInternalExprLT, MatchInternalExprLTE,
		MatchInternalExprGT, MatchInternalExprGTE:
		return true
	}
	return false
}

// NotExpr negates its child.
type NotExpr struct {
	Child Expression
}

func (*NotExpr) MatchType() MatchType { return MatchNot }

// ExistsExpr is {$exists: true}. {$exists: false} reaches the translator as
// NotExpr{ExistsExpr}.
type ExistsExpr struct{}

func (*ExistsExpr) MatchType() MatchType { return MatchExists }

// InExpr is a disjunction of equalities and regexes.
type InExpr struct {
	Equalities []bsonx.Value
	Regexes    []*RegexExpr
}

func (*InExpr) MatchType() MatchType { return MatchIn }

// HasNull reports whether the equality list contains the literal null.
func (e *InExpr) HasNull() bool {
	for _, v := range e.Equalities {
		if v.Type() == bsonx.TypeNull {
			return true
		}
	}
	return false
}

// HasEmptyArray reports whether the equality list contains [].
func (e *InExpr) HasEmptyArray() bool {
	for _, v := range e.Equalities {
		if arr, ok := v.(bsonx.Array); ok && len(arr) == 0 {
			return true
		}
	}
	return false
}

// RegexExpr matches against a regular expression.
type RegexExpr struct {
	Pattern string
	Flags   string
}

func (*RegexExpr) MatchType() MatchType { return MatchRegex }

// ModExpr is {$mod: [divisor, remainder]}.
type ModExpr struct {
	Divisor   int64
	Remainder int64
}

func (*ModExpr) MatchType() MatchType { return MatchMod }

// TypeSet is the operand of $type.
type TypeSet struct {
	// AllNumbers is set by the "number" alias and stands for the whole
	// numeric bracket.
	AllNumbers bool
	Types      []bsonx.Type
}

// Has reports whether the set names t explicitly or via AllNumbers.
func (s TypeSet) Has(t bsonx.Type) bool {
	if s.AllNumbers && bsonx.IsNumeric(t) {
		return true
	}
	for _, st := range s.Types {
		if st == t {
			return true
		}
	}
	return false
}

// TypeExpr is {$type: [...]}.
type TypeExpr struct {
	Set TypeSet
}

func (*TypeExpr) MatchType() MatchType { return MatchTypeOperator }

// ElemMatchValueExpr is the value form of $elemMatch: every child applies
// to the same array element.
type ElemMatchValueExpr struct {
	Children []Expression
}

func (*ElemMatchValueExpr) MatchType() MatchType { return MatchElemMatchValue }

// GeoWithinExpr carries a geometry region operand. Region covering is
// delegated to the geocover component.
type GeoWithinExpr struct {
	Region geocover.Region
}

func (*GeoWithinExpr) MatchType() MatchType { return MatchGeoWithin }

// BucketGeoWithinExpr is the bucketed (time-series) variant of $geoWithin.
type BucketGeoWithinExpr struct {
	Region geocover.Region
}

func (*BucketGeoWithinExpr) MatchType() MatchType { return MatchBucketGeoWithin }

func (*ComparisonExpr) isExpression()      {}
func (*NotExpr) isExpression()             {}
func (*ExistsExpr) isExpression()          {}
func (*InExpr) isExpression()              {}
func (*RegexExpr) isExpression()           {}
func (*ModExpr) isExpression()             {}
func (*TypeExpr) isExpression()            {}
func (*ElemMatchValueExpr) isExpression()  {}
func (*GeoWithinExpr) isExpression()       {}
func (*BucketGeoWithinExpr) isExpression() {}
