package bounds

import (
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/birchdb/birch/internal/bsonx"
	"github.com/birchdb/birch/internal/catalog"
	"github.com/birchdb/birch/internal/geocover"
	"github.com/birchdb/birch/internal/matcher"
	"github.com/birchdb/birch/internal/planner/interval"
	"github.com/birchdb/birch/pkg/log"
	"github.com/birchdb/birch/pkg/util/berr"
	"github.com/birchdb/birch/pkg/util/paramtable"
)

// GeoParams carries the covering knobs for the two geo index families.
type GeoParams struct {
	TwoD   geocover.CoveringParams
	Sphere geocover.CoveringParams
}

// GeoParamsFromConfig reads the covering knobs from the global config table.
func GeoParamsFromConfig() GeoParams {
	cfg := &paramtable.Get().QueryPlannerCfg
	return GeoParams{
		TwoD: geocover.CoveringParams{
			MaxCells: cfg.Geo2DMaxCoveringCells.GetAsInt(),
			MaxLevel: cfg.Geo2DMaxLevel.GetAsInt(),
		},
		Sphere: geocover.CoveringParams{
			MaxCells: cfg.Geo2DSphereMaxCoveringCells.GetAsInt(),
			MinLevel: cfg.Geo2DSphereMinLevel.GetAsInt(),
			MaxLevel: cfg.Geo2DSphereMaxLevel.GetAsInt(),
		},
	}
}

// TranslateParams bundles the optional collaborators of a translation. A nil
// value means defaults: no shadow trace, no wildcard adjustment, geo knobs
// from the config table.
type TranslateParams struct {
	// IET, when non-nil, records a shadow trace of the interval operations
	// performed during translation.
	IET *interval.IETBuilder

	Geo GeoParams

	// Wildcard, when non-nil, adjusts the tightness of bounds generated
	// against a wildcard index after the predicate has been translated.
	Wildcard WildcardTightnessAdjuster
}

// DefaultParams returns translation params with geo knobs loaded from the
// config table.
func DefaultParams() *TranslateParams {
	return &TranslateParams{Geo: GeoParamsFromConfig()}
}

// Translate fills out the bounds and tightness for the given predicate
// against one field of the index key pattern.
func Translate(expr matcher.Expression, elt catalog.KeyPatternElement, index *catalog.IndexEntry, params *TranslateParams) (interval.OrderedIntervalList, Tightness) {
	if params == nil {
		params = DefaultParams()
	}
	oil, tightness := translatePredicate(expr, elt, index, params)

	// Queries on a wildcard index may require the tightness to be adjusted
	// regardless of the predicate. Having filled out the initial bounds, we
	// apply any necessary changes here.
	if index.Type == catalog.IndexWildcard && params.Wildcard != nil {
		tightness = params.Wildcard.AdjustWildcardTightness(index, &oil, tightness)
	}
	return oil, tightness
}

// TranslateAndUnion translates expr and unions the result into oilOut. The
// returned tightness is that of expr alone; combining tightness across
// predicates is the caller's concern.
func TranslateAndUnion(expr matcher.Expression, elt catalog.KeyPatternElement, index *catalog.IndexEntry, params *TranslateParams, oilOut *interval.OrderedIntervalList) Tightness {
	if params == nil {
		params = DefaultParams()
	}
	arg, tightness := Translate(expr, elt, index, params)

	oilOut.Intervals = append(oilOut.Intervals, arg.Intervals...)
	oilOut.Unionize()

	if params.IET != nil {
		params.IET.AddUnion()
	}
	return tightness
}

// TranslateAndIntersect translates expr and intersects the result into
// oilOut. Translate outputs sorted intervals, which Intersectize assumes.
func TranslateAndIntersect(expr matcher.Expression, elt catalog.KeyPatternElement, index *catalog.IndexEntry, params *TranslateParams, oilOut *interval.OrderedIntervalList) Tightness {
	if params == nil {
		params = DefaultParams()
	}
	arg, tightness := Translate(expr, elt, index, params)

	interval.Intersectize(arg, oilOut)

	if params.IET != nil {
		params.IET.AddIntersect()
	}
	return tightness
}

// CanUseCoveredMatching reports whether the given predicate can be evaluated
// against an entry of the given index without fetching the full document.
func CanUseCoveredMatching(expr matcher.Expression, index *catalog.IndexEntry) bool {
	_, tightness := Translate(expr, catalog.KeyPatternElement{Value: bsonx.Int32(1)}, index, &TranslateParams{})
	return tightness <= TightnessInexactCovered
}

func translatePredicate(expr matcher.Expression, elt catalog.KeyPatternElement, index *catalog.IndexEntry, params *TranslateParams) (interval.OrderedIntervalList, Tightness) {
	oil := interval.OrderedIntervalList{Name: elt.Field}
	isHashed := elt.SpecialKind() == catalog.KeyPatternHashed

	// We should never be asked to translate an unsupported predicate for a
	// hashed index.
	berr.Invariant(!isHashed || nodeIsSupportedByHashedIndex(expr), "unsupported predicate %s on hashed index", expr.MatchType())

	var tightness Tightness

	switch node := expr.(type) {
	case *matcher.ElemMatchValueExpr:
		berr.Invariant(len(node.Children) > 0, "$elemMatch requires at least one child predicate")
		oil, tightness = translatePredicate(node.Children[0], elt, index, params)

		for _, child := range node.Children[1:] {
			next, _ := translatePredicate(child, elt, index, params)
			interval.Intersectize(next, &oil)

			if params.IET != nil {
				params.IET.AddIntersect()
			}
		}

		// $elemMatch value requires an array. Scalars and directly nested
		// objects are not matched with $elemMatch, and we can't tell if a
		// multikey index key is derived from an array field. A fetch is
		// required.
		tightness = TightnessInexactFetch

	case *matcher.NotExpr:
		// A negation is indexed by virtue of its child. If we're here the
		// child must be a kind of node whose negation we can index. It can't
		// be things like $mod, $regex, or $type.
		child := node.Child

		// {$exists:false} is a point interval on [null,null] that requires
		// a fetch. A sparse index must never take this path.
		if child.MatchType() == matcher.MatchExists {
			berr.Invariant(!index.Sparse, "cannot use a sparse index for $exists:false")
			oil.Intervals = append(oil.Intervals, nullPointInterval(isHashed))
			tightness = TightnessInexactFetch
			if params.IET != nil {
				params.IET.AddConst(oil)
			}
			return oil, tightness
		}

		if in, ok := child.(*matcher.InExpr); ok && canUseIndexForNin(in) {
			// {$not: {$in: [null, []]}}. Build the null and empty-array
			// bounds directly instead of recursing, then complement.
			appendNullEqualityBounds(index, isHashed, &oil)
			oil.Intervals = append(oil.Intervals, interval.MakePoint(bsonx.Array{}))
			oil.Complement()
			oil.Unionize()

			if params.IET != nil {
				params.IET.AddConst(oil)
			}
			return oil, TightnessInexactFetch
		}

		oil, tightness = translatePredicate(child, elt, index, params)
		oil.Complement()

		if params.IET != nil {
			params.IET.AddComplement()
		}

		// Until the index distinguishes between missing values and literal
		// null values, we cannot build exact bounds for equality predicates
		// on the literal value null. However, we can build exact bounds for
		// the inverse, for example {a: {$ne: null}}.
		if isEqualityOrInNull(child) {
			tightness = TightnessExact
		}

		// Inverting bounds is generally only valid for exact bounds; looser
		// bounds would signal that inversion mistakenly excludes some
		// values. The exception is collation, where the child tightness is
		// INEXACT_FETCH only because the index data differs from the user
		// data, not because the range is imprecise.
		berr.Invariant(tightness == TightnessExact || index.Collation != nil, "cannot invert inexact bounds")

		// If the index is multikey on this path the child tightness does
		// not matter, we must fetch. Consider a multikey index on 'a' with
		// document {a: [1, 2, 3]} and query {a: {$ne: 3}}: treating the
		// bounds [MinKey, 3), (3, MaxKey] as exact would erroneously return
		// the document.
		if index.PathHasMultikeyComponent(elt.Field) {
			tightness = TightnessInexactFetch
		}

	case *matcher.ExistsExpr:
		// Only {$exists:true} reaches here; {$exists:false} arrives as
		// {$not: {$exists:true}}.
		oil.Intervals = append(oil.Intervals, interval.AllValues())
		if params.IET != nil {
			params.IET.AddConst(oil)
		}

		// Documents with a missing value are indexed as if the value were
		// null, so a normal or hashed index still requires a fetch. A
		// sparse index stores no entry at all for a missing field and is
		// exact, unless it is compound, in which case it may contain
		// entries for documents missing this particular field.
		if index.Sparse {
			if len(index.KeyPattern) > 1 {
				tightness = TightnessInexactFetch
			} else {
				tightness = TightnessExact
			}
		} else {
			tightness = TightnessInexactFetch
		}

	case *matcher.ComparisonExpr:
		oil, tightness = translateComparison(node, elt, index, isHashed, params)

	case *matcher.RegexExpr:
		tightness = translateRegex(node, index, &oil)
		if params.IET != nil {
			params.IET.AddEval(expr.MatchType().String(), oil)
		}

	case *matcher.ModExpr:
		// All numbers are candidates; the remainder check runs against the
		// index key.
		oil.Intervals = append(oil.Intervals, interval.MakeRange(
			bsonx.MinForType(bsonx.TypeDouble), bsonx.MaxForType(bsonx.TypeDouble), true, true))
		tightness = TightnessInexactCovered

		if params.IET != nil {
			params.IET.AddConst(oil)
		}

	case *matcher.TypeExpr:
		oil, tightness = translateType(node, elt, index)
		if params.IET != nil {
			params.IET.AddEval(expr.MatchType().String(), oil)
		}

	case *matcher.InExpr:
		oil, tightness = translateIn(node, elt, index, isHashed)
		if params.IET != nil {
			params.IET.AddEval(expr.MatchType().String(), oil)
		}

	case *matcher.GeoWithinExpr:
		switch elt.SpecialKind() {
		case catalog.KeyPattern2DSphere:
			appendCovering(geocover.NewS2Coverer(params.Geo.Sphere), node.Region, &oil)
		case catalog.KeyPattern2D:
			appendCovering(geocover.NewFlatCoverer(params.Geo.TwoD), node.Region, &oil)
		default:
			log.Warn("planner error trying to build geo bounds for an index element",
				zap.String("field", elt.Field), zap.String("kind", elt.SpecialKind()))
			berr.Unreachable("geo predicate on non-geo index field %s", elt.Field)
		}
		tightness = TightnessInexactFetch

	case *matcher.BucketGeoWithinExpr:
		if elt.SpecialKind() != catalog.KeyPattern2DSphereBucket {
			log.Warn("planner error trying to build bucketed geo bounds for an index element",
				zap.String("field", elt.Field), zap.String("kind", elt.SpecialKind()))
			berr.Unreachable("bucketed geo predicate on non-bucket index field %s", elt.Field)
		}
		appendCovering(geocover.NewS2Coverer(params.Geo.Sphere), node.Region, &oil)
		tightness = TightnessInexactFetch

	default:
		log.Warn("planner error while trying to build bounds for expression",
			zap.String("matchType", expr.MatchType().String()))
		berr.Unreachable("no bounds handler for %s", expr.MatchType())
	}

	return oil, tightness
}

func translateComparison(node *matcher.ComparisonExpr, elt catalog.KeyPatternElement, index *catalog.IndexEntry, isHashed bool, params *TranslateParams) (interval.OrderedIntervalList, Tightness) {
	oil := interval.OrderedIntervalList{Name: elt.Field}
	data := node.Value
	var tightness Tightness

	// The internal expr-comparison variants never do type bracketing, so
	// they skip the MinKey/MaxKey and NaN special cases below. They are also
	// forbidden on multikey paths.
	if node.IsInternalExpr() && node.Op != matcher.MatchInternalExprEqual {
		berr.Invariant(!index.PathHasMultikeyComponent(elt.Field),
			"expression comparison predicates on multikey paths cannot use an index")
	}

	switch node.Op {
	case matcher.MatchEqual, matcher.MatchInternalExprEqual:
		// No need to sort or merge here: the output comes from one element.
		tightness = translateEquality(data, index, isHashed, &oil)
		if params.IET != nil {
			if node.Op == matcher.MatchEqual {
				params.IET.AddEval(node.Op.String(), oil)
			} else {
				// Comparisons expressed through the expression language are
				// not auto-parameterized.
				params.IET.AddConst(oil)
			}
		}
		return oil, tightness

	case matcher.MatchLT:
		defer notify(params, node.Op, &oil)

		// Everything is < MaxKey, except MaxKey itself. The bounds need to
		// be end-inclusive on a multikey index to find the array [MaxKey],
		// which is smaller for a comparison but equal in the index.
		if data.Type() == bsonx.TypeMaxKey {
			oil.Intervals = append(oil.Intervals,
				interval.AllValuesRespectingInclusion(true, index.Multikey))
			if index.Collation != nil || index.Multikey {
				return oil, TightnessInexactFetch
			}
			return oil, TightnessExact
		}

		// Nothing is < NaN.
		if bsonx.IsNaN(data) {
			return oil, TightnessExact
		}

		start, end := boundsForLT(data, index.Collation)
		inclusive := data.Type() == bsonx.TypeArray
		iv := interval.MakeRange(start, end, typeMatch(start, end) || inclusive, inclusive)

		// If the operand is equal to the lower bound X, the interval [X, X)
		// is invalid and must not be added.
		if !iv.IsEmpty() {
			oil.Intervals = append(oil.Intervals, iv)
		}
		return oil, inequalityTightness(iv, data)

	case matcher.MatchLTE:
		defer notify(params, node.Op, &oil)

		// Everything is <= MaxKey.
		if data.Type() == bsonx.TypeMaxKey {
			oil.Intervals = append(oil.Intervals, interval.AllValues())
			if index.Collation != nil {
				return oil, TightnessInexactFetch
			}
			return oil, TightnessExact
		}

		// Only NaN is <= NaN.
		if bsonx.IsNaN(data) {
			oil.Intervals = append(oil.Intervals, interval.MakePoint(data))
			return oil, TightnessExact
		}

		// With type bracketing, {$lte: null} is equivalent to {$eq: null}.
		if data.Type() == bsonx.TypeNull {
			return oil, appendNullEqualityBounds(index, isHashed, &oil)
		}

		start, end := boundsForLT(data, index.Collation)
		inclusive := data.Type() == bsonx.TypeArray || typeMatch(start, end)
		iv := interval.MakeRange(start, end, inclusive, true)
		oil.Intervals = append(oil.Intervals, iv)
		return oil, inequalityTightness(iv, data)

	case matcher.MatchInternalExprLT:
		defer notifyConst(params, &oil)

		// Expressions treat null and missing as distinct values, with
		// missing ordered below null. When the operand is null we build
		// [MinKey, null] to include missing values and filter out literal
		// nulls with a fetch.
		isNull := data.Type() == bsonx.TypeNull
		iv := interval.MakeRange(bsonx.MinKey{}, index.Collation.IndexKey(data), true, isNull)

		// Without type bracketing we must avoid adding [MinKey, MinKey).
		if !iv.IsEmpty() {
			oil.Intervals = append(oil.Intervals, iv)
		}
		return oil, inequalityTightness(iv, data)

	case matcher.MatchInternalExprLTE:
		defer notifyConst(params, &oil)

		iv := interval.MakeRange(bsonx.MinKey{}, index.Collation.IndexKey(data), true, true)
		oil.Intervals = append(oil.Intervals, iv)

		// [MinKey, null] covers both missing and literal null, which is
		// precisely what <= null means for expressions.
		if data.Type() == bsonx.TypeNull {
			return oil, TightnessExact
		}
		return oil, inequalityTightness(iv, data)

	case matcher.MatchGT:
		defer notify(params, node.Op, &oil)

		// Everything is > MinKey, except MinKey itself. The bounds need to
		// be start-inclusive on a multikey index to find the array
		// [MinKey], which is larger for a comparison but equal in the
		// index.
		if data.Type() == bsonx.TypeMinKey {
			oil.Intervals = append(oil.Intervals,
				interval.AllValuesRespectingInclusion(index.Multikey, true))
			if index.Collation != nil || index.Multikey {
				return oil, TightnessInexactFetch
			}
			return oil, TightnessExact
		}

		// Nothing is > NaN.
		if bsonx.IsNaN(data) {
			return oil, TightnessExact
		}

		start, end := boundsForGT(data, index.Collation)
		inclusive := data.Type() == bsonx.TypeArray
		iv := interval.MakeRange(start, end, inclusive, inclusive || typeMatch(start, end))

		// If the operand is equal to the upper bound X, the interval (X, X]
		// is invalid and must not be added.
		if !iv.IsEmpty() {
			oil.Intervals = append(oil.Intervals, iv)
		}
		return oil, inequalityTightness(iv, data)

	case matcher.MatchInternalExprGT:
		defer notifyConst(params, &oil)

		iv := interval.MakeRange(index.Collation.IndexKey(data), bsonx.MaxKey{}, false, true)

		// Without type bracketing we must avoid adding (MaxKey, MaxKey].
		if !iv.IsEmpty() {
			oil.Intervals = append(oil.Intervals, iv)
		}

		// (null, MaxKey] excludes both missing and literal null, which is
		// precisely what > null means for expressions.
		if data.Type() == bsonx.TypeNull {
			return oil, TightnessExact
		}
		return oil, inequalityTightness(iv, data)

	case matcher.MatchGTE:
		defer notify(params, node.Op, &oil)

		// Everything is >= MinKey.
		if data.Type() == bsonx.TypeMinKey {
			oil.Intervals = append(oil.Intervals, interval.AllValues())
			if index.Collation != nil {
				return oil, TightnessInexactFetch
			}
			return oil, TightnessExact
		}

		// Only NaN is >= NaN.
		if bsonx.IsNaN(data) {
			oil.Intervals = append(oil.Intervals, interval.MakePoint(data))
			return oil, TightnessExact
		}

		// With type bracketing, {$gte: null} is equivalent to {$eq: null}.
		if data.Type() == bsonx.TypeNull {
			return oil, appendNullEqualityBounds(index, isHashed, &oil)
		}

		start, end := boundsForGT(data, index.Collation)
		inclusive := data.Type() == bsonx.TypeArray || typeMatch(start, end)
		iv := interval.MakeRange(start, end, true, inclusive)
		oil.Intervals = append(oil.Intervals, iv)
		return oil, inequalityTightness(iv, data)

	case matcher.MatchInternalExprGTE:
		defer notifyConst(params, &oil)

		iv := interval.MakeRange(index.Collation.IndexKey(data), bsonx.MaxKey{}, true, true)
		oil.Intervals = append(oil.Intervals, iv)
		return oil, inequalityTightness(iv, data)
	}

	log.Warn("planner error while trying to build bounds for comparison",
		zap.String("matchType", node.Op.String()))
	berr.Unreachable("no bounds handler for comparison %s", node.Op)
	return oil, tightness
}

// notify defers an eval notification so it observes the finished OIL.
func notify(params *TranslateParams, op matcher.MatchType, oil *interval.OrderedIntervalList) {
	if params.IET != nil {
		params.IET.AddEval(op.String(), *oil)
	}
}

func notifyConst(params *TranslateParams, oil *interval.OrderedIntervalList) {
	if params.IET != nil {
		params.IET.AddConst(*oil)
	}
}

// boundsForLT contains the logic for determining the endpoints of a $lt or
// $lte interval.
func boundsForLT(data bsonx.Value, coll *bsonx.Collation) (start, end bsonx.Value) {
	switch {
	case bsonx.IsNumeric(data.Type()):
		// Use -infinity for one-sided numeric bounds.
		start = bsonx.Double(math.Inf(-1))
	case data.Type() == bsonx.TypeArray:
		// Comparison to an array is lexicographic, but in a multikey index
		// the entries are the array elements themselves. We must look at
		// all values between MinKey and the first element of the array.
		start = bsonx.MinKey{}
	default:
		start = bsonx.MinForType(data.Type())
	}

	if data.Type() != bsonx.TypeArray {
		return start, coll.IndexKey(data)
	}

	arr := data.(bsonx.Array)
	if len(arr) == 0 {
		// The empty array is the lowest array.
		return start, bsonx.MinForType(bsonx.TypeArray)
	}
	// If the first element sorts above the array type the bounds have to
	// include that element; otherwise the array itself is sufficiently large
	// to include all relevant keys.
	if bsonx.CanonicalRank(arr[0].Type()) > bsonx.CanonicalRank(bsonx.TypeArray) {
		return start, coll.IndexKey(arr[0])
	}
	return start, coll.IndexKey(data)
}

// boundsForGT contains the logic for determining the endpoints of a $gt or
// $gte interval.
func boundsForGT(data bsonx.Value, coll *bsonx.Collation) (start, end bsonx.Value) {
	if data.Type() == bsonx.TypeArray {
		arr := data.(bsonx.Array)
		switch {
		case len(arr) == 0:
			// An empty-array operand must match all arrays, and any array
			// could have a key anywhere in a multikey index.
			start = bsonx.MinKey{}
		case bsonx.CanonicalRank(arr[0].Type()) < bsonx.CanonicalRank(bsonx.TypeArray):
			// The first element sorts below the array type, so the bounds
			// need to extend down to that element.
			start = coll.IndexKey(arr[0])
		default:
			start = coll.IndexKey(data)
		}
	} else {
		start = coll.IndexKey(data)
	}

	switch {
	case bsonx.IsNumeric(data.Type()):
		end = bsonx.Double(math.Inf(1))
	case data.Type() == bsonx.TypeArray:
		end = bsonx.MaxKey{}
	default:
		end = bsonx.MaxForType(data.Type())
	}
	return start, end
}

// typeMatch reports whether two bound values belong to the same canonical
// type bracket.
func typeMatch(a, b bsonx.Value) bool {
	return bsonx.CanonicalRank(a.Type()) == bsonx.CanonicalRank(b.Type())
}

// inequalityTightness implements the tightness rules shared by $lt, $lte,
// $gt and $gte.
func inequalityTightness(iv interval.Interval, data bsonx.Value) Tightness {
	if iv.IsEmpty() {
		// Empty bounds are always exact.
		return TightnessExact
	}
	if isExactBoundsGenerating(data) {
		return TightnessExact
	}
	return TightnessInexactFetch
}

// isExactBoundsGenerating reports whether an inequality operand of this kind
// produces exact bounds. Arrays and documents conflate multiple index keys
// with one comparison, and a null index key stands for both literal null
// and a missing field, so none of them do.
func isExactBoundsGenerating(v bsonx.Value) bool {
	switch v.Type() {
	case bsonx.TypeArray, bsonx.TypeDocument, bsonx.TypeNull:
		return false
	}
	return true
}

func undefinedPointInterval(isHashed bool) interval.Interval {
	if isHashed {
		return interval.MakePoint(bsonx.Hash(bsonx.Undefined{}))
	}
	return interval.MakePoint(bsonx.Undefined{})
}

func nullPointInterval(isHashed bool) interval.Interval {
	if isHashed {
		return interval.MakePoint(bsonx.Hash(bsonx.Null{}))
	}
	return interval.MakePoint(bsonx.Null{})
}

// appendNullEqualityBounds builds the bounds for an equality-to-null
// predicate. Such a predicate cannot be covered because the index does not
// distinguish between the lack of a value and the literal value null.
func appendNullEqualityBounds(index *catalog.IndexEntry, isHashed bool, oil *interval.OrderedIntervalList) Tightness {
	// There are two values that could possibly be equal to null in an
	// index: undefined and null.
	oil.Intervals = append(oil.Intervals, undefinedPointInterval(isHashed), nullPointInterval(isHashed))

	// The hash values may sort the other way around.
	if isHashed {
		oil.Unionize()
	}
	return TightnessInexactFetch
}

func isEqualityOrInNull(expr matcher.Expression) bool {
	switch node := expr.(type) {
	case *matcher.ComparisonExpr:
		// With type bracketing, {$gte: null} and {$lte: null} are
		// equivalent to {$eq: null}.
		switch node.Op {
		case matcher.MatchEqual, matcher.MatchGTE, matcher.MatchLTE:
			return node.Value.Type() == bsonx.TypeNull
		}
	case *matcher.InExpr:
		return node.HasNull()
	}
	return false
}

// canUseIndexForNin recognizes the {$not: {$in: [null, []]}} shape, the only
// negated $in an index can serve.
func canUseIndexForNin(in *matcher.InExpr) bool {
	return len(in.Regexes) == 0 && len(in.Equalities) == 2 && in.HasNull() && in.HasEmptyArray()
}

// nodeIsSupportedByHashedIndex limits hashed indexes to predicates whose
// operands hash to point lookups.
func nodeIsSupportedByHashedIndex(expr matcher.Expression) bool {
	switch node := expr.(type) {
	case *matcher.ComparisonExpr:
		if node.Op != matcher.MatchEqual && node.Op != matcher.MatchInternalExprEqual {
			return false
		}
		return node.Value.Type() != bsonx.TypeArray
	case *matcher.InExpr:
		if len(node.Regexes) > 0 {
			return false
		}
		for _, v := range node.Equalities {
			if arr, ok := v.(bsonx.Array); ok && len(arr) > 0 {
				return false
			}
		}
		return true
	case *matcher.ExistsExpr:
		return true
	case *matcher.NotExpr:
		return nodeIsSupportedByHashedIndex(node.Child)
	}
	return false
}

// translateEquality appends the intervals for an equality comparison to one
// value. Array operands expand into the candidate points a multikey index
// stores for them.
func translateEquality(data bsonx.Value, index *catalog.IndexEntry, isHashed bool, oil *interval.OrderedIntervalList) Tightness {
	if data.Type() == bsonx.TypeNull {
		// An equality-to-null query must return both undefined and null
		// values, so it is not a point query.
		return appendNullEqualityBounds(index, isHashed, oil)
	}

	if data.Type() != bsonx.TypeArray {
		key := index.Collation.IndexKey(data)
		if isHashed {
			key = bsonx.Hash(key)
		}
		oil.Intervals = append(oil.Intervals, interval.MakePoint(key))
		if isHashed {
			return TightnessInexactFetch
		}
		return TightnessExact
	}

	// Arrays with hashed indexes are not supported, so only the btree case
	// remains. An array is indexed by:
	//
	// 1. its first element, if there is one. Using the first is arbitrary:
	// for {a: [1, 2, 3]} the bounds [1, 1] on a multikey index pick up
	// every document containing that array.
	//
	// 2. undefined, if the array is empty.
	//
	// 3. the full array, when it is nested inside another array. This makes
	// {a: [1, 2, 3]} match documents like {a: [[1, 2, 3], 4, 5]}.
	berr.Invariant(!isHashed, "array equality is unsupported on hashed indexes")

	arr := data.(bsonx.Array)

	// Case 3.
	oil.Intervals = append(oil.Intervals, interval.MakePoint(index.Collation.IndexKey(data)))

	if len(arr) == 0 {
		// Case 2.
		oil.Intervals = append(oil.Intervals, interval.MakePoint(bsonx.Undefined{}))
	} else {
		// Case 1.
		oil.Intervals = append(oil.Intervals, interval.MakePoint(index.Collation.IndexKey(arr[0])))
	}

	sortIntervals(oil.Intervals)
	return TightnessInexactFetch
}

// sortIntervals orders intervals by start value, inclusive starts first.
func sortIntervals(iv []interval.Interval) {
	sort.Slice(iv, func(i, j int) bool {
		if c := bsonx.Compare(iv[i].Start, iv[j].Start); c != 0 {
			return c < 0
		}
		if iv[i].StartInclusive == iv[j].StartInclusive {
			return false
		}
		return iv[i].StartInclusive
	})
}

func translateType(node *matcher.TypeExpr, elt catalog.KeyPatternElement, index *catalog.IndexEntry) (interval.OrderedIntervalList, Tightness) {
	oil := interval.OrderedIntervalList{Name: elt.Field}

	if node.Set.Has(bsonx.TypeArray) {
		// {$type: "array"}. Arrays are indexed by creating a key per
		// element, so every indexed document must be fetched and checked
		// for an array.
		oil.Intervals = append(oil.Intervals, interval.AllValues())
		return oil, TightnessInexactFetch
	}

	// When matching all numbers, the bounds for one numeric type already
	// span the whole numeric bracket.
	if node.Set.AllNumbers {
		oil.Intervals = append(oil.Intervals, interval.MakeRange(
			bsonx.MinForType(bsonx.TypeInt32), bsonx.MaxForType(bsonx.TypeInt32), true, true))
	}

	for _, t := range node.Set.Types {
		// Variable-width types use the smallest value of the next type as
		// their upper bound, which must therefore be excluded.
		endInclusive := !bsonx.IsVariableWidth(t)
		oil.Intervals = append(oil.Intervals, interval.MakeRange(
			bsonx.MinForType(t), bsonx.MaxForType(t), true, endInclusive))
	}

	tightness := tightnessForTypeSet(node.Set, index)

	oil.Unionize()
	return oil, tightness
}

func tightnessForTypeSet(set matcher.TypeSet, index *catalog.IndexEntry) Tightness {
	// Type sets containing Array never reach this function.
	berr.Invariant(!set.Has(bsonx.TypeArray), "type-set tightness is undefined for arrays")

	// String and document types under a collation require a fetch: index
	// keys hold collation-transformed values.
	if index.Collation != nil && (set.Has(bsonx.TypeString) || set.Has(bsonx.TypeDocument)) {
		return TightnessInexactFetch
	}

	// Null and undefined always require a fetch.
	if set.Has(bsonx.TypeNull) || set.Has(bsonx.TypeUndefined) {
		return TightnessInexactFetch
	}

	numericIncluded := 0
	for _, t := range []bsonx.Type{bsonx.TypeInt32, bsonx.TypeInt64, bsonx.TypeDouble, bsonx.TypeDecimal} {
		if set.Has(t) {
			numericIncluded++
		}
	}
	hasAllNumbers := numericIncluded == 4 || set.AllNumbers
	if numericIncluded > 0 && !hasAllNumbers {
		return TightnessInexactCovered
	}

	// Exactly one of {string, symbol}: the two share a bracket, so the
	// bounds cover both.
	if set.Has(bsonx.TypeString) != set.Has(bsonx.TypeSymbol) {
		return TightnessInexactCovered
	}

	return TightnessExact
}

func translateIn(node *matcher.InExpr, elt catalog.KeyPatternElement, index *catalog.IndexEntry, isHashed bool) (interval.OrderedIntervalList, Tightness) {
	oil := interval.OrderedIntervalList{Name: elt.Field}
	tightness := TightnessExact

	arrayOrNullPresent := false
	for _, equality := range node.Equalities {
		sub := translateEquality(equality, index, isHashed, &oil)
		// Arrays and nulls introduce multiple points that violate the
		// ordering invariant of the OIL being built.
		arrayOrNullPresent = arrayOrNullPresent ||
			equality.Type() == bsonx.TypeNull || equality.Type() == bsonx.TypeArray
		tightness = Widen(tightness, sub)
	}

	for _, re := range node.Regexes {
		sub := translateRegex(re, index, &oil)
		tightness = Widen(tightness, sub)
	}

	if node.HasNull() {
		// A null index key does not always match a null query value, so the
		// document must be fetched and compared in full.
		tightness = TightnessInexactFetch
	}

	if node.HasEmptyArray() {
		// Empty arrays are indexed as undefined.
		oil.Intervals = append(oil.Intervals, interval.MakePoint(bsonx.Undefined{}))
		tightness = TightnessInexactFetch
	}

	// Equalities arrive sorted and deduped, so unionize is only needed when
	// regexes, hashed-key ordering, or array/null points may have broken
	// the ordering invariant.
	if len(node.Regexes) > 0 || index.Type == catalog.IndexHashed || arrayOrNullPresent {
		oil.Unionize()
	}
	return oil, tightness
}

// appendCovering turns a cell covering of the region into index intervals.
func appendCovering(coverer geocover.Coverer, region geocover.Region, oil *interval.OrderedIntervalList) {
	ranges, err := coverer.Cover(region)
	if err != nil {
		log.Warn("planner error while covering geo region", zap.Error(err))
		berr.Unreachable("geo region cannot be covered: %v", err)
	}
	for _, r := range ranges {
		oil.Intervals = append(oil.Intervals,
			interval.MakeRange(bsonx.String(r.Start), bsonx.String(r.End), true, true))
	}
	oil.Unionize()
}
