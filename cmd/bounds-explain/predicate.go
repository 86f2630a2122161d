package main

import (
	"github.com/tidwall/gjson"

	"github.com/birchdb/birch/internal/bsonx"
	"github.com/birchdb/birch/internal/geocover"
	"github.com/birchdb/birch/internal/matcher"
	"github.com/birchdb/birch/pkg/util/berr"
)

// parsePredicate decodes an operator document such as {"$gt": 5, "$lte": 9}
// into one predicate node per operator. This is a debugging-tool decoder,
// not the query parser: it covers the operators the bounds builder accepts
// on a single field.
func parsePredicate(raw string) ([]matcher.Expression, error) {
	if !gjson.Valid(raw) {
		return nil, berr.WrapErrMalformedValue("invalid predicate JSON: %.64s", raw)
	}
	doc := gjson.Parse(raw)
	if !doc.IsObject() {
		return nil, berr.WrapErrMalformedValue("predicate must be an operator document, got %.64s", raw)
	}

	var exprs []matcher.Expression
	var regexFlags string
	var parseErr error
	doc.ForEach(func(key, operand gjson.Result) bool {
		op := key.String()
		if op == "$options" {
			regexFlags = operand.String()
			return true
		}
		expr, err := parseOperator(op, operand)
		if err != nil {
			parseErr = err
			return false
		}
		exprs = append(exprs, expr)
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	if len(exprs) == 0 {
		return nil, berr.WrapErrMalformedValue("predicate names no operators: %.64s", raw)
	}
	if regexFlags != "" {
		applied := false
		for _, e := range exprs {
			if rme, ok := e.(*matcher.RegexExpr); ok {
				rme.Flags = regexFlags
				applied = true
			}
		}
		if !applied {
			return nil, berr.WrapErrMalformedValue("$options without $regex")
		}
	}
	return exprs, nil
}

func parseOperator(op string, operand gjson.Result) (matcher.Expression, error) {
	switch op {
	case "$eq", "$lt", "$lte", "$gt", "$gte":
		v, err := bsonx.FromJSON(operand.Raw)
		if err != nil {
			return nil, err
		}
		return &matcher.ComparisonExpr{Op: comparisonOp(op), Value: v}, nil

	case "$ne":
		v, err := bsonx.FromJSON(operand.Raw)
		if err != nil {
			return nil, err
		}
		return &matcher.NotExpr{Child: &matcher.ComparisonExpr{Op: matcher.MatchEqual, Value: v}}, nil

	case "$exists":
		if operand.Bool() {
			return &matcher.ExistsExpr{}, nil
		}
		return &matcher.NotExpr{Child: &matcher.ExistsExpr{}}, nil

	case "$not":
		children, err := parsePredicate(operand.Raw)
		if err != nil {
			return nil, err
		}
		if len(children) != 1 {
			return nil, berr.WrapErrMalformedValue("$not takes a single-operator document")
		}
		return &matcher.NotExpr{Child: children[0]}, nil

	case "$in":
		return parseIn(operand)

	case "$regex":
		return &matcher.RegexExpr{Pattern: operand.String()}, nil

	case "$mod":
		args := operand.Array()
		if len(args) != 2 {
			return nil, berr.WrapErrMalformedValue("$mod takes [divisor, remainder]")
		}
		return &matcher.ModExpr{Divisor: args[0].Int(), Remainder: args[1].Int()}, nil

	case "$type":
		return parseType(operand)

	case "$elemMatch":
		children, err := parsePredicate(operand.Raw)
		if err != nil {
			return nil, err
		}
		return &matcher.ElemMatchValueExpr{Children: children}, nil

	case "$geoWithin":
		region, err := parseRegion(operand)
		if err != nil {
			return nil, err
		}
		return &matcher.GeoWithinExpr{Region: region}, nil
	}
	return nil, berr.WrapErrUnsupportedPredicate("operator %q", op)
}

func comparisonOp(op string) matcher.MatchType {
	switch op {
	case "$eq":
		return matcher.MatchEqual
	case "$lt":
		return matcher.MatchLT
	case "$lte":
		return matcher.MatchLTE
	case "$gt":
		return matcher.MatchGT
	case "$gte":
		return matcher.MatchGTE
	}
	berr.Unreachable("non-comparison operator %q", op)
	return 0
}

func parseIn(operand gjson.Result) (matcher.Expression, error) {
	if !operand.IsArray() {
		return nil, berr.WrapErrMalformedValue("$in takes an array")
	}
	in := &matcher.InExpr{}
	var parseErr error
	operand.ForEach(func(_, elem gjson.Result) bool {
		v, err := bsonx.FromJSON(elem.Raw)
		if err != nil {
			parseErr = err
			return false
		}
		if re, ok := v.(bsonx.Regex); ok {
			in.Regexes = append(in.Regexes, &matcher.RegexExpr{Pattern: re.Pattern, Flags: re.Options})
			return true
		}
		in.Equalities = append(in.Equalities, v)
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	return in, nil
}

func parseType(operand gjson.Result) (matcher.Expression, error) {
	aliases := operand.Array()
	if !operand.IsArray() {
		aliases = []gjson.Result{operand}
	}
	set := matcher.TypeSet{}
	for _, a := range aliases {
		alias := a.String()
		if alias == "number" {
			set.AllNumbers = true
			continue
		}
		t, ok := bsonx.TypeByAlias(alias)
		if !ok {
			return nil, berr.WrapErrMalformedValue("unknown $type alias %q", alias)
		}
		set.Types = append(set.Types, t)
	}
	return &matcher.TypeExpr{Set: set}, nil
}

// parseRegion accepts the two shapes this tool understands: the legacy
// planar {"$box": [[minX, minY], [maxX, maxY]]} and the spherical
// {"$centerSphere": [[lng, lat], radiusRad]}.
func parseRegion(operand gjson.Result) (geocover.Region, error) {
	if box := operand.Get("$box"); box.Exists() {
		corners := box.Array()
		if len(corners) != 2 || len(corners[0].Array()) != 2 || len(corners[1].Array()) != 2 {
			return nil, berr.WrapErrMalformedValue("$box takes [[minX, minY], [maxX, maxY]]")
		}
		lo, hi := corners[0].Array(), corners[1].Array()
		return geocover.FlatBox{
			MinX: lo[0].Float(), MinY: lo[1].Float(),
			MaxX: hi[0].Float(), MaxY: hi[1].Float(),
		}, nil
	}
	if cs := operand.Get("$centerSphere"); cs.Exists() {
		args := cs.Array()
		if len(args) != 2 || len(args[0].Array()) != 2 {
			return nil, berr.WrapErrMalformedValue("$centerSphere takes [[lng, lat], radius]")
		}
		center := args[0].Array()
		return geocover.SphereCap{
			CenterLng: center[0].Float(),
			CenterLat: center[1].Float(),
			RadiusRad: args[1].Float(),
		}, nil
	}
	return nil, berr.WrapErrMalformedValue("$geoWithin takes $box or $centerSphere")
}
