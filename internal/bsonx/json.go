package bsonx

import (
	"encoding/base64"
	"encoding/hex"
	"math"
	"strings"

	"github.com/cockroachdb/apd/v3"
	"github.com/tidwall/gjson"

	"github.com/birchdb/birch/pkg/util/berr"
)

// FromJSON parses an extended-JSON literal into a Value. It accepts plain
// JSON scalars, arrays and objects, plus the extended forms for the types
// JSON cannot express ($minKey, $maxKey, $undefined, $oid, $date,
// $timestamp, $regularExpression, $binary, $symbol, $numberInt,
// $numberLong, $numberDouble, $numberDecimal).
func FromJSON(raw string) (Value, error) {
	if !gjson.Valid(raw) {
		return nil, berr.WrapErrMalformedValue("invalid JSON: %.64s", raw)
	}
	return fromResult(gjson.Parse(raw))
}

func fromResult(r gjson.Result) (Value, error) {
	switch r.Type {
	case gjson.Null:
		return Null{}, nil
	case gjson.False:
		return Boolean(false), nil
	case gjson.True:
		return Boolean(true), nil
	case gjson.String:
		return String(r.String()), nil
	case gjson.Number:
		return numberFromResult(r), nil
	case gjson.JSON:
		if r.IsArray() {
			arr := Array{}
			var err error
			r.ForEach(func(_, elem gjson.Result) bool {
				var v Value
				v, err = fromResult(elem)
				if err != nil {
					return false
				}
				arr = append(arr, v)
				return true
			})
			if err != nil {
				return nil, err
			}
			return arr, nil
		}
		return objectFromResult(r)
	}
	return nil, berr.WrapErrMalformedValue("unsupported JSON node: %.64s", r.Raw)
}

func numberFromResult(r gjson.Result) Value {
	raw := r.Raw
	if !strings.ContainsAny(raw, ".eE") {
		n := r.Int()
		if n >= math.MinInt32 && n <= math.MaxInt32 {
			return Int32(n)
		}
		return Int64(n)
	}
	return Double(r.Float())
}

func objectFromResult(r gjson.Result) (Value, error) {
	if v, ok, err := extendedFromResult(r); ok || err != nil {
		return v, err
	}

	doc := Document{}
	var err error
	r.ForEach(func(key, elem gjson.Result) bool {
		var v Value
		v, err = fromResult(elem)
		if err != nil {
			return false
		}
		doc = append(doc, Element{Key: key.String(), Value: v})
		return true
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func extendedFromResult(r gjson.Result) (Value, bool, error) {
	switch {
	case r.Get("$minKey").Exists():
		return MinKey{}, true, nil
	case r.Get("$maxKey").Exists():
		return MaxKey{}, true, nil
	case r.Get("$undefined").Exists():
		return Undefined{}, true, nil
	case r.Get("$symbol").Exists():
		return Symbol(r.Get("$symbol").String()), true, nil
	case r.Get("$numberInt").Exists():
		return Int32(r.Get("$numberInt").Int()), true, nil
	case r.Get("$numberLong").Exists():
		return Int64(r.Get("$numberLong").Int()), true, nil
	case r.Get("$numberDouble").Exists():
		raw := r.Get("$numberDouble").String()
		switch raw {
		case "Infinity":
			return Double(math.Inf(1)), true, nil
		case "-Infinity":
			return Double(math.Inf(-1)), true, nil
		case "NaN":
			return Double(math.NaN()), true, nil
		}
		return Double(r.Get("$numberDouble").Float()), true, nil
	case r.Get("$numberDecimal").Exists():
		d, _, err := apd.NewFromString(r.Get("$numberDecimal").String())
		if err != nil {
			return nil, true, berr.WrapErrMalformedValue("bad $numberDecimal: %v", err)
		}
		return Decimal{Dec: d}, true, nil
	case r.Get("$date").Exists():
		return DateTime(r.Get("$date").Int()), true, nil
	case r.Get("$timestamp").Exists():
		ts := r.Get("$timestamp")
		return Timestamp{T: uint32(ts.Get("t").Uint()), I: uint32(ts.Get("i").Uint())}, true, nil
	case r.Get("$regularExpression").Exists():
		re := r.Get("$regularExpression")
		return Regex{
			Pattern: re.Get("pattern").String(),
			Options: re.Get("options").String(),
		}, true, nil
	case r.Get("$oid").Exists():
		raw, err := hex.DecodeString(r.Get("$oid").String())
		if err != nil || len(raw) != 12 {
			return nil, true, berr.WrapErrMalformedValue("bad $oid: %q", r.Get("$oid").String())
		}
		var oid ObjectID
		copy(oid[:], raw)
		return oid, true, nil
	case r.Get("$binary").Exists():
		bin := r.Get("$binary")
		data, err := base64.StdEncoding.DecodeString(bin.Get("base64").String())
		if err != nil {
			return nil, true, berr.WrapErrMalformedValue("bad $binary payload: %v", err)
		}
		sub, err := hex.DecodeString(bin.Get("subType").String())
		if err != nil || len(sub) != 1 {
			return nil, true, berr.WrapErrMalformedValue("bad $binary subType: %q", bin.Get("subType").String())
		}
		return Binary{Subtype: sub[0], Data: data}, true, nil
	}
	return nil, false, nil
}
