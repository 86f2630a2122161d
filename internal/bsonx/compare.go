package bsonx

import (
	"bytes"
	"math"

	"github.com/cockroachdb/apd/v3"

	"github.com/birchdb/birch/pkg/util/berr"
)

// Compare returns -1, 0 or +1 ordering a before, equal to, or after b under
// the canonical total order: type rank first, then value within the rank.
// NaN sorts before every other number and equal to itself. The order never
// produces an "incomparable" result.
func Compare(a, b Value) int {
	ra, rb := CanonicalRank(a.Type()), CanonicalRank(b.Type())
	if ra != rb {
		return sign(ra - rb)
	}

	switch ra {
	case CanonicalRank(TypeMinKey), CanonicalRank(TypeMaxKey),
		CanonicalRank(TypeUndefined), CanonicalRank(TypeNull):
		return 0
	}

	switch x := a.(type) {
	case Int32:
		return compareNumbers(a, b)
	case Int64:
		return compareNumbers(a, b)
	case Double:
		return compareNumbers(a, b)
	case Decimal:
		return compareNumbers(a, b)
	case String:
		return compareStringBracket(string(x), b)
	case Symbol:
		return compareStringBracket(string(x), b)
	case Document:
		return compareDocuments(x, b.(Document))
	case Array:
		y := b.(Array)
		n := len(x)
		if len(y) < n {
			n = len(y)
		}
		for i := 0; i < n; i++ {
			if c := Compare(x[i], y[i]); c != 0 {
				return c
			}
		}
		return sign(len(x) - len(y))
	case Binary:
		y := b.(Binary)
		if c := sign(len(x.Data) - len(y.Data)); c != 0 {
			return c
		}
		if x.Subtype != y.Subtype {
			return sign(int(x.Subtype) - int(y.Subtype))
		}
		return bytes.Compare(x.Data, y.Data)
	case ObjectID:
		y := b.(ObjectID)
		return bytes.Compare(x[:], y[:])
	case Boolean:
		y := b.(Boolean)
		if x == y {
			return 0
		}
		if !x {
			return -1
		}
		return 1
	case DateTime:
		y := b.(DateTime)
		if x < y {
			return -1
		}
		if x > y {
			return 1
		}
		return 0
	case Timestamp:
		y := b.(Timestamp)
		if x.T != y.T {
			if x.T < y.T {
				return -1
			}
			return 1
		}
		if x.I != y.I {
			if x.I < y.I {
				return -1
			}
			return 1
		}
		return 0
	case Regex:
		y := b.(Regex)
		if c := compareBytes(x.Pattern, y.Pattern); c != 0 {
			return c
		}
		return compareBytes(x.Options, y.Options)
	}
	berr.Unreachable("unhandled value type %v in compare", a.Type())
	return 0
}

// Equal reports whether a and b compare equal under the canonical order and
// carry the same type tag. Numeric values of different widths are never
// Equal even when they Compare as 0.
func Equal(a, b Value) bool {
	return a.Type() == b.Type() && Compare(a, b) == 0
}

func compareStringBracket(a string, b Value) int {
	switch y := b.(type) {
	case String:
		return compareBytes(a, string(y))
	case Symbol:
		return compareBytes(a, string(y))
	}
	berr.Unreachable("unhandled string-bracket type %v", b.Type())
	return 0
}

func compareDocuments(a, b Document) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if c := compareBytes(a[i].Key, b[i].Key); c != 0 {
			return c
		}
		if c := Compare(a[i].Value, b[i].Value); c != 0 {
			return c
		}
	}
	return sign(len(a) - len(b))
}

func compareBytes(a, b string) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}

func sign(i int) int {
	if i < 0 {
		return -1
	}
	if i > 0 {
		return 1
	}
	return 0
}

// IsNaN reports whether v is a numeric NaN.
func IsNaN(v Value) bool {
	switch x := v.(type) {
	case Double:
		return math.IsNaN(float64(x))
	case Decimal:
		return x.Dec.Form == apd.NaN || x.Dec.Form == apd.NaNSignaling
	}
	return false
}

func compareNumbers(a, b Value) int {
	an, bn := IsNaN(a), IsNaN(b)
	if an || bn {
		switch {
		case an && bn:
			return 0
		case an:
			return -1
		default:
			return 1
		}
	}

	// When a decimal participates, compare in decimal space.
	if a.Type() == TypeDecimal || b.Type() == TypeDecimal {
		da, err := toDecimal(a)
		if err != nil {
			berr.Unreachable("numeric value not convertible to decimal: %v", err)
		}
		db, err := toDecimal(b)
		if err != nil {
			berr.Unreachable("numeric value not convertible to decimal: %v", err)
		}
		return compareDecimals(da, db)
	}

	switch x := a.(type) {
	case Int32:
		return compareInt64(int64(x), b)
	case Int64:
		return compareInt64(int64(x), b)
	case Double:
		switch y := b.(type) {
		case Int32:
			return -compareInt64Double(int64(y), float64(x))
		case Int64:
			return -compareInt64Double(int64(y), float64(x))
		case Double:
			if float64(x) < float64(y) {
				return -1
			}
			if float64(x) > float64(y) {
				return 1
			}
			return 0
		}
	}
	berr.Unreachable("unhandled numeric pair %v/%v", a.Type(), b.Type())
	return 0
}

func compareInt64(x int64, b Value) int {
	switch y := b.(type) {
	case Int32:
		if x < int64(y) {
			return -1
		}
		if x > int64(y) {
			return 1
		}
		return 0
	case Int64:
		if x < int64(y) {
			return -1
		}
		if x > int64(y) {
			return 1
		}
		return 0
	case Double:
		return compareInt64Double(x, float64(y))
	}
	berr.Unreachable("unhandled numeric pair long/%v", b.Type())
	return 0
}

// compareInt64Double compares a 64-bit integer against a double without
// losing precision for magnitudes beyond 2^53.
func compareInt64Double(l int64, f float64) int {
	if math.IsInf(f, 1) || f >= 9.223372036854776e18 {
		return -1
	}
	if math.IsInf(f, -1) || f < -9.223372036854776e18 {
		return 1
	}
	trunc := int64(math.Trunc(f))
	if l != trunc {
		if l < trunc {
			return -1
		}
		return 1
	}
	frac := f - math.Trunc(f)
	if frac > 0 {
		return -1
	}
	if frac < 0 {
		return 1
	}
	return 0
}

var decCtx = apd.BaseContext.WithPrecision(34)

func toDecimal(v Value) (*apd.Decimal, error) {
	switch x := v.(type) {
	case Decimal:
		return x.Dec, nil
	case Int32:
		return apd.New(int64(x), 0), nil
	case Int64:
		return apd.New(int64(x), 0), nil
	case Double:
		d := new(apd.Decimal)
		if math.IsInf(float64(x), 1) {
			d.Form = apd.Infinite
			return d, nil
		}
		if math.IsInf(float64(x), -1) {
			d.Form = apd.Infinite
			d.Negative = true
			return d, nil
		}
		if _, err := d.SetFloat64(float64(x)); err != nil {
			return nil, err
		}
		return d, nil
	}
	return nil, berr.WrapErrMalformedValue("non-numeric type %v", v.Type())
}

func compareDecimals(a, b *apd.Decimal) int {
	if a.Form == apd.Infinite || b.Form == apd.Infinite {
		ai, bi := infSign(a), infSign(b)
		if ai != bi {
			return sign(ai - bi)
		}
		if ai != 0 {
			return 0
		}
	}
	return a.Cmp(b)
}

func infSign(d *apd.Decimal) int {
	if d.Form != apd.Infinite {
		return 0
	}
	if d.Negative {
		return -1
	}
	return 1
}
