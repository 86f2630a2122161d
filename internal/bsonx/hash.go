package bsonx

import (
	"encoding/binary"
	"math"

	"github.com/spaolacci/murmur3"
)

// HashSeed is the fixed seed used for hashed-index key generation. Changing
// it invalidates every hashed index on disk.
const HashSeed uint32 = 0

// Hash computes the hashed-index key for v. Numeric values that compare
// equal hash identically regardless of width, decimals included, as do
// string and symbol.
func Hash(v Value) Int64 {
	h := murmur3.New64WithSeed(HashSeed)
	var buf []byte
	buf = appendCanonical(buf, v)
	h.Write(buf)
	return Int64(h.Sum64())
}

func appendCanonical(buf []byte, v Value) []byte {
	buf = append(buf, byte(CanonicalRank(v.Type())+1))
	switch x := v.(type) {
	case MinKey, MaxKey, Undefined, Null:
		return buf
	case Int32:
		return appendNumericCanonical(buf, Double(x))
	case Int64:
		return appendNumericCanonical(buf, x)
	case Double:
		return appendNumericCanonical(buf, x)
	case Decimal:
		return appendDecimalCanonical(buf, x)
	case String:
		return append(buf, x...)
	case Symbol:
		return append(buf, x...)
	case Document:
		for _, e := range x {
			buf = append(buf, e.Key...)
			buf = append(buf, 0)
			buf = appendCanonical(buf, e.Value)
		}
		return buf
	case Array:
		for _, e := range x {
			buf = appendCanonical(buf, e)
		}
		return buf
	case Binary:
		buf = append(buf, x.Subtype)
		return append(buf, x.Data...)
	case ObjectID:
		return append(buf, x[:]...)
	case Boolean:
		if x {
			return append(buf, 1)
		}
		return append(buf, 0)
	case DateTime:
		return binary.BigEndian.AppendUint64(buf, uint64(x))
	case Timestamp:
		buf = binary.BigEndian.AppendUint32(buf, x.T)
		return binary.BigEndian.AppendUint32(buf, x.I)
	case Regex:
		buf = append(buf, x.Pattern...)
		buf = append(buf, 0)
		return append(buf, x.Options...)
	}
	return buf
}

// appendNumericCanonical folds every numeric into one byte form: integral
// values in int64 range serialize as integers, the rest as doubles, so
// Int32(5), Int64(5) and Double(5) hash identically. NaN payloads collapse
// to one canonical NaN. The window bounds are exactly -2^63 and 2^63 in
// float64.
func appendNumericCanonical(buf []byte, v Value) []byte {
	switch x := v.(type) {
	case Int64:
		buf = append(buf, 'i')
		return binary.BigEndian.AppendUint64(buf, uint64(x))
	case Double:
		f := float64(x)
		if math.IsNaN(f) {
			f = math.NaN()
		}
		if f == math.Trunc(f) && f >= -9.223372036854776e18 && f < 9.223372036854776e18 {
			buf = append(buf, 'i')
			return binary.BigEndian.AppendUint64(buf, uint64(int64(f)))
		}
		buf = append(buf, 'd')
		return binary.BigEndian.AppendUint64(buf, math.Float64bits(f))
	}
	return buf
}

// appendDecimalCanonical routes a decimal through the shared numeric forms
// so a decimal that compares equal to an integer or double hashes like it.
// Finite values outside double range hash their reduced text, which no
// other numeric type can compare equal to.
func appendDecimalCanonical(buf []byte, x Decimal) []byte {
	if IsNaN(x) {
		return appendNumericCanonical(buf, Double(math.NaN()))
	}
	if s := infSign(x.Dec); s != 0 {
		return appendNumericCanonical(buf, Double(math.Inf(s)))
	}
	if i, err := x.Dec.Int64(); err == nil {
		return appendNumericCanonical(buf, Int64(i))
	}
	if f, err := x.Dec.Float64(); err == nil {
		return appendNumericCanonical(buf, Double(f))
	}
	tmp := *x.Dec
	tmp.Reduce(&tmp)
	return append(buf, tmp.Text('E')...)
}
