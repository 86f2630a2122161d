package bsonx

import (
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/birchdb/birch/pkg/util/berr"
)

// Collation rewrites string values into their collation comparison keys.
// Index keys are built from the rewritten values, so the ordered domain
// itself stays collation-free: a plain bytewise Compare on transformed
// values yields the collated order.
type Collation struct {
	Locale string

	mu       sync.Mutex
	collator *collate.Collator
}

// NewCollation builds a collation for a BCP 47 locale tag such as "en_US"
// or "fr". Returns a typed invalid-parameter error for unknown locales.
func NewCollation(locale string) (*Collation, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, berr.WrapErrParameterInvalidMsg("unknown collation locale %q: %v", locale, err)
	}
	return &Collation{
		Locale:   locale,
		collator: collate.New(tag),
	}, nil
}

// Key returns the comparison key for s.
func (c *Collation) Key(s string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	var buf collate.Buffer
	return string(c.collator.KeyFromString(&buf, s))
}

// IndexKey rewrites v the way the index layer does before storing it:
// strings and symbols are replaced by their comparison keys, recursively
// through documents and arrays. A nil collation returns v unchanged.
func (c *Collation) IndexKey(v Value) Value {
	if c == nil {
		return v
	}
	switch x := v.(type) {
	case String:
		return String(c.Key(string(x)))
	case Symbol:
		return Symbol(c.Key(string(x)))
	case Document:
		out := make(Document, len(x))
		for i, e := range x {
			out[i] = Element{Key: e.Key, Value: c.IndexKey(e.Value)}
		}
		return out
	case Array:
		out := make(Array, len(x))
		for i, e := range x {
			out[i] = c.IndexKey(e)
		}
		return out
	}
	return v
}
