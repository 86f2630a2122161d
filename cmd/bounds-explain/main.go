// bounds-explain translates a single-field predicate against an index key
// pattern and prints the resulting scan bounds, their tightness, and the
// interval evaluation tree. It is a planner debugging tool, not a query
// surface.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/birchdb/birch/internal/bsonx"
	"github.com/birchdb/birch/internal/catalog"
	"github.com/birchdb/birch/internal/planner/bounds"
	"github.com/birchdb/birch/internal/planner/interval"
	"github.com/birchdb/birch/pkg/util/berr"
)

type explainOptions struct {
	keyPattern string
	field      string
	collation  string
	sparse     bool
	multikey   bool
	direction  int
}

func newExplainCommand() *cobra.Command {
	opts := &explainOptions{}

	cmd := &cobra.Command{
		Use:   "bounds-explain <predicate>",
		Short: "Show the index scan bounds a predicate translates to",
		Long: `Show the index scan bounds a predicate translates to.

The predicate is an operator document applied to one field of the key
pattern, in extended JSON.

Examples:
  bounds-explain --key '{"a": 1}' '{"$gt": 5, "$lte": 9}'
  bounds-explain --key '{"a": 1, "b": -1}' --field b '{"$in": [1, null]}'
  bounds-explain --key '{"a": "hashed"}' '{"$eq": "x"}'
  bounds-explain --key '{"loc": "2d"}' --field loc '{"$geoWithin": {"$box": [[0, 0], [10, 10]]}}'`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExplain(cmd, opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.keyPattern, "key", `{"a": 1}`, "index key pattern as JSON")
	cmd.Flags().StringVar(&opts.field, "field", "", "key pattern field the predicate applies to (default: first)")
	cmd.Flags().StringVar(&opts.collation, "collation", "", "collation locale the index was built with")
	cmd.Flags().BoolVar(&opts.sparse, "sparse", false, "treat the index as sparse")
	cmd.Flags().BoolVar(&opts.multikey, "multikey", false, "treat the index as multikey")
	cmd.Flags().IntVar(&opts.direction, "direction", 1, "scan direction, 1 or -1")

	return cmd
}

func runExplain(cmd *cobra.Command, opts *explainOptions, predicate string) error {
	index, elt, err := buildIndexEntry(opts)
	if err != nil {
		return err
	}
	exprs, err := parsePredicate(predicate)
	if err != nil {
		return err
	}

	iet := &interval.IETBuilder{}
	params := bounds.DefaultParams()
	params.IET = iet

	oil, tightness := bounds.Translate(exprs[0], elt, index, params)
	for _, expr := range exprs[1:] {
		t := bounds.TranslateAndIntersect(expr, elt, index, params, &oil)
		tightness = bounds.Widen(tightness, t)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "index:     %s\n", bsonx.Format(index.KeyPattern))
	fmt.Fprintf(out, "field:     %s\n", elt.Field)
	fmt.Fprintf(out, "bounds:    %s\n", oil.String())
	fmt.Fprintf(out, "tightness: %s\n", tightness)
	if node, ok := iet.Done(); ok {
		fmt.Fprintf(out, "iet:       %s\n", interval.Shape(node))
	}

	full := assembleFull(index, elt.Field, oil, opts.direction)
	fmt.Fprintf(out, "aligned:   %s\n", full.String())
	if startKey, startIncl, endKey, endIncl, ok := bounds.IsSingleInterval(full); ok {
		fmt.Fprintf(out, "single interval: %s%s, %s%s\n",
			bracket(startIncl, "[", "("), bsonx.Format(startKey),
			bsonx.Format(endKey), bracket(endIncl, "]", ")"))
	}
	return nil
}

func buildIndexEntry(opts *explainOptions) (*catalog.IndexEntry, catalog.KeyPatternElement, error) {
	v, err := bsonx.FromJSON(opts.keyPattern)
	if err != nil {
		return nil, catalog.KeyPatternElement{}, err
	}
	keyPattern, ok := v.(bsonx.Document)
	if !ok || len(keyPattern) == 0 {
		return nil, catalog.KeyPatternElement{}, fmt.Errorf("--key must be a non-empty document")
	}

	index := &catalog.IndexEntry{
		Name:       "explain",
		KeyPattern: keyPattern,
		Type:       catalog.InferIndexType(keyPattern),
		Sparse:     opts.sparse,
		Multikey:   opts.multikey,
	}
	if opts.collation != "" {
		coll, err := bsonx.NewCollation(opts.collation)
		if err != nil {
			return nil, catalog.KeyPatternElement{}, err
		}
		index.Collation = coll
	}

	elts := index.Elements()
	if opts.field == "" {
		return index, elts[0], nil
	}
	for _, e := range elts {
		if e.Field == opts.field {
			return index, e, nil
		}
	}
	return nil, catalog.KeyPatternElement{}, berr.WrapErrIndexNotFound("field %q is not in the key pattern", opts.field)
}

// assembleFull places the translated list into whole-index bounds, leaving
// every other field unconstrained, and aligns them to the scan direction.
func assembleFull(index *catalog.IndexEntry, field string, oil interval.OrderedIntervalList, direction int) *interval.IndexBounds {
	full := &interval.IndexBounds{}
	for _, e := range index.Elements() {
		if e.Field == field {
			full.Fields = append(full.Fields, oil)
			continue
		}
		full.Fields = append(full.Fields, bounds.AllValuesForField(e))
	}
	bounds.AlignBounds(full, index.KeyPattern, direction)
	return full
}

func bracket(inclusive bool, in, out string) string {
	if inclusive {
		return in
	}
	return out
}

func main() {
	if err := newExplainCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "bounds-explain: %v\n", err)
		os.Exit(1)
	}
}
