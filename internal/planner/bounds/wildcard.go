package bounds

import (
	"github.com/birchdb/birch/internal/catalog"
	"github.com/birchdb/birch/internal/planner/interval"
)

// WildcardTightnessAdjuster is the hook wildcard planning uses to tune the
// tightness of bounds built against a $** index. The key of a wildcard index
// encodes the field path alongside the value, so some predicates that are
// exact on a btree need rechecking here.
type WildcardTightnessAdjuster interface {
	AdjustWildcardTightness(index *catalog.IndexEntry, oil *interval.OrderedIntervalList, tightness Tightness) Tightness
}

// FetchOnNullAdjuster widens to INEXACT_FETCH any wildcard bounds that would
// need to match missing values: a wildcard index has no entry at all for a
// document lacking the path, so null-equality bounds cannot be trusted.
type FetchOnNullAdjuster struct{}

func (FetchOnNullAdjuster) AdjustWildcardTightness(_ *catalog.IndexEntry, oil *interval.OrderedIntervalList, tightness Tightness) Tightness {
	if IsNullInterval(*oil) || IsNullAndEmptyArrayInterval(*oil) {
		return TightnessInexactFetch
	}
	return tightness
}
