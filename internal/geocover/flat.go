package geocover

import (
	"github.com/birchdb/birch/pkg/util/berr"
)

// NewFlatCoverer returns the planar coverer used for legacy 2d indexes.
// Cells are quadtree prefixes over the [-180,180]^2 plane; a cell's token
// is its quadrant digit string, and its descendants occupy the token-prefix
// range [token, token+"4") exposed here as an inclusive end one digit wide.
func NewFlatCoverer(params CoveringParams) Coverer {
	return &flatCoverer{params: params}
}

type flatCoverer struct {
	params CoveringParams
}

type flatRect struct {
	minX, minY, maxX, maxY float64
}

func (c *flatCoverer) Cover(region Region) ([]CellRange, error) {
	var contains func(flatRect) bool
	var intersects func(flatRect) bool

	switch r := region.(type) {
	case FlatBox:
		box := flatRect{r.MinX, r.MinY, r.MaxX, r.MaxY}
		contains = func(cell flatRect) bool {
			return cell.minX >= box.minX && cell.maxX <= box.maxX &&
				cell.minY >= box.minY && cell.maxY <= box.maxY
		}
		intersects = func(cell flatRect) bool {
			return cell.minX <= box.maxX && cell.maxX >= box.minX &&
				cell.minY <= box.maxY && cell.maxY >= box.minY
		}
	case FlatCircle:
		contains = func(cell flatRect) bool {
			for _, x := range []float64{cell.minX, cell.maxX} {
				for _, y := range []float64{cell.minY, cell.maxY} {
					dx, dy := x-r.X, y-r.Y
					if dx*dx+dy*dy > r.Radius*r.Radius {
						return false
					}
				}
			}
			return true
		}
		intersects = func(cell flatRect) bool {
			dx := clamp(r.X, cell.minX, cell.maxX) - r.X
			dy := clamp(r.Y, cell.minY, cell.maxY) - r.Y
			return dx*dx+dy*dy <= r.Radius*r.Radius
		}
	default:
		return nil, berr.WrapErrParameterInvalidMsg("region %T is not planar", region)
	}

	root := flatRect{-180, -180, 180, 180}
	var out []CellRange
	var walk func(cell flatRect, token string, level int)
	walk = func(cell flatRect, token string, level int) {
		if !intersects(cell) {
			return
		}
		if contains(cell) || level >= c.params.MaxLevel || len(out) >= c.params.MaxCells {
			out = append(out, tokenRange(token))
			return
		}
		midX := (cell.minX + cell.maxX) / 2
		midY := (cell.minY + cell.maxY) / 2
		walk(flatRect{cell.minX, cell.minY, midX, midY}, token+"0", level+1)
		walk(flatRect{midX, cell.minY, cell.maxX, midY}, token+"1", level+1)
		walk(flatRect{cell.minX, midY, midX, cell.maxY}, token+"2", level+1)
		walk(flatRect{midX, midY, cell.maxX, cell.maxY}, token+"3", level+1)
	}
	walk(root, "", 0)
	return out, nil
}

// tokenRange spans a cell token and all of its descendants. "3" is the
// largest quadrant digit, so padding with it bounds every longer token
// sharing the prefix.
func tokenRange(token string) CellRange {
	const deepest = 32
	end := token
	for len(end) < deepest {
		end += "3"
	}
	return CellRange{Start: token, End: end}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
