// Package geocover turns geometry regions into conservative coverings of
// index cells. The covering is a black box to the bounds builder: it only
// sees cell-token ranges, never geometry. Coverings are always supersets of
// the region, so geo bounds require a document fetch to confirm matches.
package geocover

import (
	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
	geom "github.com/twpayne/go-geom"

	"github.com/birchdb/birch/pkg/util/berr"
)

// Region is a geometry operand of a geo predicate.
type Region interface {
	isRegion()
}

// SphereGeometry is a point or polygon on the sphere, in lon/lat degrees.
type SphereGeometry struct {
	G geom.T
}

// SphereCap is a spherical cap ($centerSphere), radius in radians.
type SphereCap struct {
	CenterLng float64
	CenterLat float64
	RadiusRad float64
}

// FlatBox is a legacy planar $box region.
type FlatBox struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// FlatCircle is a legacy planar $center region.
type FlatCircle struct {
	X, Y   float64
	Radius float64
}

func (SphereGeometry) isRegion() {}
func (SphereCap) isRegion()      {}
func (FlatBox) isRegion()        {}
func (FlatCircle) isRegion()     {}

// CellRange is one contiguous run of cell tokens covering part of a region.
// Start and End are both inclusive.
type CellRange struct {
	Start string
	End   string
}

// CoveringParams bounds the work the coverer may do. Values come from the
// planner knobs in paramtable and are passed in explicitly.
type CoveringParams struct {
	MaxCells int
	MinLevel int
	MaxLevel int
}

// Coverer produces a conservative cell covering for a region.
type Coverer interface {
	Cover(region Region) ([]CellRange, error)
}

// NewS2Coverer returns the spherical coverer used for 2dsphere and bucketed
// geo indexes. Cell tokens are S2 cell-id tokens, whose lexicographic order
// matches cell-id order.
func NewS2Coverer(params CoveringParams) Coverer {
	return &s2Coverer{params: params}
}

type s2Coverer struct {
	params CoveringParams
}

func (c *s2Coverer) Cover(region Region) ([]CellRange, error) {
	sr, err := toS2Region(region)
	if err != nil {
		return nil, err
	}
	rc := &s2.RegionCoverer{
		MinLevel: c.params.MinLevel,
		MaxLevel: c.params.MaxLevel,
		MaxCells: c.params.MaxCells,
	}
	covering := rc.Covering(sr)
	ranges := make([]CellRange, 0, len(covering))
	for _, cid := range covering {
		ranges = append(ranges, CellRange{
			Start: cid.RangeMin().ToToken(),
			End:   cid.RangeMax().ToToken(),
		})
	}
	return ranges, nil
}

func toS2Region(region Region) (s2.Region, error) {
	switch r := region.(type) {
	case SphereCap:
		center := s2.PointFromLatLng(s2.LatLngFromDegrees(r.CenterLat, r.CenterLng))
		return s2.CapFromCenterAngle(center, s1.Angle(r.RadiusRad)), nil
	case SphereGeometry:
		return geomToS2(r.G)
	}
	return nil, berr.WrapErrParameterInvalidMsg("region %T is not spherical", region)
}

func geomToS2(g geom.T) (s2.Region, error) {
	switch gg := g.(type) {
	case *geom.Point:
		c := gg.Coords()
		p := s2.PointFromLatLng(s2.LatLngFromDegrees(c.Y(), c.X()))
		// A point has no area; cover a vanishingly small cap around it.
		return s2.CapFromCenterAngle(p, s1.Angle(1e-12)), nil
	case *geom.Polygon:
		loops := make([]*s2.Loop, 0, gg.NumLinearRings())
		for i := 0; i < gg.NumLinearRings(); i++ {
			ring := gg.LinearRing(i)
			coords := ring.Coords()
			// Drop the duplicated closing vertex.
			if len(coords) > 1 && coords[0].Equal(ring.Layout(), coords[len(coords)-1]) {
				coords = coords[:len(coords)-1]
			}
			pts := make([]s2.Point, 0, len(coords))
			for _, c := range coords {
				pts = append(pts, s2.PointFromLatLng(s2.LatLngFromDegrees(c.Y(), c.X())))
			}
			loop := s2.LoopFromPoints(pts)
			loop.Normalize()
			loops = append(loops, loop)
		}
		if len(loops) == 0 {
			return nil, berr.WrapErrParameterInvalidMsg("polygon region has no rings")
		}
		return s2.PolygonFromLoops(loops), nil
	}
	return nil, berr.WrapErrParameterInvalidMsg("unsupported geometry %T", g)
}
