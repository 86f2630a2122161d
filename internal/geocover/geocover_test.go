package geocover

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
)

func sphereParams() CoveringParams {
	return CoveringParams{MaxCells: 20, MinLevel: 4, MaxLevel: 23}
}

func TestS2CovererCap(t *testing.T) {
	c := NewS2Coverer(sphereParams())
	ranges, err := c.Cover(SphereCap{CenterLng: 2.35, CenterLat: 48.86, RadiusRad: 0.001})
	require.NoError(t, err)
	require.NotEmpty(t, ranges)
	assert.LessOrEqual(t, len(ranges), 20)
	for _, r := range ranges {
		assert.NotEmpty(t, r.Start)
		assert.LessOrEqual(t, r.Start, r.End)
	}
}

func TestS2CovererIsDeterministic(t *testing.T) {
	c := NewS2Coverer(sphereParams())
	region := SphereCap{CenterLng: 0, CenterLat: 0, RadiusRad: 0.01}
	first, err := c.Cover(region)
	require.NoError(t, err)
	second, err := c.Cover(region)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestS2CovererPolygon(t *testing.T) {
	poly := geom.NewPolygon(geom.XY).MustSetCoords([][]geom.Coord{{
		{0, 0}, {1, 0}, {1, 1}, {0, 1}, {0, 0},
	}})
	c := NewS2Coverer(sphereParams())
	ranges, err := c.Cover(SphereGeometry{G: poly})
	require.NoError(t, err)
	assert.NotEmpty(t, ranges)
}

func TestS2CovererPoint(t *testing.T) {
	pt := geom.NewPoint(geom.XY).MustSetCoords(geom.Coord{2.35, 48.86})
	c := NewS2Coverer(sphereParams())
	ranges, err := c.Cover(SphereGeometry{G: pt})
	require.NoError(t, err)
	assert.NotEmpty(t, ranges)
}

func TestS2CovererRejectsPlanarRegion(t *testing.T) {
	c := NewS2Coverer(sphereParams())
	_, err := c.Cover(FlatBox{MinX: 0, MinY: 0, MaxX: 1, MaxY: 1})
	assert.Error(t, err)
}
