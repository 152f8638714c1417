package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
)

func square(x0, y0, x1, y1 float64) *geom.Polygon {
	return geom.NewPolygonFlat(geom.XY, []float64{
		x0, y0, x1, y0, x1, y1, x0, y1, x0, y0,
	}, []int{10})
}

func TestLineCrossingsSingle(t *testing.T) {
	a := line(0, 0, 10, 0)
	b := line(5, -5, 5, 5)
	alongA, alongB := LineCrossings(a, b)
	require.Len(t, alongA, 1)
	require.Len(t, alongB, 1)
	assert.InDelta(t, 0.5, alongA[0], 1e-9)
	assert.InDelta(t, 0.5, alongB[0], 1e-9)
}

func TestLineCrossingsMultiple(t *testing.T) {
	a := line(0, 0, 30, 0)
	b := line(5, -5, 5, 5, 25, 5, 25, -5)
	alongA, alongB := LineCrossings(a, b)
	require.Len(t, alongA, 2)
	assert.InDelta(t, 5.0/30, alongA[0], 1e-9)
	assert.InDelta(t, 25.0/30, alongA[1], 1e-9)
	require.Len(t, alongB, 2)
	assert.True(t, alongB[0] < alongB[1])
}

func TestLineCrossingsDisjoint(t *testing.T) {
	alongA, alongB := LineCrossings(line(0, 0, 10, 0), line(0, 5, 10, 5))
	assert.Empty(t, alongA)
	assert.Empty(t, alongB)
}

func TestLineCrossingsParallelOverlap(t *testing.T) {
	// Collinear overlap is not a crossing; the lines cannot split each other
	// at a single point.
	alongA, _ := LineCrossings(line(0, 0, 10, 0), line(5, 0, 15, 0))
	assert.Empty(t, alongA)
}

func TestPointInPolygon(t *testing.T) {
	poly := square(0, 0, 10, 10)
	assert.True(t, PointInPolygon(poly, geom.Coord{5, 5}))
	assert.False(t, PointInPolygon(poly, geom.Coord{15, 5}))
	assert.False(t, PointInPolygon(poly, geom.Coord{-1, -1}))
}

func TestPointInPolygonHole(t *testing.T) {
	poly := geom.NewPolygonFlat(geom.XY, []float64{
		0, 0, 10, 0, 10, 10, 0, 10, 0, 0,
		4, 4, 6, 4, 6, 6, 4, 6, 4, 4,
	}, []int{10, 20})
	assert.True(t, PointInPolygon(poly, geom.Coord{2, 2}))
	assert.False(t, PointInPolygon(poly, geom.Coord{5, 5}))
}

func TestIntersects(t *testing.T) {
	poly := square(0, 0, 10, 10)

	assert.True(t, Intersects(geom.NewPointFlat(geom.XY, []float64{5, 5}), poly))
	assert.False(t, Intersects(geom.NewPointFlat(geom.XY, []float64{50, 50}), poly))

	assert.True(t, Intersects(line(-5, 5, 15, 5), poly))
	assert.False(t, Intersects(line(20, 20, 30, 20), poly))

	assert.True(t, Intersects(line(0, 0, 10, 0), line(5, -5, 5, 5)))
	assert.False(t, Intersects(line(0, 0, 10, 0), line(0, 5, 10, 5)))

	assert.True(t, Intersects(square(5, 5, 15, 15), poly))
	assert.False(t, Intersects(square(20, 20, 30, 30), poly))
}

func TestIntersectsMulti(t *testing.T) {
	ml := geom.NewMultiLineString(geom.XY)
	require.NoError(t, ml.Push(line(20, 20, 30, 20)))
	require.NoError(t, ml.Push(line(-5, 5, 15, 5)))
	assert.True(t, Intersects(ml, square(0, 0, 10, 10)))
}

func TestIntersectsMultiPoint(t *testing.T) {
	poly := square(0, 0, 10, 10)

	// One point inside, one outside: a hit. Bounding-box overlap alone
	// (both points outside, box straddling the square) must not count.
	assert.True(t, Intersects(geom.NewMultiPointFlat(geom.XY, []float64{50, 50, 5, 5}), poly))
	assert.False(t, Intersects(geom.NewMultiPointFlat(geom.XY, []float64{-5, 5, 15, 5}), poly))
	assert.True(t, Intersects(poly, geom.NewMultiPointFlat(geom.XY, []float64{5, 5})))
}

func TestIntersectsUnsupportedTypeIsDisjoint(t *testing.T) {
	// A geometry kind outside the supported set never intersects anything,
	// even with overlapping bounds.
	gc := geom.NewGeometryCollection()
	require.NoError(t, gc.Push(geom.NewPointFlat(geom.XY, []float64{5, 5})))
	assert.False(t, Intersects(gc, square(0, 0, 10, 10)))
	assert.False(t, Intersects(square(0, 0, 10, 10), gc))
}
