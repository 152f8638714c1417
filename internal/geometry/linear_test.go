package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
)

func line(coords ...float64) *geom.LineString {
	return geom.NewLineStringFlat(geom.XY, coords)
}

func assertCoordsAlmost(t *testing.T, want, got []float64) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-6)
	}
}

func TestLength(t *testing.T) {
	assert.InDelta(t, 10, Length(line(0, 0, 10, 0)), 1e-9)
	assert.InDelta(t, 20, Length(line(0, 0, 10, 0, 10, 10)), 1e-9)
	assert.InDelta(t, 0, Length(line(5, 5, 5, 5)), 1e-9)
}

func TestInterpolate(t *testing.T) {
	ls := line(0, 0, 10, 0, 10, 10)

	assertCoordsAlmost(t, []float64{0, 0}, Interpolate(ls, 0))
	assertCoordsAlmost(t, []float64{10, 0}, Interpolate(ls, 0.5))
	assertCoordsAlmost(t, []float64{10, 5}, Interpolate(ls, 0.75))
	assertCoordsAlmost(t, []float64{10, 10}, Interpolate(ls, 1))
	// Out-of-range fractions clamp to the endpoints.
	assertCoordsAlmost(t, []float64{0, 0}, Interpolate(ls, -0.5))
	assertCoordsAlmost(t, []float64{10, 10}, Interpolate(ls, 2))
}

func TestLocatePoint(t *testing.T) {
	ls := line(0, 0, 10, 0)

	assert.InDelta(t, 0, LocatePoint(ls, geom.Coord{0, 0}), 1e-9)
	assert.InDelta(t, 0.5, LocatePoint(ls, geom.Coord{5, 0}), 1e-9)
	assert.InDelta(t, 1, LocatePoint(ls, geom.Coord{10, 0}), 1e-9)
	// Off-line points project onto the closest position.
	assert.InDelta(t, 0.3, LocatePoint(ls, geom.Coord{3, 4}), 1e-9)
	assert.InDelta(t, 1, LocatePoint(ls, geom.Coord{15, 2}), 1e-9)
}

func TestLineSubstringWhole(t *testing.T) {
	ls := line(0, 0, 10, 0, 10, 10)
	got, ok := LineSubstring(ls, 0, 1).(*geom.LineString)
	require.True(t, ok)
	assertCoordsAlmost(t, ls.FlatCoords(), got.FlatCoords())
}

func TestLineSubstringPartial(t *testing.T) {
	ls := line(0, 0, 10, 0, 10, 10)

	got, ok := LineSubstring(ls, 0, 0.5).(*geom.LineString)
	require.True(t, ok)
	assertCoordsAlmost(t, []float64{0, 0, 10, 0}, got.FlatCoords())

	got, ok = LineSubstring(ls, 0.25, 0.75).(*geom.LineString)
	require.True(t, ok)
	assertCoordsAlmost(t, []float64{5, 0, 10, 0, 10, 5}, got.FlatCoords())
}

func TestLineSubstringPoint(t *testing.T) {
	ls := line(0, 0, 10, 0)
	got, ok := LineSubstring(ls, 0.5, 0.5).(*geom.Point)
	require.True(t, ok)
	assertCoordsAlmost(t, []float64{5, 0}, got.FlatCoords())
}

func TestLineSubstringReversed(t *testing.T) {
	ls := line(0, 0, 10, 0)
	got, ok := LineSubstring(ls, 0.8, 0.2).(*geom.LineString)
	require.True(t, ok)
	assertCoordsAlmost(t, []float64{8, 0, 2, 0}, got.FlatCoords())
}

func TestReverse(t *testing.T) {
	got := Reverse(line(0, 0, 10, 0, 10, 10))
	assertCoordsAlmost(t, []float64{10, 10, 10, 0, 0, 0}, got.FlatCoords())
}
