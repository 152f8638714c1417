package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
)

func TestAssembleChains(t *testing.T) {
	got, ok := Assemble([]geom.T{
		line(0, 0, 10, 0),
		line(10, 0, 10, 10),
		line(10, 10, 20, 10),
	}).(*geom.LineString)
	require.True(t, ok)
	assertCoordsAlmost(t, []float64{0, 0, 10, 0, 10, 10, 20, 10}, got.FlatCoords())
}

func TestAssembleSingleSegment(t *testing.T) {
	got, ok := Assemble([]geom.T{line(0, 0, 5, 5)}).(*geom.LineString)
	require.True(t, ok)
	assertCoordsAlmost(t, []float64{0, 0, 5, 5}, got.FlatCoords())
}

func TestAssemblePointsAreTransparent(t *testing.T) {
	// Zero-length segments mark covered positions and never break the chain.
	got, ok := Assemble([]geom.T{
		line(0, 0, 10, 0),
		geom.NewPointFlat(geom.XY, []float64{10, 0}),
		line(10, 0, 10, 10),
	}).(*geom.LineString)
	require.True(t, ok)
	assertCoordsAlmost(t, []float64{0, 0, 10, 0, 10, 10}, got.FlatCoords())
}

func TestAssemblePointOnly(t *testing.T) {
	got, ok := Assemble([]geom.T{
		geom.NewPointFlat(geom.XY, []float64{3, 4}),
	}).(*geom.Point)
	require.True(t, ok)
	assertCoordsAlmost(t, []float64{3, 4}, got.FlatCoords())
}

func TestAssembleBrokenChain(t *testing.T) {
	got, ok := Assemble([]geom.T{
		line(0, 0, 10, 0),
		line(50, 50, 60, 50),
	}).(*geom.MultiLineString)
	require.True(t, ok)
	assert.Equal(t, 2, got.NumLineStrings())
}

func TestAssembleEmpty(t *testing.T) {
	assert.Nil(t, Assemble(nil))
}
