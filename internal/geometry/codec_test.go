package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
)

func TestWKBRoundTrip(t *testing.T) {
	src := line(700000, 6600000, 700100, 6600100)
	b, err := EncodeWKB(src)
	require.NoError(t, err)

	got, err := DecodeLine(b)
	require.NoError(t, err)
	assertCoordsAlmost(t, src.FlatCoords(), got.FlatCoords())
}

func TestDecodeLineRejectsPoints(t *testing.T) {
	b, err := EncodeWKB(geom.NewPointFlat(geom.XY, []float64{1, 2}))
	require.NoError(t, err)

	_, err = DecodeLine(b)
	assert.ErrorIs(t, err, ErrNotALineString)
}

func TestGeoJSONToWKB(t *testing.T) {
	b, err := GeoJSONToWKB(`{"type":"LineString","coordinates":[[0,0],[10,0]]}`)
	require.NoError(t, err)

	ls, err := DecodeLine(b)
	require.NoError(t, err)
	assertCoordsAlmost(t, []float64{0, 0, 10, 0}, ls.FlatCoords())

	out, err := WKBToGeoJSON(b)
	require.NoError(t, err)
	assert.Contains(t, out, `"LineString"`)
}

func TestGeoJSONToWKBEmpty(t *testing.T) {
	b, err := GeoJSONToWKB("")
	require.NoError(t, err)
	assert.Nil(t, b)
}
