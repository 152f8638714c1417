package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/twpayne/go-geom"
)

func TestLoadPathsRejectsSRIDMismatch(t *testing.T) {
	_, err := LoadPaths(nil, nil, "whatever.geojson", Options{
		SRID:       4326,
		TargetSRID: 2154,
	}, nil)
	assert.ErrorIs(t, err, ErrSRIDMismatch)
}

func TestWithinExtent(t *testing.T) {
	extent := [4]float64{0, 0, 100, 100}
	inside := geom.NewLineStringFlat(geom.XY, []float64{10, 10, 20, 20})
	straddling := geom.NewLineStringFlat(geom.XY, []float64{90, 90, 110, 110})
	outside := geom.NewLineStringFlat(geom.XY, []float64{200, 200, 300, 300})

	assert.True(t, withinExtent(inside, extent, false))
	assert.False(t, withinExtent(straddling, extent, false))
	assert.False(t, withinExtent(outside, extent, false))

	// With intersect, touching the extent is enough.
	assert.True(t, withinExtent(inside, extent, true))
	assert.True(t, withinExtent(straddling, extent, true))
	assert.False(t, withinExtent(outside, extent, true))
}

func TestCollectComments(t *testing.T) {
	props := map[string]interface{}{
		"name":   "GR10",
		"remark": "steep",
		"note":   "washed out in 2024",
		"void":   "",
		"count":  3,
	}

	assert.Equal(t, "", collectComments(props, nil))
	assert.Equal(t, "steep", collectComments(props, []string{"remark"}))
	assert.Equal(t, "steep</br>washed out in 2024", collectComments(props, []string{"remark", "note"}))
	// Missing, empty and non-string properties contribute nothing.
	assert.Equal(t, "steep", collectComments(props, []string{"nope", "void", "count", "remark"}))
}

func TestPropString(t *testing.T) {
	props := map[string]interface{}{"name": "lulu", "n": 1}
	assert.Equal(t, "lulu", propString(props, "name"))
	assert.Equal(t, "", propString(props, "n"))
	assert.Equal(t, "", propString(props, "missing"))
}
