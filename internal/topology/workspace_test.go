package topology

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"

	"geotrail/internal/geometry"
	"geotrail/internal/models"
)

func encodeLine(t *testing.T, coords ...float64) []byte {
	t.Helper()
	b, err := geometry.EncodeWKB(geom.NewLineStringFlat(geom.XY, coords))
	require.NoError(t, err)
	return b
}

func dbPath(t *testing.T, id uint, name string, coords ...float64) *models.Path {
	t.Helper()
	p := &models.Path{Name: name, Visible: true, Geometry: encodeLine(t, coords...)}
	p.ID = id
	return p
}

func pathCoords(t *testing.T, w *Workspace, id uint) []float64 {
	t.Helper()
	ls, err := w.Line(id)
	require.NoError(t, err)
	return ls.FlatCoords()
}

func topoCoords(t *testing.T, w *Workspace, id uint) []float64 {
	t.Helper()
	g, err := w.TopologyGeometry(id)
	require.NoError(t, err)
	ls, ok := g.(*geom.LineString)
	require.True(t, ok, "expected a LineString, got %T", g)
	return ls.FlatCoords()
}

func aggOrders(w *Workspace, topoID uint) []int {
	var out []int
	for _, agg := range w.Aggregations(topoID) {
		out = append(out, agg.Order)
	}
	return out
}

func assertFlatAlmost(t *testing.T, want, got []float64) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-6)
	}
}

// crossedNetwork builds the canonical X fixture: two diagonal paths crossing
// in the middle, so that four half-paths remain.
//
//	path 1: (700000,6600000)-(700100,6600100), split into ids 1 and 3
//	path 2: (700000,6600100)-(700100,6600000), split into ids 2 and 4
func crossedNetwork(t *testing.T) *Workspace {
	t.Helper()
	w := NewWorkspace()
	w.LoadPath(dbPath(t, 1, "path 1", 700000, 6600000, 700100, 6600100))
	_, err := w.AddPath(&models.Path{
		Name:     "path 2",
		Visible:  true,
		Geometry: encodeLine(t, 700000, 6600100, 700100, 6600000),
	})
	require.NoError(t, err)
	return w
}

func TestAddPathSplitsBothPaths(t *testing.T) {
	w := crossedNetwork(t)

	require.Len(t, w.Paths(), 4)
	assertFlatAlmost(t, []float64{700000, 6600000, 700050, 6600050}, pathCoords(t, w, 1))
	assertFlatAlmost(t, []float64{700000, 6600100, 700050, 6600050}, pathCoords(t, w, 2))
	assertFlatAlmost(t, []float64{700050, 6600050, 700100, 6600100}, pathCoords(t, w, 3))
	assertFlatAlmost(t, []float64{700050, 6600050, 700100, 6600000}, pathCoords(t, w, 4))
}

func TestAddPathJournal(t *testing.T) {
	w := crossedNetwork(t)
	j := w.Journal()

	// The inserted path and both second halves are new rows; the pre-existing
	// path shrank in place.
	require.Len(t, j.NewPaths, 3)
	assert.True(t, j.UpdatedPaths[1])
	assert.Empty(t, j.DeletedPaths)
	assert.Empty(t, j.DeletedAggs)
}

func TestAddPathNoCrossing(t *testing.T) {
	w := NewWorkspace()
	w.LoadPath(dbPath(t, 1, "path 1", 0, 0, 10, 0))
	_, err := w.AddPath(&models.Path{
		Name:     "far away",
		Visible:  true,
		Geometry: encodeLine(t, 0, 50, 10, 50),
	})
	require.NoError(t, err)
	require.Len(t, w.Paths(), 2)
	assertFlatAlmost(t, []float64{0, 0, 10, 0}, pathCoords(t, w, 1))
}

func TestAddPathRejectsNonLine(t *testing.T) {
	w := NewWorkspace()
	pt, err := geometry.EncodeWKB(geom.NewPointFlat(geom.XY, []float64{0, 0}))
	require.NoError(t, err)
	_, err = w.AddPath(&models.Path{Name: "not a line", Geometry: pt})
	assert.ErrorIs(t, err, geometry.ErrNotALineString)
}

func TestAddTopologyValidation(t *testing.T) {
	w := crossedNetwork(t)

	_, err := w.AddTopology(models.KindTrek, 0, nil)
	assert.ErrorIs(t, err, ErrNoSegments)

	_, err = w.AddTopology(models.KindTrek, 0, []Segment{{PathID: 99, Start: 0, End: 1}})
	assert.ErrorIs(t, err, ErrPathNotFound)
}

func TestSimpleTopologyFollowsSplit(t *testing.T) {
	w := crossedNetwork(t)
	topo, err := w.AddTopology(models.KindTrek, 0, []Segment{
		{PathID: 1, Start: 0, End: 1},
		{PathID: 3, Start: 0, End: 1},
	})
	require.NoError(t, err)
	assertFlatAlmost(t, []float64{
		700000, 6600000, 700050, 6600050, 700100, 6600100,
	}, topoCoords(t, w, topo.ID))

	// A new path crossing the first half splits it; the topology keeps its
	// ground but one rank is now duplicated.
	_, err = w.AddPath(&models.Path{
		Name:     "path 3",
		Visible:  true,
		Geometry: encodeLine(t, 700000, 6600090, 700090, 6600000),
	})
	require.NoError(t, err)

	assertFlatAlmost(t, []float64{
		700000, 6600000, 700045, 6600045, 700050, 6600050, 700100, 6600100,
	}, topoCoords(t, w, topo.ID))
	assert.Equal(t, []int{0, 0, 1}, aggOrders(w, topo.ID))

	updated, errs := w.Reorder()
	assert.Equal(t, 1, updated)
	assert.Empty(t, errs)
	assert.Equal(t, []int{0, 1, 2}, aggOrders(w, topo.ID))

	geoms, err := w.AggregationGeometries(topo.ID)
	require.NoError(t, err)
	require.Len(t, geoms, 3)
	assertFlatAlmost(t, []float64{700000, 6600000, 700045, 6600045}, geoms[0].(*geom.LineString).FlatCoords())
	assertFlatAlmost(t, []float64{700045, 6600045, 700050, 6600050}, geoms[1].(*geom.LineString).FlatCoords())
	assertFlatAlmost(t, []float64{700050, 6600050, 700100, 6600100}, geoms[2].(*geom.LineString).FlatCoords())

	// The derived geometry is unchanged by renumbering.
	assertFlatAlmost(t, []float64{
		700000, 6600000, 700045, 6600045, 700050, 6600050, 700100, 6600100,
	}, topoCoords(t, w, topo.ID))
}

func TestComplexTopologyFollowsSplit(t *testing.T) {
	w := crossedNetwork(t)
	// An out-and-back with turnaround markers, all on the first half path.
	topo, err := w.AddTopology(models.KindTrek, 0, []Segment{
		{PathID: 1, Start: 0, End: 0.95},
		{PathID: 1, Start: 0.95, End: 0.95},
		{PathID: 1, Start: 0.95, End: 0.5},
		{PathID: 1, Start: 0.5, End: 0.5},
		{PathID: 1, Start: 0.5, End: 1},
		{PathID: 3, Start: 0, End: 1},
	})
	require.NoError(t, err)
	assertFlatAlmost(t, []float64{
		700000, 6600000, 700047.5, 6600047.5, 700025, 6600025,
		700050, 6600050, 700100, 6600100,
	}, topoCoords(t, w, topo.ID))

	_, err = w.AddPath(&models.Path{
		Name:     "path 3",
		Visible:  true,
		Geometry: encodeLine(t, 700000, 6600090, 700090, 6600000),
	})
	require.NoError(t, err)

	assert.Equal(t, []int{0, 0, 1, 2, 2, 3, 4, 4, 5}, aggOrders(w, topo.ID))
	assertFlatAlmost(t, []float64{
		700000, 6600000, 700045, 6600045, 700047.5, 6600047.5, 700045, 6600045,
		700025, 6600025, 700045, 6600045, 700050, 6600050, 700100, 6600100,
	}, topoCoords(t, w, topo.ID))

	updated, errs := w.Reorder()
	assert.Equal(t, 1, updated)
	assert.Empty(t, errs)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8}, aggOrders(w, topo.ID))

	geoms, err := w.AggregationGeometries(topo.ID)
	require.NoError(t, err)
	require.Len(t, geoms, 9)
	_, isPoint := geoms[2].(*geom.Point)
	assert.True(t, isPoint)
	_, isPoint = geoms[5].(*geom.Point)
	assert.True(t, isPoint)
}

func TestTopologyWithExcursionKeepsItsShape(t *testing.T) {
	w := crossedNetwork(t)
	// Main line with a side trip onto the other branch and back.
	topo, err := w.AddTopology(models.KindTrek, 0, []Segment{
		{PathID: 1, Start: 0, End: 1},
		{PathID: 2, Start: 1, End: 0.5},
		{PathID: 2, Start: 0.5, End: 0.5},
		{PathID: 2, Start: 0.5, End: 1},
		{PathID: 3, Start: 0, End: 1},
	})
	require.NoError(t, err)
	assertFlatAlmost(t, []float64{
		700000, 6600000, 700050, 6600050, 700025, 6600075,
		700050, 6600050, 700100, 6600100,
	}, topoCoords(t, w, topo.ID))

	// An S-shaped path cutting three of the four branches.
	_, err = w.AddPath(&models.Path{
		Name:    "path 3",
		Visible: true,
		Geometry: encodeLine(t,
			700070, 6600000, 700020, 6600050, 700060, 6600090, 700100, 6600050),
	})
	require.NoError(t, err)

	assert.Equal(t, []int{0, 0, 1, 1, 2, 3, 3, 4, 4}, aggOrders(w, topo.ID))
	assertFlatAlmost(t, []float64{
		700000, 6600000, 700035, 6600035, 700050, 6600050, 700035, 6600065,
		700025, 6600075, 700035, 6600065, 700050, 6600050, 700075, 6600075,
		700100, 6600100,
	}, topoCoords(t, w, topo.ID))

	updated, errs := w.Reorder()
	assert.Equal(t, 1, updated)
	assert.Empty(t, errs)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8}, aggOrders(w, topo.ID))
}

func TestMoveCrossingPathReroutesTopology(t *testing.T) {
	w := crossedNetwork(t)
	topo, err := w.AddTopology(models.KindTrek, 0, []Segment{
		{PathID: 1, Start: 0, End: 1},
		{PathID: 2, Start: 1, End: 0.5},
		{PathID: 2, Start: 0.5, End: 0.5},
		{PathID: 2, Start: 0.5, End: 1},
		{PathID: 3, Start: 0, End: 1},
	})
	require.NoError(t, err)

	// Stretch the closing half-path into a hook that crosses the branch the
	// side trip sits on.
	err = w.UpdatePathGeometry(3, geom.NewLineStringFlat(geom.XY, []float64{
		700050, 6600050, 700100, 6600100, 700050, 6600100, 700000, 6600050,
	}))
	require.NoError(t, err)

	assertFlatAlmost(t, []float64{
		700000, 6600000, 700050, 6600050, 700025, 6600075,
		700050, 6600050, 700100, 6600100, 700050, 6600100,
		700025, 6600075, 700000, 6600050,
	}, topoCoords(t, w, topo.ID))
	assert.Equal(t, []int{0, 1, 2, 3, 4, 4}, aggOrders(w, topo.ID))

	updated, errs := w.Reorder()
	assert.Equal(t, 1, updated)
	assert.Empty(t, errs)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, aggOrders(w, topo.ID))
}

func TestReorderFlagsBrokenTopology(t *testing.T) {
	w := crossedNetwork(t)
	// Side trip without the return leg: the segments cannot chain.
	topo, err := w.AddTopology(models.KindTrek, 0, []Segment{
		{PathID: 1, Start: 0, End: 1},
		{PathID: 2, Start: 1, End: 0.5},
		{PathID: 2, Start: 0.5, End: 0.5},
		{PathID: 3, Start: 0, End: 1},
	})
	require.NoError(t, err)

	g, err := w.TopologyGeometry(topo.ID)
	require.NoError(t, err)
	_, isMulti := g.(*geom.MultiLineString)
	assert.True(t, isMulti)

	_, err = w.AddPath(&models.Path{
		Name:     "path 3",
		Visible:  true,
		Geometry: encodeLine(t, 700000, 6600090, 700090, 6600000),
	})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 0, 1, 2, 3}, aggOrders(w, topo.ID))

	updated, errs := w.Reorder()
	assert.Equal(t, 0, updated)
	require.Len(t, errs, 1)
	assert.Equal(t, fmt.Sprintf("TREK id: %d", topo.ID), errs[0].String())
	// A degenerate topology is left untouched.
	assert.Equal(t, []int{0, 0, 1, 2, 3}, aggOrders(w, topo.ID))
}

func TestReorderLeavesWellOrderedAlone(t *testing.T) {
	w := crossedNetwork(t)
	_, err := w.AddTopology(models.KindTrek, 0, []Segment{
		{PathID: 1, Start: 0, End: 1},
		{PathID: 3, Start: 0, End: 1},
	})
	require.NoError(t, err)

	updated, errs := w.Reorder()
	assert.Equal(t, 0, updated)
	assert.Empty(t, errs)
}

// A renumbering reorder must journal the topology row together with its
// aggregation rows and refresh the stored geometry, so the persisted ranks
// and geometry never disagree.
func TestReorderJournalsTopologyWithAggregations(t *testing.T) {
	w := crossedNetwork(t)
	topo, err := w.AddTopology(models.KindTrek, 0, []Segment{
		{PathID: 1, Start: 0, End: 1},
		{PathID: 3, Start: 0, End: 1},
	})
	require.NoError(t, err)
	_, err = w.AddPath(&models.Path{
		Name:     "path 3",
		Visible:  true,
		Geometry: encodeLine(t, 700000, 6600090, 700090, 6600000),
	})
	require.NoError(t, err)
	w.ResetJournal()
	require.Equal(t, []int{0, 0, 1}, aggOrders(w, topo.ID))

	updated, errs := w.Reorder()
	assert.Equal(t, 1, updated)
	assert.Empty(t, errs)

	j := w.Journal()
	assert.True(t, j.UpdatedTopos[topo.ID])
	for _, agg := range w.Aggregations(topo.ID) {
		assert.True(t, j.UpdatedAggs[agg.ID], "aggregation %d not journaled", agg.ID)
	}

	stored, err := w.topos[topo.ID].Geom()
	require.NoError(t, err)
	assertFlatAlmost(t, []float64{
		700000, 6600000, 700045, 6600045, 700050, 6600050, 700100, 6600100,
	}, stored.(*geom.LineString).FlatCoords())
}

func TestRemovePathRefusedWhileReferenced(t *testing.T) {
	w := crossedNetwork(t)
	topo, err := w.AddTopology(models.KindTrek, 0, []Segment{
		{PathID: 1, Start: 0, End: 1},
	})
	require.NoError(t, err)

	// The anchored path stays, aggregation intact.
	assert.ErrorIs(t, w.RemovePath(1), ErrPathInUse)
	require.Len(t, w.Paths(), 4)
	assert.Len(t, w.Aggregations(topo.ID), 1)

	assert.ErrorIs(t, w.RemovePath(99), ErrPathNotFound)

	w.ResetJournal()
	require.NoError(t, w.RemovePath(4))
	assert.Equal(t, []uint{1, 2, 3}, pathIDs(w))
	assert.Equal(t, []uint{4}, w.Journal().DeletedPaths)
}

// duplicateNetwork mirrors a network cluttered with copied paths:
//
//	ids 1/2 share a geometry, 3/4 share one, 5 is 3 reversed,
//	6/7 and 8/9 are two more duplicated pairs.
//
// Point topologies sit on 1, 2 and 4.
func duplicateNetwork(t *testing.T) (*Workspace, []*models.Topology) {
	t.Helper()
	w := NewWorkspace()
	w.LoadPath(dbPath(t, 1, "First Path", 0, 0, 1, 0, 2, 0))
	w.LoadPath(dbPath(t, 2, "Second Path", 0, 0, 1, 0, 2, 0))
	w.LoadPath(dbPath(t, 3, "Third Path", 0, 2, 1, 2, 2, 2))
	w.LoadPath(dbPath(t, 4, "Fourth Path", 0, 2, 1, 2, 2, 2))
	w.LoadPath(dbPath(t, 5, "Fifth Path", 2, 2, 1, 2, 0, 2))
	w.LoadPath(dbPath(t, 6, "Sixth Path", 4, 0, 6, 0))
	w.LoadPath(dbPath(t, 7, "Seventh Path", 4, 0, 6, 0))
	w.LoadPath(dbPath(t, 8, "Eighth Path", 0, 6, 1, 6, 2, 6))
	w.LoadPath(dbPath(t, 9, "Nineth Path", 0, 6, 1, 6, 2, 6))

	var topos []*models.Topology
	for _, pathID := range []uint{1, 2, 4} {
		topo, err := w.AddTopology(models.KindPOI, 0, []Segment{
			{PathID: pathID, Start: 0.5, End: 0.5},
		})
		require.NoError(t, err)
		topos = append(topos, topo)
	}
	return w, topos
}

func pathIDs(w *Workspace) []uint {
	var out []uint
	for _, p := range w.Paths() {
		out = append(out, p.ID)
	}
	return out
}

func TestRemoveDuplicatePaths(t *testing.T) {
	w, topos := duplicateNetwork(t)

	var logs []string
	deleted := w.RemoveDuplicates(nil, func(format string, a ...any) {
		logs = append(logs, fmt.Sprintf(format, a...))
	})

	assert.Equal(t, 4, deleted)
	assert.Equal(t, []uint{1, 3, 5, 6, 8}, pathIDs(w))
	assert.Contains(t, logs, "Deleting path 2 (duplicate of 1)")

	// The point topologies moved onto the kept copies.
	assert.Equal(t, uint(1), w.Aggregations(topos[0].ID)[0].PathID)
	assert.Equal(t, uint(1), w.Aggregations(topos[1].ID)[0].PathID)
	assert.Equal(t, uint(3), w.Aggregations(topos[2].ID)[0].PathID)

	assert.ElementsMatch(t, []uint{2, 4, 7, 9}, w.Journal().DeletedPaths)
}

func TestRemoveDuplicatePathsPrefersVisible(t *testing.T) {
	w, topos := duplicateNetwork(t)
	p1, _ := w.Path(1)
	p1.Visible = false
	p3, _ := w.Path(3)
	p3.Visible = false
	p4, _ := w.Path(4)
	p4.Visible = false

	deleted := w.RemoveDuplicates(nil, nil)

	// 1/2: the visible copy survives. 3/4: neither is visible, the oldest
	// survives.
	assert.Equal(t, 4, deleted)
	assert.Equal(t, []uint{2, 3, 5, 6, 8}, pathIDs(w))
	assert.Equal(t, uint(2), w.Aggregations(topos[0].ID)[0].PathID)
}

func TestRemoveDuplicatePathsDeleteFailure(t *testing.T) {
	w, _ := duplicateNetwork(t)

	var logs []string
	deleted := w.RemoveDuplicates(
		func(dup, keeper *models.Path) error { return errors.New("An ERROR") },
		func(format string, a ...any) {
			logs = append(logs, fmt.Sprintf(format, a...))
		})

	assert.Equal(t, 0, deleted)
	require.Len(t, w.Paths(), 9)
	assert.True(t, strings.Contains(strings.Join(logs, "\n"), "An ERROR"))
}
