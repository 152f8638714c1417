package topology

import (
	"errors"
	"fmt"
	"sort"

	"github.com/twpayne/go-geom"

	"geotrail/internal/geometry"
	"geotrail/internal/models"
)

var (
	ErrPathNotFound     = errors.New("path not found")
	ErrPathInUse        = errors.New("path is referenced by topologies")
	ErrTopologyNotFound = errors.New("topology not found")
	ErrNoSegments       = errors.New("topology needs at least one segment")
)

// Segment describes one step of a topology: a path and the fractional range
// traversed on it.
type Segment struct {
	PathID uint
	Start  float64
	End    float64
}

// TopologyError identifies a degenerate topology found by the reorder pass.
type TopologyError struct {
	Kind string
	ID   uint
}

func (e TopologyError) String() string {
	return fmt.Sprintf("%s id: %d", e.Kind, e.ID)
}

// Journal records every row mutation a workspace operation produced, so the
// persistence layer can replay it inside a transaction. Rows created in the
// workspace carry provisional ids; the persistence layer remaps them on
// insert.
type Journal struct {
	NewPaths []*models.Path
	NewTopos []*models.Topology
	NewAggs  []*models.PathAggregation

	UpdatedPaths map[uint]bool
	UpdatedTopos map[uint]bool
	UpdatedAggs  map[uint]bool

	DeletedPaths []uint
	DeletedAggs  []uint
}

// Workspace is the full path network and its topologies loaded in memory.
// Edits (path insertion with splitting, geometry updates, reorder and
// duplicate-removal passes) are applied here; the resulting Journal is
// persisted separately.
type Workspace struct {
	paths map[uint]*models.Path
	topos map[uint]*models.Topology
	aggs  map[uint]*models.PathAggregation

	lines map[uint]*geom.LineString

	nextPathID uint
	nextTopoID uint
	nextAggID  uint

	provisionalPaths map[uint]bool
	provisionalTopos map[uint]bool
	provisionalAggs  map[uint]bool

	journal Journal
}

func NewWorkspace() *Workspace {
	w := &Workspace{
		paths:            make(map[uint]*models.Path),
		topos:            make(map[uint]*models.Topology),
		aggs:             make(map[uint]*models.PathAggregation),
		lines:            make(map[uint]*geom.LineString),
		nextPathID:       1,
		nextTopoID:       1,
		nextAggID:        1,
		provisionalPaths: make(map[uint]bool),
		provisionalTopos: make(map[uint]bool),
		provisionalAggs:  make(map[uint]bool),
	}
	w.journal = newJournal()
	return w
}

func newJournal() Journal {
	return Journal{
		UpdatedPaths: make(map[uint]bool),
		UpdatedTopos: make(map[uint]bool),
		UpdatedAggs:  make(map[uint]bool),
	}
}

// Journal returns the mutations recorded since the last ResetJournal.
func (w *Workspace) Journal() *Journal { return &w.journal }

// ResetJournal clears the recorded mutations, typically after persisting.
func (w *Workspace) ResetJournal() {
	w.journal = newJournal()
	w.provisionalPaths = make(map[uint]bool)
	w.provisionalTopos = make(map[uint]bool)
	w.provisionalAggs = make(map[uint]bool)
}

// LoadPath registers an existing database row.
func (w *Workspace) LoadPath(p *models.Path) {
	w.paths[p.ID] = p
	if p.ID >= w.nextPathID {
		w.nextPathID = p.ID + 1
	}
}

// LoadTopology registers an existing database row together with its
// aggregations.
func (w *Workspace) LoadTopology(t *models.Topology) {
	w.topos[t.ID] = t
	if t.ID >= w.nextTopoID {
		w.nextTopoID = t.ID + 1
	}
	for i := range t.Aggregations {
		agg := &t.Aggregations[i]
		w.aggs[agg.ID] = agg
		if agg.ID >= w.nextAggID {
			w.nextAggID = agg.ID + 1
		}
	}
}

// Path returns a registered path.
func (w *Workspace) Path(id uint) (*models.Path, bool) {
	p, ok := w.paths[id]
	return p, ok
}

// Paths returns every registered path, sorted by id.
func (w *Workspace) Paths() []*models.Path {
	out := make([]*models.Path, 0, len(w.paths))
	for _, p := range w.paths {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Topology returns a registered topology.
func (w *Workspace) Topology(id uint) (*models.Topology, bool) {
	t, ok := w.topos[id]
	return t, ok
}

// Aggregations returns a topology's aggregations in traversal order.
func (w *Workspace) Aggregations(topoID uint) []*models.PathAggregation {
	var out []*models.PathAggregation
	for _, agg := range w.aggs {
		if agg.TopologyID == topoID {
			out = append(out, agg)
		}
	}
	SortAggregations(out)
	return out
}

// Line returns a path's decoded geometry, cached.
func (w *Workspace) Line(pathID uint) (*geom.LineString, error) {
	if ls, ok := w.lines[pathID]; ok {
		return ls, nil
	}
	p, ok := w.paths[pathID]
	if !ok {
		return nil, ErrPathNotFound
	}
	ls, err := p.Line()
	if err != nil {
		return nil, err
	}
	w.lines[pathID] = ls
	return ls, nil
}

// AddPath inserts a path into the network. Wherever the new line crosses an
// existing path, both are split at the crossing point and every aggregation
// referencing a split path is re-expressed over its pieces, preserving the
// topology geometries exactly. Returns the inserted path (its geometry may
// have shrunk to the first piece).
func (w *Workspace) AddPath(p *models.Path) (*models.Path, error) {
	newLine, err := geometry.DecodeLine(p.Geometry)
	if err != nil {
		return nil, err
	}

	w.registerNewPath(p)
	w.lines[p.ID] = newLine

	affected := make(map[uint]bool)
	var cutsOnNew []float64
	for _, other := range w.Paths() {
		if other.ID == p.ID {
			continue
		}
		otherLine, err := w.Line(other.ID)
		if err != nil {
			return nil, err
		}
		alongNew, alongOther := geometry.LineCrossings(newLine, otherLine)
		if cuts := NormalizeCuts(alongOther); len(cuts) > 0 {
			if err := w.splitPath(other, cuts, affected); err != nil {
				return nil, err
			}
		}
		cutsOnNew = append(cutsOnNew, alongNew...)
	}
	if cuts := NormalizeCuts(cutsOnNew); len(cuts) > 0 {
		if err := w.splitPath(p, cuts, affected); err != nil {
			return nil, err
		}
	}

	return p, w.rebuildTopologies(affected)
}

// UpdatePathGeometry replaces a path's line. Aggregation fractions are
// re-interpreted over the new geometry, and new crossings split paths
// exactly like an insertion does.
func (w *Workspace) UpdatePathGeometry(pathID uint, line *geom.LineString) error {
	p, ok := w.paths[pathID]
	if !ok {
		return ErrPathNotFound
	}
	if err := p.SetLine(line); err != nil {
		return err
	}
	w.lines[pathID] = line
	w.markPathUpdated(pathID)

	affected := make(map[uint]bool)
	for _, agg := range w.aggs {
		if agg.PathID == pathID {
			affected[agg.TopologyID] = true
		}
	}

	var cutsOnSelf []float64
	for _, other := range w.Paths() {
		if other.ID == pathID {
			continue
		}
		otherLine, err := w.Line(other.ID)
		if err != nil {
			return err
		}
		alongSelf, alongOther := geometry.LineCrossings(line, otherLine)
		if cuts := NormalizeCuts(alongOther); len(cuts) > 0 {
			if err := w.splitPath(other, cuts, affected); err != nil {
				return err
			}
		}
		cutsOnSelf = append(cutsOnSelf, alongSelf...)
	}
	if cuts := NormalizeCuts(cutsOnSelf); len(cuts) > 0 {
		if err := w.splitPath(p, cuts, affected); err != nil {
			return err
		}
	}

	return w.rebuildTopologies(affected)
}

// AddTopology creates a topology over the given segments, ranking them in
// the given sequence and deriving the geometry.
func (w *Workspace) AddTopology(kind string, offset float64, segs []Segment) (*models.Topology, error) {
	if len(segs) == 0 {
		return nil, ErrNoSegments
	}
	t := &models.Topology{Kind: kind, Offset: offset}
	t.ID = w.nextTopoID
	w.nextTopoID++
	w.topos[t.ID] = t
	w.provisionalTopos[t.ID] = true
	w.journal.NewTopos = append(w.journal.NewTopos, t)

	for i, seg := range segs {
		if _, ok := w.paths[seg.PathID]; !ok {
			return nil, ErrPathNotFound
		}
		agg := &models.PathAggregation{
			TopologyID:    t.ID,
			PathID:        seg.PathID,
			StartPosition: seg.Start,
			EndPosition:   seg.End,
			Order:         i,
		}
		w.registerNewAggregation(agg)
	}
	return t, w.rebuildTopology(t.ID)
}

// TopologyGeometry decodes the derived geometry of a topology.
func (w *Workspace) TopologyGeometry(topoID uint) (geom.T, error) {
	t, ok := w.topos[topoID]
	if !ok {
		return nil, ErrTopologyNotFound
	}
	return t.Geom()
}

// AggregationGeometries returns each aggregation's substring, in traversal
// order.
func (w *Workspace) AggregationGeometries(topoID uint) ([]geom.T, error) {
	var out []geom.T
	for _, agg := range w.Aggregations(topoID) {
		line, err := w.Line(agg.PathID)
		if err != nil {
			return nil, err
		}
		out = append(out, agg.Substring(line))
	}
	return out, nil
}

// Reorder repairs aggregation order on every topology: ranks become a strict
// 0..n-1 sequence following the traversal. Topologies whose geometry does
// not chain into a single part are reported as errors and left untouched.
// Returns the number of topologies whose ranks actually changed.
func (w *Workspace) Reorder() (int, []TopologyError) {
	updated := 0
	var errs []TopologyError

	ids := make([]uint, 0, len(w.topos))
	for id := range w.topos {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		t := w.topos[id]
		aggs := w.Aggregations(id)
		if len(aggs) == 0 {
			continue
		}
		g, err := BuildGeometry(w.Line, aggs)
		if err != nil {
			errs = append(errs, TopologyError{Kind: t.Kind, ID: id})
			continue
		}
		if _, multi := g.(*geom.MultiLineString); multi {
			errs = append(errs, TopologyError{Kind: t.Kind, ID: id})
			continue
		}
		if Renumber(aggs) {
			if err := t.SetGeom(g); err != nil {
				errs = append(errs, TopologyError{Kind: t.Kind, ID: id})
				continue
			}
			for _, agg := range aggs {
				w.markAggUpdated(agg.ID)
			}
			w.markTopoUpdated(id)
			updated++
		}
	}
	return updated, errs
}

// RemoveDuplicates deletes redundant copies of paths sharing the exact same
// geometry, migrating their aggregations onto the surviving path. deleteFn
// performs the actual deletion and may fail per path (the path is then kept
// and skipped); pass nil to always succeed. Returns the number of deleted
// paths.
func (w *Workspace) RemoveDuplicates(deleteFn func(dup, keeper *models.Path) error, logf func(string, ...any)) int {
	if logf == nil {
		logf = func(string, ...any) {}
	}
	deleted := 0
	for _, group := range DuplicateGroups(w.Paths()) {
		keeper := group[0]
		for _, dup := range group[1:] {
			logf("Deleting path %d (duplicate of %d)", dup.ID, keeper.ID)
			if deleteFn != nil {
				if err := deleteFn(dup, keeper); err != nil {
					logf("Could not delete path %d: %v", dup.ID, err)
					continue
				}
			}
			for _, agg := range w.aggs {
				if agg.PathID == dup.ID {
					agg.PathID = keeper.ID
					w.markAggUpdated(agg.ID)
				}
			}
			w.removePath(dup.ID)
			deleted++
		}
	}
	return deleted
}

// RemovePath deletes a path that no topology is anchored on. Deleting a path
// still carrying aggregations would silently break the derived geometries of
// their topologies, so it is refused with ErrPathInUse.
func (w *Workspace) RemovePath(pathID uint) error {
	if _, ok := w.paths[pathID]; !ok {
		return ErrPathNotFound
	}
	for _, agg := range w.aggs {
		if agg.PathID == pathID {
			return ErrPathInUse
		}
	}
	w.removePath(pathID)
	return nil
}

// splitPath cuts a path at interior fractions: the original row keeps the
// first piece, new rows carry the rest, and every aggregation referencing
// the path is re-expressed over the pieces. Affected topology ids are
// accumulated into affected.
func (w *Workspace) splitPath(p *models.Path, cuts []float64, affected map[uint]bool) error {
	line, err := w.Line(p.ID)
	if err != nil {
		return err
	}
	pieces := CutLine(line, cuts)
	if len(pieces) < 2 {
		return nil
	}

	if err := p.SetLine(pieces[0]); err != nil {
		return err
	}
	w.lines[p.ID] = pieces[0]
	w.markPathUpdated(p.ID)

	pieceIDs := make([]uint, len(pieces))
	pieceIDs[0] = p.ID
	for i, piece := range pieces[1:] {
		np := &models.Path{
			Name:        p.Name,
			Comments:    p.Comments,
			Visible:     p.Visible,
			StructureID: p.StructureID,
		}
		if err := np.SetLine(piece); err != nil {
			return err
		}
		w.registerNewPath(np)
		w.lines[np.ID] = piece
		pieceIDs[i+1] = np.ID
	}

	// Re-express aggregations, walking originals by ascending id so that
	// replacement rows keep the traversal sequence within equal ranks.
	var toRemap []*models.PathAggregation
	for _, agg := range w.aggs {
		if agg.PathID == p.ID {
			toRemap = append(toRemap, agg)
		}
	}
	sort.Slice(toRemap, func(i, j int) bool { return toRemap[i].ID < toRemap[j].ID })

	for _, agg := range toRemap {
		affected[agg.TopologyID] = true
		subs := RemapRange(cuts, agg.StartPosition, agg.EndPosition)
		w.removeAggregation(agg.ID)
		for _, sub := range subs {
			repl := &models.PathAggregation{
				TopologyID:    agg.TopologyID,
				PathID:        pieceIDs[sub.Piece],
				StartPosition: sub.Start,
				EndPosition:   sub.End,
				Order:         agg.Order,
			}
			w.registerNewAggregation(repl)
		}
	}
	return nil
}

func (w *Workspace) rebuildTopologies(ids map[uint]bool) error {
	sorted := make([]uint, 0, len(ids))
	for id := range ids {
		sorted = append(sorted, id)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	for _, id := range sorted {
		if err := w.rebuildTopology(id); err != nil {
			return err
		}
	}
	return nil
}

func (w *Workspace) rebuildTopology(id uint) error {
	t, ok := w.topos[id]
	if !ok {
		return ErrTopologyNotFound
	}
	g, err := BuildGeometry(w.Line, w.Aggregations(id))
	if err != nil {
		return err
	}
	if err := t.SetGeom(g); err != nil {
		return err
	}
	w.markTopoUpdated(id)
	return nil
}

func (w *Workspace) registerNewPath(p *models.Path) {
	if p.ID == 0 {
		p.ID = w.nextPathID
	}
	if p.ID >= w.nextPathID {
		w.nextPathID = p.ID + 1
	}
	w.paths[p.ID] = p
	w.provisionalPaths[p.ID] = true
	w.journal.NewPaths = append(w.journal.NewPaths, p)
}

func (w *Workspace) registerNewAggregation(agg *models.PathAggregation) {
	if agg.ID == 0 {
		agg.ID = w.nextAggID
	}
	if agg.ID >= w.nextAggID {
		w.nextAggID = agg.ID + 1
	}
	w.aggs[agg.ID] = agg
	w.provisionalAggs[agg.ID] = true
	w.journal.NewAggs = append(w.journal.NewAggs, agg)
}

func (w *Workspace) markPathUpdated(id uint) {
	if !w.provisionalPaths[id] {
		w.journal.UpdatedPaths[id] = true
	}
}

func (w *Workspace) markTopoUpdated(id uint) {
	if !w.provisionalTopos[id] {
		w.journal.UpdatedTopos[id] = true
	}
}

func (w *Workspace) markAggUpdated(id uint) {
	if !w.provisionalAggs[id] {
		w.journal.UpdatedAggs[id] = true
	}
}

func (w *Workspace) removeAggregation(id uint) {
	delete(w.aggs, id)
	if w.provisionalAggs[id] {
		delete(w.provisionalAggs, id)
		w.journal.NewAggs = dropAgg(w.journal.NewAggs, id)
		return
	}
	delete(w.journal.UpdatedAggs, id)
	w.journal.DeletedAggs = append(w.journal.DeletedAggs, id)
}

func (w *Workspace) removePath(id uint) {
	delete(w.paths, id)
	delete(w.lines, id)
	if w.provisionalPaths[id] {
		delete(w.provisionalPaths, id)
		w.journal.NewPaths = dropPath(w.journal.NewPaths, id)
		return
	}
	delete(w.journal.UpdatedPaths, id)
	w.journal.DeletedPaths = append(w.journal.DeletedPaths, id)
}

func dropAgg(aggs []*models.PathAggregation, id uint) []*models.PathAggregation {
	out := aggs[:0]
	for _, a := range aggs {
		if a.ID != id {
			out = append(out, a)
		}
	}
	return out
}

func dropPath(paths []*models.Path, id uint) []*models.Path {
	out := paths[:0]
	for _, p := range paths {
		if p.ID != id {
			out = append(out, p)
		}
	}
	return out
}
