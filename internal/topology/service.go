package topology

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/twpayne/go-geom"
	"gorm.io/gorm"

	"geotrail/internal/models"
)

// Service runs workspace operations against the database. The whole network
// is hydrated before an edit; the resulting journal is replayed inside a
// single transaction.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

func (s *Service) load() (*Workspace, error) {
	w := NewWorkspace()

	var paths []models.Path
	if err := s.db.Find(&paths).Error; err != nil {
		return nil, fmt.Errorf("load paths: %w", err)
	}
	for i := range paths {
		w.LoadPath(&paths[i])
	}

	var topos []models.Topology
	if err := s.db.Preload("Aggregations").Find(&topos).Error; err != nil {
		return nil, fmt.Errorf("load topologies: %w", err)
	}
	for i := range topos {
		w.LoadTopology(&topos[i])
	}
	return w, nil
}

// persist replays a workspace journal in one transaction. Provisional ids on
// new rows are remapped to the ids the database hands out.
func (s *Service) persist(w *Workspace) error {
	j := w.Journal()
	defer w.ResetJournal()

	return s.db.Transaction(func(tx *gorm.DB) error {
		pathIDs := make(map[uint]uint)
		topoIDs := make(map[uint]uint)

		for _, p := range j.NewPaths {
			provisional := p.ID
			p.ID = 0
			if err := tx.Create(p).Error; err != nil {
				return fmt.Errorf("create path: %w", err)
			}
			pathIDs[provisional] = p.ID
		}
		for _, t := range j.NewTopos {
			provisional := t.ID
			t.ID = 0
			aggs := t.Aggregations
			t.Aggregations = nil
			if err := tx.Create(t).Error; err != nil {
				return fmt.Errorf("create topology: %w", err)
			}
			t.Aggregations = aggs
			topoIDs[provisional] = t.ID
		}
		for _, agg := range j.NewAggs {
			agg.ID = 0
			if real, ok := pathIDs[agg.PathID]; ok {
				agg.PathID = real
			}
			if real, ok := topoIDs[agg.TopologyID]; ok {
				agg.TopologyID = real
			}
			if err := tx.Create(agg).Error; err != nil {
				return fmt.Errorf("create aggregation: %w", err)
			}
		}

		for id := range j.UpdatedPaths {
			p, ok := w.Path(id)
			if !ok {
				continue
			}
			if err := tx.Save(p).Error; err != nil {
				return fmt.Errorf("update path %d: %w", id, err)
			}
		}
		for id := range j.UpdatedTopos {
			t, ok := w.Topology(id)
			if !ok {
				continue
			}
			if err := tx.Model(&models.Topology{}).Where("id = ?", id).
				Update("geometry", t.Geometry).Error; err != nil {
				return fmt.Errorf("update topology %d: %w", id, err)
			}
		}
		for id := range j.UpdatedAggs {
			agg, ok := w.aggs[id]
			if !ok {
				continue
			}
			if err := tx.Save(agg).Error; err != nil {
				return fmt.Errorf("update aggregation %d: %w", id, err)
			}
		}

		if len(j.DeletedAggs) > 0 {
			if err := tx.Delete(&models.PathAggregation{}, j.DeletedAggs).Error; err != nil {
				return fmt.Errorf("delete aggregations: %w", err)
			}
		}
		if len(j.DeletedPaths) > 0 {
			if err := tx.Delete(&models.Path{}, j.DeletedPaths).Error; err != nil {
				return fmt.Errorf("delete paths: %w", err)
			}
		}
		return nil
	})
}

// CreatePath inserts a path, splitting the network at every crossing.
func (s *Service) CreatePath(p *models.Path) error {
	w, err := s.load()
	if err != nil {
		return err
	}
	if _, err := w.AddPath(p); err != nil {
		return err
	}
	return s.persist(w)
}

// UpdatePathGeometry replaces a path's line and re-derives everything that
// depends on it.
func (s *Service) UpdatePathGeometry(pathID uint, line *geom.LineString) error {
	w, err := s.load()
	if err != nil {
		return err
	}
	if err := w.UpdatePathGeometry(pathID, line); err != nil {
		return err
	}
	return s.persist(w)
}

// DeletePath removes a path, refusing while topologies still reference it.
func (s *Service) DeletePath(pathID uint) error {
	w, err := s.load()
	if err != nil {
		return err
	}
	if err := w.RemovePath(pathID); err != nil {
		return err
	}
	return s.persist(w)
}

// CreateTopology creates a linear-referenced topology over existing paths.
func (s *Service) CreateTopology(kind string, offset float64, segs []Segment) (*models.Topology, error) {
	w, err := s.load()
	if err != nil {
		return nil, err
	}
	t, err := w.AddTopology(kind, offset, segs)
	if err != nil {
		return nil, err
	}
	if err := s.persist(w); err != nil {
		return nil, err
	}
	return t, nil
}

// ReorderAll repairs aggregation order across every topology and reports
// degenerate ones.
func (s *Service) ReorderAll() (int, []TopologyError, error) {
	w, err := s.load()
	if err != nil {
		return 0, nil, err
	}
	updated, errs := w.Reorder()
	if err := s.persist(w); err != nil {
		return 0, nil, err
	}
	return updated, errs, nil
}

// RemoveDuplicates deletes duplicate paths, migrating their aggregations to
// the kept copy. Each duplicate is handled in its own transaction; a failure
// is logged and the pass moves on.
func (s *Service) RemoveDuplicates(logf func(string, ...any)) (int, error) {
	w, err := s.load()
	if err != nil {
		return 0, err
	}
	deleted := w.RemoveDuplicates(func(dup, keeper *models.Path) error {
		return s.db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&models.PathAggregation{}).
				Where("path_id = ?", dup.ID).
				Update("path_id", keeper.ID).Error; err != nil {
				return err
			}
			return tx.Delete(dup).Error
		})
	}, logf)
	// Row changes were already performed per-path above; the journal only
	// matters for callers without a database.
	w.ResetJournal()
	if deleted > 0 {
		logrus.WithField("deleted", deleted).Info("duplicate paths removed")
	}
	return deleted, nil
}
