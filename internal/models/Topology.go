package models

import (
	"github.com/twpayne/go-geom"
	"gorm.io/gorm"

	"geotrail/internal/geometry"
)

// Topology kinds. The kind identifies which feature table hangs off the
// topology and is used when reporting degenerate topologies.
const (
	KindTrek = "TREK"
	KindPOI  = "POI"
)

// Topology is a linear-referenced feature spanning an ordered sequence of
// path segments. Its geometry is derived: concatenating the substring of
// each aggregation, in order, must reconstruct it.
type Topology struct {
	gorm.Model
	Kind   string  `json:"kind" gorm:"index"`
	Offset float64 `json:"offset" gorm:"column:geom_offset"`

	// Geometry is the derived LINESTRING (or POINT for point features;
	// MULTILINESTRING only in the degenerate error case), stored as WKB.
	Geometry []byte `gorm:"type:bytea" json:"-"`

	Aggregations []PathAggregation `gorm:"foreignKey:TopologyID" json:"aggregations,omitempty"`
}

// Geom decodes the stored derived geometry.
func (t *Topology) Geom() (geom.T, error) {
	return geometry.DecodeWKB(t.Geometry)
}

// SetGeom replaces the stored derived geometry.
func (t *Topology) SetGeom(g geom.T) error {
	b, err := geometry.EncodeWKB(g)
	if err != nil {
		return err
	}
	t.Geometry = b
	return nil
}

// IsPoint reports whether the topology is a point feature (every
// aggregation is a point position).
func (t *Topology) IsPoint() bool {
	if len(t.Aggregations) == 0 {
		return false
	}
	for _, agg := range t.Aggregations {
		if !agg.IsPoint() {
			return false
		}
	}
	return true
}

// PathAggregation expresses a topology's position along one path: fractional
// start/end positions in [0, 1] plus a rank in the topology's traversal.
// StartPosition greater than EndPosition means the path is traversed against
// its own direction; equal positions mark a point.
type PathAggregation struct {
	gorm.Model
	TopologyID uint `json:"topology_id" gorm:"index"`
	PathID     uint `json:"path_id" gorm:"index"`

	StartPosition float64 `json:"start_position"`
	EndPosition   float64 `json:"end_position"`

	// Order ranks aggregations within a topology. Path splits leave
	// duplicated values behind; the reorder pass repairs them to a strict
	// 0..n-1 sequence.
	Order int `json:"order" gorm:"column:agg_order;index"`
}

// IsPoint reports whether the aggregation marks a single position.
func (a *PathAggregation) IsPoint() bool {
	return a.StartPosition == a.EndPosition
}

// Reversed reports whether the aggregation traverses its path backwards.
func (a *PathAggregation) Reversed() bool {
	return a.StartPosition > a.EndPosition
}

// Substring computes the aggregation's geometric extent along the given
// path line.
func (a *PathAggregation) Substring(line *geom.LineString) geom.T {
	return geometry.LineSubstring(line, a.StartPosition, a.EndPosition)
}
