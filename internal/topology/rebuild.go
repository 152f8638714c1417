// Package topology maintains linear-referenced topologies over the path
// network: deriving topology geometries from their ordered aggregations,
// re-expressing aggregations when paths are split, repairing aggregation
// order, and removing duplicate paths.
package topology

import (
	"fmt"
	"sort"

	"github.com/twpayne/go-geom"

	"geotrail/internal/geometry"
	"geotrail/internal/models"
)

// LineResolver resolves a path id to its decoded line geometry.
type LineResolver func(pathID uint) (*geom.LineString, error)

// SortAggregations orders aggregations the way topologies are traversed:
// by order rank, then by id for the duplicated ranks a split leaves behind.
func SortAggregations(aggs []*models.PathAggregation) {
	sort.Slice(aggs, func(i, j int) bool {
		if aggs[i].Order != aggs[j].Order {
			return aggs[i].Order < aggs[j].Order
		}
		return aggs[i].ID < aggs[j].ID
	})
}

// BuildGeometry derives a topology geometry by concatenating each
// aggregation's substring in traversal order. The aggregations must already
// be sorted. A disconnected result comes back as a MultiLineString; the
// caller decides whether that is an error.
func BuildGeometry(resolve LineResolver, aggs []*models.PathAggregation) (geom.T, error) {
	parts := make([]geom.T, 0, len(aggs))
	for _, agg := range aggs {
		line, err := resolve(agg.PathID)
		if err != nil {
			return nil, fmt.Errorf("path %d: %w", agg.PathID, err)
		}
		parts = append(parts, agg.Substring(line))
	}
	return geometry.Assemble(parts), nil
}

// Renumber assigns strictly increasing order ranks 0..n-1 to sorted
// aggregations and reports whether anything changed.
func Renumber(aggs []*models.PathAggregation) bool {
	changed := false
	for i, agg := range aggs {
		if agg.Order != i {
			agg.Order = i
			changed = true
		}
	}
	return changed
}
