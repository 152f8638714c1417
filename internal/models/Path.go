package models

import (
	"github.com/twpayne/go-geom"
	"gorm.io/gorm"

	"geotrail/internal/geometry"
)

// Path is an atomic directed polyline segment of the trail network graph.
// Every linear-referenced feature (trek, POI, ...) is expressed as fractional
// positions along paths rather than as independent geometry.
type Path struct {
	gorm.Model
	Name     string `json:"name"`
	Comments string `json:"comments"`
	Visible  bool   `json:"visible" gorm:"default:true;index"`

	StructureID uint      `json:"structure_id" gorm:"index"`
	Structure   Structure `gorm:"foreignKey:StructureID" json:"-"`

	// Geometry is a LINESTRING stored in PostGIS; it travels as WKB bytes.
	Geometry []byte `gorm:"type:bytea" json:"-"`

	Aggregations []PathAggregation `gorm:"foreignKey:PathID" json:"-"`
}

// Line decodes the stored WKB geometry.
func (p *Path) Line() (*geom.LineString, error) {
	return geometry.DecodeLine(p.Geometry)
}

// SetLine replaces the stored geometry.
func (p *Path) SetLine(ls *geom.LineString) error {
	b, err := geometry.EncodeWKB(ls)
	if err != nil {
		return err
	}
	p.Geometry = b
	return nil
}
