package models

import (
	"github.com/twpayne/go-geom"
	"gorm.io/gorm"

	"geotrail/internal/geometry"
)

// City is an administrative commune boundary.
type City struct {
	gorm.Model
	Code      string `json:"code" gorm:"uniqueIndex;size:6"` // INSEE-like code
	Name      string `json:"name" binding:"required"`
	Published bool   `json:"published" gorm:"default:true"`

	// POLYGON or MULTIPOLYGON as WKB.
	Geometry []byte `gorm:"type:bytea" json:"-"`
}

// District is an intermediate administrative area.
type District struct {
	gorm.Model
	Name      string `json:"name" binding:"required"`
	Published bool   `json:"published" gorm:"default:true"`
	Geometry  []byte `gorm:"type:bytea" json:"-"`
}

// RestrictedArea is a regulated zone (nature reserve, hunting area, ...).
type RestrictedArea struct {
	gorm.Model
	Name      string `json:"name" binding:"required"`
	AreaType  string `json:"area_type"`
	Published bool   `json:"published" gorm:"default:true"`
	Geometry  []byte `gorm:"type:bytea" json:"-"`
}

// Geom decodes the stored zone geometry.
func (c *City) Geom() (geom.T, error)           { return geometry.DecodeWKB(c.Geometry) }
func (d *District) Geom() (geom.T, error)       { return geometry.DecodeWKB(d.Geometry) }
func (a *RestrictedArea) Geom() (geom.T, error) { return geometry.DecodeWKB(a.Geometry) }
