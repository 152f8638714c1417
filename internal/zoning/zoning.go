// Package zoning resolves which administrative zones a feature geometry
// falls into.
package zoning

import (
	"github.com/twpayne/go-geom"
	"gorm.io/gorm"

	"geotrail/internal/geometry"
	"geotrail/internal/models"
)

// Summary lists the zones intersecting a feature, de-duplicated.
type Summary struct {
	Cities    []models.City           `json:"cities"`
	Districts []models.District       `json:"districts"`
	Areas     []models.RestrictedArea `json:"restricted_areas"`
}

// Intersecting returns every zone whose geometry intersects g. With
// publishedOnly set, unpublished zones are filtered out; features that are
// not published themselves should pass false and see everything.
func Intersecting(db *gorm.DB, g geom.T, publishedOnly bool) (*Summary, error) {
	out := &Summary{}

	var cities []models.City
	if err := db.Find(&cities).Error; err != nil {
		return nil, err
	}
	for _, c := range cities {
		if publishedOnly && !c.Published {
			continue
		}
		zg, err := c.Geom()
		if err != nil {
			continue
		}
		if geometry.Intersects(g, zg) {
			out.Cities = append(out.Cities, c)
		}
	}

	var districts []models.District
	if err := db.Find(&districts).Error; err != nil {
		return nil, err
	}
	for _, d := range districts {
		if publishedOnly && !d.Published {
			continue
		}
		zg, err := d.Geom()
		if err != nil {
			continue
		}
		if geometry.Intersects(g, zg) {
			out.Districts = append(out.Districts, d)
		}
	}

	var areas []models.RestrictedArea
	if err := db.Find(&areas).Error; err != nil {
		return nil, err
	}
	for _, a := range areas {
		if publishedOnly && !a.Published {
			continue
		}
		zg, err := a.Geom()
		if err != nil {
			continue
		}
		if geometry.Intersects(g, zg) {
			out.Areas = append(out.Areas, a)
		}
	}

	return out, nil
}
