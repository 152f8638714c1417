package models

import (
	"gorm.io/gorm"
)

// TouristicContentCategory groups touristic content (accommodation,
// restaurants, local products, ...).
type TouristicContentCategory struct {
	gorm.Model
	Label      string `json:"label" gorm:"not null" binding:"required"`
	Pictogram  string `json:"pictogram"`
	Type1Label string `json:"type1_label"`
	Type2Label string `json:"type2_label"`
	SortOrder  int    `json:"order" gorm:"column:sort_order"`
}

// TouristicContent is a point feature describing a touristic service near
// the network. Unlike treks and POIs it carries its own geometry rather
// than a topology.
type TouristicContent struct {
	gorm.Model
	Name              string `json:"name" binding:"required"`
	Description       string `json:"description"`
	DescriptionTeaser string `json:"description_teaser"`
	PracticalInfo     string `json:"practical_info"`
	Contact           string `json:"contact"`
	Email             string `json:"email"`
	Website           string `json:"website"`
	Approved          bool   `json:"approved" gorm:"default:false;index"`

	CategoryID uint                     `json:"category_id" gorm:"index"`
	Category   TouristicContentCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`

	// POINT geometry as WKB.
	Geometry []byte `gorm:"type:bytea" json:"-"`
}
