package models

import (
	"gorm.io/gorm"
)

// DifficultyLevel ranks treks (easy, medium, hard, ...).
type DifficultyLevel struct {
	gorm.Model
	Difficulty string `json:"difficulty" gorm:"unique;not null" binding:"required"`
}

// Trek is a published walking route carried by a linear topology.
type Trek struct {
	gorm.Model
	Name              string  `json:"name" binding:"required"`
	Departure         string  `json:"departure"`
	Arrival           string  `json:"arrival"`
	Description       string  `json:"description"`
	DescriptionTeaser string  `json:"description_teaser"`
	Duration          float64 `json:"duration"` // hours
	Ascent            int     `json:"ascent"`   // meters
	Published         bool    `json:"published" gorm:"default:false;index"`

	DifficultyID *uint            `json:"difficulty_id"`
	Difficulty   *DifficultyLevel `gorm:"foreignKey:DifficultyID" json:"difficulty,omitempty"`

	TopologyID uint     `json:"topology_id" gorm:"uniqueIndex"`
	Topology   Topology `gorm:"foreignKey:TopologyID" json:"-"`
}

// POIType categorizes points of interest (viewpoint, spring, ruin, ...).
type POIType struct {
	gorm.Model
	Label     string `json:"label" gorm:"unique;not null" binding:"required"`
	Pictogram string `json:"pictogram"`
}

// POI is a point of interest anchored on the network by a point topology.
type POI struct {
	gorm.Model
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Published   bool   `json:"published" gorm:"default:false;index"`

	TypeID *uint    `json:"type_id"`
	Type   *POIType `gorm:"foreignKey:TypeID" json:"type,omitempty"`

	TopologyID uint     `json:"topology_id" gorm:"uniqueIndex"`
	Topology   Topology `gorm:"foreignKey:TopologyID" json:"-"`
}
