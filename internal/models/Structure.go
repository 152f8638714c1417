package models

import (
	"gorm.io/gorm"
)

// Structure is the organizational scope owning paths and users
// (a park administration, a county trail service, ...).
type Structure struct {
	gorm.Model
	Name string `json:"name" gorm:"unique;not null" binding:"required"`
}
