package models

import "gorm.io/gorm"

type User struct {
	gorm.Model
	Name     string `json:"name"`
	Email    string `json:"email" gorm:"unique"`
	Password string `json:"password"`
	Role     string `json:"role"` // "admin", "manager", "visitor"

	// Users are scoped to the structure whose network they manage.
	StructureID *uint      `json:"structure_id"`
	Structure   *Structure `gorm:"foreignKey:StructureID" json:"structure,omitempty"`
}
