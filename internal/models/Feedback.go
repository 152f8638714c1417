package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReportCategory classifies what the report is about (signage, obstacle...).
type ReportCategory struct {
	gorm.Model
	Label string `json:"label" gorm:"not null" binding:"required"`
}

// ReportActivity is the activity the reporter was practicing.
type ReportActivity struct {
	gorm.Model
	Label string `json:"label" gorm:"not null" binding:"required"`
}

// ReportProblemMagnitude grades the severity of the reported problem.
type ReportProblemMagnitude struct {
	gorm.Model
	Label string `json:"label" gorm:"not null" binding:"required"`
}

// ReportStatus tracks the handling workflow of a report.
type ReportStatus struct {
	gorm.Model
	Label      string `json:"label" gorm:"not null" binding:"required"`
	ExternalID string `json:"external_id" gorm:"index"`
}

// Report is visitor feedback about a problem on the network, submitted from
// the public API without authentication.
type Report struct {
	gorm.Model
	ExternalUUID uuid.UUID `json:"external_uuid" gorm:"type:uuid;uniqueIndex"`
	Email        string    `json:"email" binding:"required,email"`
	Comment      string    `json:"comment"`

	ActivityID  *uint           `json:"activity_id"`
	Activity    *ReportActivity `gorm:"foreignKey:ActivityID" json:"activity,omitempty"`
	CategoryID  *uint           `json:"category_id"`
	Category    *ReportCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	MagnitudeID *uint           `json:"problem_magnitude_id"`
	Magnitude   *ReportProblemMagnitude `gorm:"foreignKey:MagnitudeID" json:"problem_magnitude,omitempty"`
	StatusID    *uint           `json:"status_id"`
	Status      *ReportStatus   `gorm:"foreignKey:StatusID" json:"status,omitempty"`

	RelatedTrekID *uint `json:"related_trek_id"`
	RelatedTrek   *Trek `gorm:"foreignKey:RelatedTrekID" json:"related_trek,omitempty"`

	// POINT geometry as WKB, where the problem was observed.
	Geometry []byte `gorm:"type:bytea" json:"-"`
}

// BeforeCreate assigns the external UUID used to reference the report from
// outside systems.
func (r *Report) BeforeCreate(tx *gorm.DB) error {
	if r.ExternalUUID == uuid.Nil {
		r.ExternalUUID = uuid.New()
	}
	return nil
}
