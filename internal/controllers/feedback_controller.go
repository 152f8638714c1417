package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/twpayne/go-geom"

	"geotrail/internal/config"
	"geotrail/internal/geometry"
	"geotrail/internal/models"
)

// ReportResponse exposes a feedback report with its resolved labels.
type ReportResponse struct {
	ID           uint             `json:"id"`
	ExternalUUID string           `json:"external_uuid"`
	Email        string           `json:"email"`
	Comment      string           `json:"comment,omitempty"`
	Activity     string           `json:"activity,omitempty"`
	Category     string           `json:"category,omitempty"`
	Magnitude    string           `json:"problem_magnitude,omitempty"`
	Status       string           `json:"status,omitempty"`
	RelatedTrek  *uint            `json:"related_trek_id,omitempty"`
	Location     *ContentLocation `json:"location,omitempty"`
}

func toReportResponse(r models.Report) ReportResponse {
	resp := ReportResponse{
		ID:           r.ID,
		ExternalUUID: r.ExternalUUID.String(),
		Email:        r.Email,
		Comment:      r.Comment,
		RelatedTrek:  r.RelatedTrekID,
	}
	if r.Activity != nil {
		resp.Activity = r.Activity.Label
	}
	if r.Category != nil {
		resp.Category = r.Category.Label
	}
	if r.Magnitude != nil {
		resp.Magnitude = r.Magnitude.Label
	}
	if r.Status != nil {
		resp.Status = r.Status.Label
	}
	if g, err := geometry.DecodeWKB(r.Geometry); err == nil {
		if pt, ok := g.(*geom.Point); ok {
			resp.Location = &ContentLocation{Latitude: pt.Y(), Longitude: pt.X()}
		}
	}
	return resp
}

// CreateReport records visitor feedback. The endpoint is public; only the
// email is mandatory.
func CreateReport(c *gin.Context) {
	var input struct {
		Email         string   `json:"email" binding:"required,email"`
		Comment       string   `json:"comment"`
		ActivityID    *uint    `json:"activity_id"`
		CategoryID    *uint    `json:"category_id"`
		MagnitudeID   *uint    `json:"problem_magnitude_id"`
		RelatedTrekID *uint    `json:"related_trek_id"`
		Latitude      *float64 `json:"latitude"`
		Longitude     *float64 `json:"longitude"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		logrus.WithError(err).Warn("CreateReport: invalid input payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	report := models.Report{
		Email:         input.Email,
		Comment:       input.Comment,
		ActivityID:    input.ActivityID,
		CategoryID:    input.CategoryID,
		MagnitudeID:   input.MagnitudeID,
		RelatedTrekID: input.RelatedTrekID,
	}
	if input.Latitude != nil && input.Longitude != nil {
		pt := geom.NewPointFlat(geom.XY, []float64{*input.Longitude, *input.Latitude})
		wkbGeom, err := geometry.EncodeWKB(pt)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not encode geometry"})
			return
		}
		report.Geometry = wkbGeom
	}
	if err := config.DB.Create(&report).Error; err != nil {
		logrus.WithError(err).Error("CreateReport: insert failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Create report failed: " + err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"report": toReportResponse(report)})
}

// ListReports returns reports for managers, optionally filtered by status.
func ListReports(c *gin.Context) {
	q := config.DB.Preload("Activity").Preload("Category").
		Preload("Magnitude").Preload("Status")
	if status := c.Query("status"); status != "" {
		id, err := strconv.ParseUint(status, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status ID"})
			return
		}
		q = q.Where("status_id = ?", id)
	}
	var reports []models.Report
	if err := q.Order("id").Find(&reports).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch reports"})
		return
	}
	items := make([]ReportResponse, 0, len(reports))
	for _, r := range reports {
		items = append(items, toReportResponse(r))
	}
	c.JSON(http.StatusOK, gin.H{"reports": items})
}

// UpdateReportStatus moves a report through the handling workflow.
func UpdateReportStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid report ID"})
		return
	}
	var input struct {
		StatusID uint `json:"status_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}
	var report models.Report
	if err := config.DB.First(&report, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
		return
	}
	var status models.ReportStatus
	if err := config.DB.First(&status, input.StatusID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status not found"})
		return
	}
	report.StatusID = &status.ID
	if err := config.DB.Save(&report).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	report.Status = &status
	c.JSON(http.StatusOK, gin.H{"report": toReportResponse(report)})
}

type optionLabel struct {
	ID    uint   `json:"id"`
	Label string `json:"label"`
}

// FeedbackOptions returns the choice lists the mobile app needs to build the
// report form.
func FeedbackOptions(c *gin.Context) {
	var activities []models.ReportActivity
	var categories []models.ReportCategory
	var magnitudes []models.ReportProblemMagnitude
	if err := config.DB.Order("id").Find(&activities).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch options"})
		return
	}
	if err := config.DB.Order("id").Find(&categories).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch options"})
		return
	}
	if err := config.DB.Order("id").Find(&magnitudes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch options"})
		return
	}

	toOptions := func(n int, at func(int) (uint, string)) []optionLabel {
		out := make([]optionLabel, 0, n)
		for i := 0; i < n; i++ {
			id, label := at(i)
			out = append(out, optionLabel{ID: id, Label: label})
		}
		return out
	}
	c.JSON(http.StatusOK, gin.H{
		"activities": toOptions(len(activities), func(i int) (uint, string) {
			return activities[i].ID, activities[i].Label
		}),
		"categories": toOptions(len(categories), func(i int) (uint, string) {
			return categories[i].ID, categories[i].Label
		}),
		"magnitudeProblems": toOptions(len(magnitudes), func(i int) (uint, string) {
			return magnitudes[i].ID, magnitudes[i].Label
		}),
	})
}
