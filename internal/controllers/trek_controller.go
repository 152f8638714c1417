package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"geotrail/internal/config"
	"geotrail/internal/geometry"
	"geotrail/internal/models"
	"geotrail/internal/topology"
	"geotrail/internal/zoning"
)

// segmentInput is one step of a topology in creation payloads.
type segmentInput struct {
	PathID uint    `json:"path_id" binding:"required"`
	Start  float64 `json:"start_position"`
	End    float64 `json:"end_position"`
}

func toSegments(in []segmentInput) []topology.Segment {
	segs := make([]topology.Segment, 0, len(in))
	for _, s := range in {
		segs = append(segs, topology.Segment{PathID: s.PathID, Start: s.Start, End: s.End})
	}
	return segs
}

// TrekListItem is the list serializer: identity, geometry and the derived
// length, without the long descriptions.
type TrekListItem struct {
	ID             uint      `json:"id"`
	Name           string    `json:"name"`
	Difficulty     string    `json:"difficulty,omitempty"`
	Duration       float64   `json:"duration"`
	Ascent         int       `json:"ascent"`
	Length         float64   `json:"length"`
	Published      bool      `json:"published"`
	Geometry       string    `json:"geometry"`
	CreateDatetime time.Time `json:"create_datetime"`
	UpdateDatetime time.Time `json:"update_datetime"`
}

// TrekDetail adds the descriptive fields.
type TrekDetail struct {
	TrekListItem
	Departure         string `json:"departure"`
	Arrival           string `json:"arrival"`
	Description       string `json:"description"`
	DescriptionTeaser string `json:"description_teaser"`
}

func toTrekListItem(t models.Trek) TrekListItem {
	jsonGeom, _ := geometry.WKBToGeoJSON(t.Topology.Geometry)
	length := 0.0
	if line, err := geometry.DecodeLine(t.Topology.Geometry); err == nil {
		length = geometry.Length(line)
	}
	item := TrekListItem{
		ID:             t.ID,
		Name:           t.Name,
		Duration:       t.Duration,
		Ascent:         t.Ascent,
		Length:         length,
		Published:      t.Published,
		Geometry:       jsonGeom,
		CreateDatetime: t.CreatedAt,
		UpdateDatetime: t.UpdatedAt,
	}
	if t.Difficulty != nil {
		item.Difficulty = t.Difficulty.Difficulty
	}
	return item
}

func toTrekDetail(t models.Trek) TrekDetail {
	return TrekDetail{
		TrekListItem:      toTrekListItem(t),
		Departure:         t.Departure,
		Arrival:           t.Arrival,
		Description:       t.Description,
		DescriptionTeaser: t.DescriptionTeaser,
	}
}

// CreateTrek creates a trek over an ordered sequence of path segments.
func CreateTrek(c *gin.Context) {
	var input struct {
		Name              string         `json:"name" binding:"required"`
		Departure         string         `json:"departure"`
		Arrival           string         `json:"arrival"`
		Description       string         `json:"description"`
		DescriptionTeaser string         `json:"description_teaser"`
		Duration          float64        `json:"duration"`
		Ascent            int            `json:"ascent"`
		Published         bool           `json:"published"`
		DifficultyID      *uint          `json:"difficulty_id"`
		Segments          []segmentInput `json:"segments" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		logrus.WithError(err).Warn("CreateTrek: invalid input payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	svc := topology.NewService(config.DB)
	topo, err := svc.CreateTopology(models.KindTrek, 0, toSegments(input.Segments))
	if err != nil {
		logrus.WithError(err).Error("CreateTrek: topology creation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Create topology failed: " + err.Error()})
		return
	}

	trek := models.Trek{
		Name:              input.Name,
		Departure:         input.Departure,
		Arrival:           input.Arrival,
		Description:       input.Description,
		DescriptionTeaser: input.DescriptionTeaser,
		Duration:          input.Duration,
		Ascent:            input.Ascent,
		Published:         input.Published,
		DifficultyID:      input.DifficultyID,
		TopologyID:        topo.ID,
	}
	if err := config.DB.Create(&trek).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Create trek failed: " + err.Error()})
		return
	}

	config.DB.Preload("Topology").Preload("Difficulty").First(&trek, trek.ID)
	c.JSON(http.StatusCreated, gin.H{"trek": toTrekDetail(trek)})
}

// ListTreks returns every published trek; ?all=true includes drafts.
func ListTreks(c *gin.Context) {
	q := config.DB.Preload("Topology").Preload("Difficulty")
	if c.Query("all") != "true" {
		q = q.Where("published = ?", true)
	}
	var treks []models.Trek
	if err := q.Order("id").Find(&treks).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch treks"})
		return
	}
	items := make([]TrekListItem, 0, len(treks))
	for _, t := range treks {
		items = append(items, toTrekListItem(t))
	}
	c.JSON(http.StatusOK, gin.H{"treks": items})
}

// GetTrek returns one trek with its full description.
func GetTrek(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid trek ID"})
		return
	}
	var trek models.Trek
	if err := config.DB.Preload("Topology").Preload("Difficulty").First(&trek, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Trek not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"trek": toTrekDetail(trek)})
}

// GetTrekZoning lists the cities, districts and restricted areas the trek
// crosses.
func GetTrekZoning(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid trek ID"})
		return
	}
	var trek models.Trek
	if err := config.DB.Preload("Topology").First(&trek, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Trek not found"})
		return
	}
	g, err := geometry.DecodeWKB(trek.Topology.Geometry)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Trek has no usable geometry"})
		return
	}
	summary, err := zoning.Intersecting(config.DB, g, true)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"zoning": summary})
}

// UpdateTrek updates trek attributes; when segments are given the trek is
// re-routed over a fresh topology and the old one is discarded.
func UpdateTrek(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid trek ID"})
		return
	}
	var trek models.Trek
	if err := config.DB.First(&trek, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Trek not found"})
		return
	}

	var input struct {
		Name              *string        `json:"name"`
		Departure         *string        `json:"departure"`
		Arrival           *string        `json:"arrival"`
		Description       *string        `json:"description"`
		DescriptionTeaser *string        `json:"description_teaser"`
		Duration          *float64       `json:"duration"`
		Ascent            *int           `json:"ascent"`
		Published         *bool          `json:"published"`
		DifficultyID      *uint          `json:"difficulty_id"`
		Segments          []segmentInput `json:"segments"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	if input.Name != nil {
		trek.Name = *input.Name
	}
	if input.Departure != nil {
		trek.Departure = *input.Departure
	}
	if input.Arrival != nil {
		trek.Arrival = *input.Arrival
	}
	if input.Description != nil {
		trek.Description = *input.Description
	}
	if input.DescriptionTeaser != nil {
		trek.DescriptionTeaser = *input.DescriptionTeaser
	}
	if input.Duration != nil {
		trek.Duration = *input.Duration
	}
	if input.Ascent != nil {
		trek.Ascent = *input.Ascent
	}
	if input.Published != nil {
		trek.Published = *input.Published
	}
	if input.DifficultyID != nil {
		trek.DifficultyID = input.DifficultyID
	}

	oldTopologyID := uint(0)
	if len(input.Segments) > 0 {
		svc := topology.NewService(config.DB)
		topo, err := svc.CreateTopology(models.KindTrek, 0, toSegments(input.Segments))
		if err != nil {
			logrus.WithError(err).Error("UpdateTrek: topology creation failed")
			c.JSON(http.StatusBadRequest, gin.H{"error": "Create topology failed: " + err.Error()})
			return
		}
		oldTopologyID = trek.TopologyID
		trek.TopologyID = topo.ID
	}

	if err := config.DB.Save(&trek).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Update trek failed: " + err.Error()})
		return
	}

	if oldTopologyID != 0 {
		tx := config.DB.Begin()
		if err := tx.Where("topology_id = ?", oldTopologyID).Delete(&models.PathAggregation{}).Error; err != nil {
			tx.Rollback()
			logrus.WithError(err).Warnf("UpdateTrek: could not drop topology %d", oldTopologyID)
		} else if err := tx.Delete(&models.Topology{}, oldTopologyID).Error; err != nil {
			tx.Rollback()
			logrus.WithError(err).Warnf("UpdateTrek: could not drop topology %d", oldTopologyID)
		} else {
			tx.Commit()
		}
	}

	config.DB.Preload("Topology").Preload("Difficulty").First(&trek, trek.ID)
	c.JSON(http.StatusOK, gin.H{"trek": toTrekDetail(trek)})
}

// DeleteTrek removes a trek together with its topology.
func DeleteTrek(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid trek ID"})
		return
	}
	var trek models.Trek
	if err := config.DB.First(&trek, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Trek not found"})
		return
	}

	tx := config.DB.Begin()
	if err := tx.Where("topology_id = ?", trek.TopologyID).Delete(&models.PathAggregation{}).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if err := tx.Delete(&models.Topology{}, trek.TopologyID).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if err := tx.Delete(&trek).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Trek deleted successfully"})
}
