package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"geotrail/internal/config"
	"geotrail/internal/geometry"
	"geotrail/internal/models"
	"geotrail/internal/topology"
)

// POIResponse exposes a point of interest with its anchored geometry.
type POIResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Type        string `json:"type,omitempty"`
	Published   bool   `json:"published"`
	Geometry    string `json:"geometry"`
}

func toPOIResponse(p models.POI) POIResponse {
	jsonGeom, _ := geometry.WKBToGeoJSON(p.Topology.Geometry)
	resp := POIResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Published:   p.Published,
		Geometry:    jsonGeom,
	}
	if p.Type != nil {
		resp.Type = p.Type.Label
	}
	return resp
}

// CreatePOI anchors a point of interest at a position along a path. The
// topology keeps following the path when the network is edited.
func CreatePOI(c *gin.Context) {
	var input struct {
		Name        string  `json:"name" binding:"required"`
		Description string  `json:"description"`
		Published   bool    `json:"published"`
		TypeID      *uint   `json:"type_id"`
		PathID      uint    `json:"path_id" binding:"required"`
		Position    float64 `json:"position"`
		Offset      float64 `json:"offset"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		logrus.WithError(err).Warn("CreatePOI: invalid input payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}
	if input.Position < 0 || input.Position > 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Position must be between 0 and 1"})
		return
	}

	svc := topology.NewService(config.DB)
	topo, err := svc.CreateTopology(models.KindPOI, input.Offset, []topology.Segment{
		{PathID: input.PathID, Start: input.Position, End: input.Position},
	})
	if err != nil {
		logrus.WithError(err).Error("CreatePOI: topology creation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Create topology failed: " + err.Error()})
		return
	}

	poi := models.POI{
		Name:        input.Name,
		Description: input.Description,
		Published:   input.Published,
		TypeID:      input.TypeID,
		TopologyID:  topo.ID,
	}
	if err := config.DB.Create(&poi).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Create POI failed: " + err.Error()})
		return
	}

	config.DB.Preload("Topology").Preload("Type").First(&poi, poi.ID)
	c.JSON(http.StatusCreated, gin.H{"poi": toPOIResponse(poi)})
}

// ListPOIs returns published points of interest; ?all=true includes drafts.
func ListPOIs(c *gin.Context) {
	q := config.DB.Preload("Topology").Preload("Type")
	if c.Query("all") != "true" {
		q = q.Where("published = ?", true)
	}
	var pois []models.POI
	if err := q.Order("id").Find(&pois).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch POIs"})
		return
	}
	items := make([]POIResponse, 0, len(pois))
	for _, p := range pois {
		items = append(items, toPOIResponse(p))
	}
	c.JSON(http.StatusOK, gin.H{"pois": items})
}

// GetPOI returns one point of interest.
func GetPOI(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid POI ID"})
		return
	}
	var poi models.POI
	if err := config.DB.Preload("Topology").Preload("Type").First(&poi, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "POI not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"poi": toPOIResponse(poi)})
}

// DeletePOI removes a point of interest together with its topology.
func DeletePOI(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid POI ID"})
		return
	}
	var poi models.POI
	if err := config.DB.First(&poi, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "POI not found"})
		return
	}

	tx := config.DB.Begin()
	if err := tx.Where("topology_id = ?", poi.TopologyID).Delete(&models.PathAggregation{}).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if err := tx.Delete(&models.Topology{}, poi.TopologyID).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if err := tx.Delete(&poi).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "POI deleted successfully"})
}
