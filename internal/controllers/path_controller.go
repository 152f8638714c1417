package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"geotrail/internal/config"
	"geotrail/internal/geometry"
	"geotrail/internal/models"
	"geotrail/internal/topology"
)

// PathResponse mirrors models.Path but carries geometry as a GeoJSON string
// for API output.
type PathResponse struct {
	ID          uint           `json:"ID"`
	CreatedAt   time.Time      `json:"CreatedAt"`
	UpdatedAt   time.Time      `json:"UpdatedAt"`
	DeletedAt   gorm.DeletedAt `json:"DeletedAt,omitempty"`
	Name        string         `json:"name"`
	Comments    string         `json:"comments"`
	Visible     bool           `json:"visible"`
	StructureID uint           `json:"structure_id"`
	Geometry    string         `json:"geometry"`
}

func toPathResponse(p models.Path) PathResponse {
	jsonGeom, _ := geometry.WKBToGeoJSON(p.Geometry)
	return PathResponse{
		ID:          p.ID,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		DeletedAt:   p.DeletedAt,
		Name:        p.Name,
		Comments:    p.Comments,
		Visible:     p.Visible,
		StructureID: p.StructureID,
		Geometry:    jsonGeom,
	}
}

// CreatePath inserts a new path segment. Wherever its line crosses an
// existing path, both are split and dependent topologies are re-expressed.
func CreatePath(c *gin.Context) {
	var input struct {
		Name        string `json:"name"`
		Comments    string `json:"comments"`
		Visible     *bool  `json:"visible"`
		StructureID uint   `json:"structure_id"`
		Geometry    string `json:"geometry" binding:"required"` // GeoJSON LineString
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		logrus.WithError(err).Warn("CreatePath: invalid input payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	wkbGeom, err := geometry.GeoJSONToWKB(input.Geometry)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid geometry: " + err.Error()})
		return
	}
	if _, err := geometry.DecodeLine(wkbGeom); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Geometry must be a LineString"})
		return
	}

	visible := true
	if input.Visible != nil {
		visible = *input.Visible
	}
	path := models.Path{
		Name:        input.Name,
		Comments:    input.Comments,
		Visible:     visible,
		StructureID: input.StructureID,
		Geometry:    wkbGeom,
	}

	svc := topology.NewService(config.DB)
	if err := svc.CreatePath(&path); err != nil {
		logrus.WithError(err).Error("CreatePath: insert failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Create path failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"path": toPathResponse(path)})
}

// ListPaths returns the visible network; pass ?all=true to include paths
// hidden from the public map.
func ListPaths(c *gin.Context) {
	q := config.DB.Model(&models.Path{})
	if c.Query("all") != "true" {
		q = q.Where("visible = ?", true)
	}
	var paths []models.Path
	if err := q.Order("id").Find(&paths).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch paths"})
		return
	}
	responses := make([]PathResponse, 0, len(paths))
	for _, p := range paths {
		responses = append(responses, toPathResponse(p))
	}
	c.JSON(http.StatusOK, gin.H{"paths": responses})
}

// GetPath returns a single path.
func GetPath(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid path ID"})
		return
	}
	var path models.Path
	if err := config.DB.First(&path, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Path not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"path": toPathResponse(path)})
}

// UpdatePath edits path attributes. A geometry change re-derives every
// topology carried by the path and may split the network again.
func UpdatePath(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid path ID"})
		return
	}

	var path models.Path
	if err := config.DB.First(&path, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Path not found"})
		} else {
			logrus.WithError(err).Error("UpdatePath: database error fetching path")
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	var input struct {
		Name     *string `json:"name"`
		Comments *string `json:"comments"`
		Visible  *bool   `json:"visible"`
		Geometry *string `json:"geometry"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.Name != nil {
		path.Name = *input.Name
	}
	if input.Comments != nil {
		path.Comments = *input.Comments
	}
	if input.Visible != nil {
		path.Visible = *input.Visible
	}
	if err := config.DB.Save(&path).Error; err != nil {
		logrus.WithError(err).Error("UpdatePath: failed to save path")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Update failed: " + err.Error()})
		return
	}

	if input.Geometry != nil && *input.Geometry != "" {
		wkbGeom, err := geometry.GeoJSONToWKB(*input.Geometry)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid geometry: " + err.Error()})
			return
		}
		line, err := geometry.DecodeLine(wkbGeom)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Geometry must be a LineString"})
			return
		}
		svc := topology.NewService(config.DB)
		if err := svc.UpdatePathGeometry(path.ID, line); err != nil {
			logrus.WithError(err).Error("UpdatePath: geometry update failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Update failed: " + err.Error()})
			return
		}
		config.DB.First(&path, path.ID)
	}

	c.JSON(http.StatusOK, gin.H{"path": toPathResponse(path)})
}

// DeletePath removes a path. A path still carried by topologies cannot be
// deleted; the anchoring treks or POIs have to be re-routed or removed first.
func DeletePath(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid path ID"})
		return
	}

	svc := topology.NewService(config.DB)
	switch err := svc.DeletePath(uint(id)); {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"message": "Path deleted successfully"})
	case errors.Is(err, topology.ErrPathNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Path not found"})
	case errors.Is(err, topology.ErrPathInUse):
		c.JSON(http.StatusConflict, gin.H{"error": "Path is referenced by topologies and cannot be deleted"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Delete failed: " + err.Error()})
	}
}
