package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/twpayne/go-geom"

	"geotrail/internal/config"
	"geotrail/internal/models"
	"geotrail/internal/zoning"
)

// LookupZoning returns the cities, districts and restricted areas covering a
// point given as ?x=&y= in the working projection.
func LookupZoning(c *gin.Context) {
	x, errX := strconv.ParseFloat(c.Query("x"), 64)
	y, errY := strconv.ParseFloat(c.Query("y"), 64)
	if errX != nil || errY != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "x and y query parameters are required"})
		return
	}

	pt := geom.NewPointFlat(geom.XY, []float64{x, y})
	publishedOnly := c.Query("all") != "true"
	summary, err := zoning.Intersecting(config.DB, pt, publishedOnly)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"zoning": summary})
}

// ListCities returns the city catalogue.
func ListCities(c *gin.Context) {
	var cities []models.City
	if err := config.DB.Order("code").Find(&cities).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch cities"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"cities": cities})
}

// ListDistricts returns the district catalogue.
func ListDistricts(c *gin.Context) {
	var districts []models.District
	if err := config.DB.Order("id").Find(&districts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch districts"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"districts": districts})
}

// ListRestrictedAreas returns the restricted area catalogue.
func ListRestrictedAreas(c *gin.Context) {
	var areas []models.RestrictedArea
	if err := config.DB.Order("id").Find(&areas).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch restricted areas"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"restricted_areas": areas})
}
