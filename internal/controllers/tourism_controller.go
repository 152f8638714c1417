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

// ContentLocation is the point position of a touristic content.
type ContentLocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ContentCategory is the nested category serializer.
type ContentCategory struct {
	ID         uint   `json:"id"`
	Label      string `json:"label"`
	Pictogram  string `json:"pictogram,omitempty"`
	Type1Label string `json:"type1_label,omitempty"`
	Type2Label string `json:"type2_label,omitempty"`
	Order      int    `json:"order"`
}

// ContentResponse exposes a touristic content with its location and category.
type ContentResponse struct {
	ID                uint             `json:"id"`
	Name              string           `json:"name"`
	Description       string           `json:"description,omitempty"`
	DescriptionTeaser string           `json:"description_teaser,omitempty"`
	PracticalInfo     string           `json:"practical_info,omitempty"`
	Contact           string           `json:"contact,omitempty"`
	Email             string           `json:"email,omitempty"`
	Website           string           `json:"website,omitempty"`
	Approved          bool             `json:"approved"`
	Location          *ContentLocation `json:"location,omitempty"`
	Category          ContentCategory  `json:"category"`
}

func toContentResponse(tc models.TouristicContent) ContentResponse {
	resp := ContentResponse{
		ID:                tc.ID,
		Name:              tc.Name,
		Description:       tc.Description,
		DescriptionTeaser: tc.DescriptionTeaser,
		PracticalInfo:     tc.PracticalInfo,
		Contact:           tc.Contact,
		Email:             tc.Email,
		Website:           tc.Website,
		Approved:          tc.Approved,
		Category: ContentCategory{
			ID:         tc.Category.ID,
			Label:      tc.Category.Label,
			Pictogram:  tc.Category.Pictogram,
			Type1Label: tc.Category.Type1Label,
			Type2Label: tc.Category.Type2Label,
			Order:      tc.Category.SortOrder,
		},
	}
	if g, err := geometry.DecodeWKB(tc.Geometry); err == nil {
		if pt, ok := g.(*geom.Point); ok {
			resp.Location = &ContentLocation{Latitude: pt.Y(), Longitude: pt.X()}
		}
	}
	return resp
}

// CreateTouristicContent creates a point touristic content.
func CreateTouristicContent(c *gin.Context) {
	var input struct {
		Name              string  `json:"name" binding:"required"`
		Description       string  `json:"description"`
		DescriptionTeaser string  `json:"description_teaser"`
		PracticalInfo     string  `json:"practical_info"`
		Contact           string  `json:"contact"`
		Email             string  `json:"email"`
		Website           string  `json:"website"`
		Approved          bool    `json:"approved"`
		CategoryID        uint    `json:"category_id" binding:"required"`
		Latitude          float64 `json:"latitude" binding:"required"`
		Longitude         float64 `json:"longitude" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		logrus.WithError(err).Warn("CreateTouristicContent: invalid input payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	var category models.TouristicContentCategory
	if err := config.DB.First(&category, input.CategoryID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Category not found"})
		return
	}

	pt := geom.NewPointFlat(geom.XY, []float64{input.Longitude, input.Latitude})
	wkbGeom, err := geometry.EncodeWKB(pt)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not encode geometry"})
		return
	}

	content := models.TouristicContent{
		Name:              input.Name,
		Description:       input.Description,
		DescriptionTeaser: input.DescriptionTeaser,
		PracticalInfo:     input.PracticalInfo,
		Contact:           input.Contact,
		Email:             input.Email,
		Website:           input.Website,
		Approved:          input.Approved,
		CategoryID:        input.CategoryID,
		Geometry:          wkbGeom,
	}
	if err := config.DB.Create(&content).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Create content failed: " + err.Error()})
		return
	}
	content.Category = category
	c.JSON(http.StatusCreated, gin.H{"content": toContentResponse(content)})
}

// ListTouristicContents returns approved contents, optionally filtered by
// category; ?all=true includes unapproved ones.
func ListTouristicContents(c *gin.Context) {
	q := config.DB.Preload("Category")
	if c.Query("all") != "true" {
		q = q.Where("approved = ?", true)
	}
	if cat := c.Query("category"); cat != "" {
		id, err := strconv.ParseUint(cat, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category ID"})
			return
		}
		q = q.Where("category_id = ?", id)
	}
	var contents []models.TouristicContent
	if err := q.Order("id").Find(&contents).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch contents"})
		return
	}
	items := make([]ContentResponse, 0, len(contents))
	for _, tc := range contents {
		items = append(items, toContentResponse(tc))
	}
	c.JSON(http.StatusOK, gin.H{"contents": items})
}

// GetTouristicContent returns one touristic content.
func GetTouristicContent(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid content ID"})
		return
	}
	var content models.TouristicContent
	if err := config.DB.Preload("Category").First(&content, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Content not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"content": toContentResponse(content)})
}

// DeleteTouristicContent removes a touristic content.
func DeleteTouristicContent(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid content ID"})
		return
	}
	var content models.TouristicContent
	if err := config.DB.First(&content, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Content not found"})
		return
	}
	if err := config.DB.Delete(&content).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Content deleted successfully"})
}

// ListContentCategories returns the category catalogue sorted by order.
func ListContentCategories(c *gin.Context) {
	var categories []models.TouristicContentCategory
	if err := config.DB.Order("sort_order, id").Find(&categories).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch categories"})
		return
	}
	items := make([]ContentCategory, 0, len(categories))
	for _, cat := range categories {
		items = append(items, ContentCategory{
			ID:         cat.ID,
			Label:      cat.Label,
			Pictogram:  cat.Pictogram,
			Type1Label: cat.Type1Label,
			Type2Label: cat.Type2Label,
			Order:      cat.SortOrder,
		})
	}
	c.JSON(http.StatusOK, gin.H{"categories": items})
}
