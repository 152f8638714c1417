package routes

import (
	"github.com/gin-gonic/gin"

	"geotrail/internal/controllers"
)

func ZoningRoutes(r *gin.Engine) {
	zoning := r.Group("/zoning")
	{
		zoning.GET("/lookup", controllers.LookupZoning)
		zoning.GET("/cities", controllers.ListCities)
		zoning.GET("/districts", controllers.ListDistricts)
		zoning.GET("/restricted-areas", controllers.ListRestrictedAreas)
	}
}
