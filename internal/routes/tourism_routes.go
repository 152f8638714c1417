package routes

import (
	"github.com/gin-gonic/gin"

	"geotrail/internal/controllers"
	"geotrail/internal/middleware"
)

func TourismRoutes(r *gin.Engine) {
	contents := r.Group("/touristic-contents")
	{
		contents.GET("", controllers.ListTouristicContents)
		contents.GET("/:id", controllers.GetTouristicContent)

		edit := contents.Group("", middleware.RequireAuthWithAnyRole("manager", "admin"))
		{
			edit.POST("", controllers.CreateTouristicContent)
			edit.DELETE("/:id", controllers.DeleteTouristicContent)
		}
	}

	r.GET("/touristic-categories", controllers.ListContentCategories)
}
