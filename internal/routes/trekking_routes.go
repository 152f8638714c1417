package routes

import (
	"github.com/gin-gonic/gin"

	"geotrail/internal/controllers"
	"geotrail/internal/middleware"
)

func TrekkingRoutes(r *gin.Engine) {
	treks := r.Group("/treks")
	{
		treks.GET("", controllers.ListTreks)
		treks.GET("/:id", controllers.GetTrek)
		treks.GET("/:id/zoning", controllers.GetTrekZoning)

		edit := treks.Group("", middleware.RequireAuthWithAnyRole("manager", "admin"))
		{
			edit.POST("", controllers.CreateTrek)
			edit.PUT("/:id", controllers.UpdateTrek)
			edit.DELETE("/:id", controllers.DeleteTrek)
		}
	}

	pois := r.Group("/pois")
	{
		pois.GET("", controllers.ListPOIs)
		pois.GET("/:id", controllers.GetPOI)

		edit := pois.Group("", middleware.RequireAuthWithAnyRole("manager", "admin"))
		{
			edit.POST("", controllers.CreatePOI)
			edit.DELETE("/:id", controllers.DeletePOI)
		}
	}
}
