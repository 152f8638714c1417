package routes

import (
	"github.com/gin-gonic/gin"

	"geotrail/internal/controllers"
	"geotrail/internal/middleware"
)

func CoreRoutes(r *gin.Engine) {
	paths := r.Group("/paths")
	{
		paths.GET("", controllers.ListPaths)
		paths.GET("/:id", controllers.GetPath)

		edit := paths.Group("", middleware.RequireAuthWithAnyRole("manager", "admin"))
		{
			edit.POST("", controllers.CreatePath)
			edit.PUT("/:id", controllers.UpdatePath)
			edit.DELETE("/:id", controllers.DeletePath)
		}
	}
}
