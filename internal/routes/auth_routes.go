package routes

import (
	"github.com/gin-gonic/gin"

	"geotrail/internal/controllers"
	"geotrail/internal/middleware"
)

func AuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/signup", controllers.SignupUser)
		auth.POST("/login", controllers.LoginUser)
		auth.GET("/me", middleware.RequireAuth(), controllers.Me)
	}
}
