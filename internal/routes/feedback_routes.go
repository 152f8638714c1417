package routes

import (
	"github.com/gin-gonic/gin"

	"geotrail/internal/controllers"
	"geotrail/internal/middleware"
)

func FeedbackRoutes(r *gin.Engine) {
	feedback := r.Group("/feedback")
	{
		// Reports come in from the mobile app without authentication.
		feedback.POST("/reports", controllers.CreateReport)
		feedback.GET("/options", controllers.FeedbackOptions)

		manage := feedback.Group("", middleware.RequireAuthWithAnyRole("manager", "admin"))
		{
			manage.GET("/reports", controllers.ListReports)
			manage.PUT("/reports/:id/status", controllers.UpdateReportStatus)
		}
	}
}
