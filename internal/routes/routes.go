package routes

import (
	"github.com/gin-gonic/gin"
)

func SetupRouter() *gin.Engine {
	r := gin.Default()

	AuthRoutes(r)
	CoreRoutes(r)
	TrekkingRoutes(r)
	TourismRoutes(r)
	FeedbackRoutes(r)
	ZoningRoutes(r)

	return r
}
