package main

import (
	"log"
	"net/http"
	"os"

	"geotrail/internal/config"
	"geotrail/internal/logger"
	"geotrail/internal/middleware"
	"geotrail/internal/routes"

	ginlog "github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"
)

func main() {
	// Initialize structured logging to file
	logger.Setup()

	// Connect to the database
	config.InitDB()

	// Setup Gin router
	r := routes.SetupRouter()

	// Recovery middleware
	r.Use(gin.Recovery())

	// Request logging middleware
	r.Use(ginlog.SetLogger())

	// Wrap with CORS
	handler := middleware.EnableCORS(r)

	addr := ":8080"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}
	log.Printf("🚀 Server running at %s", addr)
	log.Fatal(http.ListenAndServe(addr, handler))
}
