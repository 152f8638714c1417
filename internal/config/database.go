package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"geotrail/internal/models"
)

var (
	// DB is the globally accessible database handle
	DB *gorm.DB
)

// InitDB initializes the database connection using environment variables
// and applies the PostGIS extension.
func InitDB() {
	// 1) Load .env (if present)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found – relying on env vars")
	}

	// Load environment variables (with defaults)
	host := getEnv("DB_HOST", "localhost")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "postgres")
	password := getEnv("DB_PASSWORD", "password")
	dbname := getEnv("DB_NAME", "geotrail")
	sslmode := getEnv("DB_SSLMODE", "disable")
	timezone := getEnv("DB_TIMEZONE", "UTC")

	// Build Data Source Name
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		host, user, password, dbname, port, sslmode, timezone,
	)

	// Open GORM connection
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	// Enable necessary extensions
	db.Exec("CREATE EXTENSION IF NOT EXISTS postgis;")

	err = db.AutoMigrate(
		&models.Structure{}, &models.User{},
		&models.Path{}, &models.Topology{}, &models.PathAggregation{},
		&models.DifficultyLevel{}, &models.Trek{}, &models.POIType{}, &models.POI{},
		&models.TouristicContentCategory{}, &models.TouristicContent{},
		&models.ReportCategory{}, &models.ReportActivity{},
		&models.ReportProblemMagnitude{}, &models.ReportStatus{}, &models.Report{},
		&models.City{}, &models.District{}, &models.RestrictedArea{},
	)
	if err != nil {
		log.Fatalf("auto-migration failed: %v", err)
	}

	// Assign to global
	DB = db
}

// SRID returns the projected spatial reference the network is stored in.
// Defaults to 2154 (Lambert-93).
func SRID() int {
	v, err := strconv.Atoi(getEnv("SRID", "2154"))
	if err != nil {
		return 2154
	}
	return v
}

// SpatialExtent returns the working bounding box (xmin, ymin, xmax, ymax)
// imports are checked against.
func SpatialExtent() [4]float64 {
	raw := getEnv("SPATIAL_EXTENT", "105000,6150000,1100000,7150000")
	parts := strings.Split(raw, ",")
	var extent [4]float64
	if len(parts) != 4 {
		return extent
	}
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return [4]float64{}
		}
		extent[i] = v
	}
	return extent
}

// getEnv reads an environment variable or returns the provided default
func getEnv(key, defaultValue string) string {
	if v, exists := os.LookupEnv(key); exists {
		return v
	}
	return defaultValue
}

// GetDB returns the initialized DB handle
func GetDB() *gorm.DB {
	return DB
}
