package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-table-service/config"
	"github.com/yeremiapane/restaurant-table-service/models"
	"github.com/yeremiapane/restaurant-table-service/router"
	"github.com/yeremiapane/restaurant-table-service/utils"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading: %v", err)
	}
	utils.InitLogger()
}

func main() {
	db, err := config.InitDB()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}
	utils.InitDB(db)

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	autoMigrate(db)

	r := router.SetupRouter(db)

	r.SetTrustedProxies([]string{"127.0.0.1", "localhost"})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	utils.InfoLogger.Printf("Listening on port %s", port)
	if err := r.Run(":" + port); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}

func autoMigrate(db *gorm.DB) {
	err := db.AutoMigrate(
		&models.User{},
		&models.AreaOption{},
		&models.Table{},
		&models.UsageSession{},
		&models.QRBinding{},
	)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed.")

	seedDefaultAreas(db)
}

// seedDefaultAreas registers the baseline zones on an empty database so a
// fresh install can create tables right away.
func seedDefaultAreas(db *gorm.DB) {
	var count int64
	if err := db.Model(&models.AreaOption{}).Count(&count).Error; err != nil || count > 0 {
		return
	}

	defaults := []models.AreaOption{
		{Value: "indoor", Label: "Indoor"},
		{Value: "outdoor", Label: "Outdoor"},
		{Value: "vip", Label: "VIP"},
	}
	for _, area := range defaults {
		if err := db.Create(&area).Error; err != nil {
			utils.ErrorLogger.Printf("Error seeding area %s: %v", area.Value, err)
		}
	}
	utils.InfoLogger.Println("Seeded default areas.")
}
