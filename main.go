package main

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/yeremiapane/canteen-app/config"
	"github.com/yeremiapane/canteen-app/middlewares"
	"github.com/yeremiapane/canteen-app/models"
	"github.com/yeremiapane/canteen-app/router"
	"github.com/yeremiapane/canteen-app/services"
	"github.com/yeremiapane/canteen-app/utils"
)

func init() {
	// Load .env di awal sebelum apapun
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading: %v", err)
	}

	utils.InitLogger()
}

func main() {
	// Initialize DB
	db, err := config.InitDB()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}

	// Simpan koneksi database untuk dipakai di controller
	utils.InitDB(db)

	clock, err := config.NewClock()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to configure clock: %v", err)
	}

	// Set gin mode
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	autoMigrate(db)

	// Rate limiter global (50 request per detik per IP). RATE_LIMITING=off
	// mematikannya secara eksplisit; fail-open adalah keputusan deployment.
	rateLimiter := middlewares.NewRateLimiter(50, 1)
	if os.Getenv("RATE_LIMITING") == "off" {
		rateLimiter.Available = false
		utils.InfoLogger.Println("Rate limiting disabled by configuration (failing open)")
	}

	// Sweeper no-show berjalan periodik di background
	sweeper := services.NewNoShowSweeper(services.NewNoShowService(db, clock))
	if raw := os.Getenv("NOSHOW_SWEEP_SECONDS"); raw != "" {
		if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
			sweeper.Interval = time.Duration(secs) * time.Second
		}
	}
	sweeper.Start()
	defer sweeper.Stop()

	// Bersihkan daftar token revoked secara periodik
	go func() {
		for {
			time.Sleep(1 * time.Hour)
			utils.CleanupRevokedTokens()
		}
	}()

	// Setup router
	r := router.SetupRouter(db, clock)
	r.Use(rateLimiter.RateLimit())

	r.SetTrustedProxies([]string{"127.0.0.1", "localhost"})

	// Run server
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
		&models.Shift{},
		&models.Canteen{},
		&models.Settings{},
		&models.Holiday{},
		&models.Order{},
		&models.Blacklist{},
		&models.Notification{},
	)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}

	// Pastikan baris settings singleton ada sejak awal
	if _, err := models.GetSettings(db); err != nil {
		utils.ErrorLogger.Fatalf("Failed to seed settings: %v", err)
	}

	utils.InfoLogger.Println("AutoMigrate completed.")
}
