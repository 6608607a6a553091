package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/yeremiapane/orderlink/config"
	"github.com/yeremiapane/orderlink/hub"
	"github.com/yeremiapane/orderlink/middlewares"
	"github.com/yeremiapane/orderlink/models"
	"github.com/yeremiapane/orderlink/relay"
	"github.com/yeremiapane/orderlink/router"
	"github.com/yeremiapane/orderlink/services"
	"github.com/yeremiapane/orderlink/utils"
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

	ginMode := os.Getenv("GIN_MODE")
	if ginMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	autoMigrate(db)

	relayURLs := config.RelayURLs()
	if len(relayURLs) == 0 {
		utils.InfoLogger.Println("No relays configured; external channel disabled")
	}
	publisher := relay.NewRetryPublisher(relay.NewClient(relayURLs))

	staffHub := hub.NewHub()
	broadcaster := services.NewBroadcaster(db, staffHub, publisher)
	defer broadcaster.Close()

	store := services.NewOrderStore(db)
	registry := services.NewSessionRegistry(db)
	svc := services.NewOrderService(store, registry, broadcaster)

	rateLimiter := middlewares.NewRateLimiter(50, 1)

	r := router.SetupRouter(db, svc, registry, store, staffHub)
	r.Use(rateLimiter.RateLimit())

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
		&models.Order{},
		&models.OrderItem{},
		&models.TableSession{},
		&models.MailboxEntry{},
		&models.Notification{},
	)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed.")
}
