package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/sam0786-xyz/technova-backend/config"
	"github.com/sam0786-xyz/technova-backend/database"
	"github.com/sam0786-xyz/technova-backend/internal/auditlog"
	"github.com/sam0786-xyz/technova-backend/internal/auth"
	"github.com/sam0786-xyz/technova-backend/internal/event"
	"github.com/sam0786-xyz/technova-backend/internal/feedback"
	"github.com/sam0786-xyz/technova-backend/internal/notification"
	"github.com/sam0786-xyz/technova-backend/internal/registration"
	"github.com/sam0786-xyz/technova-backend/internal/xp"
	"github.com/sam0786-xyz/technova-backend/routes"
	"github.com/sam0786-xyz/technova-backend/utils"
)

// @title           TechNova Events API
// @version         1.0
// @description     Event registration, QR ticketing, check-in and XP backend for the TechNova club.
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()
	db := database.Connect(cfg)

	// Init Redis
	if err := utils.InitRedis(cfg); err != nil {
		log.Printf("⚠️ Redis init failed, event caching disabled: %v", err)
	}

	// Init Kafka
	utils.InitializeKafka(cfg)

	// Init Firebase
	if err := utils.InitFirebase(); err != nil {
		log.Printf("⚠️ Firebase initialization failed: %v", err)
		log.Println("ℹ️ Continuing without push notifications")
	}

	// Auto-migrate models
	log.Println("🔄 Running database migrations...")
	if err := db.AutoMigrate(
		&auth.User{},
		&event.Event{},
		&registration.Registration{},
		&xp.LedgerEntry{},
		&feedback.Feedback{},
		&auditlog.AuditLog{},
		&notification.Notification{},
	); err != nil {
		panic(fmt.Sprintf("❌ DB AutoMigrate failed: %v", err))
	}
	log.Println("✅ Database migrations completed")

	// Setup Gin router
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://127.0.0.1:5173", "http://localhost:4173", "http://127.0.0.1:4173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "Content-Length", "X-Requested-With", "Cache-Control", "Pragma"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type", "Content-Disposition", "Cache-Control", "Pragma", "Expires"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	wiring := routes.Setup(router, db, cfg)

	// Attendance stream -> in-app + push notifications.
	consumer := notification.NewConsumer(utils.NewAttendanceReader(cfg), wiring.NotificationService)
	go consumer.Run(context.Background())

	addr := ":" + cfg.Port
	log.Printf("🚀 Server listening on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("❌ Server failed: %v", err)
	}
}
