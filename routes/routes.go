package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/sam0786-xyz/technova-backend/config"
	"github.com/sam0786-xyz/technova-backend/internal/auditlog"
	"github.com/sam0786-xyz/technova-backend/internal/auth"
	"github.com/sam0786-xyz/technova-backend/internal/checkin"
	"github.com/sam0786-xyz/technova-backend/internal/event"
	"github.com/sam0786-xyz/technova-backend/internal/feedback"
	"github.com/sam0786-xyz/technova-backend/internal/notification"
	"github.com/sam0786-xyz/technova-backend/internal/registration"
	"github.com/sam0786-xyz/technova-backend/internal/reports"
	"github.com/sam0786-xyz/technova-backend/internal/ticket"
	"github.com/sam0786-xyz/technova-backend/internal/xp"
	"github.com/sam0786-xyz/technova-backend/middleware"
	"github.com/sam0786-xyz/technova-backend/utils"

	_ "github.com/sam0786-xyz/technova-backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Wiring holds the long-lived pieces main needs after route setup, in
// particular for the background notification consumer and migrations.
type Wiring struct {
	AuthService         *auth.Service
	NotificationService notification.Service
}

func Setup(r *gin.Engine, db *gorm.DB, cfg *config.Config) *Wiring {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api/v1")
	api.Use(middleware.RateLimiter())

	// ========== Audit Log Module ==========
	auditRepo := auditlog.NewRepository(db)
	auditSvc := auditlog.NewService(auditRepo)
	auditHandler := auditlog.NewHandler(auditSvc)

	// ========== Auth ==========
	authRepo := auth.NewRepository(db)
	authSvc := auth.NewService(authRepo, cfg)
	authHandler := auth.NewHandler(authSvc)

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/fcm-token", middleware.AuthMiddleware(cfg, authSvc), authHandler.SaveFCMToken)
	}

	// ========== Events ==========
	eventRepo := event.NewRepository(db)
	eventSvc := event.NewService(eventRepo, auditSvc)
	eventHandler := event.NewHandler(eventSvc)

	// Public discovery endpoints, cached through Redis.
	api.GET("/events", eventHandler.ListEvents)
	api.GET("/events/live", eventHandler.GetLiveEvents)
	api.GET("/events/:id", eventHandler.GetEvent)

	// ========== Tickets & Registrations ==========
	issuer := ticket.NewIssuer(cfg.TicketSecret)
	regRepo := registration.NewRepository(db)
	gateway := registration.NewRazorpayGateway(cfg)
	mailer := utils.NewSMTPMailer(cfg)
	regSvc := registration.NewService(regRepo, eventSvc, authSvc, issuer, gateway, mailer, auditSvc, cfg)
	regHandler := registration.NewHandler(regSvc)

	// ========== Feedback ==========
	fbRepo := feedback.NewRepository(db)
	fbSvc := feedback.NewService(fbRepo, auditSvc)
	fbHandler := feedback.NewHandler(fbSvc)

	// ========== XP ==========
	xpRepo := xp.NewRepository(db)
	xpHandler := xp.NewHandler(xpRepo)

	// ========== Check-in ==========
	checkinStore := checkin.NewStore(db, xpRepo)
	checkinSvc := checkin.NewService(checkinStore, issuer, fbSvc, auditSvc)
	checkinHandler := checkin.NewHandler(checkinSvc)

	// ========== Notifications ==========
	notifRepo := notification.NewRepository(db)
	notifSvc := notification.NewService(notifRepo, authSvc)
	notifHandler := notification.NewHandler(notifSvc)

	// ========== Reports ==========
	reportSvc := reports.NewService(db, reports.NewReportExporter())
	reportHandler := reports.NewHandler(reportSvc)

	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(cfg, authSvc))
	{
		protected.POST("/events/:id/register", regHandler.Register)
		protected.POST("/payments/verify", regHandler.ConfirmPayment)
		protected.GET("/events/:id/ticket", regHandler.GetTicket)
		protected.GET("/events/:id/ticket/pdf", regHandler.GetTicketPDF)
		protected.GET("/registrations/mine", regHandler.MyRegistrations)

		protected.POST("/events/:id/feedback", fbHandler.Submit)

		protected.GET("/xp/me", xpHandler.MyTotal)
		protected.GET("/xp/me/history", xpHandler.MyHistory)

		protected.GET("/notifications", notifHandler.ListMine)
		protected.PATCH("/notifications/:id/read", notifHandler.MarkRead)
	}

	organizer := protected.Group("/")
	organizer.Use(middleware.RequireOrganizer())
	{
		organizer.POST("/events", eventHandler.CreateEvent)
		organizer.PUT("/events/:id", eventHandler.UpdateEvent)
		organizer.GET("/events/:id/roster", regHandler.Roster)
		organizer.GET("/events/:id/feedback", fbHandler.ListByEvent)

		organizer.POST("/checkin/redeem", checkinHandler.Redeem)
		organizer.POST("/checkin/redeem-image", checkinHandler.RedeemImage)

		organizer.GET("/reports/events/:id/attendance", reportHandler.AttendanceReport)
		organizer.GET("/reports/leaderboard", reportHandler.LeaderboardReport)
	}

	admin := protected.Group("/")
	admin.Use(middleware.RequireAdmin())
	{
		admin.GET("/auditlogs", auditHandler.GetAuditLogs)
	}

	return &Wiring{
		AuthService:         authSvc,
		NotificationService: notifSvc,
	}
}
