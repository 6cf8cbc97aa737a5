package routes

import (
	"net/http"
	"time"

	"agenda-backend/config"
	"agenda-backend/controllers"
	"agenda-backend/services"
	"agenda-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"gorm.io/gorm"
)

// Services are the collaborators the handlers run on.
type Services struct {
	Sessions  *services.SessionService
	Dashboard *services.DashboardService
	Receipts  *services.ReceiptService
}

// NewServices builds the services over db, wiring dashboard invalidation to
// every session and payment write.
func NewServices(cfg *config.Config, db *gorm.DB) *Services {
	dashboard := services.NewDashboardService(db, cache.New(30*time.Second, time.Minute))
	controllers.OnDataChanged = dashboard.Invalidate
	return &Services{
		Sessions:  services.NewSessionService(db, cfg.RecurrenceFollowUps).OnChange(dashboard.Invalidate),
		Dashboard: dashboard,
		Receipts:  services.NewReceiptService(db, cfg.Profile),
	}
}

func SetupRouter(cfg *config.Config, svc *Services) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.Use(config.PerformanceLogger(cfg.SlowRequestThreshold()))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authController := controllers.NewAuthController(cfg)
	auth := r.Group("/auth")
	{
		auth.POST("/login", authController.Login)
		auth.POST("/refresh", authController.Refresh)
		auth.GET("/me", utils.AuthMiddleware(cfg.JWTSecret), authController.Me)
	}

	sessionController := controllers.NewSessionController(svc.Sessions)
	dashboardController := controllers.NewDashboardController(svc.Dashboard)
	receiptController := controllers.NewReceiptController(svc.Receipts)

	api := r.Group("/api")
	api.Use(utils.AuthMiddleware(cfg.JWTSecret))
	{
		clients := api.Group("/clients")
		{
			clients.POST("", controllers.CreateClient)
			clients.GET("", controllers.GetClients)
			clients.GET("/:id", controllers.GetClient)
			clients.PUT("/:id", controllers.UpdateClient)
			clients.DELETE("/:id", controllers.DeleteClient)
			clients.GET("/:id/sessions", sessionController.GetClientSessions)
			clients.GET("/:id/history", controllers.GetClientHistory)
		}

		sessions := api.Group("/sessions")
		{
			sessions.POST("", sessionController.CreateSession)
			sessions.GET("", sessionController.GetSessions)
			sessions.GET("/availability", sessionController.CheckAvailability)
			sessions.GET("/:id", sessionController.GetSession)
			sessions.PUT("/:id", sessionController.UpdateSession)
			sessions.DELETE("/:id", sessionController.DeleteSession)
			sessions.GET("/:id/payments", controllers.GetSessionPayments)
		}

		payments := api.Group("/payments")
		{
			payments.POST("", controllers.CreatePayment)
			payments.GET("", controllers.GetPayments)
			payments.GET("/:id", controllers.GetPayment)
			payments.PUT("/:id", controllers.UpdatePayment)
			payments.DELETE("/:id", controllers.DeletePayment)
		}

		receipts := api.Group("/receipts")
		{
			receipts.GET("", receiptController.GetReceipts)
			receipts.GET("/preview/:clientId", receiptController.GetPreview)
		}

		history := api.Group("/history")
		{
			history.POST("", controllers.CreateHistoryEntry)
			history.PUT("/:id", controllers.UpdateHistoryEntry)
			history.DELETE("/:id", controllers.DeleteHistoryEntry)
		}

		notes := api.Group("/notes")
		{
			notes.POST("", controllers.CreateNote)
			notes.GET("", controllers.GetNotes)
			notes.GET("/:id", controllers.GetNote)
			notes.PUT("/:id", controllers.UpdateNote)
			notes.DELETE("/:id", controllers.DeleteNote)
		}

		dashboard := api.Group("/dashboard")
		{
			dashboard.GET("/summary", dashboardController.GetSummary)
			dashboard.GET("/upcoming", dashboardController.GetUpcoming)
			dashboard.GET("/next-day", dashboardController.GetNextDay)
		}

		reminders := api.Group("/reminder-templates")
		{
			reminders.POST("", controllers.CreateReminderTemplate)
			reminders.GET("", controllers.GetReminderTemplates)
			reminders.GET("/:id", controllers.GetReminderTemplate)
			reminders.PUT("/:id", controllers.UpdateReminderTemplate)
			reminders.DELETE("/:id", controllers.DeleteReminderTemplate)
		}
		api.GET("/reminder-logs", controllers.GetReminderLogs)

		api.GET("/profile", controllers.ProfileHandler(cfg.Profile))
	}

	return r
}
