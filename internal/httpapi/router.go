package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/loggpt/components-room/internal/common"
	"github.com/loggpt/components-room/internal/config"
	"github.com/loggpt/components-room/internal/httpapi/handlers"
	"github.com/loggpt/components-room/internal/httpapi/middleware"
	"github.com/loggpt/components-room/internal/store/redisstore"
)

func NewRouter(db *gorm.DB, cfg config.Config, rds *redisstore.Store) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.NoRoute(func(c *gin.Context) {
		common.Fail(c, http.StatusNotFound, 40400, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		common.Fail(c, http.StatusMethodNotAllowed, 40500, "method not allowed")
	})

	h := handlers.NewHandler(db, cfg, rds)

	// A nil *Store must not become a non-nil interface.
	var revoker middleware.TokenRevoker
	if rds != nil {
		revoker = rds
	}
	authRequired := middleware.AuthRequired(db, cfg.JWTSecret, revoker)
	optionalAuth := middleware.OptionalAuth(db, cfg.JWTSecret, revoker)
	adminRequired := middleware.AdminRequired()

	r.GET("/", func(c *gin.Context) {
		common.OK(c, gin.H{
			"name":    "Components Room API",
			"version": "1.0.0",
		})
	})
	r.GET("/health", h.Ping)

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
		authGroup.POST("/refresh", h.Refresh)
		authGroup.GET("/me", authRequired, h.Me)
		authGroup.POST("/logout", authRequired, h.Logout)
	}

	components := api.Group("/components")
	{
		components.GET("", authRequired, h.ListComponents)
		components.GET("/categories/all", authRequired, h.ListCategories)
		components.GET("/:id", authRequired, h.GetComponent)
		components.POST("", authRequired, adminRequired, h.CreateComponent)
		components.PATCH("/:id", authRequired, adminRequired, h.UpdateComponent)
		components.DELETE("/:id", authRequired, adminRequired, h.DeleteComponent)
	}

	transactions := api.Group("/transactions")
	transactions.Use(authRequired)
	{
		transactions.GET("", h.ListTransactions)
		transactions.POST("", h.CreateTransaction)
		transactions.GET("/overdue/all", adminRequired, h.ListOverdue)
		transactions.GET("/:id", h.GetTransaction)
		transactions.POST("/:id/approve", adminRequired, h.ApproveTransaction)
		transactions.POST("/:id/reject", adminRequired, h.RejectTransaction)
		transactions.POST("/:id/return", adminRequired, h.ReturnTransaction)
	}

	dash := api.Group("/dashboard")
	dash.Use(authRequired)
	{
		dash.GET("/stats", h.DashboardStats)
		dash.GET("/recent-activity", adminRequired, h.RecentActivity)
		dash.GET("/users", adminRequired, h.ListUsers)
	}

	chatGroup := api.Group("/chat")
	{
		// Send is open to the kiosk; anonymous sessions get their own
		// conversations.
		chatGroup.POST("", optionalAuth, h.SendChatMessage)
		chatGroup.GET("/conversations", authRequired, h.ListConversations)
		chatGroup.GET("/conversations/:conversation_id", authRequired, h.GetConversation)
		chatGroup.DELETE("/conversations/:conversation_id", authRequired, h.DeleteConversation)
		chatGroup.GET("/history", authRequired, h.ChatHistory)
		chatGroup.DELETE("/history", authRequired, h.ClearChatHistory)
	}

	kiosk := api.Group("/kiosk")
	{
		kiosk.GET("/components", h.KioskListComponents)
		kiosk.GET("/categories", h.KioskCategories)
		kiosk.POST("/borrow", h.KioskBorrow)
		kiosk.GET("/borrowed/:roll_number", h.KioskBorrowed)
		kiosk.POST("/return", h.KioskReturn)
		kiosk.GET("/search-student", h.KioskSearchStudent)
		kiosk.GET("/stats", h.KioskStats)
	}

	return r
}
