package main

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/sudo-init-do/gigmarket/internal/auth"
	"github.com/sudo-init-do/gigmarket/internal/config"
	"github.com/sudo-init-do/gigmarket/internal/db"
	"github.com/sudo-init-do/gigmarket/internal/gigs"
	"github.com/sudo-init-do/gigmarket/internal/messaging"
	"github.com/sudo-init-do/gigmarket/internal/middleware"
	"github.com/sudo-init-do/gigmarket/internal/orders"
	"github.com/sudo-init-do/gigmarket/internal/payments"
	"github.com/sudo-init-do/gigmarket/internal/subscriptions"
	"github.com/sudo-init-do/gigmarket/internal/tasks"
	"github.com/sudo-init-do/gigmarket/internal/uploads"
	"github.com/sudo-init-do/gigmarket/internal/users"
	"github.com/sudo-init-do/gigmarket/internal/validation"
)

func main() {
	cfg := config.MustLoad()

	db.Init(cfg.DatabaseURL)
	tasks.Init(cfg.RedisAddr)

	e := echo.New()
	e.HideBanner = true
	e.Validator = validation.New()

	e.Use(echomw.Recover())
	e.Use(echomw.Logger())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: []string{cfg.AppURL},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
	}))

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})
	e.GET("/readyz", func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := db.Conn.Ping(ctx); err != nil {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "unavailable"})
		}
		return c.JSON(http.StatusOK, echo.Map{"status": "ready"})
	})

	e.Static(uploads.MountPath, cfg.UploadDir)

	api := e.Group("/api")

	// ===== Auth =====
	authGroup := api.Group("/auth")
	authGroup.Use(echomw.RateLimiter(echomw.NewRateLimiterMemoryStore(20)))
	authGroup.POST("/signup", auth.Signup)
	authGroup.POST("/login", auth.Login)
	authGroup.GET("/check-username", auth.CheckUsername)
	authGroup.GET("/me", auth.Me, middleware.JWT)

	// ===== Gigs =====
	gigGroup := api.Group("/gigs")
	gigGroup.GET("", gigs.List)
	gigGroup.GET("/featured/recommended", gigs.Featured)
	gigGroup.GET("/seller/:sellerId", gigs.ListBySeller)
	gigGroup.GET("/:id", gigs.Get)
	gigGroup.POST("", gigs.Create, middleware.JWT, middleware.RequireUserType("seller"))
	gigGroup.PUT("/:id", gigs.Update, middleware.JWT, middleware.RequireUserType("seller"))
	gigGroup.DELETE("/:id", gigs.Delete, middleware.JWT, middleware.RequireUserType("seller"))
	gigGroup.POST("/:id/save", gigs.TrackSave, middleware.JWT)
	gigGroup.POST("/:id/order", gigs.TrackOrder, middleware.JWT)

	// ===== Orders =====
	orderGroup := api.Group("/orders", middleware.JWT)
	orderGroup.POST("", orders.Create)
	orderGroup.GET("/seller/:sellerId", orders.ListBySeller)
	orderGroup.GET("/buyer/:buyerId", orders.ListByBuyer)
	orderGroup.GET("/:orderId", orders.Get)
	orderGroup.POST("/:orderId/submit", orders.SubmitWork, middleware.RequireUserType("seller"))
	orderGroup.POST("/:orderId/revision", orders.RequestRevision)
	orderGroup.POST("/:orderId/cancel", orders.Cancel)

	// ===== Messaging =====
	messageGroup := api.Group("/messages", middleware.JWT)
	messageGroup.POST("", messaging.Send)
	messageGroup.POST("/start", messaging.StartConversation)
	messageGroup.GET("/conversations/:userId", messaging.ListConversations)
	messageGroup.GET("/conversation/:conversationId", messaging.GetConversation)
	messageGroup.GET("/unread-count", messaging.UnreadCount)
	messageGroup.PUT("/mark-read/:conversationId", messaging.MarkRead)

	// ===== Users =====
	userGroup := api.Group("/users")
	userGroup.GET("/search", users.Search)
	userGroup.GET("/freelancers", users.Freelancers)
	userGroup.GET("/profile/:userId", users.GetProfile)
	userGroup.PUT("/profile/:userId", users.UpdateProfile, middleware.JWT)
	userGroup.POST("/profile/:userId/picture", users.UploadPicture, middleware.JWT)

	// ===== Uploads =====
	uploadGroup := api.Group("/upload", middleware.JWT)
	uploadGroup.POST("/images", uploads.Images)
	uploadGroup.POST("/pdf", uploads.PDF)
	uploadGroup.DELETE("/file", uploads.DeleteFile)

	// ===== Subscriptions =====
	subGroup := api.Group("/subscriptions", middleware.JWT)
	subGroup.GET("/check-eligibility/:userId", subscriptions.CheckEligibility)
	subGroup.GET("/:userId", subscriptions.Get)
	subGroup.POST("", subscriptions.Create)
	subGroup.PUT("/cancel/:subscriptionId", subscriptions.Cancel)

	// ===== Payments =====
	payGroup := api.Group("/payments", middleware.JWT)
	payGroup.POST("/process", payments.Process)
	payGroup.POST("/fees", payments.Fees)
	payGroup.GET("/history/:userId", payments.History)
	payGroup.GET("/verify/:transactionId", payments.Verify)

	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
