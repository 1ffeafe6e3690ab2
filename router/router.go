package router

import (
	"github.com/gin-gonic/gin"
	"github.com/tazabolsyn/cleaning-app/controllers"
	"github.com/tazabolsyn/cleaning-app/middlewares"
	"gorm.io/gorm"
)

func SetupRouter(db *gorm.DB) *gin.Engine {
	r := gin.Default()

	// Security + CORS + request logging + limiter global per IP.
	// Middleware global harus terpasang sebelum route didaftarkan,
	// r.Use setelahnya tidak berlaku untuk route yang sudah ada.
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.NewRateLimiter(50, 1).RateLimit())

	// Inisialisasi controller
	authCtrl := controllers.NewAuthController(db)
	userCtrl := controllers.NewUserController(db)
	orderCtrl := controllers.NewOrderController(db)
	cleanerCtrl := controllers.NewCleanerController(db)
	adminCtrl := controllers.NewAdminController(db)
	feedbackCtrl := controllers.NewFeedbackController(db)

	// Limiter untuk endpoint sensitif: 5 percobaan per menit per (endpoint, IP)
	authLimiter := middlewares.NewRateLimiter(5, 60)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	auth := r.Group("/auth")
	{
		auth.POST("/signup", authLimiter.Limit("signup"), authCtrl.Signup)
		auth.POST("/login", authLimiter.Limit("login"), authCtrl.Login)
		auth.POST("/request-reset", authLimiter.Limit("request-reset"), authCtrl.RequestReset)
		auth.POST("/reset", authLimiter.Limit("reset"), authCtrl.ConfirmReset)
	}

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	authed := r.Group("/")
	authed.Use(middlewares.AuthMiddleware())
	{
		// 2FA setup (butuh sesi login)
		authed.POST("/auth/totp/setup", authCtrl.SetupTotp)
		authed.POST("/auth/totp/verify", authCtrl.ConfirmTotp)

		// Profil + alamat
		authed.GET("/users/me", userCtrl.GetProfile)
		authed.PUT("/users/me", userCtrl.UpdateProfile)
		authed.GET("/users/me/addresses", userCtrl.ListAddresses)
		authed.POST("/users/me/addresses", userCtrl.AddAddress)
		authed.DELETE("/users/me/addresses/:address_id", userCtrl.DeleteAddress)

		// Order customer
		authed.POST("/orders", orderCtrl.CreateOrder)
		authed.GET("/orders/:order_id", orderCtrl.GetOrderByID)
		authed.GET("/users/me/orders", userCtrl.ListMyOrders)

		// Feedback untuk order yang sudah selesai
		authed.POST("/users/me/feedback", feedbackCtrl.CreateFeedback)
	}

	// -- CLEANER --
	cleaner := r.Group("/cleaner")
	cleaner.Use(middlewares.AuthMiddleware(), middlewares.RequireRole("cleaner"))
	{
		cleaner.GET("/orders/available", cleanerCtrl.ListAvailableOrders)
		cleaner.POST("/orders/:order_id/take", cleanerCtrl.TakeOrder)
		cleaner.GET("/orders", cleanerCtrl.ListAssignedOrders)
		cleaner.PATCH("/orders/:order_id/status", cleanerCtrl.UpdateOrderStatus)
	}

	// -- ADMIN --
	admin := r.Group("/admin")
	admin.Use(middlewares.AuthMiddleware(), middlewares.RequireRole("admin"))
	{
		admin.GET("/users", adminCtrl.ListUsers)
		admin.POST("/cleaners", adminCtrl.PromoteCleaner)
		admin.POST("/cleaners/account", middlewares.NewStrictRateLimiter(), adminCtrl.CreateCleanerAccount)
		admin.GET("/cleaners", adminCtrl.ListCleaners)
		admin.GET("/orders", adminCtrl.ListOrders)
		admin.PATCH("/orders/:order_id", adminCtrl.UpdateOrder)
	}

	return r
}
