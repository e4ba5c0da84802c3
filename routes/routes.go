package routes

import (
	"net/http"
	"time"

	"fuelq/handlers"
	"fuelq/middleware"
	"fuelq/models"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterUserRoutes registers account and auth endpoints.
func RegisterUserRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/users")
	{
		api.POST("/register", hb.User.Register)
		api.POST("/login", hb.User.Login)

		// Protected routes (Require Authentication)
		api.Use(middleware.JWTAuthMiddleware())
		api.POST("/logout", hb.User.Logout)
		api.GET("/me", hb.User.Me)
		api.PATCH("/me", hb.User.UpdateProfile)
		api.PUT("/me/fcm-token", hb.User.SetFCMToken)
		api.PUT("/:id/role", middleware.RequireRoles(models.RoleSuperAdmin), hb.User.SetRole)
	}
}

// RegisterPumpRoutes registers station endpoints. Reads are open to any
// authenticated user; mutations are restricted to admins.
func RegisterPumpRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/pumps")
	api.Use(middleware.JWTAuthMiddleware())
	{
		api.GET("", hb.Pump.List)
		api.GET("/nearby", hb.Pump.Nearby)
		api.GET("/mine", middleware.RequireRoles(models.RolePumpAdmin, models.RoleSuperAdmin), hb.Pump.MyPumps)
		api.GET("/:id", hb.Pump.Get)
		api.GET("/:id/slots", hb.Booking.AvailableSlots)

		admin := api.Group("")
		admin.Use(middleware.RequireRoles(models.RoleSuperAdmin))
		admin.POST("", hb.Pump.Register)
		admin.PATCH("/:id", hb.Pump.Update)
		admin.DELETE("/:id", hb.Pump.Delete)
		admin.POST("/:id/admins", hb.Pump.AssignAdmin)

		pumpAdmin := api.Group("")
		pumpAdmin.Use(middleware.RequireRoles(models.RolePumpAdmin, models.RoleSuperAdmin))
		pumpAdmin.PUT("/:id/availability", hb.Pump.SetOpen)
		pumpAdmin.GET("/:id/bookings", hb.Booking.ListByPump)
		pumpAdmin.GET("/:id/scans", hb.Token.ListScans)
	}
}

// RegisterBookingRoutes registers the booking lifecycle endpoints.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/bookings")
	api.Use(middleware.JWTAuthMiddleware())
	{
		api.POST("", hb.Booking.Create)
		api.GET("", hb.Booking.ListMine)
		api.GET("/:id", hb.Booking.Get)
		api.PUT("/:id/confirm", hb.Booking.Confirm)
		api.PUT("/:id/cancel", hb.Booking.Cancel)
		api.PUT("/:id/confirmation", hb.Booking.SetConfirmation)
		api.GET("/:id/token", hb.Booking.GetToken)
		api.POST("/:id/token", hb.Booking.ReissueToken)
		api.GET("/:id/reminders", hb.Reminder.ListForBooking)
		api.POST("/:id/payments/intent", hb.Payment.CreateIntent)
		api.GET("/:id/payments", hb.Payment.ListForBooking)

		admin := api.Group("")
		admin.Use(middleware.RequireRoles(models.RolePumpAdmin, models.RoleSuperAdmin))
		admin.PUT("/:id/complete", hb.Booking.Complete)
		admin.POST("/:id/payments/cash", hb.Payment.RecordCash)
	}
}

// RegisterTokenRoutes registers scanner-side token endpoints.
func RegisterTokenRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/tokens")
	api.Use(middleware.JWTAuthMiddleware())
	{
		scanner := api.Group("")
		scanner.Use(middleware.RequireRoles(models.RolePumpAdmin, models.RoleSuperAdmin))
		scanner.GET("/:code/validate", hb.Token.Validate)
		scanner.POST("/redeem", hb.Token.Redeem)
	}
}

// RegisterReminderRoutes registers reminder response endpoints.
func RegisterReminderRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/reminders")
	api.Use(middleware.JWTAuthMiddleware())
	{
		api.POST("/:id/respond", hb.Reminder.Respond)
	}
}

// RegisterPaymentRoutes registers payment settlement endpoints.
func RegisterPaymentRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/payments")
	api.Use(middleware.JWTAuthMiddleware())
	{
		api.PUT("/:id/settle", hb.Payment.Settle)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RateLimitMiddleware())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	RegisterHealthRoute(r)
	RegisterUserRoutes(r, hb)
	RegisterPumpRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterTokenRoutes(r, hb)
	RegisterReminderRoutes(r, hb)
	RegisterPaymentRoutes(r, hb)
}
