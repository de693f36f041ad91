package routes

import (
	"time"

	"fitbook/handlers"
	"fitbook/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterTrainerRoutes registers the trainer directory and the booking entry point.
func RegisterTrainerRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/trainers")
	{
		api.GET("/:id", hb.GetTrainer)
		api.POST("/:id/book", middleware.JWTAuthUserMiddleware(), hb.StartBooking)
	}
}

// RegisterBookingRoutes registers the authenticated booking read endpoints.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	bookingGroup := r.Group("/api/bookings")
	{
		bookingGroup.Use(middleware.JWTAuthUserMiddleware())
		bookingGroup.GET("/my-bookings", hb.ListMyBookings)
		bookingGroup.GET("/:id", hb.GetBooking)
	}
}

// RegisterPaymentRoutes registers the checkout callback.
func RegisterPaymentRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	paymentGroup := r.Group("/api/payments")
	{
		paymentGroup.Use(middleware.JWTAuthUserMiddleware())
		paymentGroup.POST("/verify", hb.VerifyPayment)
	}
}

// RegisterHealthRoutes registers the health and metrics endpoints.
func RegisterHealthRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.Health)
	if hb.Metrics != nil {
		r.GET("/metrics", hb.Metrics)
	}
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle, frontendURL string) {
	origins := []string{"*"}
	if frontendURL != "" {
		origins = []string{frontendURL}
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: frontendURL != "",
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoutes(r, hb)
	RegisterTrainerRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterPaymentRoutes(r, hb)
}
