package routes

import (
	"net/http"
	"time"

	"stayhub/handlers"
	"stayhub/middleware"
	"stayhub/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterBookingRoutes sets up the booking lifecycle endpoints.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/booking")
	{
		api.GET("/reject-reasons", hb.Booking.RejectReasons)

		api.Use(middleware.ActorAuthMiddleware())
		api.POST("/create", hb.Booking.CreateBooking)
		api.GET("/host/:hostId", hb.Booking.ListHostBookings)
		api.GET("/user/:userId", hb.Booking.ListCustomerBookings)
		api.GET("/:id", hb.Booking.GetBooking)
		api.PATCH("/:id/accept", hb.Booking.AcceptBooking)
		api.PATCH("/:id/reject", hb.Booking.RejectBooking)
		api.PATCH("/:id/cancel", hb.Booking.CancelBooking)
		api.PATCH("/:id/checkin", hb.Booking.CheckInBooking)
		api.POST("/:id/record-payment", hb.Booking.RecordPayment)

		api.POST("/:id/extension", hb.Extension.RequestExtension)
		api.PATCH("/:id/extension/:index/approve", hb.Extension.ApproveExtension)
		api.PATCH("/:id/extension/:index/reject", hb.Extension.RejectExtension)
	}
}

// RegisterHistoryRoutes sets up the booking history endpoints.
func RegisterHistoryRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/history")
	{
		api.Use(middleware.ActorAuthMiddleware())
		api.GET("/user/:id/history", hb.History.GuestHistory)
		api.GET("/host/:id/history", hb.History.HostHistory)
	}
}

// RegisterPaymentRoutes sets up the gateway-facing payment endpoints. The
// return callback is unauthenticated: the gateway signs it instead.
func RegisterPaymentRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/payment")
	{
		api.GET("/vnpay-return", hb.Payment.VNPayReturn)

		api.Use(middleware.ActorAuthMiddleware())
		api.POST("/create-payment-url", hb.Payment.CreatePaymentURL)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, utils.GetHealthStatus())
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterBookingRoutes(r, hb)
	RegisterHistoryRoutes(r, hb)
	RegisterPaymentRoutes(r, hb)
}
