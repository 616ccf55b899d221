package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stayhub/config"
	"stayhub/cron"
	"stayhub/database"
	bookingRepo "stayhub/database/repository/booking"
	listingRepo "stayhub/database/repository/listing"
	userRepoPkg "stayhub/database/repository/user"
	"stayhub/handlers"
	"stayhub/middleware"
	"stayhub/routes"
	"stayhub/services/booking"
	"stayhub/services/notification"
	"stayhub/services/payment"
	"stayhub/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.StartHealthMonitor([]*redis.Client{utils.GetCacheClient()}, database.MongoClient)

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	bkRepo := bookingRepo.NewMongoBookingRepo()
	lstRepo := listingRepo.NewMongoListingRepo()
	usrRepo := userRepoPkg.NewMongoUserRepo()

	// services.
	scheduler := cron.NewAsynqScheduler()
	defer scheduler.Close()

	bookingService := &booking.DefaultBookingService{
		Repo:              bkRepo,
		Listings:          lstRepo,
		Users:             usrRepo,
		Scheduler:         scheduler,
		Notifier:          &notification.LogNotificationService{},
		HoldWindow:        time.Duration(config.AppConfig.HoldWindowHours) * time.Hour,
		DepositPercentage: config.AppConfig.DepositPercentage,
	}

	vnpay := payment.NewVNPayProvider(
		config.AppConfig.VNPayTmnCode,
		config.AppConfig.VNPayHashSecret,
		config.AppConfig.VNPayPayURL,
		config.AppConfig.VNPayReturnURL,
	)

	// Run the async worker that fires expiry, checkout and completion.
	cron.InitLifecycleWorker(bookingService)

	handlerBundle := &handlers.HandlerBundle{
		Booking:   handlers.NewBookingHandler(bookingService, logger),
		Extension: handlers.NewExtensionHandler(bookingService),
		History:   handlers.NewHistoryHandler(bookingService),
		Payment:   handlers.NewPaymentHandler(bookingService, vnpay, logger),
	}

	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
