// File: fuelq/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fuelq/config"
	"fuelq/cron"
	"fuelq/database"
	bookingRepoPkg "fuelq/database/repository/booking"
	paymentRepoPkg "fuelq/database/repository/payment"
	pumpRepoPkg "fuelq/database/repository/pump"
	reminderRepoPkg "fuelq/database/repository/reminder"
	tokenRepoPkg "fuelq/database/repository/token"
	userRepoPkg "fuelq/database/repository/user"
	"fuelq/handlers"
	"fuelq/routes"
	"fuelq/services/booking"
	"fuelq/services/notification"
	"fuelq/services/payment"
	"fuelq/services/pump"
	"fuelq/services/qrcode"
	"fuelq/services/reminder"
	"fuelq/services/slot"
	storagePkg "fuelq/services/storage"
	"fuelq/services/token"
	"fuelq/services/user"
	"fuelq/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v76"
)

func main() {
	config.LoadConfig()
	utils.InitializeLogger()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.InitAuthCache()
	utils.FirebaseInit()

	stripe.Key = config.AppConfig.StripeKey

	var storageService storagePkg.StorageService
	if config.AppConfig.CloudinaryURL != "" {
		svc, err := storagePkg.NewStorageService(config.AppConfig.CloudinaryURL)
		if err != nil {
			logger.Sugar().Fatalf("main: failed to initialize cloudinary storage service: %v", err)
		}
		storageService = svc
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())

	// repositories.
	bookingRepo := bookingRepoPkg.NewMongoBookingRepo()
	tokenRepo := tokenRepoPkg.NewMongoTokenRepo()
	pumpRepo := pumpRepoPkg.NewMongoPumpRepo()
	reminderRepo := reminderRepoPkg.NewMongoReminderRepo()
	userRepo := userRepoPkg.NewMongoUserRepo()
	paymentRepo := paymentRepoPkg.NewMongoPaymentRepo()

	for name, ensure := range map[string]func() error{
		"bookings":  bookingRepo.EnsureIndexes,
		"tokens":    tokenRepo.EnsureIndexes,
		"pumps":     pumpRepo.EnsureIndexes,
		"reminders": reminderRepo.EnsureIndexes,
		"users":     userRepo.EnsureIndexes,
		"payments":  paymentRepo.EnsureIndexes,
	} {
		if err := ensure(); err != nil {
			logger.Sugar().Fatalf("main: failed to ensure %s indexes: %v", name, err)
		}
	}

	// services.
	clock := utils.RealClock()
	tokenTTL := time.Duration(config.AppConfig.TokenTTLMinutes) * time.Minute

	allocator := slot.NewAllocator(
		bookingRepo,
		config.AppConfig.SlotWindowOpenHour,
		config.AppConfig.SlotWindowCloseHour,
		config.AppConfig.SlotWidthMinutes,
	)

	tokenService := &token.DefaultTokenService{
		Repo:     tokenRepo,
		Bookings: bookingRepo,
		Renderer: qrcode.NewPNGRenderer(),
		Storage:  storageService,
		Clock:    clock,
		Logger:   logger,
		TTL:      tokenTTL,
	}

	queueClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	})
	defer queueClient.Close()

	reminderService := &reminder.DefaultReminderService{
		Repo:     reminderRepo,
		Bookings: bookingRepo,
		Queue:    queueClient,
		Clock:    clock,
		Logger:   logger,
	}

	unitPrice, err := decimal.NewFromString(config.AppConfig.FuelPricePerKg)
	if err != nil {
		logger.Sugar().Fatalf("main: invalid FUEL_PRICE_PER_KG: %v", err)
	}

	bookingService := &booking.DefaultBookingService{
		Repo:      bookingRepo,
		Pumps:     pumpRepo,
		Allocator: allocator,
		Tokens:    tokenService,
		Reminders: reminderService,
		Clock:     clock,
		Logger:    logger,
		UnitPrice: unitPrice,
		TokenTTL:  tokenTTL,
	}

	pumpService := &pump.DefaultPumpService{Repo: pumpRepo, Logger: logger}
	userService := &user.DefaultUserService{Repo: userRepo, Logger: logger}
	paymentService := &payment.DefaultPaymentService{
		Repo:     paymentRepo,
		Bookings: bookingRepo,
		Logger:   logger,
	}

	notificationService, err := notification.NewDefaultNotificationService(userRepo, logger)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize notification service: %v", err)
	}

	// background workers.
	cron.InitReminderWorker(notificationService, reminderRepo, bookingRepo)
	cron.StartSweeper(tokenRepo, bookingRepo, bookingService)

	// handlers.
	handlerBundle := &handlers.HandlerBundle{
		User:     handlers.NewUserHandler(userService),
		Pump:     handlers.NewPumpHandler(pumpService),
		Booking:  handlers.NewBookingHandler(bookingService, tokenService),
		Token:    handlers.NewTokenHandler(tokenService, pumpService),
		Reminder: handlers.NewReminderHandler(reminderService),
		Payment:  handlers.NewPaymentHandler(paymentService),
	}

	routes.RegisterRoutes(router, handlerBundle)

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
