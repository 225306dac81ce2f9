package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/notifymed/notifymed-service/internal/consumer"
	"github.com/notifymed/notifymed-service/internal/handler"
	"github.com/notifymed/notifymed-service/internal/middleware"
	"github.com/notifymed/notifymed-service/internal/repository"
	"github.com/notifymed/notifymed-service/internal/scheduler"
	"github.com/notifymed/notifymed-service/internal/service"
	"github.com/notifymed/notifymed-service/internal/shared/config"
	"github.com/notifymed/notifymed-service/internal/shared/logger"
	"github.com/notifymed/notifymed-service/internal/shared/mongodb"
	"github.com/notifymed/notifymed-service/internal/shared/rabbitmq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Initialize logger
	log := logger.NewLogger()
	defer log.Sync()

	log.Info("Starting NotifyMed service...")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load configuration", "error", err)
	}

	// Initialize MongoDB
	mongoClient, err := mongodb.NewMongoClient(cfg.MongoDB.URI, cfg.MongoDB.Database)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB", "error", err)
	}
	defer mongoClient.Disconnect(context.Background())

	// Initialize RabbitMQ
	rabbitMQClient, err := rabbitmq.NewRabbitMQClient(cfg.RabbitMQ.URL)
	if err != nil {
		log.Fatal("Failed to connect to RabbitMQ", "error", err)
	}
	defer rabbitMQClient.Close()

	// Initialize repositories
	userRepo := repository.NewUserRepository(mongoClient)
	medicationRepo := repository.NewMedicationRepository(mongoClient)
	logRepo := repository.NewMedicationLogRepository(mongoClient)
	scheduleRepo := repository.NewScheduleRepository(mongoClient)
	notificationRepo := repository.NewNotificationRepository(mongoClient)

	// Create indexes
	indexCtx, cancelIndexes := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelIndexes()
	if err := medicationRepo.EnsureIndexes(indexCtx); err != nil {
		log.Warn("Failed to create medication indexes", "error", err)
	}
	if err := logRepo.EnsureIndexes(indexCtx); err != nil {
		log.Warn("Failed to create log indexes", "error", err)
	}
	if err := scheduleRepo.EnsureIndexes(indexCtx); err != nil {
		log.Warn("Failed to create schedule indexes", "error", err)
	}

	// Get rate limit configuration from environment
	rateLimitPerUser, _ := strconv.ParseFloat(getEnv("RATE_LIMIT_PER_USER", "50"), 64)
	rateLimitBurst, _ := strconv.Atoi(getEnv("RATE_LIMIT_BURST", "100"))

	// Initialize services
	smsConfig := service.SMSConfig{
		AccountSID:  cfg.Twilio.AccountSID,
		AuthToken:   cfg.Twilio.AuthToken,
		FromNumber:  cfg.Twilio.FromNumber,
		SendTimeout: cfg.Twilio.SendTimeout,
	}
	smsService := service.NewSMSService(smsConfig, notificationRepo, log)

	reminderService := service.NewReminderService(
		scheduleRepo,
		logRepo,
		medicationRepo,
		userRepo,
		smsService,
		rabbitMQClient,
		cfg.Twilio.SendTimeout,
		log,
	)

	// Initialize scheduler
	reminderScheduler := scheduler.NewReminderScheduler(reminderService, cfg.Sweep.Schedule, log)
	if err := reminderScheduler.Start(); err != nil {
		log.Error("Failed to start scheduler", "error", err)
	}
	defer reminderScheduler.Stop()

	// Initialize HTTP handlers
	userHandler := handler.NewUserHandler(userRepo, log)
	medicationHandler := handler.NewMedicationHandler(medicationRepo, log)
	logHandler := handler.NewMedicationLogHandler(logRepo, log)
	scheduleHandler := handler.NewScheduleHandler(scheduleRepo, log)
	reminderHandler := handler.NewReminderHandler(reminderService, notificationRepo, log)

	// Initialize rate limiter
	rateLimiter := middleware.NewUserRateLimiter(rateLimitPerUser, rateLimitBurst)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	// Health check endpoints
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	router.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	// Metrics endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API routes with rate limiting
	v1 := router.Group("/api/v1")
	v1.Use(middleware.RateLimitMiddleware(rateLimiter))
	{
		// Users
		users := v1.Group("/users")
		{
			users.POST("", userHandler.CreateUser)
			users.GET("", userHandler.GetUser)
			users.PATCH("", userHandler.UpdateUser)
			users.DELETE("", userHandler.DeleteUser)
			users.POST("/check-phone", userHandler.CheckPhone)
		}

		// Medications
		medications := v1.Group("/medications")
		{
			medications.POST("", medicationHandler.CreateMedication)
			medications.GET("", medicationHandler.GetMedications)
			medications.PATCH("/:id", medicationHandler.UpdateMedication)
			medications.DELETE("/:id", medicationHandler.DeleteMedication)
		}

		// Dose logs
		logs := v1.Group("/logs")
		{
			logs.POST("", logHandler.CreateLog)
			logs.GET("", logHandler.GetLogs)
		}

		// Schedules
		schedules := v1.Group("/schedules")
		{
			schedules.GET("", scheduleHandler.GetSchedules)
			schedules.POST("", scheduleHandler.CreateSchedule)
			schedules.PUT("/:id", scheduleHandler.UpdateSchedule)
			schedules.DELETE("/:id", scheduleHandler.DeleteSchedule)
		}

		// Reminders
		reminders := v1.Group("/reminders")
		{
			reminders.POST("/sweep", reminderHandler.TriggerSweep)
		}

		// Reminder history
		v1.GET("/notifications", reminderHandler.GetNotifications)
	}

	// Start RabbitMQ consumer
	eventConsumer := consumer.NewEventConsumer(rabbitMQClient, logRepo, log)
	go func() {
		if err := eventConsumer.Start(); err != nil {
			log.Error("Failed to start event consumer", "error", err)
		}
	}()

	// Start HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info("NotifyMed service started", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down NotifyMed service...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}

	log.Info("NotifyMed service stopped")
}

// getEnv retrieves environment variable or returns default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
