package main

import (
	"context"
	"log"
	"time"

	"github.com/Gambit142/Community-Connect-sub000/aws"
	"github.com/Gambit142/Community-Connect-sub000/config"
	"github.com/Gambit142/Community-Connect-sub000/controllers"
	"github.com/Gambit142/Community-Connect-sub000/database"
	"github.com/Gambit142/Community-Connect-sub000/models"
	"github.com/Gambit142/Community-Connect-sub000/repository"
	"github.com/Gambit142/Community-Connect-sub000/routes"
	"github.com/Gambit142/Community-Connect-sub000/sender"
	"github.com/Gambit142/Community-Connect-sub000/services"

	"github.com/gin-gonic/gin"
	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("failed to initialize logger:", err)
	}
	defer logger.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("Config load failed", zap.Error(err))
	}

	// Database
	db, err := database.ConnectPostgres(cfg, logger,
		&models.Order{},
		&models.EventAttendee{},
		&models.Notification{},
	)
	if err != nil {
		logger.Fatal("DB connection failed", zap.Error(err))
	}
	defer database.Close(db)

	rdb, err := database.NewRedisClient(cfg.RedisURL)
	if err != nil {
		logger.Fatal("Redis connection failed", zap.Error(err))
	}
	defer rdb.Close()

	// AWS (non-fatal: registration events degrade to logs without SNS)
	var snsPublisher aws.SNSPublisher
	awsCfg, err := aws.LoadAWSConfig(context.Background())
	if err != nil {
		logger.Warn("AWS config load failed, SNS publishing disabled", zap.Error(err))
	} else {
		snsPublisher = aws.NewSNSClient(awsCfg)
	}

	emailSender, err := sender.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom)
	if err != nil {
		logger.Fatal("Failed to init SMTP sender", zap.Error(err))
	}

	// Repositories
	orderRepo := repository.NewGormOrderRepo(db)
	eventRepo := repository.NewGormEventRepo(db)
	userRepo := repository.NewGormUserRepo(db)
	notificationRepo := repository.NewGormNotificationRepo(db)

	// Services
	stripeSvc := services.NewStripeService(cfg.StripeSecretKey, cfg.StripeWebhookSecret, cfg.FrontendURL)
	notifier := services.NewRedisNotifier(notificationRepo, rdb, logger)
	fulfillmentSvc := services.NewFulfillmentService(eventRepo, notifier, emailSender, snsPublisher, cfg.RegistrationSNSARN, logger)
	registrationSvc := services.NewRegistrationService(orderRepo, eventRepo, userRepo, stripeSvc, fulfillmentSvc, cfg.Currency, logger)
	reconciliationSvc := services.NewReconciliationService(orderRepo, logger)

	// Background sweep for abandoned checkouts
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		logger.Fatal("Failed to create scheduler", zap.Error(err))
	}
	_, err = scheduler.NewJob(
		gocron.DurationJob(cfg.SweepInterval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
			defer cancel()
			if _, err := reconciliationSvc.ExpireStalePending(ctx, cfg.PendingOrderTTL); err != nil {
				logger.Error("Stale order sweep failed", zap.Error(err))
			}
		}),
	)
	if err != nil {
		logger.Fatal("Failed to schedule stale order sweep", zap.Error(err))
	}
	scheduler.Start()
	defer scheduler.Shutdown()

	// HTTP server
	r := gin.New()
	r.Use(gin.Recovery())

	rc := &controllers.RegistrationController{
		Service: registrationSvc,
		Orders:  orderRepo,
		Logger:  logger,
	}
	wc := &controllers.WebhookController{
		Stripe:      stripeSvc,
		Orders:      orderRepo,
		Events:      eventRepo,
		Users:       userRepo,
		Fulfillment: fulfillmentSvc,
		Logger:      logger,
	}
	nc := &controllers.NotificationController{
		Notifications: notificationRepo,
		Logger:        logger,
	}
	routes.RegisterRoutes(r, rc, wc, nc)

	logger.Info("Registration service running", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}
