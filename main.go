package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"epinera-marketplace/controllers"
	"epinera-marketplace/database"
	"epinera-marketplace/events"
	"epinera-marketplace/middleware"
	awspkg "epinera-marketplace/pkg/aws"
	"epinera-marketplace/repository"
	"epinera-marketplace/routes"
	"epinera-marketplace/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const serviceName = "epinera-marketplace"

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	cfg := LoadConfig()

	// Postgres
	if err := database.Connect(logger); err != nil {
		logger.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer database.Close()

	// Redis
	redisClient := database.NewRedisClient(cfg.RedisURL)

	// Mongo is optional; the audit trail degrades to disabled without it.
	var auditRepo repository.AuditRepository
	if cfg.MongoURI != "" {
		mongoDB, err := database.ConnectMongo(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			logger.Warn("mongo unavailable, audit trail disabled", zap.Error(err))
		} else {
			auditRepo = repository.NewMongoAuditRepository(mongoDB)
			defer database.CloseMongo()
		}
	}

	// AWS
	awsCfg, err := awspkg.LoadAWSConfig(context.Background())
	if err != nil {
		logger.Fatal("failed to load aws config", zap.Error(err))
	}
	snsClient := awspkg.NewSNSClient(awsCfg)
	metricsClient, err := awspkg.NewMetricsClient(context.Background())
	if err != nil {
		logger.Warn("cloudwatch metrics unavailable", zap.Error(err))
	}
	var presigner *awspkg.S3Presigner
	if cfg.S3Bucket != "" {
		presigner = awspkg.NewS3Presigner(awsCfg, cfg.S3Bucket)
	}

	// Stripe
	var stripeClient *services.StripeClient
	if cfg.StripeSecretKey != "" {
		stripeClient = services.NewStripeClient(cfg.StripeSecretKey, cfg.StripeWebhookSecret)
	}
	var gateway services.PaymentGateway
	if stripeClient != nil {
		gateway = stripeClient
	}

	// Events
	publisher := events.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, snsClient, cfg.SNSTopicArn, logger)
	defer publisher.Close()

	// Repositories
	cartRepo := repository.NewGormCartRepository(database.DB)
	checkoutRepo := repository.NewGormCheckoutRepository(database.DB)
	walletRepo := repository.NewGormWalletRepository(database.DB)
	productRepo := repository.NewGormProductRepository(database.DB)
	campaignRepo := repository.NewGormCampaignRepository(database.DB)
	orderRepo := repository.NewGormOrderRepository(database.DB)
	notificationRepo := repository.NewGormNotificationRepository(database.DB)
	referralRepo := repository.NewGormReferralRepository(database.DB)
	reviewRepo := repository.NewGormReviewRepository(database.DB)
	disputeRepo := repository.NewGormDisputeRepository(database.DB)
	profileRepo := repository.NewGormProfileRepository(database.DB)
	adminRepo := repository.NewGormAdminRepository(database.DB)
	idempotencyRepo := repository.NewRedisIdempotencyRepository(redisClient)
	productCache := repository.NewProductCache(redisClient, logger)

	// Services
	checkoutSvc := services.NewCheckoutService(services.CheckoutDeps{
		Carts:         cartRepo,
		Campaigns:     campaignRepo,
		Wallets:       walletRepo,
		Checkouts:     checkoutRepo,
		Idempotency:   idempotencyRepo,
		Notifications: notificationRepo,
		Audit:         auditRepo,
		Publisher:     publisher,
		Metrics:       metricsClient,
		Logger:        logger,
	})
	cartSvc := services.NewCartService(cartRepo, productRepo, logger)
	productSvc := services.NewProductService(productRepo, productCache, presigner, metricsClient, logger)
	campaignSvc := services.NewCampaignService(campaignRepo, auditRepo, logger)
	orderSvc := services.NewOrderService(orderRepo, walletRepo, logger)
	walletSvc := services.NewWalletService(walletRepo, gateway, metricsClient, logger)
	payoutSvc := services.NewPayoutService(walletRepo, profileRepo, notificationRepo, auditRepo, gateway, metricsClient, logger, cfg.AppEnv)
	notificationSvc := services.NewNotificationService(notificationRepo, logger)
	referralSvc := services.NewReferralService(referralRepo, orderRepo, logger)
	profileSvc := services.NewProfileService(profileRepo, logger)
	reviewSvc := services.NewReviewService(reviewRepo, orderRepo, logger)
	disputeSvc := services.NewDisputeService(disputeRepo, orderRepo, notificationRepo, auditRepo, logger)
	adminSvc := services.NewAdminService(adminRepo, walletRepo, auditRepo, logger)

	// Router
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.MetricsMiddleware(metricsClient, serviceName))

	routes.Register(router, routes.Controllers{
		Checkout:      controllers.NewCheckoutController(checkoutSvc, logger),
		Cart:          controllers.NewCartController(cartSvc, logger),
		Products:      controllers.NewProductController(productSvc, logger),
		Campaigns:     controllers.NewCampaignController(campaignSvc, logger),
		Orders:        controllers.NewOrderController(orderSvc, logger),
		Wallet:        controllers.NewWalletController(walletSvc, payoutSvc, stripeClient, logger),
		Notifications: controllers.NewNotificationController(notificationSvc, logger),
		Referrals:     controllers.NewReferralController(referralSvc, logger),
		Profile:       controllers.NewProfileController(profileSvc, logger),
		Reviews:       controllers.NewReviewController(reviewSvc, logger),
		Disputes:      controllers.NewDisputeController(disputeSvc, logger),
		Admin:         controllers.NewAdminController(adminSvc, logger),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("marketplace listening", zap.String("port", cfg.Port), zap.String("env", cfg.AppEnv))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down gracefully")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
	logger.Info("server shutdown complete")
}
