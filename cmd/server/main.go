package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Abdurahmanit/GroupProject/carmarket-service/internal/adapter/http/handler"
	"github.com/Abdurahmanit/GroupProject/carmarket-service/internal/adapter/http/middleware"
	"github.com/Abdurahmanit/GroupProject/carmarket-service/internal/adapter/http/router"
	"github.com/Abdurahmanit/GroupProject/carmarket-service/internal/adapter/identity/cognito"
	"github.com/Abdurahmanit/GroupProject/carmarket-service/internal/adapter/identity/local"
	natsAdapter "github.com/Abdurahmanit/GroupProject/carmarket-service/internal/adapter/messaging/nats"
	"github.com/Abdurahmanit/GroupProject/carmarket-service/internal/adapter/repository/cache"
	mongoRepo "github.com/Abdurahmanit/GroupProject/carmarket-service/internal/adapter/repository/mongodb"
	"github.com/Abdurahmanit/GroupProject/carmarket-service/internal/adapter/storage/s3"
	"github.com/Abdurahmanit/GroupProject/carmarket-service/internal/config"
	"github.com/Abdurahmanit/GroupProject/carmarket-service/internal/imaging"
	"github.com/Abdurahmanit/GroupProject/carmarket-service/internal/mailer"
	"github.com/Abdurahmanit/GroupProject/carmarket-service/internal/marketplace/domain"
	"github.com/Abdurahmanit/GroupProject/carmarket-service/internal/marketplace/usecase"
	"github.com/Abdurahmanit/GroupProject/carmarket-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/carmarket-service/internal/platform/metrics"
	"github.com/Abdurahmanit/GroupProject/carmarket-service/internal/platform/tracer"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const rateLimiterCleanupInterval = 10 * time.Minute

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("INFO: .env file not found or error loading: %v. Relying on OS environment variables.\n", err)
	}

	appLogger := logger.NewLogger(logger.ConfigFromEnv())
	defer func() { _ = appLogger.Sync() }()

	cfg, err := config.LoadConfig()
	if err != nil {
		appLogger.Fatal("Failed to load configuration", zap.Error(err))
	}
	_ = appLogger.Sync()
	appLogger = logger.NewLogger(cfg.LoggerConfig()).With(zap.String("service_name", cfg.ServiceName))
	appLogger.Info("Configuration loaded",
		zap.String("http_port", cfg.HTTPPort),
		zap.String("identity_provider", cfg.IdentityProvider),
		zap.String("nats_url", cfg.NATSURL),
		zap.Bool("mailer_enabled", cfg.MailerEnabled()),
	)
	if cfg.InsecureJWTSecret() {
		appLogger.Warn("JWT_SECRET is the built-in default; set a real secret outside local development")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tp := tracer.InitTracer(cfg.ServiceName, cfg.OTExporterOTLPEndpoint, appLogger)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			appLogger.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}()

	// MongoDB
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		appLogger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			appLogger.Error("Error disconnecting from MongoDB", zap.Error(err))
		}
	}()
	pingCtx, cancelPing := context.WithTimeout(ctx, 5*time.Second)
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		cancelPing()
		appLogger.Fatal("Failed to ping MongoDB", zap.Error(err))
	}
	cancelPing()
	db := mongoClient.Database(cfg.MongoDatabase)
	appLogger.Info("Connected to MongoDB", zap.String("database", cfg.MongoDatabase))

	listingRepo, err := mongoRepo.NewListingRepository(db, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize ListingRepository", zap.Error(err))
	}
	favoriteRepo, err := mongoRepo.NewFavoriteRepository(db, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize FavoriteRepository", zap.Error(err))
	}
	profileRepo, err := mongoRepo.NewProfileRepository(db, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize ProfileRepository", zap.Error(err))
	}

	// Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer func() {
		if err := redisClient.Close(); err != nil {
			appLogger.Error("Error closing Redis client", zap.Error(err))
		}
	}()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		appLogger.Fatal("Failed to ping Redis", zap.String("addr", cfg.RedisAddr), zap.Error(err))
	}
	listingCache := cache.NewListingCache(redisClient, cfg.ListingCacheTTL)

	// Identity provider
	var identities domain.IdentityProvider
	switch cfg.IdentityProvider {
	case config.IdentityProviderCognito:
		identities, err = cognito.NewProvider(ctx, cfg.CognitoUserPoolID, cfg.CognitoClientID, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to initialize Cognito identity provider", zap.Error(err))
		}
	default:
		credentialRepo, err := mongoRepo.NewCredentialRepository(db, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to initialize CredentialRepository", zap.Error(err))
		}
		identities = local.NewProvider(credentialRepo, cache.NewSessionStore(redisClient), cfg.JWTSecret, cfg.SessionTTL, appLogger)
	}
	appLogger.Info("Identity provider initialized", zap.String("provider", cfg.IdentityProvider))

	// NATS
	natsConn, err := natsAdapter.Connect(cfg.NATSURL, cfg.ServiceName, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to NATS", zap.Error(err))
	}
	defer natsAdapter.Drain(natsConn, appLogger)
	publisher := natsAdapter.NewPublisher(natsConn, appLogger)

	var notifier domain.Mailer
	if cfg.MailerEnabled() {
		smtpMailer, err := mailer.New(mailer.SMTPConfig{
			Host:        cfg.SMTPHost,
			Port:        cfg.SMTPPort,
			Username:    cfg.SMTPUsername,
			Password:    cfg.SMTPPassword,
			SenderEmail: cfg.SMTPSenderEmail,
		}, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to initialize mailer", zap.Error(err))
		}
		notifier = smtpMailer
	}
	notificationUsecase := usecase.NewNotificationUsecase(notifier, appLogger)
	subscriber := natsAdapter.NewSubscriber(natsConn, notificationUsecase, appLogger)
	if err := subscriber.Start(); err != nil {
		appLogger.Fatal("Failed to subscribe to moderation events", zap.Error(err))
	}
	defer subscriber.Stop()

	// Object storage
	storage, err := s3.NewStorage(ctx, cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize object storage", zap.Error(err))
	}

	// Usecases
	authUsecase := usecase.NewAuthUsecase(identities, profileRepo, cfg.AdminRegistrationCode, appLogger)
	listingUsecase := usecase.NewListingUsecase(listingRepo, profileRepo, listingCache, publisher, appLogger)
	favoriteUsecase := usecase.NewFavoriteUsecase(favoriteRepo, appLogger)
	profileUsecase := usecase.NewProfileUsecase(profileRepo, appLogger)
	accountUsecase := usecase.NewAccountUsecase(listingRepo, profileRepo, identities, authUsecase, listingCache, publisher, cfg.IdentityAdminDelete, appLogger)
	photoUsecase := usecase.NewPhotoUsecase(storage, imaging.NewProcessor(cfg.ImageMaxDimension, cfg.ImageMaxPixels), cfg.ImageMaxBytes, appLogger)

	// HTTP
	metricsManager := metrics.NewMetricsManager("carmarket")
	authLimiter := middleware.NewRateLimiter(cfg.AuthRateLimitRPS, cfg.AuthRateLimitBurst, appLogger)
	go authLimiter.Run(ctx, rateLimiterCleanupInterval)

	mux := router.New(router.Handlers{
		Auth:      handler.NewAuthHandler(authUsecase, accountUsecase, metricsManager, appLogger),
		Profiles:  handler.NewProfileHandler(profileUsecase, accountUsecase, metricsManager, appLogger),
		Listings:  handler.NewListingHandler(listingUsecase, metricsManager, appLogger),
		Favorites: handler.NewFavoriteHandler(favoriteUsecase, metricsManager, appLogger),
		Images:    handler.NewImageHandler(photoUsecase, cfg.ImageMaxBytes, metricsManager, appLogger),
	}, router.Options{
		ServiceName:   cfg.ServiceName,
		Authenticator: authUsecase,
		AuthLimiter:   authLimiter,
		Metrics:       metricsManager,
		Logger:        appLogger,
	})

	httpSrv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		appLogger.Info("Starting HTTP server", zap.String("addr", httpSrv.Addr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	var metricsSrv *http.Server
	if cfg.PrometheusMetricsPort != "" {
		metricsSrv = metrics.NewMetricsServer(cfg.PrometheusMetricsPort, metricsManager.Registry)
	}
	go func() {
		if err := metrics.StartMetricsServer(metricsSrv, appLogger); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("Prometheus metrics server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	appLogger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("HTTP server shutdown failed", zap.Error(err))
	}
	if metricsSrv != nil {
		if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
			appLogger.Error("Metrics server shutdown failed", zap.Error(err))
		}
	}
	appLogger.Info("Application shutting down...")
}
