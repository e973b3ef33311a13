package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	redislib "github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "participant-service/docs"
	"participant-service/internal/common/cache"
	"participant-service/internal/common/config"
	"participant-service/internal/common/logger"
	"participant-service/internal/common/middleware"
	"participant-service/internal/features/participant/captcha"
	participantHTTP "participant-service/internal/features/participant/delivery/http"
	participantRepo "participant-service/internal/features/participant/repository/postgres"
	"participant-service/internal/features/participant/selection"
	"participant-service/internal/features/participant/service"
	"participant-service/internal/features/participant/subscription"
	"participant-service/internal/platform/authsvc"
	"participant-service/internal/platform/channels"
	"participant-service/internal/platform/postgres"
	"participant-service/internal/platform/redis"
	"participant-service/internal/platform/telegram"
	"participant-service/internal/platform/telegive"
	"participant-service/internal/queue"
	"participant-service/internal/workers"
)

// @title           Participant Service API
// @version         1.0
// @description     Participation tracking for Telegram giveaways: captcha-gated registration, subscription verification, winner selection and delivery tracking.

// @host      localhost:8004
// @BasePath  /api

// @securityDefinitions.apikey ServiceToken
// @in header
// @name X-Service-Token
// @description Shared secret for service-to-service endpoints

// @tag.name participants
// @tag.description Participation lifecycle - registration, captcha, winner selection

func main() {
	cfg := config.Load()

	logger.Init(cfg.ServiceName, cfg.Debug)
	logger.Info().
		Str("service", cfg.ServiceName).
		Bool("debug", cfg.Debug).
		Msg("Starting participant service")

	postgresClient, err := postgres.NewClient(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer postgresClient.Close()
	logger.Info().Msg("Database connection established")

	redisClient, err := redis.NewClient(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer redisClient.Close()

	cacheService := cache.NewCacheService(redisClient)
	logger.Info().Msg("Cache service initialized")

	repo := participantRepo.NewParticipantRepository(postgresClient.GetDB())

	giveawayClient := telegive.NewClient(cfg.Services.GiveawayURL, cfg.ServiceName, cfg.Services.Timeout, cacheService)
	authClient := authsvc.NewClient(cfg.Services.AuthURL, cfg.ServiceName, cfg.Services.ServiceToken, cfg.Services.Timeout)
	channelClient := channels.NewClient(cfg.Services.ChannelURL, cfg.ServiceName, cfg.Services.Timeout)
	telegramClient := telegram.NewClient(cfg.Telegram.APIBase, cfg.Services.Timeout)
	checker := subscription.NewChecker(channelClient, authClient, telegramClient)

	publisher := queue.NewPublisher(cfg.AMQP.URL)
	if publisher.Enabled() {
		logger.Info().Msg("Event publisher enabled")
	}

	generator := captcha.NewGenerator(cfg.Captcha.MinNumber, cfg.Captcha.MaxNumber)
	selector := selection.NewSelector()

	participantSvc := service.NewParticipantService(repo, giveawayClient, checker, publisher, cacheService, generator, selector, cfg)
	logger.Info().Msg("Services initialized")

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.TelegramInitData(cfg.Telegram.BotToken))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Server.Origin}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Authorization", "Accept", "init_data", "X-Service-Token", "X-Request-ID"}
	router.Use(cors.New(corsConfig))

	api := router.Group("/api")
	handler := participantHTTP.NewParticipantHandler(participantSvc, cfg.Services.ServiceToken)
	handler.RegisterRoutes(api)

	setupProbes(router, cfg, postgresClient, redisClient)
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	logger.Info().Msg("Routes configured")

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	cleanup := workers.NewCleanupWorker(repo, cfg.Cleanup.Interval, cfg.Cleanup.Retention)
	go cleanup.Run(workerCtx)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Int("port", cfg.Server.Port).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down server...")
	stopWorkers()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Server exited")
}

// redisPinger is the slice of the Redis client the readiness probe needs.
type redisPinger interface {
	Ping(ctx context.Context) *redislib.StatusCmd
}

func setupProbes(router *gin.Engine, cfg *config.Config, postgresClient *postgres.Client, redisClient redisPinger) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC(),
			"service":   cfg.ServiceName,
		})
	})

	router.GET("/live", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	router.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := postgresClient.HealthCheck(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unready",
				"error":   "postgres unavailable",
				"details": err.Error(),
			})
			return
		}

		if err := redisClient.Ping(ctx).Err(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unready",
				"error":   "redis unavailable",
				"details": err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "ready",
			"timestamp": time.Now().UTC(),
			"service":   cfg.ServiceName,
		})
	})
}
