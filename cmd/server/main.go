package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/driftnote/backend/internal/auth"
	"github.com/driftnote/backend/internal/config"
	"github.com/driftnote/backend/internal/database"
	"github.com/driftnote/backend/internal/featured"
	"github.com/driftnote/backend/internal/feed"
	"github.com/driftnote/backend/internal/handlers"
	"github.com/driftnote/backend/internal/kernel"
	"github.com/driftnote/backend/internal/logger"
	"github.com/driftnote/backend/internal/middleware"
	"github.com/driftnote/backend/internal/policy"
	"github.com/driftnote/backend/internal/ranking"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.Initialize(cfg.LogLevel, cfg.LogFile); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Close()

	logger.Log.Info("=== driftnote server starting ===",
		zap.String("environment", cfg.Environment),
	)

	if err := database.Initialize(cfg.DatabaseURL); err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	if err := database.Migrate(); err != nil {
		logger.Log.Fatal("Failed to run migrations", zap.Error(err))
	}

	redisClient, err := ranking.NewRedisClient(cfg.RedisAddr(), cfg.RedisPassword)
	if err != nil {
		logger.Log.Fatal("Failed to connect to Redis", zap.Error(err))
	}

	if cfg.JWTSecret == "" {
		logger.Log.Fatal("JWT_SECRET environment variable is required")
	}

	// Assemble services
	rankingSource := ranking.NewRedisSource(redisClient)
	rankingCache := featured.NewRankingCache(rankingSource,
		featured.WithTTL(cfg.RankingTTL),
		featured.WithDepth(cfg.RankingDepth),
	)
	policyService := policy.NewService(database.DB)
	feedService := feed.NewService(database.DB, rankingCache, policyService, feed.Config{
		MaxPageLimit:   cfg.MaxPageLimit,
		FeaturedWindow: cfg.FeaturedWindow,
		FetchDepth:     cfg.RankingDepth,
	})
	authService := auth.NewService([]byte(cfg.JWTSecret))

	k := kernel.New().
		SetDB(database.DB).
		SetLogger(logger.Log).
		SetRedis(redisClient).
		SetRankingSource(rankingSource).
		SetRankingCache(rankingCache).
		SetPolicy(policyService).
		SetFeed(feedService).
		SetAuth(authService)

	k.OnCleanup(func(ctx context.Context) error { return redisClient.Close() })
	k.OnCleanup(func(ctx context.Context) error { return database.Close() })

	h := handlers.NewHandlers(feedService, cfg.MaxPageLimit)

	if cfg.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.GinLoggerMiddleware())
	r.Use(middleware.MetricsMiddleware())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"} // Configure properly for production
	corsConfig.AllowMethods = []string{"GET", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	r.GET("/health", h.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.Use(authService.OptionalViewerMiddleware())
	{
		notes := api.Group("/notes")
		{
			notes.GET("/featured", h.FeaturedNotes)
		}

		gallery := api.Group("/gallery")
		{
			gallery.GET("/featured", h.FeaturedGallery)
			gallery.GET("/popular", h.PopularGallery)
		}

		channels := api.Group("/channels")
		{
			channels.GET("/featured", h.FeaturedChannels)
			channels.GET("/search", h.SearchChannels)
		}

		users := api.Group("/users")
		{
			users.GET("/pinned", h.PinnedUsers)
		}
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		logger.Log.Info("HTTP server listening", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}
	k.Shutdown(ctx)

	logger.Log.Info("Server exited")
}
