package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/utsavjain246/shortify/internal/config"
	"github.com/utsavjain246/shortify/internal/handler"
	"github.com/utsavjain246/shortify/internal/logger"
	"github.com/utsavjain246/shortify/internal/middleware"
	"github.com/utsavjain246/shortify/internal/migrations"
	"github.com/utsavjain246/shortify/internal/repository/postgres"
	redisrepo "github.com/utsavjain246/shortify/internal/repository/redis"
	"github.com/utsavjain246/shortify/internal/service"
	"github.com/utsavjain246/shortify/pkg/generator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	if err := logger.Initialize(logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		OutputPath: cfg.Log.OutputPath,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
		Compress:   cfg.Log.Compress,
	}); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	slogger := logger.Get()
	slogger.Info("Starting shortify",
		"port", cfg.Server.Port,
		"log_level", cfg.Log.Level,
	)

	if err := runMigrations(cfg, slogger); err != nil {
		slogger.Error("Failed to migrate database", "error", err)
		os.Exit(1)
	}

	dbPool, err := setupDatabase(cfg)
	if err != nil {
		slogger.Error("Failed to setup database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	redisClient, err := setupRedis(cfg)
	if err != nil {
		slogger.Error("Failed to setup redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()

	gen, err := generator.New(cfg.Shortener.CodeLength)
	if err != nil {
		slogger.Error("Invalid shortener config", "error", err)
		os.Exit(1)
	}

	linkRepo := postgres.NewLinkRepository(dbPool)
	clickRepo := postgres.NewClickRepository(dbPool)
	linkCache := redisrepo.NewLinkCache(redisClient)

	ingest := service.NewClickIngest(
		clickRepo,
		cfg.Ingest.BufferSize,
		cfg.Ingest.Workers,
		cfg.Ingest.WriteTimeout,
		slogger,
	)
	ingest.Start()

	resolver := service.NewResolverService(
		linkRepo,
		linkCache,
		ingest,
		gen,
		cfg.Cache.TTL,
		cfg.Shortener.MaxRetries,
	)
	analytics := service.NewAnalyticsService(linkRepo, clickRepo)

	shortenerHandler := handler.NewShortenerHandler(resolver, cfg.Server.BaseURL)
	analyticsHandler := handler.NewAnalyticsHandler(analytics)
	healthHandler := handler.NewHealthHandler(dbPool, redisClient)

	router := setupRouter(shortenerHandler, analyticsHandler, healthHandler)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		slogger.Info("Server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slogger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	gracefulShutdown(srv, cfg, ingest, dbPool, redisClient, slogger)
}

func runMigrations(cfg *config.Config, log *slog.Logger) error {
	migrator, err := migrations.New(cfg.Database.URL, log)
	if err != nil {
		return err
	}
	defer migrator.Close()

	return migrator.Up()
}

func setupDatabase(cfg *config.Config) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.Database.URL)
	if err != nil {
		return nil, err
	}

	poolConfig.MaxConns = int32(cfg.Database.MaxConns)
	poolConfig.MinConns = int32(cfg.Database.MinConns)
	poolConfig.MaxConnLifetime = cfg.Database.ConnMaxLifetime
	poolConfig.MaxConnIdleTime = cfg.Database.MaxConnIdleTime

	dbPool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		return nil, err
	}

	if err := dbPool.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	return dbPool, nil
}

func setupRedis(cfg *config.Config) (*redis.Client, error) {
	redisClient := redis.NewClient(&redis.Options{
		Addr:         cfg.Redis.Addr,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		MaxRetries:   cfg.Redis.MaxRetries,
	})

	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return redisClient, nil
}

func setupRouter(
	shortenerHandler *handler.ShortenerHandler,
	analyticsHandler *handler.AnalyticsHandler,
	healthHandler *handler.HealthHandler,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.Metrics())
	router.Use(middleware.Identity())

	router.GET("/healthz", healthHandler.Healthz)
	router.GET("/readyz", healthHandler.Readyz)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		api.POST("/shorten", shortenerHandler.Shorten)
		api.GET("/links", shortenerHandler.ListLinks)
		api.DELETE("/links/:shortCode", shortenerHandler.Deactivate)

		api.GET("/analytics/user/summary", analyticsHandler.GetUserSummary)
		api.GET("/analytics/:shortCode", analyticsHandler.GetLinkSummary)
		api.GET("/analytics/:shortCode/clicks", analyticsHandler.GetClickHistory)
	}

	router.GET("/:shortCode", shortenerHandler.Redirect)

	return router
}

func gracefulShutdown(
	srv *http.Server,
	cfg *config.Config,
	ingest *service.ClickIngest,
	dbPool *pgxpool.Pool,
	redisClient *redis.Client,
	log *slog.Logger,
) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quit
	log.Info("Shutdown signal received", "signal", sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Forced shutdown", "error", err)
	}

	// Drain buffered click events before dropping the pool.
	ingest.Close()

	dbPool.Close()
	log.Info("Database connection closed")

	if err := redisClient.Close(); err != nil {
		log.Error("Error closing Redis", "error", err)
	}

	log.Info("Graceful shutdown completed")
}
