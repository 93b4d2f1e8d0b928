package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"credential-market/config"
	httpHandler "credential-market/internal/adapter/http/handler"
	pgStorage "credential-market/internal/adapter/storage/postgres"
	redisStorage "credential-market/internal/adapter/storage/redis"
	"credential-market/internal/core/ports"
	"credential-market/internal/service"
	"credential-market/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Msg("Starting Credential Market")

	ctx := context.Background()

	// Initialize PostgreSQL pool
	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()
	log.Info().Msg("PostgreSQL connected")

	// Initialize Redis client
	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()
	log.Info().Msg("Redis connected")

	// Initialize repositories
	userRepo := pgStorage.NewUserRepo(pool)
	goodRepo := pgStorage.NewGoodRepo(pool)
	purchaseRepo := pgStorage.NewPurchaseRepo(pool)
	gameRepo := pgStorage.NewGameRepo(pool)
	reviewRepo := pgStorage.NewReviewRepo(pool)
	transactor := pgStorage.NewTransactor(pool)

	// Initialize Redis stores
	catalogCache := redisStorage.NewCatalogCache(rdb)
	rateLimitStore := redisStorage.NewRateLimitStore(rdb)

	// Initialize core services
	hashSvc := service.NewArgon2HashService()
	tokenSvc := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)

	// Initialize business services
	ledgerSvc := service.NewLedgerService(userRepo, log)
	purchaseSvc := service.NewPurchaseService(
		goodRepo,
		userRepo,
		purchaseRepo,
		ledgerSvc,
		catalogCache,
		transactor,
		log,
	)
	catalogSvc := service.NewCatalogService(
		goodRepo,
		gameRepo,
		userRepo,
		purchaseRepo,
		catalogCache,
		transactor,
		log,
	)
	authSvc := service.NewAuthService(userRepo, hashSvc, tokenSvc)
	accountSvc := service.NewAccountService(userRepo, goodRepo, ledgerSvc, transactor, log)
	reportingSvc := service.NewReportingService(purchaseRepo, userRepo)
	reviewSvc := service.NewReviewService(reviewRepo, purchaseRepo, log)

	// Initialize health checkers
	pgHealth := pgStorage.NewHealthCheck(pool)
	redisHealth := redisStorage.NewHealthCheck(rdb)

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		AuthSvc:        authSvc,
		PurchaseSvc:    purchaseSvc,
		CatalogSvc:     catalogSvc,
		AccountSvc:     accountSvc,
		ReportingSvc:   reportingSvc,
		ReviewSvc:      reviewSvc,
		TokenSvc:       tokenSvc,
		RateLimitStore: rateLimitStore,
		HealthCheckers: []ports.HealthChecker{pgHealth, redisHealth},
		Logger:         log,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
