package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	httpAdapter "github.com/iho/bankbook/internal/adapter/http"
	"github.com/iho/bankbook/internal/adapter/http/handler"
	postgresRepo "github.com/iho/bankbook/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/bankbook/internal/adapter/repository/redis"
	"github.com/iho/bankbook/internal/infrastructure/auth"
	"github.com/iho/bankbook/internal/infrastructure/config"
	"github.com/iho/bankbook/internal/infrastructure/logger"
	"github.com/iho/bankbook/internal/infrastructure/metrics"
	"github.com/iho/bankbook/internal/infrastructure/postgres"
	"github.com/iho/bankbook/internal/infrastructure/redis"
	"github.com/iho/bankbook/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup logger
	appLogger := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	log.Logger = appLogger

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET must be set")
	}

	ctx := context.Background()

	// Run migrations
	if err := postgres.RunMigrations(cfg.DatabaseURL, resolveMigrationsPath()); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}
	log.Info().Msg("migrations applied")

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	userRepo := postgresRepo.NewUserRepository(pool)
	accountRepo := postgresRepo.NewAccountRepository(pool)
	txnRepo := postgresRepo.NewTransactionRepository(pool)
	cache := redisRepo.NewCache(redisClient)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	idGen := postgresRepo.NewULIDGenerator()
	retrier := postgresRepo.NewRetrier()

	// Initialize auth
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)
	hasher := auth.NewBcryptHasher(cfg.BcryptCost)

	// Initialize use cases
	userUC := usecase.NewUserUseCase(userRepo, hasher, idGen, cache)
	accountUC := usecase.NewAccountUseCase(txManager, accountRepo, txnRepo, idGen)
	txnUC := usecase.NewTransactionUseCase(txManager, accountUC, txnRepo, idGen, retrier)
	transferUC := usecase.NewTransferUseCase(txnUC)

	// Initialize metrics
	m := metrics.New()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(userUC, jwtManager, m)
	accountHandler := handler.NewAccountHandler(accountUC, m)
	txnHandler := handler.NewTransactionHandler(txnUC, m)
	transferHandler := handler.NewTransferHandler(transferUC, m)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AuthHandler:        authHandler,
		AccountHandler:     accountHandler,
		TransactionHandler: txnHandler,
		TransferHandler:    transferHandler,
		HealthHandler:      healthHandler,
		JWTManager:         jwtManager,
		Metrics:            m,
		IdempotencyStore:   idempotencyStore,
		Logger:             appLogger,
	})

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

func resolveMigrationsPath() string {
	if path := os.Getenv("MIGRATIONS_PATH"); path != "" {
		return path
	}
	return "file://migrations"
}
