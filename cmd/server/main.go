package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpAdapter "github.com/retiresim/retirecast/internal/adapter/http"
	"github.com/retiresim/retirecast/internal/adapter/http/handler"
	postgresRepo "github.com/retiresim/retirecast/internal/adapter/repository/postgres"
	redisRepo "github.com/retiresim/retirecast/internal/adapter/repository/redis"
	"github.com/retiresim/retirecast/internal/engine"
	"github.com/retiresim/retirecast/internal/infrastructure/config"
	"github.com/retiresim/retirecast/internal/infrastructure/logger"
	"github.com/retiresim/retirecast/internal/infrastructure/metrics"
	"github.com/retiresim/retirecast/internal/infrastructure/postgres"
	"github.com/retiresim/retirecast/internal/infrastructure/redis"
	"github.com/retiresim/retirecast/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Setup logger
	log := logger.New(logger.Config{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: "retirecast",
	})

	ctx := context.Background()

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Run migrations
	if err := postgres.RunMigrations(log, cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	// Initialize metrics
	m := metrics.New()

	// Initialize repositories
	retrier := postgresRepo.NewRetrier(log)
	scenarioRepo := postgresRepo.NewScenarioRepository(pool, retrier)
	runRepo := postgresRepo.NewSimulationRunRepository(pool, retrier)
	cache := redisRepo.NewCache(redisClient)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	idGen := postgresRepo.NewULIDGenerator()

	// Initialize use cases
	scenarioUC := usecase.NewScenarioUseCase(scenarioRepo, idGen, m)
	simulationUC := usecase.NewSimulationUseCase(scenarioRepo, runRepo, engine.NewSimulator(), cache, idGen, m)

	// Initialize handlers
	scenarioHandler := handler.NewScenarioHandler(scenarioUC)
	runHandler := handler.NewRunHandler(simulationUC)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		ScenarioHandler:  scenarioHandler,
		RunHandler:       runHandler,
		HealthHandler:    healthHandler,
		IdempotencyStore: idempotencyStore,
		Metrics:          m,
		Logger:           log,
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
