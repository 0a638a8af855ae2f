package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/rentrackhq/rentrack-backend/api/controllers"
	"github.com/rentrackhq/rentrack-backend/api/routes"
	"github.com/rentrackhq/rentrack-backend/internal/subscriptions"
	"github.com/rentrackhq/rentrack-backend/pkg/config"
	"github.com/rentrackhq/rentrack-backend/pkg/db"
	"github.com/rentrackhq/rentrack-backend/pkg/logger"
	"github.com/rentrackhq/rentrack-backend/pkg/migrate"
	"github.com/rentrackhq/rentrack-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}

	subscriptionService := subscriptions.NewService(
		dbClient.DB(),
		redisClient,
		cfg.Subscription.CountCacheTTL,
		logg,
	)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	handler := routes.NewRouter(
		cfg,
		logg,
		dbClient.DB(),
		map[string]controllers.Pinger{"database": dbClient, "redis": redisClient},
		subscriptionService,
		registry,
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	stop, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	select {
	case err, ok := <-errCh:
		if ok && err != nil {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			cleanup(ctx, logg, dbClient, redisClient)
			os.Exit(1)
		}
	case <-stop.Done():
		logg.Info(ctx, "shutdown signal received")
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logg.Error(ctx, "error shutting down server", err)
	}
	cleanup(ctx, logg, dbClient, redisClient)
	logg.Info(ctx, "api server stopped")
}

func cleanup(ctx context.Context, logg *logger.Logger, dbClient *db.Client, redisClient *redis.Client) {
	err := multierr.Combine(dbClient.Close(), redisClient.Close())
	if err != nil {
		logg.Error(ctx, "error closing dependencies", err)
	}
}
