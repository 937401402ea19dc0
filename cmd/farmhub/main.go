package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"farmhub/internal/cli"
	apphttp "farmhub/internal/http"
	"farmhub/internal/loader"
	"farmhub/internal/log"
	"farmhub/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentApp, os.Getenv("LOG_LEVEL"))
	cfg := cli.LoadAndValidateConfig(logger)

	policy, err := services.ParseDeletePolicy(cfg.DeletePolicy)
	if err != nil {
		logger.Error("Invalid delete policy", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	result := cli.InitBackend(ctx, logger, cfg)

	// a nil *amqp.Client must not end up inside the interface
	var publisher services.Publisher
	amqpClient := cli.InitPublisher(logger, cfg)
	if amqpClient != nil {
		publisher = amqpClient
	}

	svc := services.New(result.Repository, publisher, policy)
	ld := loader.New(result.Repository)
	if _, err := ld.Refresh(ctx); err != nil {
		// readiness reports it; the first request retries
		logger.Warn("Initial snapshot load failed", "error", err)
	}

	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Deps{
		Services: svc,
		Loader:   ld,
		Logger:   logger.WithComponent(log.ComponentHTTP),
	}, apphttp.Options{
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		CacheTTL:           cfg.CacheTTL,
		AllowedOrigins:     cfg.AllowedOrigins,
	})

	shutdownCtx, done := cli.GracefulShutdown(logger, 30*time.Second, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		if amqpClient != nil {
			if err := amqpClient.Close(); err != nil {
				logger.Error("AMQP close error", "error", err)
			}
		}
		if result.Cleanup != nil {
			if err := result.Cleanup(); err != nil {
				logger.Error("Backend cleanup error", "error", err)
			}
		}
	})

	logger.Info("Starting farmhub server",
		"port", cfg.Port,
		"backend", cfg.DataBackend,
		"delete_policy", string(policy))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(shutdownCtx, done)
	logger.Info("Server stopped gracefully")
}
