package main

import (
	"context"
	"errors"
	"os"
	"time"

	"farmhub/internal/cli"
	"farmhub/internal/log"
	"farmhub/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentWorker, os.Getenv("LOG_LEVEL"))
	logger.Info("Starting farmhub-worker")

	cfg := cli.LoadAndValidateConfig(logger)
	if err := cli.RequireSharedBackend(cfg); err != nil {
		logger.Error("Unsupported backend for the ledger worker", "error", err)
		os.Exit(1)
	}

	startCtx := context.Background()
	result := cli.InitBackend(startCtx, logger, cfg)
	tracker, ok := result.Repository.(worker.SyncTracker)
	if !ok {
		logger.Error("Backend does not track ledger sync", "backend", cfg.DataBackend)
		os.Exit(1)
	}
	ledger := cli.InitLedger(startCtx, logger, cfg)
	ledgerWorker := worker.NewLedgerWorker(result.Repository, ledger, tracker, cfg.SyncBatchSize)

	// without AMQP the periodic sweep is the only sync path
	amqpClient := cli.InitPublisher(logger, cfg)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(context.Context) {
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

	logger.Info("Performing startup sync check...")
	if err := ledgerWorker.StartupSyncCheck(ctx); err != nil {
		// keep going; the periodic sweep retries
		logger.Error("Failed startup sync check", "error", err)
	}

	if amqpClient != nil {
		go func() {
			if err := amqpClient.Consume(ctx, ledgerWorker.HandleChange); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("Message consumption failed", "error", err)
			}
		}()
	}
	go ledgerWorker.Run(ctx, cfg.SyncInterval)

	logger.Info("Worker running",
		"sync_interval", cfg.SyncInterval,
		"batch_size", cfg.SyncBatchSize,
		"ledger_enabled", cfg.LedgerEnabled())
	cli.WaitForShutdown(ctx, done)
	logger.Info("Worker shutdown complete")
}
