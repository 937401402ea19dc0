package main

import (
	"context"
	"os"
	"time"

	"farmhub/internal/cli"
	"farmhub/internal/log"
	"farmhub/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentReminder, os.Getenv("LOG_LEVEL"))
	logger.Info("Starting farmhub-reminders")

	cfg := cli.LoadAndValidateConfig(logger)
	if err := cli.RequireSharedBackend(cfg); err != nil {
		logger.Error("Unsupported backend for reminders", "error", err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required to publish reminders")
		os.Exit(1)
	}

	result := cli.InitBackend(context.Background(), logger, cfg)
	amqpClient := cli.InitPublisher(logger, cfg)
	processor := services.NewReminderProcessor(result.Repository.Tasks(), amqpClient)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(context.Context) {
		if err := amqpClient.Close(); err != nil {
			logger.Error("AMQP close error", "error", err)
		}
		if result.Cleanup != nil {
			if err := result.Cleanup(); err != nil {
				logger.Error("Backend cleanup error", "error", err)
			}
		}
	})

	check := func() {
		n, err := processor.ProcessOverdue(ctx, time.Now())
		if err != nil {
			logger.Error("Overdue check failed", "error", err)
			return
		}
		if n > 0 {
			logger.Info("Published overdue reminders", "count", n)
		}
	}

	check()
	go func() {
		ticker := time.NewTicker(cfg.ReminderInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				check()
			}
		}
	}()

	logger.Info("Reminder loop running", "interval", cfg.ReminderInterval)
	cli.WaitForShutdown(ctx, done)
	logger.Info("Reminders stopped")
}
