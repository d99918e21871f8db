package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"rental-tracker-backend/internal/app"
	"rental-tracker-backend/internal/config"
	"rental-tracker-backend/internal/jobs"
	"rental-tracker-backend/internal/logger"
	"rental-tracker-backend/internal/scheduler"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file (empty for environment only)")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'report-overdue-rentals', 'report-low-stock', 'all')")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Rental Tracker cronjob runner...", "log_level", cfg.Log.Level)
	if cfg.Storage.Type == config.StorageMemory {
		logger.Warn("Cronjob runner is using in-memory storage; reports will always be empty")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg)
	if err != nil {
		logger.Error("Failed to initialize application", "error", err)
		os.Exit(1)
	}
	defer application.Close()

	// Initialize Job Runner
	jobRunner := jobs.NewJobRunner(application.Rentals, application.Inventory, cfg, application.Today)

	// Check if running a single job
	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		if err := jobRunner.Run(*runOnce); err != nil {
			logger.Error("Job execution failed", "job", *runOnce, "error", err)
			fmt.Fprintf(os.Stderr, "Available jobs:\n  - %s\n  - all\n", strings.Join(jobRunner.Names(), "\n  - "))
			application.Close()
			os.Exit(1)
		}
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	// Initialize Scheduler
	cronScheduler, err := scheduler.NewScheduler(jobRunner, application.Location)
	if err != nil {
		logger.Error("Failed to initialize scheduler", "error", err)
		application.Close()
		os.Exit(1)
	}

	// Start scheduler
	cronScheduler.Start()
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.")

	<-ctx.Done()

	// Graceful shutdown
	logger.Info("Shutting down cronjob scheduler...")
	cronScheduler.Stop()
	logger.Info("Cronjob scheduler stopped. Goodbye!")
}
