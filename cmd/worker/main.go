package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"github.com/reconova/reconova/internal/database"
	"github.com/reconova/reconova/internal/scan"
	"github.com/reconova/reconova/internal/scheduler"
	"github.com/reconova/reconova/internal/tasks"
	"github.com/reconova/reconova/pkg/config"
	"github.com/reconova/reconova/pkg/queue"
	"github.com/reconova/reconova/pkg/util"
)

func main() {
	// Load .env file
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := util.NewLogger(cfg.Server.Env)
	slog.SetDefault(logger)

	logger.Info("starting Reconova worker")

	// Connect to database
	db, err := database.Connect(&cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	// Scan execution pipeline
	store := scan.NewStore(db)
	runner := scan.NewRunner(cfg.Scan.Timeout(), logger)
	analyzer := scan.NewAnalysisClient(&cfg.Analysis)
	orchestrator := scan.NewOrchestrator(store, runner, analyzer, logger)

	// Asynq client for the ticker to enqueue scheduled scans
	asynqClient := queue.NewClient(&cfg.Redis)
	enqueuer := tasks.NewEnqueuer(orchestrator, asynqClient, logger)

	// Create Asynq server
	srv := queue.NewServer(&cfg.Redis, 10)

	// Register task handlers
	handler := tasks.NewHandler(orchestrator, logger)
	mux := asynq.NewServeMux()
	handler.RegisterHandlers(mux)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Schedule ticker fires due scheduled scans once a minute
	ticker := scheduler.NewTicker(store, enqueuer, cfg.Scheduler.TickInterval(), logger)
	go ticker.Run(ctx)

	// Plan expiry reaper downgrades users whose paid window has passed
	reaper, err := scheduler.NewReaper(store, cfg.Scheduler.ReaperCron, logger)
	if err != nil {
		logger.Error("invalid reaper schedule", "error", err)
		os.Exit(1)
	}
	go reaper.Run(ctx)

	// Handle shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		logger.Info("shutting down worker...")
		srv.Shutdown()
		cancel()
	}()

	logger.Info("worker started, waiting for tasks...")

	// Start the server
	if err := srv.Run(mux); err != nil {
		logger.Error("worker error", "error", err)
	}

	// Wait for context cancellation
	<-ctx.Done()

	asynqClient.Close()

	sqlDB, _ := db.DB()
	sqlDB.Close()

	logger.Info("worker stopped")
}
