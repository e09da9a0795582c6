package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"fintrack/internal/config"
	"fintrack/internal/log"
	"fintrack/internal/services"
	"fintrack/internal/storage"
)

// Rollover clones this month's recurring budgets into next month. Run it
// from cron near the end of the month; a second run is a no-op once the
// next period has any budgets.
func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	// Setup structured logging
	logger := log.New(log.Config{Level: slog.LevelInfo, Component: "rollover"})
	log.SetDefault(logger)

	// Load configuration
	cfg := config.Load()

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	// Initialize SQLite repository
	repo, err := storage.NewRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	budgets := services.NewBudgets(repo)

	created, err := budgets.Rollover(ctx, time.Now())
	if err != nil {
		logger.Error("Budget rollover failed", "error", err)
		os.Exit(1)
	}

	if len(created) == 0 {
		logger.Info("No budgets rolled over - next period already populated or nothing recurring")
		return
	}

	for _, b := range created {
		logger.Info("Rolled over budget", "category", b.Category, "period", b.Period().String(), "amount", b.Amount)
	}
	logger.Info("Budget rollover complete", "created", len(created))
}
