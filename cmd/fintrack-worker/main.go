package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"fintrack/internal/amqp"
	"fintrack/internal/config"
	"fintrack/internal/log"
	"fintrack/internal/merchant"
	"fintrack/internal/services"
	"fintrack/internal/storage"
	"fintrack/internal/worker"
)

// rescanInterval drives the periodic full-table sweep that picks up raw
// merchant names whose queued suggestion request was lost.
const rescanInterval = 6 * time.Hour

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	// Setup structured logging
	logger := log.New(log.Config{Level: slog.LevelInfo, Component: log.ComponentWorker})
	log.SetDefault(logger)

	logger.Info("Starting fintrack-worker")

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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize Gemini suggester (optional - falls back to heuristic cleanup)
	var suggester services.MappingSuggester
	if cfg.GeminiAPIKey != "" {
		s, err := merchant.NewSuggester(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.Categories)
		if err != nil {
			logger.Error("Failed to initialize Gemini suggester", "error", err)
			os.Exit(1)
		}
		suggester = s
		logger.Info("Gemini suggester initialized", "model", cfg.GeminiModel)
	} else {
		logger.Info("Gemini disabled - merchant names will be cleaned heuristically")
	}

	merchants := services.NewMerchants(repo, suggester)
	suggestWorker := worker.NewSuggestWorker(merchants, repo, cfg.SuggestBatchSize)

	// Process any raw names that accumulated while the worker was down
	logger.Info("Running initial unmapped merchant scan...")
	if err := suggestWorker.ProcessUnmappedMerchants(ctx); err != nil {
		logger.Error("Initial merchant scan failed", "error", err)
	}

	// Handle shutdown signals
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())
		cancel()
	}()

	g, gctx := errgroup.WithContext(ctx)

	// Consume suggestion requests published by the API server
	if cfg.AMQPURL != "" {
		g.Go(func() error {
			return amqp.ConsumeWithReconnect(gctx, cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, func(msg *amqp.MerchantSuggestMessage) error {
				handleCtx, handleCancel := context.WithTimeout(gctx, cfg.SuggestTimeout)
				defer handleCancel()
				return suggestWorker.HandleSuggestMessage(handleCtx, msg)
			})
		})
	} else {
		logger.Info("AMQP disabled - relying on periodic scans only")
	}

	// Periodic sweep for names the queue missed
	g.Go(func() error {
		ticker := time.NewTicker(rescanInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case <-ticker.C:
				if err := suggestWorker.ProcessUnmappedMerchants(gctx); err != nil {
					logger.Error("Periodic merchant scan failed", "error", err)
				}
			}
		}
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		logger.Error("Worker error", "error", err)
		os.Exit(1)
	}

	logger.Info("Fintrack-worker shutdown complete")
}
