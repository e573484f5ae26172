// Command api serves an enriched roster dataset over HTTP.
//
// Usage:
//
//	DATASET_PATH=data/quotazioni_enriched.csv fantalink-api
//	API_PORT=8080 DATASET_PATH=... fantalink-api

// @title Fantalink Roster API
// @version 1.0.0
// @description API over an enriched fantasy-football roster: player quotations merged with season statistics.
// @host localhost:8000
// @BasePath /api/v1
// @schemes http https
// @license.name MIT
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"

	_ "github.com/fantalink/fantalink-data/docs" // swagger docs
	"github.com/fantalink/fantalink-data/internal/api"
	"github.com/fantalink/fantalink-data/internal/cache"
	"github.com/fantalink/fantalink-data/internal/config"
	"github.com/fantalink/fantalink-data/internal/roster"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	// Load .env if present
	_ = godotenv.Load(".env")

	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if cfg.DatasetPath == "" {
		logger.Error("DATASET_PATH must be set")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	// Load the dataset once; mutations persist back to the same file.
	dataset, err := roster.LoadDataset(cfg.DatasetPath, cfg.DatasetDelimiter)
	if err != nil {
		logger.Error("Failed to load dataset", "error", err)
		os.Exit(1)
	}
	logger.Info("Dataset loaded", "path", cfg.DatasetPath, "players", dataset.Len())

	appCache := cache.New(cfg.CacheEnabled)
	logger.Info("Cache initialized", "enabled", cfg.CacheEnabled)

	router := api.NewRouter(dataset, appCache, cfg)

	addr := fmt.Sprintf("%s:%d", cfg.APIHost, cfg.APIPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Starting Fantalink Roster API",
			"addr", addr,
			"environment", cfg.Environment,
			"docs", fmt.Sprintf("http://localhost:%d/docs/", cfg.APIPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown error", "error", err)
	}
	logger.Info("Server stopped")
}
