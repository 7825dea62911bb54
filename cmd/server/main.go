package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/jengzang/trails-backend-go/internal/analysis"
	"github.com/jengzang/trails-backend-go/internal/api"
	"github.com/jengzang/trails-backend-go/internal/config"
	"github.com/jengzang/trails-backend-go/internal/database"
	"github.com/jengzang/trails-backend-go/internal/handler"
	"github.com/jengzang/trails-backend-go/internal/logger"
	"github.com/jengzang/trails-backend-go/internal/middleware"
	"github.com/jengzang/trails-backend-go/internal/repository"
	"github.com/jengzang/trails-backend-go/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	// Open database
	db, err := database.Open(database.Config{Path: cfg.DBPath}, log)
	if err != nil {
		log.Fatal("failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	trailRepo := repository.NewTrailRepository(db)
	jobRepo := repository.NewImportJobRepository(db)

	trailService := service.NewTrailService(trailRepo, analysis.Options{SegmentLengthKm: cfg.SegmentLengthKm}, log)
	importService := service.NewImportService(trailService, trailRepo, jobRepo, cfg.ImportWorkers, log)

	limiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute, time.Minute)
	defer limiter.Stop()

	// Set up routes
	router := api.SetupRouter(cfg, log, api.Handlers{
		Trails:  handler.NewTrailHandler(trailService),
		Imports: handler.NewImportHandler(importService, cfg.TrailFilesDir),
	}, limiter)

	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced shutdown", zap.Error(err))
	}

	// Let running imports finish writing their progress
	importService.Wait()
	log.Info("server stopped")
}
