// Package main is the entry point for the backlog tracker API server.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"backlog-tracker/internal/config"
	"backlog-tracker/internal/handler"
	"backlog-tracker/internal/hltb"
	"backlog-tracker/internal/hours"
	"backlog-tracker/internal/metadata"
	"backlog-tracker/internal/pkg/cache"
	"backlog-tracker/internal/pkg/db"
	"backlog-tracker/internal/pkg/lock"
	"backlog-tracker/internal/repository"
	"backlog-tracker/internal/service"
	"backlog-tracker/internal/status"
)

func main() {
	// Configure zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// Load configuration
	cfg, err := config.Load("config")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log.Info().Msg("Configuration loaded successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	dbPool, err := db.NewPool(ctx, &cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer dbPool.Close()

	// Run database migrations
	if err := db.Migrate(ctx, dbPool.Pool); err != nil {
		log.Fatal().Err(err).Msg("Failed to run database migrations")
	}

	// Initialize repositories
	gameRepo := repository.NewGameRepository(dbPool.Pool)
	rankRepo := repository.NewStatusRankRepository(dbPool.Pool)
	metadataRepo := repository.NewMetadataRepository(dbPool.Pool)

	// Load the local reference dataset if one is configured
	var dataset hours.Dataset
	if cfg.Insights.HLTBPath != "" {
		ds, err := hltb.Load(cfg.Insights.HLTBPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.Insights.HLTBPath).Msg("Failed to load reference dataset")
		}
		dataset = ds
	}

	resolver := hours.NewResolver(dataset, metadataRepo, hours.Unit(cfg.Insights.HLTBUnit))

	// Initialize user lock and insights cache
	userLock := lock.NewUserLock()
	insightsCache := cache.New(cache.Config{
		TTL:            cfg.Insights.CacheTTL,
		MaxKeysPerUser: cfg.Insights.MaxKeysPerUser,
	}, nil)

	// Initialize services
	statusTable := status.NewDefaultTable()

	gameService := service.NewGameService(gameRepo, rankRepo, userLock)

	insightsService := service.NewInsightsService(
		gameRepo,
		rankRepo,
		resolver,
		statusTable,
		insightsCache,
		service.InsightsOptions{
			MaxWeeklyPace:    cfg.Insights.MaxWeeklyPace,
			PersistBatchSize: cfg.Insights.PersistBatchSize,
		},
		nil,
	)

	rawgClient := metadata.NewClient(cfg.RAWG.BaseURL, cfg.RAWG.APIKey, cfg.RAWG.Timeout)
	metadataService := service.NewMetadataService(gameRepo, rawgClient, metadataRepo)

	// Initialize HTTP server
	srv := handler.NewServer(
		handler.Config{
			AuthToken: cfg.Server.AuthToken,
			UserID:    cfg.Server.UserID,
		},
		gameService,
		insightsService,
		metadataService,
		dbPool,
		log.Logger,
	)

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      srv,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("Server is starting...")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	sig := <-sigChan
	log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
	} else {
		log.Info().Msg("Server stopped gracefully")
	}
}
