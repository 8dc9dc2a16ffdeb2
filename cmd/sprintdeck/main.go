package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/sprintdeck/sprintdeck/internal/api"
	"github.com/sprintdeck/sprintdeck/internal/config"
	"github.com/sprintdeck/sprintdeck/internal/health"
	"github.com/sprintdeck/sprintdeck/internal/metrics"
	"github.com/sprintdeck/sprintdeck/internal/seed"
	"github.com/sprintdeck/sprintdeck/internal/store"
	"github.com/sprintdeck/sprintdeck/internal/ws"
)

func main() {
	// Setup structured logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	logger := zerolog.New(os.Stdout).With().Timestamp().Caller().Logger()

	if os.Getenv("ENVIRONMENT") == "development" || os.Getenv("ENVIRONMENT") == "" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	log.Logger = logger

	// .env is optional; env vars win
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg("no .env file loaded")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	logger.Info().
		Str("environment", cfg.Environment).
		Int("http_port", cfg.HTTPPort).
		Str("store_driver", cfg.StoreDriver).
		Msg("starting sprintdeck")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	checker := health.NewChecker(logger)

	// Storage backend
	var st store.Store
	switch cfg.StoreDriver {
	case config.DriverMemory:
		st = store.NewMemory(logger)
	default:
		gs, err := store.OpenGorm(cfg.StoreDriver, cfg.StoreDSN, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to open store")
		}
		checker.Register("store", func(ctx context.Context) health.Status {
			if err := gs.Ping(ctx); err != nil {
				return health.StatusDown
			}
			return health.StatusOK
		})
		st = gs
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Error().Err(err).Msg("store close error")
		}
	}()

	// Seed data
	if err := seed.EnsureDefaultUser(ctx, st); err != nil {
		logger.Fatal().Err(err).Msg("failed to create default user")
	}
	if cfg.SeedFile != "" {
		data, err := seed.Load(cfg.SeedFile)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to load seed file")
		}
		if err := seed.Apply(ctx, st, data, logger); err != nil {
			logger.Fatal().Err(err).Msg("failed to apply seed data")
		}
	}

	metricsCollector := metrics.New()
	hub := ws.NewHub(cfg.WSSendBuffer, metricsCollector, logger)

	server := api.NewServer(api.ServerConfig{
		ListenAddr:  fmt.Sprintf(":%d", cfg.HTTPPort),
		CORSOrigins: cfg.CORSOrigins,
	}, st, hub, checker, metricsCollector, logger)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := server.Start(); err != nil {
			logger.Error().Err(err).Msg("API server error")
		}
	}()

	sig := <-sigCh
	logger.Info().Str("signal", sig.String()).Msg("shutting down gracefully")

	cancel()

	if err := server.Shutdown(); err != nil {
		logger.Error().Err(err).Msg("API server shutdown error")
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logger.Info().Msg("all goroutines stopped")
	case <-time.After(10 * time.Second):
		logger.Warn().Msg("forced shutdown after timeout")
	}

	logger.Info().Msg("sprintdeck stopped")
}
