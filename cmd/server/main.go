// Package main is the entry point for the gift card ledger API server.
// It loads configuration, selects the storage backend, wires services and
// starts the HTTP server.
package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/rs/zerolog"

	"cardvault/internal/config"
	"cardvault/internal/repositories"
	"cardvault/internal/repositories/cache"
	"cardvault/internal/repositories/memory"
	"cardvault/internal/repositories/postgres"
	"cardvault/internal/routes"
	"cardvault/internal/services/giftcard"
)

func main() {
	config.LoadEnv()
	cfg := config.Load()

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if !cfg.IsProduction() {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	}

	var store repositories.Store
	switch cfg.StorageBackend {
	case config.StoragePostgres:
		pg, err := postgres.Open(cfg.PostgresDSN)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to open postgres store")
		}
		store = pg
		logger.Info().Msg("using postgres store")
	default:
		store = memory.NewStore()
		logger.Info().Msg("using in-memory store")
	}

	var cardCache giftcard.Cache = cache.Noop{}
	if cfg.RedisAddr != "" {
		client := cache.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		cardCache = cache.NewGiftCardCache(client, 0)
		logger.Info().Str("addr", cfg.RedisAddr).Msg("gift card cache enabled")
	}

	app := fiber.New()
	app.Use(cors.New())
	app.Use(fiberlogger.New())
	app.Use(limiter.New(limiter.Config{
		Max:        300,
		Expiration: time.Minute,
	}))

	routes.SetupRoutes(app, routes.Deps{
		Store:     store,
		Cache:     cardCache,
		JWTSecret: cfg.JWTSecret,
		Logger:    logger,
	})

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			logger.Fatal().Err(err).Msg("server stopped")
		}
	}()
	logger.Info().Str("port", cfg.Port).Msg("server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down")
	if err := app.Shutdown(); err != nil {
		logger.Error().Err(err).Msg("shutdown error")
	}
}
