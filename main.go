package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/tabletalk-ai/tabletalk/config"
	"github.com/tabletalk-ai/tabletalk/dialogue"
	"github.com/tabletalk-ai/tabletalk/nlu"
	"github.com/tabletalk-ai/tabletalk/server"
	"github.com/tabletalk-ai/tabletalk/store"
	"github.com/tabletalk-ai/tabletalk/weather"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := newLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	// Redis is a best-effort mirror; the stores run from memory without it.
	rdb := store.ConnectRedis(cfg.RedisAddr, cfg.RedisPassword, logger)

	bookings := store.NewBookings(rdb, logger)
	conversations := store.NewConversations(cfg.MaxConversations, cfg.ConversationTimeout, rdb, logger)

	// Both upstreams are optional: without a Gemini key every turn uses the
	// fallback parser, without a weather key all weather is synthetic.
	var completer nlu.Completer
	if cfg.GeminiAPIKey != "" {
		gemini, err := nlu.NewGemini(context.Background(), cfg.GeminiAPIKey)
		if err != nil {
			logger.Warn("Gemini unavailable, falling back to rule-based parsing", zap.Error(err))
		} else {
			completer = gemini
		}
	} else {
		logger.Info("GEMINI_API_KEY not set, using rule-based parsing only")
	}

	var source weather.Source
	if cfg.OpenWeatherAPIKey != "" {
		source = weather.NewOpenWeather(cfg.OpenWeatherAPIKey)
	} else {
		logger.Info("OPENWEATHER_API_KEY not set, using synthetic weather")
	}

	engine := dialogue.New(
		nlu.NewAdapter(completer, logger),
		weather.NewResolver(source, logger),
		bookings,
		logger,
	)

	// Start cleanup routine
	ctx, cancel := context.WithCancel(context.Background())
	go conversations.StartCleanupRoutine(ctx)

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	switch cfg.ServerType {
	case "http":
		srv := server.NewAPI(cfg, engine, conversations, bookings, logger)

		go func() {
			<-sigChan
			logger.Info("received shutdown signal")
			cancel()
			conversations.Shutdown()
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer shutdownCancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("server shutdown error", zap.Error(err))
			}
		}()

		if err := srv.Start(); err != nil && err.Error() != "http: Server closed" {
			logger.Fatal("server error", zap.Error(err))
		}

	case "websocket":
		wsSrv := server.NewWS(cfg, engine, conversations, logger)

		go func() {
			<-sigChan
			logger.Info("received shutdown signal")
			cancel()
			conversations.Shutdown()
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer shutdownCancel()
			if err := wsSrv.Shutdown(shutdownCtx); err != nil {
				logger.Error("websocket server shutdown error", zap.Error(err))
			}
		}()

		if err := wsSrv.Start(); err != nil && err.Error() != "http: Server closed" {
			logger.Fatal("websocket server error", zap.Error(err))
		}

	case "both":
		srv := server.NewAPI(cfg, engine, conversations, bookings, logger)
		wsSrv := server.NewWS(cfg, engine, conversations, logger)

		go func() {
			<-sigChan
			logger.Info("received shutdown signal")
			cancel()
			conversations.Shutdown()
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer shutdownCancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("server shutdown error", zap.Error(err))
			}
			if err := wsSrv.Shutdown(shutdownCtx); err != nil {
				logger.Error("websocket server shutdown error", zap.Error(err))
			}
		}()

		// Start WebSocket server in background
		go func() {
			if err := wsSrv.Start(); err != nil && err.Error() != "http: Server closed" {
				logger.Fatal("websocket server error", zap.Error(err))
			}
		}()

		// Start HTTP API (blocks)
		if err := srv.Start(); err != nil && err.Error() != "http: Server closed" {
			logger.Fatal("server error", zap.Error(err))
		}

	default:
		logger.Fatal("unknown SERVER_TYPE", zap.String("serverType", cfg.ServerType))
	}

	logger.Info("server stopped")
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
