package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/hearthline/rekindle/internal/api"
	"github.com/hearthline/rekindle/internal/config"
	"github.com/hearthline/rekindle/internal/imessage"
	"github.com/hearthline/rekindle/internal/processor"
	"github.com/hearthline/rekindle/internal/prompter"
	"github.com/hearthline/rekindle/internal/relay"
	"github.com/hearthline/rekindle/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	setupLogging(cfg.LogLevel)

	slog.Info("rekindle starting", "port", cfg.Port)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	if cfg.DatabaseURL == "" {
		slog.Error("DATABASE_URL is required")
		os.Exit(1)
	}
	db, err := store.New(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("database connected")

	// Prompter (degrades to template prompts without an API key)
	prompt := prompter.New(
		cfg.OpenAIAPIKey,
		cfg.OpenAIModel,
		cfg.OpenAIMaxTokens,
		float32(cfg.OpenAITemperature),
		slog.Default(),
	)
	slog.Info("prompter ready", "model", cfg.OpenAIModel)

	// NATS relay
	relayClient, err := relay.NewClient(cfg.NatsURL, cfg.NatsToken, slog.Default())
	if err != nil {
		slog.Error("failed to connect to NATS", "error", err)
		os.Exit(1)
	}
	defer relayClient.Close()
	slog.Info("NATS connected", "url", cfg.NatsURL)

	// iMessage bridge (optional — uploads work without it, just no sync)
	var bridge processor.BridgeClient
	if cfg.BridgeURL != "" {
		bridge = imessage.NewClient(cfg.BridgeURL, cfg.BridgeAPIKey, slog.Default())
		slog.Info("bridge client ready", "url", cfg.BridgeURL)
	} else {
		slog.Warn("bridge not configured — running without iMessage sync")
	}

	// Processor — the main pipeline
	proc := processor.New(db, prompt, relayClient, bridge, slog.Default())

	// Subscribe to bridge message events for per-chat re-sync
	if bridge != nil {
		if err := relayClient.Subscribe(relay.SubjectBridgeMessage, proc.HandleBridgeMessage); err != nil {
			slog.Error("failed to subscribe to bridge events", "error", err)
			os.Exit(1)
		}
	}

	// HTTP API
	srv := api.NewServer(cfg.Port, cfg.APIToken, db, proc, slog.Default())
	go func() {
		if err := srv.Start(); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	// Announce startup
	if err := relayClient.Publish("rekindle.service.started", map[string]any{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"port":      cfg.Port,
	}); err != nil {
		slog.Warn("failed to publish startup event", "error", err)
	}

	slog.Info("rekindle ready", "port", cfg.Port)

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	slog.Info("shutting down")
	cancel()
	slog.Info("rekindle stopped")
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
