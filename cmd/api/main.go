package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"figma-gpt/internal/config"
	"figma-gpt/internal/host"
	"figma-gpt/internal/http"
	"figma-gpt/internal/llm"
	"figma-gpt/internal/render"
	"figma-gpt/internal/service"
	"figma-gpt/internal/settings"
	"figma-gpt/internal/storage"
)

const (
	eventBuffer     = 64
	shutdownTimeout = 10 * time.Second
)

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	// Initialize database
	db, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slog.Info("Database initialized", "path", cfg.DBPath)

	ctx := context.Background()

	// Restore settings saved by the previous session
	settingsRepo := storage.NewSettingsRepo(db)
	initial, err := settingsRepo.LoadOrDefault(ctx, cfg.SettingsKey)
	if err != nil {
		log.Fatalf("Failed to load settings: %v", err)
	}
	if initial.APIKey == "" && cfg.OpenAIAPIKey != "" {
		initial.APIKey = cfg.OpenAIAPIKey
		slog.Info("Using API key from environment")
	}
	store := settings.NewStore(initial)
	slog.Info("Settings loaded", "key", cfg.SettingsKey, "messages", len(initial.ChatMessages))

	// Wire subscribers: UI mirror + resize, then debounced persistence
	bus := host.NewBus(eventBuffer, host.WindowSize{Width: cfg.UIWidth, Height: cfg.UIHeight})
	store.Subscribe(bus.SettingsChanged)
	persister := storage.NewPersister(settingsRepo, cfg.SettingsKey, cfg.PersistDebounce, bus.SettingsSaved)
	store.Subscribe(persister.SettingsChanged)

	// Create OpenAI client (external service layer)
	llmClient := llm.NewClient(cfg.OpenAIBaseURL, &nethttp.Client{Timeout: cfg.HTTPTimeout})

	completionRepo := storage.NewCompletionRepo(db)
	completions := service.NewCompletionService(store, llmClient, bus, completionRepo)

	// Create router with dependencies
	deps := &http.Deps{
		Store:       store,
		Completions: completions,
		Bus:         bus,
		Models:      llmClient,
		History:     completionRepo,
		DB:          db,
		Renderer:    render.NewRenderer(),
	}
	router := http.NewRouter(deps)

	// Start API server
	addr := ":" + cfg.APIPort
	server := &nethttp.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Starting API server", "addr", addr)
		slog.Debug("OpenAI configuration", "base_url", cfg.OpenAIBaseURL, "timeout", cfg.HTTPTimeout)
		errCh <- server.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			slog.Error("API server failed", "error", err)
		}
	case sig := <-sigCh:
		slog.Info("Shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
	}

	// Write any change still waiting for the debounce timer
	if err := persister.Flush(shutdownCtx); err != nil {
		slog.Error("Failed to save settings on shutdown", "error", err)
	} else {
		slog.Info("Settings saved", "key", cfg.SettingsKey)
	}
}
