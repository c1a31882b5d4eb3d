package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/erazemk/gripcheck/internal/api"
	"github.com/erazemk/gripcheck/internal/assistant"
	"github.com/erazemk/gripcheck/internal/config"
	"github.com/erazemk/gripcheck/internal/notify"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			return serve(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config) error {
	feed := notify.NewFeed(cfg.Notifications.DismissAfter)
	svc, err := openServices(ctx, cfg, notify.Fanout{feed, notify.Log{}})
	if err != nil {
		return err
	}
	defer svc.close()

	deps := api.Deps{
		Engine:     svc.engine,
		Crew:       svc.crew,
		Company:    svc.company,
		Feed:       feed,
		Validator:  svc.validator,
		Dispatcher: assistant.NewDispatcher(svc.engine, svc.crew),
		RateLimit:  rate.Limit(cfg.Server.RateLimitPerSec),
		RateBurst:  cfg.Server.RateLimitBurst,
	}
	if err := wireAssistant(ctx, cfg.Assistant, &deps); err != nil {
		return err
	}

	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           api.LoggingMiddleware(api.NewRouter(deps)),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	go func() {
		sig := <-quit
		slog.Info("shutdown signal received", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			slog.Error("server forced to shutdown", "error", err)
		}
	}()

	if !svc.company.Configured() {
		slog.Warn("company not configured, API answers 428 until POST /api/company or gripcheck init")
	}

	slog.Info("server started", "addr", cfg.Server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("serving: %w", err)
	}

	slog.Info("server stopped, closing storage")
	return nil
}

// wireAssistant connects chat, image generation and voice to Gemini. With
// no API key the assistant routes answer 503 and everything else works.
func wireAssistant(ctx context.Context, cfg config.AssistantConfig, deps *api.Deps) error {
	if cfg.APIKey == "" {
		slog.Warn("no Gemini API key, assistant disabled")
		return nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return fmt.Errorf("creating Gemini client: %w", err)
	}

	deps.Chat = assistant.NewChat(client.Models, cfg.ChatModel, cfg.Temperature, deps.Dispatcher, deps.Engine.List)
	deps.Images = assistant.NewImageGenerator(client.Models, cfg.ImageModel)
	deps.Voice = assistant.NewVoice(assistant.GenaiLive{Live: client.Live, Model: cfg.VoiceModel}, deps.Dispatcher, nil)
	slog.Info("assistant enabled", "chat_model", cfg.ChatModel, "voice_model", cfg.VoiceModel)
	return nil
}
