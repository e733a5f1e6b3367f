// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"earsip/internal/ai"
	"earsip/internal/handlers"
	"earsip/internal/router"
	"earsip/internal/session"
	"earsip/internal/store"
)

// pruneInterval is how often expired sessions are swept from SQL and
// in-memory stores.
const pruneInterval = 10 * time.Minute

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx)
		},
	}
}

func serve(ctx context.Context) error {
	rt, err := openRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.Close()
	cfg := rt.cfg

	// Session cookies are Secure outside development.
	sessionStore := session.NewStore(rt.kv, !cfg.IsDev())

	// Initialize the AI provider registry with all configured providers.
	aiRegistry := ai.NewRegistry(cfg.AIProvider, map[string]ai.ProviderConfig{
		ai.ProviderGemini: {APIKey: cfg.GeminiKey, Model: cfg.GeminiModel, BaseURL: cfg.GeminiBaseURL},
		ai.ProviderGenAI:  {APIKey: cfg.GeminiKey, Model: cfg.GeminiModel},
		ai.ProviderOpenAI: {APIKey: cfg.OpenAIKey, Model: cfg.OpenAIModel, BaseURL: cfg.OpenAIBaseURL},
	})
	slog.Info("ai providers initialized",
		"active", aiRegistry.ActiveName(),
		"available", aiRegistry.Available(),
	)

	assistant := ai.NewAssistant(aiRegistry, ai.Timeouts{
		Summarize: cfg.AISummaryTimeout,
		Suggest:   cfg.AISuggestTimeout,
		Chat:      cfg.AIChatTimeout,
	})

	var flusher handlers.CacheFlusher
	if rc := rt.responseCache(); rc != nil {
		assistant.WithCache(rc)
		flusher = rc
		slog.Info("ai response cache enabled", "ttl", cfg.AICacheTTL)
	}

	var backups handlers.BackupStorage
	if rt.backups != nil {
		backups = rt.backups
	}

	api := handlers.NewAPI(rt.app, assistant, aiRegistry, backups, flusher)
	authHandlers := handlers.NewAuth(rt.app, sessionStore)

	limiters := router.NewLimiters()
	defer limiters.Stop()
	r := router.New(sessionStore, api, authHandlers, limiters)

	if p, ok := rt.kv.(store.Pruner); ok {
		go pruneLoop(ctx, p)
	}

	// WriteTimeout must cover the longest AI call plus the response.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.AIChatTimeout + 30*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	}

	// Give active requests up to 30 seconds to complete.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}

// pruneLoop deletes expired keys until ctx is done.
func pruneLoop(ctx context.Context, p store.Pruner) {
	ticker := time.NewTicker(pruneInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := p.Prune(ctx)
			if err != nil {
				slog.Warn("prune expired keys", "error", err)
				continue
			}
			if n > 0 {
				slog.Debug("pruned expired keys", "count", n)
			}
		}
	}
}
