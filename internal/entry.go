// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/quill/internal/api"
	"github.com/starford/quill/internal/mcpserver"
	"github.com/starford/quill/internal/noteservice"
	"github.com/starford/quill/internal/sse"
	"github.com/starford/quill/internal/watch"
)

// NewNoteService builds the query service for the configured workspaces.
func NewNoteService(cfg *Config) *noteservice.Service {
	return noteservice.NewService(cfg.Workspace.Layout(), cfg.Workspace.Roots, cfg.Workspace.Keys())
}

// NewHandler builds the HTTP handler: health checks plus the API mounted
// under /api. broker may be nil, in which case /api/events is not served.
func NewHandler(cfg *Config, svc *noteservice.Service, broker *sse.Broker) http.Handler {
	var events http.Handler
	if broker != nil {
		events = broker
	}
	apiRouter := api.NewRouter(svc, cfg.Auth.AuthEnabled(), cfg.Auth.Token, events)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		for _, root := range svc.Roots() {
			if info, err := os.Stat(root); err != nil || !info.IsDir() {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte(`{"status":"workspace unavailable"}`))
				return
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Mount("/api", apiRouter)
	return r
}

// Run starts the HTTP server with the given options and blocks until a
// shutdown signal arrives or ctx is cancelled.
func Run(ctx context.Context, opts ...Option) error {
	app := newApplication(opts)
	if app.config == nil {
		return fmt.Errorf("config is required")
	}
	cfg := app.config

	logger := slog.New(slog.NewJSONHandler(app.logOutput, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.Any("workspaces", cfg.Workspace.Roots),
		slog.Bool("watch", cfg.Watch.Enabled),
		slog.String("log_level", cfg.App.LogLevel.String()))

	svc := NewNoteService(cfg)

	var broker *sse.Broker
	var watchers []*watch.Watcher
	if cfg.Watch.Enabled {
		broker = sse.NewBroker(cfg.Watch.GroupsThrottle)
		defer broker.Close()

		for _, root := range svc.Roots() {
			w, err := watch.New(root, cfg.Workspace.Layout(), logger)
			if err != nil {
				return fmt.Errorf("init watcher for %s: %w", root, err)
			}
			watchers = append(watchers, w)
		}
	}

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: NewHandler(cfg, svc, broker),
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	ctx, stop := context.WithCancel(ctx)
	defer stop()
	g, gCtx := errgroup.WithContext(ctx)

	for _, w := range watchers {
		g.Go(func() error {
			if err := w.Watch(gCtx, broker.PublishNoteEvent); err != nil {
				return fmt.Errorf("watch %s: %w", w.Root(), err)
			}
			return nil
		})
	}

	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")
		// Stops the watchers.
		stop()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// ServeMCP runs the MCP server on stdin/stdout until the client disconnects.
func ServeMCP(opts ...Option) error {
	app := newApplication(append([]Option{WithLogOutput(os.Stderr)}, opts...))
	if app.config == nil {
		return fmt.Errorf("config is required")
	}
	cfg := app.config

	logger := slog.New(slog.NewJSONHandler(app.logOutput, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)
	logger.Info("MCP server starting", slog.Any("workspaces", cfg.Workspace.Roots))

	return mcpserver.New(NewNoteService(cfg), app.version).ServeStdio()
}
