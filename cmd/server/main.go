package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dgallion1/replout/internal/api"
	"github.com/dgallion1/replout/internal/config"
	"github.com/dgallion1/replout/internal/highlight"
	"github.com/dgallion1/replout/internal/stats"
	"github.com/dgallion1/replout/internal/transform"
)

func main() {
	cfg := config.Load()
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize the highlighter.
	chroma, err := highlight.NewChroma(cfg.HighlightLanguage, cfg.HighlightStyle, cfg.HighlightFormatter, log)
	if err != nil {
		log.Error("invalid highlighter settings", "error", err)
		os.Exit(1)
	}
	hl, err := highlight.NewCached(chroma, cfg.HighlightCacheSize)
	if err != nil {
		log.Error("highlight cache", "error", err)
		os.Exit(1)
	}

	tr := transform.New(transform.Config{
		Highlighter: hl,
		Resolver:    transform.FileResolver{Extensions: cfg.SourceExtensions},
		Log:         log,
	})

	// Initialize HTTP server.
	srv := api.NewServer(tr, stats.NewLatency(cfg.StatsWindow), log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting replout", "port", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// Graceful shutdown.
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
