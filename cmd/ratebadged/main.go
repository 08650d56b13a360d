package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmfields/ratebadge/internal/cache"
	"github.com/jmfields/ratebadge/internal/config"
	"github.com/jmfields/ratebadge/internal/imdb"
	"github.com/jmfields/ratebadge/internal/log"
	"github.com/jmfields/ratebadge/internal/match"
	"github.com/jmfields/ratebadge/internal/resolver"
	"github.com/jmfields/ratebadge/internal/scheduler"
	"github.com/jmfields/ratebadge/internal/server"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	var showVersion bool
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.Parse()

	if showVersion {
		fmt.Printf("ratebadged %s\n", Version)
		return
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := log.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = log.NullLogger()
	}
	slog.SetDefault(logger)

	logger.Info("starting ratebadged", "version", Version, "listen", cfg.Server.Listen)

	store := cache.NewStore(cfg.Cache.Dir, time.Duration(cfg.Cache.MaxAgeDays)*24*time.Hour, logger)
	defer store.Close()

	sched := scheduler.New(scheduler.Config{
		MaxConcurrent: cfg.Limits.MaxConcurrent,
		MinSpacing:    time.Duration(cfg.Limits.RequestDelayMS) * time.Millisecond,
		WindowCap:     cfg.Limits.WindowCap,
	}, logger)
	defer sched.Close()

	client := imdb.NewClient(cfg.Search.BaseURL, logger)
	selector := match.NewSelector(cfg.Matching.MinScore)
	svc := resolver.NewService(client, store, sched, selector, logger)

	api := server.New(svc, logger)
	httpServer := &http.Server{
		Addr:    cfg.Server.Listen,
		Handler: api.Routes(),
	}

	errCh := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server error: %w", err)
	case sig := <-sigCh:
		logger.Info("shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown error: %w", err)
	}

	return nil
}
