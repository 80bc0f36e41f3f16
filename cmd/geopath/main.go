// Command geopath runs the incremental geodetic path planning service: it
// loads configuration, wires the elevation query collaborator, and serves
// the planning HTTP API until it receives a shutdown signal.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"geopath/internal/api"
	"geopath/pkg/config"
	"geopath/pkg/elevation"
	"geopath/pkg/logging"
	"geopath/pkg/planner"
)

var initConfig = flag.Bool("init-config", false, "Generate default config file and exit")

func main() {
	flag.Parse()

	if *initConfig {
		if err := config.Save("configs/geopath.yaml", config.DefaultConfig()); err != nil {
			fmt.Fprintf(os.Stderr, "failed to generate config: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("config file generated: configs/geopath.yaml")
		return
	}

	if err := run(context.Background(), "configs/geopath.yaml"); err != nil {
		fmt.Fprintf(os.Stderr, "critical error: application failed: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	cleanupLogs, err := logging.Init(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer cleanupLogs()

	queryURL := fmt.Sprintf("http://%s:%d/%s", cfg.Query.Host, cfg.Query.Port, cfg.Query.RequestPath)
	querier := elevation.New(queryURL, elevation.Config{
		CacheSize:      cfg.Cache.Size,
		CacheTTL:       time.Duration(cfg.Cache.TTL),
		CachePrecision: cfg.Cache.Precision,
		Retries:        cfg.Query.Retries,
		BaseDelay:      time.Duration(cfg.Query.Backoff.BaseDelay),
		MaxDelay:       time.Duration(cfg.Query.Backoff.MaxDelay),
		Timeout:        time.Duration(cfg.Query.Timeout),
	})

	p := planner.New(querier, planner.Config{
		QuerySize:    cfg.Planner.BoundaryQuerySize,
		UseH3Index:   true,
		H3BlockRes:   cfg.Planner.GridBlockSize,
		H3RingRadius: cfg.Planner.GridRingRadius,
	})

	planHandler := &api.PlanHandler{Planner: p, Querier: querier, Timeout: 30 * time.Second}

	srv := api.NewServer(cfg.Server.Address(), planHandler, func() {
		slog.Info("shutdown requested, stopping server")
		cancel()
	})

	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting server", "addr", cfg.Server.Address())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-sigCh:
		slog.Info("received shutdown signal")
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}
