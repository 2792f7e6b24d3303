package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/JonMunkholm/ordercheck/internal/metrics"
	"github.com/JonMunkholm/ordercheck/internal/source"
	"github.com/JonMunkholm/ordercheck/internal/web"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the order analysis API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context())
		},
	}
}

func (a *app) serve(parent context.Context) error {
	cfg := a.cfg

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"data_dirs", cfg.Source.Dirs,
		"encoding", cfg.Source.Encoding,
		"watch", cfg.Source.Watch,
		"refresh_interval", cfg.Source.RefreshInterval,
		"rate_limit_enabled", cfg.Rate.Enabled,
	)

	var reg *metrics.Registry
	var opts []web.Option
	if cfg.Metrics.Enabled {
		reg = metrics.NewRegistry()
		opts = append(opts, web.WithMetrics(reg.Handler()))
	}

	service, src := a.newService(reg)
	header, material := src.Paths()
	slog.Info("source resolved", "header", header, "material", material)

	server := web.NewServer(service, cfg, opts...)

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	// Warm the cache so the first request does not pay for the load.
	g.Go(func() error {
		if _, err := src.Snapshot(ctx); err != nil {
			slog.Warn("initial load failed, serving errors until the exports are fixed", "error", err)
		}
		return nil
	})

	if cfg.Source.Watch {
		watcher, err := source.NewWatcher(src, cfg.Source.WatchDebounce)
		if err != nil {
			slog.Warn("file watching disabled", "error", err)
		} else {
			g.Go(func() error { return watcher.Run(ctx) })
		}
	}

	if cfg.Source.RefreshInterval > 0 {
		g.Go(func() error {
			source.RunRefresher(ctx, src, cfg.Source.RefreshInterval)
			return nil
		})
	}

	g.Go(func() error {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// Graceful shutdown
	g.Go(func() error {
		<-ctx.Done()
		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
			return err
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	slog.Info("server stopped")
	return nil
}
