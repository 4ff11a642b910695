package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/handiism/ytdl-playlist/internal/config"
	"github.com/handiism/ytdl-playlist/internal/resolve"
	"github.com/handiism/ytdl-playlist/internal/server"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Flags
	var verbose bool
	var configPath string
	var addr string
	flag.StringVar(&configPath, "config", "", "path to config file (.json, .yaml or .yml)")
	flag.StringVar(&addr, "addr", "", "address to listen on (overrides server_address)")
	flag.BoolVar(&verbose, "verbose", false, "log resolver debug output")
	flag.Parse()

	// Configure structured logging to stderr
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	settings := config.DefaultSettings()
	if configPath != "" {
		var err error
		settings, err = config.Load(configPath)
		if err != nil {
			slog.Error("loading config failed", "path", configPath, "err", err)
			os.Exit(1)
		}
	}
	if addr == "" {
		addr = settings.ServerAddress
	}

	manager := resolve.NewManager(settings, nil, resolve.WithLogger(logger))

	srv := &nethttp.Server{
		Addr:              addr,
		Handler:           server.NewServer(manager, settings, logger).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		// Resolution runs external tools; leave room for slow extractors.
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		slog.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Warn("graceful shutdown failed", "err", err)
			_ = srv.Close()
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		slog.Error("listen failed", "err", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
