package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/tuannm99/novaresult/internal"
	"github.com/tuannm99/novaresult/server/resultwire"
)

func main() {
	cfgPath := flag.String("config", "", "path to yaml config")
	addr := flag.String("addr", "", "listen address (overrides server.addr)")
	flag.Parse()

	cfg, err := internal.LoadConfig(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	lg, err := internal.NewLogger(cfg.Log, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	slog.SetDefault(lg)

	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := resultwire.NewServer(resultwire.Config{
		Addr:           cfg.Server.Addr,
		Datasets:       cfg.Datasets,
		MaxOpenResults: cfg.Server.MaxOpenResults,
		BatchRows:      cfg.Server.BatchRows,
		ChunkCapacity:  cfg.Collection.ChunkCapacity,
		Render:         cfg.Render,
		Debug:          cfg.Server.Debug,
	})
	if err := srv.ListenAndServe(ctx); err != nil {
		slog.Error("server stopped", "err", err)
		os.Exit(1)
	}
	slog.Info("server stopped", "app", cfg.AppName)
}
