package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tuannm99/novaresult/server/resultwire"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve configured datasets over TCP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return newServer().ListenAndServe(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config)")
}

func newServer() *resultwire.Server {
	addr := appCfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}
	return resultwire.NewServer(resultwire.Config{
		Addr:           addr,
		Datasets:       appCfg.Datasets,
		MaxOpenResults: appCfg.Server.MaxOpenResults,
		BatchRows:      appCfg.Server.BatchRows,
		ChunkCapacity:  appCfg.Collection.ChunkCapacity,
		Render:         appCfg.Render,
		Debug:          appCfg.Server.Debug,
	})
}
