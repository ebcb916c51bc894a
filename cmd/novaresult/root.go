package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/tuannm99/novaresult/internal"
	"github.com/tuannm99/novaresult/internal/loader"
	"github.com/tuannm99/novaresult/internal/result"
)

var (
	configPath string
	logLevel   string
	appCfg     = internal.DefaultConfig()
)

var rootCmd = &cobra.Command{
	Use:   "novaresult",
	Short: "Inspect materialized query results",
	Long: `novaresult loads a CSV or JSON-lines file as a materialized query result
and prints, streams or exports it.

A file argument may also name a dataset from the config file.

Examples:
  novaresult show users.csv
  novaresult box users.csv --max-rows 10
  novaresult extract events.jsonl --format json
  novaresult value users.csv 1 0
  novaresult serve --config novaresult.yaml`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := internal.LoadConfig(configPath)
		if err != nil {
			return err
		}
		if logLevel != "" {
			cfg.Log.Level = logLevel
		}
		lg, err := internal.NewLogger(cfg.Log, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		slog.SetDefault(lg)
		appCfg = cfg
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a yaml config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(boxCmd)
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(valueCmd)
	rootCmd.AddCommand(serveCmd)
}

// openArg loads a file path or a configured dataset name.
func openArg(arg string) *result.MaterializedResult {
	path := arg
	if p, ok := appCfg.Datasets[arg]; ok {
		path = p
	}
	return loader.Open(path,
		loader.WithChunkCapacity(appCfg.Collection.ChunkCapacity),
		loader.WithNullValue(appCfg.Render.NullValue),
	)
}

// openSuccessful is openArg for commands that cannot print an error result.
func openSuccessful(arg string) (*result.MaterializedResult, error) {
	res := openArg(arg)
	if res.HasError() {
		return nil, fmt.Errorf("%s: %w", arg, res.Err())
	}
	return res, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
