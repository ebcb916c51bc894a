package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tuannm99/novaresult/internal/result"
	"github.com/tuannm99/novaresult/internal/variant"
)

var (
	boxMaxRows    int
	boxMaxWidth   int
	extractFormat string
	extractOffset int
	extractLimit  int
)

var showCmd = &cobra.Command{
	Use:   "show [file]",
	Short: "Print a result as tab-separated text",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res := openArg(args[0])
		defer func() { _ = res.Close() }()
		_, err := fmt.Fprint(cmd.OutOrStdout(), res.String())
		return err
	},
}

var boxCmd = &cobra.Command{
	Use:   "box [file]",
	Short: "Print a result as a box-drawn table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res := openArg(args[0])
		defer func() { _ = res.Close() }()
		cfg := appCfg.Render
		if boxMaxRows > 0 {
			cfg.MaxRows = boxMaxRows
		}
		if boxMaxWidth > 0 {
			cfg.MaxWidth = boxMaxWidth
		}
		_, err := fmt.Fprint(cmd.OutOrStdout(), res.ToBox(cfg))
		return err
	},
}

var extractCmd = &cobra.Command{
	Use:   "extract [file]",
	Short: "Export rows as tagged variants",
	Long: `Export rows as tagged variants.
Formats:
  json    one JSON array of rows, each cell null or {"kind","value"}
  binary  the variant matrix codec`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

var fetchCmd = &cobra.Command{
	Use:   "fetch [file]",
	Short: "Stream a result chunk by chunk as JSON lines",
	Args:  cobra.ExactArgs(1),
	RunE:  runFetch,
}

var valueCmd = &cobra.Command{
	Use:   "value [file] [column] [row]",
	Short: "Print a single cell",
	Args:  cobra.ExactArgs(3),
	RunE:  runValue,
}

func init() {
	boxCmd.Flags().IntVar(&boxMaxRows, "max-rows", 0, "Rows shown before eliding (default from config)")
	boxCmd.Flags().IntVar(&boxMaxWidth, "max-width", 0, "Line width (default from config)")

	extractCmd.Flags().StringVarP(&extractFormat, "format", "f", "json", "Output format (json or binary)")
	extractCmd.Flags().IntVar(&extractOffset, "offset", 0, "First row to export")
	extractCmd.Flags().IntVar(&extractLimit, "limit", -1, "Rows to export (-1 for all)")
}

func runExtract(cmd *cobra.Command, args []string) error {
	res, err := openSuccessful(args[0])
	if err != nil {
		return err
	}
	defer func() { _ = res.Close() }()

	m, err := res.ExtractRows(extractOffset, extractLimit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch extractFormat {
	case "json":
		enc := json.NewEncoder(out)
		return enc.Encode(m)
	case "binary":
		b, err := variant.EncodeMatrix(m)
		if err != nil {
			return err
		}
		_, err = out.Write(b)
		return err
	}
	return fmt.Errorf("unknown format %q", extractFormat)
}

func runFetch(cmd *cobra.Command, args []string) error {
	res, err := openSuccessful(args[0])
	if err != nil {
		return err
	}
	defer func() { _ = res.Close() }()

	enc := json.NewEncoder(cmd.OutOrStdout())
	for {
		chunk, err := res.Fetch()
		if err != nil {
			return err
		}
		if chunk == nil {
			return nil
		}
		rows, err := result.NarrowChunk(chunk)
		if err != nil {
			return err
		}
		if err := enc.Encode(rows); err != nil {
			return err
		}
	}
}

func runValue(cmd *cobra.Command, args []string) error {
	col, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("column: %w", err)
	}
	row, err := strconv.Atoi(args[2])
	if err != nil {
		return fmt.Errorf("row: %w", err)
	}

	res, err := openSuccessful(args[0])
	if err != nil {
		return err
	}
	defer func() { _ = res.Close() }()

	v, err := res.GetValue(col, row)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", v.Type(), v)
	return err
}
