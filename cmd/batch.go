package main

import (
	"bytes"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/role-scout/internal/batch"
	"github.com/sells-group/role-scout/internal/report"
)

var (
	batchIn      string
	batchOut     string
	batchMaxRows int
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Fill a CSV or XLSX sheet of titles and companies",
	Long:  "Reads rows with Title and Company Name columns, looks up each one, and writes First Name, Last Name and Source back out.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		rows, err := readSheet(batchIn)
		if err != nil {
			return err
		}

		env, err := initLookup(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		opts := batchOptions()
		if cmd.Flags().Changed("max-rows") {
			opts.MaxRows = batchMaxRows
		}

		out, sum, err := batch.NewRunner(env.Orchestrator, opts).Rows(ctx, rows)
		if err != nil {
			return eris.Wrap(err, "batch lookups")
		}

		if err := writeSheet(batchOut, cmd.OutOrStdout(), out); err != nil {
			return err
		}
		zap.L().Info("batch written",
			zap.String("out", batchOut),
			zap.Int("rows", sum.Total),
			zap.Int64("resolved", sum.Resolved),
			zap.Int("skipped", sum.Skipped),
		)
		return nil
	},
}

func batchOptions() batch.Options {
	return batch.Options{
		Concurrency: cfg.Batch.Concurrency,
		RatePerSec:  cfg.Batch.RatePerSec,
		MaxRows:     cfg.Batch.MaxRows,
	}
}

func isXLSX(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".xlsx")
}

// readSheet loads batch rows from a CSV or XLSX file, chosen by extension.
func readSheet(path string) ([]report.Row, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "read %s", path)
	}
	if isXLSX(path) {
		return report.ReadXLSX(data)
	}
	return report.ReadCSV(bytes.NewReader(data))
}

// writeSheet writes rows to path, or as CSV to stdout when path is empty.
func writeSheet(path string, stdout io.Writer, rows []report.Row) error {
	if path == "" {
		return report.WriteCSV(stdout, rows)
	}

	var buf bytes.Buffer
	write := report.WriteCSV
	if isXLSX(path) {
		write = report.WriteXLSX
	}
	if err := write(&buf, rows); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return eris.Wrapf(err, "write %s", path)
	}
	return nil
}

func init() {
	batchCmd.Flags().StringVar(&batchIn, "in", "", "input .csv or .xlsx file")
	batchCmd.Flags().StringVar(&batchOut, "out", "", "output .csv or .xlsx file (default CSV on stdout)")
	batchCmd.Flags().IntVar(&batchMaxRows, "max-rows", 0, "process at most this many rows (default from config, 0 = all)")
	_ = batchCmd.MarkFlagRequired("in")
	rootCmd.AddCommand(batchCmd)
}
