package main

import (
	"encoding/json"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/role-scout/internal/model"
	"github.com/sells-group/role-scout/internal/report"
)

var reportIn string

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render a lookup result JSON as a presentation report",
	RunE: func(cmd *cobra.Command, args []string) error {
		var r io.Reader = cmd.InOrStdin()
		if reportIn != "" && reportIn != "-" {
			f, err := os.Open(reportIn)
			if err != nil {
				return eris.Wrapf(err, "open %s", reportIn)
			}
			defer f.Close() //nolint:errcheck
			r = f
		}
		return renderReport(r, cmd.OutOrStdout())
	},
}

func renderReport(r io.Reader, w io.Writer) error {
	var result model.LookupResult
	if err := json.NewDecoder(r).Decode(&result); err != nil {
		return eris.Wrap(err, "report: decode result")
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report.Build(result))
}

func init() {
	reportCmd.Flags().StringVar(&reportIn, "in", "", "result JSON file (default stdin)")
	rootCmd.AddCommand(reportCmd)
}
