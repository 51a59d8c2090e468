package main

import (
	"encoding/json"
	"io"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/role-scout/internal/model"
	"github.com/sells-group/role-scout/internal/report"
)

var (
	lookupCompany    string
	lookupRole       string
	lookupWithReport bool
)

var lookupCmd = &cobra.Command{
	Use:   "lookup",
	Short: "Resolve who holds a role at a company",
	RunE: func(cmd *cobra.Command, args []string) error {
		req := model.LookupRequest{Company: lookupCompany, Role: lookupRole}.Normalize()
		if !req.Valid() {
			return eris.New(model.MsgBadRequest)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initLookup(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		result := env.Orchestrator.Run(ctx, req.Company, req.Role)
		return printLookup(cmd.OutOrStdout(), result, lookupWithReport)
	},
}

func printLookup(w io.Writer, result model.LookupResult, withReport bool) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if !withReport {
		return enc.Encode(result)
	}
	rep := report.Build(result)
	return enc.Encode(struct {
		model.LookupResult
		Report report.Report `json:"report"`
	}{result, rep})
}

func init() {
	lookupCmd.Flags().StringVar(&lookupCompany, "company", "", "company name")
	lookupCmd.Flags().StringVar(&lookupRole, "role", "", "role or title, e.g. CEO")
	lookupCmd.Flags().BoolVar(&lookupWithReport, "report", false, "attach a presentation report")
	_ = lookupCmd.MarkFlagRequired("company")
	_ = lookupCmd.MarkFlagRequired("role")
	rootCmd.AddCommand(lookupCmd)
}
