package main

import (
	"encoding/json"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var analyzeJSON bool

var analyzeCmd = &cobra.Command{
	Use:   "analyze SUPPLIER_ID",
	Short: "Run a risk analysis for one supplier and record it in history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		id, err := strconv.Atoi(args[0])
		if err != nil || id <= 0 {
			return eris.Errorf("analyze: invalid supplier id %q", args[0])
		}

		env, err := initSession(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		view, err := env.Session.Analyze(ctx, id)
		if err != nil {
			return err
		}

		if analyzeJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(view)
		}
		formatAnalysis(cmd.OutOrStdout(), view)
		return nil
	},
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "print the analysis as JSON")
	rootCmd.AddCommand(analyzeCmd)
}
