package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/sourcing-cli/internal/compare"
)

var (
	compareFormat string
	compareOut    string
)

var compareCmd = &cobra.Command{
	Use:   "compare COUNTRY COUNTRY [COUNTRY [COUNTRY]]",
	Short: "Compare two to four supplier countries side by side",
	Args:  cobra.MinimumNArgs(compare.MinSelection),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		sel := compare.NewSelection(args...)
		if len(args) > compare.MaxSelection {
			zap.L().Warn("comparison is limited to four countries, extra ones ignored",
				zap.Strings("compared", sel.Countries()),
			)
		}
		if !sel.Ready() {
			return eris.Errorf("compare: need at least %d distinct countries", compare.MinSelection)
		}

		env, err := initSession(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		rows, err := env.Session.Compare(ctx, sel.Countries()...)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		switch compareFormat {
		case "table":
			formatComparison(out, rows)
		case "csv":
			return compare.WriteCSV(out, rows)
		case "xlsx":
			if compareOut == "" {
				return eris.New("compare: --out is required for xlsx")
			}
			if err := compare.WriteXLSX(compareOut, rows); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(out, "Wrote %d countries to %s\n", len(rows), compareOut)
		default:
			return eris.Errorf("compare: unknown format %q", compareFormat)
		}
		return nil
	},
}

func init() {
	compareCmd.Flags().StringVar(&compareFormat, "format", "table", "output format: table, csv or xlsx")
	compareCmd.Flags().StringVar(&compareOut, "out", "", "output file for xlsx")
	rootCmd.AddCommand(compareCmd)
}
