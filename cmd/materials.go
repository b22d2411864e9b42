package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sells-group/sourcing-cli/internal/material"
)

var materialsCmd = &cobra.Command{
	Use:   "materials [MATERIAL...]",
	Short: "Show leading source countries for raw materials",
	RunE: func(cmd *cobra.Command, args []string) error {
		idx, err := material.Load(cfg.Materials.OverridePath)
		if err != nil {
			return err
		}
		if len(args) == 0 {
			args = idx.Keys()
		}
		formatMaterials(cmd.OutOrStdout(), idx, args)
		return nil
	},
}

func formatMaterials(out io.Writer, idx *material.Index, materials []string) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "MATERIAL\tLEADING SOURCES")
	for _, m := range materials {
		countries := idx.CountriesFor(m)
		list := "-"
		if len(countries) > 0 {
			list = strings.Join(countries, ", ")
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\n", m, list)
	}
	_ = w.Flush()
}

func init() {
	rootCmd.AddCommand(materialsCmd)
}
