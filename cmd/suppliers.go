package main

import (
	"github.com/spf13/cobra"
)

var (
	suppliersUnsorted bool
	suppliersOverview bool
)

var suppliersCmd = &cobra.Command{
	Use:   "suppliers",
	Short: "List suppliers ordered by profile match",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initSession(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		if suppliersOverview {
			groups, err := env.Session.OverviewGroups(ctx)
			if err != nil {
				return err
			}
			formatOverview(cmd.OutOrStdout(), groups)
			return nil
		}

		if suppliersUnsorted {
			list, err := env.Session.Suppliers(ctx)
			if err != nil {
				return err
			}
			formatSuppliers(cmd.OutOrStdout(), list)
			return nil
		}

		list, err := env.Session.SortedSuppliers(ctx)
		if err != nil {
			return err
		}
		formatSuppliers(cmd.OutOrStdout(), list)
		return nil
	},
}

func init() {
	suppliersCmd.Flags().BoolVar(&suppliersUnsorted, "unsorted", false, "keep backend order instead of profile match order")
	suppliersCmd.Flags().BoolVar(&suppliersOverview, "overview", false, "show overview cards grouped by country with composite risk")
	rootCmd.AddCommand(suppliersCmd)
}
