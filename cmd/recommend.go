package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

var (
	recommendLocal bool
	recommendLimit int
	recommendJSON  bool
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Show ranked supplier recommendations for the buyer profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if cmd.Flags().Changed("local") {
			cfg.Recommend.Local = recommendLocal
		}
		if recommendLimit > 0 {
			cfg.Recommend.Limit = recommendLimit
		}

		env, err := initSession(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		res, err := env.Session.LoadRecommendations(ctx)
		if err != nil {
			return err
		}

		if recommendJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		}
		formatRecommendations(cmd.OutOrStdout(), res)
		return nil
	},
}

func init() {
	recommendCmd.Flags().BoolVar(&recommendLocal, "local", false, "score overview cards locally instead of asking the backend")
	recommendCmd.Flags().IntVar(&recommendLimit, "limit", 0, "number of recommendations (default from config)")
	recommendCmd.Flags().BoolVar(&recommendJSON, "json", false, "print the result as JSON")
	rootCmd.AddCommand(recommendCmd)
}
