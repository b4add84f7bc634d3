// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/coursematch/internal/extract"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest [PREFIX]",
	Short: "Autocomplete skills, interests, or locations",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, _ := cmd.Flags().GetString("type")
		limit, _ := cmd.Flags().GetInt("limit")

		var prefix string
		if len(args) == 1 {
			prefix = args[0]
		}

		out, err := extract.Suggest(kind, prefix, limit)
		if err != nil {
			return err
		}

		jsonOutput, _ := cmd.Flags().GetBool("json")
		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), map[string][]string{"suggestions": out})
		}
		for _, s := range out {
			fmt.Fprintln(cmd.OutOrStdout(), s)
		}
		return nil
	},
}

func init() {
	suggestCmd.Flags().String("type", extract.KindSkills, "suggestion type: skills, interests, or locations")
	suggestCmd.Flags().Int("limit", extract.DefaultSuggestLimit, "maximum suggestions")
	suggestCmd.Flags().Bool("json", false, "output as JSON")

	rootCmd.AddCommand(suggestCmd)
}
