// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/coursematch/internal/catalog"
	"github.com/pdiddy/coursematch/internal/extract"
	"github.com/pdiddy/coursematch/pkg/types"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Find skills or interests in free text",
	Long: `Extract matches free text against the catalog's skill names and
built-in term lists. Each term carries a confidence and its source
(dictionary or pattern). Suggestions list related skills for the domains
the text mentions.`,
}

var extractSkillsCmd = &cobra.Command{
	Use:   "skills TEXT...",
	Short: "Extract skills from free text",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExtract(cmd, args, (*extract.Extractor).Skills)
	},
}

var extractInterestsCmd = &cobra.Command{
	Use:   "interests TEXT...",
	Short: "Extract interests from free text",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExtract(cmd, args, (*extract.Extractor).Interests)
	},
}

type extractFunc func(e *extract.Extractor, text, hint string) types.Extraction

func runExtract(cmd *cobra.Command, args []string, fn extractFunc) error {
	hint, _ := cmd.Flags().GetString("context")

	store, err := catalog.NewStore(cfg.Catalog)
	if err != nil {
		return err
	}
	defer store.Close()

	known, err := store.SkillNames(cmd.Context())
	if err != nil {
		return err
	}
	ex := extract.New(known)
	logger.Debug().Int("dictionary", ex.Dictionary()).Msg("extractor ready")

	result := fn(ex, strings.Join(args, " "), hint)

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		return writeJSON(cmd.OutOrStdout(), result)
	}
	formatExtraction(cmd.OutOrStdout(), result)
	return nil
}

func formatExtraction(w io.Writer, result types.Extraction) {
	if len(result.Terms) == 0 {
		fmt.Fprintln(w, "No terms found.")
	} else {
		fmt.Fprintf(w, "%-28s  %-10s  %-10s  %s\n", "Term", "Confidence", "Category", "Source")
		fmt.Fprintln(w, strings.Repeat("-", 64))
		for _, t := range result.Terms {
			fmt.Fprintf(w, "%-28s  %-10.2f  %-10s  %s\n", clip(t.Name, 28), t.Confidence, t.Category, t.Source)
		}
	}
	if len(result.Suggestions) > 0 {
		fmt.Fprintf(w, "\nSuggested: %s\n", strings.Join(result.Suggestions, ", "))
	}
}

func init() {
	extractCmd.PersistentFlags().String("context", "", "extra context that steers suggestions")
	extractCmd.PersistentFlags().Bool("json", false, "output as JSON")

	extractCmd.AddCommand(extractSkillsCmd)
	extractCmd.AddCommand(extractInterestsCmd)

	rootCmd.AddCommand(extractCmd)
}
