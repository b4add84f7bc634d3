// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/pdiddy/coursematch/internal/catalog"
	"github.com/pdiddy/coursematch/internal/extract"
	"github.com/pdiddy/coursematch/internal/match"
	"github.com/pdiddy/coursematch/pkg/types"
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank catalog programs against a learner's preferences",
	Long: `Rank scores every catalog program against the query and prints the
best matches with per-signal scores, an explanation, and suggestions for
broadening the search.

The query comes from flags, from a YAML file (--query-file), or both; flags
override file values. --text extracts skills and interests from free text
and adds them to the query.`,
	RunE: runRank,
}

func runRank(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	store, err := catalog.NewStore(cfg.Catalog)
	if err != nil {
		return err
	}
	defer store.Close()

	q, err := queryFromFlags(cmd)
	if err != nil {
		return err
	}
	if text, _ := cmd.Flags().GetString("text"); text != "" {
		if err := addExtractedTerms(ctx, store, &q, text); err != nil {
			return err
		}
	}

	engine := match.NewEngine(cfg.Engine, store, match.WithLogger(logger))
	if err := engine.Refresh(ctx); err != nil {
		return err
	}

	limit, _ := cmd.Flags().GetInt("limit")
	resp, err := engine.Rank(ctx, q, limit)
	if err != nil {
		return err
	}

	if path, _ := cmd.Flags().GetString("save-query"); path != "" {
		if err := match.WriteQueryFile(path, q, resp); err != nil {
			return err
		}
		logger.Info().Str("file", path).Msg("saved query")
	}
	if path, _ := cmd.Flags().GetString("metrics-out"); path != "" {
		if err := engine.Metrics().WriteTextfile(path); err != nil {
			return err
		}
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		return match.FormatJSON(resp, cmd.OutOrStdout())
	}
	match.FormatTable(resp, cmd.OutOrStdout())
	return nil
}

// queryFromFlags starts from the default query, applies --query-file, then
// applies every flag the user set explicitly.
func queryFromFlags(cmd *cobra.Command) (types.Query, error) {
	q := types.NewQuery()
	f := cmd.Flags()

	if path, _ := f.GetString("query-file"); path != "" {
		var err error
		if q, err = match.ReadQueryFile(path); err != nil {
			return types.Query{}, err
		}
	}

	if f.Changed("skills") {
		q.Skills, _ = f.GetStringSlice("skills")
	}
	if f.Changed("interests") {
		q.Interests, _ = f.GetStringSlice("interests")
	}
	if f.Changed("career-goal") {
		q.CareerGoal, _ = f.GetString("career-goal")
	}
	if f.Changed("location") {
		q.Location, _ = f.GetString("location")
	}
	if f.Changed("language") {
		q.Language, _ = f.GetString("language")
	}
	if f.Changed("max-tuition") {
		q.MaxTuition, _ = f.GetFloat64("max-tuition")
	}
	if f.Changed("max-duration") {
		q.MaxDurationMonths, _ = f.GetInt("max-duration")
	}
	if f.Changed("level") {
		q.Level, _ = f.GetString("level")
	}
	if f.Changed("skill-weight") {
		q.Weights.Skill, _ = f.GetFloat64("skill-weight")
	}
	if f.Changed("interest-weight") {
		q.Weights.Interest, _ = f.GetFloat64("interest-weight")
	}
	if f.Changed("location-weight") {
		q.Weights.Location, _ = f.GetFloat64("location-weight")
	}
	if f.Changed("career-weight") {
		q.Weights.Career, _ = f.GetFloat64("career-weight")
	}

	modality := string(q.Modality)
	if f.Changed("modality") {
		modality, _ = f.GetString("modality")
	}
	m, err := types.ParseModality(modality)
	if err != nil {
		return types.Query{}, err
	}
	q.Modality = m
	return q, nil
}

// addExtractedTerms runs the extractor over text, using the catalog's skill
// names as its dictionary, and merges the results into q.
func addExtractedTerms(ctx context.Context, store *catalog.Store, q *types.Query, text string) error {
	known, err := store.SkillNames(ctx)
	if err != nil {
		return err
	}
	ex := extract.New(known)
	skills := ex.Skills(text, q.CareerGoal)
	interests := ex.Interests(text, q.CareerGoal)
	q.AddTerms(skills.Terms, interests.Terms)

	logger.Debug().
		Strs("skills", skills.Names()).
		Strs("interests", interests.Names()).
		Msg("extracted terms from text")
	return nil
}

func init() {
	def := types.DefaultWeights()
	f := rankCmd.Flags()

	f.StringSlice("skills", nil, "skills the learner has or wants (comma-separated)")
	f.StringSlice("interests", nil, "subject interests (comma-separated)")
	f.String("career-goal", "", "desired job title or career direction")
	f.String("location", "", "preferred city or country (substring match)")
	f.String("modality", "", "online, in-person, or hybrid")
	f.String("language", "", "language of instruction")
	f.Float64("max-tuition", 0, "tuition ceiling (0 = no limit)")
	f.Int("max-duration", 0, "maximum duration in months (0 = no limit)")
	f.String("level", "", "course level, e.g. graduate")

	f.Float64("skill-weight", def.Skill, "weight of skill similarity in [0,1]")
	f.Float64("interest-weight", def.Interest, "weight of interest similarity in [0,1]")
	f.Float64("location-weight", def.Location, "weight of location match in [0,1]")
	f.Float64("career-weight", def.Career, "weight of career alignment in [0,1]")

	f.Int("limit", 0, "maximum recommendations (0 = engine.default_limit)")
	f.String("text", "", "free text to extract skills and interests from")
	f.String("query-file", "", "YAML file holding a query or a saved ranking")
	f.String("save-query", "", "save the query and its results to this YAML file")
	f.Bool("json", false, "output the response as JSON")
	f.String("metrics-out", "", "write engine metrics in Prometheus text format to this file")

	rootCmd.AddCommand(rankCmd)
}
