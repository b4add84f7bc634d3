// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/coursematch/internal/catalog"
	"github.com/pdiddy/coursematch/pkg/types"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the program catalog (ingest, list, show, stats, export)",
	Long: `Catalog manages a local SQLite database of study programs built from
YAML seed files. Use subcommands to ingest seed files, browse programs,
summarize the catalog, or export it.`,
}

// --- ingest subcommand ---

var catalogIngestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Load YAML seed files into the catalog",
	Long: `Ingest reads *.yaml seed files from the seed directory, validates each
program and upserts it into the catalog together with its skills and career
outcomes. Files unchanged since the last run are skipped.`,
	RunE: runCatalogIngest,
}

func runCatalogIngest(cmd *cobra.Command, args []string) error {
	store, err := catalog.NewStore(cfg.Catalog)
	if err != nil {
		return err
	}
	defer store.Close()

	summary, err := store.Ingest(cmd.Context(), cmd.OutOrStdout())
	if err != nil {
		return err
	}
	logger.Info().
		Int("files", summary.Files).
		Int("indexed", summary.Indexed).
		Int("updated", summary.Updated).
		Int("failed", summary.Failed).
		Msg("ingest finished")
	if summary.Failed > 0 {
		return fmt.Errorf("%d program(s) failed ingest", summary.Failed)
	}
	return nil
}

// --- list subcommand ---

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog programs with optional filters",
	RunE:  runCatalogList,
}

func runCatalogList(cmd *cobra.Command, args []string) error {
	opts, err := listOptsFromFlags(cmd)
	if err != nil {
		return err
	}

	store, err := catalog.NewStore(cfg.Catalog)
	if err != nil {
		return err
	}
	defer store.Close()

	result, err := store.List(cmd.Context(), opts)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		return writeJSON(cmd.OutOrStdout(), result)
	}
	formatProgramList(cmd.OutOrStdout(), result, opts.Offset)
	return nil
}

func listOptsFromFlags(cmd *cobra.Command) (catalog.ListOptions, error) {
	f := cmd.Flags()
	search, _ := f.GetString("search")
	institution, _ := f.GetString("institution")
	country, _ := f.GetString("country")
	modalityStr, _ := f.GetString("modality")
	level, _ := f.GetString("level")
	maxTuition, _ := f.GetFloat64("max-tuition")
	limit, _ := f.GetInt("limit")
	offset, _ := f.GetInt("offset")

	modality, err := types.ParseModality(modalityStr)
	if err != nil {
		return catalog.ListOptions{}, err
	}
	return catalog.ListOptions{
		Search:      search,
		Institution: institution,
		Country:     country,
		Modality:    modality,
		Level:       level,
		MaxTuition:  maxTuition,
		Limit:       limit,
		Offset:      offset,
	}, nil
}

func formatProgramList(w io.Writer, result catalog.ListResult, offset int) {
	if len(result.Programs) == 0 {
		fmt.Fprintln(w, "No programs found.")
		return
	}

	fmt.Fprintf(w, "%-5s  %-40s  %-28s  %-10s  %-10s  %s\n",
		"ID", "Program", "Institution", "Modality", "Level", "Tuition")
	fmt.Fprintln(w, strings.Repeat("-", 110))
	for _, p := range result.Programs {
		fmt.Fprintf(w, "%-5d  %-40s  %-28s  %-10s  %-10s  %s\n",
			p.ID, clip(p.Name, 40), clip(p.Institution, 28), p.Modality, clip(p.Level, 10), tuition(p))
	}
	fmt.Fprintf(w, "\n%d-%d of %d programs\n", offset+1, offset+len(result.Programs), result.Total)
}

// --- show subcommand ---

var catalogShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show one program with its skills and career outcomes",
	Args:  cobra.ExactArgs(1),
	RunE:  runCatalogShow,
}

func runCatalogShow(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid program ID %q: %w", args[0], err)
	}

	store, err := catalog.NewStore(cfg.Catalog)
	if err != nil {
		return err
	}
	defer store.Close()

	p, err := store.Program(cmd.Context(), id)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		return writeJSON(cmd.OutOrStdout(), p)
	}
	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(p)
}

// --- stats subcommand ---

var catalogStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize the catalog",
	RunE:  runCatalogStats,
}

func runCatalogStats(cmd *cobra.Command, args []string) error {
	store, err := catalog.NewStore(cfg.Catalog)
	if err != nil {
		return err
	}
	defer store.Close()

	st, err := store.Stats(cmd.Context())
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		return writeJSON(cmd.OutOrStdout(), st)
	}
	formatStats(cmd.OutOrStdout(), st)
	return nil
}

func formatStats(w io.Writer, st catalog.Stats) {
	fmt.Fprintf(w, "Programs:        %d\n", st.Programs)
	fmt.Fprintf(w, "Institutions:    %d\n", st.Institutions)
	fmt.Fprintf(w, "Skills:          %d\n", st.Skills)
	fmt.Fprintf(w, "Career outcomes: %d\n", st.Outcomes)
	fmt.Fprintf(w, "Average tuition: %.0f\n", st.AverageTuition)

	writeDistribution(w, "By modality", st.ByModality)
	writeDistribution(w, "By level", st.ByLevel)
	writeCounts(w, "Top countries", st.TopCountries)
	writeCounts(w, "Top skills", st.TopSkills)
}

func writeDistribution(w io.Writer, heading string, m map[string]int) {
	if len(m) == 0 {
		return
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fmt.Fprintf(w, "\n%s:\n", heading)
	for _, k := range keys {
		fmt.Fprintf(w, "  %-20s %d\n", k, m[k])
	}
}

func writeCounts(w io.Writer, heading string, counts []catalog.Count) {
	if len(counts) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s:\n", heading)
	for _, c := range counts {
		fmt.Fprintf(w, "  %-20s %d\n", clip(c.Name, 20), c.Programs)
	}
}

// --- export subcommand ---

var catalogExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the catalog to YAML or JSON",
	Long: `Export writes every program to <catalog-dir>/index/export.yaml or
export.json in the seed file layout, so the export can be ingested again.`,
	RunE: runCatalogExport,
}

func runCatalogExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	store, err := catalog.NewStore(cfg.Catalog)
	if err != nil {
		return err
	}
	defer store.Close()

	var path string
	switch format {
	case "yaml", "":
		path, err = store.ExportYAML(cmd.Context())
	case "json":
		path, err = store.ExportJSON(cmd.Context())
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Exported to", path)
	return nil
}

// --- shared helpers ---

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func clip(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}

func tuition(p types.Program) string {
	if p.Tuition <= 0 {
		return "-"
	}
	if p.Currency == "" {
		return fmt.Sprintf("%.0f", p.Tuition)
	}
	return fmt.Sprintf("%.0f %s", p.Tuition, p.Currency)
}

func init() {
	catalogListCmd.Flags().String("search", "", "substring of program name or description")
	catalogListCmd.Flags().String("institution", "", "substring of institution name")
	catalogListCmd.Flags().String("country", "", "exact country (case-insensitive)")
	catalogListCmd.Flags().String("modality", "", "online, in-person, or hybrid")
	catalogListCmd.Flags().String("level", "", "exact level (case-insensitive)")
	catalogListCmd.Flags().Float64("max-tuition", 0, "maximum tuition (0 = no limit)")
	catalogListCmd.Flags().Int("limit", 0, "page size (0 = catalog.max_results)")
	catalogListCmd.Flags().Int("offset", 0, "number of programs to skip")
	catalogListCmd.Flags().Bool("json", false, "output results as JSON")

	catalogShowCmd.Flags().Bool("json", false, "output as JSON instead of YAML")
	catalogStatsCmd.Flags().Bool("json", false, "output as JSON")
	catalogExportCmd.Flags().String("format", "yaml", "export format: yaml or json")

	catalogCmd.AddCommand(catalogIngestCmd)
	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogShowCmd)
	catalogCmd.AddCommand(catalogStatsCmd)
	catalogCmd.AddCommand(catalogExportCmd)

	rootCmd.AddCommand(catalogCmd)
}
