// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package match

import (
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"

	"github.com/pdiddy/coursematch/pkg/types"
)

// FormatTable writes a ranking response as a human-readable table to w.
func FormatTable(resp *types.Response, w io.Writer) {
	if resp.Metadata.Error != "" {
		fmt.Fprintf(w, "%s.\n", resp.Metadata.Error)
	}
	if len(resp.Recommendations) == 0 {
		fmt.Fprintln(w, "No matching programs found.")
		writeSuggestions(resp.Suggestions, w)
		return
	}

	fmt.Fprintf(w, "%-4s  %-40s  %-25s  %-20s  %-5s  %s\n",
		"Rank", "Program", "Institution", "Location", "Score", "Skills")
	fmt.Fprintln(w, strings.Repeat("-", 110))

	for i, r := range resp.Recommendations {
		fmt.Fprintf(w, "%-4d  %-40s  %-25s  %-20s  %-5.2f  %s\n",
			i+1,
			truncate(r.Program.Name, 40),
			truncate(r.Program.Institution, 25),
			truncate(formatLocation(r.Program), 20),
			r.MatchScore,
			strings.Join(r.SkillMatches, ", "))
		fmt.Fprintf(w, "      %s\n", r.Explanation)
	}

	fmt.Fprintf(w, "\n%d of %d matches shown (%d programs analyzed, mean score %.2f)",
		len(resp.Recommendations), resp.TotalMatches,
		resp.Metadata.ProgramsAnalyzed, resp.Metadata.AverageMatchScore)
	if resp.Metadata.DegradedCandidates > 0 {
		fmt.Fprintf(w, ", %d degraded", resp.Metadata.DegradedCandidates)
	}
	fmt.Fprintln(w)
	writeSuggestions(resp.Suggestions, w)
}

// FormatJSON writes the response as indented JSON to w.
func FormatJSON(resp *types.Response, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}

func writeSuggestions(s []string, w io.Writer) {
	if len(s) == 0 {
		return
	}
	fmt.Fprintln(w, "\nSuggestions:")
	for _, line := range s {
		fmt.Fprintf(w, "  - %s\n", line)
	}
}

func formatLocation(p types.Program) string {
	switch {
	case p.Modality == types.ModalityOnline:
		return "Online"
	case p.City != "" && p.Country != "":
		return p.City + ", " + p.Country
	case p.City != "":
		return p.City
	}
	return p.Country
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
