// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package match

import (
	"fmt"
	"strings"

	"github.com/pdiddy/coursematch/pkg/types"
)

// Advisory suggestion texts.
const (
	SuggestBroadenLocation = "Try expanding your location preferences or considering online courses"
	SuggestAddSkills       = "Add specific skills to get more targeted recommendations"
	SuggestBudget          = "Consider increasing your budget or looking for scholarship opportunities"
	SuggestBroadenCriteria = "Your criteria might be too specific. Try broadening your preferences"
)

// explain builds the human-readable match explanation for c.
func explain(c *Candidate) string {
	var parts []string
	if n := len(c.SkillMatches); n > 0 {
		shown := c.SkillMatches
		if len(shown) > 3 {
			shown = shown[:3]
		}
		parts = append(parts, fmt.Sprintf("Matches %d of your skills: %s", n, strings.Join(shown, ", ")))
	}
	if c.Location > 0.8 {
		parts = append(parts, "Good location match")
	}
	if c.Career > 0.8 {
		parts = append(parts, "Aligns with your career goals")
	}
	if c.Content > 0.7 {
		parts = append(parts, "Strong content relevance")
	}
	if len(parts) == 0 {
		parts = append(parts, "General compatibility based on your preferences")
	}
	return strings.Join(parts, ". ") + "."
}

// suggestions returns advice for improving a query given how many programs
// matched and their mean total.
func (e *Engine) suggestions(q *types.Query, matches int, mean float64) []string {
	out := []string{}
	if matches < e.cfg.FewMatches {
		out = append(out, SuggestBroadenLocation)
	}
	if len(q.Skills) == 0 {
		out = append(out, SuggestAddSkills)
	}
	if q.MaxTuition > 0 && q.MaxTuition < e.cfg.LowBudget {
		out = append(out, SuggestBudget)
	}
	if matches > 0 && mean < e.cfg.LowScore {
		out = append(out, SuggestBroadenCriteria)
	}
	return out
}
