// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package match

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/pdiddy/coursematch/pkg/types"
)

// Filter multipliers, applied by the first violated rule.
const (
	filterModality = 0.0
	filterLanguage = 0.1
	filterTuition  = 0.2
	filterDuration = 0.3
	filterLevel    = 0.5
	filterPass     = 1.0
)

// fold returns s case-folded for case-insensitive comparison. A Caser
// carries state, so each call gets its own.
func fold(s string) string {
	return cases.Fold().String(s)
}

func containsFold(s, sub string) bool {
	return strings.Contains(fold(s), fold(sub))
}

func title(s string) string {
	return cases.Title(language.Und).String(s)
}

// locationScore rates how well p's location suits the query. Online
// programs suit every location.
func locationScore(q *types.Query, p *types.Program) float64 {
	if q.Location == "" {
		return 1.0
	}
	if strings.EqualFold(string(p.Modality), string(types.ModalityOnline)) {
		return 1.0
	}
	if p.City != "" && containsFold(p.City, q.Location) {
		return 1.0
	}
	if p.Country != "" && containsFold(p.Country, q.Location) {
		return 0.7
	}
	return 0.1
}

// careerScore rates how closely p leads to the query's career goal.
// Outcome titles are checked before any outcome description.
func careerScore(q *types.Query, p *types.Program) float64 {
	if q.CareerGoal == "" {
		return 1.0
	}
	goal := fold(q.CareerGoal)
	for _, o := range p.Outcomes {
		if strings.Contains(fold(o.Title), goal) {
			return 1.0
		}
	}
	for _, o := range p.Outcomes {
		if o.Description != "" && strings.Contains(fold(o.Description), goal) {
			return 0.8
		}
	}
	if p.Description != "" && strings.Contains(fold(p.Description), goal) {
		return 0.6
	}
	return 0.3
}

// filterScore evaluates the structured filters in order and returns the
// multiplier of the first one p violates. A rule applies only when the
// query sets it; modality, numeric and level rules also need the program
// value to be known.
func filterScore(q *types.Query, p *types.Program) float64 {
	if q.Modality != "" && p.Modality != "" &&
		!strings.EqualFold(string(q.Modality), string(p.Modality)) {
		return filterModality
	}
	if q.Language != "" && !strings.EqualFold(q.Language, p.Language) {
		return filterLanguage
	}
	if q.MaxTuition > 0 && p.Tuition > 0 && p.Tuition > q.MaxTuition {
		return filterTuition
	}
	if q.MaxDurationMonths > 0 && p.DurationMonths > 0 && p.DurationMonths > q.MaxDurationMonths {
		return filterDuration
	}
	if q.Level != "" && p.Level != "" && !strings.EqualFold(q.Level, p.Level) {
		return filterLevel
	}
	return filterPass
}

// skillMatches returns the title-cased program skills that overlap a query
// skill, where overlap means one contains the other ignoring case. Each
// query skill contributes at most one match; duplicates are dropped.
func skillMatches(skills []string, p *types.Program) []string {
	var out []string
	seen := make(map[string]bool)
	for _, s := range skills {
		us := fold(strings.TrimSpace(s))
		if us == "" {
			continue
		}
		for _, ps := range p.Skills {
			pf := fold(ps.Name)
			if pf == "" || !(strings.Contains(pf, us) || strings.Contains(us, pf)) {
				continue
			}
			if !seen[pf] {
				seen[pf] = true
				out = append(out, title(ps.Name))
			}
			break
		}
	}
	return out
}

// total combines sub-scores with the query weights and applies the filter
// multiplier.
func total(w types.Weights, content, location, career, filter float64) float64 {
	return (content*(w.Skill+w.Interest) + location*w.Location + career*w.Career) * filter
}
