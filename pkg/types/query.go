// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "strings"

// Weights sets the relative importance of each preference signal in the
// total score. Each weight lies in [0,1]; they need not sum to one.
type Weights struct {
	Skill    float64 `json:"skill" yaml:"skill" mapstructure:"skill" validate:"gte=0,lte=1"`
	Interest float64 `json:"interest" yaml:"interest" mapstructure:"interest" validate:"gte=0,lte=1"`
	Location float64 `json:"location" yaml:"location" mapstructure:"location" validate:"gte=0,lte=1"`
	Career   float64 `json:"career" yaml:"career" mapstructure:"career" validate:"gte=0,lte=1"`
}

// DefaultWeights returns the weights used when a query does not set its own.
func DefaultWeights() Weights {
	return Weights{Skill: 0.4, Interest: 0.3, Location: 0.15, Career: 0.15}
}

// Sum returns the sum of all four weights, the upper bound of a
// pre-filter total.
func (w Weights) Sum() float64 {
	return w.Skill + w.Interest + w.Location + w.Career
}

// Query is a learner's preference profile. A zero-valued filter field means
// "no preference" and never excludes a program.
type Query struct {
	Skills     []string `json:"skills,omitempty" yaml:"skills,omitempty"`
	Interests  []string `json:"interests,omitempty" yaml:"interests,omitempty"`
	CareerGoal string   `json:"career_goal,omitempty" yaml:"career_goal,omitempty"`

	// Location is matched as a substring of a program's city or country.
	Location string   `json:"location,omitempty" yaml:"location,omitempty"`
	Modality Modality `json:"modality,omitempty" yaml:"modality,omitempty" validate:"omitempty,oneof=online in-person hybrid"`
	Language string   `json:"language,omitempty" yaml:"language,omitempty"`

	MaxTuition        float64 `json:"max_tuition,omitempty" yaml:"max_tuition,omitempty" validate:"gte=0"`
	MaxDurationMonths int     `json:"max_duration_months,omitempty" yaml:"max_duration_months,omitempty" validate:"gte=0"`
	Level             string  `json:"level,omitempty" yaml:"level,omitempty"`

	Weights Weights `json:"weights" yaml:"weights"`
}

// NewQuery returns an empty query carrying the default weights.
func NewQuery() Query {
	return Query{Weights: DefaultWeights()}
}

// Text returns the lower-cased skills, interests, and career goal joined
// by spaces. It is the text embedded for content similarity.
func (q *Query) Text() string {
	parts := make([]string, 0, len(q.Skills)+len(q.Interests)+1)
	for _, s := range q.Skills {
		parts = append(parts, strings.ToLower(s))
	}
	for _, s := range q.Interests {
		parts = append(parts, strings.ToLower(s))
	}
	if q.CareerGoal != "" {
		parts = append(parts, strings.ToLower(q.CareerGoal))
	}
	return strings.Join(parts, " ")
}

// AddTerms merges extracted terms into the query's skills and interests.
// Confidence is ignored. Terms already present (compared case-insensitively)
// are skipped.
func (q *Query) AddTerms(skills, interests []ExtractedTerm) {
	q.Skills = mergeTerms(q.Skills, skills)
	q.Interests = mergeTerms(q.Interests, interests)
}

func mergeTerms(have []string, terms []ExtractedTerm) []string {
	seen := make(map[string]bool, len(have)+len(terms))
	for _, s := range have {
		seen[strings.ToLower(s)] = true
	}
	for _, t := range terms {
		key := strings.ToLower(strings.TrimSpace(t.Name))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		have = append(have, t.Name)
	}
	return have
}

// Term sources reported by the extractor.
const (
	SourceDictionary = "dictionary"
	SourcePattern    = "pattern"
)

// ExtractedTerm is a skill or interest found in free text.
type ExtractedTerm struct {
	Name string `json:"name" yaml:"name"`

	// Confidence is in (0,1]. Consumers that only need names may ignore it.
	Confidence float64 `json:"confidence" yaml:"confidence"`

	// Category is technical, soft, or domain for pattern matches; empty for
	// dictionary matches.
	Category string `json:"category,omitempty" yaml:"category,omitempty"`

	// Source is SourceDictionary or SourcePattern.
	Source string `json:"source" yaml:"source"`
}

// Extraction is the result of running the extractor over one text.
type Extraction struct {
	Terms       []ExtractedTerm `json:"terms" yaml:"terms"`
	Suggestions []string        `json:"suggestions" yaml:"suggestions"`
}

// Names returns the term names in order.
func (e Extraction) Names() []string {
	names := make([]string, len(e.Terms))
	for i, t := range e.Terms {
		names[i] = t.Name
	}
	return names
}
