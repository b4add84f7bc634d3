// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Recommendation is one ranked program with its score breakdown.
type Recommendation struct {
	Program Program `json:"program" yaml:"program"`

	// MatchScore is the filtered total.
	MatchScore   float64  `json:"match_score" yaml:"match_score"`
	Explanation  string   `json:"explanation" yaml:"explanation"`
	SkillMatches []string `json:"skill_matches" yaml:"skill_matches"`

	// SkillMatchScore and InterestMatchScore both carry the content
	// similarity; the engine does not separate the two signals.
	SkillMatchScore    float64 `json:"skill_match_score" yaml:"skill_match_score"`
	InterestMatchScore float64 `json:"interest_match_score" yaml:"interest_match_score"`
	LocationMatchScore float64 `json:"location_match_score" yaml:"location_match_score"`
	CareerMatchScore   float64 `json:"career_match_score" yaml:"career_match_score"`
	FilterScore        float64 `json:"filter_score" yaml:"filter_score"`

	MissingRequirements []string `json:"missing_requirements" yaml:"missing_requirements"`

	// SimilarAlternatives holds IDs of other catalog programs with the most
	// similar content.
	SimilarAlternatives []int64 `json:"similar_alternatives" yaml:"similar_alternatives"`
}

// FiltersApplied echoes the query's structured filters.
type FiltersApplied struct {
	Location    string   `json:"location,omitempty" yaml:"location,omitempty"`
	Modality    Modality `json:"modality,omitempty" yaml:"modality,omitempty"`
	Language    string   `json:"language,omitempty" yaml:"language,omitempty"`
	MaxTuition  float64  `json:"max_tuition,omitempty" yaml:"max_tuition,omitempty"`
	MaxDuration int      `json:"max_duration,omitempty" yaml:"max_duration,omitempty"`
	Level       string   `json:"level,omitempty" yaml:"level,omitempty"`
}

// SearchMetadata summarizes a ranking request.
type SearchMetadata struct {
	ProgramsAnalyzed    int     `json:"programs_analyzed" yaml:"programs_analyzed"`
	QuerySkillsCount    int     `json:"query_skills_count" yaml:"query_skills_count"`
	QueryInterestsCount int     `json:"query_interests_count" yaml:"query_interests_count"`
	AverageMatchScore   float64 `json:"average_match_score" yaml:"average_match_score"`

	// DegradedCandidates counts programs whose content score could not be
	// computed and fell back to zero.
	DegradedCandidates int `json:"degraded_candidates" yaml:"degraded_candidates"`
	VocabularySize     int `json:"vocabulary_size" yaml:"vocabulary_size"`

	FiltersApplied FiltersApplied `json:"filters_applied" yaml:"filters_applied"`

	// Error is set only when the catalog is empty.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Response is the result of a ranking request.
type Response struct {
	RequestID       string           `json:"request_id" yaml:"request_id"`
	Recommendations []Recommendation `json:"recommendations" yaml:"recommendations"`

	// TotalMatches counts every candidate above the score threshold, before
	// truncation to the requested limit.
	TotalMatches int            `json:"total_matches" yaml:"total_matches"`
	Metadata     SearchMetadata `json:"search_metadata" yaml:"search_metadata"`
	Suggestions  []string       `json:"suggestions" yaml:"suggestions"`
}
