// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/coursematch/pkg/types"
)

func TestNewDeduplicatesDictionary(t *testing.T) {
	base := New(nil).Dictionary()
	assert.Equal(t, len(commonSkills), base)
	assert.Equal(t, base, New([]string{"Python", "  python ", ""}).Dictionary())
	assert.Equal(t, base+1, New([]string{"Data Visualization"}).Dictionary())
}

func TestSkillsDictionaryAndPatterns(t *testing.T) {
	e := New(nil)
	got := e.Skills("I know Python and machine learning, plus some project   management.", "")

	require.Len(t, got.Terms, 3)
	assert.Equal(t, []string{"machine learning", "project management", "python"}, got.Names())

	ml := got.Terms[0]
	assert.InDelta(t, 0.82, ml.Confidence, 1e-9)
	assert.Equal(t, types.SourceDictionary, ml.Source)
	assert.Empty(t, ml.Category)

	pm := got.Terms[1]
	assert.InDelta(t, patternConfidence, pm.Confidence, 1e-9)
	assert.Equal(t, types.SourcePattern, pm.Source)
	assert.Equal(t, "soft", pm.Category)

	py := got.Terms[2]
	assert.Equal(t, "technical", py.Category)

	assert.Equal(t,
		[]string{"sql", "statistics", "data visualization", "leadership", "communication", "agile"},
		got.Suggestions)
}

func TestSkillsWordBoundaries(t *testing.T) {
	e := New(nil)
	got := e.Skills("Experience with JavaScript and C++.", "")

	assert.Equal(t, []string{"c++", "javascript"}, got.Names(), "java must not match inside javascript")
	assert.Empty(t, got.Suggestions)
}

func TestSkillsCatalogDictionary(t *testing.T) {
	e := New([]string{"Data Visualization", "Statistics"})
	got := e.Skills("statistics and data   visualization", "")

	require.Len(t, got.Terms, 2)
	assert.Equal(t, "data visualization", got.Terms[0].Name)
	assert.InDelta(t, 0.86, got.Terms[0].Confidence, 1e-9)
	assert.Equal(t, "statistics", got.Terms[1].Name)
	assert.InDelta(t, 0.7, got.Terms[1].Confidence, 1e-9)
	assert.Equal(t, []string{"python", "sql", "machine learning"}, got.Suggestions)
}

func TestSkillsHintDrivesSuggestions(t *testing.T) {
	got := New(nil).Skills("I like building things", "cloud deployment")

	assert.Empty(t, got.Terms)
	assert.Equal(t, []string{"aws", "docker", "kubernetes", "ci/cd", "linux"}, got.Suggestions)
}

func TestSkillsEmptyText(t *testing.T) {
	got := New(nil).Skills("", "")
	assert.Empty(t, got.Terms)
	assert.NotNil(t, got.Terms)
	assert.Empty(t, got.Suggestions)
}

func TestInterests(t *testing.T) {
	e := New([]string{"Graphic Design", "Music"})
	got := e.Interests("I love graphic design, music, communication and python", "")

	assert.Equal(t, []string{"graphic design", "communication", "music"}, got.Names())
	assert.InDelta(t, 0.78, got.Terms[0].Confidence, 1e-9)
	assert.Empty(t, got.Suggestions)
}

func TestInterestsCapsSuggestions(t *testing.T) {
	got := New(nil).Interests("data science for the web", "")

	assert.Empty(t, got.Terms)
	assert.Equal(t,
		[]string{"python", "sql", "statistics", "machine learning", "data visualization"},
		got.Suggestions)
}

func TestSuggest(t *testing.T) {
	tests := []struct {
		name   string
		kind   string
		prefix string
		limit  int
		want   []string
	}{
		{"substring", KindSkills, "script", 10, []string{"JavaScript"}},
		{"case insensitive", KindSkills, "SQL", 10, []string{"SQL", "MySQL", "PostgreSQL"}},
		{"limit", KindLocations, "on", 3, []string{"Online", "London", "Toronto"}},
		{"no match", KindInterests, "zzz", 5, []string{}},
		{"default limit", KindInterests, "", 0, interestSuggestions[:DefaultSuggestLimit]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Suggest(tt.kind, tt.prefix, tt.limit)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSuggestUnknownKind(t *testing.T) {
	_, err := Suggest("courses", "a", 5)
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestContainsWord(t *testing.T) {
	tests := []struct {
		text, term string
		want       bool
	}{
		{"go to school", "go", true},
		{"google", "go", false},
		{"node.js, react", "node.js", true},
		{"vue.js", "vue", true},
		{"c# and c++", "c#", true},
		{"ergo go", "go", true},
		{"", "go", false},
		{"go", "", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, containsWord(tt.text, tt.term), "%q in %q", tt.term, tt.text)
	}
}
