// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package match

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"unicode/utf8"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/coursematch/internal/similarity"
	"github.com/pdiddy/coursematch/internal/validation"
	"github.com/pdiddy/coursematch/pkg/types"
)

// --- fixtures ---

func testCatalog() []types.Program {
	return []types.Program{
		{
			ID: 1, Name: "Data Science MSc", Institution: "TU Berlin",
			Description: "Advanced study of statistics and predictive modelling.",
			City:        "Berlin", Country: "Germany", Modality: types.ModalityInPerson,
			Language: "English", DurationMonths: 24, Tuition: 15000, Currency: "EUR",
			Level: "graduate", EntryRequirements: "Bachelor in a quantitative field",
			Skills: []types.Skill{{Name: "Python"}, {Name: "Machine Learning"}, {Name: "SQL"}},
			Outcomes: []types.CareerOutcome{
				{Title: "Data Scientist", Description: "Builds predictive models"},
			},
		},
		{
			ID: 2, Name: "Web Development Bootcamp", Institution: "Online Academy",
			Description: "Intensive frontend programming course.",
			Modality:    types.ModalityOnline, Language: "English", DurationMonths: 6,
			Tuition: 5000, Currency: "USD", Level: "certificate",
			Skills:   []types.Skill{{Name: "HTML"}, {Name: "CSS"}, {Name: "JavaScript"}},
			Outcomes: []types.CareerOutcome{{Title: "Web Developer"}},
		},
		{
			ID: 3, Name: "Business Administration BSc", Institution: "Sorbonne",
			Description: "Management, accounting and corporate strategy.",
			City:        "Paris", Country: "France", Modality: types.ModalityInPerson,
			Language: "French", DurationMonths: 36, Tuition: 20000, Currency: "EUR",
			Level:    "undergraduate",
			Skills:   []types.Skill{{Name: "Accounting"}, {Name: "Leadership"}},
			Outcomes: []types.CareerOutcome{{Title: "Business Analyst"}},
		},
		{
			ID: 4, Name: "Data Analytics Certificate", Institution: "City College",
			Description: "Practical reporting with dashboards.",
			City:        "London", Country: "United Kingdom", Modality: types.ModalityHybrid,
			Language: "English", DurationMonths: 12, Tuition: 8000, Currency: "GBP",
			Level:    "certificate",
			Skills:   []types.Skill{{Name: "Python"}, {Name: "SQL"}, {Name: "Data Visualization"}},
			Outcomes: []types.CareerOutcome{{Title: "Data Analyst"}},
		},
	}
}

func staticSource(programs []types.Program) Source {
	return SourceFunc(func(context.Context) ([]types.Program, error) {
		return programs, nil
	})
}

func newTestEngine(t *testing.T, programs []types.Program) *Engine {
	t.Helper()
	e := NewEngine(types.DefaultEngineConfig(), staticSource(programs))
	require.NoError(t, e.Refresh(context.Background()))
	return e
}

func names(resp *types.Response) []string {
	out := make([]string, len(resp.Recommendations))
	for i, r := range resp.Recommendations {
		out[i] = r.Program.Name
	}
	return out
}

// --- lifecycle ---

func TestRankBeforeRefresh(t *testing.T) {
	e := NewEngine(types.DefaultEngineConfig(), staticSource(testCatalog()))
	_, err := e.Rank(context.Background(), types.NewQuery(), 0)
	assert.ErrorIs(t, err, ErrNotInitialized)

	_, ok := e.Snapshot()
	assert.False(t, ok)
}

func TestRefreshFailureKeepsSnapshot(t *testing.T) {
	fail := false
	src := SourceFunc(func(context.Context) ([]types.Program, error) {
		if fail {
			return nil, errors.New("database is locked")
		}
		return testCatalog(), nil
	})
	e := NewEngine(types.DefaultEngineConfig(), src)
	require.NoError(t, e.Refresh(context.Background()))

	fail = true
	err := e.Refresh(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading catalog")

	info, ok := e.Snapshot()
	require.True(t, ok)
	assert.Equal(t, 1, info.Version)
	assert.Equal(t, 4, info.Programs)

	resp, err := e.Rank(context.Background(), types.NewQuery(), 0)
	require.NoError(t, err)
	assert.Equal(t, 4, resp.Metadata.ProgramsAnalyzed)

	assert.Equal(t, 1.0, testutil.ToFloat64(e.Metrics().Refreshes.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(e.Metrics().Refreshes.WithLabelValues("error")))
}

func TestRefreshPicksUpCatalogChanges(t *testing.T) {
	programs := testCatalog()[:2]
	var mu sync.Mutex
	src := SourceFunc(func(context.Context) ([]types.Program, error) {
		mu.Lock()
		defer mu.Unlock()
		return programs, nil
	})
	e := NewEngine(types.DefaultEngineConfig(), src)
	require.NoError(t, e.Refresh(context.Background()))

	mu.Lock()
	programs = testCatalog()
	mu.Unlock()

	resp, err := e.Rank(context.Background(), types.NewQuery(), 0)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Metadata.ProgramsAnalyzed, "mutations are not seen before Refresh")

	require.NoError(t, e.Refresh(context.Background()))
	resp, err = e.Rank(context.Background(), types.NewQuery(), 0)
	require.NoError(t, err)
	assert.Equal(t, 4, resp.Metadata.ProgramsAnalyzed)

	info, _ := e.Snapshot()
	assert.Equal(t, 2, info.Version)
}

func TestConcurrentRankAndRefresh(t *testing.T) {
	e := newTestEngine(t, testCatalog())
	q := types.NewQuery()
	q.Skills = []string{"python"}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := e.Rank(context.Background(), q, 0)
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			assert.NoError(t, e.Refresh(context.Background()))
		}()
	}
	wg.Wait()

	info, _ := e.Snapshot()
	assert.Equal(t, 9, info.Version)
}

// --- ranking ---

func TestRankEmptyCatalog(t *testing.T) {
	e := newTestEngine(t, nil)
	resp, err := e.Rank(context.Background(), types.NewQuery(), 0)
	require.NoError(t, err)

	assert.Zero(t, resp.TotalMatches)
	assert.Empty(t, resp.Recommendations)
	assert.Equal(t, "No programs available", resp.Metadata.Error)
	assert.Equal(t, []string{"Please ensure programs are loaded in the catalog"}, resp.Suggestions)
}

func TestRankZeroWeightsReturnsNothing(t *testing.T) {
	e := newTestEngine(t, testCatalog())
	q := types.Query{Skills: []string{"python"}, CareerGoal: "data scientist"}

	resp, err := e.Rank(context.Background(), q, 0)
	require.NoError(t, err)
	assert.Zero(t, resp.TotalMatches)
	assert.Empty(t, resp.Recommendations)
	assert.Zero(t, resp.Metadata.AverageMatchScore)
}

func TestRankDataScienceQuery(t *testing.T) {
	e := newTestEngine(t, testCatalog())
	q := types.NewQuery()
	q.Skills = []string{"python", "machine learning"}
	q.CareerGoal = "data scientist"

	resp, err := e.Rank(context.Background(), q, 0)
	require.NoError(t, err)
	require.NotEmpty(t, resp.Recommendations)

	top := resp.Recommendations[0]
	assert.Equal(t, "Data Science MSc", top.Program.Name)
	assert.Equal(t, []string{"Python", "Machine Learning"}, top.SkillMatches)
	assert.Contains(t, top.Explanation, "Matches 2 of your skills: Python, Machine Learning")
	assert.Contains(t, top.Explanation, "Good location match. Aligns with your career goals")
	assert.Equal(t, []string{"Please check entry requirements"}, top.MissingRequirements)
	assert.Equal(t, []int64{4}, top.SimilarAlternatives)
	assert.Equal(t, 1.0, top.CareerMatchScore)
	assert.Equal(t, top.SkillMatchScore, top.InterestMatchScore)
	assert.Greater(t, top.SkillMatchScore, 0.0)

	assert.NotEmpty(t, resp.RequestID)
	assert.Equal(t, 4, resp.Metadata.ProgramsAnalyzed)
	assert.Equal(t, 2, resp.Metadata.QuerySkillsCount)
	assert.Positive(t, resp.Metadata.VocabularySize)
}

func TestRankScoresBoundedAndOrdered(t *testing.T) {
	e := newTestEngine(t, testCatalog())

	queries := []types.Query{
		types.NewQuery(),
		{Skills: []string{"python", "sql"}, Location: "London", Weights: types.DefaultWeights()},
		{Interests: []string{"business"}, CareerGoal: "analyst", MaxTuition: 10000, Weights: types.DefaultWeights()},
		{Skills: []string{"html"}, Weights: types.Weights{Skill: 1, Interest: 1, Location: 1, Career: 1}},
	}
	for _, q := range queries {
		resp, err := e.Rank(context.Background(), q, 0)
		require.NoError(t, err)

		for i, r := range resp.Recommendations {
			for _, s := range []float64{r.SkillMatchScore, r.LocationMatchScore, r.CareerMatchScore, r.FilterScore} {
				assert.GreaterOrEqual(t, s, 0.0)
				assert.LessOrEqual(t, s, 1.0)
			}
			assert.Greater(t, r.MatchScore, 0.1)
			assert.LessOrEqual(t, r.MatchScore, q.Weights.Sum()+1e-9)
			if i > 0 {
				assert.LessOrEqual(t, r.MatchScore, resp.Recommendations[i-1].MatchScore)
			}
		}
	}
}

func TestRankTiesKeepCatalogOrder(t *testing.T) {
	e := newTestEngine(t, testCatalog())

	resp, err := e.Rank(context.Background(), types.NewQuery(), 0)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Data Science MSc", "Web Development Bootcamp", "Business Administration BSc", "Data Analytics Certificate",
	}, names(resp))
	for _, r := range resp.Recommendations {
		assert.InDelta(t, 0.3, r.MatchScore, 1e-12)
		assert.Equal(t, "Good location match. Aligns with your career goals.", r.Explanation)
	}
	assert.Contains(t, resp.Suggestions, SuggestBroadenLocation)
	assert.Contains(t, resp.Suggestions, SuggestAddSkills)
}

func TestRankModalityMismatchExcludes(t *testing.T) {
	e := newTestEngine(t, testCatalog())
	q := types.NewQuery()
	q.Modality = types.ModalityOnline

	resp, err := e.Rank(context.Background(), q, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"Web Development Bootcamp"}, names(resp))
	assert.Equal(t, types.ModalityOnline, resp.Metadata.FiltersApplied.Modality)
}

func TestRankTuitionCeilingPenalizes(t *testing.T) {
	e := newTestEngine(t, testCatalog())
	q := types.NewQuery()
	q.Skills = []string{"accounting"}
	q.MaxTuition = 15000

	resp, err := e.Rank(context.Background(), q, 0)
	require.NoError(t, err)

	for _, r := range resp.Recommendations {
		if r.Program.Name == "Business Administration BSc" {
			assert.Equal(t, 0.2, r.FilterScore)
		} else {
			assert.Equal(t, 1.0, r.FilterScore)
		}
	}
}

func TestRankLimit(t *testing.T) {
	e := newTestEngine(t, testCatalog())

	resp, err := e.Rank(context.Background(), types.NewQuery(), 2)
	require.NoError(t, err)
	assert.Len(t, resp.Recommendations, 2)
	assert.Equal(t, 4, resp.TotalMatches)
}

func TestRankDeterministic(t *testing.T) {
	e := newTestEngine(t, testCatalog())
	q := types.NewQuery()
	q.Skills = []string{"python", "sql", "leadership"}
	q.Interests = []string{"data"}
	q.Location = "Germany"

	a, err := e.Rank(context.Background(), q, 0)
	require.NoError(t, err)
	b, err := e.Rank(context.Background(), q, 0)
	require.NoError(t, err)

	assert.Equal(t, a.Recommendations, b.Recommendations)
	assert.Equal(t, a.Metadata, b.Metadata)
	assert.Equal(t, a.Suggestions, b.Suggestions)
	assert.NotEqual(t, a.RequestID, b.RequestID)
}

func TestRankInvalidWeights(t *testing.T) {
	e := newTestEngine(t, testCatalog())
	q := types.NewQuery()
	q.Weights.Location = 1.2

	_, err := e.Rank(context.Background(), q, 0)
	var verr *validation.Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, 1.0, testutil.ToFloat64(e.Metrics().RankErrors))
}

func TestRankCanceledContext(t *testing.T) {
	e := newTestEngine(t, testCatalog())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Rank(ctx, types.NewQuery(), 0)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRankDegradedCandidates(t *testing.T) {
	programs := testCatalog()
	e := NewEngine(types.DefaultEngineConfig(), staticSource(programs))

	// Index covers only the first two programs, so content scoring fails
	// for the rest.
	docs := []string{similarity.ProgramDocument(programs[0]), similarity.ProgramDocument(programs[1])}
	e.snap.Store(&snapshot{programs: programs, index: similarity.Build(docs, similarity.Options{}), version: 1})

	q := types.NewQuery()
	q.Skills = []string{"python"}
	resp, err := e.Rank(context.Background(), q, 0)
	require.NoError(t, err)

	assert.Equal(t, 2, resp.Metadata.DegradedCandidates)
	assert.Equal(t, 4, resp.TotalMatches)
	for _, r := range resp.Recommendations {
		if r.Program.ID > 2 {
			assert.Zero(t, r.SkillMatchScore)
		}
	}
	assert.Equal(t, 2.0, testutil.ToFloat64(e.Metrics().Candidates.WithLabelValues(labelDegraded)))
}

func TestNewEngineZeroConfigUsesDefaults(t *testing.T) {
	rome := []types.Program{{
		ID: 1, Name: "Art History MA", Institution: "Sapienza",
		City: "Rome", Country: "Italy", Modality: types.ModalityInPerson,
		Language: "Italian", DurationMonths: 24, Level: "graduate",
	}}
	tests := []struct {
		name      string
		location  string
		wantTotal int
		wantScore float64
	}{
		{"below min score is dropped", "Paris", 0, 0},
		{"city match is kept", "Rome", 1, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEngine(types.EngineConfig{}, staticSource(rome))
			require.NoError(t, e.Refresh(context.Background()))

			q := types.Query{Location: tt.location, Weights: types.Weights{Location: 0.5}}
			resp, err := e.Rank(context.Background(), q, 0)
			require.NoError(t, err)

			assert.Equal(t, tt.wantTotal, resp.TotalMatches)
			require.Len(t, resp.Recommendations, tt.wantTotal)
			if tt.wantTotal > 0 {
				assert.InDelta(t, tt.wantScore, resp.Recommendations[0].MatchScore, 1e-9)
			}
			assert.Contains(t, resp.Suggestions, SuggestBroadenLocation)
			assert.NotContains(t, resp.Suggestions, SuggestBroadenCriteria)
		})
	}
}

func TestNewEngineZeroConfigLowBudget(t *testing.T) {
	e := NewEngine(types.EngineConfig{}, staticSource(testCatalog()))
	require.NoError(t, e.Refresh(context.Background()))

	q := types.NewQuery()
	q.MaxTuition = 6000
	resp, err := e.Rank(context.Background(), q, 0)
	require.NoError(t, err)
	assert.Contains(t, resp.Suggestions, SuggestBudget)
}

func TestRankAcceptsLongQueries(t *testing.T) {
	e := newTestEngine(t, testCatalog())
	q := types.NewQuery()
	for i := 0; i < 60; i++ {
		q.Skills = append(q.Skills, fmt.Sprintf("skill %d", i))
	}
	q.Skills = append(q.Skills, "Python")
	q.Interests = []string{strings.Repeat("statistics ", 20)}
	q.CareerGoal = "data scientist " + strings.Repeat("x", 300)
	q.Location = strings.Repeat("Berlin ", 30)

	resp, err := e.Rank(context.Background(), q, 0)
	require.NoError(t, err)
	require.NotEmpty(t, resp.Recommendations)
	assert.Contains(t, names(resp), "Data Science MSc")
}

// --- metrics and formatting ---

func TestMetricsCountOutcomes(t *testing.T) {
	e := newTestEngine(t, testCatalog())
	q := types.NewQuery()
	q.Modality = types.ModalityOnline

	_, err := e.Rank(context.Background(), q, 0)
	require.NoError(t, err)

	m := e.Metrics()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RankRequests))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Candidates.WithLabelValues(labelMatched)))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.Candidates.WithLabelValues(labelBelowThreshold)))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.SnapshotSize))

	path := filepath.Join(t.TempDir(), "coursematch.prom")
	require.NoError(t, m.WriteTextfile(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "coursematch_rank_requests_total 1")
}

func TestFormatTable(t *testing.T) {
	e := newTestEngine(t, testCatalog())
	q := types.NewQuery()
	q.Skills = []string{"python"}

	resp, err := e.Rank(context.Background(), q, 0)
	require.NoError(t, err)

	var buf bytes.Buffer
	FormatTable(resp, &buf)
	out := buf.String()
	assert.Contains(t, out, "Data Science MSc")
	assert.Contains(t, out, "Berlin, Germany")
	assert.Contains(t, out, "Online")
	assert.Contains(t, out, "Suggestions:")
}

func TestFormatTableEmpty(t *testing.T) {
	e := newTestEngine(t, nil)
	resp, err := e.Rank(context.Background(), types.NewQuery(), 0)
	require.NoError(t, err)

	var buf bytes.Buffer
	FormatTable(resp, &buf)
	assert.Contains(t, buf.String(), "No programs available.")
	assert.Contains(t, buf.String(), "No matching programs found.")
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"Data Science MSc", 40, "Data Science MSc"},
		{"Technische Universität München", 25, "Technische Universität..."},
		{"Universität München", 19, "Universität München"},
		{"Universität München", 14, "Universität..."},
		{"Ludwig-Maximilians-Universität München", 20, "Ludwig-Maximilian..."},
		{"東京大学大学院情報理工学系研究科", 10, "東京大学大学院..."},
	}
	for _, tt := range tests {
		got := truncate(tt.in, tt.max)
		assert.Equal(t, tt.want, got)
		assert.True(t, utf8.ValidString(got), "%q", got)
		assert.LessOrEqual(t, utf8.RuneCountInString(got), tt.max)
	}
}

func TestFormatJSON(t *testing.T) {
	e := newTestEngine(t, testCatalog())
	resp, err := e.Rank(context.Background(), types.NewQuery(), 1)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, FormatJSON(resp, &buf))

	var decoded types.Response
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, resp.RequestID, decoded.RequestID)
	assert.Equal(t, 4, decoded.TotalMatches)
	require.Len(t, decoded.Recommendations, 1)
	assert.Equal(t, "Data Science MSc", decoded.Recommendations[0].Program.Name)
}
