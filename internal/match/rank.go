// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package match

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc/iter"

	"github.com/pdiddy/coursematch/internal/similarity"
	"github.com/pdiddy/coursematch/internal/validation"
	"github.com/pdiddy/coursematch/pkg/types"
)

// Candidate is one scored program. Candidates live for a single Rank call.
type Candidate struct {
	// Index is the program's position in the snapshot.
	Index   int
	Program *types.Program

	Content  float64
	Location float64
	Career   float64
	Filter   float64
	Total    float64

	SkillMatches []string
	Explanation  string
}

// outcome tags what happened to a program during scoring.
type outcome int

const (
	outcomeMatched outcome = iota
	outcomeBelowThreshold
)

func (o outcome) String() string {
	if o == outcomeMatched {
		return labelMatched
	}
	return labelBelowThreshold
}

// scored is the per-program result of the scoring pass. degraded is set
// when the content score could not be computed and was taken as zero.
type scored struct {
	cand     Candidate
	outcome  outcome
	degraded error
}

// Rank scores every program in the current snapshot against q and returns
// up to limit recommendations, best first. limit <= 0 means the configured
// default. Rank returns ErrNotInitialized before the first Refresh and a
// *validation.Error for an invalid query.
func (e *Engine) Rank(ctx context.Context, q types.Query, limit int) (*types.Response, error) {
	start := time.Now()
	e.metrics.RankRequests.Inc()
	defer func() { e.metrics.RankDuration.Observe(time.Since(start).Seconds()) }()

	snap := e.snap.Load()
	if snap == nil {
		e.metrics.RankErrors.Inc()
		return nil, ErrNotInitialized
	}
	if err := validation.Query(&q); err != nil {
		e.metrics.RankErrors.Inc()
		return nil, err
	}
	if limit <= 0 {
		limit = e.cfg.DefaultLimit
	}

	reqID := uuid.New().String()
	log := e.log.With().Str("request_id", reqID).Int("snapshot", snap.version).Logger()

	resp := &types.Response{
		RequestID:       reqID,
		Recommendations: []types.Recommendation{},
		Suggestions:     []string{},
		Metadata: types.SearchMetadata{
			ProgramsAnalyzed:    len(snap.programs),
			QuerySkillsCount:    len(q.Skills),
			QueryInterestsCount: len(q.Interests),
			VocabularySize:      snap.index.VocabularySize(),
			FiltersApplied:      filtersApplied(&q),
		},
	}

	if len(snap.programs) == 0 {
		log.Debug().Msg("empty catalog")
		resp.Metadata.Error = "No programs available"
		resp.Suggestions = append(resp.Suggestions, "Please ensure programs are loaded in the catalog")
		return resp, nil
	}

	results := e.score(snap, &q)
	if err := ctx.Err(); err != nil {
		e.metrics.RankErrors.Inc()
		return nil, fmt.Errorf("ranking: %w", err)
	}

	var matched []Candidate
	for _, r := range results {
		if r.degraded != nil {
			resp.Metadata.DegradedCandidates++
			e.metrics.Candidates.WithLabelValues(labelDegraded).Inc()
			log.Debug().Err(r.degraded).Int("program", r.cand.Index).Msg("content score unavailable")
		}
		e.metrics.Candidates.WithLabelValues(r.outcome.String()).Inc()
		if r.outcome == outcomeMatched {
			matched = append(matched, r.cand)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Total > matched[j].Total
	})

	resp.TotalMatches = len(matched)
	resp.Metadata.AverageMatchScore = meanTotal(matched)
	resp.Suggestions = e.suggestions(&q, len(matched), resp.Metadata.AverageMatchScore)

	if len(matched) > limit {
		matched = matched[:limit]
	}
	for i := range matched {
		matched[i].Explanation = explain(&matched[i])
		resp.Recommendations = append(resp.Recommendations, e.recommendation(snap, &matched[i]))
	}

	log.Debug().
		Int("analyzed", len(snap.programs)).
		Int("matched", resp.TotalMatches).
		Int("returned", len(resp.Recommendations)).
		Int("degraded", resp.Metadata.DegradedCandidates).
		Dur("took", time.Since(start)).
		Msg("rank complete")
	return resp, nil
}

// score computes every program's candidate in parallel. Results keep
// snapshot order.
func (e *Engine) score(snap *snapshot, q *types.Query) []scored {
	qv := snap.index.Embed(q.Text())
	positions := make([]int, len(snap.programs))
	for i := range positions {
		positions[i] = i
	}
	mapper := iter.Mapper[int, scored]{MaxGoroutines: e.cfg.Workers}
	return mapper.Map(positions, func(i *int) scored {
		return e.scoreOne(snap, q, qv, *i)
	})
}

// scoreOne computes all sub-scores for program i.
func (e *Engine) scoreOne(snap *snapshot, q *types.Query, qv similarity.Vector, i int) scored {
	p := &snap.programs[i]
	var res scored

	content := 0.0
	if len(qv) > 0 {
		c, err := snap.index.Similarity(qv, i)
		if err != nil {
			res.degraded = err
		} else {
			content = c
		}
	}

	c := Candidate{
		Index:        i,
		Program:      p,
		Content:      content,
		Location:     locationScore(q, p),
		Career:       careerScore(q, p),
		Filter:       filterScore(q, p),
		SkillMatches: skillMatches(q.Skills, p),
	}
	c.Total = total(q.Weights, c.Content, c.Location, c.Career, c.Filter)
	res.cand = c

	if c.Total > e.cfg.MinScore {
		res.outcome = outcomeMatched
	} else {
		res.outcome = outcomeBelowThreshold
	}
	return res
}

// recommendation builds the response entry for c.
func (e *Engine) recommendation(snap *snapshot, c *Candidate) types.Recommendation {
	rec := types.Recommendation{
		Program:             *c.Program,
		MatchScore:          c.Total,
		Explanation:         c.Explanation,
		SkillMatches:        c.SkillMatches,
		SkillMatchScore:     c.Content,
		InterestMatchScore:  c.Content,
		LocationMatchScore:  c.Location,
		CareerMatchScore:    c.Career,
		FilterScore:         c.Filter,
		MissingRequirements: []string{},
		SimilarAlternatives: alternatives(snap, c.Index, e.cfg.Alternatives),
	}
	if rec.SkillMatches == nil {
		rec.SkillMatches = []string{}
	}
	if c.Program.EntryRequirements != "" {
		rec.MissingRequirements = append(rec.MissingRequirements, "Please check entry requirements")
	}
	return rec
}

// alternatives returns the IDs of up to n other programs with the highest
// positive content similarity to program i, ties in snapshot order.
func alternatives(snap *snapshot, i, n int) []int64 {
	out := []int64{}
	if n <= 0 {
		return out
	}
	type neighbor struct {
		idx int
		sim float64
	}
	var ns []neighbor
	for j := range snap.programs {
		if j == i {
			continue
		}
		if s := snap.index.DocSimilarity(i, j); s > 0 {
			ns = append(ns, neighbor{idx: j, sim: s})
		}
	}
	sort.SliceStable(ns, func(a, b int) bool { return ns[a].sim > ns[b].sim })
	if len(ns) > n {
		ns = ns[:n]
	}
	for _, nb := range ns {
		out = append(out, snap.programs[nb.idx].ID)
	}
	return out
}

func meanTotal(cs []Candidate) float64 {
	if len(cs) == 0 {
		return 0
	}
	var sum float64
	for _, c := range cs {
		sum += c.Total
	}
	return sum / float64(len(cs))
}

func filtersApplied(q *types.Query) types.FiltersApplied {
	return types.FiltersApplied{
		Location:    q.Location,
		Modality:    q.Modality,
		Language:    q.Language,
		MaxTuition:  q.MaxTuition,
		MaxDuration: q.MaxDurationMonths,
		Level:       q.Level,
	}
}
