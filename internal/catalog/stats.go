// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"fmt"
)

const topN = 10

// Count is a labelled program count.
type Count struct {
	Name     string `json:"name" yaml:"name"`
	Programs int    `json:"programs" yaml:"programs"`
}

// Stats summarizes the catalog.
type Stats struct {
	Programs       int            `json:"programs" yaml:"programs"`
	Institutions   int            `json:"institutions" yaml:"institutions"`
	Skills         int            `json:"skills" yaml:"skills"`
	Outcomes       int            `json:"career_outcomes" yaml:"career_outcomes"`
	AverageTuition float64        `json:"average_tuition" yaml:"average_tuition"`
	ByModality     map[string]int `json:"by_modality" yaml:"by_modality"`
	ByLevel        map[string]int `json:"by_level" yaml:"by_level"`
	TopCountries   []Count        `json:"top_countries" yaml:"top_countries"`
	TopSkills      []Count        `json:"top_skills" yaml:"top_skills"`
}

// Stats returns catalog totals, modality and level distributions, and the
// ten countries and skills with the most programs. Programs without a
// modality or level are grouped under "unknown".
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	st := Stats{ByModality: map[string]int{}, ByLevel: map[string]int{}}

	err := s.db.QueryRowContext(ctx,
		`SELECT count(*), count(DISTINCT institution),
			COALESCE(AVG(CASE WHEN tuition > 0 THEN tuition END), 0)
		 FROM programs`,
	).Scan(&st.Programs, &st.Institutions, &st.AverageTuition)
	if err != nil {
		return Stats{}, fmt.Errorf("counting programs: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM skills`).Scan(&st.Skills); err != nil {
		return Stats{}, fmt.Errorf("counting skills: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM career_outcomes`).Scan(&st.Outcomes); err != nil {
		return Stats{}, fmt.Errorf("counting outcomes: %w", err)
	}

	if err := s.distribution(ctx, "modality", st.ByModality); err != nil {
		return Stats{}, err
	}
	if err := s.distribution(ctx, "level", st.ByLevel); err != nil {
		return Stats{}, err
	}

	st.TopCountries, err = s.top(ctx,
		`SELECT country, count(*) AS n FROM programs WHERE country <> ''
		 GROUP BY country ORDER BY n DESC, country LIMIT ?`)
	if err != nil {
		return Stats{}, err
	}
	st.TopSkills, err = s.top(ctx,
		`SELECT sk.name, count(*) AS n FROM program_skills ps JOIN skills sk ON sk.id = ps.skill_id
		 GROUP BY sk.id ORDER BY n DESC, sk.name LIMIT ?`)
	if err != nil {
		return Stats{}, err
	}
	return st, nil
}

// distribution counts programs per distinct value of column, which must be
// a trusted column name.
func (s *Store) distribution(ctx context.Context, column string, out map[string]int) error {
	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT CASE WHEN %[1]s = '' THEN 'unknown' ELSE lower(%[1]s) END AS v, count(*)
			FROM programs GROUP BY v`, column))
	if err != nil {
		return fmt.Errorf("querying %s distribution: %w", column, err)
	}
	defer rows.Close()
	for rows.Next() {
		var v string
		var n int
		if err := rows.Scan(&v, &n); err != nil {
			return fmt.Errorf("scanning %s distribution: %w", column, err)
		}
		out[v] = n
	}
	return rows.Err()
}

func (s *Store) top(ctx context.Context, query string) ([]Count, error) {
	rows, err := s.db.QueryContext(ctx, query, topN)
	if err != nil {
		return nil, fmt.Errorf("querying top counts: %w", err)
	}
	defer rows.Close()
	out := []Count{}
	for rows.Next() {
		var c Count
		if err := rows.Scan(&c.Name, &c.Programs); err != nil {
			return nil, fmt.Errorf("scanning top counts: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
