// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/pdiddy/coursematch/pkg/types"
)

const programColumns = `p.id, p.code, p.name, p.description, p.institution, p.city, p.country,
	p.modality, p.language, p.duration_months, p.tuition, p.currency, p.level,
	p.entry_requirements, p.university_rank`

// ListOptions holds filters for catalog listings. Zero values mean no filter.
type ListOptions struct {
	// Search matches a case-insensitive substring of name or description.
	Search      string
	Institution string
	Country     string
	Modality    types.Modality
	Level       string
	MaxTuition  float64

	// Limit caps the page size. Zero uses the store default.
	Limit  int
	Offset int
}

// ListResult is one page of programs plus the total number that match.
type ListResult struct {
	Programs []types.Program `json:"programs" yaml:"programs"`
	Total    int             `json:"total" yaml:"total"`
}

// Graph holds the program-to-tag adjacency as ID lists, in tag order for
// the program-keyed maps and program ID order for the tag-keyed maps.
type Graph struct {
	ProgramSkills   map[int64][]int64
	SkillPrograms   map[int64][]int64
	ProgramOutcomes map[int64][]int64
	OutcomePrograms map[int64][]int64
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProgram(sc scanner) (types.Program, error) {
	var p types.Program
	var modality string
	err := sc.Scan(
		&p.ID, &p.Code, &p.Name, &p.Description, &p.Institution, &p.City, &p.Country,
		&modality, &p.Language, &p.DurationMonths, &p.Tuition, &p.Currency, &p.Level,
		&p.EntryRequirements, &p.UniversityRank,
	)
	p.Modality = types.Modality(modality)
	return p, err
}

// ListPrograms returns every program ordered by ID with skills and career
// outcomes populated in declaration order.
func (s *Store) ListPrograms(ctx context.Context) ([]types.Program, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+programColumns+` FROM programs p ORDER BY p.id`)
	if err != nil {
		return nil, fmt.Errorf("querying programs: %w", err)
	}
	programs, err := collectPrograms(rows)
	if err != nil {
		return nil, err
	}
	if err := s.attachTags(ctx, programs); err != nil {
		return nil, err
	}
	return programs, nil
}

// List returns a filtered page of programs ordered by ID.
func (s *Store) List(ctx context.Context, opts ListOptions) (ListResult, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = s.maxResults
	}

	var (
		where strings.Builder
		args  []any
	)
	where.WriteString(` WHERE 1=1`)
	if opts.Search != "" {
		where.WriteString(` AND (p.name LIKE ? OR p.description LIKE ?)`)
		pattern := "%" + opts.Search + "%"
		args = append(args, pattern, pattern)
	}
	if opts.Institution != "" {
		where.WriteString(` AND p.institution LIKE ?`)
		args = append(args, "%"+opts.Institution+"%")
	}
	if opts.Country != "" {
		where.WriteString(` AND p.country = ? COLLATE NOCASE`)
		args = append(args, opts.Country)
	}
	if opts.Modality != "" {
		where.WriteString(` AND p.modality = ?`)
		args = append(args, string(opts.Modality))
	}
	if opts.Level != "" {
		where.WriteString(` AND p.level = ? COLLATE NOCASE`)
		args = append(args, opts.Level)
	}
	if opts.MaxTuition > 0 {
		where.WriteString(` AND p.tuition <= ?`)
		args = append(args, opts.MaxTuition)
	}

	var result ListResult
	if err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM programs p`+where.String(), args...,
	).Scan(&result.Total); err != nil {
		return ListResult{}, fmt.Errorf("counting programs: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+programColumns+` FROM programs p`+where.String()+` ORDER BY p.id LIMIT ? OFFSET ?`,
		append(args, limit, opts.Offset)...,
	)
	if err != nil {
		return ListResult{}, fmt.Errorf("querying programs: %w", err)
	}
	result.Programs, err = collectPrograms(rows)
	if err != nil {
		return ListResult{}, err
	}
	if err := s.attachTags(ctx, result.Programs); err != nil {
		return ListResult{}, err
	}
	return result, nil
}

// Program returns the program with the given ID or ErrProgramNotFound.
func (s *Store) Program(ctx context.Context, id int64) (types.Program, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+programColumns+` FROM programs p WHERE p.id = ?`, id)
	p, err := scanProgram(row)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Program{}, fmt.Errorf("%w: %d", ErrProgramNotFound, id)
	}
	if err != nil {
		return types.Program{}, fmt.Errorf("looking up program: %w", err)
	}
	programs := []types.Program{p}
	if err := s.attachTags(ctx, programs); err != nil {
		return types.Program{}, err
	}
	return programs[0], nil
}

// SkillNames returns every skill name in the catalog, sorted.
func (s *Store) SkillNames(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM skills ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("querying skills: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("scanning skill: %w", err)
		}
		names = append(names, n)
	}
	return names, rows.Err()
}

// Graph returns the program-to-skill and program-to-outcome adjacency.
func (s *Store) Graph(ctx context.Context) (Graph, error) {
	g := Graph{
		ProgramSkills:   map[int64][]int64{},
		SkillPrograms:   map[int64][]int64{},
		ProgramOutcomes: map[int64][]int64{},
		OutcomePrograms: map[int64][]int64{},
	}
	if err := s.loadEdges(ctx,
		`SELECT program_id, skill_id FROM program_skills ORDER BY program_id, position`,
		g.ProgramSkills, g.SkillPrograms); err != nil {
		return Graph{}, err
	}
	if err := s.loadEdges(ctx,
		`SELECT program_id, outcome_id FROM program_outcomes ORDER BY program_id, position`,
		g.ProgramOutcomes, g.OutcomePrograms); err != nil {
		return Graph{}, err
	}
	return g, nil
}

func (s *Store) loadEdges(ctx context.Context, query string, forward, reverse map[int64][]int64) error {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("querying associations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var from, to int64
		if err := rows.Scan(&from, &to); err != nil {
			return fmt.Errorf("scanning association: %w", err)
		}
		forward[from] = append(forward[from], to)
		reverse[to] = append(reverse[to], from)
	}
	return rows.Err()
}

func collectPrograms(rows *sql.Rows) ([]types.Program, error) {
	defer rows.Close()
	programs := []types.Program{}
	for rows.Next() {
		p, err := scanProgram(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning program: %w", err)
		}
		programs = append(programs, p)
	}
	return programs, rows.Err()
}

// attachTags loads skills and outcomes for programs. Rows are matched to
// programs through an ID-to-position map.
func (s *Store) attachTags(ctx context.Context, programs []types.Program) error {
	if len(programs) == 0 {
		return nil
	}
	pos := make(map[int64]int, len(programs))
	ids := make([]any, len(programs))
	for i := range programs {
		pos[programs[i].ID] = i
		ids[i] = programs[i].ID
		programs[i].Skills = []types.Skill{}
		programs[i].Outcomes = []types.CareerOutcome{}
	}
	in := "(" + strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",") + ")"

	rows, err := s.db.QueryContext(ctx,
		`SELECT ps.program_id, sk.id, sk.name, sk.category, sk.description
		 FROM program_skills ps JOIN skills sk ON sk.id = ps.skill_id
		 WHERE ps.program_id IN `+in+`
		 ORDER BY ps.program_id, ps.position`, ids...)
	if err != nil {
		return fmt.Errorf("querying program skills: %w", err)
	}
	for rows.Next() {
		var pid int64
		var sk types.Skill
		if err := rows.Scan(&pid, &sk.ID, &sk.Name, &sk.Category, &sk.Description); err != nil {
			rows.Close()
			return fmt.Errorf("scanning skill: %w", err)
		}
		i := pos[pid]
		programs[i].Skills = append(programs[i].Skills, sk)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = s.db.QueryContext(ctx,
		`SELECT po.program_id, co.id, co.title, co.description, co.average_salary,
			co.salary_currency, co.employment_rate
		 FROM program_outcomes po JOIN career_outcomes co ON co.id = po.outcome_id
		 WHERE po.program_id IN `+in+`
		 ORDER BY po.program_id, po.position`, ids...)
	if err != nil {
		return fmt.Errorf("querying program outcomes: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var pid int64
		var o types.CareerOutcome
		if err := rows.Scan(&pid, &o.ID, &o.Title, &o.Description, &o.AverageSalary,
			&o.SalaryCurrency, &o.EmploymentRate); err != nil {
			return fmt.Errorf("scanning outcome: %w", err)
		}
		i := pos[pid]
		programs[i].Outcomes = append(programs[i].Outcomes, o)
	}
	return rows.Err()
}
