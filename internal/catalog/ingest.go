// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/coursematch/internal/validation"
	"github.com/pdiddy/coursematch/pkg/types"
)

// IngestSummary holds counts from a catalog ingest run. Files and Skipped
// count seed files; Indexed, Updated and Failed count programs, except that
// a seed file that cannot be read or parsed counts once as Failed.
type IngestSummary struct {
	Files   int
	Skipped int
	Indexed int
	Updated int
	Failed  int
}

// Total returns the number of programs processed.
func (s IngestSummary) Total() int {
	return s.Indexed + s.Updated + s.Failed
}

// Ingest reads *.yaml seed files from the seed directory and upserts their
// programs. Files unchanged since the last ingest (by modification time)
// are skipped. Invalid programs are reported to w and counted as failed
// without aborting the run. Ingest holds index/ingest.lock while it runs.
func (s *Store) Ingest(ctx context.Context, w io.Writer) (IngestSummary, error) {
	unlock, err := s.lock(ctx)
	if err != nil {
		return IngestSummary{}, err
	}
	defer unlock()

	entries, err := os.ReadDir(s.seedDir)
	if err != nil {
		return IngestSummary{}, fmt.Errorf("reading seed directory %s: %w", s.seedDir, err)
	}

	var summary IngestSummary
	for _, entry := range entries {
		if entry.IsDir() || !isSeedFile(entry.Name()) {
			continue
		}

		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		summary.Files++
		name := entry.Name()
		info, err := entry.Info()
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", name, err)
			summary.Failed++
			continue
		}
		modTime := info.ModTime().UTC().Format(time.RFC3339Nano)

		var storedModTime string
		err = s.db.QueryRowContext(ctx,
			`SELECT file_mod_time FROM ingest_status WHERE file = ?`, name,
		).Scan(&storedModTime)
		if err == nil && storedModTime == modTime {
			fmt.Fprintf(w, "skipped %s\n", name)
			summary.Skipped++
			continue
		}

		data, err := os.ReadFile(filepath.Join(s.seedDir, name))
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", name, err)
			summary.Failed++
			continue
		}
		var seed types.SeedFile
		if err := yaml.Unmarshal(data, &seed); err != nil {
			fmt.Fprintf(w, "failed  %s: parse error: %v\n", name, err)
			summary.Failed++
			continue
		}

		valid := make([]types.Program, 0, len(seed.Programs))
		for i := range seed.Programs {
			p := seed.Programs[i]
			if err := normalize(&p); err != nil {
				fmt.Fprintf(w, "failed  %s: program %d (%s): %v\n", name, i+1, p.Name, err)
				summary.Failed++
				continue
			}
			valid = append(valid, p)
		}

		inserted, updated, err := s.ingestFile(ctx, name, modTime, valid)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", name, err)
			summary.Failed += len(valid)
			continue
		}
		summary.Indexed += inserted
		summary.Updated += updated
		fmt.Fprintf(w, "ingested %s (%d new, %d updated)\n", name, inserted, updated)
	}

	fmt.Fprintf(w, "\nfiles: %d, skipped: %d, indexed: %d, updated: %d, failed: %d\n",
		summary.Files, summary.Skipped, summary.Indexed, summary.Updated, summary.Failed)
	return summary, nil
}

// lock acquires the ingest file lock, waiting up to the configured timeout.
func (s *Store) lock(ctx context.Context) (func(), error) {
	l := flock.New(filepath.Join(s.dir, indexDir, lockFile))
	lockCtx, cancel := context.WithTimeout(ctx, s.lockTimeout)
	defer cancel()

	locked, err := l.TryLockContext(lockCtx, 50*time.Millisecond)
	if err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return nil, fmt.Errorf("acquiring ingest lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("%w (lock: %s)", ErrIngestLocked, l.Path())
	}
	return func() { _ = l.Unlock() }, nil
}

func isSeedFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}

// normalize canonicalizes a seed program in place and validates it.
func normalize(p *types.Program) error {
	p.ID = 0
	p.Name = strings.TrimSpace(p.Name)
	p.Institution = strings.TrimSpace(p.Institution)
	p.Code = strings.TrimSpace(p.Code)
	p.Currency = strings.ToUpper(strings.TrimSpace(p.Currency))

	m, err := types.ParseModality(string(p.Modality))
	if err != nil {
		return err
	}
	p.Modality = m

	for i := range p.Skills {
		p.Skills[i].ID = 0
		p.Skills[i].Name = strings.TrimSpace(p.Skills[i].Name)
	}
	for i := range p.Outcomes {
		p.Outcomes[i].ID = 0
		p.Outcomes[i].Title = strings.TrimSpace(p.Outcomes[i].Title)
	}
	return validation.Program(p)
}

// ingestFile upserts all programs from one seed file in a single
// transaction and records the file's modification time.
func (s *Store) ingestFile(ctx context.Context, file, modTime string, programs []types.Program) (inserted, updated int, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for i := range programs {
		isNew, err := upsertProgram(ctx, tx, file, &programs[i])
		if err != nil {
			return 0, 0, fmt.Errorf("program %q: %w", programs[i].Name, err)
		}
		if isNew {
			inserted++
		} else {
			updated++
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO ingest_status (file, file_mod_time) VALUES (?, ?)
		 ON CONFLICT(file) DO UPDATE SET file_mod_time=excluded.file_mod_time`,
		file, modTime,
	)
	if err != nil {
		return 0, 0, fmt.Errorf("updating ingest status: %w", err)
	}
	return inserted, updated, tx.Commit()
}

// upsertProgram inserts or updates p, identified by code when set and by
// name and institution otherwise, then rewrites its tag associations.
func upsertProgram(ctx context.Context, tx *sql.Tx, file string, p *types.Program) (bool, error) {
	var id int64
	var err error
	if p.Code != "" {
		err = tx.QueryRowContext(ctx, `SELECT id FROM programs WHERE code = ?`, p.Code).Scan(&id)
	} else {
		err = tx.QueryRowContext(ctx,
			`SELECT id FROM programs WHERE code = '' AND name = ? AND institution = ?`,
			p.Name, p.Institution,
		).Scan(&id)
	}
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("looking up program: %w", err)
	}
	isNew := errors.Is(err, sql.ErrNoRows)

	args := []any{
		p.Code, p.Name, p.Description, p.Institution, p.City, p.Country,
		string(p.Modality), p.Language, p.DurationMonths, p.Tuition, p.Currency,
		p.Level, p.EntryRequirements, p.UniversityRank, file,
	}
	if isNew {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO programs (code, name, description, institution, city, country,
				modality, language, duration_months, tuition, currency, level,
				entry_requirements, university_rank, source_file)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, args...)
		if err != nil {
			return false, fmt.Errorf("inserting program: %w", err)
		}
		if id, err = res.LastInsertId(); err != nil {
			return false, fmt.Errorf("reading program id: %w", err)
		}
	} else {
		_, err := tx.ExecContext(ctx,
			`UPDATE programs SET code=?, name=?, description=?, institution=?, city=?, country=?,
				modality=?, language=?, duration_months=?, tuition=?, currency=?, level=?,
				entry_requirements=?, university_rank=?, source_file=?
			 WHERE id = ?`, append(args, id)...)
		if err != nil {
			return false, fmt.Errorf("updating program: %w", err)
		}
	}

	if err := replaceSkills(ctx, tx, id, p.Skills); err != nil {
		return false, err
	}
	if err := replaceOutcomes(ctx, tx, id, p.Outcomes); err != nil {
		return false, err
	}
	return isNew, nil
}

func replaceSkills(ctx context.Context, tx *sql.Tx, programID int64, skills []types.Skill) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM program_skills WHERE program_id = ?`, programID); err != nil {
		return fmt.Errorf("clearing skills: %w", err)
	}
	for pos, sk := range dedupeSkills(skills) {
		var skillID int64
		err := tx.QueryRowContext(ctx,
			`INSERT INTO skills (name, category, description) VALUES (?, ?, ?)
			 ON CONFLICT(name) DO UPDATE SET
				category = CASE WHEN excluded.category <> '' THEN excluded.category ELSE skills.category END,
				description = CASE WHEN excluded.description <> '' THEN excluded.description ELSE skills.description END
			 RETURNING id`,
			sk.Name, sk.Category, sk.Description,
		).Scan(&skillID)
		if err != nil {
			return fmt.Errorf("upserting skill %q: %w", sk.Name, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO program_skills (program_id, skill_id, position) VALUES (?, ?, ?)`,
			programID, skillID, pos,
		); err != nil {
			return fmt.Errorf("linking skill %q: %w", sk.Name, err)
		}
	}
	return nil
}

func replaceOutcomes(ctx context.Context, tx *sql.Tx, programID int64, outcomes []types.CareerOutcome) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM program_outcomes WHERE program_id = ?`, programID); err != nil {
		return fmt.Errorf("clearing outcomes: %w", err)
	}
	for pos, o := range dedupeOutcomes(outcomes) {
		var outcomeID int64
		err := tx.QueryRowContext(ctx,
			`INSERT INTO career_outcomes (title, description, average_salary, salary_currency, employment_rate)
			 VALUES (?, ?, ?, ?, ?)
			 ON CONFLICT(title) DO UPDATE SET
				description = CASE WHEN excluded.description <> '' THEN excluded.description ELSE career_outcomes.description END,
				average_salary = CASE WHEN excluded.average_salary > 0 THEN excluded.average_salary ELSE career_outcomes.average_salary END,
				salary_currency = CASE WHEN excluded.salary_currency <> '' THEN excluded.salary_currency ELSE career_outcomes.salary_currency END,
				employment_rate = CASE WHEN excluded.employment_rate > 0 THEN excluded.employment_rate ELSE career_outcomes.employment_rate END
			 RETURNING id`,
			o.Title, o.Description, o.AverageSalary, o.SalaryCurrency, o.EmploymentRate,
		).Scan(&outcomeID)
		if err != nil {
			return fmt.Errorf("upserting outcome %q: %w", o.Title, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO program_outcomes (program_id, outcome_id, position) VALUES (?, ?, ?)`,
			programID, outcomeID, pos,
		); err != nil {
			return fmt.Errorf("linking outcome %q: %w", o.Title, err)
		}
	}
	return nil
}

// dedupeSkills drops repeated skill names (ignoring case), keeping the
// first occurrence.
func dedupeSkills(skills []types.Skill) []types.Skill {
	seen := make(map[string]bool, len(skills))
	out := make([]types.Skill, 0, len(skills))
	for _, sk := range skills {
		key := strings.ToLower(sk.Name)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, sk)
	}
	return out
}

func dedupeOutcomes(outcomes []types.CareerOutcome) []types.CareerOutcome {
	seen := make(map[string]bool, len(outcomes))
	out := make([]types.CareerOutcome, 0, len(outcomes))
	for _, o := range outcomes {
		key := strings.ToLower(o.Title)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, o)
	}
	return out
}
