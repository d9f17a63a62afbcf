package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/capplan/internal/domain"
)

func (r *SQLiteDatasetRepo) insertSkill(ctx context.Context, s *domain.Skill) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO skills (id, name, category) VALUES (?, ?, ?)`, s.ID, s.Name, s.Category)
	if err != nil {
		return fmt.Errorf("inserting skill: %w", err)
	}
	return nil
}

func (r *SQLiteDatasetRepo) listSkills(ctx context.Context) ([]domain.Skill, error) {
	query := `SELECT id, name, category FROM skills ORDER BY rowid`
	return queryAll(ctx, r.db, "skills", query, func(row rowScanner) (domain.Skill, error) {
		var s domain.Skill
		err := row.Scan(&s.ID, &s.Name, &s.Category)
		return s, err
	})
}

func (r *SQLiteDatasetRepo) insertPersonSkill(ctx context.Context, ps *domain.PersonSkill) error {
	query := `INSERT INTO person_skills (person_id, skill_id, proficiency, years_of_experience)
		VALUES (?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, ps.PersonID, ps.SkillID, string(ps.Proficiency), ps.YearsOfExperience)
	if err != nil {
		return fmt.Errorf("inserting person skill: %w", err)
	}
	return nil
}

func (r *SQLiteDatasetRepo) listPersonSkills(ctx context.Context) ([]domain.PersonSkill, error) {
	query := `SELECT person_id, skill_id, proficiency, years_of_experience FROM person_skills ORDER BY rowid`
	return queryAll(ctx, r.db, "person skills", query, func(row rowScanner) (domain.PersonSkill, error) {
		var ps domain.PersonSkill
		var proficiency string
		err := row.Scan(&ps.PersonID, &ps.SkillID, &proficiency, &ps.YearsOfExperience)
		ps.Proficiency = domain.Proficiency(proficiency)
		return ps, err
	})
}

func (r *SQLiteDatasetRepo) insertSolution(ctx context.Context, s *domain.Solution) error {
	skills, err := encodeJSON(s.SkillIDs)
	if err != nil {
		return fmt.Errorf("encoding solution skills: %w", err)
	}
	query := `INSERT INTO solutions (id, name, category, skill_ids) VALUES (?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, query, s.ID, s.Name, s.Category, skills); err != nil {
		return fmt.Errorf("inserting solution: %w", err)
	}
	return nil
}

func (r *SQLiteDatasetRepo) listSolutions(ctx context.Context) ([]domain.Solution, error) {
	query := `SELECT id, name, category, skill_ids FROM solutions ORDER BY rowid`
	return queryAll(ctx, r.db, "solutions", query, func(row rowScanner) (domain.Solution, error) {
		var s domain.Solution
		var skills string
		if err := row.Scan(&s.ID, &s.Name, &s.Category, &skills); err != nil {
			return s, err
		}
		if err := decodeJSON(skills, &s.SkillIDs); err != nil {
			return s, fmt.Errorf("decoding skills of solution %s: %w", s.ID, err)
		}
		return s, nil
	})
}

func (r *SQLiteDatasetRepo) insertProjectSolution(ctx context.Context, ps *domain.ProjectSolution) error {
	query := `INSERT INTO project_solutions (project_id, solution_id, is_primary) VALUES (?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, ps.ProjectID, ps.SolutionID, boolToInt(ps.IsPrimary))
	if err != nil {
		return fmt.Errorf("inserting project solution: %w", err)
	}
	return nil
}

func (r *SQLiteDatasetRepo) listProjectSolutions(ctx context.Context) ([]domain.ProjectSolution, error) {
	query := `SELECT project_id, solution_id, is_primary FROM project_solutions ORDER BY rowid`
	return queryAll(ctx, r.db, "project solutions", query, func(row rowScanner) (domain.ProjectSolution, error) {
		var ps domain.ProjectSolution
		var primary int
		err := row.Scan(&ps.ProjectID, &ps.SolutionID, &primary)
		ps.IsPrimary = intToBool(primary)
		return ps, err
	})
}

func (r *SQLiteDatasetRepo) insertProjectSkill(ctx context.Context, ps *domain.ProjectSkill) error {
	query := `INSERT INTO project_skills (project_id, skill_id, source_solution_id, importance)
		VALUES (?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, ps.ProjectID, ps.SkillID, ps.SourceSolutionID, ps.Importance)
	if err != nil {
		return fmt.Errorf("inserting project skill: %w", err)
	}
	return nil
}

func (r *SQLiteDatasetRepo) listProjectSkills(ctx context.Context) ([]domain.ProjectSkill, error) {
	query := `SELECT project_id, skill_id, source_solution_id, importance FROM project_skills ORDER BY rowid`
	return queryAll(ctx, r.db, "project skills", query, func(row rowScanner) (domain.ProjectSkill, error) {
		var ps domain.ProjectSkill
		err := row.Scan(&ps.ProjectID, &ps.SkillID, &ps.SourceSolutionID, &ps.Importance)
		return ps, err
	})
}
