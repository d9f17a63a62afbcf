package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/capplan/internal/db"
	"github.com/alexanderramin/capplan/internal/domain"
)

// SQLiteDatasetRepo implements DatasetRepo over the planning tables.
// Records are returned in insertion order.
type SQLiteDatasetRepo struct {
	db db.DBTX
}

func NewSQLiteDatasetRepo(conn db.DBTX) *SQLiteDatasetRepo {
	return &SQLiteDatasetRepo{db: conn}
}

// Child tables come before their parents.
var datasetTables = []string{
	"milestones",
	"project_skills",
	"project_solutions",
	"person_skills",
	"actual_allocations",
	"allocations",
	"epics",
	"projects",
	"people",
	"teams",
	"roles",
	"divisions",
	"run_work_categories",
	"cycles",
	"financial_years",
	"solutions",
	"skills",
}

func (r *SQLiteDatasetRepo) Load(ctx context.Context) (*domain.Dataset, error) {
	var ds domain.Dataset
	var err error

	if ds.Divisions, err = r.listDivisions(ctx); err != nil {
		return nil, err
	}
	if ds.Teams, err = r.listTeams(ctx); err != nil {
		return nil, err
	}
	if ds.Roles, err = r.listRoles(ctx); err != nil {
		return nil, err
	}
	if ds.People, err = r.listPeople(ctx); err != nil {
		return nil, err
	}
	if ds.Projects, err = r.listProjects(ctx); err != nil {
		return nil, err
	}
	if ds.Epics, err = r.listEpics(ctx); err != nil {
		return nil, err
	}
	if ds.RunWorkCategories, err = r.listRunWorkCategories(ctx); err != nil {
		return nil, err
	}
	if ds.FinancialYears, err = r.listFinancialYears(ctx); err != nil {
		return nil, err
	}
	if ds.Cycles, err = r.listCycles(ctx); err != nil {
		return nil, err
	}
	if ds.Allocations, err = r.listAllocations(ctx); err != nil {
		return nil, err
	}
	if ds.ActualAllocations, err = r.listActualAllocations(ctx); err != nil {
		return nil, err
	}
	if ds.Skills, err = r.listSkills(ctx); err != nil {
		return nil, err
	}
	if ds.PersonSkills, err = r.listPersonSkills(ctx); err != nil {
		return nil, err
	}
	if ds.Solutions, err = r.listSolutions(ctx); err != nil {
		return nil, err
	}
	if ds.ProjectSolutions, err = r.listProjectSolutions(ctx); err != nil {
		return nil, err
	}
	if ds.ProjectSkills, err = r.listProjectSkills(ctx); err != nil {
		return nil, err
	}
	return &ds, nil
}

func (r *SQLiteDatasetRepo) ReplaceAll(ctx context.Context, ds *domain.Dataset) error {
	for _, table := range datasetTables {
		if _, err := r.db.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}
	return r.Append(ctx, ds)
}

func (r *SQLiteDatasetRepo) Append(ctx context.Context, ds *domain.Dataset) error {
	steps := []func() error{
		func() error { return insertEach(ctx, ds.Divisions, r.insertDivision) },
		func() error { return insertEach(ctx, ds.Teams, r.insertTeam) },
		func() error { return insertEach(ctx, ds.Roles, r.insertRole) },
		func() error { return insertEach(ctx, ds.People, r.insertPerson) },
		func() error { return insertEach(ctx, ds.Projects, r.insertProject) },
		func() error { return insertEach(ctx, ds.Epics, r.insertEpic) },
		func() error { return insertEach(ctx, ds.RunWorkCategories, r.insertRunWorkCategory) },
		func() error { return insertEach(ctx, ds.FinancialYears, r.insertFinancialYear) },
		func() error { return insertEach(ctx, ds.Cycles, r.insertCycle) },
		func() error { return insertEach(ctx, ds.Allocations, r.insertAllocation) },
		func() error { return insertEach(ctx, ds.ActualAllocations, r.insertActualAllocation) },
		func() error { return insertEach(ctx, ds.Skills, r.insertSkill) },
		func() error { return insertEach(ctx, ds.PersonSkills, r.insertPersonSkill) },
		func() error { return insertEach(ctx, ds.Solutions, r.insertSolution) },
		func() error { return insertEach(ctx, ds.ProjectSolutions, r.insertProjectSolution) },
		func() error { return insertEach(ctx, ds.ProjectSkills, r.insertProjectSkill) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

func insertEach[T any](ctx context.Context, items []T, insert func(context.Context, *T) error) error {
	for i := range items {
		if err := insert(ctx, &items[i]); err != nil {
			return err
		}
	}
	return nil
}
