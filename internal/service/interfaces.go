package service

import (
	"context"
	"errors"

	"github.com/alexanderramin/capplan/internal/capacity"
	"github.com/alexanderramin/capplan/internal/domain"
	"github.com/alexanderramin/capplan/internal/finance"
	"github.com/alexanderramin/capplan/internal/importer"
	"github.com/alexanderramin/capplan/internal/scenario"
	"github.com/alexanderramin/capplan/internal/skills"
)

// ErrUnsavedChanges is returned when an operation would silently drop or
// bypass edits made to the active scenario's working copy.
var ErrUnsavedChanges = errors.New("active scenario has unsaved changes")

// ScenarioService drives the Live / ScenarioActive lifecycle and keeps it
// persisted between invocations.
type ScenarioService interface {
	Status(ctx context.Context) (*ScenarioStatus, error)
	// WorkingSet returns the data commands operate on: the active
	// scenario's working copy, or live data.
	WorkingSet(ctx context.Context) (*domain.Dataset, error)
	List(ctx context.Context) ([]*domain.Scenario, error)
	Get(ctx context.Context, id string) (*domain.Scenario, error)

	CreateScenario(ctx context.Context, name, description string) (*domain.Scenario, error)
	CreateScenarioFromTemplate(ctx context.Context, templateID, name string, params scenario.Params) (*domain.Scenario, error)
	SwitchToScenario(ctx context.Context, id string) error
	SaveCurrentScenario(ctx context.Context) (*domain.Scenario, error)
	SwitchToLive(ctx context.Context) error
	DiscardChanges(ctx context.Context) error
	DeleteScenario(ctx context.Context, id string) error
	CleanupExpiredScenarios(ctx context.Context) ([]string, error)

	UpdateWorkingSet(ctx context.Context, fn func(*domain.Dataset) error) error
	// CompareWithLive diffs a stored scenario against live data. An empty
	// id compares the active working copy, unsaved edits included.
	CompareWithLive(ctx context.Context, id string) (*scenario.Comparison, error)
	ApplyScenarioToLive(ctx context.Context, id string) error
}

type ScenarioStatus struct {
	State             scenario.State
	Active            *domain.Scenario
	HasUnsavedChanges bool
}

type TeamFilter struct {
	DivisionID string
	Status     domain.TeamStatus
}

type ProjectFilter struct {
	Statuses    []domain.ProjectStatus
	Search      string
	MaxPriority int
}

// ProjectCostReport is the project's total cost plus its per-year split
// against the budgets earmarked for each financial year.
type ProjectCostReport struct {
	Project        domain.Project
	Cost           finance.ProjectCost
	Variance       *float64
	Status         finance.BudgetState
	FinancialYears []finance.FinancialYearCost
}

// PlanningService answers planning questions over the working set. Team,
// project, quarter and financial year arguments accept an ID or a name.
type PlanningService interface {
	ListTeams(ctx context.Context, filter TeamFilter) ([]domain.Team, error)
	AddTeam(ctx context.Context, team *domain.Team) error
	QuarterCapacity(ctx context.Context, team, quarter string) (*capacity.QuarterUtilization, error)
	IterationCapacity(ctx context.Context, team, quarter string, iteration int) (*capacity.CapacityCheck, error)
	CompareActuals(ctx context.Context, team, quarter string, iteration int) (*capacity.ActualsComparison, error)
	FinancialYearUtilization(ctx context.Context, team, financialYear string) (*capacity.FinancialYearUtilization, error)

	ListProjects(ctx context.Context, filter ProjectFilter) ([]domain.Project, error)
	ProjectCost(ctx context.Context, project string) (*ProjectCostReport, error)
	RecommendTeams(ctx context.Context, project string, limit int) ([]skills.TeamRecommendation, error)
	ProjectSkills(ctx context.Context, project string) ([]skills.RequiredSkill, error)

	Validate(ctx context.Context) ([]error, error)
}

// ImportService loads CSV data into the working set.
type ImportService interface {
	ImportFile(ctx context.Context, kind importer.Kind, filePath string, opts importer.Options) (*importer.Result, error)
	// ValidateFile reports every issue in the file without writing anything.
	ValidateFile(ctx context.Context, kind importer.Kind, filePath string, opts importer.Options) (*importer.Result, error)
}
