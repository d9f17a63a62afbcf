package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/capplan/internal/capacity"
	"github.com/alexanderramin/capplan/internal/domain"
	"github.com/alexanderramin/capplan/internal/finance"
	"github.com/alexanderramin/capplan/internal/listview"
	"github.com/alexanderramin/capplan/internal/skills"
	"github.com/google/uuid"
)

type planningService struct {
	scenarios      ScenarioService
	recommendLimit int
	observer       UseCaseObserver
}

// NewPlanningService reads and writes through the scenario service so every
// question is answered against the current working set.
func NewPlanningService(scenarios ScenarioService, recommendLimit int, observers ...UseCaseObserver) PlanningService {
	if recommendLimit <= 0 {
		recommendLimit = skills.DefaultRecommendationLimit
	}
	return &planningService{
		scenarios:      scenarios,
		recommendLimit: recommendLimit,
		observer:       useCaseObserverOrNoop(observers),
	}
}

func (s *planningService) ListTeams(ctx context.Context, filter TeamFilter) ([]domain.Team, error) {
	ds, err := s.scenarios.WorkingSet(ctx)
	if err != nil {
		return nil, err
	}
	teams := listview.Filter(ds.Teams,
		listview.TeamInDivision(filter.DivisionID),
		listview.TeamStatusIs(filter.Status),
	)
	listview.SortTeamsByName(teams)
	return teams, nil
}

// AddTeam validates the team and appends it to the working set. The
// division may be given by ID or name; team names are unique within a
// division.
func (s *planningService) AddTeam(ctx context.Context, team *domain.Team) (err error) {
	uc := startUseCase(s.observer, "add-team")
	uc.fields["name"] = team.Name
	defer func() { uc.finish(ctx, err) }()

	if team.ID == "" {
		team.ID = uuid.New().String()
	}
	if team.Status == "" {
		team.Status = domain.TeamActive
	}
	if err = team.Validate(); err != nil {
		return err
	}

	return s.scenarios.UpdateWorkingSet(ctx, func(ds *domain.Dataset) error {
		if team.DivisionID != "" {
			div, err := resolveKey(ds.Divisions, "division", team.DivisionID,
				func(d *domain.Division) string { return d.ID },
				func(d *domain.Division) string { return d.Name })
			if err != nil {
				return err
			}
			team.DivisionID = div.ID
		}
		for _, t := range ds.Teams {
			if t.ID == team.ID {
				return fmt.Errorf("team %s already exists", team.ID)
			}
			if t.DivisionID == team.DivisionID && strings.EqualFold(t.Name, team.Name) {
				return fmt.Errorf("team %q already exists in this division", team.Name)
			}
		}
		ds.Teams = append(ds.Teams, *team)
		return nil
	})
}

func (s *planningService) QuarterCapacity(ctx context.Context, teamKey, quarterKey string) (*capacity.QuarterUtilization, error) {
	ds, team, quarter, err := s.teamAndQuarter(ctx, teamKey, quarterKey)
	if err != nil {
		return nil, err
	}
	out := capacity.CalculateQuarterUtilization(team, quarter, ds.Allocations, ds.Cycles)
	return &out, nil
}

// IterationCapacity checks one iteration of a quarter, numbered from 1 in
// start-date order.
func (s *planningService) IterationCapacity(ctx context.Context, teamKey, quarterKey string, iteration int) (*capacity.CapacityCheck, error) {
	if iteration < 1 {
		return nil, fmt.Errorf("iteration must be 1 or greater, got %d", iteration)
	}
	ds, team, quarter, err := s.teamAndQuarter(ctx, teamKey, quarterKey)
	if err != nil {
		return nil, err
	}
	iterations := capacity.IterationsForQuarter(quarter, ds.Cycles)
	out := capacity.CalculateTeamCapacity(team, iteration, ds.Allocations, iterations)
	return &out, nil
}

func (s *planningService) CompareActuals(ctx context.Context, teamKey, quarterKey string, iteration int) (*capacity.ActualsComparison, error) {
	if iteration < 1 {
		return nil, fmt.Errorf("iteration must be 1 or greater, got %d", iteration)
	}
	ds, team, quarter, err := s.teamAndQuarter(ctx, teamKey, quarterKey)
	if err != nil {
		return nil, err
	}
	iterations := capacity.IterationsForQuarter(quarter, ds.Cycles)
	out := capacity.CompareActuals(team, iteration, ds.Allocations, ds.ActualAllocations, iterations)
	return &out, nil
}

func (s *planningService) FinancialYearUtilization(ctx context.Context, teamKey, fyKey string) (*capacity.FinancialYearUtilization, error) {
	ds, err := s.scenarios.WorkingSet(ctx)
	if err != nil {
		return nil, err
	}
	team, err := resolveTeam(ds, teamKey)
	if err != nil {
		return nil, err
	}
	fy, err := resolveFinancialYear(ds, fyKey)
	if err != nil {
		return nil, err
	}
	out := capacity.CalculateFinancialYearUtilization(team, fy, ds.Allocations, ds.Cycles)
	return &out, nil
}

func (s *planningService) teamAndQuarter(ctx context.Context, teamKey, quarterKey string) (*domain.Dataset, domain.Team, domain.Cycle, error) {
	ds, err := s.scenarios.WorkingSet(ctx)
	if err != nil {
		return nil, domain.Team{}, domain.Cycle{}, err
	}
	team, err := resolveTeam(ds, teamKey)
	if err != nil {
		return nil, domain.Team{}, domain.Cycle{}, err
	}
	quarter, err := resolveQuarter(ds, quarterKey)
	if err != nil {
		return nil, domain.Team{}, domain.Cycle{}, err
	}
	return ds, team, quarter, nil
}

func (s *planningService) ListProjects(ctx context.Context, filter ProjectFilter) ([]domain.Project, error) {
	ds, err := s.scenarios.WorkingSet(ctx)
	if err != nil {
		return nil, err
	}
	projects := listview.Filter(ds.Projects,
		listview.ProjectStatusIn(filter.Statuses...),
		listview.ProjectSearch(filter.Search),
		listview.ProjectPriorityAtMost(filter.MaxPriority),
	)
	listview.SortProjectsByPriority(projects)
	return projects, nil
}

// ProjectCost prices the project over all cycles and, for every financial
// year that has spend or an earmarked budget, within that year.
func (s *planningService) ProjectCost(ctx context.Context, projectKey string) (report *ProjectCostReport, err error) {
	uc := startUseCase(s.observer, "project-cost")
	uc.fields["project"] = projectKey
	defer func() { uc.finish(ctx, err) }()

	ds, err := s.scenarios.WorkingSet(ctx)
	if err != nil {
		return nil, err
	}
	project, err := resolveProject(ds, projectKey)
	if err != nil {
		return nil, err
	}

	epics := ds.EpicsForProject(project.ID)
	cost := finance.CalculateProjectCost(project, epics, ds.Allocations, ds.Cycles, ds.People, ds.Roles, ds.Teams)
	report = &ProjectCostReport{
		Project:  project,
		Cost:     cost,
		Variance: finance.Variance(project.Budget, cost.TotalCost),
		Status:   finance.BudgetStatus(project.Budget, cost.TotalCost),
	}
	for _, fy := range ds.FinancialYears {
		fyCost := finance.CalculateFinancialYearCost(project, fy, epics, ds.Allocations, ds.Cycles, ds.People, ds.Roles, ds.Teams)
		if fyCost.Cost == 0 && fyCost.Budget == nil {
			continue
		}
		report.FinancialYears = append(report.FinancialYears, fyCost)
	}
	uc.fields["total_cost"] = cost.TotalCost
	return report, nil
}

// RecommendTeams ranks the teams that are not inactive. A non-positive
// limit uses the configured default.
func (s *planningService) RecommendTeams(ctx context.Context, projectKey string, limit int) (recs []skills.TeamRecommendation, err error) {
	uc := startUseCase(s.observer, "recommend-teams")
	uc.fields["project"] = projectKey
	defer func() { uc.finish(ctx, err) }()

	ds, err := s.scenarios.WorkingSet(ctx)
	if err != nil {
		return nil, err
	}
	project, err := resolveProject(ds, projectKey)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = s.recommendLimit
	}

	candidates := listview.Filter(ds.Teams, func(t *domain.Team) bool {
		return t.Status != domain.TeamInactive
	})
	recs = skills.RecommendTeamsForProject(project, candidates, skills.CatalogFromDataset(ds), limit)
	uc.fields["candidates"] = len(candidates)
	return recs, nil
}

func (s *planningService) ProjectSkills(ctx context.Context, projectKey string) ([]skills.RequiredSkill, error) {
	ds, err := s.scenarios.WorkingSet(ctx)
	if err != nil {
		return nil, err
	}
	project, err := resolveProject(ds, projectKey)
	if err != nil {
		return nil, err
	}
	return skills.GetProjectRequiredSkills(project, ds.ProjectSkills, ds.Solutions, ds.Skills, ds.ProjectSolutions), nil
}

// Validate reports every invariant violation in the working set. The
// returned error is reserved for failures to load it.
func (s *planningService) Validate(ctx context.Context) ([]error, error) {
	ds, err := s.scenarios.WorkingSet(ctx)
	if err != nil {
		return nil, err
	}
	return ds.Validate(), nil
}
