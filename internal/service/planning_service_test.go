package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/capplan/internal/domain"
	"github.com/alexanderramin/capplan/internal/finance"
	"github.com/alexanderramin/capplan/internal/repository"
	"github.com/alexanderramin/capplan/internal/testutil"
)

func newPlanningEnv(t *testing.T) (*serviceEnv, PlanningService) {
	t.Helper()
	env := newServiceEnv(t)
	return env, NewPlanningService(env.svc, 0, env.observer)
}

func TestQuarterCapacity_ResolvesNamesAndRollsUpIterations(t *testing.T) {
	_, svc := newPlanningEnv(t)

	q, err := svc.QuarterCapacity(context.Background(), "core", "q1 2025")
	require.NoError(t, err)
	assert.Equal(t, testutil.QuarterQ1, q.QuarterID)
	require.Len(t, q.Iterations, 2)
	assert.Equal(t, 90.0, q.Iterations[0].AllocatedPercentage)
	assert.Equal(t, 0.0, q.Iterations[1].AllocatedPercentage)
	assert.Equal(t, 90.0, q.PeakUtilization)
}

func TestIterationCapacity(t *testing.T) {
	_, svc := newPlanningEnv(t)
	ctx := context.Background()

	check, err := svc.IterationCapacity(ctx, testutil.TeamCore, testutil.QuarterQ1, 1)
	require.NoError(t, err)
	assert.Equal(t, testutil.IterationQ1IT1, check.CycleID)
	assert.Equal(t, 90.0, check.AllocatedPercentage)
	assert.Equal(t, 80.0, check.CapacityHours)
	assert.InDelta(t, 72.0, check.AllocatedHours, 0.0001)
	assert.True(t, check.IsUnderAllocated)

	_, err = svc.IterationCapacity(ctx, testutil.TeamCore, testutil.QuarterQ1, 0)
	assert.Error(t, err)
}

func TestIterationCapacity_UnknownTeamOrQuarter(t *testing.T) {
	_, svc := newPlanningEnv(t)
	ctx := context.Background()

	_, err := svc.IterationCapacity(ctx, "Nobody", testutil.QuarterQ1, 1)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	// Iterations are not quarters.
	_, err = svc.IterationCapacity(ctx, testutil.TeamCore, testutil.IterationQ1IT1, 1)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCompareActuals_PlannedVersusActual(t *testing.T) {
	_, svc := newPlanningEnv(t)

	cmp, err := svc.CompareActuals(context.Background(), testutil.TeamCore, testutil.QuarterQ1, 1)
	require.NoError(t, err)
	assert.Equal(t, 90.0, cmp.PlannedPercentage)
	assert.Equal(t, 70.0, cmp.ActualPercentage)
	assert.Equal(t, -20.0, cmp.Variance)
	assert.True(t, cmp.HasActuals)
}

func TestFinancialYearUtilization(t *testing.T) {
	_, svc := newPlanningEnv(t)

	fy, err := svc.FinancialYearUtilization(context.Background(), "Edge", "fy25")
	require.NoError(t, err)
	assert.Equal(t, testutil.FinancialYear25, fy.FinancialYearID)
	require.Len(t, fy.Quarters, 1)
	assert.Equal(t, 50.0, fy.Quarters[0].PeakUtilization)
}

func TestQuarterCapacity_FollowsActiveScenario(t *testing.T) {
	env, svc := newPlanningEnv(t)
	ctx := context.Background()

	sc, err := env.svc.CreateScenario(ctx, "Extra support", "")
	require.NoError(t, err)
	require.NoError(t, env.svc.SwitchToScenario(ctx, sc.ID))
	require.NoError(t, env.svc.UpdateWorkingSet(ctx, func(ds *domain.Dataset) error {
		ds.Allocations = append(ds.Allocations, *testutil.NewTestAllocation(testutil.TeamCore, testutil.IterationQ1IT1, 25, testutil.ForCategory(testutil.CategorySupport)))
		return nil
	}))

	check, err := svc.IterationCapacity(ctx, testutil.TeamCore, testutil.QuarterQ1, 1)
	require.NoError(t, err)
	assert.Equal(t, 115.0, check.AllocatedPercentage)
	assert.True(t, check.IsOverAllocated)

	require.NoError(t, env.svc.SwitchToLive(ctx))
	check, err = svc.IterationCapacity(ctx, testutil.TeamCore, testutil.QuarterQ1, 1)
	require.NoError(t, err)
	assert.Equal(t, 90.0, check.AllocatedPercentage)
}

func TestListTeams_FiltersAndSorts(t *testing.T) {
	env, svc := newPlanningEnv(t)
	ctx := context.Background()
	require.NoError(t, env.svc.UpdateWorkingSet(ctx, func(ds *domain.Dataset) error {
		ds.Teams = append(ds.Teams, *testutil.NewTestTeam("Apps", testutil.WithTeamStatus(domain.TeamForming)))
		return nil
	}))

	all, err := svc.ListTeams(ctx, TeamFilter{})
	require.NoError(t, err)
	names := make([]string, len(all))
	for i, team := range all {
		names[i] = team.Name
	}
	assert.Equal(t, []string{"Apps", "Core", "Edge"}, names)

	platform, err := svc.ListTeams(ctx, TeamFilter{DivisionID: testutil.DivisionPlatform, Status: domain.TeamActive})
	require.NoError(t, err)
	assert.Len(t, platform, 2)
}

func TestAddTeam_ResolvesDivisionAndAssignsDefaults(t *testing.T) {
	env, svc := newPlanningEnv(t)
	ctx := context.Background()

	team := &domain.Team{Name: "Payments", Capacity: 120, DivisionID: "platform"}
	require.NoError(t, svc.AddTeam(ctx, team))
	assert.NotEmpty(t, team.ID)
	assert.Equal(t, domain.TeamActive, team.Status)
	assert.Equal(t, testutil.DivisionPlatform, team.DivisionID)

	stored := teamByID(t, env.loadLive(t), team.ID)
	assert.Equal(t, "Payments", stored.Name)
}

func TestAddTeam_Rejections(t *testing.T) {
	env, svc := newPlanningEnv(t)
	ctx := context.Background()

	err := svc.AddTeam(ctx, &domain.Team{Name: "Zero", Capacity: 0})
	assert.ErrorContains(t, err, "capacity must be positive")

	err = svc.AddTeam(ctx, &domain.Team{Name: "CORE", Capacity: 10, DivisionID: testutil.DivisionPlatform})
	assert.ErrorContains(t, err, "already exists")

	err = svc.AddTeam(ctx, &domain.Team{Name: "Lost", Capacity: 10, DivisionID: "Atlantis"})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	assert.Len(t, env.loadLive(t).Teams, 2)
}

func TestListProjects_FiltersAndOrdersByPriority(t *testing.T) {
	_, svc := newPlanningEnv(t)
	ctx := context.Background()

	all, err := svc.ListProjects(ctx, ProjectFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, testutil.ProjectBilling, all[0].ID)

	planning, err := svc.ListProjects(ctx, ProjectFilter{Statuses: []domain.ProjectStatus{domain.ProjectPlanning}})
	require.NoError(t, err)
	require.Len(t, planning, 1)
	assert.Equal(t, testutil.ProjectSearch, planning[0].ID)

	found, err := svc.ListProjects(ctx, ProjectFilter{Search: "INVOICE"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, testutil.ProjectBilling, found[0].ID)

	urgent, err := svc.ListProjects(ctx, ProjectFilter{MaxPriority: 2})
	require.NoError(t, err)
	assert.Len(t, urgent, 1)
}

func TestProjectCost_TotalAndFinancialYears(t *testing.T) {
	_, svc := newPlanningEnv(t)

	report, err := svc.ProjectCost(context.Background(), "Billing")
	require.NoError(t, err)
	// Ada: 500/day x 60% x 10 working days in the first iteration.
	assert.InDelta(t, 3000, report.Cost.TotalCost, 0.001)
	require.NotNil(t, report.Variance)
	assert.InDelta(t, 197000, *report.Variance, 0.001)
	assert.Equal(t, finance.BudgetOnTrack, report.Status)

	require.Len(t, report.FinancialYears, 1)
	fy := report.FinancialYears[0]
	assert.Equal(t, testutil.FinancialYear25, fy.FinancialYearID)
	assert.InDelta(t, 3000, fy.Cost, 0.001)
	require.NotNil(t, fy.Budget)
	assert.InDelta(t, 150000, *fy.Budget, 0.001)
}

func TestProjectCost_Unknown(t *testing.T) {
	_, svc := newPlanningEnv(t)

	_, err := svc.ProjectCost(context.Background(), "Moonshot")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestRecommendTeams_RanksAndSkipsInactive(t *testing.T) {
	env, svc := newPlanningEnv(t)
	ctx := context.Background()
	require.NoError(t, env.svc.UpdateWorkingSet(ctx, func(ds *domain.Dataset) error {
		legacy := testutil.NewTestTeam("Legacy", testutil.WithTeamStatus(domain.TeamInactive), testutil.WithTargetSkills(testutil.SkillGo))
		ds.Teams = append([]domain.Team{*legacy}, ds.Teams...)
		return nil
	}))

	recs, err := svc.RecommendTeams(ctx, testutil.ProjectSearch, 0)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, testutil.TeamCore, recs[0].TeamID)
	assert.Equal(t, 1, recs[0].Rank)
	assert.Equal(t, 1.0, recs[0].CompatibilityScore)
	assert.Equal(t, testutil.TeamEdge, recs[1].TeamID)
	assert.Equal(t, 0.0, recs[1].CompatibilityScore)

	top, err := svc.RecommendTeams(ctx, testutil.ProjectSearch, 1)
	require.NoError(t, err)
	assert.Len(t, top, 1)
}

func TestRecommendTeams_TiesKeepTeamOrder(t *testing.T) {
	_, svc := newPlanningEnv(t)

	recs, err := svc.RecommendTeams(context.Background(), testutil.ProjectBilling, 3)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, testutil.TeamCore, recs[0].TeamID)
	assert.Equal(t, testutil.TeamEdge, recs[1].TeamID)
	assert.Equal(t, 0.5, recs[0].CompatibilityScore)
	assert.Equal(t, 0.5, recs[1].CompatibilityScore)
}

func TestProjectSkills_FromSolutions(t *testing.T) {
	_, svc := newPlanningEnv(t)

	required, err := svc.ProjectSkills(context.Background(), testutil.ProjectBilling)
	require.NoError(t, err)
	require.Len(t, required, 2)
	assert.Equal(t, "Go", required[0].Name)
	assert.Equal(t, testutil.SolutionPlatform, required[0].SolutionID)
	assert.Equal(t, "AWS", required[1].Name)
}

func TestValidate_ReportsDanglingReferences(t *testing.T) {
	env, svc := newPlanningEnv(t)
	ctx := context.Background()

	problems, err := svc.Validate(ctx)
	require.NoError(t, err)
	assert.Empty(t, problems)

	require.NoError(t, env.svc.UpdateWorkingSet(ctx, func(ds *domain.Dataset) error {
		ds.Allocations = append(ds.Allocations, *testutil.NewTestAllocation("team-ghost", testutil.IterationQ1IT1, 10, testutil.ForCategory(testutil.CategorySupport)))
		return nil
	}))
	problems, err = svc.Validate(ctx)
	require.NoError(t, err)
	require.Len(t, problems, 1)
	assert.Contains(t, problems[0].Error(), "team-ghost")
}
