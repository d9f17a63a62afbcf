package formatter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/alexanderramin/capplan/internal/capacity"
	"github.com/alexanderramin/capplan/internal/domain"
	"github.com/alexanderramin/capplan/internal/finance"
	"github.com/alexanderramin/capplan/internal/importer"
	"github.com/alexanderramin/capplan/internal/scenario"
	"github.com/alexanderramin/capplan/internal/skills"
)

func TestFormatIterationCapacity_OverAllocated(t *testing.T) {
	out := FormatIterationCapacity(capacity.CapacityCheck{
		TeamName:            "Core",
		IterationNumber:     1,
		AllocatedPercentage: 115,
		IterationWeeks:      2,
		CapacityHours:       80,
		AllocatedHours:      92,
		IsOverAllocated:     true,
	})
	assert.Contains(t, out, "CORE · ITERATION 1")
	assert.Contains(t, out, "115%")
	assert.Contains(t, out, "92h")
	assert.Contains(t, out, "2 weeks")
	assert.Contains(t, out, "over-allocated")
}

func TestFormatQuarterUtilization(t *testing.T) {
	out := FormatQuarterUtilization(capacity.QuarterUtilization{
		QuarterName: "Q1 2025",
		Iterations: []capacity.CapacityCheck{
			{TeamName: "Core", IterationNumber: 1, AllocatedPercentage: 90, CapacityHours: 80, AllocatedHours: 72, IsUnderAllocated: true},
			{TeamName: "Core", IterationNumber: 2, CapacityHours: 80},
		},
		AverageUtilization:  45,
		PeakUtilization:     90,
		TotalCapacityHours:  160,
		TotalAllocatedHours: 72,
	})
	assert.Contains(t, out, "CORE · Q1 2025")
	assert.Contains(t, out, "IT1")
	assert.Contains(t, out, "IT2")
	assert.Contains(t, out, "spare capacity")
	assert.Contains(t, out, "unallocated")
	assert.Contains(t, out, "72h / 160h")
}

func TestFormatQuarterUtilization_NoIterations(t *testing.T) {
	out := FormatQuarterUtilization(capacity.QuarterUtilization{QuarterName: "Q3"})
	assert.Contains(t, out, "No iterations")
}

func TestFormatFinancialYearUtilization(t *testing.T) {
	out := FormatFinancialYearUtilization(capacity.FinancialYearUtilization{
		FinancialYearName: "FY25",
		Quarters: []capacity.QuarterUtilization{
			{QuarterName: "Q1 2025", AverageUtilization: 60, PeakUtilization: 120, OverAllocatedCount: 1},
		},
		AverageUtilization: 60,
		OverAllocatedCount: 1,
	})
	assert.Contains(t, out, "FY25")
	assert.Contains(t, out, "Q1 2025")
	assert.Contains(t, out, "1 over")
	assert.Contains(t, out, "1 over-allocated iteration")
}

func TestFormatActuals(t *testing.T) {
	out := FormatActuals(capacity.ActualsComparison{PlannedPercentage: 90, ActualPercentage: 70, Variance: -20, HasActuals: true})
	assert.Contains(t, out, "90%")
	assert.Contains(t, out, "70%")
	assert.Contains(t, out, "-20%")

	missing := FormatActuals(capacity.ActualsComparison{PlannedPercentage: 50})
	assert.Contains(t, missing, "not recorded")
}

func TestFormatProjectList(t *testing.T) {
	budget := 200000.0
	out := FormatProjectList([]domain.Project{
		{ID: "proj-billing", Name: "Billing", Status: domain.ProjectActive, Priority: 1, Budget: &budget, StartDate: domain.MustDate("2025-01-01")},
	})
	assert.Contains(t, out, "P1")
	assert.Contains(t, out, "Billing")
	assert.Contains(t, out, "$200,000")
	assert.Contains(t, out, "2025-01-01")

	assert.Contains(t, FormatProjectList(nil), "No projects")
}

func TestFormatProjectCost(t *testing.T) {
	budget, variance := 200000.0, 197000.0
	fyBudget, fyVariance := 150000.0, 147000.0
	out := FormatProjectCost(
		domain.Project{Name: "Billing", Budget: &budget},
		finance.ProjectCost{
			TotalCost:     3000,
			TeamBreakdown: []finance.TeamCost{{TeamName: "Core", Cost: 3000}},
			Breakdown:     []finance.PersonCost{{PersonName: "Ada", RoleName: "Developer", DailyRate: 500, Cost: 3000}},
		},
		&variance,
		finance.BudgetOnTrack,
		[]finance.FinancialYearCost{{FinancialYearID: "fy-25", Cost: 3000, Budget: &fyBudget, Variance: &fyVariance, Status: finance.BudgetOnTrack}},
	)
	assert.Contains(t, out, "BILLING · COST")
	assert.Contains(t, out, "$3,000")
	assert.Contains(t, out, "+$197,000")
	assert.Contains(t, out, "ON TRACK")
	assert.Contains(t, out, "Ada")
	assert.Contains(t, out, "fy-25")
	assert.Contains(t, out, "$150,000")
}

func TestFormatRecommendations(t *testing.T) {
	recs := []skills.TeamRecommendation{
		{TeamCompatibility: skills.TeamCompatibility{TeamName: "Core", CompatibilityScore: 0.5, SkillsMatched: 1, TotalRequiredSkills: 2, MissingSkills: []string{"AWS"}}, Rank: 1},
	}
	out := FormatRecommendations("Billing", recs)
	assert.Contains(t, out, "#1")
	assert.Contains(t, out, "50%")
	assert.Contains(t, out, "1/2")
	assert.Contains(t, out, "AWS")

	assert.Contains(t, FormatRecommendations("Billing", nil), "No eligible teams")
}

func TestFormatRequiredSkills(t *testing.T) {
	out := FormatRequiredSkills([]skills.RequiredSkill{
		{Name: "Go", Category: "language", SolutionID: "sol-platform"},
		{Name: "SQL", Category: "data"},
	})
	assert.Contains(t, out, "sol-platform")
	assert.Contains(t, out, "direct")
}

func TestFormatTeamList_ResolvesDivisionNames(t *testing.T) {
	out := FormatTeamList([]domain.Team{
		{ID: "team-core", Name: "Core", Capacity: 40, DivisionID: "div-platform", Status: domain.TeamActive},
		{ID: "team-x", Name: "Loose", Capacity: 20, Status: domain.TeamForming, TargetSkills: []string{"skill-go"}},
	}, map[string]string{"div-platform": "Platform"})
	assert.Contains(t, out, "Platform")
	assert.Contains(t, out, "40h")
	assert.Contains(t, out, "Forming")
	assert.Contains(t, out, "skill-go")
}

func TestFormatScenarioList_MarksActive(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	out := FormatScenarioList([]*domain.Scenario{
		{ID: "s-1", Name: "Lean year", TemplateName: "Budget reduction", LastModified: now.Add(-48 * time.Hour)},
		{ID: "s-2", Name: "Hiring", LastModified: now.Add(-time.Hour)},
	}, "s-1", now)
	assert.Contains(t, out, "●")
	assert.Contains(t, out, "Budget reduction")
	assert.Contains(t, out, "2 days ago")
	assert.Contains(t, out, "1 hour ago")

	assert.Contains(t, FormatScenarioList(nil, "", now), "No scenarios")
}

func TestFormatScenarioStatus(t *testing.T) {
	assert.Contains(t, FormatScenarioStatus(scenario.StateLive, nil, false), "LIVE")

	active := &domain.Scenario{ID: "s-1", Name: "Lean year"}
	out := FormatScenarioStatus(scenario.StateScenarioActive, active, true)
	assert.Contains(t, out, "Lean year")
	assert.Contains(t, out, "unsaved changes")
	assert.Contains(t, FormatScenarioStatus(scenario.StateScenarioActive, active, false), "saved")
}

func TestFormatComparison(t *testing.T) {
	cmp := &scenario.Comparison{
		Changes: []scenario.ChangeItem{
			{Type: scenario.ChangeModified, Category: scenario.CategoryProjects, Entity: "Billing", Description: "budget $200,000 → $180,000", Impact: scenario.ImpactHigh},
			{Type: scenario.ChangeAdded, Category: scenario.CategoryTeams, Entity: "Apps", Description: "team added", Impact: scenario.ImpactLow},
		},
		Summary: scenario.Summary{
			Total:    2,
			ByImpact: map[scenario.Impact]int{scenario.ImpactHigh: 1, scenario.ImpactLow: 1},
		},
	}
	out := FormatComparison("Lean year vs live", cmp)
	assert.Contains(t, out, "LEAN YEAR VS LIVE")
	assert.Contains(t, out, "Billing")
	assert.Contains(t, out, "HIGH")
	assert.Contains(t, out, "2 changes")

	assert.Contains(t, FormatComparison("x", &scenario.Comparison{}), "No differences")
}

func TestFormatTemplates(t *testing.T) {
	out := FormatTemplates(scenario.Templates())
	assert.Contains(t, out, "budget-reduction")
	assert.Contains(t, out, "--param percentage=")
	assert.Contains(t, out, "default 10")
}

func TestFormatImportResult(t *testing.T) {
	res := &importer.Result{
		Kind:     importer.KindAllocations,
		Rows:     3,
		Imported: 2,
		Skipped:  1,
		Errors:   []importer.Issue{{Row: 3, Column: "Team Name", Severity: importer.SeverityError, Message: `team "Ghost" not found`}},
	}
	out := FormatImportResult(res, false)
	assert.Contains(t, out, "Imported 2 of 3 rows")
	assert.Contains(t, out, "1 skipped")
	assert.Contains(t, out, "Ghost")

	assert.Contains(t, FormatImportResult(res, true), "Would import")
}

func TestFormatIssues_Truncates(t *testing.T) {
	issues := make([]importer.Issue, maxIssueRows+3)
	for i := range issues {
		issues[i] = importer.Issue{Row: i + 2, Severity: importer.SeverityWarning, Message: "odd"}
	}
	out := FormatIssues(issues)
	assert.Contains(t, out, "warn")
	assert.Contains(t, out, "and 3 more")
}
