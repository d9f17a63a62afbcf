package finance

import "github.com/alexanderramin/capplan/internal/domain"

// WarningThreshold is the share of budget at which spend is flagged at risk.
const WarningThreshold = 0.9

type BudgetState string

const (
	BudgetUnbudgeted BudgetState = "unbudgeted"
	BudgetOnTrack    BudgetState = "on-track"
	BudgetAtRisk     BudgetState = "at-risk"
	BudgetOver       BudgetState = "over"
)

// BudgetStatus classifies spend against budget.
func BudgetStatus(budget *float64, cost float64) BudgetState {
	switch {
	case budget == nil:
		return BudgetUnbudgeted
	case cost > *budget:
		return BudgetOver
	case cost >= *budget*WarningThreshold:
		return BudgetAtRisk
	default:
		return BudgetOnTrack
	}
}

type FinancialYearCost struct {
	ProjectID       string
	FinancialYearID string
	Cost            float64
	TeamBreakdown   []TeamCost
	Budget          *float64
	Variance        *float64
	Status          BudgetState
}

// CalculateFinancialYearCost prices the project's allocations in cycles that
// fall inside the financial year and compares them with the budget
// earmarked for that year.
func CalculateFinancialYearCost(project domain.Project, fy domain.FinancialYear, epics []domain.Epic, allocations []domain.Allocation, cycles []domain.Cycle, people []domain.Person, roles []domain.Role, teams []domain.Team) FinancialYearCost {
	inYear := func(c domain.Cycle) bool {
		if c.FinancialYearID != "" {
			return c.FinancialYearID == fy.ID
		}
		return !c.StartDate.Before(fy.StartDate) && !c.EndDate.After(fy.EndDate)
	}

	acc := newAccumulator(teams, roles)
	acc.add(project.ID, epics, allocations, cycles, people, inYear)

	out := FinancialYearCost{
		ProjectID:       project.ID,
		FinancialYearID: fy.ID,
		Cost:            acc.total,
		TeamBreakdown:   acc.teams,
	}
	if amount, ok := project.BudgetForYear(fy.ID); ok {
		out.Budget = &amount
	}
	out.Variance = Variance(out.Budget, out.Cost)
	out.Status = BudgetStatus(out.Budget, out.Cost)
	return out
}
