package domain

import (
	"fmt"
	"time"
)

type Project struct {
	ID                   string
	Name                 string
	Description          string
	Status               ProjectStatus
	StartDate            time.Time
	EndDate              *time.Time
	Budget               *float64
	Priority             int
	PriorityOrder        *int
	Milestones           []Milestone
	FinancialYearBudgets []FinancialYearBudget
}

type Milestone struct {
	ID        string
	ProjectID string
	Name      string
	DueDate   time.Time
	Status    MilestoneStatus
}

type FinancialYearBudget struct {
	FinancialYearID string
	Amount          float64
}

type Epic struct {
	ID              string
	ProjectID       string
	Name            string
	EstimatedEffort float64
	Status          EpicStatus
	StartDate       *time.Time
	TargetEndDate   *time.Time
	ActualEndDate   *time.Time
}

// EffectivePriorityOrder returns the fine-grained rank, falling back to
// the coarse 1-4 priority when no explicit order was set.
func (p *Project) EffectivePriorityOrder() int {
	if p.PriorityOrder != nil {
		return *p.PriorityOrder
	}
	return p.Priority
}

// BudgetForYear returns the budget earmarked for a financial year, if any.
func (p *Project) BudgetForYear(financialYearID string) (float64, bool) {
	for _, b := range p.FinancialYearBudgets {
		if b.FinancialYearID == financialYearID {
			return b.Amount, true
		}
	}
	return 0, false
}

// Validate checks the record-level invariants of a project.
func (p *Project) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("project name is required")
	}
	if !ValidProjectStatuses[string(p.Status)] {
		return fmt.Errorf("project %q: invalid status %q", p.Name, p.Status)
	}
	if p.Priority < 1 || p.Priority > 4 {
		return fmt.Errorf("project %q: priority must be between 1 and 4, got %d", p.Name, p.Priority)
	}
	if p.EndDate != nil && p.EndDate.Before(p.StartDate) {
		return fmt.Errorf("project %q: end date %s is before start date %s",
			p.Name, p.EndDate.Format(DateLayout), p.StartDate.Format(DateLayout))
	}
	if p.Budget != nil && *p.Budget < 0 {
		return fmt.Errorf("project %q: budget must not be negative", p.Name)
	}
	return nil
}

// EndDate returns the actual end date when known, otherwise the target.
func (e *Epic) EndDate() *time.Time {
	if e.ActualEndDate != nil {
		return e.ActualEndDate
	}
	return e.TargetEndDate
}
