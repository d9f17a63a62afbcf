package domain

import (
	"fmt"
	"time"
)

// Cycle is a time box: either a quarter or an iteration inside one.
// Quarters own iterations by date containment, not by a parent pointer.
type Cycle struct {
	ID              string
	Type            CycleType
	Name            string
	StartDate       time.Time
	EndDate         time.Time
	FinancialYearID string
}

// DurationDays returns the whole days between start and end.
func (c *Cycle) DurationDays() int {
	return DaysBetween(c.StartDate, c.EndDate)
}

// Contains reports whether other lies entirely within c.
func (c *Cycle) Contains(other Cycle) bool {
	return !other.StartDate.Before(c.StartDate) && !other.EndDate.After(c.EndDate)
}

type FinancialYear struct {
	ID         string
	Name       string
	StartDate  time.Time
	EndDate    time.Time
	QuarterIDs []string
}

type RunWorkCategory struct {
	ID   string
	Name string
}

// Allocation assigns a percentage of a team's capacity in one cycle to at
// most one of an epic, a project or a run-work category. With none set it
// is generic run work. IterationNumber is the legacy key kept for records
// that predate CycleID.
type Allocation struct {
	ID                string
	TeamID            string
	CycleID           string
	IterationNumber   int
	Percentage        float64
	EpicID            string
	ProjectID         string
	RunWorkCategoryID string
	Notes             string
}

// Target classifies what the allocation is spent on.
func (a *Allocation) Target() AllocationTarget {
	switch {
	case a.EpicID != "":
		return TargetEpic
	case a.ProjectID != "":
		return TargetProject
	case a.RunWorkCategoryID != "":
		return TargetRunWork
	default:
		return TargetGeneric
	}
}

// Validate enforces the "at most one target" rule. Percentages above 100
// are legal data; over-allocation is reported by the capacity calculator.
func (a *Allocation) Validate() error {
	if a.TeamID == "" {
		return fmt.Errorf("allocation %s: team is required", a.ID)
	}
	if a.Percentage < 0 {
		return fmt.Errorf("allocation %s: percentage must not be negative", a.ID)
	}
	targets := 0
	for _, id := range []string{a.EpicID, a.ProjectID, a.RunWorkCategoryID} {
		if id != "" {
			targets++
		}
	}
	if targets > 1 {
		return fmt.Errorf("allocation %s: at most one of epic, project or run-work category may be set", a.ID)
	}
	return nil
}

type ActualAllocation struct {
	ID                  string
	TeamID              string
	CycleID             string
	IterationNumber     int
	Percentage          float64
	EpicID              string
	RunWorkCategoryID   string
	PlannedAllocationID string
	VarianceReason      string
}
