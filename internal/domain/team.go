package domain

import (
	"fmt"
	"time"
)

type Division struct {
	ID          string
	Name        string
	Description string
	Budget      *float64
}

type Team struct {
	ID           string
	Name         string
	Capacity     float64 // hours per week
	DivisionID   string
	TargetSkills []string
	Status       TeamStatus
}

// Validate enforces the team invariants: a name and a positive weekly capacity.
func (t *Team) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("team name is required")
	}
	if t.Capacity <= 0 {
		return fmt.Errorf("team %q: capacity must be positive, got %g", t.Name, t.Capacity)
	}
	return nil
}

type Role struct {
	ID                  string
	Name                string
	RateType            RateType
	DefaultRate         *float64 // expressed in RateType units
	DefaultHourlyRate   *float64
	DefaultDailyRate    *float64
	DefaultAnnualSalary *float64
}

type Person struct {
	ID             string
	Name           string
	Email          string
	RoleID         string
	TeamID         string // empty when unassigned
	IsActive       bool
	EmploymentType EmploymentType
	StartDate      time.Time
	EndDate        *time.Time

	// Personal rate overrides; nil falls back to the role defaults.
	AnnualSalary *float64
	HourlyRate   *float64
	DailyRate    *float64
}

// IsUnassigned reports whether the person has no team.
func (p *Person) IsUnassigned() bool {
	return p.TeamID == ""
}

// EmployedDuring reports whether the person's employment overlaps [start, end].
func (p *Person) EmployedDuring(start, end time.Time) bool {
	if !p.StartDate.IsZero() && p.StartDate.After(end) {
		return false
	}
	if p.EndDate != nil && p.EndDate.Before(start) {
		return false
	}
	return true
}
