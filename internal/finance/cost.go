// Package finance derives project cost, burn rate and budget variance from
// allocations, people and their rate schedules.
package finance

import (
	"time"

	"github.com/alexanderramin/capplan/internal/domain"
)

type PersonCost struct {
	PersonID   string
	PersonName string
	TeamID     string
	RoleName   string
	DailyRate  float64
	Cost       float64
}

type TeamCost struct {
	TeamID   string
	TeamName string
	Cost     float64
}

type ProjectCost struct {
	ProjectID           string
	TotalCost           float64
	Breakdown           []PersonCost
	TeamBreakdown       []TeamCost
	MonthlyBurnRate     float64
	TotalDurationInDays int
}

// CalculateProjectCost prices every allocation attributable to the project,
// either directly or through one of its epics.
//
// Each active member of the allocated team employed during the cycle
// contributes daily rate × percentage/100 × working days in the cycle.
// Missing cycles, roles or rates contribute zero.
func CalculateProjectCost(project domain.Project, epics []domain.Epic, allocations []domain.Allocation, cycles []domain.Cycle, people []domain.Person, roles []domain.Role, teams []domain.Team) ProjectCost {
	out := ProjectCost{ProjectID: project.ID}
	acc := newAccumulator(teams, roles)
	acc.add(project.ID, epics, allocations, cycles, people, nil)

	out.Breakdown = acc.people
	out.TeamBreakdown = acc.teams
	out.TotalCost = acc.total

	out.TotalDurationInDays = ProjectDurationDays(project, epics)
	if out.TotalDurationInDays > 0 {
		out.MonthlyBurnRate = out.TotalCost / (float64(out.TotalDurationInDays) / DaysPerMonth)
	}
	return out
}

// ProjectDurationDays measures from the project start to its end date or,
// without one, to the latest end date among its epics. Zero when neither is
// known.
func ProjectDurationDays(project domain.Project, epics []domain.Epic) int {
	if project.StartDate.IsZero() {
		return 0
	}
	if project.EndDate != nil {
		return max(0, domain.DaysBetween(project.StartDate, *project.EndDate))
	}

	var latest *time.Time
	for i := range epics {
		e := &epics[i]
		if e.ProjectID != project.ID {
			continue
		}
		if end := e.EndDate(); end != nil && (latest == nil || end.After(*latest)) {
			latest = end
		}
	}
	if latest == nil {
		return 0
	}
	return max(0, domain.DaysBetween(project.StartDate, *latest))
}

// Variance is budget minus cost, or nil when the project has no budget.
func Variance(budget *float64, cost float64) *float64 {
	if budget == nil {
		return nil
	}
	v := *budget - cost
	return &v
}

type accumulator struct {
	teamNames map[string]string
	roles     map[string]*domain.Role

	people   []PersonCost
	teams    []TeamCost
	personIx map[string]int
	teamIx   map[string]int
	total    float64
}

func newAccumulator(teams []domain.Team, roles []domain.Role) *accumulator {
	a := &accumulator{
		teamNames: make(map[string]string, len(teams)),
		roles:     make(map[string]*domain.Role, len(roles)),
		personIx:  make(map[string]int),
		teamIx:    make(map[string]int),
	}
	for _, t := range teams {
		a.teamNames[t.ID] = t.Name
	}
	for i := range roles {
		a.roles[roles[i].ID] = &roles[i]
	}
	return a
}

// add prices the project's allocations. keep, when non-nil, restricts the
// cycles considered.
func (a *accumulator) add(projectID string, epics []domain.Epic, allocations []domain.Allocation, cycles []domain.Cycle, people []domain.Person, keep func(domain.Cycle) bool) {
	projectEpics := make(map[string]bool)
	for _, e := range epics {
		if e.ProjectID == projectID {
			projectEpics[e.ID] = true
		}
	}
	cycleByID := make(map[string]domain.Cycle, len(cycles))
	for _, c := range cycles {
		cycleByID[c.ID] = c
	}

	for _, alloc := range allocations {
		if alloc.ProjectID != projectID && !projectEpics[alloc.EpicID] {
			continue
		}
		cycle, ok := cycleByID[alloc.CycleID]
		if !ok || (keep != nil && !keep(cycle)) {
			continue
		}
		days := float64(WorkingDays(cycle.StartDate, cycle.EndDate))

		for i := range people {
			p := &people[i]
			if !p.IsActive || p.TeamID != alloc.TeamID || !p.EmployedDuring(cycle.StartDate, cycle.EndDate) {
				continue
			}
			role := a.roles[p.RoleID]
			rate := CalculatePersonRate(*p, role)
			cost := rate * alloc.Percentage / 100 * days
			a.record(p, role, rate, cost)
		}
	}
}

func (a *accumulator) record(p *domain.Person, role *domain.Role, rate, cost float64) {
	ix, ok := a.personIx[p.ID]
	if !ok {
		pc := PersonCost{PersonID: p.ID, PersonName: p.Name, TeamID: p.TeamID, DailyRate: rate}
		if role != nil {
			pc.RoleName = role.Name
		}
		a.people = append(a.people, pc)
		ix = len(a.people) - 1
		a.personIx[p.ID] = ix
	}
	a.people[ix].Cost += cost

	tx, ok := a.teamIx[p.TeamID]
	if !ok {
		a.teams = append(a.teams, TeamCost{TeamID: p.TeamID, TeamName: a.teamNames[p.TeamID]})
		tx = len(a.teams) - 1
		a.teamIx[p.TeamID] = tx
	}
	a.teams[tx].Cost += cost
	a.total += cost
}
