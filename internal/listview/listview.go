// Package listview holds the predicates and orderings used by list
// commands. Filters never reorder their input; sorts are stable.
package listview

import (
	"sort"
	"strings"

	"github.com/alexanderramin/capplan/internal/domain"
)

// Filter returns the items for which every predicate holds.
func Filter[T any](items []T, preds ...func(*T) bool) []T {
	out := make([]T, 0, len(items))
next:
	for i := range items {
		for _, p := range preds {
			if !p(&items[i]) {
				continue next
			}
		}
		out = append(out, items[i])
	}
	return out
}

func matches(query string, fields ...string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

// ProjectStatusIn keeps projects whose status is one of statuses. No
// statuses keeps everything.
func ProjectStatusIn(statuses ...domain.ProjectStatus) func(*domain.Project) bool {
	return func(p *domain.Project) bool {
		if len(statuses) == 0 {
			return true
		}
		for _, s := range statuses {
			if p.Status == s {
				return true
			}
		}
		return false
	}
}

// ProjectSearch matches name or description, case-insensitively.
func ProjectSearch(query string) func(*domain.Project) bool {
	return func(p *domain.Project) bool {
		return matches(query, p.Name, p.Description)
	}
}

// ProjectPriorityAtMost keeps projects with priority <= lowest (1 is
// highest). A non-positive lowest keeps everything.
func ProjectPriorityAtMost(lowest int) func(*domain.Project) bool {
	return func(p *domain.Project) bool {
		return lowest <= 0 || p.Priority <= lowest
	}
}

// SortProjectsByPriority orders by effective priority order, then name.
func SortProjectsByPriority(projects []domain.Project) {
	sort.SliceStable(projects, func(i, j int) bool {
		pi, pj := projects[i].EffectivePriorityOrder(), projects[j].EffectivePriorityOrder()
		if pi != pj {
			return pi < pj
		}
		return strings.ToLower(projects[i].Name) < strings.ToLower(projects[j].Name)
	})
}

// SortProjectsByStartDate orders by start date, earliest first.
func SortProjectsByStartDate(projects []domain.Project) {
	sort.SliceStable(projects, func(i, j int) bool {
		return projects[i].StartDate.Before(projects[j].StartDate)
	})
}

func PersonInTeam(teamID string) func(*domain.Person) bool {
	return func(p *domain.Person) bool {
		return teamID == "" || p.TeamID == teamID
	}
}

func PersonHasRole(roleID string) func(*domain.Person) bool {
	return func(p *domain.Person) bool {
		return roleID == "" || p.RoleID == roleID
	}
}

// PersonActive keeps active people; with includeInactive it keeps all.
func PersonActive(includeInactive bool) func(*domain.Person) bool {
	return func(p *domain.Person) bool {
		return includeInactive || p.IsActive
	}
}

// PersonUnassigned keeps people without a team.
func PersonUnassigned(p *domain.Person) bool {
	return p.IsUnassigned()
}

// PersonSearch matches name or email, case-insensitively.
func PersonSearch(query string) func(*domain.Person) bool {
	return func(p *domain.Person) bool {
		return matches(query, p.Name, p.Email)
	}
}

// SortPeopleByName orders people alphabetically, ignoring case.
func SortPeopleByName(people []domain.Person) {
	sort.SliceStable(people, func(i, j int) bool {
		return strings.ToLower(people[i].Name) < strings.ToLower(people[j].Name)
	})
}

func TeamInDivision(divisionID string) func(*domain.Team) bool {
	return func(t *domain.Team) bool {
		return divisionID == "" || t.DivisionID == divisionID
	}
}

func TeamStatusIs(status domain.TeamStatus) func(*domain.Team) bool {
	return func(t *domain.Team) bool {
		return status == "" || t.Status == status
	}
}

// SortTeamsByName orders teams alphabetically, ignoring case.
func SortTeamsByName(teams []domain.Team) {
	sort.SliceStable(teams, func(i, j int) bool {
		return strings.ToLower(teams[i].Name) < strings.ToLower(teams[j].Name)
	})
}

func AllocationForTeam(teamID string) func(*domain.Allocation) bool {
	return func(a *domain.Allocation) bool {
		return teamID == "" || a.TeamID == teamID
	}
}

func AllocationInCycle(cycleID string) func(*domain.Allocation) bool {
	return func(a *domain.Allocation) bool {
		return cycleID == "" || a.CycleID == cycleID
	}
}

// SortCyclesByStart orders cycles by start date, quarters before the
// iterations that begin on the same day.
func SortCyclesByStart(cycles []domain.Cycle) {
	sort.SliceStable(cycles, func(i, j int) bool {
		if !cycles[i].StartDate.Equal(cycles[j].StartDate) {
			return cycles[i].StartDate.Before(cycles[j].StartDate)
		}
		return cycles[i].Type == domain.CycleQuarterly && cycles[j].Type != domain.CycleQuarterly
	})
}
