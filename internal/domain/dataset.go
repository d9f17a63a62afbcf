package domain

import "fmt"

// Dataset is a complete planning snapshot: every collection the calculators
// and the scenario differ consume. Live data and each scenario own separate
// Datasets; Clone is the only way to derive one from another.
type Dataset struct {
	Divisions         []Division
	Teams             []Team
	Roles             []Role
	People            []Person
	Projects          []Project
	Epics             []Epic
	RunWorkCategories []RunWorkCategory
	Cycles            []Cycle
	FinancialYears    []FinancialYear
	Allocations       []Allocation
	ActualAllocations []ActualAllocation
	Skills            []Skill
	PersonSkills      []PersonSkill
	Solutions         []Solution
	ProjectSolutions  []ProjectSolution
	ProjectSkills     []ProjectSkill
}

// Clone returns a deep copy that shares no slices or pointers with d.
func (d *Dataset) Clone() Dataset {
	out := Dataset{
		Divisions:         make([]Division, len(d.Divisions)),
		Teams:             make([]Team, len(d.Teams)),
		Roles:             make([]Role, len(d.Roles)),
		People:            make([]Person, len(d.People)),
		Projects:          make([]Project, len(d.Projects)),
		Epics:             make([]Epic, len(d.Epics)),
		RunWorkCategories: append([]RunWorkCategory(nil), d.RunWorkCategories...),
		Cycles:            append([]Cycle(nil), d.Cycles...),
		FinancialYears:    make([]FinancialYear, len(d.FinancialYears)),
		Allocations:       append([]Allocation(nil), d.Allocations...),
		ActualAllocations: append([]ActualAllocation(nil), d.ActualAllocations...),
		Skills:            append([]Skill(nil), d.Skills...),
		PersonSkills:      append([]PersonSkill(nil), d.PersonSkills...),
		Solutions:         make([]Solution, len(d.Solutions)),
		ProjectSolutions:  append([]ProjectSolution(nil), d.ProjectSolutions...),
		ProjectSkills:     append([]ProjectSkill(nil), d.ProjectSkills...),
	}

	for i, v := range d.Divisions {
		v.Budget = cloneFloat64(v.Budget)
		out.Divisions[i] = v
	}
	for i, v := range d.Teams {
		v.TargetSkills = cloneStrings(v.TargetSkills)
		out.Teams[i] = v
	}
	for i, v := range d.Roles {
		v.DefaultRate = cloneFloat64(v.DefaultRate)
		v.DefaultHourlyRate = cloneFloat64(v.DefaultHourlyRate)
		v.DefaultDailyRate = cloneFloat64(v.DefaultDailyRate)
		v.DefaultAnnualSalary = cloneFloat64(v.DefaultAnnualSalary)
		out.Roles[i] = v
	}
	for i, v := range d.People {
		v.EndDate = cloneTime(v.EndDate)
		v.AnnualSalary = cloneFloat64(v.AnnualSalary)
		v.HourlyRate = cloneFloat64(v.HourlyRate)
		v.DailyRate = cloneFloat64(v.DailyRate)
		out.People[i] = v
	}
	for i, v := range d.Projects {
		v.EndDate = cloneTime(v.EndDate)
		v.Budget = cloneFloat64(v.Budget)
		v.PriorityOrder = cloneInt(v.PriorityOrder)
		v.Milestones = append([]Milestone(nil), v.Milestones...)
		v.FinancialYearBudgets = append([]FinancialYearBudget(nil), v.FinancialYearBudgets...)
		out.Projects[i] = v
	}
	for i, v := range d.Epics {
		v.StartDate = cloneTime(v.StartDate)
		v.TargetEndDate = cloneTime(v.TargetEndDate)
		v.ActualEndDate = cloneTime(v.ActualEndDate)
		out.Epics[i] = v
	}
	for i, v := range d.FinancialYears {
		v.QuarterIDs = cloneStrings(v.QuarterIDs)
		out.FinancialYears[i] = v
	}
	for i, v := range d.Solutions {
		v.SkillIDs = cloneStrings(v.SkillIDs)
		out.Solutions[i] = v
	}
	return out
}

// FindTeam returns the team with the given ID.
func (d *Dataset) FindTeam(id string) (Team, bool) {
	for _, t := range d.Teams {
		if t.ID == id {
			return t, true
		}
	}
	return Team{}, false
}

// FindProject returns the project with the given ID.
func (d *Dataset) FindProject(id string) (Project, bool) {
	for _, p := range d.Projects {
		if p.ID == id {
			return p, true
		}
	}
	return Project{}, false
}

// FindCycle returns the cycle with the given ID.
func (d *Dataset) FindCycle(id string) (Cycle, bool) {
	for _, c := range d.Cycles {
		if c.ID == id {
			return c, true
		}
	}
	return Cycle{}, false
}

// FindFinancialYear returns the financial year with the given ID.
func (d *Dataset) FindFinancialYear(id string) (FinancialYear, bool) {
	for _, fy := range d.FinancialYears {
		if fy.ID == id {
			return fy, true
		}
	}
	return FinancialYear{}, false
}

// EpicsForProject returns the epics owned by a project, in dataset order.
func (d *Dataset) EpicsForProject(projectID string) []Epic {
	var out []Epic
	for _, e := range d.Epics {
		if e.ProjectID == projectID {
			out = append(out, e)
		}
	}
	return out
}

// Validate reports invariant violations and dangling references. Problems
// are returned as data; the dataset stays usable by the calculators.
func (d *Dataset) Validate() []error {
	var errs []error

	ids := func(n int, get func(int) string) map[string]bool {
		m := make(map[string]bool, n)
		for i := 0; i < n; i++ {
			m[get(i)] = true
		}
		return m
	}
	teamIDs := ids(len(d.Teams), func(i int) string { return d.Teams[i].ID })
	roleIDs := ids(len(d.Roles), func(i int) string { return d.Roles[i].ID })
	divisionIDs := ids(len(d.Divisions), func(i int) string { return d.Divisions[i].ID })
	projectIDs := ids(len(d.Projects), func(i int) string { return d.Projects[i].ID })
	epicIDs := ids(len(d.Epics), func(i int) string { return d.Epics[i].ID })
	cycleIDs := ids(len(d.Cycles), func(i int) string { return d.Cycles[i].ID })
	categoryIDs := ids(len(d.RunWorkCategories), func(i int) string { return d.RunWorkCategories[i].ID })

	for i := range d.Teams {
		t := &d.Teams[i]
		if err := t.Validate(); err != nil {
			errs = append(errs, err)
		}
		if t.DivisionID != "" && !divisionIDs[t.DivisionID] {
			errs = append(errs, fmt.Errorf("team %q: division %s not found", t.Name, t.DivisionID))
		}
	}
	for _, p := range d.People {
		if p.RoleID != "" && !roleIDs[p.RoleID] {
			errs = append(errs, fmt.Errorf("person %q: role %s not found", p.Name, p.RoleID))
		}
		if p.TeamID != "" && !teamIDs[p.TeamID] {
			errs = append(errs, fmt.Errorf("person %q: team %s not found", p.Name, p.TeamID))
		}
	}
	for i := range d.Projects {
		if err := d.Projects[i].Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	for _, e := range d.Epics {
		if !projectIDs[e.ProjectID] {
			errs = append(errs, fmt.Errorf("epic %q: project %s not found", e.Name, e.ProjectID))
		}
	}
	for i := range d.Allocations {
		a := &d.Allocations[i]
		if err := a.Validate(); err != nil {
			errs = append(errs, err)
		}
		if a.TeamID != "" && !teamIDs[a.TeamID] {
			errs = append(errs, fmt.Errorf("allocation %s: team %s not found", a.ID, a.TeamID))
		}
		if a.CycleID != "" && !cycleIDs[a.CycleID] {
			errs = append(errs, fmt.Errorf("allocation %s: cycle %s not found", a.ID, a.CycleID))
		}
		if a.EpicID != "" && !epicIDs[a.EpicID] {
			errs = append(errs, fmt.Errorf("allocation %s: epic %s not found", a.ID, a.EpicID))
		}
		if a.ProjectID != "" && !projectIDs[a.ProjectID] {
			errs = append(errs, fmt.Errorf("allocation %s: project %s not found", a.ID, a.ProjectID))
		}
		if a.RunWorkCategoryID != "" && !categoryIDs[a.RunWorkCategoryID] {
			errs = append(errs, fmt.Errorf("allocation %s: run-work category %s not found", a.ID, a.RunWorkCategoryID))
		}
	}
	return errs
}
