package testutil

import (
	"github.com/google/uuid"

	"github.com/alexanderramin/capplan/internal/domain"
)

// Team options
type TeamOption func(*domain.Team)

func WithCapacity(hours float64) TeamOption {
	return func(t *domain.Team) {
		t.Capacity = hours
	}
}

func WithDivision(id string) TeamOption {
	return func(t *domain.Team) {
		t.DivisionID = id
	}
}

func WithTeamStatus(s domain.TeamStatus) TeamOption {
	return func(t *domain.Team) {
		t.Status = s
	}
}

func WithTargetSkills(ids ...string) TeamOption {
	return func(t *domain.Team) {
		t.TargetSkills = ids
	}
}

func NewTestTeam(name string, opts ...TeamOption) *domain.Team {
	t := &domain.Team{
		ID:       uuid.New().String(),
		Name:     name,
		Capacity: 40,
		Status:   domain.TeamActive,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Project options
type ProjectOption func(*domain.Project)

func WithProjectStatus(s domain.ProjectStatus) ProjectOption {
	return func(p *domain.Project) {
		p.Status = s
	}
}

func WithBudget(amount float64) ProjectOption {
	return func(p *domain.Project) {
		p.Budget = &amount
	}
}

func WithEndDate(date string) ProjectOption {
	return func(p *domain.Project) {
		p.EndDate = domain.DatePtr(domain.MustDate(date))
	}
}

func WithPriority(priority int) ProjectOption {
	return func(p *domain.Project) {
		p.Priority = priority
	}
}

func WithMilestone(name, due string) ProjectOption {
	return func(p *domain.Project) {
		p.Milestones = append(p.Milestones, domain.Milestone{
			ID:        uuid.New().String(),
			ProjectID: p.ID,
			Name:      name,
			DueDate:   domain.MustDate(due),
			Status:    domain.MilestoneNotStarted,
		})
	}
}

func NewTestProject(name string, opts ...ProjectOption) *domain.Project {
	p := &domain.Project{
		ID:        uuid.New().String(),
		Name:      name,
		Status:    domain.ProjectActive,
		StartDate: domain.MustDate("2025-01-01"),
		Priority:  3,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Person options
type PersonOption func(*domain.Person)

func WithTeam(id string) PersonOption {
	return func(p *domain.Person) {
		p.TeamID = id
	}
}

func WithRole(id string) PersonOption {
	return func(p *domain.Person) {
		p.RoleID = id
	}
}

func WithDailyRate(rate float64) PersonOption {
	return func(p *domain.Person) {
		p.DailyRate = &rate
	}
}

func Inactive() PersonOption {
	return func(p *domain.Person) {
		p.IsActive = false
	}
}

func NewTestPerson(name string, opts ...PersonOption) *domain.Person {
	p := &domain.Person{
		ID:             uuid.New().String(),
		Name:           name,
		IsActive:       true,
		EmploymentType: domain.EmploymentPermanent,
		StartDate:      domain.MustDate("2024-01-01"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func NewTestEpic(projectID, name string) *domain.Epic {
	return &domain.Epic{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Name:      name,
		Status:    domain.EpicNotStarted,
	}
}

func NewTestCycle(typ domain.CycleType, name, start, end string) *domain.Cycle {
	return &domain.Cycle{
		ID:        uuid.New().String(),
		Type:      typ,
		Name:      name,
		StartDate: domain.MustDate(start),
		EndDate:   domain.MustDate(end),
	}
}

// Allocation options
type AllocationOption func(*domain.Allocation)

func ForEpic(id string) AllocationOption {
	return func(a *domain.Allocation) {
		a.EpicID = id
	}
}

func ForProject(id string) AllocationOption {
	return func(a *domain.Allocation) {
		a.ProjectID = id
	}
}

func ForCategory(id string) AllocationOption {
	return func(a *domain.Allocation) {
		a.RunWorkCategoryID = id
	}
}

func NewTestAllocation(teamID, cycleID string, pct float64, opts ...AllocationOption) *domain.Allocation {
	a := &domain.Allocation{
		ID:         uuid.New().String(),
		TeamID:     teamID,
		CycleID:    cycleID,
		Percentage: pct,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Stable IDs of the records in NewTestDataset.
const (
	DivisionPlatform = "div-platform"
	TeamCore         = "team-core"
	TeamEdge         = "team-edge"
	RoleDeveloper    = "role-dev"
	PersonAda        = "person-ada"
	PersonGrace      = "person-grace"
	ProjectBilling   = "proj-billing"
	ProjectSearch    = "proj-search"
	EpicInvoices     = "epic-invoices"
	CategorySupport  = "rw-support"
	FinancialYear25  = "fy-25"
	QuarterQ1        = "cyc-q1"
	IterationQ1IT1   = "cyc-q1-it1"
	IterationQ1IT2   = "cyc-q1-it2"
	SkillGo          = "skill-go"
	SkillAWS         = "skill-aws"
	SolutionPlatform = "sol-platform"
)

// NewTestDataset builds a small, internally consistent planning dataset:
// two teams in one division, a quarter with two iterations, two projects
// and allocations across both iterations.
func NewTestDataset() *domain.Dataset {
	billing := NewTestProject("Billing", WithBudget(200000), WithEndDate("2025-06-30"), WithPriority(1))
	billing.ID = ProjectBilling
	billing.Description = "Invoice and payment runs"
	billing.PriorityOrder = domain.IntPtr(1)
	billing.Milestones = []domain.Milestone{
		{ID: "ms-beta", ProjectID: ProjectBilling, Name: "Beta", DueDate: domain.MustDate("2025-03-15"), Status: domain.MilestoneInProgress},
	}
	billing.FinancialYearBudgets = []domain.FinancialYearBudget{{FinancialYearID: FinancialYear25, Amount: 150000}}

	search := NewTestProject("Search", WithProjectStatus(domain.ProjectPlanning), WithPriority(4))
	search.ID = ProjectSearch

	return &domain.Dataset{
		Divisions: []domain.Division{
			{ID: DivisionPlatform, Name: "Platform", Budget: domain.Float64Ptr(1000000)},
		},
		Teams: []domain.Team{
			{ID: TeamCore, Name: "Core", Capacity: 40, DivisionID: DivisionPlatform, Status: domain.TeamActive, TargetSkills: []string{SkillGo}},
			{ID: TeamEdge, Name: "Edge", Capacity: 80, DivisionID: DivisionPlatform, Status: domain.TeamActive},
		},
		Roles: []domain.Role{
			{ID: RoleDeveloper, Name: "Developer", RateType: domain.RateDaily, DefaultRate: domain.Float64Ptr(500)},
		},
		People: []domain.Person{
			{ID: PersonAda, Name: "Ada", Email: "ada@example.com", RoleID: RoleDeveloper, TeamID: TeamCore, IsActive: true, EmploymentType: domain.EmploymentPermanent, StartDate: domain.MustDate("2024-01-01")},
			{ID: PersonGrace, Name: "Grace", Email: "grace@example.com", RoleID: RoleDeveloper, TeamID: TeamEdge, IsActive: true, EmploymentType: domain.EmploymentContractor, StartDate: domain.MustDate("2024-06-01"), DailyRate: domain.Float64Ptr(800)},
		},
		Projects: []domain.Project{*billing, *search},
		Epics: []domain.Epic{
			{ID: EpicInvoices, ProjectID: ProjectBilling, Name: "Invoices", EstimatedEffort: 120, Status: domain.EpicInProgress, StartDate: domain.DatePtr(domain.MustDate("2025-01-06")), TargetEndDate: domain.DatePtr(domain.MustDate("2025-04-30"))},
		},
		RunWorkCategories: []domain.RunWorkCategory{{ID: CategorySupport, Name: "Support"}},
		Cycles: []domain.Cycle{
			{ID: QuarterQ1, Type: domain.CycleQuarterly, Name: "Q1 2025", StartDate: domain.MustDate("2025-01-01"), EndDate: domain.MustDate("2025-03-31"), FinancialYearID: FinancialYear25},
			{ID: IterationQ1IT1, Type: domain.CycleIteration, Name: "Q1 IT1", StartDate: domain.MustDate("2025-01-06"), EndDate: domain.MustDate("2025-01-19"), FinancialYearID: FinancialYear25},
			{ID: IterationQ1IT2, Type: domain.CycleIteration, Name: "Q1 IT2", StartDate: domain.MustDate("2025-01-20"), EndDate: domain.MustDate("2025-02-02"), FinancialYearID: FinancialYear25},
		},
		FinancialYears: []domain.FinancialYear{
			{ID: FinancialYear25, Name: "FY25", StartDate: domain.MustDate("2025-01-01"), EndDate: domain.MustDate("2025-12-31"), QuarterIDs: []string{QuarterQ1}},
		},
		Allocations: []domain.Allocation{
			{ID: "alloc-1", TeamID: TeamCore, CycleID: IterationQ1IT1, IterationNumber: 1, Percentage: 60, EpicID: EpicInvoices},
			{ID: "alloc-2", TeamID: TeamCore, CycleID: IterationQ1IT1, IterationNumber: 1, Percentage: 30, RunWorkCategoryID: CategorySupport},
			{ID: "alloc-3", TeamID: TeamEdge, CycleID: IterationQ1IT2, IterationNumber: 2, Percentage: 50, ProjectID: ProjectSearch, Notes: "discovery"},
		},
		ActualAllocations: []domain.ActualAllocation{
			{ID: "actual-1", TeamID: TeamCore, CycleID: IterationQ1IT1, IterationNumber: 1, Percentage: 70, EpicID: EpicInvoices, PlannedAllocationID: "alloc-1", VarianceReason: "incident follow-up"},
		},
		Skills: []domain.Skill{
			{ID: SkillGo, Name: "Go", Category: "language"},
			{ID: SkillAWS, Name: "AWS", Category: "cloud"},
		},
		PersonSkills: []domain.PersonSkill{
			{PersonID: PersonAda, SkillID: SkillGo, Proficiency: domain.ProficiencyExpert, YearsOfExperience: 6},
			{PersonID: PersonGrace, SkillID: SkillAWS, Proficiency: domain.ProficiencyAdvanced, YearsOfExperience: 4},
		},
		Solutions: []domain.Solution{
			{ID: SolutionPlatform, Name: "Cloud platform", Category: "infrastructure", SkillIDs: []string{SkillGo, SkillAWS}},
		},
		ProjectSolutions: []domain.ProjectSolution{
			{ProjectID: ProjectBilling, SolutionID: SolutionPlatform, IsPrimary: true},
		},
		ProjectSkills: []domain.ProjectSkill{
			{ProjectID: ProjectSearch, SkillID: SkillGo, Importance: "high"},
		},
	}
}
