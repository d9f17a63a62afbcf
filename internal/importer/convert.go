package importer

import (
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/capplan/internal/domain"
)

// Converters run only on rows that passed validation, so parse errors are
// not rechecked here.
var converters = map[Kind]func(row Row, ref *Reference, out *domain.Dataset){
	KindPeople:      convertPerson,
	KindTeams:       convertTeam,
	KindProjects:    convertProject,
	KindAllocations: convertAllocation,
	KindActuals:     convertActual,
}

func optionalFloat(row Row, col string) *float64 {
	if !row.Has(col) {
		return nil
	}
	v := ParseNumber(row.Get(col)).Value
	return &v
}

func optionalTime(row Row, col string) *time.Time {
	if !row.Has(col) {
		return nil
	}
	v := ParseDate(row.Get(col)).Value
	return &v
}

func optionalInt(row Row, col string) *int {
	if !row.Has(col) {
		return nil
	}
	v := ParseInt(row.Get(col)).Value
	return &v
}

func convertPerson(row Row, ref *Reference, out *domain.Dataset) {
	roleID, _ := ref.Role(row.Get(colRole))
	teamID, _ := ref.Team(row.Get(colTeam))

	p := domain.Person{
		ID:             uuid.New().String(),
		Name:           row.Get(colName),
		Email:          row.Get(colEmail),
		RoleID:         roleID,
		TeamID:         teamID,
		IsActive:       true,
		EmploymentType: domain.EmploymentType(domain.CoalesceStr(fold(row.Get(colEmployment)), string(domain.EmploymentPermanent))),
		StartDate:      ParseDate(row.Get(colStartDate)).Value,
		EndDate:        optionalTime(row, colEndDate),
		AnnualSalary:   optionalFloat(row, colAnnualSalary),
		HourlyRate:     optionalFloat(row, colHourlyRate),
		DailyRate:      optionalFloat(row, colDailyRate),
	}
	if row.Has(colIsActive) {
		p.IsActive = ParseBool(row.Get(colIsActive)).Value
	}

	ref.emails[fold(p.Email)] = true
	out.People = append(out.People, p)
}

func convertTeam(row Row, ref *Reference, out *domain.Dataset) {
	divisionID, _ := ref.Division(row.Get(colDivision))

	t := domain.Team{
		ID:         uuid.New().String(),
		Name:       row.Get(colTeamName),
		Capacity:   ParseNumber(row.Get(colCapacity)).Value,
		DivisionID: divisionID,
		Status:     domain.TeamStatus(domain.CoalesceStr(fold(row.Get(colStatus)), string(domain.TeamActive))),
	}
	for _, s := range splitList(row.Get(colTargetSkills)) {
		if id, ok := ref.Skill(s); ok {
			t.TargetSkills = append(t.TargetSkills, id)
		}
	}

	ref.addTeam(&t)
	out.Teams = append(out.Teams, t)
}

func convertProject(row Row, ref *Reference, out *domain.Dataset) {
	name := row.Get(colProjectName)
	projectID, continuing := ref.newProjects[fold(name)]

	if !continuing {
		p := domain.Project{
			ID:            uuid.New().String(),
			Name:          name,
			Description:   row.Get(colDescription),
			Status:        domain.ProjectStatus(domain.CoalesceStr(fold(row.Get(colStatus)), string(domain.ProjectPlanning))),
			StartDate:     ParseDate(row.Get(colStartDate)).Value,
			EndDate:       optionalTime(row, colEndDate),
			Budget:        optionalFloat(row, colBudget),
			Priority:      domain.IntFromPtrWithDefault(3, optionalInt(row, colPriority)),
			PriorityOrder: optionalInt(row, colPriorityOrder),
		}
		projectID = p.ID
		ref.newProjects[fold(name)] = p.ID
		ref.projects[fold(name)] = p.ID
		ref.projects[fold(p.ID)] = p.ID
		out.Projects = append(out.Projects, p)
	}

	if !row.Has(colEpicName) {
		return
	}
	e := domain.Epic{
		ID:              uuid.New().String(),
		ProjectID:       projectID,
		Name:            row.Get(colEpicName),
		EstimatedEffort: domain.Float64FromPtrWithDefault(0, optionalFloat(row, colEpicEffort)),
		Status:          domain.EpicStatus(domain.CoalesceStr(fold(row.Get(colEpicStatus)), string(domain.EpicNotStarted))),
		StartDate:       optionalTime(row, colEpicStart),
		TargetEndDate:   optionalTime(row, colEpicTargetEnd),
	}
	ref.addEpic(&e)
	out.Epics = append(out.Epics, e)
}

func convertAllocation(row Row, ref *Reference, out *domain.Dataset) {
	teamID, _ := ref.Team(row.Get(colTeamName))
	cycleID, _ := ref.Cycle(row.Get(colCycle))
	epicID, _ := ref.Epic(row.Get(colEpicName))
	projectID, _ := ref.Project(row.Get(colProjectName))
	categoryID, _ := ref.Category(row.Get(colCategory))

	out.Allocations = append(out.Allocations, domain.Allocation{
		ID:                uuid.New().String(),
		TeamID:            teamID,
		CycleID:           cycleID,
		IterationNumber:   domain.IntFromPtrWithDefault(0, optionalInt(row, colIteration)),
		Percentage:        ParseNumber(row.Get(colPercentage)).Value,
		EpicID:            epicID,
		ProjectID:         projectID,
		RunWorkCategoryID: categoryID,
		Notes:             row.Get(colNotes),
	})
}

func convertActual(row Row, ref *Reference, out *domain.Dataset) {
	teamID, _ := ref.Team(row.Get(colTeamName))
	cycleID, _ := ref.Cycle(row.Get(colCycle))
	epicID, _ := ref.Epic(row.Get(colEpicName))
	categoryID, _ := ref.Category(row.Get(colCategory))

	out.ActualAllocations = append(out.ActualAllocations, domain.ActualAllocation{
		ID:                  uuid.New().String(),
		TeamID:              teamID,
		CycleID:             cycleID,
		IterationNumber:     domain.IntFromPtrWithDefault(0, optionalInt(row, colIteration)),
		Percentage:          ParseNumber(row.Get(colPercentage)).Value,
		EpicID:              epicID,
		RunWorkCategoryID:   categoryID,
		PlannedAllocationID: row.Get(colPlannedID),
		VarianceReason:      row.Get(colVarianceReason),
	})
}
