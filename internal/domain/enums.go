package domain

type TeamStatus string

const (
	TeamActive   TeamStatus = "active"
	TeamInactive TeamStatus = "inactive"
	TeamForming  TeamStatus = "forming"
)

type ProjectStatus string

const (
	ProjectPlanning  ProjectStatus = "planning"
	ProjectActive    ProjectStatus = "active"
	ProjectCompleted ProjectStatus = "completed"
	ProjectCancelled ProjectStatus = "cancelled"
)

// ValidProjectStatuses is the canonical set of accepted project status strings.
var ValidProjectStatuses = map[string]bool{
	"planning": true, "active": true, "completed": true, "cancelled": true,
}

type EpicStatus string

const (
	EpicNotStarted EpicStatus = "not-started"
	EpicInProgress EpicStatus = "in-progress"
	EpicCompleted  EpicStatus = "completed"
)

type MilestoneStatus string

const (
	MilestoneNotStarted MilestoneStatus = "not-started"
	MilestoneInProgress MilestoneStatus = "in-progress"
	MilestoneCompleted  MilestoneStatus = "completed"
	MilestoneAtRisk     MilestoneStatus = "at-risk"
)

type RateType string

const (
	RateHourly RateType = "hourly"
	RateDaily  RateType = "daily"
	RateAnnual RateType = "annual"
)

type EmploymentType string

const (
	EmploymentPermanent  EmploymentType = "permanent"
	EmploymentContractor EmploymentType = "contractor"
)

type CycleType string

const (
	CycleQuarterly CycleType = "quarterly"
	CycleIteration CycleType = "iteration"
)

type Proficiency string

const (
	ProficiencyBeginner     Proficiency = "beginner"
	ProficiencyIntermediate Proficiency = "intermediate"
	ProficiencyAdvanced     Proficiency = "advanced"
	ProficiencyExpert       Proficiency = "expert"
)

// AllocationTarget names what an allocation's capacity is spent on.
type AllocationTarget string

const (
	TargetEpic    AllocationTarget = "epic"
	TargetProject AllocationTarget = "project"
	TargetRunWork AllocationTarget = "run_work_category"
	TargetGeneric AllocationTarget = "generic_run_work"
)
