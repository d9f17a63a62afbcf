package domain

type Skill struct {
	ID       string
	Name     string
	Category string
}

type PersonSkill struct {
	PersonID          string
	SkillID           string
	Proficiency       Proficiency
	YearsOfExperience float64
}

// Solution is a named bundle of skills a project can require as a unit.
type Solution struct {
	ID       string
	Name     string
	Category string
	SkillIDs []string
}

type ProjectSolution struct {
	ProjectID  string
	SolutionID string
	IsPrimary  bool
}

type ProjectSkill struct {
	ProjectID        string
	SkillID          string
	SourceSolutionID string
	Importance       string
}
