package skills

import (
	"testing"

	"github.com/alexanderramin/capplan/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog() Catalog {
	return Catalog{
		Skills: []domain.Skill{
			{ID: "aws", Name: "AWS", Category: "cloud"},
			{ID: "go", Name: "Go", Category: "language"},
			{ID: "k8s", Name: "Kubernetes", Category: "platform"},
			{ID: "react", Name: "React", Category: "frontend"},
		},
		Solutions: []domain.Solution{
			{ID: "sol-data", Name: "Data platform", SkillIDs: []string{"aws", "k8s"}},
			{ID: "sol-api", Name: "API gateway", SkillIDs: []string{"aws", "go"}},
		},
		ProjectSolutions: []domain.ProjectSolution{
			{ProjectID: "p1", SolutionID: "sol-data", IsPrimary: true},
			{ProjectID: "p1", SolutionID: "sol-api"},
		},
		People: []domain.Person{
			{ID: "u1", TeamID: "t1", IsActive: true},
			{ID: "u2", TeamID: "t1", IsActive: true},
			{ID: "u3", TeamID: "t2", IsActive: false},
			{ID: "u4", TeamID: "t3", IsActive: true},
		},
		PersonSkills: []domain.PersonSkill{
			{PersonID: "u1", SkillID: "aws", Proficiency: domain.ProficiencyExpert},
			{PersonID: "u2", SkillID: "go", Proficiency: domain.ProficiencyAdvanced},
			{PersonID: "u3", SkillID: "k8s"},
			{PersonID: "u4", SkillID: "react"},
		},
	}
}

func TestGetProjectRequiredSkills_DeduplicatesAcrossSolutions(t *testing.T) {
	c := testCatalog()
	project := domain.Project{ID: "p1"}

	got := GetProjectRequiredSkills(project, c.ProjectSkills, c.Solutions, c.Skills, c.ProjectSolutions)

	require.Len(t, got, 3)
	var aws int
	for _, r := range got {
		if r.Name == "AWS" {
			aws++
		}
	}
	assert.Equal(t, 1, aws)
	assert.Equal(t, []string{"aws", "k8s", "go"}, []string{got[0].SkillID, got[1].SkillID, got[2].SkillID})
	assert.Equal(t, "sol-data", got[0].SolutionID)
}

func TestGetProjectRequiredSkills_DirectSkillsFirstAndUnknownDropped(t *testing.T) {
	c := testCatalog()
	c.ProjectSkills = []domain.ProjectSkill{
		{ProjectID: "p1", SkillID: "react"},
		{ProjectID: "p1", SkillID: "cobol"},
		{ProjectID: "p2", SkillID: "go"},
	}

	got := GetProjectRequiredSkills(domain.Project{ID: "p1"}, c.ProjectSkills, c.Solutions, c.Skills, c.ProjectSolutions)

	require.Len(t, got, 4)
	assert.Equal(t, "react", got[0].SkillID)
	assert.Empty(t, got[0].SolutionID)
}

func TestTeamSkillInventory_ActiveMembersOnly(t *testing.T) {
	c := testCatalog()

	inv := TeamSkillInventory(domain.Team{ID: "t1"}, c.People, c.PersonSkills)
	assert.Equal(t, []string{"aws", "go"}, inv.SkillIDs)
	assert.False(t, inv.FromTargets)
}

func TestTeamSkillInventory_FallsBackToTargetSkills(t *testing.T) {
	c := testCatalog()
	team := domain.Team{ID: "t2", TargetSkills: []string{"k8s", "aws"}}

	inv := TeamSkillInventory(team, c.People, c.PersonSkills)
	assert.True(t, inv.FromTargets)
	assert.Equal(t, []string{"aws", "k8s"}, inv.SkillIDs)
	assert.True(t, inv.Has("k8s"))
	assert.False(t, inv.Has("go"))
}

func TestCalculateTeamProjectCompatibility_Score(t *testing.T) {
	c := testCatalog()

	got := CalculateTeamProjectCompatibility(domain.Team{ID: "t1", Name: "Core"}, domain.Project{ID: "p1"}, c)

	assert.Equal(t, 2, got.SkillsMatched)
	assert.Equal(t, 3, got.TotalRequiredSkills)
	assert.InDelta(t, 2.0/3.0, got.CompatibilityScore, 1e-9)
	assert.Equal(t, []string{"Kubernetes"}, got.MissingSkills)
}

func TestCalculateTeamProjectCompatibility_NoRequiredSkillsScoresZero(t *testing.T) {
	c := testCatalog()

	got := CalculateTeamProjectCompatibility(domain.Team{ID: "t1"}, domain.Project{ID: "nothing"}, c)

	assert.Equal(t, 0.0, got.CompatibilityScore)
	assert.Equal(t, 0, got.TotalRequiredSkills)
}

func TestCalculateTeamProjectCompatibility_ScoreInUnitRange(t *testing.T) {
	c := testCatalog()
	teams := []domain.Team{{ID: "t1"}, {ID: "t2"}, {ID: "t3"}, {ID: "t4", TargetSkills: []string{"aws", "go", "k8s", "react"}}}

	for _, team := range teams {
		got := CalculateTeamProjectCompatibility(team, domain.Project{ID: "p1"}, c)
		assert.GreaterOrEqual(t, got.CompatibilityScore, 0.0, team.ID)
		assert.LessOrEqual(t, got.CompatibilityScore, 1.0, team.ID)
	}
}

func TestRecommendTeamsForProject_SortedWithRanks(t *testing.T) {
	c := testCatalog()
	teams := []domain.Team{
		{ID: "t3", Name: "Web"},
		{ID: "t1", Name: "Core"},
		{ID: "t4", Name: "Platform", TargetSkills: []string{"aws", "go", "k8s"}},
		{ID: "t5", Name: "Spare"},
	}

	got := RecommendTeamsForProject(domain.Project{ID: "p1"}, teams, c, 0)

	require.Len(t, got, DefaultRecommendationLimit)
	assert.Equal(t, "t4", got[0].TeamID)
	assert.Equal(t, 1, got[0].Rank)
	assert.Equal(t, "t1", got[1].TeamID)
	assert.Equal(t, 2, got[1].Rank)
	assert.Equal(t, "t3", got[2].TeamID, "zero-score ties keep input order")
	assert.Equal(t, 3, got[2].Rank)
}

func TestRecommendTeamsForProject_StableAcrossCalls(t *testing.T) {
	c := testCatalog()
	teams := []domain.Team{
		{ID: "a", TargetSkills: []string{"aws"}},
		{ID: "b", TargetSkills: []string{"go"}},
		{ID: "c", TargetSkills: []string{"k8s"}},
	}

	first := RecommendTeamsForProject(domain.Project{ID: "p1"}, teams, c, 5)
	for i := 0; i < 10; i++ {
		again := RecommendTeamsForProject(domain.Project{ID: "p1"}, teams, c, 5)
		assert.Equal(t, first, again)
	}
	require.Len(t, first, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{first[0].TeamID, first[1].TeamID, first[2].TeamID})
}
