// Package skills matches project skill requirements against team skill
// inventories and ranks teams for a project.
package skills

import (
	"sort"

	"github.com/alexanderramin/capplan/internal/domain"
)

// DefaultRecommendationLimit is used when a non-positive limit is requested.
const DefaultRecommendationLimit = 3

// Catalog bundles the join tables the matcher reads.
type Catalog struct {
	People           []domain.Person
	PersonSkills     []domain.PersonSkill
	Skills           []domain.Skill
	Solutions        []domain.Solution
	ProjectSolutions []domain.ProjectSolution
	ProjectSkills    []domain.ProjectSkill
}

// CatalogFromDataset views the dataset's skill tables as a Catalog. The
// slices are shared, not copied.
func CatalogFromDataset(d *domain.Dataset) Catalog {
	return Catalog{
		People:           d.People,
		PersonSkills:     d.PersonSkills,
		Skills:           d.Skills,
		Solutions:        d.Solutions,
		ProjectSolutions: d.ProjectSolutions,
		ProjectSkills:    d.ProjectSkills,
	}
}

type RequiredSkill struct {
	SkillID  string
	Name     string
	Category string

	// SolutionID is the first solution that contributed the skill; empty
	// when the project lists it directly.
	SolutionID string
}

// GetProjectRequiredSkills returns the union of the project's direct skills
// and the skills of every solution linked to it, deduplicated by skill ID.
// Direct skills come first, then solutions in link order. Skill IDs that
// are not in the skill table are dropped.
func GetProjectRequiredSkills(project domain.Project, projectSkills []domain.ProjectSkill, solutions []domain.Solution, skills []domain.Skill, projectSolutions []domain.ProjectSolution) []RequiredSkill {
	skillByID := make(map[string]domain.Skill, len(skills))
	for _, s := range skills {
		skillByID[s.ID] = s
	}
	solutionByID := make(map[string]domain.Solution, len(solutions))
	for _, s := range solutions {
		solutionByID[s.ID] = s
	}

	var out []RequiredSkill
	seen := make(map[string]bool)
	add := func(skillID, solutionID string) {
		if seen[skillID] {
			return
		}
		s, ok := skillByID[skillID]
		if !ok {
			return
		}
		seen[skillID] = true
		out = append(out, RequiredSkill{SkillID: s.ID, Name: s.Name, Category: s.Category, SolutionID: solutionID})
	}

	for _, ps := range projectSkills {
		if ps.ProjectID == project.ID {
			add(ps.SkillID, ps.SourceSolutionID)
		}
	}
	for _, link := range projectSolutions {
		if link.ProjectID != project.ID {
			continue
		}
		sol, ok := solutionByID[link.SolutionID]
		if !ok {
			continue
		}
		for _, id := range sol.SkillIDs {
			add(id, sol.ID)
		}
	}
	return out
}

type Inventory struct {
	TeamID   string
	SkillIDs []string

	// FromTargets is set when no active member has recorded skills and
	// the team's declared target skills were used instead.
	FromTargets bool
}

// Has reports whether the inventory contains the skill.
func (inv Inventory) Has(skillID string) bool {
	i := sort.SearchStrings(inv.SkillIDs, skillID)
	return i < len(inv.SkillIDs) && inv.SkillIDs[i] == skillID
}

// TeamSkillInventory unions the recorded skills of the team's active
// members, falling back to the team's target skills when none are recorded.
func TeamSkillInventory(team domain.Team, people []domain.Person, personSkills []domain.PersonSkill) Inventory {
	members := make(map[string]bool)
	for _, p := range people {
		if p.TeamID == team.ID && p.IsActive {
			members[p.ID] = true
		}
	}

	set := make(map[string]bool)
	for _, ps := range personSkills {
		if members[ps.PersonID] {
			set[ps.SkillID] = true
		}
	}

	inv := Inventory{TeamID: team.ID}
	if len(set) == 0 {
		for _, id := range team.TargetSkills {
			set[id] = true
		}
		inv.FromTargets = true
	}
	inv.SkillIDs = make([]string, 0, len(set))
	for id := range set {
		inv.SkillIDs = append(inv.SkillIDs, id)
	}
	sort.Strings(inv.SkillIDs)
	return inv
}

type TeamCompatibility struct {
	TeamID              string
	TeamName            string
	CompatibilityScore  float64
	SkillsMatched       int
	TotalRequiredSkills int
	MatchedSkills       []string
	MissingSkills       []string
}

// CalculateTeamProjectCompatibility scores a team as the share of the
// project's required skills present in the team's inventory. The score is
// 0 when the project requires no skills.
func CalculateTeamProjectCompatibility(team domain.Team, project domain.Project, catalog Catalog) TeamCompatibility {
	required := GetProjectRequiredSkills(project, catalog.ProjectSkills, catalog.Solutions, catalog.Skills, catalog.ProjectSolutions)
	return compatibility(team, required, TeamSkillInventory(team, catalog.People, catalog.PersonSkills))
}

func compatibility(team domain.Team, required []RequiredSkill, inv Inventory) TeamCompatibility {
	out := TeamCompatibility{
		TeamID:              team.ID,
		TeamName:            team.Name,
		TotalRequiredSkills: len(required),
	}
	for _, r := range required {
		if inv.Has(r.SkillID) {
			out.SkillsMatched++
			out.MatchedSkills = append(out.MatchedSkills, r.Name)
		} else {
			out.MissingSkills = append(out.MissingSkills, r.Name)
		}
	}
	if out.TotalRequiredSkills > 0 {
		out.CompatibilityScore = float64(out.SkillsMatched) / float64(out.TotalRequiredSkills)
	}
	return out
}

type TeamRecommendation struct {
	TeamCompatibility
	Rank int
}

// RecommendTeamsForProject ranks teams by compatibility, highest first, and
// returns the top limit with 1-based ranks. Equal scores keep input order.
func RecommendTeamsForProject(project domain.Project, teams []domain.Team, catalog Catalog, limit int) []TeamRecommendation {
	if limit <= 0 {
		limit = DefaultRecommendationLimit
	}
	required := GetProjectRequiredSkills(project, catalog.ProjectSkills, catalog.Solutions, catalog.Skills, catalog.ProjectSolutions)

	scored := make([]TeamRecommendation, 0, len(teams))
	for _, t := range teams {
		inv := TeamSkillInventory(t, catalog.People, catalog.PersonSkills)
		scored = append(scored, TeamRecommendation{TeamCompatibility: compatibility(t, required, inv)})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].CompatibilityScore > scored[j].CompatibilityScore
	})

	if len(scored) > limit {
		scored = scored[:limit]
	}
	for i := range scored {
		scored[i].Rank = i + 1
	}
	return scored
}
