package importer

import (
	"strings"

	"github.com/alexanderramin/capplan/internal/domain"
)

// Reference resolves names and IDs in CSV cells against the dataset being
// imported into. Records accepted earlier in the same file are registered
// so later rows can see them and duplicates within the file are caught.
type Reference struct {
	roles      map[string]string
	teams      map[string]string
	divisions  map[string]string
	cycles     map[string]string
	epics      map[string]string
	projects   map[string]string
	categories map[string]string
	skills     map[string]string

	roleHasRate map[string]bool
	emails      map[string]bool
	teamKeys    map[string]bool
	// projects created by this import, by folded name
	newProjects map[string]string
}

func fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func indexByIDAndName[T any](items []T, id, name func(*T) string) map[string]string {
	m := make(map[string]string, 2*len(items))
	for i := range items {
		it := &items[i]
		if n := fold(name(it)); n != "" {
			if _, taken := m[n]; !taken {
				m[n] = id(it)
			}
		}
		m[fold(id(it))] = id(it)
	}
	return m
}

func teamKey(divisionID, name string) string {
	return fold(divisionID) + "/" + fold(name)
}

// NewReference indexes ds. ds is read, never modified.
func NewReference(ds *domain.Dataset) *Reference {
	r := &Reference{
		roles:       indexByIDAndName(ds.Roles, func(v *domain.Role) string { return v.ID }, func(v *domain.Role) string { return v.Name }),
		teams:       indexByIDAndName(ds.Teams, func(v *domain.Team) string { return v.ID }, func(v *domain.Team) string { return v.Name }),
		divisions:   indexByIDAndName(ds.Divisions, func(v *domain.Division) string { return v.ID }, func(v *domain.Division) string { return v.Name }),
		cycles:      indexByIDAndName(ds.Cycles, func(v *domain.Cycle) string { return v.ID }, func(v *domain.Cycle) string { return v.Name }),
		epics:       indexByIDAndName(ds.Epics, func(v *domain.Epic) string { return v.ID }, func(v *domain.Epic) string { return v.Name }),
		projects:    indexByIDAndName(ds.Projects, func(v *domain.Project) string { return v.ID }, func(v *domain.Project) string { return v.Name }),
		categories:  indexByIDAndName(ds.RunWorkCategories, func(v *domain.RunWorkCategory) string { return v.ID }, func(v *domain.RunWorkCategory) string { return v.Name }),
		skills:      indexByIDAndName(ds.Skills, func(v *domain.Skill) string { return v.ID }, func(v *domain.Skill) string { return v.Name }),
		roleHasRate: make(map[string]bool, len(ds.Roles)),
		emails:      make(map[string]bool, len(ds.People)),
		teamKeys:    make(map[string]bool, len(ds.Teams)),
		newProjects: make(map[string]string),
	}
	for _, role := range ds.Roles {
		r.roleHasRate[role.ID] = domain.FirstFloat64(role.DefaultRate, role.DefaultDailyRate, role.DefaultHourlyRate, role.DefaultAnnualSalary) != nil
	}
	for _, p := range ds.People {
		if p.Email != "" {
			r.emails[fold(p.Email)] = true
		}
	}
	for _, t := range ds.Teams {
		r.teamKeys[teamKey(t.DivisionID, t.Name)] = true
	}
	return r
}

func lookup(m map[string]string, key string) (string, bool) {
	id, ok := m[fold(key)]
	return id, ok
}

func (r *Reference) Role(key string) (string, bool)     { return lookup(r.roles, key) }
func (r *Reference) Team(key string) (string, bool)     { return lookup(r.teams, key) }
func (r *Reference) Division(key string) (string, bool) { return lookup(r.divisions, key) }
func (r *Reference) Cycle(key string) (string, bool)    { return lookup(r.cycles, key) }
func (r *Reference) Epic(key string) (string, bool)     { return lookup(r.epics, key) }
func (r *Reference) Project(key string) (string, bool)  { return lookup(r.projects, key) }
func (r *Reference) Category(key string) (string, bool) { return lookup(r.categories, key) }
func (r *Reference) Skill(key string) (string, bool)    { return lookup(r.skills, key) }

func (r *Reference) addTeam(t *domain.Team) {
	r.teams[fold(t.Name)] = t.ID
	r.teams[fold(t.ID)] = t.ID
	r.teamKeys[teamKey(t.DivisionID, t.Name)] = true
}

func (r *Reference) addEpic(e *domain.Epic) {
	if _, taken := r.epics[fold(e.Name)]; !taken {
		r.epics[fold(e.Name)] = e.ID
	}
	r.epics[fold(e.ID)] = e.ID
}
