package scenario

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/alexanderramin/capplan/internal/domain"
)

type ChangeType string

const (
	ChangeAdded    ChangeType = "added"
	ChangeRemoved  ChangeType = "removed"
	ChangeModified ChangeType = "modified"
)

type Category string

const (
	CategoryTeams       Category = "teams"
	CategoryProjects    Category = "projects"
	CategoryAllocations Category = "allocations"
)

type Impact string

const (
	ImpactLow    Impact = "low"
	ImpactMedium Impact = "medium"
	ImpactHigh   Impact = "high"
)

type ChangeItem struct {
	Type        ChangeType
	Category    Category
	EntityID    string
	Entity      string
	Description string
	Impact      Impact
}

type Summary struct {
	Total      int
	ByCategory map[Category]int
	ByImpact   map[Impact]int
}

type Comparison struct {
	Changes []ChangeItem
	Summary Summary
}

// HasChanges reports whether the comparison found any difference.
func (c *Comparison) HasChanges() bool {
	return len(c.Changes) > 0
}

// Compare diffs a scenario snapshot against live data. Entities are matched
// by ID. Removed and modified entities follow live order; added entities
// follow scenario order.
func Compare(live, scenario *domain.Dataset) Comparison {
	var changes []ChangeItem
	changes = append(changes, compareTeams(live.Teams, scenario.Teams)...)
	changes = append(changes, compareProjects(live.Projects, scenario.Projects)...)
	changes = append(changes, compareAllocations(live.Allocations, scenario.Allocations)...)

	summary := Summary{
		Total:      len(changes),
		ByCategory: make(map[Category]int),
		ByImpact:   make(map[Impact]int),
	}
	for _, c := range changes {
		summary.ByCategory[c.Category]++
		summary.ByImpact[c.Impact]++
	}
	return Comparison{Changes: changes, Summary: summary}
}

type fieldChange struct {
	label    string
	from, to string
	critical bool
}

func (f fieldChange) String() string {
	return fmt.Sprintf("%s: %s → %s", f.label, f.from, f.to)
}

func describe(fields []fieldChange) string {
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f.String()
	}
	return strings.Join(parts, "; ")
}

func compareTeams(live, scenario []domain.Team) []ChangeItem {
	var out []ChangeItem
	inScenario := make(map[string]*domain.Team, len(scenario))
	for i := range scenario {
		inScenario[scenario[i].ID] = &scenario[i]
	}
	inLive := make(map[string]bool, len(live))

	for i := range live {
		old := &live[i]
		inLive[old.ID] = true
		cur, ok := inScenario[old.ID]
		if !ok {
			out = append(out, ChangeItem{
				Type: ChangeRemoved, Category: CategoryTeams, EntityID: old.ID, Entity: old.Name,
				Description: fmt.Sprintf("Team %q removed", old.Name), Impact: ImpactHigh,
			})
			continue
		}

		var fields []fieldChange
		if old.Name != cur.Name {
			fields = append(fields, fieldChange{label: "Name", from: old.Name, to: cur.Name})
		}
		if old.Capacity != cur.Capacity {
			fields = append(fields, fieldChange{label: "Capacity", from: formatHours(old.Capacity), to: formatHours(cur.Capacity)})
		}
		if old.Status != cur.Status {
			fields = append(fields, fieldChange{label: "Status", from: string(old.Status), to: string(cur.Status)})
		}
		if len(fields) == 0 {
			continue
		}
		impact := ImpactMedium
		if len(fields) > 1 {
			impact = ImpactHigh
		}
		out = append(out, ChangeItem{
			Type: ChangeModified, Category: CategoryTeams, EntityID: cur.ID, Entity: cur.Name,
			Description: describe(fields), Impact: impact,
		})
	}

	for i := range scenario {
		cur := &scenario[i]
		if inLive[cur.ID] {
			continue
		}
		out = append(out, ChangeItem{
			Type: ChangeAdded, Category: CategoryTeams, EntityID: cur.ID, Entity: cur.Name,
			Description: fmt.Sprintf("Team %q added with capacity %s", cur.Name, formatHours(cur.Capacity)), Impact: ImpactMedium,
		})
	}
	return out
}

func compareProjects(live, scenario []domain.Project) []ChangeItem {
	var out []ChangeItem
	inScenario := make(map[string]*domain.Project, len(scenario))
	for i := range scenario {
		inScenario[scenario[i].ID] = &scenario[i]
	}
	inLive := make(map[string]bool, len(live))

	for i := range live {
		old := &live[i]
		inLive[old.ID] = true
		cur, ok := inScenario[old.ID]
		if !ok {
			out = append(out, ChangeItem{
				Type: ChangeRemoved, Category: CategoryProjects, EntityID: old.ID, Entity: old.Name,
				Description: fmt.Sprintf("Project %q removed", old.Name), Impact: ImpactHigh,
			})
			continue
		}

		var fields []fieldChange
		if old.Name != cur.Name {
			fields = append(fields, fieldChange{label: "Name", from: old.Name, to: cur.Name})
		}
		if !sameFloat(old.Budget, cur.Budget) {
			fields = append(fields, budgetChange(old.Budget, cur.Budget))
		}
		if old.Status != cur.Status {
			fields = append(fields, fieldChange{label: "Status", from: string(old.Status), to: string(cur.Status)})
		}
		if !old.StartDate.Equal(cur.StartDate) {
			fields = append(fields, fieldChange{label: "Start date", from: formatDate(&old.StartDate), to: formatDate(&cur.StartDate), critical: true})
		}
		if !sameTime(old.EndDate, cur.EndDate) {
			fields = append(fields, fieldChange{label: "End date", from: formatDate(old.EndDate), to: formatDate(cur.EndDate), critical: true})
		}
		if len(fields) == 0 {
			continue
		}
		impact := ImpactMedium
		for _, f := range fields {
			if f.critical {
				impact = ImpactHigh
			}
		}
		out = append(out, ChangeItem{
			Type: ChangeModified, Category: CategoryProjects, EntityID: cur.ID, Entity: cur.Name,
			Description: describe(fields), Impact: impact,
		})
	}

	for i := range scenario {
		cur := &scenario[i]
		if inLive[cur.ID] {
			continue
		}
		out = append(out, ChangeItem{
			Type: ChangeAdded, Category: CategoryProjects, EntityID: cur.ID, Entity: cur.Name,
			Description: fmt.Sprintf("Project %q added", cur.Name), Impact: ImpactMedium,
		})
	}
	return out
}

// compareAllocations reports one aggregate item per change type.
func compareAllocations(live, scenario []domain.Allocation) []ChangeItem {
	inScenario := make(map[string]domain.Allocation, len(scenario))
	for _, a := range scenario {
		inScenario[a.ID] = a
	}
	inLive := make(map[string]bool, len(live))

	var added, removed, modified int
	for _, a := range live {
		inLive[a.ID] = true
		cur, ok := inScenario[a.ID]
		switch {
		case !ok:
			removed++
		case cur != a:
			modified++
		}
	}
	for _, a := range scenario {
		if !inLive[a.ID] {
			added++
		}
	}

	var out []ChangeItem
	for _, c := range []struct {
		typ   ChangeType
		count int
	}{{ChangeModified, modified}, {ChangeRemoved, removed}, {ChangeAdded, added}} {
		if c.count == 0 {
			continue
		}
		noun := "allocations"
		if c.count == 1 {
			noun = "allocation"
		}
		out = append(out, ChangeItem{
			Type:        c.typ,
			Category:    CategoryAllocations,
			Entity:      "Allocations",
			Description: fmt.Sprintf("%d %s %s", c.count, noun, c.typ),
			Impact:      allocationImpact(c.count),
		})
	}
	return out
}

func allocationImpact(count int) Impact {
	switch {
	case count >= 10:
		return ImpactHigh
	case count >= 3:
		return ImpactMedium
	default:
		return ImpactLow
	}
}

func budgetChange(old, cur *float64) fieldChange {
	f := fieldChange{label: "Budget", from: formatMoney(old), to: formatMoney(cur), critical: true}
	if old != nil && cur != nil {
		f.to += " (" + formatDelta(*cur-*old) + ")"
	}
	return f
}

func formatMoney(v *float64) string {
	if v == nil {
		return "none"
	}
	return formatCurrency(*v)
}

// formatCurrency renders whole currency units, e.g. "-$20,000".
func formatCurrency(v float64) string {
	s := "$" + humanize.Comma(int64(math.Round(math.Abs(v))))
	if v < 0 {
		return "-" + s
	}
	return s
}

func formatDelta(v float64) string {
	if v >= 0 {
		return "+" + formatCurrency(v)
	}
	return formatCurrency(v)
}

func formatHours(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "h/week"
}

func formatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "none"
	}
	return t.Format(domain.DateLayout)
}

func sameFloat(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func sameTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}
