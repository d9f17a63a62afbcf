package scenario

import (
	"fmt"
	"strconv"

	"github.com/alexanderramin/capplan/internal/domain"
)

// Params carries template parameters as entered by the user.
type Params map[string]string

// Float returns the named parameter, or def when it is absent.
func (p Params) Float(name string, def float64) (float64, error) {
	raw, ok := p[name]
	if !ok || raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("parameter %s: %q is not a number", name, raw)
	}
	return v, nil
}

type TemplateParam struct {
	Name        string
	Description string
	Default     string
}

type Template struct {
	ID          string
	Name        string
	Description string
	Params      []TemplateParam

	apply func(*domain.Dataset, Params) error
}

var templates = []Template{
	{
		ID:          "budget-reduction",
		Name:        "Budget reduction",
		Description: "Cut every project budget by a percentage.",
		Params:      []TemplateParam{{Name: "percentage", Description: "reduction in percent", Default: "10"}},
		apply:       applyBudgetReduction,
	},
	{
		ID:          "capacity-change",
		Name:        "Capacity change",
		Description: "Scale every active team's weekly capacity by a percentage (negative to shrink).",
		Params:      []TemplateParam{{Name: "percentage", Description: "change in percent", Default: "-10"}},
		apply:       applyCapacityChange,
	},
	{
		ID:          "project-delay",
		Name:        "Project delay",
		Description: "Push planned and active projects and their epics back by a number of months.",
		Params: []TemplateParam{
			{Name: "months", Description: "delay in whole months", Default: "3"},
			{Name: "project", Description: "limit to one project ID"},
		},
		apply: applyProjectDelay,
	},
	{
		ID:          "cancel-low-priority",
		Name:        "Cancel low priority",
		Description: "Cancel projects at or below a priority and release their allocations.",
		Params:      []TemplateParam{{Name: "min_priority", Description: "lowest priority kept is min_priority-1", Default: "4"}},
		apply:       applyCancelLowPriority,
	},
}

// Templates lists the built-in scenario templates.
func Templates() []Template {
	return append([]Template(nil), templates...)
}

// LookupTemplate returns the template with the given ID.
func LookupTemplate(id string) (Template, bool) {
	for _, t := range templates {
		if t.ID == id {
			return t, true
		}
	}
	return Template{}, false
}

// ApplyTemplate mutates ds according to the template.
func ApplyTemplate(id string, params Params, ds *domain.Dataset) error {
	t, ok := LookupTemplate(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTemplate, id)
	}
	if err := t.apply(ds, params); err != nil {
		return fmt.Errorf("applying template %s: %w", id, err)
	}
	return nil
}

func applyBudgetReduction(ds *domain.Dataset, p Params) error {
	pct, err := p.Float("percentage", 10)
	if err != nil {
		return err
	}
	if pct < 0 || pct > 100 {
		return fmt.Errorf("percentage must be between 0 and 100, got %g", pct)
	}
	factor := 1 - pct/100
	for i := range ds.Projects {
		proj := &ds.Projects[i]
		if proj.Budget != nil {
			proj.Budget = domain.Float64Ptr(*proj.Budget * factor)
		}
		for j := range proj.FinancialYearBudgets {
			proj.FinancialYearBudgets[j].Amount *= factor
		}
	}
	return nil
}

func applyCapacityChange(ds *domain.Dataset, p Params) error {
	pct, err := p.Float("percentage", -10)
	if err != nil {
		return err
	}
	if pct <= -100 {
		return fmt.Errorf("percentage must be above -100, got %g", pct)
	}
	for i := range ds.Teams {
		if ds.Teams[i].Status == domain.TeamActive {
			ds.Teams[i].Capacity *= 1 + pct/100
		}
	}
	return nil
}

func applyProjectDelay(ds *domain.Dataset, p Params) error {
	months, err := p.Float("months", 3)
	if err != nil {
		return err
	}
	if months != float64(int(months)) {
		return fmt.Errorf("months must be a whole number, got %g", months)
	}
	n := int(months)
	only := p["project"]

	delayed := make(map[string]bool)
	for i := range ds.Projects {
		proj := &ds.Projects[i]
		if only != "" && proj.ID != only {
			continue
		}
		if proj.Status != domain.ProjectPlanning && proj.Status != domain.ProjectActive {
			continue
		}
		proj.StartDate = proj.StartDate.AddDate(0, n, 0)
		if proj.EndDate != nil {
			proj.EndDate = domain.DatePtr(proj.EndDate.AddDate(0, n, 0))
		}
		for j := range proj.Milestones {
			proj.Milestones[j].DueDate = proj.Milestones[j].DueDate.AddDate(0, n, 0)
		}
		delayed[proj.ID] = true
	}
	if only != "" && !delayed[only] {
		return fmt.Errorf("project %s not found or not planning/active", only)
	}

	for i := range ds.Epics {
		e := &ds.Epics[i]
		if !delayed[e.ProjectID] || e.Status == domain.EpicCompleted {
			continue
		}
		if e.StartDate != nil {
			e.StartDate = domain.DatePtr(e.StartDate.AddDate(0, n, 0))
		}
		if e.TargetEndDate != nil {
			e.TargetEndDate = domain.DatePtr(e.TargetEndDate.AddDate(0, n, 0))
		}
	}
	return nil
}

func applyCancelLowPriority(ds *domain.Dataset, p Params) error {
	minPriority, err := p.Float("min_priority", 4)
	if err != nil {
		return err
	}

	cancelled := make(map[string]bool)
	for i := range ds.Projects {
		proj := &ds.Projects[i]
		if float64(proj.Priority) < minPriority || proj.Status == domain.ProjectCompleted {
			continue
		}
		proj.Status = domain.ProjectCancelled
		cancelled[proj.ID] = true
	}

	cancelledEpics := make(map[string]bool)
	for _, e := range ds.Epics {
		if cancelled[e.ProjectID] {
			cancelledEpics[e.ID] = true
		}
	}

	kept := ds.Allocations[:0]
	for _, a := range ds.Allocations {
		if cancelled[a.ProjectID] || cancelledEpics[a.EpicID] {
			continue
		}
		kept = append(kept, a)
	}
	ds.Allocations = kept
	return nil
}
