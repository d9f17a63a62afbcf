package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/capplan/internal/domain"
	"github.com/alexanderramin/capplan/internal/scenario"
)

// FormatScenarioList renders stored scenarios, marking the active one.
func FormatScenarioList(scenarios []*domain.Scenario, activeID string, now time.Time) string {
	if len(scenarios) == 0 {
		return Dim("No scenarios. Create one with: capplan scenario create NAME") + "\n"
	}

	rows := make([][]string, 0, len(scenarios))
	for _, s := range scenarios {
		marker := " "
		name := s.Name
		if s.ID == activeID {
			marker = StyleGreen.Render("●")
			name = Bold(name)
		}
		template := Dim("—")
		if s.TemplateName != "" {
			template = StylePurple.Render(s.TemplateName)
		}
		rows = append(rows, []string{
			marker,
			name,
			template,
			RelativeDateFrom(s.LastModified, now),
			Dim(s.ID),
		})
	}
	return RenderTable([]string{"", "NAME", "TEMPLATE", "MODIFIED", "ID"}, rows)
}

// FormatScenarioStatus renders which data set commands currently act on.
func FormatScenarioStatus(state scenario.State, active *domain.Scenario, unsaved bool) string {
	if state != scenario.StateScenarioActive || active == nil {
		return StyleBlue.Render("● LIVE") + Dim("  commands act on live data") + "\n"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s %s\n", StylePurple.Render("◆ SCENARIO"), Bold(active.Name), Dim("("+active.ID+")"))
	if active.Description != "" {
		b.WriteString("  " + Dim(active.Description) + "\n")
	}
	if unsaved {
		b.WriteString("  " + StyleYellow.Render("unsaved changes") + Dim("  save, discard, or switch with --force") + "\n")
	} else {
		b.WriteString("  " + StyleGreen.Render("saved") + "\n")
	}
	return b.String()
}

// FormatComparison renders the changes a scenario makes relative to live data.
func FormatComparison(title string, cmp *scenario.Comparison) string {
	var b strings.Builder
	b.WriteString(Header(title))
	b.WriteString("\n\n")

	if !cmp.HasChanges() {
		b.WriteString(Dim("  No differences from live data.") + "\n")
		return b.String()
	}

	rows := make([][]string, 0, len(cmp.Changes))
	for _, c := range cmp.Changes {
		rows = append(rows, []string{
			changeMarker(c.Type),
			string(c.Category),
			Bold(c.Entity),
			c.Description,
			ImpactBadge(c.Impact),
		})
	}
	b.WriteString(RenderTable([]string{"", "AREA", "ENTITY", "CHANGE", "IMPACT"}, rows))
	b.WriteString("\n")

	s := cmp.Summary
	fmt.Fprintf(&b, "  %s   %s %d  %s %d  %s %d\n",
		Bold(Plural(s.Total, "change")),
		StyleRed.Render("high"), s.ByImpact[scenario.ImpactHigh],
		StyleYellow.Render("medium"), s.ByImpact[scenario.ImpactMedium],
		Dim("low"), s.ByImpact[scenario.ImpactLow])
	return b.String()
}

// FormatTemplates renders the built-in scenario templates and their parameters.
func FormatTemplates(templates []scenario.Template) string {
	var b strings.Builder
	for i, t := range templates {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s %s\n", Bold(t.ID), Dim("· "+t.Name))
		b.WriteString("  " + t.Description + "\n")
		for _, p := range t.Params {
			def := ""
			if p.Default != "" {
				def = Dim(" (default " + p.Default + ")")
			}
			fmt.Fprintf(&b, "  %s %s%s\n", StyleBlue.Render("--param "+p.Name+"="), p.Description, def)
		}
	}
	return b.String()
}

func changeMarker(t scenario.ChangeType) string {
	switch t {
	case scenario.ChangeAdded:
		return StyleGreen.Render("+")
	case scenario.ChangeRemoved:
		return StyleRed.Render("-")
	default:
		return StyleYellow.Render("~")
	}
}
