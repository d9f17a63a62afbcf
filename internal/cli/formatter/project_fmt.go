package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/capplan/internal/domain"
	"github.com/alexanderramin/capplan/internal/finance"
	"github.com/alexanderramin/capplan/internal/skills"
)

// FormatProjectList renders projects in the order given.
func FormatProjectList(projects []domain.Project) string {
	if len(projects) == 0 {
		return Dim("No projects match.") + "\n"
	}

	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, []string{
			fmt.Sprintf("P%d", p.Priority),
			Bold(p.Name),
			StatusPill(p.Status),
			Date(p.StartDate),
			OptionalDate(p.EndDate),
			OptionalMoney(p.Budget),
			Dim(TruncID(p.ID)),
		})
	}
	return RenderTable([]string{"PRI", "NAME", "STATUS", "START", "END", "BUDGET", "ID"}, rows, 5)
}

// FormatProjectCost renders a project's cost, its budget position and the
// per-financial-year split.
func FormatProjectCost(p domain.Project, cost finance.ProjectCost, variance *float64, state finance.BudgetState, years []finance.FinancialYearCost) string {
	var b strings.Builder
	b.WriteString(Header(p.Name + " · cost"))
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "  %s %s\n", Dim("Total   "), Bold(Money(cost.TotalCost)))
	fmt.Fprintf(&b, "  %s %s\n", Dim("Budget  "), OptionalMoney(p.Budget))
	fmt.Fprintf(&b, "  %s %s\n", Dim("Variance"), SignedMoney(variance))
	fmt.Fprintf(&b, "  %s %s\n", Dim("Status  "), BudgetIndicator(state))
	if cost.TotalDurationInDays > 0 {
		fmt.Fprintf(&b, "  %s %s/month over %s\n", Dim("Burn    "), Money(cost.MonthlyBurnRate), Plural(cost.TotalDurationInDays, "day"))
	}

	if len(cost.TeamBreakdown) > 0 {
		b.WriteString("\n")
		rows := make([][]string, 0, len(cost.TeamBreakdown))
		for _, t := range cost.TeamBreakdown {
			rows = append(rows, []string{t.TeamName, Money(t.Cost)})
		}
		b.WriteString(RenderTable([]string{"TEAM", "COST"}, rows, 1))
	}

	if len(cost.Breakdown) > 0 {
		b.WriteString("\n")
		rows := make([][]string, 0, len(cost.Breakdown))
		for _, pc := range cost.Breakdown {
			rows = append(rows, []string{pc.PersonName, pc.RoleName, Money(pc.DailyRate), Money(pc.Cost)})
		}
		b.WriteString(RenderTable([]string{"PERSON", "ROLE", "DAY RATE", "COST"}, rows, 2, 3))
	}

	if len(years) > 0 {
		b.WriteString("\n")
		rows := make([][]string, 0, len(years))
		for _, fy := range years {
			rows = append(rows, []string{
				fy.FinancialYearID,
				Money(fy.Cost),
				OptionalMoney(fy.Budget),
				SignedMoney(fy.Variance),
				BudgetIndicator(fy.Status),
			})
		}
		b.WriteString(RenderTable([]string{"FINANCIAL YEAR", "COST", "BUDGET", "VARIANCE", "STATUS"}, rows, 1, 2, 3))
	}
	return b.String()
}

// FormatRecommendations renders ranked teams with their skill coverage.
func FormatRecommendations(projectName string, recs []skills.TeamRecommendation) string {
	var b strings.Builder
	b.WriteString(Header("Teams for " + projectName))
	b.WriteString("\n\n")

	if len(recs) == 0 {
		b.WriteString(Dim("  No eligible teams.") + "\n")
		return b.String()
	}

	rows := make([][]string, 0, len(recs))
	for _, r := range recs {
		missing := Dim("—")
		if len(r.MissingSkills) > 0 {
			missing = StyleYellow.Render(strings.Join(r.MissingSkills, ", "))
		}
		rows = append(rows, []string{
			fmt.Sprintf("#%d", r.Rank),
			Bold(r.TeamName),
			Percent(r.CompatibilityScore * 100),
			fmt.Sprintf("%d/%d", r.SkillsMatched, r.TotalRequiredSkills),
			missing,
		})
	}
	b.WriteString(RenderTable([]string{"RANK", "TEAM", "MATCH", "SKILLS", "MISSING"}, rows, 2, 3))
	return b.String()
}

// FormatRequiredSkills renders the deduplicated skills a project needs and
// where each requirement came from.
func FormatRequiredSkills(required []skills.RequiredSkill) string {
	if len(required) == 0 {
		return Dim("No skills required.") + "\n"
	}
	rows := make([][]string, 0, len(required))
	for _, s := range required {
		source := Dim("direct")
		if s.SolutionID != "" {
			source = StylePurple.Render(s.SolutionID)
		}
		rows = append(rows, []string{Bold(s.Name), s.Category, source})
	}
	return RenderTable([]string{"SKILL", "CATEGORY", "SOURCE"}, rows)
}
