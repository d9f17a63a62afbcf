package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/capplan/internal/capacity"
)

const barWidth = 20

// FormatIterationCapacity renders one team's load for a single iteration.
func FormatIterationCapacity(c capacity.CapacityCheck) string {
	var b strings.Builder
	b.WriteString(Header(fmt.Sprintf("%s · iteration %d", c.TeamName, c.IterationNumber)))
	b.WriteString("\n\n")
	b.WriteString("  " + RenderUtilization(c.AllocatedPercentage, barWidth) + "\n\n")
	fmt.Fprintf(&b, "  %s %s of %s over %s\n",
		Dim("Allocated"), Bold(Hours(c.AllocatedHours)), Hours(c.CapacityHours), Plural(c.IterationWeeks, "week"))
	fmt.Fprintf(&b, "  %s %s\n", Dim("Available"), Percent(c.AvailablePercentage))
	if flag := allocationFlag(c); flag != "" {
		b.WriteString("\n  " + flag + "\n")
	}
	return b.String()
}

// FormatQuarterUtilization renders a team's iterations across one quarter.
func FormatQuarterUtilization(q capacity.QuarterUtilization) string {
	var b strings.Builder
	title := q.QuarterName
	if len(q.Iterations) > 0 {
		title = q.Iterations[0].TeamName + " · " + q.QuarterName
	}
	b.WriteString(Header(title))
	b.WriteString("\n\n")

	if len(q.Iterations) == 0 {
		b.WriteString(Dim("  No iterations fall inside this quarter.") + "\n")
		return b.String()
	}

	rows := make([][]string, 0, len(q.Iterations))
	for _, c := range q.Iterations {
		rows = append(rows, []string{
			fmt.Sprintf("IT%d", c.IterationNumber),
			RenderCompactBar(c.AllocatedPercentage, 12),
			UtilizationStyle(c.AllocatedPercentage).Render(Percent(c.AllocatedPercentage)),
			Hours(c.AllocatedHours),
			Hours(c.CapacityHours),
			allocationFlag(c),
		})
	}
	b.WriteString(RenderTable([]string{"ITERATION", "LOAD", "ALLOCATED", "HOURS", "CAPACITY", ""}, rows, 2, 3, 4))
	b.WriteString("\n")
	fmt.Fprintf(&b, "  %s %s   %s %s   %s %s / %s\n",
		Dim("Average"), Percent(q.AverageUtilization),
		Dim("Peak"), UtilizationStyle(q.PeakUtilization).Render(Percent(q.PeakUtilization)),
		Dim("Hours"), Hours(q.TotalAllocatedHours), Hours(q.TotalCapacityHours))
	if q.OverAllocatedCount > 0 {
		b.WriteString("  " + StyleRed.Render(Plural(q.OverAllocatedCount, "iteration")+" over-allocated") + "\n")
	}
	return b.String()
}

// FormatFinancialYearUtilization renders one row per quarter of the year.
func FormatFinancialYearUtilization(fy capacity.FinancialYearUtilization) string {
	var b strings.Builder
	b.WriteString(Header(fy.FinancialYearName))
	b.WriteString("\n\n")

	if len(fy.Quarters) == 0 {
		b.WriteString(Dim("  No quarters are linked to this financial year.") + "\n")
		return b.String()
	}

	rows := make([][]string, 0, len(fy.Quarters))
	for _, q := range fy.Quarters {
		over := ""
		if q.OverAllocatedCount > 0 {
			over = StyleRed.Render(fmt.Sprintf("%d over", q.OverAllocatedCount))
		}
		rows = append(rows, []string{
			q.QuarterName,
			RenderCompactBar(q.AverageUtilization, 12),
			Percent(q.AverageUtilization),
			UtilizationStyle(q.PeakUtilization).Render(Percent(q.PeakUtilization)),
			over,
		})
	}
	b.WriteString(RenderTable([]string{"QUARTER", "LOAD", "AVERAGE", "PEAK", ""}, rows, 2, 3))
	b.WriteString("\n")
	fmt.Fprintf(&b, "  %s %s", Dim("Year average"), Percent(fy.AverageUtilization))
	if fy.OverAllocatedCount > 0 {
		fmt.Fprintf(&b, "   %s", StyleRed.Render(Plural(fy.OverAllocatedCount, "over-allocated iteration")))
	}
	b.WriteString("\n")
	return b.String()
}

// FormatActuals renders planned against actual allocation for one iteration.
func FormatActuals(c capacity.ActualsComparison) string {
	var b strings.Builder
	fmt.Fprintf(&b, "  %s %s\n", Dim("Planned"), Percent(c.PlannedPercentage))
	if !c.HasActuals {
		fmt.Fprintf(&b, "  %s %s\n", Dim("Actual "), Dim("not recorded"))
		return b.String()
	}
	fmt.Fprintf(&b, "  %s %s\n", Dim("Actual "), Percent(c.ActualPercentage))

	variance := Percent(c.Variance)
	switch {
	case c.Variance > 0:
		variance = StyleYellow.Render("+" + variance)
	case c.Variance < 0:
		variance = StyleBlue.Render(variance)
	}
	fmt.Fprintf(&b, "  %s %s\n", Dim("Delta  "), variance)
	return b.String()
}

func allocationFlag(c capacity.CapacityCheck) string {
	switch {
	case c.IsOverAllocated:
		return StyleRed.Render("▲ over-allocated")
	case c.IsUnderAllocated:
		return StyleYellow.Render("▽ spare capacity")
	case c.AllocatedPercentage == 0:
		return Dim("unallocated")
	default:
		return ""
	}
}
