package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/capplan/internal/finance"
	"github.com/alexanderramin/capplan/internal/scenario"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// UtilizationStyle colors an allocated percentage: red above 100, yellow
// when partly allocated, green at exactly full, dim when nothing is booked.
func UtilizationStyle(pct float64) lipgloss.Style {
	switch {
	case pct > 100:
		return StyleRed
	case pct == 100:
		return StyleGreen
	case pct > 0:
		return StyleYellow
	default:
		return StyleDim
	}
}

// BudgetColor returns the style for a budget state.
func BudgetColor(state finance.BudgetState) lipgloss.Style {
	switch state {
	case finance.BudgetOver:
		return StyleRed
	case finance.BudgetAtRisk:
		return StyleYellow
	case finance.BudgetOnTrack:
		return StyleGreen
	default:
		return StyleDim
	}
}

// BudgetIndicator returns a colored budget indicator such as "● AT RISK".
func BudgetIndicator(state finance.BudgetState) string {
	switch state {
	case finance.BudgetOver:
		return StyleRed.Render("● OVER BUDGET")
	case finance.BudgetAtRisk:
		return StyleYellow.Render("● AT RISK")
	case finance.BudgetOnTrack:
		return StyleGreen.Render("● ON TRACK")
	default:
		return StyleDim.Render("○ UNBUDGETED")
	}
}

// ImpactBadge renders a change impact as a short colored tag.
func ImpactBadge(impact scenario.Impact) string {
	switch impact {
	case scenario.ImpactHigh:
		return StyleRed.Render("HIGH")
	case scenario.ImpactMedium:
		return StyleYellow.Render("MED")
	default:
		return StyleDim.Render("LOW")
	}
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
