package formatter

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/alexanderramin/capplan/internal/domain"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2)

	if title != "" {
		return boxStyle.Render(StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// Money renders whole currency units with thousands separators, e.g. "$12,500".
func Money(v float64) string {
	s := "$" + humanize.Comma(int64(math.Round(math.Abs(v))))
	if v < 0 {
		return "-" + s
	}
	return s
}

// OptionalMoney renders nil as a dash.
func OptionalMoney(v *float64) string {
	if v == nil {
		return "—"
	}
	return Money(*v)
}

// SignedMoney prefixes positive amounts with "+" and colors the result:
// green when money is left over, red when it is overspent.
func SignedMoney(v *float64) string {
	if v == nil {
		return Dim("—")
	}
	switch {
	case *v > 0:
		return StyleGreen.Render("+" + Money(*v))
	case *v < 0:
		return StyleRed.Render(Money(*v))
	default:
		return Money(0)
	}
}

// Percent renders a percentage with at most one decimal, e.g. "62.5%".
func Percent(v float64) string {
	return humanize.FtoaWithDigits(v, 1) + "%"
}

// Hours renders an hour count such as "72h" or "7.5h".
func Hours(v float64) string {
	return humanize.FtoaWithDigits(v, 1) + "h"
}

// Date renders a calendar date, or a dash for the zero time.
func Date(t time.Time) string {
	if t.IsZero() {
		return "—"
	}
	return t.Format("2006-01-02")
}

// OptionalDate renders nil as a dash.
func OptionalDate(t *time.Time) string {
	if t == nil {
		return "—"
	}
	return Date(*t)
}

// RelativeDate returns a human-friendly relative date string.
func RelativeDate(t time.Time) string {
	return RelativeDateFrom(t, time.Now())
}

// RelativeDateFrom is RelativeDate measured from a reference time.
func RelativeDateFrom(t, now time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

// StatusPill returns a colored status indicator for project status.
func StatusPill(status domain.ProjectStatus) string {
	switch status {
	case domain.ProjectActive:
		return StyleGreen.Render("● Active")
	case domain.ProjectPlanning:
		return StyleBlue.Render("◌ Planning")
	case domain.ProjectCompleted:
		return StyleDim.Render("✔ Completed")
	case domain.ProjectCancelled:
		return StyleDim.Render("✖ Cancelled")
	default:
		return StyleDim.Render(string(status))
	}
}

// TeamStatusPill returns a colored status indicator for team status.
func TeamStatusPill(status domain.TeamStatus) string {
	switch status {
	case domain.TeamActive:
		return StyleGreen.Render("● Active")
	case domain.TeamForming:
		return StyleYellow.Render("◌ Forming")
	case domain.TeamInactive:
		return StyleDim.Render("○ Inactive")
	default:
		return StyleDim.Render(string(status))
	}
}

// TruncID shortens a generated ID to its first eight characters.
func TruncID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// Plural returns "1 team" or "3 teams".
func Plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
