package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock   = "█"
	overflowBlock = "▓"
	emptyBlock    = "░"
)

// RenderUtilization renders an allocation bar like [████░░░░]  45%.
//
// The bar covers 0..100%. Anything above 100 replaces the tail of the bar
// with overflow blocks so over-allocation stays visible at a glance. The
// label always shows the real percentage.
func RenderUtilization(pct float64, width int) string {
	if width < 2 {
		width = 2
	}
	shown := min(max(pct, 0), 100)

	filled := int(shown / 100 * float64(width))
	over := 0
	if pct > 100 {
		over = min(int((pct-100)/100*float64(width))+1, width)
		filled = width - over
	}
	empty := width - filled - over

	bar := strings.Repeat(filledBlock, filled) +
		strings.Repeat(overflowBlock, over) +
		strings.Repeat(emptyBlock, empty)

	label := fmt.Sprintf("%4.0f%%", pct)
	return fmt.Sprintf("[%s] %s", UtilizationStyle(pct).Render(bar), label)
}

// RenderCompactBar renders a bracketless bar for table cells.
func RenderCompactBar(pct float64, width int) string {
	if width < 2 {
		width = 2
	}
	shown := min(max(pct, 0), 100)
	filled := int(shown / 100 * float64(width))
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)
	return UtilizationStyle(pct).Render(bar)
}
