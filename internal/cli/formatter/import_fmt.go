package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/capplan/internal/importer"
)

// maxIssueRows caps the issue table; the remainder is summarised.
const maxIssueRows = 20

// FormatImportResult summarises an import run. When dryRun is set nothing
// was written and the counts describe what would have happened.
func FormatImportResult(res *importer.Result, dryRun bool) string {
	var b strings.Builder

	verb := "Imported"
	if dryRun {
		verb = "Would import"
	}
	fmt.Fprintf(&b, "%s %s of %s %s",
		verb, Bold(strconv.Itoa(res.Imported)), Plural(res.Rows, "row"), Dim("("+string(res.Kind)+")"))
	if res.Skipped > 0 {
		fmt.Fprintf(&b, ", %s", StyleYellow.Render(fmt.Sprintf("%d skipped", res.Skipped)))
	}
	b.WriteString("\n")

	if len(res.Errors) > 0 {
		b.WriteString("\n" + FormatIssues(res.Errors))
	}
	if len(res.Warnings) > 0 {
		b.WriteString("\n" + FormatIssues(res.Warnings))
	}
	return b.String()
}

// FormatIssues renders row-level problems, errors in red and warnings in yellow.
func FormatIssues(issues []importer.Issue) string {
	shown := issues
	if len(shown) > maxIssueRows {
		shown = shown[:maxIssueRows]
	}

	rows := make([][]string, 0, len(shown))
	for _, is := range shown {
		sev := StyleRed.Render("error")
		if is.Severity == importer.SeverityWarning {
			sev = StyleYellow.Render("warn")
		}
		column := is.Column
		if column == "" {
			column = Dim("—")
		}
		rows = append(rows, []string{strconv.Itoa(is.Row), sev, column, is.Message})
	}

	out := RenderTable([]string{"ROW", "LEVEL", "COLUMN", "PROBLEM"}, rows, 0)
	if extra := len(issues) - len(shown); extra > 0 {
		out += Dim(fmt.Sprintf("… and %d more", extra)) + "\n"
	}
	return out
}
