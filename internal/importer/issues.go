package importer

import (
	"fmt"
	"strings"
)

type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is a problem found in one cell or row.
type Issue struct {
	Row      int
	Column   string
	Rule     string
	Severity Severity
	Message  string
}

func (i Issue) Error() string {
	if i.Column == "" {
		return fmt.Sprintf("row %d: %s", i.Row, i.Message)
	}
	return fmt.Sprintf("row %d, %s: %s", i.Row, i.Column, i.Message)
}

// ValidationResult is the outcome of running the rule table on one row.
type ValidationResult struct {
	IsValid  bool
	Errors   []Issue
	Warnings []Issue
}

// ImportError aborts an import that does not allow partial results. It
// carries the errors of the first failing row.
type ImportError struct {
	Row    int
	Issues []Issue
}

func (e *ImportError) Error() string {
	msgs := make([]string, len(e.Issues))
	for i, is := range e.Issues {
		if is.Column != "" {
			msgs[i] = is.Column + ": " + is.Message
		} else {
			msgs[i] = is.Message
		}
	}
	return fmt.Sprintf("import aborted at row %d: %s", e.Row, strings.Join(msgs, "; "))
}
