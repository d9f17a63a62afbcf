package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/alexanderramin/capplan/internal/cli/formatter"
	"github.com/alexanderramin/capplan/internal/service"
)

// TerminalNotifier prints service notifications as single styled lines.
type TerminalNotifier struct {
	w io.Writer
}

func NewTerminalNotifier(w io.Writer) *TerminalNotifier {
	return &TerminalNotifier{w: w}
}

func (n *TerminalNotifier) Notify(_ context.Context, note service.Notification) {
	var icon string
	switch note.Level {
	case service.NotifySuccess:
		icon = formatter.StyleGreen.Render("✔")
	case service.NotifyWarning:
		icon = formatter.StyleYellow.Render("▲")
	case service.NotifyError:
		icon = formatter.StyleRed.Render("✖")
	default:
		icon = formatter.StyleBlue.Render("●")
	}

	line := fmt.Sprintf("%s %s", icon, formatter.Bold(note.Title))
	if note.Message != "" {
		line += "  " + formatter.Dim(note.Message)
	}
	fmt.Fprintln(n.w, line)
}
