package cli

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/capplan/internal/cli/formatter"
)

func capplanHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

func confirmForm(question string, result *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(question).
				Affirmative("Yes").
				Negative("No").
				Value(result),
		),
	).WithTheme(capplanHuhTheme()).WithShowHelp(false)
}

func huhConfirm(question string) (bool, error) {
	var ok bool
	if err := confirmForm(question, &ok).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, err
	}
	return ok, nil
}

// confirmOrForce gates a destructive step. --force always proceeds. An
// interactive session is asked; anything else gets refusal back.
func confirmOrForce(app *App, force bool, question string, refusal error) error {
	if force {
		return nil
	}
	if !app.interactive() {
		return refusal
	}
	confirm := app.Confirm
	if confirm == nil {
		confirm = huhConfirm
	}
	ok, err := confirm(question)
	if err != nil {
		return fmt.Errorf("confirmation prompt: %w", err)
	}
	if !ok {
		return errCancelled
	}
	return nil
}

var errCancelled = errors.New("cancelled")
