package cli

import (
	"github.com/spf13/cobra"

	"github.com/alexanderramin/capplan/internal/service"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Scenarios service.ScenarioService
	Planning  service.PlanningService
	Import    service.ImportService

	// IsInteractive reports whether a person is at the terminal. Nil is
	// treated as non-interactive.
	IsInteractive func() bool
	// Confirm asks a yes/no question. Nil falls back to a huh form.
	Confirm func(question string) (bool, error)
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// NewRootCmd creates the top-level "capplan" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:          "capplan",
		Short:        "Capacity, cost and scenario planning for delivery teams",
		SilenceUsage: true,
	}

	root.AddCommand(
		newTeamCmd(app),
		newProjectCmd(app),
		newImportCmd(app),
		newScenarioCmd(app),
		newValidateCmd(app),
	)

	return root
}
