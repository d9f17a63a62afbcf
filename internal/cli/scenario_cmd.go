package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/capplan/internal/cli/formatter"
	"github.com/alexanderramin/capplan/internal/scenario"
	"github.com/alexanderramin/capplan/internal/service"
)

// resolveScenarioID accepts a full ID, a unique ID prefix or a scenario name.
func resolveScenarioID(ctx context.Context, app *App, input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("scenario ID is required")
	}

	scenarios, err := app.Scenarios.List(ctx)
	if err != nil {
		return "", err
	}

	for _, s := range scenarios {
		if s.ID == input {
			return s.ID, nil
		}
	}

	var matches []string
	for _, s := range scenarios {
		if strings.HasPrefix(s.ID, input) || strings.EqualFold(s.Name, input) {
			matches = append(matches, s.ID)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: %q", scenario.ErrScenarioNotFound, input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("scenario %q is ambiguous (%d matches)", input, len(matches))
	}
}

func parseParams(raw []string) (scenario.Params, error) {
	params := scenario.Params{}
	for _, kv := range raw {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, fmt.Errorf("invalid --param %q, expected name=value", kv)
		}
		params[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return params, nil
}

// ensureNoUnsavedChanges asks before an action that would drop the active
// scenario's unsaved edits.
func ensureNoUnsavedChanges(ctx context.Context, app *App, force bool, action string) error {
	status, err := app.Scenarios.Status(ctx)
	if err != nil {
		return err
	}
	if !status.HasUnsavedChanges {
		return nil
	}
	refusal := fmt.Errorf("%w in %q; save, discard, or pass --force", service.ErrUnsavedChanges, status.Active.Name)
	return confirmOrForce(app, force, fmt.Sprintf("%s has unsaved changes. %s anyway?", status.Active.Name, action), refusal)
}

func newScenarioCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "scenario",
		Aliases: []string{"sc"},
		Short:   "Create, switch between and apply what-if scenarios",
	}

	cmd.AddCommand(
		newScenarioStatusCmd(app),
		newScenarioListCmd(app),
		newScenarioCreateCmd(app),
		newScenarioSwitchCmd(app),
		newScenarioSaveCmd(app),
		newScenarioDiscardCmd(app),
		newScenarioLiveCmd(app),
		newScenarioDeleteCmd(app),
		newScenarioDiffCmd(app),
		newScenarioApplyCmd(app),
		newScenarioCleanupCmd(app),
		newScenarioTemplatesCmd(),
	)

	return cmd
}

func newScenarioStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether commands act on live data or a scenario",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := app.Scenarios.Status(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatScenarioStatus(status.State, status.Active, status.HasUnsavedChanges))
			return nil
		},
	}
}

func newScenarioListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored scenarios",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			scenarios, err := app.Scenarios.List(ctx)
			if err != nil {
				return err
			}
			status, err := app.Scenarios.Status(ctx)
			if err != nil {
				return err
			}
			activeID := ""
			if status.Active != nil {
				activeID = status.Active.ID
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatScenarioList(scenarios, activeID, time.Now()))
			return nil
		},
	}
}

func newScenarioCreateCmd(app *App) *cobra.Command {
	var description, template string
	var params []string
	var switchTo bool

	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Snapshot live data into a new scenario",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			name := ""
			if len(args) == 1 {
				name = args[0]
			}

			var created string
			if template != "" {
				parsed, err := parseParams(params)
				if err != nil {
					return err
				}
				sc, err := app.Scenarios.CreateScenarioFromTemplate(ctx, template, name, parsed)
				if err != nil {
					return err
				}
				created = sc.ID
				name = sc.Name
			} else {
				if name == "" {
					return fmt.Errorf("scenario name is required")
				}
				if len(params) > 0 {
					return fmt.Errorf("--param needs --template")
				}
				sc, err := app.Scenarios.CreateScenario(ctx, name, description)
				if err != nil {
					return err
				}
				created = sc.ID
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created scenario %s %s\n", formatter.Bold(name), formatter.Dim("("+created+")"))

			if switchTo {
				if err := ensureNoUnsavedChanges(ctx, app, false, "Switch"); err != nil {
					return err
				}
				if err := app.Scenarios.SwitchToScenario(ctx, created); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Switched to %s\n", formatter.Bold(name))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "Scenario description")
	cmd.Flags().StringVar(&template, "template", "", "Start from a built-in template (see: scenario templates)")
	cmd.Flags().StringArrayVar(&params, "param", nil, "Template parameter name=value, repeatable")
	cmd.Flags().BoolVar(&switchTo, "switch", false, "Switch to the new scenario")

	return cmd
}

func newScenarioSwitchCmd(app *App) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "switch SCENARIO",
		Short: "Make a scenario the working set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveScenarioID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := ensureNoUnsavedChanges(ctx, app, force, "Switch"); err != nil {
				return err
			}
			if err := app.Scenarios.SwitchToScenario(ctx, id); err != nil {
				return err
			}
			sc, err := app.Scenarios.Get(ctx, id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Switched to %s\n", formatter.Bold(sc.Name))
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Drop unsaved changes without asking")

	return cmd
}

func newScenarioSaveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "save",
		Short: "Save the active scenario's working copy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := app.Scenarios.SaveCurrentScenario(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", formatter.Bold(sc.Name))
			return nil
		},
	}
}

func newScenarioDiscardCmd(app *App) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "discard",
		Short: "Throw away unsaved changes in the active scenario",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := ensureNoUnsavedChanges(ctx, app, force, "Discard"); err != nil {
				return err
			}
			if err := app.Scenarios.DiscardChanges(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Discarded unsaved changes")
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Discard without asking")

	return cmd
}

func newScenarioLiveCmd(app *App) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "live",
		Short: "Leave the active scenario and work on live data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := ensureNoUnsavedChanges(ctx, app, force, "Leave"); err != nil {
				return err
			}
			if err := app.Scenarios.SwitchToLive(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Working on live data")
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Drop unsaved changes without asking")

	return cmd
}

func newScenarioDeleteCmd(app *App) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete SCENARIO",
		Short: "Delete a stored scenario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveScenarioID(ctx, app, args[0])
			if err != nil {
				return err
			}
			sc, err := app.Scenarios.Get(ctx, id)
			if err != nil {
				return err
			}
			refusal := fmt.Errorf("deleting %q needs confirmation; pass --force", sc.Name)
			if err := confirmOrForce(app, force, fmt.Sprintf("Delete scenario %s?", sc.Name), refusal); err != nil {
				return err
			}
			if err := app.Scenarios.DeleteScenario(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", formatter.Bold(sc.Name))
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Delete without asking")

	return cmd
}

func newScenarioDiffCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "diff [SCENARIO]",
		Short: "Compare a scenario with live data (default: the active working copy)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, title := "", ""
			if len(args) == 1 {
				var err error
				if id, err = resolveScenarioID(ctx, app, args[0]); err != nil {
					return err
				}
				sc, err := app.Scenarios.Get(ctx, id)
				if err != nil {
					return err
				}
				title = sc.Name
			} else {
				status, err := app.Scenarios.Status(ctx)
				if err != nil {
					return err
				}
				if status.Active == nil {
					return scenario.ErrNoActiveScenario
				}
				title = status.Active.Name
			}

			cmp, err := app.Scenarios.CompareWithLive(ctx, id)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatComparison(title+" vs live", cmp))
			return nil
		},
	}
}

func newScenarioApplyCmd(app *App) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "apply [SCENARIO]",
		Short: "Replace live data with a saved scenario (default: the active one)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id := ""
			if len(args) == 1 {
				var err error
				if id, err = resolveScenarioID(ctx, app, args[0]); err != nil {
					return err
				}
			}

			refusal := errors.New("applying overwrites live data; pass --force")
			if err := confirmOrForce(app, force, "Overwrite live data with this scenario?", refusal); err != nil {
				return err
			}
			if err := app.Scenarios.ApplyScenarioToLive(ctx, id); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Live data replaced")
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Apply without asking")

	return cmd
}

func newScenarioCleanupCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup",
		Short: "Delete scenarios untouched for longer than the configured TTL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			removed, err := app.Scenarios.CleanupExpiredScenarios(cmd.Context())
			if err != nil {
				return err
			}
			if len(removed) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("No expired scenarios"))
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", formatter.Plural(len(removed), "expired scenario"))
			return nil
		},
	}
}

func newScenarioTemplatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List built-in scenario templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTemplates(scenario.Templates()))
			return nil
		},
	}
}
