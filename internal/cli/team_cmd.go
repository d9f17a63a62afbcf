package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/capplan/internal/cli/formatter"
	"github.com/alexanderramin/capplan/internal/domain"
	"github.com/alexanderramin/capplan/internal/service"
)

func newTeamCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "team",
		Short: "Inspect teams and their capacity",
	}

	cmd.AddCommand(
		newTeamListCmd(app),
		newTeamAddCmd(app),
		newTeamCapacityCmd(app),
		newTeamUtilizationCmd(app),
	)

	return cmd
}

func newTeamListCmd(app *App) *cobra.Command {
	var division string
	status := newTeamStatusFlag()

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List teams",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			filter := service.TeamFilter{DivisionID: division, Status: domain.TeamStatus(status.String())}
			teams, err := app.Planning.ListTeams(ctx, filter)
			if err != nil {
				return err
			}
			ds, err := app.Scenarios.WorkingSet(ctx)
			if err != nil {
				return err
			}
			divisions := make(map[string]string, len(ds.Divisions))
			for _, d := range ds.Divisions {
				divisions[d.ID] = d.Name
			}

			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTeamList(teams, divisions))
			return nil
		},
	}

	cmd.Flags().StringVar(&division, "division", "", "Only teams in this division ID")
	cmd.Flags().Var(status, "status", "Only teams with this status (active, forming, inactive)")

	return cmd
}

func newTeamAddCmd(app *App) *cobra.Command {
	var name, division string
	var capacity float64
	var targetSkills []string
	status := newTeamStatusFlag()

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a team to the working set",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			team := &domain.Team{
				Name:         name,
				Capacity:     capacity,
				DivisionID:   division,
				TargetSkills: targetSkills,
				Status:       domain.TeamStatus(status.String()),
			}
			if err := app.Planning.AddTeam(cmd.Context(), team); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Added team %s %s\n",
				formatter.Bold(team.Name), formatter.Dim("("+team.ID+")"))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Team name")
	cmd.Flags().Float64Var(&capacity, "capacity", 0, "Capacity in hours per week")
	cmd.Flags().StringVar(&division, "division", "", "Division ID or name")
	cmd.Flags().Var(status, "status", "Team status: active, forming or inactive (default active)")
	cmd.Flags().StringSliceVar(&targetSkills, "skills", nil, "Target skill IDs, comma separated")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("capacity")

	return cmd
}

func newTeamCapacityCmd(app *App) *cobra.Command {
	var quarter string
	var iteration int
	var actuals bool

	cmd := &cobra.Command{
		Use:   "capacity TEAM",
		Short: "Show a team's allocation for a quarter or one of its iterations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			if iteration == 0 {
				if actuals {
					return fmt.Errorf("--actuals needs --iteration")
				}
				q, err := app.Planning.QuarterCapacity(ctx, args[0], quarter)
				if err != nil {
					return err
				}
				fmt.Fprint(out, formatter.FormatQuarterUtilization(*q))
				return nil
			}

			check, err := app.Planning.IterationCapacity(ctx, args[0], quarter, iteration)
			if err != nil {
				return err
			}
			fmt.Fprint(out, formatter.FormatIterationCapacity(*check))

			if actuals {
				cmp, err := app.Planning.CompareActuals(ctx, args[0], quarter, iteration)
				if err != nil {
					return err
				}
				fmt.Fprintln(out)
				fmt.Fprint(out, formatter.FormatActuals(*cmp))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&quarter, "quarter", "", "Quarter ID or name")
	cmd.Flags().IntVar(&iteration, "iteration", 0, "Iteration number within the quarter, starting at 1")
	cmd.Flags().BoolVar(&actuals, "actuals", false, "Compare planned against actual allocation")
	_ = cmd.MarkFlagRequired("quarter")

	return cmd
}

func newTeamUtilizationCmd(app *App) *cobra.Command {
	var fy string

	cmd := &cobra.Command{
		Use:   "utilization TEAM",
		Short: "Show a team's utilization across a financial year",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			util, err := app.Planning.FinancialYearUtilization(cmd.Context(), args[0], fy)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatFinancialYearUtilization(*util))
			return nil
		},
	}

	cmd.Flags().StringVar(&fy, "fy", "", "Financial year ID or name")
	_ = cmd.MarkFlagRequired("fy")

	return cmd
}
