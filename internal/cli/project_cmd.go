package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/capplan/internal/cli/formatter"
	"github.com/alexanderramin/capplan/internal/domain"
	"github.com/alexanderramin/capplan/internal/service"
)

func newProjectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Inspect projects, their cost and staffing",
	}

	cmd.AddCommand(
		newProjectListCmd(app),
		newProjectCostCmd(app),
		newProjectRecommendCmd(app),
		newProjectSkillsCmd(app),
	)

	return cmd
}

func parseProjectStatuses(raw []string) ([]domain.ProjectStatus, error) {
	out := make([]domain.ProjectStatus, 0, len(raw))
	for _, s := range raw {
		s = strings.ToLower(strings.TrimSpace(s))
		if !domain.ValidProjectStatuses[s] {
			return nil, fmt.Errorf("invalid status %q (use planning, active, completed or cancelled)", s)
		}
		out = append(out, domain.ProjectStatus(s))
	}
	return out, nil
}

func newProjectListCmd(app *App) *cobra.Command {
	var statuses []string
	var search string
	var maxPriority int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects by priority",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := parseProjectStatuses(statuses)
			if err != nil {
				return err
			}
			projects, err := app.Planning.ListProjects(cmd.Context(), service.ProjectFilter{
				Statuses:    parsed,
				Search:      search,
				MaxPriority: maxPriority,
			})
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatProjectList(projects))
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&statuses, "status", nil, "Only these statuses, comma separated")
	cmd.Flags().StringVar(&search, "search", "", "Match name or description")
	cmd.Flags().IntVar(&maxPriority, "max-priority", 0, "Only projects at or above this priority (1 is highest)")

	return cmd
}

func newProjectCostCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "cost PROJECT",
		Short: "Show a project's cost against its budget",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := app.Planning.ProjectCost(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatProjectCost(
				report.Project, report.Cost, report.Variance, report.Status, report.FinancialYears))
			return nil
		},
	}
}

func newProjectRecommendCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "recommend PROJECT",
		Short: "Rank teams by how well their skills fit a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			recs, err := app.Planning.RecommendTeams(ctx, args[0], limit)
			if err != nil {
				return err
			}
			projects, err := app.Planning.ListProjects(ctx, service.ProjectFilter{})
			if err != nil {
				return err
			}
			name := args[0]
			for _, p := range projects {
				if p.ID == args[0] || strings.EqualFold(p.Name, strings.TrimSpace(args[0])) {
					name = p.Name
					break
				}
			}

			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatRecommendations(name, recs))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Number of teams to show (default from config)")

	return cmd
}

func newProjectSkillsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "skills PROJECT",
		Short: "List the skills a project requires",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			required, err := app.Planning.ProjectSkills(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatRequiredSkills(required))
			return nil
		},
	}
}
