package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/capplan/internal/cli/formatter"
)

func newValidateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the working set for dangling references",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			problems, err := app.Planning.Validate(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(problems) == 0 {
				fmt.Fprintln(out, formatter.StyleGreen.Render("✔ No problems found"))
				return nil
			}
			for _, p := range problems {
				fmt.Fprintf(out, "%s %s\n", formatter.StyleRed.Render("✖"), p)
			}
			return fmt.Errorf("%s found", formatter.Plural(len(problems), "problem"))
		},
	}
}
