package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/capplan/internal/cli/formatter"
	"github.com/alexanderramin/capplan/internal/importer"
)

func importKindNames() string {
	kinds := importer.Kinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}

func newImportCmd(app *App) *cobra.Command {
	var partial, validateOnly bool

	cmd := &cobra.Command{
		Use:   "import KIND FILE",
		Short: "Import a CSV file into the working set",
		Long: "Import a CSV file into the working set.\n\n" +
			"KIND is one of: " + importKindNames() + ".\n" +
			"Rows are validated first; by default the first invalid row aborts the\n" +
			"whole import. With --partial invalid rows are skipped and reported.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			kind, err := importer.ParseKind(args[0])
			if err != nil {
				return err
			}
			path := args[1]
			opts := importer.Options{AllowPartialImports: partial}

			if validateOnly {
				res, err := app.Import.ValidateFile(ctx, kind, path, opts)
				if err != nil {
					return err
				}
				fmt.Fprint(out, formatter.FormatImportResult(res, true))
				return nil
			}

			var res *importer.Result
			run := func(ctx context.Context, progress importer.ProgressFunc) error {
				opts.OnProgress = progress
				var err error
				res, err = app.Import.ImportFile(ctx, kind, path, opts)
				return err
			}
			if app.interactive() {
				err = runWithProgress(ctx, cmd.ErrOrStderr(), "Importing "+path, run)
			} else {
				err = run(ctx, nil)
			}
			if err != nil {
				return err
			}

			fmt.Fprint(out, formatter.FormatImportResult(res, false))
			return nil
		},
	}

	cmd.Flags().BoolVar(&partial, "partial", false, "Skip invalid rows instead of aborting")
	cmd.Flags().BoolVar(&validateOnly, "validate-only", false, "Report problems without writing anything")

	return cmd
}
