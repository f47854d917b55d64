// Package push implements the push command.
package push

import (
	"github.com/spf13/cobra"

	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/internal/appcontext"
	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/internal/cmd/cmdutil"
	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/internal/cmd/output"
	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/pkg/sync"
)

// NewCommand creates the push command with app dependencies.
func NewCommand(app appcontext.Interface) *cobra.Command {
	var flags *cmdutil.SyncFlags

	cmd := &cobra.Command{
		Use:     "push [resource...]",
		GroupID: "core",
		Short:   "Fetch resources from the API and write them to the workbook",
		Long: `Push fetches every named resource from the data source, refreshes its
column mappings from the sample, and rewrites the resource's sheet.

Without arguments every registered resource is pushed. A failing resource
does not stop the others; the command exits non-zero when any failed.`,
		Example: `  sheetsync push                  # push every resource
  sheetsync push orders pies      # push two resources
  sheetsync push portfolio -n     # encode without writing rows`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts []sync.Option
			if flags.DryRun {
				opts = append(opts, sync.WithDryRun(true))
			}
			svc, err := app.Service(cmd.Context(), opts...)
			if err != nil {
				return err
			}

			result, runErr := svc.Push(cmd.Context(), cmdutil.ResourceIDs(args)...)
			if result != nil {
				if err := cmdutil.Render(cmd, app, result, output.Result(result)); err != nil {
					return err
				}
				app.Logger().Info().Msg(result.Summary())
			}
			return runErr
		},
	}

	flags = cmdutil.AddSyncFlags(cmd)
	return cmd
}
