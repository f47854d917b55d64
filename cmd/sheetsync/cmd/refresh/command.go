// Package refresh implements the refresh command.
package refresh

import (
	"github.com/spf13/cobra"

	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/internal/appcontext"
	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/internal/cmd/cmdutil"
	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/internal/cmd/output"
)

// NewCommand creates the refresh command with app dependencies.
func NewCommand(app appcontext.Interface) *cobra.Command {
	return &cobra.Command{
		Use:     "refresh [resource...]",
		GroupID: "core",
		Short:   "Re-derive column mappings from a live sample",
		Long: `Refresh fetches a sample of each resource, merges its field paths into the
mapping table and rewrites the header row. Data rows are not touched.`,
		Example: `  sheetsync refresh
  sheetsync refresh dividends`,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := app.Service(cmd.Context())
			if err != nil {
				return err
			}

			result, runErr := svc.Refresh(cmd.Context(), cmdutil.ResourceIDs(args)...)
			if result != nil {
				if err := cmdutil.Render(cmd, app, result, output.Result(result)); err != nil {
					return err
				}
			}
			return runErr
		},
	}
}
