// Package pull implements the pull command.
package pull

import (
	"github.com/spf13/cobra"

	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/internal/appcontext"
	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/internal/cmd/cmdutil"
	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/internal/cmd/output"
)

// NewCommand creates the pull command with app dependencies.
func NewCommand(app appcontext.Interface) *cobra.Command {
	return &cobra.Command{
		Use:     "pull <resource>",
		GroupID: "core",
		Short:   "Read a resource sheet back into validated records",
		Long: `Pull reads every data row of the resource's sheet, decodes it through the
column mappings and validates it. The first invalid row aborts the pull.`,
		Example: `  sheetsync pull orders
  sheetsync pull portfolio -o yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := cmdutil.ResourceIDs(args)
			if len(ids) == 0 {
				return cmd.Help()
			}
			id := ids[0]

			svc, err := app.Service(cmd.Context())
			if err != nil {
				return err
			}
			records, err := svc.Pull(cmd.Context(), id)
			if err != nil {
				return err
			}

			kind, err := svc.Kind(id)
			if err != nil {
				return err
			}
			c, err := svc.Coordinator(id)
			if err != nil {
				return err
			}

			nested := make([]map[string]any, len(records))
			for i, r := range records {
				nested[i] = r.Nested()
			}
			return cmdutil.Render(cmd, app, nested, output.Entities(c.Headers(), kind.Schema(), records))
		},
	}
}
