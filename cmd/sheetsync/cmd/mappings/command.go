// Package mappings implements the mappings command and its subcommands.
package mappings

import (
	"github.com/spf13/cobra"

	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/internal/appcontext"
	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/internal/cmd/cmdutil"
	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/internal/cmd/output"
)

// NewCommand creates the mappings command with app dependencies.
func NewCommand(app appcontext.Interface) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "mappings",
		GroupID: "management",
		Short:   "Inspect and edit the field mapping table",
		Long: `Mappings works on the persisted table that maps API field paths to
workbook column headers.

Available subcommands:
  list     - stored mappings of a resource in column order
  diff     - field paths a live sample would add or remove
  rename   - set the user-defined header of one field`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(NewListCommand(app))
	cmd.AddCommand(NewDiffCommand(app))
	cmd.AddCommand(NewRenameCommand(app))

	return cmd
}

// NewListCommand creates the mappings list subcommand.
func NewListCommand(app appcontext.Interface) *cobra.Command {
	return &cobra.Command{
		Use:     "list <resource>",
		Aliases: []string{"ls"},
		Short:   "Show the stored mappings of a resource",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := cmdutil.ResourceIDs(args)
			if len(id) == 0 {
				return cmd.Help()
			}
			svc, err := app.Service(cmd.Context())
			if err != nil {
				return err
			}
			if _, err := svc.Kind(id[0]); err != nil {
				return err
			}
			ms := svc.Store().GetAll(cmd.Context(), id[0])
			return cmdutil.Render(cmd, app, ms, output.Mappings(ms))
		},
	}
}

// NewDiffCommand creates the mappings diff subcommand.
func NewDiffCommand(app appcontext.Interface) *cobra.Command {
	return &cobra.Command{
		Use:   "diff <resource>",
		Short: "Compare stored field paths with a live sample",
		Long: `Diff fetches a sample of the resource and reports the field paths a refresh
would add or remove. Nothing is written.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := cmdutil.ResourceIDs(args)
			if len(id) == 0 {
				return cmd.Help()
			}
			svc, err := app.Service(cmd.Context())
			if err != nil {
				return err
			}
			changes, err := svc.Diff(cmd.Context(), id[0])
			if err != nil {
				return err
			}
			return cmdutil.Render(cmd, app, changes, output.Changes(changes))
		},
	}
}

// NewRenameCommand creates the mappings rename subcommand.
func NewRenameCommand(app appcontext.Interface) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <resource> <field-path> <header>",
		Short: "Set the user-defined header of a field",
		Long: `Rename stores a user-defined header for one field path. The header survives
later refreshes and replaces the generated one in the sheet. An empty header
restores the generated name.`,
		Example: `  sheetsync mappings rename orders filledQuantity "Filled"
  sheetsync mappings rename orders filledQuantity ""`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := cmdutil.ResourceIDs(args[:1])
			if len(id) == 0 {
				return cmd.Help()
			}
			svc, err := app.Service(cmd.Context())
			if err != nil {
				return err
			}
			ms, err := svc.Rename(cmd.Context(), id[0], args[1], args[2])
			if err != nil {
				return err
			}
			return cmdutil.Render(cmd, app, ms, output.Mappings(ms))
		},
	}
}
