// Package resources implements the resources command.
package resources

import (
	"github.com/spf13/cobra"

	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/internal/appcontext"
	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/internal/cmd/cmdutil"
	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/internal/cmd/output"
	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/pkg/entities"
)

// resource is the structured view of a registered kind.
type resource struct {
	ID                string   `json:"id" yaml:"id"`
	DefaultFieldPaths []string `json:"defaultFieldPaths" yaml:"defaultFieldPaths"`
}

// NewCommand creates the resources command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	return &cobra.Command{
		Use:     "resources",
		GroupID: "management",
		Short:   "List the resources sheetsync knows about",
		Long: `Resources lists every registered resource with the field paths its columns
fall back to when neither the API nor the mapping table provides any.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			kinds := entities.All()
			list := make([]resource, len(kinds))
			for i, k := range kinds {
				list[i] = resource{ID: k.ResourceID(), DefaultFieldPaths: k.DefaultFieldPaths()}
			}
			return cmdutil.Render(cmd, app, list, output.Kinds(kinds))
		},
	}
}
