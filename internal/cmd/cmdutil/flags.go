// Package cmdutil provides shared flags and helpers for sheetsync commands.
package cmdutil

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/internal/appcontext"
	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/internal/cmd/output"
)

// SyncFlags holds flags shared by commands that write to the workbook.
type SyncFlags struct {
	DryRun bool
}

// AddSyncFlags adds the write-related flags to a command.
func AddSyncFlags(cmd *cobra.Command) *SyncFlags {
	flags := &SyncFlags{}

	cmd.Flags().BoolVarP(&flags.DryRun, "dry-run", "n", false,
		"Fetch and encode without writing rows to the workbook")

	return flags
}

// ResourceIDs normalizes resource arguments to the upper-case IDs the
// entity registry uses. Blank arguments are dropped.
func ResourceIDs(args []string) []string {
	ids := make([]string, 0, len(args))
	for _, a := range args {
		if id := strings.ToUpper(strings.TrimSpace(a)); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// Render writes value to the command's output in the app's format. Tables
// show view instead of value.
func Render(cmd *cobra.Command, app appcontext.Interface, value any, view output.Data) error {
	format := output.DetectFormat(app.OutputFormat())
	return output.Write(cmd.OutOrStdout(), format, value, view)
}
