package app

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/cmd/sheetsync/cmd/mappings"
	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/cmd/sheetsync/cmd/pull"
	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/cmd/sheetsync/cmd/push"
	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/cmd/sheetsync/cmd/refresh"
	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/cmd/sheetsync/cmd/resources"
	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/internal/cmd/completion"
)

// CreatePushCommand creates the push command with app dependencies.
func (a *App) CreatePushCommand() *cobra.Command {
	return push.NewCommand(a)
}

// CreatePullCommand creates the pull command with app dependencies.
func (a *App) CreatePullCommand() *cobra.Command {
	return pull.NewCommand(a)
}

// CreateRefreshCommand creates the refresh command with app dependencies.
func (a *App) CreateRefreshCommand() *cobra.Command {
	return refresh.NewCommand(a)
}

// CreateMappingsCommand creates the mappings command with app dependencies.
func (a *App) CreateMappingsCommand() *cobra.Command {
	return mappings.NewCommand(a)
}

// CreateResourcesCommand creates the resources command.
func (a *App) CreateResourcesCommand() *cobra.Command {
	return resources.NewCommand(a)
}

// CreateVersionCommand creates the version command.
func (a *App) CreateVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("sheetsync %s\n", a.version)
			if a.config.Verbose {
				cmd.Printf("  commit:   %s\n", a.commit)
				cmd.Printf("  built:    %s\n", a.date)
				cmd.Printf("  built by: %s\n", a.builtBy)
				cmd.Printf("  go:       %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
			}
		},
	}
}

// CreateCompletionCommand creates the completion command.
func (a *App) CreateCompletionCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "completion <shell>",
		Short:     "Generate a shell completion script",
		Example:   "  sheetsync completion zsh > \"${fpath[1]}/_sheetsync\"",
		Args:      cobra.ExactArgs(1),
		ValidArgs: completion.Shells,
		RunE: func(cmd *cobra.Command, args []string) error {
			return completion.Generate(cmd.Root(), args[0], cmd.OutOrStdout())
		},
	}
}
