// Package main provides the entry point for the sheetsync CLI tool.
package main

import (
	"context"
	"os"
	"time"

	"github.com/niklas-joh/portfolio-tracker-google-sheets-sub000/cmd/sheetsync/app"
)

// Version information populated by goreleaser.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
	builtBy = "unknown"
)

func main() {
	application, err := app.New(version, commit, date, builtBy)
	if err != nil {
		app.ExitOnError(err)
	}

	// Create context with signal handling so a running push can be interrupted
	ctx, cancel := app.ContextWithSignals(context.Background())
	defer cancel()

	err = application.Execute(ctx, os.Args[1:])

	// Shutdown gets a fresh context, the signal context may be cancelled already
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if shutdownErr := application.Shutdown(shutdownCtx); shutdownErr != nil {
		// Don't let it mask the original error
		application.Logger().Error().Err(shutdownErr).Msg("Shutdown error")
		if err == nil {
			err = shutdownErr
		}
	}
	app.ExitOnError(err)
}
