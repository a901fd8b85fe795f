// Package main is the entry point for the mason build tool.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/grindlemire/graft"
	"go.trai.ch/mason/cmd/mason/commands"
	"go.trai.ch/mason/internal/app"
	"go.trai.ch/mason/internal/core/domain"
	_ "go.trai.ch/mason/internal/wiring"
)

func main() {
	os.Exit(run())
}

func run(opts ...func(*app.App)) int {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	components, _, err := graft.ExecuteFor[*app.Components](ctx)
	if err != nil {
		// Logger is not available if initialization failed, write
		// directly to stderr.
		_, _ = os.Stderr.WriteString("Error: " + err.Error() + "\n")
		return 1
	}

	for _, opt := range opts {
		opt(components.App)
	}

	cli := commands.New(components.App)

	err = cli.Execute(ctx)

	// Flush the progress session before deciding the exit code so the
	// final per-target verdicts reach the terminal.
	if cerr := components.Telemetry.Close(); cerr != nil {
		components.Logger.Error(cerr)
	}

	if err != nil {
		if errors.Is(err, domain.ErrBuildFailed) {
			// Per-step diagnostics were already streamed, no need to
			// repeat them.
			return 1
		}
		components.Logger.Error(err)
		return 1
	}
	return 0
}
