// Package ports defines the core interfaces for the application.
package ports

import "context"

// Process is an opaque handle to a launched subprocess.
type Process interface {
	// Wait blocks until the process exits and returns an error for any
	// non-success exit.
	Wait() error
}

// Executor launches external commands without blocking, so a batch of
// independent compiles can fan out and then be awaited together.
//
//go:generate go run go.uber.org/mock/mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Start launches the command and returns immediately with a handle.
	Start(ctx context.Context, command string) (Process, error)

	// WaitAll waits for every handle in the batch and returns the joined
	// failures; nil means the whole batch succeeded.
	WaitAll(procs []Process) error
}
