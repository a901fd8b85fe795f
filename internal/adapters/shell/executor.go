// Package shell provides the subprocess executor adapter.
package shell

import (
	"context"
	"errors"
	"os/exec"
	"strings"

	"go.trai.ch/mason/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Executor = (*Executor)(nil)

// Executor implements ports.Executor using os/exec. Commands are launched
// without blocking so a target can fan out all of its compiles and await
// them as a batch.
type Executor struct {
	logger ports.Logger
}

// NewExecutor creates a new Executor.
func NewExecutor(logger ports.Logger) *Executor {
	return &Executor{logger: logger}
}

// Start launches the command and returns a handle immediately. The command
// string is split on whitespace; compiler invocations built by this tool
// never contain quoted arguments.
func (e *Executor) Start(ctx context.Context, command string) (ports.Process, error) {
	argv := strings.Fields(command)
	if len(argv) == 0 {
		return nil, zerr.New("empty command")
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...) //nolint:gosec // engine-built command
	cmd.Stdout = &logWriter{logger: e.logger, level: "info"}
	cmd.Stderr = &logWriter{logger: e.logger, level: "error"}

	if err := cmd.Start(); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to start command"), "command", command)
	}

	return &process{cmd: cmd, command: command}, nil
}

// WaitAll waits for every process in the batch, regardless of individual
// failures, and returns the joined errors.
func (e *Executor) WaitAll(procs []ports.Process) error {
	var errs error
	for _, p := range procs {
		errs = errors.Join(errs, p.Wait())
	}
	return errs
}

type process struct {
	cmd     *exec.Cmd
	command string
}

// Wait blocks until the process exits.
func (p *process) Wait() error {
	if err := p.cmd.Wait(); err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		wrapped := zerr.With(zerr.Wrap(err, "command failed"), "exit_code", exitCode)
		return zerr.With(wrapped, "command", p.command)
	}
	return nil
}

// logWriter forwards subprocess output to the logger line by line.
type logWriter struct {
	logger ports.Logger
	level  string
}

func (w *logWriter) Write(p []byte) (n int, err error) {
	msg := strings.TrimSuffix(string(p), "\n")
	if msg == "" {
		return len(p), nil
	}
	for _, line := range strings.Split(msg, "\n") {
		if w.level == "info" {
			w.logger.Info(line)
		} else {
			w.logger.Error(zerr.New(line))
		}
	}
	return len(p), nil
}
