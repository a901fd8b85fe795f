package commands_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/mason/cmd/mason/commands"
	"go.trai.ch/mason/internal/adapters/compilelog"
	"go.trai.ch/mason/internal/adapters/config"
	"go.trai.ch/mason/internal/app"
	"go.trai.ch/mason/internal/core/domain"
)

type noopLogger struct{}

func (noopLogger) Info(string) {}
func (noopLogger) Warn(string) {}
func (noopLogger) Error(error) {}

// stubRunner records the scheduling request made by the app.
type stubRunner struct {
	targets []domain.Target
	serial  bool
	calls   int
}

func (r *stubRunner) Run(_ context.Context, _ *domain.BuildContext, targets []domain.Target, _ int, serial bool) error {
	r.calls++
	r.targets = targets
	r.serial = serial
	return nil
}

func setupCLI(t *testing.T) (*commands.CLI, *stubRunner, string) {
	t.Helper()

	root := t.TempDir()
	content := "root: " + root + "\n" +
		"targets:\n" +
		"  core:\n" +
		"    root: core\n" +
		"    sources: [\"*.c\"]\n"
	path := filepath.Join(root, config.DefaultFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	runner := &stubRunner{}
	a := app.New(config.NewLoader(noopLogger{}), compilelog.NewStore(), runner, noopLogger{}, config.DefaultFileName)
	return commands.New(a), runner, path
}

func TestBuild_Success(t *testing.T) {
	cli, runner, path := setupCLI(t)

	cli.SetArgs([]string{"build", "clang", "debug", "--config", path})
	require.NoError(t, cli.Execute(context.Background()))

	assert.Equal(t, 1, runner.calls)
	require.Len(t, runner.targets, 1)
	assert.Equal(t, "core", runner.targets[0].Name)
	assert.False(t, runner.serial)
}

func TestBuild_SerialFlag(t *testing.T) {
	cli, runner, path := setupCLI(t)

	cli.SetArgs([]string{"build", "clang", "debug", "--serial", "--config", path})
	require.NoError(t, cli.Execute(context.Background()))
	assert.True(t, runner.serial)
}

func TestBuild_WrongArgCount(t *testing.T) {
	cli, runner, _ := setupCLI(t)

	cli.SetArgs([]string{"build", "clang"})
	require.Error(t, cli.Execute(context.Background()))
	assert.Zero(t, runner.calls)

	cli.SetArgs([]string{"build", "clang", "debug", "extra"})
	require.Error(t, cli.Execute(context.Background()))
	assert.Zero(t, runner.calls)
}

func TestBuild_UnknownToolchain(t *testing.T) {
	cli, runner, path := setupCLI(t)

	cli.SetArgs([]string{"build", "tcc", "debug", "--config", path})
	err := cli.Execute(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnknownToolchain)
	assert.Zero(t, runner.calls)
}

func TestVersion(t *testing.T) {
	cli, _, _ := setupCLI(t)

	cli.SetArgs([]string{"version"})
	require.NoError(t, cli.Execute(context.Background()))
}

func TestRoot_Help(t *testing.T) {
	cli, _, _ := setupCLI(t)

	cli.SetArgs([]string{"--help"})
	require.NoError(t, cli.Execute(context.Background()))
}
