// Package app hosts the application service that fronts the engine for the
// command layer.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"go.trai.ch/mason/internal/core/domain"
	"go.trai.ch/mason/internal/core/ports"
	"go.trai.ch/zerr"
)

// Runner schedules target pipelines. Implemented by the engine scheduler.
type Runner interface {
	Run(ctx context.Context, bctx *domain.BuildContext, targets []domain.Target, parallelism int, serial bool) error
}

// App exposes the use cases of the build tool.
type App struct {
	loader     ports.TargetLoader
	compileLog ports.CompileLog
	sched      Runner
	logger     ports.Logger

	configPath string
}

// New creates a new App reading its manifest from configPath.
func New(loader ports.TargetLoader, compileLog ports.CompileLog, sched Runner, logger ports.Logger, configPath string) *App {
	return &App{
		loader:     loader,
		compileLog: compileLog,
		sched:      sched,
		logger:     logger,
		configPath: configPath,
	}
}

// SetConfigPath overrides the manifest path. Must be called before Build.
func (a *App) SetConfigPath(path string) {
	a.configPath = path
}

// Build runs an incremental build of every manifest target for the given
// toolchain and mode. The compile log is loaded from the output directory
// before scheduling and flushed back only when every target succeeded, so a
// failed run never poisons the next run's skip decisions.
func (a *App) Build(ctx context.Context, toolchainName, modeName string, serial bool) error {
	start := time.Now()

	tc, err := domain.ParseToolchain(toolchainName)
	if err != nil {
		return err
	}
	mode, err := domain.ParseBuildMode(modeName)
	if err != nil {
		return err
	}

	manifest, err := a.loader.Load(a.configPath)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "load manifest"), "path", a.configPath)
	}

	outDir := filepath.Join(manifest.Root, domain.OutputDirName(tc, mode))
	if err := os.MkdirAll(outDir, domain.DirPerm); err != nil {
		return zerr.Wrap(err, "create output directory")
	}

	logPath := filepath.Join(outDir, domain.LogFileName)
	if err := a.compileLog.Load(logPath); err != nil {
		return zerr.Wrap(err, "load compile log")
	}

	bctx := &domain.BuildContext{
		Toolchain: tc,
		Mode:      mode,
		RootDir:   manifest.Root,
		OutDir:    outDir,
	}
	if err := a.sched.Run(ctx, bctx, manifest.Targets, runtime.NumCPU(), serial); err != nil {
		return err
	}

	if err := a.compileLog.Flush(logPath); err != nil {
		return zerr.Wrap(err, "flush compile log")
	}

	a.logger.Info(fmt.Sprintf("%s %s build: %d targets in %s",
		tc, mode, len(manifest.Targets), time.Since(start).Round(time.Millisecond)))
	return nil
}
