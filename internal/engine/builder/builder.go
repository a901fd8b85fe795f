// Package builder implements the per-target build pipeline: resolve
// sources, plan recompilation, compile out-of-date objects, and rebuild the
// static library archive when needed.
package builder

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.trai.ch/mason/internal/core/domain"
	"go.trai.ch/mason/internal/core/ports"
	"go.trai.ch/mason/internal/engine/planner"
	"go.trai.ch/zerr"
)

// Builder runs the pipeline for one target at a time. Each invocation owns
// its TargetBuild exclusively; the only shared state is the compile log
// behind the planner, which is concurrency-safe.
type Builder struct {
	resolver ports.SourceResolver
	planner  *planner.Planner
	executor ports.Executor
	logger   ports.Logger
}

// New creates a new Builder.
func New(resolver ports.SourceResolver, p *planner.Planner, executor ports.Executor, logger ports.Logger) *Builder {
	return &Builder{
		resolver: resolver,
		planner:  p,
		executor: executor,
		logger:   logger,
	}
}

// Build runs the full pipeline for one target. Any error fails the target;
// there is no partial-object retry.
func (b *Builder) Build(ctx context.Context, bctx *domain.BuildContext, target domain.Target, vtx ports.Vertex) (domain.BuildOutcome, error) {
	start := time.Now()
	var outcome domain.BuildOutcome

	tb := &domain.TargetBuild{
		Target:      target,
		ObjDir:      filepath.Join(bctx.OutDir, target.Name),
		ArchivePath: filepath.Join(bctx.OutDir, domain.ArchiveFileName(bctx.Toolchain, target.Name)),
	}

	if err := os.MkdirAll(tb.ObjDir, domain.DirPerm); err != nil {
		return outcome, zerr.With(zerr.Wrap(err, "failed to create object directory"), "dir", tb.ObjDir)
	}

	sources, err := b.resolver.ResolveSources(target.Root, target.Sources)
	if err != nil {
		return outcome, err
	}
	if len(sources) == 0 {
		return outcome, zerr.With(domain.ErrNoSources, "target", target.Name)
	}
	tb.Sources = sources

	plan, err := b.planner.Plan(ctx, bctx, tb)
	if err != nil {
		return outcome, err
	}

	if err := b.pruneStale(tb); err != nil {
		return outcome, err
	}

	compiled, err := b.compile(ctx, tb, plan, vtx)
	if err != nil {
		return outcome, err
	}
	outcome.Recompiled = compiled

	archived, err := b.archive(ctx, bctx, tb, vtx)
	if err != nil {
		return outcome, err
	}
	outcome.Archived = archived

	b.logger.Info(fmt.Sprintf("%s compile step: %s", target.Name, time.Since(start).Round(time.Millisecond)))
	return outcome, nil
}

// pruneStale deletes object-directory entries that do not correspond to any
// currently-resolved source, so the archive can never pick up members of
// sources removed from the target.
func (b *Builder) pruneStale(tb *domain.TargetBuild) error {
	current := make(map[string]bool, len(tb.Objects))
	for _, obj := range tb.Objects {
		current[strings.TrimSuffix(filepath.Base(obj), domain.ObjectExt)] = true
	}

	entries, err := os.ReadDir(tb.ObjDir)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to scan object directory"), "dir", tb.ObjDir)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		base := strings.TrimSuffix(name, filepath.Ext(name))
		if current[base] && knownExt(filepath.Ext(name)) {
			continue
		}
		if err := os.Remove(filepath.Join(tb.ObjDir, name)); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to remove stale file"), "file", name)
		}
	}

	return nil
}

// knownExt reports whether the extension belongs to a per-source artifact
// the pipeline produces: objects, preprocessed intermediates, and MSVC
// debug info.
func knownExt(ext string) bool {
	switch ext {
	case domain.ObjectExt, ".i", ".ii", ".pdb":
		return true
	default:
		return false
	}
}

// compile fans out every planned invocation without blocking and waits for
// the batch. A single failing compile fails the target.
func (b *Builder) compile(ctx context.Context, tb *domain.TargetBuild, plan *planner.Plan, vtx ports.Vertex) (int, error) {
	if len(plan.Recompile) == 0 {
		b.trace(vtx, "skip compile "+tb.Target.Name)
		return 0, nil
	}

	procs := make([]ports.Process, 0, len(plan.Recompile))
	for _, c := range plan.Recompile {
		b.trace(vtx, c.Command)
		proc, err := b.executor.Start(ctx, c.Command)
		if err != nil {
			_ = b.executor.WaitAll(procs)
			return 0, err
		}
		procs = append(procs, proc)
	}

	if err := b.executor.WaitAll(procs); err != nil {
		return 0, zerr.With(zerr.Wrap(err, "compile failed"), "target", tb.Target.Name)
	}

	return len(procs), nil
}

// archive rebuilds the static library when any object is newer than the
// existing archive, or the archive is missing. Rebuilding always removes
// the old archive first; appending in place could keep dead members alive.
func (b *Builder) archive(ctx context.Context, bctx *domain.BuildContext, tb *domain.TargetBuild, vtx ports.Vertex) (bool, error) {
	var newest time.Time
	for _, obj := range tb.Objects {
		info, err := os.Stat(obj)
		if err != nil {
			return false, zerr.With(zerr.Wrap(err, "object missing after compile"), "object", obj)
		}
		if info.ModTime().After(newest) {
			newest = info.ModTime()
		}
	}

	info, err := os.Stat(tb.ArchivePath)
	if err == nil && !newest.After(info.ModTime()) {
		b.trace(vtx, "skip lib "+tb.Target.Name)
		return false, nil
	}
	if err == nil {
		if err := os.Remove(tb.ArchivePath); err != nil {
			return false, zerr.With(zerr.Wrap(err, "failed to remove old archive"), "archive", tb.ArchivePath)
		}
	}

	cmd := domain.ArchiveCommand(bctx.Toolchain, tb.ArchivePath, tb.Objects)
	b.trace(vtx, cmd)

	proc, err := b.executor.Start(ctx, cmd)
	if err != nil {
		return false, err
	}
	if err := b.executor.WaitAll([]ports.Process{proc}); err != nil {
		return false, zerr.With(zerr.Wrap(err, "archive failed"), "target", tb.Target.Name)
	}

	return true, nil
}

// trace writes one line to both the logger and the target's vertex.
func (b *Builder) trace(vtx ports.Vertex, line string) {
	b.logger.Info(line)
	_, _ = fmt.Fprintln(vtx.Stdout(), line)
}
