// Package planner implements the per-object recompilation decision.
package planner

import (
	"context"
	"os"
	"path/filepath"

	"go.trai.ch/mason/internal/core/domain"
	"go.trai.ch/mason/internal/core/ports"
	"go.trai.ch/zerr"
)

// Planner preprocesses a target's sources, hashes the preprocessed output,
// and compares against the prior run's records to decide what to rebuild.
//
// Hashing the preprocessed output rather than the raw source makes the
// cache blind to comment and whitespace edits while still catching any
// change reachable through includes and macros: the compiler's own
// preprocessing resolves every textual dependency, so no separate header
// tracker is needed.
type Planner struct {
	executor ports.Executor
	hasher   ports.Hasher
	log      ports.CompileLog
}

// New creates a new Planner.
func New(executor ports.Executor, hasher ports.Hasher, log ports.CompileLog) *Planner {
	return &Planner{
		executor: executor,
		hasher:   hasher,
		log:      log,
	}
}

// Compile is one planned compiler invocation.
type Compile struct {
	Source  string
	Object  string
	Command string
}

// Plan is the result of planning one target: the subset of objects that
// must be rebuilt. The full object set lives on the TargetBuild.
type Plan struct {
	Recompile []Compile
}

// Plan derives the target's object paths, preprocesses every source in
// parallel, and decides per object whether a recompile is required. Every
// object gets a current-run record regardless of the decision, so the next
// run has full information.
func (p *Planner) Plan(ctx context.Context, bctx *domain.BuildContext, tb *domain.TargetBuild) (*Plan, error) {
	if err := deriveObjects(tb); err != nil {
		return nil, err
	}

	preprocessed, err := p.preprocess(ctx, bctx, tb)
	if err != nil {
		return nil, err
	}

	plan := &Plan{}
	for i, src := range tb.Sources {
		hash, err := p.hasher.HashFile(preprocessed[i])
		if err != nil {
			return nil, zerr.Wrap(err, "failed to hash preprocessed output")
		}

		obj := tb.Objects[i]
		cmd, err := domain.CompileCommand(bctx.Toolchain, bctx.Mode, tb.Target.Flags, src, obj, "")
		if err != nil {
			return nil, err
		}

		if p.needsRecompile(obj, cmd, hash) {
			plan.Recompile = append(plan.Recompile, Compile{Source: src, Object: obj, Command: cmd})
		}

		p.log.Put(domain.Record{ObjectPath: obj, CompileCmd: cmd, PreprocessedHash: hash})
	}

	return plan, nil
}

// deriveObjects fills tb.Objects and rejects base-name collisions: two
// sources mapping to one object path would silently overwrite each other.
func deriveObjects(tb *domain.TargetBuild) error {
	tb.Objects = make([]string, 0, len(tb.Sources))
	claimed := make(map[string]string, len(tb.Sources))

	for _, src := range tb.Sources {
		obj := domain.ObjectPath(tb.ObjDir, src)
		if other, ok := claimed[obj]; ok {
			err := zerr.With(domain.ErrObjectCollision, "target", tb.Target.Name)
			err = zerr.With(err, "object", obj)
			return zerr.With(err, "sources", other+", "+src)
		}
		claimed[obj] = src
		tb.Objects = append(tb.Objects, obj)
	}

	return nil
}

// preprocess fans out one preprocess subprocess per source and waits for
// the batch. Sources have no dependency on each other, so ordering within
// the batch is irrelevant. Returns the intermediate output paths,
// index-aligned with tb.Sources.
func (p *Planner) preprocess(ctx context.Context, bctx *domain.BuildContext, tb *domain.TargetBuild) ([]string, error) {
	ext := tb.Target.Language.PreprocessedExt()
	outputs := make([]string, len(tb.Sources))
	procs := make([]ports.Process, 0, len(tb.Sources))

	for i, src := range tb.Sources {
		out := filepath.Join(tb.ObjDir, domain.ReplaceExt(filepath.Base(src), ext))
		outputs[i] = out

		cmd, err := domain.CompileCommand(bctx.Toolchain, bctx.Mode, tb.Target.Flags, src, out, "")
		if err != nil {
			_ = p.executor.WaitAll(procs)
			return nil, err
		}

		proc, err := p.executor.Start(ctx, cmd)
		if err != nil {
			_ = p.executor.WaitAll(procs)
			return nil, err
		}
		procs = append(procs, proc)
	}

	if err := p.executor.WaitAll(procs); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "preprocess failed"), "target", tb.Target.Name)
	}

	return outputs, nil
}

// needsRecompile applies the decision rule: reuse the object only when it
// still exists, a prior record exists for it, and both the preprocessed
// hash and the exact compile command are unchanged.
func (p *Planner) needsRecompile(obj, cmd string, hash uint64) bool {
	if _, err := os.Stat(obj); err != nil {
		return true
	}
	prev, ok := p.log.Prev(obj)
	if !ok {
		return true
	}
	return prev.PreprocessedHash != hash || prev.CompileCmd != cmd
}
