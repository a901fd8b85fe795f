// Package scheduler runs target pipelines across workers and aggregates
// their status.
package scheduler

import (
	"context"
	"errors"
	"sync"

	"go.trai.ch/mason/internal/core/domain"
	"go.trai.ch/mason/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// TargetRunner is the per-target pipeline. It must not know whether it is
// scheduled concurrently or serially.
type TargetRunner interface {
	Build(ctx context.Context, bctx *domain.BuildContext, target domain.Target, vtx ports.Vertex) (domain.BuildOutcome, error)
}

// Scheduler runs one pipeline per target, concurrently by default or
// strictly serially when requested (or when a debugger is attached, to keep
// stack traces coherent). Mode only changes wall-clock time, never results.
type Scheduler struct {
	runner    TargetRunner
	telemetry ports.Telemetry

	mu     sync.RWMutex
	status map[string]domain.Status
}

// NewScheduler creates a new Scheduler.
func NewScheduler(runner TargetRunner, telemetry ports.Telemetry) *Scheduler {
	return &Scheduler{
		runner:    runner,
		telemetry: telemetry,
		status:    make(map[string]domain.Status),
	}
}

// Status returns the current status of a target.
func (s *Scheduler) Status(name string) domain.Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status[name]
}

func (s *Scheduler) setStatus(name string, status domain.Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status[name] = status
}

// Run executes every target's pipeline and fails if any target failed.
// Targets are mutually independent: a failing target never stops the
// others, and no ordering between targets is guaranteed. There is no
// partial-success outcome.
func (s *Scheduler) Run(ctx context.Context, bctx *domain.BuildContext, targets []domain.Target, parallelism int, serial bool) error {
	s.mu.Lock()
	for _, t := range targets {
		s.status[t.Name] = domain.StatusNotStarted
	}
	s.mu.Unlock()

	var (
		errMu sync.Mutex
		errs  []error
	)
	record := func(err error) {
		if err == nil {
			return
		}
		errMu.Lock()
		errs = append(errs, err)
		errMu.Unlock()
	}

	if serial || debuggerPresent() {
		for _, target := range targets {
			record(s.runTarget(ctx, bctx, target))
		}
	} else {
		var g errgroup.Group
		g.SetLimit(parallelism)
		for _, target := range targets {
			g.Go(func() error {
				record(s.runTarget(ctx, bctx, target))
				return nil
			})
		}
		_ = g.Wait()
	}

	if len(errs) > 0 {
		return errors.Join(append([]error{domain.ErrBuildFailed}, errs...)...)
	}
	return nil
}

func (s *Scheduler) runTarget(ctx context.Context, bctx *domain.BuildContext, target domain.Target) error {
	s.setStatus(target.Name, domain.StatusRunning)
	vtx := s.telemetry.StartTarget(target.Name)

	outcome, err := s.runner.Build(ctx, bctx, target, vtx)
	if err != nil {
		vtx.Done(err)
		s.setStatus(target.Name, domain.StatusFailed)
		return zerr.With(zerr.Wrap(err, "target failed"), "target", target.Name)
	}

	if outcome.Recompiled == 0 && !outcome.Archived {
		vtx.Cached()
	}
	vtx.Done(nil)
	s.setStatus(target.Name, domain.StatusSucceeded)
	return nil
}
