package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"listing_crawler/internal/domain"
)

var (
	ErrUnknownJob = errors.New("unknown job")
	ErrStopped    = errors.New("scheduler stopped")
)

type JobFunc func(ctx context.Context) error

type job struct {
	name       string
	spec       string
	runOnStart bool
	fn         JobFunc
	running    atomic.Bool
}

// Scheduler runs named jobs on cron schedules. A job never overlaps
// itself: a trigger that finds it running is dropped.
type Scheduler struct {
	cron   *cron.Cron
	jobs   map[string]*job
	order  []string
	logger *slog.Logger

	// mu guards baseCtx and stopped, and orders wg.Add before the
	// shutdown wg.Wait.
	mu      sync.Mutex
	baseCtx context.Context
	stopped bool
	wg      sync.WaitGroup
}

func NewScheduler(logger *slog.Logger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		jobs:    make(map[string]*job),
		logger:  logger.With("component", "scheduler"),
		baseCtx: context.Background(),
	}
}

// Register adds a job on a standard five-field cron spec.
func (s *Scheduler) Register(name, spec string, runOnStart bool, fn JobFunc) error {
	if _, ok := s.jobs[name]; ok {
		return fmt.Errorf("job %q already registered", name)
	}

	j := &job{name: name, spec: spec, runOnStart: runOnStart, fn: fn}
	if _, err := s.cron.AddFunc(spec, func() { s.fire(j) }); err != nil {
		return fmt.Errorf("schedule %s %q: %w", name, spec, err)
	}

	s.jobs[name] = j
	s.order = append(s.order, name)
	return nil
}

// Start runs the run-on-start jobs, starts cron and blocks until ctx is
// done. It then waits for running jobs to finish; jobs are not cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	s.baseCtx = context.WithoutCancel(ctx)
	s.mu.Unlock()

	for _, name := range s.order {
		j := s.jobs[name]
		s.logger.Info("job scheduled", "job", name, "schedule", j.spec, "run_on_start", j.runOnStart)
		if j.runOnStart {
			_ = s.Trigger(name)
		}
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.order))

	<-ctx.Done()

	s.mu.Lock()
	s.stopped = true
	s.mu.Unlock()

	s.logger.Info("scheduler stopping, waiting for running jobs")
	<-s.cron.Stop().Done()
	s.wg.Wait()
	s.logger.Info("scheduler stopped")

	return ctx.Err()
}

// Trigger starts a job in the background. It returns
// domain.ErrRunInProgress when the job is already running.
func (s *Scheduler) Trigger(name string) error {
	j, ctx, err := s.acquire(name)
	if err != nil {
		return err
	}

	go func() {
		defer s.release(j)
		s.run(ctx, j)
	}()
	return nil
}

// RunOnce runs a job in the caller's goroutine under the same guard.
func (s *Scheduler) RunOnce(ctx context.Context, name string) error {
	j, _, err := s.acquire(name)
	if err != nil {
		return err
	}
	defer s.release(j)

	return s.run(ctx, j)
}

func (s *Scheduler) Running(name string) bool {
	j, ok := s.jobs[name]
	return ok && j.running.Load()
}

func (s *Scheduler) fire(j *job) {
	_, ctx, err := s.acquire(j.name)
	switch {
	case errors.Is(err, domain.ErrRunInProgress):
		s.logger.Warn("job still running, skipping scheduled run", "job", j.name)
		return
	case err != nil:
		return
	}
	defer s.release(j)

	s.run(ctx, j)
}

// acquire marks the job running and counts it in wg. Once Start has
// begun shutting down it returns ErrStopped.
func (s *Scheduler) acquire(name string) (*job, context.Context, error) {
	j, ok := s.jobs[name]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrUnknownJob, name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return nil, nil, ErrStopped
	}
	if !j.running.CompareAndSwap(false, true) {
		return nil, nil, domain.ErrRunInProgress
	}
	s.wg.Add(1)
	return j, s.baseCtx, nil
}

func (s *Scheduler) release(j *job) {
	j.running.Store(false)
	s.wg.Done()
}

func (s *Scheduler) run(ctx context.Context, j *job) error {
	start := time.Now()
	s.logger.Info("job started", "job", j.name)

	if err := j.fn(ctx); err != nil {
		s.logger.Error("job failed", "job", j.name, "error", err, "duration", time.Since(start))
		return err
	}

	s.logger.Info("job finished", "job", j.name, "duration", time.Since(start))
	return nil
}
