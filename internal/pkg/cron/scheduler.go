package cron

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Job is a function run on a fixed interval. The payroll generator is the
// only registrant today; the gate on "which tick actually does work" lives
// in the job itself, not here.
type Job struct {
	Name  string
	Every time.Duration
	Run   func(ctx context.Context) error
}

// Scheduler drives registered jobs on per-job tickers until Stop. It is
// deliberately interval-based rather than calendar-based: jobs that only
// apply on certain days no-op on the other ticks.
type Scheduler struct {
	jobs   []Job
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex
}

func NewScheduler() *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		ctx:    ctx,
		cancel: cancel,
	}
}

// AddJob registers a job. Must be called before Start; jobs added later
// are not picked up.
func (s *Scheduler) AddJob(name string, every time.Duration, run func(ctx context.Context) error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.jobs = append(s.jobs, Job{Name: name, Every: every, Run: run})
	slog.Info("scheduled job registered", "job", name, "every", every)
}

// Start launches one goroutine per registered job. Each job fires once
// immediately, then on every tick.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, job := range s.jobs {
		s.wg.Add(1)
		go s.drive(job)
	}

	slog.Info("job scheduler started", "jobs", len(s.jobs))
}

// Stop cancels all jobs and blocks until in-flight runs return.
func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
	slog.Info("job scheduler stopped")
}

func (s *Scheduler) drive(job Job) {
	defer s.wg.Done()

	ticker := time.NewTicker(job.Every)
	defer ticker.Stop()

	s.execute(job)

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.execute(job)
		}
	}
}

func (s *Scheduler) execute(job Job) {
	start := time.Now()
	if err := job.Run(s.ctx); err != nil {
		slog.Error("scheduled job failed", "job", job.Name, "error", err, "took", time.Since(start))
		return
	}
	slog.Debug("scheduled job completed", "job", job.Name, "took", time.Since(start))
}

// RunOnce fires every registered job a single time with the caller's
// context, bypassing the tickers.
func (s *Scheduler) RunOnce(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, job := range s.jobs {
		if err := job.Run(ctx); err != nil {
			slog.Error("scheduled job failed", "job", job.Name, "error", err)
		}
	}
}
