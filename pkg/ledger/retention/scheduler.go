package retention

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Job is a named maintenance task run on the shared schedule. Run
// returns the number of rows the task removed.
type Job struct {
	Name string
	Run  func(ctx context.Context) (int64, error)
}

// Scheduler runs maintenance jobs on a cron schedule. The ledger pruner
// is the primary job; the quota store's day cleanup rides on the same
// schedule so both stores age out together.
type Scheduler struct {
	schedule string
	jobs     []Job
	cron     *cron.Cron
	mu       sync.Mutex
	logger   *slog.Logger
	running  bool
}

// NewScheduler creates a scheduler that runs the given jobs on the cron
// schedule.
func NewScheduler(schedule string, jobs ...Job) *Scheduler {
	return &Scheduler{
		schedule: schedule,
		jobs:     jobs,
		cron:     cron.New(),
		logger:   slog.Default().With("component", "ledger.scheduler"),
	}
}

// Start begins scheduled runs based on the cron expression.
//
// Common cron expressions:
//   - "0 3 * * *"    - Daily at 3 AM
//   - "0 */6 * * *"  - Every 6 hours
//   - "0 0 * * 0"    - Weekly on Sunday at midnight
//
// If the schedule is empty, the scheduler does nothing.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.schedule == "" {
		s.logger.Info("maintenance schedule not configured, skipping scheduler")
		return nil
	}

	// Validate cron expression
	_, err := cron.ParseStandard(s.schedule)
	if err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", s.schedule, err)
	}

	_, err = s.cron.AddFunc(s.schedule, func() {
		s.runJobs(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule maintenance jobs: %w", err)
	}

	s.cron.Start()
	s.running = true

	names := make([]string, 0, len(s.jobs))
	for _, job := range s.jobs {
		names = append(names, job.Name)
	}
	s.logger.Info("maintenance scheduler started",
		"schedule", s.schedule,
		"jobs", names,
	)

	// Stop when the surrounding context ends
	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// runJobs executes one maintenance cycle.
func (s *Scheduler) runJobs(ctx context.Context) {
	for _, job := range s.jobs {
		removed, err := job.Run(ctx)
		if err != nil {
			s.logger.Error("scheduled maintenance job failed",
				"job", job.Name,
				"error", err,
			)
			continue
		}

		if removed > 0 {
			s.logger.Info("scheduled maintenance job completed",
				"job", job.Name,
				"removed_count", removed,
			)
		} else {
			s.logger.Debug("scheduled maintenance job completed, nothing removed",
				"job", job.Name,
			)
		}
	}
}

// Stop stops the scheduler and waits for any running jobs to complete.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil && s.running {
		ctx := s.cron.Stop()
		<-ctx.Done() // Wait for running jobs to finish
		s.running = false
		s.logger.Info("maintenance scheduler stopped")
	}
}

// IsRunning returns true if the scheduler is running.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.running
}

// NextRun returns the next scheduled run time.
func (s *Scheduler) NextRun() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron == nil {
		return nil
	}

	entries := s.cron.Entries()
	if len(entries) == 0 {
		return nil
	}

	next := entries[0].Next
	return &next
}
