package scheduler

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"rental-tracker-backend/internal/jobs"
	"rental-tracker-backend/internal/logger"
)

// Scheduler manages cron job scheduling
type Scheduler struct {
	cron *cron.Cron
	jobs *jobs.JobRunner
}

// NewScheduler creates a scheduler firing in loc (UTC when nil) with seconds
// precision, and registers every job from the runner's config.
func NewScheduler(jobRunner *jobs.JobRunner, loc *time.Location) (*Scheduler, error) {
	if loc == nil {
		loc = time.UTC
	}
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithSeconds(),
	)

	s := &Scheduler{
		cron: c,
		jobs: jobRunner,
	}

	if err := s.registerJobs(); err != nil {
		return nil, err
	}
	return s, nil
}

// registerJobs registers all scheduled jobs with the cron scheduler
func (s *Scheduler) registerJobs() error {
	cfg := s.jobs.Config().Scheduler

	schedules := []struct {
		name string
		spec string
		run  func() error
	}{
		{jobs.JobReportOverdueRentals, cfg.ReportOverdueRentals, s.jobs.ReportOverdueRentals},
		{jobs.JobReportLowStock, cfg.ReportLowStock, s.jobs.ReportLowStock},
	}

	for _, sc := range schedules {
		run := sc.run
		// Failures are already logged by the runner.
		if _, err := s.cron.AddFunc(sc.spec, func() { _ = run() }); err != nil {
			logger.Error("Failed to register job", "job", sc.name, "spec", sc.spec, "error", err)
			return fmt.Errorf("register %s: %w", sc.name, err)
		}
	}

	logger.Info("All cron jobs registered successfully", "count", len(schedules))
	return nil
}

// Start begins the cron scheduler
func (s *Scheduler) Start() {
	logger.Info("Starting cron scheduler...")
	s.cron.Start()
	logger.Info("Cron scheduler started successfully")
}

// Stop gracefully stops the cron scheduler, waiting for running jobs
func (s *Scheduler) Stop() {
	logger.Info("Stopping cron scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("Cron scheduler stopped")
}

// Entries reports how many jobs are registered.
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}
