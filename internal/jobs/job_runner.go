package jobs

import (
	"context"
	"fmt"
	"sort"
	"time"

	"rental-tracker-backend/internal/config"
	"rental-tracker-backend/internal/domain"
	"rental-tracker-backend/internal/logger"
)

// OverdueLister is the slice of the rental service the overdue report reads.
type OverdueLister interface {
	ListOverdue(ctx context.Context) ([]domain.Rental, error)
}

// LowStockLister is the slice of the inventory service the stock report reads.
type LowStockLister interface {
	ListLowStock(ctx context.Context) ([]domain.InventoryItem, error)
}

// JobRunner coordinates all scheduled jobs. Jobs only read and log; overdue stays a
// derived view, so nothing is written back.
type JobRunner struct {
	rentals   OverdueLister
	inventory LowStockLister
	config    *config.Config
	timeout   time.Duration
	today     func() domain.Date
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(rentals OverdueLister, inventory LowStockLister, cfg *config.Config, today func() domain.Date) *JobRunner {
	return &JobRunner{
		rentals:   rentals,
		inventory: inventory,
		config:    cfg,
		timeout:   time.Minute,
		today:     today,
	}
}

// Config exposes the configuration the scheduler registers schedules from.
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// Job names accepted by Run.
const (
	JobReportOverdueRentals = "report-overdue-rentals"
	JobReportLowStock       = "report-low-stock"
)

func (jr *JobRunner) registry() map[string]func() error {
	return map[string]func() error{
		JobReportOverdueRentals: jr.ReportOverdueRentals,
		JobReportLowStock:       jr.ReportLowStock,
	}
}

// Names lists the jobs Run accepts, sorted.
func (jr *JobRunner) Names() []string {
	names := make([]string, 0, 2)
	for name := range jr.registry() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Run executes one job by name, or every job for "all".
func (jr *JobRunner) Run(name string) error {
	if name == "all" {
		for _, n := range jr.Names() {
			if err := jr.registry()[n](); err != nil {
				return err
			}
		}
		return nil
	}
	job, ok := jr.registry()[name]
	if !ok {
		return fmt.Errorf("unknown job %q (known: %v)", name, jr.Names())
	}
	return job()
}

// runWithRecovery wraps job execution with panic recovery and a deadline
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func(ctx context.Context) error) (err error) {
	log := logger.WithComponent("jobs").With("job", jobName)
	defer func() {
		if r := recover(); r != nil {
			log.Error("Job panicked", "panic", r)
			err = fmt.Errorf("job %s panicked: %v", jobName, r)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), jr.timeout)
	defer cancel()

	log.Info("Starting job")
	start := time.Now()
	if err := jobFunc(ctx); err != nil {
		log.Error("Job failed", "error", err, "duration", time.Since(start))
		return err
	}
	log.Info("Job completed", "duration", time.Since(start))
	return nil
}
