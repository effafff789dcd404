package analytics

import (
	"context"
	"time"
)

const (
	logMsgJobFailed     = "materializer job failed"
	logMsgPassCompleted = "materializer pass completed"
	logMsgRunnerStopped = "materializer runner stopped"
	logAttrJob          = "job"
)

// Job is one named materialization step.
type Job struct {
	Name string
	Run  func(ctx context.Context) error
}

// Jobs returns the full set of materializer jobs in load order.
func (m Materializer) Jobs() []Job {
	return []Job{
		{Name: "books_summary", Run: m.BooksSummary},
		{Name: "borrows_per_user", Run: m.BorrowsPerUser},
		{Name: "late_returns", Run: m.LateReturns},
	}
}

// Runner executes a set of jobs on a fixed interval until its context is
// canceled. A failing job is logged and skipped; the remaining jobs of
// the pass still run.
type Runner struct {
	jobs     []Job
	interval time.Duration
	logger   Logger
}

// NewRunner creates a Runner over the given jobs.
func NewRunner(jobs []Job, interval time.Duration, logger Logger) Runner {
	return Runner{
		jobs:     jobs,
		interval: interval,
		logger:   logger,
	}
}

// Run executes one pass immediately and then one per interval tick. It
// blocks until ctx is canceled.
func (r Runner) Run(ctx context.Context) {
	r.pass(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if r.logger != nil {
				r.logger.Info(logMsgRunnerStopped)
			}

			return
		case <-ticker.C:
			r.pass(ctx)
		}
	}
}

func (r Runner) pass(ctx context.Context) {
	for _, job := range r.jobs {
		if ctx.Err() != nil {
			return
		}

		if err := job.Run(ctx); err != nil {
			if r.logger != nil {
				r.logger.Error(logMsgJobFailed, logAttrJob, job.Name, logAttrError, err.Error())
			}

			continue
		}
	}

	if r.logger != nil {
		r.logger.Debug(logMsgPassCompleted)
	}
}
