// Package scheduler runs periodic maintenance jobs on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"intabyu/internal/logger"
)

// Scheduler wraps cron-based jobs.
type Scheduler struct {
	cron *cron.Cron
	log  *zap.SugaredLogger
}

// New creates a scheduler using standard five-field specs and descriptors
// such as "@hourly" or "@every 30m".
func New(loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{
		cron: cron.New(cron.WithLocation(loc)),
		log:  logger.Named("scheduler"),
	}
}

// Schedule registers job under name. A run that overlaps the previous one
// is skipped, and a job that panics is logged without stopping the scheduler.
func (s *Scheduler) Schedule(name, spec string, job func(ctx context.Context) error) (cron.EntryID, error) {
	if spec == "" {
		return 0, fmt.Errorf("scheduler: empty spec for %s", name)
	}

	wrapped := cron.NewChain(
		cron.Recover(cron.DefaultLogger),
		cron.SkipIfStillRunning(cron.DefaultLogger),
	).Then(cron.FuncJob(func() {
		start := time.Now()
		if err := job(context.Background()); err != nil {
			s.log.Errorw("scheduled job failed", "job", name, "error", err, "elapsed", time.Since(start))
			return
		}
		s.log.Infow("scheduled job finished", "job", name, "elapsed", time.Since(start))
	}))

	id, err := s.cron.AddJob(spec, wrapped)
	if err != nil {
		return 0, fmt.Errorf("scheduler: invalid spec %q for %s: %w", spec, name, err)
	}
	s.log.Infow("job scheduled", "job", name, "spec", spec)
	return id, nil
}

// Len returns the number of registered jobs.
func (s *Scheduler) Len() int {
	return len(s.cron.Entries())
}

// Start runs the scheduler in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the scheduler and waits for running jobs to complete.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
