package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const reloadTimeout = 30 * time.Second

// Reloader refreshes cached reference data.
type Reloader interface {
	Reload(ctx context.Context) error
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron     *cron.Cron
	schedule string
	reloader Reloader
	logger   *zap.Logger
}

// NewScheduler creates a new scheduler instance. An empty schedule disables
// the reload job.
func NewScheduler(schedule string, reloader Reloader, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	// robfig/cron/v3 default parser is standard cron (5 fields: min, hour, dom, month, dow).
	return &Scheduler{
		cron:     cron.New(),
		schedule: schedule,
		reloader: reloader,
		logger:   logger,
	}
}

// Start registers the reload job and starts the scheduler.
func (s *Scheduler) Start() error {
	if s.schedule == "" {
		s.logger.Info("reference reload schedule disabled")
		return nil
	}

	if _, err := s.cron.AddFunc(s.schedule, s.reloadReferenceLists); err != nil {
		return err
	}

	s.logger.Info("starting scheduler", zap.String("schedule", s.schedule))
	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) reloadReferenceLists() {
	ctx, cancel := context.WithTimeout(context.Background(), reloadTimeout)
	defer cancel()

	if err := s.reloader.Reload(ctx); err != nil {
		s.logger.Error("scheduled reference reload failed", zap.Error(err))
		return
	}
	s.logger.Info("scheduled reference reload complete")
}
