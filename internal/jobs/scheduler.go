package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/Skotchmaster/marketplace/pkg/logging"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

type Task func(ctx context.Context) error

type Scheduler struct {
	cron    *cron.Cron
	logger  *slog.Logger
	Timeout time.Duration
}

// NewScheduler runs task on a cron schedule with optional seconds. Overlapping runs are skipped.
func NewScheduler(schedule string, task Task, logger *slog.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Scheduler{
		cron:    cron.New(cron.WithParser(cronParser), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:  logger.With("job", "reconcile"),
		Timeout: 5 * time.Minute,
	}
	if _, err := s.cron.AddFunc(schedule, func() { s.run(task) }); err != nil {
		return nil, fmt.Errorf("schedule %q: %w", schedule, err)
	}
	return s, nil
}

func (s *Scheduler) run(task Task) {
	defer func() {
		if rec := recover(); rec != nil {
			s.logger.Error("job_panic", "error", rec)
		}
	}()

	ctx, cancel := context.WithTimeout(logging.IntoContext(context.Background(), s.logger), s.Timeout)
	defer cancel()
	if err := task(ctx); err != nil {
		s.logger.Warn("job_failed", "error", err)
	}
}

func (s *Scheduler) Start() { s.cron.Start() }

// Stop prevents new runs and waits for a running one until ctx ends.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}

// ReconcileTask adapts a Reconciler to the scheduler.
func ReconcileTask(r *Reconciler) Task {
	return func(ctx context.Context) error {
		_, err := r.RunOnce(ctx)
		return err
	}
}
