package scheduler

import (
	"context"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/smallbiznis/crm/internal/config"
	"github.com/smallbiznis/crm/internal/maintenance"
)

// Scheduler runs the periodic maintenance jobs in-process on cron
// schedules. An empty schedule disables the corresponding job.
type Scheduler struct {
	cron *cron.Cron
	jobs *maintenance.Jobs
	log  *zap.Logger
}

func New(cfg config.Config, jobs *maintenance.Jobs, log *zap.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron: cron.New(),
		jobs: jobs,
		log:  log.Named("scheduler"),
	}

	entries := []struct {
		name     string
		schedule string
		run      func(context.Context) error
	}{
		{"heartbeat", cfg.HeartbeatSchedule, jobs.Heartbeat},
		{"restock", cfg.RestockSchedule, jobs.RestockLowStock},
		{"order_reminders", cfg.ReminderSchedule, jobs.SendOrderReminders},
		{"weekly_report", cfg.ReportSchedule, jobs.GenerateReport},
	}
	for _, e := range entries {
		if e.schedule == "" {
			continue
		}
		if err := s.add(e.name, e.schedule, e.run); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Scheduler) add(name, schedule string, run func(context.Context) error) error {
	_, err := s.cron.AddFunc(schedule, func() {
		if err := run(context.Background()); err != nil {
			s.log.Error("job failed", zap.String("job", name), zap.Error(err))
		}
	})
	return err
}

// Start begins executing the registered jobs on their schedules.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("scheduler started", zap.Int("jobs", len(s.cron.Entries())))
}

// Stop halts scheduling and waits for any running job to finish.
func (s *Scheduler) Stop(ctx context.Context) error {
	select {
	case <-s.cron.Stop().Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
