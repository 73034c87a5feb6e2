package reward

import (
	"context"
	"time"

	"lenz-rewards/pkg/config"
	"lenz-rewards/pkg/task"

	"github.com/robfig/cron/v3"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Scheduler enqueues the weekly distribution task on the configured cron
// schedule, evaluated in the rewards timezone so "Monday 00:00" means the
// same thing to the trigger and the week window.
type Scheduler struct {
	cron     *cron.Cron
	enqueuer task.Enqueuer
	schedule string
}

type SchedulerParams struct {
	fx.In

	Config   *config.Config
	Location *time.Location
	Enqueuer task.Enqueuer
}

func NewScheduler(p SchedulerParams) *Scheduler {
	return &Scheduler{
		cron:     cron.New(cron.WithLocation(p.Location)),
		enqueuer: p.Enqueuer,
		schedule: p.Config.Rewards.Schedule,
	}
}

func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.schedule, func() {
		info, err := s.enqueuer.Enqueue(NewWeeklyDistributionTask())
		if err != nil {
			zap.L().Error("failed to enqueue weekly distribution task", zap.Error(err))
			return
		}
		zap.L().Info("weekly distribution task enqueued",
			zap.String("task_id", info.ID),
			zap.String("queue", info.Queue),
		)
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	zap.L().Info("reward scheduler started", zap.String("schedule", s.schedule))
	return nil
}

func (s *Scheduler) Stop(ctx context.Context) error {
	stopped := s.cron.Stop()
	select {
	case <-stopped.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
