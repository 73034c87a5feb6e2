package reward

import (
	"context"

	"lenz-rewards/pkg/errutil"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const TaskWeeklyDistribution = "reward:weekly_distribution"

// NewWeeklyDistributionTask builds the task the scheduler enqueues. The run
// carries no payload; the executor derives the window from the clock.
func NewWeeklyDistributionTask() *asynq.Task {
	return asynq.NewTask(TaskWeeklyDistribution, nil, asynq.Queue("critical"), asynq.MaxRetry(3))
}

// HandleWeeklyDistribution processes the scheduled run. An already-existing
// distribution and a week without eligible creators are both terminal
// outcomes, so they complete the task instead of feeding the retry loop.
func (s *Service) HandleWeeklyDistribution(ctx context.Context, t *asynq.Task) error {
	dist, err := s.Run(ctx)
	if err != nil {
		if errutil.IsStatus(err, errutil.StatusConflict) || errutil.IsStatus(err, errutil.StatusUnprocessableEntity) {
			zap.L().Info("weekly distribution task finished without payout", zap.Error(err))
			return nil
		}
		return err
	}

	zap.L().Info("weekly distribution task completed",
		zap.String("distribution_id", dist.ID),
		zap.String("code", dist.Code),
	)
	return nil
}
