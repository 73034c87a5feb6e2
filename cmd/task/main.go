package main

import (
	"log"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"lenz-rewards/pkg/config"
	"lenz-rewards/pkg/db"
	"lenz-rewards/pkg/gen"
	"lenz-rewards/pkg/logger"
	"lenz-rewards/pkg/profiling"
	"lenz-rewards/pkg/redis"
	"lenz-rewards/pkg/sequence"
	"lenz-rewards/pkg/task"
	"lenz-rewards/services/creator"
	"lenz-rewards/services/interaction"
	"lenz-rewards/services/payout"
	"lenz-rewards/services/reward"
)

// The worker runs the scheduled weekly distribution: the cron trigger
// enqueues the task and the asynq server executes it. The HTTP surface lives
// in cmd/rewards.
func main() {
	opts := []fx.Option{
		config.Module,
		logger.Module,
		db.Module,
		redis.Module,
		sequence.Module,
		gen.Module,
		profiling.Module,
		task.Client,
		task.Server,
		fx.Provide(
			interaction.NewService,
			creator.NewService,
		),
		payout.Module,
		reward.TaskModule,
		reward.SchedulerModule,
		fxLogger,
	}

	if err := fx.ValidateApp(opts...); err != nil {
		log.Fatalf("fx validation failed: %v", err)
	}

	app := fx.New(opts...)

	app.Run()
}

var fxLogger = fx.WithLogger(func(cfg *config.Config, logger *zap.Logger) fxevent.Logger {
	return fxevent.NopLogger
})
