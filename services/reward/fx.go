package reward

import (
	"context"
	"time"

	"lenz-rewards/pkg/config"
	"lenz-rewards/services/creator"
	"lenz-rewards/services/interaction"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"go.uber.org/fx"
)

// Module wires the reward service behind the HTTP API.
var Module = fx.Module("reward.service",
	providers,
	fx.Invoke(registerRoutes),
)

// TaskModule registers the asynq handler on the worker mux.
var TaskModule = fx.Module("reward.task",
	providers,
	fx.Invoke(registerTasks),
)

var providers = fx.Provide(
	ProvideLocation,
	NewCalculator,
	NewService,
	func(s *interaction.Service) Aggregator { return s },
	func(s *creator.Service) AddressBook { return s },
)

// SchedulerModule runs the weekly cron trigger.
var SchedulerModule = fx.Module("reward.scheduler",
	fx.Provide(NewScheduler),
	fx.Invoke(registerScheduler),
)

// ProvideLocation resolves the configured rewards timezone once, at startup.
func ProvideLocation(cfg *config.Config) (*time.Location, error) {
	return time.LoadLocation(cfg.Rewards.Timezone)
}

func registerRoutes(router *gin.Engine, service *Service) {
	v1 := router.Group("/v1")
	v1.POST("/rewards/distributions", service.runHandler)
	v1.GET("/rewards/distributions", service.listDistributionsHandler)
	v1.GET("/rewards/distributions/:id", service.getDistributionHandler)
	v1.GET("/rewards/status", service.statusHandler)
}

func registerTasks(mux *asynq.ServeMux, service *Service) {
	mux.HandleFunc(TaskWeeklyDistribution, service.HandleWeeklyDistribution)
}

func registerScheduler(lc fx.Lifecycle, scheduler *Scheduler) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return scheduler.Start()
		},
		OnStop: func(ctx context.Context) error {
			return scheduler.Stop(ctx)
		},
	})
}
