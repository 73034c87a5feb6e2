package main

import (
	"log"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	grpchealth "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"gorm.io/gorm"

	"lenz-rewards/pkg/config"
	"lenz-rewards/pkg/db"
	"lenz-rewards/pkg/gen"
	"lenz-rewards/pkg/health"
	"lenz-rewards/pkg/logger"
	"lenz-rewards/pkg/otelcol"
	"lenz-rewards/pkg/profiling"
	"lenz-rewards/pkg/redis"
	"lenz-rewards/pkg/sequence"
	"lenz-rewards/pkg/server"
	"lenz-rewards/pkg/task"
	"lenz-rewards/services/creator"
	"lenz-rewards/services/interaction"
	"lenz-rewards/services/lens"
	"lenz-rewards/services/payout"
	"lenz-rewards/services/reward"
)

func main() {
	opts := []fx.Option{
		config.Module,
		logger.Module,
		db.Module,
		redis.Module,
		sequence.Module,
		gen.Module,
		otelcol.Module,
		profiling.Module,
		task.Client,
		fx.Invoke(
			db.Otel,
			db.Metric,
			autoMigrate,
			registerGRPCHealth,
		),
		lens.Module,
		interaction.Module,
		creator.Module,
		payout.Module,
		reward.Module,
		health.Module,
		server.ProvideGRPCServer,
		server.ProvideHTTPServer,
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

func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&lens.Lens{},
		&interaction.Interaction{},
		&creator.Creator{},
		&reward.Distribution{},
		&reward.CreatorReward{},
	)
}

func registerGRPCHealth(srv *grpc.Server) {
	healthpb.RegisterHealthServer(srv, grpchealth.NewServer())
}
