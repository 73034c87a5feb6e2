package sequence

import (
	"context"
	"fmt"
	"time"

	"lenz-rewards/pkg/rediskey"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var Module = fx.Module("sequence",
	fx.Provide(NewRedisGenerator),
)

// Generator hands out human-readable codes backed by redis counters.
type Generator interface {
	NextDistributionCode(ctx context.Context) (string, error)
}

type RedisGenerator struct {
	rdb *redis.Client
}

type Params struct {
	fx.In

	Redis *redis.Client
}

func NewRedisGenerator(p Params) Generator {
	return &RedisGenerator{
		rdb: p.Redis,
	}
}

func (g *RedisGenerator) NextDistributionCode(ctx context.Context) (string, error) {
	datePart := time.Now().UTC().Format("20060102")

	key := rediskey.BuildDistributionSeqKey(datePart)
	seq, err := g.rdb.Incr(ctx, key).Result()
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("DIST-%s-%06d", datePart, seq), nil
}
