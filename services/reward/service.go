package reward

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"lenz-rewards/pkg/db/option"
	"lenz-rewards/pkg/errutil"
	"lenz-rewards/pkg/repository"
	"lenz-rewards/pkg/sequence"
	"lenz-rewards/services/payout"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

type Service struct {
	db   *gorm.DB
	node *snowflake.Node
	loc  *time.Location
	seq  sequence.Generator
	calc *Calculator

	aggregator Aggregator
	addresses  AddressBook
	payout     payout.Collaborator

	distributions repository.Repository[Distribution]
	rewards       repository.Repository[CreatorReward]
}

type ServiceParams struct {
	fx.In

	DB         *gorm.DB
	Node       *snowflake.Node
	Location   *time.Location
	Sequence   sequence.Generator
	Calculator *Calculator
	Aggregator Aggregator
	Addresses  AddressBook
	Payout     payout.Collaborator
}

func NewService(p ServiceParams) *Service {
	return &Service{
		db:            p.DB,
		node:          p.Node,
		loc:           p.Location,
		seq:           p.Sequence,
		calc:          p.Calculator,
		aggregator:    p.Aggregator,
		addresses:     p.Addresses,
		payout:        p.Payout,
		distributions: repository.ProvideStore[Distribution](p.DB),
		rewards:       repository.ProvideStore[CreatorReward](p.DB),
	}
}

// GetDistribution loads one distribution with its rewards.
func (s *Service) GetDistribution(ctx context.Context, id string) (*Distribution, error) {
	record, err := s.distributions.FindOne(ctx, &Distribution{ID: id}, func(tx *gorm.DB) *gorm.DB {
		return tx.Preload("Rewards")
	})
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, errutil.NotFound("distribution not found", nil)
	}
	return record, nil
}

// ListDistributions returns recent distributions, newest week first.
func (s *Service) ListDistributions(ctx context.Context, limit int) ([]*Distribution, error) {
	if limit <= 0 {
		limit = 10
	}

	return s.distributions.Find(ctx, &Distribution{},
		option.WithSortBy(option.QuerySortBy{
			SortBy:  "week_start",
			OrderBy: "desc",
			Allow:   map[string]bool{"week_start": true},
		}),
		option.WithLimit(limit),
	)
}

// Status is the aggregate view the dashboard polls.
type Status struct {
	LatestDistribution  *Distribution    `json:"latest_distribution"`
	LatestRewards       []*CreatorReward `json:"latest_rewards"`
	RecentDistributions []*Distribution  `json:"recent_distributions"`
	Stats               StatusStats      `json:"stats"`
}

type StatusStats struct {
	TotalDistributions      int64           `json:"total_distributions"`
	TotalRewardsDistributed decimal.Decimal `json:"total_rewards_distributed"`
	ActiveCreators          int64           `json:"active_creators"`
	LastDistributionDate    *time.Time      `json:"last_distribution_date"`
}

// GetStatus fans the independent reads out concurrently and assembles the
// snapshot. Totals only count completed distributions.
func (s *Service) GetStatus(ctx context.Context) (*Status, error) {
	status := &Status{
		Stats: StatusStats{TotalRewardsDistributed: decimal.Zero},
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		latest, err := s.distributions.FindOne(gctx, &Distribution{}, option.WithSortBy(option.QuerySortBy{
			SortBy:  "week_start",
			OrderBy: "desc",
			Allow:   map[string]bool{"week_start": true},
		}))
		if err != nil {
			return err
		}
		status.LatestDistribution = latest
		if latest == nil {
			return nil
		}

		rewards, err := s.rewards.Find(gctx, &CreatorReward{DistributionID: latest.ID},
			option.WithSortBy(option.QuerySortBy{
				SortBy:  "reward_amount",
				OrderBy: "desc",
				Allow:   map[string]bool{"reward_amount": true},
			}))
		if err != nil {
			return err
		}
		status.LatestRewards = rewards
		return nil
	})

	g.Go(func() error {
		recent, err := s.ListDistributions(gctx, 10)
		if err != nil {
			return err
		}
		status.RecentDistributions = recent
		return nil
	})

	g.Go(func() error {
		total, err := s.distributions.Count(gctx, &Distribution{})
		if err != nil {
			return err
		}
		status.Stats.TotalDistributions = total
		return nil
	})

	g.Go(func() error {
		completed, err := s.distributions.Find(gctx, &Distribution{Status: DistributionCompleted})
		if err != nil {
			return err
		}

		sum := decimal.Zero
		creators := make(map[string]struct{})
		var last *time.Time
		for _, dist := range completed {
			rewards, err := s.rewards.Find(gctx, &CreatorReward{DistributionID: dist.ID, Status: RewardSent})
			if err != nil {
				return err
			}
			for _, r := range rewards {
				sum = sum.Add(r.RewardAmount)
				creators[r.CreatorName] = struct{}{}
			}
			if dist.CompletedAt != nil && (last == nil || dist.CompletedAt.After(*last)) {
				last = dist.CompletedAt
			}
		}

		status.Stats.TotalRewardsDistributed = sum
		status.Stats.ActiveCreators = int64(len(creators))
		status.Stats.LastDistributionDate = last
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return status, nil
}

func (s *Service) runHandler(c *gin.Context) {
	dist, err := s.Run(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"distribution": dist})
}

func (s *Service) getDistributionHandler(c *gin.Context) {
	record, err := s.GetDistribution(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"distribution": record})
}

func (s *Service) listDistributionsHandler(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	records, err := s.ListDistributions(c.Request.Context(), limit)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"distributions": records})
}

func (s *Service) statusHandler(c *gin.Context) {
	status, err := s.GetStatus(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, status)
}
