package reward

import (
	"context"
	"errors"
	"time"

	"lenz-rewards/pkg/errutil"
	"lenz-rewards/services/interaction"
	"lenz-rewards/services/payout"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Aggregator is the slice of the interaction service the executor needs.
type Aggregator interface {
	AggregateWindow(ctx context.Context, weekStart, weekEnd time.Time) ([]*interaction.CreatorActivity, error)
}

// AddressBook resolves creator names to payout addresses, failing closed for
// unmapped creators.
type AddressBook interface {
	PayoutAddress(ctx context.Context, name string) (string, error)
}

// Run executes one weekly distribution: aggregate, weigh, persist, pay,
// book-keep. It either returns the completed distribution or an error; a
// created distribution row always ends in a terminal status, never stuck in
// processing.
func (s *Service) Run(ctx context.Context) (*Distribution, error) {
	span := trace.SpanFromContext(ctx)
	defer span.End()

	weekStart, weekEnd := WeekWindow(time.Now(), s.loc)

	zapLog := zap.L().With(
		zap.Time("week_start", weekStart),
		zap.Time("week_end", weekEnd),
	)
	zapLog.Info("starting weekly reward distribution")

	existing, err := s.distributions.FindOne(ctx, &Distribution{WeekStart: weekStart})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		zapLog.Warn("distribution already exists for this week", zap.String("distribution_id", existing.ID))
		return nil, ErrDistributionExists
	}

	candidates, err := s.calculateWindow(ctx, weekStart, weekEnd)
	if err != nil {
		return nil, err
	}

	code, err := s.seq.NextDistributionCode(ctx)
	if err != nil {
		return nil, err
	}

	dist := &Distribution{
		ID:        s.node.Generate().String(),
		Code:      code,
		WeekStart: weekStart,
		WeekEnd:   weekEnd,
		TotalPool: s.calc.Pool(),
		Status:    DistributionProcessing,
	}

	rewards := make([]*CreatorReward, 0, len(candidates))
	for _, candidate := range candidates {
		rewards = append(rewards, &CreatorReward{
			ID:               s.node.Generate().String(),
			DistributionID:   dist.ID,
			CreatorName:      candidate.CreatorName,
			CreatorAddress:   candidate.CreatorAddress,
			InteractionCount: candidate.InteractionCount,
			RewardWeight:     candidate.Weight,
			RewardAmount:     candidate.Amount,
			Status:           RewardPending,
		})
	}

	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.distributions.WithTrx(tx).Create(ctx, dist); err != nil {
			return err
		}
		return s.rewards.WithTrx(tx).BatchCreate(ctx, rewards)
	}); err != nil {
		// The unique index on week_start decides races between concurrent
		// triggers; the loser surfaces as a conflict, not a duplicate row.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDistributionExists
		}
		return nil, err
	}

	// From here on the row exists: whatever happens, leave it terminal.
	terminal := false
	defer func() {
		if terminal {
			return
		}
		s.markFailed(dist)
	}()

	items := make([]payout.Item, 0, len(rewards))
	for _, r := range rewards {
		items = append(items, payout.Item{
			RewardID: r.ID,
			Creator:  r.CreatorName,
			Address:  r.CreatorAddress,
			Amount:   r.RewardAmount,
		})
	}

	results, err := s.payout.Process(ctx, items)
	if err != nil {
		zapLog.Error("payout batch failed", zap.String("distribution_id", dist.ID), zap.Error(err))
		return nil, errutil.BadGateway("payout collaborator rejected the batch", err)
	}

	allSent := true
	for _, r := range rewards {
		result, ok := results[r.ID]
		switch {
		case ok && result.Err == nil:
			r.Status = RewardSent
			r.TxRef = result.TxRef
		case ok:
			zapLog.Warn("payout item failed",
				zap.String("reward_id", r.ID),
				zap.String("creator", r.CreatorName),
				zap.Error(result.Err),
			)
			r.Status = RewardFailed
			allSent = false
		default:
			zapLog.Warn("payout result missing for reward",
				zap.String("reward_id", r.ID),
				zap.String("creator", r.CreatorName),
			)
			r.Status = RewardFailed
			allSent = false
		}

		if err := s.rewards.Update(ctx, r.ID, &CreatorReward{Status: r.Status, TxRef: r.TxRef}); err != nil {
			return nil, err
		}
	}

	if !allSent {
		return nil, errutil.BadGateway("one or more creator payouts failed", nil)
	}

	now := time.Now()
	dist.Status = DistributionCompleted
	dist.CompletedAt = &now
	dist.TxRef = rewards[0].TxRef

	if err := s.distributions.Update(ctx, dist.ID, map[string]any{
		"status":       dist.Status,
		"completed_at": dist.CompletedAt,
		"tx_ref":       dist.TxRef,
	}); err != nil {
		return nil, err
	}
	terminal = true

	zapLog.Info("weekly reward distribution completed",
		zap.String("distribution_id", dist.ID),
		zap.String("code", dist.Code),
		zap.Int("creators", len(rewards)),
	)

	return dist, nil
}

// calculateWindow aggregates the window, drops creators without a registered
// payout address (fail closed) and normalizes the rest into candidates.
func (s *Service) calculateWindow(ctx context.Context, weekStart, weekEnd time.Time) ([]Candidate, error) {
	activities, err := s.aggregator.AggregateWindow(ctx, weekStart, weekEnd)
	if err != nil {
		return nil, err
	}
	if len(activities) == 0 {
		return nil, ErrNoEligibleCreators
	}

	eligible := make([]*interaction.CreatorActivity, 0, len(activities))
	addresses := make(map[string]string, len(activities))
	for _, activity := range activities {
		address, err := s.addresses.PayoutAddress(ctx, activity.Creator)
		if err != nil {
			if errutil.IsStatus(err, errutil.StatusNotFound) {
				zap.L().Warn("creator has no payout address, excluding from run",
					zap.String("creator", activity.Creator),
				)
				continue
			}
			return nil, err
		}

		eligible = append(eligible, activity)
		addresses[activity.Creator] = address
	}

	if len(eligible) == 0 {
		return nil, ErrNoEligibleCreators
	}

	return s.calc.Calculate(eligible, addresses)
}

// markFailed is the last line of defense: it runs on every non-completed
// exit after the row was created, including panics, with a fresh context so
// a canceled request cannot block the status write.
func (s *Service) markFailed(dist *Distribution) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.distributions.Update(ctx, dist.ID, map[string]any{
		"status": DistributionFailed,
	}); err != nil {
		zap.L().Error("failed to mark distribution as failed",
			zap.String("distribution_id", dist.ID),
			zap.Error(err),
		)
	}
}
