package reward

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"lenz-rewards/pkg/errutil"
	"lenz-rewards/services/interaction"
	"lenz-rewards/services/payout"
	"lenz-rewards/services/testutil"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type aggregatorFunc func(ctx context.Context, weekStart, weekEnd time.Time) ([]*interaction.CreatorActivity, error)

func (f aggregatorFunc) AggregateWindow(ctx context.Context, weekStart, weekEnd time.Time) ([]*interaction.CreatorActivity, error) {
	return f(ctx, weekStart, weekEnd)
}

func staticActivities(activities ...*interaction.CreatorActivity) Aggregator {
	return aggregatorFunc(func(context.Context, time.Time, time.Time) ([]*interaction.CreatorActivity, error) {
		return activities, nil
	})
}

type mapAddressBook map[string]string

func (m mapAddressBook) PayoutAddress(ctx context.Context, name string) (string, error) {
	addr, ok := m[name]
	if !ok || addr == "" {
		return "", errutil.NotFound("no payout address registered for creator", nil)
	}
	return addr, nil
}

type countingSequence struct{ n int }

func (s *countingSequence) NextDistributionCode(ctx context.Context) (string, error) {
	s.n++
	return fmt.Sprintf("DIST-20260824-%06d", s.n), nil
}

// payoutStub lets each test shape per-creator outcomes. Creators in failed
// get an error result, creators in omitted get no result at all.
type payoutStub struct {
	batchErr error
	failed   map[string]error
	omitted  map[string]bool

	processed []payout.Item
}

func (p *payoutStub) Process(ctx context.Context, items []payout.Item) (map[string]payout.Result, error) {
	if p.batchErr != nil {
		return nil, p.batchErr
	}

	p.processed = items
	results := make(map[string]payout.Result, len(items))
	for i, item := range items {
		if p.omitted[item.Creator] {
			continue
		}
		if err, ok := p.failed[item.Creator]; ok {
			results[item.RewardID] = payout.Result{Err: err}
			continue
		}
		results[item.RewardID] = payout.Result{TxRef: fmt.Sprintf("0xabc%04d", i)}
	}
	return results, nil
}

type fixture struct {
	svc    *Service
	db     *gorm.DB
	payout *payoutStub
}

func newFixture(t *testing.T, agg Aggregator, addrs mapAddressBook) *fixture {
	t.Helper()

	db := testutil.NewTestDB(t, &Distribution{}, &CreatorReward{})

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	stub := &payoutStub{}

	svc := NewService(ServiceParams{
		DB:         db,
		Node:       node,
		Location:   time.UTC,
		Sequence:   &countingSequence{},
		Calculator: newTestCalculator(t, "1000.00", "0.01"),
		Aggregator: agg,
		Addresses:  addrs,
		Payout:     stub,
	})

	return &fixture{svc: svc, db: db, payout: stub}
}

func defaultAddresses() mapAddressBook {
	return mapAddressBook{
		"alice": "0x1111111111111111111111111111111111111111",
		"bob":   "0x2222222222222222222222222222222222222222",
	}
}

func TestRunCompletesDistribution(t *testing.T) {
	f := newFixture(t, staticActivities(
		activity("alice", map[interaction.Kind]int64{interaction.KindShare: 2}),
		activity("bob", map[interaction.Kind]int64{interaction.KindShare: 2}),
	), defaultAddresses())

	dist, err := f.svc.Run(context.Background())
	require.NoError(t, err)
	require.NotNil(t, dist)

	assert.Equal(t, DistributionCompleted, dist.Status)
	assert.NotEmpty(t, dist.TxRef)
	assert.NotNil(t, dist.CompletedAt)
	assert.Equal(t, "DIST-20260824-000001", dist.Code)

	var rewards []CreatorReward
	require.NoError(t, f.db.Where("distribution_id = ?", dist.ID).Order("creator_name").Find(&rewards).Error)
	require.Len(t, rewards, 2)

	for _, r := range rewards {
		assert.Equal(t, RewardSent, r.Status)
		assert.NotEmpty(t, r.TxRef)
		assert.True(t, r.RewardAmount.Equal(decimal.RequireFromString("500")), "got %s", r.RewardAmount)
	}
	assert.Equal(t, "alice", rewards[0].CreatorName)
	assert.Equal(t, defaultAddresses()["alice"], rewards[0].CreatorAddress)
}

func TestRunRejectsSecondRunSameWeek(t *testing.T) {
	f := newFixture(t, staticActivities(
		activity("alice", map[interaction.Kind]int64{interaction.KindShare: 1}),
	), defaultAddresses())

	_, err := f.svc.Run(context.Background())
	require.NoError(t, err)

	_, err = f.svc.Run(context.Background())
	assert.ErrorIs(t, err, ErrDistributionExists)

	var count int64
	require.NoError(t, f.db.Model(&Distribution{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRunNoActivityPersistsNothing(t *testing.T) {
	f := newFixture(t, staticActivities(), defaultAddresses())

	_, err := f.svc.Run(context.Background())
	assert.ErrorIs(t, err, ErrNoEligibleCreators)

	var count int64
	require.NoError(t, f.db.Model(&Distribution{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRunSkipsUnmappedCreators(t *testing.T) {
	f := newFixture(t, staticActivities(
		activity("alice", map[interaction.Kind]int64{interaction.KindShare: 2}),
		activity("ghost", map[interaction.Kind]int64{interaction.KindShare: 100}),
	), defaultAddresses())

	dist, err := f.svc.Run(context.Background())
	require.NoError(t, err)

	var rewards []CreatorReward
	require.NoError(t, f.db.Where("distribution_id = ?", dist.ID).Find(&rewards).Error)
	require.Len(t, rewards, 1)

	// ghost is excluded before normalization, so alice gets the whole pool
	// rather than her fraction of a larger total.
	assert.Equal(t, "alice", rewards[0].CreatorName)
	assert.True(t, rewards[0].RewardAmount.Equal(decimal.RequireFromString("1000")), "got %s", rewards[0].RewardAmount)
}

func TestRunAllUnmappedIsTerminal(t *testing.T) {
	f := newFixture(t, staticActivities(
		activity("ghost", map[interaction.Kind]int64{interaction.KindShare: 1}),
	), mapAddressBook{})

	_, err := f.svc.Run(context.Background())
	assert.ErrorIs(t, err, ErrNoEligibleCreators)

	var count int64
	require.NoError(t, f.db.Model(&Distribution{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRunBatchFailureMarksDistributionFailed(t *testing.T) {
	f := newFixture(t, staticActivities(
		activity("alice", map[interaction.Kind]int64{interaction.KindShare: 1}),
	), defaultAddresses())
	f.payout.batchErr = errors.New("wallet unavailable")

	_, err := f.svc.Run(context.Background())
	require.Error(t, err)

	var dist Distribution
	require.NoError(t, f.db.First(&dist).Error)
	assert.Equal(t, DistributionFailed, dist.Status)
	assert.Nil(t, dist.CompletedAt)
}

func TestRunPartialFailureMarksDistributionFailed(t *testing.T) {
	f := newFixture(t, staticActivities(
		activity("alice", map[interaction.Kind]int64{interaction.KindShare: 2}),
		activity("bob", map[interaction.Kind]int64{interaction.KindShare: 2}),
	), defaultAddresses())
	f.payout.failed = map[string]error{"bob": errors.New("transfer rejected")}

	_, err := f.svc.Run(context.Background())
	require.Error(t, err)

	var dist Distribution
	require.NoError(t, f.db.First(&dist).Error)
	assert.Equal(t, DistributionFailed, dist.Status)

	var rewards []CreatorReward
	require.NoError(t, f.db.Where("distribution_id = ?", dist.ID).Order("creator_name").Find(&rewards).Error)
	require.Len(t, rewards, 2)
	assert.Equal(t, RewardSent, rewards[0].Status)
	assert.Equal(t, RewardFailed, rewards[1].Status)
	assert.Empty(t, rewards[1].TxRef)
}

func TestRunMissingResultMarksRewardFailed(t *testing.T) {
	f := newFixture(t, staticActivities(
		activity("alice", map[interaction.Kind]int64{interaction.KindShare: 2}),
		activity("bob", map[interaction.Kind]int64{interaction.KindShare: 2}),
	), defaultAddresses())
	f.payout.omitted = map[string]bool{"bob": true}

	_, err := f.svc.Run(context.Background())
	require.Error(t, err)

	var rewards []CreatorReward
	require.NoError(t, f.db.Order("creator_name").Find(&rewards).Error)
	require.Len(t, rewards, 2)
	assert.Equal(t, RewardSent, rewards[0].Status)
	assert.Equal(t, RewardFailed, rewards[1].Status)
}

func TestRunPayoutItemsCarryRewardIDs(t *testing.T) {
	f := newFixture(t, staticActivities(
		activity("alice", map[interaction.Kind]int64{interaction.KindShare: 2}),
		activity("bob", map[interaction.Kind]int64{interaction.KindShare: 2}),
	), defaultAddresses())

	dist, err := f.svc.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, f.payout.processed, 2)
	for _, item := range f.payout.processed {
		var r CreatorReward
		require.NoError(t, f.db.Where("id = ?", item.RewardID).First(&r).Error)
		assert.Equal(t, dist.ID, r.DistributionID)
		assert.Equal(t, item.Creator, r.CreatorName)
	}
}

func TestGetStatus(t *testing.T) {
	f := newFixture(t, staticActivities(
		activity("alice", map[interaction.Kind]int64{interaction.KindShare: 2}),
		activity("bob", map[interaction.Kind]int64{interaction.KindShare: 2}),
	), defaultAddresses())

	status, err := f.svc.GetStatus(context.Background())
	require.NoError(t, err)
	assert.Nil(t, status.LatestDistribution)
	assert.Zero(t, status.Stats.TotalDistributions)
	assert.True(t, status.Stats.TotalRewardsDistributed.IsZero())

	dist, err := f.svc.Run(context.Background())
	require.NoError(t, err)

	status, err = f.svc.GetStatus(context.Background())
	require.NoError(t, err)

	require.NotNil(t, status.LatestDistribution)
	assert.Equal(t, dist.ID, status.LatestDistribution.ID)
	require.Len(t, status.LatestRewards, 2)
	assert.Len(t, status.RecentDistributions, 1)
	assert.Equal(t, int64(1), status.Stats.TotalDistributions)
	assert.Equal(t, int64(2), status.Stats.ActiveCreators)
	assert.True(t, status.Stats.TotalRewardsDistributed.Equal(decimal.RequireFromString("1000")),
		"got %s", status.Stats.TotalRewardsDistributed)
	require.NotNil(t, status.Stats.LastDistributionDate)
}

func TestGetDistribution(t *testing.T) {
	f := newFixture(t, staticActivities(
		activity("alice", map[interaction.Kind]int64{interaction.KindShare: 1}),
	), defaultAddresses())

	_, err := f.svc.GetDistribution(context.Background(), "missing")
	assert.True(t, errutil.IsStatus(err, errutil.StatusNotFound))

	dist, err := f.svc.Run(context.Background())
	require.NoError(t, err)

	loaded, err := f.svc.GetDistribution(context.Background(), dist.ID)
	require.NoError(t, err)
	assert.Len(t, loaded.Rewards, 1)
}
