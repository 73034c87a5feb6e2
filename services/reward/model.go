package reward

import (
	"time"

	"github.com/shopspring/decimal"
)

type DistributionStatus string

const (
	DistributionPending    DistributionStatus = "pending"
	DistributionProcessing DistributionStatus = "processing"
	DistributionCompleted  DistributionStatus = "completed"
	DistributionFailed     DistributionStatus = "failed"
)

type RewardStatus string

const (
	RewardPending RewardStatus = "pending"
	RewardSent    RewardStatus = "sent"
	RewardFailed  RewardStatus = "failed"
)

// Distribution is one weekly batch payout. The unique index on week_start is
// the authority for the one-distribution-per-week invariant; the pre-check in
// the executor only gives a friendlier error.
type Distribution struct {
	ID          string             `gorm:"column:id;primaryKey;type:char(26)" json:"id"`
	Code        string             `gorm:"column:code;type:varchar(32);uniqueIndex" json:"code"`
	WeekStart   time.Time          `gorm:"column:week_start;not null;uniqueIndex" json:"week_start"`
	WeekEnd     time.Time          `gorm:"column:week_end;not null" json:"week_end"`
	TotalPool   decimal.Decimal    `gorm:"column:total_pool;type:decimal(20,6);not null" json:"total_pool"`
	Status      DistributionStatus `gorm:"column:status;type:varchar(20);not null;default:'pending'" json:"status"`
	TxRef       string             `gorm:"column:tx_ref;type:varchar(80)" json:"tx_ref,omitempty"`
	CreatedAt   time.Time          `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	CompletedAt *time.Time         `gorm:"column:completed_at" json:"completed_at,omitempty"`

	Rewards []CreatorReward `gorm:"foreignKey:DistributionID;constraint:OnDelete:CASCADE" json:"rewards,omitempty"`
}

func (Distribution) TableName() string {
	return "reward_distributions"
}

// CreatorReward is one creator's share of a distribution, owned by its parent
// row. Status moves pending -> sent|failed once the payout collaborator
// reports the item's outcome.
type CreatorReward struct {
	ID               string          `gorm:"column:id;primaryKey;type:char(26)" json:"id"`
	DistributionID   string          `gorm:"column:distribution_id;type:char(26);not null;index" json:"distribution_id"`
	CreatorName      string          `gorm:"column:creator_name;type:text;not null" json:"creator_name"`
	CreatorAddress   string          `gorm:"column:creator_address;type:varchar(64);not null" json:"creator_address"`
	InteractionCount int64           `gorm:"column:interaction_count;not null" json:"interaction_count"`
	RewardWeight     decimal.Decimal `gorm:"column:reward_weight;type:decimal(20,12);not null" json:"reward_weight"`
	RewardAmount     decimal.Decimal `gorm:"column:reward_amount;type:decimal(20,6);not null" json:"reward_amount"`
	TxRef            string          `gorm:"column:tx_ref;type:varchar(80)" json:"tx_ref,omitempty"`
	Status           RewardStatus    `gorm:"column:status;type:varchar(20);not null;default:'pending'" json:"status"`
	CreatedAt        time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (CreatorReward) TableName() string {
	return "creator_rewards"
}

// WeekWindow returns the half-open window [most recent Monday 00:00, +7d)
// anchored in loc. The timezone is an explicit configuration value; week
// boundaries are meaningless without one.
func WeekWindow(now time.Time, loc *time.Location) (time.Time, time.Time) {
	local := now.In(loc)

	daysSinceMonday := (int(local.Weekday()) + 6) % 7
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc).
		AddDate(0, 0, -daysSinceMonday)

	return start, start.AddDate(0, 0, 7)
}
