package reward

import (
	"lenz-rewards/pkg/config"
	"lenz-rewards/pkg/errutil"
	"lenz-rewards/services/interaction"

	"github.com/shopspring/decimal"
)

// Relative value of each interaction kind. Cheap, passive actions earn less
// than costly engagement signals; the table is fixed, not caller input.
var interactionWeights = map[interaction.Kind]int64{
	interaction.KindApply:    1,
	interaction.KindDownload: 2,
	interaction.KindCapture:  3,
	interaction.KindShare:    5,
}

const amountScale = 6 // USDC precision
const weightScale = 12

// Candidate is one creator's computed share before any row is persisted.
type Candidate struct {
	CreatorName      string
	CreatorAddress   string
	InteractionCount int64
	Weight           decimal.Decimal
	Amount           decimal.Decimal
}

// Calculator turns per-creator activity into payout candidates. It is a pure
// function of its inputs plus the weight table and the two configured
// constants, so re-running identical inputs yields identical output.
type Calculator struct {
	pool      decimal.Decimal
	minPayout decimal.Decimal
}

func NewCalculator(cfg *config.Config) (*Calculator, error) {
	pool, err := decimal.NewFromString(cfg.Rewards.PoolAmount)
	if err != nil {
		return nil, errutil.BadRequest("invalid rewards pool amount", err)
	}
	if pool.Sign() <= 0 {
		return nil, errutil.BadRequest("rewards pool amount must be positive", nil)
	}

	minPayout, err := decimal.NewFromString(cfg.Rewards.MinPayout)
	if err != nil {
		return nil, errutil.BadRequest("invalid rewards minimum payout", err)
	}

	return &Calculator{pool: pool, minPayout: minPayout}, nil
}

func (c *Calculator) Pool() decimal.Decimal {
	return c.pool
}

// Score sums the weighted interaction counts for one creator.
func (c *Calculator) Score(activity *interaction.CreatorActivity) int64 {
	var score int64
	for kind, count := range activity.CountsByKind {
		weight, ok := interactionWeights[kind]
		if !ok {
			weight = 1
		}
		score += count * weight
	}
	return score
}

// Calculate normalizes weighted scores into pool shares. Amounts are
// truncated (never rounded up) at USDC precision so the sum of all payouts
// can never exceed the pool; candidates under the dust threshold are dropped
// after normalization, mirroring the original payout rules.
//
// The input is the activity list joined with each creator's payout address;
// unmapped creators must already have been filtered out by the caller.
func (c *Calculator) Calculate(activities []*interaction.CreatorActivity, addresses map[string]string) ([]Candidate, error) {
	var totalScore int64
	scores := make([]int64, len(activities))
	for i, activity := range activities {
		scores[i] = c.Score(activity)
		totalScore += scores[i]
	}

	if totalScore == 0 {
		return nil, ErrNoEligibleCreators
	}

	totalDec := decimal.NewFromInt(totalScore)

	candidates := make([]Candidate, 0, len(activities))
	for i, activity := range activities {
		if scores[i] == 0 {
			continue
		}

		scoreDec := decimal.NewFromInt(scores[i])
		weight := scoreDec.DivRound(totalDec, weightScale)
		amount := c.pool.Mul(scoreDec).Div(totalDec).Truncate(amountScale)

		if amount.LessThan(c.minPayout) {
			continue
		}

		candidates = append(candidates, Candidate{
			CreatorName:      activity.Creator,
			CreatorAddress:   addresses[activity.Creator],
			InteractionCount: activity.TotalInteractions,
			Weight:           weight,
			Amount:           amount,
		})
	}

	if len(candidates) == 0 {
		return nil, ErrNoEligibleCreators
	}

	return candidates, nil
}
