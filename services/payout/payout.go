package payout

import (
	"context"

	"github.com/shopspring/decimal"
)

// Item is one transfer request. RewardID is the correlation identifier the
// collaborator must echo back; results are never matched by position.
type Item struct {
	RewardID string
	Creator  string
	Address  string
	Amount   decimal.Decimal
}

// Result is the per-item outcome, keyed by the submitted RewardID.
type Result struct {
	TxRef string
	Err   error
}

// Collaborator moves funds for a batch of creator rewards. A returned error
// means the batch as a whole could not be submitted; per-item failures come
// back inside the result map. The call is synchronous and is not retried.
type Collaborator interface {
	Process(ctx context.Context, items []Item) (map[string]Result, error)
}
