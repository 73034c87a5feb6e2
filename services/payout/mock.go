package payout

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"go.uber.org/zap"
)

// MockCollaborator fabricates transaction references instead of touching a
// chain. It stands in for the custodial wallet integration until API keys are
// provisioned.
type MockCollaborator struct{}

func NewMockCollaborator() *MockCollaborator {
	zap.L().Info("payout collaborator running in mock mode")
	return &MockCollaborator{}
}

func (m *MockCollaborator) Process(ctx context.Context, items []Item) (map[string]Result, error) {
	results := make(map[string]Result, len(items))

	for _, item := range items {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		ref, err := mockTxRef()
		if err != nil {
			return nil, fmt.Errorf("failed to generate tx reference: %w", err)
		}

		results[item.RewardID] = Result{TxRef: ref}

		zap.L().Info("mock reward sent",
			zap.String("creator", item.Creator),
			zap.String("address", item.Address),
			zap.String("amount", item.Amount.String()),
			zap.String("tx_ref", ref),
		)
	}

	return results, nil
}

func mockTxRef() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return "0x" + hex.EncodeToString(b), nil
}
