package payout

import (
	"context"
	"regexp"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var txRefPattern = regexp.MustCompile(`^0x[0-9a-f]{64}$`)

func TestMockCollaboratorProcess(t *testing.T) {
	m := NewMockCollaborator()

	items := []Item{
		{RewardID: "r1", Creator: "alice", Address: "0x1111111111111111111111111111111111111111", Amount: decimal.RequireFromString("500")},
		{RewardID: "r2", Creator: "bob", Address: "0x2222222222222222222222222222222222222222", Amount: decimal.RequireFromString("500")},
	}

	results, err := m.Process(context.Background(), items)
	require.NoError(t, err)
	require.Len(t, results, 2)

	seen := make(map[string]bool)
	for _, item := range items {
		result, ok := results[item.RewardID]
		require.True(t, ok, "missing result for %s", item.RewardID)
		assert.NoError(t, result.Err)
		assert.Regexp(t, txRefPattern, result.TxRef)
		assert.False(t, seen[result.TxRef], "duplicate tx ref")
		seen[result.TxRef] = true
	}
}

func TestMockCollaboratorCanceledContext(t *testing.T) {
	m := NewMockCollaborator()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.Process(ctx, []Item{{RewardID: "r1"}})
	assert.ErrorIs(t, err, context.Canceled)
}
