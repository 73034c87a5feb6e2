package interaction

import (
	"context"
	"testing"
	"time"

	"lenz-rewards/services/lens"
	"lenz-rewards/services/testutil"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAggregateFixture(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	db := testutil.NewTestDB(t, &lens.Lens{}, &Interaction{})

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return NewService(ServiceParams{DB: db, Node: node}), db
}

func seedLens(t *testing.T, db *gorm.DB, id, creator string) {
	t.Helper()
	require.NoError(t, db.Create(&lens.Lens{
		ID:         id,
		Name:       id,
		Creator:    creator,
		SnapLensID: "snap-" + id,
		IsActive:   true,
	}).Error)
}

func seedInteraction(t *testing.T, db *gorm.DB, node *snowflake.Node, lensID string, kind Kind, at time.Time) {
	t.Helper()
	require.NoError(t, db.Create(&Interaction{
		ID:        node.Generate().String(),
		LensID:    lensID,
		Kind:      kind,
		CreatedAt: at,
	}).Error)
}

func TestAggregateWindow(t *testing.T) {
	svc, db := newAggregateFixture(t)
	node, err := snowflake.NewNode(2)
	require.NoError(t, err)

	seedLens(t, db, "lens-a1", "alice")
	seedLens(t, db, "lens-a2", "alice")
	seedLens(t, db, "lens-b1", "bob")

	weekStart := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
	weekEnd := weekStart.AddDate(0, 0, 7)
	inside := weekStart.Add(24 * time.Hour)

	seedInteraction(t, db, node, "lens-a1", KindApply, inside)
	seedInteraction(t, db, node, "lens-a1", KindApply, inside.Add(time.Hour))
	seedInteraction(t, db, node, "lens-a1", KindShare, inside)
	seedInteraction(t, db, node, "lens-a2", KindCapture, inside)
	seedInteraction(t, db, node, "lens-b1", KindDownload, inside)

	// outside the half-open window on both sides
	seedInteraction(t, db, node, "lens-a1", KindShare, weekStart.Add(-time.Second))
	seedInteraction(t, db, node, "lens-b1", KindShare, weekEnd)

	activities, err := svc.AggregateWindow(context.Background(), weekStart, weekEnd)
	require.NoError(t, err)
	require.Len(t, activities, 2)

	alice := activities[0]
	assert.Equal(t, "alice", alice.Creator)
	assert.Equal(t, int64(4), alice.TotalInteractions)
	assert.Equal(t, int64(2), alice.CountsByKind[KindApply])
	assert.Equal(t, int64(1), alice.CountsByKind[KindShare])
	assert.Equal(t, int64(1), alice.CountsByKind[KindCapture])
	assert.Len(t, alice.LensIDs, 2)

	bob := activities[1]
	assert.Equal(t, "bob", bob.Creator)
	assert.Equal(t, int64(1), bob.TotalInteractions)
	assert.Equal(t, int64(1), bob.CountsByKind[KindDownload])
}

func TestAggregateWindowIgnoresOrphans(t *testing.T) {
	svc, db := newAggregateFixture(t)
	node, err := snowflake.NewNode(2)
	require.NoError(t, err)

	weekStart := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
	seedInteraction(t, db, node, "no-such-lens", KindApply, weekStart.Add(time.Hour))

	activities, err := svc.AggregateWindow(context.Background(), weekStart, weekStart.AddDate(0, 0, 7))
	require.NoError(t, err)
	assert.Empty(t, activities)
}

func TestAggregateWindowInvalidRange(t *testing.T) {
	svc, _ := newAggregateFixture(t)

	now := time.Now()
	_, err := svc.AggregateWindow(context.Background(), now, now)
	assert.Error(t, err)
}

func TestTrackRejectsUnknownKind(t *testing.T) {
	svc, _ := newAggregateFixture(t)

	_, err := svc.Track(context.Background(), &TrackRequest{LensID: "lens-a1", Kind: Kind("poke")})
	assert.Error(t, err)
}

func TestTrackAndRecent(t *testing.T) {
	svc, _ := newAggregateFixture(t)

	_, err := svc.Track(context.Background(), &TrackRequest{LensID: "lens-a1", Kind: KindApply})
	require.NoError(t, err)

	records, err := svc.Recent(context.Background(), "lens-a1", 0)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}
