package lens

import (
	"context"
	"testing"

	"lenz-rewards/pkg/errutil"
	"lenz-rewards/services/testutil"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	db := testutil.NewTestDB(t, &Lens{})
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return NewService(ServiceParams{DB: db, Node: node})
}

func TestCreateAndGetLens(t *testing.T) {
	svc := newTestService(t)

	created, err := svc.CreateLens(context.Background(), &CreateLensRequest{
		ID:         "lens-1",
		Name:       "Neon Halo",
		Creator:    "alice",
		SnapLensID: "snap-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "all", created.Category)
	assert.True(t, created.IsActive)

	got, err := svc.GetLens(context.Background(), "lens-1")
	require.NoError(t, err)
	assert.Equal(t, "Neon Halo", got.Name)

	creator, err := svc.CreatorOf(context.Background(), "lens-1")
	require.NoError(t, err)
	assert.Equal(t, "alice", creator)
}

func TestCreateLensDuplicate(t *testing.T) {
	svc := newTestService(t)

	req := &CreateLensRequest{ID: "lens-1", Name: "Neon Halo", Creator: "alice", SnapLensID: "snap-1"}
	_, err := svc.CreateLens(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.CreateLens(context.Background(), req)
	assert.True(t, errutil.IsStatus(err, errutil.StatusConflict))
}

func TestGetLensNotFound(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.GetLens(context.Background(), "missing")
	assert.True(t, errutil.IsStatus(err, errutil.StatusNotFound))
}

func TestListLensesFilters(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.CreateLens(context.Background(), &CreateLensRequest{
		ID: "lens-1", Name: "a", Creator: "alice", SnapLensID: "s1", Category: "face",
	})
	require.NoError(t, err)
	_, err = svc.CreateLens(context.Background(), &CreateLensRequest{
		ID: "lens-2", Name: "b", Creator: "bob", SnapLensID: "s2", Category: "world",
	})
	require.NoError(t, err)

	all, err := svc.ListLenses(context.Background(), "all", "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	face, err := svc.ListLenses(context.Background(), "face", "")
	require.NoError(t, err)
	require.Len(t, face, 1)
	assert.Equal(t, "lens-1", face[0].ID)

	bobs, err := svc.ListLenses(context.Background(), "", "bob")
	require.NoError(t, err)
	require.Len(t, bobs, 1)
	assert.Equal(t, "lens-2", bobs[0].ID)
}
