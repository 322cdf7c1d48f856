package filestore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spieletreff/wachhund/pkg/dataaccess"
	"github.com/spieletreff/wachhund/pkg/entities"
)

func TestAbsenceStoreAddAssignsIDs(t *testing.T) {
	s := NewAbsenceStore(t.TempDir())
	ctx := context.Background()

	first, err := s.Add(ctx, &entities.Absence{UserDisplay: "bob", Reason: "Urlaub"})
	require.NoError(t, err)
	require.Equal(t, 1, first.ID)
	require.False(t, first.Posted)

	second, err := s.Add(ctx, &entities.Absence{UserDisplay: "alice", Reason: "krank"})
	require.NoError(t, err)
	require.Equal(t, 2, second.ID)
}

func TestAbsenceStoreIDsSurviveDeletes(t *testing.T) {
	s := NewAbsenceStore(t.TempDir())
	ctx := context.Background()

	first, err := s.Add(ctx, &entities.Absence{UserDisplay: "bob"})
	require.NoError(t, err)
	require.NoError(t, s.Delete(ctx, first.ID))

	// The running ID keeps counting, deleted ids are never reused.
	second, err := s.Add(ctx, &entities.Absence{UserDisplay: "alice"})
	require.NoError(t, err)
	require.Equal(t, 2, second.ID)
}

func TestAbsenceStoreMarkPosted(t *testing.T) {
	s := NewAbsenceStore(t.TempDir())
	ctx := context.Background()

	a, err := s.Add(ctx, &entities.Absence{UserDisplay: "bob"})
	require.NoError(t, err)

	pending, err := s.ListUnposted(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	require.NoError(t, s.MarkPosted(ctx, a.ID, "chan-1", "msg-1"))

	pending, err = s.ListUnposted(ctx)
	require.NoError(t, err)
	require.Empty(t, pending)

	all, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.True(t, all[0].Posted)
	require.NotNil(t, all[0].PostedAt)
	require.Equal(t, "chan-1", all[0].ChannelID)
	require.Equal(t, "msg-1", all[0].MessageID)
}

func TestAbsenceStoreMarkPostedMissIsNoOp(t *testing.T) {
	s := NewAbsenceStore(t.TempDir())

	require.NoError(t, s.MarkPosted(context.Background(), 42, "chan", "msg"))
}

func TestAbsenceStoreDelete(t *testing.T) {
	s := NewAbsenceStore(t.TempDir())
	ctx := context.Background()

	a, err := s.Add(ctx, &entities.Absence{UserDisplay: "bob"})
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, a.ID))
	require.ErrorIs(t, s.Delete(ctx, a.ID), dataaccess.ErrNotFound)

	all, err := s.List(ctx)
	require.NoError(t, err)
	require.Empty(t, all)
}

func TestAbsenceStoreListUnpostedOldestFirst(t *testing.T) {
	s := NewAbsenceStore(t.TempDir())
	ctx := context.Background()

	for _, name := range []string{"bob", "alice", "carol"} {
		_, err := s.Add(ctx, &entities.Absence{UserDisplay: name})
		require.NoError(t, err)
	}

	pending, err := s.ListUnposted(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 3)
	require.Equal(t, "bob", pending[0].UserDisplay)
	require.Equal(t, "carol", pending[2].UserDisplay)
}
