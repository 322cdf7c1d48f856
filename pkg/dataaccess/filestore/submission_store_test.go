package filestore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spieletreff/wachhund/pkg/custom"
	"github.com/spieletreff/wachhund/pkg/entities"
)

func TestSubmissionStoreAdd(t *testing.T) {
	s := NewSubmissionStore(t.TempDir())
	ctx := context.Background()

	got, err := s.Add(ctx, &entities.Submission{
		Username: "bob",
		Data:     map[string]string{"avg_damage": "1200"},
	})
	require.NoError(t, err)
	require.Equal(t, 1, got.ID)
	require.False(t, got.SubmittedAt.Time().IsZero())

	second, err := s.Add(ctx, &entities.Submission{Username: "alice"})
	require.NoError(t, err)
	require.Equal(t, 2, second.ID)
}

func TestSubmissionStoreListByUsername(t *testing.T) {
	s := NewSubmissionStore(t.TempDir())
	ctx := context.Background()

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i, name := range []string{"bob", "alice", "bob"} {
		_, err := s.Add(ctx, &entities.Submission{
			Username:    name,
			SubmittedAt: custom.Datetime(base.Add(time.Duration(i) * time.Hour)),
			Data:        map[string]string{"n": name},
		})
		require.NoError(t, err)
	}

	got, err := s.ListByUsername(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, 1, got[0].ID)
	require.Equal(t, 3, got[1].ID)

	got, err = s.ListByUsername(ctx, "carol")
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestSubmissionStoreListByUsernameOldestFirst(t *testing.T) {
	s := NewSubmissionStore(t.TempDir())
	ctx := context.Background()

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	// Insert newest first; the listing still comes back oldest first.
	for i := 2; i >= 0; i-- {
		_, err := s.Add(ctx, &entities.Submission{
			Username:    "bob",
			SubmittedAt: custom.Datetime(base.Add(time.Duration(i) * time.Hour)),
		})
		require.NoError(t, err)
	}

	got, err := s.ListByUsername(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, got, 3)
	for i := 1; i < len(got); i++ {
		require.False(t, got[i].SubmittedAt.Time().Before(got[i-1].SubmittedAt.Time()))
	}
}
