package filestore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spieletreff/wachhund/pkg/dataaccess"
)

func TestGenerateCode(t *testing.T) {
	code, err := GenerateCode()
	require.NoError(t, err)
	require.Len(t, code, 20)

	// The alphabet drops the ambiguous characters.
	require.NotContains(t, code, "0")
	require.NotContains(t, code, "O")
	require.NotContains(t, code, "1")
	require.NotContains(t, code, "I")

	other, err := GenerateCode()
	require.NoError(t, err)
	require.NotEqual(t, code, other)
}

func TestInviteKeyLifecycle(t *testing.T) {
	s := NewInviteKeyStore(t.TempDir())
	ctx := context.Background()

	key, err := s.Create(ctx, "admin", "für bob", "")
	require.NoError(t, err)
	require.Len(t, key.Code, 20)
	require.Equal(t, "admin", key.CreatedBy)
	require.Equal(t, "für bob", key.Note)

	ok, err := s.Validate(ctx, key.Code)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, s.MarkUsed(ctx, key.Code, "bob"))

	// A redeemed key no longer validates and cannot be redeemed twice.
	ok, err = s.Validate(ctx, key.Code)
	require.NoError(t, err)
	require.False(t, ok)
	require.ErrorIs(t, s.MarkUsed(ctx, key.Code, "alice"), dataaccess.ErrNotFound)

	keys, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, keys, 1)
	require.True(t, keys[0].Used)
	require.Equal(t, "bob", keys[0].UsedBy)
	require.NotNil(t, keys[0].UsedAt)
}

func TestInviteKeyRevoke(t *testing.T) {
	s := NewInviteKeyStore(t.TempDir())
	ctx := context.Background()

	key, err := s.Create(ctx, "admin", "", "CUSTOMCODE")
	require.NoError(t, err)
	require.Equal(t, "CUSTOMCODE", key.Code)

	require.NoError(t, s.Revoke(ctx, key.Code))

	ok, err := s.Validate(ctx, key.Code)
	require.NoError(t, err)
	require.False(t, ok)

	require.ErrorIs(t, s.Revoke(ctx, "missing"), dataaccess.ErrNotFound)
}

func TestInviteKeyRevokeUsedKeyFails(t *testing.T) {
	s := NewInviteKeyStore(t.TempDir())
	ctx := context.Background()

	key, err := s.Create(ctx, "admin", "", "")
	require.NoError(t, err)
	require.NoError(t, s.MarkUsed(ctx, key.Code, "bob"))

	// Used keys cannot be revoked.
	require.ErrorIs(t, s.Revoke(ctx, key.Code), dataaccess.ErrNotFound)
}

func TestInviteKeyValidateEmptyCode(t *testing.T) {
	s := NewInviteKeyStore(t.TempDir())

	ok, err := s.Validate(context.Background(), "  ")
	require.NoError(t, err)
	require.False(t, ok)
}
