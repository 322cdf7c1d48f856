package filestore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spieletreff/wachhund/pkg/entities"
)

func TestSettingsStoreDefaultsWhenMissing(t *testing.T) {
	s := NewSettingsStore(t.TempDir())

	got, err := s.Load(context.Background())
	require.NoError(t, err)

	defaults := entities.DefaultSettings()
	require.Equal(t, defaults.WelcomeText, got.WelcomeText)
	require.Equal(t, defaults.TicketCategories, got.TicketCategories)
	require.Equal(t, defaults.TicketParentCategory, got.TicketParentCategory)
	require.Empty(t, got.PanelChannelID)
}

func TestSettingsStoreRoundTrip(t *testing.T) {
	s := NewSettingsStore(t.TempDir())
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, &entities.Settings{
		WelcomeText:      "Willkommen!",
		TicketCategories: []string{"Clanwar"},
		PanelChannelID:   "chan-9",
	}))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, "Willkommen!", got.WelcomeText)
	require.Equal(t, []string{"Clanwar"}, got.TicketCategories)
	require.Equal(t, "chan-9", got.PanelChannelID)

	// Unset fields are still backfilled with defaults on load.
	require.Equal(t, entities.DefaultSettings().TicketParentCategory, got.TicketParentCategory)
}

func TestRoleCacheRoundTrip(t *testing.T) {
	s := NewRoleCache(t.TempDir())
	ctx := context.Background()

	got, err := s.Load(ctx)
	require.NoError(t, err)
	require.Empty(t, got)

	roles := []*entities.CachedRole{
		{ID: "1", Name: "Admin"},
		{ID: "2", Name: "Member"},
	}
	require.NoError(t, s.Save(ctx, roles))

	got, err = s.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, roles, got)
}
