package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spieletreff/wachhund/pkg/entities"
	"github.com/spieletreff/wachhund/pkg/logging"
)

// roleCacheInterval is how often the guild role snapshot is refreshed.
const roleCacheInterval = 10 * time.Minute

// roleCacher periodically snapshots the roles of every joined guild into the
// role cache file. The web panel reads the snapshot instead of talking to
// Discord itself.
func (a *App) roleCacher(ctx context.Context) {
	ticker := time.NewTicker(roleCacheInterval)
	defer ticker.Stop()

	for {
		if err := a.cacheRoles(ctx); err != nil {
			a.Error("Error caching roles", slog.String(logging.KeyError, err.Error()))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (a *App) cacheRoles(ctx context.Context) error {
	guilds, err := a.GetJoinedGuilds()
	if err != nil {
		return err
	}

	cached := make([]*entities.CachedRole, 0)
	for _, guild := range guilds {
		roles, err := a.s.GuildRoles(guild.ID)
		if err != nil {
			return fmt.Errorf("error getting roles for guild %s: %w", guild.ID, err)
		}
		for _, role := range roles {
			// Skip integration-managed roles and @everyone; neither is
			// assignable through the panel.
			if role.Managed || role.Name == "@everyone" {
				continue
			}
			cached = append(cached, &entities.CachedRole{
				ID:   role.ID,
				Name: role.Name,
			})
		}
	}

	if err := a.roles.Save(ctx, cached); err != nil {
		return fmt.Errorf("error saving role cache: %w", err)
	}

	a.Debug("Refreshed role cache", slog.Int("roles", len(cached)))
	return nil
}
