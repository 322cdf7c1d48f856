package filestore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spieletreff/wachhund/pkg/dataaccess"
	"github.com/spieletreff/wachhund/pkg/entities"
	"github.com/spieletreff/wachhund/pkg/logging"
)

const (
	roleCacheName = "role_cache"

	// RolesCacheFileName is the role cache file relative to the data
	// directory.
	RolesCacheFileName = "roles_cache.json"
)

// RoleCache is the file backed snapshot of the guild's roles, refreshed by
// the bot and read by the panel.
type RoleCache struct {
	// l is the logger.
	l *slog.Logger

	// path is the role cache file path.
	path string
}

// NewRoleCache creates a role cache inside the given data directory.
func NewRoleCache(dataDir string) *RoleCache {
	return &RoleCache{
		l:    slog.Default().With(slog.String(logging.KeyStore, roleCacheName)),
		path: filepath.Join(dataDir, RolesCacheFileName),
	}
}

// Save replaces the cached role list.
func (s *RoleCache) Save(ctx context.Context, roles []*entities.CachedRole) error {
	t := observe(roleCacheName, "save")
	defer t.ObserveDuration()

	lock, err := acquireLock(s.path)
	if err != nil {
		return fmt.Errorf("error locking role cache: %w", errors.Join(dataaccess.ErrStorage, err))
	}
	defer lock.release()

	return writeJSON(s.path, roles)
}

// Load returns the cached role list, empty when nothing has been cached yet.
func (s *RoleCache) Load(ctx context.Context) ([]*entities.CachedRole, error) {
	t := observe(roleCacheName, "load")
	defer t.ObserveDuration()

	roles := make([]*entities.CachedRole, 0)
	if err := loadJSON(s.l, s.path, &roles); err != nil {
		return nil, err
	}
	return roles, nil
}
