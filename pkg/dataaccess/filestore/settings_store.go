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
	settingsStoreName = "settings_store"

	// SettingsFileName is the settings file relative to the data directory.
	SettingsFileName = "settings.json"
)

// SettingsStore is the file backed runtime settings store shared by the bot
// and the panel. Settings are small and re-read on every use so edits from
// the panel take effect without a restart.
type SettingsStore struct {
	// l is the logger.
	l *slog.Logger

	// path is the settings file path.
	path string
}

// NewSettingsStore creates a settings store inside the given data directory.
func NewSettingsStore(dataDir string) *SettingsStore {
	return &SettingsStore{
		l:    slog.Default().With(slog.String(logging.KeyStore, settingsStoreName)),
		path: filepath.Join(dataDir, SettingsFileName),
	}
}

// Load returns the stored settings with defaults filled in for missing
// fields. A missing or undecodable file yields the defaults.
func (s *SettingsStore) Load(ctx context.Context) (*entities.Settings, error) {
	t := observe(settingsStoreName, "load")
	defer t.ObserveDuration()

	settings := &entities.Settings{}
	if err := loadJSON(s.l, s.path, settings); err != nil {
		return nil, err
	}

	defaults := entities.DefaultSettings()
	if settings.WelcomeText == "" {
		settings.WelcomeText = defaults.WelcomeText
	}
	if len(settings.TicketCategories) == 0 {
		settings.TicketCategories = defaults.TicketCategories
	}
	if settings.TicketParentCategory == "" {
		settings.TicketParentCategory = defaults.TicketParentCategory
	}
	return settings, nil
}

// Save persists the settings.
func (s *SettingsStore) Save(ctx context.Context, settings *entities.Settings) error {
	t := observe(settingsStoreName, "save")
	defer t.ObserveDuration()

	lock, err := acquireLock(s.path)
	if err != nil {
		return fmt.Errorf("error locking settings file: %w", errors.Join(dataaccess.ErrStorage, err))
	}
	defer lock.release()

	return writeJSON(s.path, settings)
}
