package filestore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"

	"github.com/spieletreff/wachhund/pkg/custom"
	"github.com/spieletreff/wachhund/pkg/dataaccess"
	"github.com/spieletreff/wachhund/pkg/entities"
	"github.com/spieletreff/wachhund/pkg/logging"
)

const (
	absenceStoreName = "absence_store"

	// AbsencesFileName is the absences file relative to the data directory.
	AbsencesFileName = "absences.json"
)

// absenceFile is the on-disk shape: a running ID plus the items.
type absenceFile struct {
	LastID int                 `json:"last_id"`
	Items  []*entities.Absence `json:"items"`
}

// AbsenceStore is the file backed absence collection shared between the web
// panel (writer) and the bot's absence poster (marks entries posted).
type AbsenceStore struct {
	// l is the logger.
	l *slog.Logger

	// path is the absences file path.
	path string
}

// NewAbsenceStore creates an absence store inside the given data directory.
func NewAbsenceStore(dataDir string) *AbsenceStore {
	return &AbsenceStore{
		l:    slog.Default().With(slog.String(logging.KeyStore, absenceStoreName)),
		path: filepath.Join(dataDir, AbsencesFileName),
	}
}

func (s *AbsenceStore) load() (*absenceFile, error) {
	data := &absenceFile{Items: make([]*entities.Absence, 0)}
	if err := loadJSON(s.l, s.path, data); err != nil {
		return nil, err
	}
	return data, nil
}

// List returns all absences, newest first.
func (s *AbsenceStore) List(ctx context.Context) ([]*entities.Absence, error) {
	t := observe(absenceStoreName, "list")
	defer t.ObserveDuration()

	data, err := s.load()
	if err != nil {
		return nil, err
	}

	items := data.Items
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.Time().After(items[j].CreatedAt.Time())
	})
	return items, nil
}

// ListUnposted returns absences not yet announced, oldest first, so the
// poster announces them in submission order.
func (s *AbsenceStore) ListUnposted(ctx context.Context) ([]*entities.Absence, error) {
	t := observe(absenceStoreName, "list_unposted")
	defer t.ObserveDuration()

	data, err := s.load()
	if err != nil {
		return nil, err
	}

	pending := make([]*entities.Absence, 0)
	for _, item := range data.Items {
		if !item.Posted {
			pending = append(pending, item)
		}
	}
	sort.SliceStable(pending, func(i, j int) bool {
		return pending[i].CreatedAt.Time().Before(pending[j].CreatedAt.Time())
	})
	return pending, nil
}

// Add stores a new absence and returns it with its assigned ID.
func (s *AbsenceStore) Add(ctx context.Context, absence *entities.Absence) (*entities.Absence, error) {
	t := observe(absenceStoreName, "add")
	defer t.ObserveDuration()

	lock, err := acquireLock(s.path)
	if err != nil {
		return nil, fmt.Errorf("error locking absences file: %w", errors.Join(dataaccess.ErrStorage, err))
	}
	defer lock.release()

	data, err := s.load()
	if err != nil {
		return nil, errors.Join(dataaccess.ErrStorage, err)
	}

	data.LastID++
	absence.ID = data.LastID
	absence.CreatedAt = custom.Now()
	absence.Posted = false
	data.Items = append(data.Items, absence)

	if err := writeJSON(s.path, data); err != nil {
		return nil, err
	}
	return absence, nil
}

// MarkPosted flags an absence as announced, recording where.
func (s *AbsenceStore) MarkPosted(ctx context.Context, id int, channelID, messageID string) error {
	t := observe(absenceStoreName, "mark_posted")
	defer t.ObserveDuration()

	lock, err := acquireLock(s.path)
	if err != nil {
		return fmt.Errorf("error locking absences file: %w", errors.Join(dataaccess.ErrStorage, err))
	}
	defer lock.release()

	data, err := s.load()
	if err != nil {
		return errors.Join(dataaccess.ErrStorage, err)
	}

	changed := false
	for _, item := range data.Items {
		if item.ID == id {
			now := custom.Now()
			item.Posted = true
			item.PostedAt = &now
			item.ChannelID = channelID
			item.MessageID = messageID
			changed = true
			break
		}
	}
	if !changed {
		return nil
	}

	return writeJSON(s.path, data)
}

// Delete removes an absence. Returns ErrNotFound when no entry matched.
func (s *AbsenceStore) Delete(ctx context.Context, id int) error {
	t := observe(absenceStoreName, "delete")
	defer t.ObserveDuration()

	lock, err := acquireLock(s.path)
	if err != nil {
		return fmt.Errorf("error locking absences file: %w", errors.Join(dataaccess.ErrStorage, err))
	}
	defer lock.release()

	data, err := s.load()
	if err != nil {
		return errors.Join(dataaccess.ErrStorage, err)
	}

	kept := make([]*entities.Absence, 0, len(data.Items))
	for _, item := range data.Items {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	if len(kept) == len(data.Items) {
		return dataaccess.ErrNotFound
	}
	data.Items = kept

	return writeJSON(s.path, data)
}
