package filestore

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spieletreff/wachhund/pkg/custom"
	"github.com/spieletreff/wachhund/pkg/dataaccess"
	"github.com/spieletreff/wachhund/pkg/entities"
	"github.com/spieletreff/wachhund/pkg/logging"
)

const (
	inviteStoreName = "invite_store"

	// InviteKeysFileName is the invite keys file relative to the data
	// directory.
	InviteKeysFileName = "invite_keys.json"

	// codeLength is the length of generated invite codes.
	codeLength = 20

	// codeAlphabet avoids the ambiguous characters 0, O, 1 and I.
	codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

// inviteFile is the on-disk shape.
type inviteFile struct {
	Items []*entities.InviteKey `json:"items"`
}

// InviteKeyStore is the file backed registration key collection.
type InviteKeyStore struct {
	// l is the logger.
	l *slog.Logger

	// path is the invite keys file path.
	path string
}

// NewInviteKeyStore creates an invite key store inside the given data
// directory.
func NewInviteKeyStore(dataDir string) *InviteKeyStore {
	return &InviteKeyStore{
		l:    slog.Default().With(slog.String(logging.KeyStore, inviteStoreName)),
		path: filepath.Join(dataDir, InviteKeysFileName),
	}
}

// GenerateCode returns a new random invite code.
func GenerateCode() (string, error) {
	var b strings.Builder
	for i := 0; i < codeLength; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(codeAlphabet))))
		if err != nil {
			return "", fmt.Errorf("error generating invite code: %w", err)
		}
		b.WriteByte(codeAlphabet[n.Int64()])
	}
	return b.String(), nil
}

func (s *InviteKeyStore) load() (*inviteFile, error) {
	data := &inviteFile{Items: make([]*entities.InviteKey, 0)}
	if err := loadJSON(s.l, s.path, data); err != nil {
		return nil, err
	}
	return data, nil
}

// List returns all keys, newest first.
func (s *InviteKeyStore) List(ctx context.Context) ([]*entities.InviteKey, error) {
	t := observe(inviteStoreName, "list")
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

// Create stores a new key. When code is empty a random one is generated.
func (s *InviteKeyStore) Create(ctx context.Context, createdBy, note, code string) (*entities.InviteKey, error) {
	t := observe(inviteStoreName, "create")
	defer t.ObserveDuration()

	if code == "" {
		var err error
		code, err = GenerateCode()
		if err != nil {
			return nil, err
		}
	}

	lock, err := acquireLock(s.path)
	if err != nil {
		return nil, fmt.Errorf("error locking invite keys file: %w", errors.Join(dataaccess.ErrStorage, err))
	}
	defer lock.release()

	data, err := s.load()
	if err != nil {
		return nil, errors.Join(dataaccess.ErrStorage, err)
	}

	key := &entities.InviteKey{
		Code:      code,
		CreatedBy: createdBy,
		CreatedAt: custom.Now(),
		Note:      strings.TrimSpace(note),
	}
	data.Items = append(data.Items, key)

	if err := writeJSON(s.path, data); err != nil {
		return nil, err
	}
	return key, nil
}

// Revoke marks an unused key as revoked. Returns ErrNotFound when there is
// no unused key with that code.
func (s *InviteKeyStore) Revoke(ctx context.Context, code string) error {
	t := observe(inviteStoreName, "revoke")
	defer t.ObserveDuration()

	lock, err := acquireLock(s.path)
	if err != nil {
		return fmt.Errorf("error locking invite keys file: %w", errors.Join(dataaccess.ErrStorage, err))
	}
	defer lock.release()

	data, err := s.load()
	if err != nil {
		return errors.Join(dataaccess.ErrStorage, err)
	}

	for _, item := range data.Items {
		if item.Code == code && !item.Used {
			item.Revoked = true
			return writeJSON(s.path, data)
		}
	}
	return dataaccess.ErrNotFound
}

// Validate reports whether the code belongs to a usable key.
func (s *InviteKeyStore) Validate(ctx context.Context, code string) (bool, error) {
	t := observe(inviteStoreName, "validate")
	defer t.ObserveDuration()

	code = strings.TrimSpace(code)
	if code == "" {
		return false, nil
	}

	data, err := s.load()
	if err != nil {
		return false, err
	}

	for _, item := range data.Items {
		if item.Code == code && item.Usable() {
			return true, nil
		}
	}
	return false, nil
}

// MarkUsed redeems a usable key for the given username. Returns ErrNotFound
// when there is no usable key with that code.
func (s *InviteKeyStore) MarkUsed(ctx context.Context, code, username string) error {
	t := observe(inviteStoreName, "mark_used")
	defer t.ObserveDuration()

	lock, err := acquireLock(s.path)
	if err != nil {
		return fmt.Errorf("error locking invite keys file: %w", errors.Join(dataaccess.ErrStorage, err))
	}
	defer lock.release()

	data, err := s.load()
	if err != nil {
		return errors.Join(dataaccess.ErrStorage, err)
	}

	for _, item := range data.Items {
		if item.Code == code && item.Usable() {
			now := custom.Now()
			item.Used = true
			item.UsedBy = username
			item.UsedAt = &now
			return writeJSON(s.path, data)
		}
	}
	return dataaccess.ErrNotFound
}
