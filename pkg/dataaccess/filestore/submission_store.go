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
	submissionStoreName = "submission_store"

	// SubmissionsFileName is the member form submissions file relative to
	// the data directory.
	SubmissionsFileName = "member_submissions.json"
)

// SubmissionStore is the file backed member form submission collection.
type SubmissionStore struct {
	// l is the logger.
	l *slog.Logger

	// path is the submissions file path.
	path string
}

// NewSubmissionStore creates a submission store inside the given data
// directory.
func NewSubmissionStore(dataDir string) *SubmissionStore {
	return &SubmissionStore{
		l:    slog.Default().With(slog.String(logging.KeyStore, submissionStoreName)),
		path: filepath.Join(dataDir, SubmissionsFileName),
	}
}

func (s *SubmissionStore) load() ([]*entities.Submission, error) {
	items := make([]*entities.Submission, 0)
	if err := loadJSON(s.l, s.path, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// List returns every submission in insertion order.
func (s *SubmissionStore) List(ctx context.Context) ([]*entities.Submission, error) {
	t := observe(submissionStoreName, "list")
	defer t.ObserveDuration()

	return s.load()
}

// ListByUsername returns the submissions of one player, oldest first by
// submission time.
func (s *SubmissionStore) ListByUsername(ctx context.Context, username string) ([]*entities.Submission, error) {
	t := observe(submissionStoreName, "list_by_username")
	defer t.ObserveDuration()

	items, err := s.load()
	if err != nil {
		return nil, err
	}

	matched := make([]*entities.Submission, 0)
	for _, item := range items {
		if item.Username == username {
			matched = append(matched, item)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].SubmittedAt.Time().Before(matched[j].SubmittedAt.Time())
	})
	return matched, nil
}

// Add appends a new submission, assigning the next sequential ID.
func (s *SubmissionStore) Add(ctx context.Context, submission *entities.Submission) (*entities.Submission, error) {
	t := observe(submissionStoreName, "add")
	defer t.ObserveDuration()

	lock, err := acquireLock(s.path)
	if err != nil {
		return nil, fmt.Errorf("error locking submissions file: %w", errors.Join(dataaccess.ErrStorage, err))
	}
	defer lock.release()

	items, err := s.load()
	if err != nil {
		return nil, errors.Join(dataaccess.ErrStorage, err)
	}

	submission.ID = len(items) + 1
	if submission.SubmittedAt.Time().IsZero() {
		submission.SubmittedAt = custom.Now()
	}
	items = append(items, submission)

	if err := writeJSON(s.path, items); err != nil {
		return nil, err
	}
	return submission, nil
}
