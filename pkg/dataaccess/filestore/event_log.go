package filestore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spieletreff/wachhund/pkg/custom"
	"github.com/spieletreff/wachhund/pkg/dataaccess"
	"github.com/spieletreff/wachhund/pkg/entities"
	"github.com/spieletreff/wachhund/pkg/logging"
)

const (
	eventLogName = "event_log"

	// EventsFileName is the event log file relative to the data directory.
	EventsFileName = "logs/ticket_events.json"
)

// EventLog is the file backed lifecycle event journal. Append-only: entries
// are added to the end of the array and never changed or removed.
type EventLog struct {
	// l is the logger.
	l *slog.Logger

	// path is the event log file path.
	path string
}

// NewEventLog creates an event log inside the given data directory.
func NewEventLog(dataDir string) dataaccess.EventDal {
	return &EventLog{
		l:    slog.Default().With(slog.String(logging.KeyStore, eventLogName)),
		path: filepath.Join(dataDir, EventsFileName),
	}
}

func (s *EventLog) Append(ctx context.Context, eventType string, data map[string]any) error {
	t := observe(eventLogName, "append")
	defer t.ObserveDuration()

	lock, err := acquireLock(s.path)
	if err != nil {
		return fmt.Errorf("error locking event log: %w", errors.Join(dataaccess.ErrStorage, err))
	}
	defer lock.release()

	events := make([]*entities.Event, 0)
	if err := loadJSON(s.l, s.path, &events); err != nil {
		return errors.Join(dataaccess.ErrStorage, err)
	}

	events = append(events, &entities.Event{
		Time:      custom.Now(),
		EventType: eventType,
		Data:      data,
	})

	return writeJSON(s.path, events)
}

// List returns every logged event, oldest first.
func (s *EventLog) List(ctx context.Context) ([]*entities.Event, error) {
	t := observe(eventLogName, "list")
	defer t.ObserveDuration()

	events := make([]*entities.Event, 0)
	if err := loadJSON(s.l, s.path, &events); err != nil {
		return nil, err
	}
	return events, nil
}
