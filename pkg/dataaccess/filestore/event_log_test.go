package filestore

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spieletreff/wachhund/pkg/entities"
)

func TestEventLogAppendOnly(t *testing.T) {
	s := NewEventLog(t.TempDir())
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, entities.EventTicketCreated, map[string]any{"ticket_id": 1}))
	require.NoError(t, s.Append(ctx, entities.EventTicketClosed, map[string]any{"ticket_id": 1, "reason": "erledigt"}))

	got, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)

	require.Equal(t, entities.EventTicketCreated, got[0].EventType)
	require.Equal(t, entities.EventTicketClosed, got[1].EventType)
	require.Equal(t, "erledigt", got[1].Data["reason"])
	require.False(t, got[0].Time.Time().IsZero())
}

func TestEventLogFileFormat(t *testing.T) {
	dir := t.TempDir()
	s := NewEventLog(dir)

	require.NoError(t, s.Append(context.Background(), entities.EventTicketReopened, map[string]any{"ticket_id": 3}))

	b, err := os.ReadFile(filepath.Join(dir, EventsFileName))
	require.NoError(t, err)

	// A top level array of {time, event_type, data} objects.
	var raw []map[string]any
	require.NoError(t, json.Unmarshal(b, &raw))
	require.Len(t, raw, 1)
	require.Contains(t, raw[0], "time")
	require.Equal(t, "ticket_reopened", raw[0]["event_type"])
	require.Equal(t, float64(3), raw[0]["data"].(map[string]any)["ticket_id"])
}

func TestEventLogListEmpty(t *testing.T) {
	s := NewEventLog(t.TempDir())

	got, err := s.List(context.Background())
	require.NoError(t, err)
	require.Empty(t, got)
}
