package filestore

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spieletreff/wachhund/pkg/custom"
	"github.com/spieletreff/wachhund/pkg/dataaccess"
	"github.com/spieletreff/wachhund/pkg/entities"
)

func testTicket(id int, channelID string) *entities.Ticket {
	return &entities.Ticket{
		TicketID:    id,
		User:        "bob",
		UserID:      "100",
		ChannelID:   channelID,
		ChannelName: "ticket-bob-1",
		Category:    "Support",
		Status:      entities.StatusOpen,
		CreatedAt:   custom.Now(),
	}
}

func TestTicketStoreSaveAndList(t *testing.T) {
	dir := t.TempDir()
	s := NewTicketStore(dir)
	ctx := context.Background()

	require.NoError(t, s.SaveTicket(ctx, testTicket(1, "c1")))
	require.NoError(t, s.SaveTicket(ctx, testTicket(2, "c2")))

	got, err := s.ListTickets(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Insertion order is preserved.
	require.Equal(t, 1, got[0].TicketID)
	require.Equal(t, 2, got[1].TicketID)
}

func TestTicketStoreListEmpty(t *testing.T) {
	s := NewTicketStore(t.TempDir())

	got, err := s.ListTickets(context.Background())
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestTicketStoreGetByChannel(t *testing.T) {
	s := NewTicketStore(t.TempDir())
	ctx := context.Background()

	require.NoError(t, s.SaveTicket(ctx, testTicket(1, "c1")))

	got, err := s.GetTicketByChannel(ctx, "c1")
	require.NoError(t, err)
	require.Equal(t, 1, got.TicketID)

	_, err = s.GetTicketByChannel(ctx, "missing")
	require.ErrorIs(t, err, dataaccess.ErrNotFound)
}

func TestTicketStoreUpdateStatusByChannel(t *testing.T) {
	s := NewTicketStore(t.TempDir())
	ctx := context.Background()

	require.NoError(t, s.SaveTicket(ctx, testTicket(1, "c1")))
	require.NoError(t, s.UpdateStatusByChannel(ctx, "c1", entities.StatusClosed))

	got, err := s.GetTicketByChannel(ctx, "c1")
	require.NoError(t, err)
	require.Equal(t, entities.StatusClosed, got.Status)
}

func TestTicketStoreUpdateStatusByTicketID(t *testing.T) {
	s := NewTicketStore(t.TempDir())
	ctx := context.Background()

	require.NoError(t, s.SaveTicket(ctx, testTicket(1, "c1")))
	require.NoError(t, s.SaveTicket(ctx, testTicket(2, "c2")))

	status := entities.StatusClaimedBy("alice")
	require.NoError(t, s.UpdateStatusByTicketID(ctx, 2, status))

	got, err := s.ListTickets(ctx)
	require.NoError(t, err)
	require.Equal(t, entities.StatusOpen, got[0].Status)
	require.Equal(t, status, got[1].Status)
}

func TestTicketStoreUpdateMissIsNoOp(t *testing.T) {
	dir := t.TempDir()
	s := NewTicketStore(dir)
	ctx := context.Background()

	require.NoError(t, s.SaveTicket(ctx, testTicket(1, "c1")))

	before, err := os.Stat(filepath.Join(dir, TicketsFileName))
	require.NoError(t, err)

	require.NoError(t, s.UpdateStatusByTicketID(ctx, 99, entities.StatusClosed))
	require.NoError(t, s.UpdateStatusByChannel(ctx, "missing", entities.StatusClosed))

	// The file is not rewritten on a miss.
	after, err := os.Stat(filepath.Join(dir, TicketsFileName))
	require.NoError(t, err)
	require.Equal(t, before.ModTime(), after.ModTime())
}

func TestTicketStoreUpdateFirstMatchOnly(t *testing.T) {
	s := NewTicketStore(t.TempDir())
	ctx := context.Background()

	// Duplicate ids are not rejected on save. Updates touch the first match.
	require.NoError(t, s.SaveTicket(ctx, testTicket(1, "c1")))
	require.NoError(t, s.SaveTicket(ctx, testTicket(1, "c2")))

	require.NoError(t, s.UpdateStatusByTicketID(ctx, 1, entities.StatusClosed))

	got, err := s.ListTickets(ctx)
	require.NoError(t, err)
	require.Equal(t, entities.StatusClosed, got[0].Status)
	require.Equal(t, entities.StatusOpen, got[1].Status)
}

func TestTicketStoreCorruptFileYieldsEmpty(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, TicketsFileName)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("{nope"), 0o644))

	got, err := NewTicketStore(dir).ListTickets(context.Background())
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestTicketStoreFileFormat(t *testing.T) {
	dir := t.TempDir()
	s := NewTicketStore(dir)
	ctx := context.Background()

	require.NoError(t, s.SaveTicket(ctx, testTicket(1, "c1")))

	b, err := os.ReadFile(filepath.Join(dir, TicketsFileName))
	require.NoError(t, err)

	// A top level JSON array of ticket objects with snake_case keys.
	var raw []map[string]any
	require.NoError(t, json.Unmarshal(b, &raw))
	require.Len(t, raw, 1)
	require.Equal(t, float64(1), raw[0]["ticket_id"])
	require.Equal(t, "offen", raw[0]["status"])
	require.Equal(t, "ticket-bob-1", raw[0]["channel_name"])
	require.Contains(t, raw[0], "created_at")
}
