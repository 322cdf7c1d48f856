package filestore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spieletreff/wachhund/pkg/entities"
)

// The ticket store and the event log live in subdirectories of the data
// directory; the very first write must create them.
func TestStoresWriteOnFreshDataDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	ctx := context.Background()

	tickets := NewTicketStore(dir)
	require.NoError(t, tickets.SaveTicket(ctx, testTicket(1, "c1")))

	events := NewEventLog(dir)
	require.NoError(t, events.Append(ctx, entities.EventTicketCreated, map[string]any{"ticket_id": 1}))

	counter := NewCounter(dir)
	n, err := counter.Next(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, n)
}
