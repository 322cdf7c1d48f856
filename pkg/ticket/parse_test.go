package ticket

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseTicketID(t *testing.T) {
	tests := []struct {
		name    string
		channel string
		want    int
		ok      bool
	}{
		{
			name:    "open ticket",
			channel: "ticket-bob-1",
			want:    1,
			ok:      true,
		},
		{
			name:    "closed ticket",
			channel: "geschlossen-ticket-bob-1",
			want:    1,
			ok:      true,
		},
		{
			name:    "hyphenated username",
			channel: "ticket-max-mustermann-42",
			want:    42,
			ok:      true,
		},
		{
			name:    "multi digit",
			channel: "ticket-alice-1337",
			want:    1337,
			ok:      true,
		},
		{
			name:    "not a ticket channel",
			channel: "general",
			ok:      false,
		},
		{
			name:    "missing number",
			channel: "ticket-bob",
			ok:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseTicketID(tt.channel)
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				require.Equal(t, tt.want, got)
			}
		})
	}
}

func TestChannelName(t *testing.T) {
	require.Equal(t, "ticket-bob-1", ChannelName("bob", 1))
	require.Equal(t, "ticket-max-mustermann-7", ChannelName("Max Mustermann", 7))
}

func TestClosedName(t *testing.T) {
	require.Equal(t, "geschlossen-ticket-bob-1", ClosedName("ticket-bob-1"))
}

func TestReopenedName(t *testing.T) {
	require.Equal(t, "ticket-bob-1", ReopenedName("geschlossen-ticket-bob-1"))

	// Older deployments stacked the prefix. All occurrences go.
	require.Equal(t, "ticket-bob-1", ReopenedName("geschlossen-geschlossen-ticket-bob-1"))
}

func TestNameRoundTrip(t *testing.T) {
	name := ChannelName("bob", 12)

	closed := ClosedName(name)
	id, ok := ParseTicketID(closed)
	require.True(t, ok)
	require.Equal(t, 12, id)

	require.Equal(t, name, ReopenedName(closed))
}
