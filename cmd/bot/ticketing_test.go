package main

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/stretchr/testify/require"

	"github.com/spieletreff/wachhund/pkg/entities"
)

func buttonStates(row discordgo.ActionsRow) map[string]bool {
	states := make(map[string]bool, len(row.Components))
	for _, comp := range row.Components {
		button := comp.(discordgo.Button)
		states[button.CustomID] = button.Disabled
	}
	return states
}

func TestTicketActionRow(t *testing.T) {
	tests := []struct {
		name   string
		status string
		want   map[string]bool // custom ID -> disabled
	}{
		{
			name:   "open",
			status: entities.StatusOpen,
			want: map[string]bool{
				ClaimTicketButtonID:  false,
				CloseTicketButtonID:  false,
				ReopenTicketButtonID: true,
			},
		},
		{
			// A claimed ticket cannot be claimed again, only closed.
			name:   "claimed",
			status: entities.StatusClaimedBy("alice"),
			want: map[string]bool{
				ClaimTicketButtonID:  true,
				CloseTicketButtonID:  false,
				ReopenTicketButtonID: true,
			},
		},
		{
			name:   "closed",
			status: entities.StatusClosed,
			want: map[string]bool{
				ClaimTicketButtonID:  true,
				CloseTicketButtonID:  true,
				ReopenTicketButtonID: false,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, buttonStates(ticketActionRow(tt.status)))
		})
	}
}

func TestAbsenceEmbed(t *testing.T) {
	got := absenceEmbed(&entities.Absence{
		UserDisplay: "bob",
		StartDate:   "2024-05-01",
		EndDate:     "2024-05-07",
		Reason:      "Urlaub",
		SubmittedBy: "alice",
	})
	require.Equal(t, "📢 Abwesenheitsmeldung", got.Title)
	require.Len(t, got.Fields, 3)
	require.Equal(t, "bob", got.Fields[0].Value)
	require.Equal(t, "2024-05-01 bis 2024-05-07", got.Fields[1].Value)
	require.Equal(t, "Urlaub", got.Fields[2].Value)
	require.Equal(t, "Eingereicht von: alice", got.Footer.Text)

	// Missing reason and submitter fall back to placeholders.
	got = absenceEmbed(&entities.Absence{UserDisplay: "bob"})
	require.Equal(t, "—", got.Fields[2].Value)
	require.Equal(t, "Eingereicht von: Web-Panel", got.Footer.Text)

	// Over-long reasons are truncated to the embed field limit.
	long := strings.Repeat("x", 2000)
	got = absenceEmbed(&entities.Absence{UserDisplay: "bob", Reason: long})
	require.Len(t, got.Fields[2].Value, maxReasonFieldLength)

	// Truncation must not split a multi-byte character.
	long = strings.Repeat("ü", 2000)
	got = absenceEmbed(&entities.Absence{UserDisplay: "bob", Reason: long})
	require.True(t, utf8.ValidString(got.Fields[2].Value))
	require.LessOrEqual(t, len(got.Fields[2].Value), maxReasonFieldLength)
	require.True(t, strings.HasSuffix(got.Fields[2].Value, "..."))
}
