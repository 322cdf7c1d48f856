package ticket

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spieletreff/wachhund/pkg/dataaccess"
	"github.com/spieletreff/wachhund/pkg/entities"
)

type fakeCounter struct {
	n   int
	err error
}

func (f *fakeCounter) Next(_ context.Context) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.n++
	return f.n, nil
}

type fakeTickets struct {
	saved   []*entities.Ticket
	updates []string // "id:<n>=<status>" and "channel:<id>=<status>"
	saveErr error
}

func (f *fakeTickets) SaveTicket(_ context.Context, t *entities.Ticket) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, t)
	return nil
}

func (f *fakeTickets) UpdateStatusByChannel(_ context.Context, channelID, status string) error {
	f.updates = append(f.updates, "channel:"+channelID+"="+status)
	for _, t := range f.saved {
		if t.ChannelID == channelID {
			t.Status = status
		}
	}
	return nil
}

func (f *fakeTickets) UpdateStatusByTicketID(_ context.Context, ticketID int, status string) error {
	f.updates = append(f.updates, "id:"+strconv.Itoa(ticketID)+"="+status)
	for _, t := range f.saved {
		if t.TicketID == ticketID {
			t.Status = status
		}
	}
	return nil
}

func (f *fakeTickets) GetTicketByChannel(_ context.Context, channelID string) (*entities.Ticket, error) {
	for _, t := range f.saved {
		if t.ChannelID == channelID {
			return t, nil
		}
	}
	return nil, dataaccess.ErrNotFound
}

func (f *fakeTickets) ListTickets(_ context.Context) ([]*entities.Ticket, error) {
	return f.saved, nil
}


type loggedEvent struct {
	eventType string
	data      map[string]any
}

type fakeEvents struct {
	events []loggedEvent
}

func (f *fakeEvents) Append(_ context.Context, eventType string, data map[string]any) error {
	f.events = append(f.events, loggedEvent{eventType: eventType, data: data})
	return nil
}

func (f *fakeEvents) List(_ context.Context) ([]*entities.Event, error) {
	return nil, nil
}

type fakeProvisioner struct {
	nextID string
	err    error
	got    []ProvisionRequest
}

func (f *fakeProvisioner) CreateTicketChannel(_ context.Context, req ProvisionRequest) (*Provisioned, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.got = append(f.got, req)
	return &Provisioned{ChannelID: f.nextID, WelcomeMessageID: "msg-" + f.nextID}, nil
}

type fakeChannels struct {
	renames map[string]string
	err     error
}

func (f *fakeChannels) EditChannel(_ context.Context, channelID, name string) error {
	if f.err != nil {
		return f.err
	}
	if f.renames == nil {
		f.renames = make(map[string]string)
	}
	f.renames[channelID] = name
	return nil
}

func newTestMachine() (*Machine, *fakeTickets, *fakeEvents, *fakeCounter, *fakeProvisioner, *fakeChannels) {
	tickets := new(fakeTickets)
	events := new(fakeEvents)
	counter := new(fakeCounter)
	prov := &fakeProvisioner{nextID: "chan-1"}
	channels := new(fakeChannels)
	return NewMachine(tickets, events, counter, prov, channels), tickets, events, counter, prov, channels
}

var (
	bob   = Identity{ID: "100", Username: "bob", DisplayName: "bob"}
	alice = Identity{ID: "200", Username: "alice", DisplayName: "alice"}
)

func TestMachineCreate(t *testing.T) {
	m, tickets, events, _, prov, _ := newTestMachine()

	got, err := m.Create(context.Background(), CreateRequest{
		GuildID:   "g1",
		Category:  "Support",
		Requester: bob,
	})
	require.NoError(t, err)

	require.Equal(t, 1, got.TicketID)
	require.Equal(t, entities.StatusOpen, got.Status)
	require.Equal(t, "ticket-bob-1", got.ChannelName)
	require.Equal(t, "chan-1", got.ChannelID)
	require.Equal(t, "Support", got.Category)
	require.Equal(t, "100", got.UserID)
	require.Equal(t, "msg-chan-1", got.WelcomeMessageID)

	require.Len(t, prov.got, 1)
	require.Equal(t, "ticket-bob-1", prov.got[0].Name)
	require.Equal(t, 1, prov.got[0].TicketID)

	require.Len(t, tickets.saved, 1)
	require.Len(t, events.events, 1)
	require.Equal(t, entities.EventTicketCreated, events.events[0].eventType)
	require.Equal(t, 1, events.events[0].data["ticket_id"])
}

func TestMachineCreateNumbersMonotonic(t *testing.T) {
	m, _, _, _, _, _ := newTestMachine()

	for i := 1; i <= 3; i++ {
		got, err := m.Create(context.Background(), CreateRequest{Requester: bob, Category: "Support"})
		require.NoError(t, err)
		require.Equal(t, i, got.TicketID)
	}
}

func TestMachineCreateProvisionFailure(t *testing.T) {
	m, tickets, events, _, prov, _ := newTestMachine()
	prov.err = errors.New("discord says no")

	_, err := m.Create(context.Background(), CreateRequest{Requester: bob})
	require.ErrorIs(t, err, ErrExternalResource)

	// Nothing persisted, nothing logged. The consumed number is the only trace.
	require.Empty(t, tickets.saved)
	require.Empty(t, events.events)
}

func TestMachineCreateCounterFailure(t *testing.T) {
	m, _, _, counter, prov, _ := newTestMachine()
	counter.err = dataaccess.ErrStorage

	_, err := m.Create(context.Background(), CreateRequest{Requester: bob})
	require.ErrorIs(t, err, dataaccess.ErrStorage)
	require.Empty(t, prov.got)
}

func TestMachineClaim(t *testing.T) {
	m, tickets, events, _, _, _ := newTestMachine()

	created, err := m.Create(context.Background(), CreateRequest{Requester: bob, Category: "Support"})
	require.NoError(t, err)

	got, err := m.Claim(context.Background(), ClaimRequest{
		ChannelID:   created.ChannelID,
		ChannelName: created.ChannelName,
		Actor:       alice,
	})
	require.NoError(t, err)
	require.Equal(t, "Geclaimt von alice", got.Status)
	require.Equal(t, created.TicketID, got.TicketID)
	require.Equal(t, "Geclaimt von alice", tickets.saved[0].Status)

	// The claim event keeps the creation event type for log compatibility.
	last := events.events[len(events.events)-1]
	require.Equal(t, entities.EventTicketCreated, last.eventType)
	require.Equal(t, "200", last.data["user_id"])
}

func TestMachineCloseByOwner(t *testing.T) {
	m, tickets, events, _, _, channels := newTestMachine()

	created, err := m.Create(context.Background(), CreateRequest{Requester: bob, Category: "Support"})
	require.NoError(t, err)

	got, err := m.Close(context.Background(), TransitionRequest{
		ChannelID:   created.ChannelID,
		ChannelName: created.ChannelName,
		Opener:      bob,
		Actor:       bob,
		Reason:      "erledigt",
	})
	require.NoError(t, err)
	require.Equal(t, "geschlossen-ticket-bob-1", got.ChannelName)
	require.Equal(t, entities.StatusClosed, got.Status)

	require.Equal(t, "geschlossen-ticket-bob-1", channels.renames[created.ChannelID])
	require.Equal(t, entities.StatusClosed, tickets.saved[0].Status)

	// Status is written under both indexes.
	require.Contains(t, tickets.updates, "id:1="+entities.StatusClosed)
	require.Contains(t, tickets.updates, "channel:chan-1="+entities.StatusClosed)

	types := make([]string, 0, len(events.events))
	for _, e := range events.events {
		types = append(types, e.eventType)
	}
	require.Contains(t, types, entities.EventTicketStatusUpdated)
	require.Contains(t, types, entities.EventTicketClosed)

	last := events.events[len(events.events)-1]
	require.Equal(t, entities.EventTicketClosed, last.eventType)
	require.Equal(t, "erledigt", last.data["reason"])
}

func TestMachineCloseByStrangerDenied(t *testing.T) {
	m, tickets, events, _, _, channels := newTestMachine()

	created, err := m.Create(context.Background(), CreateRequest{Requester: bob})
	require.NoError(t, err)
	eventsBefore := len(events.events)

	_, err = m.Close(context.Background(), TransitionRequest{
		ChannelID:   created.ChannelID,
		ChannelName: created.ChannelName,
		Opener:      bob,
		Actor:       alice,
	})
	require.ErrorIs(t, err, ErrPermissionDenied)

	// No rename, no status change, no events.
	require.Empty(t, channels.renames)
	require.Equal(t, entities.StatusOpen, tickets.saved[0].Status)
	require.Len(t, events.events, eventsBefore)
}

func TestMachineCloseRenameFailureKeepsState(t *testing.T) {
	m, tickets, _, _, _, channels := newTestMachine()

	created, err := m.Create(context.Background(), CreateRequest{Requester: bob})
	require.NoError(t, err)

	channels.err = errors.New("missing permissions")

	_, err = m.Close(context.Background(), TransitionRequest{
		ChannelID:   created.ChannelID,
		ChannelName: created.ChannelName,
		Opener:      bob,
		Actor:       bob,
	})
	require.ErrorIs(t, err, ErrExternalResource)
	require.Equal(t, entities.StatusOpen, tickets.saved[0].Status)
}

func TestMachineOwnerFromStoreBeatsCapturedOpener(t *testing.T) {
	m, _, _, _, _, _ := newTestMachine()

	created, err := m.Create(context.Background(), CreateRequest{Requester: bob})
	require.NoError(t, err)

	// A prompt rendered with the wrong opener does not grant access: the
	// persisted ticket decides.
	_, err = m.Close(context.Background(), TransitionRequest{
		ChannelID:   created.ChannelID,
		ChannelName: created.ChannelName,
		Opener:      alice,
		Actor:       alice,
	})
	require.ErrorIs(t, err, ErrPermissionDenied)
}

func TestMachineOpenerFallbackWhenUnknownChannel(t *testing.T) {
	m, _, _, _, _, channels := newTestMachine()

	// No stored ticket for the channel, so the captured opener decides.
	got, err := m.Close(context.Background(), TransitionRequest{
		ChannelID:   "legacy-chan",
		ChannelName: "ticket-bob-9",
		Opener:      bob,
		Actor:       bob,
		Reason:      "aufgeräumt",
	})
	require.NoError(t, err)
	require.Equal(t, "geschlossen-ticket-bob-9", got.ChannelName)
	require.Equal(t, "geschlossen-ticket-bob-9", channels.renames["legacy-chan"])
}

func TestMachineReopen(t *testing.T) {
	m, tickets, events, _, _, channels := newTestMachine()

	created, err := m.Create(context.Background(), CreateRequest{Requester: bob})
	require.NoError(t, err)

	_, err = m.Close(context.Background(), TransitionRequest{
		ChannelID:   created.ChannelID,
		ChannelName: created.ChannelName,
		Opener:      bob,
		Actor:       bob,
	})
	require.NoError(t, err)

	got, err := m.Reopen(context.Background(), TransitionRequest{
		ChannelID:   created.ChannelID,
		ChannelName: "geschlossen-" + created.ChannelName,
		Opener:      bob,
		Actor:       bob,
		Reason:      "doch nicht fertig",
	})
	require.NoError(t, err)
	require.Equal(t, "ticket-bob-1", got.ChannelName)
	require.Equal(t, entities.StatusOpen, got.Status)
	require.Equal(t, "ticket-bob-1", channels.renames[created.ChannelID])
	require.Equal(t, entities.StatusOpen, tickets.saved[0].Status)

	last := events.events[len(events.events)-1]
	require.Equal(t, entities.EventTicketReopened, last.eventType)
	require.Equal(t, "doch nicht fertig", last.data["reason"])
}

func TestMachineReopenByStrangerDenied(t *testing.T) {
	m, _, _, _, _, _ := newTestMachine()

	created, err := m.Create(context.Background(), CreateRequest{Requester: bob})
	require.NoError(t, err)

	_, err = m.Close(context.Background(), TransitionRequest{
		ChannelID:   created.ChannelID,
		ChannelName: created.ChannelName,
		Opener:      bob,
		Actor:       bob,
	})
	require.NoError(t, err)

	_, err = m.Reopen(context.Background(), TransitionRequest{
		ChannelID:   created.ChannelID,
		ChannelName: "geschlossen-" + created.ChannelName,
		Opener:      bob,
		Actor:       alice,
	})
	require.ErrorIs(t, err, ErrPermissionDenied)
}

// The full lifecycle as a member would drive it from Discord.
func TestMachineLifecycle(t *testing.T) {
	m, _, _, _, _, _ := newTestMachine()
	ctx := context.Background()

	created, err := m.Create(ctx, CreateRequest{GuildID: "g1", Category: "Support", Requester: bob})
	require.NoError(t, err)
	require.Equal(t, 1, created.TicketID)
	require.Equal(t, entities.StatusOpen, created.Status)
	require.Equal(t, "ticket-bob-1", created.ChannelName)

	claimed, err := m.Claim(ctx, ClaimRequest{
		ChannelID: created.ChannelID, ChannelName: created.ChannelName, Actor: alice,
	})
	require.NoError(t, err)
	require.Equal(t, "Geclaimt von alice", claimed.Status)

	closed, err := m.Close(ctx, TransitionRequest{
		ChannelID: created.ChannelID, ChannelName: created.ChannelName,
		Opener: bob, Actor: bob, Reason: "gelöst",
	})
	require.NoError(t, err)
	require.Equal(t, "geschlossen-ticket-bob-1", closed.ChannelName)

	_, err = m.Reopen(ctx, TransitionRequest{
		ChannelID: created.ChannelID, ChannelName: closed.ChannelName,
		Opener: bob, Actor: alice,
	})
	require.ErrorIs(t, err, ErrPermissionDenied)

	reopened, err := m.Reopen(ctx, TransitionRequest{
		ChannelID: created.ChannelID, ChannelName: closed.ChannelName,
		Opener: bob, Actor: bob,
	})
	require.NoError(t, err)
	require.Equal(t, "ticket-bob-1", reopened.ChannelName)
	require.Equal(t, entities.StatusOpen, reopened.Status)
}
