// Package ticket implements the ticket lifecycle: creation, claiming,
// closing and reopening. The machine owns every state transition and every
// event-log append; the Discord layer only gathers input and renders the
// outcome.
package ticket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spieletreff/wachhund/pkg/custom"
	"github.com/spieletreff/wachhund/pkg/dataaccess"
	"github.com/spieletreff/wachhund/pkg/entities"
	"github.com/spieletreff/wachhund/pkg/logging"
)

// Identity is the slice of a Discord member the machine cares about.
type Identity struct {
	// ID is the Discord user id. Ownership checks compare this field.
	ID string

	// Username is the account name, used to build channel names.
	Username string

	// DisplayName is the guild nickname when set, otherwise the username.
	// It is what ends up in claim statuses and announcements.
	DisplayName string
}

// ProvisionRequest carries everything needed to create a ticket channel.
type ProvisionRequest struct {
	GuildID   string
	Name      string
	Category  string
	TicketID  int
	Requester Identity
}

// Provisioned reports what the provisioner built: the channel and the
// pinned welcome message carrying the action buttons.
type Provisioned struct {
	ChannelID        string
	WelcomeMessageID string
}

// Provisioner creates the Discord channel backing a new ticket, posts the
// welcome message into it and returns both ids.
type Provisioner interface {
	CreateTicketChannel(ctx context.Context, req ProvisionRequest) (*Provisioned, error)
}

// ChannelEditor renames a ticket channel and re-syncs its permission
// overwrites in one step. Close and reopen go through it before any state is
// persisted, so a Discord failure leaves the stored ticket untouched.
type ChannelEditor interface {
	EditChannel(ctx context.Context, channelID, name string) error
}

// Machine drives ticket state transitions against the configured stores.
type Machine struct {
	l *slog.Logger

	tickets dataaccess.TicketDal
	events  dataaccess.EventDal
	counter dataaccess.CounterDal

	provisioner Provisioner
	channels    ChannelEditor
}

// NewMachine wires a ticket machine. The provisioner and channel editor are
// the only Discord-facing collaborators.
func NewMachine(
	tickets dataaccess.TicketDal,
	events dataaccess.EventDal,
	counter dataaccess.CounterDal,
	provisioner Provisioner,
	channels ChannelEditor,
) *Machine {
	return &Machine{
		l:           slog.Default().With(slog.String(logging.KeyDal, "ticket_machine")),
		tickets:     tickets,
		events:      events,
		counter:     counter,
		provisioner: provisioner,
		channels:    channels,
	}
}

// CreateRequest describes a new ticket.
type CreateRequest struct {
	GuildID   string
	Category  string
	Requester Identity
}

// Create allocates the next ticket number, provisions the channel, persists
// the ticket as open and appends the creation event. The number is consumed
// even if provisioning fails afterwards; gaps in the sequence are fine.
func (m *Machine) Create(ctx context.Context, req CreateRequest) (*entities.Ticket, error) {
	num, err := m.counter.Next(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting next ticket number: %w", err)
	}

	name := ChannelName(req.Requester.Username, num)

	prov, err := m.provisioner.CreateTicketChannel(ctx, ProvisionRequest{
		GuildID:   req.GuildID,
		Name:      name,
		Category:  req.Category,
		TicketID:  num,
		Requester: req.Requester,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating ticket channel: %w", errors.Join(ErrExternalResource, err))
	}

	t := &entities.Ticket{
		TicketID:         num,
		User:             req.Requester.Username,
		UserID:           req.Requester.ID,
		GuildID:          req.GuildID,
		ChannelID:        prov.ChannelID,
		ChannelName:      name,
		Category:         req.Category,
		Status:           entities.StatusOpen,
		WelcomeMessageID: prov.WelcomeMessageID,
		CreatedAt:        custom.Now(),
	}

	if err := m.tickets.SaveTicket(ctx, t); err != nil {
		return nil, fmt.Errorf("error saving ticket: %w", err)
	}

	if err := m.events.Append(ctx, entities.EventTicketCreated, map[string]any{
		"ticket_id":  t.TicketID,
		"user":       t.User,
		"user_id":    t.UserID,
		"category":   t.Category,
		"channel_id": t.ChannelID,
	}); err != nil {
		m.l.Warn("failed to log ticket creation", slog.String(logging.KeyError, err.Error()))
	}

	return t, nil
}

// ClaimRequest identifies the channel being claimed and who claims it.
type ClaimRequest struct {
	ChannelID   string
	ChannelName string
	Actor       Identity
}

// ClaimResult is the status the channel should now display.
type ClaimResult struct {
	TicketID int
	Status   string
}

// Claim marks a ticket as claimed by the actor. Any member may claim; the
// status records who. The appended event reuses the creation event type so
// existing log tooling keeps working.
func (m *Machine) Claim(ctx context.Context, req ClaimRequest) (*ClaimResult, error) {
	id, ok := ParseTicketID(req.ChannelName)
	if !ok {
		m.l.Warn("claim on channel without ticket number",
			slog.String("channel_name", req.ChannelName))
	}

	if err := m.events.Append(ctx, entities.EventTicketCreated, map[string]any{
		"channel_name": req.ChannelName,
		"channel_id":   req.ChannelID,
		"user_id":      req.Actor.ID,
		"username":     req.Actor.Username,
	}); err != nil {
		m.l.Warn("failed to log ticket claim", slog.String(logging.KeyError, err.Error()))
	}

	status := entities.StatusClaimedBy(req.Actor.DisplayName)
	if err := m.tickets.UpdateStatusByChannel(ctx, req.ChannelID, status); err != nil {
		return nil, fmt.Errorf("error updating ticket status: %w", err)
	}

	return &ClaimResult{TicketID: id, Status: status}, nil
}

// TransitionRequest describes a close or reopen.
type TransitionRequest struct {
	ChannelID   string
	ChannelName string

	// Opener is the identity captured when the close or reopen prompt was
	// shown. It is only authoritative when the store holds no record for
	// the channel.
	Opener Identity

	Actor  Identity
	Reason string
}

// TransitionResult reports the channel rename and resulting status.
type TransitionResult struct {
	TicketID    int
	ChannelName string
	Status      string
}

// Close renames the channel to its closed form, re-syncs permissions and
// persists the closed status. Only the ticket owner may close; the check
// runs before anything is touched.
func (m *Machine) Close(ctx context.Context, req TransitionRequest) (*TransitionResult, error) {
	if err := m.authorize(ctx, req); err != nil {
		return nil, err
	}

	newName := ClosedName(req.ChannelName)
	if err := m.channels.EditChannel(ctx, req.ChannelID, newName); err != nil {
		return nil, fmt.Errorf("error closing ticket channel: %w", errors.Join(ErrExternalResource, err))
	}

	id := m.persistStatus(ctx, req, entities.StatusClosed)

	if err := m.events.Append(ctx, entities.EventTicketClosed, map[string]any{
		"ticket_id":    id,
		"channel_name": req.ChannelName,
		"channel_id":   req.ChannelID,
		"user_id":      req.Actor.ID,
		"reason":       req.Reason,
	}); err != nil {
		m.l.Warn("failed to log ticket close", slog.String(logging.KeyError, err.Error()))
	}

	return &TransitionResult{TicketID: id, ChannelName: newName, Status: entities.StatusClosed}, nil
}

// Reopen strips the closed marker from the channel name, re-syncs
// permissions and persists the open status. Only the ticket owner may
// reopen.
func (m *Machine) Reopen(ctx context.Context, req TransitionRequest) (*TransitionResult, error) {
	if err := m.authorize(ctx, req); err != nil {
		return nil, err
	}

	newName := ReopenedName(req.ChannelName)
	if err := m.channels.EditChannel(ctx, req.ChannelID, newName); err != nil {
		return nil, fmt.Errorf("error reopening ticket channel: %w", errors.Join(ErrExternalResource, err))
	}

	id := m.persistStatus(ctx, req, entities.StatusOpen)

	if err := m.events.Append(ctx, entities.EventTicketReopened, map[string]any{
		"ticket_id":    id,
		"channel_name": req.ChannelName,
		"channel_id":   req.ChannelID,
		"user_id":      req.Actor.ID,
		"reason":       req.Reason,
	}); err != nil {
		m.l.Warn("failed to log ticket reopen", slog.String(logging.KeyError, err.Error()))
	}

	return &TransitionResult{TicketID: id, ChannelName: newName, Status: entities.StatusOpen}, nil
}

// authorize enforces the owner-only rule for close and reopen. The persisted
// ticket is the source of truth; the opener captured at prompt time only
// applies when the store has never seen the channel.
func (m *Machine) authorize(ctx context.Context, req TransitionRequest) error {
	ownerID := req.Opener.ID

	t, err := m.tickets.GetTicketByChannel(ctx, req.ChannelID)
	switch {
	case err == nil:
		ownerID = t.UserID
	case errors.Is(err, dataaccess.ErrNotFound):
		// Fall back to the captured opener.
	default:
		return fmt.Errorf("error looking up ticket: %w", err)
	}

	if req.Actor.ID != ownerID {
		return ErrPermissionDenied
	}
	return nil
}

// persistStatus writes the new status under both indexes: by ticket number,
// which also logs a status-updated event, and by channel id for records that
// predate ticket numbers. Misses are silent no-ops in both stores.
func (m *Machine) persistStatus(ctx context.Context, req TransitionRequest, status string) int {
	id, ok := ParseTicketID(req.ChannelName)
	if !ok {
		if t, err := m.tickets.GetTicketByChannel(ctx, req.ChannelID); err == nil {
			id, ok = t.TicketID, true
		}
	}

	if ok {
		if err := m.tickets.UpdateStatusByTicketID(ctx, id, status); err != nil {
			m.l.Warn("failed to update ticket status by id",
				slog.Int("ticket_id", id), slog.String(logging.KeyError, err.Error()))
		} else if err := m.events.Append(ctx, entities.EventTicketStatusUpdated, map[string]any{
			"ticket_id":  id,
			"new_status": status,
		}); err != nil {
			m.l.Warn("failed to log status update", slog.String(logging.KeyError, err.Error()))
		}
	} else {
		m.l.Warn("no ticket number for channel, updating by channel id only",
			slog.String("channel_name", req.ChannelName))
	}

	if err := m.tickets.UpdateStatusByChannel(ctx, req.ChannelID, status); err != nil {
		m.l.Warn("failed to update ticket status by channel",
			slog.String("channel_id", req.ChannelID), slog.String(logging.KeyError, err.Error()))
	}

	return id
}
