package filestore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spieletreff/wachhund/pkg/dataaccess"
	"github.com/spieletreff/wachhund/pkg/entities"
	"github.com/spieletreff/wachhund/pkg/logging"
)

const (
	ticketStoreName = "ticket_store"

	// TicketsFileName is the tickets file relative to the data directory.
	TicketsFileName = "tickets/tickets.json"
)

// TicketStore is the file backed ticket store: one JSON array in insertion
// order. There is no uniqueness enforcement on ticket IDs; SaveTicket simply
// appends; duplicate ticket ids are not rejected.
type TicketStore struct {
	// l is the logger.
	l *slog.Logger

	// path is the tickets file path.
	path string
}

// NewTicketStore creates a ticket store inside the given data directory.
func NewTicketStore(dataDir string) dataaccess.TicketDal {
	return &TicketStore{
		l:    slog.Default().With(slog.String(logging.KeyStore, ticketStoreName)),
		path: filepath.Join(dataDir, TicketsFileName),
	}
}

// load reads the full ticket list. Missing or undecodable files yield the
// empty list.
func (s *TicketStore) load() ([]*entities.Ticket, error) {
	tickets := make([]*entities.Ticket, 0)
	if err := loadJSON(s.l, s.path, &tickets); err != nil {
		return nil, err
	}
	return tickets, nil
}

func (s *TicketStore) SaveTicket(ctx context.Context, ticket *entities.Ticket) error {
	t := observe(ticketStoreName, "save_ticket")
	defer t.ObserveDuration()

	lock, err := acquireLock(s.path)
	if err != nil {
		return fmt.Errorf("error locking tickets file: %w", errors.Join(dataaccess.ErrStorage, err))
	}
	defer lock.release()

	tickets, err := s.load()
	if err != nil {
		return errors.Join(dataaccess.ErrStorage, err)
	}

	tickets = append(tickets, ticket)
	return writeJSON(s.path, tickets)
}

func (s *TicketStore) UpdateStatusByChannel(ctx context.Context, channelID, status string) error {
	t := observe(ticketStoreName, "update_status_by_channel")
	defer t.ObserveDuration()

	return s.update(func(ticket *entities.Ticket) bool {
		return ticket.ChannelID == channelID
	}, status)
}

func (s *TicketStore) UpdateStatusByTicketID(ctx context.Context, ticketID int, status string) error {
	t := observe(ticketStoreName, "update_status_by_ticket_id")
	defer t.ObserveDuration()

	return s.update(func(ticket *entities.Ticket) bool {
		return ticket.TicketID == ticketID
	}, status)
}

// update sets the status on the first ticket matching the predicate. A miss
// is a no-op: the file is not rewritten.
func (s *TicketStore) update(match func(*entities.Ticket) bool, status string) error {
	lock, err := acquireLock(s.path)
	if err != nil {
		return fmt.Errorf("error locking tickets file: %w", errors.Join(dataaccess.ErrStorage, err))
	}
	defer lock.release()

	tickets, err := s.load()
	if err != nil {
		return errors.Join(dataaccess.ErrStorage, err)
	}

	updated := false
	for _, ticket := range tickets {
		if match(ticket) {
			ticket.Status = status
			updated = true
			break
		}
	}
	if !updated {
		return nil
	}

	return writeJSON(s.path, tickets)
}

func (s *TicketStore) GetTicketByChannel(ctx context.Context, channelID string) (*entities.Ticket, error) {
	t := observe(ticketStoreName, "get_ticket_by_channel")
	defer t.ObserveDuration()

	tickets, err := s.load()
	if err != nil {
		return nil, err
	}

	for _, ticket := range tickets {
		if ticket.ChannelID == channelID {
			return ticket, nil
		}
	}
	return nil, dataaccess.ErrNotFound
}

func (s *TicketStore) ListTickets(ctx context.Context) ([]*entities.Ticket, error) {
	t := observe(ticketStoreName, "list_tickets")
	defer t.ObserveDuration()

	return s.load()
}
