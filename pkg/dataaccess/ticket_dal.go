package dataaccess

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/spieletreff/wachhund/pkg/dataaccess/monitoring"
	"github.com/spieletreff/wachhund/pkg/entities"
	"github.com/spieletreff/wachhund/pkg/logging"
)

const (
	ticketDalName     = "ticket_dal"
	ticketsCollection = "tickets"
)

type ticketDalImpl struct {
	// l is the logger.
	l *slog.Logger

	// client is the database.
	client *mongo.Client
}

// NewTicketDal creates a new Mongo backed ticket data access layer.
func NewTicketDal() TicketDal {
	l := slog.Default().With(slog.String(logging.KeyDal, ticketDalName))

	if MongoDB == nil {
		l.Warn("MongoDB is nil, this can cause a panic. Proceeding...")
	}

	return &ticketDalImpl{
		l:      l,
		client: MongoDB,
	}
}

func (d *ticketDalImpl) collection() *mongo.Collection {
	return d.client.Database(mongoDatabase).Collection(ticketsCollection)
}

func (d *ticketDalImpl) observe(query string) *prometheus.Timer {
	monitoring.MongoTotalRequests.WithLabelValues(ticketDalName, query, mongoDatabase, ticketsCollection).Inc()
	return prometheus.NewTimer(monitoring.MongoLatency.WithLabelValues(ticketDalName, query, mongoDatabase, ticketsCollection))
}

func (d *ticketDalImpl) SaveTicket(ctx context.Context, ticket *entities.Ticket) error {
	t := d.observe("save_ticket")
	defer t.ObserveDuration()

	// Plain insert: duplicate ticket IDs are not rejected, matching the
	// file backend.
	if _, err := d.collection().InsertOne(ctx, ticket); err != nil {
		return fmt.Errorf("error saving ticket: %w", errors.Join(ErrStorage, err))
	}
	return nil
}

func (d *ticketDalImpl) UpdateStatusByChannel(ctx context.Context, channelID, status string) error {
	t := d.observe("update_status_by_channel")
	defer t.ObserveDuration()

	// A miss is a no-op, so the match count is not checked.
	_, err := d.collection().UpdateOne(ctx,
		bson.M{"channel_id": channelID},
		bson.M{"$set": bson.M{"status": status}},
	)
	if err != nil {
		return fmt.Errorf("error updating ticket status: %w", errors.Join(ErrStorage, err))
	}
	return nil
}

func (d *ticketDalImpl) UpdateStatusByTicketID(ctx context.Context, ticketID int, status string) error {
	t := d.observe("update_status_by_ticket_id")
	defer t.ObserveDuration()

	_, err := d.collection().UpdateOne(ctx,
		bson.M{"ticket_id": ticketID},
		bson.M{"$set": bson.M{"status": status}},
	)
	if err != nil {
		return fmt.Errorf("error updating ticket status: %w", errors.Join(ErrStorage, err))
	}
	return nil
}

func (d *ticketDalImpl) GetTicketByChannel(ctx context.Context, channelID string) (*entities.Ticket, error) {
	t := d.observe("get_ticket_by_channel")
	defer t.ObserveDuration()

	var ticket entities.Ticket
	err := d.collection().FindOne(ctx, bson.M{"channel_id": channelID}).Decode(&ticket)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error getting ticket: %w", err)
	}

	return &ticket, nil
}

func (d *ticketDalImpl) ListTickets(ctx context.Context) ([]*entities.Ticket, error) {
	t := d.observe("list_tickets")
	defer t.ObserveDuration()

	cur, err := d.collection().Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("error listing tickets: %w", err)
	}

	// Natural order is insertion order, oldest first, matching the file
	// backend. Callers wanting newest-first re-sort.
	var tickets []*entities.Ticket
	if err := cur.All(ctx, &tickets); err != nil {
		return nil, fmt.Errorf("error decoding tickets: %w", err)
	}
	return tickets, nil
}
