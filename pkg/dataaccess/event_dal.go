package dataaccess

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/spieletreff/wachhund/pkg/custom"
	"github.com/spieletreff/wachhund/pkg/dataaccess/monitoring"
	"github.com/spieletreff/wachhund/pkg/entities"
	"github.com/spieletreff/wachhund/pkg/logging"
)

const (
	eventDalName     = "event_dal"
	eventsCollection = "ticket_events"
)

type eventDalImpl struct {
	// l is the logger.
	l *slog.Logger

	// client is the database.
	client *mongo.Client
}

// NewEventDal creates a new Mongo backed lifecycle event log. The log is
// write-mostly: the bot only appends, readers are external audit tooling.
func NewEventDal() EventDal {
	l := slog.Default().With(slog.String(logging.KeyDal, eventDalName))

	if MongoDB == nil {
		l.Warn("MongoDB is nil, this can cause a panic. Proceeding...")
	}

	return &eventDalImpl{
		l:      l,
		client: MongoDB,
	}
}

func (d *eventDalImpl) Append(ctx context.Context, eventType string, data map[string]any) error {
	monitoring.MongoTotalRequests.WithLabelValues(eventDalName, "append", mongoDatabase, eventsCollection).Inc()
	t := prometheus.NewTimer(monitoring.MongoLatency.WithLabelValues(eventDalName, "append", mongoDatabase, eventsCollection))
	defer t.ObserveDuration()

	event := &entities.Event{
		Time:      custom.Now(),
		EventType: eventType,
		Data:      data,
	}

	collection := d.client.Database(mongoDatabase).Collection(eventsCollection)
	if _, err := collection.InsertOne(ctx, event); err != nil {
		return fmt.Errorf("error appending event: %w", errors.Join(ErrStorage, err))
	}
	return nil
}

func (d *eventDalImpl) List(ctx context.Context) ([]*entities.Event, error) {
	monitoring.MongoTotalRequests.WithLabelValues(eventDalName, "list", mongoDatabase, eventsCollection).Inc()
	t := prometheus.NewTimer(monitoring.MongoLatency.WithLabelValues(eventDalName, "list", mongoDatabase, eventsCollection))
	defer t.ObserveDuration()

	collection := d.client.Database(mongoDatabase).Collection(eventsCollection)
	cur, err := collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("error listing events: %w", errors.Join(ErrStorage, err))
	}

	events := make([]*entities.Event, 0)
	if err := cur.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("error decoding events: %w", errors.Join(ErrStorage, err))
	}
	return events, nil
}
