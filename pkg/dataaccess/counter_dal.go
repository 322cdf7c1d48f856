package dataaccess

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/spieletreff/wachhund/pkg/dataaccess/monitoring"
	"github.com/spieletreff/wachhund/pkg/logging"
)

const (
	counterDalName     = "counter_dal"
	countersCollection = "counters"

	// ticketCounterID is the document ID of the ticket number counter.
	ticketCounterID = "ticket_number"
)

type counterDalImpl struct {
	// l is the logger.
	l *slog.Logger

	// client is the database.
	client *mongo.Client
}

// NewCounterDal creates a new Mongo backed ticket number counter. Allocation
// uses an atomic $inc, so concurrent callers cannot be handed the same
// number; the file backend achieves the same with an exclusive lock.
func NewCounterDal() CounterDal {
	l := slog.Default().With(slog.String(logging.KeyDal, counterDalName))

	if MongoDB == nil {
		l.Warn("MongoDB is nil, this can cause a panic. Proceeding...")
	}

	return &counterDalImpl{
		l:      l,
		client: MongoDB,
	}
}

func (d *counterDalImpl) Next(ctx context.Context) (int, error) {
	monitoring.MongoTotalRequests.WithLabelValues(counterDalName, "next", mongoDatabase, countersCollection).Inc()
	t := prometheus.NewTimer(monitoring.MongoLatency.WithLabelValues(counterDalName, "next", mongoDatabase, countersCollection))
	defer t.ObserveDuration()

	collection := d.client.Database(mongoDatabase).Collection(countersCollection)

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var doc struct {
		Value int `bson:"value"`
	}
	err := collection.FindOneAndUpdate(ctx,
		bson.M{"_id": ticketCounterID},
		bson.M{"$inc": bson.M{"value": 1}},
		opts,
	).Decode(&doc)
	if err != nil {
		return 0, fmt.Errorf("error allocating ticket number: %w", errors.Join(ErrStorage, err))
	}

	return doc.Value, nil
}
