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
	documentDalName     = "document_dal"
	documentsCollection = "documents"
)

type documentDalImpl struct {
	// l is the logger.
	l *slog.Logger

	// client is the database.
	client *mongo.Client
}

// NewDocumentDal creates a new Mongo backed document metadata store.
func NewDocumentDal() DocumentDal {
	l := slog.Default().With(slog.String(logging.KeyDal, documentDalName))

	if MongoDB == nil {
		l.Warn("MongoDB is nil, this can cause a panic. Proceeding...")
	}

	return &documentDalImpl{
		l:      l,
		client: MongoDB,
	}
}

func (d *documentDalImpl) collection() *mongo.Collection {
	return d.client.Database(mongoDatabase).Collection(documentsCollection)
}

func (d *documentDalImpl) observe(query string) *prometheus.Timer {
	monitoring.MongoTotalRequests.WithLabelValues(documentDalName, query, mongoDatabase, documentsCollection).Inc()
	return prometheus.NewTimer(monitoring.MongoLatency.WithLabelValues(documentDalName, query, mongoDatabase, documentsCollection))
}

func (d *documentDalImpl) SaveDocument(ctx context.Context, doc *entities.Document) error {
	t := d.observe("save_document")
	defer t.ObserveDuration()

	if _, err := d.collection().InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("error saving document: %w", errors.Join(ErrStorage, err))
	}
	return nil
}

func (d *documentDalImpl) GetDocument(ctx context.Context, id string) (*entities.Document, error) {
	t := d.observe("get_document")
	defer t.ObserveDuration()

	var doc entities.Document
	err := d.collection().FindOne(ctx, bson.M{"id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error getting document: %w", err)
	}
	return &doc, nil
}

func (d *documentDalImpl) ListDocumentsByUser(ctx context.Context, username string) ([]*entities.Document, error) {
	t := d.observe("list_documents_by_user")
	defer t.ObserveDuration()

	cur, err := d.collection().Find(ctx, bson.M{"username": username})
	if err != nil {
		return nil, fmt.Errorf("error listing documents: %w", err)
	}

	var docs []*entities.Document
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("error decoding documents: %w", err)
	}
	return docs, nil
}

func (d *documentDalImpl) DeleteDocument(ctx context.Context, id string) error {
	t := d.observe("delete_document")
	defer t.ObserveDuration()

	if _, err := d.collection().DeleteOne(ctx, bson.M{"id": id}); err != nil {
		return fmt.Errorf("error deleting document: %w", errors.Join(ErrStorage, err))
	}
	return nil
}
