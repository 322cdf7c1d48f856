package dataaccess

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/spieletreff/wachhund/pkg/entities"
)

// MongoDB is the Mongo client. This is a connection pool.
var MongoDB *mongo.Client

const mongoDatabase = "wachhund"

// Interfaces over the durable stores. The Mongo implementations live in this
// package; the JSON file implementations live in the filestore subpackage.
// Both satisfy the same interfaces so the bot can run against either.

// TicketDal is the durable ticket store.
type TicketDal interface {
	// SaveTicket appends a new ticket record. Duplicate ticket IDs are not
	// rejected; the counter is the only source of uniqueness.
	SaveTicket(ctx context.Context, ticket *entities.Ticket) error

	// UpdateStatusByChannel sets the status of the ticket owning the given
	// channel. A miss is a no-op, not an error.
	UpdateStatusByChannel(ctx context.Context, channelID, status string) error

	// UpdateStatusByTicketID sets the status of the ticket with the given
	// number. A miss is a no-op, not an error. This is the legacy index
	// kept alongside the channel one; close and reopen write through both.
	UpdateStatusByTicketID(ctx context.Context, ticketID int, status string) error

	// GetTicketByChannel returns the ticket owning the given channel, or
	// ErrNotFound.
	GetTicketByChannel(ctx context.Context, channelID string) (*entities.Ticket, error)

	// ListTickets returns every ticket in insertion order, oldest first.
	ListTickets(ctx context.Context) ([]*entities.Ticket, error)
}

// EventDal is the append-only lifecycle event log.
type EventDal interface {
	// Append records a lifecycle event. Prior entries are never touched.
	Append(ctx context.Context, eventType string, data map[string]any) error

	// List returns every logged event, oldest first.
	List(ctx context.Context) ([]*entities.Event, error)
}

// CounterDal issues ticket numbers.
type CounterDal interface {
	// Next returns the next ticket number. The first call on an empty
	// store returns 1; every call returns a value strictly greater than
	// all previously returned ones, across restarts.
	Next(ctx context.Context) (int, error)
}

// UserDal is the panel account store. It doubles as the staff directory for
// ticket channel permissions.
type UserDal interface {
	// SaveUser inserts or updates a user by ID. Inserting a user whose
	// username is taken by a different ID returns ErrDuplicate.
	SaveUser(ctx context.Context, user *entities.User) error

	// GetUserByUsername returns the user with the given username, or
	// ErrNotFound.
	GetUserByUsername(ctx context.Context, username string) (*entities.User, error)

	// GetUserByID returns the user with the given ID, or ErrNotFound.
	GetUserByID(ctx context.Context, id string) (*entities.User, error)

	// ListUsers returns every user.
	ListUsers(ctx context.Context) ([]*entities.User, error)

	// ListUsersByRole returns every user with the given role.
	ListUsersByRole(ctx context.Context, role entities.Role) ([]*entities.User, error)

	// DeleteUser removes the user with the given ID.
	DeleteUser(ctx context.Context, id string) error
}

// DocumentDal is the document metadata store.
type DocumentDal interface {
	// SaveDocument records an uploaded document.
	SaveDocument(ctx context.Context, doc *entities.Document) error

	// GetDocument returns the document with the given ID, or ErrNotFound.
	GetDocument(ctx context.Context, id string) (*entities.Document, error)

	// ListDocumentsByUser returns the documents of the given user.
	ListDocumentsByUser(ctx context.Context, username string) ([]*entities.Document, error)

	// DeleteDocument removes the document with the given ID.
	DeleteDocument(ctx context.Context, id string) error
}
