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
	"github.com/spieletreff/wachhund/pkg/entities"
	"github.com/spieletreff/wachhund/pkg/logging"
)

const (
	userDalName     = "user_dal"
	usersCollection = "users"
)

type userDalImpl struct {
	// l is the logger.
	l *slog.Logger

	// client is the database.
	client *mongo.Client
}

// NewUserDal creates a new Mongo backed panel account store.
func NewUserDal() UserDal {
	l := slog.Default().With(slog.String(logging.KeyDal, userDalName))

	if MongoDB == nil {
		l.Warn("MongoDB is nil, this can cause a panic. Proceeding...")
	}

	return &userDalImpl{
		l:      l,
		client: MongoDB,
	}
}

func (d *userDalImpl) collection() *mongo.Collection {
	return d.client.Database(mongoDatabase).Collection(usersCollection)
}

func (d *userDalImpl) observe(query string) *prometheus.Timer {
	monitoring.MongoTotalRequests.WithLabelValues(userDalName, query, mongoDatabase, usersCollection).Inc()
	return prometheus.NewTimer(monitoring.MongoLatency.WithLabelValues(userDalName, query, mongoDatabase, usersCollection))
}

func (d *userDalImpl) SaveUser(ctx context.Context, user *entities.User) error {
	t := d.observe("save_user")
	defer t.ObserveDuration()

	// Usernames are unique across accounts.
	var existing entities.User
	err := d.collection().FindOne(ctx, bson.M{"username": user.Username}).Decode(&existing)
	switch {
	case err == nil:
		if existing.ID != user.ID {
			return fmt.Errorf("username %q: %w", user.Username, ErrDuplicate)
		}
	case errors.Is(err, mongo.ErrNoDocuments):
		// New username.
	default:
		return fmt.Errorf("error checking username: %w", err)
	}

	opts := options.Update().SetUpsert(true)
	if _, err := d.collection().UpdateOne(ctx, bson.M{"id": user.ID}, bson.M{"$set": user}, opts); err != nil {
		return fmt.Errorf("error saving user: %w", errors.Join(ErrStorage, err))
	}
	return nil
}

func (d *userDalImpl) GetUserByUsername(ctx context.Context, username string) (*entities.User, error) {
	t := d.observe("get_user_by_username")
	defer t.ObserveDuration()

	var user entities.User
	err := d.collection().FindOne(ctx, bson.M{"username": username}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error getting user: %w", err)
	}
	return &user, nil
}

func (d *userDalImpl) GetUserByID(ctx context.Context, id string) (*entities.User, error) {
	t := d.observe("get_user_by_id")
	defer t.ObserveDuration()

	var user entities.User
	err := d.collection().FindOne(ctx, bson.M{"id": id}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error getting user: %w", err)
	}
	return &user, nil
}

func (d *userDalImpl) ListUsers(ctx context.Context) ([]*entities.User, error) {
	t := d.observe("list_users")
	defer t.ObserveDuration()

	cur, err := d.collection().Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("error listing users: %w", err)
	}

	var users []*entities.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("error decoding users: %w", err)
	}
	return users, nil
}

func (d *userDalImpl) ListUsersByRole(ctx context.Context, role entities.Role) ([]*entities.User, error) {
	t := d.observe("list_users_by_role")
	defer t.ObserveDuration()

	cur, err := d.collection().Find(ctx, bson.M{"role": role})
	if err != nil {
		return nil, fmt.Errorf("error listing users by role: %w", err)
	}

	var users []*entities.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("error decoding users: %w", err)
	}
	return users, nil
}

func (d *userDalImpl) DeleteUser(ctx context.Context, id string) error {
	t := d.observe("delete_user")
	defer t.ObserveDuration()

	if _, err := d.collection().DeleteOne(ctx, bson.M{"id": id}); err != nil {
		return fmt.Errorf("error deleting user: %w", errors.Join(ErrStorage, err))
	}
	return nil
}
