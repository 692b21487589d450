package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/moodtrack/backend/internal/domain/shared"
	"github.com/moodtrack/backend/internal/infrastructure/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collection names shared by the Mongo and SQL backends
const (
	CollectionItems = "items"
	CollectionMoods = "moods"
	CollectionUsers = "users"
)

// MongoDB holds a connected client and the application database
type MongoDB struct {
	Client *mongo.Client
	DB     *mongo.Database
}

// ConnectMongo dials the configured URI and pings the primary.
// Both server selection and the ping are bounded by cfg.ConnectTimeout.
func ConnectMongo(ctx context.Context, cfg config.StoreConfig) (*MongoDB, error) {
	opts := options.Client().
		ApplyURI(cfg.MongoURI).
		SetServerSelectionTimeout(cfg.ConnectTimeout).
		SetConnectTimeout(cfg.ConnectTimeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create mongo client: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	m := &MongoDB{Client: client, DB: client.Database(cfg.Database)}
	if err := m.EnsureIndexes(ctx); err != nil {
		_ = m.Close(context.Background())
		return nil, err
	}
	return m, nil
}

// EnsureIndexes creates the lookup indexes. Existing indexes are left as they are.
func (m *MongoDB) EnsureIndexes(ctx context.Context) error {
	if _, err := m.DB.Collection(CollectionMoods).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "date", Value: 1}},
		Options: options.Index().SetName("idx_moods_user_date"),
	}); err != nil {
		return fmt.Errorf("failed to create moods index: %w", err)
	}
	if _, err := m.DB.Collection(CollectionUsers).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetName("idx_users_email").SetUnique(true),
	}); err != nil {
		return fmt.Errorf("failed to create users index: %w", err)
	}
	return nil
}

// Ping checks the primary is reachable
func (m *MongoDB) Ping(ctx context.Context) error {
	return m.Client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client
func (m *MongoDB) Close(ctx context.Context) error {
	return m.Client.Disconnect(ctx)
}

// objectID parses a hex identifier; malformed input reads as not found.
func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, shared.ErrNotFound
	}
	return oid, nil
}

// translateMongoError maps driver errors onto domain errors
func translateMongoError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return shared.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return shared.ErrAlreadyExists
	default:
		return err
	}
}

// ascending sorts by date-like fields then by _id for a stable order
func ascending(fields ...string) *options.FindOptions {
	sort := make(bson.D, 0, len(fields)+1)
	for _, f := range fields {
		sort = append(sort, bson.E{Key: f, Value: 1})
	}
	sort = append(sort, bson.E{Key: "_id", Value: 1})
	return options.Find().SetSort(sort)
}
