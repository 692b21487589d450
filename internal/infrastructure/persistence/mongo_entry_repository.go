package persistence

import (
	"context"

	"github.com/moodtrack/backend/internal/domain/mood"
	"github.com/moodtrack/backend/internal/domain/shared"
	"github.com/moodtrack/backend/internal/infrastructure/persistence/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoEntryRepository implements mood.EntryRepository over the moods collection.
// Every filter carries user_id.
type MongoEntryRepository struct {
	coll *mongo.Collection
}

// NewMongoEntryRepository creates a new MongoEntryRepository
func NewMongoEntryRepository(db *mongo.Database) *MongoEntryRepository {
	return &MongoEntryRepository{coll: db.Collection(CollectionMoods)}
}

func (r *MongoEntryRepository) find(ctx context.Context, filter bson.M) ([]*mood.Entry, error) {
	cur, err := r.coll.Find(ctx, filter, ascending("date", "created_at"))
	if err != nil {
		return nil, err
	}
	var docs []models.EntryDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	entries := make([]*mood.Entry, len(docs))
	for i := range docs {
		entries[i] = docs[i].ToDomain()
	}
	return entries, nil
}

// FindByUser returns the user's entries ordered by date, then creation time
func (r *MongoEntryRepository) FindByUser(ctx context.Context, userID string) ([]*mood.Entry, error) {
	return r.find(ctx, bson.M{"user_id": userID})
}

// FindByUserInRange returns the user's entries with from <= date <= to
func (r *MongoEntryRepository) FindByUserInRange(ctx context.Context, userID, from, to string) ([]*mood.Entry, error) {
	return r.find(ctx, bson.M{
		"user_id": userID,
		"date":    bson.M{"$gte": from, "$lte": to},
	})
}

// FindByUserAndDate returns the user's entries recorded for one date
func (r *MongoEntryRepository) FindByUserAndDate(ctx context.Context, userID, date string) ([]*mood.Entry, error) {
	return r.find(ctx, bson.M{"user_id": userID, "date": date})
}

// Create inserts a new entry
func (r *MongoEntryRepository) Create(ctx context.Context, entry *mood.Entry) error {
	doc, err := models.EntryDocumentFromDomain(entry)
	if err != nil {
		return shared.ErrInvalidInput
	}
	_, err = r.coll.InsertOne(ctx, doc)
	return translateMongoError(err)
}

// Update overwrites scores and note of an entry owned by entry.UserID
func (r *MongoEntryRepository) Update(ctx context.Context, entry *mood.Entry) error {
	oid, err := objectID(entry.ID)
	if err != nil {
		return err
	}
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": oid, "user_id": entry.UserID},
		bson.M{"$set": bson.M{
			"motivation": entry.Motivation,
			"mood":       entry.Mood,
			"wellbeing":  entry.Wellbeing,
			"note":       entry.Note,
		}})
	if err != nil {
		return translateMongoError(err)
	}
	if res.MatchedCount == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteForUser removes the entry only if it belongs to userID
func (r *MongoEntryRepository) DeleteForUser(ctx context.Context, userID, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid, "user_id": userID})
	if err != nil {
		return translateMongoError(err)
	}
	if res.DeletedCount == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteAllForUser removes every entry of a user
func (r *MongoEntryRepository) DeleteAllForUser(ctx context.Context, userID string) (int64, error) {
	res, err := r.coll.DeleteMany(ctx, bson.M{"user_id": userID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// Ensure MongoEntryRepository implements EntryRepository
var _ mood.EntryRepository = (*MongoEntryRepository)(nil)
