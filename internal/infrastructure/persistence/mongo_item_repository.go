package persistence

import (
	"context"

	"github.com/moodtrack/backend/internal/domain/inventory"
	"github.com/moodtrack/backend/internal/domain/shared"
	"github.com/moodtrack/backend/internal/infrastructure/persistence/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoItemRepository implements inventory.ItemRepository over the items collection
type MongoItemRepository struct {
	coll *mongo.Collection
}

// NewMongoItemRepository creates a new MongoItemRepository
func NewMongoItemRepository(db *mongo.Database) *MongoItemRepository {
	return &MongoItemRepository{coll: db.Collection(CollectionItems)}
}

// FindAll returns every item in insertion order
func (r *MongoItemRepository) FindAll(ctx context.Context) ([]*inventory.Item, error) {
	cur, err := r.coll.Find(ctx, bson.D{}, ascending("created_at"))
	if err != nil {
		return nil, err
	}
	var docs []models.ItemDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	items := make([]*inventory.Item, len(docs))
	for i := range docs {
		items[i] = docs[i].ToDomain()
	}
	return items, nil
}

// FindByID finds an item by ID
func (r *MongoItemRepository) FindByID(ctx context.Context, id string) (*inventory.Item, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var doc models.ItemDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, translateMongoError(err)
	}
	return doc.ToDomain(), nil
}

// Create inserts a new item
func (r *MongoItemRepository) Create(ctx context.Context, item *inventory.Item) error {
	doc, err := models.ItemDocumentFromDomain(item)
	if err != nil {
		return shared.ErrInvalidInput
	}
	_, err = r.coll.InsertOne(ctx, doc)
	return translateMongoError(err)
}

// Update writes quantity and price of an existing item
func (r *MongoItemRepository) Update(ctx context.Context, item *inventory.Item) error {
	oid, err := objectID(item.ID)
	if err != nil {
		return err
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"quantity": item.Quantity,
		"price":    item.Price.InexactFloat64(),
	}})
	if err != nil {
		return translateMongoError(err)
	}
	if res.MatchedCount == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes an item by ID
func (r *MongoItemRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return translateMongoError(err)
	}
	if res.DeletedCount == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure MongoItemRepository implements ItemRepository
var _ inventory.ItemRepository = (*MongoItemRepository)(nil)
