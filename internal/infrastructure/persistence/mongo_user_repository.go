package persistence

import (
	"context"

	"github.com/moodtrack/backend/internal/domain/identity"
	"github.com/moodtrack/backend/internal/domain/shared"
	"github.com/moodtrack/backend/internal/infrastructure/persistence/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoUserRepository implements identity.UserRepository over the users collection
type MongoUserRepository struct {
	coll *mongo.Collection
}

// NewMongoUserRepository creates a new MongoUserRepository
func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{coll: db.Collection(CollectionUsers)}
}

// Create creates a new user
func (r *MongoUserRepository) Create(ctx context.Context, user *identity.User) error {
	doc, err := models.UserDocumentFromDomain(user)
	if err != nil {
		return shared.ErrInvalidInput
	}
	_, err = r.coll.InsertOne(ctx, doc)
	return translateMongoError(err)
}

// Update updates an existing user
func (r *MongoUserRepository) Update(ctx context.Context, user *identity.User) error {
	oid, err := objectID(user.ID)
	if err != nil {
		return err
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"email":         user.Email,
		"password_hash": user.PasswordHash,
		"role":          string(user.Role),
		"active":        user.Active,
	}})
	if err != nil {
		return translateMongoError(err)
	}
	if res.MatchedCount == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete deletes a user by ID
func (r *MongoUserRepository) Delete(ctx context.Context, id string) error {
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

// FindByID finds a user by ID
func (r *MongoUserRepository) FindByID(ctx context.Context, id string) (*identity.User, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

// FindByEmail finds a user by email
func (r *MongoUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	email = identity.NormalizeEmail(email)
	if email == "" {
		return nil, shared.ErrNotFound
	}
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M) (*identity.User, error) {
	var doc models.UserDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, translateMongoError(err)
	}
	return doc.ToDomain(), nil
}

// FindAll returns all users ordered by creation time
func (r *MongoUserRepository) FindAll(ctx context.Context) ([]*identity.User, error) {
	cur, err := r.coll.Find(ctx, bson.D{}, ascending("created_at"))
	if err != nil {
		return nil, err
	}
	var docs []models.UserDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	users := make([]*identity.User, len(docs))
	for i := range docs {
		users[i] = docs[i].ToDomain()
	}
	return users, nil
}

// ExistsByEmail checks if an email already exists
func (r *MongoUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"email": identity.NormalizeEmail(email)})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Ensure MongoUserRepository implements UserRepository
var _ identity.UserRepository = (*MongoUserRepository)(nil)
