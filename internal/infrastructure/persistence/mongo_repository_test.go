package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/moodtrack/backend/internal/domain/inventory"
	"github.com/moodtrack/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func newMockMongo(t *testing.T) *mtest.T {
	return mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
}

func TestMongoItemRepository(t *testing.T) {
	mt := newMockMongo(t)
	ctx := context.Background()

	mt.Run("FindByID decodes the document", func(mt *mtest.T) {
		repo := NewMongoItemRepository(mt.DB)
		oid := primitive.NewObjectID()
		created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, mt.DB.Name()+".items", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: oid},
			{Key: "item_name", Value: "Widget"},
			{Key: "quantity", Value: 3},
			{Key: "price", Value: 2.5},
			{Key: "created_at", Value: created},
		}))

		item, err := repo.FindByID(ctx, oid.Hex())
		require.NoError(mt, err)
		assert.Equal(mt, oid.Hex(), item.ID)
		assert.Equal(mt, "Widget", item.Name)
		assert.Equal(mt, 3, item.Quantity)
		assert.True(mt, item.Price.Equal(decimal.RequireFromString("2.5")))
	})

	mt.Run("FindByID with no document", func(mt *mtest.T) {
		repo := NewMongoItemRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, mt.DB.Name()+".items", mtest.FirstBatch))

		_, err := repo.FindByID(ctx, primitive.NewObjectID().Hex())
		assert.ErrorIs(mt, err, shared.ErrNotFound)
	})

	mt.Run("malformed id never reaches the server", func(mt *mtest.T) {
		repo := NewMongoItemRepository(mt.DB)
		_, err := repo.FindByID(ctx, "nope")
		assert.ErrorIs(mt, err, shared.ErrNotFound)
		assert.ErrorIs(mt, repo.Delete(ctx, "nope"), shared.ErrNotFound)
	})

	mt.Run("Update of missing item", func(mt *mtest.T) {
		repo := NewMongoItemRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))

		item, err := inventory.NewItem("Widget", 1, decimal.NewFromInt(1))
		require.NoError(mt, err)
		assert.ErrorIs(mt, repo.Update(ctx, item), shared.ErrNotFound)
	})

	mt.Run("Create", func(mt *mtest.T) {
		repo := NewMongoItemRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		item, err := inventory.NewItem("Widget", 1, decimal.NewFromInt(1))
		require.NoError(mt, err)
		assert.NoError(mt, repo.Create(ctx, item))
	})
}

func TestMongoEntryRepository_DeleteForUser(t *testing.T) {
	mt := newMockMongo(t)
	ctx := context.Background()

	mt.Run("foreign entry is not found", func(mt *mtest.T) {
		repo := NewMongoEntryRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))

		err := repo.DeleteForUser(ctx, shared.NewID(), shared.NewID())
		assert.ErrorIs(mt, err, shared.ErrNotFound)
	})

	mt.Run("owned entry is removed", func(mt *mtest.T) {
		repo := NewMongoEntryRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))

		assert.NoError(mt, repo.DeleteForUser(ctx, shared.NewID(), shared.NewID()))
	})

	mt.Run("FindByUser decodes in server order", func(mt *mtest.T) {
		repo := NewMongoEntryRepository(mt.DB)
		user := shared.NewID()
		ns := mt.DB.Name() + ".moods"
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "user_id", Value: user},
				{Key: "date", Value: "2024-01-01"}, {Key: "motivation", Value: 5},
				{Key: "mood", Value: 3}, {Key: "wellbeing", Value: 4}},
			bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "user_id", Value: user},
				{Key: "date", Value: "2024-01-02"}, {Key: "motivation", Value: 1},
				{Key: "mood", Value: 2}, {Key: "wellbeing", Value: 3}},
		))

		entries, err := repo.FindByUser(ctx, user)
		require.NoError(mt, err)
		require.Len(mt, entries, 2)
		assert.Equal(mt, "2024-01-01", entries[0].Date)
		assert.Equal(mt, 3, entries[0].Mood)
		assert.Equal(mt, user, entries[1].UserID)
	})
}

func TestMongoUserRepository_DuplicateEmail(t *testing.T) {
	mt := newMockMongo(t)

	mt.Run("duplicate key maps to already exists", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error",
		}))

		user := newTestUser(mt.T, "dup@example.com", "participant")
		err := repo.Create(context.Background(), user)
		assert.ErrorIs(mt, err, shared.ErrAlreadyExists)
	})
}
