package inventory

import (
	"context"
	"errors"
	"testing"

	"github.com/moodtrack/backend/internal/domain/inventory"
	"github.com/moodtrack/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockItemRepository is a mock implementation of inventory.ItemRepository
type MockItemRepository struct {
	mock.Mock
}

func (m *MockItemRepository) FindAll(ctx context.Context) ([]*inventory.Item, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*inventory.Item), args.Error(1)
}

func (m *MockItemRepository) FindByID(ctx context.Context, id string) (*inventory.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.Item), args.Error(1)
}

func (m *MockItemRepository) Create(ctx context.Context, item *inventory.Item) error {
	return m.Called(ctx, item).Error(0)
}

func (m *MockItemRepository) Update(ctx context.Context, item *inventory.Item) error {
	return m.Called(ctx, item).Error(0)
}

func (m *MockItemRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func newService(repo *MockItemRepository) *ItemService {
	return NewItemService(repo, nil, zap.NewNop())
}

func TestItemService_Create(t *testing.T) {
	t.Run("creates valid item", func(t *testing.T) {
		repo := new(MockItemRepository)
		repo.On("Create", mock.Anything, mock.MatchedBy(func(i *inventory.Item) bool {
			return i.Name == "Widget" && i.Quantity == 4
		})).Return(nil).Once()

		resp, err := newService(repo).Create(context.Background(), CreateItemInput{
			Name:     "  Widget ",
			Quantity: 4,
			Price:    decimal.RequireFromString("2.50"),
		})
		require.NoError(t, err)
		assert.Equal(t, "Widget", resp.Name)
		assert.True(t, resp.TotalValue.Equal(decimal.NewFromInt(10)))
		assert.True(t, shared.IsValidID(resp.ID))
		repo.AssertExpectations(t)
	})

	t.Run("rejects empty name without touching the store", func(t *testing.T) {
		repo := new(MockItemRepository)
		_, err := newService(repo).Create(context.Background(), CreateItemInput{Name: " "})
		assert.Equal(t, "INVALID_ITEM_NAME", shared.CodeOf(err))
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestItemService_Update(t *testing.T) {
	item, err := inventory.NewItem("Widget", 1, decimal.NewFromInt(1))
	require.NoError(t, err)

	t.Run("sets quantity and price", func(t *testing.T) {
		repo := new(MockItemRepository)
		repo.On("FindByID", mock.Anything, item.ID).Return(item, nil).Once()
		repo.On("Update", mock.Anything, item).Return(nil).Once()

		resp, err := newService(repo).Update(context.Background(), item.ID, UpdateItemInput{
			Quantity: 7,
			Price:    decimal.RequireFromString("3.25"),
		})
		require.NoError(t, err)
		assert.Equal(t, 7, resp.Quantity)
		assert.Equal(t, "3.25", resp.Price.String())
		repo.AssertExpectations(t)
	})

	t.Run("negative quantity", func(t *testing.T) {
		repo := new(MockItemRepository)
		repo.On("FindByID", mock.Anything, item.ID).Return(item, nil).Once()

		_, err := newService(repo).Update(context.Background(), item.ID, UpdateItemInput{Quantity: -1})
		assert.Equal(t, "INVALID_QUANTITY", shared.CodeOf(err))
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("missing item", func(t *testing.T) {
		repo := new(MockItemRepository)
		repo.On("FindByID", mock.Anything, "nope").Return(nil, shared.ErrNotFound).Once()

		_, err := newService(repo).Update(context.Background(), "nope", UpdateItemInput{})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestItemService_ListAndDelete(t *testing.T) {
	a, _ := inventory.NewItem("A", 1, decimal.NewFromInt(2))
	b, _ := inventory.NewItem("B", 3, decimal.NewFromInt(4))

	repo := new(MockItemRepository)
	repo.On("FindAll", mock.Anything).Return([]*inventory.Item{a, b}, nil).Once()
	repo.On("Delete", mock.Anything, a.ID).Return(nil).Once()
	repo.On("Delete", mock.Anything, "gone").Return(shared.ErrNotFound).Once()

	svc := newService(repo)
	items, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "B", items[1].Name)

	require.NoError(t, svc.Delete(context.Background(), a.ID))
	assert.True(t, errors.Is(svc.Delete(context.Background(), "gone"), shared.ErrNotFound))
	repo.AssertExpectations(t)
}
