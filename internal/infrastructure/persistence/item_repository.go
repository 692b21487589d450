package persistence

import (
	"context"

	"github.com/moodtrack/backend/internal/domain/inventory"
	"github.com/moodtrack/backend/internal/domain/shared"
	"github.com/moodtrack/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormItemRepository implements inventory.ItemRepository using GORM
type GormItemRepository struct {
	db *gorm.DB
}

// NewGormItemRepository creates a new GormItemRepository
func NewGormItemRepository(db *gorm.DB) *GormItemRepository {
	return &GormItemRepository{db: db}
}

// FindAll returns every item in insertion order
func (r *GormItemRepository) FindAll(ctx context.Context) ([]*inventory.Item, error) {
	var rows []models.ItemModel
	if err := r.db.WithContext(ctx).
		Order("created_at ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	items := make([]*inventory.Item, len(rows))
	for i := range rows {
		items[i] = rows[i].ToDomain()
	}
	return items, nil
}

// FindByID finds an item by ID
func (r *GormItemRepository) FindByID(ctx context.Context, id string) (*inventory.Item, error) {
	if !shared.IsValidID(id) {
		return nil, shared.ErrNotFound
	}
	var model models.ItemModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateGormError(err)
	}
	return model.ToDomain(), nil
}

// Create inserts a new item
func (r *GormItemRepository) Create(ctx context.Context, item *inventory.Item) error {
	return translateGormError(r.db.WithContext(ctx).Create(models.ItemModelFromDomain(item)).Error)
}

// Update writes quantity and price of an existing item
func (r *GormItemRepository) Update(ctx context.Context, item *inventory.Item) error {
	if !shared.IsValidID(item.ID) {
		return shared.ErrNotFound
	}
	model := models.ItemModelFromDomain(item)
	return affectedOrNotFound(r.db.WithContext(ctx).
		Model(&models.ItemModel{}).
		Where("id = ?", item.ID).
		Updates(map[string]any{
			"quantity": model.Quantity,
			"price":    model.Price,
		}))
}

// Delete removes an item by ID
func (r *GormItemRepository) Delete(ctx context.Context, id string) error {
	if !shared.IsValidID(id) {
		return shared.ErrNotFound
	}
	return affectedOrNotFound(r.db.WithContext(ctx).Delete(&models.ItemModel{}, "id = ?", id))
}

// Ensure GormItemRepository implements ItemRepository
var _ inventory.ItemRepository = (*GormItemRepository)(nil)
