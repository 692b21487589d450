package inventory

import "context"

// ItemRepository defines the interface for item persistence
type ItemRepository interface {
	// FindAll returns every item in insertion order
	FindAll(ctx context.Context) ([]*Item, error)

	// FindByID finds an item by ID, returning shared.ErrNotFound when absent
	FindByID(ctx context.Context, id string) (*Item, error)

	// Create inserts a new item
	Create(ctx context.Context, item *Item) error

	// Update writes quantity and price of an existing item
	Update(ctx context.Context, item *Item) error

	// Delete removes an item by ID
	Delete(ctx context.Context, id string) error
}
