package inventory

import (
	"strings"

	"github.com/moodtrack/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Item is a stock line in the inventory list.
type Item struct {
	shared.BaseEntity
	Name     string
	Quantity int
	Price    decimal.Decimal
}

// NewItem creates a new item with a generated ID
func NewItem(name string, quantity int, price decimal.Decimal) (*Item, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_ITEM_NAME", "Item name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_ITEM_NAME", "Item name cannot exceed 200 characters")
	}
	if err := validateStock(quantity, price); err != nil {
		return nil, err
	}

	return &Item{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Quantity:   quantity,
		Price:      price,
	}, nil
}

// SetStock replaces quantity and price. The name is fixed after creation.
func (i *Item) SetStock(quantity int, price decimal.Decimal) error {
	if err := validateStock(quantity, price); err != nil {
		return err
	}
	i.Quantity = quantity
	i.Price = price
	return nil
}

// TotalValue returns quantity * price
func (i *Item) TotalValue() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

func validateStock(quantity int, price decimal.Decimal) error {
	if quantity < 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	return nil
}
