package inventory

import (
	"time"

	"github.com/moodtrack/backend/internal/domain/inventory"
	"github.com/shopspring/decimal"
)

// ItemResponse represents an item in page and API responses
type ItemResponse struct {
	ID         string          `json:"id"`
	Name       string          `json:"item_name"`
	Quantity   int             `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
	TotalValue decimal.Decimal `json:"total_value"`
	CreatedAt  time.Time       `json:"created_at"`
}

// CreateItemInput contains the fields of a new item
type CreateItemInput struct {
	Name     string
	Quantity int
	Price    decimal.Decimal
}

// UpdateItemInput contains the mutable fields of an item
type UpdateItemInput struct {
	Quantity int
	Price    decimal.Decimal
}

// ToItemResponse converts a domain item to a response
func ToItemResponse(item *inventory.Item) ItemResponse {
	return ItemResponse{
		ID:         item.ID,
		Name:       item.Name,
		Quantity:   item.Quantity,
		Price:      item.Price,
		TotalValue: item.TotalValue(),
		CreatedAt:  item.CreatedAt,
	}
}

// ToItemResponses converts a slice of domain items
func ToItemResponses(items []*inventory.Item) []ItemResponse {
	out := make([]ItemResponse, len(items))
	for i, item := range items {
		out[i] = ToItemResponse(item)
	}
	return out
}
