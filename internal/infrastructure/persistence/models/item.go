package models

import (
	"time"

	"github.com/moodtrack/backend/internal/domain/inventory"
	"github.com/moodtrack/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ItemModel is the GORM model for inventory items.
// Price is stored as a float, matching the document form.
type ItemModel struct {
	BaseModel
	Name     string  `gorm:"column:item_name;type:varchar(200);not null"`
	Quantity int     `gorm:"not null"`
	Price    float64 `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ItemModel) TableName() string {
	return "items"
}

// ToDomain converts the model to a domain Item
func (m *ItemModel) ToDomain() *inventory.Item {
	return &inventory.Item{
		BaseEntity: m.BaseModel.ToDomain(),
		Name:       m.Name,
		Quantity:   m.Quantity,
		Price:      decimal.NewFromFloat(m.Price),
	}
}

// ItemModelFromDomain creates a model from a domain Item
func ItemModelFromDomain(item *inventory.Item) *ItemModel {
	m := &ItemModel{
		Name:     item.Name,
		Quantity: item.Quantity,
		Price:    item.Price.InexactFloat64(),
	}
	m.FromDomainBaseEntity(item.BaseEntity)
	return m
}

// ItemDocument is the MongoDB form of an inventory item.
type ItemDocument struct {
	ID        primitive.ObjectID `bson:"_id"`
	Name      string             `bson:"item_name"`
	Quantity  int                `bson:"quantity"`
	Price     float64            `bson:"price"`
	CreatedAt time.Time          `bson:"created_at"`
}

// ToDomain converts the document to a domain Item
func (d *ItemDocument) ToDomain() *inventory.Item {
	return &inventory.Item{
		BaseEntity: shared.BaseEntity{ID: d.ID.Hex(), CreatedAt: d.CreatedAt},
		Name:       d.Name,
		Quantity:   d.Quantity,
		Price:      decimal.NewFromFloat(d.Price),
	}
}

// ItemDocumentFromDomain creates a document from a domain Item.
// The item ID must be a valid ObjectID hex string.
func ItemDocumentFromDomain(item *inventory.Item) (*ItemDocument, error) {
	oid, err := primitive.ObjectIDFromHex(item.ID)
	if err != nil {
		return nil, err
	}
	return &ItemDocument{
		ID:        oid,
		Name:      item.Name,
		Quantity:  item.Quantity,
		Price:     item.Price.InexactFloat64(),
		CreatedAt: item.CreatedAt,
	}, nil
}
