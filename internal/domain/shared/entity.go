package shared

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BaseEntity provides common fields for all entities.
// IDs are opaque 24-character hex strings in ObjectID form regardless of the
// backing store, so URLs look the same in every store mode.
type BaseEntity struct {
	ID        string
	CreatedAt time.Time
}

// GetID returns the entity ID
func (e *BaseEntity) GetID() string {
	return e.ID
}

// GetCreatedAt returns the creation timestamp
func (e *BaseEntity) GetCreatedAt() time.Time {
	return e.CreatedAt
}

// NewBaseEntity creates a new base entity with generated ID
func NewBaseEntity() BaseEntity {
	return BaseEntity{
		ID:        NewID(),
		CreatedAt: time.Now().UTC(),
	}
}

// NewID generates a fresh opaque identifier.
func NewID() string {
	return primitive.NewObjectID().Hex()
}

// IsValidID reports whether id has the identifier shape used by every store.
func IsValidID(id string) bool {
	return primitive.IsValidObjectID(id)
}
