package models

import (
	"time"

	"github.com/moodtrack/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// BaseModel holds the identity columns shared by every SQL table. IDs keep
// the ObjectID hex form so rows move between the SQL and Mongo stores as is.
type BaseModel struct {
	ID        string    `gorm:"type:varchar(24);primaryKey"`
	CreatedAt time.Time `gorm:"not null;index"`
}

// BeforeCreate fills in identity for rows built outside the domain constructors
func (m *BaseModel) BeforeCreate(*gorm.DB) error {
	if m.ID == "" {
		m.ID = shared.NewID()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	return nil
}

func (m *BaseModel) ToDomain() shared.BaseEntity {
	return shared.BaseEntity{ID: m.ID, CreatedAt: m.CreatedAt}
}

func (m *BaseModel) FromDomainBaseEntity(e shared.BaseEntity) {
	m.ID = e.ID
	m.CreatedAt = e.CreatedAt
}
