package models

import (
	"time"

	"github.com/moodtrack/backend/internal/domain/identity"
	"github.com/moodtrack/backend/internal/domain/shared"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserModel is the GORM model for accounts
type UserModel struct {
	BaseModel
	Email        string `gorm:"type:varchar(254);not null;uniqueIndex"`
	PasswordHash string `gorm:"type:varchar(255);not null"`
	Role         string `gorm:"type:varchar(20);not null"`
	Active       bool   `gorm:"not null"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the model to a domain User
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		BaseEntity:   m.BaseModel.ToDomain(),
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Role:         identity.Role(m.Role),
		Active:       m.Active,
	}
}

// UserModelFromDomain creates a model from a domain User
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
		Active:       u.Active,
	}
	m.FromDomainBaseEntity(u.BaseEntity)
	return m
}

// UserDocument is the MongoDB form of an account
type UserDocument struct {
	ID           primitive.ObjectID `bson:"_id"`
	Email        string             `bson:"email"`
	PasswordHash string             `bson:"password_hash"`
	Role         string             `bson:"role"`
	Active       bool               `bson:"active"`
	CreatedAt    time.Time          `bson:"created_at"`
}

// ToDomain converts the document to a domain User
func (d *UserDocument) ToDomain() *identity.User {
	return &identity.User{
		BaseEntity:   shared.BaseEntity{ID: d.ID.Hex(), CreatedAt: d.CreatedAt},
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Role:         identity.Role(d.Role),
		Active:       d.Active,
	}
}

// UserDocumentFromDomain creates a document from a domain User
func UserDocumentFromDomain(u *identity.User) (*UserDocument, error) {
	oid, err := primitive.ObjectIDFromHex(u.ID)
	if err != nil {
		return nil, err
	}
	return &UserDocument{
		ID:           oid,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
		Active:       u.Active,
		CreatedAt:    u.CreatedAt,
	}, nil
}

// AllModels lists every GORM model for migration
func AllModels() []any {
	return []any{&ItemModel{}, &EntryModel{}, &UserModel{}}
}
