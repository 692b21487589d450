package models

import (
	"time"

	"github.com/moodtrack/backend/internal/domain/mood"
	"github.com/moodtrack/backend/internal/domain/shared"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EntryModel is the GORM model for mood entries
type EntryModel struct {
	BaseModel
	UserID     string `gorm:"type:varchar(24);not null;index:idx_moods_user_date,priority:1"`
	Date       string `gorm:"type:varchar(10);not null;index:idx_moods_user_date,priority:2"`
	Motivation int    `gorm:"not null"`
	Mood       int    `gorm:"not null"`
	Wellbeing  int    `gorm:"not null"`
	Note       string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (EntryModel) TableName() string {
	return "moods"
}

// ToDomain converts the model to a domain Entry
func (m *EntryModel) ToDomain() *mood.Entry {
	return &mood.Entry{
		BaseEntity: m.BaseModel.ToDomain(),
		UserID:     m.UserID,
		Date:       m.Date,
		Motivation: m.Motivation,
		Mood:       m.Mood,
		Wellbeing:  m.Wellbeing,
		Note:       m.Note,
	}
}

// EntryModelFromDomain creates a model from a domain Entry
func EntryModelFromDomain(e *mood.Entry) *EntryModel {
	m := &EntryModel{
		UserID:     e.UserID,
		Date:       e.Date,
		Motivation: e.Motivation,
		Mood:       e.Mood,
		Wellbeing:  e.Wellbeing,
		Note:       e.Note,
	}
	m.FromDomainBaseEntity(e.BaseEntity)
	return m
}

// EntryDocument is the MongoDB form of a mood entry.
// user_id holds the owner's ID as a hex string.
type EntryDocument struct {
	ID         primitive.ObjectID `bson:"_id"`
	UserID     string             `bson:"user_id"`
	Date       string             `bson:"date"`
	Motivation int                `bson:"motivation"`
	Mood       int                `bson:"mood"`
	Wellbeing  int                `bson:"wellbeing"`
	Note       string             `bson:"note"`
	CreatedAt  time.Time          `bson:"created_at"`
}

// ToDomain converts the document to a domain Entry
func (d *EntryDocument) ToDomain() *mood.Entry {
	return &mood.Entry{
		BaseEntity: shared.BaseEntity{ID: d.ID.Hex(), CreatedAt: d.CreatedAt},
		UserID:     d.UserID,
		Date:       d.Date,
		Motivation: d.Motivation,
		Mood:       d.Mood,
		Wellbeing:  d.Wellbeing,
		Note:       d.Note,
	}
}

// EntryDocumentFromDomain creates a document from a domain Entry
func EntryDocumentFromDomain(e *mood.Entry) (*EntryDocument, error) {
	oid, err := primitive.ObjectIDFromHex(e.ID)
	if err != nil {
		return nil, err
	}
	return &EntryDocument{
		ID:         oid,
		UserID:     e.UserID,
		Date:       e.Date,
		Motivation: e.Motivation,
		Mood:       e.Mood,
		Wellbeing:  e.Wellbeing,
		Note:       e.Note,
		CreatedAt:  e.CreatedAt,
	}, nil
}
