package persistence

import (
	"context"

	"github.com/moodtrack/backend/internal/domain/mood"
	"github.com/moodtrack/backend/internal/domain/shared"
	"github.com/moodtrack/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormEntryRepository implements mood.EntryRepository using GORM.
// Every statement filters on user_id.
type GormEntryRepository struct {
	db *gorm.DB
}

// NewGormEntryRepository creates a new GormEntryRepository
func NewGormEntryRepository(db *gorm.DB) *GormEntryRepository {
	return &GormEntryRepository{db: db}
}

func (r *GormEntryRepository) find(ctx context.Context, query *gorm.DB) ([]*mood.Entry, error) {
	var rows []models.EntryModel
	if err := query.WithContext(ctx).
		Order("date ASC, created_at ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	entries := make([]*mood.Entry, len(rows))
	for i := range rows {
		entries[i] = rows[i].ToDomain()
	}
	return entries, nil
}

// FindByUser returns the user's entries ordered by date, then creation time
func (r *GormEntryRepository) FindByUser(ctx context.Context, userID string) ([]*mood.Entry, error) {
	return r.find(ctx, r.db.Where("user_id = ?", userID))
}

// FindByUserInRange returns the user's entries with from <= date <= to
func (r *GormEntryRepository) FindByUserInRange(ctx context.Context, userID, from, to string) ([]*mood.Entry, error) {
	return r.find(ctx, r.db.Where("user_id = ? AND date >= ? AND date <= ?", userID, from, to))
}

// FindByUserAndDate returns the user's entries recorded for one date
func (r *GormEntryRepository) FindByUserAndDate(ctx context.Context, userID, date string) ([]*mood.Entry, error) {
	return r.find(ctx, r.db.Where("user_id = ? AND date = ?", userID, date))
}

// Create inserts a new entry
func (r *GormEntryRepository) Create(ctx context.Context, entry *mood.Entry) error {
	return translateGormError(r.db.WithContext(ctx).Create(models.EntryModelFromDomain(entry)).Error)
}

// Update overwrites scores and note of an entry owned by entry.UserID
func (r *GormEntryRepository) Update(ctx context.Context, entry *mood.Entry) error {
	if !shared.IsValidID(entry.ID) {
		return shared.ErrNotFound
	}
	return affectedOrNotFound(r.db.WithContext(ctx).
		Model(&models.EntryModel{}).
		Where("id = ? AND user_id = ?", entry.ID, entry.UserID).
		Updates(map[string]any{
			"motivation": entry.Motivation,
			"mood":       entry.Mood,
			"wellbeing":  entry.Wellbeing,
			"note":       entry.Note,
		}))
}

// DeleteForUser removes the entry only if it belongs to userID
func (r *GormEntryRepository) DeleteForUser(ctx context.Context, userID, id string) error {
	if !shared.IsValidID(id) {
		return shared.ErrNotFound
	}
	return affectedOrNotFound(r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.EntryModel{}))
}

// DeleteAllForUser removes every entry of a user
func (r *GormEntryRepository) DeleteAllForUser(ctx context.Context, userID string) (int64, error) {
	result := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.EntryModel{})
	return result.RowsAffected, result.Error
}

// Ensure GormEntryRepository implements EntryRepository
var _ mood.EntryRepository = (*GormEntryRepository)(nil)
