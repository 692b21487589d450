package persistence

import (
	"errors"

	"github.com/moodtrack/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// translateGormError maps GORM sentinel errors onto domain errors.
// Requires TranslateError on the gorm.Config for duplicate keys.
func translateGormError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return shared.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return shared.ErrAlreadyExists
	default:
		return err
	}
}

// affectedOrNotFound turns a write that matched no row into shared.ErrNotFound
func affectedOrNotFound(result *gorm.DB) error {
	if result.Error != nil {
		return translateGormError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
