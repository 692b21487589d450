package mood

import "context"

// EntryRepository defines the interface for mood entry persistence.
// Every read and write is scoped to a user ID.
type EntryRepository interface {
	// FindByUser returns the user's entries ordered by date, then creation time
	FindByUser(ctx context.Context, userID string) ([]*Entry, error)

	// FindByUserInRange returns the user's entries with from <= date <= to
	FindByUserInRange(ctx context.Context, userID, from, to string) ([]*Entry, error)

	// FindByUserAndDate returns the user's entries recorded for one date
	FindByUserAndDate(ctx context.Context, userID, date string) ([]*Entry, error)

	// Create inserts a new entry
	Create(ctx context.Context, entry *Entry) error

	// Update overwrites scores and note of an entry owned by entry.UserID
	Update(ctx context.Context, entry *Entry) error

	// DeleteForUser removes the entry only if it belongs to userID.
	// Returns shared.ErrNotFound when nothing matched.
	DeleteForUser(ctx context.Context, userID, id string) error

	// DeleteAllForUser removes every entry of a user and returns how many were removed
	DeleteAllForUser(ctx context.Context, userID string) (int64, error)
}
