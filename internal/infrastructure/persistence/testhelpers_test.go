package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/moodtrack/backend/internal/domain/mood"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// newMemoryDB opens a migrated in-memory SQLite database closed at test end
func newMemoryDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := OpenInMemoryDatabase(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db.DB
}

func newEntry(t *testing.T, userID, date string, m, md, w int) *mood.Entry {
	t.Helper()
	e, err := mood.NewEntry(userID, mood.EntryInput{
		Date:       date,
		Motivation: m,
		Mood:       md,
		Wellbeing:  w,
	}, 10)
	require.NoError(t, err)
	return e
}

// later returns a timestamp strictly after the previous call within a test
func later(base *time.Time) time.Time {
	*base = base.Add(time.Second)
	return *base
}
