package mood

import (
	"strings"
	"testing"
	"time"

	"github.com/moodtrack/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEntry(t *testing.T) {
	valid := EntryInput{Date: "2024-05-01", Motivation: 5, Mood: 6, Wellbeing: 7, Note: "  slept well "}

	t.Run("creates entry", func(t *testing.T) {
		entry, err := NewEntry("user-1", valid, 10)

		require.NoError(t, err)
		assert.Equal(t, "user-1", entry.UserID)
		assert.Equal(t, "2024-05-01", entry.Date)
		assert.Equal(t, 5, entry.Motivation)
		assert.Equal(t, "slept well", entry.Note)
		assert.True(t, shared.IsValidID(entry.ID))
	})

	t.Run("rejects scores outside range", func(t *testing.T) {
		in := valid
		in.Mood = 11
		_, err := NewEntry("user-1", in, 10)
		assert.Equal(t, "INVALID_SCORE", shared.CodeOf(err))
		assert.Contains(t, err.Error(), "mood")

		in = valid
		in.Wellbeing = 0
		_, err = NewEntry("user-1", in, 10)
		assert.Equal(t, "INVALID_SCORE", shared.CodeOf(err))
	})

	t.Run("uses default maximum when unset", func(t *testing.T) {
		in := valid
		in.Motivation = DefaultScoreMax
		_, err := NewEntry("user-1", in, 0)
		assert.NoError(t, err)
	})

	t.Run("rejects malformed date", func(t *testing.T) {
		for _, d := range []string{"", "01/05/2024", "2024-13-01", "2024-02-30"} {
			in := valid
			in.Date = d
			_, err := NewEntry("user-1", in, 10)
			assert.Equal(t, "INVALID_DATE", shared.CodeOf(err), d)
		}
	})

	t.Run("bounds note length in characters", func(t *testing.T) {
		in := valid
		in.Note = strings.Repeat("é", MaxNoteLength)
		_, err := NewEntry("user-1", in, 10)
		assert.NoError(t, err)

		in.Note = strings.Repeat("a", MaxNoteLength+1)
		_, err = NewEntry("user-1", in, 10)
		assert.Equal(t, "INVALID_NOTE", shared.CodeOf(err))
	})

	t.Run("requires owner", func(t *testing.T) {
		_, err := NewEntry("", valid, 10)
		assert.Error(t, err)
	})
}

func TestEntry_Overwrite(t *testing.T) {
	first, err := NewEntry("u", EntryInput{Date: "2024-05-01", Motivation: 1, Mood: 1, Wellbeing: 1}, 10)
	require.NoError(t, err)
	second, err := NewEntry("u", EntryInput{Date: "2024-05-01", Motivation: 9, Mood: 8, Wellbeing: 7, Note: "later"}, 10)
	require.NoError(t, err)

	id := first.ID
	first.Overwrite(second)

	assert.Equal(t, id, first.ID)
	assert.Equal(t, 9, first.Motivation)
	assert.Equal(t, 8, first.Mood)
	assert.Equal(t, 7, first.Wellbeing)
	assert.Equal(t, "later", first.Note)
}

func TestWeekWindow(t *testing.T) {
	from, to := WeekWindow(time.Date(2024, 3, 3, 15, 0, 0, 0, time.UTC))

	assert.Equal(t, "2024-02-26", from)
	assert.Equal(t, "2024-03-03", to)
}

func TestParseDuplicatePolicy(t *testing.T) {
	p, err := ParseDuplicatePolicy("")
	require.NoError(t, err)
	assert.Equal(t, DuplicateAllow, p)

	p, err = ParseDuplicatePolicy(" Replace ")
	require.NoError(t, err)
	assert.Equal(t, DuplicateReplace, p)

	_, err = ParseDuplicatePolicy("merge")
	assert.Error(t, err)
}
