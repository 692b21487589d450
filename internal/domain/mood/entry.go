package mood

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/moodtrack/backend/internal/domain/shared"
)

// DateLayout is the ISO-8601 calendar date format used for entry dates and chart labels.
const DateLayout = "2006-01-02"

// DefaultScoreMax is the upper bound of a score when none is configured.
const DefaultScoreMax = 10

// MaxNoteLength bounds a trimmed note, in characters.
const MaxNoteLength = 1000

// Entry is one mood check-in recorded by a user.
type Entry struct {
	shared.BaseEntity
	UserID     string
	Date       string
	Motivation int
	Mood       int
	Wellbeing  int
	Note       string
}

// EntryInput carries the user-supplied fields of a check-in.
type EntryInput struct {
	Date       string
	Motivation int
	Mood       int
	Wellbeing  int
	Note       string
}

// NewEntry validates input and creates an entry owned by userID.
// Scores must lie in [1, scoreMax].
func NewEntry(userID string, in EntryInput, scoreMax int) (*Entry, error) {
	if userID == "" {
		return nil, shared.NewDomainError("INVALID_USER", "Entry must belong to a user")
	}
	if scoreMax <= 0 {
		scoreMax = DefaultScoreMax
	}

	date, err := NormalizeDate(in.Date)
	if err != nil {
		return nil, err
	}
	scores := []struct {
		name  string
		value int
	}{
		{"motivation", in.Motivation},
		{"mood", in.Mood},
		{"wellbeing", in.Wellbeing},
	}
	for _, s := range scores {
		if s.value < 1 || s.value > scoreMax {
			return nil, shared.NewDomainError("INVALID_SCORE",
				fmt.Sprintf("%s must be between 1 and %d", s.name, scoreMax))
		}
	}
	note := strings.TrimSpace(in.Note)
	if utf8.RuneCountInString(note) > MaxNoteLength {
		return nil, shared.NewDomainError("INVALID_NOTE",
			fmt.Sprintf("Note cannot exceed %d characters", MaxNoteLength))
	}

	return &Entry{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     userID,
		Date:       date,
		Motivation: in.Motivation,
		Mood:       in.Mood,
		Wellbeing:  in.Wellbeing,
		Note:       note,
	}, nil
}

// Overwrite copies scores and note from other, keeping identity and date.
func (e *Entry) Overwrite(other *Entry) {
	e.Motivation = other.Motivation
	e.Mood = other.Mood
	e.Wellbeing = other.Wellbeing
	e.Note = other.Note
}

// Point returns the chartable projection of the entry.
func (e *Entry) Point() Point {
	return Point{
		Date:       e.Date,
		Motivation: float64(e.Motivation),
		Mood:       float64(e.Mood),
		Wellbeing:  float64(e.Wellbeing),
	}
}

// NormalizeDate checks that s is a calendar date in DateLayout and returns it
// in canonical form.
func NormalizeDate(s string) (string, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return "", shared.NewDomainError("INVALID_DATE", "Date must be in YYYY-MM-DD format")
	}
	return t.Format(DateLayout), nil
}

// WeekWindow returns the first and last label of the trailing seven-day
// window ending on today.
func WeekWindow(today time.Time) (from, to string) {
	return today.AddDate(0, 0, -6).Format(DateLayout), today.Format(DateLayout)
}
