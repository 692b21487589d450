package mood

import (
	"time"

	"github.com/moodtrack/backend/internal/domain/mood"
)

// EntryResponse represents a mood entry in page responses
type EntryResponse struct {
	ID         string    `json:"id"`
	Date       string    `json:"date"`
	Motivation int       `json:"motivation"`
	Mood       int       `json:"mood"`
	Wellbeing  int       `json:"wellbeing"`
	Note       string    `json:"note"`
	CreatedAt  time.Time `json:"created_at"`
}

// AddEntryResult reports what Add did with the entry
type AddEntryResult struct {
	Entry    EntryResponse
	Replaced bool
}

// WeeklyView is the trailing seven-day window of a user's entries
type WeeklyView struct {
	From    string
	To      string
	Entries []EntryResponse
	Chart   mood.ChartSeries
}

// ToEntryResponse converts a domain entry to a response
func ToEntryResponse(e *mood.Entry) EntryResponse {
	return EntryResponse{
		ID:         e.ID,
		Date:       e.Date,
		Motivation: e.Motivation,
		Mood:       e.Mood,
		Wellbeing:  e.Wellbeing,
		Note:       e.Note,
		CreatedAt:  e.CreatedAt,
	}
}

// ToEntryResponses converts a slice of domain entries
func ToEntryResponses(entries []*mood.Entry) []EntryResponse {
	out := make([]EntryResponse, len(entries))
	for i, e := range entries {
		out[i] = ToEntryResponse(e)
	}
	return out
}
