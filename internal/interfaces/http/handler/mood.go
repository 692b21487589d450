package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	moodapp "github.com/moodtrack/backend/internal/application/mood"
	"github.com/moodtrack/backend/internal/domain/mood"
	"github.com/moodtrack/backend/internal/domain/shared"
	"github.com/moodtrack/backend/internal/interfaces/http/dto"
	"github.com/moodtrack/backend/internal/interfaces/http/middleware"
)

// MoodHandler serves the mood tracker pages and chart data
type MoodHandler struct {
	BaseHandler
	entries *moodapp.EntryService
	now     func() time.Time
}

// NewMoodHandler creates a new MoodHandler
func NewMoodHandler(base BaseHandler, entries *moodapp.EntryService) *MoodHandler {
	return &MoodHandler{BaseHandler: base, entries: entries, now: time.Now}
}

// AddMoodForm is the payload of POST /add_mood. A blank date means today.
type AddMoodForm struct {
	Date       string `form:"date" binding:"omitempty,isodate"`
	Motivation int    `form:"motivation" binding:"required"`
	Mood       int    `form:"mood" binding:"required"`
	Wellbeing  int    `form:"wellbeing" binding:"required"`
	Note       string `form:"note"`
}

// trackerPage is rendered by mood_tracker.html
type trackerPage struct {
	Today    string
	ScoreMax int
	Entries  []moodapp.EntryResponse
}

// Tracker renders the user's entries and the chart
//
// GET /mood-tracker
func (h *MoodHandler) Tracker(c *gin.Context) {
	entries, err := h.entries.List(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.render(c, http.StatusOK, "mood_tracker.html", "Mood tracker", trackerPage{
		Today:    h.entries.Today(),
		ScoreMax: h.entries.ScoreMax(),
		Entries:  entries,
	})
}

// Weekly renders the last seven days
//
// GET /mood-tracker/weekly
func (h *MoodHandler) Weekly(c *gin.Context) {
	week, err := h.entries.Weekly(c.Request.Context(), middleware.CurrentUserID(c), h.now())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.render(c, http.StatusOK, "mood_weekly.html", "This week", week)
}

// Add records an entry for the signed-in user
//
// POST /add_mood
func (h *MoodHandler) Add(c *gin.Context) {
	var form AddMoodForm
	if err := c.ShouldBind(&form); err != nil {
		h.flashRedirect(c, middleware.FlashError, middleware.ValidationMessage(err), middleware.MoodTrackerPath)
		return
	}

	result, err := h.entries.Add(c.Request.Context(), middleware.CurrentUserID(c), mood.EntryInput{
		Date:       form.Date,
		Motivation: form.Motivation,
		Mood:       form.Mood,
		Wellbeing:  form.Wellbeing,
		Note:       form.Note,
	})
	if err != nil {
		if _, status, msg := dto.Classify(err); status < http.StatusInternalServerError {
			h.flashRedirect(c, middleware.FlashError, msg, middleware.MoodTrackerPath)
			return
		}
		h.HandleError(c, err)
		return
	}

	if result.Replaced {
		h.flashRedirect(c, middleware.FlashInfo, "Replaced your entry for "+result.Entry.Date, middleware.MoodTrackerPath)
		return
	}
	h.flashRedirect(c, middleware.FlashSuccess, "Entry saved for "+result.Entry.Date, middleware.MoodTrackerPath)
}

// Delete removes one of the user's own entries. Entries of other users are
// reported as not found and left untouched.
//
// GET /delete_mood/:id
func (h *MoodHandler) Delete(c *gin.Context) {
	err := h.entries.Delete(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"))
	switch {
	case errors.Is(err, shared.ErrNotFound):
		h.flashRedirect(c, middleware.FlashError, "Entry not found", middleware.MoodTrackerPath)
	case err != nil:
		h.HandleError(c, err)
	default:
		h.flashRedirect(c, middleware.FlashSuccess, "Entry deleted", middleware.MoodTrackerPath)
	}
}

// ChartData returns the per-date averages of every entry
//
// GET /api/mood-data
func (h *MoodHandler) ChartData(c *gin.Context) {
	series, err := h.entries.ChartData(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		h.JSONError(c, err)
		return
	}
	c.JSON(http.StatusOK, series)
}

// WeeklyChartData returns the per-date averages of the last seven days
//
// GET /api/mood-data/weekly
func (h *MoodHandler) WeeklyChartData(c *gin.Context) {
	series, err := h.entries.WeeklyChartData(c.Request.Context(), middleware.CurrentUserID(c), h.now())
	if err != nil {
		h.JSONError(c, err)
		return
	}
	c.JSON(http.StatusOK, series)
}
