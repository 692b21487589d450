package mood

import (
	"context"
	"fmt"
	"time"

	"github.com/moodtrack/backend/internal/domain/mood"
	"github.com/moodtrack/backend/internal/domain/shared"
	"github.com/moodtrack/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// EntryServiceConfig holds the check-in rules
type EntryServiceConfig struct {
	ScoreMax        int
	DuplicatePolicy mood.DuplicatePolicy
}

// EntryService handles mood check-ins. Every operation is scoped to the
// calling user's ID.
type EntryService struct {
	repo    mood.EntryRepository
	config  EntryServiceConfig
	metrics *telemetry.AppMetrics
	logger  *zap.Logger
	now     func() time.Time
}

// NewEntryService creates a new EntryService. metrics may be nil.
func NewEntryService(repo mood.EntryRepository, config EntryServiceConfig, metrics *telemetry.AppMetrics, logger *zap.Logger) *EntryService {
	if config.ScoreMax <= 0 {
		config.ScoreMax = mood.DefaultScoreMax
	}
	if config.DuplicatePolicy == "" {
		config.DuplicatePolicy = mood.DuplicateAllow
	}
	return &EntryService{
		repo:    repo,
		config:  config,
		metrics: metrics,
		logger:  logger,
		now:     time.Now,
	}
}

// SetClock replaces time.Now, for tests
func (s *EntryService) SetClock(now func() time.Time) {
	s.now = now
}

// ScoreMax returns the upper bound of a score
func (s *EntryService) ScoreMax() int {
	return s.config.ScoreMax
}

// Today returns the current calendar date in mood.DateLayout
func (s *EntryService) Today() string {
	return s.now().Format(mood.DateLayout)
}

// List returns the user's entries ordered by date
func (s *EntryService) List(ctx context.Context, userID string) ([]EntryResponse, error) {
	entries, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ToEntryResponses(entries), nil
}

// Add records a check-in. A blank date means today. A second entry for the
// same date is kept, refused or merged according to the duplicate policy.
func (s *EntryService) Add(ctx context.Context, userID string, input mood.EntryInput) (*AddEntryResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "mood_entry", "add",
		"user_id", userID, "policy", string(s.config.DuplicatePolicy))
	defer span.End()

	if input.Date == "" {
		input.Date = s.Today()
	}
	entry, err := mood.NewEntry(userID, input, s.config.ScoreMax)
	if err != nil {
		s.metrics.MoodEntry(ctx, "invalid")
		return nil, err
	}

	if s.config.DuplicatePolicy != mood.DuplicateAllow {
		existing, err := s.repo.FindByUserAndDate(ctx, userID, entry.Date)
		if err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
		if len(existing) > 0 {
			return s.resolveDuplicate(ctx, existing[0], entry)
		}
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	s.metrics.MoodEntry(ctx, "created")
	s.logger.Debug("Mood entry recorded",
		zap.String("user_id", userID),
		zap.String("entry_id", entry.ID),
		zap.String("date", entry.Date))
	return &AddEntryResult{Entry: ToEntryResponse(entry)}, nil
}

func (s *EntryService) resolveDuplicate(ctx context.Context, existing, incoming *mood.Entry) (*AddEntryResult, error) {
	if s.config.DuplicatePolicy == mood.DuplicateReject {
		s.metrics.MoodEntry(ctx, "rejected")
		return nil, shared.NewDomainError(shared.ErrAlreadyExists.Code,
			fmt.Sprintf("An entry for %s already exists", incoming.Date))
	}

	existing.Overwrite(incoming)
	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, err
	}
	s.metrics.MoodEntry(ctx, "replaced")
	return &AddEntryResult{Entry: ToEntryResponse(existing), Replaced: true}, nil
}

// Delete removes an entry owned by userID. A missing entry and another
// user's entry both return shared.ErrNotFound and change nothing.
func (s *EntryService) Delete(ctx context.Context, userID, id string) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "mood_entry", "delete", "user_id", userID)
	defer span.End()

	if err := s.repo.DeleteForUser(ctx, userID, id); err != nil {
		if shared.CodeOf(err) != shared.ErrNotFound.Code {
			telemetry.RecordError(span, err)
		}
		return err
	}
	return nil
}

// ChartData aggregates all of the user's entries per date
func (s *EntryService) ChartData(ctx context.Context, userID string) (mood.ChartSeries, error) {
	entries, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return mood.ChartSeries{}, err
	}
	return mood.AggregateEntries(entries), nil
}

// WeeklyChartData aggregates the trailing seven days ending on today
func (s *EntryService) WeeklyChartData(ctx context.Context, userID string, today time.Time) (mood.ChartSeries, error) {
	view, err := s.Weekly(ctx, userID, today)
	if err != nil {
		return mood.ChartSeries{}, err
	}
	return view.Chart, nil
}

// Weekly returns the entries and chart of the trailing seven days ending on today
func (s *EntryService) Weekly(ctx context.Context, userID string, today time.Time) (*WeeklyView, error) {
	from, to := mood.WeekWindow(today)
	entries, err := s.repo.FindByUserInRange(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	points := make([]mood.Point, len(entries))
	for i, e := range entries {
		points[i] = e.Point()
	}
	return &WeeklyView{
		From:    from,
		To:      to,
		Entries: ToEntryResponses(entries),
		Chart:   mood.AggregateWindow(points, from, to),
	}, nil
}
