package service

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"

	"github.com/schoolward/timetable-api/internal/models"
	appErrors "github.com/schoolward/timetable-api/pkg/errors"
)

const activeYearCacheKey = "calendar:active_year"

// ComputeQuarters partitions an academic year into four contiguous inclusive
// date ranges. Quarter i spans weeks[i]*7 days starting the day after the
// previous quarter's end; quarter 1 starts on the year's start date. Returns
// nil when the year is absent or malformed (no start date, or a week count
// below one) so callers can treat "no calendar" as a normal state.
func ComputeQuarters(year *models.AcademicYear) []models.QuarterRange {
	if year == nil || year.StartDate.IsZero() {
		return nil
	}
	weeks := year.QuarterWeeks()
	for _, w := range weeks {
		if w < 1 {
			return nil
		}
	}

	quarters := make([]models.QuarterRange, 4)
	start := models.DateOnly(year.StartDate)
	for i, w := range weeks {
		end := start.AddDate(0, 0, w*7-1)
		quarters[i] = models.QuarterRange{Quarter: i + 1, Start: start, End: end}
		start = end.AddDate(0, 0, 1)
	}
	return quarters
}

// ClassifyDate returns the quarter number (1..4) whose inclusive range
// contains the date, or 0 when the date falls outside all four ranges.
func ClassifyDate(date time.Time, quarters []models.QuarterRange) int {
	for _, q := range quarters {
		if q.Contains(date) {
			return q.Quarter
		}
	}
	return 0
}

type academicYearFinder interface {
	FindActive(ctx context.Context) (*models.AcademicYear, error)
}

type calendarCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// CalendarService resolves the active academic year and classifies dates
// into quarters. Quarter ranges are recomputed on every call; only the
// active-year record itself is cached.
type CalendarService struct {
	years    academicYearFinder
	cache    calendarCache
	cacheTTL time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

// NewCalendarService creates a calendar service instance.
func NewCalendarService(years academicYearFinder, cache calendarCache, cacheTTL time.Duration, logger *zap.Logger) *CalendarService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CalendarService{
		years:    years,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger,
		now:      time.Now,
	}
}

// ActiveYear returns the active academic year, or nil when none is
// configured. Lookup errors other than "no rows" are surfaced.
func (s *CalendarService) ActiveYear(ctx context.Context) (*models.AcademicYear, error) {
	if s.cache != nil {
		var cached models.AcademicYear
		if err := s.cache.Get(ctx, activeYearCacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	year, err := s.years.FindActive(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load active academic year")
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, activeYearCacheKey, year, s.cacheTTL); err != nil {
			s.logger.Warn("failed to cache active academic year", zap.Error(err))
		}
	}
	return year, nil
}

// InvalidateActiveYear drops the cached active-year record. Called after
// any academic-year mutation.
func (s *CalendarService) InvalidateActiveYear(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, activeYearCacheKey); err != nil {
		s.logger.Warn("failed to invalidate active academic year cache", zap.Error(err))
	}
}

// CurrentQuarter classifies "today" against the active year's quarters.
// Returns 0 when no active year is configured, the year is malformed, or
// today falls outside all quarters (e.g. summer); none of these is an error.
func (s *CalendarService) CurrentQuarter(ctx context.Context) (int, error) {
	year, err := s.ActiveYear(ctx)
	if err != nil {
		return 0, err
	}
	return ClassifyDate(s.now(), ComputeQuarters(year)), nil
}
