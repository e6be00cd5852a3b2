package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolward/timetable-api/internal/models"
	appErrors "github.com/schoolward/timetable-api/pkg/errors"
)

type yearFinderStub struct {
	year  *models.AcademicYear
	err   error
	calls int
}

func (s *yearFinderStub) FindActive(ctx context.Context) (*models.AcademicYear, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	if s.year == nil {
		return nil, sql.ErrNoRows
	}
	return s.year, nil
}

type cacheStub struct {
	values  map[string]*models.AcademicYear
	getErr  error
	setErr  error
	deletes []string
}

func newCacheStub() *cacheStub {
	return &cacheStub{values: map[string]*models.AcademicYear{}}
}

func (s *cacheStub) Get(ctx context.Context, key string, dest interface{}) error {
	if s.getErr != nil {
		return s.getErr
	}
	cached, ok := s.values[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	*dest.(*models.AcademicYear) = *cached
	return nil
}

func (s *cacheStub) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if s.setErr != nil {
		return s.setErr
	}
	s.values[key] = value.(*models.AcademicYear)
	return nil
}

func (s *cacheStub) Delete(ctx context.Context, key string) error {
	s.deletes = append(s.deletes, key)
	delete(s.values, key)
	return nil
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sampleYear() *models.AcademicYear {
	return &models.AcademicYear{
		ID:            "year-1",
		Name:          "2024/2025",
		StartDate:     date(2024, time.September, 1),
		Quarter1Weeks: 8,
		Quarter2Weeks: 8,
		Quarter3Weeks: 10,
		Quarter4Weeks: 8,
		IsActive:      true,
	}
}

func TestComputeQuartersContiguousRanges(t *testing.T) {
	quarters := ComputeQuarters(sampleYear())
	require.Len(t, quarters, 4)

	assert.Equal(t, date(2024, time.September, 1), quarters[0].Start)
	assert.Equal(t, date(2024, time.October, 26), quarters[0].End)
	assert.Equal(t, date(2024, time.October, 27), quarters[1].Start)
	assert.Equal(t, date(2024, time.December, 21), quarters[1].End)
	assert.Equal(t, date(2024, time.December, 22), quarters[2].Start)
	assert.Equal(t, date(2025, time.March, 1), quarters[2].End)
	assert.Equal(t, date(2025, time.March, 2), quarters[3].Start)
	assert.Equal(t, date(2025, time.April, 26), quarters[3].End)

	for i := 1; i < 4; i++ {
		assert.Equal(t, quarters[i-1].End.AddDate(0, 0, 1), quarters[i].Start,
			"quarter %d must start the day after quarter %d ends", i+1, i)
	}
}

func TestComputeQuartersMalformedYear(t *testing.T) {
	assert.Nil(t, ComputeQuarters(nil))

	noStart := sampleYear()
	noStart.StartDate = time.Time{}
	assert.Nil(t, ComputeQuarters(noStart))

	zeroWeeks := sampleYear()
	zeroWeeks.Quarter3Weeks = 0
	assert.Nil(t, ComputeQuarters(zeroWeeks))
}

func TestClassifyDate(t *testing.T) {
	quarters := ComputeQuarters(sampleYear())

	cases := []struct {
		name string
		date time.Time
		want int
	}{
		{"first day of year", date(2024, time.September, 1), 1},
		{"last day of quarter 1", date(2024, time.October, 26), 1},
		{"first day of quarter 2", date(2024, time.October, 27), 2},
		{"mid quarter 3", date(2025, time.January, 15), 3},
		{"last day of year", date(2025, time.April, 26), 4},
		{"before the year", date(2024, time.August, 31), 0},
		{"after the year", date(2025, time.April, 27), 0},
		{"time of day is ignored", time.Date(2024, time.October, 26, 23, 59, 0, 0, time.UTC), 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ClassifyDate(tc.date, quarters))
		})
	}

	assert.Equal(t, 0, ClassifyDate(date(2024, time.October, 1), nil))
}

func TestCalendarServiceActiveYearCaches(t *testing.T) {
	finder := &yearFinderStub{year: sampleYear()}
	cache := newCacheStub()
	svc := NewCalendarService(finder, cache, time.Minute, nil)

	year, err := svc.ActiveYear(context.Background())
	require.NoError(t, err)
	require.NotNil(t, year)
	assert.Equal(t, "year-1", year.ID)
	assert.Equal(t, 1, finder.calls)

	// Second call is served from the cache.
	_, err = svc.ActiveYear(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, finder.calls)

	svc.InvalidateActiveYear(context.Background())
	assert.Contains(t, cache.deletes, "calendar:active_year")

	_, err = svc.ActiveYear(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, finder.calls)
}

func TestCalendarServiceActiveYearNoneConfigured(t *testing.T) {
	svc := NewCalendarService(&yearFinderStub{}, nil, time.Minute, nil)

	year, err := svc.ActiveYear(context.Background())
	require.NoError(t, err)
	assert.Nil(t, year, "no active year is a normal state, not an error")
}

func TestCalendarServiceActiveYearRepositoryError(t *testing.T) {
	svc := NewCalendarService(&yearFinderStub{err: errors.New("connection refused")}, nil, time.Minute, nil)

	_, err := svc.ActiveYear(context.Background())
	require.Error(t, err)

	appErr := appErrors.FromError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, appErrors.ErrInternal.Code, appErr.Code)
}

func TestCalendarServiceCurrentQuarter(t *testing.T) {
	finder := &yearFinderStub{year: sampleYear()}
	svc := NewCalendarService(finder, nil, time.Minute, nil)
	svc.now = func() time.Time { return date(2024, time.November, 5) }

	quarter, err := svc.CurrentQuarter(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, quarter)

	svc.now = func() time.Time { return date(2025, time.July, 1) }
	quarter, err = svc.CurrentQuarter(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, quarter, "summer break belongs to no quarter")
}

func TestCalendarServiceCurrentQuarterNoYear(t *testing.T) {
	svc := NewCalendarService(&yearFinderStub{}, nil, time.Minute, nil)

	quarter, err := svc.CurrentQuarter(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, quarter)
}
