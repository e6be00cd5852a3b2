package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolward/timetable-api/internal/models"
	"github.com/schoolward/timetable-api/pkg/config"
	appErrors "github.com/schoolward/timetable-api/pkg/errors"
)

type yearRepoStub struct {
	years        map[string]*models.AcademicYear
	listResult   []models.AcademicYear
	listTotal    int
	created      []*models.AcademicYear
	updated      []*models.AcademicYear
	activated    []string
	deleted      []string
	createErr    error
	setActiveErr error
}

func newYearRepoStub() *yearRepoStub {
	return &yearRepoStub{years: map[string]*models.AcademicYear{}}
}

func (s *yearRepoStub) List(ctx context.Context, filter models.AcademicYearFilter) ([]models.AcademicYear, int, error) {
	return s.listResult, s.listTotal, nil
}

func (s *yearRepoStub) FindByID(ctx context.Context, id string) (*models.AcademicYear, error) {
	if year, ok := s.years[id]; ok {
		copied := *year
		return &copied, nil
	}
	return nil, sql.ErrNoRows
}

func (s *yearRepoStub) FindActive(ctx context.Context) (*models.AcademicYear, error) {
	for _, year := range s.years {
		if year.IsActive {
			copied := *year
			return &copied, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *yearRepoStub) Create(ctx context.Context, year *models.AcademicYear) error {
	if s.createErr != nil {
		return s.createErr
	}
	year.ID = "year-new"
	s.created = append(s.created, year)
	s.years[year.ID] = year
	return nil
}

func (s *yearRepoStub) Update(ctx context.Context, year *models.AcademicYear) error {
	s.updated = append(s.updated, year)
	s.years[year.ID] = year
	return nil
}

func (s *yearRepoStub) SetActive(ctx context.Context, id string) error {
	if s.setActiveErr != nil {
		return s.setActiveErr
	}
	s.activated = append(s.activated, id)
	for _, year := range s.years {
		year.IsActive = year.ID == id
	}
	return nil
}

func (s *yearRepoStub) Delete(ctx context.Context, id string) error {
	s.deleted = append(s.deleted, id)
	delete(s.years, id)
	return nil
}

func yearServiceUnderTest(repo *yearRepoStub) *AcademicYearService {
	calendar := NewCalendarService(repo, nil, time.Minute, nil)
	cfg := config.TimetableConfig{DefaultQuarterWeeks: [4]int{8, 8, 10, 8}}
	return NewAcademicYearService(repo, calendar, cfg, nil, nil)
}

func TestAcademicYearServiceCreateDefaultsWeeks(t *testing.T) {
	repo := newYearRepoStub()
	svc := yearServiceUnderTest(repo)

	year, err := svc.Create(context.Background(), CreateAcademicYearRequest{
		Name:      "2024/2025",
		StartDate: time.Date(2024, time.September, 1, 14, 30, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	assert.Equal(t, 8, year.Quarter1Weeks)
	assert.Equal(t, 8, year.Quarter2Weeks)
	assert.Equal(t, 10, year.Quarter3Weeks)
	assert.Equal(t, 8, year.Quarter4Weeks)
	assert.Equal(t, date(2024, time.September, 1), year.StartDate, "start date is stored date-only")
	assert.False(t, year.IsActive)
}

func TestAcademicYearServiceCreateExplicitWeeks(t *testing.T) {
	repo := newYearRepoStub()
	svc := yearServiceUnderTest(repo)

	year, err := svc.Create(context.Background(), CreateAcademicYearRequest{
		Name:          "2025/2026",
		StartDate:     date(2025, time.September, 7),
		Quarter1Weeks: 9,
		Quarter2Weeks: 7,
		Quarter3Weeks: 11,
		Quarter4Weeks: 7,
		IsActive:      true,
	})
	require.NoError(t, err)

	assert.Equal(t, [4]int{9, 7, 11, 7}, year.QuarterWeeks())
	assert.True(t, year.IsActive)
	assert.Equal(t, []string{"year-new"}, repo.activated)
}

func TestAcademicYearServiceCreateRejectsMissingName(t *testing.T) {
	svc := yearServiceUnderTest(newYearRepoStub())

	_, err := svc.Create(context.Background(), CreateAcademicYearRequest{
		StartDate: date(2024, time.September, 1),
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAcademicYearServiceGetNotFound(t *testing.T) {
	svc := yearServiceUnderTest(newYearRepoStub())

	_, err := svc.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestAcademicYearServiceGetActiveNone(t *testing.T) {
	svc := yearServiceUnderTest(newYearRepoStub())

	_, err := svc.GetActive(context.Background())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestAcademicYearServiceQuarters(t *testing.T) {
	repo := newYearRepoStub()
	repo.years["year-1"] = sampleYear()
	svc := yearServiceUnderTest(repo)

	quarters, err := svc.Quarters(context.Background(), "year-1")
	require.NoError(t, err)
	require.Len(t, quarters, 4)
	assert.Equal(t, date(2024, time.September, 1), quarters[0].Start)
	assert.Equal(t, date(2025, time.April, 26), quarters[3].End)
}

func TestAcademicYearServiceUpdateActivates(t *testing.T) {
	repo := newYearRepoStub()
	repo.years["year-1"] = sampleYear()
	repo.years["year-1"].IsActive = false
	svc := yearServiceUnderTest(repo)

	active := true
	year, err := svc.Update(context.Background(), "year-1", UpdateAcademicYearRequest{
		Name:          "2024/2025 revised",
		StartDate:     date(2024, time.September, 8),
		Quarter1Weeks: 8,
		Quarter2Weeks: 8,
		Quarter3Weeks: 10,
		Quarter4Weeks: 8,
		IsActive:      &active,
	})
	require.NoError(t, err)

	assert.Equal(t, "2024/2025 revised", year.Name)
	assert.True(t, year.IsActive)
	assert.Equal(t, []string{"year-1"}, repo.activated)
}

func TestAcademicYearServiceDeleteActiveYearBlocked(t *testing.T) {
	repo := newYearRepoStub()
	repo.years["year-1"] = sampleYear() // active
	svc := yearServiceUnderTest(repo)

	err := svc.Delete(context.Background(), "year-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.deleted)
}

func TestAcademicYearServiceDeleteInactiveYear(t *testing.T) {
	repo := newYearRepoStub()
	year := sampleYear()
	year.IsActive = false
	repo.years["year-1"] = year
	svc := yearServiceUnderTest(repo)

	require.NoError(t, svc.Delete(context.Background(), "year-1"))
	assert.Equal(t, []string{"year-1"}, repo.deleted)
}

func TestAcademicYearServiceCurrentQuarterWithoutActiveYear(t *testing.T) {
	svc := yearServiceUnderTest(newYearRepoStub())

	info, err := svc.CurrentQuarter(context.Background())
	require.NoError(t, err)
	assert.Nil(t, info.Quarter)
	assert.Empty(t, info.Quarters)
}
