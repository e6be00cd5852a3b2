package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/schoolward/timetable-api/internal/models"
	"github.com/schoolward/timetable-api/pkg/config"
	appErrors "github.com/schoolward/timetable-api/pkg/errors"
)

type academicYearRepository interface {
	List(ctx context.Context, filter models.AcademicYearFilter) ([]models.AcademicYear, int, error)
	FindByID(ctx context.Context, id string) (*models.AcademicYear, error)
	FindActive(ctx context.Context) (*models.AcademicYear, error)
	Create(ctx context.Context, year *models.AcademicYear) error
	Update(ctx context.Context, year *models.AcademicYear) error
	SetActive(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

// CreateAcademicYearRequest describes payload for creating academic years.
// Week counts left at zero fall back to the configured defaults.
type CreateAcademicYearRequest struct {
	Name          string    `json:"name" validate:"required"`
	StartDate     time.Time `json:"start_date" validate:"required"`
	Quarter1Weeks int       `json:"quarter1_weeks" validate:"min=0"`
	Quarter2Weeks int       `json:"quarter2_weeks" validate:"min=0"`
	Quarter3Weeks int       `json:"quarter3_weeks" validate:"min=0"`
	Quarter4Weeks int       `json:"quarter4_weeks" validate:"min=0"`
	IsActive      bool      `json:"is_active"`
}

// UpdateAcademicYearRequest updates mutable fields on an academic year.
type UpdateAcademicYearRequest struct {
	Name          string    `json:"name" validate:"required"`
	StartDate     time.Time `json:"start_date" validate:"required"`
	Quarter1Weeks int       `json:"quarter1_weeks" validate:"min=1"`
	Quarter2Weeks int       `json:"quarter2_weeks" validate:"min=1"`
	Quarter3Weeks int       `json:"quarter3_weeks" validate:"min=1"`
	Quarter4Weeks int       `json:"quarter4_weeks" validate:"min=1"`
	IsActive      *bool     `json:"is_active"`
}

// CurrentQuarterInfo is the calendar state exposed to editors: the quarter
// containing today (nil outside every quarter) plus the computed ranges.
type CurrentQuarterInfo struct {
	Quarter  *int                  `json:"quarter"`
	Quarters []models.QuarterRange `json:"quarters,omitempty"`
}

// AcademicYearService orchestrates academic-year workflows.
type AcademicYearService struct {
	repo      academicYearRepository
	calendar  *CalendarService
	timetable config.TimetableConfig
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAcademicYearService creates a new academic year service instance.
func NewAcademicYearService(repo academicYearRepository, calendar *CalendarService, timetable config.TimetableConfig, validate *validator.Validate, logger *zap.Logger) *AcademicYearService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AcademicYearService{repo: repo, calendar: calendar, timetable: timetable, validator: validate, logger: logger}
}

// List returns paginated academic years.
func (s *AcademicYearService) List(ctx context.Context, filter models.AcademicYearFilter) ([]models.AcademicYear, *models.Pagination, error) {
	years, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list academic years")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}

	pagination := &models.Pagination{
		Page:       page,
		PageSize:   size,
		TotalCount: total,
	}
	return years, pagination, nil
}

// Get returns an academic year by ID.
func (s *AcademicYearService) Get(ctx context.Context, id string) (*models.AcademicYear, error) {
	year, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "academic year not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load academic year")
	}
	return year, nil
}

// GetActive returns the currently active academic year.
func (s *AcademicYearService) GetActive(ctx context.Context) (*models.AcademicYear, error) {
	year, err := s.calendar.ActiveYear(ctx)
	if err != nil {
		return nil, err
	}
	if year == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no active academic year")
	}
	return year, nil
}

// Quarters computes the four quarter ranges of a stored year.
func (s *AcademicYearService) Quarters(ctx context.Context, id string) ([]models.QuarterRange, error) {
	year, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	quarters := ComputeQuarters(year)
	if quarters == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "academic year has no usable calendar")
	}
	return quarters, nil
}

// CurrentQuarter reports which quarter contains today, together with the
// active year's quarter ranges. An absent active year yields a nil quarter
// and no ranges, which is a normal state, not an error.
func (s *AcademicYearService) CurrentQuarter(ctx context.Context) (*CurrentQuarterInfo, error) {
	year, err := s.calendar.ActiveYear(ctx)
	if err != nil {
		return nil, err
	}
	info := &CurrentQuarterInfo{}
	if year == nil {
		return info, nil
	}

	quarters := ComputeQuarters(year)
	info.Quarters = quarters
	if q := ClassifyDate(time.Now(), quarters); q > 0 {
		info.Quarter = &q
	}
	return info, nil
}

// Create adds a new academic year, defaulting week counts from config.
func (s *AcademicYearService) Create(ctx context.Context, req CreateAcademicYearRequest) (*models.AcademicYear, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid academic year payload")
	}

	weeks := [4]int{req.Quarter1Weeks, req.Quarter2Weeks, req.Quarter3Weeks, req.Quarter4Weeks}
	for i := range weeks {
		if weeks[i] == 0 {
			weeks[i] = s.timetable.DefaultQuarterWeeks[i]
		}
		if weeks[i] < 1 {
			return nil, appErrors.Clone(appErrors.ErrValidation, "quarter week counts must be at least 1")
		}
	}

	year := &models.AcademicYear{
		Name:          req.Name,
		StartDate:     models.DateOnly(req.StartDate),
		Quarter1Weeks: weeks[0],
		Quarter2Weeks: weeks[1],
		Quarter3Weeks: weeks[2],
		Quarter4Weeks: weeks[3],
		IsActive:      req.IsActive,
	}

	if err := s.repo.Create(ctx, year); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create academic year")
	}

	if req.IsActive {
		if err := s.repo.SetActive(ctx, year.ID); err != nil {
			s.logger.Error("failed to activate academic year after create", zap.Error(err))
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to activate academic year")
		}
		year.IsActive = true
	}

	s.calendar.InvalidateActiveYear(ctx)
	return year, nil
}

// Update modifies an academic year record.
func (s *AcademicYearService) Update(ctx context.Context, id string, req UpdateAcademicYearRequest) (*models.AcademicYear, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid academic year payload")
	}

	year, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	year.Name = req.Name
	year.StartDate = models.DateOnly(req.StartDate)
	year.Quarter1Weeks = req.Quarter1Weeks
	year.Quarter2Weeks = req.Quarter2Weeks
	year.Quarter3Weeks = req.Quarter3Weeks
	year.Quarter4Weeks = req.Quarter4Weeks
	if req.IsActive != nil {
		year.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, year); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update academic year")
	}

	if req.IsActive != nil && *req.IsActive {
		if err := s.repo.SetActive(ctx, year.ID); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to activate academic year")
		}
		year.IsActive = true
	}

	s.calendar.InvalidateActiveYear(ctx)
	return year, nil
}

// SetActive designates an academic year as the single active one.
func (s *AcademicYearService) SetActive(ctx context.Context, id string) (*models.AcademicYear, error) {
	year, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.SetActive(ctx, year.ID); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to activate academic year")
	}
	year.IsActive = true

	s.calendar.InvalidateActiveYear(ctx)
	return year, nil
}

// Delete removes an academic year when it is not active.
func (s *AcademicYearService) Delete(ctx context.Context, id string) error {
	year, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if year.IsActive {
		return appErrors.Clone(appErrors.ErrPreconditionFailed, "cannot delete active academic year")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete academic year")
	}

	s.calendar.InvalidateActiveYear(ctx)
	return nil
}
