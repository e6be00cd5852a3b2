package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/schoolward/timetable-api/internal/models"
)

// AcademicYearRepository handles persistence for academic years.
type AcademicYearRepository struct {
	db *sqlx.DB
}

// NewAcademicYearRepository instantiates an academic year repository.
func NewAcademicYearRepository(db *sqlx.DB) *AcademicYearRepository {
	return &AcademicYearRepository{db: db}
}

const academicYearColumns = "id, name, start_date, quarter1_weeks, quarter2_weeks, quarter3_weeks, quarter4_weeks, is_active, created_at, updated_at"

// List returns academic years matching provided filters.
func (r *AcademicYearRepository) List(ctx context.Context, filter models.AcademicYearFilter) ([]models.AcademicYear, int, error) {
	base := "FROM academic_years WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.IsActive != nil {
		conditions = append(conditions, fmt.Sprintf("is_active = $%d", len(args)+1))
		args = append(args, *filter.IsActive)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	allowedSorts := map[string]bool{
		"name":       true,
		"start_date": true,
		"created_at": true,
	}
	if !allowedSorts[sortBy] {
		sortBy = "start_date"
	}

	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d", academicYearColumns, base, sortBy, order, size, offset)

	var years []models.AcademicYear
	if err := r.db.SelectContext(ctx, &years, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list academic years: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count academic years: %w", err)
	}

	return years, total, nil
}

// FindByID loads an academic year by identifier.
func (r *AcademicYearRepository) FindByID(ctx context.Context, id string) (*models.AcademicYear, error) {
	query := fmt.Sprintf("SELECT %s FROM academic_years WHERE id = $1", academicYearColumns)
	var year models.AcademicYear
	if err := r.db.GetContext(ctx, &year, query, id); err != nil {
		return nil, err
	}
	return &year, nil
}

// FindActive returns the currently active academic year.
func (r *AcademicYearRepository) FindActive(ctx context.Context) (*models.AcademicYear, error) {
	query := fmt.Sprintf("SELECT %s FROM academic_years WHERE is_active = TRUE LIMIT 1", academicYearColumns)
	var year models.AcademicYear
	if err := r.db.GetContext(ctx, &year, query); err != nil {
		return nil, err
	}
	return &year, nil
}

// Create inserts a new academic year record.
func (r *AcademicYearRepository) Create(ctx context.Context, year *models.AcademicYear) error {
	if year.ID == "" {
		year.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if year.CreatedAt.IsZero() {
		year.CreatedAt = now
	}
	year.UpdatedAt = now

	const query = `INSERT INTO academic_years (id, name, start_date, quarter1_weeks, quarter2_weeks, quarter3_weeks, quarter4_weeks, is_active, created_at, updated_at) VALUES (:id, :name, :start_date, :quarter1_weeks, :quarter2_weeks, :quarter3_weeks, :quarter4_weeks, :is_active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, year); err != nil {
		return fmt.Errorf("create academic year: %w", err)
	}
	return nil
}

// Update modifies an existing academic year.
func (r *AcademicYearRepository) Update(ctx context.Context, year *models.AcademicYear) error {
	year.UpdatedAt = time.Now().UTC()
	const query = `UPDATE academic_years SET name = :name, start_date = :start_date, quarter1_weeks = :quarter1_weeks, quarter2_weeks = :quarter2_weeks, quarter3_weeks = :quarter3_weeks, quarter4_weeks = :quarter4_weeks, is_active = :is_active, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, year); err != nil {
		return fmt.Errorf("update academic year: %w", err)
	}
	return nil
}

// SetActive marks the provided year as active and deactivates the rest.
func (r *AcademicYearRepository) SetActive(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin set active tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `UPDATE academic_years SET is_active = FALSE, updated_at = $1 WHERE is_active = TRUE AND id <> $2`, time.Now().UTC(), id); err != nil {
		return fmt.Errorf("deactivate other academic years: %w", err)
	}

	if _, err = tx.ExecContext(ctx, `UPDATE academic_years SET is_active = TRUE, updated_at = $2 WHERE id = $1`, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("activate academic year: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit set active tx: %w", err)
	}
	return nil
}

// Delete removes an academic year permanently.
func (r *AcademicYearRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM academic_years WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete academic year: %w", err)
	}
	return nil
}
