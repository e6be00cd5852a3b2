package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/schoolward/timetable-api/internal/models"
)

// ScheduleSlotRepository manages weekly recurring schedule slots.
type ScheduleSlotRepository struct {
	db *sqlx.DB
}

// NewScheduleSlotRepository instantiates a schedule slot repository.
func NewScheduleSlotRepository(db *sqlx.DB) *ScheduleSlotRepository {
	return &ScheduleSlotRepository{db: db}
}

const slotColumns = "id, subject_group_id, day_of_week, start_time, end_time, room, quarter, created_at, updated_at"

// List returns all slots of a subject group in insertion order.
func (r *ScheduleSlotRepository) List(ctx context.Context, subjectGroupID string) ([]models.ScheduleSlot, error) {
	query := fmt.Sprintf("SELECT %s FROM schedule_slots WHERE subject_group_id = $1 ORDER BY created_at ASC, id ASC", slotColumns)
	var slots []models.ScheduleSlot
	if err := r.db.SelectContext(ctx, &slots, query, subjectGroupID); err != nil {
		return nil, fmt.Errorf("list schedule slots: %w", err)
	}
	return slots, nil
}

// Filter returns slots matching the filter, still in insertion order.
func (r *ScheduleSlotRepository) Filter(ctx context.Context, filter models.SlotFilter) ([]models.ScheduleSlot, error) {
	base := fmt.Sprintf("SELECT %s FROM schedule_slots WHERE subject_group_id = $1", slotColumns)
	args := []interface{}{filter.SubjectGroupID}

	if filter.DayOfWeek != nil {
		base += fmt.Sprintf(" AND day_of_week = $%d", len(args)+1)
		args = append(args, *filter.DayOfWeek)
	}
	if filter.Quarter != nil {
		base += fmt.Sprintf(" AND (quarter IS NULL OR quarter = $%d)", len(args)+1)
		args = append(args, *filter.Quarter)
	}

	var slots []models.ScheduleSlot
	if err := r.db.SelectContext(ctx, &slots, base+" ORDER BY created_at ASC, id ASC", args...); err != nil {
		return nil, fmt.Errorf("filter schedule slots: %w", err)
	}
	return slots, nil
}

// FindByID loads one slot by identifier.
func (r *ScheduleSlotRepository) FindByID(ctx context.Context, id string) (*models.ScheduleSlot, error) {
	query := fmt.Sprintf("SELECT %s FROM schedule_slots WHERE id = $1", slotColumns)
	var slot models.ScheduleSlot
	if err := r.db.GetContext(ctx, &slot, query, id); err != nil {
		return nil, err
	}
	return &slot, nil
}

// Create inserts a slot and returns the canonical stored record.
func (r *ScheduleSlotRepository) Create(ctx context.Context, slot models.ScheduleSlot) (*models.ScheduleSlot, error) {
	if slot.ID == "" {
		slot.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	slot.CreatedAt = now
	slot.UpdatedAt = now

	const query = `INSERT INTO schedule_slots (id, subject_group_id, day_of_week, start_time, end_time, room, quarter, created_at, updated_at) VALUES (:id, :subject_group_id, :day_of_week, :start_time, :end_time, :room, :quarter, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, slot); err != nil {
		return nil, fmt.Errorf("create schedule slot: %w", err)
	}
	return &slot, nil
}

// Update overwrites the mutable fields of a slot.
func (r *ScheduleSlotRepository) Update(ctx context.Context, id string, slot models.ScheduleSlot) (*models.ScheduleSlot, error) {
	slot.ID = id
	slot.UpdatedAt = time.Now().UTC()

	const query = `UPDATE schedule_slots SET day_of_week = :day_of_week, start_time = :start_time, end_time = :end_time, room = :room, quarter = :quarter, updated_at = :updated_at WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, slot)
	if err != nil {
		return nil, fmt.Errorf("update schedule slot: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return nil, sql.ErrNoRows
	}
	return &slot, nil
}

// Delete removes a slot permanently.
func (r *ScheduleSlotRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM schedule_slots WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete schedule slot: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
