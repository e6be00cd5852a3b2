package service

import (
	"context"
	"database/sql"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/schoolward/timetable-api/internal/models"
	appErrors "github.com/schoolward/timetable-api/pkg/errors"
)

type scheduleSlotRepository interface {
	SlotStore
	Filter(ctx context.Context, filter models.SlotFilter) ([]models.ScheduleSlot, error)
	FindByID(ctx context.Context, id string) (*models.ScheduleSlot, error)
}

// CreateSlotRequest describes the payload for creating one schedule slot.
type CreateSlotRequest struct {
	SubjectGroupID string           `json:"subject_group" validate:"required"`
	DayOfWeek      int              `json:"day_of_week" validate:"min=0,max=6"`
	StartTime      models.ClockTime `json:"start_time"`
	EndTime        models.ClockTime `json:"end_time"`
	Room           *string          `json:"room"`
	Quarter        *int             `json:"quarter" validate:"omitempty,min=1,max=4"`
}

// PatchSlotRequest updates any subset of a slot's fields. Unlike the editing
// session, a PATCH here scopes the quarter to the one record; the broadcast
// semantics belong to the editor, not the storage API.
type PatchSlotRequest struct {
	DayOfWeek *int              `json:"day_of_week" validate:"omitempty,min=0,max=6"`
	StartTime *models.ClockTime `json:"start_time"`
	EndTime   *models.ClockTime `json:"end_time"`
	Room      *string           `json:"room"`
	Quarter   *int              `json:"quarter" validate:"omitempty,min=0,max=4"`
}

// BulkSlotInput is one slot of a submitted editing session. Slots with an
// ID update the persisted record; ID-less slots are created.
type BulkSlotInput struct {
	ID        string           `json:"id"`
	DayOfWeek int              `json:"day_of_week" validate:"min=0,max=6"`
	StartTime models.ClockTime `json:"start_time"`
	EndTime   models.ClockTime `json:"end_time"`
	Room      *string          `json:"room"`
	Quarter   *int             `json:"quarter" validate:"omitempty,min=1,max=4"`
}

// ReplaceScheduleRequest swaps a group's whole weekly schedule for the
// submitted slot list. ConfirmClear must be set to wipe a non-empty
// schedule with an empty list.
type ReplaceScheduleRequest struct {
	Slots        []BulkSlotInput `json:"slots" validate:"dive"`
	ConfirmClear bool            `json:"confirm_clear"`
}

// ScheduleSlotService handles the slot-storage API surface and the bulk
// replace flow on top of the sync facade.
type ScheduleSlotService struct {
	repo      scheduleSlotRepository
	sync      *SlotSyncService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewScheduleSlotService creates a schedule slot service instance.
func NewScheduleSlotService(repo scheduleSlotRepository, sync *SlotSyncService, validate *validator.Validate, logger *zap.Logger) *ScheduleSlotService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleSlotService{repo: repo, sync: sync, validator: validate, logger: logger}
}

// List returns a group's slots, optionally narrowed by day or quarter.
func (s *ScheduleSlotService) List(ctx context.Context, filter models.SlotFilter) ([]models.ScheduleSlot, error) {
	if filter.SubjectGroupID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "subject_group is required")
	}
	slots, err := s.repo.Filter(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list schedule slots")
	}
	return slots, nil
}

// Get loads one slot by ID.
func (s *ScheduleSlotService) Get(ctx context.Context, id string) (*models.ScheduleSlot, error) {
	slot, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule slot not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule slot")
	}
	return slot, nil
}

// Create validates and persists one new slot.
func (s *ScheduleSlotService) Create(ctx context.Context, req CreateSlotRequest) (*models.ScheduleSlot, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid slot payload")
	}
	if !models.ValidClockRange(req.StartTime, req.EndTime) {
		return nil, appErrors.Clone(appErrors.ErrInvalidTimeRange, "")
	}

	slot := models.ScheduleSlot{
		SubjectGroupID: req.SubjectGroupID,
		DayOfWeek:      req.DayOfWeek,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		Room:           req.Room,
		Quarter:        req.Quarter,
	}

	created, err := s.repo.Create(ctx, slot)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create schedule slot")
	}
	return created, nil
}

// Patch applies a partial update to one slot.
func (s *ScheduleSlotService) Patch(ctx context.Context, id string, req PatchSlotRequest) (*models.ScheduleSlot, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid slot patch")
	}

	slot, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.DayOfWeek != nil {
		slot.DayOfWeek = *req.DayOfWeek
	}
	if req.StartTime != nil {
		slot.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		slot.EndTime = *req.EndTime
	}
	if req.Room != nil {
		if *req.Room == "" {
			slot.Room = nil
		} else {
			slot.Room = req.Room
		}
	}
	if req.Quarter != nil {
		if *req.Quarter == 0 {
			slot.Quarter = nil
		} else {
			slot.Quarter = req.Quarter
		}
	}

	if !slot.HasValidTimeRange() {
		return nil, appErrors.Clone(appErrors.ErrInvalidTimeRange, "")
	}

	updated, err := s.repo.Update(ctx, id, *slot)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule slot not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update schedule slot")
	}
	return updated, nil
}

// Delete removes one slot.
func (s *ScheduleSlotService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "schedule slot not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete schedule slot")
	}
	return nil
}

// Replace runs a whole submitted editing session for one group through the
// sync facade: load, swap in the submitted slots, validate, gate the
// destructive empty-list case behind ConfirmClear, save, and return the
// canonical persisted list.
func (s *ScheduleSlotService) Replace(ctx context.Context, subjectGroupID string, req ReplaceScheduleRequest) ([]models.ScheduleSlot, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule payload")
	}

	session, err := s.sync.LoadForGroup(ctx, subjectGroupID)
	if err != nil {
		return nil, err
	}

	slots := make([]models.ScheduleSlot, len(req.Slots))
	for i, in := range req.Slots {
		slots[i] = models.ScheduleSlot{
			ID:             in.ID,
			SubjectGroupID: subjectGroupID,
			DayOfWeek:      in.DayOfWeek,
			StartTime:      in.StartTime,
			EndTime:        in.EndTime,
			Room:           in.Room,
			Quarter:        in.Quarter,
		}
	}
	session.Editor.ReplaceAll(slots)

	if s.sync.RequiresClearConfirmation(session) && !req.ConfirmClear {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "clearing the whole schedule requires confirm_clear")
	}

	if err := s.sync.Save(ctx, session); err != nil {
		return nil, err
	}

	return session.PersistedSlots(), nil
}
