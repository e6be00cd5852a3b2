package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/schoolward/timetable-api/internal/models"
	"github.com/schoolward/timetable-api/pkg/config"
	appErrors "github.com/schoolward/timetable-api/pkg/errors"
)

// SlotStore is the persistence collaborator for schedule slots. It is
// satisfied both by the sqlx repository (server side) and by the slotapi
// HTTP client (remote side).
type SlotStore interface {
	List(ctx context.Context, subjectGroupID string) ([]models.ScheduleSlot, error)
	Create(ctx context.Context, slot models.ScheduleSlot) (*models.ScheduleSlot, error)
	Update(ctx context.Context, id string, slot models.ScheduleSlot) (*models.ScheduleSlot, error)
	Delete(ctx context.Context, id string) error
}

type quarterSource interface {
	CurrentQuarter(ctx context.Context) (int, error)
}

// SlotSession is one open editing session: the editor plus the persisted
// snapshot it will be reconciled against.
type SlotSession struct {
	Editor   *SlotEditor
	snapshot []models.ScheduleSlot
}

// PersistedSlots returns the snapshot the session reconciles against.
func (s *SlotSession) PersistedSlots() []models.ScheduleSlot {
	return cloneSlots(s.snapshot)
}

// InvalidSlot identifies a slot failing time-range validation.
type InvalidSlot struct {
	Index int                 `json:"index"`
	Slot  models.ScheduleSlot `json:"slot"`
}

// SyncOperationError identifies the first failing operation of a save batch.
// Operations before Index have already taken effect; operations after it
// were not attempted.
type SyncOperationError struct {
	Index int
	Op    models.SyncOperation
	Err   error
}

func (e *SyncOperationError) Error() string {
	return fmt.Sprintf("operation %d (%s %s) failed: %v", e.Index, e.Op.Kind, e.opIdentity(), e.Err)
}

func (e *SyncOperationError) Unwrap() error {
	return e.Err
}

func (e *SyncOperationError) opIdentity() string {
	if e.Op.ID != "" {
		return e.Op.ID
	}
	if e.Op.Slot != nil {
		return fmt.Sprintf("%s %s-%s", models.DayName(e.Op.Slot.DayOfWeek), e.Op.Slot.StartTime, e.Op.Slot.EndTime)
	}
	return "?"
}

// SlotSyncService orchestrates slot editing sessions: it loads persisted
// slots, seeds calendar-derived defaults, validates, and drives the
// reconciler's operation batch against the store sequentially.
type SlotSyncService struct {
	store     SlotStore
	calendar  quarterSource
	timetable config.TimetableConfig
	logger    *zap.Logger
	metrics   *MetricsService
}

// WithMetrics attaches sync-operation instrumentation.
func (s *SlotSyncService) WithMetrics(metrics *MetricsService) *SlotSyncService {
	s.metrics = metrics
	return s
}

// NewSlotSyncService creates the scheduling facade.
func NewSlotSyncService(store SlotStore, calendar quarterSource, timetable config.TimetableConfig, logger *zap.Logger) *SlotSyncService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SlotSyncService{store: store, calendar: calendar, timetable: timetable, logger: logger}
}

// LoadForGroup fetches persisted slots and opens an editing session. When no
// persisted slot carries a quarter, the current quarter (if any) is seeded
// as the session default and filled into the unscoped slots; explicit
// quarters are never overwritten.
func (s *SlotSyncService) LoadForGroup(ctx context.Context, subjectGroupID string) (*SlotSession, error) {
	slots, err := s.store.List(ctx, subjectGroupID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule slots")
	}

	editor := NewSlotEditor(subjectGroupID, slots)
	editor.SetDefaultWindow(
		models.ParseClockTime(s.timetable.DefaultStartTime),
		models.ParseClockTime(s.timetable.DefaultEndTime),
	)

	if s.calendar != nil && !anyQuarterSet(slots) {
		quarter, err := s.calendar.CurrentQuarter(ctx)
		if err != nil {
			// Unknown current quarter is a valid state; keep slots unscoped.
			s.logger.Warn("current quarter unavailable", zap.Error(err))
		} else if quarter > 0 {
			editor.SeedDefaultQuarter(quarter)
		}
	}

	return &SlotSession{Editor: editor, snapshot: cloneSlots(slots)}, nil
}

func anyQuarterSet(slots []models.ScheduleSlot) bool {
	for _, slot := range slots {
		if slot.Quarter != nil {
			return true
		}
	}
	return false
}

// Validate returns the slots whose time range is invalid. A non-empty
// result must block Save before any store call is made.
func (s *SlotSyncService) Validate(session *SlotSession) []InvalidSlot {
	var invalid []InvalidSlot
	for i, slot := range session.Editor.Slots() {
		if !slot.HasValidTimeRange() {
			invalid = append(invalid, InvalidSlot{Index: i, Slot: slot})
		}
	}
	return invalid
}

// RequiresClearConfirmation reports whether saving the session would delete
// the group's entire previously persisted schedule. Callers must gate Save
// behind explicit confirmation when this holds.
func (s *SlotSyncService) RequiresClearConfirmation(session *SlotSession) bool {
	return session.Editor.Len() == 0 && len(session.snapshot) > 0
}

// Save reconciles the session against its snapshot and executes the
// resulting batch sequentially: all deletes first, then creates/updates in
// editor order. Execution is not transactional; on failure the returned
// error names the failing operation, earlier operations stand, and later
// ones are not attempted — callers should reload rather than assume a
// consistent state. On success the snapshot is replaced with a fresh list
// from the store.
func (s *SlotSyncService) Save(ctx context.Context, session *SlotSession) error {
	if invalid := s.Validate(session); len(invalid) > 0 {
		return appErrors.Clone(appErrors.ErrInvalidTimeRange, describeInvalid(invalid))
	}

	ops := ReconcileSlots(session.snapshot, session.Editor.Slots())
	for i, op := range ops {
		err := s.execute(ctx, op)
		if s.metrics != nil {
			s.metrics.ObserveSyncOperation(string(op.Kind), err == nil)
		}
		if err != nil {
			opErr := &SyncOperationError{Index: i, Op: op, Err: err}
			s.logger.Error("schedule sync stopped",
				zap.String("subject_group", session.Editor.SubjectGroupID()),
				zap.Int("operation", i),
				zap.String("kind", string(op.Kind)),
				zap.Error(err),
			)
			return appErrors.Wrap(opErr, "SYNC_INCOMPLETE", appErrors.ErrInternal.Status, opErr.Error())
		}
	}

	refreshed, err := s.store.List(ctx, session.Editor.SubjectGroupID())
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reload schedule slots after sync")
	}
	session.snapshot = cloneSlots(refreshed)
	session.Editor = NewSlotEditor(session.Editor.SubjectGroupID(), refreshed)

	return nil
}

func (s *SlotSyncService) execute(ctx context.Context, op models.SyncOperation) error {
	switch op.Kind {
	case models.SyncOpDelete:
		return s.store.Delete(ctx, op.ID)
	case models.SyncOpCreate:
		_, err := s.store.Create(ctx, *op.Slot)
		return err
	case models.SyncOpUpdate:
		_, err := s.store.Update(ctx, op.ID, *op.Slot)
		return err
	default:
		return fmt.Errorf("unknown sync operation %q", op.Kind)
	}
}

func describeInvalid(invalid []InvalidSlot) string {
	parts := make([]string, len(invalid))
	for i, inv := range invalid {
		parts[i] = fmt.Sprintf("slot %d (%s %s-%s)", inv.Index, models.DayName(inv.Slot.DayOfWeek), inv.Slot.StartTime, inv.Slot.EndTime)
	}
	return "invalid time range on " + strings.Join(parts, ", ")
}
