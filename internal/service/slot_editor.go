package service

import (
	"github.com/schoolward/timetable-api/internal/models"
	appErrors "github.com/schoolward/timetable-api/pkg/errors"
)

// SlotEditor is the in-memory editing session for one subject group's weekly
// slots. It is seeded from a persisted snapshot, mutated freely, and either
// saved through SlotSyncService or discarded. Slots keep insertion order;
// grouping by day is a read-only projection.
type SlotEditor struct {
	subjectGroupID string
	slots          []models.ScheduleSlot

	defaultRoom    *string
	defaultQuarter *int
	defaultStart   models.ClockTime
	defaultEnd     models.ClockTime
}

// NewSlotEditor seeds an editor from persisted slots. The slot list is
// deep-copied so the snapshot used for diffing stays untouched.
func NewSlotEditor(subjectGroupID string, slots []models.ScheduleSlot) *SlotEditor {
	e := &SlotEditor{
		subjectGroupID: subjectGroupID,
		slots:          cloneSlots(slots),
		defaultStart:   models.ClockTime{Hour: 9, Minute: 0},
		defaultEnd:     models.ClockTime{Hour: 10, Minute: 30},
	}
	return e
}

// SetDefaultWindow overrides the baseline time window applied to new slots.
func (e *SlotEditor) SetDefaultWindow(start, end models.ClockTime) {
	e.defaultStart = start
	e.defaultEnd = end
}

// SubjectGroupID returns the group this session edits.
func (e *SlotEditor) SubjectGroupID() string {
	return e.subjectGroupID
}

// Len returns the number of slots in the session.
func (e *SlotEditor) Len() int {
	return len(e.slots)
}

// AddSlot appends an unsaved slot for the given day, pre-filled with the
// sticky default room/quarter and the baseline time window. Returns the
// index of the new slot.
func (e *SlotEditor) AddSlot(day int) int {
	slot := models.ScheduleSlot{
		SubjectGroupID: e.subjectGroupID,
		DayOfWeek:      day,
		StartTime:      e.defaultStart,
		EndTime:        e.defaultEnd,
	}
	if e.defaultRoom != nil {
		room := *e.defaultRoom
		slot.Room = &room
	}
	if e.defaultQuarter != nil {
		quarter := *e.defaultQuarter
		slot.Quarter = &quarter
	}
	e.slots = append(e.slots, slot)
	return len(e.slots) - 1
}

// UpdateSlot applies a partial patch to the slot at index. Day, times and
// room are scoped to that one slot. A patch carrying a quarter is a
// broadcast: the quarter is written to every slot in the session (zero
// clears it everywhere). One quarter picker drives the whole timetable, so
// a per-slot quarter patch intentionally does not exist.
func (e *SlotEditor) UpdateSlot(index int, patch models.SlotPatch) error {
	if index < 0 || index >= len(e.slots) {
		return appErrors.Clone(appErrors.ErrValidation, "slot index out of range")
	}

	slot := &e.slots[index]
	if patch.DayOfWeek != nil {
		slot.DayOfWeek = *patch.DayOfWeek
	}
	if patch.StartTime != nil {
		slot.StartTime = *patch.StartTime
	}
	if patch.EndTime != nil {
		slot.EndTime = *patch.EndTime
	}
	if patch.Room != nil {
		if *patch.Room == "" {
			slot.Room = nil
		} else {
			room := *patch.Room
			slot.Room = &room
		}
	}

	if patch.Quarter != nil {
		e.broadcastQuarter(*patch.Quarter)
	}
	return nil
}

func (e *SlotEditor) broadcastQuarter(quarter int) {
	for i := range e.slots {
		if quarter == 0 {
			e.slots[i].Quarter = nil
			continue
		}
		q := quarter
		e.slots[i].Quarter = &q
	}
}

// RemoveSlot deletes one slot. No cascade.
func (e *SlotEditor) RemoveSlot(index int) error {
	if index < 0 || index >= len(e.slots) {
		return appErrors.Clone(appErrors.ErrValidation, "slot index out of range")
	}
	e.slots = append(e.slots[:index], e.slots[index+1:]...)
	return nil
}

// ApplyDefaultRoomToAll sets the room on every slot and remembers it as the
// sticky default for subsequently added slots. An empty room clears it.
func (e *SlotEditor) ApplyDefaultRoomToAll(room string) {
	if room == "" {
		e.defaultRoom = nil
	} else {
		r := room
		e.defaultRoom = &r
	}
	for i := range e.slots {
		if e.defaultRoom == nil {
			e.slots[i].Room = nil
			continue
		}
		r := *e.defaultRoom
		e.slots[i].Room = &r
	}
}

// ApplyDefaultQuarterToAll sets the quarter on every slot and remembers it
// as the sticky default. Zero clears the quarter everywhere.
func (e *SlotEditor) ApplyDefaultQuarterToAll(quarter int) {
	if quarter == 0 {
		e.defaultQuarter = nil
	} else {
		q := quarter
		e.defaultQuarter = &q
	}
	e.broadcastQuarter(quarter)
}

// SeedDefaultQuarter sets the sticky default quarter and fills it into slots
// that carry none, without overwriting explicit quarters. Used when opening
// a session whose persisted slots are unscoped.
func (e *SlotEditor) SeedDefaultQuarter(quarter int) {
	if quarter < 1 || quarter > 4 {
		return
	}
	q := quarter
	e.defaultQuarter = &q
	for i := range e.slots {
		if e.slots[i].Quarter == nil {
			filled := quarter
			e.slots[i].Quarter = &filled
		}
	}
}

// ReplaceAll swaps the whole slot list for one submitted by a remote editing
// session, keeping the sticky defaults.
func (e *SlotEditor) ReplaceAll(slots []models.ScheduleSlot) {
	replaced := cloneSlots(slots)
	for i := range replaced {
		replaced[i].SubjectGroupID = e.subjectGroupID
	}
	e.slots = replaced
}

// Slots returns a deep copy of the current slot list in insertion order.
func (e *SlotEditor) Slots() []models.ScheduleSlot {
	return cloneSlots(e.slots)
}

// Snapshot is an alias of Slots kept for symmetry with the reconciler input.
func (e *SlotEditor) Snapshot() []models.ScheduleSlot {
	return e.Slots()
}

// ByDay groups slots by day of week for display. Pure projection; storage
// order is untouched.
func (e *SlotEditor) ByDay() map[int][]models.ScheduleSlot {
	grouped := make(map[int][]models.ScheduleSlot)
	for _, slot := range e.slots {
		grouped[slot.DayOfWeek] = append(grouped[slot.DayOfWeek], slot.Clone())
	}
	return grouped
}

func cloneSlots(slots []models.ScheduleSlot) []models.ScheduleSlot {
	out := make([]models.ScheduleSlot, len(slots))
	for i, slot := range slots {
		out[i] = slot.Clone()
	}
	return out
}
