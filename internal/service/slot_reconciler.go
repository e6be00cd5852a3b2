package service

import "github.com/schoolward/timetable-api/internal/models"

// ReconcileSlots computes the operations needed to make the persisted slot
// list match an edited one. Slots are matched solely by ID: a previous slot
// whose ID is absent from current becomes a delete, an ID-less current slot
// becomes a create, and every ID-carrying current slot becomes an
// unconditional update. No field-level dirty checking is attempted; a no-op
// update is idempotent server-side and cheaper to reason about than a
// partial diff.
//
// All deletes are emitted before any create or update, so a room/time swap
// between a deleted and a created slot cannot transiently violate a
// uniqueness constraint in the store. An empty current list against a
// non-empty previous one yields one delete per previous slot; callers are
// expected to confirm that intent before executing the result.
func ReconcileSlots(previous, current []models.ScheduleSlot) []models.SyncOperation {
	currentIDs := make(map[string]struct{}, len(current))
	for _, slot := range current {
		if slot.ID != "" {
			currentIDs[slot.ID] = struct{}{}
		}
	}

	var ops []models.SyncOperation
	for _, slot := range previous {
		if _, kept := currentIDs[slot.ID]; !kept {
			ops = append(ops, models.SyncOperation{Kind: models.SyncOpDelete, ID: slot.ID})
		}
	}

	for _, slot := range current {
		s := slot.Clone()
		if slot.ID == "" {
			ops = append(ops, models.SyncOperation{Kind: models.SyncOpCreate, Slot: &s})
			continue
		}
		ops = append(ops, models.SyncOperation{Kind: models.SyncOpUpdate, ID: slot.ID, Slot: &s})
	}

	return ops
}
