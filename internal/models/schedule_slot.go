package models

import "time"

// Day-of-week encoding used across the timetable: 0=Monday .. 6=Sunday.
const (
	DayMonday = iota
	DayTuesday
	DayWednesday
	DayThursday
	DayFriday
	DaySaturday
	DaySunday
)

// DayNames maps the day-of-week encoding to display names.
var DayNames = [7]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// DayName returns the display name for a day-of-week value, tolerating
// out-of-range input.
func DayName(day int) string {
	if day < 0 || day > 6 {
		return "?"
	}
	return DayNames[day]
}

// ScheduleSlot is one weekly recurring occurrence of a teaching group.
// An empty ID marks a slot created client-side and not yet persisted.
// A nil Quarter means the slot applies in every quarter.
type ScheduleSlot struct {
	ID             string    `db:"id" json:"id,omitempty"`
	SubjectGroupID string    `db:"subject_group_id" json:"subject_group"`
	DayOfWeek      int       `db:"day_of_week" json:"day_of_week"`
	StartTime      ClockTime `db:"start_time" json:"start_time"`
	EndTime        ClockTime `db:"end_time" json:"end_time"`
	Room           *string   `db:"room" json:"room,omitempty"`
	Quarter        *int      `db:"quarter" json:"quarter,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at,omitempty"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at,omitempty"`
}

// HasValidTimeRange reports whether the slot's end time is strictly after
// its start time.
func (s *ScheduleSlot) HasValidTimeRange() bool {
	return ValidClockRange(s.StartTime, s.EndTime)
}

// Clone returns a deep copy of the slot.
func (s ScheduleSlot) Clone() ScheduleSlot {
	out := s
	if s.Room != nil {
		room := *s.Room
		out.Room = &room
	}
	if s.Quarter != nil {
		quarter := *s.Quarter
		out.Quarter = &quarter
	}
	return out
}

// SlotPatch is a partial update to one slot. Nil fields are left untouched.
// A non-nil Quarter is a broadcast: it is applied to every slot in the
// editing session, not only the targeted one; zero clears the quarter
// (slot applies in all quarters again).
type SlotPatch struct {
	DayOfWeek *int       `json:"day_of_week,omitempty"`
	StartTime *ClockTime `json:"start_time,omitempty"`
	EndTime   *ClockTime `json:"end_time,omitempty"`
	Room      *string    `json:"room,omitempty"`
	Quarter   *int       `json:"quarter,omitempty"`
}

// SlotFilter describes query params for listing schedule slots.
type SlotFilter struct {
	SubjectGroupID string
	DayOfWeek      *int
	Quarter        *int
}

// SyncOpKind tags a reconciliation operation.
type SyncOpKind string

const (
	SyncOpCreate SyncOpKind = "CREATE"
	SyncOpUpdate SyncOpKind = "UPDATE"
	SyncOpDelete SyncOpKind = "DELETE"
)

// SyncOperation is one create/update/delete step produced by reconciling an
// edited slot list against the persisted one. It is consumed immediately and
// never persisted.
type SyncOperation struct {
	Kind SyncOpKind    `json:"kind"`
	ID   string        `json:"id,omitempty"`
	Slot *ScheduleSlot `json:"slot,omitempty"`
}
