package models

import "time"

// AcademicYear defines the anchor date and per-quarter week counts from
// which the four quarter ranges are derived. At most one year is active
// system-wide.
type AcademicYear struct {
	ID            string    `db:"id" json:"id"`
	Name          string    `db:"name" json:"name"`
	StartDate     time.Time `db:"start_date" json:"start_date"`
	Quarter1Weeks int       `db:"quarter1_weeks" json:"quarter1_weeks"`
	Quarter2Weeks int       `db:"quarter2_weeks" json:"quarter2_weeks"`
	Quarter3Weeks int       `db:"quarter3_weeks" json:"quarter3_weeks"`
	Quarter4Weeks int       `db:"quarter4_weeks" json:"quarter4_weeks"`
	IsActive      bool      `db:"is_active" json:"is_active"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// QuarterWeeks returns the week counts in quarter order.
func (y *AcademicYear) QuarterWeeks() [4]int {
	return [4]int{y.Quarter1Weeks, y.Quarter2Weeks, y.Quarter3Weeks, y.Quarter4Weeks}
}

// QuarterRange is a derived inclusive date range for one quarter. It is
// recomputed on every query and never stored.
type QuarterRange struct {
	Quarter int       `json:"quarter"`
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
}

// Contains reports whether the date falls inside the inclusive range.
// Comparison is by calendar day, ignoring the time component.
func (r QuarterRange) Contains(date time.Time) bool {
	day := DateOnly(date)
	return !day.Before(DateOnly(r.Start)) && !day.After(DateOnly(r.End))
}

// DateOnly strips the time-of-day component, keeping the calendar date in UTC.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// AcademicYearFilter defines filters supported by list endpoints.
type AcademicYearFilter struct {
	IsActive  *bool
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
