package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ClockTime is a wall-clock time of day with minute precision. It is stored
// and transmitted as "HH:MM"; a trailing seconds component is accepted on
// input and discarded.
type ClockTime struct {
	Hour   int
	Minute int
}

// DefaultClockTime is what malformed or missing input parses to, so editors
// always have a usable value to show.
var DefaultClockTime = ClockTime{Hour: 9, Minute: 0}

// ParseClockTime accepts "H:MM", "HH:MM" or "HH:MM:SS". Anything it cannot
// make sense of yields DefaultClockTime; out-of-range components are clamped.
func ParseClockTime(raw string) ClockTime {
	parts := strings.Split(strings.TrimSpace(raw), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return DefaultClockTime
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return DefaultClockTime
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return DefaultClockTime
	}

	return ClockTime{Hour: clamp(hour, 0, 23), Minute: clamp(minute, 0, 59)}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Minutes returns minutes elapsed since midnight.
func (t ClockTime) Minutes() int {
	return t.Hour*60 + t.Minute
}

// Compare orders two clock times (-1, 0, 1).
func (t ClockTime) Compare(other ClockTime) int {
	switch {
	case t.Minutes() < other.Minutes():
		return -1
	case t.Minutes() > other.Minutes():
		return 1
	default:
		return 0
	}
}

// String renders the canonical zero-padded form, e.g. "09:05".
func (t ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// ValidClockRange reports whether end is strictly after start. Zero-length
// and reversed ranges are both invalid; overnight ranges are not supported.
func ValidClockRange(start, end ClockTime) bool {
	return end.Minutes() > start.Minutes()
}

// MarshalJSON encodes the canonical "HH:MM" string.
func (t ClockTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON decodes any accepted textual form.
func (t *ClockTime) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*t = ParseClockTime(raw)
	return nil
}

// Value implements driver.Valuer storing the canonical form.
func (t ClockTime) Value() (driver.Value, error) {
	return t.String(), nil
}

// Scan implements sql.Scanner accepting TIME or text columns.
func (t *ClockTime) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*t = DefaultClockTime
		return nil
	case string:
		*t = ParseClockTime(v)
		return nil
	case []byte:
		*t = ParseClockTime(string(v))
		return nil
	default:
		return fmt.Errorf("cannot scan %T into ClockTime", src)
	}
}
