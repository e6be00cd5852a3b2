package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClockTime(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want ClockTime
	}{
		{"canonical", "09:00", ClockTime{Hour: 9, Minute: 0}},
		{"single digits", "9:5", ClockTime{Hour: 9, Minute: 5}},
		{"with seconds", "14:30:00", ClockTime{Hour: 14, Minute: 30}},
		{"hour clamped high", "25:10", ClockTime{Hour: 23, Minute: 10}},
		{"minute clamped high", "10:75", ClockTime{Hour: 10, Minute: 59}},
		{"negative clamped", "-1:-5", ClockTime{Hour: 0, Minute: 0}},
		{"garbage", "not a time", DefaultClockTime},
		{"empty", "", DefaultClockTime},
		{"missing minute", "12", DefaultClockTime},
		{"non numeric hour", "aa:15", DefaultClockTime},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ParseClockTime(tc.raw))
		})
	}
}

func TestClockTimeStringIsZeroPadded(t *testing.T) {
	assert.Equal(t, "09:05", ClockTime{Hour: 9, Minute: 5}.String())
	assert.Equal(t, "23:59", ClockTime{Hour: 23, Minute: 59}.String())
}

func TestClockTimeRoundTripNormalizes(t *testing.T) {
	// Sloppy input parses leniently and renders canonically.
	assert.Equal(t, "09:05", ParseClockTime("9:5").String())
}

func TestClockTimeCompare(t *testing.T) {
	earlier := ClockTime{Hour: 8, Minute: 30}
	later := ClockTime{Hour: 8, Minute: 45}

	assert.Equal(t, -1, earlier.Compare(later))
	assert.Equal(t, 1, later.Compare(earlier))
	assert.Equal(t, 0, earlier.Compare(earlier))
}

func TestValidClockRange(t *testing.T) {
	start := ClockTime{Hour: 9, Minute: 0}

	assert.True(t, ValidClockRange(start, ClockTime{Hour: 10, Minute: 30}))
	assert.False(t, ValidClockRange(start, start), "zero-length range is invalid")
	assert.False(t, ValidClockRange(start, ClockTime{Hour: 8, Minute: 0}))
}

func TestClockTimeJSON(t *testing.T) {
	data, err := json.Marshal(ClockTime{Hour: 7, Minute: 45})
	require.NoError(t, err)
	assert.Equal(t, `"07:45"`, string(data))

	var parsed ClockTime
	require.NoError(t, json.Unmarshal([]byte(`"16:20"`), &parsed))
	assert.Equal(t, ClockTime{Hour: 16, Minute: 20}, parsed)

	require.NoError(t, json.Unmarshal([]byte(`"bogus"`), &parsed))
	assert.Equal(t, DefaultClockTime, parsed, "malformed input falls back to the default")
}

func TestClockTimeScan(t *testing.T) {
	var tt ClockTime
	require.NoError(t, tt.Scan("13:15"))
	assert.Equal(t, ClockTime{Hour: 13, Minute: 15}, tt)

	require.NoError(t, tt.Scan([]byte("06:00")))
	assert.Equal(t, ClockTime{Hour: 6, Minute: 0}, tt)

	require.NoError(t, tt.Scan(nil))
	assert.Equal(t, DefaultClockTime, tt)
}

func TestDayName(t *testing.T) {
	assert.Equal(t, "Monday", DayName(DayMonday))
	assert.Equal(t, "Sunday", DayName(DaySunday))
	assert.Equal(t, "?", DayName(7))
	assert.Equal(t, "?", DayName(-1))
}
