package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolward/timetable-api/internal/models"
	appErrors "github.com/schoolward/timetable-api/pkg/errors"
)

func TestExportServiceTimetableCSV(t *testing.T) {
	// Stored out of order: Friday before Monday.
	store := &slotStoreStub{slots: []models.ScheduleSlot{
		{ID: "slot-3", SubjectGroupID: "group-1", DayOfWeek: models.DayFriday,
			StartTime: models.ClockTime{Hour: 13, Minute: 0}, EndTime: models.ClockTime{Hour: 14, Minute: 30},
			Quarter: intPtr(2)},
		{ID: "slot-1", SubjectGroupID: "group-1", DayOfWeek: models.DayMonday,
			StartTime: models.ClockTime{Hour: 8, Minute: 0}, EndTime: models.ClockTime{Hour: 9, Minute: 30},
			Room: strPtr("101")},
	}}
	svc := NewExportService(store)

	payload, contentType, err := svc.Timetable(context.Background(), "group-1", "csv")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", contentType)

	lines := strings.Split(strings.TrimSpace(string(payload)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Day,Start,End,Room,Quarter", strings.TrimSpace(lines[0]))
	assert.Contains(t, lines[1], "Monday,08:00,09:30,101,all")
	assert.Contains(t, lines[2], "Friday,13:00,14:30,,2")
}

func TestExportServiceTimetableDefaultsToCSV(t *testing.T) {
	svc := NewExportService(&slotStoreStub{})

	_, contentType, err := svc.Timetable(context.Background(), "group-1", "")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", contentType)
}

func TestExportServiceTimetablePDF(t *testing.T) {
	store := &slotStoreStub{slots: seedSlots()}
	svc := NewExportService(store)

	payload, contentType, err := svc.Timetable(context.Background(), "group-1", "pdf")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", contentType)
	assert.True(t, strings.HasPrefix(string(payload), "%PDF"))
}

func TestExportServiceTimetableUnknownFormat(t *testing.T) {
	svc := NewExportService(&slotStoreStub{})

	_, _, err := svc.Timetable(context.Background(), "group-1", "xlsx")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
