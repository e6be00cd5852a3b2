package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolward/timetable-api/internal/models"
)

func newScheduleSlotRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func slotRows() *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{"id", "subject_group_id", "day_of_week", "start_time", "end_time", "room", "quarter", "created_at", "updated_at"}).
		AddRow("slot-1", "group-1", 0, "08:00", "09:30", "101", nil, now, now).
		AddRow("slot-2", "group-1", 2, "10:00", "11:30", nil, 2, now, now)
}

func TestScheduleSlotRepositoryListKeepsInsertionOrder(t *testing.T) {
	db, mock, cleanup := newScheduleSlotRepoMock(t)
	defer cleanup()
	repo := NewScheduleSlotRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY created_at ASC, id ASC")).
		WithArgs("group-1").
		WillReturnRows(slotRows())

	slots, err := repo.List(context.Background(), "group-1")
	require.NoError(t, err)
	require.Len(t, slots, 2)

	assert.Equal(t, "slot-1", slots[0].ID)
	assert.Equal(t, models.ClockTime{Hour: 8, Minute: 0}, slots[0].StartTime)
	require.NotNil(t, slots[0].Room)
	assert.Equal(t, "101", *slots[0].Room)
	assert.Nil(t, slots[0].Quarter)

	assert.Equal(t, "slot-2", slots[1].ID)
	assert.Nil(t, slots[1].Room)
	require.NotNil(t, slots[1].Quarter)
	assert.Equal(t, 2, *slots[1].Quarter)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleSlotRepositoryFilterByQuarterIncludesUnscoped(t *testing.T) {
	db, mock, cleanup := newScheduleSlotRepoMock(t)
	defer cleanup()
	repo := NewScheduleSlotRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("(quarter IS NULL OR quarter = $2)")).
		WithArgs("group-1", 2).
		WillReturnRows(slotRows())

	quarter := 2
	slots, err := repo.Filter(context.Background(), models.SlotFilter{SubjectGroupID: "group-1", Quarter: &quarter})
	require.NoError(t, err)
	assert.Len(t, slots, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleSlotRepositoryFilterByDay(t *testing.T) {
	db, mock, cleanup := newScheduleSlotRepoMock(t)
	defer cleanup()
	repo := NewScheduleSlotRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("AND day_of_week = $2")).
		WithArgs("group-1", 2).
		WillReturnRows(slotRows())

	day := 2
	_, err := repo.Filter(context.Background(), models.SlotFilter{SubjectGroupID: "group-1", DayOfWeek: &day})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleSlotRepositoryCreateAssignsID(t *testing.T) {
	db, mock, cleanup := newScheduleSlotRepoMock(t)
	defer cleanup()
	repo := NewScheduleSlotRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO schedule_slots")).
		WithArgs(sqlmock.AnyArg(), "group-1", 0, "08:00", "09:30", nil, nil, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	created, err := repo.Create(context.Background(), models.ScheduleSlot{
		SubjectGroupID: "group-1",
		DayOfWeek:      0,
		StartTime:      models.ClockTime{Hour: 8, Minute: 0},
		EndTime:        models.ClockTime{Hour: 9, Minute: 30},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleSlotRepositoryUpdateMissingRow(t *testing.T) {
	db, mock, cleanup := newScheduleSlotRepoMock(t)
	defer cleanup()
	repo := NewScheduleSlotRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE schedule_slots")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := repo.Update(context.Background(), "missing", models.ScheduleSlot{
		StartTime: models.ClockTime{Hour: 8, Minute: 0},
		EndTime:   models.ClockTime{Hour: 9, Minute: 0},
	})
	assert.True(t, errors.Is(err, sql.ErrNoRows))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleSlotRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newScheduleSlotRepoMock(t)
	defer cleanup()
	repo := NewScheduleSlotRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM schedule_slots WHERE id = $1")).
		WithArgs("slot-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), "slot-1"))

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM schedule_slots WHERE id = $1")).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.True(t, errors.Is(repo.Delete(context.Background(), "missing"), sql.ErrNoRows))
	assert.NoError(t, mock.ExpectationsWereMet())
}
