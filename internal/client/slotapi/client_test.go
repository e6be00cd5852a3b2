package slotapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolward/timetable-api/internal/models"
	"github.com/schoolward/timetable-api/pkg/config"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	client := New(config.SlotAPIConfig{BaseURL: server.URL, Token: "test-token", Timeout: 5 * time.Second})
	return client, server
}

func TestClientListDecodesEnvelope(t *testing.T) {
	var gotAuth string
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, "/schedule-slots", r.URL.Path)
		assert.Equal(t, "group-1", r.URL.Query().Get("subject_group"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[
			{"id":"slot-1","subject_group":"group-1","day_of_week":0,"start_time":"08:00","end_time":"09:30","room":"101"},
			{"id":"slot-2","subject_group":"group-1","day_of_week":2,"start_time":"10:00","end_time":"11:30","quarter":2}
		]}`))
	})
	defer server.Close()

	slots, err := client.List(context.Background(), "group-1")
	require.NoError(t, err)
	require.Len(t, slots, 2)

	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.Equal(t, "slot-1", slots[0].ID)
	assert.Equal(t, models.ClockTime{Hour: 8, Minute: 0}, slots[0].StartTime)
	require.NotNil(t, slots[0].Room)
	assert.Equal(t, "101", *slots[0].Room)
	require.NotNil(t, slots[1].Quarter)
	assert.Equal(t, 2, *slots[1].Quarter)
}

func TestClientListToleratesBareBody(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":"slot-1","day_of_week":4,"start_time":"13:00","end_time":"14:30"}]`))
	})
	defer server.Close()

	slots, err := client.List(context.Background(), "group-1")
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, models.DayFriday, slots[0].DayOfWeek)
}

func TestClientCreateSendsCanonicalTimes(t *testing.T) {
	var sent slotPayload
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&sent))

		sent.ID = "slot-new"
		resp, _ := json.Marshal(map[string]interface{}{"data": sent})
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write(resp)
	})
	defer server.Close()

	created, err := client.Create(context.Background(), models.ScheduleSlot{
		SubjectGroupID: "group-1",
		DayOfWeek:      models.DayMonday,
		StartTime:      models.ClockTime{Hour: 9, Minute: 5},
		EndTime:        models.ClockTime{Hour: 10, Minute: 35},
	})
	require.NoError(t, err)

	assert.Equal(t, "09:05", sent.StartTime, "times travel zero-padded")
	assert.Equal(t, "10:35", sent.EndTime)
	assert.Equal(t, "slot-new", created.ID)
}

func TestClientUpdateAndDeleteUseSlotPath(t *testing.T) {
	var paths []string
	var methods []string
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		methods = append(methods, r.Method)
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		_, _ = w.Write([]byte(`{"data":{"id":"slot-1","day_of_week":0,"start_time":"08:00","end_time":"09:00"}}`))
	})
	defer server.Close()

	_, err := client.Update(context.Background(), "slot-1", models.ScheduleSlot{
		DayOfWeek: models.DayMonday,
		StartTime: models.ClockTime{Hour: 8, Minute: 0},
		EndTime:   models.ClockTime{Hour: 9, Minute: 0},
	})
	require.NoError(t, err)
	require.NoError(t, client.Delete(context.Background(), "slot-1"))

	assert.Equal(t, []string{"/schedule-slots/slot-1", "/schedule-slots/slot-1"}, paths)
	assert.Equal(t, []string{http.MethodPatch, http.MethodDelete}, methods)
}

func TestClientSurfacesAPIError(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPreconditionFailed)
		_, _ = w.Write([]byte(`{"error":{"code":"PRECONDITION_FAILED","message":"clearing the whole schedule requires confirm_clear"}}`))
	})
	defer server.Close()

	err := client.Delete(context.Background(), "slot-1")
	require.Error(t, err)

	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.Equal(t, http.StatusPreconditionFailed, apiErr.Status)
	assert.Equal(t, "PRECONDITION_FAILED", apiErr.Code)
	assert.Contains(t, apiErr.Error(), "confirm_clear")
}

func TestClientCurrentAcademicYear(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/academic-years/current", r.URL.Path)
		_, _ = w.Write([]byte(`{"data":{"id":"year-1","name":"2024/2025","start_date":"2024-09-01T00:00:00Z","quarter1_weeks":8,"quarter2_weeks":8,"quarter3_weeks":10,"quarter4_weeks":8,"is_active":true}}`))
	})
	defer server.Close()

	year, err := client.CurrentAcademicYear(context.Background())
	require.NoError(t, err)
	require.NotNil(t, year)
	assert.Equal(t, "2024/2025", year.Name)
	assert.Equal(t, [4]int{8, 8, 10, 8}, year.QuarterWeeks())
}

func TestClientCurrentAcademicYearAbsent(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"code":"NOT_FOUND","message":"no active academic year"}}`))
	})
	defer server.Close()

	year, err := client.CurrentAcademicYear(context.Background())
	require.NoError(t, err, "a missing active year is a normal state")
	assert.Nil(t, year)

	quarter, err := client.CurrentQuarter(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, quarter)
}
