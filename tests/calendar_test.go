package tests

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schedly/schedly-backend/internal/calendar"
	calendarHttp "github.com/schedly/schedly-backend/internal/calendar/http"
	"github.com/schedly/schedly-backend/internal/user"
)

func TestCalendarCRUDAndPermissions(t *testing.T) {
	clearTables()

	// ==== Setup Users & Tokens ====
	owner := createTestUser(t, "Owner", "owner@cal.com", "pass123", user.RoleUser)
	stranger := createTestUser(t, "Stranger", "stranger@cal.com", "pass123", user.RoleUser)
	admin := createTestUser(t, "Admin", "admin@cal.com", "pass123", user.RoleAdmin)

	ownerToken := generateToken(owner)
	strangerToken := generateToken(stranger)
	adminToken := generateToken(admin)

	// Shared Variables
	var calendarID string
	var publicID string

	t.Run("Create Calendar", func(t *testing.T) {
		payload := calendarHttp.CreateCalendarBody{
			Name:                "Consultations",
			Description:         "Weekly office hours",
			AvailableDays:       []int{1, 2, 3},
			HoursStart:          10,
			HoursEnd:            16,
			SlotDurationMinutes: 30,
		}
		w := executeRequest("POST", "/v1/calendars", payload, ownerToken)
		require.Equal(t, http.StatusCreated, w.Code, "Create should succeed")

		var resp calendarHttp.CalendarResponse
		err := json.Unmarshal(w.Body.Bytes(), &resp)
		require.NoError(t, err)
		assert.Equal(t, "Consultations", resp.Name)
		assert.Equal(t, []int{1, 2, 3}, resp.AvailableDays)
		assert.NotEmpty(t, resp.PublicID, "Create should hand out a public id")

		calendarID = resp.ID
		publicID = resp.PublicID
	})

	t.Run("Create Without Token", func(t *testing.T) {
		payload := calendarHttp.CreateCalendarBody{Name: "Nope"}
		w := executeRequest("POST", "/v1/calendars", payload, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Create With Defaults", func(t *testing.T) {
		payload := calendarHttp.CreateCalendarBody{Name: "Defaults"}
		w := executeRequest("POST", "/v1/calendars", payload, ownerToken)
		require.Equal(t, http.StatusCreated, w.Code)

		var resp calendarHttp.CalendarResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, []int{1, 2, 3, 4, 5}, resp.AvailableDays)
		assert.Equal(t, float64(9), resp.HoursStart)
		assert.Equal(t, float64(17), resp.HoursEnd)
		assert.Equal(t, 60, resp.SlotDurationMinutes)
	})

	t.Run("Create With Invalid Slot Duration", func(t *testing.T) {
		w := executeRequest("POST", "/v1/calendars", map[string]any{
			"name":                  "Bad",
			"slot_duration_minutes": 50,
		}, ownerToken)
		assert.Equal(t, http.StatusBadRequest, w.Code, "50 is not an accepted slot duration")
	})

	t.Run("List Own Calendars", func(t *testing.T) {
		w := executeRequest("GET", "/v1/calendars", nil, ownerToken)
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Items []calendarHttp.CalendarResponse `json:"items"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Len(t, resp.Items, 2)
	})

	t.Run("Stranger Sees No Calendars", func(t *testing.T) {
		w := executeRequest("GET", "/v1/calendars", nil, strangerToken)
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Items []calendarHttp.CalendarResponse `json:"items"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Empty(t, resp.Items)
	})

	t.Run("Get Calendar Permissions", func(t *testing.T) {
		w := executeRequest("GET", "/v1/calendars/"+calendarID, nil, ownerToken)
		assert.Equal(t, http.StatusOK, w.Code, "Owner can read")

		w = executeRequest("GET", "/v1/calendars/"+calendarID, nil, strangerToken)
		assert.Equal(t, http.StatusForbidden, w.Code, "Stranger cannot read")

		w = executeRequest("GET", "/v1/calendars/"+calendarID, nil, adminToken)
		assert.Equal(t, http.StatusOK, w.Code, "Admin can read")
	})

	t.Run("Public View Needs No Token", func(t *testing.T) {
		w := executeRequest("GET", "/v1/calendars/"+publicID+"/public", nil, "")
		require.Equal(t, http.StatusOK, w.Code)

		var resp calendarHttp.PublicCalendarResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Consultations", resp.Name)
		assert.Equal(t, publicID, resp.PublicID)

		// The UUID works too.
		w = executeRequest("GET", "/v1/calendars/"+calendarID+"/public", nil, "")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Update Calendar", func(t *testing.T) {
		name := "Renamed"
		payload := calendarHttp.UpdateCalendarBody{Name: &name}

		w := executeRequest("PUT", "/v1/calendars/"+calendarID, payload, strangerToken)
		assert.Equal(t, http.StatusForbidden, w.Code, "Stranger cannot update")

		w = executeRequest("PUT", "/v1/calendars/"+calendarID, payload, ownerToken)
		require.Equal(t, http.StatusOK, w.Code, "Owner can update")

		var resp calendarHttp.CalendarResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Renamed", resp.Name)
		assert.Equal(t, []int{1, 2, 3}, resp.AvailableDays, "Untouched rules survive the update")
	})

	t.Run("Update Disabled Dates", func(t *testing.T) {
		dates := []string{"2030-05-02", "2030-05-01", "2030-05-01"}
		payload := calendarHttp.UpdateCalendarBody{DisabledDates: &dates}

		w := executeRequest("PUT", "/v1/calendars/"+calendarID, payload, ownerToken)
		require.Equal(t, http.StatusOK, w.Code)

		var resp calendarHttp.CalendarResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, []string{"2030-05-01", "2030-05-02"}, resp.DisabledDates,
			"Disabled dates are deduped and sorted")
	})

	t.Run("Delete Calendar", func(t *testing.T) {
		w := executeRequest("DELETE", "/v1/calendars/"+calendarID, nil, strangerToken)
		assert.Equal(t, http.StatusForbidden, w.Code, "Stranger cannot delete")

		w = executeRequest("DELETE", "/v1/calendars/"+calendarID, nil, ownerToken)
		assert.Equal(t, http.StatusNoContent, w.Code, "Owner can delete")

		w = executeRequest("GET", "/v1/calendars/"+calendarID, nil, ownerToken)
		assert.Equal(t, http.StatusNotFound, w.Code, "Deleted calendar is gone")
	})

	t.Run("Get Unknown Calendar", func(t *testing.T) {
		w := executeRequest("GET", "/v1/calendars/3fa85f64-5717-4562-b3fc-2c963f66afa6", nil, ownerToken)
		assert.Equal(t, http.StatusNotFound, w.Code)

		w = executeRequest("GET", "/v1/calendars/not-a-uuid", nil, ownerToken)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestDeleteCalendarCascadesBookings(t *testing.T) {
	clearTables()

	owner := createTestUser(t, "Owner", "owner@cascade.com", "pass123", user.RoleUser)
	ownerToken := generateToken(owner)

	cal := createTestCalendar(t, owner.ID, calendar.CreateRequest{
		Name:     "Cascade",
		Weekdays: allWeekdays(),
	})

	day := nextWeekday(1).Format("2006-01-02")
	w := executeRequest("POST", "/v1/bookings", map[string]any{
		"calendar":   cal.ID,
		"date":       day,
		"start_hour": 10,
		"end_hour":   11,
		"name":       "Booker",
		"email":      "booker@example.com",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code)

	w = executeRequest("DELETE", "/v1/calendars/"+cal.ID, nil, ownerToken)
	require.Equal(t, http.StatusNoContent, w.Code)

	var count int
	err := testPool.QueryRow(context.Background(), "SELECT count(*) FROM public.bookings").Scan(&count)
	require.NoError(t, err)
	assert.Zero(t, count, "Bookings must cascade with their calendar")
}
