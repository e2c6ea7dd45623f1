package booking

import (
	"net/http"
	"time"

	"github.com/schedly/schedly-backend/internal/pkg/apperror"
)

// Rejection taxonomy for the admission check. All of these are expected,
// recoverable-by-resubmission outcomes, never process-fatal. DayClosed and
// OutsideHours are wrapped with a request-specific message at rejection time;
// errors.Is against the sentinel still matches.
var (
	ErrCalendarNotFound = apperror.New(http.StatusNotFound, "calendar not found")
	ErrNotFound         = apperror.New(http.StatusNotFound, "booking not found")
	ErrPastDate         = apperror.New(http.StatusBadRequest, "cannot book a date in the past")
	ErrDayClosed        = apperror.New(http.StatusBadRequest, "this day is not available for booking")
	ErrOutsideHours     = apperror.New(http.StatusBadRequest, "time slot is outside of available hours")
	ErrSlotTaken        = apperror.New(http.StatusConflict, "this time slot is already booked")
	ErrInvalidTimeRange = apperror.New(http.StatusBadRequest, "start hour must be before end hour")
	ErrInvalidInput     = apperror.New(http.StatusBadRequest, "invalid booking details")
	ErrAlreadyCancelled = apperror.New(http.StatusBadRequest, "booking is already cancelled")
	ErrPermissionDenied = apperror.New(http.StatusForbidden, "permission denied")
)

type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

// Booking is a confirmed (or later cancelled) appointment on a calendar day.
// Only confirmed bookings occupy time; cancelled ones are kept for history
// and are inert for conflict purposes.
type Booking struct {
	ID           string
	CalendarID   string
	CalendarName string
	Date         time.Time // calendar day, midnight UTC
	StartHour    float64   // fractional hours since midnight, [StartHour, EndHour)
	EndHour      float64
	Name         string
	Email        string
	Notes        string
	Status       Status
	CreatedAt    time.Time
}

// Filter defines parameters for listing bookings.
type Filter struct {
	CalendarID  string
	OwnerUserID string // restrict to calendars owned by this user
	Status      string
	SortDesc    bool
	Page        int
	PageSize    int
}
