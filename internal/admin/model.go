package admin

import (
	"time"

	"github.com/schedly/schedly-backend/internal/booking"
)

// DayCount is one bucket of a per-day aggregate.
type DayCount struct {
	Day   time.Time
	Count int
}

// Stats is the admin dashboard aggregate.
type Stats struct {
	TotalUsers        int
	TotalCalendars    int
	TotalBookings     int
	CancelledBookings int
	RecentBookings    []*booking.Booking
	SignupsLastWeek   []DayCount
	BookingsLastWeek  []DayCount
}
