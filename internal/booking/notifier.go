package booking

// Notification carries everything a transport needs to announce a freshly
// admitted booking to the calendar owner and the booker.
type Notification struct {
	Booking      *Booking
	CalendarName string
	Timezone     string
	OwnerName    string
	OwnerEmail   string
}

// Notifier delivers booking notifications. Delivery is best-effort: the
// resolver fires it after a successful admission and a failure never unwinds
// the booking.
type Notifier interface {
	BookingCreated(n Notification) error
}
