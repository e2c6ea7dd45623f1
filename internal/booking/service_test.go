package booking

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schedly/schedly-backend/internal/calendar"
)

// fakeRepo is an in-memory Repository enforcing the same uniqueness rule
// as the partial index: one confirmed booking per (calendar, day, start).
type fakeRepo struct {
	bookings  []*Booking
	createErr error
	nextID    int
}

func (r *fakeRepo) Create(_ context.Context, b *Booking) error {
	if r.createErr != nil {
		return r.createErr
	}
	for _, existing := range r.bookings {
		if existing.Status == StatusConfirmed &&
			existing.CalendarID == b.CalendarID &&
			calendar.SameDay(existing.Date, b.Date) &&
			existing.StartHour == b.StartHour {
			return ErrSlotTaken
		}
	}
	r.nextID++
	b.ID = fmt.Sprintf("booking-%d", r.nextID)
	b.CreatedAt = time.Now()
	r.bookings = append(r.bookings, b)
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, id string) (*Booking, error) {
	for _, b := range r.bookings {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, ErrNotFound
}

func (r *fakeRepo) ListConfirmedForDay(_ context.Context, calendarID string, day time.Time) ([]*Booking, error) {
	var out []*Booking
	for _, b := range r.bookings {
		if b.CalendarID == calendarID && calendar.SameDay(b.Date, day) && b.Status == StatusConfirmed {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeRepo) List(_ context.Context, filter Filter) ([]*Booking, int, error) {
	var out []*Booking
	for _, b := range r.bookings {
		if filter.CalendarID != "" && b.CalendarID != filter.CalendarID {
			continue
		}
		out = append(out, b)
	}
	return out, len(out), nil
}

func (r *fakeRepo) UpdateStatus(_ context.Context, id string, status Status) error {
	for _, b := range r.bookings {
		if b.ID == id {
			b.Status = status
			return nil
		}
	}
	return ErrNotFound
}

type fakeCalendars struct {
	cal *calendar.Calendar
}

func (f *fakeCalendars) GetByID(_ context.Context, id string) (*calendar.Calendar, error) {
	if f.cal != nil && f.cal.ID == id {
		return f.cal, nil
	}
	return nil, calendar.ErrNotFound
}

func (f *fakeCalendars) GetByRef(_ context.Context, ref string) (*calendar.Calendar, error) {
	if f.cal != nil && (f.cal.ID == ref || f.cal.PublicID == ref) {
		return f.cal, nil
	}
	return nil, calendar.ErrNotFound
}

type fakeNotifier struct {
	sent chan Notification
}

func (f *fakeNotifier) BookingCreated(n Notification) error {
	f.sent <- n
	return nil
}

func testCalendar() *calendar.Calendar {
	return &calendar.Calendar{
		ID:         "cal-1",
		UserID:     "owner-1",
		OwnerName:  "Owner",
		OwnerEmail: "owner@example.com",
		Name:       "Consultations",
		Timezone:   "UTC",
		PublicID:   "abc123",
		Rules: calendar.Rules{
			Weekdays:            []int{1, 2, 3, 4, 5},
			HoursStart:          9,
			HoursEnd:            17,
			SlotDurationMinutes: 60,
		},
	}
}

// newTestService pins the clock to Tuesday 2026-09-01.
func newTestService(repo *fakeRepo, cals *fakeCalendars, notifier Notifier) *service {
	return &service{
		repo:     repo,
		cals:     cals,
		notifier: notifier,
		now: func() time.Time {
			return time.Date(2026, 9, 1, 10, 30, 0, 0, time.UTC)
		},
	}
}

func validRequest() CreateRequest {
	return CreateRequest{
		CalendarRef: "cal-1",
		Date:        time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC), // Monday
		StartHour:   10,
		EndHour:     11,
		Name:        "Alice",
		Email:       "alice@example.com",
	}
}

func TestCreateBooking(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo, &fakeCalendars{cal: testCalendar()}, nil)

	b, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, "cal-1", b.CalendarID)
	assert.Equal(t, StatusConfirmed, b.Status)
	assert.Equal(t, time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC), b.Date)
	assert.Len(t, repo.bookings, 1)
}

func TestCreateBookingByPublicID(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo, &fakeCalendars{cal: testCalendar()}, nil)

	req := validRequest()
	req.CalendarRef = "abc123"

	b, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "cal-1", b.CalendarID)
}

func TestCreateBookingRejections(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*CreateRequest)
		wantErr error
	}{
		{
			name:    "missing name",
			mutate:  func(r *CreateRequest) { r.Name = "  " },
			wantErr: ErrInvalidInput,
		},
		{
			name:    "missing email",
			mutate:  func(r *CreateRequest) { r.Email = "" },
			wantErr: ErrInvalidInput,
		},
		{
			name: "notes too long",
			mutate: func(r *CreateRequest) {
				r.Notes = string(make([]byte, 501))
			},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "inverted time range",
			mutate:  func(r *CreateRequest) { r.StartHour, r.EndHour = 11, 10 },
			wantErr: ErrInvalidTimeRange,
		},
		{
			name:    "zero length range",
			mutate:  func(r *CreateRequest) { r.EndHour = r.StartHour },
			wantErr: ErrInvalidTimeRange,
		},
		{
			name:    "unknown calendar",
			mutate:  func(r *CreateRequest) { r.CalendarRef = "nope" },
			wantErr: ErrCalendarNotFound,
		},
		{
			name: "past date",
			mutate: func(r *CreateRequest) {
				r.Date = time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC) // Monday before the clock
			},
			wantErr: ErrPastDate,
		},
		{
			name: "closed weekday",
			mutate: func(r *CreateRequest) {
				r.Date = time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC) // Saturday
			},
			wantErr: ErrDayClosed,
		},
		{
			name: "before opening hour",
			mutate: func(r *CreateRequest) {
				r.StartHour, r.EndHour = 8, 9
			},
			wantErr: ErrOutsideHours,
		},
		{
			name: "past closing hour",
			mutate: func(r *CreateRequest) {
				r.StartHour, r.EndHour = 16.5, 17.5
			},
			wantErr: ErrOutsideHours,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeRepo{}
			svc := newTestService(repo, &fakeCalendars{cal: testCalendar()}, nil)

			req := validRequest()
			tt.mutate(&req)

			_, err := svc.Create(context.Background(), req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, repo.bookings, "rejected booking must not persist")
		})
	}
}

func TestCreateBookingDisabledDate(t *testing.T) {
	cal := testCalendar()
	cal.Rules.DisabledDates = []time.Time{time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)}

	svc := newTestService(&fakeRepo{}, &fakeCalendars{cal: cal}, nil)

	_, err := svc.Create(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrDayClosed)
}

func TestCreateBookingRejectionMessages(t *testing.T) {
	svc := newTestService(&fakeRepo{}, &fakeCalendars{cal: testCalendar()}, nil)

	req := validRequest()
	req.Date = time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC) // Saturday
	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Saturday")
	assert.Contains(t, err.Error(), "Monday, Tuesday, Wednesday, Thursday, Friday")

	req = validRequest()
	req.StartHour, req.EndHour = 7, 8
	_, err = svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "09:00 - 17:00")
}

func TestCreateBookingConflicts(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo, &fakeCalendars{cal: testCalendar()}, nil)

	_, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)

	// Exact same slot.
	_, err = svc.Create(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotTaken)

	// Offset range overlapping the confirmed 10-11 booking.
	req := validRequest()
	req.StartHour, req.EndHour = 10.5, 11.5
	_, err = svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, ErrSlotTaken)

	// Back-to-back is not a conflict.
	req = validRequest()
	req.StartHour, req.EndHour = 11, 12
	_, err = svc.Create(context.Background(), req)
	assert.NoError(t, err)
}

func TestCreateBookingLostInsertRace(t *testing.T) {
	// The overlap pre-check passes but the insert reports a unique
	// violation, meaning a concurrent admission won the slot.
	repo := &fakeRepo{createErr: ErrSlotTaken}
	svc := newTestService(repo, &fakeCalendars{cal: testCalendar()}, nil)

	_, err := svc.Create(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotTaken)
}

func TestCancelledBookingFreesSlot(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo, &fakeCalendars{cal: testCalendar()}, nil)

	b, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)

	_, err = svc.Cancel(context.Background(), b.ID, "owner-1", false)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), validRequest())
	assert.NoError(t, err)
}

func TestCancel(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo, &fakeCalendars{cal: testCalendar()}, nil)

	b, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)

	// Not the owner and not an admin.
	_, err = svc.Cancel(context.Background(), b.ID, "someone-else", false)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	// Admin may cancel any booking.
	cancelled, err := svc.Cancel(context.Background(), b.ID, "someone-else", true)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, cancelled.Status)

	// Cancelling twice fails.
	_, err = svc.Cancel(context.Background(), b.ID, "owner-1", false)
	assert.ErrorIs(t, err, ErrAlreadyCancelled)
}

func TestOpenSlots(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo, &fakeCalendars{cal: testCalendar()}, nil)
	monday := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

	avail, err := svc.OpenSlots(context.Background(), "cal-1", monday)
	require.NoError(t, err)
	assert.Len(t, avail.Slots, 8)
	assert.Empty(t, avail.Message)

	// Book 10-11 and the candidate list loses exactly that slot.
	_, err = svc.Create(context.Background(), validRequest())
	require.NoError(t, err)

	avail, err = svc.OpenSlots(context.Background(), "cal-1", monday)
	require.NoError(t, err)
	require.Len(t, avail.Slots, 7)
	for _, slot := range avail.Slots {
		assert.False(t, slot.StartHour == 10, "booked slot must not be offered")
	}
}

func TestOpenSlotsOffGridBookingShadowsSlot(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo, &fakeCalendars{cal: testCalendar()}, nil)
	monday := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

	// A confirmed 10:30-11:30 booking overlaps both the 10-11 and the
	// 11-12 candidates.
	req := validRequest()
	req.StartHour, req.EndHour = 10.5, 11.5
	_, err := svc.Create(context.Background(), req)
	require.NoError(t, err)

	avail, err := svc.OpenSlots(context.Background(), "cal-1", monday)
	require.NoError(t, err)
	assert.Len(t, avail.Slots, 6)
	for _, slot := range avail.Slots {
		assert.NotEqual(t, float64(10), slot.StartHour)
		assert.NotEqual(t, float64(11), slot.StartHour)
	}
}

func TestOpenSlotsClosedDayMessages(t *testing.T) {
	cal := testCalendar()
	cal.Rules.DisabledDates = []time.Time{time.Date(2026, 9, 8, 0, 0, 0, 0, time.UTC)}
	svc := newTestService(&fakeRepo{}, &fakeCalendars{cal: cal}, nil)

	tests := []struct {
		name string
		day  time.Time
		want string
	}{
		{
			name: "closed weekday names the open days",
			day:  time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC),
			want: "Monday, Tuesday, Wednesday, Thursday, Friday",
		},
		{
			name: "disabled date",
			day:  time.Date(2026, 9, 8, 0, 0, 0, 0, time.UTC),
			want: "disabled",
		},
		{
			name: "past date",
			day:  time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC),
			want: "passed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			avail, err := svc.OpenSlots(context.Background(), "cal-1", tt.day)
			require.NoError(t, err)
			assert.Empty(t, avail.Slots)
			assert.Contains(t, avail.Message, tt.want)
		})
	}
}

func TestOpenSlotsUnknownCalendar(t *testing.T) {
	svc := newTestService(&fakeRepo{}, &fakeCalendars{}, nil)

	_, err := svc.OpenSlots(context.Background(), "missing", time.Now())
	assert.ErrorIs(t, err, ErrCalendarNotFound)
}

func TestOpenSlotsOfferedSlotIsAdmissible(t *testing.T) {
	// Every slot the read path offers must pass the admission check
	// against the same bookings.
	repo := &fakeRepo{}
	svc := newTestService(repo, &fakeCalendars{cal: testCalendar()}, nil)
	monday := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

	req := validRequest()
	req.StartHour, req.EndHour = 13, 14
	_, err := svc.Create(context.Background(), req)
	require.NoError(t, err)

	avail, err := svc.OpenSlots(context.Background(), "cal-1", monday)
	require.NoError(t, err)

	for _, slot := range avail.Slots {
		r := validRequest()
		r.StartHour, r.EndHour = slot.StartHour, slot.EndHour
		_, err := svc.Create(context.Background(), r)
		assert.NoError(t, err, "offered slot %v-%v was rejected", slot.StartHour, slot.EndHour)
	}
}

func TestCreateBookingNotifies(t *testing.T) {
	notifier := &fakeNotifier{sent: make(chan Notification, 1)}
	svc := newTestService(&fakeRepo{}, &fakeCalendars{cal: testCalendar()}, notifier)

	_, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)

	select {
	case n := <-notifier.sent:
		assert.Equal(t, "Consultations", n.CalendarName)
		assert.Equal(t, "owner@example.com", n.OwnerEmail)
		assert.Equal(t, "alice@example.com", n.Booking.Email)
	case <-time.After(time.Second):
		t.Fatal("notification was not dispatched")
	}
}

func TestListForCalendarPermissions(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo, &fakeCalendars{cal: testCalendar()}, nil)

	_, err := svc.ListForCalendar(context.Background(), "cal-1", "stranger", false)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	_, err = svc.ListForCalendar(context.Background(), "cal-1", "owner-1", false)
	assert.NoError(t, err)

	_, err = svc.ListForCalendar(context.Background(), "cal-1", "stranger", true)
	assert.NoError(t, err)

	_, err = svc.ListForCalendar(context.Background(), "other", "owner-1", false)
	assert.ErrorIs(t, err, ErrCalendarNotFound)
}
