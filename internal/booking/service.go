package booking

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/schedly/schedly-backend/internal/calendar"
	"github.com/schedly/schedly-backend/internal/pkg/apperror"
)

// CalendarService is the slice of the calendar module the resolver consumes.
// Rules are read fresh through it on every resolution; the resolver never
// caches them.
type CalendarService interface {
	GetByID(ctx context.Context, id string) (*calendar.Calendar, error)
	GetByRef(ctx context.Context, ref string) (*calendar.Calendar, error)
}

type CreateRequest struct {
	CalendarRef string
	Date        time.Time
	StartHour   float64
	EndHour     float64
	Name        string
	Email       string
	Notes       string
}

// Availability is the read-path result: the open slots of one calendar day.
// Message explains an empty list caused by a closed day, so callers can
// distinguish "no availability" from "calendar not found".
type Availability struct {
	Slots   []calendar.Slot
	Message string
}

type Service interface {
	// OpenSlots lists the bookable slots of a calendar day: the candidate
	// slots of the availability rules minus every slot overlapping a
	// confirmed booking.
	OpenSlots(ctx context.Context, calendarRef string, date time.Time) (*Availability, error)

	// Create runs the admission check and persists the booking on success.
	Create(ctx context.Context, req CreateRequest) (*Booking, error)

	GetByID(ctx context.Context, id string) (*Booking, error)
	List(ctx context.Context, filter Filter) ([]*Booking, int, error)
	ListForCalendar(ctx context.Context, calendarID string, actorUserID string, isAdmin bool) ([]*Booking, error)
	Cancel(ctx context.Context, id string, actorUserID string, isAdmin bool) (*Booking, error)
}

type service struct {
	repo     Repository
	cals     CalendarService
	notifier Notifier // may be nil when mailing is not configured

	// now is the reference clock for past-date checks; overridable in tests.
	now func() time.Time
}

func NewService(repo Repository, cals CalendarService, notifier Notifier) Service {
	return &service{
		repo:     repo,
		cals:     cals,
		notifier: notifier,
		now:      time.Now,
	}
}

func (s *service) OpenSlots(ctx context.Context, calendarRef string, date time.Time) (*Availability, error) {
	cal, err := s.cals.GetByRef(ctx, calendarRef)
	if err != nil {
		if errors.Is(err, calendar.ErrNotFound) {
			return nil, ErrCalendarNotFound
		}
		return nil, err
	}

	day := calendar.DayOf(date)
	today := calendar.DayOf(s.now())

	if verdict := cal.Rules.CheckDay(day, today); verdict != calendar.DayOpen {
		return &Availability{
			Slots:   []calendar.Slot{},
			Message: closedMessage(verdict, day, cal.Rules),
		}, nil
	}

	candidates := cal.Rules.CandidateSlots(day, today)

	booked, err := s.repo.ListConfirmedForDay(ctx, cal.ID, day)
	if err != nil {
		return nil, err
	}

	open := make([]calendar.Slot, 0, len(candidates))
	for _, slot := range candidates {
		if !conflicts(slot.StartHour, slot.EndHour, booked) {
			open = append(open, slot)
		}
	}
	return &Availability{Slots: open}, nil
}

// Create validates the request in a fixed order so the first failing rule
// determines the rejection surfaced to the caller: structural validity,
// past date, closed day, hours window, then slot conflicts.
func (s *service) Create(ctx context.Context, req CreateRequest) (*Booking, error) {
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" {
		return nil, ErrInvalidInput
	}
	if len(req.Notes) > 500 {
		return nil, ErrInvalidInput
	}
	if req.StartHour >= req.EndHour {
		return nil, ErrInvalidTimeRange
	}

	cal, err := s.cals.GetByRef(ctx, req.CalendarRef)
	if err != nil {
		if errors.Is(err, calendar.ErrNotFound) {
			return nil, ErrCalendarNotFound
		}
		return nil, err
	}

	day := calendar.DayOf(req.Date)
	today := calendar.DayOf(s.now())

	if day.Before(today) {
		return nil, ErrPastDate
	}

	switch cal.Rules.CheckDay(day, today) {
	case calendar.DayDisabledDate:
		return nil, apperror.Wrapf(ErrDayClosed, http.StatusBadRequest,
			"this date has been disabled for booking; available days are: %s",
			cal.Rules.OpenWeekdayNames())
	case calendar.DayWeekdayClosed:
		return nil, apperror.Wrapf(ErrDayClosed, http.StatusBadRequest,
			"this day of week (%s) is not available for booking; available days are: %s",
			calendar.WeekdayName(int(day.Weekday())), cal.Rules.OpenWeekdayNames())
	}

	if req.StartHour < cal.Rules.HoursStart || req.EndHour > cal.Rules.HoursEnd {
		return nil, apperror.Wrapf(ErrOutsideHours, http.StatusBadRequest,
			"time slot is outside of available hours (%s)", cal.Rules.HourWindow())
	}

	booked, err := s.repo.ListConfirmedForDay(ctx, cal.ID, day)
	if err != nil {
		return nil, err
	}
	if conflicts(req.StartHour, req.EndHour, booked) {
		return nil, ErrSlotTaken
	}

	b := &Booking{
		CalendarID:   cal.ID,
		CalendarName: cal.Name,
		Date:         day,
		StartHour:    req.StartHour,
		EndHour:      req.EndHour,
		Name:         req.Name,
		Email:        req.Email,
		Notes:        req.Notes,
		Status:       StatusConfirmed,
	}

	// The repository reports a unique-constraint violation as ErrSlotTaken:
	// a concurrent admission won the race after our pre-check. Not retried;
	// the caller re-queries availability and resubmits.
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}

	s.dispatchNotification(cal, b)

	return b, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Booking, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) ListForCalendar(ctx context.Context, calendarID string, actorUserID string, isAdmin bool) ([]*Booking, error) {
	cal, err := s.cals.GetByID(ctx, calendarID)
	if err != nil {
		if errors.Is(err, calendar.ErrNotFound) {
			return nil, ErrCalendarNotFound
		}
		return nil, err
	}
	if cal.UserID != actorUserID && !isAdmin {
		return nil, ErrPermissionDenied
	}

	bookings, _, err := s.repo.List(ctx, Filter{CalendarID: calendarID, PageSize: 1000})
	return bookings, err
}

func (s *service) Cancel(ctx context.Context, id string, actorUserID string, isAdmin bool) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	cal, err := s.cals.GetByID(ctx, b.CalendarID)
	if err != nil {
		return nil, err
	}
	if cal.UserID != actorUserID && !isAdmin {
		return nil, ErrPermissionDenied
	}

	if b.Status == StatusCancelled {
		return nil, ErrAlreadyCancelled
	}

	if err := s.repo.UpdateStatus(ctx, id, StatusCancelled); err != nil {
		return nil, err
	}
	b.Status = StatusCancelled
	return b, nil
}

// conflicts reports whether [start, end) overlaps any confirmed booking.
// Shared by the read path and the admission check so a slot offered by
// OpenSlots is always admissible against the same snapshot.
func conflicts(start, end float64, booked []*Booking) bool {
	for _, b := range booked {
		if calendar.Overlaps(start, end, b.StartHour, b.EndHour) {
			return true
		}
	}
	return false
}

func closedMessage(verdict calendar.DayVerdict, day time.Time, rules calendar.Rules) string {
	switch verdict {
	case calendar.DayDisabledDate:
		return "this date has been disabled for booking"
	case calendar.DayWeekdayClosed:
		return "this day (" + calendar.WeekdayName(int(day.Weekday())) +
			") is not available for booking; available days are: " + rules.OpenWeekdayNames()
	case calendar.DayInPast:
		return "this date has already passed"
	}
	return ""
}

func (s *service) dispatchNotification(cal *calendar.Calendar, b *Booking) {
	if s.notifier == nil {
		return
	}

	n := Notification{
		Booking:      b,
		CalendarName: cal.Name,
		Timezone:     cal.Timezone,
		OwnerName:    cal.OwnerName,
		OwnerEmail:   cal.OwnerEmail,
	}

	go func() {
		if err := s.notifier.BookingCreated(n); err != nil {
			log.Printf("booking %s: notification failed: %v", b.ID, err)
		}
	}()
}
