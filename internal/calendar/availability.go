package calendar

import (
	"slices"
	"strings"
	"time"
)

// SlotDurations are the accepted slot lengths in minutes.
var SlotDurations = []int{15, 30, 45, 60, 90, 120}

// Rules is the recurring availability configuration of a calendar.
// The policy methods below are pure functions over it; callers must read
// rules fresh on every resolution so a stale slot list can never admit an
// out-of-policy booking.
type Rules struct {
	Weekdays            []int // 0=Sunday .. 6=Saturday, unique; empty means perpetually closed
	HoursStart          float64
	HoursEnd            float64
	SlotDurationMinutes int
	DisabledDates       []time.Time // calendar days, normalized via DayOf
}

// Slot is a candidate appointment interval [StartHour, EndHour).
// Slots are ephemeral; only bookings are persisted.
type Slot struct {
	StartHour float64
	EndHour   float64
}

// DayVerdict classifies whether a calendar day accepts bookings, and why not.
type DayVerdict int

const (
	DayOpen DayVerdict = iota
	DayDisabledDate
	DayWeekdayClosed
	DayInPast
)

// CheckDay decides whether date is bookable at all. today is the reference
// calendar day; the current day stays open even if earlier slots have already
// elapsed (instant-level rejection is the admission check's job).
func (r Rules) CheckDay(date, today time.Time) DayVerdict {
	day := DayOf(date)

	for _, disabled := range r.DisabledDates {
		if SameDay(day, disabled) {
			return DayDisabledDate
		}
	}

	if !slices.Contains(r.Weekdays, int(day.Weekday())) {
		return DayWeekdayClosed
	}

	if day.Before(DayOf(today)) {
		return DayInPast
	}

	return DayOpen
}

// IsDayOpen is the boolean view of CheckDay.
func (r Rules) IsDayOpen(date, today time.Time) bool {
	return r.CheckDay(date, today) == DayOpen
}

// CandidateSlots enumerates every slot boundary on date, ascending by start
// hour. A closed day yields no slots rather than an error. Each boundary is
// computed directly from its index so repeated addition cannot accumulate
// floating-point drift. A final partial interval that would overflow HoursEnd
// is dropped, not truncated.
func (r Rules) CandidateSlots(date, today time.Time) []Slot {
	if !r.IsDayOpen(date, today) {
		return nil
	}

	step := float64(r.SlotDurationMinutes) / 60
	if step <= 0 {
		return nil
	}

	var slots []Slot
	for k := 0; ; k++ {
		start := r.HoursStart + float64(k)*step
		end := r.HoursStart + float64(k+1)*step
		if end > r.HoursEnd {
			break
		}
		slots = append(slots, Slot{StartHour: start, EndHour: end})
	}
	return slots
}

// OpenWeekdayNames lists the open weekdays by name, in day order,
// for self-correcting rejection messages.
func (r Rules) OpenWeekdayNames() string {
	days := slices.Clone(r.Weekdays)
	slices.Sort(days)

	names := make([]string, 0, len(days))
	for _, d := range days {
		names = append(names, WeekdayName(d))
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ", ")
}

// HourWindow renders the open-hours window, e.g. "09:00 - 17:00".
func (r Rules) HourWindow() string {
	return FormatHour(r.HoursStart) + " - " + FormatHour(r.HoursEnd)
}
