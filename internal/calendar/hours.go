package calendar

import (
	"fmt"
	"math"
	"time"
)

// Hours are represented as fractional hours since midnight, so 9:30 is 9.5.
// Slots and bookings are half-open intervals [start, end) over that scale.

// DayOf truncates t to its calendar day, normalized to midnight UTC.
// All day-granularity comparisons (disabled dates, past-date checks,
// day-of-week lookups) go through this single representation.
func DayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return DayOf(a).Equal(DayOf(b))
}

// Overlaps reports whether the half-open intervals [aStart,aEnd) and
// [bStart,bEnd) intersect. Touching boundaries are not an overlap, so
// back-to-back scheduling is legal.
func Overlaps(aStart, aEnd, bStart, bEnd float64) bool {
	return aStart < bEnd && aEnd > bStart
}

// FormatHour renders a fractional hour as wall-clock "HH:MM".
func FormatHour(h float64) string {
	minutes := int(math.Round(h * 60))
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

var weekdayNames = [7]string{
	"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday",
}

// WeekdayName returns the English name for a 0=Sunday..6=Saturday index.
func WeekdayName(day int) string {
	if day < 0 || day > 6 {
		return "Unknown"
	}
	return weekdayNames[day]
}
