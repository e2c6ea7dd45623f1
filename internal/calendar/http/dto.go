package http

import (
	"time"

	"github.com/schedly/schedly-backend/internal/calendar"
)

const dateLayout = "2006-01-02"

type CreateCalendarBody struct {
	Name                string   `json:"name" binding:"required,max=100"`
	Description         string   `json:"description" binding:"omitempty,max=500"`
	Timezone            string   `json:"timezone"`
	AvailableDays       []int    `json:"available_days" binding:"omitempty,dive,min=0,max=6"`
	HoursStart          float64  `json:"hours_start" binding:"omitempty,min=0,max=24"`
	HoursEnd            float64  `json:"hours_end" binding:"omitempty,min=0,max=24"`
	SlotDurationMinutes int      `json:"slot_duration_minutes" binding:"omitempty,oneof=15 30 45 60 90 120"`
	DisabledDates       []string `json:"disabled_dates" binding:"omitempty,dive,datetime=2006-01-02"`
}

type UpdateCalendarBody struct {
	Name                *string   `json:"name" binding:"omitempty,max=100"`
	Description         *string   `json:"description" binding:"omitempty,max=500"`
	Timezone            *string   `json:"timezone"`
	AvailableDays       *[]int    `json:"available_days" binding:"omitempty,dive,min=0,max=6"`
	HoursStart          *float64  `json:"hours_start" binding:"omitempty,min=0,max=24"`
	HoursEnd            *float64  `json:"hours_end" binding:"omitempty,min=0,max=24"`
	SlotDurationMinutes *int      `json:"slot_duration_minutes" binding:"omitempty,oneof=15 30 45 60 90 120"`
	DisabledDates       *[]string `json:"disabled_dates" binding:"omitempty,dive,datetime=2006-01-02"`
}

// OwnerTag is the minimal owner info embedded in admin list views.
type OwnerTag struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type CalendarResponse struct {
	ID                  string    `json:"id"`
	PublicID            string    `json:"public_id"`
	Name                string    `json:"name"`
	Description         string    `json:"description"`
	Timezone            string    `json:"timezone"`
	AvailableDays       []int     `json:"available_days"`
	HoursStart          float64   `json:"hours_start"`
	HoursEnd            float64   `json:"hours_end"`
	SlotDurationMinutes int       `json:"slot_duration_minutes"`
	DisabledDates       []string  `json:"disabled_dates"`
	CreatedAt           time.Time `json:"created_at"`
	Owner               *OwnerTag `json:"owner,omitempty"`
}

func NewCalendarResponse(cal *calendar.Calendar) CalendarResponse {
	return CalendarResponse{
		ID:                  cal.ID,
		PublicID:            cal.PublicID,
		Name:                cal.Name,
		Description:         cal.Description,
		Timezone:            cal.Timezone,
		AvailableDays:       emptyIfNil(cal.Rules.Weekdays),
		HoursStart:          cal.Rules.HoursStart,
		HoursEnd:            cal.Rules.HoursEnd,
		SlotDurationMinutes: cal.Rules.SlotDurationMinutes,
		DisabledDates:       formatDates(cal.Rules.DisabledDates),
		CreatedAt:           cal.CreatedAt,
	}
}

// NewAdminCalendarResponse includes the owner, for the admin listing.
func NewAdminCalendarResponse(cal *calendar.Calendar) CalendarResponse {
	resp := NewCalendarResponse(cal)
	resp.Owner = &OwnerTag{ID: cal.UserID, Name: cal.OwnerName, Email: cal.OwnerEmail}
	return resp
}

// PublicCalendarResponse is the embed/booking-page view: rules only,
// no owner contact details.
type PublicCalendarResponse struct {
	PublicID            string   `json:"public_id"`
	Name                string   `json:"name"`
	Description         string   `json:"description"`
	Timezone            string   `json:"timezone"`
	AvailableDays       []int    `json:"available_days"`
	HoursStart          float64  `json:"hours_start"`
	HoursEnd            float64  `json:"hours_end"`
	SlotDurationMinutes int      `json:"slot_duration_minutes"`
	DisabledDates       []string `json:"disabled_dates"`
}

func NewPublicCalendarResponse(cal *calendar.Calendar) PublicCalendarResponse {
	return PublicCalendarResponse{
		PublicID:            cal.PublicID,
		Name:                cal.Name,
		Description:         cal.Description,
		Timezone:            cal.Timezone,
		AvailableDays:       emptyIfNil(cal.Rules.Weekdays),
		HoursStart:          cal.Rules.HoursStart,
		HoursEnd:            cal.Rules.HoursEnd,
		SlotDurationMinutes: cal.Rules.SlotDurationMinutes,
		DisabledDates:       formatDates(cal.Rules.DisabledDates),
	}
}

type SlotResponse struct {
	StartHour float64 `json:"start_hour"`
	EndHour   float64 `json:"end_hour"`
}

// AvailabilityResponse lists the open slots of one day. Message explains an
// empty list caused by a closed day.
type AvailabilityResponse struct {
	Date    string         `json:"date"`
	Slots   []SlotResponse `json:"slots"`
	Message string         `json:"message,omitempty"`
}

func formatDates(dates []time.Time) []string {
	out := make([]string, 0, len(dates))
	for _, d := range dates {
		out = append(out, d.Format(dateLayout))
	}
	return out
}

func parseDates(dates []string) ([]time.Time, error) {
	out := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		t, err := time.Parse(dateLayout, d)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func emptyIfNil(days []int) []int {
	if days == nil {
		return []int{}
	}
	return days
}
