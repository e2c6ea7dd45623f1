package http

import (
	"time"

	"github.com/schedly/schedly-backend/internal/booking"
	"github.com/schedly/schedly-backend/internal/pkg/request"
)

const dateLayout = "2006-01-02"

// CreateBookingBody is the public booking submission. Calendar accepts a
// UUID or the calendar's public id.
type CreateBookingBody struct {
	Calendar  string  `json:"calendar" binding:"required"`
	Date      string  `json:"date" binding:"required,datetime=2006-01-02"`
	StartHour float64 `json:"start_hour" binding:"min=0,max=24"`
	EndHour   float64 `json:"end_hour" binding:"min=0,max=24"`
	Name      string  `json:"name" binding:"required"`
	Email     string  `json:"email" binding:"required,email"`
	Notes     string  `json:"notes" binding:"omitempty,max=500"`
}

// ListBookingsRequest defines query parameters for listing bookings.
type ListBookingsRequest struct {
	request.ListParams
	CalendarID string `form:"calendar_id" binding:"omitempty,uuid"`
	Status     string `form:"status" binding:"omitempty,oneof=confirmed cancelled"`
}

type BookingResponse struct {
	ID           string    `json:"id"`
	CalendarID   string    `json:"calendar_id"`
	CalendarName string    `json:"calendar_name,omitempty"`
	Date         string    `json:"date"`
	StartHour    float64   `json:"start_hour"`
	EndHour      float64   `json:"end_hour"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Notes        string    `json:"notes,omitempty"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

func NewBookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID:           b.ID,
		CalendarID:   b.CalendarID,
		CalendarName: b.CalendarName,
		Date:         b.Date.Format(dateLayout),
		StartHour:    b.StartHour,
		EndHour:      b.EndHour,
		Name:         b.Name,
		Email:        b.Email,
		Notes:        b.Notes,
		Status:       string(b.Status),
		CreatedAt:    b.CreatedAt,
	}
}
