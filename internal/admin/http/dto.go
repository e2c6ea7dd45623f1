package http

import (
	"time"

	"github.com/schedly/schedly-backend/internal/admin"
	bookinghttp "github.com/schedly/schedly-backend/internal/booking/http"
	"github.com/schedly/schedly-backend/internal/pkg/request"
	"github.com/schedly/schedly-backend/internal/user"
)

type CreateUserBody struct {
	Name     string `json:"name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"omitempty,oneof=user admin"`
}

type UpdateUserBody struct {
	Name     *string `json:"name" binding:"omitempty,max=100"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Password *string `json:"password" binding:"omitempty,min=6"`
	Role     *string `json:"role" binding:"omitempty,oneof=user admin"`
}

// ListUsersRequest defines query parameters for the admin user listing.
type ListUsersRequest struct {
	request.ListParams
	Email string `form:"email"`
	Role  string `form:"role" binding:"omitempty,oneof=user admin"`
}

type ListCalendarsRequest struct {
	request.ListParams
	UserID string `form:"user_id" binding:"omitempty,uuid"`
}

// AdminUserResponse extends the auth view of a user with the owned
// calendar count the dashboard shows.
type AdminUserResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Role          string    `json:"role"`
	CalendarCount int       `json:"calendar_count"`
	CreatedAt     time.Time `json:"created_at"`
}

func NewAdminUserResponse(u *user.User) AdminUserResponse {
	return AdminUserResponse{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		Role:          u.Role,
		CalendarCount: u.CalendarCount,
		CreatedAt:     u.CreatedAt,
	}
}

type DayCountResponse struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

type StatsResponse struct {
	TotalUsers        int                           `json:"total_users"`
	TotalCalendars    int                           `json:"total_calendars"`
	TotalBookings     int                           `json:"total_bookings"`
	CancelledBookings int                           `json:"cancelled_bookings"`
	RecentBookings    []bookinghttp.BookingResponse `json:"recent_bookings"`
	SignupsLastWeek   []DayCountResponse            `json:"signups_last_week"`
	BookingsLastWeek  []DayCountResponse            `json:"bookings_last_week"`
}

func NewStatsResponse(s *admin.Stats) StatsResponse {
	recent := make([]bookinghttp.BookingResponse, 0, len(s.RecentBookings))
	for _, b := range s.RecentBookings {
		recent = append(recent, bookinghttp.NewBookingResponse(b))
	}
	return StatsResponse{
		TotalUsers:        s.TotalUsers,
		TotalCalendars:    s.TotalCalendars,
		TotalBookings:     s.TotalBookings,
		CancelledBookings: s.CancelledBookings,
		RecentBookings:    recent,
		SignupsLastWeek:   formatDayCounts(s.SignupsLastWeek),
		BookingsLastWeek:  formatDayCounts(s.BookingsLastWeek),
	}
}

func formatDayCounts(counts []admin.DayCount) []DayCountResponse {
	out := make([]DayCountResponse, 0, len(counts))
	for _, dc := range counts {
		out = append(out, DayCountResponse{Day: dc.Day.Format("2006-01-02"), Count: dc.Count})
	}
	return out
}
