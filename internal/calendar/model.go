package calendar

import (
	"net/http"
	"time"

	"github.com/schedly/schedly-backend/internal/pkg/apperror"
)

var (
	ErrNotFound            = apperror.New(http.StatusNotFound, "calendar not found")
	ErrPermissionDenied    = apperror.New(http.StatusForbidden, "permission denied")
	ErrNameRequired        = apperror.New(http.StatusBadRequest, "calendar name is required")
	ErrNameTooLong         = apperror.New(http.StatusBadRequest, "name cannot be more than 100 characters")
	ErrDescriptionTooLong  = apperror.New(http.StatusBadRequest, "description cannot be more than 500 characters")
	ErrInvalidWeekday      = apperror.New(http.StatusBadRequest, "available days must be between 0 (Sunday) and 6 (Saturday)")
	ErrInvalidHours        = apperror.New(http.StatusBadRequest, "available hours must satisfy 0 <= start < end <= 24")
	ErrInvalidSlotDuration = apperror.New(http.StatusBadRequest, "slot duration must be one of 15, 30, 45, 60, 90, 120 minutes")
)

// Calendar is a bookable calendar owned by a user. The public books slots
// against its Rules through the booking resolver.
type Calendar struct {
	ID          string
	UserID      string
	OwnerName   string
	OwnerEmail  string
	Name        string
	Description string
	Timezone    string // informational label, hours are calendar-local plain numbers
	PublicID    string // short opaque id handed out for public booking pages
	Rules       Rules
	CreatedAt   time.Time
}

// Filter defines parameters for listing calendars (admin view).
type Filter struct {
	UserID   string
	Page     int
	PageSize int
}
