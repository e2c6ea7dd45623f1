package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/schedly/schedly-backend/internal/auth"
	"github.com/schedly/schedly-backend/internal/booking"
	"github.com/schedly/schedly-backend/internal/calendar"
	"github.com/schedly/schedly-backend/internal/pkg/response"
	"github.com/schedly/schedly-backend/internal/user"
)

type Handler struct {
	service  calendar.Service
	bookings booking.Service
}

func NewHandler(service calendar.Service, bookings booking.Service) *Handler {
	return &Handler{
		service:  service,
		bookings: bookings,
	}
}

func isAdmin(c *gin.Context) bool {
	return auth.GetUserRole(c) == user.RoleAdmin
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateCalendarBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	disabled, err := parseDates(body.DisabledDates)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid disabled date format, expected YYYY-MM-DD"})
		return
	}

	cal, err := h.service.Create(c.Request.Context(), auth.GetUserID(c), calendar.CreateRequest{
		Name:                body.Name,
		Description:         body.Description,
		Timezone:            body.Timezone,
		Weekdays:            body.AvailableDays,
		HoursStart:          body.HoursStart,
		HoursEnd:            body.HoursEnd,
		SlotDurationMinutes: body.SlotDurationMinutes,
		DisabledDates:       disabled,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewCalendarResponse(cal))
}

func (h *Handler) List(c *gin.Context) {
	calendars, err := h.service.ListForUser(c.Request.Context(), auth.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list calendars"})
		return
	}

	items := make([]CalendarResponse, 0, len(calendars))
	for _, cal := range calendars {
		items = append(items, NewCalendarResponse(cal))
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) Get(c *gin.Context) {
	id := c.Param("ref")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	cal, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	if cal.UserID != auth.GetUserID(c) && !isAdmin(c) {
		response.Error(c, calendar.ErrPermissionDenied)
		return
	}

	c.JSON(http.StatusOK, NewCalendarResponse(cal))
}

func (h *Handler) Update(c *gin.Context) {
	id := c.Param("ref")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	var body UpdateCalendarBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	req := calendar.UpdateRequest{
		Name:                body.Name,
		Description:         body.Description,
		Timezone:            body.Timezone,
		Weekdays:            body.AvailableDays,
		HoursStart:          body.HoursStart,
		HoursEnd:            body.HoursEnd,
		SlotDurationMinutes: body.SlotDurationMinutes,
	}
	if body.DisabledDates != nil {
		disabled, err := parseDates(*body.DisabledDates)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid disabled date format, expected YYYY-MM-DD"})
			return
		}
		req.DisabledDates = &disabled
	}

	cal, err := h.service.Update(c.Request.Context(), id, req, auth.GetUserID(c), isAdmin(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewCalendarResponse(cal))
}

func (h *Handler) Delete(c *gin.Context) {
	id := c.Param("ref")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), id, auth.GetUserID(c), isAdmin(c)); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetPublic returns the booking-page view of a calendar, addressed by UUID
// or public id. No authentication.
func (h *Handler) GetPublic(c *gin.Context) {
	cal, err := h.service.GetByRef(c.Request.Context(), c.Param("ref"))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewPublicCalendarResponse(cal))
}

// AvailableSlots lists the open slots of a calendar on one date.
// No authentication; this is what the public booking page polls.
func (h *Handler) AvailableSlots(c *gin.Context) {
	dateStr := c.Query("date")
	if dateStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "please provide a date"})
		return
	}
	date, err := time.Parse(dateLayout, dateStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date format, expected YYYY-MM-DD"})
		return
	}

	avail, err := h.bookings.OpenSlots(c.Request.Context(), c.Param("ref"), date)
	if err != nil {
		response.Error(c, err)
		return
	}

	slots := make([]SlotResponse, 0, len(avail.Slots))
	for _, s := range avail.Slots {
		slots = append(slots, SlotResponse{StartHour: s.StartHour, EndHour: s.EndHour})
	}

	c.JSON(http.StatusOK, AvailabilityResponse{
		Date:    dateStr,
		Slots:   slots,
		Message: avail.Message,
	})
}
