package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/schedly/schedly-backend/internal/admin"
	"github.com/schedly/schedly-backend/internal/auth"
	"github.com/schedly/schedly-backend/internal/booking"
	bookinghttp "github.com/schedly/schedly-backend/internal/booking/http"
	"github.com/schedly/schedly-backend/internal/calendar"
	calendarhttp "github.com/schedly/schedly-backend/internal/calendar/http"
	"github.com/schedly/schedly-backend/internal/pkg/request"
	"github.com/schedly/schedly-backend/internal/pkg/response"
	"github.com/schedly/schedly-backend/internal/user"
)

type Handler struct {
	service   admin.Service
	users     user.Service
	calendars calendar.Service
	bookings  booking.Service
}

func NewHandler(service admin.Service, users user.Service, calendars calendar.Service, bookings booking.Service) *Handler {
	return &Handler{
		service:   service,
		users:     users,
		calendars: calendars,
		bookings:  bookings,
	}
}

func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load stats"})
		return
	}
	c.JSON(http.StatusOK, NewStatsResponse(stats))
}

func (h *Handler) ListUsers(c *gin.Context) {
	var req ListUsersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters"})
		return
	}

	users, total, err := h.users.List(c.Request.Context(), user.Filter{
		Email:    req.Email,
		Role:     req.Role,
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list users"})
		return
	}

	items := make([]AdminUserResponse, 0, len(users))
	for _, u := range users {
		items = append(items, NewAdminUserResponse(u))
	}
	c.JSON(http.StatusOK, response.NewPageResponse(items, req.Page, req.PageSize, total))
}

func (h *Handler) GetUser(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	u, err := h.users.GetByID(c.Request.Context(), req.ID)
	if err != nil {
		if err == user.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get user"})
		return
	}
	c.JSON(http.StatusOK, NewAdminUserResponse(u))
}

func (h *Handler) CreateUser(c *gin.Context) {
	var body CreateUserBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	if body.Role == "" {
		body.Role = user.RoleUser
	}

	u, err := h.users.Create(c.Request.Context(), user.CreateRequest{
		Name:     body.Name,
		Email:    body.Email,
		Password: body.Password,
		Role:     body.Role,
	})
	if err != nil {
		writeUserError(c, err)
		return
	}
	c.JSON(http.StatusCreated, NewAdminUserResponse(u))
}

func (h *Handler) UpdateUser(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	var body UpdateUserBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	u, err := h.users.Update(c.Request.Context(), req.ID, user.UpdateRequest{
		Name:     body.Name,
		Email:    body.Email,
		Password: body.Password,
		Role:     body.Role,
	})
	if err != nil {
		writeUserError(c, err)
		return
	}
	c.JSON(http.StatusOK, NewAdminUserResponse(u))
}

func (h *Handler) DeleteUser(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	if req.ID == auth.GetUserID(c) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot delete your own account"})
		return
	}

	if err := h.users.Delete(c.Request.Context(), req.ID); err != nil {
		writeUserError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) ListCalendars(c *gin.Context) {
	var req ListCalendarsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters"})
		return
	}

	cals, total, err := h.calendars.List(c.Request.Context(), calendar.Filter{
		UserID:   req.UserID,
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list calendars"})
		return
	}

	items := make([]calendarhttp.CalendarResponse, 0, len(cals))
	for _, cal := range cals {
		items = append(items, calendarhttp.NewAdminCalendarResponse(cal))
	}
	c.JSON(http.StatusOK, response.NewPageResponse(items, req.Page, req.PageSize, total))
}

func (h *Handler) ListBookings(c *gin.Context) {
	var req bookinghttp.ListBookingsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters"})
		return
	}

	bookings, total, err := h.bookings.List(c.Request.Context(), booking.Filter{
		CalendarID: req.CalendarID,
		Status:     req.Status,
		SortDesc:   true,
		Page:       req.Page,
		PageSize:   req.PageSize,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list bookings"})
		return
	}

	items := make([]bookinghttp.BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		items = append(items, bookinghttp.NewBookingResponse(b))
	}
	c.JSON(http.StatusOK, response.NewPageResponse(items, req.Page, req.PageSize, total))
}

func writeUserError(c *gin.Context, err error) {
	switch err {
	case user.ErrNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
	case user.ErrEmailAlreadyUsed:
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case user.ErrLastAdmin:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case user.ErrNameRequired, user.ErrEmailRequired, user.ErrPasswordTooShort, user.ErrInvalidRole:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
