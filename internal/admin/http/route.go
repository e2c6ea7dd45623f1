package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the admin surface. Both middlewares are required:
// authMiddleware authenticates, adminMiddleware checks the role against
// the database.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, adminMiddleware gin.HandlerFunc) {
	group := g.Group("/admin", authMiddleware, adminMiddleware)

	group.GET("/stats", h.Stats)

	group.GET("/users", h.ListUsers)
	group.POST("/users", h.CreateUser)
	group.GET("/users/:id", h.GetUser)
	group.PUT("/users/:id", h.UpdateUser)
	group.DELETE("/users/:id", h.DeleteUser)

	group.GET("/calendars", h.ListCalendars)
	group.GET("/bookings", h.ListBookings)
}
