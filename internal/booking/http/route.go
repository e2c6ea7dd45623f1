package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	group := g.Group("/bookings")

	// Public booking submission
	group.POST("", h.Create)

	// === Authenticated Routes ===
	authed := group.Group("")
	authed.Use(authMiddleware)
	{
		authed.GET("", h.List)
		authed.GET("/calendar/:id", h.ListForCalendar)
		authed.PUT("/:id/cancel", h.Cancel)
	}
}
