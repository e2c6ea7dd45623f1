package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	group := g.Group("/calendars")

	// === Public Routes (booking page / embed widget) ===
	group.GET("/:ref/public", h.GetPublic)
	group.GET("/:ref/available-slots", h.AvailableSlots)

	// === Authenticated Routes ===
	authed := group.Group("")
	authed.Use(authMiddleware)
	{
		authed.POST("", h.Create)
		authed.GET("", h.List)
		authed.GET("/:ref", h.Get)
		authed.PUT("/:ref", h.Update)
		authed.DELETE("/:ref", h.Delete)
	}
}
