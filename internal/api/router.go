package api

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/schedly/schedly-backend/internal/admin"
	adminHttp "github.com/schedly/schedly-backend/internal/admin/http"
	"github.com/schedly/schedly-backend/internal/auth"
	"github.com/schedly/schedly-backend/internal/booking"
	bookingHttp "github.com/schedly/schedly-backend/internal/booking/http"
	"github.com/schedly/schedly-backend/internal/calendar"
	calendarHttp "github.com/schedly/schedly-backend/internal/calendar/http"
	"github.com/schedly/schedly-backend/internal/user"
	userHttp "github.com/schedly/schedly-backend/internal/user/http"
)

// Config holds everything the router needs to assemble the API surface.
type Config struct {
	IsProduction    bool
	ProdOrigins     string
	UserService     user.Service
	CalendarService calendar.Service
	BookingService  booking.Service
	AdminService    admin.Service
	JWTManager      *auth.JWTManager
}

// NewRouter initializes the HTTP router engine.
// It is responsible for assembling middleware (CORS, Logger, Auth) and registering routes for various modules.
func NewRouter(cfg Config) *gin.Engine {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global Middleware:
	// - Logger: Logs request information to the console.
	// - Recovery: Captures panics to prevent server crashes and returns a 500 error.
	r.Use(gin.Logger(), gin.Recovery())

	// Configure CORS (Cross-Origin Resource Sharing).
	corsConfig := cors.DefaultConfig()
	if cfg.IsProduction {
		corsConfig.AllowOrigins = splitOrigins(cfg.ProdOrigins)
	} else {
		corsConfig.AllowOrigins = []string{
			"http://localhost:3000", // Frontend dev server
			"http://localhost:8081", // Swagger
		}
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	// authMiddleware: Validates if the request contains a valid JWT.
	authMiddleware := auth.AuthRequired(cfg.JWTManager)
	// adminMiddleware: Further checks if the authenticated user has admin privileges.
	adminMiddleware := RequireAdmin(cfg.UserService)

	// Initialize HTTP Handlers for each module (injecting Service dependencies).
	userHandler := userHttp.NewHandler(cfg.UserService, cfg.JWTManager)
	calendarHandler := calendarHttp.NewHandler(cfg.CalendarService, cfg.BookingService)
	bookingHandler := bookingHttp.NewHandler(cfg.BookingService)
	adminHandler := adminHttp.NewHandler(cfg.AdminService, cfg.UserService, cfg.CalendarService, cfg.BookingService)

	// Register API routes under /v1
	v1 := r.Group("/v1")
	{
		userHttp.RegisterRoutes(v1, userHandler, authMiddleware)
		calendarHttp.RegisterRoutes(v1, calendarHandler, authMiddleware)
		bookingHttp.RegisterRoutes(v1, bookingHandler, authMiddleware)
		adminHttp.RegisterRoutes(v1, adminHandler, authMiddleware, adminMiddleware)
	}

	return r
}

func splitOrigins(origins string) []string {
	var out []string
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
