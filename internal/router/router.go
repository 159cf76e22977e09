package router

import (
	"time"

	"github.com/examduty/dutybook-backend/internal/config"
	"github.com/examduty/dutybook-backend/internal/handler"
	"github.com/examduty/dutybook-backend/internal/middleware"
	"github.com/examduty/dutybook-backend/internal/response"
	"github.com/examduty/dutybook-backend/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// uploadsMaxAge caches stored profile images for a year; file names are never reused.
const uploadsMaxAge = 31536000

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth    *handler.AuthHandler
	Faculty *handler.FacultyHandler
	Admin   *handler.AdminHandler
	WS      *handler.WSHandler
	System  *handler.SystemHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
// counter backs the auth rate limiter.
func SetupRouter(
	cfg *config.Config,
	authService *service.AuthService,
	handlers *Handlers,
	counter middleware.Counter,
	log zerolog.Logger,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(middleware.Recovery(log))

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "Retry-After"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Request IDs come first so the logger can report them.
	router.Use(response.RequestIDMiddleware())
	router.Use(middleware.RequestLogger(log))

	router.Use(middleware.BrotliWithConfig(middleware.BrotliConfig{
		Quality:      middleware.DefaultBrotliConfig.Quality,
		MinLength:    middleware.DefaultBrotliConfig.MinLength,
		SkipPrefixes: []string{cfg.UploadURLPath},
	}))

	// Serve uploaded profile images statically.
	uploadsGroup := router.Group(cfg.UploadURLPath)
	uploadsGroup.Use(middleware.CacheControl(uploadsMaxAge))
	{
		uploadsGroup.Static("/", cfg.UploadDir)
	}

	router.GET("/health", middleware.NoStore(), handlers.System.Health)

	// ─── 1. Auth (Public, Rate Limited) ────────────────────────────────
	authLimiter := middleware.NewRateLimiter(counter, "auth", cfg.AuthRateLimit, time.Minute, log)
	auth := router.Group("/")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/register", handlers.Auth.Register)
		auth.POST("/login", handlers.Auth.Login)
		auth.POST("/admin/login", handlers.Auth.AdminLogin)
	}

	// ─── 2. Faculty ────────────────────────────────────────────────────
	router.GET("/faculty-profile/:facultyId", handlers.Faculty.GetProfile)
	router.POST("/book-room", handlers.Faculty.BookRoom)
	router.PUT("/update-profile", middleware.RequireJWT(authService), handlers.Faculty.UpdateProfile)

	// ─── 3. Admin (Admin-scoped JWT) ───────────────────────────────────
	adminAPI := router.Group("/admin")
	adminAPI.Use(middleware.RequireAdminJWT(authService), middleware.NoStore())
	{
		adminAPI.GET("/dashboard", handlers.Admin.Dashboard)
		adminAPI.GET("/faculty-list", handlers.Admin.FacultyList)
		adminAPI.GET("/profile", handlers.Admin.Profile)
		adminAPI.POST("/add-date", handlers.Admin.AddDate)
		adminAPI.POST("/reset-dates", handlers.Admin.ResetDates)
		adminAPI.GET("/available-dates", handlers.Admin.AvailableDates)
		adminAPI.GET("/date-history", handlers.Admin.DateHistory)
		adminAPI.GET("/booking-log", handlers.Admin.BookingLog)
	}

	// ─── 4. WebSocket (Admin WS Auth) ──────────────────────────────────
	ws := router.Group("/ws/admin")
	ws.Use(middleware.RequireAdminWSAuth(authService))
	{
		ws.GET("/booking-feed", handlers.WS.BookingFeed)
	}

	return router
}
