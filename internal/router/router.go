package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/kerkportaal/lms-backend/internal/config"
	"github.com/kerkportaal/lms-backend/internal/handler"
	"github.com/kerkportaal/lms-backend/internal/middleware"
	"github.com/kerkportaal/lms-backend/internal/response"
	"github.com/kerkportaal/lms-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth       *handler.AuthHandler
	Course     *handler.CourseHandler
	Player     *handler.PlayerHandler
	Credential *handler.CredentialHandler
	WS         *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for auth routes (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/login", handlers.Auth.Login)

		// Authenticated profile routes
		auth.POST("/logout", middleware.RequireAuth(authService), handlers.Auth.Logout)
		auth.GET("/me", middleware.RequireAuth(authService), handlers.Auth.Me)
	}

	// ─── 2. Member Group (JWT + Single Device) ─────────────────────────
	memberAPI := router.Group("/api/v1")
	memberAPI.Use(
		middleware.RequireAuth(authService),
		middleware.CheckSingleDeviceSession(authService),
	)
	{
		memberAPI.GET("/kursusse", middleware.CacheControl(60), handlers.Course.ListCatalog)
		memberAPI.GET("/kursusse/:id", handlers.Player.Overview)
		memberAPI.GET("/kursusse/:id/lesse/:lesId", handlers.Player.OpenLesson)
		memberAPI.POST("/kursusse/:id/lesse/:lesId/voltooi", handlers.Player.CompleteText)
		memberAPI.POST("/kursusse/:id/lesse/:lesId/kontrolepunt", handlers.Player.Checkpoint)
		memberAPI.POST("/kursusse/:id/lesse/:lesId/video-klaar", handlers.Player.VideoEnded)
		memberAPI.POST("/kursusse/:id/lesse/:lesId/toets", handlers.Player.SubmitQuiz)
		memberAPI.POST("/kursusse/:id/lesse/:lesId/opdrag", handlers.Player.SubmitAssignment)
		memberAPI.POST("/speler/kanselleer-voortgang", handlers.Player.CancelAutoAdvance)

		memberAPI.GET("/vbo/krediete", handlers.Credential.MyCredits)
		memberAPI.GET("/vbo/opsomming", handlers.Credential.MyCreditSummary)
		memberAPI.GET("/sertifikate", handlers.Credential.MyCertificates)
	}

	// ─── 3. WebSocket Group (WS Auth via query token) ──────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireWSAuth(authService))
	{
		ws.GET("/vordering", handlers.WS.ProgressStream)
	}

	// ─── 4. Admin Group ────────────────────────────────────────────────
	adminAPI := router.Group("/api/v1/admin")
	adminAPI.Use(middleware.RequireAdmin(authService))
	{
		adminAPI.POST("/kursusse/:id/publiseer", handlers.Course.Publish)
		adminAPI.POST("/kursusse/:id/onttrek", handlers.Course.Unpublish)
		adminAPI.POST("/kursusse/:id/verfris", handlers.Course.RefreshCache)
		adminAPI.GET("/vbo/indienings", handlers.Credential.AdminListGrants)
	}

	return router
}
