package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/reconova/reconova/internal/api/handlers"
	"github.com/reconova/reconova/internal/api/middleware"
	"github.com/reconova/reconova/internal/auth"
	"github.com/reconova/reconova/internal/scan"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Router struct {
	chi.Router
}

type RouterConfig struct {
	DB             *gorm.DB
	Redis          *redis.Client
	Logger         *slog.Logger
	JWTService     *auth.JWTService
	AuthService    *auth.Service
	ScanStore      *scan.Store
	QuotaGuard     *scan.QuotaGuard
	ScanTrigger    handlers.ScanTrigger
	AllowedOrigins []string // CORS allowed origins
	RateLimitReqs  int      // Rate limit requests per window
	RateLimitSecs  int      // Rate limit window in seconds
}

func NewRouter(cfg RouterConfig) *Router {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))

	// Rate limiting - applied globally to prevent abuse
	if cfg.RateLimitReqs > 0 {
		r.Use(middleware.RateLimit(cfg.RateLimitReqs, cfg.RateLimitSecs))
	}

	// CORS - restrict to configured origins, or allow all in development
	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		// Default to localhost for development - configure in production
		allowedOrigins = []string{"http://localhost:3000", "http://localhost:8080"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(cfg.DB, cfg.Redis)
	authHandler := handlers.NewAuthHandler(cfg.AuthService)
	scanHandler := handlers.NewScanHandler(cfg.ScanStore, cfg.QuotaGuard, cfg.ScanTrigger)
	scheduleHandler := handlers.NewScheduleHandler(cfg.DB)
	planHandler := handlers.NewPlanHandler(cfg.DB)
	taskHandler := handlers.NewTaskHandler(cfg.DB)
	toolHandler := handlers.NewToolHandler(cfg.DB)

	// Health endpoints (no auth required)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public auth endpoints
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/logout", authHandler.Logout)

		// Public plan catalog
		r.Get("/plans", planHandler.List)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWTService))

			r.Get("/me", func(w http.ResponseWriter, r *http.Request) {
				userID := middleware.GetUserID(r.Context())
				user, err := cfg.AuthService.GetUserByID(r.Context(), userID)
				if err != nil {
					http.Error(w, "User not found", http.StatusNotFound)
					return
				}
				writeJSON(w, http.StatusOK, user)
			})

			r.Get("/quota", scanHandler.Quota)

			// Scan endpoints; starting a scan gets its own per-user limit
			// on top of the global one
			r.Route("/scans", func(r chi.Router) {
				r.With(middleware.RateLimitByUser(30, 60)).Post("/", scanHandler.Start)
				r.Get("/", scanHandler.List)
				r.Get("/quota", scanHandler.Quota)
				r.Get("/{scanID}", scanHandler.Get)
				r.Delete("/{scanID}", scanHandler.Delete)
				r.Get("/{scanID}/download", scanHandler.Download)
			})

			// Schedule endpoints
			r.Route("/schedules", func(r chi.Router) {
				r.Get("/", scheduleHandler.List)
				r.Post("/", scheduleHandler.Create)
				r.Get("/{scheduleID}", scheduleHandler.Get)
				r.Put("/{scheduleID}", scheduleHandler.Update)
				r.Delete("/{scheduleID}", scheduleHandler.Delete)
			})

			// Recon task endpoints
			r.Route("/tasks", func(r chi.Router) {
				r.Get("/", taskHandler.List)
				r.Post("/", taskHandler.Create)
				r.Get("/{taskID}", taskHandler.Get)
				r.Post("/{taskID}/close", taskHandler.Close)
			})

			// Tool catalog
			r.Get("/tools", toolHandler.List)

			// Admin-only endpoints
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole("admin"))

				r.Post("/tools", toolHandler.Create)
				r.Post("/plans", planHandler.Create)
				r.Post("/plans/assign", planHandler.Assign)
			})
		})
	})

	return &Router{r}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
