package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"github.com/velocejet/charter-api/internal/auth"
	"github.com/velocejet/charter-api/internal/config"
	"github.com/velocejet/charter-api/internal/database"
	"github.com/velocejet/charter-api/internal/http/handler"
	"github.com/velocejet/charter-api/internal/http/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "github.com/velocejet/charter-api/docs" // Import generated swagger docs
)

type Router struct {
	cfg                *config.Config
	logger             *zap.Logger
	db                 *gorm.DB
	authMiddleware     *auth.Middleware
	rateLimiter        *middleware.RateLimiter
	authHandler        *handler.AuthHandler
	settingsHandler    *handler.SettingsHandler
	proposalHandler    *handler.ProposalHandler
	uploadHandler      *handler.UploadHandler
	catalogHandler     *handler.CatalogHandler
	webhookHandler     *handler.WebhookHandler
	diagnosticsHandler *handler.DiagnosticsHandler
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	authMiddleware *auth.Middleware,
	rateLimiter *middleware.RateLimiter,
	authHandler *handler.AuthHandler,
	settingsHandler *handler.SettingsHandler,
	proposalHandler *handler.ProposalHandler,
	uploadHandler *handler.UploadHandler,
	catalogHandler *handler.CatalogHandler,
	webhookHandler *handler.WebhookHandler,
	diagnosticsHandler *handler.DiagnosticsHandler,
) *Router {
	return &Router{
		cfg:                cfg,
		logger:             logger,
		db:                 db,
		authMiddleware:     authMiddleware,
		rateLimiter:        rateLimiter,
		authHandler:        authHandler,
		settingsHandler:    settingsHandler,
		proposalHandler:    proposalHandler,
		uploadHandler:      uploadHandler,
		catalogHandler:     catalogHandler,
		webhookHandler:     webhookHandler,
		diagnosticsHandler: diagnosticsHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.LimitByIP) // Apply IP-based rate limiting globally
	r.Use(middleware.Metrics())

	// Health check (basic liveness probe)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Database health check (readiness probe with detailed stats)
	r.Get("/health/db", func(w http.ResponseWriter, r *http.Request) {
		stats, err := database.HealthCheckWithStats(rt.db)
		if err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status":  "unhealthy",
				"error":   err.Error(),
				"service": "database",
			})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "healthy",
			"service": "database",
			"stats": map[string]interface{}{
				"max_open_connections": stats.MaxOpenConnections,
				"open_connections":     stats.OpenConnections,
				"in_use":               stats.InUse,
				"idle":                 stats.Idle,
				"wait_count":           stats.WaitCount,
				"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
				"max_idle_closed":      stats.MaxIdleClosed,
				"max_lifetime_closed":  stats.MaxLifetimeClosed,
			},
		})
	})

	// Combined readiness check (checks all dependencies)
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		checks := make(map[string]interface{})
		allHealthy := true

		// Check database
		if err := database.HealthCheck(rt.db); err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			checks["database"] = map[string]interface{}{
				"status": "unhealthy",
				"error":  err.Error(),
			}
			allHealthy = false
		} else {
			checks["database"] = map[string]interface{}{
				"status": "healthy",
			}
		}

		w.Header().Set("Content-Type", "application/json")
		if allHealthy {
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status": "healthy",
				"checks": checks,
			})
		} else {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status": "unhealthy",
				"checks": checks,
			})
		}
	})

	// Prometheus metrics
	if rt.cfg.Metrics.Enabled {
		r.Get(rt.cfg.Metrics.Path, promhttp.Handler().ServeHTTP)
	}

	// Swagger documentation
	if rt.cfg.Server.EnableSwagger {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public routes (no auth required)
		r.Post("/check-registration", rt.authHandler.CheckRegistration)
		r.Post("/register", rt.authHandler.Register)
		r.Post("/login", rt.authHandler.Login)
		r.Post("/webhooks/add-to-audience", rt.webhookHandler.AddToAudience)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(rt.authMiddleware.Authenticate)
			r.Use(rt.rateLimiter.Limit)

			// Auth
			r.Get("/auth/me", rt.authHandler.Me)

			// Company settings
			r.Route("/settings/company", func(r chi.Router) {
				r.Get("/", rt.settingsHandler.Get)
				r.Put("/", rt.settingsHandler.Update)
			})

			// Proposals
			r.Route("/proposals", func(r chi.Router) {
				r.Post("/pdf", rt.proposalHandler.Generate)
				r.Get("/recent", rt.proposalHandler.ListRecent)
			})

			// Uploads
			r.Post("/uploads/images", rt.uploadHandler.UploadImage)

			// Reference catalog
			r.Route("/airports", func(r chi.Router) {
				r.Get("/", rt.catalogHandler.ListAirports)
				r.Get("/search", rt.catalogHandler.SearchAirports)
				r.Get("/{icao}", rt.catalogHandler.GetAirport)
			})
			r.Route("/aircraft", func(r chi.Router) {
				r.Get("/", rt.catalogHandler.ListAircraft)
				r.Get("/search", rt.catalogHandler.SearchAircraft)
				r.Get("/model", rt.catalogHandler.GetAircraftModel)
			})
			r.Route("/jets", func(r chi.Router) {
				r.Get("/", rt.catalogHandler.ListJets)
				r.Get("/search", rt.catalogHandler.SearchJets)
				r.Get("/{registration}", rt.catalogHandler.GetJet)
			})

			// Diagnostics
			r.Get("/test-sheets", rt.diagnosticsHandler.TestSheets)
		})
	})

	return r
}
