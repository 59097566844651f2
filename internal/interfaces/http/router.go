// Package http assembles the chi route tree and the HTTP server.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/turtacn/qsim/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/qsim/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/qsim/internal/interfaces/http/handlers"
	"github.com/turtacn/qsim/internal/interfaces/http/middleware"
)

// DefaultMetricsPath is where the Prometheus handler is mounted when
// RouterConfig.MetricsPath is empty.
const DefaultMetricsPath = "/metrics"

// RouterConfig aggregates all handler and middleware dependencies required
// to construct the route tree.  Nil handlers leave their routes unmounted.
type RouterConfig struct {
	// Handlers
	SimulationHandler *handlers.SimulationHandler
	PredictionHandler *handlers.PredictionHandler
	CacheHandler      *handlers.CacheHandler
	HealthHandler     *handlers.HealthHandler

	// Middleware
	CORS    *middleware.CORSConfig
	Logging *middleware.LoggingConfig

	// RateLimiter throttles every route except those in RateLimit.SkipPaths.
	// Nil disables throttling.
	RateLimiter middleware.RateLimiter
	RateLimit   *middleware.RateLimitConfig

	// Infrastructure
	Logger           logging.Logger
	Metrics          *prometheus.AppMetrics
	MetricsCollector prometheus.MetricsCollector
	MetricsPath      string
}

// NewRouter constructs the complete HTTP route tree from cfg.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// --- Global middleware (applied to every request) ---
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	if cfg.CORS != nil {
		r.Use(middleware.CORS(*cfg.CORS))
	}
	if cfg.Logger != nil {
		logCfg := middleware.DefaultLoggingConfig()
		if cfg.Logging != nil {
			logCfg = *cfg.Logging
		}
		r.Use(middleware.RequestLogging(cfg.Logger.Named("http"), logCfg))
	}
	r.Use(middleware.Metrics(cfg.Metrics))
	if cfg.RateLimiter != nil {
		rlCfg := middleware.DefaultRateLimitConfig()
		if cfg.RateLimit != nil {
			rlCfg = *cfg.RateLimit
		}
		r.Use(middleware.RateLimit(cfg.RateLimiter, rlCfg))
	}

	// --- Health endpoints ---
	if h := cfg.HealthHandler; h != nil {
		r.Get("/health", h.Health)
		r.Get("/healthz", h.Liveness)
		r.Get("/readyz", h.Readiness)
	}

	if cfg.MetricsCollector != nil {
		path := cfg.MetricsPath
		if path == "" {
			path = DefaultMetricsPath
		}
		r.Handle(path, cfg.MetricsCollector.Handler())
	}

	registerSimulationRoutes(r, cfg.SimulationHandler)
	registerPredictionRoutes(r, cfg.PredictionHandler)
	registerCacheRoutes(r, cfg.CacheHandler)

	return r
}

// registerSimulationRoutes mounts /simulate and its /api alias.
func registerSimulationRoutes(r chi.Router, h *handlers.SimulationHandler) {
	if h == nil {
		return
	}
	r.Post("/simulate", h.Simulate)
	r.Post("/api/simulate", h.Simulate)
}

// registerPredictionRoutes mounts /predict, its /api alias and /model/info.
func registerPredictionRoutes(r chi.Router, h *handlers.PredictionHandler) {
	if h == nil {
		return
	}
	r.Post("/predict", h.Predict)
	r.Post("/api/predict", h.Predict)
	r.Get("/model/info", h.ModelInfo)
}

// registerCacheRoutes mounts the cache administration endpoints under /cache.
func registerCacheRoutes(r chi.Router, h *handlers.CacheHandler) {
	if h == nil {
		return
	}
	r.Route("/cache", func(cr chi.Router) {
		cr.Get("/stats", h.Stats)
		cr.Delete("/clear", h.Clear)
	})
}

//Personal.AI order the ending
