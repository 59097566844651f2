package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/turtacn/qsim/internal/application/cache"
	"github.com/turtacn/qsim/internal/application/prediction"
)

// HealthChecker is implemented by dependencies that can report their health.
type HealthChecker interface {
	Name() string
	Check(ctx context.Context) error
}

// Components reports which optional parts of the service are available.
type Components interface {
	RendererLoaded() bool
	ModelLoaded() bool
	CacheConnected() bool
	CacheBackend() string
}

// ServiceComponents derives the /health flags from the running services.
type ServiceComponents struct {
	Cache      cache.ResultCache
	Prediction prediction.Service
	Renderer   bool
}

func (c ServiceComponents) RendererLoaded() bool { return c.Renderer }

func (c ServiceComponents) ModelLoaded() bool {
	return c.Prediction != nil && c.Prediction.Loaded()
}

func (c ServiceComponents) CacheConnected() bool {
	return c.Cache != nil && c.Cache.Connected()
}

func (c ServiceComponents) CacheBackend() string {
	if c.Cache == nil {
		return ""
	}
	return c.Cache.Backend()
}

// HealthHandler handles health check HTTP requests.
type HealthHandler struct {
	checkers   []HealthChecker
	components Components
	version    string
	startAt    time.Time
	now        func() time.Time
}

// NewHealthHandler creates a new HealthHandler.  components may be nil, in
// which case every flag in /health reports false.
func NewHealthHandler(version string, components Components, checkers ...HealthChecker) *HealthHandler {
	return &HealthHandler{
		checkers:   checkers,
		components: components,
		version:    version,
		startAt:    time.Now(),
		now:        time.Now,
	}
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status         string `json:"status"`
	Timestamp      string `json:"timestamp"`
	RendererLoaded bool   `json:"renderer_loaded"`
	MLModelLoaded  bool   `json:"ml_model_loaded"`
	CacheConnected bool   `json:"cache_connected"`
	CacheBackend   string `json:"cache_backend"`
}

// LivenessResponse is the response for liveness probe.
type LivenessResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
}

// Readiness and component states.
const (
	StatusReady        = "ready"
	StatusDegraded     = "degraded"
	ComponentHealthy   = "healthy"
	ComponentUnhealthy = "unhealthy"
)

// ReadinessResponse is the response for readiness probe.
type ReadinessResponse struct {
	Status     string                    `json:"status"`
	Components map[string]ComponentCheck `json:"components,omitempty"`
}

// ComponentCheck represents the health status of a single component.
type ComponentCheck struct {
	Status  string `json:"status"`
	Latency string `json:"latency,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Health handles GET /health.  It always answers 200; a missing cache or
// model is reported in the flags rather than as a failure.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:    "healthy",
		Timestamp: h.now().UTC().Format(time.RFC3339Nano),
	}
	if c := h.components; c != nil {
		resp.RendererLoaded = c.RendererLoaded()
		resp.MLModelLoaded = c.ModelLoaded()
		resp.CacheConnected = c.CacheConnected()
		resp.CacheBackend = c.CacheBackend()
	}
	writeJSON(w, http.StatusOK, resp)
}

// Liveness handles GET /healthz.  Always 200 while the process runs.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, LivenessResponse{
		Status:  "alive",
		Version: h.version,
		Uptime:  time.Since(h.startAt).Truncate(time.Second).String(),
	})
}

// Readiness handles GET /readyz.  Every registered checker guards an optional
// dependency; a failing one marks the response "degraded" and it stays 200.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	if len(h.checkers) == 0 {
		writeJSON(w, http.StatusOK, ReadinessResponse{Status: StatusReady})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	components := h.checkAll(ctx)
	resp := ReadinessResponse{Status: StatusReady, Components: components}
	for _, c := range components {
		if c.Status != ComponentHealthy {
			resp.Status = StatusDegraded
			break
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// checkAll runs all health checkers concurrently and returns results.
func (h *HealthHandler) checkAll(ctx context.Context) map[string]ComponentCheck {
	results := make(map[string]ComponentCheck, len(h.checkers))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, checker := range h.checkers {
		wg.Add(1)
		go func(c HealthChecker) {
			defer wg.Done()

			start := time.Now()
			err := c.Check(ctx)
			cc := ComponentCheck{
				Status:  ComponentHealthy,
				Latency: time.Since(start).Truncate(time.Microsecond).String(),
			}
			if err != nil {
				cc.Status = ComponentUnhealthy
				cc.Error = err.Error()
			}

			mu.Lock()
			results[c.Name()] = cc
			mu.Unlock()
		}(checker)
	}

	wg.Wait()
	return results
}

//Personal.AI order the ending
