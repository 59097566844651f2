package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/turtacn/qsim/internal/application/cache"
	appPred "github.com/turtacn/qsim/internal/application/prediction"
	appSim "github.com/turtacn/qsim/internal/application/simulation"
	"github.com/turtacn/qsim/internal/domain/molecule"
	domainPred "github.com/turtacn/qsim/internal/domain/prediction"
	domainSim "github.com/turtacn/qsim/internal/domain/simulation"
	"github.com/turtacn/qsim/internal/infrastructure/database/memory"
	"github.com/turtacn/qsim/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/qsim/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/qsim/internal/infrastructure/render"
	"github.com/turtacn/qsim/internal/interfaces/http/handlers"
	"github.com/turtacn/qsim/internal/interfaces/http/middleware"
	"github.com/turtacn/qsim/internal/testutil"
)

const hydrogenJSON = `{"atoms":[{"element":"H","x":0,"y":0,"z":0},{"element":"H","x":0,"y":0,"z":0.74}]}`

type panicEngine struct{}

func (panicEngine) Simulate(*molecule.Molecule) (*domainSim.Result, error) { panic("engine bug") }

type RouterTestSuite struct {
	suite.Suite
	logger    *testutil.MockLogger
	collector prometheus.MetricsCollector
	router    http.Handler
}

func (s *RouterTestSuite) SetupTest() {
	s.logger = testutil.NewMockLogger()

	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{Namespace: "qsim", Subsystem: "router"}, logging.NewNopLogger())
	s.Require().NoError(err)
	s.collector = collector
	metrics := prometheus.NewAppMetrics(collector)

	rc := cache.New(memory.NewStore(), domainSim.StoreMemory, s.logger, cache.WithMetrics(metrics))
	simSvc := appSim.NewService(domainSim.NewEngine(domainSim.NewLockedSource(11)), rc, s.logger,
		appSim.WithRenderer(render.NewRenderer()), appSim.WithMetrics(metrics))
	predSvc := appPred.NewService(domainPred.NewEngine(domainSim.NewLockedSource(11)), s.logger, appPred.WithMetrics(metrics))

	cors := middleware.DefaultCORSConfig()
	s.router = NewRouter(RouterConfig{
		SimulationHandler: handlers.NewSimulationHandler(simSvc, s.logger, 0),
		PredictionHandler: handlers.NewPredictionHandler(predSvc, s.logger, 0),
		CacheHandler:      handlers.NewCacheHandler(rc, s.logger),
		HealthHandler: handlers.NewHealthHandler("test", handlers.ServiceComponents{
			Cache: rc, Prediction: predSvc, Renderer: true,
		}),
		CORS:             &cors,
		Logger:           s.logger,
		Metrics:          metrics,
		MetricsCollector: collector,
	})
}

func TestRouterTestSuite(t *testing.T) {
	suite.Run(t, new(RouterTestSuite))
}

func (s *RouterTestSuite) serve(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *RouterTestSuite) body(rec *httptest.ResponseRecorder) map[string]interface{} {
	var out map[string]interface{}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func (s *RouterTestSuite) TestSimulateAndAlias() {
	rec := s.serve(http.MethodPost, "/simulate", hydrogenJSON)
	s.Require().Equal(http.StatusOK, rec.Code)
	first := s.body(rec)
	s.Equal("calculation", first["source"])
	s.NotEmpty(first["molecule_image"])
	s.NotEmpty(first["energy_plot"])

	rec = s.serve(http.MethodPost, "/api/simulate", hydrogenJSON)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Equal("cache", s.body(rec)["source"])
}

func (s *RouterTestSuite) TestPredictAndAlias() {
	for _, p := range []string{"/predict", "/api/predict"} {
		rec := s.serve(http.MethodPost, p, `{"features":{"num_qubits":4}}`)
		s.Equal(http.StatusOK, rec.Code, p)
		s.Equal("success", s.body(rec)["status"])
	}
}

func (s *RouterTestSuite) TestModelInfo() {
	rec := s.serve(http.MethodGet, "/model/info", "")
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("Quantum Chemistry ML Model", s.body(rec)["model_type"])
}

func (s *RouterTestSuite) TestCacheRoutes() {
	s.Require().Equal(http.StatusOK, s.serve(http.MethodPost, "/simulate", hydrogenJSON).Code)

	s.Equal(float64(1), s.body(s.serve(http.MethodGet, "/cache/stats", ""))["entries"])
	s.Equal(float64(1), s.body(s.serve(http.MethodDelete, "/cache/clear", ""))["deleted_count"])

	// Wrong method.
	s.Equal(http.StatusMethodNotAllowed, s.serve(http.MethodPost, "/cache/clear", "").Code)
}

func (s *RouterTestSuite) TestHealthEndpoints() {
	rec := s.serve(http.MethodGet, "/health", "")
	s.Equal(http.StatusOK, rec.Code)
	body := s.body(rec)
	s.Equal(true, body["cache_connected"])
	s.Equal("memory", body["cache_backend"])

	s.Equal(http.StatusOK, s.serve(http.MethodGet, "/healthz", "").Code)
	s.Equal(http.StatusOK, s.serve(http.MethodGet, "/readyz", "").Code)
}

func (s *RouterTestSuite) TestMetricsEndpoint() {
	s.Require().Equal(http.StatusOK, s.serve(http.MethodPost, "/simulate", hydrogenJSON).Code)
	s.Require().Equal(http.StatusOK, s.serve(http.MethodPost, "/simulate", hydrogenJSON).Code)

	rec := s.serve(http.MethodGet, "/metrics", "")
	s.Require().Equal(http.StatusOK, rec.Code)
	out := rec.Body.String()
	s.Contains(out, `qsim_router_http_requests_total{method="POST",path="/simulate",status_code="200"} 2`)
	s.Contains(out, `qsim_router_cache_hits_total{backend="memory"} 1`)
	s.Contains(out, `qsim_router_cache_misses_total{backend="memory"} 1`)
	s.Contains(out, `qsim_router_simulations_total{source="cache",status="success"} 1`)
	s.Contains(out, `qsim_router_simulations_total{source="calculation",status="success"} 1`)
}

func (s *RouterTestSuite) TestRequestLoggingAndRequestID() {
	rec := s.serve(http.MethodPost, "/simulate", `{}`)
	s.Equal(http.StatusBadRequest, rec.Code)
	s.True(s.logger.HasMessage("warn", "HTTP request completed with client error"))

	for _, m := range s.logger.GetMessages() {
		if m.Message == "HTTP request completed with client error" {
			id, ok := m.Field("request_id")
			s.True(ok)
			s.NotEmpty(id)
		}
	}
}

func (s *RouterTestSuite) TestCORSPreflight() {
	req := httptest.NewRequest(http.MethodOptions, "/simulate", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	s.Equal(http.StatusNoContent, rec.Code)
	s.Equal("*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func (s *RouterTestSuite) TestUnknownRoute() {
	s.Equal(http.StatusNotFound, s.serve(http.MethodGet, "/api/v1/molecules", "").Code)
}

func TestNewRouter_NilHandlers_NoPanic(t *testing.T) {
	router := NewRouter(RouterConfig{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/simulate", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNewRouter_RecoversPanics(t *testing.T) {
	logger := testutil.NewMockLogger()
	svc := appSim.NewService(panicEngine{}, nil, logger, appSim.WithSingleFlight(false))
	router := NewRouter(RouterConfig{
		SimulationHandler: handlers.NewSimulationHandler(svc, logger, 0),
		Logger:            logger,
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/simulate", bytes.NewBufferString(hydrogenJSON))
	require.NotPanics(t, func() { router.ServeHTTP(rec, req) })
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestNewRouter_RateLimit(t *testing.T) {
	logger := logging.NewNopLogger()
	predSvc := appPred.NewService(domainPred.NewEngine(domainSim.NewLockedSource(1)), logger)
	router := NewRouter(RouterConfig{
		PredictionHandler: handlers.NewPredictionHandler(predSvc, logger, 0),
		RateLimiter:       middleware.NewKeyedLimiter(0.01, 1, 0),
	})

	predict := func() *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/predict",
			bytes.NewBufferString(`{"features":{"num_qubits":2}}`)))
		return rec
	}

	assert.Equal(t, http.StatusOK, predict().Code)
	rec := predict()
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/model/info", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code, "the bucket is per client, not per route")
}

func TestNewRouter_CustomMetricsPath(t *testing.T) {
	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{Namespace: "qsim"}, logging.NewNopLogger())
	require.NoError(t, err)
	router := NewRouter(RouterConfig{MetricsCollector: collector, MetricsPath: "/internal/metrics"})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/internal/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

//Personal.AI order the ending
