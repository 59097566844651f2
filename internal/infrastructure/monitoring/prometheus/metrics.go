package prometheus

import (
	"strconv"
	"time"
)

// AppMetrics holds all application metrics.  The Record helpers accept a nil
// *AppMetrics so components work unchanged with metrics disabled.
type AppMetrics struct {
	// HTTP Layer
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec
	HTTPActiveRequests  GaugeVec

	// Result cache
	CacheHitsTotal         CounterVec
	CacheMissesTotal       CounterVec
	CacheErrorsTotal       CounterVec
	CacheOperationDuration HistogramVec
	CacheConnected         GaugeVec

	// Simulation
	SimulationsTotal        CounterVec
	SimulationDuration      HistogramVec
	SingleFlightSharedTotal CounterVec
	RenderFailuresTotal     CounterVec

	// Prediction
	PredictionsTotal   CounterVec
	PredictionDuration HistogramVec

	// Events
	EventsPublishedTotal CounterVec
}

// Default Buckets
var (
	DefaultHTTPDurationBuckets    = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5}
	DefaultComputeDurationBuckets = []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1}
	DefaultCacheDurationBuckets   = []float64{.0005, .001, .005, .01, .025, .05, .1, .5, 1, 2}
)

// NewAppMetrics registers all metrics and returns AppMetrics struct.
func NewAppMetrics(collector MetricsCollector) *AppMetrics {
	m := &AppMetrics{}

	// HTTP
	m.HTTPRequestsTotal = collector.RegisterCounter("http_requests_total", "Total HTTP requests", "method", "path", "status_code")
	m.HTTPRequestDuration = collector.RegisterHistogram("http_request_duration_seconds", "HTTP request duration", DefaultHTTPDurationBuckets, "method", "path")
	m.HTTPActiveRequests = collector.RegisterGauge("http_active_requests", "Active HTTP requests", "method")

	// Cache
	m.CacheHitsTotal = collector.RegisterCounter("cache_hits_total", "Result cache hits", "backend")
	m.CacheMissesTotal = collector.RegisterCounter("cache_misses_total", "Result cache misses", "backend")
	m.CacheErrorsTotal = collector.RegisterCounter("cache_errors_total", "Result cache errors swallowed", "backend", "operation")
	m.CacheOperationDuration = collector.RegisterHistogram("cache_operation_duration_seconds", "Result cache operation duration", DefaultCacheDurationBuckets, "backend", "operation")
	m.CacheConnected = collector.RegisterGauge("cache_connected", "Result cache reachable at startup (1=up, 0=down)", "backend")

	// Simulation
	m.SimulationsTotal = collector.RegisterCounter("simulations_total", "Simulations served", "source", "status")
	m.SimulationDuration = collector.RegisterHistogram("simulation_duration_seconds", "Simulation handling duration", DefaultComputeDurationBuckets, "source")
	m.SingleFlightSharedTotal = collector.RegisterCounter("singleflight_shared_total", "Simulations answered by a concurrent identical calculation")
	m.RenderFailuresTotal = collector.RegisterCounter("render_failures_total", "Molecule image or energy plot failures", "artifact")

	// Prediction
	m.PredictionsTotal = collector.RegisterCounter("predictions_total", "Predictions served", "prediction")
	m.PredictionDuration = collector.RegisterHistogram("prediction_duration_seconds", "Prediction duration", DefaultComputeDurationBuckets)

	// Events
	m.EventsPublishedTotal = collector.RegisterCounter("events_published_total", "Domain events published", "status")

	return m
}

// ─────────────────────────────────────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────────────────────────────────────

func RecordHTTPRequest(metrics *AppMetrics, method, path string, statusCode int, duration time.Duration) {
	if metrics == nil {
		return
	}
	metrics.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
	metrics.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// TrackActiveRequest increments the in-flight gauge for method and returns the
// matching decrement.
func TrackActiveRequest(metrics *AppMetrics, method string) func() {
	if metrics == nil {
		return func() {}
	}
	g := metrics.HTTPActiveRequests.WithLabelValues(method)
	g.Inc()
	return g.Dec
}

func RecordCacheAccess(metrics *AppMetrics, backend string, hit bool) {
	if metrics == nil {
		return
	}
	if hit {
		metrics.CacheHitsTotal.WithLabelValues(backend).Inc()
	} else {
		metrics.CacheMissesTotal.WithLabelValues(backend).Inc()
	}
}

func RecordCacheOperation(metrics *AppMetrics, backend, operation string, duration time.Duration, err error) {
	if metrics == nil {
		return
	}
	metrics.CacheOperationDuration.WithLabelValues(backend, operation).Observe(duration.Seconds())
	if err != nil {
		metrics.CacheErrorsTotal.WithLabelValues(backend, operation).Inc()
	}
}

func SetCacheConnected(metrics *AppMetrics, backend string, connected bool) {
	if metrics == nil {
		return
	}
	v := 0.0
	if connected {
		v = 1
	}
	metrics.CacheConnected.WithLabelValues(backend).Set(v)
}

func RecordSimulation(metrics *AppMetrics, source string, err error, duration time.Duration) {
	if metrics == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.SimulationsTotal.WithLabelValues(source, status).Inc()
	metrics.SimulationDuration.WithLabelValues(source).Observe(duration.Seconds())
}

func RecordSingleFlightShared(metrics *AppMetrics) {
	if metrics == nil {
		return
	}
	metrics.SingleFlightSharedTotal.WithLabelValues().Inc()
}

func RecordRenderFailure(metrics *AppMetrics, artifact string) {
	if metrics == nil {
		return
	}
	metrics.RenderFailuresTotal.WithLabelValues(artifact).Inc()
}

func RecordPrediction(metrics *AppMetrics, label string, duration time.Duration) {
	if metrics == nil {
		return
	}
	metrics.PredictionsTotal.WithLabelValues(label).Inc()
	metrics.PredictionDuration.WithLabelValues().Observe(duration.Seconds())
}

func RecordEventPublish(metrics *AppMetrics, err error) {
	if metrics == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.EventsPublishedTotal.WithLabelValues(status).Inc()
}

//Personal.AI order the ending
