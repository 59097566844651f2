package main

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/turtacn/qsim/internal/domain/simulation"
	"github.com/turtacn/qsim/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/qsim/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/qsim/internal/infrastructure/monitoring/prometheus"
)

// moleculeTally is the running summary for one fingerprint.
type moleculeTally struct {
	Key           string    `json:"key"`
	MoleculeName  string    `json:"molecule_name"`
	Computations  int64     `json:"computations"`
	LastVQEEnergy float64   `json:"last_vqe_energy"`
	LastSeen      time.Time `json:"last_seen"`
}

// eventRecorder consumes simulation.computed events.  A fingerprint computed
// more than once means the result cache missed for a molecule it had already
// seen, which is what the recomputed counter tracks.  Molecule names come from
// user input, so they stay out of metric labels; the tally keeps at most
// tallySize fingerprints and drops the least recently seen.
type eventRecorder struct {
	logger logging.Logger

	computed   prometheus.CounterVec
	recomputed prometheus.CounterVec
	evicted    prometheus.CounterVec
	duration   prometheus.HistogramVec
	qubits     prometheus.HistogramVec

	mu     sync.Mutex
	tally  *lru.Cache[string, *moleculeTally]
	events int64
}

const defaultTallySize = 10000

var qubitBuckets = []float64{2, 4, 8, 12, 16, 24, 32, 48}

func newEventRecorder(collector prometheus.MetricsCollector, logger logging.Logger, tallySize int) (*eventRecorder, error) {
	if tallySize <= 0 {
		tallySize = defaultTallySize
	}
	r := &eventRecorder{
		logger:     logger,
		computed:   collector.RegisterCounter("events_consumed_total", "simulation.computed events consumed"),
		recomputed: collector.RegisterCounter("recomputed_total", "Events for a fingerprint already seen"),
		evicted:    collector.RegisterCounter("tally_evictions_total", "Fingerprints dropped from the tally"),
		duration:   collector.RegisterHistogram("compute_duration_seconds", "Reported calculation time", prometheus.DefaultComputeDurationBuckets),
		qubits:     collector.RegisterHistogram("qubit_count", "Reported qubit counts", qubitBuckets),
	}
	tally, err := lru.NewWithEvict[string, *moleculeTally](tallySize, func(string, *moleculeTally) {
		r.evicted.WithLabelValues().Inc()
	})
	if err != nil {
		return nil, err
	}
	r.tally = tally
	return r, nil
}

// Handle is the kafka.Handler for the worker.
func (r *eventRecorder) Handle(_ context.Context, env *kafka.EventEnvelope) error {
	if env.EventType != kafka.EventTypeSimulationComputed {
		r.logger.Debug("Ignoring event", logging.String("event_type", env.EventType))
		return nil
	}
	var evt simulation.ComputedEvent
	if err := env.DecodePayload(&evt); err != nil {
		return err
	}

	seen := r.record(&evt, env.Timestamp)

	r.computed.WithLabelValues().Inc()
	if seen > 1 {
		r.recomputed.WithLabelValues().Inc()
	}
	r.duration.WithLabelValues().Observe(float64(evt.DurationMs) / 1000)
	r.qubits.WithLabelValues().Observe(float64(evt.QubitCount))

	r.logger.Info("Simulation computed",
		logging.String("event_id", env.EventID),
		logging.String("molecule", evt.MoleculeName),
		logging.String("key", evt.Key),
		logging.Int("atoms", evt.AtomCount),
		logging.Int("qubits", evt.QubitCount),
		logging.Float64("vqe_energy", evt.VQEEnergy),
		logging.Int64("duration_ms", evt.DurationMs),
		logging.Int64("times_seen", seen),
	)
	return nil
}

// record updates the tally and returns how often evt.Key has been seen.
func (r *eventRecorder) record(evt *simulation.ComputedEvent, at time.Time) int64 {
	if !evt.ComputedAt.IsZero() {
		at = evt.ComputedAt
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.events++
	t, ok := r.tally.Get(evt.Key)
	if !ok {
		t = &moleculeTally{Key: evt.Key}
		r.tally.Add(evt.Key, t)
	}
	t.MoleculeName = evt.MoleculeName
	t.Computations++
	t.LastVQEEnergy = evt.VQEEnergy
	t.LastSeen = at
	return t.Computations
}

// statsResponse is served by /stats.
type statsResponse struct {
	Events    int64           `json:"events"`
	Molecules int             `json:"molecules"`
	Top       []moleculeTally `json:"top"`
}

// snapshot returns the limit most computed fingerprints, ties broken by key.
func (r *eventRecorder) snapshot(limit int) statsResponse {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := statsResponse{Events: r.events, Molecules: r.tally.Len()}
	out.Top = make([]moleculeTally, 0, r.tally.Len())
	for _, key := range r.tally.Keys() {
		if t, ok := r.tally.Peek(key); ok {
			out.Top = append(out.Top, *t)
		}
	}
	sort.Slice(out.Top, func(i, j int) bool {
		if out.Top[i].Computations != out.Top[j].Computations {
			return out.Top[i].Computations > out.Top[j].Computations
		}
		return out.Top[i].Key < out.Top[j].Key
	})
	if limit > 0 && len(out.Top) > limit {
		out.Top = out.Top[:limit]
	}
	return out
}

// ─────────────────────────────────────────────────────────────────────────────
// Health / metrics endpoints
// ─────────────────────────────────────────────────────────────────────────────

const defaultStatsLimit = 10

func newHealthRouter(r *eventRecorder, metrics http.Handler) http.Handler {
	mux := chi.NewRouter()
	mux.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.Get("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	mux.Get("/stats", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(r.snapshot(defaultStatsLimit))
	})
	if metrics != nil {
		mux.Handle("/metrics", metrics)
	}
	return mux
}

//Personal.AI order the ending
