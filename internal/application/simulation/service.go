// Package simulation provides the application-level simulate flow shared by
// the HTTP handlers and the CLI: validation, fingerprinting, the result cache,
// the mock engine, rendering and the computed-event publisher.
package simulation

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/turtacn/qsim/internal/application/cache"
	"github.com/turtacn/qsim/internal/domain/molecule"
	domainSim "github.com/turtacn/qsim/internal/domain/simulation"
	"github.com/turtacn/qsim/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/qsim/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/qsim/pkg/errors"
)

// Result sources.
const (
	SourceCache       = "cache"
	SourceCalculation = "calculation"
)

// Artifact names used in render failure logs and metrics.
const (
	ArtifactImage = "molecule_image"
	ArtifactPlot  = "energy_plot"
)

// Service defines the simulate use case.
type Service interface {
	// Simulate validates m and returns a cached or freshly computed result.
	Simulate(ctx context.Context, m *molecule.Molecule) (*Output, error)

	// Fingerprint validates m and returns its cache key without computing.
	Fingerprint(m *molecule.Molecule) (string, error)
}

// Simulator computes a result for a validated molecule.
type Simulator interface {
	Simulate(m *molecule.Molecule) (*domainSim.Result, error)
}

// Renderer draws the optional image artifacts.  Either method may fail; the
// artifact is then omitted.
type Renderer interface {
	MoleculeImage(m *molecule.Molecule) (string, error)
	EnergyPlot(title string, distances, energies []float64) (string, error)
}

// Output is a simulation result with its provenance.  Result may be shared
// with concurrent callers and must not be modified.
type Output struct {
	Key      string
	Source   string
	CachedAt *time.Time
	Result   *domainSim.Result
}

type serviceImpl struct {
	engine       Simulator
	cache        cache.ResultCache
	renderer     Renderer
	publisher    domainSim.EventPublisher
	metrics      *prometheus.AppMetrics
	logger       logging.Logger
	singleFlight bool
	group        singleflight.Group
	now          func() time.Time
}

// Option configures the service.
type Option func(*serviceImpl)

// WithRenderer enables molecule_image and energy_plot on fresh results.
func WithRenderer(r Renderer) Option {
	return func(s *serviceImpl) { s.renderer = r }
}

// WithPublisher announces fresh results.
func WithPublisher(p domainSim.EventPublisher) Option {
	return func(s *serviceImpl) { s.publisher = p }
}

// WithMetrics records simulation counts and durations.
func WithMetrics(m *prometheus.AppMetrics) Option {
	return func(s *serviceImpl) { s.metrics = m }
}

// WithSingleFlight toggles collapsing of concurrent misses per fingerprint.
// It is on by default.
func WithSingleFlight(enabled bool) Option {
	return func(s *serviceImpl) { s.singleFlight = enabled }
}

// WithClock overrides the event timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *serviceImpl) { s.now = now }
}

// NewService creates a new simulation service.  A nil cache means caching is
// disabled.
func NewService(engine Simulator, resultCache cache.ResultCache, logger logging.Logger, opts ...Option) Service {
	if resultCache == nil {
		resultCache = cache.Disabled(domainSim.StoreNone, logger)
	}
	s := &serviceImpl{
		engine:       engine,
		cache:        resultCache,
		logger:       logger.Named("simulation"),
		singleFlight: true,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *serviceImpl) Fingerprint(m *molecule.Molecule) (string, error) {
	if err := molecule.Validate(m); err != nil {
		return "", err
	}
	return molecule.DeriveKey(m), nil
}

func (s *serviceImpl) Simulate(ctx context.Context, m *molecule.Molecule) (*Output, error) {
	key, err := s.Fingerprint(m)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Simulation request", logging.String("key", key))

	start := time.Now()
	if entry, ok := s.cache.Get(ctx, key); ok {
		s.logger.Info("Cache hit", logging.String("key", key))
		prometheus.RecordSimulation(s.metrics, SourceCache, nil, time.Since(start))
		cachedAt := entry.CachedAt
		return &Output{Key: key, Source: SourceCache, CachedAt: &cachedAt, Result: entry.Data}, nil
	}
	s.logger.Info("Cache miss, performing calculation", logging.String("key", key))

	var res *domainSim.Result
	if s.singleFlight {
		// The flight outlives a cancelled leader so that waiters still get a
		// result and the cache is still filled.
		flightCtx := context.WithoutCancel(ctx)
		v, ferr, shared := s.group.Do(key, func() (interface{}, error) {
			return s.compute(flightCtx, key, m)
		})
		if shared {
			prometheus.RecordSingleFlightShared(s.metrics)
		}
		err = ferr
		if v != nil {
			res = v.(*domainSim.Result)
		}
	} else {
		res, err = s.compute(ctx, key, m)
	}

	prometheus.RecordSimulation(s.metrics, SourceCalculation, err, time.Since(start))
	if err != nil {
		return nil, err
	}
	return &Output{Key: key, Source: SourceCalculation, Result: res}, nil
}

// compute runs the engine, decorates the result, stores it and publishes a
// computed event.  Only the engine can fail it.
func (s *serviceImpl) compute(ctx context.Context, key string, m *molecule.Molecule) (*domainSim.Result, error) {
	start := time.Now()
	res, err := s.engine.Simulate(m)
	if err != nil {
		s.logger.Error("Simulation failed", logging.String("key", key), logging.Err(err))
		if errors.GetCode(err) == errors.ErrCodeSimulationFailed {
			return nil, err
		}
		return nil, errors.Wrap(err, errors.ErrCodeSimulationFailed, "Simulation failed").WithDetail(err.Error())
	}

	s.decorate(res, m)
	s.cache.Put(ctx, key, res)
	s.publish(ctx, key, m, res, time.Since(start))
	return res, nil
}

func (s *serviceImpl) decorate(res *domainSim.Result, m *molecule.Molecule) {
	res.Elements = m.ElementSymbols()
	res.Suggestion = fmt.Sprintf("Calculation completed for %s. Consider optimizing geometry for better accuracy.", res.MoleculeName)

	if s.renderer == nil {
		return
	}
	if img, err := s.renderer.MoleculeImage(m); err != nil {
		s.renderFailed(ArtifactImage, err)
	} else {
		res.MoleculeImage = img
	}
	if res.HasCurve() {
		if plot, err := s.renderer.EnergyPlot(res.MoleculeName, res.Distances, res.EnergyValues); err != nil {
			s.renderFailed(ArtifactPlot, err)
		} else {
			res.EnergyPlot = plot
		}
	}
}

func (s *serviceImpl) renderFailed(artifact string, err error) {
	s.logger.Warn("Render failed, omitting artifact",
		logging.String("artifact", artifact),
		logging.Err(err),
	)
	prometheus.RecordRenderFailure(s.metrics, artifact)
}

func (s *serviceImpl) publish(ctx context.Context, key string, m *molecule.Molecule, res *domainSim.Result, took time.Duration) {
	if s.publisher == nil {
		return
	}
	err := s.publisher.PublishComputed(ctx, &domainSim.ComputedEvent{
		Key:          key,
		MoleculeName: res.MoleculeName,
		AtomCount:    m.AtomCount(),
		QubitCount:   res.QubitCount,
		ExactEnergy:  res.ExactEnergy,
		VQEEnergy:    res.VQEEnergy,
		DurationMs:   took.Milliseconds(),
		ComputedAt:   s.now().UTC(),
	})
	prometheus.RecordEventPublish(s.metrics, err)
	if err != nil {
		s.logger.Warn("Computed event not published", logging.String("key", key), logging.Err(err))
	}
}

//Personal.AI order the ending
