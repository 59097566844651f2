package simulation

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/turtacn/qsim/internal/application/cache"
	"github.com/turtacn/qsim/internal/domain/molecule"
	domainSim "github.com/turtacn/qsim/internal/domain/simulation"
	"github.com/turtacn/qsim/internal/infrastructure/database/memory"
	"github.com/turtacn/qsim/internal/infrastructure/render"
	"github.com/turtacn/qsim/internal/testutil"
	"github.com/turtacn/qsim/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// Test doubles
// ─────────────────────────────────────────────────────────────────────────────

// countingEngine wraps the real engine, counts calls and can block or fail.
type countingEngine struct {
	inner   *domainSim.Engine
	calls   int32
	release chan struct{}
	err     error
}

func newCountingEngine() *countingEngine {
	return &countingEngine{inner: domainSim.NewEngine(domainSim.NewLockedSource(42))}
}

func (e *countingEngine) Simulate(m *molecule.Molecule) (*domainSim.Result, error) {
	atomic.AddInt32(&e.calls, 1)
	if e.release != nil {
		<-e.release
	}
	if e.err != nil {
		return nil, e.err
	}
	return e.inner.Simulate(m)
}

func (e *countingEngine) Calls() int { return int(atomic.LoadInt32(&e.calls)) }

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishComputed(ctx context.Context, evt *domainSim.ComputedEvent) error {
	args := m.Called(ctx, evt)
	return args.Error(0)
}

func (m *mockPublisher) Close() error { return nil }

type failingRenderer struct {
	imageErr error
	plotErr  error
}

func (r failingRenderer) MoleculeImage(*molecule.Molecule) (string, error) {
	if r.imageErr != nil {
		return "", r.imageErr
	}
	return "aW1n", nil
}

func (r failingRenderer) EnergyPlot(string, []float64, []float64) (string, error) {
	if r.plotErr != nil {
		return "", r.plotErr
	}
	return "cGxvdA==", nil
}

type downStore struct{}

func (downStore) Get(context.Context, string) (*domainSim.CacheEntry, error) {
	return nil, stderrors.New("dial tcp: connection refused")
}
func (downStore) Put(context.Context, *domainSim.CacheEntry) error {
	return stderrors.New("dial tcp: connection refused")
}
func (downStore) Stats(context.Context) (*domainSim.CacheStats, error) {
	return nil, stderrors.New("dial tcp: connection refused")
}
func (downStore) Clear(context.Context) (int64, error) {
	return 0, stderrors.New("dial tcp: connection refused")
}
func (downStore) Ping(context.Context) error { return stderrors.New("dial tcp: connection refused") }
func (downStore) Close() error               { return nil }

func water() *molecule.Molecule {
	return &molecule.Molecule{Atoms: []molecule.Atom{
		{Element: "H", X: 0.0, Y: 0.757, Z: 0.587},
		{Element: "O", X: 0.0, Y: 0.0, Z: 0.0},
		{Element: "H", X: 0.0, Y: -0.757, Z: 0.587},
	}}
}

func hydrogen() *molecule.Molecule {
	return &molecule.Molecule{Atoms: []molecule.Atom{
		{Element: "H"},
		{Element: "H", Z: 0.74},
	}}
}

// ─────────────────────────────────────────────────────────────────────────────
// Suite
// ─────────────────────────────────────────────────────────────────────────────

type ServiceTestSuite struct {
	suite.Suite
	ctx    context.Context
	logger *testutil.MockLogger
	engine *countingEngine
	cache  cache.ResultCache
	svc    Service
}

func (s *ServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.logger = testutil.NewMockLogger()
	s.engine = newCountingEngine()
	s.cache = cache.New(memory.NewStore(), domainSim.StoreMemory, s.logger)
	s.svc = NewService(s.engine, s.cache, s.logger, WithRenderer(render.NewRenderer()))
}

func TestServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}

func (s *ServiceTestSuite) TestWaterScenario() {
	out, err := s.svc.Simulate(s.ctx, water())
	s.Require().NoError(err)

	s.Equal(SourceCalculation, out.Source)
	s.Nil(out.CachedAt)
	s.Equal("HOH", out.Result.MoleculeName)
	s.GreaterOrEqual(out.Result.QubitCount, 6)
	s.Equal(domainSim.AnsatzUCCSD, out.Result.AnsatzType)
	s.Equal([]string{"H", "O", "H"}, out.Result.Elements)
	s.Equal("Calculation completed for HOH. Consider optimizing geometry for better accuracy.", out.Result.Suggestion)
	s.NotEmpty(out.Result.MoleculeImage)
	s.NotEmpty(out.Result.EnergyPlot)
	s.Equal(len(out.Result.Distances), len(out.Result.EnergyValues))
}

func (s *ServiceTestSuite) TestCalculationThenCacheIsIdempotent() {
	first, err := s.svc.Simulate(s.ctx, water())
	s.Require().NoError(err)
	second, err := s.svc.Simulate(s.ctx, water())
	s.Require().NoError(err)

	s.Equal(SourceCalculation, first.Source)
	s.Equal(SourceCache, second.Source)
	s.Require().NotNil(second.CachedAt)
	s.Equal(first.Key, second.Key)
	s.Equal(1, s.engine.Calls())

	a, err := json.Marshal(first.Result)
	s.Require().NoError(err)
	b, err := json.Marshal(second.Result)
	s.Require().NoError(err)
	s.JSONEq(string(a), string(b))
}

func (s *ServiceTestSuite) TestAtomOrderSharesCacheEntry() {
	m := water()
	_, err := s.svc.Simulate(s.ctx, m)
	s.Require().NoError(err)

	reordered := &molecule.Molecule{Atoms: []molecule.Atom{m.Atoms[1], m.Atoms[0], m.Atoms[2]}}
	out, err := s.svc.Simulate(s.ctx, reordered)
	s.Require().NoError(err)
	s.Equal(SourceCache, out.Source)
	// The cached payload keeps the name of the first request.
	s.Equal("HOH", out.Result.MoleculeName)
}

func (s *ServiceTestSuite) TestValidationFailureSkipsEngine() {
	_, err := s.svc.Simulate(s.ctx, &molecule.Molecule{})
	s.Require().Error(err)
	s.True(errors.IsCode(err, errors.ErrCodeEmptyAtomList))

	_, err = s.svc.Simulate(s.ctx, &molecule.Molecule{Atoms: []molecule.Atom{{Element: "Xx"}}})
	s.True(errors.IsCode(err, errors.ErrCodeInvalidElement))
	s.Zero(s.engine.Calls())
}

func (s *ServiceTestSuite) TestFingerprint() {
	key, err := s.svc.Fingerprint(hydrogen())
	s.Require().NoError(err)
	s.Equal("H0.00000.0000_0.0000;H0.00000.0000_0.7400|0|0", key)

	_, err = s.svc.Fingerprint(nil)
	s.True(errors.IsCode(err, errors.ErrCodeEmptyAtomList))
}

func (s *ServiceTestSuite) TestEngineFailure() {
	s.engine.err = stderrors.New("boom")

	_, err := s.svc.Simulate(s.ctx, hydrogen())
	s.Require().Error(err)
	s.True(errors.IsCode(err, errors.ErrCodeSimulationFailed))
	s.True(s.logger.HasMessage("error", "Simulation failed"))

	stats, serr := s.cache.Stats(s.ctx)
	s.Require().NoError(serr)
	s.Zero(stats.Entries)
}

// ─────────────────────────────────────────────────────────────────────────────
// Degradation and side effects
// ─────────────────────────────────────────────────────────────────────────────

func TestService_FailingStoreStillComputes(t *testing.T) {
	logger := testutil.NewMockLogger()
	engine := newCountingEngine()
	svc := NewService(engine, cache.New(downStore{}, domainSim.StoreRedis, logger), logger)

	for i := 0; i < 2; i++ {
		out, err := svc.Simulate(context.Background(), water())
		require.NoError(t, err)
		assert.Equal(t, SourceCalculation, out.Source)
	}
	assert.Equal(t, 2, engine.Calls())
	assert.True(t, logger.HasMessage("warn", "Cache read failed, computing instead"))
	assert.True(t, logger.HasMessage("warn", "Cache write failed, result not stored"))
}

func TestService_NilCacheIsDisabled(t *testing.T) {
	engine := newCountingEngine()
	svc := NewService(engine, nil, testutil.NewMockLogger())

	_, err := svc.Simulate(context.Background(), hydrogen())
	require.NoError(t, err)
	out, err := svc.Simulate(context.Background(), hydrogen())
	require.NoError(t, err)
	assert.Equal(t, SourceCalculation, out.Source)
	assert.Equal(t, 2, engine.Calls())
}

func TestService_RenderFailureOmitsArtifact(t *testing.T) {
	logger := testutil.NewMockLogger()
	svc := NewService(newCountingEngine(), nil, logger,
		WithRenderer(failingRenderer{imageErr: stderrors.New("no canvas")}))

	out, err := svc.Simulate(context.Background(), hydrogen())
	require.NoError(t, err)
	assert.Empty(t, out.Result.MoleculeImage)
	assert.Equal(t, "cGxvdA==", out.Result.EnergyPlot)
	assert.True(t, logger.HasMessage("warn", "Render failed, omitting artifact"))
}

func TestService_PublishesComputedEvent(t *testing.T) {
	pub := new(mockPublisher)
	now := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	pub.On("PublishComputed", mock.Anything, mock.MatchedBy(func(evt *domainSim.ComputedEvent) bool {
		return evt.MoleculeName == "HH" && evt.AtomCount == 2 && evt.ComputedAt.Equal(now) &&
			evt.Key == "H0.00000.0000_0.0000;H0.00000.0000_0.7400|0|0"
	})).Return(nil).Once()

	svc := NewService(newCountingEngine(), cache.New(memory.NewStore(), domainSim.StoreMemory, testutil.NewMockLogger()),
		testutil.NewMockLogger(), WithPublisher(pub), WithClock(func() time.Time { return now }))

	_, err := svc.Simulate(context.Background(), hydrogen())
	require.NoError(t, err)
	// Cache hit: no second event.
	_, err = svc.Simulate(context.Background(), hydrogen())
	require.NoError(t, err)

	pub.AssertExpectations(t)
}

func TestService_PublishFailureIsNotFatal(t *testing.T) {
	pub := new(mockPublisher)
	pub.On("PublishComputed", mock.Anything, mock.Anything).Return(stderrors.New("broker down"))

	logger := testutil.NewMockLogger()
	svc := NewService(newCountingEngine(), nil, logger, WithPublisher(pub))

	out, err := svc.Simulate(context.Background(), hydrogen())
	require.NoError(t, err)
	assert.Equal(t, SourceCalculation, out.Source)
	assert.True(t, logger.HasMessage("warn", "Computed event not published"))
}

// ─────────────────────────────────────────────────────────────────────────────
// Single flight
// ─────────────────────────────────────────────────────────────────────────────

func TestService_SingleFlightCollapsesConcurrentMisses(t *testing.T) {
	engine := newCountingEngine()
	engine.release = make(chan struct{})
	logger := testutil.NewMockLogger()
	svc := NewService(engine, cache.New(memory.NewStore(), domainSim.StoreMemory, logger), logger)

	const callers = 8
	var wg sync.WaitGroup
	outs := make([]*Output, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			outs[i], errs[i] = svc.Simulate(context.Background(), water())
		}(i)
	}

	time.Sleep(50 * time.Millisecond)
	close(engine.release)
	wg.Wait()

	// Late arrivals hit the cache filled by the single computation.
	assert.Equal(t, 1, engine.Calls())
	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, "HOH", outs[i].Result.MoleculeName)
	}
}

func TestService_WithoutSingleFlightComputesPerMiss(t *testing.T) {
	engine := newCountingEngine()
	engine.release = make(chan struct{})
	svc := NewService(engine, nil, testutil.NewMockLogger(), WithSingleFlight(false))

	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = svc.Simulate(context.Background(), water())
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(engine.release)
	wg.Wait()

	assert.Equal(t, 3, engine.Calls())
}

//Personal.AI order the ending
