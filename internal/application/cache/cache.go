// Package cache is the result-cache policy in front of a simulation.ResultStore.
//
// Store failures never reach the caller of Get or Put: a failed read is a
// miss and a failed write is dropped, both logged at WARN and counted.  Every
// store call is bounded by the configured timeout.
package cache

import (
	"context"
	"time"

	"github.com/turtacn/qsim/internal/domain/simulation"
	"github.com/turtacn/qsim/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/qsim/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/qsim/pkg/errors"
)

// DefaultTimeout bounds each store call when no timeout is configured.
const DefaultTimeout = 2 * time.Second

// Message reported when no store is attached.
const MsgUnavailable = "Cache not available."

// ErrUnavailable is returned by Stats, Clear and Ping when caching is
// disabled or the store could not be reached at startup.
var ErrUnavailable = errors.New(errors.ErrCodeFeatureDisabled, MsgUnavailable)

// ResultCache is the policy layer used by the simulation service and the
// cache endpoints.
type ResultCache interface {
	// Get returns the entry for key.  Any store error is reported as a miss.
	Get(ctx context.Context, key string) (*simulation.CacheEntry, bool)

	// Put upserts data under key.  Store errors are logged and dropped.
	Put(ctx context.Context, key string, data *simulation.Result)

	Stats(ctx context.Context) (*simulation.CacheStats, error)
	Clear(ctx context.Context) (int64, error)
	Ping(ctx context.Context) error

	// Backend is the configured back-end name.
	Backend() string

	// Connected reports whether a store is attached.
	Connected() bool

	Close() error
}

type resultCache struct {
	store   simulation.ResultStore
	backend string
	timeout time.Duration
	logger  logging.Logger
	metrics *prometheus.AppMetrics
	now     func() time.Time
}

// Option configures a ResultCache.
type Option func(*resultCache)

// WithTimeout bounds each store call.  Non-positive values keep the default.
func WithTimeout(d time.Duration) Option {
	return func(c *resultCache) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithMetrics records hits, misses, errors and latencies.
func WithMetrics(m *prometheus.AppMetrics) Option {
	return func(c *resultCache) { c.metrics = m }
}

// WithClock overrides the cached_at time source.
func WithClock(now func() time.Time) Option {
	return func(c *resultCache) { c.now = now }
}

// New wraps store.  A nil store yields a disabled cache.
func New(store simulation.ResultStore, backend string, log logging.Logger, opts ...Option) ResultCache {
	c := &resultCache{
		store:   store,
		backend: backend,
		timeout: DefaultTimeout,
		logger:  log.Named("cache"),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	prometheus.SetCacheConnected(c.metrics, backend, store != nil)
	return c
}

// Disabled returns a cache that always misses.
func Disabled(backend string, log logging.Logger, opts ...Option) ResultCache {
	return New(nil, backend, log, opts...)
}

func (c *resultCache) Backend() string { return c.backend }

func (c *resultCache) Connected() bool { return c.store != nil }

func (c *resultCache) Get(ctx context.Context, key string) (*simulation.CacheEntry, bool) {
	if c.store == nil {
		return nil, false
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	entry, err := c.store.Get(ctx, key)
	if errors.IsNotFound(err) {
		prometheus.RecordCacheOperation(c.metrics, c.backend, "get", time.Since(start), nil)
		prometheus.RecordCacheAccess(c.metrics, c.backend, false)
		return nil, false
	}
	prometheus.RecordCacheOperation(c.metrics, c.backend, "get", time.Since(start), err)
	if err != nil {
		c.logger.Warn("Cache read failed, computing instead",
			logging.String("backend", c.backend),
			logging.Err(err),
		)
		prometheus.RecordCacheAccess(c.metrics, c.backend, false)
		return nil, false
	}
	if entry == nil || entry.Data == nil {
		prometheus.RecordCacheAccess(c.metrics, c.backend, false)
		return nil, false
	}
	prometheus.RecordCacheAccess(c.metrics, c.backend, true)
	return entry, true
}

func (c *resultCache) Put(ctx context.Context, key string, data *simulation.Result) {
	if c.store == nil || data == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	err := c.store.Put(ctx, &simulation.CacheEntry{Key: key, Data: data, CachedAt: c.now().UTC()})
	prometheus.RecordCacheOperation(c.metrics, c.backend, "put", time.Since(start), err)
	if err != nil {
		c.logger.Warn("Cache write failed, result not stored",
			logging.String("backend", c.backend),
			logging.Err(err),
		)
	}
}

func (c *resultCache) Stats(ctx context.Context) (*simulation.CacheStats, error) {
	if c.store == nil {
		return nil, ErrUnavailable
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	stats, err := c.store.Stats(ctx)
	prometheus.RecordCacheOperation(c.metrics, c.backend, "stats", time.Since(start), err)
	return stats, err
}

func (c *resultCache) Clear(ctx context.Context) (int64, error) {
	if c.store == nil {
		return 0, ErrUnavailable
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	n, err := c.store.Clear(ctx)
	prometheus.RecordCacheOperation(c.metrics, c.backend, "clear", time.Since(start), err)
	if err == nil {
		c.logger.Info("Cache cleared", logging.Int64("deleted", n))
	}
	return n, err
}

func (c *resultCache) Ping(ctx context.Context) error {
	if c.store == nil {
		return ErrUnavailable
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.store.Ping(ctx)
}

func (c *resultCache) Close() error {
	if c.store == nil {
		return nil
	}
	return c.store.Close()
}

//Personal.AI order the ending
