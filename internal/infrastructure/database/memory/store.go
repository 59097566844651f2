// Package memory provides a process-local ResultStore for development, the
// CLI and tests.  Entries do not survive a restart and are not shared between
// replicas.
package memory

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/turtacn/qsim/internal/domain/simulation"
)

// Store keeps entries as serialised JSON so that callers never share
// mutable Result values with the store.
type Store struct {
	mu      sync.RWMutex
	entries map[string]storedEntry
	ttl     time.Duration
	now     func() time.Time
}

type storedEntry struct {
	data     []byte
	cachedAt time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithTTL expires entries after ttl.  Zero keeps them forever.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) { s.ttl = ttl }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore returns an empty Store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		entries: make(map[string]storedEntry),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) expired(e storedEntry) bool {
	return s.ttl > 0 && s.now().Sub(e.cachedAt) > s.ttl
}

// Get implements simulation.ResultStore.
func (s *Store) Get(ctx context.Context, key string) (*simulation.CacheEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok || s.expired(e) {
		return nil, simulation.ErrCacheMiss
	}

	var res simulation.Result
	if err := json.Unmarshal(e.data, &res); err != nil {
		return nil, err
	}
	return &simulation.CacheEntry{Key: key, Data: &res, CachedAt: e.cachedAt}, nil
}

// Put implements simulation.ResultStore.
func (s *Store) Put(ctx context.Context, entry *simulation.CacheEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(entry.Data)
	if err != nil {
		return err
	}
	cachedAt := entry.CachedAt
	if cachedAt.IsZero() {
		cachedAt = s.now()
	}

	s.mu.Lock()
	s.entries[entry.Key] = storedEntry{data: data, cachedAt: cachedAt.UTC()}
	s.mu.Unlock()
	return nil
}

// Stats implements simulation.ResultStore.  Size is the sum of key and
// document lengths.
func (s *Store) Stats(ctx context.Context) (*simulation.CacheStats, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &simulation.CacheStats{}
	for k, e := range s.entries {
		if s.expired(e) {
			continue
		}
		stats.Entries++
		stats.StorageSizeBytes += int64(len(k) + len(e.data))
	}
	return stats, nil
}

// Clear implements simulation.ResultStore.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	n := int64(len(s.entries))
	s.entries = make(map[string]storedEntry)
	s.mu.Unlock()
	return n, nil
}

// Ping implements simulation.ResultStore.
func (s *Store) Ping(ctx context.Context) error { return ctx.Err() }

// Close implements simulation.ResultStore.
func (s *Store) Close() error { return nil }

var _ simulation.ResultStore = (*Store)(nil)

//Personal.AI order the ending
