package simulation

import (
	"context"
	"time"

	"github.com/turtacn/qsim/pkg/errors"
)

// ErrCacheMiss is returned by ResultStore.Get when no entry exists.
var ErrCacheMiss = errors.NotFound("cache miss")

// CacheEntry is one stored simulation result.  There is at most one entry per
// key; a later Put replaces it entirely.
type CacheEntry struct {
	Key      string    `json:"key"`
	Data     *Result   `json:"data"`
	CachedAt time.Time `json:"cached_at"`
}

// CacheStats describes a result store.  StorageSizeBytes is whatever the
// back end reports and may be approximate.
type CacheStats struct {
	Entries          int64 `json:"entries"`
	StorageSizeBytes int64 `json:"storage_size_bytes"`
}

// ResultStore persists simulation results keyed by molecule fingerprint.
// Implementations live under internal/infrastructure/database.
type ResultStore interface {
	// Get returns the entry for key, or ErrCacheMiss.
	Get(ctx context.Context, key string) (*CacheEntry, error)

	// Put inserts or replaces the entry for entry.Key.
	Put(ctx context.Context, entry *CacheEntry) error

	// Stats reports the number of entries and storage size.
	Stats(ctx context.Context) (*CacheStats, error)

	// Clear removes every entry and returns how many were removed.
	Clear(ctx context.Context) (int64, error)

	// Ping checks connectivity.
	Ping(ctx context.Context) error

	// Close releases connections.
	Close() error
}

// Store back-end names, reported in /health as cache_backend.
const (
	StoreRedis    = "redis"
	StorePostgres = "postgres"
	StoreMemory   = "memory"
	StoreNone     = "none"
)

//Personal.AI order the ending
