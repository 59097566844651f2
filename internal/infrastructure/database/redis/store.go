package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/turtacn/qsim/internal/domain/simulation"
	"github.com/turtacn/qsim/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/qsim/pkg/errors"
)

// entryNamespace separates result documents from anything else sharing the
// prefix.
const entryNamespace = "entry:"

// scanCount is the COUNT hint for SCAN pages.
const scanCount = 200

// document is the stored JSON shape: the result payload and its timestamp.
type document struct {
	Data     *simulation.Result `json:"data"`
	CachedAt time.Time          `json:"cached_at"`
}

// resultStore is the Redis ResultStore.  Each entry is a single string key
// holding a JSON document, so SET gives whole-document upsert semantics.
type resultStore struct {
	client *Client
	logger logging.Logger
	prefix string
	ttl    time.Duration
}

// StoreOption configures the result store.
type StoreOption func(*resultStore)

// WithPrefix sets the key prefix (default "qsim:").
func WithPrefix(prefix string) StoreOption {
	return func(s *resultStore) { s.prefix = prefix }
}

// WithTTL sets the entry lifetime.  Zero keeps entries forever.
func WithTTL(ttl time.Duration) StoreOption {
	return func(s *resultStore) { s.ttl = ttl }
}

// NewResultStore builds a ResultStore on client.  The store owns the client:
// Close closes it.
func NewResultStore(client *Client, log logging.Logger, opts ...StoreOption) simulation.ResultStore {
	s := &resultStore{
		client: client,
		logger: log,
		prefix: "qsim:",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *resultStore) fullKey(key string) string {
	return s.prefix + entryNamespace + key
}

func (s *resultStore) pattern() string {
	return s.prefix + entryNamespace + "*"
}

func (s *resultStore) Get(ctx context.Context, key string) (*simulation.CacheEntry, error) {
	data, err := s.client.Get(ctx, s.fullKey(key)).Bytes()
	if err == redis.Nil {
		return nil, simulation.ErrCacheMiss
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeCacheError, "failed to get from cache")
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "corrupt cache document")
	}
	if doc.Data == nil {
		return nil, errors.New(errors.ErrCodeSerialization, "cache document has no data")
	}
	return &simulation.CacheEntry{Key: key, Data: doc.Data, CachedAt: doc.CachedAt}, nil
}

func (s *resultStore) Put(ctx context.Context, entry *simulation.CacheEntry) error {
	cachedAt := entry.CachedAt
	if cachedAt.IsZero() {
		cachedAt = time.Now()
	}
	data, err := json.Marshal(document{Data: entry.Data, CachedAt: cachedAt.UTC()})
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "serialization failed")
	}
	if err := s.client.Set(ctx, s.fullKey(entry.Key), data, s.ttl).Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "failed to write cache")
	}
	return nil
}

// Stats counts entries with SCAN and sums MEMORY USAGE.  Servers that refuse
// MEMORY USAGE still get an entry count, with a size of 0 for those keys.
func (s *resultStore) Stats(ctx context.Context) (*simulation.CacheStats, error) {
	stats := &simulation.CacheStats{}
	memoryUsable := true
	err := s.client.ScanAll(ctx, s.pattern(), scanCount, func(keys []string) error {
		stats.Entries += int64(len(keys))
		if !memoryUsable {
			return nil
		}
		for _, k := range keys {
			n, err := s.client.MemoryUsage(ctx, k).Result()
			if err == redis.Nil {
				continue
			}
			if err != nil {
				s.logger.Debug("MEMORY USAGE unavailable", logging.Err(err))
				memoryUsable = false
				return nil
			}
			stats.StorageSizeBytes += n
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeCacheError, "failed to scan cache")
	}
	return stats, nil
}

func (s *resultStore) Clear(ctx context.Context) (int64, error) {
	var deleted int64
	// Cluster nodes reject multi-key DEL across slots.
	batch := !s.client.IsCluster()
	err := s.client.ScanAll(ctx, s.pattern(), scanCount, func(keys []string) error {
		if batch {
			n, err := s.client.Del(ctx, keys...).Result()
			deleted += n
			return err
		}
		for _, k := range keys {
			n, err := s.client.Del(ctx, k).Result()
			if err != nil {
				return err
			}
			deleted += n
		}
		return nil
	})
	if err != nil {
		return deleted, errors.Wrap(err, errors.ErrCodeCacheError, "failed to clear cache")
	}
	s.logger.Info("Cleared result cache", logging.Int64("deleted", deleted))
	return deleted, nil
}

func (s *resultStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx)
}

func (s *resultStore) Close() error {
	return s.client.Close()
}

//Personal.AI order the ending
