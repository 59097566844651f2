package postgres

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/turtacn/qsim/internal/domain/simulation"
	"github.com/turtacn/qsim/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/qsim/pkg/errors"
)

const (
	selectEntrySQL = `SELECT data, cached_at FROM simulation_cache WHERE key = $1`

	upsertEntrySQL = `INSERT INTO simulation_cache (key, data, cached_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET data = EXCLUDED.data, cached_at = EXCLUDED.cached_at`

	statsSQL = `SELECT count(*), pg_total_relation_size('simulation_cache') FROM simulation_cache`

	clearSQL = `DELETE FROM simulation_cache`
)

// querier is the subset of *pgxpool.Pool the store needs.
type querier interface {
	execer
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Ping(ctx context.Context) error
}

// resultStore keeps one row per fingerprint with the result as JSONB.
type resultStore struct {
	db     querier
	logger logging.Logger
	ttl    time.Duration
	now    func() time.Time
	closer func() error
}

// StoreOption configures the result store.
type StoreOption func(*resultStore)

// WithTTL hides rows older than ttl from Get.  Zero keeps entries forever.
func WithTTL(ttl time.Duration) StoreOption {
	return func(s *resultStore) { s.ttl = ttl }
}

// NewResultStore builds a ResultStore on conn.  Close closes conn.
func NewResultStore(conn *Connection, log logging.Logger, opts ...StoreOption) simulation.ResultStore {
	s := newResultStore(conn.Pool(), log, opts...)
	s.closer = conn.Close
	return s
}

func newResultStore(db querier, log logging.Logger, opts ...StoreOption) *resultStore {
	s := &resultStore{db: db, logger: log, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *resultStore) Get(ctx context.Context, key string) (*simulation.CacheEntry, error) {
	var (
		data     []byte
		cachedAt time.Time
	)
	err := s.db.QueryRow(ctx, selectEntrySQL, key).Scan(&data, &cachedAt)
	if stderrors.Is(err, pgx.ErrNoRows) {
		return nil, simulation.ErrCacheMiss
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to read cache row")
	}
	if s.ttl > 0 && s.now().Sub(cachedAt) > s.ttl {
		return nil, simulation.ErrCacheMiss
	}

	var result simulation.Result
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "corrupt cache row")
	}
	return &simulation.CacheEntry{Key: key, Data: &result, CachedAt: cachedAt}, nil
}

func (s *resultStore) Put(ctx context.Context, entry *simulation.CacheEntry) error {
	data, err := json.Marshal(entry.Data)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "serialization failed")
	}
	cachedAt := entry.CachedAt
	if cachedAt.IsZero() {
		cachedAt = s.now()
	}
	if _, err := s.db.Exec(ctx, upsertEntrySQL, entry.Key, data, cachedAt.UTC()); err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to upsert cache row")
	}
	return nil
}

func (s *resultStore) Stats(ctx context.Context) (*simulation.CacheStats, error) {
	stats := &simulation.CacheStats{}
	if err := s.db.QueryRow(ctx, statsSQL).Scan(&stats.Entries, &stats.StorageSizeBytes); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to read cache stats")
	}
	return stats, nil
}

func (s *resultStore) Clear(ctx context.Context) (int64, error) {
	tag, err := s.db.Exec(ctx, clearSQL)
	if err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to clear cache")
	}
	deleted := tag.RowsAffected()
	s.logger.Info("Cleared result cache", logging.Int64("deleted", deleted))
	return deleted, nil
}

func (s *resultStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func (s *resultStore) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer()
}

//Personal.AI order the ending
