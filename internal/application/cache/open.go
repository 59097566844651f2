package cache

import (
	"context"

	"github.com/turtacn/qsim/internal/config"
	"github.com/turtacn/qsim/internal/domain/simulation"
	"github.com/turtacn/qsim/internal/infrastructure/database/memory"
	"github.com/turtacn/qsim/internal/infrastructure/database/postgres"
	"github.com/turtacn/qsim/internal/infrastructure/database/redis"
	"github.com/turtacn/qsim/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/qsim/internal/infrastructure/monitoring/prometheus"
)

// Open builds the ResultCache selected by cfg.Cache.Backend.
//
// A back-end that cannot be reached at startup is not fatal: the service runs
// with a disabled cache and logs a warning.  Open never returns nil.
func Open(ctx context.Context, cfg *config.Config, log logging.Logger, metrics *prometheus.AppMetrics) ResultCache {
	backend := cfg.Cache.Backend
	opts := []Option{WithTimeout(cfg.Cache.Timeout), WithMetrics(metrics)}

	store, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Warn("Cache back-end unavailable, continuing without cache",
			logging.String("backend", backend),
			logging.Err(err),
		)
		return Disabled(backend, log, opts...)
	}
	if store == nil {
		log.Info("Result cache disabled", logging.String("backend", backend))
		return Disabled(backend, log, opts...)
	}

	log.Info("Result cache ready",
		logging.String("backend", backend),
		logging.Duration("ttl", cfg.Cache.TTL),
	)
	return New(store, backend, log, opts...)
}

func openStore(ctx context.Context, cfg *config.Config, log logging.Logger) (simulation.ResultStore, error) {
	switch cfg.Cache.Backend {
	case config.CacheBackendRedis:
		client, err := redis.NewClient(redisClientConfig(cfg), log.Named("redis"))
		if err != nil {
			return nil, err
		}
		opts := []redis.StoreOption{redis.WithTTL(cfg.Cache.TTL)}
		if cfg.Redis.KeyPrefix != "" {
			opts = append(opts, redis.WithPrefix(cfg.Redis.KeyPrefix))
		}
		return redis.NewResultStore(client, log.Named("redis"), opts...), nil

	case config.CacheBackendPostgres:
		conn, err := postgres.NewConnection(ctx, cfg.Postgres, log.Named("postgres"))
		if err != nil {
			return nil, err
		}
		if err := postgres.EnsureSchema(ctx, conn.Pool(), log.Named("postgres")); err != nil {
			_ = conn.Close()
			return nil, err
		}
		return postgres.NewResultStore(conn, log.Named("postgres"), postgres.WithTTL(cfg.Cache.TTL)), nil

	case config.CacheBackendMemory:
		return memory.NewStore(memory.WithTTL(cfg.Cache.TTL)), nil

	default:
		return nil, nil
	}
}

func redisClientConfig(cfg *config.Config) *redis.RedisConfig {
	rc := &redis.RedisConfig{
		Mode:           cfg.Redis.Mode,
		Addr:           cfg.Redis.Addr,
		MasterName:     cfg.Redis.MasterName,
		Username:       cfg.Redis.Username,
		Password:       cfg.Redis.Password,
		DB:             cfg.Redis.DB,
		PoolSize:       cfg.Redis.PoolSize,
		DialTimeout:    cfg.Redis.DialTimeout,
		ReadTimeout:    cfg.Redis.ReadTimeout,
		WriteTimeout:   cfg.Redis.WriteTimeout,
		ConnectTimeout: cfg.Cache.Timeout,
	}
	switch cfg.Redis.Mode {
	case "sentinel":
		rc.SentinelAddrs = cfg.Redis.Addrs
	case "cluster":
		rc.ClusterAddrs = cfg.Redis.Addrs
	}
	return rc
}

//Personal.AI order the ending
