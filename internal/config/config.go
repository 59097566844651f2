// Package config defines the configuration structures for the QSim backend.
// No I/O or parsing logic lives here, only plain data types and validation.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Cache back ends accepted by cache.backend.
const (
	CacheBackendRedis    = "redis"
	CacheBackendPostgres = "postgres"
	CacheBackendMemory   = "memory"
	CacheBackendNone     = "none"
)

// CacheBackends lists every accepted cache.backend value.
var CacheBackends = []string{CacheBackendRedis, CacheBackendPostgres, CacheBackendMemory, CacheBackendNone}

// IsCacheBackend reports whether name is an accepted cache.backend value.
func IsCacheBackend(name string) bool {
	for _, b := range CacheBackends {
		if name == b {
			return true
		}
	}
	return false
}

// ─────────────────────────────────────────────────────────────────────────────
// Sub-configuration structs
// ─────────────────────────────────────────────────────────────────────────────

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxBodySize     int64         `mapstructure:"max_body_size"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`

	// RateLimit throttles each client address.  Zero RequestsPerSecond
	// disables it.
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// RateLimitConfig is a per-client token bucket.
type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

// Enabled reports whether requests are throttled.
func (r RateLimitConfig) Enabled() bool { return r.RequestsPerSecond > 0 }

// Address returns host:port for net/http.
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LogConfig holds structured-logging parameters.
type LogConfig struct {
	Level       string   `mapstructure:"level"`  // "debug" | "info" | "warn" | "error"
	Format      string   `mapstructure:"format"` // "json" | "console"
	OutputPaths []string `mapstructure:"output_paths"`
}

// CacheConfig selects and tunes the simulation result cache.
type CacheConfig struct {
	Backend string `mapstructure:"backend"` // "redis" | "postgres" | "memory" | "none"

	// Timeout bounds every store call.  A slow store counts as a miss.
	Timeout time.Duration `mapstructure:"timeout"`

	// TTL is the entry lifetime for stores that support expiry; 0 keeps
	// entries forever.
	TTL time.Duration `mapstructure:"ttl"`

	// SingleFlight collapses concurrent misses for one fingerprint into a
	// single computation.
	SingleFlight bool `mapstructure:"single_flight"`
}

// RedisConfig holds Redis connection parameters.
type RedisConfig struct {
	Mode         string        `mapstructure:"mode"` // "standalone" | "sentinel" | "cluster"
	Addr         string        `mapstructure:"addr"`
	MasterName   string        `mapstructure:"master_name"`
	Addrs        []string      `mapstructure:"addrs"`
	Username     string        `mapstructure:"username"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	KeyPrefix    string        `mapstructure:"key_prefix"`
}

// PostgresConfig holds PostgreSQL connection parameters.
type PostgresConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"db_name"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxConns        int           `mapstructure:"max_conns"`
	MinConns        int           `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
}

// KafkaConfig holds the result-event producer and worker parameters.
type KafkaConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Brokers      []string      `mapstructure:"brokers"`
	Topic        string        `mapstructure:"topic"`
	GroupID      string        `mapstructure:"group_id"` // consumer group of cmd/worker
	BatchSize    int           `mapstructure:"batch_size"`
	BatchTimeout time.Duration `mapstructure:"batch_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	RequiredAcks int           `mapstructure:"required_acks"`
}

// MetricsConfig holds Prometheus exposition parameters.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
	Path      string `mapstructure:"path"`
}

// SimulationConfig tunes the mocked engines and the renderers.
type SimulationConfig struct {
	// Seed fixes the random source; 0 seeds from the clock.
	Seed int64 `mapstructure:"seed"`

	// Render enables the molecule image and energy plot.
	Render bool `mapstructure:"render"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Root Config
// ─────────────────────────────────────────────────────────────────────────────

// Config is the root configuration structure.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Log        LogConfig        `mapstructure:"log"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Postgres   PostgresConfig   `mapstructure:"postgres"`
	Kafka      KafkaConfig      `mapstructure:"kafka"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
	Simulation SimulationConfig `mapstructure:"simulation"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Validation
// ─────────────────────────────────────────────────────────────────────────────

// Validate performs semantic validation of a fully-populated Config and
// returns the first problem found.  Settings for back ends that are not
// selected are not checked.
func (c *Config) Validate() error {
	// Server
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d is out of range [1, 65535]", c.Server.Port)
	}
	if c.Server.ShutdownTimeout < 0 {
		return fmt.Errorf("config: server.shutdown_timeout must be ≥ 0, got %s", c.Server.ShutdownTimeout)
	}

	if c.Server.RateLimit.RequestsPerSecond < 0 || c.Server.RateLimit.Burst < 0 {
		return fmt.Errorf("config: server.rate_limit values must be ≥ 0")
	}

	// Log
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|console", c.Log.Format)
	}

	// Cache
	if c.Cache.Timeout <= 0 {
		return fmt.Errorf("config: cache.timeout must be > 0, got %s", c.Cache.Timeout)
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("config: cache.ttl must be ≥ 0, got %s", c.Cache.TTL)
	}
	switch c.Cache.Backend {
	case CacheBackendRedis:
		if err := c.validateRedis(); err != nil {
			return err
		}
	case CacheBackendPostgres:
		if err := c.validatePostgres(); err != nil {
			return err
		}
	case CacheBackendMemory, CacheBackendNone:
	default:
		return fmt.Errorf("config: cache.backend %q is invalid; expected %s", c.Cache.Backend, strings.Join(CacheBackends, "|"))
	}

	// Kafka
	if c.Kafka.Enabled {
		if len(c.Kafka.Brokers) == 0 {
			return fmt.Errorf("config: kafka.brokers must contain at least one broker address")
		}
		if c.Kafka.Topic == "" {
			return fmt.Errorf("config: kafka.topic is required")
		}
	}

	// Metrics
	if c.Metrics.Enabled && c.Metrics.Path == "" {
		return fmt.Errorf("config: metrics.path is required when metrics are enabled")
	}

	return nil
}

func (c *Config) validateRedis() error {
	switch c.Redis.Mode {
	case "", "standalone":
		if c.Redis.Addr == "" {
			return fmt.Errorf("config: redis.addr is required")
		}
	case "sentinel":
		if c.Redis.MasterName == "" || len(c.Redis.Addrs) == 0 {
			return fmt.Errorf("config: redis.master_name and redis.addrs are required in sentinel mode")
		}
	case "cluster":
		if len(c.Redis.Addrs) == 0 {
			return fmt.Errorf("config: redis.addrs is required in cluster mode")
		}
	default:
		return fmt.Errorf("config: redis.mode %q is invalid; expected standalone|sentinel|cluster", c.Redis.Mode)
	}
	if c.Redis.DB < 0 {
		return fmt.Errorf("config: redis.db must be ≥ 0, got %d", c.Redis.DB)
	}
	return nil
}

func (c *Config) validatePostgres() error {
	if c.Postgres.Host == "" {
		return fmt.Errorf("config: postgres.host is required")
	}
	if c.Postgres.Port < 1 || c.Postgres.Port > 65535 {
		return fmt.Errorf("config: postgres.port %d is out of range [1, 65535]", c.Postgres.Port)
	}
	if c.Postgres.User == "" {
		return fmt.Errorf("config: postgres.user is required")
	}
	if c.Postgres.DBName == "" {
		return fmt.Errorf("config: postgres.db_name is required")
	}
	if c.Postgres.MaxConns < 1 {
		return fmt.Errorf("config: postgres.max_conns must be ≥ 1, got %d", c.Postgres.MaxConns)
	}
	return nil
}

//Personal.AI order the ending
