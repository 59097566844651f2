package config

import (
	"math"
	"time"

	"github.com/spf13/viper"
)

// ─────────────────────────────────────────────────────────────────────────────
// Default value constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	DefaultServerHost            = "0.0.0.0"
	DefaultServerPort            = 8000
	DefaultServerReadTimeout     = 15 * time.Second
	DefaultServerWriteTimeout    = 30 * time.Second
	DefaultServerShutdownTimeout = 10 * time.Second
	DefaultServerMaxBodySize     = 1 << 20

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultCacheBackend = CacheBackendRedis
	DefaultCacheTimeout = 2 * time.Second

	DefaultRedisMode      = "standalone"
	DefaultRedisAddr      = "localhost:6379"
	DefaultRedisKeyPrefix = "qsim:"

	DefaultPostgresHost     = "localhost"
	DefaultPostgresPort     = 5432
	DefaultPostgresUser     = "qsim"
	DefaultPostgresDBName   = "quantum_chemistry"
	DefaultPostgresSSLMode  = "disable"
	DefaultPostgresMaxConns = 10

	DefaultKafkaBroker = "localhost:9092"
	DefaultKafkaTopic  = "simulation.computed"
	DefaultKafkaGroup  = "qsim-worker"

	DefaultMetricsNamespace = "qsim"
	DefaultMetricsPath      = "/metrics"
)

// ─────────────────────────────────────────────────────────────────────────────
// Defaults
// ─────────────────────────────────────────────────────────────────────────────

// Default returns a Config with every default applied, including the boolean
// switches that ApplyDefaults cannot infer from zero values.
func Default() *Config {
	cfg := &Config{}
	cfg.Cache.SingleFlight = true
	cfg.Simulation.Render = true
	cfg.Metrics.Enabled = true
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills every zero-value field in cfg with its default.  Values
// already set are left unchanged.  Booleans are not touched since false is a
// valid explicit choice; the loader seeds them through setViperDefaults.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ── Server ────────────────────────────────────────────────────────────────
	if cfg.Server.Host == "" {
		cfg.Server.Host = DefaultServerHost
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultServerReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultServerWriteTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultServerShutdownTimeout
	}
	if cfg.Server.MaxBodySize == 0 {
		cfg.Server.MaxBodySize = DefaultServerMaxBodySize
	}
	if len(cfg.Server.CORSOrigins) == 0 {
		cfg.Server.CORSOrigins = []string{"*"}
	}
	if cfg.Server.RateLimit.Enabled() && cfg.Server.RateLimit.Burst == 0 {
		cfg.Server.RateLimit.Burst = int(math.Max(1, math.Ceil(cfg.Server.RateLimit.RequestsPerSecond)))
	}

	// ── Log ───────────────────────────────────────────────────────────────────
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}

	// ── Cache ─────────────────────────────────────────────────────────────────
	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = DefaultCacheBackend
	}
	if cfg.Cache.Timeout == 0 {
		cfg.Cache.Timeout = DefaultCacheTimeout
	}

	// ── Redis ─────────────────────────────────────────────────────────────────
	if cfg.Redis.Mode == "" {
		cfg.Redis.Mode = DefaultRedisMode
	}
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = DefaultRedisAddr
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = DefaultRedisKeyPrefix
	}

	// ── Postgres ──────────────────────────────────────────────────────────────
	if cfg.Postgres.Host == "" {
		cfg.Postgres.Host = DefaultPostgresHost
	}
	if cfg.Postgres.Port == 0 {
		cfg.Postgres.Port = DefaultPostgresPort
	}
	if cfg.Postgres.User == "" {
		cfg.Postgres.User = DefaultPostgresUser
	}
	if cfg.Postgres.DBName == "" {
		cfg.Postgres.DBName = DefaultPostgresDBName
	}
	if cfg.Postgres.SSLMode == "" {
		cfg.Postgres.SSLMode = DefaultPostgresSSLMode
	}
	if cfg.Postgres.MaxConns == 0 {
		cfg.Postgres.MaxConns = DefaultPostgresMaxConns
	}

	// ── Kafka ─────────────────────────────────────────────────────────────────
	if len(cfg.Kafka.Brokers) == 0 {
		cfg.Kafka.Brokers = []string{DefaultKafkaBroker}
	}
	if cfg.Kafka.Topic == "" {
		cfg.Kafka.Topic = DefaultKafkaTopic
	}
	if cfg.Kafka.GroupID == "" {
		cfg.Kafka.GroupID = DefaultKafkaGroup
	}

	// ── Metrics ───────────────────────────────────────────────────────────────
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}
}

// setViperDefaults registers every key with viper.  Besides supplying the
// boolean defaults this makes AutomaticEnv see keys that are absent from the
// config file, so QSIM_* variables work without one.
func setViperDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.read_timeout", d.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", d.Server.WriteTimeout)
	v.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout)
	v.SetDefault("server.max_body_size", d.Server.MaxBodySize)
	v.SetDefault("server.cors_origins", d.Server.CORSOrigins)
	v.SetDefault("server.rate_limit.requests_per_second", 0.0)
	v.SetDefault("server.rate_limit.burst", 0)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("log.output_paths", []string{"stdout"})

	v.SetDefault("cache.backend", d.Cache.Backend)
	v.SetDefault("cache.timeout", d.Cache.Timeout)
	v.SetDefault("cache.ttl", d.Cache.TTL)
	v.SetDefault("cache.single_flight", d.Cache.SingleFlight)

	v.SetDefault("redis.mode", d.Redis.Mode)
	v.SetDefault("redis.addr", d.Redis.Addr)
	v.SetDefault("redis.master_name", "")
	v.SetDefault("redis.addrs", []string{})
	v.SetDefault("redis.username", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 0)
	v.SetDefault("redis.dial_timeout", time.Duration(0))
	v.SetDefault("redis.read_timeout", time.Duration(0))
	v.SetDefault("redis.write_timeout", time.Duration(0))
	v.SetDefault("redis.key_prefix", d.Redis.KeyPrefix)

	v.SetDefault("postgres.host", d.Postgres.Host)
	v.SetDefault("postgres.port", d.Postgres.Port)
	v.SetDefault("postgres.user", d.Postgres.User)
	v.SetDefault("postgres.password", "")
	v.SetDefault("postgres.db_name", d.Postgres.DBName)
	v.SetDefault("postgres.ssl_mode", d.Postgres.SSLMode)
	v.SetDefault("postgres.max_conns", d.Postgres.MaxConns)
	v.SetDefault("postgres.min_conns", 0)
	v.SetDefault("postgres.conn_max_lifetime", time.Duration(0))
	v.SetDefault("postgres.conn_max_idle_time", time.Duration(0))

	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", d.Kafka.Brokers)
	v.SetDefault("kafka.topic", d.Kafka.Topic)
	v.SetDefault("kafka.group_id", d.Kafka.GroupID)
	v.SetDefault("kafka.batch_size", 0)
	v.SetDefault("kafka.batch_timeout", time.Duration(0))
	v.SetDefault("kafka.write_timeout", time.Duration(0))
	v.SetDefault("kafka.required_acks", 0)

	v.SetDefault("metrics.enabled", d.Metrics.Enabled)
	v.SetDefault("metrics.namespace", d.Metrics.Namespace)
	v.SetDefault("metrics.path", d.Metrics.Path)

	v.SetDefault("simulation.seed", int64(0))
	v.SetDefault("simulation.render", d.Simulation.Render)
}

//Personal.AI order the ending
