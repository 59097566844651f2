package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/qsim/internal/config"
)

func TestConfig_Validate_ValidConfig(t *testing.T) {
	t.Parallel()
	assert.NoError(t, config.Default().Validate())
}

func TestConfig_Validate_InvalidServerPort(t *testing.T) {
	t.Parallel()
	for _, p := range []int{0, -1, 65536, 100000} {
		cfg := config.Default()
		cfg.Server.Port = p
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "server.port")
	}
}

func TestConfig_Validate_RateLimit(t *testing.T) {
	t.Parallel()
	cfg := config.Default()
	cfg.Server.RateLimit.RequestsPerSecond = -1
	assert.ErrorContains(t, cfg.Validate(), "server.rate_limit")

	cfg = config.Default()
	cfg.Server.RateLimit = config.RateLimitConfig{RequestsPerSecond: 5, Burst: 10}
	assert.NoError(t, cfg.Validate())
}

func TestConfig_Validate_Log(t *testing.T) {
	t.Parallel()
	cfg := config.Default()
	cfg.Log.Level = "verbose"
	assert.ErrorContains(t, cfg.Validate(), "log.level")

	cfg = config.Default()
	cfg.Log.Format = "text"
	assert.ErrorContains(t, cfg.Validate(), "log.format")
}

func TestConfig_Validate_CacheBackend(t *testing.T) {
	t.Parallel()
	cfg := config.Default()
	cfg.Cache.Backend = "mongodb"
	assert.ErrorContains(t, cfg.Validate(), "cache.backend")

	for _, b := range config.CacheBackends {
		cfg := config.Default()
		cfg.Cache.Backend = b
		assert.NoError(t, cfg.Validate(), b)
		assert.True(t, config.IsCacheBackend(b), b)
	}
	assert.False(t, config.IsCacheBackend("reddis"))
	assert.False(t, config.IsCacheBackend(""))
}

func TestConfig_Validate_CacheTimeout(t *testing.T) {
	t.Parallel()
	cfg := config.Default()
	cfg.Cache.Timeout = 0
	assert.ErrorContains(t, cfg.Validate(), "cache.timeout")

	cfg = config.Default()
	cfg.Cache.TTL = -time.Second
	assert.ErrorContains(t, cfg.Validate(), "cache.ttl")
}

func TestConfig_Validate_OnlySelectedBackendIsChecked(t *testing.T) {
	t.Parallel()
	cfg := config.Default()
	cfg.Cache.Backend = config.CacheBackendMemory
	cfg.Postgres.Host = ""
	cfg.Redis.Addr = ""
	assert.NoError(t, cfg.Validate())

	cfg.Cache.Backend = config.CacheBackendPostgres
	assert.ErrorContains(t, cfg.Validate(), "postgres.host")

	cfg.Cache.Backend = config.CacheBackendRedis
	assert.ErrorContains(t, cfg.Validate(), "redis.addr")
}

func TestConfig_Validate_RedisModes(t *testing.T) {
	t.Parallel()
	cfg := config.Default()
	cfg.Redis.Mode = "cluster"
	assert.ErrorContains(t, cfg.Validate(), "redis.addrs")
	cfg.Redis.Addrs = []string{"a:7000", "b:7000"}
	assert.NoError(t, cfg.Validate())

	cfg.Redis.Mode = "sentinel"
	assert.ErrorContains(t, cfg.Validate(), "master_name")
	cfg.Redis.MasterName = "mymaster"
	assert.NoError(t, cfg.Validate())

	cfg.Redis.Mode = "ring"
	assert.ErrorContains(t, cfg.Validate(), "redis.mode")
}

func TestConfig_Validate_Kafka(t *testing.T) {
	t.Parallel()
	cfg := config.Default()
	cfg.Kafka.Enabled = true
	cfg.Kafka.Topic = ""
	assert.ErrorContains(t, cfg.Validate(), "kafka.topic")

	cfg.Kafka.Topic = "t"
	cfg.Kafka.Brokers = nil
	assert.ErrorContains(t, cfg.Validate(), "kafka.brokers")
}

func TestServerConfig_Address(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "127.0.0.1:8000", config.ServerConfig{Host: "127.0.0.1", Port: 8000}.Address())
}

//Personal.AI order the ending
