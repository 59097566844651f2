package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyDefaults_EmptyConfig(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	assert.Equal(t, DefaultServerHost, cfg.Server.Host)
	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, DefaultCacheBackend, cfg.Cache.Backend)
	assert.Equal(t, DefaultCacheTimeout, cfg.Cache.Timeout)
	assert.Equal(t, DefaultRedisKeyPrefix, cfg.Redis.KeyPrefix)
	assert.Equal(t, []string{DefaultKafkaBroker}, cfg.Kafka.Brokers)
	assert.Equal(t, DefaultKafkaGroup, cfg.Kafka.GroupID)
	assert.False(t, cfg.Cache.SingleFlight, "booleans are left to the loader")
}

func TestApplyDefaults_PreserveExistingValues(t *testing.T) {
	cfg := &Config{}
	cfg.Server.Port = 9999
	cfg.Cache.Backend = CacheBackendMemory
	ApplyDefaults(cfg)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, CacheBackendMemory, cfg.Cache.Backend)
}

func TestApplyDefaults_RateLimitBurst(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)
	assert.False(t, cfg.Server.RateLimit.Enabled())
	assert.Zero(t, cfg.Server.RateLimit.Burst)

	cfg = &Config{}
	cfg.Server.RateLimit.RequestsPerSecond = 2.5
	ApplyDefaults(cfg)
	assert.Equal(t, 3, cfg.Server.RateLimit.Burst)

	cfg = &Config{}
	cfg.Server.RateLimit.RequestsPerSecond = 0.2
	ApplyDefaults(cfg)
	assert.Equal(t, 1, cfg.Server.RateLimit.Burst)
}

func TestApplyDefaults_Nil(t *testing.T) {
	assert.NotPanics(t, func() { ApplyDefaults(nil) })
}

func TestDefault_SetsSwitches(t *testing.T) {
	cfg := Default()
	assert.True(t, cfg.Cache.SingleFlight)
	assert.True(t, cfg.Simulation.Render)
	assert.True(t, cfg.Metrics.Enabled)
	assert.False(t, cfg.Kafka.Enabled)
	assert.NoError(t, cfg.Validate())
}

//Personal.AI order the ending
