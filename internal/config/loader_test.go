package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validConfigYAML = `
server:
  host: "127.0.0.1"
  port: 8080
  shutdown_timeout: 5s
log:
  level: debug
  format: console
cache:
  backend: postgres
  timeout: 500ms
  ttl: 24h
  single_flight: false
postgres:
  host: db
  user: chem
  password: secret
  db_name: quantum
kafka:
  enabled: true
  brokers: ["k1:9092", "k2:9092"]
simulation:
  seed: 42
  render: false
`

func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "qsim.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_FromFile_ValidConfig(t *testing.T) {
	path := createTempConfigFile(t, validConfigYAML)
	cfg, err := Load(WithConfigPath(path))
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, CacheBackendPostgres, cfg.Cache.Backend)
	assert.Equal(t, 500*time.Millisecond, cfg.Cache.Timeout)
	assert.Equal(t, 24*time.Hour, cfg.Cache.TTL)
	assert.False(t, cfg.Cache.SingleFlight)
	assert.Equal(t, "db", cfg.Postgres.Host)
	assert.Equal(t, DefaultPostgresPort, cfg.Postgres.Port)
	assert.True(t, cfg.Kafka.Enabled)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, DefaultKafkaTopic, cfg.Kafka.Topic)
	assert.Equal(t, int64(42), cfg.Simulation.Seed)
	assert.False(t, cfg.Simulation.Render)
}

func TestLoad_NoFile_UsesDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, CacheBackendRedis, cfg.Cache.Backend)
	assert.True(t, cfg.Cache.SingleFlight)
	assert.True(t, cfg.Simulation.Render)
	assert.Equal(t, DefaultCacheTimeout, cfg.Cache.Timeout)
}

func TestLoad_FromFile_FileNotFound(t *testing.T) {
	_, err := Load(WithConfigPath("non_existent_config.yaml"))
	assert.ErrorIs(t, err, ErrConfigFileNotFound)
}

func TestLoad_FromFile_InvalidYAML(t *testing.T) {
	path := createTempConfigFile(t, "invalid_yaml: [")
	_, err := Load(WithConfigPath(path))
	assert.ErrorIs(t, err, ErrConfigParseError)
}

func TestLoad_FromFile_ValidationFailure(t *testing.T) {
	path := createTempConfigFile(t, "server:\n  port: 70000\n")
	_, err := Load(WithConfigPath(path))
	assert.ErrorIs(t, err, ErrConfigValidation)
}

func TestLoad_EnvOverride(t *testing.T) {
	path := createTempConfigFile(t, validConfigYAML)
	t.Setenv("QSIM_SERVER_PORT", "9999")
	t.Setenv("QSIM_POSTGRES_HOST", "db-host")

	cfg, err := Load(WithConfigPath(path))
	require.NoError(t, err)
	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "db-host", cfg.Postgres.Host)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("QSIM_CACHE_BACKEND", "memory")
	t.Setenv("QSIM_CACHE_SINGLE_FLIGHT", "false")
	t.Setenv("QSIM_REDIS_ADDR", "cache:6380")
	t.Setenv("QSIM_CACHE_TIMEOUT", "750ms")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, CacheBackendMemory, cfg.Cache.Backend)
	assert.False(t, cfg.Cache.SingleFlight)
	assert.Equal(t, "cache:6380", cfg.Redis.Addr)
	assert.Equal(t, 750*time.Millisecond, cfg.Cache.Timeout)
}

func TestLoad_WithSearchPaths(t *testing.T) {
	path := createTempConfigFile(t, validConfigYAML)

	cfg, err := Load(WithSearchPaths(t.TempDir(), filepath.Dir(path)))
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)

	cfg, err = Load(WithSearchPaths(t.TempDir()))
	require.NoError(t, err, "a missing file in search paths is not an error")
	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
}

func TestMustLoad_Panics(t *testing.T) {
	assert.Panics(t, func() { MustLoad(WithConfigPath("missing.yaml")) })
}

func TestWatch_ReportsChanges(t *testing.T) {
	path := createTempConfigFile(t, validConfigYAML)

	changed := make(chan *Config, 16)
	require.NoError(t, Watch(path, func(c *Config) { changed <- c }, nil))

	updated := strings.Replace(validConfigYAML, "level: debug", "level: error", 1)
	require.NoError(t, os.WriteFile(path, []byte(updated), 0o644))

	// A truncate and a write may arrive as separate events.
	deadline := time.After(5 * time.Second)
	for {
		select {
		case c := <-changed:
			if c.Log.Level == "error" {
				return
			}
		case <-deadline:
			t.Fatal("no change notification with the new level")
		}
	}
}

func TestWatch_MissingFile(t *testing.T) {
	err := Watch(filepath.Join(t.TempDir(), "none.yaml"), func(*Config) {}, nil)
	assert.ErrorIs(t, err, ErrConfigParseError)
}

//Personal.AI order the ending
