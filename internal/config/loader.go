// Package config provides configuration loading, defaults, and validation for
// the QSim backend.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix used by all settings.
const envPrefix = "QSIM"

// defaultConfigName is searched for (as <name>.yaml) in the search paths.
const defaultConfigName = "qsim"

// Sentinel errors returned (wrapped) by Load.
var (
	ErrConfigFileNotFound = errors.New("config file not found")
	ErrConfigParseError   = errors.New("config parse error")
	ErrConfigValidation   = errors.New("config validation failed")
)

// loadOptions collects LoadOption values.
type loadOptions struct {
	path        string
	searchPaths []string
}

// LoadOption customises Load.
type LoadOption func(*loadOptions)

// WithConfigPath reads exactly this file.
func WithConfigPath(path string) LoadOption {
	return func(o *loadOptions) { o.path = path }
}

// WithSearchPaths looks for qsim.yaml in each directory, in order.
func WithSearchPaths(dirs ...string) LoadOption {
	return func(o *loadOptions) { o.searchPaths = append(o.searchPaths, dirs...) }
}

// newViper builds a Viper instance with YAML file type, the QSIM_ env prefix,
// automatic env binding and a "." → "_" key replacer, so "cache.backend"
// resolves to QSIM_CACHE_BACKEND.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setViperDefaults(v)
	return v
}

// Load merges (in increasing precedence) defaults, an optional YAML file and
// QSIM_* environment variables, then validates the result.
//
// Without options no file is read.  WithConfigPath requires the file to exist;
// WithSearchPaths tolerates its absence.
func Load(opts ...LoadOption) (*Config, error) {
	o := &loadOptions{}
	for _, opt := range opts {
		opt(o)
	}

	v := newViper()
	switch {
	case o.path != "":
		if _, err := os.Stat(o.path); err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrConfigFileNotFound, o.path, err)
		}
		v.SetConfigFile(o.path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrConfigParseError, o.path, err)
		}
	case len(o.searchPaths) > 0:
		v.SetConfigName(defaultConfigName)
		for _, p := range o.searchPaths {
			v.AddConfigPath(p)
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("%w: %v", ErrConfigParseError, err)
			}
		}
	}

	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config from defaults and QSIM_* variables only.  This
// is the usual strategy for containerised deployments.
//
//	QSIM_<SECTION>_<FIELD>   e.g.  QSIM_CACHE_BACKEND, QSIM_REDIS_ADDR
func LoadFromEnv() (*Config, error) {
	return Load()
}

// unmarshalAndFinalize unmarshals viper state, applies defaults and validates.
func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParseError, err)
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigValidation, err)
	}
	return cfg, nil
}

// Watch monitors configPath and calls onChange with the re-parsed Config after
// each write.  Invalid edits are reported to onError (if non-nil) and do not
// reach onChange.  Only settings that are safe to apply live (log level)
// should be taken from the new Config.
//
// Watch is non-blocking; viper runs the watcher goroutine.
func Watch(configPath string, onChange func(*Config), onError func(error)) error {
	v := newViper()
	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("%w: %q: %v", ErrConfigParseError, configPath, err)
	}

	v.OnConfigChange(func(_ fsnotify.Event) {
		cfg, err := unmarshalAndFinalize(v)
		if err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		onChange(cfg)
	})
	v.WatchConfig()
	return nil
}

// MustLoad is Load that panics on error.  Intended for main().
func MustLoad(opts ...LoadOption) *Config {
	cfg, err := Load(opts...)
	if err != nil {
		panic(fmt.Sprintf("config: MustLoad failed: %v", err))
	}
	return cfg
}

//Personal.AI order the ending
