// Package config loads runtime settings from an optional YAML file and
// RAPIDFIRE_* environment variables, in that order of precedence over defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/aretw0/rapidfire/internal/logging"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
	"github.com/mitchellh/mapstructure"
)

// DefaultPath is read when no --config flag is given. Its absence is not an error.
const DefaultPath = "rapidfire.yaml"

// Store backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
)

type Config struct {
	Store  StoreConfig  `mapstructure:"store"`
	Server ServerConfig `mapstructure:"server"`
	Core   CoreConfig   `mapstructure:"core"`
	Volume VolumeConfig `mapstructure:"volume"`
	Log    LogConfig    `mapstructure:"log"`
}

type StoreConfig struct {
	Backend string      `mapstructure:"backend"`
	Path    string      `mapstructure:"path"`
	Redis   RedisConfig `mapstructure:"redis"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Key      string `mapstructure:"key"`
}

type ServerConfig struct {
	Addr    string `mapstructure:"addr"`
	Metrics bool   `mapstructure:"metrics"`
}

type CoreConfig struct {
	InboxCapacity  int           `mapstructure:"inbox_capacity"`
	HubCapacity    int           `mapstructure:"hub_capacity"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	Threshold      float64       `mapstructure:"threshold"`
}

// Volume helper modes.
const (
	VolumeStream = "stream"
	VolumePoll   = "poll"
)

// VolumeConfig selects the volume source. An empty Command means no source.
// In stream mode the helper runs continuously and prints a reading per line;
// in poll mode it is run once per PollInterval and prints a single reading.
type VolumeConfig struct {
	Command      string            `mapstructure:"command"`
	Args         []string          `mapstructure:"args"`
	Env          map[string]string `mapstructure:"env"`
	Mode         string            `mapstructure:"mode"`
	PollInterval time.Duration     `mapstructure:"poll_interval"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func defaults() map[string]any {
	return map[string]any{
		"store": map[string]any{
			"backend": BackendFile,
			"path":    "projects/index.json",
			"redis": map[string]any{
				"addr":     "localhost:6379",
				"password": "",
				"db":       0,
				"key":      "rapidfire:project",
			},
		},
		"server": map[string]any{
			"addr":    ":8080",
			"metrics": true,
		},
		"core": map[string]any{
			"inbox_capacity":  32,
			"hub_capacity":    32,
			"request_timeout": 5 * time.Second,
			"threshold":       0.995,
		},
		"volume": map[string]any{
			"command":       "",
			"args":          []string{},
			"env":           map[string]any{},
			"mode":          VolumeStream,
			"poll_interval": 500 * time.Millisecond,
		},
		"log": map[string]any{
			"level":  "info",
			"format": logging.FormatText,
		},
	}
}

// EnvPrefix namespaces environment overrides. A config key maps to its
// upper-cased, underscore-joined form: store.redis.addr -> RAPIDFIRE_STORE_REDIS_ADDR.
const EnvPrefix = "RAPIDFIRE_"

// Load builds the configuration. If required is false a missing file at path
// is ignored; otherwise it is an error.
//
// Precedence (highest first): RAPIDFIRE_* environment, YAML file, defaults.
func Load(path string, required bool) (Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return Config{}, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := k.Load(rawbytes.Provider(data), yaml.Parser()); err != nil {
				return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist) && !required:
		default:
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envTransform(k.Keys())), nil); err != nil {
		return Config{}, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return Config{}, err
	}
	if err := decoder.Decode(k.Raw()); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// envTransform maps RAPIDFIRE_* variables onto the known config keys.
// Unknown variables return "" and are skipped by the provider.
func envTransform(keys []string) func(string) string {
	byEnv := make(map[string]string, len(keys))
	for _, key := range keys {
		byEnv[EnvName(key)] = key
	}
	return func(name string) string {
		return byEnv[name]
	}
}

// EnvName returns the environment variable that overrides key.
func EnvName(key string) string {
	return EnvPrefix + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// Validate rejects settings the runtime cannot start with.
func (c Config) Validate() error {
	var errs []error

	switch c.Store.Backend {
	case BackendFile:
		if c.Store.Path == "" {
			errs = append(errs, errors.New("store.path is required for the file backend"))
		}
	case BackendRedis:
		if c.Store.Redis.Addr == "" {
			errs = append(errs, errors.New("store.redis.addr is required for the redis backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown store.backend %q", c.Store.Backend))
	}

	if c.Core.InboxCapacity <= 0 {
		errs = append(errs, fmt.Errorf("core.inbox_capacity must be positive, got %d", c.Core.InboxCapacity))
	}
	if c.Core.HubCapacity <= 0 {
		errs = append(errs, fmt.Errorf("core.hub_capacity must be positive, got %d", c.Core.HubCapacity))
	}
	if c.Core.RequestTimeout < 0 {
		errs = append(errs, fmt.Errorf("core.request_timeout must not be negative, got %s", c.Core.RequestTimeout))
	}
	if c.Core.Threshold <= 0 || c.Core.Threshold > 1 {
		errs = append(errs, fmt.Errorf("core.threshold must be in (0, 1], got %v", c.Core.Threshold))
	}

	switch c.Volume.Mode {
	case VolumeStream:
	case VolumePoll:
		if c.Volume.PollInterval <= 0 {
			errs = append(errs, fmt.Errorf("volume.poll_interval must be positive, got %s", c.Volume.PollInterval))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown volume.mode %q", c.Volume.Mode))
	}

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	switch strings.ToLower(c.Log.Format) {
	case logging.FormatText, logging.FormatJSON:
	default:
		errs = append(errs, fmt.Errorf("unknown log.format %q", c.Log.Format))
	}

	return errors.Join(errs...)
}
