package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rapidfire.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), false)
	require.NoError(t, err)

	assert.Equal(t, BackendFile, cfg.Store.Backend)
	assert.Equal(t, "projects/index.json", cfg.Store.Path)
	assert.Equal(t, "localhost:6379", cfg.Store.Redis.Addr)
	assert.Equal(t, "rapidfire:project", cfg.Store.Redis.Key)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.True(t, cfg.Server.Metrics)
	assert.Equal(t, 32, cfg.Core.InboxCapacity)
	assert.Equal(t, 32, cfg.Core.HubCapacity)
	assert.Equal(t, 5*time.Second, cfg.Core.RequestTimeout)
	assert.InDelta(t, 0.995, cfg.Core.Threshold, 1e-9)
	assert.Empty(t, cfg.Volume.Command)
	assert.Equal(t, VolumeStream, cfg.Volume.Mode)
	assert.Equal(t, 500*time.Millisecond, cfg.Volume.PollInterval)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoad_RequiredFileMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), true)
	assert.Error(t, err)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
store:
  backend: redis
  redis:
    addr: cache:6380
    db: 2
core:
  request_timeout: 750ms
  threshold: 0.9
volume:
  command: ./volume-helper
  args: ["--interval", "100ms"]
  mode: poll
  poll_interval: 2s
  env:
    DEVICE: default
log:
  format: json
`)

	cfg, err := Load(path, true)
	require.NoError(t, err)

	assert.Equal(t, BackendRedis, cfg.Store.Backend)
	assert.Equal(t, "cache:6380", cfg.Store.Redis.Addr)
	assert.Equal(t, 2, cfg.Store.Redis.DB)
	assert.Equal(t, "rapidfire:project", cfg.Store.Redis.Key, "untouched nested keys keep defaults")
	assert.Equal(t, 750*time.Millisecond, cfg.Core.RequestTimeout)
	assert.InDelta(t, 0.9, cfg.Core.Threshold, 1e-9)
	assert.Equal(t, "./volume-helper", cfg.Volume.Command)
	assert.Equal(t, []string{"--interval", "100ms"}, cfg.Volume.Args)
	assert.Equal(t, VolumePoll, cfg.Volume.Mode)
	assert.Equal(t, 2*time.Second, cfg.Volume.PollInterval)
	assert.Equal(t, map[string]string{"DEVICE": "default"}, cfg.Volume.Env)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 32, cfg.Core.HubCapacity)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: ":9000"
core:
  hub_capacity: 8
`)
	t.Setenv("RAPIDFIRE_SERVER_ADDR", "127.0.0.1:7000")
	t.Setenv("RAPIDFIRE_SERVER_METRICS", "false")
	t.Setenv("RAPIDFIRE_CORE_HUB_CAPACITY", "4")
	t.Setenv("RAPIDFIRE_CORE_REQUEST_TIMEOUT", "2s")
	t.Setenv("RAPIDFIRE_VOLUME_ARGS", "--once,--raw")

	cfg, err := Load(path, true)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:7000", cfg.Server.Addr)
	assert.False(t, cfg.Server.Metrics)
	assert.Equal(t, 4, cfg.Core.HubCapacity)
	assert.Equal(t, 2*time.Second, cfg.Core.RequestTimeout)
	assert.Equal(t, []string{"--once", "--raw"}, cfg.Volume.Args)
}

func TestLoad_EnvNestedKeysAndUnknownVariables(t *testing.T) {
	t.Setenv("RAPIDFIRE_STORE_REDIS_ADDR", "redis:6380")
	t.Setenv("RAPIDFIRE_STORE_REDIS_DB", "2")
	t.Setenv("RAPIDFIRE_VOLUME_POLL_INTERVAL", "1s")
	t.Setenv("RAPIDFIRE_NOT_A_SETTING", "ignored")

	cfg, err := Load("", false)
	require.NoError(t, err)

	assert.Equal(t, "redis:6380", cfg.Store.Redis.Addr)
	assert.Equal(t, 2, cfg.Store.Redis.DB)
	assert.Equal(t, time.Second, cfg.Volume.PollInterval)
}

func TestLoad_FileMergesNestedMaps(t *testing.T) {
	path := writeConfig(t, `
store:
  redis:
    key: custom:key
volume:
  env:
    VOLUME_DEVICE: speakers
`)
	cfg, err := Load(path, true)
	require.NoError(t, err)

	assert.Equal(t, "custom:key", cfg.Store.Redis.Key)
	assert.Equal(t, "localhost:6379", cfg.Store.Redis.Addr, "sibling defaults survive")
	assert.Equal(t, map[string]string{"VOLUME_DEVICE": "speakers"}, cfg.Volume.Env)
}

func TestEnvName(t *testing.T) {
	assert.Equal(t, "RAPIDFIRE_STORE_REDIS_ADDR", EnvName("store.redis.addr"))
	assert.Equal(t, "RAPIDFIRE_CORE_INBOX_CAPACITY", EnvName("core.inbox_capacity"))
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errText string
	}{
		{"unknown backend", "store:\n  backend: sqlite\n", "unknown store.backend"},
		{"zero capacity", "core:\n  inbox_capacity: 0\n", "core.inbox_capacity"},
		{"threshold above one", "core:\n  threshold: 1.5\n", "core.threshold"},
		{"bad volume mode", "volume:\n  mode: push\n", "volume.mode"},
		{"bad level", "log:\n  level: loud\n", "invalid log level"},
		{"bad format", "log:\n  format: xml\n", "log.format"},
		{"unknown key", "core:\n  treshold: 0.9\n", "treshold"},
		{"bad yaml", "core: [", "failed to parse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content), true)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errText)
		})
	}
}
