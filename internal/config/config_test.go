package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"LOAD_LATENCY", "MUTATE_LATENCY", "LOG_LEVEL", "LOG_FILE", "HTTP_ADDR"} {
		t.Setenv(EnvPrefix+key, "")
		os.Unsetenv(EnvPrefix + key)
	}
}

func TestNew_DefaultsWhenDirEmpty(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	cfg, err := New(dir)
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.Dir)
	assert.Equal(t, 500*time.Millisecond, cfg.Latency.Load)
	assert.Equal(t, time.Second, cfg.Latency.Mutate)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
}

func TestNew_ReadsYAML(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	yml := "latency:\n  load: 10ms\n  mutate: 20ms\nlog:\n  level: debug\nhttp:\n  addr: 127.0.0.1:9000\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFile), []byte(yml), 0600))

	cfg, err := New(dir)
	require.NoError(t, err)

	assert.Equal(t, 10*time.Millisecond, cfg.Latency.Load)
	assert.Equal(t, 20*time.Millisecond, cfg.Latency.Mutate)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "127.0.0.1:9000", cfg.HTTP.Addr)
}

func TestNew_InvalidYAML(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFile), []byte("latency: [oops"), 0600))

	_, err := New(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config.yaml")
}

func TestNew_DotEnvOverridesYAML(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFile), []byte("latency:\n  load: 10ms\n"), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, EnvFile), []byte("TASKLIST_LOAD_LATENCY=75\nTASKLIST_HTTP_ADDR=:9999\n"), 0600))

	cfg, err := New(dir)
	require.NoError(t, err)

	assert.Equal(t, 75*time.Millisecond, cfg.Latency.Load)
	assert.Equal(t, ":9999", cfg.HTTP.Addr)
}

func TestNew_ProcessEnvWinsOverDotEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, EnvFile), []byte("TASKLIST_MUTATE_LATENCY=5s\n"), 0600))
	t.Setenv("TASKLIST_MUTATE_LATENCY", "250ms")

	cfg, err := New(dir)
	require.NoError(t, err)

	assert.Equal(t, 250*time.Millisecond, cfg.Latency.Mutate)
}

func TestNew_BadDurationInEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("TASKLIST_LOAD_LATENCY", "soon")

	_, err := New(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TASKLIST_LOAD_LATENCY")
}

func TestNew_NegativeLatencyInYAML(t *testing.T) {
	for key, yml := range map[string]string{
		"latency.load":   "latency:\n  load: -10ms\n",
		"latency.mutate": "latency:\n  mutate: -1s\n",
	} {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFile), []byte(yml), 0600))

			_, err := New(dir)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid config.yaml: "+key)
		})
	}
}

func TestDefaultConfigDir_UsesXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")

	assert.Equal(t, filepath.Join("/xdg", AppName), DefaultConfigDir())
}

func TestParseDuration(t *testing.T) {
	d, err := parseDuration("1500")
	require.NoError(t, err)
	assert.Equal(t, 1500*time.Millisecond, d)

	d, err = parseDuration("2s")
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, d)

	_, err = parseDuration("-5")
	assert.Error(t, err)
	_, err = parseDuration("-1s")
	assert.Error(t, err)
}
