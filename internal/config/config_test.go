package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "envelope.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFile(t *testing.T) {
	p := writeFile(t, "log_level: debug\nmetrics_addr: :9999\ndispatch:\n  workers: 8\n")
	cfg, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, ":9999", cfg.MetricsAddr)
	assert.Equal(t, 8, cfg.Dispatch.Workers)
}

func TestLoadEnvOverrides(t *testing.T) {
	p := writeFile(t, "dispatch:\n  workers: 8\n")
	t.Setenv("ENVELOPE_WORKERS", "2")
	t.Setenv("ENVELOPE_LOG_LEVEL", "warn")
	t.Setenv("ENVELOPE_METRICS_ADDR", "127.0.0.1:1")
	cfg, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Dispatch.Workers)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "127.0.0.1:1", cfg.MetricsAddr)
}

func TestLoadInvalidWorkersFallsBack(t *testing.T) {
	p := writeFile(t, "dispatch:\n  workers: -3\n")
	cfg, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, DefaultWorkers, cfg.Dispatch.Workers)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	p := writeFile(t, "dispatch: [not, a, map\n")
	_, err = Load(p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse")
}
