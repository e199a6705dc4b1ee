package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWhenMissing(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv(EnvAPIURL, "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultAPIURL, cfg.APIURL)
	assert.Empty(t, cfg.CSVDir)
}

func TestLoadReadsFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(EnvAPIURL, "")

	dir := filepath.Join(home, DefaultConfigDir)
	require.NoError(t, os.MkdirAll(dir, 0o700))
	data := []byte("api_url: http://localhost:8080\ncsv_dir: /tmp/exports\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultConfigFile), data, 0o600))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", cfg.APIURL)
	assert.Equal(t, "/tmp/exports", cfg.CSVDir)
}

func TestEnvOverridesFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(EnvAPIURL, "http://staging.fidd.app")

	dir := filepath.Join(home, DefaultConfigDir)
	require.NoError(t, os.MkdirAll(dir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultConfigFile), []byte("api_url: http://localhost:8080\n"), 0o600))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://staging.fidd.app", cfg.APIURL)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, DefaultConfigDir)
	require.NoError(t, os.MkdirAll(dir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultConfigFile), []byte("api_url: [unclosed"), 0o600))

	_, err := Load()
	require.Error(t, err)
}

func TestEmptyFileGetsDefaultURL(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(EnvAPIURL, "")

	dir := filepath.Join(home, DefaultConfigDir)
	require.NoError(t, os.MkdirAll(dir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultConfigFile), []byte("csv_dir: out\n"), 0o600))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultAPIURL, cfg.APIURL)
	assert.Equal(t, "out", cfg.CSVDir)
}
