package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
export:
  output_dir: /tmp/out
  settle_delay: 1s
translation:
  enabled: false
defaults:
  currency: EUR
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/out", cfg.Export.OutputDir)
	assert.Equal(t, time.Second, cfg.Export.SettleDelay)
	assert.Equal(t, 10*time.Second, cfg.Export.IdleThreshold)
	assert.Equal(t, 794, cfg.Export.BaseWidth)
	assert.False(t, cfg.Translation.Enabled)
	assert.Equal(t, "EUR", cfg.Defaults.Currency)
	assert.Equal(t, "Español", cfg.Defaults.Language)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.Defaults.CompanyName = "ACME"

	require.NoError(t, cfg.Save(path))
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("COTIZA_TEST_ENV_VALUE=from-file\n"), 0600))
	t.Setenv("COTIZA_TEST_ENV_VALUE", "")
	os.Unsetenv("COTIZA_TEST_ENV_VALUE")

	_, err := Load(filepath.Join(dir, "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "from-file", os.Getenv("COTIZA_TEST_ENV_VALUE"))
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("export: [unclosed"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}
