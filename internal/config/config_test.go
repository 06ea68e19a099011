package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_Validates(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 10, cfg.UI.RulerInterval)
	assert.Equal(t, 2, cfg.UI.PanFraction)
	assert.False(t, cfg.UI.ASCIIOnly)
	assert.True(t, cfg.Session.Enabled)
	assert.NotEmpty(t, cfg.Session.Path)
	assert.True(t, cfg.Watch.Enabled)
	assert.Equal(t, 250, cfg.Watch.DebounceMs)
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_OverridesLayerOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	src := `[ui]
ruler_interval = 20
ascii_only = true

[watch]
enabled = false
`
	require.NoError(t, os.WriteFile(path, []byte(src), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 20, cfg.UI.RulerInterval)
	assert.True(t, cfg.UI.ASCIIOnly)
	// Keys the file omits keep their defaults.
	assert.Equal(t, 2, cfg.UI.PanFraction)
	assert.False(t, cfg.Watch.Enabled)
	assert.Equal(t, 250, cfg.Watch.DebounceMs)
	assert.True(t, cfg.Session.Enabled)
}

func TestLoad_BadTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("ui = [broken\n"), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode config")
}

func TestValidate_Failures(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero ruler interval", func(c *Config) { c.UI.RulerInterval = 0 }},
		{"zero pan fraction", func(c *Config) { c.UI.PanFraction = 0 }},
		{"negative debounce", func(c *Config) { c.Watch.DebounceMs = -1 }},
		{"session without path", func(c *Config) { c.Session.Path = "" }},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cfg := Default()
			c.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidate_DisabledSessionNeedsNoPath(t *testing.T) {
	cfg := Default()
	cfg.Session.Enabled = false
	cfg.Session.Path = ""
	assert.NoError(t, cfg.Validate())
}

func TestDataDir_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TICKSCOPE_DATA_DIR", dir)

	assert.Equal(t, dir, DataDir())
	assert.Equal(t, filepath.Join(dir, "config.toml"), Path())
}
