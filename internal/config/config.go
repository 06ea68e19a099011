// Package config handles configuration loading and validation for
// tickscope.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds the complete viewer configuration.
type Config struct {
	// UI configuration for the terminal front end.
	UI UIConfig `toml:"ui"`

	// Session configuration for view-state persistence.
	Session SessionConfig `toml:"session"`

	// Watch configuration for trace live reload.
	Watch WatchConfig `toml:"watch"`
}

// UIConfig holds terminal rendering options.
type UIConfig struct {
	// RulerInterval is the column spacing between time marks on the
	// waveform ruler.
	RulerInterval int `toml:"ruler_interval"`

	// ASCIIOnly disables box-drawing glyphs for terminals without
	// Unicode fonts.
	ASCIIOnly bool `toml:"ascii_only"`

	// PanFraction is how much of the window one pan step moves,
	// as a divisor: 2 pans half the window per keypress.
	PanFraction int `toml:"pan_fraction"`
}

// SessionConfig holds view-state persistence options.
type SessionConfig struct {
	// Enabled persists viewport/cursor/selection per trace path and
	// restores them when the trace is reopened.
	Enabled bool `toml:"enabled"`

	// Path is the SQLite database file holding saved views.
	Path string `toml:"path"`
}

// WatchConfig holds trace file watching options.
type WatchConfig struct {
	// Enabled reloads the trace automatically when the file changes.
	Enabled bool `toml:"enabled"`

	// DebounceMs is how long the file must be quiet before a reload,
	// in milliseconds. Simulators rewrite dumps in bursts.
	DebounceMs int `toml:"debounce_ms"`
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		UI: UIConfig{
			RulerInterval: 10,
			ASCIIOnly:     false,
			PanFraction:   2,
		},
		Session: SessionConfig{
			Enabled: true,
			Path:    filepath.Join(DataDir(), "sessions.db"),
		},
		Watch: WatchConfig{
			Enabled:    true,
			DebounceMs: 250,
		},
	}
}

// DataDir returns the directory tickscope keeps its state in,
// honoring the TICKSCOPE_DATA_DIR override.
func DataDir() string {
	if dir := os.Getenv("TICKSCOPE_DATA_DIR"); dir != "" {
		return dir
	}
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "tickscope")
	}
	return filepath.Join(os.TempDir(), "tickscope")
}

// Path returns the default configuration file location.
func Path() string {
	return filepath.Join(DataDir(), "config.toml")
}

// Load reads the configuration at path, layered over defaults. An
// empty path means the default location; a missing file is not an
// error and yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = Path()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration for usable values.
func (c *Config) Validate() error {
	if c.UI.RulerInterval < 1 {
		return fmt.Errorf("ui.ruler_interval must be >= 1, got %d", c.UI.RulerInterval)
	}
	if c.UI.PanFraction < 1 {
		return fmt.Errorf("ui.pan_fraction must be >= 1, got %d", c.UI.PanFraction)
	}
	if c.Watch.DebounceMs < 0 {
		return fmt.Errorf("watch.debounce_ms must not be negative, got %d", c.Watch.DebounceMs)
	}
	if c.Session.Enabled && c.Session.Path == "" {
		return fmt.Errorf("session.path must be set when session.enabled")
	}
	return nil
}
