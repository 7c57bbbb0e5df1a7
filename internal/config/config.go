// Package config handles configuration loading from files, defaults, and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/mvidal/tripline/internal/timeline"
)

// Config holds the application configuration.
type Config struct {
	Trip     TripConfig     `toml:"trip"`
	History  HistoryConfig  `toml:"history"`
	Geocoder GeocoderConfig `toml:"geocoder"`
	Storage  StorageConfig  `toml:"storage"`
	UI       UIConfig       `toml:"ui"`
}

// TripConfig holds defaults applied when creating trips and locations.
type TripConfig struct {
	DefaultSlot     string `toml:"default_slot"`     // "morning", "afternoon", "evening"
	DefaultDuration int    `toml:"default_duration"` // in slots, >= 1
}

// HistoryConfig holds undo/redo settings.
type HistoryConfig struct {
	DebounceMS int `toml:"debounce_ms"` // quiet window before a snapshot is committed
}

// GeocoderConfig holds reverse-geocoding settings.
type GeocoderConfig struct {
	BaseURL   string `toml:"base_url"`
	TimeoutMS int    `toml:"timeout_ms"`
}

// StorageConfig holds database settings.
type StorageConfig struct {
	DBPath string `toml:"db_path"`
}

// UIConfig holds TUI settings.
type UIConfig struct {
	Theme   string `toml:"theme"` // "mocha", "macchiato", "frappe", "latte"
	NoColor bool   `toml:"no_color"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Trip: TripConfig{
			DefaultSlot:     string(timeline.SlotMorning),
			DefaultDuration: 1,
		},
		History: HistoryConfig{
			DebounceMS: 1000,
		},
		Geocoder: GeocoderConfig{
			BaseURL:   "https://nominatim.openstreetmap.org",
			TimeoutMS: 5000,
		},
		Storage: StorageConfig{
			DBPath: defaultDBPath(),
		},
		UI: UIConfig{
			Theme: "frappe",
		},
	}
}

// defaultDBPath returns the default database path.
func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "tripline.db"
	}
	return filepath.Join(home, ".local", "share", "tripline", "tripline.db")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "tripline", "config.toml")
}

// Load loads configuration from the default path, merging with defaults and env vars.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from the specified path.
// It starts with defaults, overlays file config if it exists, then applies env overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	// Try to load from file (not an error if it doesn't exist)
	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	// Expand paths
	cfg.Storage.DBPath = expandPath(cfg.Storage.DBPath)

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads config from a file if it exists.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // File doesn't exist, use defaults
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Environment variables take precedence over file config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("TRIPLINE_DEFAULT_SLOT"); v != "" {
		cfg.Trip.DefaultSlot = v
	}
	if v := os.Getenv("TRIPLINE_DEFAULT_DURATION"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Trip.DefaultDuration = n
		}
	}
	if v := os.Getenv("TRIPLINE_HISTORY_DEBOUNCE_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.History.DebounceMS = n
		}
	}
	if v := os.Getenv("TRIPLINE_GEOCODER_BASE_URL"); v != "" {
		cfg.Geocoder.BaseURL = v
	}
	if v := os.Getenv("TRIPLINE_DB_PATH"); v != "" {
		cfg.Storage.DBPath = v
	}
	if v := os.Getenv("TRIPLINE_UI_THEME"); v != "" {
		cfg.UI.Theme = v
	}
	if v := os.Getenv("TRIPLINE_NO_COLOR"); v != "" {
		cfg.UI.NoColor = v == "1" || strings.EqualFold(v, "true")
	}
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if !timeline.Slot(c.Trip.DefaultSlot).Valid() {
		return fmt.Errorf("invalid default_slot: %q", c.Trip.DefaultSlot)
	}
	if c.Trip.DefaultDuration < 1 {
		return errors.New("default_duration must be at least 1")
	}
	if c.History.DebounceMS < 0 {
		return errors.New("debounce_ms must not be negative")
	}
	if c.Geocoder.BaseURL == "" {
		return errors.New("geocoder base_url must be set")
	}
	if c.Geocoder.TimeoutMS <= 0 {
		return errors.New("geocoder timeout_ms must be positive")
	}
	if c.Storage.DBPath == "" {
		return errors.New("db_path must be set")
	}
	return nil
}

// Debounce returns the history debounce window as a duration.
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.History.DebounceMS) * time.Millisecond
}

// GeocoderTimeout returns the geocoder request timeout as a duration.
func (c *Config) GeocoderTimeout() time.Duration {
	return time.Duration(c.Geocoder.TimeoutMS) * time.Millisecond
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
