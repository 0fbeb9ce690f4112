// Package config provides configuration loading and access for the particle playground.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all application configuration parameters.
type Config struct {
	Screen       ScreenConfig       `yaml:"screen"`
	ActivePreset string             `yaml:"active_preset"`
	Presets      []ParticleConfig   `yaml:"presets"`
	HandTracking HandTrackingConfig `yaml:"hand_tracking"`
	Generator    GeneratorConfig    `yaml:"generator"`
	Storage      StorageConfig      `yaml:"storage"`
	Telemetry    TelemetryConfig    `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	TargetFPS int    `yaml:"target_fps"`
	Title     string `yaml:"title"`
}

// HandTrackingConfig holds settings for the websocket hand-tracking feed.
type HandTrackingConfig struct {
	Enabled        bool    `yaml:"enabled"`
	Listen         string  `yaml:"listen"`          // host:port for the /hands endpoint
	PinchThreshold float64 `yaml:"pinch_threshold"` // normalized thumb-index distance
	Mirror         bool    `yaml:"mirror"`          // flip x so the feed behaves like a mirror
}

// GeneratorConfig holds settings for the prompt-driven preset generator.
type GeneratorConfig struct {
	Model     string        `yaml:"model"`
	APIKeyEnv string        `yaml:"api_key_env"` // environment variable holding the API key
	Timeout   time.Duration `yaml:"timeout"`
}

// StorageConfig holds the saved preset database location.
type StorageConfig struct {
	DBPath string `yaml:"db_path"` // empty disables saving
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         int `yaml:"stats_window"` // frames per stats window
	PerfCollectorWindow int `yaml:"perf_collector_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	ScreenW32   float32        // Screen.Width as float32
	ScreenH32   float32        // Screen.Height as float32
	PresetIndex map[string]int // preset name -> index in Presets
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file.
		// A presets list in the file replaces the built-in library wholesale.
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.computeDerived(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() error {
	if c.Screen.Width <= 0 || c.Screen.Height <= 0 {
		return fmt.Errorf("screen size must be positive, got %dx%d", c.Screen.Width, c.Screen.Height)
	}
	if len(c.Presets) == 0 {
		return fmt.Errorf("preset library is empty")
	}

	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)

	c.Derived.PresetIndex = make(map[string]int, len(c.Presets))
	for i := range c.Presets {
		p := &c.Presets[i]
		if p.ID == "" {
			p.ID = slugify(p.Name)
		}
		c.Derived.PresetIndex[p.Name] = i
	}

	if c.ActivePreset == "" {
		c.ActivePreset = c.Presets[0].Name
	}
	if _, ok := c.Derived.PresetIndex[c.ActivePreset]; !ok {
		return fmt.Errorf("active preset %q is not in the preset library", c.ActivePreset)
	}

	if c.Telemetry.StatsWindow < 1 {
		c.Telemetry.StatsWindow = 600
	}
	return nil
}

// Preset returns a copy of the named preset from the library.
func (c *Config) Preset(name string) (ParticleConfig, bool) {
	i, ok := c.Derived.PresetIndex[name]
	if !ok {
		return ParticleConfig{}, false
	}
	return c.Presets[i].Clone(), true
}

// DefaultPreset returns a copy of the active preset.
func (c *Config) DefaultPreset() ParticleConfig {
	p, ok := c.Preset(c.ActivePreset)
	if !ok {
		return c.Presets[0].Clone()
	}
	return p
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
