// Package config handles configuration loading and validation for sooner.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/hay-kot/sooner/internal/core/notify"
	"github.com/hay-kot/sooner/internal/core/styles"
)

// EnvPrefix is prepended to every environment override.
const EnvPrefix = "SOONER_"

// Defaults for the TUI section.
const (
	DefaultWidth = 50
	MinWidth     = 20
	MaxWidth     = 200
)

// Config holds the application configuration.
type Config struct {
	Toasts    Toasts    `yaml:"toasts"    envPrefix:"TOASTS_"`
	TUI       TUI       `yaml:"tui"       envPrefix:"TUI_"`
	Scenarios Scenarios `yaml:"scenarios" envPrefix:"SCENARIOS_"`
}

// Toasts configures the notification hub.
type Toasts struct {
	Capacity        int             `yaml:"capacity"         env:"CAPACITY"`
	DefaultDuration notify.Duration `yaml:"default_duration" env:"DEFAULT_DURATION"`
	CleanupDelay    notify.Duration `yaml:"cleanup_delay"    env:"CLEANUP_DELAY"`
}

// TUI configures the demo presentation.
type TUI struct {
	Theme string `yaml:"theme" env:"THEME"`
	Width int    `yaml:"width" env:"WIDTH"`
}

// Scenarios lists the glob patterns searched when replay is run without arguments.
type Scenarios struct {
	Paths []string `yaml:"paths" env:"PATHS" envSeparator:","`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Toasts: Toasts{
			Capacity:        notify.DefaultCapacity,
			DefaultDuration: notify.DefaultDuration,
			CleanupDelay:    notify.DefaultCleanupDelay,
		},
		TUI: TUI{
			Theme: styles.DefaultTheme,
			Width: DefaultWidth,
		},
		Scenarios: Scenarios{
			Paths: []string{"scenarios/**/*.yaml"},
		},
	}
}

// HubOptions converts the toast settings into hub options.
func (c *Config) HubOptions() []notify.Option {
	return []notify.Option{
		notify.WithCapacity(c.Toasts.Capacity),
		notify.WithDefaultDuration(c.Toasts.DefaultDuration),
		notify.WithCleanupDelay(c.Toasts.CleanupDelay),
	}
}

// Load reads configuration from configPath, then applies a .env file next to
// it and SOONER_* environment overrides. A missing config file yields the
// defaults.
func Load(configPath string) (*Config, error) {
	return load(configPath, env.ToMap(os.Environ()))
}

func load(configPath string, environ map[string]string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			// defaults only
		case err != nil:
			return nil, fmt.Errorf("read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	dotenv, err := readDotenv(configPath)
	if err != nil {
		return nil, err
	}
	// Process environment wins over .env values.
	for k, v := range environ {
		dotenv[k] = v
	}

	if err := env.ParseWithOptions(&cfg, env.Options{
		Prefix:      EnvPrefix,
		Environment: dotenv,
	}); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// readDotenv reads the .env file beside configPath, or in the working
// directory when configPath is empty. A missing file is not an error.
func readDotenv(configPath string) (map[string]string, error) {
	path := ".env"
	if configPath != "" {
		path = filepath.Join(filepath.Dir(configPath), ".env")
	}

	vars, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return vars, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Toasts.Capacity == 0 {
		c.Toasts.Capacity = defaults.Toasts.Capacity
	}
	if c.Toasts.DefaultDuration == 0 {
		c.Toasts.DefaultDuration = defaults.Toasts.DefaultDuration
	}
	if c.Toasts.CleanupDelay == 0 {
		c.Toasts.CleanupDelay = defaults.Toasts.CleanupDelay
	}
	if c.TUI.Theme == "" {
		c.TUI.Theme = defaults.TUI.Theme
	}
	if c.TUI.Width == 0 {
		c.TUI.Width = defaults.TUI.Width
	}
}
