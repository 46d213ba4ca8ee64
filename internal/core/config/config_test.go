package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/sooner/internal/core/notify"
	"github.com/hay-kot/sooner/internal/core/styles"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := load(filepath.Join(t.TempDir(), "missing.yaml"), map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, notify.DefaultCapacity, cfg.Toasts.Capacity)
	assert.Equal(t, notify.DefaultDuration, cfg.Toasts.DefaultDuration)
	assert.Equal(t, notify.DefaultCleanupDelay, cfg.Toasts.CleanupDelay)
	assert.Equal(t, styles.DefaultTheme, cfg.TUI.Theme)
	assert.Equal(t, DefaultWidth, cfg.TUI.Width)
}

func TestLoad_YAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", `
toasts:
  capacity: 3
  default_duration: 3s
  cleanup_delay: 1500
tui:
  theme: gruvbox
  width: 60
scenarios:
  paths:
    - "testdata/**/*.yaml"
`)

	cfg, err := load(path, map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Toasts.Capacity)
	assert.Equal(t, notify.Milliseconds(3000), cfg.Toasts.DefaultDuration)
	assert.Equal(t, notify.Milliseconds(1500), cfg.Toasts.CleanupDelay)
	assert.Equal(t, "gruvbox", cfg.TUI.Theme)
	assert.Equal(t, 60, cfg.TUI.Width)
	assert.Equal(t, []string{"testdata/**/*.yaml"}, cfg.Scenarios.Paths)
}

func TestLoad_InfiniteDefaultDuration(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", "toasts:\n  default_duration: infinite\n")

	cfg, err := load(path, map[string]string{})
	require.NoError(t, err)
	assert.True(t, cfg.Toasts.DefaultDuration.IsInfinite())
}

func TestLoad_ZeroValuesFallBackToDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", "toasts:\n  capacity: 0\ntui:\n  theme: \"\"\n")

	cfg, err := load(path, map[string]string{})
	require.NoError(t, err)
	assert.Equal(t, notify.DefaultCapacity, cfg.Toasts.Capacity)
	assert.Equal(t, styles.DefaultTheme, cfg.TUI.Theme)
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", "toasts:\n  capacity: 3\n")

	cfg, err := load(path, map[string]string{
		"SOONER_TOASTS_CAPACITY":         "5",
		"SOONER_TOASTS_DEFAULT_DURATION": "250ms",
		"SOONER_TUI_THEME":               "catppuccin",
		"SOONER_SCENARIOS_PATHS":         "a/*.yaml,b/**/*.yaml",
	})
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Toasts.Capacity)
	assert.Equal(t, notify.Milliseconds(250), cfg.Toasts.DefaultDuration)
	assert.Equal(t, "catppuccin", cfg.TUI.Theme)
	assert.Equal(t, []string{"a/*.yaml", "b/**/*.yaml"}, cfg.Scenarios.Paths)
}

func TestLoad_Dotenv(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", "")
	writeFile(t, dir, ".env", "SOONER_TUI_WIDTH=80\nSOONER_TOASTS_CAPACITY=2\n")

	t.Run("applies values", func(t *testing.T) {
		cfg, err := load(path, map[string]string{})
		require.NoError(t, err)
		assert.Equal(t, 80, cfg.TUI.Width)
		assert.Equal(t, 2, cfg.Toasts.Capacity)
	})

	t.Run("process env wins", func(t *testing.T) {
		cfg, err := load(path, map[string]string{"SOONER_TUI_WIDTH": "100"})
		require.NoError(t, err)
		assert.Equal(t, 100, cfg.TUI.Width)
		assert.Equal(t, 2, cfg.Toasts.Capacity)
	})
}

func TestLoad_Errors(t *testing.T) {
	t.Run("malformed yaml", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "config.yaml", "toasts: [")
		_, err := load(path, map[string]string{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse config file")
	})

	t.Run("bad duration", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "config.yaml", "toasts:\n  default_duration: soon\n")
		_, err := load(path, map[string]string{})
		require.Error(t, err)
	})

	t.Run("bad env value", func(t *testing.T) {
		_, err := load("", map[string]string{"SOONER_TOASTS_CAPACITY": "lots"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse environment")
	})

	t.Run("invalid values", func(t *testing.T) {
		_, err := load("", map[string]string{"SOONER_TUI_WIDTH": "5"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid config")
	})
}

func TestHubOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Toasts.Capacity = 4
	cfg.Toasts.DefaultDuration = notify.Milliseconds(1200)

	h := notify.NewHub(cfg.HubOptions()...)
	defer h.Close()

	assert.Equal(t, 4, h.Capacity())
	assert.Equal(t, notify.Milliseconds(1200), h.DefaultDuration())
}
