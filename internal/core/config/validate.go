package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hay-kot/criterio"

	"github.com/hay-kot/sooner/internal/core/notify"
	"github.com/hay-kot/sooner/internal/core/styles"
)

// Validate checks that the configuration is valid. Errors are returned as
// criterio.FieldErrors keyed by the YAML path of the offending value.
func (c *Config) Validate() error {
	return criterio.ValidateStruct(
		c.validateToasts(),
		c.validateTUI(),
		c.validateScenarios(),
	)
}

func (c *Config) validateToasts() error {
	return criterio.ValidateStruct(
		criterio.Run("toasts.capacity", c.Toasts.Capacity, func(n int) error {
			if n < 1 {
				return fmt.Errorf("must be at least 1, got %d", n)
			}
			return nil
		}),
		criterio.Run("toasts.cleanup_delay", c.Toasts.CleanupDelay, func(d notify.Duration) error {
			if !d.IsFinite() {
				return fmt.Errorf("must be a positive finite duration, got %s", d)
			}
			return nil
		}),
	)
}

func (c *Config) validateTUI() error {
	return criterio.ValidateStruct(
		criterio.Run("tui.theme", c.TUI.Theme, func(name string) error {
			if _, ok := styles.GetPalette(name); !ok {
				return fmt.Errorf("unknown theme %q, want one of: %s", name, strings.Join(styles.ThemeNames(), ", "))
			}
			return nil
		}),
		criterio.Run("tui.width", c.TUI.Width, func(w int) error {
			if w < MinWidth || w > MaxWidth {
				return fmt.Errorf("must be between %d and %d, got %d", MinWidth, MaxWidth, w)
			}
			return nil
		}),
	)
}

func (c *Config) validateScenarios() error {
	var errs criterio.FieldErrorsBuilder
	for i, pattern := range c.Scenarios.Paths {
		field := fmt.Sprintf("scenarios.paths[%d]", i)
		switch {
		case strings.TrimSpace(pattern) == "":
			errs = errs.Append(field, fmt.Errorf("pattern is empty"))
		case !doublestar.ValidatePattern(pattern):
			errs = errs.Append(field, fmt.Errorf("invalid glob %q", pattern))
		case slices.Index(c.Scenarios.Paths, pattern) != i:
			errs = errs.Append(field, fmt.Errorf("duplicate pattern %q", pattern))
		}
	}
	return errs.ToError()
}
