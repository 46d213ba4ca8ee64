// Package styles holds the lipgloss palettes and styles shared by the CLI and
// the demo TUI.
package styles

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/hay-kot/sooner/internal/core/notify"
)

// CurrentPalette holds the active theme palette.
var CurrentPalette Palette

// Exported color aliases for convenience.
var (
	ColorPrimary    lipgloss.Color
	ColorSecondary  lipgloss.Color
	ColorForeground lipgloss.Color
	ColorMuted      lipgloss.Color
	ColorBackground lipgloss.Color
	ColorSurface    lipgloss.Color
	ColorSuccess    lipgloss.Color
	ColorWarning    lipgloss.Color
	ColorError      lipgloss.Color
)

// Style exports.
var (
	// CLI styles.
	CommandHeaderStyle lipgloss.Style
	DividerStyle       lipgloss.Style
	PassStyle          lipgloss.Style
	FailStyle          lipgloss.Style

	// Demo chrome.
	TitleStyle lipgloss.Style
	HelpStyle  lipgloss.Style
	KeyStyle   lipgloss.Style

	// History modal.
	ModalStyle      lipgloss.Style
	ModalTitleStyle lipgloss.Style
	TextMutedStyle  lipgloss.Style

	// Toast parts.
	ToastTitleStyle       lipgloss.Style
	ToastDescriptionStyle lipgloss.Style
	ToastActionStyle      lipgloss.Style
	ToastDefaultStyle     lipgloss.Style
	ToastDestructiveStyle lipgloss.Style
	ToastSuccessStyle     lipgloss.Style
	ToastLoadingStyle     lipgloss.Style
	ToastQuoteStyle       lipgloss.Style
	ToastInteractiveStyle lipgloss.Style
	ToastSpinnerStyle     lipgloss.Style
)

// UseTheme activates the named built-in theme.
func UseTheme(name string) error {
	p, ok := GetPalette(name)
	if !ok {
		return fmt.Errorf("unknown theme %q, want one of: %s", name, strings.Join(ThemeNames(), ", "))
	}
	SetTheme(p)
	return nil
}

// SetTheme sets the active palette and rebuilds all global styles.
func SetTheme(p Palette) {
	CurrentPalette = p

	ColorPrimary = p.Primary
	ColorSecondary = p.Secondary
	ColorForeground = p.Foreground
	ColorMuted = p.Muted
	ColorBackground = p.Background
	ColorSurface = p.Surface
	ColorSuccess = p.Success
	ColorWarning = p.Warning
	ColorError = p.Error

	CommandHeaderStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)
	DividerStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)
	PassStyle = lipgloss.NewStyle().Foreground(ColorSuccess)
	FailStyle = lipgloss.NewStyle().Foreground(ColorError).Bold(true)

	TitleStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true).
		MarginBottom(1)
	HelpStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)
	KeyStyle = lipgloss.NewStyle().
		Foreground(ColorSecondary).
		Bold(true)

	ModalStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorPrimary).
		Padding(1, 2)
	ModalTitleStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)
	TextMutedStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)

	ToastTitleStyle = lipgloss.NewStyle().
		Foreground(ColorForeground).
		Bold(true)
	ToastDescriptionStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)
	ToastActionStyle = lipgloss.NewStyle().
		Padding(0, 1).
		Background(ColorPrimary).
		Foreground(ColorBackground).
		Bold(true)
	ToastSpinnerStyle = lipgloss.NewStyle().
		Foreground(ColorSecondary)

	toast := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1)

	ToastDefaultStyle = toast.BorderForeground(ColorPrimary)
	ToastDestructiveStyle = toast.BorderForeground(ColorError)
	ToastSuccessStyle = toast.BorderForeground(ColorSuccess)
	ToastLoadingStyle = toast.BorderForeground(ColorSecondary)
	ToastInteractiveStyle = toast.BorderForeground(ColorWarning)
	ToastQuoteStyle = lipgloss.NewStyle().
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(ColorMuted).
		Italic(true).
		Padding(0, 1)
}

// ToastStyle returns the frame style for a toast of the given variant.
func ToastStyle(v notify.Variant) lipgloss.Style {
	switch v {
	case notify.VariantDestructive:
		return ToastDestructiveStyle
	case notify.VariantSuccess:
		return ToastSuccessStyle
	case notify.VariantLoading:
		return ToastLoadingStyle
	case notify.VariantQuote:
		return ToastQuoteStyle
	case notify.VariantInteractive:
		return ToastInteractiveStyle
	default:
		return ToastDefaultStyle
	}
}

// nolint:gochecknoinits // bootstrap default theme before any style is accessed.
func init() {
	SetTheme(themes[DefaultTheme])
}
