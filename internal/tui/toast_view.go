package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/hay-kot/sooner/internal/core/notify"
	"github.com/hay-kot/sooner/internal/core/styles"
)

// ToastView renders the controller's toasts.
type ToastView struct {
	controller *ToastController
	width      int
}

func NewToastView(controller *ToastController, width int) *ToastView {
	if width <= 0 {
		width = defaultToastWidth
	}
	return &ToastView{controller: controller, width: width}
}

// View renders the toast stack newest first. spin is drawn in place of the
// icon on loading toasts.
func (v *ToastView) View(spin string) string {
	toasts := v.controller.Toasts()
	if len(toasts) == 0 {
		return ""
	}

	rendered := make([]string, 0, len(toasts))
	for _, n := range toasts {
		rendered = append(rendered, renderToast(n, spin, v.width))
	}
	return strings.Join(rendered, "\n")
}

func renderToast(n notify.Notification, spin string, width int) string {
	icon := styles.VariantIcon(n.Variant)
	if n.Variant == notify.VariantLoading {
		icon = styles.ToastSpinnerStyle.Render(spin)
	}

	title := n.Title
	if n.Variant == notify.VariantQuote && title != "" {
		title = "“" + title + "”"
	}

	lines := []string{strings.TrimSpace(icon + " " + styles.ToastTitleStyle.Render(title))}
	if n.Description != "" {
		lines = append(lines, styles.ToastDescriptionStyle.Render(n.Description))
	}
	if n.Action != nil {
		lines = append(lines, styles.ToastActionStyle.Render(n.Action.Label())+styles.HelpStyle.Render("  enter"))
	}

	return styles.ToastStyle(n.Variant).Width(width).Render(strings.Join(lines, "\n"))
}

// Overlay places the toast stack right-aligned beneath background.
func (v *ToastView) Overlay(background string, width int, spin string) string {
	toasts := v.View(spin)
	if toasts == "" {
		return background
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		background,
		lipgloss.PlaceHorizontal(max(width, lipgloss.Width(toasts)), lipgloss.Right, toasts),
	)
}
