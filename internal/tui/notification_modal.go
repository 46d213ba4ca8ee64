package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"github.com/hay-kot/sooner/internal/core/notify"
	"github.com/hay-kot/sooner/internal/core/styles"
)

const (
	notifyModalWidthPct  = 65
	notifyModalMinWidth  = 60
	notifyModalMaxHeight = 24
	notifyModalMargin    = 4
	notifyModalChrome    = 7 // title + divider + help + border + padding

	fallbackWidth  = 80
	fallbackHeight = 24
)

// NotificationModal lists every notification the hub still retains,
// including closed ones waiting for cleanup.
type NotificationModal struct {
	viewport viewport.Model
	width    int
	height   int
	count    int
}

// NewNotificationModal creates a history modal sized for the terminal.
func NewNotificationModal(width, height int) *NotificationModal {
	if width <= 0 {
		width = fallbackWidth
	}
	if height <= 0 {
		height = fallbackHeight
	}

	modalWidth := calcNotificationModalWidth(width)
	modalHeight := calcNotificationModalHeight(height)

	return &NotificationModal{
		viewport: viewport.New(modalWidth-6, modalHeight-notifyModalChrome), // border + padding
		width:    width,
		height:   height,
	}
}

// SetNotifications replaces the listed records, newest first.
func (m *NotificationModal) SetNotifications(snap []notify.Notification) {
	m.count = len(snap)
	if len(snap) == 0 {
		m.viewport.SetContent(styles.TextMutedStyle.Render("No notifications"))
		return
	}

	var b strings.Builder
	for i, n := range snap {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(formatNotification(n))
	}
	m.viewport.SetContent(b.String())
}

// Len returns how many records are listed.
func (m *NotificationModal) Len() int {
	return m.count
}

func formatNotification(n notify.Notification) string {
	ts := styles.TextMutedStyle.Render(n.CreatedAt.Format("15:04:05"))

	icon := styles.VariantIcon(n.Variant)
	if icon == "" {
		icon = "…"
	}

	state := styles.PassStyle.Render("open")
	if !n.Open {
		state = styles.TextMutedStyle.Render("closed")
	}

	return fmt.Sprintf("%s %s %s %s %s",
		ts, icon, styles.ToastTitleStyle.Render(n.Title),
		styles.TextMutedStyle.Render("("+n.Duration.String()+")"), state)
}

// ScrollUp scrolls the viewport up.
func (m *NotificationModal) ScrollUp() {
	m.viewport.ScrollUp(1)
}

// ScrollDown scrolls the viewport down.
func (m *NotificationModal) ScrollDown() {
	m.viewport.ScrollDown(1)
}

// View renders the modal centered in the terminal.
func (m *NotificationModal) View() string {
	modalWidth := calcNotificationModalWidth(m.width)

	scrollInfo := ""
	if m.viewport.TotalLineCount() > m.viewport.VisibleLineCount() {
		scrollInfo = styles.TextMutedStyle.Render(
			fmt.Sprintf(" (%.0f%%)", m.viewport.ScrollPercent()*100),
		)
	}

	divider := styles.DividerStyle.Render(strings.Repeat("─", modalWidth-6))
	content := lipgloss.JoinVertical(
		lipgloss.Left,
		styles.ModalTitleStyle.Render(fmt.Sprintf("Notifications %d", m.count)+scrollInfo),
		divider,
		m.viewport.View(),
		styles.HelpStyle.Render("[j/k] scroll  [D] clear all  [h/esc] close"),
	)

	modal := styles.ModalStyle.
		Width(modalWidth).
		Render(content)

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal)
}

func calcNotificationModalWidth(termWidth int) int {
	available := max(termWidth-notifyModalMargin, 1)
	target := termWidth * notifyModalWidthPct / 100
	return min(max(target, notifyModalMinWidth), available)
}

func calcNotificationModalHeight(termHeight int) int {
	return max(min(termHeight-notifyModalMargin, notifyModalMaxHeight), notifyModalChrome+1)
}
