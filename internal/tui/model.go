// Package tui implements the interactive toast demo on bubbletea.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/hay-kot/sooner/internal/core/logging"
	"github.com/hay-kot/sooner/internal/core/notify"
	"github.com/hay-kot/sooner/internal/core/styles"
)

// loadingDelay is how long the simulated work behind the loading key takes.
const loadingDelay = 2 * time.Second

var defaultQuotes = []string{
	"Simplicity is prerequisite for reliability.",
	"Clear is better than clever.",
	"A little copying is better than a little dependency.",
	"Don't communicate by sharing memory, share memory by communicating.",
	"Errors are values.",
}

type trackDoneMsg struct {
	err error
}

// Deps are the collaborators the model needs.
type Deps struct {
	Hub *notify.Hub
}

// Opts tune the demo.
type Opts struct {
	// Width of each toast in cells.
	Width  int
	Quotes []string
}

// Model is the demo's bubbletea model. It raises notifications on key
// presses and renders whatever the hub reports.
type Model struct {
	hub        *notify.Hub
	buffer     *NotificationBuffer
	controller *ToastController
	view       *ToastView
	spinner    spinner.Model
	help       help.Model
	keys       keyMap
	log        zerolog.Logger

	history  *NotificationModal
	quotes   []string
	quoteIdx int
	width    int
	height   int

	unsubscribe func()
}

// New builds a model subscribed to deps.Hub. Call Close once the program
// exits.
func New(deps Deps, opts Opts) Model {
	buffer := NewNotificationBuffer()
	controller := NewToastController(deps.Hub)

	s := spinner.New()
	s.Spinner = spinner.Dot

	quotes := opts.Quotes
	if len(quotes) == 0 {
		quotes = defaultQuotes
	}

	return Model{
		hub:         deps.Hub,
		buffer:      buffer,
		controller:  controller,
		view:        NewToastView(controller, opts.Width),
		spinner:     s,
		help:        help.New(),
		keys:        defaultKeyMap(),
		log:         logging.Component("tui"),
		quotes:      quotes,
		unsubscribe: deps.Hub.Subscribe(buffer.Push),
	}
}

// Close detaches the model from the hub.
func (m Model) Close() {
	m.unsubscribe()
}

func (m Model) Init() tea.Cmd {
	return m.buffer.WaitForSignal()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		if m.history != nil {
			m.history = m.openHistory()
		}
		return m, nil

	case drainNotificationsMsg:
		return m.handleDrain()

	case spinner.TickMsg:
		if !m.controller.HasLoading() {
			m.controller.SetTicking(false)
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case trackDoneMsg:
		if msg.err != nil {
			m.log.Warn().Err(msg.err).Msg("tracked work failed")
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleDrain() (tea.Model, tea.Cmd) {
	if snap, ok := m.buffer.Drain(); ok {
		m.controller.Sync(snap)
		if m.history != nil {
			m.history.SetNotifications(snap)
		}
	}

	cmds := []tea.Cmd{m.buffer.WaitForSignal()}
	if m.controller.HasLoading() && !m.controller.Ticking() {
		m.controller.SetTicking(true)
		cmds = append(cmds, m.spinner.Tick)
	}
	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.history != nil {
		return m.handleHistoryKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.History):
		m.history = m.openHistory()

	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Info):
		m.hub.Info(notify.Options{
			Title:       "Heads up",
			Description: "Something happened at " + m.hub.Timers().Clock().Now().Format(time.Kitchen) + ".",
		})

	case key.Matches(msg, m.keys.Success):
		m.hub.Success(notify.Options{Title: "Saved", Description: "Your changes were saved."})

	case key.Matches(msg, m.keys.Error):
		m.hub.Error(notify.Options{Title: "Something went wrong", Description: "The request could not be completed."})

	case key.Matches(msg, m.keys.Loading):
		return m, m.track()

	case key.Matches(msg, m.keys.Quote):
		quote := m.quotes[m.quoteIdx%len(m.quotes)]
		m.quoteIdx++
		m.hub.Quote(notify.Options{Title: quote, Duration: notify.Milliseconds(8000)})

	case key.Matches(msg, m.keys.Interactive):
		hub := m.hub
		m.hub.Interactive(notify.Options{
			Title:       "Message archived",
			Description: "Press enter to undo.",
			Duration:    notify.Milliseconds(10000),
			Action: notify.Button{
				Text:    "Undo",
				OnPress: func() { hub.Info(notify.Options{Title: "Archive undone"}) },
			},
		})

	case key.Matches(msg, m.keys.Action):
		m.controller.InvokeAction()

	case key.Matches(msg, m.keys.Dismiss):
		m.controller.Dismiss()

	case key.Matches(msg, m.keys.DismissAll):
		m.controller.DismissAll()
	}

	return m, nil
}

func (m Model) handleHistoryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit
	case key.Matches(msg, m.keys.Close):
		m.history = nil
	case key.Matches(msg, m.keys.ScrollUp):
		m.history.ScrollUp()
	case key.Matches(msg, m.keys.ScrollDown):
		m.history.ScrollDown()
	case key.Matches(msg, m.keys.Clear):
		m.hub.Clear()
	}
	return m, nil
}

func (m Model) openHistory() *NotificationModal {
	modal := NewNotificationModal(m.width, m.height)
	modal.SetNotifications(m.hub.Snapshot())
	return modal
}

// track raises a loading toast for simulated work and converts it to a
// success toast once the work finishes.
func (m Model) track() tea.Cmd {
	hub := m.hub
	clock := hub.Timers().Clock()

	return func() tea.Msg {
		err := hub.Track(context.Background(),
			notify.Options{Title: "Saving", Description: "Writing changes..."},
			func(ctx context.Context) error {
				select {
				case <-clock.After(loadingDelay):
					return nil
				case <-ctx.Done():
					return ctx.Err()
				}
			},
			func(err error) notify.Patch {
				d := hub.DefaultDuration()
				if err != nil {
					return notify.Patch{
						Title:       notify.Ptr("Save failed"),
						Description: notify.Ptr(err.Error()),
						Variant:     notify.Ptr(notify.VariantDestructive),
						Duration:    &d,
					}
				}
				return notify.Patch{
					Title:       notify.Ptr("Saved"),
					Description: notify.Ptr("Finished in " + loadingDelay.String() + "."),
					Variant:     notify.Ptr(notify.VariantSuccess),
					Duration:    &d,
				}
			},
		)
		return trackDoneMsg{err: err}
	}
}

func (m Model) View() string {
	if m.history != nil {
		return m.history.View()
	}

	header := styles.TitleStyle.Render("sooner")
	body := lipgloss.JoinVertical(lipgloss.Left, header, m.help.FullHelpView(m.keys.FullHelp()))
	return m.view.Overlay(body, m.width, m.spinner.View()) + "\n"
}
