package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muurk/weathersync/internal/display"
)

// SignalMsg delivers a display signal into the watch program.
type SignalMsg struct {
	Signal display.Signal
}

// LinkStatusMsg reports a companion link change.
type LinkStatusMsg struct {
	Connected bool
}

// WatchActions are the operator requests the watch view can trigger. Each
// must be safe to call from the UI goroutine.
type WatchActions struct {
	Refresh  func()
	Forecast func()
}

// watchKeyMap defines key bindings for the watch screen
type watchKeyMap struct {
	Refresh  key.Binding
	Forecast key.Binding
	Quit     key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k watchKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Refresh, k.Forecast, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k watchKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Refresh, k.Forecast, k.Quit},
	}
}

// WatchModel shows the weather panel, a spinner while a request is
// outstanding, and the link status.
type WatchModel struct {
	Panel     *display.Panel
	URL       string
	Connected bool
	Quitting  bool
	Width     int

	actions WatchActions
	spinner spinner.Model
	help    help.Model
	keys    watchKeyMap
}

// NewWatchModel creates a watch screen over panel.
func NewWatchModel(panel *display.Panel, url string, actions WatchActions) WatchModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	keys := watchKeyMap{
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Forecast: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "forecast"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}

	return WatchModel{
		Panel:   panel,
		URL:     url,
		Width:   GetTerminalWidth(),
		actions: actions,
		spinner: s,
		help:    help.New(),
		keys:    keys,
	}
}

// Init starts the spinner
func (m WatchModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles messages and updates the model
func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = clampWidth(msg.Width)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.Panel.Render(display.Teardown{})
			m.Quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Refresh):
			if m.actions.Refresh != nil {
				m.actions.Refresh()
			}
		case key.Matches(msg, m.keys.Forecast):
			if m.actions.Forecast != nil {
				m.actions.Forecast()
			}
		}

	case SignalMsg:
		m.Panel.Render(msg.Signal)

	case LinkStatusMsg:
		m.Connected = msg.Connected

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the watch screen
func (m WatchModel) View() string {
	if m.Quitting {
		return ""
	}

	view := m.Panel.View()

	var status string
	switch {
	case !m.Connected:
		status = lipgloss.NewStyle().Foreground(WarningColor).Render(m.spinner.View() + " connecting to companion")
	case view.Awaiting:
		status = SpinnerStyle.Render(m.spinner.View() + " waiting for companion")
	default:
		status = lipgloss.NewStyle().Foreground(SuccessColor).Render(SuccessMarker + " connected")
	}

	var b strings.Builder
	b.WriteString(RenderHeader("weathersync", m.URL))
	b.WriteString("\n\n")
	b.WriteString(RenderPanel(view, m.Width))
	b.WriteString("\n  ")
	b.WriteString(status)
	b.WriteString("\n\n  ")
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n")
	return b.String()
}

// MessageSender is the part of *tea.Program a ProgramSink needs.
type MessageSender interface {
	Send(tea.Msg)
}

// ProgramSink forwards display signals into a running Bubble Tea program.
type ProgramSink struct {
	program MessageSender
}

// NewProgramSink creates a sink feeding p.
func NewProgramSink(p MessageSender) *ProgramSink {
	return &ProgramSink{program: p}
}

// Render implements display.Sink
func (s *ProgramSink) Render(sig display.Signal) {
	s.program.Send(SignalMsg{Signal: sig})
}
