package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muurk/weathersync/internal/discovery"
)

// companionItem wraps a Companion for use with bubbles/list
type companionItem struct {
	companion *discovery.Companion
}

// FilterValue matches on name, address and hostname
func (c companionItem) FilterValue() string {
	return c.companion.Name + " " + c.companion.IP + " " + c.companion.Hostname
}

// Title returns the companion name for list display
func (c companionItem) Title() string {
	return c.companion.Name
}

// Description returns the WebSocket URL and TXT version, if any
func (c companionItem) Description() string {
	if v := c.companion.GetMetadata("version"); v != "" {
		return fmt.Sprintf("%s • protocol %s", c.companion.URL(), v)
	}
	return c.companion.URL()
}

type pickerKeyMap struct {
	Choose key.Binding
	Manual key.Binding
	Skip   key.Binding
}

func (k pickerKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Choose, k.Manual, k.Skip}
}

func (k pickerKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Choose, k.Manual, k.Skip}}
}

// PickerModel lets the operator choose the default companion from the
// discovered ones, or type a URL by hand.
type PickerModel struct {
	// Chosen is the selected URL; empty when the operator skipped.
	Chosen string

	list       list.Model
	input      textinput.Model
	manualMode bool
	help       help.Model
	keys       pickerKeyMap
	width      int
}

// NewPickerModel lists companions for selection.
func NewPickerModel(companions []*discovery.Companion) PickerModel {
	items := make([]list.Item, len(companions))
	for i, c := range companions {
		items[i] = companionItem{companion: c}
	}

	width := GetTerminalWidth()
	l := list.New(items, list.NewDefaultDelegate(), width-4, 4+3*len(items))
	l.Title = "Choose the default companion"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(len(items) > 5)
	l.Styles.Title = HeaderTitleStyle

	input := textinput.New()
	input.Placeholder = "ws://192.168.1.20:8080/ws"
	input.CharLimit = 200
	input.Width = 40

	return PickerModel{
		list:  l,
		input: input,
		help:  help.New(),
		width: width,
		keys: pickerKeyMap{
			Choose: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "use as default")),
			Manual: key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "enter URL")),
			Skip:   key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "skip")),
		},
	}
}

// Init implements tea.Model
func (m PickerModel) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model
func (m PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = clampWidth(msg.Width)
		m.list.SetWidth(m.width - 4)
	}

	if m.manualMode {
		return m.updateManual(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		switch {
		case key.Matches(msg, m.keys.Skip):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Choose):
			if item, ok := m.list.SelectedItem().(companionItem); ok {
				m.Chosen = item.companion.URL()
				return m, tea.Quit
			}
		case key.Matches(msg, m.keys.Manual):
			m.manualMode = true
			m.input.SetValue("")
			return m, m.input.Focus()
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m PickerModel) updateManual(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc", "ctrl+c":
			m.manualMode = false
			m.input.Blur()
			return m, nil
		case "enter":
			value := strings.TrimSpace(m.input.Value())
			if strings.HasPrefix(value, "ws://") || strings.HasPrefix(value, "wss://") {
				m.Chosen = value
				return m, tea.Quit
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the picker
func (m PickerModel) View() string {
	if m.manualMode {
		return lipgloss.JoinVertical(lipgloss.Left,
			"",
			HeaderTitleStyle.Render("COMPANION URL"),
			"",
			m.input.View(),
			"",
			HintStyle.Render("enter to confirm • esc to go back"),
		)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.list.View(),
		"",
		m.help.View(m.keys),
	)
}
