package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muurk/weathersync/internal/discovery"
)

// ScanFunc performs one discovery pass.
type ScanFunc func(ctx context.Context) ([]*discovery.Companion, error)

type scanCompleteMsg struct {
	companions []*discovery.Companion
	err        error
}

type scanTickMsg time.Time

// ScanModel shows a spinner and a time-based progress bar while a
// discovery pass runs, then quits.
type ScanModel struct {
	Companions []*discovery.Companion
	Err        error
	Done       bool

	scan    ScanFunc
	timeout time.Duration
	started time.Time
	ctx     context.Context
	cancel  context.CancelFunc
	spinner spinner.Model
	bar     progress.Model
	width   int
	timeNow func() time.Time
}

// NewScanModel creates a scan screen that runs scan once with the timeout.
func NewScanModel(scan ScanFunc, timeout time.Duration) ScanModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 40

	ctx, cancel := context.WithCancel(context.Background())
	return ScanModel{
		scan:    scan,
		timeout: timeout,
		ctx:     ctx,
		cancel:  cancel,
		spinner: s,
		bar:     bar,
		width:   GetTerminalWidth(),
		timeNow: time.Now,
	}
}

// Init starts the scan, the spinner and the progress ticker
func (m ScanModel) Init() tea.Cmd {
	scan, ctx := m.scan, m.ctx
	return tea.Batch(
		func() tea.Msg {
			companions, err := scan(ctx)
			return scanCompleteMsg{companions: companions, err: err}
		},
		m.spinner.Tick,
		tickProgress(),
	)
}

func tickProgress() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(t time.Time) tea.Msg { return scanTickMsg(t) })
}

// Update handles messages and updates the model
func (m ScanModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.started.IsZero() {
		m.started = m.timeNow()
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = clampWidth(msg.Width)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			m.cancel()
			m.Done = true
			return m, tea.Quit
		}

	case scanCompleteMsg:
		m.cancel()
		m.Companions = msg.companions
		m.Err = msg.err
		m.Done = true
		return m, tea.Quit

	case scanTickMsg:
		if m.Done {
			return m, nil
		}
		return m, tickProgress()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// Fraction returns how much of the timeout has elapsed, capped at 1.
func (m ScanModel) Fraction() float64 {
	if m.timeout <= 0 || m.started.IsZero() {
		return 0
	}
	f := float64(m.timeNow().Sub(m.started)) / float64(m.timeout)
	if f > 1 {
		return 1
	}
	return f
}

// View renders the scan screen
func (m ScanModel) View() string {
	if m.Done {
		return ""
	}

	title := fmt.Sprintf("%s SEARCHING FOR COMPANIONS", m.spinner.View())
	content := lipgloss.JoinVertical(lipgloss.Center,
		"",
		HeaderTitleStyle.Render(title),
		"",
		m.bar.ViewAs(m.Fraction()),
		"",
		HintStyle.Render("Browsing "+discovery.ServiceType+" on the local network"),
		"",
	)
	return lipgloss.Place(m.width, 0, lipgloss.Center, lipgloss.Top, content)
}

// RenderCompanions renders discovery results as a success box, or an error
// box with troubleshooting hints when nothing was found.
func RenderCompanions(companions []*discovery.Companion, err error, width int) string {
	width = clampWidth(width)

	if err != nil || len(companions) == 0 {
		title := "No companions found"
		if err != nil {
			title = "Scan failed: " + err.Error()
		}
		return RenderErrorBox(title, []string{
			"Ensure the companion app is running",
			"Check both devices are on the same network",
			"Allow mDNS (UDP port 5353) through the firewall",
			"Pass --url to connect without discovery",
		}, width)
	}

	details := make([][2]string, 0, len(companions))
	for _, c := range companions {
		details = append(details, [2]string{c.Name, c.URL()})
	}
	return RenderSuccessBox(fmt.Sprintf("Found %d companion(s)", len(companions)), details, width)
}

// RenderSuccessBox renders a success result box with ordered details
func RenderSuccessBox(title string, details [][2]string, width int) string {
	lines := []string{"", SuccessTitleStyle.Render(SuccessMarker + "  " + title), ""}
	keyStyle := ResultKeyStyle.Width(keyColumnWidth(details))
	for _, kv := range details {
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top,
			keyStyle.Render(kv[0]+":"),
			ResultValueStyle.Render(kv[1]),
		))
	}
	lines = append(lines, "")
	return SuccessBoxStyle(width).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// keyColumnWidth fits the longest key plus its colon and one space.
func keyColumnWidth(details [][2]string) int {
	w := 0
	for _, kv := range details {
		w = max(w, lipgloss.Width(kv[0]+":")+1)
	}
	return w
}

// RenderErrorBox renders an error result box with troubleshooting hints
func RenderErrorBox(title string, hints []string, width int) string {
	lines := []string{"", ErrorTitleStyle.Render(FailureMarker + "  " + title), ""}
	for _, hint := range hints {
		lines = append(lines, HintStyle.Render("• "+hint))
	}
	lines = append(lines, "")
	return ErrorBoxStyle(width).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
