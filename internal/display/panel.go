package display

import (
	"slices"

	"github.com/muurk/weathersync/internal/logging"
	"github.com/muurk/weathersync/internal/weather"
	"go.uber.org/zap"
)

// Status texts shown in place of the city
const (
	StatusEnableLocation = "Enable Location"
	StatusRequestFailed  = "Request Failed"
	NotAvailable         = "N/A"
)

// Panel is the display state fed by signals. It owns the icon resource and
// the temperature label: a new icon is loaded before the previous one is
// released, and everything is released on Teardown.
//
// Panel is not synchronized; feed it from one goroutine.
type Panel struct {
	icons *IconSet

	icon        *Icon
	temperature string
	city        string
	days        []weather.ForecastDay
	awaiting    bool
	closed      bool
	last        Signal
}

// PanelView is a read-only copy of the panel for rendering.
type PanelView struct {
	Icon        *Icon
	Temperature string
	City        string
	Days        []weather.ForecastDay
	Awaiting    bool
}

// NewPanel returns an empty panel loading icons from icons.
func NewPanel(icons *IconSet) *Panel {
	return &Panel{icons: icons}
}

// Render applies a signal to the panel.
func (p *Panel) Render(sig Signal) {
	if p.closed {
		return
	}
	p.last = sig
	p.awaiting = false

	switch s := sig.(type) {
	case Current:
		p.showCurrent(s)
	case Forecast:
		p.city = s.City
		p.days = slices.Collect(s.Days)
	case LocationDisabled:
		p.replaceIcon(nil)
		p.temperature = NotAvailable
		p.city = StatusEnableLocation
	case RequestFailed:
		p.replaceIcon(nil)
		p.city = StatusRequestFailed
	case Awaiting:
		p.awaiting = true
	case Teardown:
		p.replaceIcon(nil)
		p.temperature = ""
		p.city = ""
		p.days = nil
		p.closed = true
	}
}

func (p *Panel) showCurrent(s Current) {
	icon, err := p.icons.Load(s.Category)
	if err != nil {
		logging.Warn("Icon unavailable, keeping text only",
			zap.String("category", s.Category.String()),
			zap.Error(err),
		)
	}
	p.replaceIcon(icon)
	p.temperature = s.Temperature
	p.city = s.Weather.City
}

// replaceIcon installs next and then releases the previous icon.
func (p *Panel) replaceIcon(next *Icon) {
	prev := p.icon
	p.icon = next
	if prev != nil {
		prev.Release()
	}
}

// View returns a copy of the panel state.
func (p *Panel) View() PanelView {
	return PanelView{
		Icon:        p.icon,
		Temperature: p.temperature,
		City:        p.city,
		Days:        slices.Clone(p.days),
		Awaiting:    p.awaiting,
	}
}

// Last returns the most recent signal, or nil.
func (p *Panel) Last() Signal {
	return p.last
}

// Closed reports whether Teardown was received.
func (p *Panel) Closed() bool {
	return p.closed
}
