package ui

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muurk/weathersync/internal/discovery"
	"github.com/muurk/weathersync/internal/display"
	"github.com/muurk/weathersync/internal/weather"
)

func currentSignal(icon int16, temp int16, city string) display.Current {
	w := weather.CurrentWeather{Icon: icon, Temperature: temp, City: city, MetricUnits: true}
	return display.Current{Weather: w, Category: w.Category(), Temperature: w.TemperatureLabel()}
}

func forecastSignal(icons ...int16) display.Forecast {
	f := weather.WeatherForecast{City: "Oslo", MetricUnits: true}
	for i := range f.Icon {
		f.Icon[i] = weather.SentinelIcon
	}
	for i, icon := range icons {
		f.Icon[i] = icon
		f.TemperatureMin[i] = int16(i)
		f.TemperatureMax[i] = int16(i + 4)
	}
	now := time.Date(2024, time.March, 4, 12, 0, 0, 0, time.UTC) // Monday
	return display.Forecast{City: f.City, Metric: true, Days: f.Days(now)}
}

func TestRenderPanel(t *testing.T) {
	tests := []struct {
		name    string
		signals []display.Signal
		want    []string
		notWant []string
	}{
		{
			name:    "current conditions",
			signals: []display.Signal{currentSignal(800, 21, "London")},
			want:    []string{"21°C", "London", "(   )"},
		},
		{
			name:    "location disabled",
			signals: []display.Signal{currentSignal(500, 9, "Leeds"), display.LocationDisabled{}},
			want:    []string{display.NotAvailable, display.StatusEnableLocation},
			notWant: []string{"Leeds"},
		},
		{
			name:    "request failed keeps temperature",
			signals: []display.Signal{currentSignal(500, 9, "Leeds"), display.RequestFailed{}},
			want:    []string{"9°C", display.StatusRequestFailed},
		},
		{
			name:    "forecast rows",
			signals: []display.Signal{forecastSignal(500, 801)},
			want:    []string{"Oslo", "Mon", "Tue", "rain", "cloud", "0°C / 4°C", "1°C / 5°C"},
			notWant: []string{"Wed"},
		},
		{
			name: "empty panel",
			want: []string{"--"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			panel := display.NewPanel(display.NewIconSet())
			for _, sig := range tt.signals {
				panel.Render(sig)
			}

			out := RenderPanel(panel.View(), 60)
			for _, s := range tt.want {
				if !strings.Contains(out, s) {
					t.Errorf("RenderPanel() missing %q in:\n%s", s, out)
				}
			}
			for _, s := range tt.notWant {
				if strings.Contains(out, s) {
					t.Errorf("RenderPanel() unexpectedly contains %q in:\n%s", s, out)
				}
			}
		})
	}
}

func TestWatchModel_SignalsAndKeys(t *testing.T) {
	icons := display.NewIconSet()
	panel := display.NewPanel(icons)

	var refreshed, forecasted int
	m := NewWatchModel(panel, "ws://companion/ws", WatchActions{
		Refresh:  func() { refreshed++ },
		Forecast: func() { forecasted++ },
	})

	model, _ := m.Update(LinkStatusMsg{Connected: true})
	model, _ = model.Update(SignalMsg{Signal: currentSignal(600, -3, "Oslo")})
	m = model.(WatchModel)

	if !m.Connected {
		t.Error("Connected = false after LinkStatusMsg")
	}
	if icons.Live() != 1 {
		t.Errorf("Live() = %d, want 1", icons.Live())
	}
	if view := m.View(); !strings.Contains(view, "-3°C") || !strings.Contains(view, "connected") {
		t.Errorf("View() = %s", view)
	}

	model, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("f")})
	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	if refreshed != 1 || forecasted != 1 {
		t.Errorf("refreshed = %d, forecasted = %d", refreshed, forecasted)
	}

	model, cmd := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	m = model.(WatchModel)
	if cmd == nil || !m.Quitting {
		t.Fatal("q should quit")
	}
	if icons.Live() != 0 || !panel.Closed() {
		t.Errorf("quit left %d icons live, closed = %v", icons.Live(), panel.Closed())
	}
	if m.View() != "" {
		t.Error("View() should be empty after quitting")
	}
}

func TestWatchModel_AwaitingShowsSpinner(t *testing.T) {
	m := NewWatchModel(display.NewPanel(display.NewIconSet()), "ws://x/ws", WatchActions{})
	model, _ := m.Update(LinkStatusMsg{Connected: true})
	model, _ = model.Update(SignalMsg{Signal: display.Awaiting{}})

	if view := model.View(); !strings.Contains(view, "waiting for companion") {
		t.Errorf("View() = %s", view)
	}
}

type sentMsgs []tea.Msg

func (s *sentMsgs) Send(msg tea.Msg) { *s = append(*s, msg) }

func TestProgramSink(t *testing.T) {
	var sent sentMsgs
	sink := NewProgramSink(&sent)

	sink.Render(display.RequestFailed{})

	if len(sent) != 1 {
		t.Fatalf("sent %d messages", len(sent))
	}
	if msg, ok := sent[0].(SignalMsg); !ok || msg.Signal != (display.RequestFailed{}) {
		t.Errorf("sent %#v", sent[0])
	}
}

func TestLineSink(t *testing.T) {
	var buf bytes.Buffer
	icons := display.NewIconSet()
	sink := NewLineSink(&buf, icons)

	sink.Render(display.Awaiting{})
	sink.Render(currentSignal(800, 21, "London"))
	sink.Render(forecastSignal(3, 1))
	sink.Render(display.LocationDisabled{})
	sink.Render(display.RequestFailed{})
	sink.Render(display.Teardown{})

	out := buf.String()
	for _, want := range []string{
		"waiting  request sent",
		"current  sun   21°C   London",
		"forecast Oslo (2 days)",
		"  Mon rain  0°C / 4°C",
		"status   N/A Enable Location",
		"status   Request Failed",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if icons.Live() != 0 || !sink.Panel().Closed() {
		t.Error("teardown did not release the panel")
	}
}

func TestScanModel(t *testing.T) {
	found := []*discovery.Companion{{Name: "Kitchen", IP: "10.0.0.2", Port: 8080}}
	m := NewScanModel(func(context.Context) ([]*discovery.Companion, error) {
		return found, nil
	}, 10*time.Second)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	now := start
	m.timeNow = func() time.Time { return now }

	model, _ := m.Update(scanTickMsg(start))
	now = start.Add(5 * time.Second)
	if f := model.(ScanModel).Fraction(); f < 0.49 || f > 0.51 {
		t.Errorf("Fraction() = %v, want 0.5", f)
	}

	model, cmd := model.Update(scanCompleteMsg{companions: found})
	m = model.(ScanModel)
	if !m.Done || cmd == nil || len(m.Companions) != 1 {
		t.Errorf("scan completion not handled: done=%v companions=%d", m.Done, len(m.Companions))
	}
	if m.ctx.Err() == nil {
		t.Error("scan context not cancelled after completion")
	}
}

func TestRenderCompanions(t *testing.T) {
	ok := RenderCompanions([]*discovery.Companion{{Name: "Kitchen", IP: "10.0.0.2", Port: 8080}}, nil, 80)
	if !strings.Contains(ok, "Found 1 companion(s)") || !strings.Contains(ok, "ws://10.0.0.2:8080/ws") {
		t.Errorf("success box = %s", ok)
	}

	empty := RenderCompanions(nil, nil, 80)
	if !strings.Contains(empty, "No companions found") {
		t.Errorf("empty box = %s", empty)
	}

	failed := RenderCompanions(nil, errors.New("no multicast"), 80)
	if !strings.Contains(failed, "no multicast") {
		t.Errorf("failure box = %s", failed)
	}
}

func TestRenderSuccessBox_LongKeysStayOnOneLine(t *testing.T) {
	details := [][2]string{
		{"Fridge [kitchen]", "ws://k/ws (default)"},
		{"Living Room Tablet [lr-tab-01]", "ws://10.0.0.9:8080/ws"},
		{"Hall", "ws://h/ws"},
	}
	box := RenderSuccessBox("2 companion(s)", details, 80)

	for _, kv := range details {
		found := false
		for _, line := range strings.Split(box, "\n") {
			if strings.Contains(line, kv[0]+":") && strings.Contains(line, kv[1]) {
				found = true
			}
		}
		if !found {
			t.Errorf("key %q and value %q not on one line:\n%s", kv[0], kv[1], box)
		}
	}
}

func TestPickerModel(t *testing.T) {
	companions := []*discovery.Companion{
		{Name: "Kitchen", IP: "10.0.0.2", Port: 8080},
		{Name: "Hall", IP: "10.0.0.3", Port: 8080, Metadata: map[string]string{"version": "2"}},
	}

	tests := []struct {
		name string
		keys []tea.KeyMsg
		want string
	}{
		{
			name: "enter picks the highlighted companion",
			keys: []tea.KeyMsg{{Type: tea.KeyEnter}},
			want: "ws://10.0.0.2:8080/ws",
		},
		{
			name: "skip leaves no choice",
			keys: []tea.KeyMsg{{Type: tea.KeyRunes, Runes: []rune("q")}},
		},
		{
			name: "manual URL",
			keys: []tea.KeyMsg{
				{Type: tea.KeyRunes, Runes: []rune("m")},
				{Type: tea.KeyRunes, Runes: []rune("ws://10.9.9.9/ws")},
				{Type: tea.KeyEnter},
			},
			want: "ws://10.9.9.9/ws",
		},
		{
			name: "manual entry rejects other schemes",
			keys: []tea.KeyMsg{
				{Type: tea.KeyRunes, Runes: []rune("m")},
				{Type: tea.KeyRunes, Runes: []rune("http://nope")},
				{Type: tea.KeyEnter},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var model tea.Model = NewPickerModel(companions)
			for _, k := range tt.keys {
				model, _ = model.Update(k)
			}
			if got := model.(PickerModel).Chosen; got != tt.want {
				t.Errorf("Chosen = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCompanionItem(t *testing.T) {
	item := companionItem{companion: &discovery.Companion{
		Name: "Hall", IP: "10.0.0.3", Port: 8080, Hostname: "hall.local.",
		Metadata: map[string]string{"version": "2"},
	}}

	if item.Title() != "Hall" {
		t.Errorf("Title() = %q", item.Title())
	}
	if !strings.Contains(item.Description(), "protocol 2") {
		t.Errorf("Description() = %q", item.Description())
	}
	if !strings.Contains(item.FilterValue(), "hall.local.") {
		t.Errorf("FilterValue() = %q", item.FilterValue())
	}
}
