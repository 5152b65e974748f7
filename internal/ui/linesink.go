package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/muurk/weathersync/internal/display"
	"github.com/muurk/weathersync/internal/weather"
)

// LineSink prints one plain line per display change. It is used when stdout
// is not a terminal and by the decode command.
type LineSink struct {
	out   io.Writer
	panel *display.Panel
}

// NewLineSink creates a LineSink writing to w (os.Stdout if nil).
func NewLineSink(w io.Writer, icons *display.IconSet) *LineSink {
	if w == nil {
		w = os.Stdout
	}
	return &LineSink{out: w, panel: display.NewPanel(icons)}
}

// Panel returns the panel state behind the sink.
func (s *LineSink) Panel() *display.Panel {
	return s.panel
}

// Render implements display.Sink
func (s *LineSink) Render(sig display.Signal) {
	s.panel.Render(sig)
	view := s.panel.View()

	switch sig := sig.(type) {
	case display.Current:
		s.printf("current  %-5s %-6s %s\n", sig.Category, sig.Temperature, sig.Weather.City)
	case display.Forecast:
		s.printf("forecast %s (%d days)\n", view.City, len(view.Days))
		for _, d := range view.Days {
			s.printf("  %s %-5s %s / %s\n", d.Label(), d.Category(),
				weather.FormatTemperature(d.Min, d.Metric),
				weather.FormatTemperature(d.Max, d.Metric))
		}
	case display.LocationDisabled:
		s.printf("status   %s %s\n", view.Temperature, view.City)
	case display.RequestFailed:
		s.printf("status   %s\n", view.City)
	case display.Awaiting:
		s.printf("waiting  request sent\n")
	case display.Teardown:
	}
}

func (s *LineSink) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(s.out, format, args...)
}
