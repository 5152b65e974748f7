package display

import (
	"fmt"
	"iter"

	"github.com/muurk/weathersync/internal/weather"
)

// Signal is one update delivered to a Sink. The concrete types are Current,
// Forecast, LocationDisabled, RequestFailed, Awaiting and Teardown.
type Signal interface {
	fmt.Stringer
	signal()
}

// Current carries a valid current-conditions snapshot and its derived values.
type Current struct {
	Weather     weather.CurrentWeather
	Category    weather.IconCategory
	Temperature string // e.g. "21°C"
}

// Forecast carries the valid forecast days. Days can be ranged over once.
type Forecast struct {
	City   string
	Metric bool
	Days   iter.Seq[weather.ForecastDay]
}

// LocationDisabled means the companion has location services switched off.
type LocationDisabled struct{}

// RequestFailed means the companion could not fetch weather.
type RequestFailed struct{}

// Awaiting means a request is outstanding.
type Awaiting struct{}

// Teardown means the display is going away; release everything.
type Teardown struct{}

func (Current) signal()          {}
func (Forecast) signal()         {}
func (LocationDisabled) signal() {}
func (RequestFailed) signal()    {}
func (Awaiting) signal()         {}
func (Teardown) signal()         {}

func (s Current) String() string {
	return fmt.Sprintf("Current{city=%q, category=%s, temperature=%s}", s.Weather.City, s.Category, s.Temperature)
}

func (s Forecast) String() string {
	return fmt.Sprintf("Forecast{city=%q, metric=%v}", s.City, s.Metric)
}

func (LocationDisabled) String() string { return "LocationDisabled{}" }
func (RequestFailed) String() string    { return "RequestFailed{}" }
func (Awaiting) String() string         { return "Awaiting{}" }
func (Teardown) String() string         { return "Teardown{}" }

// Sink consumes display signals.
type Sink interface {
	Render(Signal)
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(Signal)

// Render calls f(sig).
func (f SinkFunc) Render(sig Signal) { f(sig) }

// Discard is a Sink that ignores every signal.
var Discard Sink = SinkFunc(func(Signal) {})
