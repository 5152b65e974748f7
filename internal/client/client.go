package client

import (
	"errors"
	"time"

	"github.com/muurk/weathersync/internal/display"
	"github.com/muurk/weathersync/internal/logging"
	"github.com/muurk/weathersync/internal/protocol"
	"github.com/muurk/weathersync/internal/weather"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var errNoSender = errors.New("client: no sender configured")

// Sender delivers a dictionary to the companion. It must not block: when no
// outbound buffer slot is free it returns an error immediately.
type Sender interface {
	Send(protocol.Dictionary) error
}

// SenderFunc adapts a function to a Sender.
type SenderFunc func(protocol.Dictionary) error

// Send calls f(d).
func (f SenderFunc) Send(d protocol.Dictionary) error { return f(d) }

// Options configures a Client.
type Options struct {
	Sender Sender           // Outbound channel; nil drops every request
	Sink   display.Sink     // Receives display signals; nil discards them
	Now    func() time.Time // Clock for forecast dates; defaults to time.Now
}

// Client is the protocol state machine. It owns the weather Store.
type Client struct {
	sender  Sender
	sink    display.Sink
	now     func() time.Time
	store   *weather.Store
	state   State
	dropped int
}

// New creates a Client in StateIdle.
func New(opts Options) *Client {
	c := &Client{
		sender: opts.Sender,
		sink:   opts.Sink,
		now:    opts.Now,
		store:  weather.NewStore(),
		state:  StateIdle,
	}
	if c.sink == nil {
		c.sink = display.Discard
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c
}

// State returns the current state.
func (c *Client) State() State {
	return c.state
}

// Current returns a copy of the stored current-conditions record.
func (c *Client) Current() (weather.CurrentWeather, bool) {
	return c.store.Current()
}

// Forecast returns a copy of the stored forecast record.
func (c *Client) Forecast() (weather.WeatherForecast, bool) {
	return c.store.Forecast()
}

// Dropped returns how many requests were dropped for lack of an outbound slot.
func (c *Client) Dropped() int {
	return c.dropped
}

// Ready signals that the display is up. It requests current conditions.
func (c *Client) Ready() {
	c.request(protocol.BuildCurrentWeatherRequest(), "ready")
}

// RequestForecast asks the companion for the daily forecast.
func (c *Client) RequestForecast() {
	c.request(protocol.BuildWeatherForecastRequest(), "operator")
}

// HandleMessage processes one inbound dictionary and returns the new state.
func (c *Client) HandleMessage(d protocol.Dictionary) State {
	msg, err := protocol.ParseMessage(d)
	if err != nil {
		logging.Warn("Malformed response, treating as failed request",
			zap.Uint32s("keys", d.Keys()),
			zap.Error(err),
		)
		c.showRequestFailed()
		return c.state
	}

	logging.Debug("Decoded message",
		zap.String("type", protocol.TagName(msg.Tag())),
		zap.String("message", msg.String()),
	)

	switch m := msg.(type) {
	case *protocol.ReconnectMessage:
		c.request(protocol.BuildCurrentWeatherRequest(), "reconnect")
	case *protocol.CurrentWeatherResponse:
		c.handleCurrentWeather(m)
	case *protocol.WeatherForecastResponse:
		c.handleWeatherForecast(m)
	case *protocol.UnknownMessage:
		logging.Debug("Ignoring unrecognized message",
			zap.Uint32s("keys", m.Keys),
		)
	}

	return c.state
}

// Close tears down the display side and returns to StateIdle.
func (c *Client) Close() {
	c.sink.Render(display.Teardown{})
	c.transition(StateIdle)
}

// request sends d and moves to StateAwaitingResponse. A failed send is
// dropped without retry.
func (c *Client) request(d protocol.Dictionary, reason string) {
	if err := c.send(d); err != nil {
		c.dropped++
		logging.Debug("Request dropped, no outbound buffer",
			zap.String("tag", protocol.TagName(d[0].Key)),
			zap.String("reason", reason),
			zap.Error(err),
		)
	}
	c.transition(StateAwaitingResponse)
	c.sink.Render(display.Awaiting{})
}

func (c *Client) send(d protocol.Dictionary) error {
	if c.sender == nil {
		return errNoSender
	}
	return c.sender.Send(d)
}

// handleCurrentWeather processes a current weather response (33)
func (c *Client) handleCurrentWeather(m *protocol.CurrentWeatherResponse) {
	if m.LocationDisabled() {
		c.showLocationDisabled()
		return
	}

	c.store.SetCurrent(m.Weather)

	if m.Weather.Failed() {
		c.showRequestFailed()
		return
	}

	cw := m.Weather
	c.transition(StateShowingCurrent)
	c.sink.Render(display.Current{
		Weather:     cw,
		Category:    cw.Category(),
		Temperature: cw.TemperatureLabel(),
	})

	logging.Debug("Current conditions",
		zap.String("city", cw.City),
		zap.String("temperature", cw.TemperatureLabel()),
		zap.String("category", cw.Category().String()),
		zap.Time("sunrise", cw.SunriseTime()),
		zap.Time("sunset", cw.SunsetTime()),
		zap.Int8("humidity_pct", cw.Humidity),
		zap.Int16("pressure_hpa", cw.Pressure),
		zap.String("wind_direction", cw.WindDirection),
		zap.Int16("wind_kph", cw.WindSpeed),
	)
}

// handleWeatherForecast processes a forecast response (35)
func (c *Client) handleWeatherForecast(m *protocol.WeatherForecastResponse) {
	if m.LocationDisabled() {
		c.showLocationDisabled()
		return
	}

	if m.Forecast.Failed() {
		c.showRequestFailed()
		return
	}

	f := m.Forecast
	c.store.SetForecast(f)
	now := c.now()

	if logging.GetLogger().Core().Enabled(zapcore.DebugLevel) {
		for day := range f.Days(now) {
			logging.Debug("Forecast day",
				zap.Int("offset", day.Offset),
				zap.String("day", day.Label()),
				zap.Int16("icon", day.Icon),
				zap.String("min", weather.FormatTemperature(day.Min, day.Metric)),
				zap.String("max", weather.FormatTemperature(day.Max, day.Metric)),
			)
		}
	}

	c.transition(StateShowingForecast)
	c.sink.Render(display.Forecast{
		City:   f.City,
		Metric: f.MetricUnits,
		Days:   f.Days(now),
	})
}

func (c *Client) showLocationDisabled() {
	c.transition(StateLocationDisabled)
	c.sink.Render(display.LocationDisabled{})
}

func (c *Client) showRequestFailed() {
	c.transition(StateRequestFailed)
	c.sink.Render(display.RequestFailed{})
}

func (c *Client) transition(next State) {
	if next == c.state {
		return
	}
	logging.Info("State changed",
		zap.String("from", c.state.String()),
		zap.String("to", next.String()),
	)
	c.state = next
}
