package protocol

import (
	"fmt"

	"github.com/muurk/weathersync/internal/weather"
)

// Message is a decoded inbound dictionary. Exactly one kind is produced per
// dictionary; see ParseMessage for the precedence.
type Message interface {
	Tag() uint32
	String() string
}

// ReconnectMessage signals that the companion (re)established the link.
type ReconnectMessage struct{}

func (m *ReconnectMessage) Tag() uint32 { return TagReconnect }

func (m *ReconnectMessage) String() string { return "Reconnect{}" }

// CurrentWeatherResponse carries the current-conditions record.
// Weather is the zero value when LocationDisabled is true.
type CurrentWeatherResponse struct {
	Envelope Envelope
	Weather  weather.CurrentWeather
}

func (m *CurrentWeatherResponse) Tag() uint32 { return TagCurrentWeatherResponse }

// LocationDisabled reports a zero count.
func (m *CurrentWeatherResponse) LocationDisabled() bool { return m.Envelope.LocationDisabled() }

// Failed reports the upstream failure sentinel.
func (m *CurrentWeatherResponse) Failed() bool {
	return !m.LocationDisabled() && m.Weather.Failed()
}

func (m *CurrentWeatherResponse) String() string {
	if m.LocationDisabled() {
		return "CurrentWeatherResponse{location disabled}"
	}
	return fmt.Sprintf("CurrentWeatherResponse{count=%d, %s}", m.Envelope.Count, m.Weather.String())
}

// WeatherForecastResponse carries the ten slot forecast record.
// Forecast is the zero value when LocationDisabled is true.
type WeatherForecastResponse struct {
	Envelope Envelope
	Forecast weather.WeatherForecast
}

func (m *WeatherForecastResponse) Tag() uint32 { return TagWeatherForecastResponse }

// LocationDisabled reports a zero count.
func (m *WeatherForecastResponse) LocationDisabled() bool { return m.Envelope.LocationDisabled() }

// Failed reports a sentinel in the first forecast slot.
func (m *WeatherForecastResponse) Failed() bool {
	return !m.LocationDisabled() && m.Forecast.Failed()
}

func (m *WeatherForecastResponse) String() string {
	if m.LocationDisabled() {
		return "WeatherForecastResponse{location disabled}"
	}
	return fmt.Sprintf("WeatherForecastResponse{count=%d, %s}", m.Envelope.Count, m.Forecast.String())
}

// UnknownMessage - Fallback for dictionaries without a recognized tag
type UnknownMessage struct {
	Keys []uint32
}

func (m *UnknownMessage) Tag() uint32 {
	if len(m.Keys) == 0 {
		return 0
	}
	return m.Keys[0]
}

func (m *UnknownMessage) String() string {
	return fmt.Sprintf("Unknown{keys=%v}", m.Keys)
}

// ParseMessage decodes an inbound dictionary.
//
// Tags are checked in this order and only the first match is decoded:
//
//  1. TagReconnect
//  2. TagCurrentWeatherResponse
//  3. TagWeatherForecastResponse
//
// A dictionary with none of them yields an *UnknownMessage and no error.
// Errors are returned only for a recognized response tag whose payload is
// not a byte array or is too short for its record.
func ParseMessage(d Dictionary) (Message, error) {
	if d.Has(TagReconnect) {
		return &ReconnectMessage{}, nil
	}

	if t, ok := d.Find(TagCurrentWeatherResponse); ok {
		return parseCurrentWeatherResponse(t)
	}

	if t, ok := d.Find(TagWeatherForecastResponse); ok {
		return parseWeatherForecastResponse(t)
	}

	return &UnknownMessage{Keys: d.Keys()}, nil
}

// parseCurrentWeatherResponse decodes a current weather response tuple (33)
func parseCurrentWeatherResponse(t Tuple) (*CurrentWeatherResponse, error) {
	payload, err := t.Bytes()
	if err != nil {
		return nil, fmt.Errorf("current weather response: %w", err)
	}

	env, err := ParseEnvelope(payload, CurrentWeatherSize)
	if err != nil {
		return nil, fmt.Errorf("current weather response: %w", err)
	}

	msg := &CurrentWeatherResponse{Envelope: env}
	if env.LocationDisabled() {
		return msg, nil
	}

	msg.Weather, err = DecodeCurrentWeather(env.Record)
	if err != nil {
		return nil, fmt.Errorf("current weather response: %w", err)
	}

	return msg, nil
}

// parseWeatherForecastResponse decodes a forecast response tuple (35)
func parseWeatherForecastResponse(t Tuple) (*WeatherForecastResponse, error) {
	payload, err := t.Bytes()
	if err != nil {
		return nil, fmt.Errorf("weather forecast response: %w", err)
	}

	env, err := ParseEnvelope(payload, WeatherForecastSize)
	if err != nil {
		return nil, fmt.Errorf("weather forecast response: %w", err)
	}

	msg := &WeatherForecastResponse{Envelope: env}
	if env.LocationDisabled() {
		return msg, nil
	}

	msg.Forecast, err = DecodeWeatherForecast(env.Record)
	if err != nil {
		return nil, fmt.Errorf("weather forecast response: %w", err)
	}

	return msg, nil
}
