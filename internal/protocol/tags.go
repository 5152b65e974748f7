package protocol

import "fmt"

// Message tags (dictionary keys) shared with the companion.
const (
	TagReconnect               uint32 = 0  // Companion (re)connected; re-issue the request
	TagRequestCurrentWeather   uint32 = 32 // Outbound: uint8(1)
	TagCurrentWeatherResponse  uint32 = 33 // Inbound: [count][CurrentWeather]
	TagRequestWeatherForecast  uint32 = 34 // Outbound: uint8(1)
	TagWeatherForecastResponse uint32 = 35 // Inbound: [count][WeatherForecast]
)

// RequestValue is the scalar carried by both request tags.
const RequestValue = 1

// TagName returns a human-readable name for a tag
func TagName(tag uint32) string {
	switch tag {
	case TagReconnect:
		return "Reconnect"
	case TagRequestCurrentWeather:
		return "RequestCurrentWeather"
	case TagCurrentWeatherResponse:
		return "CurrentWeatherResponse"
	case TagRequestWeatherForecast:
		return "RequestWeatherForecast"
	case TagWeatherForecastResponse:
		return "WeatherForecastResponse"
	default:
		return fmt.Sprintf("Unknown(%d)", tag)
	}
}
