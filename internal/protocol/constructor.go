package protocol

import "github.com/muurk/weathersync/internal/weather"

// Dictionary constructors for both directions of the link. The request
// builders are what the display sends; the response builders exist for
// fixtures, tests and the encode command.

// BuildCurrentWeatherRequest returns the request for current conditions.
//
//	{ TagRequestCurrentWeather (32): uint8(1) }
func BuildCurrentWeatherRequest() Dictionary {
	return Dictionary{NewUint8Tuple(TagRequestCurrentWeather, RequestValue)}
}

// BuildWeatherForecastRequest returns the request for the daily forecast.
//
//	{ TagRequestWeatherForecast (34): uint8(1) }
func BuildWeatherForecastRequest() Dictionary {
	return Dictionary{NewUint8Tuple(TagRequestWeatherForecast, RequestValue)}
}

// BuildReconnect returns the companion's reconnect signal.
func BuildReconnect() Dictionary {
	return Dictionary{NewUint8Tuple(TagReconnect, 1)}
}

// BuildCurrentWeatherResponse wraps a record in a count=1 envelope.
func BuildCurrentWeatherResponse(c *weather.CurrentWeather) Dictionary {
	payload := BuildEnvelope(EncodeCurrentWeather(c))
	return Dictionary{NewBytesTuple(TagCurrentWeatherResponse, payload)}
}

// BuildWeatherForecastResponse wraps a record in a count=1 envelope.
func BuildWeatherForecastResponse(f *weather.WeatherForecast) Dictionary {
	payload := BuildEnvelope(EncodeWeatherForecast(f))
	return Dictionary{NewBytesTuple(TagWeatherForecastResponse, payload)}
}

// BuildLocationDisabled returns a count=0 response for the given response tag.
func BuildLocationDisabled(tag uint32) Dictionary {
	return Dictionary{NewBytesTuple(tag, BuildEnvelope(nil))}
}
