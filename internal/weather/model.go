package weather

import (
	"fmt"
	"time"
)

// Record limits
const (
	SentinelIcon      = -1 // Icon value marking "request failed" / end of forecast
	ForecastSlots     = 10 // Fixed number of forecast slots per record
	CityMaxLen        = 20 // Visible bytes of the city name
	WindDirectionLen  = 3  // Visible bytes of the compass abbreviation (N, NNE, ...)
	SecondsPerDayStep = 86400
)

// CurrentWeather is the current-conditions record sent by the companion.
type CurrentWeather struct {
	Icon          int16  // Condition id or SentinelIcon
	Temperature   int16  // Whole degrees in the record's unit
	City          string // At most CityMaxLen bytes
	MetricUnits   bool   // Celsius/kph when true, Fahrenheit otherwise
	Sunrise       int64  // Epoch seconds
	Sunset        int64  // Epoch seconds
	Humidity      int8   // Percent, 0-100
	Pressure      int16  // hPa
	WindSpeed     int16  // kph
	WindDirection string // At most WindDirectionLen bytes
}

// Failed reports whether the record carries the upstream failure sentinel.
func (c *CurrentWeather) Failed() bool {
	return c.Icon == SentinelIcon
}

// Category returns the icon category for the record's condition id.
func (c *CurrentWeather) Category() IconCategory {
	return ClassifyIcon(int(c.Icon))
}

// TemperatureLabel returns the formatted temperature, e.g. "21°C".
func (c *CurrentWeather) TemperatureLabel() string {
	return FormatTemperature(c.Temperature, c.MetricUnits)
}

// SunriseTime returns sunrise as a local time.
func (c *CurrentWeather) SunriseTime() time.Time {
	return time.Unix(c.Sunrise, 0)
}

// SunsetTime returns sunset as a local time.
func (c *CurrentWeather) SunsetTime() time.Time {
	return time.Unix(c.Sunset, 0)
}

func (c *CurrentWeather) String() string {
	if c.Failed() {
		return "CurrentWeather{failed}"
	}
	return fmt.Sprintf("CurrentWeather{icon=%d, temp=%s, city=%q, humidity=%d%%, pressure=%d, wind=%s %d}",
		c.Icon, c.TemperatureLabel(), c.City, c.Humidity, c.Pressure, c.WindDirection, c.WindSpeed)
}

// WeatherForecast is the ten slot daily forecast record.
// Slots after the first SentinelIcon are undefined.
type WeatherForecast struct {
	Icon           [ForecastSlots]int16
	TemperatureMin [ForecastSlots]int16
	TemperatureMax [ForecastSlots]int16
	City           string
	MetricUnits    bool
}

// Failed reports whether the first slot carries the failure sentinel.
func (f *WeatherForecast) Failed() bool {
	return f.Icon[0] == SentinelIcon
}

// ValidDays returns the length of the valid slot prefix.
func (f *WeatherForecast) ValidDays() int {
	for i, icon := range f.Icon {
		if icon == SentinelIcon {
			return i
		}
	}
	return ForecastSlots
}

func (f *WeatherForecast) String() string {
	return fmt.Sprintf("WeatherForecast{city=%q, metric=%v, days=%d}",
		f.City, f.MetricUnits, f.ValidDays())
}
