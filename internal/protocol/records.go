package protocol

import (
	"encoding/binary"
	"fmt"
	"unicode/utf8"

	"github.com/muurk/weathersync/internal/weather"
)

// Fixed record sizes
const (
	cityFieldSize          = weather.CityMaxLen + 1       // 21 bytes incl. terminator
	windDirectionFieldSize = weather.WindDirectionLen + 1 // 4 bytes incl. terminator

	CurrentWeatherSize  = 51 // See EncodeCurrentWeather for the layout
	WeatherForecastSize = 82 // See EncodeWeatherForecast for the layout
)

// CurrentWeather field offsets
const (
	cwIcon          = 0
	cwTemperature   = 2
	cwCity          = 4
	cwMetric        = cwCity + cityFieldSize // 25
	cwSunrise       = 26
	cwSunset        = 34
	cwHumidity      = 42
	cwPressure      = 43
	cwWindSpeed     = 45
	cwWindDirection = 47
)

// WeatherForecast field offsets
const (
	wfIcon   = 0
	wfMin    = wfIcon + 2*weather.ForecastSlots // 20
	wfMax    = wfMin + 2*weather.ForecastSlots  // 40
	wfCity   = wfMax + 2*weather.ForecastSlots  // 60
	wfMetric = wfCity + cityFieldSize           // 81
)

// EncodeCurrentWeather serializes a CurrentWeather record.
//
// Record Layout (little-endian, no padding):
//
//	[0-1]    icon            Condition id or -1 (i16)
//	[2-3]    temperature     (i16)
//	[4-24]   city            NUL terminated, truncated to 20 bytes
//	[25]     metric_units    0 or 1
//	[26-33]  sunrise         Epoch seconds (i64)
//	[34-41]  sunset          Epoch seconds (i64)
//	[42]     humidity        Percent (i8)
//	[43-44]  pressure        hPa (i16)
//	[45-46]  wind_speed      kph (i16)
//	[47-50]  wind_direction  NUL terminated, truncated to 3 bytes
func EncodeCurrentWeather(c *weather.CurrentWeather) []byte {
	b := make([]byte, CurrentWeatherSize)

	binary.LittleEndian.PutUint16(b[cwIcon:], uint16(c.Icon))
	binary.LittleEndian.PutUint16(b[cwTemperature:], uint16(c.Temperature))
	putCString(b[cwCity:cwCity+cityFieldSize], c.City)
	b[cwMetric] = boolByte(c.MetricUnits)
	binary.LittleEndian.PutUint64(b[cwSunrise:], uint64(c.Sunrise))
	binary.LittleEndian.PutUint64(b[cwSunset:], uint64(c.Sunset))
	b[cwHumidity] = byte(c.Humidity)
	binary.LittleEndian.PutUint16(b[cwPressure:], uint16(c.Pressure))
	binary.LittleEndian.PutUint16(b[cwWindSpeed:], uint16(c.WindSpeed))
	putCString(b[cwWindDirection:cwWindDirection+windDirectionFieldSize], c.WindDirection)

	return b
}

// DecodeCurrentWeather parses a CurrentWeather record. Bytes past the record are ignored.
func DecodeCurrentWeather(b []byte) (weather.CurrentWeather, error) {
	if len(b) < CurrentWeatherSize {
		return weather.CurrentWeather{}, fmt.Errorf("%w: current weather record is %d bytes (need %d)",
			ErrShortPayload, len(b), CurrentWeatherSize)
	}

	return weather.CurrentWeather{
		Icon:          int16(binary.LittleEndian.Uint16(b[cwIcon:])),
		Temperature:   int16(binary.LittleEndian.Uint16(b[cwTemperature:])),
		City:          readCString(b[cwCity : cwCity+cityFieldSize]),
		MetricUnits:   b[cwMetric] != 0,
		Sunrise:       int64(binary.LittleEndian.Uint64(b[cwSunrise:])),
		Sunset:        int64(binary.LittleEndian.Uint64(b[cwSunset:])),
		Humidity:      int8(b[cwHumidity]),
		Pressure:      int16(binary.LittleEndian.Uint16(b[cwPressure:])),
		WindSpeed:     int16(binary.LittleEndian.Uint16(b[cwWindSpeed:])),
		WindDirection: readCString(b[cwWindDirection : cwWindDirection+windDirectionFieldSize]),
	}, nil
}

// EncodeWeatherForecast serializes a WeatherForecast record.
//
// Record Layout (little-endian, no padding):
//
//	[0-19]   icon[10]             (i16 each)
//	[20-39]  temperature_min[10]  (i16 each)
//	[40-59]  temperature_max[10]  (i16 each)
//	[60-80]  city                 NUL terminated, truncated to 20 bytes
//	[81]     metric_units         0 or 1
func EncodeWeatherForecast(f *weather.WeatherForecast) []byte {
	b := make([]byte, WeatherForecastSize)

	for i := 0; i < weather.ForecastSlots; i++ {
		binary.LittleEndian.PutUint16(b[wfIcon+2*i:], uint16(f.Icon[i]))
		binary.LittleEndian.PutUint16(b[wfMin+2*i:], uint16(f.TemperatureMin[i]))
		binary.LittleEndian.PutUint16(b[wfMax+2*i:], uint16(f.TemperatureMax[i]))
	}
	putCString(b[wfCity:wfCity+cityFieldSize], f.City)
	b[wfMetric] = boolByte(f.MetricUnits)

	return b
}

// DecodeWeatherForecast parses a WeatherForecast record. Bytes past the record are ignored.
func DecodeWeatherForecast(b []byte) (weather.WeatherForecast, error) {
	var f weather.WeatherForecast
	if len(b) < WeatherForecastSize {
		return f, fmt.Errorf("%w: forecast record is %d bytes (need %d)",
			ErrShortPayload, len(b), WeatherForecastSize)
	}

	for i := 0; i < weather.ForecastSlots; i++ {
		f.Icon[i] = int16(binary.LittleEndian.Uint16(b[wfIcon+2*i:]))
		f.TemperatureMin[i] = int16(binary.LittleEndian.Uint16(b[wfMin+2*i:]))
		f.TemperatureMax[i] = int16(binary.LittleEndian.Uint16(b[wfMax+2*i:]))
	}
	f.City = readCString(b[wfCity : wfCity+cityFieldSize])
	f.MetricUnits = b[wfMetric] != 0

	return f, nil
}

// putCString writes s into field, truncated so the last byte stays NUL.
// Truncation backs off to a rune boundary.
func putCString(field []byte, s string) {
	n := len(field) - 1
	if len(s) > n {
		for n > 0 && !utf8.RuneStart(s[n]) {
			n--
		}
		s = s[:n]
	}
	n = copy(field, s)
	for i := n; i < len(field); i++ {
		field[i] = 0
	}
}

// readCString reads a fixed text field. A field without a terminator
// yields all bytes but the last.
func readCString(field []byte) string {
	s := cString(field)
	if len(s) == len(field) {
		return s[:len(field)-1]
	}
	return s
}

func boolByte(v bool) byte {
	if v {
		return 1
	}
	return 0
}
