// Package weather holds the decoded weather model shown on the display.
//
// The model mirrors the two records the companion sends: the current
// conditions and a ten slot daily forecast. Both are plain values; a Store
// keeps the single live instance of each and hands out copies.
//
// # Sentinels
//
// An icon value of -1 (SentinelIcon) marks an upstream failure. For the
// current record it means none of the other fields may be shown. For the
// forecast it terminates the valid prefix of slots: everything after the
// first sentinel is filler and is never read.
//
// # Icon Categories
//
// Condition ids follow the OpenWeatherMap grouping and are reduced to four
// coarse categories for rendering:
//
//	id < 600        Rain
//	id < 700        Snow
//	id > 800        Cloud
//	otherwise       Sun   (includes the 7xx atmosphere band and 800)
//
// The 7xx band resolving to Sun is a known approximation and is kept.
//
// # Forecast Days
//
// WeatherForecast.Days yields one ForecastDay per valid slot. Dates are the
// decode-time clock plus 86400 seconds per slot; no date travels on the
// wire.
package weather
