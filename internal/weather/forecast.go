package weather

import (
	"fmt"
	"iter"
	"sync/atomic"
	"time"
)

// ForecastDay is one valid forecast slot.
type ForecastDay struct {
	Offset int       // Slot index, 0 = today
	Date   time.Time // Decode-time clock + Offset days
	Icon   int16     // Raw condition id, never the sentinel
	Min    int16
	Max    int16
	Metric bool
}

// Label returns the abbreviated weekday, e.g. "Mon".
func (d ForecastDay) Label() string {
	return d.Date.Format("Mon")
}

// Category returns the icon category of the day's condition id.
func (d ForecastDay) Category() IconCategory {
	return ClassifyIcon(int(d.Icon))
}

func (d ForecastDay) String() string {
	return fmt.Sprintf("%s icon=%d min=%s max=%s",
		d.Label(), d.Icon, FormatTemperature(d.Min, d.Metric), FormatTemperature(d.Max, d.Metric))
}

// Days returns the valid forecast days starting at now.
//
// The sequence reads a copy of the record taken when Days is called, stops at
// the first SentinelIcon and never yields more than ForecastSlots entries. It
// can be ranged over once; later ranges yield nothing.
func (f *WeatherForecast) Days(now time.Time) iter.Seq[ForecastDay] {
	snapshot := *f
	var consumed atomic.Bool

	return func(yield func(ForecastDay) bool) {
		if consumed.Swap(true) {
			return
		}
		for i := 0; i < ForecastSlots; i++ {
			icon := snapshot.Icon[i]
			if icon == SentinelIcon {
				return
			}
			day := ForecastDay{
				Offset: i,
				Date:   now.Add(time.Duration(i) * SecondsPerDayStep * time.Second),
				Icon:   icon,
				Min:    snapshot.TemperatureMin[i],
				Max:    snapshot.TemperatureMax[i],
				Metric: snapshot.MetricUnits,
			}
			if !yield(day) {
				return
			}
		}
	}
}
