package weather

import "fmt"

// IconCategory is the coarse rendering bucket for a condition id.
type IconCategory int

const (
	IconSun IconCategory = iota
	IconCloud
	IconRain
	IconSnow
)

// ClassifyIcon maps an OpenWeatherMap condition id to an IconCategory.
// Thresholds are checked in order; the 7xx band and 800 fall through to Sun.
func ClassifyIcon(id int) IconCategory {
	switch {
	case id < 600:
		return IconRain
	case id < 700:
		return IconSnow
	case id > 800:
		return IconCloud
	default:
		return IconSun
	}
}

func (c IconCategory) String() string {
	switch c {
	case IconSun:
		return "sun"
	case IconCloud:
		return "cloud"
	case IconRain:
		return "rain"
	case IconSnow:
		return "snow"
	default:
		return fmt.Sprintf("unknown(%d)", int(c))
	}
}
