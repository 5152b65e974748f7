package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muurk/weathersync/internal/display"
	"github.com/muurk/weathersync/internal/weather"
)

// categoryColor maps an icon category to its art color.
func categoryColor(c weather.IconCategory) lipgloss.TerminalColor {
	switch c {
	case weather.IconSun:
		return SunColor
	case weather.IconCloud:
		return CloudColor
	case weather.IconRain:
		return RainColor
	case weather.IconSnow:
		return SnowColor
	default:
		return MutedColor
	}
}

// isStatus reports whether the city line carries a status text instead.
func isStatus(city string) bool {
	return city == display.StatusEnableLocation || city == display.StatusRequestFailed
}

// RenderPanel renders a panel view as a bordered box of the given width.
func RenderPanel(v display.PanelView, width int) string {
	width = clampWidth(width)

	var info []string
	temperature := v.Temperature
	if temperature == "" {
		temperature = "--"
	}
	info = append(info, TemperatureStyle.Render(temperature))

	switch {
	case isStatus(v.City):
		info = append(info, StatusStyle.Render(v.City))
	case v.City != "":
		info = append(info, CityStyle.Render(v.City))
	}

	right := lipgloss.JoinVertical(lipgloss.Left, info...)

	top := right
	if v.Icon != nil && !v.Icon.Released() {
		art := lipgloss.NewStyle().
			Foreground(categoryColor(v.Icon.Category)).
			PaddingRight(3).
			Render(v.Icon.Art)
		top = lipgloss.JoinHorizontal(lipgloss.Center, art, right)
	}

	sections := []string{top}
	if len(v.Days) > 0 {
		sections = append(sections, "", RenderForecastRows(v.Days))
	}

	return PanelBorderStyle(width).Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

// RenderForecastRows renders one line per forecast day.
func RenderForecastRows(days []weather.ForecastDay) string {
	rows := make([]string, 0, len(days))
	for _, d := range days {
		category := d.Category()
		name := lipgloss.NewStyle().
			Foreground(categoryColor(category)).
			Width(7).
			Render(category.String())
		temps := ForecastTempStyle.Render(fmt.Sprintf("%s / %s",
			weather.FormatTemperature(d.Min, d.Metric),
			weather.FormatTemperature(d.Max, d.Metric)))
		rows = append(rows, ForecastDayStyle.Render(d.Label())+name+temps)
	}
	return strings.Join(rows, "\n")
}

// RenderHeader renders the title block shown above the panel.
func RenderHeader(title, url string) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		HeaderTitleStyle.Render(strings.ToUpper(title)),
		HeaderCommandStyle.Render(url),
	)
}
