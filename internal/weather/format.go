package weather

import "strconv"

// DegreeSign precedes the unit letter in temperature labels.
const DegreeSign = "°"

// UnitLetter returns 'C' for metric records and 'F' otherwise.
func UnitLetter(metric bool) byte {
	if metric {
		return 'C'
	}
	return 'F'
}

// FormatTemperature renders a temperature label such as "21°C" or "-4°F".
func FormatTemperature(value int16, metric bool) string {
	return strconv.Itoa(int(value)) + DegreeSign + string(UnitLetter(metric))
}
