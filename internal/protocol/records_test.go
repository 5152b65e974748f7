package protocol

import (
	"encoding/binary"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/muurk/weathersync/internal/weather"
)

func sampleCurrentWeather() weather.CurrentWeather {
	return weather.CurrentWeather{
		Icon:          800,
		Temperature:   21,
		City:          "London",
		MetricUnits:   true,
		Sunrise:       1718770000,
		Sunset:        1718830000,
		Humidity:      64,
		Pressure:      1013,
		WindSpeed:     19,
		WindDirection: "NNE",
	}
}

func sampleForecast() weather.WeatherForecast {
	f := weather.WeatherForecast{City: "Reykjavik", MetricUnits: false}
	for i := 0; i < weather.ForecastSlots; i++ {
		f.Icon[i] = int16(800 + i)
		f.TemperatureMin[i] = int16(-10 + i)
		f.TemperatureMax[i] = int16(30 - i)
	}
	return f
}

func TestCurrentWeather_RoundTrip(t *testing.T) {
	records := []weather.CurrentWeather{
		sampleCurrentWeather(),
		{Icon: 500, Temperature: -32768, City: "", MetricUnits: false, Sunrise: -1, Sunset: 1 << 40,
			Humidity: 100, Pressure: 32767, WindSpeed: 0, WindDirection: "N"},
		{Icon: 0, Temperature: 0, City: strings.Repeat("x", weather.CityMaxLen), WindDirection: "WSW"},
	}

	for _, want := range records {
		b := EncodeCurrentWeather(&want)
		if len(b) != CurrentWeatherSize {
			t.Fatalf("encoded size = %d, want %d", len(b), CurrentWeatherSize)
		}
		got, err := DecodeCurrentWeather(b)
		if err != nil {
			t.Fatalf("DecodeCurrentWeather() error = %v", err)
		}
		if got != want {
			t.Errorf("round trip mismatch:\n got  %+v\n want %+v", got, want)
		}
	}
}

func TestEncodeCurrentWeather_Layout(t *testing.T) {
	c := sampleCurrentWeather()
	b := EncodeCurrentWeather(&c)

	if v := int16(binary.LittleEndian.Uint16(b[0:2])); v != 800 {
		t.Errorf("icon at [0:2] = %d", v)
	}
	if v := int16(binary.LittleEndian.Uint16(b[2:4])); v != 21 {
		t.Errorf("temperature at [2:4] = %d", v)
	}
	if string(b[4:10]) != "London" || b[10] != 0 {
		t.Errorf("city at [4:25] = %q", b[4:25])
	}
	if b[25] != 1 {
		t.Errorf("metric at [25] = %d", b[25])
	}
	if v := binary.LittleEndian.Uint64(b[26:34]); v != 1718770000 {
		t.Errorf("sunrise at [26:34] = %d", v)
	}
	if b[42] != 64 {
		t.Errorf("humidity at [42] = %d", b[42])
	}
	if v := binary.LittleEndian.Uint16(b[43:45]); v != 1013 {
		t.Errorf("pressure at [43:45] = %d", v)
	}
	if string(b[47:50]) != "NNE" || b[50] != 0 {
		t.Errorf("wind direction at [47:51] = %q", b[47:51])
	}
}

func TestEncodeCurrentWeather_Truncation(t *testing.T) {
	c := weather.CurrentWeather{
		City:          "Llanfairpwllgwyngyllgogerychwyrndrobwllllantysiliogogogoch",
		WindDirection: "NORTH",
	}
	b := EncodeCurrentWeather(&c)
	got, err := DecodeCurrentWeather(b)
	if err != nil {
		t.Fatalf("DecodeCurrentWeather() error = %v", err)
	}
	if got.City != c.City[:weather.CityMaxLen] {
		t.Errorf("City = %q, want 20 byte prefix", got.City)
	}
	if got.WindDirection != "NOR" {
		t.Errorf("WindDirection = %q, want NOR", got.WindDirection)
	}
	if b[cwMetric-1] != 0 {
		t.Error("city field lost its terminator")
	}
}

func TestEncodeCity_TruncatesOnRuneBoundary(t *testing.T) {
	tests := []struct {
		name string
		city string
		want string
	}{
		{name: "two byte rune straddles the limit", city: strings.Repeat("a", 19) + "üb", want: strings.Repeat("a", 19)},
		{name: "three byte runes", city: "東京都千代田区丸の内", want: "東京都千代田"},
		{name: "rune ends exactly at the limit", city: strings.Repeat("a", 18) + "éx", want: strings.Repeat("a", 18) + "é"},
		{name: "short city untouched", city: "Zürich", want: "Zürich"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := weather.CurrentWeather{City: tt.city}
			cur, err := DecodeCurrentWeather(EncodeCurrentWeather(&c))
			if err != nil {
				t.Fatalf("DecodeCurrentWeather() error = %v", err)
			}
			f := weather.WeatherForecast{City: tt.city}
			fc, err := DecodeWeatherForecast(EncodeWeatherForecast(&f))
			if err != nil {
				t.Fatalf("DecodeWeatherForecast() error = %v", err)
			}

			for _, got := range []string{cur.City, fc.City} {
				if got != tt.want {
					t.Errorf("City = %q, want %q", got, tt.want)
				}
				if !utf8.ValidString(got) {
					t.Errorf("City %q is not valid UTF-8", got)
				}
			}
		})
	}
}

func TestDecodeCurrentWeather_Unterminated(t *testing.T) {
	b := make([]byte, CurrentWeatherSize)
	for i := cwCity; i < cwCity+cityFieldSize; i++ {
		b[i] = 'a'
	}
	got, err := DecodeCurrentWeather(b)
	if err != nil {
		t.Fatalf("DecodeCurrentWeather() error = %v", err)
	}
	if len(got.City) != weather.CityMaxLen {
		t.Errorf("len(City) = %d, want %d", len(got.City), weather.CityMaxLen)
	}
}

func TestDecodeCurrentWeather_Short(t *testing.T) {
	_, err := DecodeCurrentWeather(make([]byte, CurrentWeatherSize-1))
	if !errors.Is(err, ErrShortPayload) {
		t.Errorf("error = %v, want ErrShortPayload", err)
	}
}

func TestWeatherForecast_RoundTrip(t *testing.T) {
	want := sampleForecast()
	b := EncodeWeatherForecast(&want)
	if len(b) != WeatherForecastSize {
		t.Fatalf("encoded size = %d, want %d", len(b), WeatherForecastSize)
	}

	got, err := DecodeWeatherForecast(b)
	if err != nil {
		t.Fatalf("DecodeWeatherForecast() error = %v", err)
	}
	if got != want {
		t.Errorf("round trip mismatch:\n got  %+v\n want %+v", got, want)
	}
}

func TestEncodeWeatherForecast_Layout(t *testing.T) {
	f := sampleForecast()
	b := EncodeWeatherForecast(&f)

	if v := int16(binary.LittleEndian.Uint16(b[18:20])); v != 809 {
		t.Errorf("icon[9] at [18:20] = %d", v)
	}
	if v := int16(binary.LittleEndian.Uint16(b[20:22])); v != -10 {
		t.Errorf("min[0] at [20:22] = %d", v)
	}
	if v := int16(binary.LittleEndian.Uint16(b[40:42])); v != 30 {
		t.Errorf("max[0] at [40:42] = %d", v)
	}
	if string(b[60:69]) != "Reykjavik" {
		t.Errorf("city at [60:81] = %q", b[60:81])
	}
	if b[81] != 0 {
		t.Errorf("metric at [81] = %d, want 0", b[81])
	}
}

func TestDecodeWeatherForecast_Short(t *testing.T) {
	_, err := DecodeWeatherForecast(make([]byte, 10))
	if !errors.Is(err, ErrShortPayload) {
		t.Errorf("error = %v, want ErrShortPayload", err)
	}
}
