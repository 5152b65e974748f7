package weather

import "testing"

func TestClassifyIcon(t *testing.T) {
	tests := []struct {
		name string
		id   int
		want IconCategory
	}{
		{name: "thunderstorm", id: 200, want: IconRain},
		{name: "drizzle", id: 300, want: IconRain},
		{name: "rain upper edge", id: 599, want: IconRain},
		{name: "snow lower edge", id: 600, want: IconSnow},
		{name: "snow middle", id: 650, want: IconSnow},
		{name: "snow upper edge", id: 699, want: IconSnow},
		{name: "atmosphere band start", id: 700, want: IconSun},
		{name: "fog", id: 741, want: IconSun},
		{name: "atmosphere band end", id: 799, want: IconSun},
		{name: "clear sky", id: 800, want: IconSun},
		{name: "few clouds", id: 801, want: IconCloud},
		{name: "overcast", id: 804, want: IconCloud},
		{name: "small positive id", id: 3, want: IconRain},
		{name: "negative id", id: -1, want: IconRain},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyIcon(tt.id); got != tt.want {
				t.Errorf("ClassifyIcon(%d) = %v, want %v", tt.id, got, tt.want)
			}
		})
	}
}

func TestClassifyIcon_Total(t *testing.T) {
	for id := -1000; id <= 2000; id++ {
		got := ClassifyIcon(id)
		var want IconCategory
		switch {
		case id < 600:
			want = IconRain
		case id < 700:
			want = IconSnow
		case id > 800:
			want = IconCloud
		default:
			want = IconSun
		}
		if got != want {
			t.Fatalf("ClassifyIcon(%d) = %v, want %v", id, got, want)
		}
	}
}

func TestIconCategory_String(t *testing.T) {
	if IconSun.String() != "sun" || IconCloud.String() != "cloud" ||
		IconRain.String() != "rain" || IconSnow.String() != "snow" {
		t.Error("unexpected category names")
	}
	if got := IconCategory(9).String(); got != "unknown(9)" {
		t.Errorf("String() = %q, want unknown(9)", got)
	}
}
