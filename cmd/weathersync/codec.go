package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/muurk/weathersync/internal/client"
	"github.com/muurk/weathersync/internal/display"
	"github.com/muurk/weathersync/internal/protocol"
	"github.com/muurk/weathersync/internal/transport"
	"github.com/muurk/weathersync/internal/ui"
	"github.com/muurk/weathersync/internal/weather"
)

// Fixture kinds accepted by encode
const (
	kindCurrent         = "current"
	kindForecast        = "forecast"
	kindReconnect       = "reconnect"
	kindDisabled        = "disabled"
	kindFailed          = "failed"
	kindRequestCurrent  = "request-current"
	kindRequestForecast = "request-forecast"
)

// fixture holds the encode flags
type fixture struct {
	City        string
	Temperature int
	Icons       []int
	Imperial    bool
	Forecast    bool // selects the response tag for "disabled"
}

var encodeFixture fixture

// Decode command flags
var (
	decodeReady bool
	decodeFrom  string
)

func init() {
	encodeCmd.Flags().StringVar(&encodeFixture.City, "city", "London", "City name (truncated to 20 bytes)")
	encodeCmd.Flags().IntVar(&encodeFixture.Temperature, "temp", 21, "Temperature in whole degrees")
	encodeCmd.Flags().IntSliceVar(&encodeFixture.Icons, "icons", []int{800}, "Condition ids; the first is used for current, one per day for forecast")
	encodeCmd.Flags().BoolVar(&encodeFixture.Imperial, "imperial", false, "Mark the record as Fahrenheit")
	encodeCmd.Flags().BoolVar(&encodeFixture.Forecast, "forecast", false, "With disabled: use the forecast response tag")

	decodeCmd.Flags().BoolVar(&decodeReady, "ready", false, "Start with the ready request, as after a connect")
	decodeCmd.Flags().StringVar(&decodeFrom, "from", "", "Replay the received messages of a watch --capture file")

	rootCmd.AddCommand(encodeCmd)
	rootCmd.AddCommand(decodeCmd)
}

var encodeCmd = &cobra.Command{
	Use:       "encode <kind>",
	Short:     "Print a hex encoded protocol dictionary",
	ValidArgs: []string{kindCurrent, kindForecast, kindReconnect, kindDisabled, kindFailed, kindRequestCurrent, kindRequestForecast},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	Long: `Build a protocol dictionary and print it as hex.

Kinds: current, forecast, reconnect, disabled, failed, request-current,
request-forecast. The output can be fed to "weathersync decode" or to a
companion test harness.`,
	Example: `  # Current conditions for Oslo
  weathersync encode current --city Oslo --temp -3 --icons 601

  # Three forecast days
  weathersync encode forecast --icons 500,801,800

  # Location services switched off
  weathersync encode disabled`,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := buildFixture(args[0], encodeFixture, time.Now())
		if err != nil {
			return err
		}
		data, err := protocol.EncodeDictionary(d)
		if err != nil {
			return fmt.Errorf("failed to encode: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(data))
		return nil
	},
}

var decodeCmd = &cobra.Command{
	Use:   "decode <hex>...",
	Short: "Decode dictionaries and replay them through the client",
	Long: `Decode hex encoded dictionaries and feed them, in order, to a fresh
protocol client. Each dictionary, the requests the client would send and the
resulting display lines and state are printed.`,
	Example: `  weathersync decode --ready $(weathersync encode current)

  # Replay a session recorded with watch --capture
  weathersync decode --from session.jsonl`,
	RunE: func(cmd *cobra.Command, args []string) error {
		hexes := args
		if decodeFrom != "" {
			captured, err := receivedFromCapture(decodeFrom)
			if err != nil {
				return err
			}
			hexes = append(captured, hexes...)
		}
		if len(hexes) == 0 {
			return fmt.Errorf("nothing to decode: pass hex arguments or --from")
		}
		return replay(cmd.OutOrStdout(), hexes, decodeReady, time.Now)
	},
}

// receivedFromCapture returns the payloads the display received, in order.
func receivedFromCapture(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open capture: %w", err)
	}
	defer f.Close()

	records, err := transport.ReadCapture(f)
	if err != nil {
		return nil, err
	}

	var hexes []string
	for _, rec := range records {
		if rec.Direction == "received" {
			hexes = append(hexes, rec.PayloadHex)
		}
	}
	return hexes, nil
}

// buildFixture returns the dictionary for kind.
func buildFixture(kind string, f fixture, now time.Time) (protocol.Dictionary, error) {
	switch kind {
	case kindCurrent, kindFailed:
		icon := int16(weather.SentinelIcon)
		if kind == kindCurrent {
			if len(f.Icons) == 0 {
				return nil, fmt.Errorf("current needs at least one --icons value")
			}
			v, err := fitInt16("--icons", f.Icons[0])
			if err != nil {
				return nil, err
			}
			icon = v
		}
		temp, err := fitInt16("--temp", f.Temperature)
		if err != nil {
			return nil, err
		}
		c := weather.CurrentWeather{
			Icon:          icon,
			Temperature:   temp,
			City:          f.City,
			MetricUnits:   !f.Imperial,
			Sunrise:       now.Truncate(24 * time.Hour).Add(6 * time.Hour).Unix(),
			Sunset:        now.Truncate(24 * time.Hour).Add(18 * time.Hour).Unix(),
			Humidity:      55,
			Pressure:      1013,
			WindSpeed:     12,
			WindDirection: "NW",
		}
		return protocol.BuildCurrentWeatherResponse(&c), nil

	case kindForecast:
		if len(f.Icons) > weather.ForecastSlots {
			return nil, fmt.Errorf("at most %d forecast days", weather.ForecastSlots)
		}
		fc := weather.WeatherForecast{City: f.City, MetricUnits: !f.Imperial}
		for i := range fc.Icon {
			fc.Icon[i] = weather.SentinelIcon
		}
		for i, icon := range f.Icons {
			var err error
			if fc.Icon[i], err = fitInt16("--icons", icon); err != nil {
				return nil, err
			}
			if fc.TemperatureMin[i], err = fitInt16("--temp", f.Temperature-4+i); err != nil {
				return nil, err
			}
			if fc.TemperatureMax[i], err = fitInt16("--temp", f.Temperature+3+i); err != nil {
				return nil, err
			}
		}
		return protocol.BuildWeatherForecastResponse(&fc), nil

	case kindDisabled:
		tag := protocol.TagCurrentWeatherResponse
		if f.Forecast {
			tag = protocol.TagWeatherForecastResponse
		}
		return protocol.BuildLocationDisabled(tag), nil

	case kindReconnect:
		return protocol.BuildReconnect(), nil
	case kindRequestCurrent:
		return protocol.BuildCurrentWeatherRequest(), nil
	case kindRequestForecast:
		return protocol.BuildWeatherForecastRequest(), nil
	}
	return nil, fmt.Errorf("unknown kind %q", kind)
}

// fitInt16 rejects values the 16-bit record fields cannot hold.
func fitInt16(flag string, v int) (int16, error) {
	if v < math.MinInt16 || v > math.MaxInt16 {
		return 0, fmt.Errorf("%s value %d out of range [%d, %d]", flag, v, math.MinInt16, math.MaxInt16)
	}
	return int16(v), nil
}

// replay decodes each hex dictionary and runs it through a client whose
// output goes to w.
func replay(w io.Writer, hexes []string, ready bool, now func() time.Time) error {
	sender := client.SenderFunc(func(d protocol.Dictionary) error {
		fmt.Fprintf(w, "request  %s\n", d)
		return nil
	})
	sink := ui.NewLineSink(w, display.NewIconSet())
	c := client.New(client.Options{Sender: sender, Sink: sink, Now: now})
	defer c.Close()

	if ready {
		c.Ready()
	}

	for i, s := range hexes {
		d, err := protocol.DecodeDictionaryHex(s)
		if err != nil {
			return fmt.Errorf("message %d: %w", i+1, err)
		}
		fmt.Fprintf(w, "message  %s\n", d)
		state := c.HandleMessage(d)
		fmt.Fprintf(w, "state    %s\n", state)
	}
	return nil
}
