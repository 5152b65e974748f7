package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/weathersync/internal/client"
	"github.com/muurk/weathersync/internal/config"
	"github.com/muurk/weathersync/internal/discovery"
	"github.com/muurk/weathersync/internal/display"
	"github.com/muurk/weathersync/internal/logging"
	"github.com/muurk/weathersync/internal/protocol"
	"github.com/muurk/weathersync/internal/transport"
	"github.com/muurk/weathersync/internal/ui"
	"github.com/muurk/weathersync/internal/version"
)

// Watch command flags
var (
	watchURL      string
	watchDiscover bool
	watchPlain    bool
	watchForecast bool
	watchCapture  string
)

func init() {
	watchCmd.Flags().StringVar(&watchURL, "url", "", "Companion WebSocket URL (skips discovery)")
	watchCmd.Flags().BoolVar(&watchDiscover, "discover", false, "Ignore saved companions and browse with mDNS")
	watchCmd.Flags().BoolVar(&watchPlain, "plain", false, "Print one line per update instead of the interactive view")
	watchCmd.Flags().BoolVar(&watchForecast, "forecast", false, "Also request the forecast on every connect")
	watchCmd.Flags().StringVar(&watchCapture, "capture", "", "Append every message to this JSON Lines file")

	rootCmd.Flags().AddFlagSet(watchCmd.Flags())
	rootCmd.AddCommand(watchCmd)
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Connect to a companion and show the weather",
	Long: `Connect to a companion and keep the weather display up to date.

The companion URL comes from --url, then the companion_url preference, then
the most recently seen companion in the config file, and finally an mDNS
browse for ` + discovery.ServiceType + `. The link redials with exponential
backoff whenever the companion goes away.

Keys in the interactive view: r refreshes, f requests the forecast, q quits.`,
	Example: `  # Find a companion and watch
  weathersync watch

  # Connect directly
  weathersync watch --url ws://192.168.1.20:8080/ws

  # Line output for logs or pipes
  weathersync watch --plain --forecast`,
	RunE: runWatch,
}

// source labels where resolveCompanion found the URL.
const (
	sourceFlag       = "flag"
	sourcePreference = "preference"
	sourceRegistry   = "registry"
	sourceDiscovery  = "discovery"
)

// findFunc locates one companion on the network.
type findFunc func(ctx context.Context) (*discovery.Companion, error)

// resolveCompanion picks the companion URL. A companion found by discovery
// is recorded in reg.
func resolveCompanion(ctx context.Context, reg *config.Registry, flagURL string, forceDiscover bool, find findFunc) (url, source string, err error) {
	if flagURL != "" {
		return flagURL, sourceFlag, nil
	}

	if !forceDiscover {
		if reg.Preferences != nil && reg.Preferences.CompanionURL != "" {
			return reg.Preferences.CompanionURL, sourcePreference, nil
		}
		if _, c, ok := reg.MostRecentCompanion(); ok {
			return c.LastURL, sourceRegistry, nil
		}
	}

	companion, err := find(ctx)
	if err != nil {
		return "", "", fmt.Errorf("no companion URL: %w (pass --url to skip discovery)", err)
	}
	reg.UpdateCompanionLastSeen(companion.Name, companion.URL())
	return companion.URL(), sourceDiscovery, nil
}

// linkOptions builds transport options from preferences.
func linkOptions(url string, prefs *config.Preferences) transport.Options {
	return transport.Options{
		URL:         url,
		InboxSize:   prefs.InboxSizeOrDefault(),
		OutboxSize:  prefs.OutboxSizeOrDefault(),
		MaxInterval: prefs.ReconnectMaxIntervalOrDefault(),
		Header:      http.Header{"User-Agent": []string{version.UserAgent()}},
	}
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := loadRegistry()
	prefs := reg.Preferences

	scanner := discovery.NewScanner()
	scanner.Timeout = prefs.DiscoverTimeoutOrDefault()

	url, source, err := resolveCompanion(ctx, reg, watchURL, watchDiscover, scanner.First)
	if err != nil {
		return err
	}
	logging.Info("Using companion",
		zap.String("url", url),
		zap.String("source", source),
	)
	if source == sourceDiscovery {
		if err := reg.Save(); err != nil {
			logging.Warn("Failed to record companion", zap.Error(err))
		}
	}

	opts := linkOptions(url, prefs)
	if watchCapture != "" {
		capture, err := transport.OpenCapture(watchCapture)
		if err != nil {
			return err
		}
		defer capture.Close()
		opts.Capture = capture
	}

	if !watchPlain && ui.IsTerminal(os.Stdout) {
		return watchInteractive(ctx, opts)
	}
	return watchPlainLines(ctx, cmd, opts)
}

// wire connects a client to a link. The client is only driven from the
// link's dispatcher goroutine.
func wire(opts transport.Options, sink display.Sink) (*transport.Link, *client.Client) {
	var c *client.Client
	opts.Handler = transport.HandlerFuncs{
		Connect: func() {
			c.Ready()
			if watchForecast {
				c.RequestForecast()
			}
		},
		Message: func(d protocol.Dictionary) {
			c.HandleMessage(d)
		},
	}
	link := transport.New(opts)
	c = client.New(client.Options{Sender: link, Sink: sink})
	return link, c
}

func watchInteractive(ctx context.Context, opts transport.Options) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	panel := display.NewPanel(display.NewIconSet())

	var (
		link    *transport.Link
		c       *client.Client
		program *tea.Program
	)

	model := ui.NewWatchModel(panel, opts.URL, ui.WatchActions{
		Refresh:  func() { post(link, func() { c.Ready() }) },
		Forecast: func() { post(link, func() { c.RequestForecast() }) },
	})
	program = tea.NewProgram(model, tea.WithContext(ctx))

	opts.OnStatus = func(up bool) { program.Send(ui.LinkStatusMsg{Connected: up}) }
	link, c = wire(opts, ui.NewProgramSink(program))

	linkDone := make(chan error, 1)
	go func() { linkDone <- link.Run(ctx) }()

	_, runErr := program.Run()
	cancel()
	linkErr := <-linkDone

	// The dispatcher has stopped; finish on this goroutine.
	c.Close()
	panel.Render(display.Teardown{})

	logging.Info("Watch finished",
		zap.Uint64("sent", link.Sent()),
		zap.Uint64("received", link.Received()),
		zap.Uint64("dropped_inbound", link.DroppedInbound()),
		zap.Int("dropped_requests", c.Dropped()),
	)

	if runErr != nil && !errors.Is(runErr, tea.ErrProgramKilled) && !errors.Is(runErr, tea.ErrInterrupted) {
		return fmt.Errorf("display failed: %w", runErr)
	}
	if linkErr != nil && !errors.Is(linkErr, context.Canceled) {
		return linkErr
	}
	return nil
}

func watchPlainLines(ctx context.Context, cmd *cobra.Command, opts transport.Options) error {
	out := cmd.OutOrStdout()
	sink := ui.NewLineSink(out, display.NewIconSet())
	url := opts.URL

	opts.OnStatus = func(up bool) {
		state := "down"
		if up {
			state = "up"
		}
		fmt.Fprintf(out, "link     %s %s\n", state, url)
	}
	link, c := wire(opts, sink)

	fmt.Fprintf(out, "weathersync %s, connecting to %s\n", version.Version, url)
	err := link.Run(ctx)
	c.Close()

	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// post queues fn on the link's dispatcher, logging when the inbox is full.
func post(link *transport.Link, fn func()) {
	if !link.Post(fn) {
		logging.Warn("Inbox full, ignoring key press")
	}
}
