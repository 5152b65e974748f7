package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/weathersync/internal/config"
	"github.com/muurk/weathersync/internal/discovery"
	"github.com/muurk/weathersync/internal/logging"
	"github.com/muurk/weathersync/internal/ui"
)

// Discover command flags
var (
	discoverTimeout int
	discoverPlain   bool
)

func init() {
	discoverCmd.Flags().IntVar(&discoverTimeout, "timeout", 0, "Scan timeout in seconds (default from config, else 10)")
	discoverCmd.Flags().BoolVar(&discoverPlain, "plain", false, "Skip the progress view")

	rootCmd.AddCommand(discoverCmd)
}

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Find companions on the local network",
	Long: `Browse for companions advertising ` + discovery.ServiceType + ` over mDNS.

Every companion found is recorded in the config file, so a later
"weathersync watch" connects to the most recently seen one without
browsing again.`,
	Example: `  # Browse for 10 seconds (default)
  weathersync discover

  # Quick 3-second scan
  weathersync discover --timeout 3`,
	RunE: runDiscover,
}

func runDiscover(cmd *cobra.Command, args []string) error {
	reg := loadRegistry()

	timeout := reg.Preferences.DiscoverTimeoutOrDefault()
	if discoverTimeout > 0 {
		timeout = time.Duration(discoverTimeout) * time.Second
	}

	scan := func(ctx context.Context) ([]*discovery.Companion, error) {
		return discovery.Scan(ctx, timeout)
	}

	var (
		companions []*discovery.Companion
		err        error
	)
	if !discoverPlain && ui.IsTerminal(os.Stdout) {
		companions, err = scanInteractive(cmd.Context(), scan, timeout)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Browsing for companions (timeout: %s)...\n\n", timeout)
		companions, err = scan(cmd.Context())
	}

	fmt.Fprintln(cmd.OutOrStdout(), ui.RenderCompanions(companions, err, ui.GetTerminalWidth()))
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if recordCompanions(reg, companions) == 0 {
		return nil
	}

	if !discoverPlain && ui.IsTerminal(os.Stdout) {
		chosen, err := pickDefault(cmd.Context(), companions)
		if err != nil {
			logging.Warn("Companion picker failed", zap.Error(err))
		}
		if chosen != "" {
			reg.Preferences.CompanionURL = chosen
			fmt.Fprintf(cmd.OutOrStdout(), "Default companion set to %s\n", chosen)
		}
	}

	if err := reg.Save(); err != nil {
		logging.Warn("Failed to record companions", zap.Error(err))
	}
	return nil
}

// pickDefault asks the operator which companion watch should use.
func pickDefault(ctx context.Context, companions []*discovery.Companion) (string, error) {
	final, err := tea.NewProgram(ui.NewPickerModel(companions), tea.WithContext(ctx)).Run()
	if err != nil {
		return "", err
	}
	return final.(ui.PickerModel).Chosen, nil
}

func scanInteractive(ctx context.Context, scan ui.ScanFunc, timeout time.Duration) ([]*discovery.Companion, error) {
	final, err := tea.NewProgram(ui.NewScanModel(scan, timeout), tea.WithContext(ctx)).Run()
	if err != nil {
		return nil, err
	}
	m := final.(ui.ScanModel)
	return m.Companions, m.Err
}

// recordCompanions stores each companion's URL in reg and returns how many
// were recorded.
func recordCompanions(reg *config.Registry, companions []*discovery.Companion) int {
	for _, c := range companions {
		reg.UpdateCompanionLastSeen(c.Name, c.URL())
		logging.Debug("Recorded companion",
			zap.String("name", c.Name),
			zap.String("url", c.URL()),
		)
	}
	return len(companions)
}
