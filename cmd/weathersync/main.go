// Weathersync is a terminal weather display that syncs with a companion app.
//
// It connects to a companion over WebSocket, requests current conditions
// (and, on demand, a daily forecast) using a compact binary dictionary
// protocol, and renders what comes back.
//
// Usage:
//
//	weathersync [command] [flags]
//
// Running without arguments starts "watch".
// See 'weathersync --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/weathersync/internal/config"
	"github.com/muurk/weathersync/internal/logging"
	"github.com/muurk/weathersync/internal/version"
)

// Global flags
var (
	logLevel string
	logFile  string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "weathersync",
	Short: "Weather display synced from a companion app",
	Long: `A terminal weather display that syncs with a companion app.

The companion fetches weather on the display's behalf. weathersync finds it
with mDNS (or takes --url), asks for current conditions once connected and
shows a forecast on request.

If no command is specified, watch runs with default settings.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initLogging()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWatch(cmd, args)
	},
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides "+logging.LogLevelEnvVar)
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to this file instead of stderr")

	rootCmd.AddCommand(versionCmd)
}

// initLogging sets up zap from the flags, the environment or the config
// file, in that order.
func initLogging() error {
	level := logLevel
	if level == "" && os.Getenv(logging.LogLevelEnvVar) == "" {
		if reg, err := config.LoadRegistry(); err == nil && reg.Preferences != nil {
			level = reg.Preferences.LogLevel
		}
	}

	output := "stderr"
	if logFile != "" {
		output = logFile
	}

	if err := logging.InitializeTo(level, output); err != nil {
		return err
	}
	logging.Debug("Logging initialized",
		zap.String("version", version.Version),
		zap.String("output", output),
	)
	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "weathersync %s\n", version.Full())
	},
}

// loadRegistry returns the user registry, or an empty one when the file
// cannot be read. Config problems never stop the display.
func loadRegistry() *config.Registry {
	reg, err := config.LoadRegistry()
	if err != nil {
		logging.Warn("Ignoring unreadable config file", zap.Error(err))
		return config.NewRegistry()
	}
	return reg
}
