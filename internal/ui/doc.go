// Package ui renders the weathersync display in a terminal.
//
// The interactive watch screen is a Bubble Tea program (WatchModel) that
// owns a display.Panel. Signals produced by the protocol client reach it
// through ProgramSink, which forwards each one as a SignalMsg so the panel
// is only touched on the program's goroutine. When stdout is not a terminal
// the CLI uses LineSink instead, which prints one plain line per change.
//
// Lipgloss styles live in styles.go. RenderPanel and RenderForecastRows are
// pure functions of a display.PanelView, which keeps them easy to test.
//
// # Logging Integration
//
// Zap logging is silent unless WEATHERSYNC_LOG_LEVEL or --log-level is set,
// so log lines do not tear the rendered screen. Use --log-file to keep logs
// while watching interactively.
package ui
