// Package logging provides structured logging for weathersync.
//
// This package wraps a process-wide zap logger with convenience functions.
// Logging is silent by default so the display output stays clean; set a
// level with --log-level or the WEATHERSYNC_LOG_LEVEL environment variable.
//
// # Log Levels
//
//   - Debug: hex dumps, every link message, decoded record details
//   - Info: link connects and disconnects, state changes
//   - Warn: malformed payloads, dropped inbound messages
//   - Error: dial failures and other unexpected I/O errors
//
// # Usage
//
//	if err := logging.Initialize("debug"); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
//	logging.Info("State changed",
//	    zap.String("from", "awaiting_response"),
//	    zap.String("to", "showing_current"),
//	)
//
// Log files ending in .json or .jsonl (--log-file) get JSON lines instead of
// console output.
//
// The logger is swapped atomically, so SetLogger is safe while the link
// goroutines are logging.
package logging
