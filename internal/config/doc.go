// Package config provides user configuration management for weathersync.
//
// This package manages a YAML-based configuration file that records the
// weather companions seen on the network and application preferences such as
// the default companion URL, log level and link buffer sizes. The file
// follows OS-specific conventions for storage location.
//
// # Configuration File Location
//
//   - Linux: $XDG_CONFIG_HOME/weathersync/config.yaml or $HOME/.config/weathersync/config.yaml
//   - macOS: $HOME/.config/weathersync/config.yaml
//   - Windows: %AppData%\weathersync\config.yaml
//
// WEATHERSYNC_CONFIG overrides the location. A registry saves back to the
// file it was loaded from.
//
// # Usage Example
//
//	registry, err := config.LoadRegistry()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	registry.UpdateCompanionLastSeen("kitchen-tablet", "ws://192.168.1.40:8080/ws")
//
//	// Save changes atomically
//	if err := registry.Save(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Thread Safety
//
// LoadRegistry reads the file once per process. Saves are serialized and
// replace the file with a rename.
package config
