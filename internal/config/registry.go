package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	appName    = "weathersync"
	configFile = "config.yaml"

	// PathEnvVar overrides the config file location.
	PathEnvVar = "WEATHERSYNC_CONFIG"

	currentVersion = 1
)

var (
	loaded     *Registry
	loadedErr  error
	loadedOnce sync.Once

	// serializes writers across Registry values
	saveMu sync.Mutex
)

// ErrUnsupportedVersion is returned when the config file has an unknown version.
var ErrUnsupportedVersion = errors.New("unsupported config version")

// Dir returns the directory holding config.yaml: $XDG_CONFIG_HOME/weathersync
// or ~/.config/weathersync on Unix and macOS, %AppData%\weathersync on
// Windows.
func Dir() (string, error) {
	if runtime.GOOS == "darwin" {
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, appName), nil
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		return filepath.Join(home, ".config", appName), nil
	}

	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine config directory: %w", err)
	}
	return filepath.Join(base, appName), nil
}

// Path returns the config file location, honoring WEATHERSYNC_CONFIG.
func Path() (string, error) {
	if p := os.Getenv(PathEnvVar); p != "" {
		return p, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFile), nil
}

// LoadRegistry returns the process-wide registry, reading it on first use.
func LoadRegistry() (*Registry, error) {
	loadedOnce.Do(func() {
		path, err := Path()
		if err != nil {
			loadedErr = fmt.Errorf("failed to get config path: %w", err)
			return
		}
		loaded, loadedErr = LoadRegistryFrom(path)
	})
	return loaded, loadedErr
}

// LoadRegistryFrom reads a registry from path. A missing file yields a
// default registry that saves back to path.
func LoadRegistryFrom(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		r := NewRegistry()
		r.path = path
		return r, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	r := &Registry{path: path}
	if err := yaml.Unmarshal(data, r); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if r.Version != currentVersion {
		return nil, fmt.Errorf("%w: %d (expected %d)", ErrUnsupportedVersion, r.Version, currentVersion)
	}

	if r.Companions == nil {
		r.Companions = make(map[string]*Companion)
	}
	if r.Preferences == nil {
		r.Preferences = defaultPreferences()
	}
	return r, nil
}

// Save writes the registry back to the file it was loaded from, or to
// Path() for a registry built with NewRegistry.
func (r *Registry) Save() error {
	path := r.path
	if path == "" {
		var err error
		if path, err = Path(); err != nil {
			return fmt.Errorf("failed to get config path: %w", err)
		}
	}
	return r.SaveTo(path)
}

// SaveTo writes the registry to path through a temp file and rename, so a
// crash never leaves a truncated config behind.
func (r *Registry) SaveTo(path string) error {
	saveMu.Lock()
	defer saveMu.Unlock()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	body, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# weathersync configuration, written %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(&buf, "# %d companion(s) recorded by \"weathersync discover\" or \"watch\".\n", len(r.Companions))
	buf.WriteString("# Command line flags override the preferences below.\n\n")
	buf.Write(body)

	tmp, err := os.CreateTemp(dir, configFile+".*")
	if err != nil {
		return fmt.Errorf("failed to create temporary config file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temporary config file: %w", err)
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set config permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write temporary config file: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to save config file: %w", err)
	}
	r.path = path
	return nil
}
