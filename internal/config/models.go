package config

import (
	"sort"
	"time"
)

// Defaults applied when a preference is unset.
const (
	DefaultInboxSize            = 16
	DefaultOutboxSize           = 8
	DefaultDiscoverTimeout      = 10 // seconds
	DefaultReconnectMaxInterval = 30 // seconds
)

// Registry represents the entire user configuration file.
// It stores companions seen on the network and application preferences.
type Registry struct {
	Version     int                   `yaml:"version"`
	Companions  map[string]*Companion `yaml:"companions,omitempty"` // Keyed by mDNS instance name
	Preferences *Preferences          `yaml:"preferences,omitempty"`

	path string // file the registry was loaded from or last saved to
}

// Companion records a weather companion found by discovery or used by watch.
type Companion struct {
	Nickname string    `yaml:"nickname,omitempty"`  // User-friendly name
	LastURL  string    `yaml:"last_url,omitempty"`  // Last known WebSocket URL
	LastSeen time.Time `yaml:"last_seen,omitempty"` // Last discovery/connection time
}

// Preferences represents application-wide user preferences.
// Zero values mean "use the default".
type Preferences struct {
	CompanionURL         string `yaml:"companion_url,omitempty"`          // ws:// URL used when watch gets no --url
	LogLevel             string `yaml:"log_level,omitempty"`              // debug, info, warn, error
	InboxSize            int    `yaml:"inbox_size,omitempty"`             // Inbound message buffer depth
	OutboxSize           int    `yaml:"outbox_size,omitempty"`            // Outbound message buffer depth
	DiscoverTimeout      int    `yaml:"discover_timeout,omitempty"`       // mDNS browse timeout in seconds
	ReconnectMaxInterval int    `yaml:"reconnect_max_interval,omitempty"` // Redial backoff cap in seconds
}

func defaultPreferences() *Preferences {
	return &Preferences{
		InboxSize:            DefaultInboxSize,
		OutboxSize:           DefaultOutboxSize,
		DiscoverTimeout:      DefaultDiscoverTimeout,
		ReconnectMaxInterval: DefaultReconnectMaxInterval,
	}
}

// NewRegistry creates a new Registry with default values.
func NewRegistry() *Registry {
	return &Registry{
		Version:     1,
		Companions:  make(map[string]*Companion),
		Preferences: defaultPreferences(),
	}
}

// GetCompanion retrieves companion metadata by instance name.
// Returns nil if the companion isn't in the registry.
func (r *Registry) GetCompanion(name string) *Companion {
	return r.Companions[name]
}

// EnsureCompanion returns the entry for name, creating it if needed.
func (r *Registry) EnsureCompanion(name string) *Companion {
	if r.Companions == nil {
		r.Companions = make(map[string]*Companion)
	}

	if companion, exists := r.Companions[name]; exists {
		return companion
	}

	companion := &Companion{}
	r.Companions[name] = companion
	return companion
}

// UpdateCompanionLastSeen updates the last seen timestamp and URL for a companion.
func (r *Registry) UpdateCompanionLastSeen(name, url string) {
	companion := r.EnsureCompanion(name)
	companion.LastSeen = time.Now()
	companion.LastURL = url
}

// SetCompanionNickname sets a user-friendly nickname for a companion.
func (r *Registry) SetCompanionNickname(name, nickname string) {
	companion := r.EnsureCompanion(name)
	companion.Nickname = nickname
}

// ForgetCompanion removes a companion. It reports whether one was removed.
func (r *Registry) ForgetCompanion(name string) bool {
	if _, ok := r.Companions[name]; !ok {
		return false
	}
	delete(r.Companions, name)
	return true
}

// DisplayName returns the nickname for name, or name itself.
func (r *Registry) DisplayName(name string) string {
	if c := r.GetCompanion(name); c != nil && c.Nickname != "" {
		return c.Nickname
	}
	return name
}

// CompanionNames returns the recorded companion names, sorted.
func (r *Registry) CompanionNames() []string {
	names := make([]string, 0, len(r.Companions))
	for name := range r.Companions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MostRecentCompanion returns the companion seen last, or false when the
// registry has none with a URL.
func (r *Registry) MostRecentCompanion() (string, *Companion, bool) {
	names := make([]string, 0, len(r.Companions))
	for name, c := range r.Companions {
		if c != nil && c.LastURL != "" {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return "", nil, false
	}

	sort.Slice(names, func(i, j int) bool {
		a, b := r.Companions[names[i]], r.Companions[names[j]]
		if a.LastSeen.Equal(b.LastSeen) {
			return names[i] < names[j]
		}
		return a.LastSeen.After(b.LastSeen)
	})
	return names[0], r.Companions[names[0]], true
}

// InboxSizeOrDefault returns the configured inbox depth.
func (p *Preferences) InboxSizeOrDefault() int {
	if p == nil || p.InboxSize <= 0 {
		return DefaultInboxSize
	}
	return p.InboxSize
}

// OutboxSizeOrDefault returns the configured outbox depth.
func (p *Preferences) OutboxSizeOrDefault() int {
	if p == nil || p.OutboxSize <= 0 {
		return DefaultOutboxSize
	}
	return p.OutboxSize
}

// DiscoverTimeoutOrDefault returns the mDNS browse timeout.
func (p *Preferences) DiscoverTimeoutOrDefault() time.Duration {
	if p == nil || p.DiscoverTimeout <= 0 {
		return DefaultDiscoverTimeout * time.Second
	}
	return time.Duration(p.DiscoverTimeout) * time.Second
}

// ReconnectMaxIntervalOrDefault returns the redial backoff cap.
func (p *Preferences) ReconnectMaxIntervalOrDefault() time.Duration {
	if p == nil || p.ReconnectMaxInterval <= 0 {
		return DefaultReconnectMaxInterval * time.Second
	}
	return time.Duration(p.ReconnectMaxInterval) * time.Second
}
