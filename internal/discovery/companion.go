package discovery

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Companion represents a weather companion discovered on the network
type Companion struct {
	// Name is the mDNS service instance name (e.g., "Kitchen Tablet")
	Name string

	// Hostname is the mDNS hostname (e.g., "tablet.local.")
	Hostname string

	// IP is the address to dial, IPv4 when one is advertised
	IP string

	// Port is the WebSocket port
	Port int

	// Metadata contains the mDNS TXT record data
	// Common fields: "path=/ws", "version=1"
	Metadata map[string]string

	// DiscoveredAt is when the companion was discovered
	DiscoveredAt time.Time
}

// String returns a human-readable string representation of the companion
func (c *Companion) String() string {
	return fmt.Sprintf("Companion %q (%s) at %s", c.Name, c.Hostname, net.JoinHostPort(c.IP, strconv.Itoa(c.Port)))
}

// Path returns the WebSocket path from the TXT record, DefaultPath if absent.
func (c *Companion) Path() string {
	p := c.GetMetadata("path")
	if p == "" {
		return DefaultPath
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}

// Secure reports whether the TXT record advertises TLS ("tls=1" or "tls=true").
func (c *Companion) Secure() bool {
	switch strings.ToLower(c.GetMetadata("tls")) {
	case "1", "true", "yes":
		return true
	}
	return false
}

// URL returns the WebSocket URL for the companion, wss:// when Secure.
func (c *Companion) URL() string {
	scheme := "ws"
	if c.Secure() {
		scheme = "wss"
	}
	u := url.URL{
		Scheme: scheme,
		Host:   net.JoinHostPort(c.IP, strconv.Itoa(c.Port)),
		Path:   c.Path(),
	}
	return u.String()
}

// GetMetadata retrieves a metadata value by key, or returns empty string if not found
func (c *Companion) GetMetadata(key string) string {
	if c.Metadata == nil {
		return ""
	}
	return c.Metadata[key]
}
