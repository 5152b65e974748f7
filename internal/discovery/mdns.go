package discovery

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/muurk/weathersync/internal/logging"
)

const (
	// ServiceType is the mDNS service type advertised by weather companions
	ServiceType = "_weathersync._tcp"

	// ServiceDomain is the mDNS domain (typically "local.")
	ServiceDomain = "local."

	// DefaultScanTimeout is the default timeout for companion discovery
	DefaultScanTimeout = 10 * time.Second

	// DefaultPort is used when an advertisement carries no port
	DefaultPort = 8080

	// DefaultPath is the WebSocket path when the TXT record has no "path" key
	DefaultPath = "/ws"
)

// Scanner handles mDNS companion discovery
type Scanner struct {
	// Timeout is the maximum time to wait for discovery
	Timeout time.Duration
}

// NewScanner creates a new mDNS scanner with default settings
func NewScanner() *Scanner {
	return &Scanner{
		Timeout: DefaultScanTimeout,
	}
}

// Scan discovers all companions on the local network until the timeout
// elapses or ctx is cancelled. Companions are deduplicated by instance name.
func (s *Scanner) Scan(ctx context.Context) ([]*Companion, error) {
	var companions []*Companion
	seen := make(map[string]bool)

	err := s.browse(ctx, func(c *Companion) bool {
		if !seen[c.Name] {
			seen[c.Name] = true
			companions = append(companions, c)
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	return companions, nil
}

// First returns the first companion to appear.
func (s *Scanner) First(ctx context.Context) (*Companion, error) {
	var first *Companion
	err := s.browse(ctx, func(c *Companion) bool {
		first = c
		return false
	})
	if err != nil {
		return nil, err
	}
	if first == nil {
		return nil, fmt.Errorf("no companion found within %s", s.Timeout)
	}
	return first, nil
}

// browse feeds every usable advertisement to fn, on a single goroutine,
// until fn returns false, the timeout elapses or ctx is cancelled.
func (s *Scanner) browse(ctx context.Context, fn func(*Companion) bool) error {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	// The resolver closes entries once ctx is done.
	entries := make(chan *zeroconf.ServiceEntry)
	done := make(chan struct{})
	go func() {
		defer close(done)
		stopped := false
		for entry := range entries {
			if stopped {
				continue
			}
			c := parseServiceEntry(entry)
			if c == nil {
				continue
			}
			logging.Debug("Companion advertised",
				zap.String("name", c.Name),
				zap.String("url", c.URL()),
			)
			if !fn(c) {
				stopped = true
				cancel()
			}
		}
	}()

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	<-ctx.Done()
	<-done
	return nil
}

// parseServiceEntry converts a zeroconf service entry to a Companion.
// Returns nil when the entry has no usable address.
func parseServiceEntry(entry *zeroconf.ServiceEntry) *Companion {
	if entry == nil || entry.Instance == "" {
		return nil
	}

	// Prefer IPv4
	var ip string
	for _, addr := range entry.AddrIPv4 {
		ip = addr.String()
		break
	}
	if ip == "" && len(entry.AddrIPv6) > 0 {
		ip = entry.AddrIPv6[0].String()
	}
	if ip == "" {
		return nil
	}

	port := entry.Port
	if port == 0 {
		port = DefaultPort
	}

	// TXT records are in "key=value" format
	metadata := make(map[string]string)
	for _, txt := range entry.Text {
		parts := strings.SplitN(txt, "=", 2)
		if len(parts) == 2 {
			metadata[parts[0]] = parts[1]
		} else {
			metadata[parts[0]] = ""
		}
	}

	return &Companion{
		Name:         entry.Instance,
		Hostname:     entry.HostName,
		IP:           ip,
		Port:         port,
		Metadata:     metadata,
		DiscoveredAt: time.Now(),
	}
}

// Scan is a convenience function to scan with a custom timeout
func Scan(ctx context.Context, timeout time.Duration) ([]*Companion, error) {
	scanner := NewScanner()
	scanner.Timeout = timeout
	return scanner.Scan(ctx)
}
