package discovery

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/essctl/essctl/internal/logging"
)

const (
	// ServiceType is the mDNS service type web consoles advertise
	ServiceType = "_http._tcp"

	// ServiceDomain is the mDNS domain (typically "local.")
	ServiceDomain = "local."

	// DefaultScanTimeout is the default timeout for discovery
	DefaultScanTimeout = 5 * time.Second

	// DefaultPort is the default HTTP port of the web UI
	DefaultPort = 80

	// DefaultHostPattern matches Easy Smart model prefixes, ignoring case. The first
	// capture group is the model.
	DefaultHostPattern = `^(TL-S[GX][0-9A-Z]+)(?:[-_][^.]*)?\.local\.?$`
)

var defaultPattern = regexp.MustCompile("(?i)" + DefaultHostPattern)

// Scanner handles mDNS switch discovery
type Scanner struct {
	// Timeout is how long to listen for advertisements
	Timeout time.Duration

	// Pattern selects hostnames to report; its first capture group, if
	// any, becomes the model
	Pattern *regexp.Regexp
}

// NewScanner creates a new mDNS scanner with default settings
func NewScanner() *Scanner {
	return &Scanner{
		Timeout: DefaultScanTimeout,
		Pattern: defaultPattern,
	}
}

// SetPattern replaces the hostname pattern. Matching is case-insensitive.
func (s *Scanner) SetPattern(expr string) error {
	re, err := regexp.Compile("(?i)" + expr)
	if err != nil {
		return fmt.Errorf("invalid host pattern %q: %w", expr, err)
	}
	s.Pattern = re
	return nil
}

// Scan listens for Timeout and returns every matching switch, in the order
// they answered.
func (s *Scanner) Scan(ctx context.Context) ([]*Switch, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	entries := make(chan *zeroconf.ServiceEntry)
	found := make(chan []*Switch, 1)

	// zeroconf closes entries once ctx is done.
	go func() {
		switches := make([]*Switch, 0)
		seen := make(map[string]bool)
		for entry := range entries {
			sw := s.parseServiceEntry(entry)
			if sw == nil || seen[sw.Hostname] {
				continue
			}
			seen[sw.Hostname] = true
			logging.Debug("Switch discovered", zap.String("hostname", sw.Hostname), zap.String("ip", sw.IP))
			switches = append(switches, sw)
		}
		found <- switches
	}()

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	<-ctx.Done()
	return <-found, nil
}

// parseServiceEntry converts a zeroconf service entry to a Switch.
// Returns nil if the entry does not match the pattern or has no address.
func (s *Scanner) parseServiceEntry(entry *zeroconf.ServiceEntry) *Switch {
	hostname := entry.HostName
	if hostname == "" {
		return nil
	}

	pattern := s.Pattern
	if pattern == nil {
		pattern = defaultPattern
	}
	matches := pattern.FindStringSubmatch(hostname)
	if matches == nil {
		return nil
	}
	model := trimLocal(hostname)
	if len(matches) > 1 && matches[1] != "" {
		model = matches[1]
	}

	// Prefer IPv4
	var ip string
	if len(entry.AddrIPv4) > 0 {
		ip = entry.AddrIPv4[0].String()
	} else if len(entry.AddrIPv6) > 0 {
		ip = entry.AddrIPv6[0].String()
	}
	if ip == "" {
		return nil
	}

	port := entry.Port
	if port == 0 {
		port = DefaultPort
	}

	// TXT records are "key=value" or a bare key
	metadata := make(map[string]string)
	for _, txt := range entry.Text {
		key, value, _ := strings.Cut(txt, "=")
		metadata[key] = value
	}

	return &Switch{
		Hostname:     hostname,
		Model:        model,
		IP:           ip,
		Port:         port,
		Metadata:     metadata,
		DiscoveredAt: time.Now(),
	}
}

func trimLocal(hostname string) string {
	return strings.TrimSuffix(strings.TrimSuffix(hostname, "."), ".local")
}
