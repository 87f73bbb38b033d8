package discovery

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// Switch represents a switch web console found on the network
type Switch struct {
	// Hostname is the mDNS hostname (e.g., "TL-SG108E-1A2B3C.local.")
	Hostname string

	// Model is the model prefix taken from the hostname (e.g., "TL-SG108E")
	Model string

	// IP is the IPv4 address, or IPv6 if the switch has none
	IP string

	// Port is the HTTP port of the web UI (typically 80)
	Port int

	// Metadata contains the mDNS TXT record data
	Metadata map[string]string

	// DiscoveredAt is when the switch was discovered
	DiscoveredAt time.Time
}

// String returns a human-readable string representation of the switch
func (s *Switch) String() string {
	return fmt.Sprintf("%s (%s) at %s", s.Model, s.Hostname, s.Address())
}

// Address returns the host to pass to --host: the IP, with the port only
// when it is not 80.
func (s *Switch) Address() string {
	if s.Port == DefaultPort {
		if net.ParseIP(s.IP).To4() == nil {
			return "[" + s.IP + "]"
		}
		return s.IP
	}
	return net.JoinHostPort(s.IP, strconv.Itoa(s.Port))
}

// Nickname returns a registry key for the switch: the hostname without the
// ".local." suffix.
func (s *Switch) Nickname() string {
	return trimLocal(s.Hostname)
}

// GetMetadata retrieves a metadata value by key, or returns empty string if not found
func (s *Switch) GetMetadata(key string) string {
	if s.Metadata == nil {
		return ""
	}
	return s.Metadata[key]
}
