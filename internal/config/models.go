package config

import (
	"sort"
	"time"
)

// Registry represents the entire user configuration file.
// It stores the switches the user manages and application preferences.
type Registry struct {
	Version     int                `yaml:"version"`
	Switches    map[string]*Switch `yaml:"switches,omitempty"` // Keyed by nickname
	Preferences *Preferences       `yaml:"preferences,omitempty"`
}

// Switch represents what is remembered about one switch.
// Passwords are never stored here.
type Switch struct {
	Host        string    `yaml:"host" json:"host"`                                   // IP address or hostname of the web UI
	Username    string    `yaml:"username,omitempty" json:"username,omitempty"`       // Login name, if not the default
	Description string    `yaml:"description,omitempty" json:"description,omitempty"` // Model string from the system info page
	MAC         string    `yaml:"mac,omitempty" json:"mac,omitempty"`
	PortCount   int       `yaml:"port_count,omitempty" json:"port_count,omitempty"`
	LastSeen    time.Time `yaml:"last_seen,omitempty" json:"last_seen,omitempty"` // Last discovery/connection time
}

// Preferences represents application-wide user preferences.
type Preferences struct {
	DiscoverTimeout int    `yaml:"discover_timeout"` // mDNS scan duration in seconds
	RequestTimeout  int    `yaml:"request_timeout"`  // HTTP timeout in seconds
	DefaultUsername string `yaml:"default_username"`
}

func defaultPreferences() *Preferences {
	return &Preferences{
		DiscoverTimeout: 5,
		RequestTimeout:  5,
		DefaultUsername: "admin",
	}
}

// NewRegistry creates a new Registry with default values.
func NewRegistry() *Registry {
	return &Registry{
		Version:     1,
		Switches:    make(map[string]*Switch),
		Preferences: defaultPreferences(),
	}
}

// GetSwitch retrieves a switch by nickname.
// Returns nil if the switch doesn't exist in the registry.
func (r *Registry) GetSwitch(name string) *Switch {
	return r.Switches[name]
}

// EnsureSwitch ensures a switch entry exists in the registry.
// Returns the entry (existing or newly created).
func (r *Registry) EnsureSwitch(name string) *Switch {
	if r.Switches == nil {
		r.Switches = make(map[string]*Switch)
	}

	if sw, exists := r.Switches[name]; exists {
		return sw
	}

	sw := &Switch{}
	r.Switches[name] = sw
	return sw
}

// UpdateSwitchSeen records that the switch called name answered at host.
func (r *Registry) UpdateSwitchSeen(name, host string) {
	sw := r.EnsureSwitch(name)
	sw.Host = host
	sw.LastSeen = time.Now()
}

// RemoveSwitch deletes a switch entry. It reports whether one existed.
func (r *Registry) RemoveSwitch(name string) bool {
	if _, ok := r.Switches[name]; !ok {
		return false
	}
	delete(r.Switches, name)
	return true
}

// Resolve maps a --host argument to a connection target. A registered
// nickname yields its stored host and entry; anything else is returned
// unchanged with a nil entry.
func (r *Registry) Resolve(target string) (string, *Switch) {
	if sw := r.GetSwitch(target); sw != nil && sw.Host != "" {
		return sw.Host, sw
	}
	return target, nil
}

// Names returns the switch nicknames in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.Switches))
	for name := range r.Switches {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
