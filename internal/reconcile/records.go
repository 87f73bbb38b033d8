package reconcile

import (
	"github.com/essctl/essctl/internal/ports"
)

// VlanRecord is one 802.1Q VLAN as the switch reports it or as the user
// wants it. PortCount is read from the switch and never compared.
type VlanRecord struct {
	VID           int           `yaml:"vid" json:"vid"`
	Name          string        `yaml:"name" json:"name"`
	TaggedPorts   ports.PortSet `yaml:"tagged" json:"tagged"`
	UntaggedPorts ports.PortSet `yaml:"untagged" json:"untagged"`
	PvidPorts     ports.PortSet `yaml:"pvid" json:"pvid"`
	PortCount     int           `yaml:"-" json:"-"`
}

// EmptyVlan is the record of a VLAN that is not configured.
func EmptyVlan(vid, portCount int) VlanRecord {
	return VlanRecord{
		VID:           vid,
		Name:          "",
		TaggedPorts:   ports.PortSet{},
		UntaggedPorts: ports.PortSet{},
		PvidPorts:     ports.PortSet{},
		PortCount:     portCount,
	}
}

// Equal compares the user-settable fields; port sets compare as sets.
func (r VlanRecord) Equal(other VlanRecord) bool {
	return r.VID == other.VID &&
		r.Name == other.Name &&
		r.TaggedPorts.Equal(other.TaggedPorts) &&
		r.UntaggedPorts.Equal(other.UntaggedPorts) &&
		r.PvidPorts.Equal(other.PvidPorts)
}

// IsEmpty reports whether r is indistinguishable from EmptyVlan(r.VID, _).
func (r VlanRecord) IsEmpty() bool {
	return r.Equal(EmptyVlan(r.VID, r.PortCount))
}

// LedState is the port LED switch.
type LedState struct {
	Enabled bool `yaml:"enabled" json:"enabled"`
}

func (s LedState) Equal(other LedState) bool { return s == other }

// QVlanState is the 802.1Q VLAN mode switch.
type QVlanState struct {
	Enabled bool `yaml:"enabled" json:"enabled"`
}

func (s QVlanState) Equal(other QVlanState) bool { return s == other }

// PoeState is the comparable part of the PoE configuration.
type PoeState struct {
	EnabledPorts ports.PortSet `yaml:"poe_ports" json:"poe_ports"`
}

func (s PoeState) Equal(other PoeState) bool {
	return s.EnabledPorts.Equal(other.EnabledPorts)
}
