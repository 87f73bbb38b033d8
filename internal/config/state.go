package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/essctl/essctl/internal/deviceconfig"
	"github.com/essctl/essctl/internal/ports"
	"github.com/essctl/essctl/internal/reconcile"
)

// DesiredState is the content of a state file passed to "essctl apply".
// Omitted settings are left alone on the switch.
//
//	leds: true
//	vlan_8021q: true
//	vlans:
//	  - vid: 20
//	    name: voice
//	    tagged: [8]
//	    untagged: "5-6"
//	    pvid: "5-6"
//	poe_ports: [1, 2]
type DesiredState struct {
	LEDs     *bool                  `yaml:"leds,omitempty"`
	QVlan    *bool                  `yaml:"vlan_8021q,omitempty"`
	Vlans    []reconcile.VlanRecord `yaml:"vlans,omitempty"`
	PoePorts *ports.PortSet         `yaml:"poe_ports,omitempty"`
}

// ErrEmptyState is returned for a state file without any settings.
var ErrEmptyState = errors.New("state file sets nothing")

// LoadState reads and validates a state file.
func LoadState(path string) (*DesiredState, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}
	state, err := ParseState(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return state, nil
}

// ParseState decodes a state document. Unknown keys are rejected so that a
// misspelled setting is not silently ignored.
func ParseState(data []byte) (*DesiredState, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var state DesiredState
	if err := dec.Decode(&state); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyState
		}
		return nil, fmt.Errorf("failed to parse state: %w", err)
	}

	if err := state.Validate(); err != nil {
		return nil, err
	}
	return &state, nil
}

// IsEmpty reports whether the state sets nothing.
func (s *DesiredState) IsEmpty() bool {
	return s.LEDs == nil && s.QVlan == nil && len(s.Vlans) == 0 && s.PoePorts == nil
}

// Validate checks what can be checked without the switch: VLAN IDs, names
// and duplicates. Port ranges depend on the switch model and are checked
// when applying.
func (s *DesiredState) Validate() error {
	if s.IsEmpty() {
		return ErrEmptyState
	}

	var errs []error
	seen := make(map[int]bool, len(s.Vlans))
	for i, v := range s.Vlans {
		if err := deviceconfig.ValidateVID(v.VID); err != nil {
			errs = append(errs, fmt.Errorf("vlans[%d]: %w", i, err))
			continue
		}
		if seen[v.VID] {
			errs = append(errs, fmt.Errorf("vlans[%d]: VLAN %d listed twice", i, v.VID))
		}
		seen[v.VID] = true

		if err := deviceconfig.ValidateVlanName(v.Name); err != nil {
			errs = append(errs, fmt.Errorf("vlans[%d]: %w", i, err))
		}
		if both := v.TaggedPorts.Intersect(v.UntaggedPorts); both.Len() > 0 {
			errs = append(errs, fmt.Errorf("vlans[%d]: %w", i, &ports.ConflictError{Ports: both}))
		}
	}
	return errors.Join(errs...)
}
