package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/essctl/essctl/internal/ports"
)

func TestParseState(t *testing.T) {
	state, err := ParseState([]byte(`
leds: false
vlan_8021q: true
vlans:
  - vid: 20
    name: voice
    tagged: [8]
    untagged: "5-6"
    pvid: "5-6"
  - vid: 30
    name: guest
    untagged: [7]
poe_ports: "1-2"
`))
	if err != nil {
		t.Fatalf("ParseState() error = %v", err)
	}

	if state.LEDs == nil || *state.LEDs {
		t.Errorf("LEDs = %v, want false", state.LEDs)
	}
	if state.QVlan == nil || !*state.QVlan {
		t.Errorf("QVlan = %v, want true", state.QVlan)
	}
	if len(state.Vlans) != 2 {
		t.Fatalf("%d vlans, want 2", len(state.Vlans))
	}

	voice := state.Vlans[0]
	if voice.VID != 20 || voice.Name != "voice" {
		t.Errorf("vlan = %d %q", voice.VID, voice.Name)
	}
	if !voice.TaggedPorts.Equal(ports.NewPortSet(8)) || !voice.UntaggedPorts.Equal(ports.NewPortSet(5, 6)) ||
		!voice.PvidPorts.Equal(ports.NewPortSet(5, 6)) {
		t.Errorf("vlan ports = %+v", voice)
	}
	if guest := state.Vlans[1]; guest.PvidPorts.Len() != 0 {
		t.Errorf("guest pvid = %v, want empty", guest.PvidPorts)
	}

	if state.PoePorts == nil || !state.PoePorts.Equal(ports.NewPortSet(1, 2)) {
		t.Errorf("PoePorts = %v, want 1-2", state.PoePorts)
	}
}

func TestParseState_Partial(t *testing.T) {
	state, err := ParseState([]byte("leds: true\n"))
	if err != nil {
		t.Fatalf("ParseState() error = %v", err)
	}
	if state.QVlan != nil || state.PoePorts != nil || len(state.Vlans) != 0 {
		t.Errorf("unset settings should stay unset: %+v", state)
	}
}

func TestParseState_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
		wantIs  error
	}{
		{name: "empty document", content: "", wantIs: ErrEmptyState},
		{name: "empty mapping", content: "{}\n", wantIs: ErrEmptyState},
		{name: "unknown key", content: "led: true\n", wantErr: "field led not found"},
		{name: "unknown vlan key", content: "vlans:\n  - vid: 2\n    name: a\n    port_count: 8\n", wantErr: "port_count"},
		{name: "bad vid", content: "vlans:\n  - vid: 4095\n    name: a\n", wantErr: "vlans[0]"},
		{name: "missing name", content: "vlans:\n  - vid: 10\n", wantErr: "name cannot be empty"},
		{name: "duplicate vid", content: "vlans:\n  - {vid: 10, name: a}\n  - {vid: 10, name: b}\n", wantErr: "listed twice"},
		{name: "overlap", content: "vlans:\n  - {vid: 10, name: a, tagged: [1], untagged: \"1-2\"}\n", wantIs: ports.ErrConflictingMembership},
		{name: "bad range", content: "poe_ports: \"3-1\"\n", wantErr: "invalid range"},
		{name: "port zero", content: "vlans:\n  - {vid: 10, name: a, untagged: [0]}\n", wantErr: "invalid port 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseState([]byte(tt.content))
			if err == nil {
				t.Fatal("ParseState() should fail")
			}
			if tt.wantIs != nil && !errors.Is(err, tt.wantIs) {
				t.Errorf("error = %v, want %v", err, tt.wantIs)
			}
			if tt.wantErr != "" && !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadState(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.yaml")
	if err := os.WriteFile(path, []byte("vlan_8021q: true\n"), 0600); err != nil {
		t.Fatal(err)
	}

	state, err := LoadState(path)
	if err != nil {
		t.Fatalf("LoadState() error = %v", err)
	}
	if state.QVlan == nil || !*state.QVlan {
		t.Errorf("QVlan = %v, want true", state.QVlan)
	}

	if _, err := LoadState(filepath.Join(t.TempDir(), "absent.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("LoadState(absent) error = %v, want not-exist", err)
	}
}
