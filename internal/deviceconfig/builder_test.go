package deviceconfig

import (
	"errors"
	"testing"

	"github.com/essctl/essctl/internal/ports"
	"github.com/essctl/essctl/internal/reconcile"
)

func baseline() reconcile.VlanRecord {
	return reconcile.VlanRecord{
		VID:           20,
		Name:          "office",
		TaggedPorts:   ports.NewPortSet(8),
		UntaggedPorts: ports.NewPortSet(1, 2, 3),
		PvidPorts:     ports.NewPortSet(1, 2, 3),
		PortCount:     8,
	}
}

func TestVlanBuilder_NoChanges(t *testing.T) {
	b := NewVlanBuilder(baseline())

	if b.HasChanges() {
		t.Error("new builder should have no changes")
	}
	got, err := b.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if !got.Equal(baseline()) {
		t.Errorf("Build() = %+v, want baseline", got)
	}
}

func TestVlanBuilder_Setters(t *testing.T) {
	tests := []struct {
		name  string
		build func(*VlanBuilder) *VlanBuilder
		want  reconcile.VlanRecord
	}{
		{
			name:  "rename",
			build: func(b *VlanBuilder) *VlanBuilder { return b.SetName("voice") },
			want: reconcile.VlanRecord{VID: 20, Name: "voice",
				TaggedPorts: ports.NewPortSet(8), UntaggedPorts: ports.NewPortSet(1, 2, 3), PvidPorts: ports.NewPortSet(1, 2, 3)},
		},
		{
			name:  "add tagged moves port out of untagged",
			build: func(b *VlanBuilder) *VlanBuilder { return b.AddTagged(3, 7) },
			want: reconcile.VlanRecord{VID: 20, Name: "office",
				TaggedPorts: ports.NewPortSet(3, 7, 8), UntaggedPorts: ports.NewPortSet(1, 2), PvidPorts: ports.NewPortSet(1, 2, 3)},
		},
		{
			name:  "access ports",
			build: func(b *VlanBuilder) *VlanBuilder { return b.SetAccessPorts(8, 5) },
			want: reconcile.VlanRecord{VID: 20, Name: "office",
				TaggedPorts: ports.PortSet{}, UntaggedPorts: ports.NewPortSet(1, 2, 3, 5, 8), PvidPorts: ports.NewPortSet(1, 2, 3, 5, 8)},
		},
		{
			name:  "remove ports",
			build: func(b *VlanBuilder) *VlanBuilder { return b.RemovePorts(1, 8) },
			want: reconcile.VlanRecord{VID: 20, Name: "office",
				TaggedPorts: ports.PortSet{}, UntaggedPorts: ports.NewPortSet(2, 3), PvidPorts: ports.NewPortSet(2, 3)},
		},
		{
			name: "replace sets",
			build: func(b *VlanBuilder) *VlanBuilder {
				return b.SetTagged(7, 8).SetUntagged(4).SetPvid(4)
			},
			want: reconcile.VlanRecord{VID: 20, Name: "office",
				TaggedPorts: ports.NewPortSet(7, 8), UntaggedPorts: ports.NewPortSet(4), PvidPorts: ports.NewPortSet(4)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := tt.build(NewVlanBuilder(baseline()))
			if !b.HasChanges() {
				t.Error("HasChanges() = false after a setter")
			}
			got, err := b.Build()
			if err != nil {
				t.Fatalf("Build() error = %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("Build() = %+v, want %+v", got, tt.want)
			}
			if got.PortCount != 8 {
				t.Errorf("PortCount = %d, want 8", got.PortCount)
			}
		})
	}
}

func TestVlanBuilder_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		build func(*VlanBuilder) *VlanBuilder
	}{
		{"empty name", func(b *VlanBuilder) *VlanBuilder { return b.SetName("") }},
		{"port out of range", func(b *VlanBuilder) *VlanBuilder { return b.SetUntagged(1, 9) }},
		{"tagged and untagged overlap", func(b *VlanBuilder) *VlanBuilder { return b.SetTagged(1, 8) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.build(NewVlanBuilder(baseline())).Build()
			if !IsValidationError(err) {
				t.Errorf("Build() error = %v, want validation error", err)
			}
		})
	}
}

func TestVlanBuilder_WarningsDoNotFail(t *testing.T) {
	// PVID on a tagged-only port is accepted by the switch.
	_, err := NewVlanBuilder(baseline()).SetPvid(8).Build()
	if err != nil {
		t.Errorf("Build() error = %v, want warnings only", err)
	}
}

func TestVlanBuilder_Reset(t *testing.T) {
	b := NewVlanBuilder(baseline()).SetName("changed").RemovePorts(1)
	b.Reset()

	if b.HasChanges() {
		t.Error("HasChanges() = true after Reset")
	}
	got, err := b.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if !got.Equal(baseline()) {
		t.Errorf("Build() after Reset = %+v, want baseline", got)
	}
}

func TestVlanBuilder_FromEmpty(t *testing.T) {
	got, err := NewVlanBuilder(reconcile.EmptyVlan(30, 8)).
		SetName("guest").
		SetAccessPorts(6).
		AddTagged(8).
		Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	want := reconcile.VlanRecord{VID: 30, Name: "guest",
		TaggedPorts: ports.NewPortSet(8), UntaggedPorts: ports.NewPortSet(6), PvidPorts: ports.NewPortSet(6)}
	if !got.Equal(want) {
		t.Errorf("Build() = %+v, want %+v", got, want)
	}

	_, err = NewVlanBuilder(reconcile.EmptyVlan(30, 8)).SetAccessPorts(6).Build()
	var devErr *DeviceError
	if !errors.As(err, &devErr) {
		t.Errorf("unnamed VLAN: error = %v, want DeviceError", err)
	}
}
