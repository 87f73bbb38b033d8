package deviceconfig

import (
	"fmt"

	"github.com/essctl/essctl/internal/ports"
	"github.com/essctl/essctl/internal/reconcile"
)

// VlanBuilder provides a fluent API for building a desired VLAN record.
// It tracks changes and validates them before producing the record.
//
// Example usage:
//
//	current, _ := session.GetVlan(ctx, 20)
//	desired, err := NewVlanBuilder(current).
//	    SetName("voice").
//	    SetAccessPorts(5, 6).   // untagged members with PVID 20
//	    AddTagged(8).           // uplink
//	    Build()
type VlanBuilder struct {
	// current holds the switch's record (baseline)
	current reconcile.VlanRecord

	changed  bool
	name     string
	tagged   ports.PortSet
	untagged ports.PortSet
	pvid     ports.PortSet
}

// NewVlanBuilder creates a builder with the switch's current record as
// baseline. Use reconcile.EmptyVlan to start a new VLAN from scratch.
func NewVlanBuilder(current reconcile.VlanRecord) *VlanBuilder {
	b := &VlanBuilder{current: current}
	b.Reset()
	return b
}

// SetName sets the VLAN name.
func (b *VlanBuilder) SetName(name string) *VlanBuilder {
	b.changed = true
	b.name = name
	return b
}

// SetTagged replaces the tagged member ports.
func (b *VlanBuilder) SetTagged(p ...int) *VlanBuilder {
	b.changed = true
	b.tagged = ports.NewPortSet(p...)
	return b
}

// SetUntagged replaces the untagged member ports.
func (b *VlanBuilder) SetUntagged(p ...int) *VlanBuilder {
	b.changed = true
	b.untagged = ports.NewPortSet(p...)
	return b
}

// SetPvid replaces the ports whose primary VLAN this is.
func (b *VlanBuilder) SetPvid(p ...int) *VlanBuilder {
	b.changed = true
	b.pvid = ports.NewPortSet(p...)
	return b
}

// AddTagged makes ports tagged members, removing them from the untagged set.
func (b *VlanBuilder) AddTagged(p ...int) *VlanBuilder {
	b.changed = true
	b.tagged = ports.NewPortSet(append(b.tagged.Ints(), p...)...)
	b.untagged = without(b.untagged, p)
	return b
}

// AddUntagged makes ports untagged members, removing them from the tagged set.
func (b *VlanBuilder) AddUntagged(p ...int) *VlanBuilder {
	b.changed = true
	b.untagged = ports.NewPortSet(append(b.untagged.Ints(), p...)...)
	b.tagged = without(b.tagged, p)
	return b
}

// SetAccessPorts makes ports untagged members with this VLAN as their PVID.
func (b *VlanBuilder) SetAccessPorts(p ...int) *VlanBuilder {
	b.AddUntagged(p...)
	b.pvid = ports.NewPortSet(append(b.pvid.Ints(), p...)...)
	return b
}

// RemovePorts drops ports from every set.
func (b *VlanBuilder) RemovePorts(p ...int) *VlanBuilder {
	b.changed = true
	b.tagged = without(b.tagged, p)
	b.untagged = without(b.untagged, p)
	b.pvid = without(b.pvid, p)
	return b
}

func without(set ports.PortSet, drop []int) ports.PortSet {
	out := ports.PortSet{}
	dropSet := ports.NewPortSet(drop...)
	for _, p := range set {
		if !dropSet.Contains(p) {
			out = append(out, p)
		}
	}
	return out
}

// HasChanges returns true if any setter was called since the last Reset.
func (b *VlanBuilder) HasChanges() bool {
	return b.changed
}

func (b *VlanBuilder) record() reconcile.VlanRecord {
	return reconcile.VlanRecord{
		VID:           b.current.VID,
		Name:          b.name,
		TaggedPorts:   b.tagged,
		UntaggedPorts: b.untagged,
		PvidPorts:     b.pvid,
		PortCount:     b.current.PortCount,
	}
}

// Validate checks the record against the baseline's port count. Warnings
// do not fail validation.
func (b *VlanBuilder) Validate() error {
	_, critical := SeparateWarningsAndErrors(ValidateVlanRecord(b.record(), b.current.PortCount))
	if len(critical) > 0 {
		return NewValidationError(FormatValidationErrors(critical))
	}
	return nil
}

// Build validates and returns the desired record.
func (b *VlanBuilder) Build() (reconcile.VlanRecord, error) {
	if err := b.Validate(); err != nil {
		return reconcile.VlanRecord{}, fmt.Errorf("invalid VLAN %d: %w", b.current.VID, err)
	}
	return b.record(), nil
}

// Reset discards all changes and returns to the baseline.
func (b *VlanBuilder) Reset() *VlanBuilder {
	b.changed = false
	b.name = b.current.Name
	b.tagged = ports.NewPortSet(b.current.TaggedPorts...)
	b.untagged = ports.NewPortSet(b.current.UntaggedPorts...)
	b.pvid = ports.NewPortSet(b.current.PvidPorts...)
	return b
}
