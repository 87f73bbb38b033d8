package deviceconfig

import (
	"fmt"
	"strings"

	"github.com/essctl/essctl/internal/reconcile"
)

// Summary returns a one-line summary of the switch
func (d DeviceInfo) Summary() string {
	return fmt.Sprintf("%s @ %s (MAC: %s)", d.Description, d.IP, d.MAC)
}

// Format returns a formatted string with switch identification information
func (d DeviceInfo) Format() string {
	var b strings.Builder

	b.WriteString("=== Switch Information ===\n")
	b.WriteString(fmt.Sprintf("Model:       %s\n", d.Description))
	b.WriteString(fmt.Sprintf("MAC Address: %s\n", d.MAC))
	b.WriteString(fmt.Sprintf("IP Address:  %s\n", d.IP))
	b.WriteString(fmt.Sprintf("Netmask:     %s\n", d.Netmask))

	return b.String()
}

// membershipCell is the one-letter code shown per port in VLAN tables.
func membershipCell(r reconcile.VlanRecord, port int) string {
	switch {
	case r.UntaggedPorts.Contains(port):
		return "U"
	case r.TaggedPorts.Contains(port):
		return "T"
	default:
		return "-"
	}
}

// FormatVlanTable renders VLANs as a port membership grid. U = untagged,
// T = tagged, - = not a member; a trailing * marks ports using the VLAN as
// PVID.
func FormatVlanTable(records []reconcile.VlanRecord) string {
	var b strings.Builder

	b.WriteString("=== 802.1Q VLANs ===\n")
	if len(records) == 0 {
		b.WriteString("(no VLANs configured)\n")
		return b.String()
	}

	portCount := records[0].PortCount
	b.WriteString(fmt.Sprintf("%-5s %-20s", "VID", "Name"))
	for p := 1; p <= portCount; p++ {
		b.WriteString(fmt.Sprintf(" %3d", p))
	}
	b.WriteString("\n")

	for _, r := range records {
		b.WriteString(fmt.Sprintf("%-5d %-20s", r.VID, r.Name))
		for p := 1; p <= portCount; p++ {
			cell := membershipCell(r, p)
			if r.PvidPorts.Contains(p) {
				cell += "*"
			}
			b.WriteString(fmt.Sprintf(" %3s", cell))
		}
		b.WriteString("\n")
	}
	b.WriteString("\nU = untagged, T = tagged, * = PVID\n")

	return b.String()
}

// FormatVlan returns a formatted string describing one VLAN
func FormatVlan(r reconcile.VlanRecord) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("=== VLAN %d ===\n", r.VID))
	if r.IsEmpty() {
		b.WriteString("(not configured)\n")
		return b.String()
	}
	b.WriteString(fmt.Sprintf("Name:     %s\n", r.Name))
	b.WriteString(fmt.Sprintf("Tagged:   %s\n", r.TaggedPorts))
	b.WriteString(fmt.Sprintf("Untagged: %s\n", r.UntaggedPorts))
	b.WriteString(fmt.Sprintf("PVID:     %s\n", r.PvidPorts))

	return b.String()
}

// FormatPvids renders the primary VLAN of every port.
func FormatPvids(pvids []int) string {
	var b strings.Builder

	b.WriteString("=== Port PVIDs ===\n")
	b.WriteString("Port | PVID\n")
	b.WriteString("-----+------\n")
	for i, vid := range pvids {
		b.WriteString(fmt.Sprintf("%4d | %d\n", i+1, vid))
	}

	return b.String()
}

// FormatPoe renders the PoE port table and power budget. Power values are
// the firmware's tenths of a watt.
func FormatPoe(rec reconcile.PoeRecord) string {
	var b strings.Builder

	b.WriteString("=== PoE ===\n")
	b.WriteString(fmt.Sprintf("System power: %s W used of %s W (limit range %s-%s W)\n",
		tenths(rec.SystemPowerConsumption), tenths(rec.SystemPowerLimit),
		tenths(rec.SystemPowerLimitMin), tenths(rec.SystemPowerLimitMax)))
	b.WriteString("\nPort | State | Priority | Limit W | Power W | Class | Status\n")
	b.WriteString("-----+-------+----------+---------+---------+-------+-------\n")
	for _, p := range rec.Ports {
		b.WriteString(fmt.Sprintf("%4d | %-5s | %8d | %7s | %7s | %5d | %6d\n",
			p.Port, onOff(p.Enabled), p.Priority, tenths(p.PowerLimit), tenths(p.Power), p.Class, p.PowerStatus))
	}

	return b.String()
}

func tenths(v int) string {
	return fmt.Sprintf("%d.%d", v/10, v%10)
}

// FormatVlanDiff returns a formatted diff between two VLAN records
func FormatVlanDiff(old, new reconcile.VlanRecord) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("=== VLAN %d Differences ===\n", new.VID))

	hasChanges := false
	if old.Name != new.Name {
		b.WriteString(fmt.Sprintf("  Name:     %q → %q\n", old.Name, new.Name))
		hasChanges = true
	}
	if !old.TaggedPorts.Equal(new.TaggedPorts) {
		b.WriteString(fmt.Sprintf("  Tagged:   %s → %s\n", old.TaggedPorts, new.TaggedPorts))
		hasChanges = true
	}
	if !old.UntaggedPorts.Equal(new.UntaggedPorts) {
		b.WriteString(fmt.Sprintf("  Untagged: %s → %s\n", old.UntaggedPorts, new.UntaggedPorts))
		hasChanges = true
	}
	if !old.PvidPorts.Equal(new.PvidPorts) {
		b.WriteString(fmt.Sprintf("  PVID:     %s → %s\n", old.PvidPorts, new.PvidPorts))
		hasChanges = true
	}

	if !hasChanges {
		b.WriteString("\n(no differences detected)\n")
	}

	return b.String()
}
