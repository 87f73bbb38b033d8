package reconcile

import (
	"fmt"
	"slices"

	"github.com/essctl/essctl/internal/decoder"
	"github.com/essctl/essctl/internal/ports"
)

// vlanColumns holds the per-VLAN arrays of a decoded qvlan_ds page.
type vlanColumns struct {
	portCount int
	vids      []int
	names     []string
	tagged    []int
	untagged  []int
}

func readVlanColumns(table decoder.Fields) (vlanColumns, error) {
	var c vlanColumns
	var err error
	if c.portCount, err = table.Int("portNum"); err != nil {
		return c, err
	}
	if c.portCount < 0 {
		return c, &decoder.DecodeError{
			Schema: decoder.SchemaQVlan,
			Field:  "portNum",
			Kind:   decoder.ErrMalformedField,
			Detail: fmt.Sprintf("negative port count %d", c.portCount),
		}
	}
	if c.vids, err = table.Ints("vids"); err != nil {
		return c, err
	}
	if c.names, err = table.Strings("names"); err != nil {
		return c, err
	}
	if c.tagged, err = table.Ints("tagMbrs"); err != nil {
		return c, err
	}
	if c.untagged, err = table.Ints("untagMbrs"); err != nil {
		return c, err
	}

	lengths := []struct {
		field string
		n     int
	}{
		{"names", len(c.names)},
		{"tagMbrs", len(c.tagged)},
		{"untagMbrs", len(c.untagged)},
	}
	for _, l := range lengths {
		if l.n < len(c.vids) {
			return c, &decoder.DecodeError{
				Schema: decoder.SchemaQVlan,
				Field:  l.field,
				Kind:   decoder.ErrMalformedField,
				Detail: fmt.Sprintf("%d entries for %d vids", l.n, len(c.vids)),
			}
		}
	}
	return c, nil
}

func (c vlanColumns) record(i int, pvids []int) VlanRecord {
	vid := c.vids[i]
	return VlanRecord{
		VID:           vid,
		Name:          c.names[i],
		TaggedPorts:   ports.MaskToPorts(uint64(c.tagged[i]), c.portCount),
		UntaggedPorts: ports.MaskToPorts(uint64(c.untagged[i]), c.portCount),
		PvidPorts:     ports.ListToPorts(pvids, vid),
		PortCount:     c.portCount,
	}
}

// ReconcileVlan builds the record for vid from the decoded VLAN table
// (qvlan_ds) and PVID table (pvid_ds). A vid missing from the table yields
// EmptyVlan; the PVID table is only read when the vid exists, so it may be
// nil in that case.
func ReconcileVlan(vid int, vlanTable, pvidTable decoder.Fields) (VlanRecord, error) {
	cols, err := readVlanColumns(vlanTable)
	if err != nil {
		return VlanRecord{}, err
	}

	i := slices.Index(cols.vids, vid)
	if i < 0 {
		return EmptyVlan(vid, cols.portCount), nil
	}

	pvids, err := pvidTable.Ints("pvids")
	if err != nil {
		return VlanRecord{}, err
	}
	return cols.record(i, pvids), nil
}

// VlanTable returns every configured VLAN in the order the switch lists them.
func VlanTable(vlanTable, pvidTable decoder.Fields) ([]VlanRecord, error) {
	cols, err := readVlanColumns(vlanTable)
	if err != nil {
		return nil, err
	}
	if len(cols.vids) == 0 {
		return []VlanRecord{}, nil
	}

	pvids, err := pvidTable.Ints("pvids")
	if err != nil {
		return nil, err
	}

	records := make([]VlanRecord, len(cols.vids))
	for i := range cols.vids {
		records[i] = cols.record(i, pvids)
	}
	return records, nil
}

// VlanWrites says which of the two independent VLAN writes are needed.
type VlanWrites struct {
	// Membership is the qvlanSet write carrying name and per-port tag codes.
	Membership bool
	// Pvid is the vlanPvidSet write assigning primary VLAN ports.
	Pvid bool
}

// Any reports whether at least one write is needed.
func (w VlanWrites) Any() bool { return w.Membership || w.Pvid }

// PlanVlanWrites compares actual with desired. The membership write is needed
// when the name or either membership set differs; the PVID write when the
// PVID set differs.
func PlanVlanWrites(actual, desired VlanRecord) VlanWrites {
	return VlanWrites{
		Membership: actual.Name != desired.Name ||
			!actual.TaggedPorts.Equal(desired.TaggedPorts) ||
			!actual.UntaggedPorts.Equal(desired.UntaggedPorts),
		Pvid: !actual.PvidPorts.Equal(desired.PvidPorts),
	}
}
