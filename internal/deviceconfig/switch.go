package deviceconfig

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/essctl/essctl/internal/decoder"
	"github.com/essctl/essctl/internal/logging"
	"github.com/essctl/essctl/internal/ports"
	"github.com/essctl/essctl/internal/reconcile"
)

// fetchDecoded reads path and decodes it with the given schemas.
func (s *Session) fetchDecoded(ctx context.Context, path string, schemas ...string) (decoder.Fields, error) {
	raw, err := s.FetchPage(ctx, path)
	if err != nil {
		return nil, err
	}
	fields, err := decoder.ClassifyMulti(raw, schemas)
	if err != nil {
		return nil, NewParseError(fmt.Sprintf("decode %s", path), err)
	}
	return fields, nil
}

// VlanTable reads and decodes the 802.1Q VLAN table page.
func (s *Session) VlanTable(ctx context.Context) (decoder.Fields, error) {
	return s.fetchDecoded(ctx, PathVlanTable, decoder.SchemaQVlan)
}

// PvidTable reads and decodes the PVID page.
func (s *Session) PvidTable(ctx context.Context) (decoder.Fields, error) {
	return s.fetchDecoded(ctx, PathPvidTable, decoder.SchemaPvid)
}

func requireQVlan(table decoder.Fields) error {
	enabled, err := table.Bool("state")
	if err != nil {
		return NewParseError("decode 802.1Q state", err)
	}
	if !enabled {
		return NewUnsupportedError("cannot read VLANs", ErrQVlanDisabled)
	}
	return nil
}

// GetVlan returns the switch's record for vid, or reconcile.EmptyVlan when
// the VLAN is not configured. The PVID page is only read for existing VLANs.
func (s *Session) GetVlan(ctx context.Context, vid int) (reconcile.VlanRecord, error) {
	table, err := s.VlanTable(ctx)
	if err != nil {
		return reconcile.VlanRecord{}, err
	}
	if err := requireQVlan(table); err != nil {
		return reconcile.VlanRecord{}, err
	}

	vids, err := table.Ints("vids")
	if err != nil {
		return reconcile.VlanRecord{}, NewParseError("decode VLAN table", err)
	}

	var pvids decoder.Fields
	if slices.Contains(vids, vid) {
		if pvids, err = s.PvidTable(ctx); err != nil {
			return reconcile.VlanRecord{}, err
		}
	}

	rec, err := reconcile.ReconcileVlan(vid, table, pvids)
	if err != nil {
		return reconcile.VlanRecord{}, NewParseError("assemble VLAN record", err)
	}
	return rec, nil
}

// ListVlans returns every configured VLAN.
func (s *Session) ListVlans(ctx context.Context) ([]reconcile.VlanRecord, error) {
	table, err := s.VlanTable(ctx)
	if err != nil {
		return nil, err
	}
	if err := requireQVlan(table); err != nil {
		return nil, err
	}
	pvids, err := s.PvidTable(ctx)
	if err != nil {
		return nil, err
	}
	records, err := reconcile.VlanTable(table, pvids)
	if err != nil {
		return nil, NewParseError("assemble VLAN table", err)
	}
	return records, nil
}

// PortPvids returns the primary VLAN of each port, indexed by port-1.
func (s *Session) PortPvids(ctx context.Context) ([]int, error) {
	table, err := s.PvidTable(ctx)
	if err != nil {
		return nil, err
	}
	pvids, err := table.Ints("pvids")
	if err != nil {
		return nil, NewParseError("decode PVID table", err)
	}
	return pvids, nil
}

// SetVlan writes the name and membership of vid. Tagged and untagged must
// not overlap; this is checked before anything is sent.
func (s *Session) SetVlan(ctx context.Context, vid int, name string, portCount int, tagged, untagged ports.PortSet) error {
	codes, err := ports.PortsToTagCodes(portCount, tagged, untagged)
	if err != nil {
		return newValidationErrorWithCause(fmt.Sprintf("VLAN %d membership", vid), err)
	}
	_, err = s.Apply(ctx, VlanSetQuery(vid, name, codes))
	return err
}

// SetPvid makes vid the primary VLAN of the given ports.
func (s *Session) SetPvid(ctx context.Context, vid int, pvidPorts ports.PortSet) error {
	_, err := s.Apply(ctx, PvidSetQuery(vid, ports.PortsToPvidBitmask(pvidPorts)))
	return err
}

// ApplyVlan issues the writes needed to turn actual into desired. The
// desired record is validated first and nothing is sent if it is invalid.
// The membership and PVID writes are independent: both are attempted and
// their failures joined. Port count always comes from actual.
func (s *Session) ApplyVlan(ctx context.Context, actual, desired reconcile.VlanRecord) (reconcile.VlanWrites, error) {
	if _, critical := SeparateWarningsAndErrors(ValidateVlanRecord(desired, actual.PortCount)); len(critical) > 0 {
		return reconcile.VlanWrites{}, errors.Join(critical...)
	}

	writes := reconcile.PlanVlanWrites(actual, desired)
	var errs []error

	if writes.Membership {
		if err := s.SetVlan(ctx, desired.VID, desired.Name, actual.PortCount, desired.TaggedPorts, desired.UntaggedPorts); err != nil {
			errs = append(errs, fmt.Errorf("VLAN %d membership: %w", desired.VID, err))
		}
	}
	if writes.Pvid {
		if err := s.SetPvid(ctx, desired.VID, desired.PvidPorts); err != nil {
			errs = append(errs, fmt.Errorf("VLAN %d PVID: %w", desired.VID, err))
		}
	}

	if len(errs) > 0 {
		logging.Warn("VLAN write failed", zap.Int("vid", desired.VID), zap.Errors("errors", errs))
	}
	return writes, errors.Join(errs...)
}

// GetLEDs reads the port LED switch.
func (s *Session) GetLEDs(ctx context.Context) (reconcile.LedState, error) {
	raw, err := s.FetchPage(ctx, PathLED)
	if err != nil {
		return reconcile.LedState{}, err
	}
	on, err := decoder.DecodeLED(raw)
	if err != nil {
		return reconcile.LedState{}, NewParseError("decode LED state", err)
	}
	return reconcile.LedState{Enabled: on}, nil
}

// SetLEDs switches the port LEDs on or off.
func (s *Session) SetLEDs(ctx context.Context, on bool) error {
	_, err := s.Apply(ctx, LEDQuery(on))
	return err
}

// GetQVlan reads whether 802.1Q VLAN mode is enabled.
func (s *Session) GetQVlan(ctx context.Context) (reconcile.QVlanState, error) {
	raw, err := s.FetchPage(ctx, PathVlanTable)
	if err != nil {
		return reconcile.QVlanState{}, err
	}
	enabled, err := decoder.DecodeQVlanEnabled(raw)
	if err != nil {
		return reconcile.QVlanState{}, NewParseError("decode 802.1Q state", err)
	}
	return reconcile.QVlanState{Enabled: enabled}, nil
}

// SetQVlan switches 802.1Q VLAN mode on or off.
func (s *Session) SetQVlan(ctx context.Context, enabled bool) error {
	_, err := s.Apply(ctx, QVlanQuery(enabled))
	return err
}

// GetPoe reads the PoE port table and power budget.
func (s *Session) GetPoe(ctx context.Context) (reconcile.PoeRecord, error) {
	fields, err := s.fetchDecoded(ctx, PathPoe, decoder.SchemaPortConfig, decoder.SchemaGlobalConfig)
	if err != nil {
		return reconcile.PoeRecord{}, err
	}
	rec, err := reconcile.PoeFromFields(fields)
	if err != nil {
		return reconcile.PoeRecord{}, NewParseError("assemble PoE record", err)
	}
	return rec, nil
}

// GetInfo reads the system information page.
func (s *Session) GetInfo(ctx context.Context) (DeviceInfo, error) {
	fields, err := s.fetchDecoded(ctx, PathSystemInfo, decoder.SchemaInfo)
	if err != nil {
		return DeviceInfo{}, err
	}
	info, err := InfoFromFields(fields)
	if err != nil {
		return DeviceInfo{}, NewParseError("assemble system info", err)
	}
	return info, nil
}

// GetBackup downloads the switch configuration file.
func (s *Session) GetBackup(ctx context.Context) (Backup, error) {
	raw, err := s.FetchPage(ctx, PathBackup)
	if err != nil {
		return Backup{}, err
	}
	return Backup{Raw: raw}, nil
}
