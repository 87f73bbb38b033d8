package main

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/essctl/essctl/internal/deviceconfig"
	"github.com/essctl/essctl/internal/ports"
	"github.com/essctl/essctl/internal/reconcile"
	"github.com/essctl/essctl/internal/ui"
)

// Command flags
var (
	vlanName        string
	vlanTagged      string
	vlanUntagged    string
	vlanPvid        string
	vlanAccess      string
	vlanAddTagged   string
	vlanAddUntagged string
	vlanRemove      string

	qvlanEnable  bool
	qvlanDisable bool
	assumeYes    bool

	poePorts string

	backupOutput string
)

func init() {
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(vlanCmd)
	rootCmd.AddCommand(ledsCmd)
	rootCmd.AddCommand(qvlanCmd)
	rootCmd.AddCommand(poeCmd)
	rootCmd.AddCommand(backupCmd)
}

// showCmd groups the read-only views
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show switch configuration",
	Long: `Display part of the switch configuration.

Nothing is changed on the switch. Use --format yaml or --format json for
output that can be fed to scripts; the yaml output of 'show vlan' uses the
same keys as a state file.`,
	Example: `  # All VLANs
  essctl show vlans --host 192.168.0.1

  # One VLAN as YAML
  essctl show vlan 20 --host office-sw1 --format yaml

  # Model, MAC and address
  essctl show info --host office-sw1`,
}

func init() {
	showCmd.AddCommand(
		&cobra.Command{
			Use:   "vlans",
			Short: "List all 802.1Q VLANs",
			Args:  cobra.NoArgs,
			RunE:  runShowVlans,
		},
		&cobra.Command{
			Use:   "vlan <vid>",
			Short: "Show one VLAN",
			Args:  cobra.ExactArgs(1),
			RunE:  runShowVlan,
		},
		&cobra.Command{
			Use:   "pvid",
			Short: "Show the primary VLAN of every port",
			Args:  cobra.NoArgs,
			RunE:  runShowPvid,
		},
		&cobra.Command{
			Use:   "leds",
			Short: "Show whether port LEDs are on",
			Args:  cobra.NoArgs,
			RunE:  runShowLEDs,
		},
		&cobra.Command{
			Use:   "qvlan",
			Short: "Show whether 802.1Q VLAN mode is enabled",
			Args:  cobra.NoArgs,
			RunE:  runShowQVlan,
		},
		&cobra.Command{
			Use:   "poe",
			Short: "Show PoE port status and power budget",
			Args:  cobra.NoArgs,
			RunE:  runShowPoe,
		},
		&cobra.Command{
			Use:   "info",
			Short: "Show model, MAC and IP settings",
			Args:  cobra.NoArgs,
			RunE:  runShowInfo,
		},
	)
}

// show runs a read inside a session and prints what it returns.
func show(cmd *cobra.Command, read func(ctx context.Context, t *target, s *deviceconfig.Session) (any, string, error)) error {
	if err := validateFormat(); err != nil {
		return err
	}
	return withSwitch(cmd, func(ctx context.Context, t *target, s *deviceconfig.Session) error {
		v, text, err := read(ctx, t, s)
		if err != nil {
			return err
		}
		return emit(cmd.OutOrStdout(), v, text)
	})
}

func runShowVlans(cmd *cobra.Command, args []string) error {
	return show(cmd, func(ctx context.Context, t *target, s *deviceconfig.Session) (any, string, error) {
		records, err := s.ListVlans(ctx)
		if err != nil {
			return nil, "", err
		}
		if t.entry != nil && len(records) > 0 {
			t.entry.PortCount = records[0].PortCount
		}
		return records, deviceconfig.FormatVlanTable(records), nil
	})
}

func runShowVlan(cmd *cobra.Command, args []string) error {
	vid, err := parseVID(args[0])
	if err != nil {
		return err
	}
	return show(cmd, func(ctx context.Context, _ *target, s *deviceconfig.Session) (any, string, error) {
		rec, err := s.GetVlan(ctx, vid)
		if err != nil {
			return nil, "", err
		}
		if rec.IsEmpty() {
			return rec, fmt.Sprintf("VLAN %d is not configured", vid), nil
		}
		return rec, deviceconfig.FormatVlan(rec), nil
	})
}

// portPvid is one row of 'show pvid' in structured output.
type portPvid struct {
	Port int `yaml:"port" json:"port"`
	PVID int `yaml:"pvid" json:"pvid"`
}

func runShowPvid(cmd *cobra.Command, args []string) error {
	return show(cmd, func(ctx context.Context, _ *target, s *deviceconfig.Session) (any, string, error) {
		pvids, err := s.PortPvids(ctx)
		if err != nil {
			return nil, "", err
		}
		rows := make([]portPvid, len(pvids))
		for i, vid := range pvids {
			rows[i] = portPvid{Port: i + 1, PVID: vid}
		}
		return rows, deviceconfig.FormatPvids(pvids), nil
	})
}

func runShowLEDs(cmd *cobra.Command, args []string) error {
	return show(cmd, func(ctx context.Context, _ *target, s *deviceconfig.Session) (any, string, error) {
		state, err := s.GetLEDs(ctx)
		if err != nil {
			return nil, "", err
		}
		return state, "LEDs: " + onOff(state.Enabled), nil
	})
}

func runShowQVlan(cmd *cobra.Command, args []string) error {
	return show(cmd, func(ctx context.Context, _ *target, s *deviceconfig.Session) (any, string, error) {
		state, err := s.GetQVlan(ctx)
		if err != nil {
			return nil, "", err
		}
		return state, "802.1Q VLAN mode: " + onOff(state.Enabled), nil
	})
}

func runShowPoe(cmd *cobra.Command, args []string) error {
	return show(cmd, func(ctx context.Context, _ *target, s *deviceconfig.Session) (any, string, error) {
		rec, err := s.GetPoe(ctx)
		if err != nil {
			return nil, "", err
		}
		return rec, deviceconfig.FormatPoe(rec), nil
	})
}

func runShowInfo(cmd *cobra.Command, args []string) error {
	return show(cmd, func(ctx context.Context, t *target, s *deviceconfig.Session) (any, string, error) {
		info, err := s.GetInfo(ctx)
		if err != nil {
			return nil, "", err
		}
		if t.entry != nil {
			t.entry.Description = info.Description
			t.entry.MAC = info.MAC
		}
		return info, info.Format(), nil
	})
}

// vlanCmd creates or changes one VLAN
var vlanCmd = &cobra.Command{
	Use:   "vlan <vid>",
	Short: "Create or change one VLAN",
	Long: `Bring one 802.1Q VLAN to the given name, membership and PVIDs.

Port lists use range notation ("1-3,5"); "none" is the empty list.
--tagged, --untagged and --pvid replace the current sets; the --add-*,
--access and --remove flags edit them. Ports not mentioned keep their
current membership.

802.1Q VLAN mode must be enabled (see 'essctl qvlan').`,
	Example: `  # Voice VLAN: phones on ports 5-6, uplink on 8
  essctl vlan 20 --name voice --access 5-6 --add-tagged 8

  # Replace the membership completely
  essctl vlan 20 --name voice --untagged 5-6 --pvid 5-6 --tagged 8

  # Take port 6 out of VLAN 20
  essctl vlan 20 --remove 6

  # Preview only
  essctl vlan 20 --access 7 --check`,
	Args: cobra.ExactArgs(1),
	RunE: runVlan,
}

func init() {
	f := vlanCmd.Flags()
	f.StringVar(&vlanName, "name", "", "VLAN name (required for a new VLAN)")
	f.StringVar(&vlanTagged, "tagged", "", "Tagged member ports, replacing the current set")
	f.StringVar(&vlanUntagged, "untagged", "", "Untagged member ports, replacing the current set")
	f.StringVar(&vlanPvid, "pvid", "", "Ports whose primary VLAN this is, replacing the current set")
	f.StringVar(&vlanAddTagged, "add-tagged", "", "Make ports tagged members")
	f.StringVar(&vlanAddUntagged, "add-untagged", "", "Make ports untagged members")
	f.StringVar(&vlanAccess, "access", "", "Make ports untagged members with this VLAN as PVID")
	f.StringVar(&vlanRemove, "remove", "", "Remove ports from the VLAN")
}

// vlanEdit is one builder step driven by a flag.
type vlanEdit struct {
	flag  string
	value *string
	apply func(b *deviceconfig.VlanBuilder, p []int)
}

var vlanEdits = []vlanEdit{
	{"tagged", &vlanTagged, func(b *deviceconfig.VlanBuilder, p []int) { b.SetTagged(p...) }},
	{"untagged", &vlanUntagged, func(b *deviceconfig.VlanBuilder, p []int) { b.SetUntagged(p...) }},
	{"pvid", &vlanPvid, func(b *deviceconfig.VlanBuilder, p []int) { b.SetPvid(p...) }},
	{"add-tagged", &vlanAddTagged, func(b *deviceconfig.VlanBuilder, p []int) { b.AddTagged(p...) }},
	{"add-untagged", &vlanAddUntagged, func(b *deviceconfig.VlanBuilder, p []int) { b.AddUntagged(p...) }},
	{"access", &vlanAccess, func(b *deviceconfig.VlanBuilder, p []int) { b.SetAccessPorts(p...) }},
	{"remove", &vlanRemove, func(b *deviceconfig.VlanBuilder, p []int) { b.RemovePorts(p...) }},
}

// editVlan applies the flags the user set, in a fixed order, to the
// switch's current record.
func editVlan(current reconcile.VlanRecord, changed func(string) bool) (reconcile.VlanRecord, error) {
	b := deviceconfig.NewVlanBuilder(current)
	if changed("name") {
		b.SetName(vlanName)
	}
	for _, e := range vlanEdits {
		if !changed(e.flag) {
			continue
		}
		set, err := ports.ParsePortList(*e.value)
		if err != nil {
			return reconcile.VlanRecord{}, fmt.Errorf("--%s: %w", e.flag, err)
		}
		e.apply(b, set.Ints())
	}
	return b.Build()
}

func runVlan(cmd *cobra.Command, args []string) error {
	vid, err := parseVID(args[0])
	if err != nil {
		return err
	}

	changed := cmd.Flags().Changed
	if !changed("name") && !slices.ContainsFunc(vlanEdits, func(e vlanEdit) bool { return changed(e.flag) }) {
		return fmt.Errorf("nothing to change: give --name or a port flag (see 'essctl vlan --help')")
	}

	return runEnsure(cmd, func(ctx context.Context, s *deviceconfig.Session) (deviceconfig.Result, error) {
		current, err := s.GetVlan(ctx, vid)
		if err != nil {
			return deviceconfig.Result{}, err
		}
		desired, err := editVlan(current, changed)
		if err != nil {
			return deviceconfig.Result{}, err
		}
		return s.EnsureVlan(ctx, desired, applyOptions())
	})
}

// ledsCmd switches the port LEDs
var ledsCmd = &cobra.Command{
	Use:       "leds <on|off>",
	Short:     "Turn the port LEDs on or off",
	Example:   "  essctl leds off --host office-sw1",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"on", "off"},
	RunE: func(cmd *cobra.Command, args []string) error {
		on := args[0] == "on"
		return runEnsure(cmd, func(ctx context.Context, s *deviceconfig.Session) (deviceconfig.Result, error) {
			return s.EnsureLEDs(ctx, reconcile.LedState{Enabled: on}, applyOptions())
		})
	},
}

// qvlanCmd toggles 802.1Q VLAN mode
var qvlanCmd = &cobra.Command{
	Use:   "qvlan",
	Short: "Enable or disable 802.1Q VLAN mode",
	Long: `Enable or disable 802.1Q VLAN mode.

The VLAN commands only work with 802.1Q mode enabled. Disabling it drops
the switch back to its default port-based VLAN, which can cut off access
to the management interface; essctl asks for confirmation unless --yes
or --check is given.`,
	Example: `  essctl qvlan --enable
  essctl qvlan --disable --yes`,
	Args: cobra.NoArgs,
	RunE: runQVlan,
}

func init() {
	qvlanCmd.Flags().BoolVar(&qvlanEnable, "enable", false, "Enable 802.1Q VLAN mode")
	qvlanCmd.Flags().BoolVar(&qvlanDisable, "disable", false, "Disable 802.1Q VLAN mode")
	qvlanCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Do not ask for confirmation")
	qvlanCmd.MarkFlagsMutuallyExclusive("enable", "disable")
	qvlanCmd.MarkFlagsOneRequired("enable", "disable")
}

func runQVlan(cmd *cobra.Command, args []string) error {
	if qvlanDisable && !checkMode && !assumeYes {
		host := switchHost
		if host == "" {
			host = "the switch"
		}
		if !ui.ConfirmDisableQVlan(cmd.InOrStdin(), cmd.ErrOrStderr(), host) {
			return errReported
		}
	}

	return runEnsure(cmd, func(ctx context.Context, s *deviceconfig.Session) (deviceconfig.Result, error) {
		return s.EnsureQVlan(ctx, reconcile.QVlanState{Enabled: qvlanEnable}, applyOptions())
	})
}

// poeCmd checks the PoE-enabled ports
var poeCmd = &cobra.Command{
	Use:   "poe",
	Short: "Check which ports have PoE enabled",
	Long: `Compare the PoE-enabled ports with the given list.

PoE settings cannot be changed through essctl. The command succeeds when
the switch already matches, and fails (or, with --check, reports the
difference) otherwise.`,
	Example: `  essctl poe --ports 1-4 --host garage-sw`,
	Args:    cobra.NoArgs,
	RunE:    runPoe,
}

func init() {
	poeCmd.Flags().StringVar(&poePorts, "ports", "", "Ports expected to have PoE enabled (\"none\" for no ports)")
	_ = poeCmd.MarkFlagRequired("ports")
}

func runPoe(cmd *cobra.Command, args []string) error {
	enabled, err := ports.ParsePortList(poePorts)
	if err != nil {
		return fmt.Errorf("--ports: %w", err)
	}
	return runEnsure(cmd, func(ctx context.Context, s *deviceconfig.Session) (deviceconfig.Result, error) {
		return s.EnsurePoe(ctx, reconcile.PoeState{EnabledPorts: enabled}, applyOptions())
	})
}

// backupCmd downloads the configuration file
var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Download the switch configuration backup",
	Long: `Download the configuration backup file the web UI offers.

Without --output the file is printed base64-encoded; with --output the raw
file is written, ready to be restored through the web UI.`,
	Example: `  essctl backup --host office-sw1 --output office-sw1.bin
  essctl backup --host office-sw1 --format yaml > office-sw1.yaml`,
	Args: cobra.NoArgs,
	RunE: runBackup,
}

func init() {
	backupCmd.Flags().StringVarP(&backupOutput, "output", "o", "", "Write the raw backup to this file")
}

// backupRecord is the structured output of 'backup'.
type backupRecord struct {
	File   string `yaml:"file,omitempty" json:"file,omitempty"`
	Bytes  int    `yaml:"bytes" json:"bytes"`
	Backup string `yaml:"backup,omitempty" json:"backup,omitempty"`
}

func runBackup(cmd *cobra.Command, args []string) error {
	return show(cmd, func(ctx context.Context, _ *target, s *deviceconfig.Session) (any, string, error) {
		backup, err := s.GetBackup(ctx)
		if err != nil {
			return nil, "", err
		}

		rec := backupRecord{Bytes: len(backup.Raw)}
		if backupOutput == "" {
			rec.Backup = backup.Base64()
			return rec, rec.Backup, nil
		}

		if err := os.WriteFile(backupOutput, backup.Raw, 0o600); err != nil {
			return nil, "", fmt.Errorf("failed to write backup: %w", err)
		}
		rec.File = backupOutput
		return rec, fmt.Sprintf("Wrote %d bytes to %s", rec.Bytes, rec.File), nil
	})
}

func parseVID(arg string) (int, error) {
	vid, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid VLAN ID %q", arg)
	}
	if err := deviceconfig.ValidateVID(vid); err != nil {
		return 0, err
	}
	return vid, nil
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
