package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/essctl/essctl/internal/config"
	"github.com/essctl/essctl/internal/discovery"
	"github.com/essctl/essctl/internal/ui"
)

var (
	scanTimeout int
	scanPattern string
	scanSave    bool
)

func init() {
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(switchesCmd)
}

// scanCmd discovers switches on the network
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan for Easy Smart switches on the network",
	Long: `Scan for switch web consoles using mDNS/DNS-SD discovery.

Only hosts whose name matches the host pattern are listed; the default
matches TP-Link Easy Smart model names such as TL-SG108E. Switches that do
not announce themselves via mDNS have to be given by address with --host.`,
	Example: `  # Scan for 5 seconds (default)
  essctl scan

  # Remember what was found, so --host can use the nicknames
  essctl scan --save

  # Match other host names
  essctl scan --pattern '^(sw-[a-z0-9]+)\.local\.?$'`,
	Args: cobra.NoArgs,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().IntVar(&scanTimeout, "scan-timeout", 0, "Scan duration in seconds (default: from config, 5)")
	scanCmd.Flags().StringVar(&scanPattern, "pattern", "", "Host name regexp; its first group is the model")
	scanCmd.Flags().BoolVar(&scanSave, "save", false, "Save found switches to the config file")
}

// scanRecord is one found switch in structured output.
type scanRecord struct {
	Name     string            `yaml:"name" json:"name"`
	Model    string            `yaml:"model" json:"model"`
	Host     string            `yaml:"host" json:"host"`
	Hostname string            `yaml:"hostname" json:"hostname"`
	Metadata map[string]string `yaml:"metadata,omitempty" json:"metadata,omitempty"`
}

func runScan(cmd *cobra.Command, args []string) error {
	if err := validateFormat(); err != nil {
		return err
	}

	reg := loadRegistry()
	scanner := discovery.NewScanner()
	switch {
	case scanTimeout > 0:
		scanner.Timeout = time.Duration(scanTimeout) * time.Second
	case reg.Preferences != nil && reg.Preferences.DiscoverTimeout > 0:
		scanner.Timeout = time.Duration(reg.Preferences.DiscoverTimeout) * time.Second
	}
	if scanPattern != "" {
		if err := scanner.SetPattern(scanPattern); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	if outputFormat == "text" {
		ui.NewPrinter(out).PrintPleaseWait("Scanning for switches", scanner.Timeout.String())
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	found, err := scanner.Scan(ctx)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if scanSave && len(found) > 0 {
		saveFound(reg, found)
		if err := reg.Save(); err != nil {
			return err
		}
	}

	records := make([]scanRecord, len(found))
	for i, sw := range found {
		records[i] = scanRecord{
			Name:     sw.Nickname(),
			Model:    sw.Model,
			Host:     sw.Address(),
			Hostname: sw.Hostname,
			Metadata: sw.Metadata,
		}
	}
	return emit(out, records, formatScan(found, scanSave))
}

// saveFound records found switches under their nicknames. Entries the
// user already has keep their username and description.
func saveFound(reg *config.Registry, found []*discovery.Switch) {
	for _, sw := range found {
		name := sw.Nickname()
		reg.UpdateSwitchSeen(name, sw.Address())
		if entry := reg.GetSwitch(name); entry.Description == "" {
			entry.Description = sw.Model
		}
	}
}

func formatScan(found []*discovery.Switch, saved bool) string {
	if len(found) == 0 {
		return strings.Join([]string{
			"No switches found.",
			"",
			"Troubleshooting:",
			"  - Easy Smart firmware only announces itself on some models and versions",
			"  - mDNS does not cross routers; scan from the switch's subnet",
			"  - Try increasing --scan-timeout",
			"  - Use --host with the switch's IP address if discovery fails",
		}, "\n")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d switch(es):\n\n", len(found))
	for i, sw := range found {
		fmt.Fprintf(&b, "%d. %s\n", i+1, sw.Nickname())
		fmt.Fprintf(&b, "   Model:   %s\n", sw.Model)
		fmt.Fprintf(&b, "   Address: %s\n", sw.Address())
		if len(sw.Metadata) > 0 {
			fmt.Fprintf(&b, "   Metadata: %v\n", sw.Metadata)
		}
		b.WriteString("\n")
	}
	if saved {
		b.WriteString("Saved. Use 'essctl show info --host <name>' to connect.")
	} else {
		b.WriteString("Use 'essctl scan --save' to remember these switches.")
	}
	return b.String()
}

// switchesCmd lists and edits the saved switches
var switchesCmd = &cobra.Command{
	Use:   "switches",
	Short: "List saved switches",
	Long: `List the switches saved in the config file.

Saved switches can be addressed by nickname with --host. Passwords are
never saved.`,
	Args: cobra.NoArgs,
	RunE: runSwitches,
}

func init() {
	addCmd := &cobra.Command{
		Use:     "add <name> <host>",
		Short:   "Save a switch under a nickname",
		Example: "  essctl switches add office-sw1 192.168.0.1 --username admin",
		Args:    cobra.ExactArgs(2),
		RunE:    runSwitchesAdd,
	}
	switchesCmd.AddCommand(addCmd, &cobra.Command{
		Use:   "rm <name>",
		Short: "Forget a saved switch",
		Args:  cobra.ExactArgs(1),
		RunE:  runSwitchesRm,
	})
}

// switchRecord is one saved switch in structured output.
type switchRecord struct {
	Name          string `yaml:"name" json:"name"`
	config.Switch `yaml:",inline"`
}

func runSwitches(cmd *cobra.Command, args []string) error {
	if err := validateFormat(); err != nil {
		return err
	}

	reg := loadRegistry()
	names := reg.Names()
	records := make([]switchRecord, len(names))
	for i, name := range names {
		records[i] = switchRecord{Name: name, Switch: *reg.GetSwitch(name)}
	}
	return emit(cmd.OutOrStdout(), records, formatSwitches(reg))
}

func formatSwitches(reg *config.Registry) string {
	names := reg.Names()
	if len(names) == 0 {
		return "No saved switches. Use 'essctl scan --save' or 'essctl switches add'."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%-20s %-22s %-12s %s\n", "NAME", "HOST", "MODEL", "LAST SEEN")
	for _, name := range names {
		sw := reg.GetSwitch(name)
		seen := "never"
		if !sw.LastSeen.IsZero() {
			seen = sw.LastSeen.Local().Format("2006-01-02 15:04")
		}
		fmt.Fprintf(&b, "%-20s %-22s %-12s %s\n", name, sw.Host, sw.Description, seen)
	}
	return b.String()
}

func runSwitchesAdd(cmd *cobra.Command, args []string) error {
	reg, err := config.LoadRegistry()
	if err != nil {
		return err
	}

	sw := reg.EnsureSwitch(args[0])
	sw.Host = args[1]
	if username != "" {
		sw.Username = username
	}
	if err := reg.Save(); err != nil {
		return err
	}

	ui.NewPrinter(cmd.OutOrStdout()).PrintSuccess("Switch saved", map[string]string{
		"Name": args[0],
		"Host": sw.Host,
	})
	return nil
}

func runSwitchesRm(cmd *cobra.Command, args []string) error {
	reg, err := config.LoadRegistry()
	if err != nil {
		return err
	}
	if !reg.RemoveSwitch(args[0]) {
		return fmt.Errorf("no saved switch named %q", args[0])
	}
	if err := reg.Save(); err != nil {
		return err
	}

	ui.NewPrinter(cmd.OutOrStdout()).PrintSuccess("Switch removed", map[string]string{"Name": args[0]})
	return nil
}
