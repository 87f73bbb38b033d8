// Essctl manages TP-Link Easy Smart switches from the command line.
//
// The switches are configured through their web management interface;
// essctl logs in, reads the pages the browser UI would show, and submits
// the same forms. Changes are made idempotently: each command reads the
// current state, shows what differs, writes only when needed, and reads
// back to confirm the switch took the change.
//
// Usage:
//
//	essctl [command] [flags]
//
// See 'essctl --help' for available commands.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/essctl/essctl/internal/logging"
	"github.com/essctl/essctl/internal/version"
)

// errReported marks a failure that has already been shown to the user.
var errReported = errors.New("failed")

func main() {
	// Ctrl-C cancels the running request; the session still logs out.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	logging.Sync()
	if err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "essctl",
	Short: "TP-Link Easy Smart switch manager",
	Long: `Manage TP-Link Easy Smart switches (TL-SG105E, TL-SG108E, TL-SG108PE,
TL-SG116E, ...) through their web management interface.

Settings are applied idempotently: essctl reads the switch, shows the
difference, and only writes what needs to change. Use --check to see what
would change without touching the switch.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logging.Initialize(logLevel)
	},
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", version.Name, version.Full())
	},
}
