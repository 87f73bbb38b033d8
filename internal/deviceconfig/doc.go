// Package deviceconfig manages TP-Link Easy Smart switches through their web
// management interface.
//
// The switches have no API. Configuration is read by fetching the pages of
// the web UI and decoding the JavaScript objects embedded in them, and it is
// written by requesting the same CGI actions the UI's forms submit.
//
// # Sessions
//
// The switch tracks a single logged-in client by IP address. All work
// happens inside Client.WithSession, which logs in, runs a function with a
// *Session, and always logs out afterwards:
//
//	client := deviceconfig.NewClient("192.168.0.1")
//	client.SetAuth("admin", password)
//
//	err := client.WithSession(ctx, func(s *deviceconfig.Session) error {
//	    vlans, err := s.ListVlans(ctx)
//	    if err != nil {
//	        return err
//	    }
//	    fmt.Print(deviceconfig.FormatVlanTable(vlans))
//	    return nil
//	})
//
// # Desired State
//
// The Ensure* methods bring one setting to a desired state:
//  1. Read the current state from the switch
//  2. Diff it against the desired state
//  3. Stop if nothing differs, or if ApplyOptions.Check is set
//  4. Issue the write actions
//  5. Read back until the switch reports the desired state
//
// Each returns a Result with the before/after diff rendered as YAML.
//
//	res, err := s.EnsureVlan(ctx, reconcile.VlanRecord{
//	    VID:           20,
//	    Name:          "voice",
//	    UntaggedPorts: ports.NewPortSet(5, 6),
//	    PvidPorts:     ports.NewPortSet(5, 6),
//	}, deviceconfig.ApplyOptions{})
//
// # Retries
//
// Page reads are retried with exponential backoff on network and 5xx
// errors. Write actions are sent exactly once; a lost response is detected
// by the read-back instead.
//
// PoE settings can be read but not written.
//
// # Error Handling
//
// Errors are *DeviceError values classified by ErrorType. Use the Is*
// helpers to inspect them and GetTroubleshootingHint for a user-facing
// suggestion.
package deviceconfig
