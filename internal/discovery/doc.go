// Package discovery finds Easy Smart switches on the local network with
// multicast DNS.
//
// Web consoles are browsed as "_http._tcp" services. Entries whose hostname
// matches the scanner's pattern (by default the TL-SG and TL-SX model
// prefixes) are reported as switches.
//
//	scanner := discovery.NewScanner()
//	switches, err := scanner.Scan(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, sw := range switches {
//	    fmt.Println(sw)
//	}
//
// Many firmware versions do not advertise themselves at all; a scan that
// finds nothing does not mean no switch is present. Multicast must be
// allowed on the interface (UDP port 5353).
package discovery
