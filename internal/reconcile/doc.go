// Package reconcile assembles decoded switch pages into comparable records
// and decides which writes bring a switch to a desired state.
//
// A VLAN that does not exist on the switch is represented by EmptyVlan, not
// by an error, so "absent" diffs against "desired" like any other record.
package reconcile
